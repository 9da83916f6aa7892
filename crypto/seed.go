package crypto

// HKDF info labels, one per consumer of a derived seed.
const (
	LabelIdentity       = "identity"
	LabelAttestation    = "attestation"
	LabelSpMeasure      = "sp-measure"
	LabelTrustQuorumDHE = "trust-quorum-dhe"
	LabelRng            = "rng"
	LabelPersistID      = "persist-id"
)

// SeedBuf is a 32-byte secret that exposes its bytes read-only.
type SeedBuf interface {
	Bytes() *[SeedLength]byte
	Zeroize()
}

// seed is the owned storage shared by every seed type.
type seed [SeedLength]byte

func (s *seed) Bytes() *[SeedLength]byte { return (*[SeedLength]byte)(s) }

func (s *seed) Zeroize() { clear(s[:]) }

// IsZero reports whether every byte is zero.
func (s *seed) IsZero() bool {
	var acc byte
	for _, b := range s {
		acc |= b
	}
	return acc == 0
}

// Cdi is the root compound device identifier.
type Cdi struct{ seed }

// NewCdi copies b into a Cdi. The caller should erase b.
func NewCdi(b [SeedLength]byte) *Cdi {
	return &Cdi{seed(b)}
}

// CdiL1 is the layer 1 CDI, bound to the measurement of the booted image.
type CdiL1 struct{ seed }

// NewCdiL1 derives CDI_L1 with HKDF(salt=fwid, ikm=cdi, info="").
func NewCdiL1(cdi *Cdi, fwid [32]byte) *CdiL1 {
	return &CdiL1{seed(extractExpand(fwid[:], cdi.Bytes()[:], nil))}
}

// DeviceIDOkm seeds the DeviceId key pair.
type DeviceIDOkm struct{ seed }

func NewDeviceIDOkm(cdi *Cdi) *DeviceIDOkm {
	return &DeviceIDOkm{seed(expand(cdi.Bytes()[:], []byte(LabelIdentity)))}
}

// AliasOkm seeds the Alias key used to sign attestations.
type AliasOkm struct{ seed }

func NewAliasOkm(l1 *CdiL1) *AliasOkm {
	return &AliasOkm{seed(expand(l1.Bytes()[:], []byte(LabelAttestation)))}
}

// AliasOkmFromBytes wraps seed material read back from handoff memory.
func AliasOkmFromBytes(b [SeedLength]byte) *AliasOkm {
	return &AliasOkm{seed(b)}
}

// SpMeasureOkm seeds the key of the SP measurement task.
type SpMeasureOkm struct{ seed }

func NewSpMeasureOkm(l1 *CdiL1) *SpMeasureOkm {
	return &SpMeasureOkm{seed(expand(l1.Bytes()[:], []byte(LabelSpMeasure)))}
}

func SpMeasureOkmFromBytes(b [SeedLength]byte) *SpMeasureOkm {
	return &SpMeasureOkm{seed(b)}
}

// TrustQuorumDHEOkm seeds the trust quorum Diffie-Hellman key.
type TrustQuorumDHEOkm struct{ seed }

func NewTrustQuorumDHEOkm(l1 *CdiL1) *TrustQuorumDHEOkm {
	return &TrustQuorumDHEOkm{seed(expand(l1.Bytes()[:], []byte(LabelTrustQuorumDHE)))}
}

func TrustQuorumDHEOkmFromBytes(b [SeedLength]byte) *TrustQuorumDHEOkm {
	return &TrustQuorumDHEOkm{seed(b)}
}

// RngSeed is mixed into the initial state of the reseeding RNG.
type RngSeed struct{ seed }

func NewRngSeed(l1 *CdiL1) *RngSeed {
	return &RngSeed{seed(expand(l1.Bytes()[:], []byte(LabelRng)))}
}

// RngSeedFromBytes wraps seed material read back from handoff memory.
func RngSeedFromBytes(b [SeedLength]byte) *RngSeed {
	return &RngSeed{seed(b)}
}

// PersistIDSeed seeds the long-lived PersistentId key pair.
type PersistIDSeed struct{ seed }

// NewPersistIDSeed derives the seed from the CDI, used by builds without a
// PUF.
func NewPersistIDSeed(cdi *Cdi) *PersistIDSeed {
	return &PersistIDSeed{seed(expand(cdi.Bytes()[:], []byte(LabelPersistID)))}
}

// PersistIDSeedFromBytes wraps a key regenerated by the PUF.
func PersistIDSeedFromBytes(b [SeedLength]byte) *PersistIDSeed {
	return &PersistIDSeed{seed(b)}
}
