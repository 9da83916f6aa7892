package handoff

import (
	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
)

// CertData carries the identity certificates common to every task.
type CertData struct {
	Magic            Magic                   `borsh:"magic"`
	PersistIDCert    cert.SizedBlob          `borsh:"persist_id_cert"`
	DeviceIDCert     [cert.DeviceIDSize]byte `borsh:"device_id_cert"`
	IntermediateCert cert.SizedBlob          `borsh:"intermediate_cert"`
}

// NewCertData frames the chain. An empty intermediate blob marks a
// self-signed identity.
func NewCertData(persistID cert.SizedBlob, deviceID *cert.Cert, intermediate cert.SizedBlob) *CertData {
	d := &CertData{
		Magic:            CertsMagic,
		PersistIDCert:    persistID,
		IntermediateCert: intermediate,
	}
	copy(d.DeviceIDCert[:], deviceID.Bytes())
	return d
}

func (*CertData) Region() Region { return CertsRegion }
func (*CertData) ExpectedMagic() Magic { return CertsMagic }
func (d *CertData) GetMagic() Magic { return d.Magic }

// HasIntermediate reports whether the chain carries a manufacturing
// intermediate.
func (d *CertData) HasIntermediate() bool { return !d.IntermediateCert.IsEmpty() }

// AliasData carries the attestation keys and their certificates.
type AliasData struct {
	Magic     Magic                         `borsh:"magic"`
	AliasSeed [crypto.SeedLength]byte       `borsh:"alias_seed"`
	AliasCert [cert.AliasSize]byte          `borsh:"alias_cert"`
	TqdheSeed [crypto.SeedLength]byte       `borsh:"tqdhe_seed"`
	TqdheCert [cert.TrustQuorumDHESize]byte `borsh:"tqdhe_cert"`
}

// NewAliasData copies the seeds and certificates into a payload.
func NewAliasData(alias *crypto.AliasOkm, aliasCert *cert.Cert, tqdhe *crypto.TrustQuorumDHEOkm, tqdheCert *cert.Cert) *AliasData {
	d := &AliasData{
		Magic:     AliasMagic,
		AliasSeed: *alias.Bytes(),
		TqdheSeed: *tqdhe.Bytes(),
	}
	copy(d.AliasCert[:], aliasCert.Bytes())
	copy(d.TqdheCert[:], tqdheCert.Bytes())
	return d
}

func (*AliasData) Region() Region { return AliasRegion }
func (*AliasData) ExpectedMagic() Magic { return AliasMagic }
func (d *AliasData) GetMagic() Magic { return d.Magic }

// AliasOkm returns a copy of the Alias seed. The caller owns and zeroizes
// it.
func (d *AliasData) AliasOkm() *crypto.AliasOkm { return crypto.AliasOkmFromBytes(d.AliasSeed) }

func (d *AliasData) TrustQuorumDHEOkm() *crypto.TrustQuorumDHEOkm {
	return crypto.TrustQuorumDHEOkmFromBytes(d.TqdheSeed)
}

// Zeroize erases both seeds.
func (d *AliasData) Zeroize() {
	clear(d.AliasSeed[:])
	clear(d.TqdheSeed[:])
}

// SpMeasureData carries the key of the SP measurement task.
type SpMeasureData struct {
	Magic         Magic                    `borsh:"magic"`
	Seed          [crypto.SeedLength]byte  `borsh:"seed"`
	SpMeasureCert [cert.SpMeasureSize]byte `borsh:"spmeasure_cert"`
}

func NewSpMeasureData(seed *crypto.SpMeasureOkm, c *cert.Cert) *SpMeasureData {
	d := &SpMeasureData{Magic: SpMeasureMagic, Seed: *seed.Bytes()}
	copy(d.SpMeasureCert[:], c.Bytes())
	return d
}

func (*SpMeasureData) Region() Region { return SpMeasureRegion }
func (*SpMeasureData) ExpectedMagic() Magic { return SpMeasureMagic }
func (d *SpMeasureData) GetMagic() Magic { return d.Magic }

func (d *SpMeasureData) SpMeasureOkm() *crypto.SpMeasureOkm {
	return crypto.SpMeasureOkmFromBytes(d.Seed)
}

func (d *SpMeasureData) Zeroize() { clear(d.Seed[:]) }

// RngData carries the measured-boot seed for the RNG server.
type RngData struct {
	Magic Magic                   `borsh:"magic"`
	Seed  [crypto.SeedLength]byte `borsh:"seed"`
}

func NewRngData(seed *crypto.RngSeed) *RngData {
	return &RngData{Magic: RngMagic, Seed: *seed.Bytes()}
}

func (*RngData) Region() Region { return RngRegion }
func (*RngData) ExpectedMagic() Magic { return RngMagic }
func (d *RngData) GetMagic() Magic { return d.Magic }

func (d *RngData) RngSeed() *crypto.RngSeed { return crypto.RngSeedFromBytes(d.Seed) }

func (d *RngData) Zeroize() { clear(d.Seed[:]) }
