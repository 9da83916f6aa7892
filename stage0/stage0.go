// Package stage0 runs the DICE identity pipeline before the kernel starts.
//
// Run reads the CDI once, establishes the PersistentId identity, certifies
// the DeviceId key under it and derives the per-image keys of the
// downstream tasks from CDI_L1. Everything a task needs is left in its
// handoff region:
//
//   - CERTS: the PersistentId, DeviceId and intermediate certificates
//   - ALIAS: the Alias and TrustQuorumDHE seeds and leaf certificates
//   - SPMEASURE: the SpMeasure seed and leaf certificate
//   - RNG: the seed of the RNG server
//
// Derivation and signing failures panic. Errors are returned only for
// hardware the manufacturing step reaches, such as flash and the USART.
package stage0

import (
	"context"
	"fmt"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/handoff"
	"github.com/anchorageoss/rot-dice/verify"
)

// Result describes the identity stage0 established. It holds no secrets.
type Result struct {
	// Enabled is false when the boot ROM left DICE disabled.
	Enabled      bool
	FWID         [32]byte
	SerialNumber cert.SerialNumber
	ChainLen     int
}

// Run executes the pipeline on b. The handoff memory is left powered.
func Run(ctx context.Context, b *Board) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	log := b.logger()
	h := handoff.TurnOn(b.Syscon, b.Handoff)

	raw := b.Cdi.ReadAndClear()
	defer clear(raw[:])
	if raw == [crypto.SeedLength]byte{} {
		log.Info("dice disabled, no identity produced")
		return &Result{}, nil
	}
	cdi := crypto.NewCdi(raw)
	defer cdi.Zeroize()

	devSeed := crypto.NewDeviceIDOkm(cdi)
	deviceID := crypto.NewKeypair(devSeed)
	devSeed.Zeroize()
	defer deviceID.Zeroize()

	builder := cert.NewBuilder(b.Clock)
	m, err := b.diceMfg(cdi, builder)
	if err != nil {
		return nil, err
	}
	id, err := m.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to establish persistent id: %w", err)
	}
	defer id.Zeroize()

	serial := id.CertSerialNumber
	deviceIDCert := builder.DeviceID(serial.Next(), id.SerialNumber, deviceID.Public(), id.PersistIDKeypair)
	store(h, handoff.NewCertData(id.PersistIDCert, deviceIDCert, id.IntermediateCert))

	fwid := crypto.Sum256(b.Image)
	l1 := crypto.NewCdiL1(cdi, fwid)
	defer l1.Zeroize()

	leaves := leafIssuer{
		builder:  builder,
		sn:       id.SerialNumber,
		fwid:     fwid,
		deviceID: deviceID,
	}
	aliasArtifacts(h, l1, &leaves)
	spMeasureArtifacts(h, l1, &leaves)
	rngArtifacts(h, l1)

	chainLen := selfCheck(h.Memory(), fwid, id.SerialNumber)
	log.Info("dice identity established",
		"mode", b.Mode,
		"serial_number", id.SerialNumber,
		"chain_len", chainLen,
		"fwid", fmt.Sprintf("%x", fwid))
	return &Result{Enabled: true, FWID: fwid, SerialNumber: id.SerialNumber, ChainLen: chainLen}, nil
}

// store writes d to its handoff region. Every payload is sized to its
// region and the memory is powered, so a failure is a layout bug.
func store(h *handoff.Handoff, d handoff.Data) {
	if _, err := h.Store(d); err != nil {
		panic(fmt.Sprintf("stage0: %v", err))
	}
}

// leafIssuer signs the FWID-bearing leaves with the DeviceId key. serial
// is incremented once per leaf in issue order.
type leafIssuer struct {
	builder  *cert.Builder
	serial   cert.CertSerialNumber
	sn       cert.SerialNumber
	fwid     [32]byte
	deviceID *crypto.Keypair
}

func (l *leafIssuer) issue(t *cert.Template, kp *crypto.Keypair) *cert.Cert {
	return l.builder.Leaf(t, l.serial.Next(), l.sn, kp.Public(), l.fwid, l.deviceID)
}

func aliasArtifacts(h *handoff.Handoff, l1 *crypto.CdiL1, leaves *leafIssuer) {
	aliasSeed := crypto.NewAliasOkm(l1)
	defer aliasSeed.Zeroize()
	alias := crypto.NewKeypair(aliasSeed)
	defer alias.Zeroize()
	aliasCert := leaves.issue(cert.AliasTemplate, alias)

	tqdheSeed := crypto.NewTrustQuorumDHEOkm(l1)
	defer tqdheSeed.Zeroize()
	tqdhe := crypto.NewKeypair(tqdheSeed)
	defer tqdhe.Zeroize()
	tqdheCert := leaves.issue(cert.TrustQuorumDHETemplate, tqdhe)

	d := handoff.NewAliasData(aliasSeed, aliasCert, tqdheSeed, tqdheCert)
	defer d.Zeroize()
	store(h, d)
}

func spMeasureArtifacts(h *handoff.Handoff, l1 *crypto.CdiL1, leaves *leafIssuer) {
	seed := crypto.NewSpMeasureOkm(l1)
	defer seed.Zeroize()
	kp := crypto.NewKeypair(seed)
	defer kp.Zeroize()

	d := handoff.NewSpMeasureData(seed, leaves.issue(cert.SpMeasureTemplate, kp))
	defer d.Zeroize()
	store(h, d)
}

func rngArtifacts(h *handoff.Handoff, l1 *crypto.CdiL1) {
	seed := crypto.NewRngSeed(l1)
	defer seed.Zeroize()
	d := handoff.NewRngData(seed)
	defer d.Zeroize()
	store(h, d)
}

// selfCheck reads the chain back from handoff memory and verifies every
// link stage0 is responsible for. A failure means the identity cannot be
// trusted and panics. It returns the chain length.
func selfCheck(mem handoff.Memory, fwid [32]byte, sn cert.SerialNumber) int {
	certs, err := handoff.LoadCertData(mem)
	if err != nil {
		panic(fmt.Sprintf("stage0: self-check: %v", err))
	}
	alias, err := handoff.LoadAliasData(mem)
	if err != nil {
		panic(fmt.Sprintf("stage0: self-check: %v", err))
	}
	defer alias.Zeroize()
	sp, err := handoff.LoadSpMeasureData(mem)
	if err != nil {
		panic(fmt.Sprintf("stage0: self-check: %v", err))
	}
	defer sp.Zeroize()

	chain := [][]byte{alias.AliasCert[:], certs.DeviceIDCert[:], certs.PersistIDCert.Bytes()}
	if certs.HasIntermediate() {
		chain = append(chain, certs.IntermediateCert.Bytes())
	}
	parsed, err := verify.ParseChain(chain)
	if err != nil {
		panic(fmt.Sprintf("stage0: self-check: %v", err))
	}

	// The intermediate is anchored off the board; stop at its key.
	var root []byte
	links := parsed
	if len(parsed) == 4 {
		links, root = parsed[:3], parsed[3].PublicKey
	}
	if _, err := verify.VerifyChain(links, root); err != nil {
		panic(fmt.Sprintf("stage0: self-check: %v", err))
	}

	devicePub := parsed[1].PublicKey
	for _, leaf := range []struct {
		t   *cert.Template
		der []byte
	}{
		{cert.AliasTemplate, alias.AliasCert[:]},
		{cert.TrustQuorumDHETemplate, alias.TqdheCert[:]},
		{cert.SpMeasureTemplate, sp.SpMeasureCert[:]},
	} {
		c, err := cert.FromBytes(leaf.t, leaf.der)
		if err != nil {
			panic(fmt.Sprintf("stage0: self-check: %v", err))
		}
		if err := c.Verify(devicePub); err != nil {
			panic(fmt.Sprintf("stage0: self-check: leaf: %v", err))
		}
		got, err := c.FWID()
		if err != nil || got != fwid || c.SubjectSN() != sn {
			panic("stage0: self-check: leaf does not carry the boot measurement")
		}
	}
	return len(parsed)
}
