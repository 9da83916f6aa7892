package cert

import (
	"fmt"

	"k8s.io/utils/clock"

	"github.com/anchorageoss/rot-dice/crypto"
)

// Request holds the fields stamped into a template.
type Request struct {
	Serial    CertSerialNumber
	IssuerSN  SerialNumber
	SubjectSN SerialNumber
	PublicKey [crypto.PublicKeySize]byte

	// FWID is required by leaf templates and rejected by the others.
	FWID *[32]byte
}

// Builder issues certificates stamped with the current time.
type Builder struct {
	clock clock.PassiveClock
}

// NewBuilder returns a Builder reading not-before from c.
func NewBuilder(c clock.PassiveClock) *Builder {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Builder{clock: c}
}

// Issue fills t from req and signs it with signer. A request that does not
// match the template shape is a programming error and panics.
func (b *Builder) Issue(t *Template, req Request, signer *crypto.Keypair) *Cert {
	c := newCert(t)
	c.SetSerialNumber(req.Serial)
	c.SetIssuerSN(req.IssuerSN)
	c.SetSubjectSN(req.SubjectSN)
	c.SetNotBefore(b.clock.Now())
	c.SetPublicKey(req.PublicKey)
	switch {
	case req.FWID != nil && !t.FWID.IsZero():
		c.SetFWID(*req.FWID)
	case req.FWID == nil && t.FWID.IsZero():
	default:
		panic(fmt.Sprintf("template %s: fwid presence mismatch", t.Name))
	}
	c.Sign(signer)
	return c
}

// DeviceIDSelf issues the self-signed identity certificate of kp.
func (b *Builder) DeviceIDSelf(serial CertSerialNumber, sn SerialNumber, kp *crypto.Keypair) *Cert {
	return b.Issue(DeviceIDSelfTemplate, Request{
		Serial:    serial,
		IssuerSN:  sn,
		SubjectSN: sn,
		PublicKey: kp.Public(),
	}, kp)
}

// DeviceID certifies the DeviceId key under the PersistentId key.
func (b *Builder) DeviceID(serial CertSerialNumber, sn SerialNumber, pub [crypto.PublicKeySize]byte, persistID *crypto.Keypair) *Cert {
	return b.Issue(DeviceIDTemplate, Request{
		Serial:    serial,
		IssuerSN:  sn,
		SubjectSN: sn,
		PublicKey: pub,
	}, persistID)
}

// Leaf issues one of the FWID-bearing leaves under the DeviceId key.
func (b *Builder) Leaf(t *Template, serial CertSerialNumber, sn SerialNumber, pub [crypto.PublicKeySize]byte, fwid [32]byte, deviceID *crypto.Keypair) *Cert {
	return b.Issue(t, Request{
		Serial:    serial,
		IssuerSN:  sn,
		SubjectSN: sn,
		PublicKey: pub,
		FWID:      &fwid,
	}, deviceID)
}
