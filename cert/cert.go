package cert

import (
	"errors"
	"fmt"
	"time"

	"github.com/anchorageoss/rot-dice/crypto"
)

// SNLength is the length of the platform serial number.
const SNLength = 11

// NotBeforeLayout is the UTCTime layout of the not-before field.
const NotBeforeLayout = "060102150405Z"

var (
	// ErrBadSig is returned when a certificate signature does not verify.
	ErrBadSig = errors.New("bad signature")
	// ErrTooSmall is returned when bytes do not fit the template.
	ErrTooSmall = errors.New("buffer does not match template size")
	// ErrNoFwid is returned when reading the FWID of a non-leaf certificate.
	ErrNoFwid = errors.New("template has no fwid")
)

// SerialNumber is the platform serial number carried in the subject and
// issuer serialNumber attributes.
type SerialNumber [SNLength]byte

// ParseSerialNumber converts s into a SerialNumber. s must be exactly
// SNLength bytes.
func ParseSerialNumber(s string) (SerialNumber, error) {
	var sn SerialNumber
	if len(s) != SNLength {
		return sn, fmt.Errorf("serial number must be %d bytes, got %d", SNLength, len(s))
	}
	copy(sn[:], s)
	return sn, nil
}

func (s SerialNumber) String() string { return string(s[:]) }

// CertSerialNumber counts the certificates issued by one signer.
type CertSerialNumber uint8

// Next increments the counter and returns the new value.
func (c *CertSerialNumber) Next() CertSerialNumber {
	*c++
	return *c
}

// Cert is a certificate being filled from, or read through, a Template.
type Cert struct {
	tmpl *Template
	buf  []byte
}

func newCert(t *Template) *Cert {
	buf := make([]byte, len(t.DER))
	copy(buf, t.DER)
	return &Cert{tmpl: t, buf: buf}
}

// FromBytes wraps der for fixed-offset reads through t. der must be exactly
// the template size.
func FromBytes(t *Template, der []byte) (*Cert, error) {
	if len(der) != t.Size() {
		return nil, fmt.Errorf("%w: %s wants %d bytes, got %d", ErrTooSmall, t.Name, t.Size(), len(der))
	}
	buf := make([]byte, len(der))
	copy(buf, der)
	return &Cert{tmpl: t, buf: buf}, nil
}

// Template returns the template the certificate was built from.
func (c *Cert) Template() *Template { return c.tmpl }

// Bytes returns the DER encoding. The slice aliases internal storage.
func (c *Cert) Bytes() []byte { return c.buf }

// Len returns the DER length.
func (c *Cert) Len() int { return len(c.buf) }

func (c *Cert) set(r Range, v []byte) {
	if r.IsZero() || r.Len() != len(v) || r.End > len(c.buf) {
		panic(fmt.Sprintf("template %s: cannot write %d bytes to range %s", c.tmpl.Name, len(v), r))
	}
	copy(c.buf[r.Start:r.End], v)
}

func (c *Cert) get(r Range) []byte {
	return c.buf[r.Start:r.End]
}

func (c *Cert) SetSerialNumber(sn CertSerialNumber) {
	c.set(c.tmpl.SerialNumber, []byte{byte(sn)})
}

func (c *Cert) SetIssuerSN(sn SerialNumber) { c.set(c.tmpl.IssuerSN, sn[:]) }

func (c *Cert) SetSubjectSN(sn SerialNumber) { c.set(c.tmpl.SubjectSN, sn[:]) }

// SetNotBefore stamps t in UTC as YYMMDDHHMMSSZ.
func (c *Cert) SetNotBefore(t time.Time) {
	c.set(c.tmpl.NotBefore, []byte(t.UTC().Format(NotBeforeLayout)))
}

// SetNotBeforeRaw writes an already formatted UTCTime.
func (c *Cert) SetNotBeforeRaw(utc string) { c.set(c.tmpl.NotBefore, []byte(utc)) }

func (c *Cert) SetPublicKey(pub [crypto.PublicKeySize]byte) { c.set(c.tmpl.PublicKey, pub[:]) }

func (c *Cert) SetFWID(fwid [32]byte) { c.set(c.tmpl.FWID, fwid[:]) }

func (c *Cert) SetSignature(sig [crypto.SignatureSize]byte) { c.set(c.tmpl.Signature, sig[:]) }

func (c *Cert) SerialNumber() CertSerialNumber {
	return CertSerialNumber(c.get(c.tmpl.SerialNumber)[0])
}

func (c *Cert) IssuerSN() SerialNumber {
	var sn SerialNumber
	copy(sn[:], c.get(c.tmpl.IssuerSN))
	return sn
}

func (c *Cert) SubjectSN() SerialNumber {
	var sn SerialNumber
	copy(sn[:], c.get(c.tmpl.SubjectSN))
	return sn
}

// NotBefore returns the raw UTCTime string.
func (c *Cert) NotBefore() string { return string(c.get(c.tmpl.NotBefore)) }

func (c *Cert) PublicKey() []byte { return c.get(c.tmpl.PublicKey) }

func (c *Cert) Signature() []byte { return c.get(c.tmpl.Signature) }

// SignData returns the to-be-signed region.
func (c *Cert) SignData() []byte { return c.get(c.tmpl.SignData) }

func (c *Cert) FWID() ([32]byte, error) {
	var fwid [32]byte
	if c.tmpl.FWID.IsZero() {
		return fwid, ErrNoFwid
	}
	copy(fwid[:], c.get(c.tmpl.FWID))
	return fwid, nil
}

// Sign signs the to-be-signed region with kp and writes the signature.
func (c *Cert) Sign(kp *crypto.Keypair) {
	c.SetSignature(kp.Sign(c.SignData()))
}

// Verify checks the signature against the issuer public key.
func (c *Cert) Verify(issuerPub []byte) error {
	if !crypto.Verify(issuerPub, c.SignData(), c.Signature()) {
		return fmt.Errorf("%s: %w", c.tmpl.Name, ErrBadSig)
	}
	return nil
}

// NewDeviceIDSelf returns an unsigned DeviceIDSelf certificate.
func NewDeviceIDSelf() *Cert { return newCert(DeviceIDSelfTemplate) }

// NewDeviceID returns an unsigned DeviceID certificate.
func NewDeviceID() *Cert { return newCert(DeviceIDTemplate) }

// NewAlias returns an unsigned Alias certificate.
func NewAlias() *Cert { return newCert(AliasTemplate) }

// NewTrustQuorumDHE returns an unsigned TrustQuorumDHE certificate.
func NewTrustQuorumDHE() *Cert { return newCert(TrustQuorumDHETemplate) }

// NewSpMeasure returns an unsigned SpMeasure certificate.
func NewSpMeasure() *Cert { return newCert(SpMeasureTemplate) }
