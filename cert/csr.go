package cert

import (
	"fmt"

	"github.com/anchorageoss/rot-dice/crypto"
)

// CSR is a PKCS#10 request for the PersistentId certificate.
type CSR struct {
	c *Cert
}

// NewCSR returns an unsigned request for pub with subject serial sn.
func NewCSR(sn SerialNumber, pub [crypto.PublicKeySize]byte) *CSR {
	c := newCert(PersistIDCSRTemplate)
	c.SetSubjectSN(sn)
	c.SetPublicKey(pub)
	return &CSR{c: c}
}

// ParseCSR wraps der for fixed-offset reads.
func ParseCSR(der []byte) (*CSR, error) {
	c, err := FromBytes(PersistIDCSRTemplate, der)
	if err != nil {
		return nil, err
	}
	return &CSR{c: c}, nil
}

// Sign signs the request with kp. The public key is set from kp and the
// signature is verified before it is written.
func (r *CSR) Sign(kp *crypto.Keypair) error {
	pub := kp.Public()
	r.c.SetPublicKey(pub)
	sig := kp.Sign(r.c.SignData())
	if !crypto.Verify(pub[:], r.c.SignData(), sig[:]) {
		return fmt.Errorf("csr: %w", ErrBadSig)
	}
	r.c.SetSignature(sig)
	return nil
}

// CheckSig verifies the signature against the embedded public key.
func (r *CSR) CheckSig() error {
	return r.c.Verify(r.c.PublicKey())
}

func (r *CSR) Bytes() []byte { return r.c.Bytes() }

func (r *CSR) PublicKey() []byte { return r.c.PublicKey() }

func (r *CSR) SubjectSN() SerialNumber { return r.c.SubjectSN() }
