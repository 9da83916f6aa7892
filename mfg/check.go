package mfg

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/anchorageoss/rot-dice/crypto"
)

var (
	// ErrIncomplete is returned when the line ended the exchange before
	// providing the whole identity. Nothing is persisted.
	ErrIncomplete = errors.New("manufacturing ended without a complete identity")

	// ErrBadIdentity is returned when the certificates from the line do
	// not certify the PersistentId key. Nothing is persisted.
	ErrBadIdentity = errors.New("manufacturing line sent an invalid identity")
)

// checkIdentity verifies that c can be written to flash: the PersistentId
// certificate carries pub and the serial number, and the intermediate
// signed it.
func checkIdentity(c *Collected, pub [crypto.PublicKeySize]byte) error {
	if c.PersistIDCert.IsEmpty() || c.IntermediateCert.IsEmpty() {
		return ErrIncomplete
	}
	pid, err := x509.ParseCertificate(c.PersistIDCert.Bytes())
	if err != nil {
		return fmt.Errorf("%w: persistent id certificate: %w", ErrBadIdentity, err)
	}
	im, err := x509.ParseCertificate(c.IntermediateCert.Bytes())
	if err != nil {
		return fmt.Errorf("%w: intermediate certificate: %w", ErrBadIdentity, err)
	}
	key, ok := pid.PublicKey.(ed25519.PublicKey)
	if !ok || !bytes.Equal(key, pub[:]) {
		return fmt.Errorf("%w: certificate is not for this persistent id key", ErrBadIdentity)
	}
	if pid.Subject.SerialNumber != c.SerialNumber.String() {
		return fmt.Errorf("%w: certificate serial number %q, assigned %q",
			ErrBadIdentity, pid.Subject.SerialNumber, c.SerialNumber)
	}
	if err := im.CheckSignature(pid.SignatureAlgorithm, pid.RawTBSCertificate, pid.Signature); err != nil {
		return fmt.Errorf("%w: persistent id certificate not signed by intermediate: %w", ErrBadIdentity, err)
	}
	return nil
}
