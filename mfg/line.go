package mfg

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"

	"k8s.io/utils/clock"

	"github.com/anchorageoss/rot-dice/cert"
)

// certLifetime is the validity of line-issued certificates.
const certLifetime = 20 * 365 * 24 * time.Hour

// LineCA is the certificate authority of a manufacturing line. Its
// intermediate certificate is signed by a root key that stays off the
// line; only the root public key is kept.
type LineCA struct {
	rootPub      ed25519.PublicKey
	key          ed25519.PrivateKey
	intermediate *x509.Certificate
	clock        clock.PassiveClock
	serial       int64
}

// NewLineCA creates a root from rootSeed and an intermediate from
// intermediateSeed. The root private key is discarded once the
// intermediate is signed.
func NewLineCA(rootSeed, intermediateSeed [32]byte, clk clock.PassiveClock) (*LineCA, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	root := ed25519.NewKeyFromSeed(rootSeed[:])
	defer clear(root)
	key := ed25519.NewKeyFromSeed(intermediateSeed[:])

	now := clk.Now()
	rootTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "rot-dice line root"},
		NotBefore:             now,
		NotAfter:              now.Add(certLifetime),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	imTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(2),
		Subject:               pkix.Name{CommonName: "rot-dice line intermediate"},
		NotBefore:             now,
		NotAfter:              now.Add(certLifetime),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, imTemplate, rootTemplate, key.Public(), root)
	if err != nil {
		return nil, fmt.Errorf("failed to sign intermediate: %w", err)
	}
	im, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intermediate: %w", err)
	}
	return &LineCA{
		rootPub:      root.Public().(ed25519.PublicKey),
		key:          key,
		intermediate: im,
		clock:        clk,
		serial:       2,
	}, nil
}

// RootPublicKey returns the key that signed the intermediate.
func (ca *LineCA) RootPublicKey() []byte { return ca.rootPub }

// Intermediate returns the DER intermediate certificate.
func (ca *LineCA) Intermediate() []byte { return ca.intermediate.Raw }

// Issue certifies the PersistentId key of a checked CSR.
func (ca *LineCA) Issue(csr *cert.CSR) ([]byte, error) {
	if err := csr.CheckSig(); err != nil {
		return nil, fmt.Errorf("csr: %w", err)
	}
	ca.serial++
	now := ca.clock.Now()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(ca.serial),
		Subject: pkix.Name{
			CommonName:   "PersistentId",
			SerialNumber: csr.SubjectSN().String(),
		},
		NotBefore:             now,
		NotAfter:              now.Add(certLifetime),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, ca.intermediate, ed25519.PublicKey(csr.PublicKey()), ca.key)
	if err != nil {
		return nil, fmt.Errorf("failed to issue persistent id certificate: %w", err)
	}
	return der, nil
}
