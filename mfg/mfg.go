// Package mfg establishes the PersistentId identity of a board.
//
// A DiceMfg produces the PersistentId key pair, its certificate and the
// platform serial number. Two variants exist:
//
//   - SelfSigned: the PersistentId certificate is self-signed under a
//     placeholder serial number and there is no intermediate.
//   - Serial: the certificate chain is obtained from the manufacturing line
//     over a USART and persisted to flash. Later boots load it back.
//
// In both variants the PUF key index holding the PersistentId key is
// blocked once the key is read, and the block register is locked.
package mfg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// SelfSignedSN is the platform serial number of self-signed identities.
var SelfSignedSN = cert.SerialNumber{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a'}

// Result is the identity handed to stage0.
type Result struct {
	// CertSerialNumber is the PersistentId signer's counter. Stage0 takes
	// the next value for the DeviceId certificate.
	CertSerialNumber cert.CertSerialNumber
	SerialNumber     cert.SerialNumber
	PersistIDKeypair *crypto.Keypair
	PersistIDCert    cert.SizedBlob
	IntermediateCert cert.SizedBlob
}

// Zeroize erases the PersistentId private key.
func (r *Result) Zeroize() {
	if r.PersistIDKeypair != nil {
		r.PersistIDKeypair.Zeroize()
	}
}

// DiceMfg produces the PersistentId identity.
type DiceMfg interface {
	Run(ctx context.Context) (*Result, error)
}

// Config holds the board resources a DiceMfg uses. Only the fields a
// variant needs must be set.
type Config struct {
	Puf     lpc55.Puf
	Store   *StateStore
	Syscon  lpc55.Syscon
	Usart   lpc55.Usart
	Builder *cert.Builder
	Logger  *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Config) builder() *cert.Builder {
	if c.Builder == nil {
		return cert.NewBuilder(nil)
	}
	return c.Builder
}

// enroll creates a fresh PersistentId key in the PUF.
func enroll(puf lpc55.Puf) (lpc55.KeyCode, *crypto.PersistIDSeed, error) {
	// A blocked index reads back as zeros without an error.
	if puf.IsIndexBlocked(lpc55.PersistIDKeyIndex) {
		panic("puf: persistent id key index blocked")
	}
	kc, err := puf.GenerateKeyCode(lpc55.PersistIDKeyIndex, lpc55.PufKeySize)
	if err != nil {
		return kc, nil, fmt.Errorf("failed to generate key code: %w", err)
	}
	seed, err := readKey(puf, kc)
	return kc, seed, err
}

// regenerate reconstructs the PersistentId key from a stored key code.
func regenerate(puf lpc55.Puf, kc lpc55.KeyCode) (*crypto.PersistIDSeed, error) {
	if puf.IsIndexBlocked(lpc55.PersistIDKeyIndex) {
		panic("puf: persistent id key index blocked")
	}
	return readKey(puf, kc)
}

func readKey(puf lpc55.Puf, kc lpc55.KeyCode) (*crypto.PersistIDSeed, error) {
	var key [lpc55.PufKeySize]byte
	defer clear(key[:])
	if err := puf.GetKey(kc, key[:]); err != nil {
		return nil, fmt.Errorf("failed to get persistent id key: %w", err)
	}
	if err := puf.BlockIndex(lpc55.PersistIDKeyIndex); err != nil {
		return nil, fmt.Errorf("failed to block puf index: %w", err)
	}
	puf.LockIndicesLow()
	return crypto.PersistIDSeedFromBytes(key), nil
}
