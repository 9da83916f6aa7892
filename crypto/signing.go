// Package crypto provides the key material of the DICE identity pipeline.
//
// This package provides:
//   - The root CDI and the per-image CDI_L1
//   - Seed types derived from a CDI with HKDF-Expand over SHA3-256
//   - Ed25519 key pairs built from 32-byte seeds
//   - SHA3-256 hashing
//
// # Derivation
//
// Derive the DeviceId key pair from the CDI:
//
//	seed := crypto.NewDeviceIDOkm(cdi)
//	defer seed.Zeroize()
//	kp := crypto.NewKeypair(seed)
//	defer kp.Zeroize()
//
// Derive a layer 1 seed from the firmware measurement:
//
//	l1 := crypto.NewCdiL1(cdi, crypto.Sum256(image))
//	defer l1.Zeroize()
//	alias := crypto.NewAliasOkm(l1)
//
// # Zeroization
//
// Every type holding secret bytes has a Zeroize method. Owners call it
// with defer as soon as the value is created.
package crypto

import (
	"crypto/ed25519"
	"fmt"
)

const (
	// PublicKeySize is the size of an Ed25519 public key.
	PublicKeySize = ed25519.PublicKeySize
	// SignatureSize is the size of an Ed25519 signature.
	SignatureSize = ed25519.SignatureSize
)

// Keypair is an Ed25519 key pair built deterministically from a seed.
type Keypair struct {
	priv ed25519.PrivateKey
}

// NewKeypair expands seed into an Ed25519 key pair.
func NewKeypair(s SeedBuf) *Keypair {
	return &Keypair{priv: ed25519.NewKeyFromSeed(s.Bytes()[:])}
}

// Public returns the public half of the pair.
func (k *Keypair) Public() [PublicKeySize]byte {
	var pub [PublicKeySize]byte
	copy(pub[:], k.priv[ed25519.SeedSize:])
	return pub
}

// Sign signs msg and returns the 64-byte signature.
func (k *Keypair) Sign(msg []byte) [SignatureSize]byte {
	var sig [SignatureSize]byte
	copy(sig[:], ed25519.Sign(k.priv, msg))
	return sig
}

// Zeroize erases the private key.
func (k *Keypair) Zeroize() {
	clear(k.priv)
}

// Verify reports whether sig is a valid signature of msg by pub.
func Verify(pub []byte, msg []byte, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// VerifyStrict is Verify returning an error describing the failure.
func VerifyStrict(pub []byte, msg []byte, sig []byte) error {
	if len(pub) != PublicKeySize {
		return fmt.Errorf("invalid public key length: %d", len(pub))
	}
	if len(sig) != SignatureSize {
		return fmt.Errorf("invalid signature length: %d", len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return ErrBadSignature
	}
	return nil
}
