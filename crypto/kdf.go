package crypto

import (
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// SeedLength is the size of every CDI, OKM and seed.
const SeedLength = 32

// ErrBadSignature is returned when an Ed25519 signature does not verify.
var ErrBadSignature = errors.New("signature verification failed")

// Sum256 returns the SHA3-256 digest of data.
func Sum256(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// expand runs HKDF-Expand over SHA3-256 with prk used as the pseudorandom
// key directly.
func expand(prk []byte, info []byte) [SeedLength]byte {
	var okm [SeedLength]byte
	r := hkdf.Expand(sha3.New256, prk, info)
	if _, err := io.ReadFull(r, okm[:]); err != nil {
		panic("hkdf expand: " + err.Error())
	}
	return okm
}

// extractExpand runs HKDF-Extract then HKDF-Expand over SHA3-256.
func extractExpand(salt []byte, ikm []byte, info []byte) [SeedLength]byte {
	prk := hkdf.Extract(sha3.New256, ikm, salt)
	defer clear(prk)
	return expand(prk, info)
}
