// Package rng serves random bytes from a ChaCha20 stream that is reseeded
// from the hardware TRNG.
//
// The initial ChaCha20 key is SHA3-256 over the measured-boot seed, the
// platform personalization and 32 bytes of TRNG output. After Threshold
// bytes the next key is SHA3-256 over 32 bytes of the current stream and
// 32 bytes of TRNG output.
package rng

import (
	"errors"
	"fmt"
	"hash"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"

	"github.com/anchorageoss/rot-dice/crypto"
)

const (
	// DefaultThreshold is the number of bytes served between reseeds.
	DefaultThreshold = 1 << 20

	// maxThreshold keeps a key within the 2^32 block counter of ChaCha20,
	// leaving room for the bytes drawn when reseeding.
	maxThreshold = 1<<38 - 64

	seedSize = 32
)

// Reseeder is the entropy source, typically *lpc55.HwRng.
type Reseeder interface {
	Fill(dst []byte) error
}

// Config tunes a ReseedingRng.
type Config struct {
	// Threshold is the number of bytes between reseeds. Zero disables
	// reseeding.
	Threshold int
	// OnReseed, if set, is called after every reseed with the running
	// count.
	OnReseed func(n int)
}

// DefaultConfig reseeds every MiB.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}

func (c Config) Validate() error {
	if c.Threshold < 0 {
		return errors.New("rng threshold must not be negative")
	}
	if uint64(c.Threshold) > maxThreshold {
		return fmt.Errorf("rng threshold %d exceeds the chacha20 stream", c.Threshold)
	}
	return nil
}

// ReseedingRng is a ChaCha20 stream reseeded from a Reseeder. It is not
// safe for concurrent use.
type ReseedingRng struct {
	inner     *chacha20.Cipher
	reseeder  Reseeder
	mixer     hash.Hash
	threshold uint64
	until     uint64
	reseeds   int
	onReseed  func(int)
}

// NewReseedingRng keys the stream from seed, pid and the reseeder. seed
// and pid may be nil.
func NewReseedingRng(seed *crypto.RngSeed, reseeder Reseeder, pid []byte, cfg Config) (*ReseedingRng, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	threshold := uint64(cfg.Threshold)
	if threshold == 0 {
		threshold = maxThreshold
	}

	r := &ReseedingRng{
		reseeder:  reseeder,
		mixer:     sha3.New256(),
		threshold: threshold,
		until:     threshold,
		onReseed:  cfg.OnReseed,
	}
	if seed != nil {
		r.mixer.Write(seed.Bytes()[:])
	}
	if pid != nil {
		r.mixer.Write(pid)
	}
	var buf [seedSize]byte
	defer clear(buf[:])
	if err := reseeder.Fill(buf[:]); err != nil {
		return nil, fmt.Errorf("failed to seed rng: %w", err)
	}
	r.mixer.Write(buf[:])
	r.rekey()
	return r, nil
}

// rekey replaces the stream with one keyed by the mixer and resets the
// mixer.
func (r *ReseedingRng) rekey() {
	var key [seedSize]byte
	defer clear(key[:])
	r.mixer.Sum(key[:0])
	r.mixer.Reset()
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic("chacha20: " + err.Error())
	}
	r.inner = c
}

func (r *ReseedingRng) keystream(dst []byte) {
	clear(dst)
	r.inner.XORKeyStream(dst, dst)
}

func (r *ReseedingRng) reseed() error {
	var buf [seedSize]byte
	defer clear(buf[:])
	r.keystream(buf[:])
	r.mixer.Write(buf[:])
	if err := r.reseeder.Fill(buf[:]); err != nil {
		return err
	}
	r.mixer.Write(buf[:])
	r.rekey()
	r.until = r.threshold
	r.reseeds++
	if r.onReseed != nil {
		r.onReseed(r.reseeds)
	}
	return nil
}

// Fill fills dst. The stream is reseeded as soon as the byte budget is
// spent. A reseeder error is returned unchanged and leaves the bytes
// already written in dst.
func (r *ReseedingRng) Fill(dst []byte) error {
	filled := 0
	for filled < len(dst) {
		n := len(dst) - filled
		if uint64(n) > r.until {
			n = int(r.until)
		}
		r.keystream(dst[filled : filled+n])
		filled += n
		r.until -= uint64(n)
		if r.until == 0 {
			if err := r.reseed(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read implements io.Reader. It fills p completely or returns an error.
func (r *ReseedingRng) Read(p []byte) (int, error) {
	if err := r.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Reseeds returns the number of reseeds so far.
func (r *ReseedingRng) Reseeds() int { return r.reseeds }
