// Package keys loads the key material and images the rot-dice CLI works
// with.
//
// # Key File Format
//
// Keys are stored in ~/.config/rot-dice/keys/ with two files per key:
//
//	<key-name>.public  - Hex-encoded Ed25519 public key
//	<key-name>.private - Format: "hexseed:ed25519" where hexseed is the 32-byte seed
//
// The manufacturing line uses a root and an intermediate key; verifiers
// only need the root public key.
//
// # Loading Keys
//
//	store := keys.NewStore(afero.NewOsFs(), dir)
//	seed, err := store.LoadSeed("line-root")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Key Formats
//
// The private key format in .private file is "hexseed:alg" where:
//   - hexseed: Hex-encoded seed (must be 64 hex characters)
//   - alg: Algorithm name (currently only "ed25519" is supported)
package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SeedSize is the size of an Ed25519 seed.
const SeedSize = ed25519.SeedSize

// ErrExists is returned by Generate when the key already exists.
var ErrExists = errors.New("key already exists")

// DefaultDir returns ~/.config/rot-dice/keys.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "rot-dice", "keys"), nil
}

// Store reads and writes key files under Dir.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

func (s *Store) path(name, ext string) string {
	return filepath.Join(s.dir, name+ext)
}

// LoadPublicKey loads the public key of name.
func (s *Store) LoadPublicKey(name string) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.path(name, ".public"))
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return ParsePublicKey(strings.TrimSpace(string(b)))
}

// ParsePublicKey decodes a hex Ed25519 public key.
func ParsePublicKey(s string) ([]byte, error) {
	pub, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key hex: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("expected %d-byte public key, got %d", ed25519.PublicKeySize, len(pub))
	}
	return pub, nil
}

// LoadSeed loads the private seed of name. If a public key file exists it
// must match the seed.
func (s *Store) LoadSeed(name string) ([SeedSize]byte, error) {
	var seed [SeedSize]byte
	privateKeyBytes, err := afero.ReadFile(s.fs, s.path(name, ".private"))
	if err != nil {
		return seed, fmt.Errorf("failed to read private key file: %w", err)
	}

	// Parse private key format: "hexseed:alg"
	parts := strings.Split(strings.TrimSpace(string(privateKeyBytes)), ":")
	if len(parts) != 2 {
		return seed, errors.New("invalid private key format, expected 'hexseed:alg'")
	}
	if parts[1] != "ed25519" {
		return seed, fmt.Errorf("unsupported algorithm: %s, only ed25519 is supported", parts[1])
	}
	raw, err := hex.DecodeString(parts[0])
	if err != nil {
		return seed, fmt.Errorf("failed to decode private key hex: %w", err)
	}
	if len(raw) != SeedSize {
		return seed, fmt.Errorf("expected %d-byte seed, got %d", SeedSize, len(raw))
	}
	copy(seed[:], raw)
	clear(raw)

	pub, err := s.LoadPublicKey(name)
	if errors.Is(err, os.ErrNotExist) {
		return seed, nil
	}
	if err != nil {
		return seed, err
	}
	if !bytes.Equal(pub, PublicKey(seed)) {
		clear(seed[:])
		return seed, fmt.Errorf("public key file does not match private key %s", name)
	}
	return seed, nil
}

// PublicKey returns the public key of seed.
func PublicKey(seed [SeedSize]byte) []byte {
	priv := ed25519.NewKeyFromSeed(seed[:])
	defer clear(priv)
	return bytes.Clone(priv.Public().(ed25519.PublicKey))
}

// Generate creates a key pair named name from rand and returns its public
// key.
func (s *Store) Generate(name string, rand io.Reader) ([]byte, error) {
	if ok, err := afero.Exists(s.fs, s.path(name, ".private")); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}
	var seed [SeedSize]byte
	defer clear(seed[:])
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	pub := PublicKey(seed)
	priv := hex.EncodeToString(seed[:]) + ":ed25519\n"
	if err := afero.WriteFile(s.fs, s.path(name, ".private"), []byte(priv), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write private key file: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path(name, ".public"), []byte(hex.EncodeToString(pub)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write public key file: %w", err)
	}
	return pub, nil
}

// ReadImage reads a firmware image. An empty path yields an empty image.
func ReadImage(fs afero.Fs, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return b, nil
}
