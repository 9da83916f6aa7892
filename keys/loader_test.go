package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDir     = "/keys"
	validSeed   = "487f361ddfd73440e707f4daa6775b376859e8a3c9f29b3bb694a12927c0213c"
	anotherSeed = "0101010101010101010101010101010101010101010101010101010101010101"
)

func validPublic(t *testing.T) string {
	t.Helper()
	seed, err := hex.DecodeString(validSeed)
	require.NoError(t, err)
	return hex.EncodeToString(ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey))
}

// newTestStore writes files into an in-memory key directory.
func newTestStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(testDir, name), []byte(content), 0o600))
	}
	return NewStore(fs, testDir)
}

func TestLoadSeed(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		store := newTestStore(t, map[string]string{
			"valid.private": validSeed + ":ed25519\n",
			"valid.public":  validPublic(t) + "\n",
		})
		seed, err := store.LoadSeed("valid")
		require.NoError(t, err)
		assert.Equal(t, validSeed, hex.EncodeToString(seed[:]))
		assert.Equal(t, validPublic(t), hex.EncodeToString(PublicKey(seed)))
	})

	t.Run("public key file is optional", func(t *testing.T) {
		store := newTestStore(t, map[string]string{"valid.private": validSeed + ":ed25519"})
		_, err := store.LoadSeed("valid")
		require.NoError(t, err)
	})

	t.Run("mismatched public key", func(t *testing.T) {
		store := newTestStore(t, map[string]string{
			"mismatch.private": anotherSeed + ":ed25519",
			"mismatch.public":  validPublic(t),
		})
		seed, err := store.LoadSeed("mismatch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
		assert.Equal(t, [SeedSize]byte{}, seed)
	})

	tests := []struct {
		name    string
		private string
		errMsg  string
	}{
		{"invalid hex in private key", strings.Repeat("zz", 32) + ":ed25519", "failed to decode private key hex"},
		{"wrong algorithm", validSeed + ":p256", "unsupported algorithm: p256"},
		{"bad format", validSeed, "invalid private key format"},
		{"short seed", "abcd:ed25519", "expected 32-byte seed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, map[string]string{"bad.private": tt.private})
			_, err := store.LoadSeed("bad")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("non-existent key", func(t *testing.T) {
		_, err := newTestStore(t, nil).LoadSeed("does_not_exist")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to read private key file")
	})
}

func TestLoadPublicKey(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"root.public":  validPublic(t),
		"short.public": "abcd",
		"hex.public":   "not hex",
	})

	pub, err := store.LoadPublicKey("root")
	require.NoError(t, err)
	assert.Len(t, pub, ed25519.PublicKeySize)

	_, err = store.LoadPublicKey("short")
	assert.ErrorContains(t, err, "expected 32-byte public key")
	_, err = store.LoadPublicKey("hex")
	assert.ErrorContains(t, err, "failed to decode public key hex")
	_, err = store.LoadPublicKey("missing")
	assert.ErrorContains(t, err, "failed to read public key file")
}

func TestGenerate(t *testing.T) {
	store := newTestStore(t, nil)
	entropy := bytes.NewReader(bytes.Repeat([]byte{0x01}, SeedSize))

	pub, err := store.Generate("line-root", entropy)
	require.NoError(t, err)

	seed, err := store.LoadSeed("line-root")
	require.NoError(t, err)
	assert.Equal(t, anotherSeed, hex.EncodeToString(seed[:]))
	loaded, err := store.LoadPublicKey("line-root")
	require.NoError(t, err)
	assert.Equal(t, pub, loaded)

	info, err := store.fs.Stat(filepath.Join(testDir, "line-root.private"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = store.Generate("line-root", entropy)
	assert.ErrorIs(t, err, ErrExists)

	_, err = store.Generate("starved", bytes.NewReader(nil))
	assert.ErrorContains(t, err, "failed to generate seed")
}

func TestReadImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fw/hubris.bin", []byte{0x00}, 0o644))

	img, err := ReadImage(fs, "/fw/hubris.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, img)

	img, err = ReadImage(fs, "")
	require.NoError(t, err)
	assert.Empty(t, img)

	_, err = ReadImage(fs, "/fw/missing.bin")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
