package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/sha3"
	"k8s.io/utils/clock"
	testclock "k8s.io/utils/clock/testing"

	"github.com/anchorageoss/rot-dice/attest"
	"github.com/anchorageoss/rot-dice/handoff"
	"github.com/anchorageoss/rot-dice/mfg"
)

const (
	testPuf     = "5555555555555555555555555555555555555555555555555555555555555555"
	testEntropy = "0707070707070707070707070707070707070707070707070707070707070707"
	testNonce   = "00112233445566778899aabbccddeeff"
)

// withMemFs points the commands at an in-memory filesystem holding the
// firmware image /fw.bin.
func withMemFs(t *testing.T) afero.Fs {
	t.Helper()
	oldFs, oldClock := fs, newClock
	fs = afero.NewMemMapFs()
	fake := testclock.NewFakeClock(time.Date(2022, 7, 13, 6, 6, 6, 0, time.UTC))
	newClock = func() clock.Clock { return fake }
	t.Cleanup(func() { fs, newClock = oldFs, oldClock })
	require.NoError(t, afero.WriteFile(fs, "/fw.bin", []byte("hubris"), 0o644))
	return fs
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "rot-dice",
		Writer: &buf,
		Flags:  []cli.Flag{DebugFlag()},
		Before: ApplyLogLevel,
		Commands: []*cli.Command{
			Stage0Command(),
			CertsCommand(),
			AttestCommand(),
			RngCommand(),
			KeysCommand(),
		},
	}
	err := app.Run(context.Background(), append([]string{"rot-dice"}, args...))
	return buf.String(), err
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func TestCommandStructure(t *testing.T) {
	for _, cmd := range []*cli.Command{Stage0Command(), CertsCommand(), attestQuoteCommand(), RngCommand()} {
		for _, name := range []string{"cdi", "image", "mode", "puf-secret", "flash", "serial-number", "key-dir", "entropy"} {
			require.True(t, hasFlag(cmd, name), "%s --%s", cmd.Name, name)
		}
	}
	require.Len(t, AttestCommand().Commands, 2)
	require.True(t, hasFlag(attestVerifyCommand(), "evidence"))
	require.Len(t, KeysCommand().Commands, 1)
}

func TestStage0Command(t *testing.T) {
	t.Run("self-signed", func(t *testing.T) {
		withMemFs(t)
		out, err := runApp(t, "stage0", "--image", "/fw.bin", "--json")
		require.NoError(t, err)

		var res stage0Output
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		fwid := sha3.Sum256([]byte("hubris"))
		require.True(t, res.Enabled)
		require.Equal(t, 3, res.ChainLen)
		require.Equal(t, mfg.SelfSignedSN.String(), res.SerialNumber)
		require.Equal(t, hex.EncodeToString(fwid[:]), res.FWID)
	})

	t.Run("dice disabled", func(t *testing.T) {
		withMemFs(t)
		out, err := runApp(t, "stage0", "--cdi", strings.Repeat("00", 32))
		require.NoError(t, err)
		require.Contains(t, out, "DICE disabled")
	})

	t.Run("handoff image", func(t *testing.T) {
		mem := withMemFs(t)
		_, err := runApp(t, "stage0", "--out", "/handoff.bin")
		require.NoError(t, err)
		img, err := afero.ReadFile(mem, "/handoff.bin")
		require.NoError(t, err)
		require.NoError(t, handoff.Decode(img, &handoff.CertData{}))
		require.NoError(t, handoff.Decode(img, &handoff.RngData{}))
	})

	t.Run("bad flags", func(t *testing.T) {
		withMemFs(t)
		_, err := runApp(t, "stage0", "--cdi", "2a2a")
		require.ErrorContains(t, err, "cdi must be 32 bytes")
		_, err = runApp(t, "stage0", "--mode", "usb")
		require.ErrorContains(t, err, "unknown dice mode")
		_, err = runApp(t, "stage0", "--image", "/missing.bin")
		require.ErrorContains(t, err, "failed to read image")
		_, err = runApp(t, "stage0", "--mode", "serial")
		require.ErrorContains(t, err, "requires --puf-secret")
	})
}

func TestSerialManufacturing(t *testing.T) {
	withMemFs(t)
	board := []string{"--image", "/fw.bin", "--mode", "serial", "--puf-secret", testPuf,
		"--flash", "/flash.bin", "--key-dir", "/keys", "--serial-number", "BRM42220001", "--entropy", testEntropy}
	run := func(args ...string) (string, error) {
		t.Helper()
		return runApp(t, append(args, board...)...)
	}

	_, err := run("stage0")
	require.ErrorContains(t, err, "failed to load line root key")

	out, err := runApp(t, "keys", "generate", "--key-dir", "/keys")
	require.NoError(t, err)
	require.Contains(t, out, "line-root: ")
	require.Contains(t, out, "line-intermediate: ")

	first, err := run("stage0", "--json")
	require.NoError(t, err)
	var res stage0Output
	require.NoError(t, json.Unmarshal([]byte(first), &res))
	require.Equal(t, 4, res.ChainLen)
	require.Equal(t, "BRM42220001", res.SerialNumber)

	// The second boot loads the identity persisted in the flash image.
	again, err := run("stage0", "--json", "--serial-number", "BRM99999999")
	require.NoError(t, err)
	require.JSONEq(t, first, again)

	out, err = run("certs", "--verify")
	require.NoError(t, err)
	require.Contains(t, out, "intermediate signed by root")

	out, err = run("certs", "--pem")
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(out, "BEGIN CERTIFICATE"))

	_, err = run("attest", "quote", "--nonce", testNonce, "--out", "/evidence.cbor")
	require.NoError(t, err)

	out, err = runApp(t, "attest", "verify", "--evidence", "/evidence.cbor", "--nonce", testNonce, "--key-dir", "/keys")
	require.NoError(t, err)
	require.Contains(t, out, "Serial Number: BRM42220001")

	_, err = runApp(t, "attest", "verify", "--evidence", "/evidence.cbor", "--key-dir", "/elsewhere")
	require.ErrorContains(t, err, "evidence verification failed")
}

func TestAttestQuoteCommand(t *testing.T) {
	withMemFs(t)
	digest := sha3.Sum256([]byte("task image"))

	out, err := runApp(t, "attest", "quote", "--image", "/fw.bin", "--entropy", testEntropy,
		"--measure", hex.EncodeToString(digest[:]), "--out", "/evidence.cbor", "--json")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, true, res["valid"])
	require.Equal(t, true, res["selfSigned"])

	raw, err := afero.ReadFile(fs, "/evidence.cbor")
	require.NoError(t, err)
	ev, err := attest.ParseEvidence(raw)
	require.NoError(t, err)
	require.Len(t, ev.Nonce, 32, "nonce drawn from the rng")
	log, err := attest.ParseLog(ev.Log)
	require.NoError(t, err)
	require.Equal(t, []attest.Measurement{{Algorithm: attest.Sha3_256, Digest: digest}}, log.Entries())

	fwid := sha3.Sum256([]byte("hubris"))
	_, err = runApp(t, "attest", "verify", "--evidence", "/evidence.cbor", "--fwid", hex.EncodeToString(fwid[:]))
	require.NoError(t, err)
	_, err = runApp(t, "attest", "verify", "--evidence", "/evidence.cbor", "--nonce", testNonce)
	require.ErrorContains(t, err, "nonce does not match")

	_, err = runApp(t, "attest", "quote", "--measure", "abcd")
	require.ErrorContains(t, err, "measurement must be 32 bytes")
	_, err = runApp(t, "attest", "quote", "--cdi", strings.Repeat("00", 32))
	require.ErrorContains(t, err, "pass --nonce")
}

func TestRngCommand(t *testing.T) {
	withMemFs(t)
	draw := func(entropy string) string {
		t.Helper()
		out, err := runApp(t, "rng", "--image", "/fw.bin", "--entropy", entropy, "--count", "100")
		require.NoError(t, err)
		return strings.TrimSpace(out)
	}

	first := draw(testEntropy)
	require.Len(t, first, 200)
	require.Equal(t, first, draw(testEntropy))
	require.NotEqual(t, first, draw(testPuf))

	_, err := runApp(t, "rng", "--entropy", testEntropy, "--count", "16", "--out", "/random.bin")
	require.NoError(t, err)
	b, err := afero.ReadFile(fs, "/random.bin")
	require.NoError(t, err)
	require.Len(t, b, 16)

	t.Run("environment", func(t *testing.T) {
		t.Setenv("ROT_DICE_RNG_COUNT", "8")
		t.Setenv("ROT_DICE_RNG_OUT", "/env.bin")
		_, err := runApp(t, "rng", "--entropy", testEntropy)
		require.NoError(t, err)
		b, err := afero.ReadFile(fs, "/env.bin")
		require.NoError(t, err)
		require.Len(t, b, 8)
	})

	_, err = runApp(t, "rng", "--cdi", strings.Repeat("00", 32))
	require.ErrorContains(t, err, "no dice seed")
}

func TestKeysGenerate(t *testing.T) {
	withMemFs(t)
	_, err := runApp(t, "keys", "generate", "--key-dir", "/keys")
	require.NoError(t, err)
	_, err = runApp(t, "keys", "generate", "--key-dir", "/keys")
	require.ErrorContains(t, err, "already exists")
}
