package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"

	"github.com/anchorageoss/rot-dice/attest"
	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/mfg"
)

var testSN = cert.SerialNumber{'B', 'R', 'M', '4', '2', '2', '2', '0', '0', '0', '1'}

func testKeypair(b byte) *crypto.Keypair {
	return crypto.NewKeypair(crypto.PersistIDSeedFromBytes([32]byte{b}))
}

// chainFixture holds a chain and the keys needed to produce evidence for it.
type chainFixture struct {
	alias *crypto.Keypair
	chain [][]byte
	root  []byte
	fwid  [32]byte
}

func newChain(t *testing.T, manufactured bool) *chainFixture {
	t.Helper()
	b := cert.NewBuilder(nil)
	persist, device, alias := testKeypair(1), testKeypair(2), testKeypair(3)
	f := &chainFixture{alias: alias, fwid: crypto.Sum256([]byte("image"))}

	var serial cert.CertSerialNumber
	var persistCert, intermediate []byte
	if manufactured {
		ca, err := mfg.NewLineCA([32]byte{0x10}, [32]byte{0x11}, testclock.NewFakePassiveClock(time.Unix(1657692366, 0)))
		require.NoError(t, err)
		csr := cert.NewCSR(testSN, persist.Public())
		require.NoError(t, csr.Sign(persist))
		persistCert, err = ca.Issue(csr)
		require.NoError(t, err)
		f.root = ca.RootPublicKey()
		intermediate = ca.Intermediate()
	} else {
		persistCert = b.DeviceIDSelf(serial.Next(), testSN, persist).Bytes()
	}
	deviceCert := b.DeviceID(serial.Next(), testSN, device.Public(), persist)

	var leaves cert.CertSerialNumber
	aliasCert := b.Leaf(cert.AliasTemplate, leaves.Next(), testSN, alias.Public(), f.fwid, device)
	f.chain = [][]byte{aliasCert.Bytes(), deviceCert.Bytes(), persistCert}
	if intermediate != nil {
		f.chain = append(f.chain, intermediate)
	}
	return f
}

func (f *chainFixture) evidence(t *testing.T, nonce []byte) *attest.Evidence {
	t.Helper()
	var log attest.Log
	require.NoError(t, log.Record(attest.Measurement{Algorithm: attest.Sha3_256, Digest: crypto.Sum256([]byte("sp"))}))
	lb, err := log.MarshalBinary()
	require.NoError(t, err)
	qb, err := attest.Quote(f.alias, lb, nonce).MarshalBinary()
	require.NoError(t, err)
	return &attest.Evidence{Chain: f.chain, Log: lb, Nonce: nonce, Quote: qb}
}

// Mock implementations

type mockEvidenceSource struct {
	fixture *chainFixture
	t       *testing.T
	err     error
	nonces  [][]byte
}

func (m *mockEvidenceSource) Collect(ctx context.Context, nonce []byte) (*attest.Evidence, error) {
	m.nonces = append(m.nonces, nonce)
	if m.err != nil {
		return nil, m.err
	}
	return m.fixture.evidence(m.t, nonce), nil
}

func TestParseChain(t *testing.T) {
	t.Run("self-signed", func(t *testing.T) {
		certs, err := ParseChain(newChain(t, false).chain)
		require.NoError(t, err)
		require.Len(t, certs, 3)
		for i, c := range certs {
			require.Equal(t, i, c.Index)
			require.Equal(t, chainNames[i], c.Name)
			require.Len(t, c.PublicKey, crypto.PublicKeySize)
			require.Equal(t, testSN.String(), c.SubjectSN)
		}
		fwid, err := certs[0].FWID()
		require.NoError(t, err)
		require.Equal(t, crypto.Sum256([]byte("image")), fwid)
	})

	t.Run("manufactured", func(t *testing.T) {
		certs, err := ParseChain(newChain(t, true).chain)
		require.NoError(t, err)
		require.Len(t, certs, 4)
		require.Equal(t, testSN.String(), certs[2].SubjectSN)
		pub := testKeypair(1).Public()
		require.Equal(t, pub[:], certs[2].PublicKey)

		_, err = certs[2].FWID()
		require.ErrorIs(t, err, cert.ErrNoFwid)
	})

	t.Run("wrong length", func(t *testing.T) {
		chain := newChain(t, false).chain
		_, err := ParseChain(chain[:2])
		require.ErrorIs(t, err, ErrChainLength)
		_, err = ParseChain(append(chain, chain[0], chain[0]))
		require.ErrorIs(t, err, ErrChainLength)
	})

	t.Run("malformed certificate", func(t *testing.T) {
		chain := newChain(t, false).chain
		chain[1] = chain[1][:100]
		_, err := ParseChain(chain)
		require.Error(t, err)
		require.Contains(t, err.Error(), "device-id")

		chain = newChain(t, true).chain
		chain[3] = []byte("not der")
		_, err = ParseChain(chain)
		require.Error(t, err)
		require.Contains(t, err.Error(), "intermediate")
	})
}

func TestVerifyChain(t *testing.T) {
	t.Run("self-signed anchors itself", func(t *testing.T) {
		certs, err := ParseChain(newChain(t, false).chain)
		require.NoError(t, err)
		links, err := VerifyChain(certs, nil)
		require.NoError(t, err)
		require.Len(t, links, 3)
		require.Equal(t, "persistent-id", links[2].Issuer)
		for _, l := range links {
			require.True(t, l.Valid, l.Error)
		}
	})

	t.Run("manufactured with root", func(t *testing.T) {
		f := newChain(t, true)
		certs, err := ParseChain(f.chain)
		require.NoError(t, err)
		links, err := VerifyChain(certs, f.root)
		require.NoError(t, err)
		require.Equal(t, "root", links[3].Issuer)
	})

	t.Run("manufactured without root", func(t *testing.T) {
		certs, err := ParseChain(newChain(t, true).chain)
		require.NoError(t, err)
		links, err := VerifyChain(certs, nil)
		require.ErrorIs(t, err, ErrUnanchored)
		require.True(t, links[2].Valid)
		require.False(t, links[3].Valid)
	})

	t.Run("wrong root", func(t *testing.T) {
		certs, err := ParseChain(newChain(t, true).chain)
		require.NoError(t, err)
		pub := testKeypair(9).Public()
		_, err = VerifyChain(certs, pub[:])
		require.ErrorIs(t, err, crypto.ErrBadSignature)
	})

	t.Run("every broken link is reported", func(t *testing.T) {
		chain := newChain(t, false).chain
		for _, i := range []int{0, 1} {
			c := append([]byte(nil), chain[i]...)
			c[len(c)-1] ^= 0x01
			chain[i] = c
		}
		certs, err := ParseChain(chain)
		require.NoError(t, err)
		links, err := VerifyChain(certs, nil)
		require.Error(t, err)
		require.Len(t, links, 3)
		require.False(t, links[0].Valid)
		require.False(t, links[1].Valid)
		require.True(t, links[2].Valid)
		require.NotEmpty(t, links[0].Error)
	})
}

func TestEvidence(t *testing.T) {
	nonce := []byte("0123456789abcdef")

	t.Run("valid self-signed", func(t *testing.T) {
		f := newChain(t, false)
		result, err := Evidence(f.evidence(t, nonce), &VerifyRequest{Nonce: nonce, ExpectedFWID: &f.fwid})
		require.NoError(t, err)
		require.True(t, result.Valid, result.Errors)
		require.True(t, result.ChainValid)
		require.True(t, result.QuoteValid)
		require.True(t, result.SelfSigned)
		require.Equal(t, testSN.String(), result.SerialNumber)
		require.Len(t, result.Measurements, 1)
		require.Empty(t, result.Errors)
	})

	t.Run("valid manufactured", func(t *testing.T) {
		f := newChain(t, true)
		result, err := Evidence(f.evidence(t, nonce), &VerifyRequest{RootPublicKey: f.root})
		require.NoError(t, err)
		require.True(t, result.Valid, result.Errors)
		require.False(t, result.SelfSigned)
	})

	t.Run("fwid mismatch", func(t *testing.T) {
		f := newChain(t, false)
		other := crypto.Sum256([]byte("other image"))
		result, err := Evidence(f.evidence(t, nonce), &VerifyRequest{ExpectedFWID: &other})
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.True(t, result.ChainValid)
		require.Len(t, result.Errors, 1)
		require.Contains(t, result.Errors[0], "fwid mismatch")
	})

	t.Run("nonce mismatch", func(t *testing.T) {
		f := newChain(t, false)
		result, err := Evidence(f.evidence(t, nonce), &VerifyRequest{Nonce: []byte("stale")})
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.True(t, result.QuoteValid)
	})

	t.Run("quote over different nonce", func(t *testing.T) {
		f := newChain(t, false)
		ev := f.evidence(t, nonce)
		ev.Nonce = []byte("replayed")
		result, err := Evidence(ev, &VerifyRequest{})
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.False(t, result.QuoteValid)
		require.True(t, result.ChainValid)
	})

	t.Run("failures accumulate", func(t *testing.T) {
		f := newChain(t, true)
		other := crypto.Sum256(nil)
		ev := f.evidence(t, nonce)
		ev.Nonce = []byte("replayed")
		result, err := Evidence(ev, &VerifyRequest{ExpectedFWID: &other})
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.Len(t, result.Errors, 3)
	})

	t.Run("unparseable evidence", func(t *testing.T) {
		f := newChain(t, false)
		ev := f.evidence(t, nonce)
		ev.Log = ev.Log[:10]
		_, err := Evidence(ev, &VerifyRequest{})
		require.Error(t, err)

		ev = f.evidence(t, nonce)
		ev.Quote = nil
		_, err = Evidence(ev, &VerifyRequest{})
		require.Error(t, err)
	})
}

func TestService(t *testing.T) {
	t.Run("collects with the request nonce", func(t *testing.T) {
		source := &mockEvidenceSource{fixture: newChain(t, false), t: t}
		service := NewService(source)
		result, err := service.Verify(context.Background(), &VerifyRequest{Nonce: []byte("n1")})
		require.NoError(t, err)
		require.True(t, result.Valid, result.Errors)
		require.Equal(t, [][]byte{[]byte("n1")}, source.nonces)
	})

	t.Run("nonce required", func(t *testing.T) {
		source := &mockEvidenceSource{fixture: newChain(t, false), t: t}
		_, err := NewService(source).Verify(context.Background(), &VerifyRequest{})
		require.Error(t, err)
		require.Empty(t, source.nonces)
	})

	t.Run("collect error", func(t *testing.T) {
		boom := errors.New("device unreachable")
		source := &mockEvidenceSource{t: t, err: boom}
		_, err := NewService(source).Verify(context.Background(), &VerifyRequest{Nonce: []byte("n")})
		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "failed to collect evidence")
	})
}
