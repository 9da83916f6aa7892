package mfg

import (
	"context"
	"crypto/ed25519"
	"crypto/x509"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	testclock "k8s.io/utils/clock/testing"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

func newTestCA(t *testing.T) *LineCA {
	t.Helper()
	clk := testclock.NewFakePassiveClock(time.Date(2022, 7, 13, 6, 6, 6, 0, time.UTC))
	ca, err := NewLineCA([32]byte{0x0a}, [32]byte{0x0b}, clk)
	require.NoError(t, err)
	return ca
}

func TestLineCA(t *testing.T) {
	ca := newTestCA(t)
	im, err := x509.ParseCertificate(ca.Intermediate())
	require.NoError(t, err)
	assert.True(t, im.IsCA)
	assert.True(t, ed25519.Verify(ca.RootPublicKey(), im.RawTBSCertificate, im.Signature))

	kp := testKeypair(0x33)
	csr := cert.NewCSR(testSN, kp.Public())
	require.NoError(t, csr.Sign(kp))
	der, err := ca.Issue(csr)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(der), cert.BlobSize)

	pid, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	require.NoError(t, pid.CheckSignatureFrom(im))
	pub := kp.Public()
	assert.Equal(t, ed25519.PublicKey(pub[:]), pid.PublicKey)
	assert.Equal(t, testSN.String(), pid.Subject.SerialNumber)

	t.Run("unsigned csr", func(t *testing.T) {
		_, err := ca.Issue(cert.NewCSR(testSN, kp.Public()))
		assert.ErrorIs(t, err, cert.ErrBadSig)
	})
}

func TestHostManufacture(t *testing.T) {
	b := newBoard(t)
	dev, line := lpc55.NewSimUsartPair()
	t.Cleanup(func() { _ = line.Close() })
	ca := newTestCA(t)

	s, err := NewSerial(Config{Puf: b.puf, Store: b.store, Syscon: b.syscon, Usart: dev})
	require.NoError(t, err)

	var res *Result
	var g errgroup.Group
	g.Go(func() error {
		var err error
		res, err = s.Run(context.Background())
		return err
	})
	require.NoError(t, NewHost(line, nil).Manufacture(context.Background(), testSN, ca))
	require.NoError(t, g.Wait())
	defer res.Zeroize()

	assert.Equal(t, testSN, res.SerialNumber)
	assert.Equal(t, ca.Intermediate(), res.IntermediateCert.Bytes())
	pid, err := x509.ParseCertificate(res.PersistIDCert.Bytes())
	require.NoError(t, err)
	pub := res.PersistIDKeypair.Public()
	assert.Equal(t, ed25519.PublicKey(pub[:]), pid.PublicKey)

	programmed, err := b.store.IsProgrammed()
	require.NoError(t, err)
	assert.True(t, programmed)
}

func TestHostErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("refused", func(t *testing.T) {
		h, _ := startDriver(t, testKeypair(1))
		_, err := NewHost(h.line, nil).expect(ctx, &Msg{Kind: KindBreak}, KindAck)
		assert.ErrorIs(t, err, ErrRefused)
	})

	t.Run("unexpected reply", func(t *testing.T) {
		h, _ := startDriver(t, testKeypair(1))
		_, err := NewHost(h.line, nil).expect(ctx, &Msg{Kind: KindPing}, KindCsr)
		assert.ErrorContains(t, err, "unexpected Ack reply to Ping")
	})

	t.Run("line closed", func(t *testing.T) {
		dev, line := lpc55.NewSimUsartPair()
		require.NoError(t, dev.Close())
		_, err := NewHost(line, nil).Call(ctx, &Msg{Kind: KindPing})
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	})

	t.Run("stale replies are skipped", func(t *testing.T) {
		dev, line := lpc55.NewSimUsartPair()
		t.Cleanup(func() { _ = line.Close() })
		for _, m := range []*Msg{{ID: 7, Kind: KindNak}, {ID: 1, Kind: KindAck}} {
			frame, err := m.Encode()
			require.NoError(t, err)
			_, err = dev.Write(frame)
			require.NoError(t, err)
		}
		reply, err := NewHost(line, nil).Call(ctx, &Msg{Kind: KindPing})
		require.NoError(t, err)
		assert.Equal(t, KindAck, reply.Kind)
		assert.Equal(t, uint32(1), reply.ID)
	})
}
