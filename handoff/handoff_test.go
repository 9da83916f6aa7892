package handoff

import (
	"bytes"
	"testing"

	fuzzheaders "github.com/AdaLogics/go-fuzz-headers"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

func newTestHandoff(t testing.TB) (*Handoff, *lpc55.SRAM) {
	t.Helper()
	syscon := lpc55.NewSimSyscon()
	ram := lpc55.NewUSB1Ram(syscon)
	return TurnOn(syscon, ram), ram
}

func fill(b byte, n int) []byte { return bytes.Repeat([]byte{b}, n) }

func TestLayout(t *testing.T) {
	require.NoError(t, Validate())

	tests := map[string]struct {
		data Data
		size int
	}{
		"certs":     {data: &CertData{}, size: 16 + 2 + cert.BlobSize + cert.DeviceIDSize + 2 + cert.BlobSize},
		"alias":     {data: &AliasData{}, size: 16 + 32 + cert.AliasSize + 32 + cert.TrustQuorumDHESize},
		"spmeasure": {data: &SpMeasureData{}, size: 16 + 32 + cert.SpMeasureSize},
		"rng":       {data: &RngData{}, size: 16 + 32},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			size, err := MaxSize(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.size, size)
			assert.LessOrEqual(t, uint32(size), tc.data.Region().Size)
			assert.Equal(t, name, tc.data.Region().Name)
		})
	}

	assert.Equal(t, uint32(0x4010_1a00), RngRegion.Addr())
	assert.Equal(t, "rng 0x40101a00+0x0100", RngRegion.String())
}

func TestRoundTrip(t *testing.T) {
	h, ram := newTestHandoff(t)

	fwid := [32]byte{0xf1}
	kp := crypto.NewKeypair(crypto.PersistIDSeedFromBytes([32]byte{7}))
	b := cert.NewBuilder(nil)
	sn, err := cert.ParseSerialNumber("0123456789a")
	require.NoError(t, err)

	deviceID := b.DeviceID(1, sn, kp.Public(), kp)
	certs := NewCertData(cert.MustSizedBlob(fill(0xaa, 400)), deviceID, cert.SizedBlob{})
	alias := NewAliasData(
		crypto.AliasOkmFromBytes([32]byte{1}), b.Leaf(cert.AliasTemplate, 1, sn, kp.Public(), fwid, kp),
		crypto.TrustQuorumDHEOkmFromBytes([32]byte{2}), b.Leaf(cert.TrustQuorumDHETemplate, 2, sn, kp.Public(), fwid, kp),
	)
	spm := NewSpMeasureData(crypto.SpMeasureOkmFromBytes([32]byte{3}), b.Leaf(cert.SpMeasureTemplate, 3, sn, kp.Public(), fwid, kp))
	rng := NewRngData(crypto.RngSeedFromBytes([32]byte{4}))

	for _, d := range []Data{certs, alias, spm, rng} {
		n, err := h.Store(d)
		require.NoError(t, err)
		size, err := MaxSize(d)
		require.NoError(t, err)
		assert.Equal(t, size, n)
	}

	gotCerts, err := LoadCertData(ram)
	require.NoError(t, err)
	if diff := cmp.Diff(certs, gotCerts); diff != "" {
		t.Errorf("cert data mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, gotCerts.HasIntermediate())
	assert.Equal(t, deviceID.Bytes(), gotCerts.DeviceIDCert[:])

	gotAlias, err := LoadAliasData(ram)
	require.NoError(t, err)
	if diff := cmp.Diff(alias, gotAlias); diff != "" {
		t.Errorf("alias data mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [32]byte{1}, *gotAlias.AliasOkm().Bytes())
	assert.Equal(t, [32]byte{2}, *gotAlias.TrustQuorumDHEOkm().Bytes())

	gotSpm, err := LoadSpMeasureData(ram)
	require.NoError(t, err)
	if diff := cmp.Diff(spm, gotSpm); diff != "" {
		t.Errorf("spmeasure data mismatch (-want +got):\n%s", diff)
	}

	gotRng, err := LoadRngData(ram)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{4}, *gotRng.RngSeed().Bytes())

	t.Run("decode image", func(t *testing.T) {
		var d RngData
		require.NoError(t, Decode(ram.Snapshot(), &d))
		assert.Equal(t, rng.Seed, d.Seed)
	})

	t.Run("zeroize", func(t *testing.T) {
		gotAlias.Zeroize()
		assert.Equal(t, [32]byte{}, gotAlias.AliasSeed)
		assert.Equal(t, [32]byte{}, gotAlias.TqdheSeed)
		gotRng.Zeroize()
		assert.Equal(t, [32]byte{}, gotRng.Seed)
	})
}

func TestLoadBadMagic(t *testing.T) {
	_, ram := newTestHandoff(t)

	_, err := LoadCertData(ram)
	assert.ErrorIs(t, err, ErrBadMagic)
	_, err = LoadAliasData(ram)
	assert.ErrorIs(t, err, ErrBadMagic)
	_, err = LoadSpMeasureData(ram)
	assert.ErrorIs(t, err, ErrBadMagic)
	_, err = LoadRngData(ram)
	assert.ErrorIs(t, err, ErrBadMagic)

	t.Run("payload in the wrong region", func(t *testing.T) {
		_, err := ram.WriteAt(RngMagic[:], int64(AliasRegion.Start))
		require.NoError(t, err)
		_, err = LoadAliasData(ram)
		assert.ErrorIs(t, err, ErrBadMagic)
	})
}

func TestTurnOff(t *testing.T) {
	h, ram := newTestHandoff(t)
	_, err := h.Store(NewRngData(crypto.RngSeedFromBytes([32]byte{9})))
	require.NoError(t, err)

	h.TurnOff()
	_, err = LoadRngData(ram)
	assert.ErrorIs(t, err, lpc55.ErrBusFault)
	assert.NotErrorIs(t, err, ErrBadMagic)
}

func TestStoreTooLarge(t *testing.T) {
	h, _ := newTestHandoff(t)
	_, err := h.Store(&oversized{Magic: RngMagic})
	assert.ErrorIs(t, err, ErrTooLarge)
}

type oversized struct {
	Magic Magic     `borsh:"magic"`
	Pad   [512]byte `borsh:"pad"`
}

func (*oversized) Region() Region { return RngRegion }
func (*oversized) ExpectedMagic() Magic { return RngMagic }
func (d *oversized) GetMagic() Magic { return d.Magic }

func FuzzAliasRoundTrip(f *testing.F) {
	f.Add(fill(0x5a, 64))
	f.Fuzz(func(t *testing.T, a []byte) {
		var want AliasData
		if err := fuzzheaders.NewConsumer(a).GenerateStruct(&want); err != nil {
			return
		}
		want.Magic = AliasMagic

		h, ram := newTestHandoff(t)
		_, err := h.Store(&want)
		require.NoError(t, err)
		got, err := LoadAliasData(ram)
		require.NoError(t, err)
		assert.Equal(t, &want, got)
	})
}

func FuzzDecode(f *testing.F) {
	f.Add(make([]byte, lpc55.USB1RamSize))
	f.Fuzz(func(t *testing.T, img []byte) {
		assert.NotPanics(t, func() {
			var d CertData
			_ = Decode(img, &d)
		})
	})
}
