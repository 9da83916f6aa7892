package cert

import (
	"bytes"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"

	"github.com/anchorageoss/rot-dice/crypto"
)

var testTime = time.Date(2022, 7, 13, 6, 6, 6, 0, time.UTC)

func testKeypair(fill byte) *crypto.Keypair {
	var b [crypto.SeedLength]byte
	for i := range b {
		b[i] = fill
	}
	return crypto.NewKeypair(crypto.PersistIDSeedFromBytes(b))
}

func testSN(t *testing.T) SerialNumber {
	t.Helper()
	sn, err := ParseSerialNumber("0123456789a")
	require.NoError(t, err)
	return sn
}

func TestTemplates(t *testing.T) {
	tests := map[string]struct {
		tmpl *Template
		size int
		leaf bool
	}{
		"deviceid-self":    {DeviceIDSelfTemplate, DeviceIDSelfSize, false},
		"deviceid":         {DeviceIDTemplate, DeviceIDSize, false},
		"alias":            {AliasTemplate, AliasSize, true},
		"trust-quorum-dhe": {TrustQuorumDHETemplate, TrustQuorumDHESize, true},
		"sp-measure":       {SpMeasureTemplate, SpMeasureSize, true},
		"persistid-csr":    {PersistIDCSRTemplate, PersistIDCSRSize, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(name, tc.tmpl.Name)
			assert.Equal(tc.size, tc.tmpl.Size())
			assert.NoError(tc.tmpl.Validate())
			assert.Equal(tc.leaf, !tc.tmpl.FWID.IsZero())
			for field, r := range tc.tmpl.Fields() {
				assert.Greater(r.Len(), 0, field)
				assert.LessOrEqual(r.End, tc.tmpl.Size(), field)
			}
			// Signature BIT STRING runs to the end of the blob.
			assert.Equal(tc.tmpl.Size(), tc.tmpl.Signature.End)
			assert.Equal(64, tc.tmpl.Signature.Len())
			assert.Equal(32, tc.tmpl.PublicKey.Len())
		})
	}
}

func TestPublishedOffsets(t *testing.T) {
	assert := assert.New(t)

	tmpl := DeviceIDSelfTemplate
	assert.Equal(Range{15, 16}, tmpl.SerialNumber)
	assert.Equal(Range{169, 180}, tmpl.IssuerSN)
	assert.Equal(Range{360, 371}, tmpl.SubjectSN)
	assert.Equal(Range{383, 415}, tmpl.PublicKey)
	assert.Equal(Range{501, 565}, tmpl.Signature)
	assert.Equal(Range{4, 491}, tmpl.SignData)
	assert.Equal("221009003224Z", string(tmpl.DER[tmpl.NotBefore.Start:tmpl.NotBefore.End]))

	assert.Equal(Range{525, 557}, SpMeasureTemplate.FWID)
	assert.Equal(Range{4, 557}, SpMeasureTemplate.SignData)
}

func TestValidateRejectsBadRanges(t *testing.T) {
	tests := map[string]func(*Template){
		"range past end":        func(tm *Template) { tm.PublicKey = Range{tm.Size() - 10, tm.Size() + 22} },
		"empty range":           func(tm *Template) { tm.SubjectSN = Range{20, 20} },
		"missing signature":     func(tm *Template) { tm.Signature = Range{} },
		"signature in signdata": func(tm *Template) { tm.Signature = Range{100, 164} },
		"field outside tbs":     func(tm *Template) { tm.SerialNumber = Range{1, 2} },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			tm := *DeviceIDSelfTemplate
			mutate(&tm)
			assert.Error(t, tm.Validate())
		})
	}
}

// The published vector for this case (70 5e fc ... 0e) was signed over a
// template with 12-byte serial number fields. The 565-byte template holds
// 11 bytes, so the vector below is the signature over this template with
// SN "0123456789a".
func TestDeterministicSignature(t *testing.T) {
	sn := testSN(t)
	kp := testKeypair(0x2a)

	c := NewDeviceIDSelf()
	c.SetIssuerSN(sn)
	c.SetSubjectSN(sn)
	c.SetNotBeforeRaw("220713060606Z")
	c.SetPublicKey(kp.Public())
	c.Sign(kp)

	want, err := hex.DecodeString("4c2564c32cdc68b922658d33aabd560bcc09dd638d4ba9a34e322d6d8e5fc17d" +
		"60b6e491f9ac22c3d76999891391ccb824b5d301b168cb97cad0a0c3f9e93009")
	require.NoError(t, err)
	assert.Equal(t, want, c.Signature())

	pub := kp.Public()
	assert.NoError(t, c.Verify(pub[:]))
}

func TestSignOnlyTouchesSignature(t *testing.T) {
	sn := testSN(t)
	kp := testKeypair(0x01)
	c := NewDeviceIDSelf()
	c.SetIssuerSN(sn)
	c.SetSubjectSN(sn)
	c.SetPublicKey(kp.Public())

	before := bytes.Clone(c.Bytes())
	c.Sign(kp)
	after := c.Bytes()

	sig := c.Template().Signature
	assert.Equal(t, before[:sig.Start], after[:sig.Start])
	assert.Equal(t, before[sig.End:], after[sig.End:])
	assert.NotEqual(t, before[sig.Start:sig.End], after[sig.Start:sig.End])
}

func TestBuilder(t *testing.T) {
	sn := testSN(t)
	deviceID := testKeypair(0x02)
	devicePub := deviceID.Public()
	leafKey := testKeypair(0x03)
	fwid := crypto.Sum256([]byte{0x00})
	b := NewBuilder(testclock.NewFakeClock(testTime))

	t.Run("self signed", func(t *testing.T) {
		persistID := testKeypair(0x04)
		pub := persistID.Public()
		c := b.DeviceIDSelf(1, sn, persistID)
		assert.NoError(t, c.Verify(pub[:]))
		assert.Equal(t, CertSerialNumber(1), c.SerialNumber())
		assert.Equal(t, "220713060606Z", c.NotBefore())
	})

	t.Run("device id under persistent id", func(t *testing.T) {
		persistID := testKeypair(0x04)
		pub := persistID.Public()
		c := b.DeviceID(2, sn, devicePub, persistID)
		assert.NoError(t, c.Verify(pub[:]))
		assert.Equal(t, devicePub[:], c.PublicKey())
		assert.Error(t, c.Verify(devicePub[:]))
	})

	leaves := map[string]*Template{
		"alias":            AliasTemplate,
		"trust-quorum-dhe": TrustQuorumDHETemplate,
		"sp-measure":       SpMeasureTemplate,
	}
	for name, tmpl := range leaves {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			leafPub := leafKey.Public()
			c := b.Leaf(tmpl, 3, sn, leafPub, fwid, deviceID)

			assert.NoError(c.Verify(devicePub[:]))
			got, err := c.FWID()
			assert.NoError(err)
			assert.Equal(fwid, got)
			assert.Equal(sn, c.SubjectSN())
			assert.Equal(sn, c.IssuerSN())
			assert.Equal(leafPub[:], c.PublicKey())
			assert.Equal(CertSerialNumber(3), c.SerialNumber())
		})
	}

	t.Run("fwid mismatch panics", func(t *testing.T) {
		assert.Panics(t, func() {
			b.Issue(DeviceIDTemplate, Request{FWID: &fwid}, deviceID)
		})
		assert.Panics(t, func() {
			b.Issue(AliasTemplate, Request{}, deviceID)
		})
	})
}

func TestCertSerialNumber(t *testing.T) {
	var sn CertSerialNumber
	assert.Equal(t, CertSerialNumber(1), sn.Next())
	assert.Equal(t, CertSerialNumber(2), sn.Next())
	assert.Equal(t, CertSerialNumber(3), sn.Next())
}

func TestParseSerialNumber(t *testing.T) {
	_, err := ParseSerialNumber("0123456789ab")
	assert.Error(t, err)
	_, err = ParseSerialNumber("")
	assert.Error(t, err)

	sn, err := ParseSerialNumber("ABCDEFGHIJK")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJK", sn.String())
}

func TestFromBytes(t *testing.T) {
	kp := testKeypair(0x05)
	c := NewBuilder(testclock.NewFakeClock(testTime)).DeviceIDSelf(1, testSN(t), kp)

	parsed, err := FromBytes(DeviceIDSelfTemplate, c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c.Bytes(), parsed.Bytes())
	assert.NoError(t, parsed.Verify(parsed.PublicKey()))

	_, err = parsed.FWID()
	assert.ErrorIs(t, err, ErrNoFwid)

	_, err = FromBytes(DeviceIDSelfTemplate, c.Bytes()[:100])
	assert.ErrorIs(t, err, ErrTooSmall)
}
