package cert

import "fmt"

// BlobSize is the capacity of a SizedBlob.
const BlobSize = 768

// SizedBlob carries a variable-length certificate in fixed storage. A zero
// Size means no certificate.
type SizedBlob struct {
	Size uint16         `borsh:"size"`
	Data [BlobSize]byte `borsh:"data"`
}

// NewSizedBlob copies b into a blob.
func NewSizedBlob(b []byte) (SizedBlob, error) {
	var blob SizedBlob
	if len(b) > BlobSize {
		return blob, fmt.Errorf("blob of %d bytes exceeds capacity %d", len(b), BlobSize)
	}
	blob.Size = uint16(len(b))
	copy(blob.Data[:], b)
	return blob, nil
}

// MustSizedBlob is NewSizedBlob for inputs known to fit.
func MustSizedBlob(b []byte) SizedBlob {
	blob, err := NewSizedBlob(b)
	if err != nil {
		panic(err)
	}
	return blob
}

// Bytes returns the used portion of the blob. It returns nil for an empty
// or corrupt blob.
func (b *SizedBlob) Bytes() []byte {
	if b.Size == 0 || int(b.Size) > BlobSize {
		return nil
	}
	return b.Data[:b.Size]
}

// IsEmpty reports whether the blob holds no certificate.
func (b *SizedBlob) IsEmpty() bool { return b.Size == 0 }
