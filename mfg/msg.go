package mfg

import (
	"errors"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/anchorageoss/rot-dice/cert"
)

// Kind selects the variant of a manufacturing message.
type Kind uint8

const (
	KindPing Kind = iota
	KindAck
	KindNak
	KindSerialNumber
	KindCsrPlz
	KindCsr
	KindDeviceIDCert
	KindIntermediateCert
	KindBreak
	KindBreakForce
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "Ping"
	case KindAck:
		return "Ack"
	case KindNak:
		return "Nak"
	case KindSerialNumber:
		return "SerialNumber"
	case KindCsrPlz:
		return "CsrPlz"
	case KindCsr:
		return "Csr"
	case KindDeviceIDCert:
		return "DeviceIdCert"
	case KindIntermediateCert:
		return "IntermediateCert"
	case KindBreak:
		return "Break"
	case KindBreakForce:
		return "BreakForce"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) payloadSize() int {
	switch k {
	case KindSerialNumber:
		return cert.SNLength
	case KindCsr, KindDeviceIDCert, KindIntermediateCert:
		return blobEncodedSize
	default:
		return 0
	}
}

const (
	headerSize      = 4 + 1
	blobEncodedSize = 2 + cert.BlobSize

	// MaxFrameSize bounds an encoded frame including its terminator.
	MaxFrameSize = headerSize + blobEncodedSize + (headerSize+blobEncodedSize)/254 + 2
)

var (
	// ErrUnknownKind is returned when a frame names no known message.
	ErrUnknownKind = errors.New("unknown message kind")
	// ErrMsgLength is returned when a frame payload has the wrong length.
	ErrMsgLength = errors.New("message length mismatch")
)

// Msg is one manufacturing message. SerialNumber is set for
// KindSerialNumber and Blob for the certificate and CSR kinds.
type Msg struct {
	ID           uint32
	Kind         Kind
	SerialNumber cert.SerialNumber
	Blob         cert.SizedBlob
}

type header struct {
	ID   uint32 `borsh:"id"`
	Kind Kind   `borsh:"kind"`
}

// Encode serializes m and frames it with COBS and a zero terminator.
func (m *Msg) Encode() ([]byte, error) {
	body, err := borsh.Serialize(header{ID: m.ID, Kind: m.Kind})
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}
	switch m.Kind.payloadSize() {
	case cert.SNLength:
		body = append(body, m.SerialNumber[:]...)
	case blobEncodedSize:
		blob, err := borsh.Serialize(m.Blob)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", m.Kind, err)
		}
		body = append(body, blob...)
	}
	return append(cobsEncode(body), 0), nil
}

// DecodeMsg parses a frame. The terminator, if present, is ignored.
func DecodeMsg(frame []byte) (*Msg, error) {
	if n := len(frame); n > 0 && frame[n-1] == 0 {
		frame = frame[:n-1]
	}
	body, err := cobsDecode(frame)
	if err != nil {
		return nil, err
	}
	if len(body) < headerSize {
		return nil, fmt.Errorf("%w: %d byte frame", ErrMsgLength, len(body))
	}
	var h header
	if err := borsh.Deserialize(&h, body[:headerSize]); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if h.Kind > KindBreakForce {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(h.Kind))
	}
	payload := body[headerSize:]
	if len(payload) != h.Kind.payloadSize() {
		return nil, fmt.Errorf("%w: %s with %d byte payload", ErrMsgLength, h.Kind, len(payload))
	}

	m := &Msg{ID: h.ID, Kind: h.Kind}
	switch len(payload) {
	case cert.SNLength:
		copy(m.SerialNumber[:], payload)
	case blobEncodedSize:
		if err := borsh.Deserialize(&m.Blob, payload); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", h.Kind, err)
		}
		if int(m.Blob.Size) > cert.BlobSize {
			return nil, fmt.Errorf("%w: %s blob size %d", ErrMsgLength, h.Kind, m.Blob.Size)
		}
	}
	return m, nil
}
