package mfg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// Collected is what the manufacturing line provided.
type Collected struct {
	SerialNumber     cert.SerialNumber
	PersistIDCert    cert.SizedBlob
	IntermediateCert cert.SizedBlob
}

// Driver runs the device side of the manufacturing protocol. It waits in
// a single idle state, answering each request, until a Break with every
// field present or a BreakForce.
type Driver struct {
	usart   lpc55.Usart
	keypair *crypto.Keypair
	log     *slog.Logger

	haveSN    bool
	collected Collected
}

// NewDriver returns a driver answering over usart. kp is the PersistentId
// key pair the CSR is issued for.
func NewDriver(usart lpc55.Usart, kp *crypto.Keypair, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{usart: usart, keypair: kp, log: logger}
}

// Run serves requests until the line terminates the exchange. Frames that
// fail to arrive or decode are dropped. Run returns an error once the
// usart is closed or ctx is done; ctx is checked between frames.
func (d *Driver) Run(ctx context.Context) (*Collected, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := readFrame(d.usart)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("usart closed during manufacturing: %w", err)
		}
		if err != nil {
			d.log.Debug("dropping frame", "error", err)
			continue
		}
		m, err := DecodeMsg(frame)
		if err != nil {
			d.log.Debug("dropping frame", "error", err, "len", len(frame))
			continue
		}

		reply, done := d.handle(m)
		d.send(reply)
		if done {
			c := d.collected
			return &c, nil
		}
	}
}

func (d *Driver) handle(m *Msg) (*Msg, bool) {
	d.log.Debug("mfg request", "id", m.ID, "kind", m.Kind)
	ack := &Msg{ID: m.ID, Kind: KindAck}
	nak := &Msg{ID: m.ID, Kind: KindNak}

	switch m.Kind {
	case KindPing:
		return ack, false
	case KindSerialNumber:
		d.collected.SerialNumber = m.SerialNumber
		d.haveSN = true
		// A certificate for a previous serial number no longer applies.
		d.collected.PersistIDCert = cert.SizedBlob{}
		return ack, false
	case KindCsrPlz:
		if !d.haveSN {
			return nak, false
		}
		csr := cert.NewCSR(d.collected.SerialNumber, d.keypair.Public())
		if err := csr.Sign(d.keypair); err != nil {
			d.log.Warn("csr signing failed", "error", err)
			return nak, false
		}
		return &Msg{ID: m.ID, Kind: KindCsr, Blob: cert.MustSizedBlob(csr.Bytes())}, false
	case KindDeviceIDCert:
		d.collected.PersistIDCert = m.Blob
		return ack, false
	case KindIntermediateCert:
		d.collected.IntermediateCert = m.Blob
		return ack, false
	case KindBreak:
		if !d.complete() {
			return nak, false
		}
		return ack, true
	case KindBreakForce:
		return ack, true
	default:
		return nak, false
	}
}

func (d *Driver) complete() bool {
	return d.haveSN && !d.collected.PersistIDCert.IsEmpty() && !d.collected.IntermediateCert.IsEmpty()
}

func (d *Driver) send(m *Msg) {
	frame, err := m.Encode()
	if err != nil {
		d.log.Warn("failed to encode reply", "kind", m.Kind, "error", err)
		return
	}
	for _, b := range frame {
		if err := d.usart.WriteByte(b); err != nil {
			d.log.Debug("reply dropped", "kind", m.Kind, "error", err)
			return
		}
	}
}

// readFrame reads up to and excluding the next zero byte. An overlong frame
// is consumed to its terminator and reported as lpc55.ErrBufFull.
func readFrame(r io.ByteReader) ([]byte, error) {
	buf := make([]byte, 0, MaxFrameSize)
	overflow := false
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == 0 {
			if overflow {
				return nil, lpc55.ErrBufFull
			}
			return buf, nil
		}
		if len(buf) == MaxFrameSize-1 {
			overflow = true
			continue
		}
		buf = append(buf, b)
	}
}
