package mfg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// ErrRefused is returned when the device answers a request with Nak.
var ErrRefused = errors.New("device refused request")

// Host drives the line side of the manufacturing protocol.
type Host struct {
	usart lpc55.Usart
	next  uint32
	log   *slog.Logger
}

// NewHost returns a host talking to a device over usart.
func NewHost(usart lpc55.Usart, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{usart: usart, log: logger}
}

// Call sends m under a fresh ID and returns the reply echoing that ID.
// Undecodable frames and stale replies are skipped. ctx is checked between
// frames.
func (h *Host) Call(ctx context.Context, m *Msg) (*Msg, error) {
	h.next++
	m.ID = h.next
	frame, err := m.Encode()
	if err != nil {
		return nil, err
	}
	for _, b := range frame {
		if err := h.usart.WriteByte(b); err != nil {
			return nil, fmt.Errorf("failed to send %s: %w", m.Kind, err)
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := readFrame(h.usart)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("usart closed waiting for %s reply: %w", m.Kind, err)
		}
		if err != nil {
			h.log.Debug("dropping frame", "error", err)
			continue
		}
		reply, err := DecodeMsg(frame)
		if err != nil {
			h.log.Debug("dropping frame", "error", err)
			continue
		}
		if reply.ID != m.ID {
			h.log.Debug("dropping stale reply", "id", reply.ID, "want", m.ID)
			continue
		}
		return reply, nil
	}
}

func (h *Host) expect(ctx context.Context, m *Msg, want Kind) (*Msg, error) {
	kind := m.Kind
	reply, err := h.Call(ctx, m)
	if err != nil {
		return nil, err
	}
	switch reply.Kind {
	case want:
		return reply, nil
	case KindNak:
		return nil, fmt.Errorf("%w: %s", ErrRefused, kind)
	default:
		return nil, fmt.Errorf("unexpected %s reply to %s", reply.Kind, kind)
	}
}

// Manufacture runs a complete session: it assigns sn, has ca certify the
// device CSR, sends the certificates and ends the exchange.
func (h *Host) Manufacture(ctx context.Context, sn cert.SerialNumber, ca *LineCA) error {
	if _, err := h.expect(ctx, &Msg{Kind: KindPing}, KindAck); err != nil {
		return err
	}
	if _, err := h.expect(ctx, &Msg{Kind: KindSerialNumber, SerialNumber: sn}, KindAck); err != nil {
		return err
	}
	reply, err := h.expect(ctx, &Msg{Kind: KindCsrPlz}, KindCsr)
	if err != nil {
		return err
	}
	csr, err := cert.ParseCSR(reply.Blob.Bytes())
	if err != nil {
		return fmt.Errorf("failed to parse csr: %w", err)
	}
	if csr.SubjectSN() != sn {
		return fmt.Errorf("csr serial number %q, assigned %q", csr.SubjectSN(), sn)
	}
	der, err := ca.Issue(csr)
	if err != nil {
		return err
	}

	blob, err := cert.NewSizedBlob(der)
	if err != nil {
		return err
	}
	if _, err := h.expect(ctx, &Msg{Kind: KindDeviceIDCert, Blob: blob}, KindAck); err != nil {
		return err
	}
	blob, err = cert.NewSizedBlob(ca.Intermediate())
	if err != nil {
		return err
	}
	if _, err := h.expect(ctx, &Msg{Kind: KindIntermediateCert, Blob: blob}, KindAck); err != nil {
		return err
	}
	if _, err := h.expect(ctx, &Msg{Kind: KindBreak}, KindAck); err != nil {
		return err
	}
	h.log.Info("device manufactured", "serial_number", sn)
	return nil
}
