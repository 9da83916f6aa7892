package stage0

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"k8s.io/utils/clock"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/handoff"
	"github.com/anchorageoss/rot-dice/mfg"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// Mode selects how the PersistentId identity is established.
type Mode uint8

const (
	ModeSelfSigned Mode = iota
	ModeSerial
)

func (m Mode) String() string {
	switch m {
	case ModeSelfSigned:
		return "self"
	case ModeSerial:
		return "serial"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses "self" or "serial".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "self":
		return ModeSelfSigned, nil
	case "serial":
		return ModeSerial, nil
	default:
		return 0, fmt.Errorf("unknown dice mode %q", s)
	}
}

// Board is the hardware stage0 runs on.
type Board struct {
	Mode    Mode
	Syscon  lpc55.Syscon
	Cdi     *lpc55.CdiBank
	Handoff handoff.Memory
	// Image is the firmware image measured into the FWID.
	Image []byte

	// Puf, Store and Usart back the manufacturing step. Serial mode needs
	// all three; self mode uses the PUF when set and the CDI otherwise.
	Puf   lpc55.Puf
	Store *mfg.StateStore
	Usart lpc55.Usart

	Clock  clock.PassiveClock
	Logger *slog.Logger
}

func (b *Board) Validate() error {
	switch {
	case b.Syscon == nil:
		return errors.New("board has no syscon")
	case b.Cdi == nil:
		return errors.New("board has no cdi bank")
	case b.Handoff == nil:
		return errors.New("board has no handoff memory")
	}
	if b.Mode != ModeSelfSigned && b.Mode != ModeSerial {
		return fmt.Errorf("unknown dice mode %d", b.Mode)
	}
	return nil
}

func (b *Board) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Board) diceMfg(cdi *crypto.Cdi, builder *cert.Builder) (mfg.DiceMfg, error) {
	cfg := mfg.Config{
		Puf:     b.Puf,
		Store:   b.Store,
		Syscon:  b.Syscon,
		Usart:   b.Usart,
		Builder: builder,
		Logger:  b.logger(),
	}
	if b.Mode == ModeSerial {
		m, err := mfg.NewSerial(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := mfg.NewSelfSigned(cfg, cdi)
	if err != nil {
		return nil, err
	}
	return m, nil
}
