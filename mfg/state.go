package mfg

import (
	"errors"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// StateSize is the serialized size of DiceState.
const StateSize = lpc55.KeyCodeLen*4 + cert.SNLength + 2*(2+cert.BlobSize)

// ErrProgrammed is returned when saving over an already programmed region.
var ErrProgrammed = errors.New("dice state region already programmed")

// DiceState is the identity collected during manufacturing. It is written
// to flash once per board.
type DiceState struct {
	PersistIDKeyCode lpc55.KeyCode     `borsh:"persistid_key_code"`
	SerialNumber     cert.SerialNumber `borsh:"serial_number"`
	PersistIDCert    cert.SizedBlob    `borsh:"persistid_cert"`
	IntermediateCert cert.SizedBlob    `borsh:"intermediate_cert"`
}

// FlashRegion is the flash window reserved for the DiceState.
type FlashRegion struct {
	Start uint32
	End   uint32
}

func (r FlashRegion) Size() uint32 { return r.End - r.Start }

// DefaultRegion is the DICE manufacturing window of the flash layout.
var DefaultRegion = FlashRegion{Start: 0x0009_0000, End: 0x0009_0800}

// ValidateLayout checks that r is page aligned and holds a page-aligned
// DiceState.
func ValidateLayout(r FlashRegion) error {
	if r.Start%lpc55.FlashPageSize != 0 || r.End%lpc55.FlashPageSize != 0 {
		return fmt.Errorf("dice state region 0x%08x..0x%08x not page aligned", r.Start, r.End)
	}
	if r.End <= r.Start || r.Size() < lpc55.PageAlign(StateSize) {
		return fmt.Errorf("dice state region of %d bytes cannot hold %d", r.Size(), lpc55.PageAlign(StateSize))
	}
	return nil
}

func init() {
	if err := ValidateLayout(DefaultRegion); err != nil {
		panic(err)
	}
}

// StateStore reads and writes the DiceState region.
type StateStore struct {
	flash  lpc55.Flash
	region FlashRegion
}

// NewStateStore binds a store to region of flash.
func NewStateStore(flash lpc55.Flash, region FlashRegion) (*StateStore, error) {
	if err := ValidateLayout(region); err != nil {
		return nil, err
	}
	return &StateStore{flash: flash, region: region}, nil
}

// IsProgrammed reports whether the region holds anything but erased flash.
func (s *StateStore) IsProgrammed() (bool, error) {
	ok, err := s.flash.IsProgrammed(s.region.Start, lpc55.PageAlign(StateSize))
	if err != nil {
		return false, fmt.Errorf("failed to probe dice state: %w", err)
	}
	return ok, nil
}

// Load decodes the DiceState. The caller checks IsProgrammed first.
func (s *StateStore) Load() (*DiceState, error) {
	buf := make([]byte, StateSize)
	if err := s.flash.Read(s.region.Start, buf); err != nil {
		return nil, fmt.Errorf("failed to read dice state: %w", err)
	}
	var st DiceState
	if err := borsh.Deserialize(&st, buf); err != nil {
		return nil, fmt.Errorf("failed to decode dice state: %w", err)
	}
	return &st, nil
}

// Save erases the page-aligned region and programs st into it. It returns
// the serialized size.
func (s *StateStore) Save(st *DiceState) (int, error) {
	programmed, err := s.IsProgrammed()
	if err != nil {
		return 0, err
	}
	if programmed {
		return 0, ErrProgrammed
	}
	b, err := borsh.Serialize(*st)
	if err != nil {
		return 0, fmt.Errorf("failed to encode dice state: %w", err)
	}
	size := lpc55.PageAlign(StateSize)
	buf := make([]byte, size)
	copy(buf, b)
	if err := s.flash.Erase(s.region.Start, size); err != nil {
		return 0, fmt.Errorf("failed to erase dice state: %w", err)
	}
	if err := s.flash.Program(s.region.Start, buf); err != nil {
		return 0, fmt.Errorf("failed to program dice state: %w", err)
	}
	return len(b), nil
}
