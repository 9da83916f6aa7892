package lpc55

import (
	"fmt"
	"sync"
)

const (
	// USB1RamBase is the bus address of the USB1 peripheral SRAM.
	USB1RamBase uint32 = 0x4010_0000
	// USB1RamSize is the size of the USB1 peripheral SRAM.
	USB1RamSize = 0x4000
)

// SRAM is a peripheral RAM that faults unless its peripheral is active.
// Offsets are relative to the start of the RAM.
type SRAM struct {
	mu     sync.Mutex
	periph Peripheral
	syscon *SimSyscon
	mem    []byte
}

// NewUSB1Ram returns the simulated USB1 RAM gated by syscon.
func NewUSB1Ram(syscon *SimSyscon) *SRAM {
	return &SRAM{periph: PeriphUSB1Ram, syscon: syscon, mem: make([]byte, USB1RamSize)}
}

func (s *SRAM) access(p []byte, off int64) ([]byte, error) {
	if !s.syscon.Active(s.periph) {
		return nil, fmt.Errorf("%w: %s gated", ErrBusFault, s.periph)
	}
	if off < 0 || off+int64(len(p)) > int64(len(s.mem)) {
		return nil, fmt.Errorf("%w: %s 0x%x+0x%x", ErrOutOfRange, s.periph, off, len(p))
	}
	return s.mem[off : off+int64(len(p))], nil
}

func (s *SRAM) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.access(p, off)
	if err != nil {
		return 0, err
	}
	return copy(p, w), nil
}

func (s *SRAM) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.access(p, off)
	if err != nil {
		return 0, err
	}
	return copy(w, p), nil
}

// Snapshot returns a copy of the RAM contents regardless of gating.
func (s *SRAM) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(s.mem))
	copy(b, s.mem)
	return b
}

// Restore overwrites the RAM with img.
func (s *SRAM) Restore(img []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(img) > len(s.mem) {
		return fmt.Errorf("%w: image of %d bytes", ErrOutOfRange, len(img))
	}
	copy(s.mem, img)
	return nil
}
