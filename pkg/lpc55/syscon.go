package lpc55

import "sync"

// Syscon gates power, clock and reset for each peripheral.
type Syscon interface {
	PowerOn(p Peripheral)
	PowerOff(p Peripheral)
	IsPoweredOff(p Peripheral) bool
	EnableClock(p Peripheral)
	DisableClock(p Peripheral)
	EnterReset(p Peripheral)
	LeaveReset(p Peripheral)
}

// SimSyscon tracks gate state in memory. Peripherals start powered on,
// clock gated and held in reset, matching the reset values that matter to
// the drivers here.
type SimSyscon struct {
	mu       sync.Mutex
	powerOff map[Peripheral]bool
	clocked  map[Peripheral]bool
	released map[Peripheral]bool
}

// NewSimSyscon returns a syscon in its reset state.
func NewSimSyscon() *SimSyscon {
	return &SimSyscon{
		powerOff: make(map[Peripheral]bool),
		clocked:  make(map[Peripheral]bool),
		released: make(map[Peripheral]bool),
	}
}

func (s *SimSyscon) PowerOn(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powerOff[p] = false
}

func (s *SimSyscon) PowerOff(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powerOff[p] = true
}

func (s *SimSyscon) IsPoweredOff(p Peripheral) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powerOff[p]
}

func (s *SimSyscon) EnableClock(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clocked[p] = true
}

func (s *SimSyscon) DisableClock(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clocked[p] = false
}

func (s *SimSyscon) EnterReset(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[p] = false
}

func (s *SimSyscon) LeaveReset(p Peripheral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[p] = true
}

// Active reports whether p is powered, clocked and out of reset.
func (s *SimSyscon) Active(p Peripheral) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.powerOff[p] && s.clocked[p] && s.released[p]
}
