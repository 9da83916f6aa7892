package lpc55

import "sync"

// Regs is a 32-bit register block addressed by byte offset.
type Regs interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// field is a contiguous bit range within a register.
type field struct {
	shift uint
	width uint
}

func (f field) mask() uint32 { return (1<<f.width - 1) << f.shift }

func (f field) get(reg uint32) uint32 { return (reg & f.mask()) >> f.shift }

func (f field) set(reg, v uint32) uint32 {
	return (reg &^ f.mask()) | ((v << f.shift) & f.mask())
}

// modify applies fn to the register at off.
func modify(r Regs, off uint32, fn func(uint32) uint32) {
	r.Write32(off, fn(r.Read32(off)))
}

// MemRegs is a register block backed by memory. Unwritten registers read
// as zero.
type MemRegs struct {
	mu    sync.Mutex
	words map[uint32]uint32
}

// NewMemRegs returns an empty register block.
func NewMemRegs() *MemRegs {
	return &MemRegs{words: make(map[uint32]uint32)}
}

func (m *MemRegs) Read32(off uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[off]
}

func (m *MemRegs) Write32(off uint32, v uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[off] = v
}
