package lpc55

import "encoding/binary"

// CdiWords is the number of 32-bit registers holding the CDI.
const CdiWords = 8

// cdiGroupOffsets are the four two-word register groups of the bank.
var cdiGroupOffsets = [4]uint32{0x00, 0x08, 0x10, 0x18}

// CdiBank is the register bank the boot ROM leaves the CDI in.
type CdiBank struct {
	regs Regs
}

// NewCdiBank wraps the bank registers.
func NewCdiBank(regs Regs) *CdiBank {
	return &CdiBank{regs: regs}
}

// ReadAndClear returns the CDI and overwrites the bank with zeros, so any
// later read returns all zeros.
func (b *CdiBank) ReadAndClear() [CdiWords * 4]byte {
	var cdi [CdiWords * 4]byte
	i := 0
	for _, off := range cdiGroupOffsets {
		for w := uint32(0); w < 2; w++ {
			binary.LittleEndian.PutUint32(cdi[i*4:], b.regs.Read32(off+w*4))
			b.regs.Write32(off+w*4, 0)
			i++
		}
	}
	return cdi
}

// LoadCdi writes cdi into regs as the boot ROM does.
func LoadCdi(regs Regs, cdi [CdiWords * 4]byte) {
	i := 0
	for _, off := range cdiGroupOffsets {
		for w := uint32(0); w < 2; w++ {
			regs.Write32(off+w*4, binary.LittleEndian.Uint32(cdi[i*4:]))
			i++
		}
	}
}
