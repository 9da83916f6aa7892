package lpc55

import (
	"errors"
	"fmt"
	"sync"
)

// FlashPageSize is the erase and program granule of the internal flash.
const FlashPageSize = 512

const erasedByte = 0xff

var (
	ErrFlashUnaligned = errors.New("flash access not page aligned")
	ErrFlashNotErased = errors.New("flash program over unerased page")
)

// Flash is the ROM flash API.
type Flash interface {
	Read(addr uint32, dst []byte) error
	Erase(addr uint32, size uint32) error
	Program(addr uint32, src []byte) error
	// IsProgrammed reports whether any byte of the range differs from the
	// erased value.
	IsProgrammed(addr uint32, size uint32) (bool, error)
}

// PageAlign rounds size up to a whole number of flash pages.
func PageAlign(size uint32) uint32 {
	if size%FlashPageSize != 0 {
		return (size &^ (FlashPageSize - 1)) + FlashPageSize
	}
	return size
}

// SimFlash is a flash window held in memory.
type SimFlash struct {
	mu   sync.Mutex
	base uint32
	mem  []byte
}

// NewSimFlash returns an erased flash window of size bytes at base.
func NewSimFlash(base, size uint32) *SimFlash {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = erasedByte
	}
	return &SimFlash{base: base, mem: mem}
}

// NewSimFlashFromImage returns a flash window holding a copy of img.
func NewSimFlashFromImage(base uint32, img []byte) *SimFlash {
	mem := make([]byte, len(img))
	copy(mem, img)
	return &SimFlash{base: base, mem: mem}
}

// Image returns a copy of the flash contents.
func (f *SimFlash) Image() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := make([]byte, len(f.mem))
	copy(img, f.mem)
	return img
}

func (f *SimFlash) window(addr uint32, size uint32) ([]byte, error) {
	if addr < f.base || uint64(addr-f.base)+uint64(size) > uint64(len(f.mem)) {
		return nil, fmt.Errorf("%w: flash 0x%08x+0x%x", ErrOutOfRange, addr, size)
	}
	off := addr - f.base
	return f.mem[off : off+size], nil
}

func (f *SimFlash) Read(addr uint32, dst []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.window(addr, uint32(len(dst)))
	if err != nil {
		return err
	}
	copy(dst, w)
	return nil
}

func (f *SimFlash) Erase(addr uint32, size uint32) error {
	if addr%FlashPageSize != 0 || size%FlashPageSize != 0 {
		return fmt.Errorf("%w: erase 0x%08x+0x%x", ErrFlashUnaligned, addr, size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.window(addr, size)
	if err != nil {
		return err
	}
	for i := range w {
		w[i] = erasedByte
	}
	return nil
}

func (f *SimFlash) Program(addr uint32, src []byte) error {
	if addr%FlashPageSize != 0 || len(src)%FlashPageSize != 0 {
		return fmt.Errorf("%w: program 0x%08x+0x%x", ErrFlashUnaligned, addr, len(src))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.window(addr, uint32(len(src)))
	if err != nil {
		return err
	}
	for _, b := range w {
		if b != erasedByte {
			return ErrFlashNotErased
		}
	}
	copy(w, src)
	return nil
}

func (f *SimFlash) IsProgrammed(addr uint32, size uint32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.window(addr, size)
	if err != nil {
		return false, err
	}
	for _, b := range w {
		if b != erasedByte {
			return true, nil
		}
	}
	return false, nil
}
