// Package handoff moves DICE artifacts from stage0 to the tasks that run
// after it.
//
// Stage0 is the only writer. Each consumer reads one fixed region of the
// USB1 RAM holding a borsh-encoded payload that starts with a 16-byte
// magic. The encoding carries no length, so a region is decoded as the
// fixed serialized size of its payload type.
//
// # Usage
//
// Stage0 powers the memory and stores each payload:
//
//	h := handoff.TurnOn(syscon, ram)
//	if _, err := h.Store(handoff.NewRngData(seed)); err != nil {
//		panic(err)
//	}
//
// A consumer loads its payload and treats ErrBadMagic as "no DICE
// artifacts":
//
//	rngData, err := handoff.LoadRngData(ram)
//	if errors.Is(err, handoff.ErrBadMagic) {
//		// run without the measured-boot seed
//	}
package handoff

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/near/borsh-go"

	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

var (
	// ErrBadMagic is returned when a region does not hold the expected
	// payload.
	ErrBadMagic = errors.New("handoff magic mismatch")
	// ErrDecode is returned when a region cannot be decoded.
	ErrDecode = errors.New("handoff decode failed")
	// ErrTooLarge is returned when a payload does not fit its region.
	ErrTooLarge = errors.New("handoff payload exceeds region")
)

// Memory is the handoff RAM addressed relative to Base.
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

// Data is a payload bound to a handoff region.
type Data interface {
	Region() Region
	ExpectedMagic() Magic
	GetMagic() Magic
}

// MaxSize returns the serialized size of d's payload type.
func MaxSize(d Data) (int, error) {
	b, err := encode(d)
	if err != nil {
		return 0, fmt.Errorf("failed to size %s payload: %w", d.Region().Name, err)
	}
	return len(b), nil
}

// Handoff is the writer side of the handoff memory.
type Handoff struct {
	syscon lpc55.Syscon
	mem    Memory
}

// TurnOn clocks the handoff RAM and releases it from reset. The memory is
// left on for the tasks that read it.
func TurnOn(syscon lpc55.Syscon, mem Memory) *Handoff {
	syscon.EnableClock(lpc55.PeriphUSB1Ram)
	syscon.LeaveReset(lpc55.PeriphUSB1Ram)
	return &Handoff{syscon: syscon, mem: mem}
}

// TurnOff puts the handoff RAM back in reset and gates its clock.
func (h *Handoff) TurnOff() {
	h.syscon.EnterReset(lpc55.PeriphUSB1Ram)
	h.syscon.DisableClock(lpc55.PeriphUSB1Ram)
}

// Memory returns the memory the handoff writes to.
func (h *Handoff) Memory() Memory { return h.mem }

// Store writes d at the start of its region and returns the number of
// bytes written.
func (h *Handoff) Store(d Data) (int, error) {
	r := d.Region()
	b, err := encode(d)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize %s payload: %w", r.Name, err)
	}
	if uint32(len(b)) > r.Size {
		return 0, fmt.Errorf("%w: %s payload of %d bytes", ErrTooLarge, r.Name, len(b))
	}
	n, err := h.mem.WriteAt(b, int64(r.Start))
	if err != nil {
		return n, fmt.Errorf("failed to write %s region: %w", r.Name, err)
	}
	return n, nil
}

// Load decodes the region of dst into dst. It returns ErrBadMagic unless
// the decoded magic matches the payload type.
func Load(mem Memory, dst Data) error {
	r := dst.Region()
	size, err := MaxSize(dst)
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	if _, err := mem.ReadAt(buf, int64(r.Start)); err != nil {
		return fmt.Errorf("failed to read %s region: %w", r.Name, err)
	}
	if err := borsh.Deserialize(dst, buf); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, r.Name, err)
	}
	if dst.GetMagic() != dst.ExpectedMagic() {
		return fmt.Errorf("%w: %s", ErrBadMagic, r.Name)
	}
	return nil
}

// encode serializes the struct behind d. borsh encodes a pointer as an
// option.
func encode(d Data) ([]byte, error) {
	return borsh.Serialize(reflect.Indirect(reflect.ValueOf(d)).Interface())
}

// Decode is Load over a raw image of the whole handoff memory.
func Decode(img []byte, dst Data) error {
	return Load(imageMemory(img), dst)
}

func LoadCertData(mem Memory) (*CertData, error) {
	d := &CertData{}
	if err := Load(mem, d); err != nil {
		return nil, err
	}
	return d, nil
}

func LoadAliasData(mem Memory) (*AliasData, error) {
	d := &AliasData{}
	if err := Load(mem, d); err != nil {
		return nil, err
	}
	return d, nil
}

func LoadSpMeasureData(mem Memory) (*SpMeasureData, error) {
	d := &SpMeasureData{}
	if err := Load(mem, d); err != nil {
		return nil, err
	}
	return d, nil
}

func LoadRngData(mem Memory) (*RngData, error) {
	d := &RngData{}
	if err := Load(mem, d); err != nil {
		return nil, err
	}
	return d, nil
}

// imageMemory is a read-only Memory over a byte slice.
type imageMemory []byte

func (m imageMemory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m)) {
		return 0, fmt.Errorf("%w: image 0x%x+0x%x", lpc55.ErrOutOfRange, off, len(p))
	}
	return copy(p, m[off:]), nil
}

func (imageMemory) WriteAt([]byte, int64) (int, error) {
	return 0, errors.New("handoff image is read-only")
}
