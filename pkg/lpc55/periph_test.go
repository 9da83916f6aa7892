package lpc55

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimPuf(t *testing.T) {
	puf := NewSimPuf([32]byte{0xaa})

	kc, err := puf.GenerateKeyCode(PersistIDKeyIndex, PufKeySize)
	require.NoError(t, err)

	var a, b [PufKeySize]byte
	require.NoError(t, puf.GetKey(kc, a[:]))
	require.NoError(t, puf.GetKey(kc, b[:]))
	assert.Equal(t, a, b)
	assert.NotEqual(t, [PufKeySize]byte{}, a)

	other, err := puf.GenerateKeyCode(PersistIDKeyIndex, PufKeySize)
	require.NoError(t, err)
	require.NoError(t, puf.GetKey(other, b[:]))
	assert.NotEqual(t, a, b, "fresh key code yields a fresh key")

	t.Run("blocked index yields zeros", func(t *testing.T) {
		require.NoError(t, puf.BlockIndex(PersistIDKeyIndex))
		assert.True(t, puf.IsIndexBlocked(PersistIDKeyIndex))
		var k [PufKeySize]byte
		require.NoError(t, puf.GetKey(kc, k[:]))
		assert.Equal(t, [PufKeySize]byte{}, k)
	})

	t.Run("lock", func(t *testing.T) {
		puf.LockIndicesLow()
		assert.ErrorIs(t, puf.BlockIndex(2), ErrPufLocked)
		puf.Reset()
		assert.False(t, puf.IsIndexBlocked(PersistIDKeyIndex))
		var k [PufKeySize]byte
		require.NoError(t, puf.GetKey(kc, k[:]))
		assert.Equal(t, a, k)
	})

	t.Run("bad parameters", func(t *testing.T) {
		_, err := puf.GenerateKeyCode(16, PufKeySize)
		assert.ErrorIs(t, err, ErrPufKeyIndex)
		_, err = puf.GenerateKeyCode(1, 33)
		assert.ErrorIs(t, err, ErrPufKeySize)
		assert.ErrorIs(t, puf.GetKey(KeyCode{}, make([]byte, 32)), ErrPufKeyCode)
	})
}

func TestSimFlash(t *testing.T) {
	const base = 0x9_0000
	f := NewSimFlash(base, 4*FlashPageSize)

	programmed, err := f.IsProgrammed(base, 4*FlashPageSize)
	require.NoError(t, err)
	assert.False(t, programmed)

	page := bytes.Repeat([]byte{0x5a}, FlashPageSize)
	require.NoError(t, f.Program(base+FlashPageSize, page))
	programmed, err = f.IsProgrammed(base, 4*FlashPageSize)
	require.NoError(t, err)
	assert.True(t, programmed)

	got := make([]byte, FlashPageSize)
	require.NoError(t, f.Read(base+FlashPageSize, got))
	assert.Equal(t, page, got)

	assert.ErrorIs(t, f.Program(base+FlashPageSize, page), ErrFlashNotErased)
	assert.ErrorIs(t, f.Program(base+1, page), ErrFlashUnaligned)
	assert.ErrorIs(t, f.Erase(base, 100), ErrFlashUnaligned)
	assert.ErrorIs(t, f.Read(base+4*FlashPageSize, got), ErrOutOfRange)
	assert.ErrorIs(t, f.Read(base-4, got), ErrOutOfRange)

	require.NoError(t, f.Erase(base, 4*FlashPageSize))
	programmed, err = f.IsProgrammed(base, 4*FlashPageSize)
	require.NoError(t, err)
	assert.False(t, programmed)

	restored := NewSimFlashFromImage(base, f.Image())
	assert.Equal(t, f.Image(), restored.Image())
}

func TestPageAlign(t *testing.T) {
	assert.Equal(t, uint32(0), PageAlign(0))
	assert.Equal(t, uint32(FlashPageSize), PageAlign(1))
	assert.Equal(t, uint32(FlashPageSize), PageAlign(FlashPageSize))
	assert.Equal(t, uint32(4*FlashPageSize), PageAlign(1603))
}

func TestCdiBank(t *testing.T) {
	var cdi [32]byte
	for i := range cdi {
		cdi[i] = byte(i + 1)
	}
	regs := NewMemRegs()
	LoadCdi(regs, cdi)

	bank := NewCdiBank(regs)
	assert.Equal(t, cdi, bank.ReadAndClear())
	assert.Equal(t, [32]byte{}, bank.ReadAndClear())
	for _, off := range cdiGroupOffsets {
		assert.Zero(t, regs.Read32(off))
		assert.Zero(t, regs.Read32(off+4))
	}
}

func TestSimUsart(t *testing.T) {
	dev, host := NewSimUsartPair()

	_, err := host.Write([]byte{1, 2, 0})
	require.NoError(t, err)
	for _, want := range []byte{1, 2, 0} {
		b, err := dev.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}

	dev.InjectFault(ErrFrame)
	_, err = dev.ReadByte()
	assert.ErrorIs(t, err, ErrFrame)

	require.NoError(t, host.Close())
	_, err = dev.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, dev.WriteByte(1), io.ErrClosedPipe)
}

func TestUsartConfig(t *testing.T) {
	cfg := DefaultUsartConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9600 8N1", cfg.String())

	cfg.StopBits = 3
	assert.Error(t, cfg.Validate())

	syscon := NewSimSyscon()
	TurnOnUsart(syscon)
	assert.True(t, syscon.Active(PeriphFc0))
	assert.False(t, syscon.Active(PeriphIocon))
	TurnOffUsart(syscon)
	assert.False(t, syscon.Active(PeriphFc0))
}

func TestUSB1Ram(t *testing.T) {
	syscon := NewSimSyscon()
	ram := NewUSB1Ram(syscon)

	_, err := ram.WriteAt([]byte{1}, 0)
	assert.ErrorIs(t, err, ErrBusFault)

	syscon.EnableClock(PeriphUSB1Ram)
	syscon.LeaveReset(PeriphUSB1Ram)
	n, err := ram.WriteAt([]byte{1, 2, 3}, 0x10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got := make([]byte, 3)
	_, err = ram.ReadAt(got, 0x10)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	_, err = ram.ReadAt(got, USB1RamSize-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, byte(2), ram.Snapshot()[0x11])
}
