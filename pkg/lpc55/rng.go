package lpc55

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

// TRNG register offsets.
const (
	RngRandomNumber  uint32 = 0x00
	RngCounterVal    uint32 = 0x08
	RngCounterCfg    uint32 = 0x0c
	RngOnlineTestCfg uint32 = 0x10
	RngOnlineTestVal uint32 = 0x14
)

var (
	counterValClkRatio  = field{shift: 0, width: 8}
	counterValRefresh   = field{shift: 8, width: 5}
	counterCfgMode      = field{shift: 0, width: 2}
	counterCfgClockSel  = field{shift: 2, width: 3}
	counterCfgShift4x   = field{shift: 5, width: 3}
	onlineTestActivate  = field{shift: 0, width: 1}
	onlineTestLiveChi2  = field{shift: 0, width: 4}
	onlineTestMinChi2   = field{shift: 4, width: 4}
	onlineTestMaxChi2   = field{shift: 8, width: 4}
	maxShift4x          = uint32(1)<<counterCfgShift4x.width - 1
	refreshCntReady     = uint32(31)
	chi2EntropyCeiling  = uint32(4)
	counterModeFreeRuns = uint32(2)
)

// ClockSel selects the ring oscillator outputs fed to the entropy counter.
type ClockSel uint8

const (
	// ClockSelXorAll XORs every oscillator output. The reference manual
	// recommends encoding 4 but that setting never produces entropy on
	// shipped parts; encoding 0 is the one observed to work.
	ClockSelXorAll ClockSel = 0
	ClockSelRatio1 ClockSel = 1
	ClockSelRatio2 ClockSel = 2
	ClockSelRatio3 ClockSel = 3
)

var (
	ErrPoweredOff        = errors.New("rng powered off")
	ErrNoEntropy         = errors.New("rng has no entropy")
	ErrTimeoutChi2Min    = errors.New("timeout waiting for max chi squared above min")
	ErrTimeoutChi2Gt4    = errors.New("timeout waiting for max chi squared at or below 4")
	ErrTimeoutRefreshCnt = errors.New("timeout waiting for refresh count")
)

// RngConfig bounds the polling loops of the TRNG driver.
type RngConfig struct {
	// Retries is the number of extra polls after the first check.
	Retries  int
	MinWait  time.Duration
	Gt4Wait  time.Duration
	ReadWait time.Duration
	ClockSel ClockSel
	// Logger receives driver traces. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultRngConfig returns the retry counts and sleeps used on hardware.
func DefaultRngConfig() RngConfig {
	return RngConfig{
		Retries:  5,
		MinWait:  200 * time.Millisecond,
		Gt4Wait:  500 * time.Millisecond,
		ReadWait: time.Millisecond,
		ClockSel: ClockSelXorAll,
	}
}

// Validate reports whether the config can drive the hardware.
func (c RngConfig) Validate() error {
	if c.Retries <= 0 {
		return fmt.Errorf("rng retries must be positive, got %d", c.Retries)
	}
	if c.MinWait <= 0 || c.Gt4Wait <= 0 || c.ReadWait <= 0 {
		return errors.New("rng wait durations must be positive")
	}
	if uint32(c.ClockSel) > counterCfgClockSel.mask()>>counterCfgClockSel.shift {
		return fmt.Errorf("rng clock select %d out of range", c.ClockSel)
	}
	return nil
}

// HwRng drives the LPC55 TRNG.
type HwRng struct {
	regs    Regs
	syscon  Syscon
	clock   clock.Clock
	cfg     RngConfig
	log     *slog.Logger
	shift4x uint32
}

// NewHwRng returns a driver for regs. Call Init before reading.
func NewHwRng(regs Regs, syscon Syscon, clk clock.Clock, cfg RngConfig) (*HwRng, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rng config: %w", err)
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HwRng{regs: regs, syscon: syscon, clock: clk, cfg: cfg, log: logger}, nil
}

// Init powers the TRNG and waits for the online test to settle.
func (r *HwRng) Init() error {
	r.syscon.PowerOn(PeriphRng)
	r.syscon.EnableClock(PeriphRng)
	r.syscon.EnterReset(PeriphRng)
	r.syscon.LeaveReset(PeriphRng)

	r.shift4x = 0
	r.writeCounterCfg()
	r.setOnlineTest(true)

	if !r.poll(r.cfg.MinWait, func() bool {
		v := r.regs.Read32(RngOnlineTestVal)
		return onlineTestMaxChi2.get(v) > onlineTestMinChi2.get(v)
	}) {
		return ErrTimeoutChi2Min
	}

	for i := 0; r.maxChi2() > chi2EntropyCeiling; i++ {
		if i == r.cfg.Retries || r.shift4x == maxShift4x {
			return ErrTimeoutChi2Gt4
		}
		r.setOnlineTest(false)
		r.shift4x++
		r.writeCounterCfg()
		r.setOnlineTest(true)
		r.log.Debug("rng chi squared above ceiling", "shift4x", r.shift4x)
		r.clock.Sleep(r.cfg.Gt4Wait)
	}
	return nil
}

// Close disables the online test and gates the TRNG.
func (r *HwRng) Close() {
	r.setOnlineTest(false)
	r.syscon.EnterReset(PeriphRng)
	r.syscon.DisableClock(PeriphRng)
	r.syscon.PowerOff(PeriphRng)
}

// Next returns one 32-bit word of entropy.
func (r *HwRng) Next() (uint32, error) {
	if r.syscon.IsPoweredOff(PeriphRng) {
		return 0, ErrPoweredOff
	}
	if !r.poll(r.cfg.ReadWait, func() bool {
		return counterValRefresh.get(r.regs.Read32(RngCounterVal)) == refreshCntReady
	}) {
		return 0, ErrTimeoutRefreshCnt
	}
	v := r.regs.Read32(RngRandomNumber)
	if !r.poll(r.cfg.ReadWait, func() bool {
		return r.maxChi2() <= chi2EntropyCeiling
	}) {
		return 0, ErrNoEntropy
	}
	return v, nil
}

// Fill writes entropy into dst in little-endian word order.
func (r *HwRng) Fill(dst []byte) error {
	var word [4]byte
	for filled := 0; filled < len(dst); {
		v, err := r.Next()
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(word[:], v)
		filled += copy(dst[filled:], word[:])
	}
	clear(word[:])
	return nil
}

// Read implements io.Reader over Fill.
func (r *HwRng) Read(p []byte) (int, error) {
	if err := r.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Shift4x returns the current counter shift.
func (r *HwRng) Shift4x() uint32 { return r.shift4x }

func (r *HwRng) maxChi2() uint32 {
	return onlineTestMaxChi2.get(r.regs.Read32(RngOnlineTestVal))
}

func (r *HwRng) writeCounterCfg() {
	modify(r.regs, RngCounterCfg, func(v uint32) uint32 {
		v = counterCfgMode.set(v, counterModeFreeRuns)
		v = counterCfgClockSel.set(v, uint32(r.cfg.ClockSel))
		return counterCfgShift4x.set(v, r.shift4x)
	})
}

func (r *HwRng) setOnlineTest(on bool) {
	var bit uint32
	if on {
		bit = 1
	}
	modify(r.regs, RngOnlineTestCfg, func(v uint32) uint32 {
		return onlineTestActivate.set(v, bit)
	})
}

// poll checks cond, then retries up to cfg.Retries times sleeping d
// between attempts.
func (r *HwRng) poll(d time.Duration, cond func() bool) bool {
	for i := 0; ; i++ {
		if cond() {
			return true
		}
		if i == r.cfg.Retries {
			return false
		}
		r.clock.Sleep(d)
	}
}
