package lpc55

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestRng(t *testing.T) (*HwRng, *RngSim, *SimSyscon, *testclock.FakeClock) {
	t.Helper()
	sim := NewRngSim([32]byte{1})
	syscon := NewSimSyscon()
	clk := testclock.NewFakeClock(epoch)
	r, err := NewHwRng(sim, syscon, clk, DefaultRngConfig())
	require.NoError(t, err)
	return r, sim, syscon, clk
}

func TestHwRngInit(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r, sim, syscon, clk := newTestRng(t)
		require.NoError(t, r.Init())

		assert.True(t, syscon.Active(PeriphRng))
		assert.Equal(t, uint32(0), r.Shift4x())
		assert.Equal(t, epoch, clk.Now())

		cfg := sim.Read32(RngCounterCfg)
		assert.Equal(t, counterModeFreeRuns, counterCfgMode.get(cfg))
		assert.Equal(t, uint32(ClockSelXorAll), counterCfgClockSel.get(cfg))
		assert.Equal(t, uint32(1), onlineTestActivate.get(sim.Read32(RngOnlineTestCfg)))
	})

	t.Run("shift4x raised until chi squared settles", func(t *testing.T) {
		var logs bytes.Buffer
		sim := NewRngSim([32]byte{1})
		clk := testclock.NewFakeClock(epoch)
		cfg := DefaultRngConfig()
		cfg.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		r, err := NewHwRng(sim, NewSimSyscon(), clk, cfg)
		require.NoError(t, err)
		sim.SetChi2(1, 7, 2)
		require.NoError(t, r.Init())

		assert.Contains(t, logs.String(), "shift4x=1")
		assert.Contains(t, logs.String(), "shift4x=2")
		assert.Equal(t, uint32(2), r.Shift4x())
		assert.Equal(t, uint32(2), counterCfgShift4x.get(sim.Read32(RngCounterCfg)))
		assert.Equal(t, epoch.Add(2*500*time.Millisecond), clk.Now())
	})

	t.Run("max never above min", func(t *testing.T) {
		r, sim, _, clk := newTestRng(t)
		sim.SetChi2(4, 4, 0)
		assert.ErrorIs(t, r.Init(), ErrTimeoutChi2Min)
		assert.Equal(t, epoch.Add(5*200*time.Millisecond), clk.Now())
	})

	t.Run("max stuck above ceiling", func(t *testing.T) {
		r, sim, _, clk := newTestRng(t)
		sim.SetChi2(1, 9, 0)
		assert.ErrorIs(t, r.Init(), ErrTimeoutChi2Gt4)
		assert.Equal(t, epoch.Add(5*500*time.Millisecond), clk.Now())
	})
}

func TestHwRngRead(t *testing.T) {
	t.Run("fill", func(t *testing.T) {
		r, sim, _, _ := newTestRng(t)
		require.NoError(t, r.Init())

		buf := make([]byte, 13)
		require.NoError(t, r.Fill(buf))
		assert.Equal(t, 4, sim.Reads())
		assert.NotEqual(t, make([]byte, 13), buf)

		n, err := r.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
	})

	t.Run("powered off", func(t *testing.T) {
		r, _, syscon, _ := newTestRng(t)
		require.NoError(t, r.Init())
		syscon.PowerOff(PeriphRng)
		_, err := r.Next()
		assert.ErrorIs(t, err, ErrPoweredOff)
	})

	t.Run("closed", func(t *testing.T) {
		r, _, _, _ := newTestRng(t)
		require.NoError(t, r.Init())
		r.Close()
		assert.ErrorIs(t, r.Fill(make([]byte, 4)), ErrPoweredOff)
	})

	t.Run("refresh count never ready", func(t *testing.T) {
		r, sim, _, clk := newTestRng(t)
		require.NoError(t, r.Init())
		sim.SetRefreshCnt(3)
		_, err := r.Next()
		assert.ErrorIs(t, err, ErrTimeoutRefreshCnt)
		assert.Equal(t, 0, sim.Reads())
		assert.Equal(t, epoch.Add(5*time.Millisecond), clk.Now())
	})

	t.Run("entropy lost", func(t *testing.T) {
		r, sim, _, _ := newTestRng(t)
		require.NoError(t, r.Init())
		sim.SetChi2(1, 9, 0)
		_, err := r.Next()
		assert.ErrorIs(t, err, ErrNoEntropy)
	})
}

func TestRngConfigValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*RngConfig)
		wantErr bool
	}{
		"default":         {mutate: func(*RngConfig) {}},
		"no retries":      {mutate: func(c *RngConfig) { c.Retries = 0 }, wantErr: true},
		"zero wait":       {mutate: func(c *RngConfig) { c.MinWait = 0 }, wantErr: true},
		"clock sel range": {mutate: func(c *RngConfig) { c.ClockSel = 8 }, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultRngConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				_, err = NewHwRng(NewRngSim([32]byte{}), NewSimSyscon(), nil, cfg)
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
