package lpc55

import (
	"math/rand/v2"
	"sync"
)

// RngSim simulates the TRNG register block. The online test reports the
// configured chi-squared bounds while active; every shift4x step lowers
// the reported maximum by the configured decay.
type RngSim struct {
	mu         sync.Mutex
	src        *rand.ChaCha8
	counterCfg uint32
	testCfg    uint32
	minChi2    uint32
	maxChi2    uint32
	decay      uint32
	refreshCnt uint32
	reads      int
}

// NewRngSim returns a healthy TRNG producing words from seed.
func NewRngSim(seed [32]byte) *RngSim {
	return &RngSim{
		src:        rand.NewChaCha8(seed),
		minChi2:    1,
		maxChi2:    3,
		decay:      1,
		refreshCnt: refreshCntReady,
	}
}

// SetChi2 sets the chi-squared bounds reported with shift4x at zero.
func (s *RngSim) SetChi2(lo, hi, decay uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minChi2, s.maxChi2, s.decay = lo, hi, decay
}

// SetRefreshCnt sets the refresh counter reported in COUNTER_VAL.
func (s *RngSim) SetRefreshCnt(v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCnt = v
}

// Reads returns the number of RANDOM_NUMBER reads.
func (s *RngSim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *RngSim) Read32(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch off {
	case RngRandomNumber:
		s.reads++
		return uint32(s.src.Uint64())
	case RngCounterVal:
		v := counterValClkRatio.set(0, 0x5a)
		return counterValRefresh.set(v, s.refreshCnt)
	case RngCounterCfg:
		return s.counterCfg
	case RngOnlineTestCfg:
		return s.testCfg
	case RngOnlineTestVal:
		if onlineTestActivate.get(s.testCfg) == 0 {
			return 0
		}
		hi := s.maxChi2
		if drop := s.decay * counterCfgShift4x.get(s.counterCfg); drop < hi {
			hi -= drop
		} else {
			hi = 0
		}
		v := onlineTestMinChi2.set(0, s.minChi2)
		v = onlineTestMaxChi2.set(v, hi)
		return onlineTestLiveChi2.set(v, (s.minChi2+hi)/2)
	default:
		return 0
	}
}

func (s *RngSim) Write32(off uint32, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch off {
	case RngCounterCfg:
		s.counterCfg = v
	case RngOnlineTestCfg:
		s.testCfg = v
	}
}
