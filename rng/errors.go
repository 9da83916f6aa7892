package rng

import (
	"errors"
	"fmt"

	"github.com/anchorageoss/rot-dice/ipc"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// Error is an RNG server error. The values are wire codes.
type Error uint32

const (
	ErrBadArg Error = iota + 1
	ErrPoweredOff
	ErrNoEntropy
	ErrTimeoutChi2Min
	ErrTimeoutChi2Gt4
	ErrTimeoutRefreshCnt
	ErrClientWentAway
)

func (e Error) Error() string {
	switch e {
	case ErrBadArg:
		return "rng: bad argument"
	case ErrPoweredOff:
		return "rng: powered off"
	case ErrNoEntropy:
		return "rng: no entropy"
	case ErrTimeoutChi2Min:
		return "rng: timeout waiting for chi squared min"
	case ErrTimeoutChi2Gt4:
		return "rng: timeout waiting for chi squared max"
	case ErrTimeoutRefreshCnt:
		return "rng: timeout waiting for refresh count"
	case ErrClientWentAway:
		return "rng: client went away"
	default:
		return fmt.Sprintf("rng: error %d", uint32(e))
	}
}

func (e Error) Code() uint32 { return uint32(e) }

var hwErrors = []struct {
	hw  error
	err Error
}{
	{lpc55.ErrPoweredOff, ErrPoweredOff},
	{lpc55.ErrNoEntropy, ErrNoEntropy},
	{lpc55.ErrTimeoutChi2Min, ErrTimeoutChi2Min},
	{lpc55.ErrTimeoutChi2Gt4, ErrTimeoutChi2Gt4},
	{lpc55.ErrTimeoutRefreshCnt, ErrTimeoutRefreshCnt},
	{ipc.ErrClientWentAway, ErrClientWentAway},
}

// ToError maps a driver error to its Error. Errors without a variant map
// to ErrNoEntropy.
func ToError(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}
	for _, m := range hwErrors {
		if errors.Is(err, m.hw) {
			return m.err
		}
	}
	return ErrNoEntropy
}

// FromCode returns the Error for a code received over IPC.
func FromCode(code uint32) error {
	if err := ipc.CallError(code); err != nil {
		return err
	}
	if code >= uint32(ErrBadArg) && code <= uint32(ErrClientWentAway) {
		return Error(code)
	}
	return fmt.Errorf("rng: unknown error code %d", code)
}
