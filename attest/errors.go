package attest

import (
	"fmt"

	"github.com/anchorageoss/rot-dice/ipc"
)

// Error is an attestation server error. The values are wire codes.
type Error uint32

const (
	ErrCertTooBig Error = iota + 1
	ErrInvalidCertIndex
	ErrNoCerts
	ErrOutOfRange
	ErrLogFull
	ErrLogTooBig
	ErrTaskRestarted
	ErrBadLease
	ErrUnsupportedAlgorithm
	ErrSerializeLog
	ErrSerializeSignature
	ErrSignatureTooBig
)

var errorText = map[Error]string{
	ErrCertTooBig:           "cert too big",
	ErrInvalidCertIndex:     "invalid cert index",
	ErrNoCerts:              "no certs",
	ErrOutOfRange:           "out of range",
	ErrLogFull:              "log full",
	ErrLogTooBig:            "log too big",
	ErrTaskRestarted:        "task restarted",
	ErrBadLease:             "bad lease",
	ErrUnsupportedAlgorithm: "unsupported algorithm",
	ErrSerializeLog:         "failed to serialize log",
	ErrSerializeSignature:   "failed to serialize signature",
	ErrSignatureTooBig:      "signature too big",
}

func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return "attest: " + s
	}
	return fmt.Sprintf("attest: error %d", uint32(e))
}

func (e Error) Code() uint32 { return uint32(e) }

// FromCode returns the Error for a code received over IPC.
func FromCode(code uint32) error {
	if err := ipc.CallError(code); err != nil {
		return err
	}
	if _, ok := errorText[Error(code)]; ok {
		return Error(code)
	}
	return fmt.Errorf("attest: unknown error code %d", code)
}
