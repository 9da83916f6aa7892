package rng

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/handoff"
	"github.com/anchorageoss/rot-dice/ipc"
)

// OpFill fills the first lease with random bytes and replies with the
// count as a uint32.
const OpFill uint16 = 1

// chunkSize bounds the bytes drawn per lease write.
const chunkSize = 32

// Server serves OpFill from a ReseedingRng.
type Server struct {
	rng *ReseedingRng
	log *slog.Logger
}

// NewServer returns a server drawing from r.
func NewServer(r *ReseedingRng, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{rng: r, log: logger}
}

func (s *Server) Handle(ctx context.Context, req *ipc.Request) (any, error) {
	switch req.Op {
	case OpFill:
		n, err := s.fill(req.Lease(0))
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, ErrBadArg
	}
}

func (s *Server) fill(dst ipc.Lease) (uint32, error) {
	if dst == nil {
		return 0, ErrBadArg
	}
	var buf [chunkSize]byte
	defer clear(buf[:])
	cnt := 0
	for cnt < dst.Len() {
		n := min(len(buf), dst.Len()-cnt)
		if err := s.rng.Fill(buf[:n]); err != nil {
			return 0, fmt.Errorf("%w: %w", ToError(err), err)
		}
		if _, err := dst.WriteAt(buf[:n], int64(cnt)); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrClientWentAway, err)
		}
		cnt += n
	}
	return uint32(cnt), nil
}

// Personalization returns the platform serial number carried in the
// subject of the DeviceId certificate. Stage0 always issues that
// certificate from a template, in both manufacturing modes.
func Personalization(certs *handoff.CertData) []byte {
	r := cert.DeviceIDTemplate.SubjectSN
	pid := make([]byte, r.Len())
	copy(pid, certs.DeviceIDCert[r.Start:r.End])
	return pid
}

// ErrNoDiceSeed is returned when the handoff memory holds no RNG seed.
var ErrNoDiceSeed = errors.New("no dice rng seed in handoff memory")

// FromHandoff keys a ReseedingRng from the seed and personalization stage0
// left in mem.
func FromHandoff(mem handoff.Memory, reseeder Reseeder, cfg Config) (*ReseedingRng, error) {
	rngData, err := handoff.LoadRngData(mem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDiceSeed, err)
	}
	defer rngData.Zeroize()
	certs, err := handoff.LoadCertData(mem)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed personalization: %w", err)
	}
	seed := rngData.RngSeed()
	defer seed.Zeroize()
	return NewReseedingRng(seed, reseeder, Personalization(certs), cfg)
}

var _ ipc.Handler = (*Server)(nil)
