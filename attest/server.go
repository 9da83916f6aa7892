// Package attest serves the DICE certificate chain, a measurement log and
// signed quotes over the log.
//
// # Chain order
//
// Index 0 is the Alias leaf, 1 the DeviceId certificate, 2 the
// PersistentId certificate and 3 the manufacturing intermediate. A
// self-signed identity has no intermediate and a chain of 3.
//
// # Quotes
//
// A quote is an Ed25519 signature by the Alias key over
//
//	SHA3-256(borsh(log) || nonce)
//
// serialized as a one byte tag followed by the 64 signature bytes.
package attest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/handoff"
	"github.com/anchorageoss/rot-dice/ipc"
)

const (
	OpCertChainLen uint16 = iota + 1
	OpCertLen
	OpCert
	OpLogLen
	OpLog
	OpRecord
	OpQuoteLen
	OpQuote
)

// CertLenArgs are the arguments of OpCertLen.
type CertLenArgs struct {
	Index uint32 `borsh:"index"`
}

// CertArgs are the arguments of OpCert. The first lease receives the
// bytes.
type CertArgs struct {
	Index  uint32 `borsh:"index"`
	Offset uint32 `borsh:"offset"`
}

// LogArgs are the arguments of OpLog. The first lease receives the bytes.
type LogArgs struct {
	Offset uint32 `borsh:"offset"`
}

// RecordArgs are the arguments of OpRecord. The first lease holds the
// digest.
type RecordArgs struct {
	Algorithm HashAlgorithm `borsh:"algorithm"`
}

// Server answers attestation requests from the handoff data stage0 left
// behind. A Server without handoff data answers ErrNoCerts.
type Server struct {
	alias  *handoff.AliasData
	certs  *handoff.CertData
	kp     *crypto.Keypair
	log    Log
	logger *slog.Logger
}

// NewServer returns a server over alias and certs. Either may be nil.
func NewServer(alias *handoff.AliasData, certs *handoff.CertData, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{alias: alias, certs: certs, logger: logger}
	if alias != nil {
		seed := alias.AliasOkm()
		s.kp = crypto.NewKeypair(seed)
		seed.Zeroize()
	}
	return s
}

// FromHandoff loads the CERTS and ALIAS regions of mem. Load failures are
// logged and leave the server without certificates.
func FromHandoff(mem handoff.Memory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	alias, err := handoff.LoadAliasData(mem)
	if err != nil {
		logger.Warn("no alias data in handoff memory", "error", err)
		alias = nil
	}
	certs, err := handoff.LoadCertData(mem)
	if err != nil {
		logger.Warn("no cert data in handoff memory", "error", err)
		certs = nil
	}
	return NewServer(alias, certs, logger)
}

// Close erases the Alias key material.
func (s *Server) Close() {
	if s.kp != nil {
		s.kp.Zeroize()
	}
	if s.alias != nil {
		s.alias.Zeroize()
	}
}

func (s *Server) Handle(ctx context.Context, req *ipc.Request) (any, error) {
	switch req.Op {
	case OpCertChainLen:
		return s.certChainLen()
	case OpCertLen:
		var args CertLenArgs
		if err := req.Decode(&args); err != nil {
			return nil, err
		}
		return s.certLen(args.Index)
	case OpCert:
		var args CertArgs
		if err := req.Decode(&args); err != nil {
			return nil, err
		}
		return nil, s.cert(args, req.Lease(0))
	case OpLogLen:
		return uint32(LogSize), nil
	case OpLog:
		var args LogArgs
		if err := req.Decode(&args); err != nil {
			return nil, err
		}
		return nil, s.readLog(args.Offset, req.Lease(0))
	case OpRecord:
		var args RecordArgs
		if err := req.Decode(&args); err != nil {
			return nil, err
		}
		return nil, s.record(args.Algorithm, req.Lease(0))
	case OpQuoteLen:
		return uint32(QuoteSize), nil
	case OpQuote:
		return nil, s.quote(req.Lease(0), req.Lease(1))
	default:
		return nil, fmt.Errorf("%w: %d", ipc.ErrUnknownOp, req.Op)
	}
}

func (s *Server) certChainLen() (uint32, error) {
	if s.certs == nil {
		return 0, ErrNoCerts
	}
	if s.certs.HasIntermediate() {
		return 4, nil
	}
	return 3, nil
}

func (s *Server) certBytes(index uint32) ([]byte, error) {
	if s.alias == nil || s.certs == nil {
		return nil, ErrNoCerts
	}
	switch index {
	case 0:
		return s.alias.AliasCert[:], nil
	case 1:
		return s.certs.DeviceIDCert[:], nil
	case 2:
		return s.certs.PersistIDCert.Bytes(), nil
	case 3:
		if s.certs.HasIntermediate() {
			return s.certs.IntermediateCert.Bytes(), nil
		}
	}
	return nil, ErrInvalidCertIndex
}

func (s *Server) certLen(index uint32) (uint32, error) {
	b, err := s.certBytes(index)
	if err != nil {
		return 0, err
	}
	return uint32(len(b)), nil
}

func (s *Server) cert(args CertArgs, dst ipc.Lease) error {
	b, err := s.certBytes(args.Index)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return ErrInvalidCertIndex
	}
	return writeRange(b, args.Offset, dst)
}

func (s *Server) readLog(offset uint32, dst ipc.Lease) error {
	b, err := s.log.MarshalBinary()
	if err != nil {
		return err
	}
	if len(b) != LogSize {
		return ErrLogTooBig
	}
	return writeRange(b, offset, dst)
}

// writeRange copies dst.Len() bytes of src starting at offset into dst.
func writeRange(src []byte, offset uint32, dst ipc.Lease) error {
	if dst == nil {
		return ErrBadLease
	}
	if uint64(offset)+uint64(dst.Len()) > uint64(len(src)) {
		return ErrOutOfRange
	}
	if _, err := dst.WriteAt(src[offset:int(offset)+dst.Len()], 0); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLease, err)
	}
	return nil
}

func (s *Server) record(alg HashAlgorithm, digest ipc.Lease) error {
	if alg != Sha3_256 {
		return ErrUnsupportedAlgorithm
	}
	if digest == nil || digest.Len() != DigestSize {
		return ErrBadLease
	}
	m := Measurement{Algorithm: alg}
	if _, err := digest.ReadAt(m.Digest[:], 0); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLease, err)
	}
	if err := s.log.Record(m); err != nil {
		return err
	}
	s.logger.Debug("measurement recorded", "index", s.log.Index-1, "algorithm", alg)
	return nil
}

func (s *Server) quote(nonce, dst ipc.Lease) error {
	if s.kp == nil {
		return ErrNoCerts
	}
	if nonce == nil || dst == nil {
		return ErrBadLease
	}
	if dst.Len() < QuoteSize {
		return ErrSignatureTooBig
	}
	n := make([]byte, nonce.Len())
	if _, err := nonce.ReadAt(n, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLease, err)
	}
	log, err := s.log.MarshalBinary()
	if err != nil {
		return err
	}
	b, err := Quote(s.kp, log, n).MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := dst.WriteAt(b, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrBadLease, err)
	}
	return nil
}

var _ ipc.Handler = (*Server)(nil)
