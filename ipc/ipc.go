// Package ipc models the synchronous message passing between tasks.
//
// A client sends a request to an Endpoint and blocks until the server
// replies. A server runs Serve, which receives one request, dispatches it
// to a Handler and replies before receiving the next. Arguments and reply
// values are borsh encoded; bulk data travels in leases.
//
// # Usage
//
// Serve a Handler:
//
//	ep := ipc.NewEndpoint("rng")
//	go ipc.Serve(ctx, ep, handler, logger)
//
// Call it:
//
//	var n uint32
//	err := ep.Call(ctx, OpFill, nil, &n, ipc.WriteLease(buf))
//
// Errors reach the client as *RemoteError carrying the code the handler
// returned.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/near/borsh-go"
)

// Reserved codes at the top of the code space report failures of the call
// itself rather than of the server's operation.
const (
	// CodeUnknown is replied for a handler error without a code.
	CodeUnknown   uint32 = 0xffff_ffff
	CodeBadArgs   uint32 = 0xffff_fffe
	CodeUnknownOp uint32 = 0xffff_fffd
)

// Coded is an error with a stable wire code. Codes are non-zero.
type Coded interface {
	error
	Code() uint32
}

type callError struct {
	code uint32
	msg  string
}

func (e *callError) Error() string { return e.msg }
func (e *callError) Code() uint32  { return e.code }

var (
	// ErrUnknownOp is returned by handlers for an operation they do not
	// serve.
	ErrUnknownOp error = &callError{CodeUnknownOp, "unknown operation"}
	// ErrBadArgs is returned by Request.Decode for malformed arguments.
	ErrBadArgs error = &callError{CodeBadArgs, "malformed operation arguments"}
)

// CallError returns the error for a reserved code, or nil if code belongs
// to the server.
func CallError(code uint32) error {
	for _, err := range []error{ErrUnknownOp, ErrBadArgs} {
		if err.(Coded).Code() == code {
			return err
		}
	}
	return nil
}

// RemoteError is a handler error as seen by the client.
type RemoteError struct {
	Endpoint string
	Op       uint16
	code     uint32
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s op %d failed with code %d", e.Endpoint, e.Op, e.code)
}

func (e *RemoteError) Code() uint32 { return e.code }

// Unwrap returns the reserved error the code stands for, if any.
func (e *RemoteError) Unwrap() error { return CallError(e.code) }

// Request is one call as seen by the server.
type Request struct {
	Op     uint16
	Args   []byte
	Leases []Lease

	reply chan response
}

// Decode decodes the call arguments into v.
func (r *Request) Decode(v any) error {
	if err := borsh.Deserialize(v, r.Args); err != nil {
		return fmt.Errorf("%w: op %d: %w", ErrBadArgs, r.Op, err)
	}
	return nil
}

// Lease returns lease i, or nil if the client sent fewer.
func (r *Request) Lease(i int) Lease {
	if i < 0 || i >= len(r.Leases) {
		return nil
	}
	return r.Leases[i]
}

type response struct {
	code uint32
	data []byte
}

// Handler serves the operations of one endpoint. The returned value is
// borsh encoded into the reply; nil sends an empty reply.
type Handler interface {
	Handle(ctx context.Context, req *Request) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, req *Request) (any, error) { return f(ctx, req) }

// Endpoint is the receive queue of a server.
type Endpoint struct {
	name string
	reqs chan *Request
}

// NewEndpoint returns an endpoint with no server attached.
func NewEndpoint(name string) *Endpoint {
	return &Endpoint{name: name, reqs: make(chan *Request)}
}

func (e *Endpoint) Name() string { return e.name }

// Call sends op with args and waits for the reply, which is decoded into
// reply when non-nil. If ctx ends first the leases are revoked, so a
// server still working on the call sees ErrClientWentAway.
func (e *Endpoint) Call(ctx context.Context, op uint16, args any, reply any, leases ...Lease) error {
	var argb []byte
	if args != nil {
		b, err := borsh.Serialize(args)
		if err != nil {
			return fmt.Errorf("failed to encode op %d arguments: %w", op, err)
		}
		argb = b
	}
	req := &Request{Op: op, Args: argb, Leases: leases, reply: make(chan response, 1)}

	select {
	case e.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case resp := <-req.reply:
		if resp.code != 0 {
			return &RemoteError{Endpoint: e.name, Op: op, code: resp.code}
		}
		if reply == nil {
			return nil
		}
		if err := borsh.Deserialize(reply, resp.data); err != nil {
			return fmt.Errorf("failed to decode op %d reply: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		for _, l := range leases {
			if r, ok := l.(revoker); ok {
				r.revoke()
			}
		}
		return ctx.Err()
	}
}

// Serve receives and dispatches requests until ctx ends.
func Serve(ctx context.Context, ep *Endpoint, h Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("endpoint", ep.name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-ep.reqs:
			req.reply <- dispatch(ctx, h, req, log)
		}
	}
}

func dispatch(ctx context.Context, h Handler, req *Request, log *slog.Logger) response {
	v, err := h.Handle(ctx, req)
	if err != nil {
		var coded Coded
		if errors.As(err, &coded) && coded.Code() != 0 {
			log.Warn("request failed", "op", req.Op, "code", coded.Code(), "error", err)
			return response{code: coded.Code()}
		}
		log.Error("request failed without a code", "op", req.Op, "error", err)
		return response{code: CodeUnknown}
	}
	log.Debug("request served", "op", req.Op)
	if v == nil {
		return response{}
	}
	data, err := borsh.Serialize(v)
	if err != nil {
		log.Error("failed to encode reply", "op", req.Op, "error", err)
		return response{code: CodeUnknown}
	}
	return response{data: data}
}
