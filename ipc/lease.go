package ipc

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClientWentAway is returned by lease accesses after the client
	// abandoned the call.
	ErrClientWentAway = errors.New("client went away")
	// ErrLeaseAccess is returned for a read of a write-only lease or the
	// reverse.
	ErrLeaseAccess = errors.New("lease access not permitted")
	// ErrLeaseRange is returned for an access outside the lease.
	ErrLeaseRange = errors.New("lease access out of range")
)

// Lease is a client buffer lent to the server for the duration of a call.
type Lease interface {
	Len() int
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

type revoker interface {
	revoke()
}

// Attr is the access a lease grants.
type Attr uint8

const (
	AttrRead Attr = 1 << iota
	AttrWrite
)

// BufLease lends a byte slice.
type BufLease struct {
	mu      sync.Mutex
	buf     []byte
	attr    Attr
	revoked bool
}

// ReadLease lends b for reading by the server.
func ReadLease(b []byte) *BufLease { return &BufLease{buf: b, attr: AttrRead} }

// WriteLease lends b for writing by the server.
func WriteLease(b []byte) *BufLease { return &BufLease{buf: b, attr: AttrWrite} }

func (l *BufLease) Len() int { return len(l.buf) }

// Bytes returns the lent buffer.
func (l *BufLease) Bytes() []byte { return l.buf }

func (l *BufLease) revoke() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked = true
}

func (l *BufLease) window(n int, off int64, attr Attr) ([]byte, error) {
	if l.revoked {
		return nil, ErrClientWentAway
	}
	if l.attr&attr == 0 {
		return nil, ErrLeaseAccess
	}
	if off < 0 || off+int64(n) > int64(len(l.buf)) {
		return nil, fmt.Errorf("%w: %d bytes at %d of %d", ErrLeaseRange, n, off, len(l.buf))
	}
	return l.buf[off : off+int64(n)], nil
}

func (l *BufLease) ReadAt(p []byte, off int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, err := l.window(len(p), off, AttrRead)
	if err != nil {
		return 0, err
	}
	return copy(p, w), nil
}

func (l *BufLease) WriteAt(p []byte, off int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, err := l.window(len(p), off, AttrWrite)
	if err != nil {
		return 0, err
	}
	return copy(w, p), nil
}
