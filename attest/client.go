package attest

import (
	"context"
	"errors"
	"fmt"

	"github.com/anchorageoss/rot-dice/ipc"
)

// readChunk bounds the bytes fetched per Cert or Log call.
const readChunk = 256

// Client calls an attestation server.
type Client struct {
	ep *ipc.Endpoint
}

func NewClient(ep *ipc.Endpoint) *Client {
	return &Client{ep: ep}
}

func (c *Client) call(ctx context.Context, op uint16, args any, reply any, leases ...ipc.Lease) error {
	err := c.ep.Call(ctx, op, args, reply, leases...)
	var remote *ipc.RemoteError
	if errors.As(err, &remote) {
		return FromCode(remote.Code())
	}
	return err
}

func (c *Client) CertChainLen(ctx context.Context) (uint32, error) {
	var n uint32
	err := c.call(ctx, OpCertChainLen, nil, &n)
	return n, err
}

func (c *Client) CertLen(ctx context.Context, index uint32) (uint32, error) {
	var n uint32
	err := c.call(ctx, OpCertLen, CertLenArgs{Index: index}, &n)
	return n, err
}

// ReadCert fills dst with the bytes of cert index starting at offset.
func (c *Client) ReadCert(ctx context.Context, index, offset uint32, dst []byte) error {
	return c.call(ctx, OpCert, CertArgs{Index: index, Offset: offset}, nil, ipc.WriteLease(dst))
}

// Cert reads the whole certificate at index.
func (c *Client) Cert(ctx context.Context, index uint32) ([]byte, error) {
	n, err := c.CertLen(ctx, index)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	for off := 0; off < len(b); off += readChunk {
		end := min(off+readChunk, len(b))
		if err := c.ReadCert(ctx, index, uint32(off), b[off:end]); err != nil {
			return nil, fmt.Errorf("failed to read cert %d at offset %d: %w", index, off, err)
		}
	}
	return b, nil
}

// CertChain reads every certificate, leaf first.
func (c *Client) CertChain(ctx context.Context) ([][]byte, error) {
	n, err := c.CertChainLen(ctx)
	if err != nil {
		return nil, err
	}
	chain := make([][]byte, 0, n)
	for i := range n {
		b, err := c.Cert(ctx, i)
		if err != nil {
			return nil, err
		}
		chain = append(chain, b)
	}
	return chain, nil
}

func (c *Client) LogLen(ctx context.Context) (uint32, error) {
	var n uint32
	err := c.call(ctx, OpLogLen, nil, &n)
	return n, err
}

// ReadLog fills dst with serialized log bytes starting at offset.
func (c *Client) ReadLog(ctx context.Context, offset uint32, dst []byte) error {
	return c.call(ctx, OpLog, LogArgs{Offset: offset}, nil, ipc.WriteLease(dst))
}

// Log reads the serialized log.
func (c *Client) Log(ctx context.Context) ([]byte, error) {
	n, err := c.LogLen(ctx)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	for off := 0; off < len(b); off += readChunk {
		end := min(off+readChunk, len(b))
		if err := c.ReadLog(ctx, uint32(off), b[off:end]); err != nil {
			return nil, fmt.Errorf("failed to read log at offset %d: %w", off, err)
		}
	}
	return b, nil
}

// Record appends a SHA3-256 digest to the log.
func (c *Client) Record(ctx context.Context, digest [DigestSize]byte) error {
	return c.call(ctx, OpRecord, RecordArgs{Algorithm: Sha3_256}, nil, ipc.ReadLease(digest[:]))
}

func (c *Client) QuoteLen(ctx context.Context) (uint32, error) {
	var n uint32
	err := c.call(ctx, OpQuoteLen, nil, &n)
	return n, err
}

// Quote returns the serialized quote over the current log and nonce.
func (c *Client) Quote(ctx context.Context, nonce []byte) ([]byte, error) {
	n, err := c.QuoteLen(ctx)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if err := c.call(ctx, OpQuote, nil, nil, ipc.ReadLease(nonce), ipc.WriteLease(b)); err != nil {
		return nil, err
	}
	return b, nil
}
