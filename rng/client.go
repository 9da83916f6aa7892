package rng

import (
	"context"
	"errors"
	"io"

	"github.com/anchorageoss/rot-dice/ipc"
)

// Client calls an RNG server.
type Client struct {
	ep *ipc.Endpoint
}

func NewClient(ep *ipc.Endpoint) *Client {
	return &Client{ep: ep}
}

// Fill fills dst and returns the number of bytes written.
func (c *Client) Fill(ctx context.Context, dst []byte) (int, error) {
	var n uint32
	if err := c.ep.Call(ctx, OpFill, nil, &n, ipc.WriteLease(dst)); err != nil {
		var remote *ipc.RemoteError
		if errors.As(err, &remote) {
			return 0, FromCode(remote.Code())
		}
		return 0, err
	}
	return int(n), nil
}

// Reader returns an io.Reader drawing from the server under ctx.
func (c *Client) Reader(ctx context.Context) io.Reader {
	return &reader{ctx: ctx, c: c}
}

type reader struct {
	ctx context.Context
	c   *Client
}

func (r *reader) Read(p []byte) (int, error) {
	return r.c.Fill(r.ctx, p)
}
