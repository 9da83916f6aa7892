package attest

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Evidence is everything a remote verifier needs from one attestation:
// the certificate chain leaf first, the serialized log, the nonce and the
// quote over both.
type Evidence struct {
	Chain [][]byte `cbor:"1,keyasint"`
	Log   []byte   `cbor:"2,keyasint"`
	Nonce []byte   `cbor:"3,keyasint"`
	Quote []byte   `cbor:"4,keyasint"`
}

var evidenceEnc = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Marshal encodes e deterministically.
func (e *Evidence) Marshal() ([]byte, error) {
	b, err := evidenceEnc.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evidence: %w", err)
	}
	return b, nil
}

// ParseEvidence decodes CBOR evidence.
func ParseEvidence(b []byte) (*Evidence, error) {
	var e Evidence
	if err := cbor.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("failed to decode evidence: %w", err)
	}
	if len(e.Chain) == 0 {
		return nil, errors.New("evidence has no certificates")
	}
	return &e, nil
}

// Collect quotes the current log under nonce and gathers the chain.
func (c *Client) Collect(ctx context.Context, nonce []byte) (*Evidence, error) {
	chain, err := c.CertChain(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cert chain: %w", err)
	}
	log, err := c.Log(ctx)
	if err != nil {
		return nil, err
	}
	quote, err := c.Quote(ctx, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to quote: %w", err)
	}
	return &Evidence{Chain: chain, Log: log, Nonce: append([]byte(nil), nonce...), Quote: quote}, nil
}
