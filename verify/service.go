package verify

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/anchorageoss/rot-dice/attest"
)

// EvidenceSource collects attestation evidence for a nonce.
type EvidenceSource interface {
	Collect(ctx context.Context, nonce []byte) (*attest.Evidence, error)
}

// Service handles verification logic
type Service struct {
	source EvidenceSource
}

// NewService creates a new verification service
func NewService(source EvidenceSource) *Service {
	return &Service{source: source}
}

// Verify collects evidence for req.Nonce and checks it.
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResult, error) {
	if len(req.Nonce) == 0 {
		return nil, errors.New("nonce is required")
	}
	ev, err := s.source.Collect(ctx, req.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to collect evidence: %w", err)
	}
	return Evidence(ev, req)
}

// Evidence checks ev. Verification failures are reported in the result;
// the error is non-nil only when ev cannot be parsed.
func Evidence(ev *attest.Evidence, req *VerifyRequest) (*VerifyResult, error) {
	certs, err := ParseChain(ev.Chain)
	if err != nil {
		return nil, err
	}
	log, err := attest.ParseLog(ev.Log)
	if err != nil {
		return nil, err
	}
	sig, err := attest.ParseSignature(ev.Quote)
	if err != nil {
		return nil, err
	}

	leaf := certs[0]
	result := &VerifyResult{
		SelfSigned:   len(certs) == 3,
		SerialNumber: leaf.SubjectSN,
		AliasKeyHex:  hex.EncodeToString(leaf.PublicKey),
		Measurements: log.Entries(),
	}

	links, errs := VerifyChain(certs, req.RootPublicKey)
	result.Links = links
	result.ChainValid = errs == nil

	fwid, err := leaf.FWID()
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		result.FWIDHex = hex.EncodeToString(fwid[:])
		if req.ExpectedFWID != nil && fwid != *req.ExpectedFWID {
			errs = multierr.Append(errs, fmt.Errorf("fwid mismatch: expected %x, got %x", req.ExpectedFWID[:], fwid[:]))
		}
	}
	if sn := certs[1].SubjectSN; sn != leaf.SubjectSN {
		errs = multierr.Append(errs, fmt.Errorf("serial number mismatch: device-id %q, alias %q", sn, leaf.SubjectSN))
	}
	if req.Nonce != nil && !bytes.Equal(req.Nonce, ev.Nonce) {
		errs = multierr.Append(errs, errors.New("evidence nonce does not match the request"))
	}

	if err := attest.VerifyQuote(leaf.PublicKey, ev.Log, ev.Nonce, sig); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("quote: %w", err))
	} else {
		result.QuoteValid = true
	}

	for _, err := range multierr.Errors(errs) {
		result.Errors = append(result.Errors, err.Error())
	}
	result.Valid = errs == nil
	return result, nil
}
