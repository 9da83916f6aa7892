// Package verify checks attestation evidence produced by a root of trust.
//
// The verification process validates:
//   - every certificate of the chain under the key of the next one
//   - the self-signed root, or a pinned root key for manufactured chains
//   - the FWID and serial number carried by the leaf
//   - the quote over the measurement log and the nonce
//
// # Verification Flow
//
// Call Verify with a nonce; the service collects evidence from its source
// and checks it:
//
//	result, err := verifyService.Verify(ctx, &verify.VerifyRequest{
//		Nonce: nonce,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		log.Printf("verification failed: %v", result.Errors)
//	}
//
// # Detailed Results
//
// VerifyResult reports each chain link separately. Link failures are
// collected rather than stopping at the first one.
package verify

import "github.com/anchorageoss/rot-dice/attest"

// VerifyRequest represents the parameters for verification
type VerifyRequest struct {
	Nonce []byte
	// RootPublicKey pins the key that must sign the last certificate. It is
	// required to accept a manufactured chain.
	RootPublicKey []byte
	// ExpectedFWID, if set, must match the leaf FWID.
	ExpectedFWID *[32]byte
}

// VerifyResult represents the result of verification
type VerifyResult struct {
	Valid        bool                 `json:"valid"`
	ChainValid   bool                 `json:"chainValid"`
	QuoteValid   bool                 `json:"quoteValid"`
	SelfSigned   bool                 `json:"selfSigned"`
	SerialNumber string               `json:"serialNumber"`
	FWIDHex      string               `json:"fwid"`
	AliasKeyHex  string               `json:"aliasPublicKey"`
	Links        []LinkResult         `json:"links"`
	Measurements []attest.Measurement `json:"-"`
	Errors       []string             `json:"errors,omitempty"`
}

// LinkResult is the check of one certificate against its issuer.
type LinkResult struct {
	Index   int    `json:"index"`
	Subject string `json:"subject"`
	Issuer  string `json:"issuer"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
}
