package verify

import (
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/anchorageoss/rot-dice/attest"
)

// Formatter formats verification and chain data for display
type Formatter struct{}

// NewFormatter creates a new formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatChain formats the parsed chain, one certificate per block.
func (f *Formatter) FormatChain(certs []*Cert, indent string) string {
	var sb strings.Builder
	for _, c := range certs {
		sb.WriteString(fmt.Sprintf("%s[%d] %s (%d bytes)\n", indent, c.Index, c.Name, len(c.Raw)))
		if c.SubjectSN != "" {
			sb.WriteString(fmt.Sprintf("%s    Serial Number: %s\n", indent, c.SubjectSN))
		}
		sb.WriteString(fmt.Sprintf("%s    Public Key: %s\n", indent, hex.EncodeToString(c.PublicKey)))
		if fwid, err := c.FWID(); err == nil {
			sb.WriteString(fmt.Sprintf("%s    FWID: %s\n", indent, hex.EncodeToString(fwid[:])))
		}
	}
	return sb.String()
}

// FormatLog formats the recorded measurements. Unused slots are folded into
// one line.
func (f *Formatter) FormatLog(log *attest.Log, indent string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sMeasurements (%d of %d):\n", indent, log.Index, attest.LogCapacity))
	for i, m := range log.Entries() {
		sb.WriteString(fmt.Sprintf("%s    [%d] %s: %s\n", indent, i, m.Algorithm, hex.EncodeToString(m.Digest[:])))
	}
	switch free := attest.LogCapacity - int(log.Index); {
	case free == 1:
		sb.WriteString(fmt.Sprintf("%s    [%d] (empty)\n", indent, log.Index))
	case free > 1:
		sb.WriteString(fmt.Sprintf("%s    [%d-%d] (empty)\n", indent, log.Index, attest.LogCapacity-1))
	}
	return sb.String()
}

// FormatPEM encodes the chain as concatenated PEM certificates, leaf first.
func (f *Formatter) FormatPEM(chain [][]byte) string {
	var sb strings.Builder
	for _, der := range chain {
		sb.Write(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	}
	return sb.String()
}

// FormatVerificationResult formats a verification result for display
func (f *Formatter) FormatVerificationResult(result *VerifyResult) map[string]interface{} {
	output := map[string]interface{}{
		"valid":          result.Valid,
		"chainValid":     result.ChainValid,
		"quoteValid":     result.QuoteValid,
		"selfSigned":     result.SelfSigned,
		"serialNumber":   result.SerialNumber,
		"fwid":           result.FWIDHex,
		"aliasPublicKey": result.AliasKeyHex,
		"links":          f.FormatLinks(result.Links),
	}

	// Add optional fields if present
	if len(result.Errors) > 0 {
		output["errors"] = result.Errors
	}

	return output
}

// FormatLinks formats link results for output
func (f *Formatter) FormatLinks(links []LinkResult) []map[string]interface{} {
	result := make([]map[string]interface{}, len(links))
	for i, l := range links {
		result[i] = map[string]interface{}{
			"index":   l.Index,
			"subject": l.Subject,
			"issuer":  l.Issuer,
			"valid":   l.Valid,
		}
		if l.Error != "" {
			result[i]["error"] = l.Error
		}
	}
	return result
}
