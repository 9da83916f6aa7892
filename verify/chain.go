package verify

import (
	"crypto/ed25519"
	"crypto/x509"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
)

var (
	// ErrChainLength is returned for chains that are neither self-signed
	// (3 certificates) nor manufactured (4).
	ErrChainLength = errors.New("chain must hold 3 or 4 certificates")
	// ErrUnanchored is returned when a manufactured chain is checked
	// without a pinned root key.
	ErrUnanchored = errors.New("manufactured chain needs a root public key")
)

var chainNames = [...]string{"alias", "device-id", "persistent-id", "intermediate"}

// Cert is one parsed certificate of an attestation chain.
type Cert struct {
	Index     int
	Name      string
	Raw       []byte
	PublicKey []byte
	SubjectSN string

	tmpl *cert.Cert
	tbs  []byte
	sig  []byte
}

// FWID returns the firmware measurement of a leaf certificate.
func (c *Cert) FWID() ([32]byte, error) {
	if c.tmpl == nil {
		return [32]byte{}, cert.ErrNoFwid
	}
	return c.tmpl.FWID()
}

// CheckSignature verifies c under the issuer key pub.
func (c *Cert) CheckSignature(pub []byte) error {
	return crypto.VerifyStrict(pub, c.tbs, c.sig)
}

// ParseChain parses a chain ordered leaf first. The Alias and DeviceId
// certificates must match their templates; the PersistentId and
// intermediate certificates are read either as the self-signed template
// or as Ed25519 X.509 certificates.
func ParseChain(chain [][]byte) ([]*Cert, error) {
	if len(chain) != 3 && len(chain) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrChainLength, len(chain))
	}
	certs := make([]*Cert, len(chain))
	for i, raw := range chain {
		c, err := parseCert(i, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s certificate: %w", chainNames[i], err)
		}
		certs[i] = c
	}
	return certs, nil
}

func parseCert(i int, raw []byte) (*Cert, error) {
	switch {
	case i == 0:
		return fromTemplate(i, cert.AliasTemplate, raw)
	case i == 1:
		return fromTemplate(i, cert.DeviceIDTemplate, raw)
	case len(raw) == cert.DeviceIDSelfSize:
		return fromTemplate(i, cert.DeviceIDSelfTemplate, raw)
	default:
		return fromX509(i, raw)
	}
}

func fromTemplate(i int, t *cert.Template, raw []byte) (*Cert, error) {
	c, err := cert.FromBytes(t, raw)
	if err != nil {
		return nil, err
	}
	return &Cert{
		Index:     i,
		Name:      chainNames[i],
		Raw:       raw,
		PublicKey: c.PublicKey(),
		SubjectSN: c.SubjectSN().String(),
		tmpl:      c,
		tbs:       c.SignData(),
		sig:       c.Signature(),
	}, nil
}

func fromX509(i int, raw []byte) (*Cert, error) {
	xc, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, err
	}
	pub, ok := xc.PublicKey.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type %T", xc.PublicKey)
	}
	if xc.SignatureAlgorithm != x509.PureEd25519 {
		return nil, fmt.Errorf("unsupported signature algorithm %s", xc.SignatureAlgorithm)
	}
	return &Cert{
		Index:     i,
		Name:      chainNames[i],
		Raw:       raw,
		PublicKey: []byte(pub),
		SubjectSN: xc.Subject.SerialNumber,
		tbs:       xc.RawTBSCertificate,
		sig:       xc.Signature,
	}, nil
}

// VerifyChain checks every certificate under the key of the next one. The
// last certificate is checked under root when given, and otherwise must be
// self-signed, which only a 3-certificate chain may be. All link failures
// are returned combined.
func VerifyChain(certs []*Cert, root []byte) ([]LinkResult, error) {
	var errs error
	links := make([]LinkResult, 0, len(certs))
	for i, c := range certs {
		link := LinkResult{Index: i, Subject: c.Name}
		var issuer []byte
		switch {
		case i+1 < len(certs):
			issuer, link.Issuer = certs[i+1].PublicKey, certs[i+1].Name
		case root != nil:
			issuer, link.Issuer = root, "root"
		case len(certs) == 3:
			issuer, link.Issuer = c.PublicKey, c.Name
		}

		var err error
		if issuer == nil {
			err = ErrUnanchored
		} else {
			err = c.CheckSignature(issuer)
		}
		if err != nil {
			err = fmt.Errorf("%s certificate: %w", c.Name, err)
			link.Error = err.Error()
			errs = multierr.Append(errs, err)
		} else {
			link.Valid = true
		}
		links = append(links, link)
	}
	return links, errs
}
