// Package cert issues X.509 certificates by patching fixed DER templates.
//
// No DER is parsed at runtime. Each Template is an immutable byte blob and a
// table of byte ranges; a Cert copies the blob and writes fields only inside
// those ranges.
//
// # Templates
//
//   - DeviceIDSelf: self-signed identity root used in self-signed builds
//   - DeviceID: DeviceId certified by the PersistentId key
//   - Alias, TrustQuorumDHE, SpMeasure: leaves carrying the FWID
//   - PersistIDCSR: request for the PersistentId certificate
//
// # Issuing
//
//	c := cert.NewAlias()
//	c.SetSerialNumber(sn)
//	c.SetIssuerSN(platformSN)
//	c.SetSubjectSN(platformSN)
//	c.SetNotBefore(now)
//	c.SetPublicKey(aliasPub)
//	c.SetFWID(fwid)
//	c.Sign(deviceIDKeypair)
package cert

import "fmt"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in the range.
func (r Range) Len() int { return r.End - r.Start }

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool { return r.Start == 0 && r.End == 0 }

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool { return o.Start >= r.Start && o.End <= r.End }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// Template describes one certificate shape.
type Template struct {
	Name         string
	SerialNumber Range
	IssuerSN     Range
	SubjectSN    Range
	NotBefore    Range
	PublicKey    Range
	Signature    Range
	SignData     Range
	FWID         Range
	DER          []byte
}

// Size returns the template length.
func (t *Template) Size() int { return len(t.DER) }

// Fields returns the set ranges keyed by field name.
func (t *Template) Fields() map[string]Range {
	all := map[string]Range{
		"serial_number": t.SerialNumber,
		"issuer_sn":     t.IssuerSN,
		"subject_sn":    t.SubjectSN,
		"not_before":    t.NotBefore,
		"public_key":    t.PublicKey,
		"signature":     t.Signature,
		"signdata":      t.SignData,
		"fwid":          t.FWID,
	}
	fields := make(map[string]Range, len(all))
	for name, r := range all {
		if !r.IsZero() {
			fields[name] = r
		}
	}
	return fields
}

// Validate checks that every set range is non-empty and fits in the blob,
// that the signature lies outside the signed data and that every other
// patched field lies inside it.
func (t *Template) Validate() error {
	whole := Range{0, len(t.DER)}
	for name, r := range t.Fields() {
		if r.Len() <= 0 {
			return fmt.Errorf("template %s: empty %s range %s", t.Name, name, r)
		}
		if !whole.Contains(r) {
			return fmt.Errorf("template %s: %s range %s exceeds size %d", t.Name, name, r, len(t.DER))
		}
	}
	if t.PublicKey.IsZero() || t.Signature.IsZero() || t.SignData.IsZero() {
		return fmt.Errorf("template %s: missing required range", t.Name)
	}
	if t.Signature.Start < t.SignData.End {
		return fmt.Errorf("template %s: signature overlaps signdata", t.Name)
	}
	for name, r := range t.Fields() {
		if name == "signature" || name == "signdata" {
			continue
		}
		if !t.SignData.Contains(r) {
			return fmt.Errorf("template %s: %s range %s not covered by signdata", t.Name, name, r)
		}
	}
	return nil
}

// Templates returns every built-in template.
func Templates() []*Template {
	return []*Template{
		DeviceIDSelfTemplate,
		DeviceIDTemplate,
		AliasTemplate,
		TrustQuorumDHETemplate,
		SpMeasureTemplate,
		PersistIDCSRTemplate,
	}
}

func init() {
	for _, t := range Templates() {
		if err := t.Validate(); err != nil {
			panic(err)
		}
	}
}
