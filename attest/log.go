package attest

import (
	"fmt"

	borsh "github.com/near/borsh-go"

	"github.com/anchorageoss/rot-dice/crypto"
)

// LogCapacity is the number of measurements the log holds.
const LogCapacity = 16

// DigestSize is the size of a recorded SHA3-256 digest.
const DigestSize = 32

// HashAlgorithm identifies the hash of a recorded digest.
type HashAlgorithm uint8

const (
	Sha3_256 HashAlgorithm = iota
)

func (a HashAlgorithm) String() string {
	switch a {
	case Sha3_256:
		return "sha3-256"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", uint8(a))
	}
}

// Measurement is one recorded digest.
type Measurement struct {
	Algorithm HashAlgorithm    `borsh:"algorithm"`
	Digest    [DigestSize]byte `borsh:"digest"`
}

// Log is the measurement log. Index counts the recorded entries; unused
// slots stay zero.
type Log struct {
	Index        uint32                   `borsh:"index"`
	Measurements [LogCapacity]Measurement `borsh:"measurements"`
}

// LogSize is the serialized size of a Log.
const LogSize = 4 + LogCapacity*(1+DigestSize)

// Record appends m. It returns ErrLogFull once every slot is used.
func (l *Log) Record(m Measurement) error {
	if m.Algorithm != Sha3_256 {
		return ErrUnsupportedAlgorithm
	}
	if l.Index >= LogCapacity {
		return ErrLogFull
	}
	l.Measurements[l.Index] = m
	l.Index++
	return nil
}

// Entries returns the recorded measurements.
func (l *Log) Entries() []Measurement { return l.Measurements[:l.Index] }

// MarshalBinary returns the borsh encoding of the log.
func (l *Log) MarshalBinary() ([]byte, error) {
	b, err := borsh.Serialize(*l)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializeLog, err)
	}
	return b, nil
}

// ParseLog decodes a serialized log.
func ParseLog(b []byte) (*Log, error) {
	if len(b) != LogSize {
		return nil, fmt.Errorf("log must be %d bytes, got %d", LogSize, len(b))
	}
	var l Log
	if err := borsh.Deserialize(&l, b); err != nil {
		return nil, fmt.Errorf("failed to decode log: %w", err)
	}
	if l.Index > LogCapacity {
		return nil, fmt.Errorf("log index %d exceeds capacity %d", l.Index, LogCapacity)
	}
	return &l, nil
}

// SignatureEd25519 tags an Ed25519 signature.
const SignatureEd25519 uint8 = 0

// Signature is a tagged quote signature.
type Signature struct {
	Tag     uint8                      `borsh:"tag"`
	Ed25519 [crypto.SignatureSize]byte `borsh:"ed25519"`
}

// QuoteSize is the serialized size of a Signature.
const QuoteSize = 1 + crypto.SignatureSize

// MarshalBinary returns the borsh encoding of the signature.
func (s Signature) MarshalBinary() ([]byte, error) {
	b, err := borsh.Serialize(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializeSignature, err)
	}
	return b, nil
}

// ParseSignature decodes a serialized quote.
func ParseSignature(b []byte) (Signature, error) {
	var s Signature
	if len(b) != QuoteSize {
		return s, fmt.Errorf("quote must be %d bytes, got %d", QuoteSize, len(b))
	}
	if err := borsh.Deserialize(&s, b); err != nil {
		return s, fmt.Errorf("failed to decode quote: %w", err)
	}
	if s.Tag != SignatureEd25519 {
		return s, fmt.Errorf("unknown signature tag %d", s.Tag)
	}
	return s, nil
}

// QuoteDigest is the message a quote signs: SHA3-256 over the serialized
// log followed by the nonce.
func QuoteDigest(log, nonce []byte) [32]byte {
	msg := make([]byte, 0, len(log)+len(nonce))
	msg = append(msg, log...)
	msg = append(msg, nonce...)
	return crypto.Sum256(msg)
}

// Quote signs the log and nonce with the Alias key.
func Quote(alias *crypto.Keypair, log, nonce []byte) Signature {
	d := QuoteDigest(log, nonce)
	return Signature{Tag: SignatureEd25519, Ed25519: alias.Sign(d[:])}
}

// VerifyQuote checks sig against the Alias public key.
func VerifyQuote(aliasPub []byte, log, nonce []byte, sig Signature) error {
	if sig.Tag != SignatureEd25519 {
		return fmt.Errorf("unknown signature tag %d", sig.Tag)
	}
	d := QuoteDigest(log, nonce)
	return crypto.VerifyStrict(aliasPub, d[:], sig.Ed25519[:])
}
