package lpc55

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"
)

const (
	// KeyCodeLen is the number of words in the key code of a 32-byte key.
	KeyCodeLen = 13
	// PufKeySize is the size of the keys reconstructed from a key code.
	PufKeySize = 32
	// PersistIDKeyIndex is the key index holding the persistent identity.
	PersistIDKeyIndex uint32 = 1
	maxKeyIndex       uint32 = 15
)

// KeyCode is the activation code the PUF needs to reconstruct a key.
type KeyCode [KeyCodeLen]uint32

var (
	ErrPufKeyIndex = errors.New("puf key index out of range")
	ErrPufKeySize  = errors.New("puf key size out of range")
	ErrPufLocked   = errors.New("puf index block register locked")
	ErrPufKeyCode  = errors.New("puf key code rejected")
)

// Puf generates key codes and reconstructs keys from them.
type Puf interface {
	GenerateKeyCode(index uint32, size int) (KeyCode, error)
	GetKey(kc KeyCode, dst []byte) error
	IsIndexBlocked(index uint32) bool
	BlockIndex(index uint32) error
	LockIndicesLow()
}

// SimPuf reconstructs keys from a device secret and the key code. A
// blocked index yields an all-zero key without error, as the hardware does.
type SimPuf struct {
	mu      sync.Mutex
	secret  [32]byte
	nonce   uint32
	blocked map[uint32]bool
	locked  bool
}

// NewSimPuf returns a PUF whose keys are bound to secret.
func NewSimPuf(secret [32]byte) *SimPuf {
	return &SimPuf{secret: secret, blocked: make(map[uint32]bool)}
}

func (p *SimPuf) GenerateKeyCode(index uint32, size int) (KeyCode, error) {
	var kc KeyCode
	if index > maxKeyIndex {
		return kc, fmt.Errorf("%w: %d", ErrPufKeyIndex, index)
	}
	if size <= 0 || size > PufKeySize || size%8 != 0 {
		return kc, fmt.Errorf("%w: %d", ErrPufKeySize, size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nonce++
	kc[0] = index
	kc[1] = uint32(size)
	kc[2] = p.nonce
	h := sha3.Sum256(append(p.secret[:], p.wordBytes(kc[:3])...))
	for i := 3; i < KeyCodeLen; i++ {
		kc[i] = binary.LittleEndian.Uint32(h[(i-3)*4%len(h):])
	}
	return kc, nil
}

func (p *SimPuf) GetKey(kc KeyCode, dst []byte) error {
	size := int(kc[1])
	if size <= 0 || size > PufKeySize || len(dst) < size {
		return ErrPufKeyCode
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.blocked[kc[0]] {
		clear(dst[:size])
		return nil
	}
	key := sha3.Sum256(append(p.secret[:], p.wordBytes(kc[:])...))
	copy(dst[:size], key[:])
	clear(key[:])
	return nil
}

func (p *SimPuf) IsIndexBlocked(index uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocked[index]
}

func (p *SimPuf) BlockIndex(index uint32) error {
	if index > maxKeyIndex {
		return fmt.Errorf("%w: %d", ErrPufKeyIndex, index)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locked {
		return ErrPufLocked
	}
	p.blocked[index] = true
	return nil
}

func (p *SimPuf) LockIndicesLow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = true
}

// Reset clears the index blocks as a power cycle does.
func (p *SimPuf) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.blocked)
	p.locked = false
}

func (p *SimPuf) wordBytes(words []uint32) []byte {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}
