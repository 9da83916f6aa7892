package lpc55

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	ErrFrame   = errors.New("usart framing error")
	ErrParity  = errors.New("usart parity error")
	ErrNoise   = errors.New("usart noise error")
	ErrBufFull = errors.New("usart receive buffer full")
)

// Usart is a byte transport. ReadByte blocks until a byte arrives and
// returns io.EOF once the port is closed.
type Usart interface {
	io.ByteReader
	io.ByteWriter
}

// Parity is the parity mode of a serial line.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// UsartConfig is the line configuration of a serial port.
type UsartConfig struct {
	Baud     uint32
	DataBits uint8
	Parity   Parity
	StopBits uint8
}

// DefaultUsartConfig is 9600 8N1, the manufacturing line setting.
func DefaultUsartConfig() UsartConfig {
	return UsartConfig{Baud: 9600, DataBits: 8, Parity: ParityNone, StopBits: 1}
}

func (c UsartConfig) Validate() error {
	if c.Baud == 0 {
		return errors.New("usart baud rate must be set")
	}
	if c.DataBits < 7 || c.DataBits > 9 {
		return fmt.Errorf("usart data bits %d out of range", c.DataBits)
	}
	if c.Parity > ParityOdd {
		return fmt.Errorf("usart parity %d unknown", c.Parity)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("usart stop bits %d out of range", c.StopBits)
	}
	return nil
}

func (c UsartConfig) String() string {
	p := "N"
	switch c.Parity {
	case ParityEven:
		p = "E"
	case ParityOdd:
		p = "O"
	}
	return fmt.Sprintf("%d %d%s%d", c.Baud, c.DataBits, p, c.StopBits)
}

// TurnOnUsart configures the pins and enables flexcomm0 as a USART.
func TurnOnUsart(s Syscon) {
	s.EnableClock(PeriphIocon)
	s.LeaveReset(PeriphIocon)
	s.EnableClock(PeriphGpio0)
	s.LeaveReset(PeriphGpio0)
	// Pins are muxed, the IOCON clock is no longer needed.
	s.DisableClock(PeriphIocon)
	s.EnableClock(PeriphFc0)
	s.LeaveReset(PeriphFc0)
}

// TurnOffUsart puts the USART blocks back in reset and gates them.
func TurnOffUsart(s Syscon) {
	s.EnterReset(PeriphIocon)
	s.DisableClock(PeriphIocon)
	s.EnterReset(PeriphGpio0)
	s.DisableClock(PeriphGpio0)
	s.EnterReset(PeriphFc0)
	s.DisableClock(PeriphFc0)
}

const simFifoDepth = 8192

// SimUsart is one end of a simulated serial line.
type SimUsart struct {
	rx      <-chan byte
	tx      chan<- byte
	faults  chan error
	done    chan struct{}
	closeFn func()
}

// NewSimUsartPair returns the two ends of a connected serial line.
func NewSimUsartPair() (*SimUsart, *SimUsart) {
	ab := make(chan byte, simFifoDepth)
	ba := make(chan byte, simFifoDepth)
	done := make(chan struct{})
	var once sync.Once
	closeFn := func() { once.Do(func() { close(done) }) }

	a := &SimUsart{rx: ba, tx: ab, faults: make(chan error, 16), done: done, closeFn: closeFn}
	b := &SimUsart{rx: ab, tx: ba, faults: make(chan error, 16), done: done, closeFn: closeFn}
	return a, b
}

// InjectFault makes a later ReadByte on this end return err.
func (u *SimUsart) InjectFault(err error) {
	u.faults <- err
}

func (u *SimUsart) ReadByte() (byte, error) {
	select {
	case err := <-u.faults:
		return 0, err
	default:
	}
	select {
	case b := <-u.rx:
		return b, nil
	case err := <-u.faults:
		return 0, err
	case <-u.done:
		return 0, io.EOF
	}
}

func (u *SimUsart) WriteByte(b byte) error {
	select {
	case <-u.done:
		return io.ErrClosedPipe
	default:
	}
	select {
	case u.tx <- b:
		return nil
	case <-u.done:
		return io.ErrClosedPipe
	}
}

// Write writes every byte of p.
func (u *SimUsart) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := u.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Close closes both ends of the line.
func (u *SimUsart) Close() error {
	u.closeFn()
	return nil
}
