// Package lpc55 models the LPC55 peripherals used by the root of trust.
//
// Every peripheral is reached through a small interface so the firmware
// logic can run against real registers or against the simulations in this
// package. The simulations are used by the tests and by the rot-dice CLI.
//
// # Peripherals
//
//   - Syscon: power, clock and reset control
//   - HwRng: the TRNG with its online chi-squared test
//   - Puf: key code generation and key reconstruction
//   - Flash: page erase and program with a programmed probe
//   - CdiBank: the one-shot CDI register bank written by the boot ROM
//   - Usart: byte transport for manufacturing
//   - SRAM: the USB1 RAM used for stage0 handoff
package lpc55

import "errors"

// Peripheral names a block gated by the syscon.
type Peripheral uint8

const (
	PeriphRng Peripheral = iota
	PeriphUSB1Ram
	PeriphFc0
	PeriphIocon
	PeriphGpio0
	PeriphPuf
)

func (p Peripheral) String() string {
	switch p {
	case PeriphRng:
		return "rng"
	case PeriphUSB1Ram:
		return "usb1-ram"
	case PeriphFc0:
		return "flexcomm0"
	case PeriphIocon:
		return "iocon"
	case PeriphGpio0:
		return "gpio0"
	case PeriphPuf:
		return "puf"
	default:
		return "unknown"
	}
}

var (
	// ErrBusFault is returned when a peripheral is accessed while gated.
	ErrBusFault = errors.New("bus fault")
	// ErrOutOfRange is returned for accesses outside a memory window.
	ErrOutOfRange = errors.New("address out of range")
)
