package nes

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidOpcode is the cause of every DecodeError.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrUnmappedAddress is returned when a CPU address falls through every
	// decoded range (0x4018-0x401F).
	ErrUnmappedAddress = errors.New("unmapped address")

	// Cartridge loading
	ErrInvalidHeader     = errors.New("invalid iNES header")
	ErrShortRead         = errors.New("short read")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// DecodeError is returned by the CPU when the opcode at Pc has no entry in the
// instruction table. The CPU cannot continue after a decode error.
type DecodeError struct {
	Opcode byte
	Pc     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v $%02X at $%04X", ErrInvalidOpcode, e.Opcode, e.Pc)
}

// Unwrap allows errors.Is(err, ErrInvalidOpcode).
func (e *DecodeError) Unwrap() error { return ErrInvalidOpcode }

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *DecodeError) Cause() error { return ErrInvalidOpcode }
