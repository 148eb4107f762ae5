package nes

import (
	"fmt"
)

// Disassemble the loaded 6502 program into human-readable CPU instructions
// mapped to their respective memory address. Bytes that are not an official
// opcode are shown as data.
//
// Much help from https://github.com/OneLoneCoder/olcNES
func (cpu *Cpu6502) Disassemble(startAddr, endAddr uint16) map[uint16]string {
	// this needs to be bigger than uint16, to determine when larger than endAddr
	var addr uint32 = uint32(startAddr)

	disassembly := make(map[uint16]string)

	for addr <= uint32(endAddr) {
		lineAddr := uint16(addr)

		text, raw := cpu.disassembleAt(lineAddr)
		disassembly[lineAddr] = fmt.Sprintf("$%04X: %s", lineAddr, text)

		addr += uint32(1 + len(raw))
	}

	return disassembly
}

// disassembleAt formats the instruction at pc and returns its operand bytes.
// Memory is peeked so disassembly has no bus side effects.
func (cpu *Cpu6502) disassembleAt(pc uint16) (string, []byte) {
	opcode := cpu.peek(pc)

	inst := instructions[opcode]
	if inst == nil {
		return fmt.Sprintf(".db $%02X", opcode), nil
	}

	raw := make([]byte, inst.Mode.operandSize())
	for i := range raw {
		raw[i] = cpu.peek(pc + 1 + uint16(i))
	}

	var lo, hi byte
	if len(raw) > 0 {
		lo = raw[0]
	}
	if len(raw) > 1 {
		hi = raw[1]
	}
	word := uint16(hi)<<8 | uint16(lo)

	var args string

	switch inst.Mode {
	case IMP:
	case ACC:
		args = "A"
	case IMM:
		args = fmt.Sprintf("#$%02X", lo)
	case REL:
		target := pc + 2 + uint16(int8(lo))
		args = fmt.Sprintf("$%04X", target)
	case ZP0:
		args = fmt.Sprintf("$%02X", lo)
	case ZPX:
		args = fmt.Sprintf("$%02X,X", lo)
	case ZPY:
		args = fmt.Sprintf("$%02X,Y", lo)
	case ABS:
		args = fmt.Sprintf("$%04X", word)
	case ABX:
		args = fmt.Sprintf("$%04X,X", word)
	case ABY:
		args = fmt.Sprintf("$%04X,Y", word)
	case IND:
		args = fmt.Sprintf("($%04X)", word)
	case IZX:
		args = fmt.Sprintf("($%02X,X)", lo)
	case IZY:
		args = fmt.Sprintf("($%02X),Y", lo)
	}

	if args == "" {
		return fmt.Sprintf("%s {%v}", inst.Name, inst.Mode), raw
	}
	return fmt.Sprintf("%s %s {%v}", inst.Name, args, inst.Mode), raw
}

// Peeker is implemented by memory that can be read without side effects.
type Peeker interface {
	PeekCpuByte(addr uint16) byte
}

func (cpu *Cpu6502) peek(addr uint16) byte {
	if p, ok := cpu.bus.(Peeker); ok {
		return p.PeekCpuByte(addr)
	}
	return cpu.read(addr)
}
