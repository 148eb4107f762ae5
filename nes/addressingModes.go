package nes

type AddressingMode int

const (
	IMP AddressingMode = iota // Implied
	ACC                       // Accumulator
	IMM                       // Immediate
	REL                       // Relative
	ZP0                       // Zero Page
	ZPX                       // Zero Page, X
	ZPY                       // Zero Page, Y
	ABS                       // Absolute
	ABX                       // Absolute, X
	ABY                       // Absolute, Y
	IND                       // Indirect
	IZX                       // Indexed Indirect
	IZY                       // Indirect Indexed
)

var addressingModeNames = [...]string{
	IMP: "IMP", ACC: "ACC", IMM: "IMM", REL: "REL",
	ZP0: "ZP0", ZPX: "ZPX", ZPY: "ZPY",
	ABS: "ABS", ABX: "ABX", ABY: "ABY",
	IND: "IND", IZX: "IZX", IZY: "IZY",
}

func (m AddressingMode) String() string {
	if int(m) < len(addressingModeNames) {
		return addressingModeNames[m]
	}
	return "???"
}

// operandSize is the number of bytes following the opcode.
func (m AddressingMode) operandSize() int {
	switch m {
	case IMP, ACC:
		return 0
	case ABS, ABX, ABY, IND:
		return 2
	}
	return 1
}

// operand is the result of decoding an addressing mode for the instruction in
// flight. It is passed by value to the instruction and never kept.
type operand struct {
	mode        AddressingMode
	addr        uint16  // effective address; the raw displacement for REL
	pageCrossed bool    // indexing moved addr into another page
	raw         [2]byte // operand bytes as they appear after the opcode
}

// decode reads the operand bytes at Pc for the given mode, advancing Pc past
// them, and resolves the effective address.
func (cpu *Cpu6502) decode(mode AddressingMode) operand {
	o := operand{mode: mode}

	for i := 0; i < mode.operandSize(); i++ {
		o.raw[i] = cpu.read(cpu.Pc + uint16(i))
	}
	word := uint16(o.raw[1])<<8 | uint16(o.raw[0])

	switch mode {
	case IMP, ACC:
		return o

	case IMM:
		// The second byte of the instruction contains the operand.
		o.addr = cpu.Pc

	case REL:
		// Resolved by the branch instruction.
		o.addr = uint16(o.raw[0])

	case ZP0:
		o.addr = uint16(o.raw[0])

	case ZPX:
		o.addr = cpu.zeroPageIndexed(o.raw[0], cpu.X)

	case ZPY:
		o.addr = cpu.zeroPageIndexed(o.raw[0], cpu.Y)

	case ABS:
		o.addr = word

	case ABX:
		o.addr, o.pageCrossed = indexed(word, cpu.X)

	case ABY:
		o.addr, o.pageCrossed = indexed(word, cpu.Y)

	case IND:
		// Only used by JMP.
		o.addr = cpu.readWord(word)

	case IZX:
		// Zero page pointer offset by X, both pointer bytes in page zero.
		o.addr = cpu.readZeroPageWord(o.raw[0] + cpu.X)

	case IZY:
		o.addr, o.pageCrossed = indexed(cpu.readZeroPageWord(o.raw[0]), cpu.Y)
	}

	cpu.Pc += uint16(mode.operandSize())

	return o
}

// zeroPageIndexed computes a zero page indexed address.
//
// By default the sum is taken modulo 0xFF rather than 0x100, so $FF,X with
// X=0 lands on $00. Enable the hardware wrap with SetZeroPageWrap.
func (cpu *Cpu6502) zeroPageIndexed(base, index byte) uint16 {
	if cpu.zeroPageWrap {
		return uint16(base + index)
	}
	return (uint16(base) + uint16(index)) % 0xFF
}

// SetZeroPageWrap selects hardware zero page wraparound (mod 0x100) for the
// ZPX and ZPY addressing modes.
func (cpu *Cpu6502) SetZeroPageWrap(hardware bool) {
	cpu.zeroPageWrap = hardware
}

// indexed adds index to base and reports a page cross, detected when the
// low byte of base is greater than the low byte of the result.
func indexed(base uint16, index byte) (uint16, bool) {
	addr := base + uint16(index)
	return addr, base&0x00FF > addr&0x00FF
}

// readZeroPageWord reads a little endian pointer from page zero, wrapping the
// high byte read from $FF to $00.
func (cpu *Cpu6502) readZeroPageWord(ptr byte) uint16 {
	lo := cpu.read(uint16(ptr))
	hi := cpu.read(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}
