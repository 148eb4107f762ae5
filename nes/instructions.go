package nes

// Instruction describes one opcode. The table is built once and shared by
// every CPU.
type Instruction struct {
	Name      string
	Opcode    byte
	Mode      AddressingMode
	Cycles    byte // base cycle count
	PageCycle bool // one more cycle when indexing crosses a page

	// Execute performs the instruction and returns any extra cycles it
	// needed beyond the base count.
	Execute func(cpu *Cpu6502, o operand) byte
}

// instructions is indexed by opcode. Unofficial opcodes are nil.
var instructions [256]*Instruction

type opcodeMode struct {
	opcode byte
	mode   AddressingMode
	cycles byte
}

func op(opcode byte, mode AddressingMode, cycles byte) opcodeMode {
	return opcodeMode{opcode, mode, cycles}
}

// define adds one instruction under each of its opcodes. Read instructions
// pass pageCycle so their indexed forms pay for page crossings.
func define(name string, exec func(*Cpu6502, operand) byte, pageCycle bool, modes ...opcodeMode) {
	for _, m := range modes {
		if instructions[m.opcode] != nil {
			panic("duplicate opcode " + name)
		}
		instructions[m.opcode] = &Instruction{
			Name:      name,
			Opcode:    m.opcode,
			Mode:      m.mode,
			Cycles:    m.cycles,
			PageCycle: pageCycle && (m.mode == ABX || m.mode == ABY || m.mode == IZY),
			Execute:   exec,
		}
	}
}

// Reference: http://archive.6502.org/datasheets/rockwell_r650x_r651x.pdf
func init() {
	// Load and store
	define("LDA", (*Cpu6502).opLDA, true,
		op(0xA9, IMM, 2), op(0xA5, ZP0, 3), op(0xB5, ZPX, 4), op(0xAD, ABS, 4),
		op(0xBD, ABX, 4), op(0xB9, ABY, 4), op(0xA1, IZX, 6), op(0xB1, IZY, 5))
	define("LDX", (*Cpu6502).opLDX, true,
		op(0xA2, IMM, 2), op(0xA6, ZP0, 3), op(0xB6, ZPY, 4), op(0xAE, ABS, 4), op(0xBE, ABY, 4))
	define("LDY", (*Cpu6502).opLDY, true,
		op(0xA0, IMM, 2), op(0xA4, ZP0, 3), op(0xB4, ZPX, 4), op(0xAC, ABS, 4), op(0xBC, ABX, 4))
	define("STA", (*Cpu6502).opSTA, false,
		op(0x85, ZP0, 3), op(0x95, ZPX, 4), op(0x8D, ABS, 4),
		op(0x9D, ABX, 5), op(0x99, ABY, 5), op(0x81, IZX, 6), op(0x91, IZY, 6))
	define("STX", (*Cpu6502).opSTX, false, op(0x86, ZP0, 3), op(0x96, ZPY, 4), op(0x8E, ABS, 4))
	define("STY", (*Cpu6502).opSTY, false, op(0x84, ZP0, 3), op(0x94, ZPX, 4), op(0x8C, ABS, 4))

	// Transfers
	define("TAX", (*Cpu6502).opTAX, false, op(0xAA, IMP, 2))
	define("TAY", (*Cpu6502).opTAY, false, op(0xA8, IMP, 2))
	define("TSX", (*Cpu6502).opTSX, false, op(0xBA, IMP, 2))
	define("TXA", (*Cpu6502).opTXA, false, op(0x8A, IMP, 2))
	define("TXS", (*Cpu6502).opTXS, false, op(0x9A, IMP, 2))
	define("TYA", (*Cpu6502).opTYA, false, op(0x98, IMP, 2))

	// Stack
	define("PHA", (*Cpu6502).opPHA, false, op(0x48, IMP, 3))
	define("PHP", (*Cpu6502).opPHP, false, op(0x08, IMP, 3))
	define("PLA", (*Cpu6502).opPLA, false, op(0x68, IMP, 4))
	define("PLP", (*Cpu6502).opPLP, false, op(0x28, IMP, 4))

	// Arithmetic and logic
	define("ADC", (*Cpu6502).opADC, true,
		op(0x69, IMM, 2), op(0x65, ZP0, 3), op(0x75, ZPX, 4), op(0x6D, ABS, 4),
		op(0x7D, ABX, 4), op(0x79, ABY, 4), op(0x61, IZX, 6), op(0x71, IZY, 5))
	define("SBC", (*Cpu6502).opSBC, true,
		op(0xE9, IMM, 2), op(0xE5, ZP0, 3), op(0xF5, ZPX, 4), op(0xED, ABS, 4),
		op(0xFD, ABX, 4), op(0xF9, ABY, 4), op(0xE1, IZX, 6), op(0xF1, IZY, 5))
	define("AND", (*Cpu6502).opAND, true,
		op(0x29, IMM, 2), op(0x25, ZP0, 3), op(0x35, ZPX, 4), op(0x2D, ABS, 4),
		op(0x3D, ABX, 4), op(0x39, ABY, 4), op(0x21, IZX, 6), op(0x31, IZY, 5))
	define("ORA", (*Cpu6502).opORA, true,
		op(0x09, IMM, 2), op(0x05, ZP0, 3), op(0x15, ZPX, 4), op(0x0D, ABS, 4),
		op(0x1D, ABX, 4), op(0x19, ABY, 4), op(0x01, IZX, 6), op(0x11, IZY, 5))
	define("EOR", (*Cpu6502).opEOR, true,
		op(0x49, IMM, 2), op(0x45, ZP0, 3), op(0x55, ZPX, 4), op(0x4D, ABS, 4),
		op(0x5D, ABX, 4), op(0x59, ABY, 4), op(0x41, IZX, 6), op(0x51, IZY, 5))
	define("BIT", (*Cpu6502).opBIT, false, op(0x24, ZP0, 3), op(0x2C, ABS, 4))

	// Compare
	define("CMP", (*Cpu6502).opCMP, true,
		op(0xC9, IMM, 2), op(0xC5, ZP0, 3), op(0xD5, ZPX, 4), op(0xCD, ABS, 4),
		op(0xDD, ABX, 4), op(0xD9, ABY, 4), op(0xC1, IZX, 6), op(0xD1, IZY, 5))
	define("CPX", (*Cpu6502).opCPX, false, op(0xE0, IMM, 2), op(0xE4, ZP0, 3), op(0xEC, ABS, 4))
	define("CPY", (*Cpu6502).opCPY, false, op(0xC0, IMM, 2), op(0xC4, ZP0, 3), op(0xCC, ABS, 4))

	// Increment and decrement
	define("INC", (*Cpu6502).opINC, false, op(0xE6, ZP0, 5), op(0xF6, ZPX, 6), op(0xEE, ABS, 6), op(0xFE, ABX, 7))
	define("DEC", (*Cpu6502).opDEC, false, op(0xC6, ZP0, 5), op(0xD6, ZPX, 6), op(0xCE, ABS, 6), op(0xDE, ABX, 7))
	define("INX", (*Cpu6502).opINX, false, op(0xE8, IMP, 2))
	define("INY", (*Cpu6502).opINY, false, op(0xC8, IMP, 2))
	define("DEX", (*Cpu6502).opDEX, false, op(0xCA, IMP, 2))
	define("DEY", (*Cpu6502).opDEY, false, op(0x88, IMP, 2))

	// Shifts
	define("ASL", (*Cpu6502).opASL, false, op(0x0A, ACC, 2), op(0x06, ZP0, 5), op(0x16, ZPX, 6), op(0x0E, ABS, 6), op(0x1E, ABX, 7))
	define("LSR", (*Cpu6502).opLSR, false, op(0x4A, ACC, 2), op(0x46, ZP0, 5), op(0x56, ZPX, 6), op(0x4E, ABS, 6), op(0x5E, ABX, 7))
	define("ROL", (*Cpu6502).opROL, false, op(0x2A, ACC, 2), op(0x26, ZP0, 5), op(0x36, ZPX, 6), op(0x2E, ABS, 6), op(0x3E, ABX, 7))
	define("ROR", (*Cpu6502).opROR, false, op(0x6A, ACC, 2), op(0x66, ZP0, 5), op(0x76, ZPX, 6), op(0x6E, ABS, 6), op(0x7E, ABX, 7))

	// Jumps and calls
	define("JMP", (*Cpu6502).opJMP, false, op(0x4C, ABS, 3), op(0x6C, IND, 5))
	define("JSR", (*Cpu6502).opJSR, false, op(0x20, ABS, 6))
	define("RTS", (*Cpu6502).opRTS, false, op(0x60, IMP, 6))
	define("RTI", (*Cpu6502).opRTI, false, op(0x40, IMP, 6))
	define("BRK", (*Cpu6502).opBRK, false, op(0x00, IMP, 7))

	// Branches
	define("BCC", (*Cpu6502).opBCC, false, op(0x90, REL, 2))
	define("BCS", (*Cpu6502).opBCS, false, op(0xB0, REL, 2))
	define("BEQ", (*Cpu6502).opBEQ, false, op(0xF0, REL, 2))
	define("BNE", (*Cpu6502).opBNE, false, op(0xD0, REL, 2))
	define("BMI", (*Cpu6502).opBMI, false, op(0x30, REL, 2))
	define("BPL", (*Cpu6502).opBPL, false, op(0x10, REL, 2))
	define("BVC", (*Cpu6502).opBVC, false, op(0x50, REL, 2))
	define("BVS", (*Cpu6502).opBVS, false, op(0x70, REL, 2))

	// Status flags
	define("CLC", (*Cpu6502).opCLC, false, op(0x18, IMP, 2))
	define("CLD", (*Cpu6502).opCLD, false, op(0xD8, IMP, 2))
	define("CLI", (*Cpu6502).opCLI, false, op(0x58, IMP, 2))
	define("CLV", (*Cpu6502).opCLV, false, op(0xB8, IMP, 2))
	define("SEC", (*Cpu6502).opSEC, false, op(0x38, IMP, 2))
	define("SED", (*Cpu6502).opSED, false, op(0xF8, IMP, 2))
	define("SEI", (*Cpu6502).opSEI, false, op(0x78, IMP, 2))

	define("NOP", (*Cpu6502).opNOP, false, op(0xEA, IMP, 2))
}

// LookupInstruction returns the instruction for an opcode, or nil.
func LookupInstruction(opcode byte) *Instruction {
	return instructions[opcode]
}
