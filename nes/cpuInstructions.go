package nes

// CPU instructions. Each instruction method receives the decoded operand and
// returns the number of any extra cycles necessary for execution.

// Read the byte an instruction operates on: the accumulator in accumulator
// mode, otherwise the byte at the effective address.
func (cpu *Cpu6502) fetch(o operand) byte {
	if o.mode == ACC {
		return cpu.A
	}
	return cpu.read(o.addr)
}

// Write the result of a read-modify-write instruction back to where it came
// from.
func (cpu *Cpu6502) writeBack(o operand, data byte) {
	if o.mode == ACC {
		cpu.A = data
	} else {
		cpu.write(o.addr, data)
	}
}

// adc adds m and the carry to the accumulator. SBC is adc of the one's
// complement.
func (cpu *Cpu6502) adc(m byte) {
	a := cpu.A

	// 16-bit to keep any carry.
	sum := uint16(a) + uint16(m) + uint16(cpu.carry())
	result := byte(sum)

	// Overflow when both operands share a sign that the result does not.
	overflow := (a^m)&0x80 == 0 && (a^result)&0x80 != 0

	cpu.setFlag(StatusFlagC, sum > 0xFF)
	cpu.setFlag(StatusFlagV, overflow)
	cpu.setZN(result)

	cpu.A = result
}

func (cpu *Cpu6502) compare(reg, m byte) {
	cpu.setFlag(StatusFlagC, reg >= m)
	cpu.setFlag(StatusFlagZ, reg == m)
	cpu.setFlag(StatusFlagN, (reg-m)&0x80 != 0)
}

// branch moves Pc by the signed displacement when the flag matches want. A
// taken branch costs one extra cycle, two if it crosses a page.
//
// By default a page cross is any change of the low byte of Pc, so every taken
// branch with a non-zero displacement costs two extra. Enable the hardware
// rule (high byte changes) with SetHardwareBranchTiming.
func (cpu *Cpu6502) branch(o operand, f SF6502, want bool) byte {
	if (cpu.getFlag(f) != 0) != want {
		return 0
	}

	old := cpu.Pc
	cpu.Pc += uint16(int8(o.addr))

	mask := uint16(0x00FF)
	if cpu.hardwareBranchTiming {
		mask = 0xFF00
	}
	if old&mask != cpu.Pc&mask {
		return 2
	}
	return 1
}

// SetHardwareBranchTiming charges the taken branch page cycle only when the
// target is on another page.
func (cpu *Cpu6502) SetHardwareBranchTiming(hardware bool) {
	cpu.hardwareBranchTiming = hardware
}

// ADC - Add with Carry
func (cpu *Cpu6502) opADC(o operand) byte {
	cpu.adc(cpu.fetch(o))
	return 0
}

// SBC - Subtract with Carry
func (cpu *Cpu6502) opSBC(o operand) byte {
	cpu.adc(^cpu.fetch(o))
	return 0
}

// AND - Logical AND
func (cpu *Cpu6502) opAND(o operand) byte {
	cpu.A &= cpu.fetch(o)
	cpu.setZN(cpu.A)
	return 0
}

// ORA - Logical Inclusive OR
func (cpu *Cpu6502) opORA(o operand) byte {
	cpu.A |= cpu.fetch(o)
	cpu.setZN(cpu.A)
	return 0
}

// EOR - Exclusive OR
func (cpu *Cpu6502) opEOR(o operand) byte {
	cpu.A ^= cpu.fetch(o)
	cpu.setZN(cpu.A)
	return 0
}

// BIT - Bit Test
func (cpu *Cpu6502) opBIT(o operand) byte {
	m := cpu.fetch(o)

	cpu.setFlag(StatusFlagZ, m&cpu.A == 0)
	cpu.setFlag(StatusFlagV, m&(1<<6) != 0)
	cpu.setFlag(StatusFlagN, m&(1<<7) != 0)

	return 0
}

// CMP - Compare (Accumulator)
func (cpu *Cpu6502) opCMP(o operand) byte {
	cpu.compare(cpu.A, cpu.fetch(o))
	return 0
}

// CPX - Compare X Register
func (cpu *Cpu6502) opCPX(o operand) byte {
	cpu.compare(cpu.X, cpu.fetch(o))
	return 0
}

// CPY - Compare Y Register
func (cpu *Cpu6502) opCPY(o operand) byte {
	cpu.compare(cpu.Y, cpu.fetch(o))
	return 0
}

// ASL - Arithmetic Shift Left
func (cpu *Cpu6502) opASL(o operand) byte {
	m := cpu.fetch(o)

	// Set carry flag to old bit 7.
	cpu.setFlag(StatusFlagC, m&(1<<7) != 0)

	m <<= 1
	cpu.setZN(m)
	cpu.writeBack(o, m)

	return 0
}

// LSR - Logical Shift Right
func (cpu *Cpu6502) opLSR(o operand) byte {
	m := cpu.fetch(o)

	// Set carry flag to old bit 0.
	cpu.setFlag(StatusFlagC, m&1 != 0)

	m >>= 1
	cpu.setZN(m)
	cpu.writeBack(o, m)

	return 0
}

// ROL - Rotate Left
func (cpu *Cpu6502) opROL(o operand) byte {
	m := cpu.fetch(o)
	carry := cpu.carry()

	cpu.setFlag(StatusFlagC, m&(1<<7) != 0)

	// Shift left one, set bit 0 to old carry.
	m = m<<1 | carry
	cpu.setZN(m)
	cpu.writeBack(o, m)

	return 0
}

// ROR - Rotate Right
func (cpu *Cpu6502) opROR(o operand) byte {
	m := cpu.fetch(o)
	carry := cpu.carry()

	cpu.setFlag(StatusFlagC, m&1 != 0)

	// Shift right one, set bit 7 to old carry.
	m = m>>1 | carry<<7
	cpu.setZN(m)
	cpu.writeBack(o, m)

	return 0
}

// INC - Increment Memory
func (cpu *Cpu6502) opINC(o operand) byte {
	m := cpu.fetch(o) + 1
	cpu.write(o.addr, m)
	cpu.setZN(m)
	return 0
}

// DEC - Decrement Memory
func (cpu *Cpu6502) opDEC(o operand) byte {
	m := cpu.fetch(o) - 1
	cpu.write(o.addr, m)
	cpu.setZN(m)
	return 0
}

// INX - Increment X Register
func (cpu *Cpu6502) opINX(o operand) byte {
	cpu.X++
	cpu.setZN(cpu.X)
	return 0
}

// INY - Increment Y Register
func (cpu *Cpu6502) opINY(o operand) byte {
	cpu.Y++
	cpu.setZN(cpu.Y)
	return 0
}

// DEX - Decrement X Register
func (cpu *Cpu6502) opDEX(o operand) byte {
	cpu.X--
	cpu.setZN(cpu.X)
	return 0
}

// DEY - Decrement Y Register
func (cpu *Cpu6502) opDEY(o operand) byte {
	cpu.Y--
	cpu.setZN(cpu.Y)
	return 0
}

// LDA - Load Accumulator
func (cpu *Cpu6502) opLDA(o operand) byte {
	cpu.A = cpu.fetch(o)
	cpu.setZN(cpu.A)
	return 0
}

// LDX - Load X Register
func (cpu *Cpu6502) opLDX(o operand) byte {
	cpu.X = cpu.fetch(o)
	cpu.setZN(cpu.X)
	return 0
}

// LDY - Load Y Register
func (cpu *Cpu6502) opLDY(o operand) byte {
	cpu.Y = cpu.fetch(o)
	cpu.setZN(cpu.Y)
	return 0
}

// STA - Store Accumulator
func (cpu *Cpu6502) opSTA(o operand) byte {
	cpu.write(o.addr, cpu.A)
	return 0
}

// STX - Store X Register
func (cpu *Cpu6502) opSTX(o operand) byte {
	cpu.write(o.addr, cpu.X)
	return 0
}

// STY - Store Y Register
func (cpu *Cpu6502) opSTY(o operand) byte {
	cpu.write(o.addr, cpu.Y)
	return 0
}

// TAX - Transfer Accumulator to X
func (cpu *Cpu6502) opTAX(o operand) byte {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
	return 0
}

// TAY - Transfer Accumulator to Y
func (cpu *Cpu6502) opTAY(o operand) byte {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
	return 0
}

// TSX - Transfer Stack Pointer to X
func (cpu *Cpu6502) opTSX(o operand) byte {
	cpu.X = cpu.Sp
	cpu.setZN(cpu.X)
	return 0
}

// TXA - Transfer X to Accumulator
func (cpu *Cpu6502) opTXA(o operand) byte {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
	return 0
}

// TXS - Transfer X to Stack Pointer
func (cpu *Cpu6502) opTXS(o operand) byte {
	cpu.Sp = cpu.X
	return 0
}

// TYA - Transfer Y to Accumulator
func (cpu *Cpu6502) opTYA(o operand) byte {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
	return 0
}

// PHA - Push Accumulator
func (cpu *Cpu6502) opPHA(o operand) byte {
	cpu.stackPush(cpu.A)
	return 0
}

// PHP - Push Processor Status
func (cpu *Cpu6502) opPHP(o operand) byte {
	// Set B flag according to: http://visual6502.org/wiki/index.php?title=6502_BRK_and_B_bit
	cpu.stackPush(cpu.Status | byte(StatusFlagB) | byte(StatusFlagX))
	return 0
}

// PLA - Pull Accumulator
func (cpu *Cpu6502) opPLA(o operand) byte {
	cpu.A = cpu.stackPop()
	cpu.setZN(cpu.A)
	return 0
}

// PLP - Pull Processor Status
func (cpu *Cpu6502) opPLP(o operand) byte {
	cpu.Status = cpu.stackPop()
	cpu.setFlag(StatusFlagB, false)
	return 0
}

// JMP - Jump
func (cpu *Cpu6502) opJMP(o operand) byte {
	cpu.Pc = o.addr
	return 0
}

// JSR - Jump to Subroutine
func (cpu *Cpu6502) opJSR(o operand) byte {
	// Pc is past the operand; push the address of its last byte.
	cpu.stackPushWord(cpu.Pc - 1)
	cpu.Pc = o.addr
	return 0
}

// RTS - Return from Subroutine
func (cpu *Cpu6502) opRTS(o operand) byte {
	cpu.Pc = cpu.stackPopWord() + 1
	return 0
}

// RTI - Return from Interrupt
func (cpu *Cpu6502) opRTI(o operand) byte {
	cpu.Status = cpu.stackPop()
	cpu.setFlag(StatusFlagB, false)
	cpu.Pc = cpu.stackPopWord()
	return 0
}

// BRK - Force Interrupt
func (cpu *Cpu6502) opBRK(o operand) byte {
	// Skip the padding byte after the opcode.
	cpu.Pc++
	cpu.interrupt(irqVectAddr, true)
	return 0
}

// BCC - Branch if Carry Clear
func (cpu *Cpu6502) opBCC(o operand) byte { return cpu.branch(o, StatusFlagC, false) }

// BCS - Branch if Carry Set
func (cpu *Cpu6502) opBCS(o operand) byte { return cpu.branch(o, StatusFlagC, true) }

// BEQ - Branch if Equal
func (cpu *Cpu6502) opBEQ(o operand) byte { return cpu.branch(o, StatusFlagZ, true) }

// BNE - Branch if Not Equal
func (cpu *Cpu6502) opBNE(o operand) byte { return cpu.branch(o, StatusFlagZ, false) }

// BMI - Branch if Minus
func (cpu *Cpu6502) opBMI(o operand) byte { return cpu.branch(o, StatusFlagN, true) }

// BPL - Branch if Positive
func (cpu *Cpu6502) opBPL(o operand) byte { return cpu.branch(o, StatusFlagN, false) }

// BVC - Branch if Overflow Clear
func (cpu *Cpu6502) opBVC(o operand) byte { return cpu.branch(o, StatusFlagV, false) }

// BVS - Branch if Overflow Set
func (cpu *Cpu6502) opBVS(o operand) byte { return cpu.branch(o, StatusFlagV, true) }

// CLC - Clear Carry Flag
func (cpu *Cpu6502) opCLC(o operand) byte {
	cpu.setFlag(StatusFlagC, false)
	return 0
}

// CLD - Clear Decimal Mode
func (cpu *Cpu6502) opCLD(o operand) byte {
	cpu.setFlag(StatusFlagD, false)
	return 0
}

// CLI - Clear Interrupt Disable
func (cpu *Cpu6502) opCLI(o operand) byte {
	cpu.setFlag(StatusFlagI, false)
	return 0
}

// CLV - Clear Overflow Flag
func (cpu *Cpu6502) opCLV(o operand) byte {
	cpu.setFlag(StatusFlagV, false)
	return 0
}

// SEC - Set Carry Flag
func (cpu *Cpu6502) opSEC(o operand) byte {
	cpu.setFlag(StatusFlagC, true)
	return 0
}

// SED - Set Decimal Flag
func (cpu *Cpu6502) opSED(o operand) byte {
	cpu.setFlag(StatusFlagD, true)
	return 0
}

// SEI - Set Interrupt Disable
func (cpu *Cpu6502) opSEI(o operand) byte {
	cpu.setFlag(StatusFlagI, true)
	return 0
}

// NOP - No Operation
func (cpu *Cpu6502) opNOP(o operand) byte { return 0 }
