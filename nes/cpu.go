package nes

import (
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"
)

// Registers of the 6502.
type Registers struct {
	Pc     uint16 // Program Counter
	Sp     byte   // Stack Pointer: low 8 bits of next free location on stack.
	A      byte   // Accumulator Register
	X      byte   // X Register
	Y      byte   // Y Register
	Status byte   // Processor Status Flags
}

// Memory is the view of the bus the CPU needs.
type Memory interface {
	ReadCpuByte(addr uint16) byte
	WriteCpuByte(addr uint16, data byte)
}

// Cpu6502 executes one instruction on the first cycle it is due and then
// idles for the rest of the instruction's cycle count. Effects are accurate at
// instruction boundaries, not per bus access.
type Cpu6502 struct {
	Registers

	bus Memory
	irq *InterruptLine

	// Internal variables
	cycles      byte   // Remaining idle cycles for the current instruction
	totalCycles uint64 // Total # of cycles consumed by the CPU

	zeroPageWrap         bool  // wrap zero page indexing at 0x100 instead of mod 0xFF
	hardwareBranchTiming bool  // branch page cycle on high byte change, not low
	err                  error // latched decode error

	logger *log.Logger // instruction trace, nil when disabled
}

const (
	stackBase uint16 = 0x0100

	interruptCycles byte = 7
)

// NewCpu6502 returns a CPU attached to the bus and interrupt line. The line
// normally has RESET pending so the first step loads the reset vector.
func NewCpu6502(bus Memory, irq *InterruptLine) *Cpu6502 {
	return &Cpu6502{
		Registers: Registers{
			Status: byte(StatusFlagX),
		},
		bus: bus,
		irq: irq,
	}
}

// SetTrace enables a one line per instruction trace written to w. A nil
// writer disables tracing.
func (cpu *Cpu6502) SetTrace(w io.Writer) {
	if w == nil {
		cpu.logger = nil
		return
	}
	cpu.logger = log.New(w, "", 0)
}

// Snapshot returns a copy of the registers.
func (cpu *Cpu6502) Snapshot() Registers { return cpu.Registers }

// TotalCycles implements the Clock interface.
func (cpu *Cpu6502) TotalCycles() uint64 { return cpu.totalCycles }

// Err returns the latched decode error, if any.
func (cpu *Cpu6502) Err() error { return cpu.err }

// Reset requests a RESET interrupt and clears any latched error. The reset is
// serviced on the next instruction boundary.
func (cpu *Cpu6502) Reset() {
	cpu.err = nil
	cpu.irq.Request(InterruptReset)
}

// Read from the attached bus.
func (cpu *Cpu6502) read(addr uint16) byte {
	return cpu.bus.ReadCpuByte(addr)
}

// Write to the attached bus.
func (cpu *Cpu6502) write(addr uint16, data byte) {
	cpu.bus.WriteCpuByte(addr, data)
}

// Read a word from memory (little endian order).
func (cpu *Cpu6502) readWord(addr uint16) uint16 {
	lo := cpu.read(addr)
	hi := cpu.read(addr + 1)

	return (uint16(hi) << 8) | uint16(lo)
}

// Functions to push and pop from the stack.
func (cpu *Cpu6502) stackPush(data byte) {
	cpu.write(stackBase|uint16(cpu.Sp), data)
	cpu.Sp--
}

func (cpu *Cpu6502) stackPop() byte {
	cpu.Sp++
	return cpu.read(stackBase | uint16(cpu.Sp))
}

func (cpu *Cpu6502) stackPushWord(w uint16) {
	cpu.stackPush(byte(w >> 8))
	cpu.stackPush(byte(w))
}

func (cpu *Cpu6502) stackPopWord() uint16 {
	lo := cpu.stackPop()
	hi := cpu.stackPop()
	return uint16(hi)<<8 | uint16(lo)
}

////////////////////////////////////////////////////////////////
// Status Flags

type SF6502 byte // 6502 Status Flag

const (
	StatusFlagC SF6502 = 1 << iota // Carry
	StatusFlagZ                    // Zero
	StatusFlagI                    // Interrupt Disable
	StatusFlagD                    // Decimal Mode (not used on NES)
	StatusFlagB                    // Break Command
	StatusFlagX                    // UNUSED, always reads 1
	StatusFlagV                    // Overflow
	StatusFlagN                    // Negative
)

// Convenience functions used to get and set CPU status flags.
func (cpu *Cpu6502) getFlag(f SF6502) byte {
	return cpu.Status & byte(f)
}

func (cpu *Cpu6502) setFlag(f SF6502, b bool) {
	if b {
		cpu.Status |= byte(f)
	} else {
		cpu.Status &^= byte(f)
	}

	cpu.Status |= byte(StatusFlagX)
}

func (cpu *Cpu6502) setZN(v byte) {
	cpu.setFlag(StatusFlagZ, v == 0)
	cpu.setFlag(StatusFlagN, v&0x80 != 0)
}

func (cpu *Cpu6502) carry() byte {
	if cpu.getFlag(StatusFlagC) != 0 {
		return 1
	}
	return 0
}

////////////////////////////////////////////////////////////////
// Interrupts

// interruptReady reports whether a pending interrupt can be taken. IRQ is
// masked by the I flag; RESET and NMI are not.
func (cpu *Cpu6502) interruptReady() bool {
	return cpu.irq.Pending(InterruptReset) ||
		cpu.irq.Pending(InterruptNmi) ||
		(cpu.irq.Pending(InterruptIrq) && cpu.getFlag(StatusFlagI) == 0)
}

// interrupt pushes the return address and status and jumps through vector.
// BRK pushes the status with the B flag set.
func (cpu *Cpu6502) interrupt(vector uint16, brk bool) {
	cpu.stackPushWord(cpu.Pc)

	status := cpu.Status | byte(StatusFlagX)
	if brk {
		status |= byte(StatusFlagB)
	} else {
		status &^= byte(StatusFlagB)
	}
	cpu.stackPush(status)

	cpu.setFlag(StatusFlagI, true)
	cpu.Pc = cpu.readWord(vector)
}

func (cpu *Cpu6502) handleInterrupt() {
	vector, kind, ok := cpu.irq.Handler()
	if !ok {
		return
	}

	if glog.V(1) {
		glog.Infof("cpu: servicing %v at $%04X via $%04X", kind, cpu.Pc, vector)
	}

	cpu.interrupt(vector, false)

	cpu.totalCycles += uint64(interruptCycles)
	cpu.cycles = interruptCycles - 1
}

// Step advances the CPU by one clock cycle. It returns true on the cycle an
// instruction is executed. A decode error stops the CPU: Pc is left on the
// offending opcode and every later Step returns the same error until Reset.
func (cpu *Cpu6502) Step() (bool, error) {
	if cpu.err != nil {
		return false, cpu.err
	}

	if cpu.cycles > 0 {
		cpu.cycles--
		return false, nil
	}

	if cpu.interruptReady() {
		cpu.handleInterrupt()
		return false, nil
	}

	pc := cpu.Pc
	opcode := cpu.read(pc)

	inst := instructions[opcode]
	if inst == nil {
		cpu.err = &DecodeError{Opcode: opcode, Pc: pc}
		glog.Errorf("cpu: %v", cpu.err)
		return false, cpu.err
	}

	if cpu.logger != nil {
		cpu.trace(pc, inst)
	}

	cpu.Pc++

	op := cpu.decode(inst.Mode)

	cycles := inst.Cycles + inst.Execute(cpu, op)
	if inst.PageCycle && op.pageCrossed {
		cycles++
	}

	cpu.totalCycles += uint64(cycles)
	cpu.cycles = cycles - 1

	return true, nil
}

// trace logs the instruction about to execute along with the register state
// before it runs.
func (cpu *Cpu6502) trace(pc uint16, inst *Instruction) {
	text, raw := cpu.disassembleAt(pc)

	bytes := fmt.Sprintf("%02X", inst.Opcode)
	for _, b := range raw {
		bytes += fmt.Sprintf(" %02X", b)
	}

	cpu.logger.Printf("%04X  %-8s  %-30s  A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, bytes, text, cpu.A, cpu.X, cpu.Y, cpu.Status, cpu.Sp, cpu.totalCycles)
}
