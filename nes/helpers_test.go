package nes

import (
	"testing"
)

// mockMem is a flat 64KB memory with no mapped devices.
type mockMem struct {
	data [0x10000]byte
}

func newMockMem() *mockMem {
	return new(mockMem)
}

func (mem *mockMem) ReadCpuByte(addr uint16) byte        { return mem.data[addr] }
func (mem *mockMem) WriteCpuByte(addr uint16, data byte) { mem.data[addr] = data }

func (mem *mockMem) putInstructions(origin uint16, bytes ...byte) uint16 {
	for i, b := range bytes {
		mem.data[origin+uint16(i)] = b
	}
	return origin + uint16(len(bytes))
}

func (mem *mockMem) putWord(addr, w uint16) {
	mem.data[addr] = byte(w)
	mem.data[addr+1] = byte(w >> 8)
}

func (mem *mockMem) assert(t *testing.T, addr uint16, value byte) {
	t.Helper()
	if mem.data[addr] != value {
		t.Errorf("mem[$%04X] = $%02X, want $%02X", addr, mem.data[addr], value)
	}
}

// newTestCpu returns a CPU that has serviced its power-on RESET and will
// execute program at origin next.
func newTestCpu(t *testing.T, origin uint16, program ...byte) (*Cpu6502, *mockMem) {
	t.Helper()

	mem := newMockMem()
	mem.putWord(resetVectAddr, origin)
	mem.putInstructions(origin, program...)

	cpu := NewCpu6502(mem, NewInterruptLine())
	executed, err := cpu.Step()
	if executed || err != nil {
		t.Fatalf("reset: executed %v, err %v", executed, err)
	}
	drain(cpu)

	return cpu, mem
}

// drain steps through the idle cycles of the current instruction.
func drain(cpu *Cpu6502) {
	for cpu.cycles > 0 {
		cpu.Step()
	}
}

// execute runs the next instruction and returns the cycles it cost.
func execute(t *testing.T, cpu *Cpu6502) uint64 {
	t.Helper()

	drain(cpu)
	before := cpu.TotalCycles()

	executed, err := cpu.Step()
	if err != nil {
		t.Fatalf("step at $%04X: %v", cpu.Pc, err)
	}
	if !executed {
		t.Fatalf("step at $%04X: no instruction executed", cpu.Pc)
	}

	cost := cpu.TotalCycles() - before
	drain(cpu)
	return cost
}

type check struct {
	got  interface{}
	want interface{}
}

func assertAll(t *testing.T, tests []check) {
	t.Helper()
	for i, test := range tests {
		if test.got != test.want {
			t.Errorf("%d: got %v, want %v", i, test.got, test.want)
		}
	}
}

func isSet(cpu *Cpu6502, f SF6502) bool {
	return cpu.getFlag(f) != 0
}
