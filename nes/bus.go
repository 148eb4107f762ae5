package nes

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// RAM
	ramMinAddr uint16 = 0x0000
	ramMaxAddr uint16 = 0x1FFF
	ramMirror  uint16 = 0x07FF // mirror every 2KB.
	ramSize           = 2 * 1024

	// PPU registers
	ppuRegMinAddr uint16 = 0x2000
	ppuRegMaxAddr uint16 = 0x3FFF
	ppuRegMirror  uint16 = 0x0007 // mirror every 8 bytes.

	// APU and I/O, not implemented
	ioMinAddr uint16 = 0x4000
	ioMaxAddr uint16 = 0x4017

	// Cartridge
	cartMinAddr uint16 = 0x4020

	// PPU address space
	ppuMaxAddr        uint16 = 0x3FFF
	patternTblAddr    uint16 = 0x0000
	patternTblAddrEnd uint16 = 0x1FFF
	nameTblAddr       uint16 = 0x2000
	nameTblAddrEnd    uint16 = 0x3EFF
	nameTblSize       uint16 = 0x0400
	paletteAddr       uint16 = 0x3F00
	paletteAddrEnd    uint16 = 0x3FFF

	// PPUCTRL writes are dropped until the CPU has run this many cycles.
	ppuWarmupCycles uint64 = 30000
)

// Clock exposes the CPU's cycle counter to the bus.
type Clock interface {
	TotalCycles() uint64
}

type region int

const (
	regionRAM region = iota
	regionPpuReg
	regionIO
	regionCart
	regionNameTbl
	regionPalette
	regionPattern
)

// Bus is the memory bus shared by the CPU and the PPU. It owns RAM, the PPU
// registers, nametable and palette memory, and routes cartridge ranges to the
// inserted cartridge.
type Bus struct {
	ram       [ramSize]byte
	ppuRegs   [8]byte
	nameTable [2 * nameTblSize]byte
	palette   [32]byte

	cart  *Cartridge
	clock Clock

	statusRead bool // PPUSTATUS was read since the PPU last looked

	unmappedWarned bool // an unmapped access has been reported at warning level
}

func NewBus() *Bus {
	return &Bus{}
}

// Load a cartridge. Both CPU and PPU cartridge ranges go through it.
func (b *Bus) InsertCartridge(cart *Cartridge) { b.cart = cart }

// ConnectClock attaches the CPU cycle counter used for the PPUCTRL warm-up
// window.
func (b *Bus) ConnectClock(c Clock) { b.clock = c }

func (b *Bus) totalCycles() uint64 {
	if b.clock == nil {
		return 0
	}
	return b.clock.TotalCycles()
}

// decodeCpuAddress maps a CPU address to a region and the offset within it.
func decodeCpuAddress(addr uint16) (region, uint16, error) {
	switch {
	case addr <= ramMaxAddr:
		return regionRAM, addr & ramMirror, nil
	case addr >= ppuRegMinAddr && addr <= ppuRegMaxAddr:
		return regionPpuReg, ppuRegIndex(addr), nil
	case addr >= ioMinAddr && addr <= ioMaxAddr:
		return regionIO, addr - ioMinAddr, nil
	case addr >= cartMinAddr:
		return regionCart, addr, nil
	}
	return 0, 0, errors.Wrapf(ErrUnmappedAddress, "cpu $%04X", addr)
}

// decodePpuAddress maps a PPU address to a region and the offset within it.
// The PPU address space is 14 bits wide; higher addresses mirror.
func decodePpuAddress(addr uint16, mirror Mirroring) (region, uint16) {
	addr &= ppuMaxAddr

	switch {
	case addr <= patternTblAddrEnd:
		return regionPattern, addr
	case addr <= nameTblAddrEnd:
		// 0x3000-0x3EFF mirrors 0x2000-0x2EFF
		addr = (addr - nameTblAddr) % (4 * nameTblSize)
		table := addr / nameTblSize
		if mirror == MirrorVertical {
			table &= 0x01 // 0 1 0 1
		} else {
			table >>= 1 // 0 0 1 1
		}
		return regionNameTbl, table*nameTblSize + addr%nameTblSize
	}

	// Palette: 0x3F20-0x3FFF mirror 0x3F00-0x3F1F, and the sprite backdrop
	// entries mirror the background ones.
	addr &= 0x1F
	if addr&0x13 == 0x10 {
		addr &^= 0x10
	}
	return regionPalette, addr
}

// warnUnmapped reports the first unmapped access as a warning and the rest
// at verbosity 1.
func (b *Bus) warnUnmapped(op string, err error) {
	if !b.unmappedWarned {
		b.unmappedWarned = true
		glog.Warningf("%s: %v (further unmapped accesses logged at -v=1)", op, err)
		return
	}
	glog.V(1).Infof("%s: %v", op, err)
}

// ReadCpuByte is used by the CPU to read from the bus.
func (b *Bus) ReadCpuByte(addr uint16) byte {
	r, off, err := decodeCpuAddress(addr)
	if err != nil {
		b.warnUnmapped("read", err)
		return 0
	}

	switch r {
	case regionRAM:
		return b.ram[off]
	case regionPpuReg:
		if off == ppuRegIndex(PPUSTATUS) {
			b.statusRead = true
		}
		return b.ppuRegs[off]
	case regionCart:
		if b.cart == nil {
			return 0
		}
		data, ok := b.cart.cpuRead(off)
		if !ok {
			glog.V(1).Infof("read: cartridge did not claim $%04X", addr)
		}
		return data
	}

	// APU and I/O registers read as zero
	return 0
}

// PeekCpuByte reads like ReadCpuByte but without side effects or logging.
func (b *Bus) PeekCpuByte(addr uint16) byte {
	r, off, err := decodeCpuAddress(addr)
	if err != nil {
		return 0
	}

	switch r {
	case regionRAM:
		return b.ram[off]
	case regionPpuReg:
		return b.ppuRegs[off]
	case regionCart:
		if b.cart != nil {
			data, _ := b.cart.cpuRead(off)
			return data
		}
	}

	return 0
}

// WriteCpuByte is used by the CPU to write to the bus.
func (b *Bus) WriteCpuByte(addr uint16, data byte) {
	r, off, err := decodeCpuAddress(addr)
	if err != nil {
		b.warnUnmapped("write", err)
		return
	}

	switch r {
	case regionRAM:
		b.ram[off] = data
	case regionPpuReg:
		if off == ppuRegIndex(PPUCTRL) && b.totalCycles() <= ppuWarmupCycles {
			return
		}
		b.ppuRegs[off] = data
	case regionCart:
		if b.cart == nil {
			return
		}
		if !b.cart.cpuWrite(off, data) {
			glog.V(1).Infof("write: cartridge did not claim $%04X", addr)
		}
	}
}

// ReadPpuByte is used by the PPU to read from its own address space.
func (b *Bus) ReadPpuByte(addr uint16) byte {
	r, off := decodePpuAddress(addr, b.mirroring())

	switch r {
	case regionPattern:
		if b.cart != nil {
			data, _ := b.cart.ppuRead(off)
			return data
		}
	case regionNameTbl:
		return b.nameTable[off]
	case regionPalette:
		return b.palette[off]
	}

	return 0
}

// WritePpuByte is used by the PPU to write to its own address space.
func (b *Bus) WritePpuByte(addr uint16, data byte) {
	r, off := decodePpuAddress(addr, b.mirroring())

	switch r {
	case regionPattern:
		if b.cart != nil {
			b.cart.ppuWrite(off, data)
		}
	case regionNameTbl:
		b.nameTable[off] = data
	case regionPalette:
		b.palette[off] = data
	}
}

func (b *Bus) mirroring() Mirroring {
	if b.cart == nil {
		return MirrorHorizontal
	}
	return b.cart.Mirror
}

// SetPpuRegisterBit sets or clears flag bits in a PPU register without the
// side effects of a CPU access.
func (b *Bus) SetPpuRegisterBit(reg uint16, flag PpuRegFlag, active bool) {
	i := ppuRegIndex(reg)
	if active {
		b.ppuRegs[i] |= byte(flag)
	} else {
		b.ppuRegs[i] &^= byte(flag)
	}
}

// PpuRegisterBit reports whether all the flag bits are set in a PPU register.
func (b *Bus) PpuRegisterBit(reg uint16, flag PpuRegFlag) bool {
	return b.ppuRegs[ppuRegIndex(reg)]&byte(flag) == byte(flag)
}

// PpuRegister returns a PPU register without read side effects.
func (b *Bus) PpuRegister(reg uint16) byte {
	return b.ppuRegs[ppuRegIndex(reg)]
}

// ConsumeStatusRead reports whether PPUSTATUS was read by the CPU since the
// previous call, and resets the flag.
func (b *Bus) ConsumeStatusRead() bool {
	read := b.statusRead
	b.statusRead = false
	return read
}

// Ram returns a copy of internal RAM.
func (b *Bus) Ram() [ramSize]byte {
	return b.ram
}
