package nes

import (
	"testing"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type fakeClock uint64

func (c *fakeClock) TotalCycles() uint64 { return uint64(*c) }

func newTestCart(t *testing.T, mirror Mirroring, chr []byte) *Cartridge {
	t.Helper()
	cart, err := NewCartridge(make([]byte, prgBankSize), chr, 0, mirror)
	if err != nil {
		t.Fatal(err)
	}
	return cart
}

func TestBusRamMirroring(t *testing.T) {
	bus := NewBus()
	bus.WriteCpuByte(0x0001, 0x42)

	for _, addr := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := bus.ReadCpuByte(addr); got != 0x42 {
			t.Errorf("$%04X = $%02X, want $42", addr, got)
		}
	}

	bus.WriteCpuByte(0x1FFF, 0x24)
	if ram := bus.Ram(); ram[0x07FF] != 0x24 {
		t.Errorf("ram[$07FF] = $%02X, want $24", ram[0x07FF])
	}
}

func TestBusPpuRegisterMirroring(t *testing.T) {
	bus := NewBus()

	bus.WriteCpuByte(0x2009, 0x1E)
	if got := bus.PpuRegister(PPUMASK); got != 0x1E {
		t.Errorf("PPUMASK = $%02X, want $1E", got)
	}
	if got := bus.ReadCpuByte(0x3FF9); got != 0x1E {
		t.Errorf("$3FF9 = $%02X, want $1E", got)
	}
}

func TestBusDecodeCpuAddress(t *testing.T) {
	tests := []struct {
		addr   uint16
		region region
		offset uint16
	}{
		{0x0000, regionRAM, 0x0000},
		{0x17FF, regionRAM, 0x07FF},
		{0x2002, regionPpuReg, 0x0002},
		{0x3FFF, regionPpuReg, 0x0007},
		{0x4000, regionIO, 0x0000},
		{0x4017, regionIO, 0x0017},
		{0x4020, regionCart, 0x4020},
		{0xFFFF, regionCart, 0xFFFF},
	}

	for _, test := range tests {
		r, off, err := decodeCpuAddress(test.addr)
		if err != nil || r != test.region || off != test.offset {
			t.Errorf("$%04X: got %v $%04X %v, want %v $%04X",
				test.addr, r, off, err, test.region, test.offset)
		}
	}

	for addr := uint16(0x4018); addr <= 0x401F; addr++ {
		if _, _, err := decodeCpuAddress(addr); !errors.Is(err, ErrUnmappedAddress) {
			t.Errorf("$%04X: err = %v, want %v", addr, err, ErrUnmappedAddress)
		}
	}
}

func TestBusUnmappedAndIO(t *testing.T) {
	bus := NewBus()

	bus.WriteCpuByte(0x4018, 0xFF)
	bus.WriteCpuByte(0x4016, 0xFF)

	for _, addr := range []uint16{0x4018, 0x401F, 0x4016, 0x4000} {
		if got := bus.ReadCpuByte(addr); got != 0 {
			t.Errorf("$%04X = $%02X, want 0", addr, got)
		}
	}
}

func TestBusUnmappedWarnsOnce(t *testing.T) {
	bus := NewBus()
	before := glog.Stats.Warning.Lines()

	for i := 0; i < 100; i++ {
		addr := 0x4018 + uint16(i%8)
		bus.ReadCpuByte(addr)
		bus.WriteCpuByte(addr, byte(i))
	}

	if n := glog.Stats.Warning.Lines() - before; n != 1 {
		t.Errorf("%d warnings for 200 unmapped accesses, want 1", n)
	}
}

func TestBusPpuCtrlWarmup(t *testing.T) {
	bus := NewBus()

	// No clock connected counts as cycle 0.
	bus.WriteCpuByte(PPUCTRL, 0x80)
	if bus.PpuRegister(PPUCTRL) != 0 {
		t.Fatalf("PPUCTRL written without a clock")
	}

	clock := fakeClock(ppuWarmupCycles)
	bus.ConnectClock(&clock)

	bus.WriteCpuByte(PPUCTRL, 0x80)
	if bus.PpuRegister(PPUCTRL) != 0 {
		t.Fatalf("PPUCTRL written at cycle %d", clock)
	}

	// Other registers are not affected.
	bus.WriteCpuByte(PPUMASK, 0x08)
	if bus.PpuRegister(PPUMASK) != 0x08 {
		t.Fatalf("PPUMASK write dropped during warm-up")
	}

	clock++
	bus.WriteCpuByte(0x2008, 0x80) // mirror of PPUCTRL
	if bus.PpuRegister(PPUCTRL) != 0x80 {
		t.Fatalf("PPUCTRL not written at cycle %d", clock)
	}
}

func TestBusStatusRead(t *testing.T) {
	bus := NewBus()

	if bus.ConsumeStatusRead() {
		t.Fatalf("status read reported before any read")
	}

	bus.PeekCpuByte(PPUSTATUS)
	bus.ReadCpuByte(PPUMASK)
	if bus.ConsumeStatusRead() {
		t.Fatalf("status read reported after peek and PPUMASK read")
	}

	bus.ReadCpuByte(0x200A)
	if !bus.ConsumeStatusRead() {
		t.Fatalf("status read not reported")
	}
	if bus.ConsumeStatusRead() {
		t.Fatalf("status read reported twice")
	}
}

func TestBusDecodePpuAddress(t *testing.T) {
	tests := []struct {
		addr   uint16
		mirror Mirroring
		region region
		offset uint16
	}{
		{0x0000, MirrorVertical, regionPattern, 0x0000},
		{0x1FFF, MirrorVertical, regionPattern, 0x1FFF},

		// Vertical: $2000=$2800, $2400=$2C00
		{0x2000, MirrorVertical, regionNameTbl, 0x0000},
		{0x2400, MirrorVertical, regionNameTbl, 0x0400},
		{0x2800, MirrorVertical, regionNameTbl, 0x0000},
		{0x2C05, MirrorVertical, regionNameTbl, 0x0405},

		// Horizontal: $2000=$2400, $2800=$2C00
		{0x2000, MirrorHorizontal, regionNameTbl, 0x0000},
		{0x2405, MirrorHorizontal, regionNameTbl, 0x0005},
		{0x2800, MirrorHorizontal, regionNameTbl, 0x0400},
		{0x2C00, MirrorHorizontal, regionNameTbl, 0x0400},

		// $3000-$3EFF mirrors $2000-$2EFF
		{0x3000, MirrorVertical, regionNameTbl, 0x0000},
		{0x3EFF, MirrorHorizontal, regionNameTbl, 0x06FF},

		{0x3F00, MirrorVertical, regionPalette, 0x00},
		{0x3F10, MirrorVertical, regionPalette, 0x00},
		{0x3F14, MirrorVertical, regionPalette, 0x04},
		{0x3F1C, MirrorVertical, regionPalette, 0x0C},
		{0x3F11, MirrorVertical, regionPalette, 0x11},
		{0x3F20, MirrorVertical, regionPalette, 0x00},
		{0x3FFF, MirrorVertical, regionPalette, 0x1F},

		// 14 bit address space
		{0x7F01, MirrorVertical, regionPalette, 0x01},
		{0x4000, MirrorVertical, regionPattern, 0x0000},
	}

	for _, test := range tests {
		r, off := decodePpuAddress(test.addr, test.mirror)
		if r != test.region || off != test.offset {
			t.Errorf("$%04X %v: got %v $%04X, want %v $%04X",
				test.addr, test.mirror, r, off, test.region, test.offset)
		}
	}
}

func TestBusNameTableMirroring(t *testing.T) {
	bus := NewBus()
	bus.InsertCartridge(newTestCart(t, MirrorVertical, nil))

	bus.WritePpuByte(0x2001, 0x11)
	bus.WritePpuByte(0x2401, 0x22)

	tests := []struct {
		addr uint16
		want byte
	}{
		{0x2801, 0x11},
		{0x2C01, 0x22},
		{0x3001, 0x11},
		{0x3401, 0x22},
	}
	for _, test := range tests {
		if got := bus.ReadPpuByte(test.addr); got != test.want {
			t.Errorf("$%04X = $%02X, want $%02X", test.addr, got, test.want)
		}
	}

	bus.WritePpuByte(0x3F10, 0x0F)
	if got := bus.ReadPpuByte(0x3F00); got != 0x0F {
		t.Errorf("$3F00 = $%02X, want $0F", got)
	}
}

func TestBusPatternTables(t *testing.T) {
	chr := make([]byte, chrBankSize)
	chr[0x0010] = 0x5A

	rom := NewBus()
	rom.InsertCartridge(newTestCart(t, MirrorHorizontal, chr))

	if got := rom.ReadPpuByte(0x0010); got != 0x5A {
		t.Errorf("CHR ROM $0010 = $%02X, want $5A", got)
	}
	rom.WritePpuByte(0x0010, 0xFF)
	if got := rom.ReadPpuByte(0x0010); got != 0x5A {
		t.Errorf("CHR ROM write was stored: $%02X", got)
	}

	ram := NewBus()
	ram.InsertCartridge(newTestCart(t, MirrorHorizontal, nil))

	ram.WritePpuByte(0x1FFF, 0xA5)
	if got := ram.ReadPpuByte(0x1FFF); got != 0xA5 {
		t.Errorf("CHR RAM $1FFF = $%02X, want $A5", got)
	}
}

func TestBusCartridge(t *testing.T) {
	bus := NewBus()

	// Nothing inserted.
	if got := bus.ReadCpuByte(0x8000); got != 0 {
		t.Errorf("$8000 = $%02X with no cartridge", got)
	}

	prg := make([]byte, prgBankSize)
	prg[0x0000] = 0x11
	prg[0x3FFF] = 0x22
	cart, err := NewCartridge(prg, nil, 0, MirrorHorizontal)
	if err != nil {
		t.Fatal(err)
	}
	bus.InsertCartridge(cart)

	tests := []struct {
		addr uint16
		want byte
	}{
		{0x8000, 0x11},
		{0xBFFF, 0x22},
		{0xC000, 0x11},
		{0xFFFF, 0x22},
		{0x6000, 0x00}, // not claimed by NROM
	}
	for _, test := range tests {
		if got := bus.ReadCpuByte(test.addr); got != test.want {
			t.Errorf("$%04X = $%02X, want $%02X", test.addr, got, test.want)
		}
		if got := bus.PeekCpuByte(test.addr); got != test.want {
			t.Errorf("peek $%04X = $%02X, want $%02X", test.addr, got, test.want)
		}
	}

	// PRG is ROM.
	bus.WriteCpuByte(0x8000, 0xFF)
	if got := bus.ReadCpuByte(0x8000); got != 0x11 {
		t.Errorf("PRG write was stored: $%02X", got)
	}
}
