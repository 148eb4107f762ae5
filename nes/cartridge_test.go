package nes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

// inesImage builds an iNES file. PRG bank n starts with byte 0x11*(n+1) and
// the trainer, if any, is filled with 0xEE.
func inesImage(prgBanks, chrBanks, flags6, flags7 byte) []byte {
	var buf bytes.Buffer

	buf.Write(inesMagic)
	buf.Write([]byte{prgBanks, chrBanks, flags6, flags7})
	buf.Write(make([]byte, 8))

	if flags6&0x04 != 0 {
		buf.Write(bytes.Repeat([]byte{0xEE}, trainerSize))
	}

	for n := 0; n < int(prgBanks); n++ {
		bank := make([]byte, prgBankSize)
		bank[0] = 0x11 * byte(n+1)
		buf.Write(bank)
	}
	buf.Write(make([]byte, int(chrBanks)*chrBankSize))

	return buf.Bytes()
}

func TestLoadCartridge(t *testing.T) {
	cart, err := LoadCartridge(bytes.NewReader(inesImage(2, 1, 0x01, 0x00)))
	if err != nil {
		t.Fatal(err)
	}

	assertAll(t, []check{
		{cart.PrgBanks, byte(2)},
		{cart.ChrBanks, byte(1)},
		{cart.MapperID, byte(0)},
		{cart.Mirror, MirrorVertical},
		{cart.chrRAM, false},
		{len(cart.prg), 2 * prgBankSize},
		{len(cart.chr), chrBankSize},
	})

	// 32KB: no mirroring of the first bank.
	for _, test := range []struct {
		addr uint16
		want byte
	}{
		{0x8000, 0x11},
		{0xC000, 0x22},
	} {
		if got, _ := cart.cpuRead(test.addr); got != test.want {
			t.Errorf("$%04X = $%02X, want $%02X", test.addr, got, test.want)
		}
	}
}

func TestLoadCartridgeTrainer(t *testing.T) {
	cart, err := LoadCartridge(bytes.NewReader(inesImage(1, 0, 0x04, 0x00)))
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := cart.cpuRead(0x8000); got != 0x11 {
		t.Errorf("$8000 = $%02X, want $11 (trainer not skipped?)", got)
	}
	if got, _ := cart.cpuRead(0xC000); got != 0x11 {
		t.Errorf("$C000 = $%02X, want $11 (16KB mirror)", got)
	}
	assertAll(t, []check{
		{cart.Mirror, MirrorHorizontal},
		{cart.chrRAM, true},
		{len(cart.chr), chrBankSize},
	})
}

func TestLoadCartridgeErrors(t *testing.T) {
	bad := inesImage(1, 0, 0, 0)
	bad[3] = 0x00

	noPrg := inesImage(0, 1, 0, 0)

	tests := []struct {
		name string
		data []byte
		want error
		msg  string
	}{
		{"empty", nil, ErrShortRead, "header"},
		{"short header", []byte("NES\x1a\x01"), ErrShortRead, "header"},
		{"bad magic", bad, ErrInvalidHeader, "magic"},
		{"no PRG", noPrg, ErrInvalidHeader, "no PRG"},
		{"short PRG", inesImage(2, 0, 0, 0)[:16+prgBankSize], ErrShortRead, "PRG"},
		{"short CHR", inesImage(1, 1, 0, 0)[:16+prgBankSize+10], ErrShortRead, "CHR"},
		{"short trainer", inesImage(1, 0, 0x04, 0)[:100], ErrShortRead, "trainer"},
		{"mapper 1", inesImage(1, 0, 0x10, 0), ErrUnsupportedMapper, "mapper 001"},
		{"mapper 20", inesImage(1, 0, 0x40, 0x10), ErrUnsupportedMapper, "mapper 020"},
	}

	for _, test := range tests {
		_, err := LoadCartridge(bytes.NewReader(test.data))
		if !errors.Is(err, test.want) {
			t.Errorf("%s: err = %v, want %v", test.name, err, test.want)
			continue
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: err %q does not mention %q", test.name, err, test.msg)
		}
	}
}

func TestNewCartridgeSizes(t *testing.T) {
	if _, err := NewCartridge(make([]byte, 100), nil, 0, MirrorHorizontal); err == nil {
		t.Errorf("odd PRG size accepted")
	}
	if _, err := NewCartridge(nil, nil, 0, MirrorHorizontal); err == nil {
		t.Errorf("empty PRG accepted")
	}
	if _, err := NewCartridge(make([]byte, prgBankSize), make([]byte, 100), 0, MirrorHorizontal); err == nil {
		t.Errorf("odd CHR size accepted")
	}
}

func TestOpenCartridgeMissing(t *testing.T) {
	if _, err := OpenCartridge("testdata/does-not-exist.nes"); err == nil {
		t.Errorf("missing file opened")
	}
}

func TestMapper000(t *testing.T) {
	tests := []struct {
		prgBanks byte
		addr     uint16
		offset   uint32
		ok       bool
	}{
		{1, 0x8000, 0x0000, true},
		{1, 0xBFFF, 0x3FFF, true},
		{1, 0xC000, 0x0000, true},
		{1, 0xFFFC, 0x3FFC, true},
		{2, 0xC000, 0x4000, true},
		{2, 0xFFFF, 0x7FFF, true},
		{1, 0x6000, 0, false},
		{1, 0x4020, 0, false},
	}

	for _, test := range tests {
		m := NewMapper000(test.prgBanks, 1)

		off, ok := m.MapCpuRead(test.addr)
		if off != test.offset || ok != test.ok {
			t.Errorf("%d banks $%04X: got $%04X %v, want $%04X %v",
				test.prgBanks, test.addr, off, ok, test.offset, test.ok)
		}
		if woff, wok := m.MapCpuWrite(test.addr); woff != off || wok != ok {
			t.Errorf("%d banks $%04X: write mapping differs from read", test.prgBanks, test.addr)
		}
	}

	m := NewMapper000(1, 1)
	if off, ok := m.MapPpuRead(0x1ABC); !ok || off != 0x1ABC {
		t.Errorf("PPU $1ABC: got $%04X %v", off, ok)
	}
	if _, ok := m.MapPpuWrite(0x2000); ok {
		t.Errorf("PPU $2000 claimed by the mapper")
	}
}
