package nes

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Reference: https://wiki.nesdev.com/w/index.php/INES

const (
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
	trainerSize = 512
)

var inesMagic = []byte{'N', 'E', 'S', 0x1A}

// Mirroring is the nametable arrangement wired on the cartridge board.
type Mirroring byte

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
)

func (m Mirroring) String() string {
	if m == MirrorVertical {
		return "vertical"
	}
	return "horizontal"
}

type inesHeader struct {
	Magic   [4]byte
	PrgSize byte // 16KB units
	ChrSize byte // 8KB units
	Flags6  byte
	Flags7  byte
	_       [8]byte
}

// Cartridge owns the PRG and CHR storage. All accesses are routed through the
// mapper, which only ever returns offsets.
type Cartridge struct {
	prg []byte
	chr []byte

	PrgBanks byte
	ChrBanks byte
	MapperID byte
	Mirror   Mirroring

	chrRAM bool
	mapper Mapper
}

// NewCartridge builds a cartridge from already loaded banks. An empty chr
// slice gives the board 8KB of CHR RAM.
func NewCartridge(prg, chr []byte, mapperID byte, mirror Mirroring) (*Cartridge, error) {
	if len(prg) == 0 || len(prg)%prgBankSize != 0 {
		return nil, errors.Errorf("PRG size %d is not a multiple of %d", len(prg), prgBankSize)
	}
	if len(chr)%chrBankSize != 0 {
		return nil, errors.Errorf("CHR size %d is not a multiple of %d", len(chr), chrBankSize)
	}

	c := &Cartridge{
		prg:      prg,
		chr:      chr,
		PrgBanks: byte(len(prg) / prgBankSize),
		ChrBanks: byte(len(chr) / chrBankSize),
		MapperID: mapperID,
		Mirror:   mirror,
	}

	if len(chr) == 0 {
		c.chr = make([]byte, chrBankSize)
		c.chrRAM = true
	}

	m, err := newMapper(mapperID, c.PrgBanks, c.ChrBanks)
	if err != nil {
		return nil, err
	}
	c.mapper = m

	return c, nil
}

// LoadCartridge reads an iNES image.
func LoadCartridge(r io.Reader) (*Cartridge, error) {
	var h inesHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(ErrShortRead, "header")
	}
	if !bytes.Equal(h.Magic[:], inesMagic) {
		return nil, errors.Wrapf(ErrInvalidHeader, "magic %q", h.Magic[:])
	}
	if h.PrgSize == 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "no PRG banks")
	}

	if h.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, errors.Wrap(ErrShortRead, "trainer")
		}
	}

	prg := make([]byte, int(h.PrgSize)*prgBankSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, errors.Wrapf(ErrShortRead, "PRG (%d banks): %v", h.PrgSize, err)
	}

	chr := make([]byte, int(h.ChrSize)*chrBankSize)
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, errors.Wrapf(ErrShortRead, "CHR (%d banks): %v", h.ChrSize, err)
	}

	mapperID := (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
	mirror := MirrorHorizontal
	if h.Flags6&0x01 != 0 {
		mirror = MirrorVertical
	}

	return NewCartridge(prg, chr, mapperID, mirror)
}

// OpenCartridge loads an iNES file from disk.
func OpenCartridge(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open cartridge")
	}
	defer f.Close()

	cart, err := LoadCartridge(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cart, nil
}

// Communicate with main (CPU) bus.
func (c *Cartridge) cpuRead(addr uint16) (byte, bool) {
	off, ok := c.mapper.MapCpuRead(addr)
	if !ok {
		return 0, false
	}
	return c.prg[off], true
}

// PRG is ROM. A claimed write reaches the mapper only; the data is dropped.
func (c *Cartridge) cpuWrite(addr uint16, data byte) bool {
	_, ok := c.mapper.MapCpuWrite(addr)
	return ok
}

// Communicate with PPU bus.
func (c *Cartridge) ppuRead(addr uint16) (byte, bool) {
	off, ok := c.mapper.MapPpuRead(addr)
	if !ok {
		return 0, false
	}
	return c.chr[off], true
}

// CHR ROM writes are dropped; boards with CHR RAM accept them.
func (c *Cartridge) ppuWrite(addr uint16, data byte) bool {
	off, ok := c.mapper.MapPpuWrite(addr)
	if !ok || !c.chrRAM {
		return false
	}
	c.chr[off] = data
	return true
}
