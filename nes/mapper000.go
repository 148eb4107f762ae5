package nes

// Mapper000 is NROM: no bank switching.
type Mapper000 struct {
	PrgBanks byte
	ChrBanks byte
}

const (
	nrom128Mask uint16 = 0x3FFF
	nrom256Mask uint16 = 0x7FFF
)

func NewMapper000(prgRomChunks, chrRomChunks byte) Mapper000 {
	return Mapper000{
		PrgBanks: prgRomChunks,
		ChrBanks: chrRomChunks,
	}
}

// Address Mapping
//
// if 16KB ROM size:
//
//	0x8000-0xBFFF -> 0x0000-0x3FFF
//	0xC000-0xFFFF -> 0x0000-0x3FFF (mirror)
//
// if 32KB ROM size:
//
//	0x8000-0xFFFF -> 0x0000-0x7FFF
func (m Mapper000) prgOffset(addr uint16) (uint32, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	if m.PrgBanks > 1 {
		return uint32(addr & nrom256Mask), true
	}
	return uint32(addr & nrom128Mask), true
}

func (m Mapper000) MapCpuRead(addr uint16) (uint32, bool)  { return m.prgOffset(addr) }
func (m Mapper000) MapCpuWrite(addr uint16) (uint32, bool) { return m.prgOffset(addr) }

// Pattern tables map straight onto CHR.
func (m Mapper000) MapPpuRead(addr uint16) (uint32, bool) {
	if addr > patternTblAddrEnd {
		return 0, false
	}
	return uint32(addr), true
}

func (m Mapper000) MapPpuWrite(addr uint16) (uint32, bool) {
	return m.MapPpuRead(addr)
}
