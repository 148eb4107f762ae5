package nes

import "github.com/pkg/errors"

// Mapper translates bus addresses into offsets within the cartridge's PRG and
// CHR storage. The boolean reports whether the mapper claims the address; the
// cartridge performs the actual array access.
type Mapper interface {
	MapCpuRead(addr uint16) (uint32, bool)
	MapCpuWrite(addr uint16) (uint32, bool)
	MapPpuRead(addr uint16) (uint32, bool)
	MapPpuWrite(addr uint16) (uint32, bool)
}

type mapperCtor func(prgBanks, chrBanks byte) Mapper

// Supported mappers, keyed by iNES mapper number.
var mappers = map[byte]mapperCtor{
	0: func(prg, chr byte) Mapper { return NewMapper000(prg, chr) },
}

func newMapper(id, prgBanks, chrBanks byte) (Mapper, error) {
	ctor, ok := mappers[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedMapper, "mapper %03d", id)
	}
	return ctor(prgBanks, chrBanks), nil
}
