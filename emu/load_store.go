package emu

import "github.com/sarchlab/rv32pipe/insts"

// Load/store funct3 codes distinguishing byte/half/word width (§4.6 Mem).
const (
	Funct3Byte = 0x0
	Funct3Half = 0x1
	Funct3Word = 0x2
)

// LoadStoreUnit performs the width-dispatched, sign-extending loads and
// stores the Mem stage needs. It is stateless except for the Memory it
// wraps, dispatching on funct3 the way a per-width load/store unit does,
// narrowed to RV32's lb/lh/lw/sb/sh/sw set (§6: "load operations sign-
// extend to 32 bits").
type LoadStoreUnit struct {
	memory *Memory
}

// NewLoadStoreUnit binds a LoadStoreUnit to the given memory image.
func NewLoadStoreUnit(memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{memory: memory}
}

// Load reads funct3-wide data at addr and sign-extends it to 32 bits.
func (lsu *LoadStoreUnit) Load(funct3 uint8, addr uint32) uint32 {
	switch funct3 {
	case Funct3Byte:
		return insts.SignExtend(uint32(lsu.memory.Read8(addr)), 8)
	case Funct3Half:
		return insts.SignExtend(uint32(lsu.memory.Read16(addr)), 16)
	default:
		return lsu.memory.Read32(addr)
	}
}

// Store writes the low funct3-wide slice of value at addr.
func (lsu *LoadStoreUnit) Store(funct3 uint8, addr uint32, value uint32) {
	switch funct3 {
	case Funct3Byte:
		lsu.memory.Write8(addr, uint8(value))
	case Funct3Half:
		lsu.memory.Write16(addr, uint16(value))
	default:
		lsu.memory.Write32(addr, value)
	}
}
