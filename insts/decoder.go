package insts

import "fmt"

// Opcode is the low-7-bit RV32 opcode field.
type Opcode uint8

// Supported opcodes (§4.1). Any other value decodes to FormatInvalid.
const (
	OpcodeR     Opcode = 0x33 // register-register ALU ops
	OpcodeI     Opcode = 0x13 // immediate ALU ops
	OpcodeLoad  Opcode = 0x03 // lb/lh/lw
	OpcodeS     Opcode = 0x23 // sb/sh/sw
	OpcodeSB    Opcode = 0x63 // beq/bne
	OpcodeU     Opcode = 0x37 // lui
	OpcodeUJ    Opcode = 0x6F // jal
	OpcodeEcall Opcode = 0x73
)

// Format names the tagged view an Instruction carries in addition to its
// raw word. Selecting a view that doesn't match Opcode's natural format is
// a programming error, not something the decoder guards against (§9).
type Format uint8

// Instruction formats.
const (
	FormatInvalid Format = iota
	FormatR
	FormatI
	FormatLoad
	FormatS
	FormatSB
	FormatU
	FormatUJ
	FormatEcall
)

// BubbleWord is the canonical NOP the pipeline injects on stall/flush.
const BubbleWord uint32 = 0x00000013 // addi x0, x0, 0

// InvalidInstructionError reports an opcode outside the supported set.
type InvalidInstructionError struct {
	Word uint32
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction word 0x%08x", e.Word)
}

// Instruction is a tagged 32-bit RV32 instruction word. All format-specific
// accessors read directly out of Word; none of them cache state, so decoding
// is free to happen more than once per word (the pipeline re-decodes on every
// Fetch).
type Instruction struct {
	Word   uint32
	Opcode Opcode
	Format Format
}

// Decoder turns raw words into Instruction records. It holds no state; a
// zero-value Decoder is ready to use, but NewDecoder matches the rest of the
// package's constructor convention.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode splits word into an Instruction record. Unit tests may decode an
// out-of-set opcode and receive a Instruction{Format: FormatInvalid} with
// only Opcode/Word populated; the driver is the one that turns that into an
// InvalidInstructionError (§4.1, §7).
func (d *Decoder) Decode(word uint32) Instruction {
	op := Opcode(word & 0x7F)
	return Instruction{Word: word, Opcode: op, Format: formatOf(op)}
}

func formatOf(op Opcode) Format {
	switch op {
	case OpcodeR:
		return FormatR
	case OpcodeI:
		return FormatI
	case OpcodeLoad:
		return FormatLoad
	case OpcodeS:
		return FormatS
	case OpcodeSB:
		return FormatSB
	case OpcodeU:
		return FormatU
	case OpcodeUJ:
		return FormatUJ
	case OpcodeEcall:
		return FormatEcall
	default:
		return FormatInvalid
	}
}

// Bubble is the decoded form of BubbleWord, used by the pipeline to fill a
// flushed or stalled pipeline register.
func Bubble() Instruction {
	return NewDecoder().Decode(BubbleWord)
}

// Rd returns the destination register field, valid for R/I/Load/U/UJ.
func (in Instruction) Rd() uint8 {
	return uint8((in.Word >> 7) & 0x1F)
}

// Funct3 returns bits [14:12], valid for R/I/Load/S/SB.
func (in Instruction) Funct3() uint8 {
	return uint8((in.Word >> 12) & 0x7)
}

// Rs1 returns the first source register. Only R/I/Load/S/SB define it; per
// §9's Open Question on the hazard unit, U/UJ report 0 rather than guessing
// a bit position that isn't actually an rs1 field.
func (in Instruction) Rs1() uint8 {
	switch in.Format {
	case FormatR, FormatI, FormatLoad, FormatS, FormatSB:
		return uint8((in.Word >> 15) & 0x1F)
	default:
		return 0
	}
}

// Rs2 returns the second source register. Only R/S/SB define it; see Rs1.
func (in Instruction) Rs2() uint8 {
	switch in.Format {
	case FormatR, FormatS, FormatSB:
		return uint8((in.Word >> 20) & 0x1F)
	default:
		return 0
	}
}

// Funct7Bit30 returns bit 30 of the word (the R-type funct7 high bit, used
// to distinguish ADD/SUB and SRL/SRA).
func (in Instruction) Funct7Bit30() uint8 {
	return uint8((in.Word >> 30) & 0x1)
}

// Funct7Bit25 returns bit 25 of the word (the RV32M funct7 low bit, set for
// MUL/MULH/DIV/REM variants).
func (in Instruction) Funct7Bit25() uint8 {
	return uint8((in.Word >> 25) & 0x1)
}

// IImmField returns the raw unsigned 12-bit I-type immediate field, before
// sign extension.
func (in Instruction) IImmField() uint32 {
	return (in.Word >> 20) & 0xFFF
}

// SImmField returns the two halves of the S-type immediate, still split.
func (in Instruction) SImmField() (imm4_0, imm11_5 uint32) {
	imm4_0 = (in.Word >> 7) & 0x1F
	imm11_5 = (in.Word >> 25) & 0x7F
	return
}

// SBImmField returns the four scattered halves of the SB-type immediate.
func (in Instruction) SBImmField() (imm11, imm4_1, imm10_5, imm12 uint32) {
	imm11 = (in.Word >> 7) & 0x1
	imm4_1 = (in.Word >> 8) & 0xF
	imm10_5 = (in.Word >> 25) & 0x3F
	imm12 = (in.Word >> 31) & 0x1
	return
}

// UImmField returns the raw 20-bit U-type immediate field (bits [31:12]).
func (in Instruction) UImmField() uint32 {
	return (in.Word >> 12) & 0xFFFFF
}

// UJImmField returns the four scattered halves of the UJ-type immediate.
func (in Instruction) UJImmField() (imm19_12, imm11, imm10_1, imm20 uint32) {
	imm19_12 = (in.Word >> 12) & 0xFF
	imm11 = (in.Word >> 20) & 0x1
	imm10_1 = (in.Word >> 21) & 0x3FF
	imm20 = (in.Word >> 31) & 0x1
	return
}

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatLoad:
		return "Load"
	case FormatS:
		return "S"
	case FormatSB:
		return "SB"
	case FormatU:
		return "U"
	case FormatUJ:
		return "UJ"
	case FormatEcall:
		return "Ecall"
	default:
		return "Invalid"
	}
}
