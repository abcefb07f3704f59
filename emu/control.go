package emu

import "github.com/sarchlab/rv32pipe/insts"

// Control is the per-stage control vector the Decode stage generates from
// an opcode (§4.4). Only the fields a given stage cares about are read by
// that stage; the rest ride along for traceability.
type Control struct {
	AluOp2    bool
	AluOp1    bool
	AluOp0    bool
	AluSrc    bool
	Branch    bool
	MemRead   bool
	MemWrite  bool
	RegWrite  bool
	MemToReg  bool
}

// GenControl maps an opcode to its control vector, reproducing §4.4's table
// exactly. An opcode outside the supported set yields the zero Control
// (every signal off), which the pipeline treats the same as a bubble.
func GenControl(op insts.Opcode) Control {
	switch op {
	case insts.OpcodeR:
		return Control{AluOp1: true, RegWrite: true}
	case insts.OpcodeI:
		return Control{AluOp1: true, AluOp0: true, AluSrc: true, RegWrite: true}
	case insts.OpcodeLoad:
		return Control{AluSrc: true, MemRead: true, RegWrite: true, MemToReg: true}
	case insts.OpcodeS:
		return Control{AluSrc: true, MemWrite: true}
	case insts.OpcodeSB:
		return Control{AluOp0: true, Branch: true}
	case insts.OpcodeU:
		return Control{AluOp2: true, AluSrc: true, RegWrite: true}
	case insts.OpcodeUJ:
		return Control{AluSrc: true, Branch: true, RegWrite: true}
	default:
		return Control{}
	}
}

// GenALUControl maps the control vector's alu_op bits plus the funct3/
// funct7 fields to an ALU control code (§4.5).
func GenALUControl(c Control, funct3, funct7Bit30, funct7Bit25 uint8) uint8 {
	switch {
	case !c.AluOp1 && !c.AluOp0:
		if c.AluOp2 {
			return ALULui
		}
		return ALUAdd // loads, stores, jal
	case !c.AluOp1 && c.AluOp0:
		return ALUSub // branches; taken-ness derives from the zero result, §4.9
	default: // AluOp1 set: R-type or I-type non-load, same funct3 mapping
		switch funct3 {
		case 0x0:
			if c.AluSrc {
				// I-type addi: bits 25/30 of the word are immediate
				// bits (imm[5], imm[10]), not funct7 — always add.
				return ALUAdd
			}
			switch {
			case funct7Bit25 == 1:
				return ALUMul
			case funct7Bit30 == 1:
				return ALUSub
			default:
				return ALUAdd
			}
		case 0x1:
			return ALUSll
		case 0x2:
			return ALUSlt
		case 0x4:
			return ALUXor
		case 0x5:
			if funct7Bit30 == 1 {
				return ALUSra
			}
			return ALUSrl
		case 0x6:
			return ALUOr
		case 0x7:
			return ALUAnd
		default:
			return 0xFF // unreachable: funct3 only has 3 bits
		}
	}
}

// GenImmediate produces the properly sign-extended immediate for in's
// format (§4.2). Shift-amount I-type instructions (slli/srli/srai, funct3
// 0x1 and 0x5) use the low 5 bits of the immediate field directly, since a
// shift amount is never sign-extended.
func GenImmediate(in insts.Instruction) uint32 {
	switch in.Format {
	case insts.FormatSB:
		return insts.BranchOffset(in)
	case insts.FormatS:
		return insts.StoreOffset(in)
	case insts.FormatUJ:
		return insts.JumpOffset(in)
	case insts.FormatU:
		return insts.SignExtend(in.UImmField(), 20)
	case insts.FormatLoad:
		return insts.SignExtend(in.IImmField(), 12)
	case insts.FormatI:
		switch in.Funct3() {
		case 0x1, 0x5:
			return in.IImmField() & 0x1F
		default:
			return insts.SignExtend(in.IImmField(), 12)
		}
	default:
		return 0
	}
}
