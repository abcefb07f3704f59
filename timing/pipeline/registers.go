// Package pipeline implements the 5-stage RV32IM pipeline: Fetch, Decode,
// Execute, Mem, Writeback, with hazard detection, forwarding, branch flush,
// and an optional data cache at the Mem stage.
package pipeline

import (
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
)

// IFIDData is the payload carried across the IF/ID boundary.
type IFIDData struct {
	Instr     insts.Instruction
	InstrAddr uint32
}

// IFIDRegister is the double-buffered IF/ID pipeline register: In holds
// what Fetch produced this cycle, Out is what Decode consumes this cycle.
// The driver promotes In -> Out atomically at cycle end (§3, §5).
type IFIDRegister struct {
	In, Out IFIDData
}

// Promote copies In into Out, the "in -> out" step of §5.
func (r *IFIDRegister) Promote() { r.Out = r.In }

// Bubble squashes Out in place, the post-promote flush step of §4.9:
// branch resolution happens after this cycle's promote, so the registers
// being flushed are the ones the next cycle's consumers will read.
// InstrAddr is preserved for traceability.
func (r *IFIDRegister) Bubble() {
	r.Out = IFIDData{Instr: insts.Bubble(), InstrAddr: r.Out.InstrAddr}
}

// IDEXData is the payload carried across the ID/EX boundary.
type IDEXData struct {
	Instr       insts.Instruction
	InstrAddr   uint32
	ReadData1   uint32
	ReadData2   uint32
	ImmVal      uint32
	Funct3      uint8
	Funct7Bit30 uint8
	Funct7Bit25 uint8
	Rd, Rs1, Rs2 uint8
	Control     emu.Control
}

// IDEXRegister is the double-buffered ID/EX pipeline register.
type IDEXRegister struct {
	In, Out IDEXData
}

// Promote copies In into Out.
func (r *IDEXRegister) Promote() { r.Out = r.In }

// Bubble squashes Out in place (§4.9 flush); see IFIDRegister.Bubble.
func (r *IDEXRegister) Bubble() {
	r.Out = IDEXData{Instr: insts.Bubble(), InstrAddr: r.Out.InstrAddr}
}

// EXMEMData is the payload carried across the EX/MEM boundary.
type EXMEMData struct {
	Instr      insts.Instruction
	InstrAddr  uint32
	BranchAddr uint32
	ALUResult  uint32
	StoreValue uint32
	Funct3     uint8
	Rd         uint8
	Control    emu.Control
}

// EXMEMRegister is the double-buffered EX/MEM pipeline register.
type EXMEMRegister struct {
	In, Out EXMEMData
}

// Promote copies In into Out.
func (r *EXMEMRegister) Promote() { r.Out = r.In }

// Bubble squashes Out in place (§4.9 flush); see IFIDRegister.Bubble.
func (r *EXMEMRegister) Bubble() {
	r.Out = EXMEMData{Instr: insts.Bubble(), InstrAddr: r.Out.InstrAddr}
}

// MEMWBData is the payload carried across the MEM/WB boundary.
type MEMWBData struct {
	Instr     insts.Instruction
	InstrAddr uint32
	ALUResult uint32
	ReadData  uint32
	Rd        uint8
	Control   emu.Control
}

// MEMWBRegister is the double-buffered MEM/WB pipeline register.
type MEMWBRegister struct {
	In, Out MEMWBData
}

// Promote copies In into Out.
func (r *MEMWBRegister) Promote() { r.Out = r.In }
