package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

func itypeWord(imm, rs1, funct3, rd, opcode uint32) uint32 {
	return (imm&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

var _ = Describe("FetchStage", func() {
	It("reads and decodes the word at pc", func() {
		mem := emu.NewMemory(64)
		mem.Write32(8, itypeWord(7, 0, 0, 5, 0x13)) // addi x5,x0,7
		fs := pipeline.NewFetchStage(mem)
		out := fs.Fetch(8)
		Expect(out.InstrAddr).To(Equal(uint32(8)))
		Expect(out.Instr.Opcode).To(Equal(insts.OpcodeI))
	})
})

var _ = Describe("DecodeStage", func() {
	It("reads source registers and computes the immediate", func() {
		rf := &emu.RegFile{}
		rf.WriteReg(1, 100)
		ds := pipeline.NewDecodeStage(rf)
		ifid := pipeline.IFIDData{Instr: insts.NewDecoder().Decode(itypeWord(5, 1, 0, 2, 0x13))}
		out := ds.Decode(ifid, false)
		Expect(out.ReadData1).To(Equal(uint32(100)))
		Expect(out.ImmVal).To(Equal(uint32(5)))
		Expect(out.Control.RegWrite).To(BeTrue())
	})

	It("zeroes the control vector on a flush, keeping the instruction for tracing", func() {
		rf := &emu.RegFile{}
		ds := pipeline.NewDecodeStage(rf)
		ifid := pipeline.IFIDData{Instr: insts.NewDecoder().Decode(itypeWord(5, 1, 0, 2, 0x13)), InstrAddr: 40}
		out := ds.Decode(ifid, true)
		Expect(out.Control).To(Equal(emu.Control{}))
		Expect(out.InstrAddr).To(Equal(uint32(40)))
	})
})

var _ = Describe("ExecuteStage", func() {
	It("adds two registers for an R-type add", func() {
		idex := pipeline.IDEXData{
			ReadData1: 10, ReadData2: 32,
			Control: emu.Control{AluOp1: true},
		}
		es := pipeline.NewExecuteStage()
		out := es.Execute(idex, pipeline.ForwardNone, pipeline.ForwardNone, pipeline.Wires{})
		Expect(out.ALUResult).To(Equal(uint32(42)))
	})

	It("forwards operand1 from EX/MEM when forwardA selects it", func() {
		idex := pipeline.IDEXData{ReadData1: 1, ReadData2: 5, Control: emu.Control{AluOp1: true}}
		w := pipeline.Wires{EXMEMALUResult: 99}
		es := pipeline.NewExecuteStage()
		out := es.Execute(idex, pipeline.ForwardEXMEM, pipeline.ForwardNone, w)
		Expect(out.ALUResult).To(Equal(uint32(104)))
	})

	It("uses the immediate instead of operand2 when AluSrc is set", func() {
		idex := pipeline.IDEXData{ReadData1: 10, ImmVal: 5, Control: emu.Control{AluOp1: true, AluOp0: true, AluSrc: true}}
		es := pipeline.NewExecuteStage()
		out := es.Execute(idex, pipeline.ForwardNone, pipeline.ForwardNone, pipeline.Wires{})
		Expect(out.ALUResult).To(Equal(uint32(15)))
	})
})

var _ = Describe("MemStage", func() {
	It("loads a word at the ALU result address with no cache attached", func() {
		mem := emu.NewMemory(64)
		mem.Write32(16, 0xCAFEBABE)
		ms := pipeline.NewMemStage(mem, nil)
		exmem := pipeline.EXMEMData{ALUResult: 16, Funct3: emu.Funct3Word, Control: emu.Control{MemRead: true}}
		out := ms.Access(exmem)
		Expect(out.MEMWB.ReadData).To(Equal(uint32(0xCAFEBABE)))
		Expect(out.CacheCharged).To(BeFalse())
	})

	It("stores the operand2 value at the ALU result address", func() {
		mem := emu.NewMemory(64)
		ms := pipeline.NewMemStage(mem, nil)
		exmem := pipeline.EXMEMData{ALUResult: 20, StoreValue: 7, Control: emu.Control{MemWrite: true}}
		ms.Access(exmem)
		Expect(mem.Read32(20)).To(Equal(uint32(7)))
	})
})

var _ = Describe("WritebackStage", func() {
	It("writes the ALU result to rd when mem_to_reg is false", func() {
		rf := &emu.RegFile{}
		ws := pipeline.NewWritebackStage(rf)
		ws.Writeback(pipeline.MEMWBData{Rd: 3, ALUResult: 9, Control: emu.Control{RegWrite: true}})
		Expect(rf.ReadReg(3)).To(Equal(uint32(9)))
	})

	It("writes the loaded memory value to rd when mem_to_reg is true", func() {
		rf := &emu.RegFile{}
		ws := pipeline.NewWritebackStage(rf)
		ws.Writeback(pipeline.MEMWBData{Rd: 3, ALUResult: 9, ReadData: 77, Control: emu.Control{RegWrite: true, MemToReg: true}})
		Expect(rf.ReadReg(3)).To(Equal(uint32(77)))
	})

	It("never writes to x0", func() {
		rf := &emu.RegFile{}
		ws := pipeline.NewWritebackStage(rf)
		ws.Writeback(pipeline.MEMWBData{Rd: 0, ALUResult: 9, Control: emu.Control{RegWrite: true}})
		Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
	})
})
