package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
)

var _ = Describe("GenControl", func() {
	It("matches the R-type row of §4.4", func() {
		c := emu.GenControl(insts.OpcodeR)
		Expect(c).To(Equal(emu.Control{AluOp1: true, RegWrite: true}))
	})

	It("matches the load row (mem_read, mem_to_reg, reg_write, alu_src)", func() {
		c := emu.GenControl(insts.OpcodeLoad)
		Expect(c.AluSrc).To(BeTrue())
		Expect(c.MemRead).To(BeTrue())
		Expect(c.RegWrite).To(BeTrue())
		Expect(c.MemToReg).To(BeTrue())
		Expect(c.MemWrite).To(BeFalse())
	})

	It("matches the branch row (branch, alu_op0)", func() {
		c := emu.GenControl(insts.OpcodeSB)
		Expect(c.Branch).To(BeTrue())
		Expect(c.AluOp0).To(BeTrue())
		Expect(c.RegWrite).To(BeFalse())
	})

	It("zeroes every signal for an unsupported opcode", func() {
		Expect(emu.GenControl(insts.Opcode(0x7F))).To(Equal(emu.Control{}))
	})
})

var _ = Describe("GenALUControl", func() {
	It("selects ADD for R-type add (funct3=0, funct7 bits clear)", func() {
		c := emu.GenControl(insts.OpcodeR)
		Expect(emu.GenALUControl(c, 0x0, 0, 0)).To(Equal(uint8(emu.ALUAdd)))
	})

	It("selects SUB when funct7 bit 30 is set", func() {
		c := emu.GenControl(insts.OpcodeR)
		Expect(emu.GenALUControl(c, 0x0, 1, 0)).To(Equal(uint8(emu.ALUSub)))
	})

	It("selects MUL when funct7 bit 25 is set", func() {
		c := emu.GenControl(insts.OpcodeR)
		Expect(emu.GenALUControl(c, 0x0, 0, 1)).To(Equal(uint8(emu.ALUMul)))
	})

	It("selects SUB for branches regardless of funct3", func() {
		c := emu.GenControl(insts.OpcodeSB)
		Expect(emu.GenALUControl(c, 0x1, 0, 0)).To(Equal(uint8(emu.ALUSub)))
	})

	It("selects ADD for loads/stores/jal", func() {
		c := emu.GenControl(insts.OpcodeLoad)
		Expect(emu.GenALUControl(c, 0, 0, 0)).To(Equal(uint8(emu.ALUAdd)))
	})

	It("selects LUI for U-type", func() {
		c := emu.GenControl(insts.OpcodeU)
		Expect(emu.GenALUControl(c, 0, 0, 0)).To(Equal(uint8(emu.ALULui)))
	})
})

var _ = Describe("GenImmediate", func() {
	dec := insts.NewDecoder()

	It("uses the low 5 bits directly for slli (funct3=1)", func() {
		word := uint32(0x00329293) // slli x5, x5, 3
		in := dec.Decode(word)
		Expect(emu.GenImmediate(in)).To(Equal(uint32(3)))
	})

	It("sign-extends a non-shift I-type immediate", func() {
		word := uint32(0xFFF00293) // addi x5, x0, -1
		in := dec.Decode(word)
		Expect(int32(emu.GenImmediate(in))).To(Equal(int32(-1)))
	})
})
