package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
)

var _ = Describe("ExecuteALU", func() {
	DescribeTable("the defined operation codes",
		func(a, b uint32, ctrl uint8, want uint32) {
			Expect(emu.ExecuteALU(a, b, ctrl)).To(Equal(want))
		},
		Entry("AND", uint32(0xF0), uint32(0x3C), uint8(emu.ALUAnd), uint32(0x30)),
		Entry("OR", uint32(0xF0), uint32(0x0F), uint8(emu.ALUOr), uint32(0xFF)),
		Entry("ADD wraps", uint32(0xFFFFFFFF), uint32(1), uint8(emu.ALUAdd), uint32(0)),
		Entry("XOR", uint32(0xFF), uint32(0x0F), uint8(emu.ALUXor), uint32(0xF0)),
		Entry("SLL masks shift to 5 bits", uint32(1), uint32(33), uint8(emu.ALUSll), uint32(2)),
		Entry("SRL logical", uint32(0x80000000), uint32(4), uint8(emu.ALUSrl), uint32(0x08000000)),
		Entry("SUB wraps", uint32(0), uint32(1), uint8(emu.ALUSub), uint32(0xFFFFFFFF)),
		Entry("SLT signed true", uint32(0xFFFFFFFF), uint32(1), uint8(emu.ALUSlt), uint32(1)), // -1 < 1
		Entry("SLT signed false", uint32(5), uint32(1), uint8(emu.ALUSlt), uint32(0)),
		Entry("LUI shifts operand2 left 12", uint32(0), uint32(0xABCDE), uint8(emu.ALULui), uint32(0xABCDE000)),
		Entry("SRA arithmetic", uint32(0x80000000), uint32(4), uint8(emu.ALUSra), uint32(0xF8000000)),
		Entry("MUL low 32 bits", uint32(6), uint32(7), uint8(emu.ALUMul), uint32(42)),
	)

	It("returns the sentinel for an undefined code", func() {
		Expect(emu.ExecuteALU(1, 2, 0xF)).To(Equal(emu.BadALUResult))
	})

	It("is pure: equal inputs yield equal outputs (property 4)", func() {
		a, b, ctrl := uint32(17), uint32(9), uint8(emu.ALUAdd)
		first := emu.ExecuteALU(a, b, ctrl)
		for i := 0; i < 5; i++ {
			Expect(emu.ExecuteALU(a, b, ctrl)).To(Equal(first))
		}
	})
})
