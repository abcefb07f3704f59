package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
)

func rtype(funct7 uint32, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func itype(imm uint32, rs1, funct3, rd, opcode uint32) uint32 {
	return (imm&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func addi(rd, rs1 uint8, imm int32) uint32 {
	return itype(uint32(imm), uint32(rs1), 0, uint32(rd), 0x13)
}

func add(rd, rs1, rs2 uint8) uint32 {
	return rtype(0, uint32(rs2), uint32(rs1), 0, uint32(rd), 0x33)
}

func ecall() uint32 { return 0x73 }

var _ = Describe("Emulator (single-cycle reference model)", func() {
	var (
		out *bytes.Buffer
		e   *emu.Emulator
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		e = emu.NewEmulator(emu.WithStdout(out), emu.WithStderr(out))
	})

	It("runs S1: addi/addi/add/ecall(exit) -> R[7]==42", func() {
		addi10 := itype(10, 0, 0, uint32(10), 0x13) // addi x10,x0,10 -> a0=10
		program := []uint32{
			addi(5, 0, 7),
			addi(6, 0, 35),
			add(7, 5, 6),
			addi10,
			ecall(),
		}
		loadWords(e.Memory(), 0, program)
		e.RegFile().PC = 0
		code := e.Run()
		Expect(code).To(Equal(int32(0)))
		Expect(e.RegFile().ReadReg(7)).To(Equal(uint32(42)))
	})

	It("runs S5: jal x1,+8 skips the overwrite -> R[3]==7, R[1]==4", func() {
		// jal x1, +8: imm10_1 = (8>>1)&0x3FF = 4
		jalWord := uint32(4)<<21 | uint32(1)<<7 | 0x6F
		program := []uint32{
			jalWord,
			addi(3, 0, 99),
			addi(3, 0, 7),
			itype(10, 0, 0, 10, 0x13),
			ecall(),
		}
		loadWords(e.Memory(), 0, program)
		e.RegFile().PC = 0
		e.Run()
		Expect(e.RegFile().ReadReg(3)).To(Equal(uint32(7)))
		Expect(e.RegFile().ReadReg(1)).To(Equal(uint32(4)))
	})
})

func loadWords(mem *emu.Memory, base uint32, words []uint32) {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		buf[i*4] = byte(w)
		buf[i*4+1] = byte(w >> 8)
		buf[i*4+2] = byte(w >> 16)
		buf[i*4+3] = byte(w >> 24)
	}
	mem.LoadProgram(base, buf)
}
