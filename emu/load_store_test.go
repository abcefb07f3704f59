package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		mem *emu.Memory
		lsu *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		mem = emu.NewMemory(1024)
		lsu = emu.NewLoadStoreUnit(mem)
	})

	It("round-trips a word", func() {
		lsu.Store(emu.Funct3Word, 100, 0xCAFEF00D)
		Expect(lsu.Load(emu.Funct3Word, 100)).To(Equal(uint32(0xCAFEF00D)))
	})

	It("sign-extends a negative byte on load", func() {
		lsu.Store(emu.Funct3Byte, 4, 0xFFFFFFFF&0xFF)
		Expect(lsu.Load(emu.Funct3Byte, 4)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("zero-fills above a positive byte on load", func() {
		lsu.Store(emu.Funct3Byte, 4, 0x7F)
		Expect(lsu.Load(emu.Funct3Byte, 4)).To(Equal(uint32(0x7F)))
	})

	It("sign-extends a negative halfword on load", func() {
		lsu.Store(emu.Funct3Half, 8, 0x8000)
		Expect(lsu.Load(emu.Funct3Half, 8)).To(Equal(uint32(0xFFFF8000)))
	})

	It("truncates a store to the requested width, leaving adjacent bytes alone", func() {
		lsu.Store(emu.Funct3Word, 0, 0xAABBCCDD)
		lsu.Store(emu.Funct3Byte, 0, 0x11)
		Expect(lsu.Load(emu.Funct3Word, 0)).To(Equal(uint32(0xAABBCC11)))
	})
})
