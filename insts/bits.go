package insts

// SignExtend replicates bit n-1 of the low-n-bit field into bits n..31,
// widening field to a full 32-bit two's-complement value (§4.2, property 2).
// n must be in [1, 32]; n==32 returns field unchanged.
func SignExtend(field uint32, n uint) uint32 {
	if n >= 32 {
		return field
	}
	shift := 32 - n
	return uint32(int32(field<<shift) >> shift)
}

// BranchOffset reassembles the SB-type immediate {imm12|imm11|imm10:5|imm4:1|0}
// from its scattered halves and sign-extends the 13-bit result (§4.2).
func BranchOffset(in Instruction) uint32 {
	imm11, imm4_1, imm10_5, imm12 := in.SBImmField()
	offset := (imm12 << 12) | (imm11 << 11) | (imm10_5 << 5) | (imm4_1 << 1)
	return SignExtend(offset, 13)
}

// JumpOffset reassembles the UJ-type immediate {imm20|imm19:12|imm11|imm10:1|0}
// and sign-extends the 21-bit result (§4.2).
func JumpOffset(in Instruction) uint32 {
	imm19_12, imm11, imm10_1, imm20 := in.UJImmField()
	offset := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
	return SignExtend(offset, 21)
}

// StoreOffset combines the S-type immediate halves imm[11:5]<<5 | imm[4:0]
// and sign-extends the 12-bit result (§4.2).
func StoreOffset(in Instruction) uint32 {
	imm4_0, imm11_5 := in.SImmField()
	imm := (imm11_5 << 5) | imm4_0
	return SignExtend(imm, 12)
}
