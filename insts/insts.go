// Package insts provides RV32IM instruction decoding.
//
// It turns a raw 32-bit instruction word into a tagged Instruction record
// carrying the format-specific fields (R, I, S, SB, U, UJ) needed by the
// control/ALU-control/immediate generators and by the pipeline stages. The
// decoder only splits bits; it does not validate funct3/funct7 combinations.
//
// Usage:
//
//	dec := insts.NewDecoder()
//	in := dec.Decode(0x00b50533) // add x10, x10, x11
//	fmt.Printf("op=%v rd=%d rs1=%d rs2=%d\n", in.Opcode, in.Rd(), in.Rs1(), in.Rs2())
package insts
