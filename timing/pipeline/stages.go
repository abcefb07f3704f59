package pipeline

import (
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/cache"
)

// FetchStage reads one instruction word per cycle from the memory image
// (§4.6 Fetch). It holds no PC of its own — the driver owns PC and passes
// it in, since PC selection (stall/flush/fall-through) is the driver's job.
type FetchStage struct {
	memory  *emu.Memory
	decoder *insts.Decoder
}

// NewFetchStage binds a FetchStage to memory.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory, decoder: insts.NewDecoder()}
}

// Fetch reads and decodes the word at pc, producing the IF/ID in-side.
func (s *FetchStage) Fetch(pc uint32) IFIDData {
	word := s.memory.Read32(pc)
	return IFIDData{Instr: s.decoder.Decode(word), InstrAddr: pc}
}

// DecodeStage generates control signals, reads the register file, and
// computes the immediate for the instruction in IF/ID (§4.6 Decode).
type DecodeStage struct {
	regFile *emu.RegFile
}

// NewDecodeStage binds a DecodeStage to the register file.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{regFile: regFile}
}

// Decode consumes ifid (the IF/ID out-side) and produces the ID/EX in-side.
// If flushControl is set (a load-use stall detected this cycle), the
// control vector is zeroed so ID/EX carries a bubble while the instruction
// and address ride along for traceability only.
func (s *DecodeStage) Decode(ifid IFIDData, flushControl bool) IDEXData {
	in := ifid.Instr
	control := emu.GenControl(in.Opcode)
	if flushControl {
		control = emu.Control{}
	}

	return IDEXData{
		Instr:       in,
		InstrAddr:   ifid.InstrAddr,
		ReadData1:   s.regFile.ReadReg(in.Rs1()),
		ReadData2:   s.regFile.ReadReg(in.Rs2()),
		ImmVal:      emu.GenImmediate(in),
		Funct3:      in.Funct3(),
		Funct7Bit30: in.Funct7Bit30(),
		Funct7Bit25: in.Funct7Bit25(),
		Rd:          in.Rd(),
		Rs1:         in.Rs1(),
		Rs2:         in.Rs2(),
		Control:     control,
	}
}

// ExecuteStage runs the ALU and computes the branch target address for the
// instruction in ID/EX (§4.6 Execute).
type ExecuteStage struct{}

// NewExecuteStage returns a ready-to-use ExecuteStage.
func NewExecuteStage() *ExecuteStage { return &ExecuteStage{} }

// Execute consumes idex (the ID/EX out-side) plus this cycle's forwarding
// decisions and latched wire values, and produces the EX/MEM in-side. It
// also returns the ALU result so the driver can publish it on the wires
// for next cycle's forwarding.
func (s *ExecuteStage) Execute(idex IDEXData, forwardA, forwardB ForwardSource, w Wires) EXMEMData {
	operand1 := s.selectForward(forwardA, idex.ReadData1, w)
	operand2Pre := s.selectForward(forwardB, idex.ReadData2, w)

	aluOperand2 := operand2Pre
	if idex.Control.AluSrc {
		aluOperand2 = idex.ImmVal
	}

	aluControl := emu.GenALUControl(idex.Control, idex.Funct3, idex.Funct7Bit30, idex.Funct7Bit25)
	aluResult := emu.ExecuteALU(operand1, aluOperand2, aluControl)
	branchAddr := idex.InstrAddr + idex.ImmVal

	// jal's link register gets the return address, not the ALU's
	// instr_addr+jump_offset (which would duplicate branch_addr).
	if idex.Instr.Opcode == insts.OpcodeUJ {
		aluResult = idex.InstrAddr + 4
	}

	return EXMEMData{
		Instr:      idex.Instr,
		InstrAddr:  idex.InstrAddr,
		BranchAddr: branchAddr,
		ALUResult:  aluResult,
		StoreValue: operand2Pre,
		Funct3:     idex.Funct3,
		Rd:         idex.Rd,
		Control:    idex.Control,
	}
}

func (s *ExecuteStage) selectForward(src ForwardSource, original uint32, w Wires) uint32 {
	switch src {
	case ForwardEXMEM:
		return w.EXMEMALUResult
	case ForwardMEMWB:
		return w.MEMWBWriteData
	default:
		return original
	}
}

// MemStage performs the load/store and, when a cache is attached, charges
// its latency (§4.6 Mem, §4.10).
type MemStage struct {
	lsu   *emu.LoadStoreUnit
	cache *cache.Cache // nil disables the cache (§6.2)
}

// NewMemStage binds a MemStage to memory, optionally with a data cache.
func NewMemStage(memory *emu.Memory, dataCache *cache.Cache) *MemStage {
	return &MemStage{lsu: emu.NewLoadStoreUnit(memory), cache: dataCache}
}

// MemResult carries both the EX/MEM-derived MEM/WB in-side and the cache
// outcome (if a cache is attached) so the driver can fold its latency into
// the cycle budget.
type MemResult struct {
	MEMWB        MEMWBData
	CacheResult  cache.Result
	CacheCharged bool
}

// Access consumes exmem (the EX/MEM out-side) and performs at most one
// memory operation, producing the MEM/WB in-side.
func (s *MemStage) Access(exmem EXMEMData) MemResult {
	var readData uint32
	result := MemResult{}

	isAccess := exmem.Control.MemRead || exmem.Control.MemWrite
	switch {
	case exmem.Control.MemRead:
		readData = s.lsu.Load(exmem.Funct3, exmem.ALUResult)
	case exmem.Control.MemWrite:
		s.lsu.Store(exmem.Funct3, exmem.ALUResult, exmem.StoreValue)
	}
	if isAccess && s.cache != nil {
		result.CacheResult = s.cache.Operate(exmem.ALUResult)
		result.CacheCharged = true
	}

	result.MEMWB = MEMWBData{
		Instr:     exmem.Instr,
		InstrAddr: exmem.InstrAddr,
		ALUResult: exmem.ALUResult,
		ReadData:  readData,
		Rd:        exmem.Rd,
		Control:   exmem.Control,
	}
	return result
}

// WritebackStage commits the instruction in MEM/WB to the register file
// (§4.6 Writeback).
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage binds a WritebackStage to the register file.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback writes memwb's result to R[rd] when reg_write is set and rd!=0.
func (s *WritebackStage) Writeback(memwb MEMWBData) {
	if !memwb.Control.RegWrite || memwb.Rd == 0 {
		return
	}
	value := memwb.ALUResult
	if memwb.Control.MemToReg {
		value = memwb.ReadData
	}
	s.regFile.WriteReg(memwb.Rd, value)
}
