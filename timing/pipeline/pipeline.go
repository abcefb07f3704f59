package pipeline

import (
	"fmt"
	"io"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/cache"
)

// DefaultMemLatency is charged on every memory access when no data cache is
// attached (§4.6 Mem).
const DefaultMemLatency = 4

// Pipeline drives the 5-stage RV32IM core: it owns PC and the four
// double-buffered stage-boundary registers, and evaluates the stage
// functions in the per-cycle order required for same-cycle register-file
// forwarding (§5): Writeback, Mem, Forward, Execute, Hazard-detect,
// Decode, Fetch — the reverse of the conceptual IF->WB dataflow, so that
// Decode's register read observes this cycle's Writeback.
type Pipeline struct {
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memStage       *MemStage
	writebackStage *WritebackStage

	hazardUnit     *HazardUnit
	forwardingUnit *ForwardingUnit

	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	regFile *emu.RegFile
	memory  *emu.Memory
	pc      uint32

	syscallHandler emu.SyscallHandler
	memLatency     int
	stdout, stderr io.Writer

	halted   bool
	exitCode int32

	cycleCount        uint64
	instructionCount  uint64
	stallCount        uint64
	branchFlushCount  uint64
	exExForwardCount  uint64
	memExForwardCount uint64
	memAccessCount    uint64
	cacheHitCount     uint64
	cacheMissCount    uint64
}

// PipelineOption configures a Pipeline at construction time.
type PipelineOption func(*Pipeline)

// WithSyscallHandler overrides the default DefaultSyscallHandler.
func WithSyscallHandler(h emu.SyscallHandler) PipelineOption {
	return func(p *Pipeline) { p.syscallHandler = h }
}

// WithDataCache attaches a data cache at the Mem stage (§4.10). Without
// this option the pipeline charges a fixed memLatency per access instead.
func WithDataCache(c *cache.Cache) PipelineOption {
	return func(p *Pipeline) { p.memStage = NewMemStage(p.memory, c) }
}

// WithMemLatency overrides DefaultMemLatency, the fixed per-access cost
// charged when no data cache is attached.
func WithMemLatency(cycles int) PipelineOption {
	return func(p *Pipeline) { p.memLatency = cycles }
}

// WithStdout/WithStderr route the syscall handler's and the invalid-
// instruction trap's output.
func WithStdout(w io.Writer) PipelineOption { return func(p *Pipeline) { p.stdout = w } }
func WithStderr(w io.Writer) PipelineOption { return func(p *Pipeline) { p.stderr = w } }

// NewPipeline wires up the 5 stages around regFile and memory.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetchStage:     NewFetchStage(memory),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memStage:       NewMemStage(memory, nil),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		forwardingUnit: NewForwardingUnit(),
		regFile:        regFile,
		memory:         memory,
		memLatency:     DefaultMemLatency,
		stdout:         io.Discard,
		stderr:         io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.syscallHandler == nil {
		p.syscallHandler = emu.NewDefaultSyscallHandler(regFile, memory, p.stdout, p.stderr)
	}
	return p
}

// Bootstrap resets the pipeline registers to bubbles and sets the initial
// PC, per §6's bootstrap(initial_pc).
func (p *Pipeline) Bootstrap(initialPC uint32) {
	p.ifid = IFIDRegister{}
	p.idex = IDEXRegister{}
	p.exmem = EXMEMRegister{}
	p.memwb = MEMWBRegister{}
	p.ifid.Out.Instr = insts.Bubble()
	p.idex.Out.Instr = insts.Bubble()
	p.exmem.Out.Instr = insts.Bubble()
	p.memwb.Out.Instr = insts.Bubble()
	p.pc = initialPC
	p.regFile.PC = initialPC
	p.halted = false
	p.exitCode = 0
}

// PC returns the address Fetch will read next cycle.
func (p *Pipeline) PC() uint32 { return p.pc }

// Halted reports whether the ecall-exit condition (or a fatal trap) has
// been reached.
func (p *Pipeline) Halted() bool { return p.halted }

// ExitCode returns the process exit code once Halted is true.
func (p *Pipeline) ExitCode() int32 { return p.exitCode }

// Stats is the observable counter bundle of §3/§6.
type Stats struct {
	Cycles         uint64
	Instructions   uint64
	Stalls         uint64
	BranchFlushes  uint64
	ExExForwards   uint64
	MemExForwards  uint64
	MemAccesses    uint64
	CacheHits      uint64
	CacheMisses    uint64
	CPI            float64
}

// Stats snapshots the simulator counters.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Cycles:        p.cycleCount,
		Instructions:  p.instructionCount,
		Stalls:        p.stallCount,
		BranchFlushes: p.branchFlushCount,
		ExExForwards:  p.exExForwardCount,
		MemExForwards: p.memExForwardCount,
		MemAccesses:   p.memAccessCount,
		CacheHits:     p.cacheHitCount,
		CacheMisses:   p.cacheMissCount,
	}
	if s.Instructions > 0 {
		s.CPI = float64(s.Cycles) / float64(s.Instructions)
	}
	return s
}

// Step advances the pipeline by one clock edge (§5), returning whether the
// ecall-exit condition (or a fatal trap) was reached this cycle.
func (p *Pipeline) Step() bool {
	if p.halted {
		return true
	}
	p.cycleCount++

	p.doWriteback()
	pcSrc, pcSrc1 := p.doMem()
	p.doExecute()

	ifidOut := p.ifid.Out.Instr
	loadUseHazard := p.hazardUnit.Detect(p.idex.Out, ifidOut.Rs1(), ifidOut.Rs2())
	p.doDecode(loadUseHazard)
	p.doFetch()

	if loadUseHazard {
		p.ifid.In = p.ifid.Out
		p.stallCount++
	}

	p.ifid.Promote()
	p.idex.Promote()
	p.exmem.Promote()
	p.memwb.Promote()

	switch {
	case pcSrc:
		p.ifid.Bubble()
		p.idex.Bubble()
		p.exmem.Bubble()
		p.branchFlushCount++
		p.pc = pcSrc1
	case loadUseHazard:
		// pc_write held: Fetch re-uses this cycle's PC again next cycle.
	default:
		p.pc += 4
	}

	return p.halted
}

func (p *Pipeline) doFetch() {
	word := p.fetchStage.Fetch(p.pc)
	if word.Instr.Format == insts.FormatInvalid {
		p.trapInvalid(word.Instr.Word)
	}
	p.ifid.In = word
}

func (p *Pipeline) doDecode(loadUseHazard bool) {
	p.idex.In = p.decodeStage.Decode(p.ifid.Out, loadUseHazard)
}

func (p *Pipeline) doExecute() {
	idex := p.idex.Out
	forwardA, forwardB, ev := p.forwardingUnit.Resolve(idex, p.exmem.Out, p.memwb.Out)
	if ev.AFromEXMEM {
		p.exExForwardCount++
	}
	if ev.BFromEXMEM {
		p.exExForwardCount++
	}
	if ev.AFromMEMWB {
		p.memExForwardCount++
	}
	if ev.BFromMEMWB {
		p.memExForwardCount++
	}
	w := Wires{
		ForwardA:       forwardA,
		ForwardB:       forwardB,
		EXMEMALUResult: p.exmem.Out.ALUResult,
		MEMWBWriteData: p.memwbWriteData(),
	}
	p.exmem.In = p.executeStage.Execute(idex, forwardA, forwardB, w)
}

func (p *Pipeline) memwbWriteData() uint32 {
	memwb := p.memwb.Out
	if memwb.Control.MemToReg {
		return memwb.ReadData
	}
	return memwb.ALUResult
}

func (p *Pipeline) doMem() (pcSrc bool, pcSrc1 uint32) {
	exmem := p.exmem.Out
	pcSrc1 = exmem.BranchAddr
	pcSrc = genBranch(exmem)

	result := p.memStage.Access(exmem)
	p.memwb.In = result.MEMWB

	if exmem.Control.MemRead || exmem.Control.MemWrite {
		p.memAccessCount++
		if result.CacheCharged {
			p.cycleCount += uint64(result.CacheResult.Latency - 1)
			if result.CacheResult.Status == cache.Hit {
				p.cacheHitCount++
			} else {
				p.cacheMissCount++
			}
		} else {
			p.cycleCount += uint64(p.memLatency - 1)
		}
	}
	return pcSrc, pcSrc1
}

func (p *Pipeline) doWriteback() {
	memwb := p.memwb.Out
	if memwb.Instr.Opcode == insts.OpcodeEcall {
		res := p.syscallHandler.Handle()
		if res.Exited {
			p.halted = true
			p.exitCode = res.ExitCode
		}
		p.instructionCount++
		return
	}
	p.writebackStage.Writeback(memwb)
	if memwb.Control != (emu.Control{}) {
		p.instructionCount++
	}
}

// genBranch resolves branch-taken from the EX/MEM register (§4.9).
func genBranch(exmem EXMEMData) bool {
	if !exmem.Control.Branch {
		return false
	}
	if exmem.Instr.Opcode == insts.OpcodeUJ {
		return true
	}
	if exmem.Funct3 == 0 {
		return exmem.ALUResult == 0
	}
	return exmem.ALUResult != 0
}

func (p *Pipeline) trapInvalid(word uint32) {
	fmt.Fprintf(p.stderr, "invalid instruction word 0x%08x\n", word)
	p.halted = true
	p.exitCode = -1
}

// Run steps the pipeline until it halts, returning the exit code.
func (p *Pipeline) Run() int32 {
	for !p.halted {
		p.Step()
	}
	return p.exitCode
}

// RunCycles steps the pipeline at most n times, returning true if it is
// still running (false if it halted before n cycles elapsed).
func (p *Pipeline) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !p.halted; i++ {
		p.Step()
	}
	return !p.halted
}
