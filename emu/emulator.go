package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32pipe/insts"
)

// StepResult reports the outcome of one single-cycle instruction.
type StepResult struct {
	Exited   bool
	ExitCode int32
	Err      error
}

// Emulator is the non-pipelined, single-cycle RV32IM reference model: it
// decodes, runs the ALU, performs loads/stores, handles ecall, and updates
// PC all within one Step call, with no pipeline registers, hazards, or
// forwarding. It shares the decoder, RegFile, Memory, and ALU with the
// timing pipeline and serves as an architectural reference for it; no test
// in this repository runs both on one program and compares their state.
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	lsu            *LoadStoreUnit
	syscallHandler SyscallHandler

	stdout io.Writer
	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithStdout overrides the emulator's stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr overrides the emulator's stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithSyscallHandler overrides the default ecall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) { e.syscallHandler = handler }
}

// WithMaxInstructions bounds the number of instructions Run will execute
// before giving up; 0 (the default) means unbounded.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// NewEmulator builds an Emulator over a fresh RegFile and a MemorySpace-
// sized Memory, applying opts afterward (options may replace stdout/stderr
// before the default syscall handler is constructed from them).
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}
	memory := NewMemory(MemorySpace)

	e := &Emulator{
		regFile: regFile,
		memory:  memory,
		decoder: insts.NewDecoder(),
		lsu:     NewLoadStoreUnit(memory),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(regFile, memory, e.stdout, e.stderr)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile { return e.regFile }

// Memory returns the emulator's memory image.
func (e *Emulator) Memory() *Memory { return e.memory }

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// LoadProgram copies program into memory at entry and sets PC to entry.
func (e *Emulator) LoadProgram(entry uint32, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.regFile.PC = entry
}

// Step executes exactly one instruction to completion.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: fmt.Errorf("max instructions reached")}
	}

	word := e.memory.Read32(e.regFile.PC)
	in := e.decoder.Decode(word)
	result := e.execute(in)
	e.instructionCount++
	return result
}

// Run steps until the simulation exits or an error occurs, returning the
// exit code (-1 on error).
func (e *Emulator) Run() int32 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			fmt.Fprintf(e.stderr, "emulation error: %v\n", result.Err)
			return -1
		}
	}
}

func (e *Emulator) execute(in insts.Instruction) StepResult {
	if in.Format == insts.FormatInvalid {
		return StepResult{Err: &insts.InvalidInstructionError{Word: in.Word}}
	}

	if in.Format == insts.FormatEcall {
		res := e.syscallHandler.Handle()
		e.regFile.PC += 4
		if res.Exited {
			return StepResult{Exited: true, ExitCode: res.ExitCode}
		}
		return StepResult{}
	}

	ctrl := GenControl(in.Opcode)
	aluControl := GenALUControl(ctrl, in.Funct3(), in.Funct7Bit30(), in.Funct7Bit25())
	imm := GenImmediate(in)

	op1 := e.regFile.ReadReg(in.Rs1())
	op2 := e.regFile.ReadReg(in.Rs2())
	if ctrl.AluSrc {
		op2 = imm
	}
	aluResult := ExecuteALU(op1, op2, aluControl)

	nextPC := e.regFile.PC + 4

	if ctrl.MemRead {
		e.regFile.WriteReg(in.Rd(), e.lsu.Load(in.Funct3(), aluResult))
	} else if ctrl.MemWrite {
		storeValue := e.regFile.ReadReg(in.Rs2())
		e.lsu.Store(in.Funct3(), aluResult, storeValue)
	} else if ctrl.Branch {
		taken := false
		switch {
		case in.Opcode == insts.OpcodeUJ:
			taken = true
		case in.Funct3() == 0x0:
			taken = aluResult == 0
		default:
			taken = aluResult != 0
		}
		if ctrl.RegWrite { // jal: link register gets return address
			e.regFile.WriteReg(in.Rd(), nextPC)
		}
		if taken {
			nextPC = e.regFile.PC + imm
		}
	} else if ctrl.RegWrite {
		e.regFile.WriteReg(in.Rd(), aluResult)
	}

	e.regFile.PC = nextPC
	return StepResult{}
}
