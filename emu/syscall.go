package emu

import (
	"fmt"
	"io"
)

// IllegalEcallError reports an a0 value outside the four supported ecall
// numbers (§6, §7).
type IllegalEcallError struct{ Number uint32 }

func (e *IllegalEcallError) Error() string {
	return fmt.Sprintf("illegal ecall number %d", e.Number)
}

// SyscallResult reports whether an ecall terminated the simulation.
type SyscallResult struct {
	Exited   bool
	ExitCode int32
}

// SyscallHandler executes the ecall protocol given the current register
// file state. Kept as an interface so tests can substitute a handler that
// captures output instead of writing to a real stream.
type SyscallHandler interface {
	Handle() SyscallResult
}

// DefaultSyscallHandler implements the four-case ecall protocol of §6,
// dispatching on R[10] (a0).
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	stdout  io.Writer
	stderr  io.Writer
}

// NewDefaultSyscallHandler binds a handler to regFile/memory, writing
// output to stdout/stderr.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{regFile: regFile, memory: memory, stdout: stdout, stderr: stderr}
}

// Handle dispatches on a0 = R[10] (§6).
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	a0 := h.regFile.ReadReg(10)
	a1 := h.regFile.ReadReg(11)

	switch a0 {
	case 1:
		fmt.Fprintf(h.stdout, "%d", int32(a1))
		return SyscallResult{}
	case 4:
		h.printString(a1)
		return SyscallResult{}
	case 10:
		fmt.Fprint(h.stdout, "exiting the simulator\n")
		return SyscallResult{Exited: true, ExitCode: 0}
	case 11:
		fmt.Fprintf(h.stdout, "%c", rune(a1))
		return SyscallResult{}
	default:
		fmt.Fprintf(h.stderr, "Illegal ecall number %d\n", a0)
		return SyscallResult{Exited: true, ExitCode: -1}
	}
}

// printString writes the NUL-terminated string starting at addr, stopping
// at the edge of the memory image if no terminator is found first.
func (h *DefaultSyscallHandler) printString(addr uint32) {
	for i := addr; int(i) < h.memory.Size(); i++ {
		b := h.memory.Read8(i)
		if b == 0 {
			return
		}
		fmt.Fprintf(h.stdout, "%c", rune(b))
	}
}
