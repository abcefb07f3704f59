package emu

import "fmt"

// MemorySpace is the default size of a Memory image, matching the
// MEMORY_SPACE constant of the C reference this core was distilled from.
const MemorySpace = 1 << 20 // 1 MiB

// BadReadError/BadWriteError are reserved for the surrounding image loader
// (§7); the core itself never rejects an access — alignment is not
// enforced and out-of-range accesses are a caller bug, not a recoverable
// condition.
type BadReadError struct{ Addr uint32 }

func (e *BadReadError) Error() string { return fmt.Sprintf("bad read at 0x%08x", e.Addr) }

type BadWriteError struct{ Addr uint32 }

func (e *BadWriteError) Error() string { return fmt.Sprintf("bad write at 0x%08x", e.Addr) }

// Memory is a flat, byte-addressable, little-endian memory image (§3).
// A store/load at address a of width w touches bytes [a, a+w); neither
// alignment nor bounds are enforced beyond Go's own slice-index panic,
// matching the reference's "undefined behavior is fine" stance on OOB/
// misaligned accesses.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zero-filled image of size bytes.
func NewMemory(size int) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the capacity of the underlying image.
func (m *Memory) Size() int { return len(m.bytes) }

// Read8 reads one byte at addr.
func (m *Memory) Read8(addr uint32) uint8 {
	return m.bytes[addr]
}

// Write8 writes one byte at addr.
func (m *Memory) Write8(addr uint32, v uint8) {
	m.bytes[addr] = v
}

// Read16 reads a little-endian halfword at addr.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8
}

// Write16 writes a little-endian halfword at addr.
func (m *Memory) Write16(addr uint32, v uint16) {
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
}

// Read32 reads a little-endian word at addr.
func (m *Memory) Read32(addr uint32) uint32 {
	return uint32(m.bytes[addr]) |
		uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 |
		uint32(m.bytes[addr+3])<<24
}

// Write32 writes a little-endian word at addr (property 8's round trip).
func (m *Memory) Write32(addr uint32, v uint32) {
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
	m.bytes[addr+2] = byte(v >> 16)
	m.bytes[addr+3] = byte(v >> 24)
}

// LoadProgram copies program starting at base, growing the image if needed.
func (m *Memory) LoadProgram(base uint32, program []byte) {
	end := int(base) + len(program)
	if end > len(m.bytes) {
		grown := make([]byte, end)
		copy(grown, m.bytes)
		m.bytes = grown
	}
	copy(m.bytes[base:end], program)
}
