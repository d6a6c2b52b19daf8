// Package emu provides functional emulation of the Z80 and 8085.
package emu

// MemorySize is the full address space of both machines.
const MemorySize = 1 << 16

// Memory is a flat byte-addressable 64 KiB space. Every address is valid;
// address arithmetic wraps modulo the space size. The zero value is a
// zero-filled memory ready for use.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read8 reads the byte at addr.
func (m *Memory) Read8(addr uint16) byte {
	return m.data[addr]
}

// Write8 writes the byte at addr.
func (m *Memory) Write8(addr uint16, value byte) {
	m.data[addr] = value
}

// Read16 reads the 16-bit word at addr: low byte at addr, high byte at
// addr+1, wrapping at the top of the space.
func (m *Memory) Read16(addr uint16) uint16 {
	return uint16(m.data[addr]) | uint16(m.data[addr+1])<<8
}

// Write16 writes the 16-bit word at addr, low byte first.
func (m *Memory) Write16(addr uint16, value uint16) {
	m.data[addr] = byte(value)
	m.data[addr+1] = byte(value >> 8)
}

// LoadProgram writes program bytes starting at origin, wrapping past the
// top of the space.
func (m *Memory) LoadProgram(origin uint16, program []byte) {
	addr := origin
	for _, b := range program {
		m.data[addr] = b
		addr++
	}
}

// ReadRange copies length bytes starting at addr, wrapping. Used by the
// inspection surface; the returned slice does not alias the memory.
func (m *Memory) ReadRange(addr uint16, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = m.data[addr]
		addr++
	}
	return out
}
