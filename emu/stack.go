package emu

// The stack grows toward lower addresses. A push decrements SP and
// writes the high byte, then decrements and writes the low byte, so SP
// always points at the most recently pushed byte. No bounds are checked:
// wrapping past 0x0000 or 0xFFFF follows the memory's own wrap rule.

func (e *Emulator) push16(value uint16) {
	e.regFile.SP--
	e.memory.Write8(e.regFile.SP, byte(value>>8))
	e.regFile.SP--
	e.memory.Write8(e.regFile.SP, byte(value))
}

func (e *Emulator) pop16() uint16 {
	lo := e.memory.Read8(e.regFile.SP)
	e.regFile.SP++
	hi := e.memory.Read8(e.regFile.SP)
	e.regFile.SP++
	return uint16(hi)<<8 | uint16(lo)
}
