package emu

import "github.com/sarchlab/micro8/insts"

// Block transfers copy (HL) to (DE), step both pairs and decrement the
// BC counter. The repeat forms run the whole loop inside one dispatcher
// step rather than re-entering per byte.

// blockStep performs one transfer step. delta is +1 for the increment
// forms, -1 for the decrement forms.
func (e *Emulator) blockStep(delta uint16) {
	rf := e.regFile
	hl := rf.Read16(insts.PairHL)
	de := rf.Read16(insts.PairDE)
	e.memory.Write8(de, e.memory.Read8(hl))
	rf.Write16(insts.PairHL, hl+delta)
	rf.Write16(insts.PairDE, de+delta)
	bc := rf.Read16(insts.PairBC) - 1
	rf.Write16(insts.PairBC, bc)

	// H and N clear; P reports whether the counter is still running.
	// Sign, Zero and Carry pass through.
	rf.Flags.H = false
	rf.Flags.N = false
	rf.Flags.P = bc != 0
}

// blockRepeat loops blockStep until BC reaches zero. A counter that is
// already zero performs no iterations; it does not wrap to 65536.
func (e *Emulator) blockRepeat(delta uint16) {
	for e.regFile.Read16(insts.PairBC) != 0 {
		e.blockStep(delta)
	}
}
