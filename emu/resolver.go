package emu

import "github.com/sarchlab/micro8/insts"

// resolver maps operand descriptors to concrete read/write locations
// against the register file and memory.
type resolver struct {
	regFile *RegFile
	memory  *Memory
}

func newResolver(regFile *RegFile, memory *Memory) *resolver {
	return &resolver{regFile: regFile, memory: memory}
}

// location is a resolved 8-bit operand target: a register cell or a
// memory address.
type location struct {
	mem  bool
	reg  insts.Reg
	addr uint16
}

// effectivePair substitutes the instruction's index register for the
// shared table's IX placeholder, so one DD/FD table serves both index
// registers.
func (rv *resolver) effectivePair(inst *insts.Instruction, p insts.Pair) insts.Pair {
	if p == insts.PairIX && inst.Index != insts.PairNone {
		return inst.Index
	}
	return p
}

// resolve8 resolves an 8-bit operand to its location. Immediates are
// values, not locations; read them through operand8.
func (rv *resolver) resolve8(inst *insts.Instruction, o insts.Operand) location {
	switch o.Mode {
	case insts.Register:
		return location{reg: o.Reg}
	case insts.RegisterIndirect:
		return location{mem: true, addr: rv.regFile.Read16(rv.effectivePair(inst, o.Pair))}
	case insts.Indexed:
		base := rv.regFile.Read16(rv.effectivePair(inst, o.Pair))
		return location{mem: true, addr: base + uint16(int16(inst.Disp))}
	case insts.Direct:
		return location{mem: true, addr: inst.Imm}
	}
	return location{}
}

func (rv *resolver) readLoc(l location) byte {
	if l.mem {
		return rv.memory.Read8(l.addr)
	}
	return rv.regFile.Read8(l.reg)
}

func (rv *resolver) writeLoc(l location, value byte) {
	if l.mem {
		rv.memory.Write8(l.addr, value)
		return
	}
	rv.regFile.Write8(l.reg, value)
}

// operand8 reads the value of an 8-bit source operand, including
// immediates from the instruction stream.
func (rv *resolver) operand8(inst *insts.Instruction, o insts.Operand) byte {
	if o.Mode == insts.Immediate {
		return byte(inst.Imm)
	}
	return rv.readLoc(rv.resolve8(inst, o))
}
