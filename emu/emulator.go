package emu

import (
	"fmt"

	"github.com/sarchlab/micro8/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the machine is now in the HALTED state.
	Halted bool

	// Err is set if decoding failed or a port device reported an error.
	// The machine's prior state remains inspectable.
	Err error
}

// RunOutcome distinguishes the ways a Run call can end.
type RunOutcome uint8

// Run outcomes.
const (
	// OutcomeHalted means the program reached a HALT instruction.
	OutcomeHalted RunOutcome = iota

	// OutcomeBudgetExhausted means the step budget ran out before a
	// HALT. An infinite loop is a valid program, so this is an outcome,
	// not an error.
	OutcomeBudgetExhausted

	// OutcomeError means a step failed; RunResult.Err holds the cause.
	OutcomeError
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeHalted:
		return "halted"
	case OutcomeBudgetExhausted:
		return "budget exhausted"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// RunResult is the result of a Run call.
type RunResult struct {
	Outcome RunOutcome
	Steps   uint64
	Err     error
}

// Emulator executes Z80 or 8085 instructions functionally. It owns its
// memory and register file exclusively; execution is single-threaded and
// synchronous, one instruction fully completing before the next fetch.
type Emulator struct {
	variant  insts.Variant
	regFile  *RegFile
	memory   *Memory
	decoder  *insts.Decoder
	alu      *ALU
	resolver *resolver
	ports    PortDevice

	halted           bool
	instructionCount uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithPortDevice attaches a device model behind the IN/OUT instructions.
func WithPortDevice(dev PortDevice) EmulatorOption {
	return func(e *Emulator) {
		e.ports = dev
	}
}

// WithStackPointer sets the initial stack pointer value.
func WithStackPointer(sp uint16) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.SP = sp
	}
}

// NewEmulator creates an emulator for the given architecture variant.
func NewEmulator(variant insts.Variant, opts ...EmulatorOption) *Emulator {
	regFile := NewRegFile(variant)
	memory := NewMemory()

	e := &Emulator{
		variant:  variant,
		regFile:  regFile,
		memory:   memory,
		decoder:  insts.NewDecoder(variant),
		alu:      NewALU(variant),
		resolver: newResolver(regFile, memory),
		ports:    OpenBus{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Variant returns the emulator's architecture variant.
func (e *Emulator) Variant() insts.Variant {
	return e.variant
}

// Halted reports whether the machine is in the terminal HALTED state.
func (e *Emulator) Halted() bool {
	return e.halted
}

// InstructionCount returns the number of instructions executed. A repeat
// block transfer counts as one instruction.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram writes a program into memory at origin and sets the
// program counter to it.
func (e *Emulator) LoadProgram(origin uint16, program []byte) {
	e.memory.LoadProgram(origin, program)
	e.regFile.PC = origin
}

// Reset returns the machine to power-on state: zeroed register file and
// memory, not halted. Constructor options are not re-applied; the port
// device is kept.
func (e *Emulator) Reset() {
	e.regFile = NewRegFile(e.variant)
	e.memory = NewMemory()
	e.resolver = newResolver(e.regFile, e.memory)
	e.halted = false
	e.instructionCount = 0
}

// Step executes exactly one instruction: fetch at PC, decode through the
// opcode table, execute. A decode failure leaves PC and all machine
// state untouched. Stepping a halted machine is a no-op that reports the
// halted state.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	inst, err := e.decoder.DecodeAt(e.memory, e.regFile.PC)
	if err != nil {
		return StepResult{Err: err}
	}

	return e.Execute(inst)
}

// Execute runs one already-decoded instruction. This is the entry point
// for drivers that feed pre-decoded instruction streams; Step uses it
// after its own decode. The instruction is validated first, so an
// externally built memory-to-memory move is rejected before any state
// changes.
func (e *Emulator) Execute(inst insts.Instruction) StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}
	if err := insts.Validate(inst); err != nil {
		return StepResult{Err: err}
	}

	// PC moves past the whole instruction before the handler runs, so
	// CALL pushes the follow-on address and jumps simply overwrite PC.
	e.regFile.PC += inst.Length
	err := e.execute(&inst)
	e.instructionCount++

	return StepResult{Halted: e.halted, Err: err}
}

// Run loops Step until the machine halts, a step fails, or maxSteps
// instructions have executed. The budget is the only guard against
// runaway loops; the core has no wall-clock timeout.
func (e *Emulator) Run(maxSteps uint64) RunResult {
	var steps uint64
	for steps < maxSteps {
		result := e.Step()
		steps++
		if result.Err != nil {
			return RunResult{Outcome: OutcomeError, Steps: steps, Err: result.Err}
		}
		if result.Halted {
			return RunResult{Outcome: OutcomeHalted, Steps: steps}
		}
	}
	if e.halted {
		return RunResult{Outcome: OutcomeHalted, Steps: steps}
	}
	return RunResult{Outcome: OutcomeBudgetExhausted, Steps: steps}
}

// execute dispatches a decoded instruction to its handler.
func (e *Emulator) execute(inst *insts.Instruction) error {
	rf := e.regFile

	switch inst.Def.Op {
	case insts.OpNop:

	case insts.OpHalt:
		e.halted = true

	case insts.OpMove:
		e.executeMove(inst)

	case insts.OpLoad16:
		e.executeLoad16(inst)

	case insts.OpExchangeDEHL:
		rf.ExchangeDEHL()

	case insts.OpExchangeAF:
		rf.ExchangeAF()

	case insts.OpExchangeShadow:
		rf.ExchangeShadow()

	case insts.OpExchangeSPHL:
		e.executeExchangeSPHL(inst)

	case insts.OpAdd, insts.OpAdc, insts.OpSub, insts.OpSbc,
		insts.OpAnd, insts.OpXor, insts.OpOr, insts.OpCompare:
		e.executeAccumulator(inst)

	case insts.OpInc, insts.OpDec:
		e.executeIncDec(inst)

	case insts.OpInc16:
		rf.IncPair(e.resolver.effectivePair(inst, inst.Def.Dst.Pair))

	case insts.OpDec16:
		rf.DecPair(e.resolver.effectivePair(inst, inst.Def.Dst.Pair))

	case insts.OpAdd16:
		dst := e.resolver.effectivePair(inst, inst.Def.Dst.Pair)
		src := e.resolver.effectivePair(inst, inst.Def.Src.Pair)
		sum, flags := e.alu.Add16(rf.Read16(dst), rf.Read16(src), rf.Flags)
		rf.Write16(dst, sum)
		rf.Flags = flags

	case insts.OpDaa:
		rf.A, rf.Flags = e.alu.Daa(rf.A, rf.Flags)

	case insts.OpCpl:
		// Flags are untouched: the documented exception to the
		// flags-follow-the-op rule.
		rf.A = ^rf.A

	case insts.OpNeg:
		rf.A, rf.Flags = e.alu.Neg(rf.A)

	case insts.OpScf:
		rf.Flags = e.alu.Scf(rf.Flags)

	case insts.OpCcf:
		rf.Flags = e.alu.Ccf(rf.Flags)

	case insts.OpRlca:
		rf.A, rf.Flags = e.alu.Rlca(rf.A, rf.Flags)

	case insts.OpRrca:
		rf.A, rf.Flags = e.alu.Rrca(rf.A, rf.Flags)

	case insts.OpRla:
		rf.A, rf.Flags = e.alu.Rla(rf.A, rf.Flags)

	case insts.OpRra:
		rf.A, rf.Flags = e.alu.Rra(rf.A, rf.Flags)

	case insts.OpPush:
		e.push16(rf.Read16(e.resolver.effectivePair(inst, inst.Def.Src.Pair)))

	case insts.OpPop:
		rf.Write16(e.resolver.effectivePair(inst, inst.Def.Dst.Pair), e.pop16())

	case insts.OpJump:
		e.executeJump(inst)

	case insts.OpJumpRel:
		if e.condMet(inst.Def.Cond) {
			rf.PC += uint16(int16(int8(inst.Imm)))
		}

	case insts.OpDjnz:
		rf.B--
		if rf.B != 0 {
			rf.PC += uint16(int16(int8(inst.Imm)))
		}

	case insts.OpCall:
		if e.condMet(inst.Def.Cond) {
			e.push16(rf.PC)
			rf.PC = inst.Imm
		}

	case insts.OpRet:
		if e.condMet(inst.Def.Cond) {
			rf.PC = e.pop16()
		}

	case insts.OpRst:
		e.push16(rf.PC)
		rf.PC = uint16(inst.Def.Vector)

	case insts.OpIn:
		value, err := e.ports.In(byte(inst.Imm))
		if err != nil {
			return err
		}
		rf.A = value

	case insts.OpOut:
		return e.ports.Out(byte(inst.Imm), rf.A)

	case insts.OpBlockLoadInc:
		e.blockStep(1)

	case insts.OpBlockLoadDec:
		e.blockStep(0xFFFF)

	case insts.OpBlockLoadIncRepeat:
		e.blockRepeat(1)

	case insts.OpBlockLoadDecRepeat:
		e.blockRepeat(0xFFFF)

	default:
		return fmt.Errorf("unimplemented operation %q at PC=0x%04X",
			inst.Def.Mnemonic, rf.PC)
	}

	return nil
}

// condMet evaluates a condition code against the flags. CondNone is the
// unconditional form.
func (e *Emulator) condMet(c insts.Cond) bool {
	f := e.regFile.Flags
	switch c {
	case insts.CondNone:
		return true
	case insts.CondNZ:
		return !f.Z
	case insts.CondZ:
		return f.Z
	case insts.CondNC:
		return !f.C
	case insts.CondC:
		return f.C
	case insts.CondPO:
		return !f.P
	case insts.CondPE:
		return f.P
	case insts.CondP:
		return !f.S
	case insts.CondM:
		return f.S
	}
	return false
}

// executeMove handles every 8-bit load shape: register, immediate,
// register-indirect, indexed and direct operands.
func (e *Emulator) executeMove(inst *insts.Instruction) {
	value := e.resolver.operand8(inst, inst.Def.Src)
	e.resolver.writeLoc(e.resolver.resolve8(inst, inst.Def.Dst), value)
}

// executeLoad16 handles the 16-bit load shapes: pair from immediate,
// pair from/to a direct address, and pair-to-pair (LD SP,HL).
func (e *Emulator) executeLoad16(inst *insts.Instruction) {
	rf := e.regFile
	def := inst.Def

	var value uint16
	switch def.Src.Mode {
	case insts.Immediate16:
		value = inst.Imm
	case insts.Direct:
		value = e.memory.Read16(inst.Imm)
	case insts.RegisterPair:
		value = rf.Read16(e.resolver.effectivePair(inst, def.Src.Pair))
	}

	switch def.Dst.Mode {
	case insts.RegisterPair:
		rf.Write16(e.resolver.effectivePair(inst, def.Dst.Pair), value)
	case insts.Direct:
		e.memory.Write16(inst.Imm, value)
	}
}

// executeAccumulator handles the eight accumulator arithmetic/logic
// rows. Compare keeps only the flags; both compared values stay intact.
func (e *Emulator) executeAccumulator(inst *insts.Instruction) {
	rf := e.regFile
	operand := e.resolver.operand8(inst, inst.Def.Src)

	var result byte
	var flags Flags
	switch inst.Def.Op {
	case insts.OpAdd:
		result, flags = e.alu.Add(rf.A, operand)
	case insts.OpAdc:
		result, flags = e.alu.Adc(rf.A, operand, rf.Flags.C)
	case insts.OpSub:
		result, flags = e.alu.Sub(rf.A, operand)
	case insts.OpSbc:
		result, flags = e.alu.Sbc(rf.A, operand, rf.Flags.C)
	case insts.OpAnd:
		result, flags = e.alu.And(rf.A, operand)
	case insts.OpXor:
		result, flags = e.alu.Xor(rf.A, operand)
	case insts.OpOr:
		result, flags = e.alu.Or(rf.A, operand)
	case insts.OpCompare:
		rf.Flags = e.alu.Compare(rf.A, operand)
		return
	}

	rf.A = result
	rf.Flags = flags
}

// executeIncDec handles the 8-bit increment/decrement column, including
// the (HL) and indexed memory cells. Carry is left alone by the ALU.
func (e *Emulator) executeIncDec(inst *insts.Instruction) {
	rf := e.regFile
	loc := e.resolver.resolve8(inst, inst.Def.Dst)
	value := e.resolver.readLoc(loc)

	var result byte
	var flags Flags
	if inst.Def.Op == insts.OpInc {
		result, flags = e.alu.Inc(value, rf.Flags)
	} else {
		result, flags = e.alu.Dec(value, rf.Flags)
	}

	e.resolver.writeLoc(loc, result)
	rf.Flags = flags
}

// executeJump handles absolute jumps: to an immediate address or, for
// JP (HL)/PCHL and the indexed forms, to the value held in a pair.
func (e *Emulator) executeJump(inst *insts.Instruction) {
	if !e.condMet(inst.Def.Cond) {
		return
	}
	if inst.Def.Src.Mode == insts.RegisterPair {
		e.regFile.PC = e.regFile.Read16(e.resolver.effectivePair(inst, inst.Def.Src.Pair))
		return
	}
	e.regFile.PC = inst.Imm
}

// executeExchangeSPHL swaps a pair with the 16-bit word on top of the
// stack (EX (SP),HL and the indexed forms).
func (e *Emulator) executeExchangeSPHL(inst *insts.Instruction) {
	rf := e.regFile
	pair := e.resolver.effectivePair(inst, inst.Def.Dst.Pair)
	top := e.memory.Read16(rf.SP)
	e.memory.Write16(rf.SP, rf.Read16(pair))
	rf.Write16(pair, top)
}
