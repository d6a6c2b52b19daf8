// Package insts provides instruction definitions and decoding for the two
// 8-bit accumulator machines emulated by micro8: the Z80 and the 8085.
//
// Both machines share most of their base opcode space, so a single set of
// table-building helpers produces a per-variant opcode table. The table is
// the single source of truth for decoding: the decoder only reads operand
// bytes and materializes an Instruction, it never special-cases opcodes.
//
// Usage:
//
//	decoder := insts.NewDecoder(insts.VariantZ80)
//	inst, err := decoder.DecodeAt(mem, pc)
package insts

import "fmt"

// Variant selects one of the two supported instruction sets.
type Variant uint8

// Supported architecture variants.
const (
	// VariantZ80 is the extended variant: index registers, shadow bank,
	// relative jumps and block transfers, overflow on the P/V flag for
	// arithmetic.
	VariantZ80 Variant = iota

	// VariantI8085 is the 8085: base opcode space only, parity on the P
	// flag for every flag-affecting operation.
	VariantI8085
)

func (v Variant) String() string {
	switch v {
	case VariantZ80:
		return "z80"
	case VariantI8085:
		return "8085"
	}
	return "unknown"
}

// Reg names an 8-bit register cell.
type Reg uint8

// 8-bit registers. RegF is only addressable through PUSH/POP AF and the
// flag accessors; no data-movement operand names it directly.
const (
	RegNone Reg = iota
	RegA
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegF
)

func (r Reg) String() string {
	switch r {
	case RegA:
		return "a"
	case RegB:
		return "b"
	case RegC:
		return "c"
	case RegD:
		return "d"
	case RegE:
		return "e"
	case RegH:
		return "h"
	case RegL:
		return "l"
	case RegF:
		return "f"
	}
	return "?"
}

// Pair names a 16-bit register or register pair.
type Pair uint8

// 16-bit pairs. PairIX and PairIY exist on the Z80 variant only.
const (
	PairNone Pair = iota
	PairAF
	PairBC
	PairDE
	PairHL
	PairSP
	PairIX
	PairIY
)

func (p Pair) String() string {
	switch p {
	case PairAF:
		return "af"
	case PairBC:
		return "bc"
	case PairDE:
		return "de"
	case PairHL:
		return "hl"
	case PairSP:
		return "sp"
	case PairIX:
		return "ix"
	case PairIY:
		return "iy"
	}
	return "?"
}

// Cond is a flag condition tested by conditional jumps, calls and returns.
type Cond uint8

// Condition codes. Each flag has a set and a clear form.
const (
	CondNone Cond = iota
	CondNZ        // Zero clear
	CondZ         // Zero set
	CondNC        // Carry clear
	CondC         // Carry set
	CondPO        // Parity odd (P clear)
	CondPE        // Parity even (P set)
	CondP         // Sign clear (plus)
	CondM         // Sign set (minus)
)

func (c Cond) String() string {
	switch c {
	case CondNZ:
		return "nz"
	case CondZ:
		return "z"
	case CondNC:
		return "nc"
	case CondC:
		return "c"
	case CondPO:
		return "po"
	case CondPE:
		return "pe"
	case CondP:
		return "p"
	case CondM:
		return "m"
	}
	return ""
}

// Op is a decoded operation kind.
type Op uint16

// Operation kinds. The dispatcher switches on these; addressing detail
// lives in the operand descriptors, not in the operation kind.
const (
	OpUnknown Op = iota
	OpNop
	OpHalt

	// Data movement
	OpMove   // 8-bit load between two operand locations
	OpLoad16 // 16-bit load (immediate, direct or pair source/destination)

	// Exchanges
	OpExchangeDEHL   // EX DE,HL / XCHG
	OpExchangeSPHL   // EX (SP),HL / XTHL
	OpExchangeAF     // EX AF,AF'
	OpExchangeShadow // EXX

	// 8-bit arithmetic and logic (accumulator-based)
	OpAdd
	OpAdc
	OpSub
	OpSbc
	OpAnd
	OpXor
	OpOr
	OpCompare
	OpInc
	OpDec
	OpDaa
	OpCpl
	OpNeg
	OpScf
	OpCcf

	// Accumulator rotates
	OpRlca
	OpRrca
	OpRla
	OpRra

	// 16-bit arithmetic
	OpInc16
	OpDec16
	OpAdd16

	// Stack
	OpPush
	OpPop

	// Control flow
	OpJump    // absolute; source may be a pair (JP (HL), PCHL)
	OpJumpRel // relative (Z80 JR)
	OpDjnz    // decrement B, relative jump while non-zero (Z80)
	OpCall
	OpRet
	OpRst

	// Port I/O
	OpIn
	OpOut

	// Block transfers (Z80, ED-prefixed)
	OpBlockLoadInc
	OpBlockLoadDec
	OpBlockLoadIncRepeat
	OpBlockLoadDecRepeat
)

// AddressingMode describes how an operand resolves to a value or location.
type AddressingMode uint8

// Addressing modes.
const (
	Implied          AddressingMode = iota
	Register                        // named 8-bit register
	RegisterPair                    // named 16-bit pair
	Immediate                       // 8-bit literal from the instruction stream
	Immediate16                     // 16-bit literal, little-endian
	RegisterIndirect                // byte at the address held in a pair
	Indexed                         // byte at index register + signed displacement (Z80)
	Direct                          // byte or word at a literal 16-bit address
	PortImmediate                   // 8-bit port number from the instruction stream
)

func (m AddressingMode) String() string {
	switch m {
	case Implied:
		return "implied"
	case Register:
		return "register"
	case RegisterPair:
		return "register pair"
	case Immediate:
		return "immediate"
	case Immediate16:
		return "immediate16"
	case RegisterIndirect:
		return "register indirect"
	case Indexed:
		return "indexed"
	case Direct:
		return "direct"
	case PortImmediate:
		return "port"
	}
	return "unknown addressing mode"
}

// Operand describes one operand of an instruction definition.
//
// Operands of the shared DD/FD table name PairIX; the decoder records the
// effective index register (IX or IY) in the Instruction's Index field and
// the resolver substitutes it.
type Operand struct {
	Mode AddressingMode
	Reg  Reg
	Pair Pair
}

// IsMemory reports whether the operand resolves to a memory location.
func (o Operand) IsMemory() bool {
	switch o.Mode {
	case RegisterIndirect, Indexed, Direct:
		return true
	}
	return false
}

// Definition defines one table entry: a fully decoded operation shape.
// One Definition exists per encoding, shared by every Instruction
// materialized from it.
type Definition struct {
	Opcode   byte
	Prefix   byte // 0, 0xED, or 0xDD for the shared DD/FD table
	Mnemonic string
	Op       Op
	Dst      Operand
	Src      Operand
	Cond     Cond
	Vector   byte // RST target address (OpRst only)

	// Bytes is the total encoded length including prefix, opcode and
	// operand bytes. Indexed-table entries count the DD/FD prefix and
	// displacement byte.
	Bytes int
}

// String returns a short human-readable form of the definition.
func (d *Definition) String() string {
	if d == nil {
		return "undecoded instruction"
	}
	if d.Prefix != 0 {
		return fmt.Sprintf("%02x %02x %s +%dbytes", d.Prefix, d.Opcode, d.Mnemonic, d.Bytes)
	}
	return fmt.Sprintf("%02x %s +%dbytes", d.Opcode, d.Mnemonic, d.Bytes)
}

// Instruction is one decoded instruction, materialized by the decoder for
// a single execute cycle and then discarded.
type Instruction struct {
	Def *Definition

	// Imm holds a decoded 8- or 16-bit immediate or direct address
	// (little-endian in the instruction stream).
	Imm uint16

	// Disp is the signed displacement of an indexed operand.
	Disp int8

	// Index is the effective index register of an indexed operand
	// (PairIX or PairIY), selected by the DD/FD prefix byte.
	Index Pair

	// Length is the total encoded length in bytes.
	Length uint16
}
