package insts

import "fmt"

// opcodeTable holds the decode tables of one architecture variant.
// Unused prefix tables stay nil-filled (the 8085 has no prefixes).
type opcodeTable struct {
	main [256]*Definition

	// ed holds the 0xED-prefixed opcodes (Z80 block transfers, NEG,
	// direct 16-bit loads).
	ed [256]*Definition

	// indexed holds the 0xDD/0xFD-prefixed opcodes. Entries name PairIX;
	// the decoder substitutes PairIY for the 0xFD prefix through the
	// Instruction's Index field.
	indexed [256]*Definition
}

// Operand constructors used by the table builders.

func oreg(r Reg) Operand { return Operand{Mode: Register, Reg: r} }
func opair(p Pair) Operand { return Operand{Mode: RegisterPair, Pair: p} }
func oind(p Pair) Operand { return Operand{Mode: RegisterIndirect, Pair: p} }
func oimm() Operand { return Operand{Mode: Immediate} }
func oimm16() Operand { return Operand{Mode: Immediate16} }
func odirect() Operand { return Operand{Mode: Direct} }
func oindexed() Operand { return Operand{Mode: Indexed, Pair: PairIX} }
func oport() Operand { return Operand{Mode: PortImmediate} }
func onone() Operand { return Operand{Mode: Implied} }

// regOrder is the register encoding order shared by both machines:
// bit patterns 000-111 select B, C, D, E, H, L, (HL), A.
var regOrder = [8]Operand{
	oreg(RegB), oreg(RegC), oreg(RegD), oreg(RegE),
	oreg(RegH), oreg(RegL), oind(PairHL), oreg(RegA),
}

// pairOrder is the pair encoding order for the 00-11 pair field of
// 16-bit loads, INX/DCX and DAD-style adds.
var pairOrder = [4]Pair{PairBC, PairDE, PairHL, PairSP}

// condOrder is the condition encoding order of the conditional jump,
// call and return rows (opcode bits 3-5).
var condOrder = [8]Cond{CondNZ, CondZ, CondNC, CondC, CondPO, CondPE, CondP, CondM}

// operandBytes returns the number of instruction-stream bytes an operand
// consumes.
func operandBytes(o Operand) int {
	switch o.Mode {
	case Immediate, PortImmediate:
		return 1
	case Immediate16, Direct:
		return 2
	case Indexed:
		return 1 // signed displacement
	}
	return 0
}

// mkdef builds a Definition, deriving its encoded length from the
// operand modes.
func mkdef(prefix, opcode byte, mnemonic string, op Op, dst, src Operand) *Definition {
	bytes := 1 + operandBytes(dst) + operandBytes(src)
	if prefix != 0 {
		bytes++
	}
	return &Definition{
		Opcode:   opcode,
		Prefix:   prefix,
		Mnemonic: mnemonic,
		Op:       op,
		Dst:      dst,
		Src:      src,
		Bytes:    bytes,
	}
}

func (t *opcodeTable) add(d *Definition) {
	slot := &t.main[d.Opcode]
	switch d.Prefix {
	case 0:
	case 0xED:
		slot = &t.ed[d.Opcode]
	case 0xDD:
		slot = &t.indexed[d.Opcode]
	default:
		panic(fmt.Sprintf("unsupported prefix %02x", d.Prefix))
	}
	if *slot != nil {
		panic(fmt.Sprintf("opcode %s defined twice (%s and %s)",
			d, (*slot).Mnemonic, d.Mnemonic))
	}
	*slot = d
}

// aluRow fills one 8-entry accumulator row (base+0 .. base+7) with the
// register operand order. The memory-to-memory slot does not arise here:
// every row reads into A. The mnemonic prefix carries its own separator
// ("add a," vs "ana ").
func (t *opcodeTable) aluRow(base byte, mnemonic string, op Op, operandName func(Operand) string) {
	for i, src := range regOrder {
		t.add(mkdef(0, base+byte(i), mnemonic+operandName(src), op, oreg(RegA), src))
	}
}

// moveBlock fills the 0x40-0x7F register-to-register move block.
// Slot 0x76, which would encode a memory-to-memory move, is HALT on both
// machines: the illegal encoding simply does not exist.
func (t *opcodeTable) moveBlock(mnemonic, haltMnemonic string, operandName func(Operand) string) {
	for di, dst := range regOrder {
		for si, src := range regOrder {
			opcode := 0x40 + byte(di)<<3 + byte(si)
			if dst.IsMemory() && src.IsMemory() {
				t.add(mkdef(0, opcode, haltMnemonic, OpHalt, onone(), onone()))
				continue
			}
			name := fmt.Sprintf("%s %s,%s", mnemonic, operandName(dst), operandName(src))
			t.add(mkdef(0, opcode, name, OpMove, dst, src))
		}
	}
}

// tableFor returns the opcode table of a variant.
func tableFor(v Variant) *opcodeTable {
	switch v {
	case VariantI8085:
		return i8085Table
	default:
		return z80Table
	}
}
