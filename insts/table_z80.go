package insts

import "fmt"

// z80Table is the Z80 opcode table, built once at package load.
var z80Table = buildZ80Table()

// z80OperandName renders an operand in Z80 assembler syntax, with the
// placeholder convention used by assemblers: * for a data byte, ** for a
// data word.
func z80OperandName(o Operand) string {
	switch o.Mode {
	case Register:
		return o.Reg.String()
	case RegisterPair:
		return o.Pair.String()
	case RegisterIndirect:
		return "(" + o.Pair.String() + ")"
	case Immediate:
		return "*"
	case Immediate16:
		return "**"
	case Direct:
		return "(**)"
	case Indexed:
		return "(ix+*)"
	case PortImmediate:
		return "(*)"
	}
	return ""
}

func buildZ80Table() *opcodeTable {
	t := &opcodeTable{}
	n := z80OperandName

	t.add(mkdef(0, 0x00, "nop", OpNop, onone(), onone()))

	// 16-bit immediate loads and the pair increment/decrement column.
	for i, p := range pairOrder {
		base := byte(i) << 4
		t.add(mkdef(0, base+0x01, "ld "+n(opair(p))+",**", OpLoad16, opair(p), oimm16()))
		t.add(mkdef(0, base+0x03, "inc "+n(opair(p)), OpInc16, opair(p), onone()))
		t.add(mkdef(0, base+0x0b, "dec "+n(opair(p)), OpDec16, opair(p), onone()))
		t.add(mkdef(0, base+0x09, "add hl,"+n(opair(p)), OpAdd16, opair(PairHL), opair(p)))
	}

	// Accumulator moves through BC/DE indirection and direct addresses.
	t.add(mkdef(0, 0x02, "ld (bc),a", OpMove, oind(PairBC), oreg(RegA)))
	t.add(mkdef(0, 0x12, "ld (de),a", OpMove, oind(PairDE), oreg(RegA)))
	t.add(mkdef(0, 0x0a, "ld a,(bc)", OpMove, oreg(RegA), oind(PairBC)))
	t.add(mkdef(0, 0x1a, "ld a,(de)", OpMove, oreg(RegA), oind(PairDE)))
	t.add(mkdef(0, 0x22, "ld (**),hl", OpLoad16, odirect(), opair(PairHL)))
	t.add(mkdef(0, 0x2a, "ld hl,(**)", OpLoad16, opair(PairHL), odirect()))
	t.add(mkdef(0, 0x32, "ld (**),a", OpMove, odirect(), oreg(RegA)))
	t.add(mkdef(0, 0x3a, "ld a,(**)", OpMove, oreg(RegA), odirect()))

	// 8-bit increment, decrement and immediate-load columns.
	for i, r := range regOrder {
		base := byte(i) << 3
		t.add(mkdef(0, base+0x04, "inc "+n(r), OpInc, r, onone()))
		t.add(mkdef(0, base+0x05, "dec "+n(r), OpDec, r, onone()))
		t.add(mkdef(0, base+0x06, "ld "+n(r)+",*", OpMove, r, oimm()))
	}

	// Accumulator rotates and flag operations.
	t.add(mkdef(0, 0x07, "rlca", OpRlca, onone(), onone()))
	t.add(mkdef(0, 0x0f, "rrca", OpRrca, onone(), onone()))
	t.add(mkdef(0, 0x17, "rla", OpRla, onone(), onone()))
	t.add(mkdef(0, 0x1f, "rra", OpRra, onone(), onone()))
	t.add(mkdef(0, 0x27, "daa", OpDaa, onone(), onone()))
	t.add(mkdef(0, 0x2f, "cpl", OpCpl, onone(), onone()))
	t.add(mkdef(0, 0x37, "scf", OpScf, onone(), onone()))
	t.add(mkdef(0, 0x3f, "ccf", OpCcf, onone(), onone()))

	// Shadow-bank exchanges and relative jumps.
	t.add(mkdef(0, 0x08, "ex af,af'", OpExchangeAF, onone(), onone()))
	t.add(mkdef(0, 0xd9, "exx", OpExchangeShadow, onone(), onone()))
	t.add(mkdef(0, 0x10, "djnz *", OpDjnz, onone(), oimm()))
	t.add(mkdef(0, 0x18, "jr *", OpJumpRel, onone(), oimm()))
	for i, c := range condOrder[:4] {
		d := mkdef(0, 0x20+byte(i)<<3, "jr "+c.String()+",*", OpJumpRel, onone(), oimm())
		d.Cond = c
		t.add(d)
	}

	t.moveBlock("ld", "halt", n)

	t.aluRow(0x80, "add a,", OpAdd, n)
	t.aluRow(0x88, "adc a,", OpAdc, n)
	t.aluRow(0x90, "sub ", OpSub, n)
	t.aluRow(0x98, "sbc a,", OpSbc, n)
	t.aluRow(0xa0, "and ", OpAnd, n)
	t.aluRow(0xa8, "xor ", OpXor, n)
	t.aluRow(0xb0, "or ", OpOr, n)
	t.aluRow(0xb8, "cp ", OpCompare, n)

	t.add(mkdef(0, 0xc6, "add a,*", OpAdd, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xce, "adc a,*", OpAdc, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xd6, "sub *", OpSub, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xde, "sbc a,*", OpSbc, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xe6, "and *", OpAnd, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xee, "xor *", OpXor, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xf6, "or *", OpOr, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xfe, "cp *", OpCompare, oreg(RegA), oimm()))

	// Jumps, calls, returns and restarts. The conditional rows all follow
	// the same condition encoding in opcode bits 3-5.
	t.add(mkdef(0, 0xc3, "jp **", OpJump, onone(), oimm16()))
	t.add(mkdef(0, 0xcd, "call **", OpCall, onone(), oimm16()))
	t.add(mkdef(0, 0xc9, "ret", OpRet, onone(), onone()))
	for i, c := range condOrder {
		base := byte(i) << 3
		jp := mkdef(0, 0xc2+base, "jp "+c.String()+",**", OpJump, onone(), oimm16())
		jp.Cond = c
		t.add(jp)
		call := mkdef(0, 0xc4+base, "call "+c.String()+",**", OpCall, onone(), oimm16())
		call.Cond = c
		t.add(call)
		ret := mkdef(0, 0xc0+base, "ret "+c.String(), OpRet, onone(), onone())
		ret.Cond = c
		t.add(ret)

		rst := mkdef(0, 0xc7+base, fmt.Sprintf("rst 0x%02x", i*8), OpRst, onone(), onone())
		rst.Vector = byte(i * 8)
		t.add(rst)
	}

	// Stack pairs: the SP slot of the pair field selects AF here.
	for i, p := range [4]Pair{PairBC, PairDE, PairHL, PairAF} {
		base := byte(i) << 4
		t.add(mkdef(0, 0xc5+base, "push "+n(opair(p)), OpPush, onone(), opair(p)))
		t.add(mkdef(0, 0xc1+base, "pop "+n(opair(p)), OpPop, opair(p), onone()))
	}

	t.add(mkdef(0, 0xd3, "out (*),a", OpOut, oport(), oreg(RegA)))
	t.add(mkdef(0, 0xdb, "in a,(*)", OpIn, oreg(RegA), oport()))

	t.add(mkdef(0, 0xe3, "ex (sp),hl", OpExchangeSPHL, opair(PairHL), onone()))
	t.add(mkdef(0, 0xe9, "jp (hl)", OpJump, onone(), opair(PairHL)))
	t.add(mkdef(0, 0xeb, "ex de,hl", OpExchangeDEHL, onone(), onone()))
	t.add(mkdef(0, 0xf9, "ld sp,hl", OpLoad16, opair(PairSP), opair(PairHL)))

	buildZ80EDTable(t)
	buildZ80IndexedTable(t)

	return t
}

// buildZ80EDTable fills the 0xED prefix table: block transfers, NEG and
// the direct 16-bit loads of the non-HL pairs.
func buildZ80EDTable(t *opcodeTable) {
	t.add(mkdef(0xED, 0xa0, "ldi", OpBlockLoadInc, onone(), onone()))
	t.add(mkdef(0xED, 0xa8, "ldd", OpBlockLoadDec, onone(), onone()))
	t.add(mkdef(0xED, 0xb0, "ldir", OpBlockLoadIncRepeat, onone(), onone()))
	t.add(mkdef(0xED, 0xb8, "lddr", OpBlockLoadDecRepeat, onone(), onone()))
	t.add(mkdef(0xED, 0x44, "neg", OpNeg, onone(), onone()))

	// LD (**),rp and LD rp,(**) for BC, DE and SP. The HL forms live in
	// the main table with shorter encodings.
	for i, p := range pairOrder {
		if p == PairHL {
			continue
		}
		base := byte(i) << 4
		t.add(mkdef(0xED, 0x43+base, "ld (**),"+p.String(), OpLoad16, odirect(), opair(p)))
		t.add(mkdef(0xED, 0x4b+base, "ld "+p.String()+",(**)", OpLoad16, opair(p), odirect()))
	}
}

// buildZ80IndexedTable fills the shared DD/FD table. Entries name IX; the
// decoder substitutes IY when the prefix byte is 0xFD.
func buildZ80IndexedTable(t *opcodeTable) {
	n := z80OperandName

	t.add(mkdef(0xDD, 0x21, "ld ix,**", OpLoad16, opair(PairIX), oimm16()))
	t.add(mkdef(0xDD, 0x22, "ld (**),ix", OpLoad16, odirect(), opair(PairIX)))
	t.add(mkdef(0xDD, 0x2a, "ld ix,(**)", OpLoad16, opair(PairIX), odirect()))
	t.add(mkdef(0xDD, 0x23, "inc ix", OpInc16, opair(PairIX), onone()))
	t.add(mkdef(0xDD, 0x2b, "dec ix", OpDec16, opair(PairIX), onone()))

	// ADD IX,rp uses the IX register in the HL slot of the pair field.
	for i, p := range [4]Pair{PairBC, PairDE, PairIX, PairSP} {
		base := byte(i) << 4
		t.add(mkdef(0xDD, 0x09+base, "add ix,"+p.String(), OpAdd16, opair(PairIX), opair(p)))
	}

	t.add(mkdef(0xDD, 0x34, "inc (ix+*)", OpInc, oindexed(), onone()))
	t.add(mkdef(0xDD, 0x35, "dec (ix+*)", OpDec, oindexed(), onone()))
	t.add(mkdef(0xDD, 0x36, "ld (ix+*),*", OpMove, oindexed(), oimm()))

	// Indexed replacements for the (HL) slots of the move block.
	for i, r := range regOrder {
		if r.IsMemory() {
			continue
		}
		t.add(mkdef(0xDD, 0x46+byte(i)<<3, "ld "+n(r)+",(ix+*)", OpMove, r, oindexed()))
		t.add(mkdef(0xDD, 0x70+byte(i), "ld (ix+*),"+n(r), OpMove, oindexed(), r))
	}

	// Indexed replacements for the (HL) slots of the accumulator rows.
	for _, row := range []struct {
		opcode   byte
		mnemonic string
		op       Op
	}{
		{0x86, "add a,(ix+*)", OpAdd},
		{0x8e, "adc a,(ix+*)", OpAdc},
		{0x96, "sub (ix+*)", OpSub},
		{0x9e, "sbc a,(ix+*)", OpSbc},
		{0xa6, "and (ix+*)", OpAnd},
		{0xae, "xor (ix+*)", OpXor},
		{0xb6, "or (ix+*)", OpOr},
		{0xbe, "cp (ix+*)", OpCompare},
	} {
		t.add(mkdef(0xDD, row.opcode, row.mnemonic, row.op, oreg(RegA), oindexed()))
	}

	t.add(mkdef(0xDD, 0xe5, "push ix", OpPush, onone(), opair(PairIX)))
	t.add(mkdef(0xDD, 0xe1, "pop ix", OpPop, opair(PairIX), onone()))
	t.add(mkdef(0xDD, 0xe3, "ex (sp),ix", OpExchangeSPHL, opair(PairIX), onone()))
	t.add(mkdef(0xDD, 0xe9, "jp (ix)", OpJump, onone(), opair(PairIX)))
}
