package insts

import "fmt"

// i8085Table is the 8085 opcode table, built once at package load.
// The base encodings match the Z80 table almost everywhere; only the
// mnemonics and the handful of Z80-only slots (0x08, 0x10, 0x18, the JR
// row, 0xd9) differ. Those slots are simply absent here and decode as
// illegal instructions.
var i8085Table = buildI8085Table()

// i8085OperandName renders an operand in 8080-family assembler syntax:
// the HL memory reference is the pseudo-register m, pairs go by their
// high register letter, and AF on the stack is psw.
func i8085OperandName(o Operand) string {
	switch o.Mode {
	case Register:
		return o.Reg.String()
	case RegisterPair:
		return i8085PairName(o.Pair)
	case RegisterIndirect:
		if o.Pair == PairHL {
			return "m"
		}
		return i8085PairName(o.Pair)
	case Immediate:
		return "*"
	case Immediate16, Direct:
		return "**"
	case PortImmediate:
		return "*"
	}
	return ""
}

func i8085PairName(p Pair) string {
	switch p {
	case PairAF:
		return "psw"
	case PairBC:
		return "b"
	case PairDE:
		return "d"
	case PairHL:
		return "h"
	case PairSP:
		return "sp"
	}
	return "?"
}

func buildI8085Table() *opcodeTable {
	t := &opcodeTable{}
	n := i8085OperandName

	t.add(mkdef(0, 0x00, "nop", OpNop, onone(), onone()))

	for i, p := range pairOrder {
		base := byte(i) << 4
		t.add(mkdef(0, base+0x01, "lxi "+i8085PairName(p)+",**", OpLoad16, opair(p), oimm16()))
		t.add(mkdef(0, base+0x03, "inx "+i8085PairName(p), OpInc16, opair(p), onone()))
		t.add(mkdef(0, base+0x0b, "dcx "+i8085PairName(p), OpDec16, opair(p), onone()))
		t.add(mkdef(0, base+0x09, "dad "+i8085PairName(p), OpAdd16, opair(PairHL), opair(p)))
	}

	t.add(mkdef(0, 0x02, "stax b", OpMove, oind(PairBC), oreg(RegA)))
	t.add(mkdef(0, 0x12, "stax d", OpMove, oind(PairDE), oreg(RegA)))
	t.add(mkdef(0, 0x0a, "ldax b", OpMove, oreg(RegA), oind(PairBC)))
	t.add(mkdef(0, 0x1a, "ldax d", OpMove, oreg(RegA), oind(PairDE)))
	t.add(mkdef(0, 0x22, "shld **", OpLoad16, odirect(), opair(PairHL)))
	t.add(mkdef(0, 0x2a, "lhld **", OpLoad16, opair(PairHL), odirect()))
	t.add(mkdef(0, 0x32, "sta **", OpMove, odirect(), oreg(RegA)))
	t.add(mkdef(0, 0x3a, "lda **", OpMove, oreg(RegA), odirect()))

	for i, r := range regOrder {
		base := byte(i) << 3
		t.add(mkdef(0, base+0x04, "inr "+n(r), OpInc, r, onone()))
		t.add(mkdef(0, base+0x05, "dcr "+n(r), OpDec, r, onone()))
		t.add(mkdef(0, base+0x06, "mvi "+n(r)+",*", OpMove, r, oimm()))
	}

	t.add(mkdef(0, 0x07, "rlc", OpRlca, onone(), onone()))
	t.add(mkdef(0, 0x0f, "rrc", OpRrca, onone(), onone()))
	t.add(mkdef(0, 0x17, "ral", OpRla, onone(), onone()))
	t.add(mkdef(0, 0x1f, "rar", OpRra, onone(), onone()))
	t.add(mkdef(0, 0x27, "daa", OpDaa, onone(), onone()))
	t.add(mkdef(0, 0x2f, "cma", OpCpl, onone(), onone()))
	t.add(mkdef(0, 0x37, "stc", OpScf, onone(), onone()))
	t.add(mkdef(0, 0x3f, "cmc", OpCcf, onone(), onone()))

	t.moveBlock("mov", "hlt", n)

	t.aluRow(0x80, "add ", OpAdd, n)
	t.aluRow(0x88, "adc ", OpAdc, n)
	t.aluRow(0x90, "sub ", OpSub, n)
	t.aluRow(0x98, "sbb ", OpSbc, n)
	t.aluRow(0xa0, "ana ", OpAnd, n)
	t.aluRow(0xa8, "xra ", OpXor, n)
	t.aluRow(0xb0, "ora ", OpOr, n)
	t.aluRow(0xb8, "cmp ", OpCompare, n)

	t.add(mkdef(0, 0xc6, "adi *", OpAdd, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xce, "aci *", OpAdc, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xd6, "sui *", OpSub, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xde, "sbi *", OpSbc, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xe6, "ani *", OpAnd, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xee, "xri *", OpXor, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xf6, "ori *", OpOr, oreg(RegA), oimm()))
	t.add(mkdef(0, 0xfe, "cpi *", OpCompare, oreg(RegA), oimm()))

	t.add(mkdef(0, 0xc3, "jmp **", OpJump, onone(), oimm16()))
	t.add(mkdef(0, 0xcd, "call **", OpCall, onone(), oimm16()))
	t.add(mkdef(0, 0xc9, "ret", OpRet, onone(), onone()))
	for i, c := range condOrder {
		base := byte(i) << 3
		jp := mkdef(0, 0xc2+base, "j"+c.String()+" **", OpJump, onone(), oimm16())
		jp.Cond = c
		t.add(jp)
		call := mkdef(0, 0xc4+base, "c"+c.String()+" **", OpCall, onone(), oimm16())
		call.Cond = c
		t.add(call)
		ret := mkdef(0, 0xc0+base, "r"+c.String(), OpRet, onone(), onone())
		ret.Cond = c
		t.add(ret)

		rst := mkdef(0, 0xc7+base, fmt.Sprintf("rst %d", i), OpRst, onone(), onone())
		rst.Vector = byte(i * 8)
		t.add(rst)
	}

	for i, p := range [4]Pair{PairBC, PairDE, PairHL, PairAF} {
		base := byte(i) << 4
		t.add(mkdef(0, 0xc5+base, "push "+i8085PairName(p), OpPush, onone(), opair(p)))
		t.add(mkdef(0, 0xc1+base, "pop "+i8085PairName(p), OpPop, opair(p), onone()))
	}

	t.add(mkdef(0, 0xd3, "out *", OpOut, oport(), oreg(RegA)))
	t.add(mkdef(0, 0xdb, "in *", OpIn, oreg(RegA), oport()))

	t.add(mkdef(0, 0xe3, "xthl", OpExchangeSPHL, opair(PairHL), onone()))
	t.add(mkdef(0, 0xe9, "pchl", OpJump, onone(), opair(PairHL)))
	t.add(mkdef(0, 0xeb, "xchg", OpExchangeDEHL, onone(), onone()))
	t.add(mkdef(0, 0xf9, "sphl", OpLoad16, opair(PairSP), opair(PairHL)))

	return t
}
