package insts

import "fmt"

// ByteReader is the read-only view of machine memory the decoder needs.
// Decoding never writes and never advances machine state.
type ByteReader interface {
	Read8(addr uint16) byte
}

// DecodeReason distinguishes the decode failure kinds.
type DecodeReason uint8

// Decode failure reasons.
const (
	// ReasonUnknownOpcode marks a byte (or prefixed byte pair) with no
	// table entry.
	ReasonUnknownOpcode DecodeReason = iota

	// ReasonIllegalOperands marks an operand combination that has no
	// encoding, such as a memory-to-memory move.
	ReasonIllegalOperands
)

func (r DecodeReason) String() string {
	switch r {
	case ReasonUnknownOpcode:
		return "unknown opcode"
	case ReasonIllegalOperands:
		return "illegal operand combination"
	}
	return "decode error"
}

// DecodeError reports a failed decode. The machine does not advance past
// the offending byte.
type DecodeError struct {
	Addr   uint16
	Bytes  []byte
	Reason DecodeReason
}

func (e *DecodeError) Error() string {
	if len(e.Bytes) == 0 {
		return fmt.Sprintf("%s at 0x%04X", e.Reason, e.Addr)
	}
	s := fmt.Sprintf("%s at 0x%04X:", e.Reason, e.Addr)
	for _, b := range e.Bytes {
		s += fmt.Sprintf(" %02X", b)
	}
	return s
}

// Decoder decodes instruction bytes for one architecture variant.
type Decoder struct {
	variant Variant
	table   *opcodeTable
}

// NewDecoder creates a decoder for the given variant.
func NewDecoder(v Variant) *Decoder {
	return &Decoder{variant: v, table: tableFor(v)}
}

// Variant returns the decoder's architecture variant.
func (d *Decoder) Variant() Variant {
	return d.variant
}

// Lookup returns the table entry for an opcode, or nil if the encoding
// does not exist. prefix is 0, 0xED or 0xDD/0xFD (the latter two share a
// table).
func (d *Decoder) Lookup(prefix, opcode byte) *Definition {
	switch prefix {
	case 0:
		return d.table.main[opcode]
	case 0xED:
		return d.table.ed[opcode]
	case 0xDD, 0xFD:
		return d.table.indexed[opcode]
	}
	return nil
}

// DecodeAt decodes the instruction starting at pc. It reads the opcode
// byte, any prefix and the operand bytes, and materializes a transient
// Instruction. The program counter itself is not touched.
func (d *Decoder) DecodeAt(mem ByteReader, pc uint16) (Instruction, error) {
	opcode := mem.Read8(pc)

	index := PairNone
	prefix := byte(0)
	if d.variant == VariantZ80 {
		switch opcode {
		case 0xED:
			prefix = 0xED
		case 0xDD:
			prefix, index = 0xDD, PairIX
		case 0xFD:
			prefix, index = 0xFD, PairIY
		}
	}

	var def *Definition
	operandAt := pc + 1
	if prefix != 0 {
		sub := mem.Read8(pc + 1)
		def = d.Lookup(prefix, sub)
		if def == nil {
			return Instruction{}, &DecodeError{
				Addr:   pc,
				Bytes:  []byte{prefix, sub},
				Reason: ReasonUnknownOpcode,
			}
		}
		operandAt = pc + 2
	} else {
		def = d.table.main[opcode]
		if def == nil {
			return Instruction{}, &DecodeError{
				Addr:   pc,
				Bytes:  []byte{opcode},
				Reason: ReasonUnknownOpcode,
			}
		}
	}

	inst := Instruction{
		Def:    def,
		Index:  index,
		Length: uint16(def.Bytes),
	}
	d.readOperands(&inst, mem, operandAt)
	return inst, nil
}

// readOperands reads the operand bytes of both operands in encoding
// order (destination first). An indexed displacement lands in Disp, an
// immediate or direct address in Imm.
func (d *Decoder) readOperands(inst *Instruction, mem ByteReader, at uint16) {
	for _, o := range [2]Operand{inst.Def.Dst, inst.Def.Src} {
		switch o.Mode {
		case Immediate, PortImmediate:
			inst.Imm = uint16(mem.Read8(at))
			at++
		case Immediate16, Direct:
			inst.Imm = uint16(mem.Read8(at)) | uint16(mem.Read8(at+1))<<8
			at += 2
		case Indexed:
			inst.Disp = int8(mem.Read8(at))
			at++
		}
	}
}

// Validate checks an externally built Instruction before execution.
// The decoder's own tables cannot produce an invalid combination; this
// guards the path where callers feed pre-decoded instructions directly.
func Validate(inst Instruction) error {
	if inst.Def == nil || inst.Def.Op == OpUnknown {
		return &DecodeError{Reason: ReasonUnknownOpcode}
	}
	if inst.Def.Op == OpMove && inst.Def.Dst.IsMemory() && inst.Def.Src.IsMemory() {
		return &DecodeError{
			Bytes:  []byte{inst.Def.Opcode},
			Reason: ReasonIllegalOperands,
		}
	}
	return nil
}
