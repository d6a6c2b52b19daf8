package emu

import "github.com/sarchlab/micro8/insts"

// Flags holds the condition flags as individual bits. The F register
// byte is only materialized when an instruction observes it (PUSH AF,
// the inspection surface) via Pack.
type Flags struct {
	// S is the sign flag: bit 7 of the last flag-affecting result.
	S bool
	// Z is the zero flag.
	Z bool
	// H is the half (auxiliary) carry flag: carry out of bit 3.
	H bool
	// P is the parity flag; on the Z80 it reports signed overflow for
	// arithmetic operations instead.
	P bool
	// N is the Z80 add/subtract flag. Unused on the 8085.
	N bool
	// C is the carry flag.
	C bool
}

// F register bit positions, shared by both machines.
const (
	flagBitC = 1 << 0
	flagBitN = 1 << 1 // Z80 only
	flagBitP = 1 << 2
	flagBitH = 1 << 4
	flagBitZ = 1 << 6
	flagBitS = 1 << 7

	// The 8085 F register carries fixed values in the unused positions:
	// bit 1 reads as 1, bits 3 and 5 as 0.
	i8085FixedBits = 1 << 1
)

// Pack materializes the F register byte for a variant.
func (f Flags) Pack(v insts.Variant) byte {
	var b byte
	if f.S {
		b |= flagBitS
	}
	if f.Z {
		b |= flagBitZ
	}
	if f.H {
		b |= flagBitH
	}
	if f.P {
		b |= flagBitP
	}
	if f.C {
		b |= flagBitC
	}
	if v == insts.VariantI8085 {
		return b | i8085FixedBits
	}
	if f.N {
		b |= flagBitN
	}
	return b
}

// UnpackFlags rebuilds a Flags value from an F register byte.
func UnpackFlags(b byte, v insts.Variant) Flags {
	f := Flags{
		S: b&flagBitS != 0,
		Z: b&flagBitZ != 0,
		H: b&flagBitH != 0,
		P: b&flagBitP != 0,
		C: b&flagBitC != 0,
	}
	if v == insts.VariantZ80 {
		f.N = b&flagBitN != 0
	}
	return f
}

// RegFile is the register file: the eight general 8-bit cells, the flag
// bits, the 16-bit SP/PC, and on the Z80 variant the IX/IY index
// registers and a shadow bank of the 8-bit set.
type RegFile struct {
	A, B, C, D, E, H, L byte
	Flags               Flags

	// Shadow bank (Z80). Swapped wholesale by the exchange operations.
	A2, B2, C2, D2, E2, H2, L2 byte
	Flags2                     Flags

	IX, IY uint16
	SP     uint16
	PC     uint16

	variant insts.Variant
}

// NewRegFile creates a zeroed register file for a variant. The variant
// fixes the F register packing.
func NewRegFile(v insts.Variant) *RegFile {
	return &RegFile{variant: v}
}

// Variant returns the register file's architecture variant.
func (r *RegFile) Variant() insts.Variant {
	return r.variant
}

// F returns the packed flag byte.
func (r *RegFile) F() byte {
	return r.Flags.Pack(r.variant)
}

// SetF replaces the flags from a packed byte.
func (r *RegFile) SetF(b byte) {
	r.Flags = UnpackFlags(b, r.variant)
}

// Read8 reads a named 8-bit register.
func (r *RegFile) Read8(reg insts.Reg) byte {
	switch reg {
	case insts.RegA:
		return r.A
	case insts.RegB:
		return r.B
	case insts.RegC:
		return r.C
	case insts.RegD:
		return r.D
	case insts.RegE:
		return r.E
	case insts.RegH:
		return r.H
	case insts.RegL:
		return r.L
	case insts.RegF:
		return r.F()
	}
	return 0
}

// Write8 writes a named 8-bit register. Writes to unknown registers are
// ignored.
func (r *RegFile) Write8(reg insts.Reg, value byte) {
	switch reg {
	case insts.RegA:
		r.A = value
	case insts.RegB:
		r.B = value
	case insts.RegC:
		r.C = value
	case insts.RegD:
		r.D = value
	case insts.RegE:
		r.E = value
	case insts.RegH:
		r.H = value
	case insts.RegL:
		r.L = value
	case insts.RegF:
		r.SetF(value)
	}
}

// Read16 reads a 16-bit pair as the big-endian concatenation of its two
// halves (high register in bits 15-8).
func (r *RegFile) Read16(p insts.Pair) uint16 {
	switch p {
	case insts.PairAF:
		return uint16(r.A)<<8 | uint16(r.F())
	case insts.PairBC:
		return uint16(r.B)<<8 | uint16(r.C)
	case insts.PairDE:
		return uint16(r.D)<<8 | uint16(r.E)
	case insts.PairHL:
		return uint16(r.H)<<8 | uint16(r.L)
	case insts.PairSP:
		return r.SP
	case insts.PairIX:
		return r.IX
	case insts.PairIY:
		return r.IY
	}
	return 0
}

// Write16 writes a 16-bit pair.
func (r *RegFile) Write16(p insts.Pair, value uint16) {
	hi, lo := byte(value>>8), byte(value)
	switch p {
	case insts.PairAF:
		r.A = hi
		r.SetF(lo)
	case insts.PairBC:
		r.B, r.C = hi, lo
	case insts.PairDE:
		r.D, r.E = hi, lo
	case insts.PairHL:
		r.H, r.L = hi, lo
	case insts.PairSP:
		r.SP = value
	case insts.PairIX:
		r.IX = value
	case insts.PairIY:
		r.IY = value
	}
}

// IncPair increments a pair, wrapping modulo 2^16. Flags are untouched.
func (r *RegFile) IncPair(p insts.Pair) {
	r.Write16(p, r.Read16(p)+1)
}

// DecPair decrements a pair, wrapping modulo 2^16. Flags are untouched.
func (r *RegFile) DecPair(p insts.Pair) {
	r.Write16(p, r.Read16(p)-1)
}

// ExchangeAF swaps A and the flags with their shadow counterparts in one
// state transition.
func (r *RegFile) ExchangeAF() {
	r.A, r.A2 = r.A2, r.A
	r.Flags, r.Flags2 = r.Flags2, r.Flags
}

// ExchangeShadow swaps BC, DE and HL with the shadow bank in one state
// transition.
func (r *RegFile) ExchangeShadow() {
	r.B, r.B2 = r.B2, r.B
	r.C, r.C2 = r.C2, r.C
	r.D, r.D2 = r.D2, r.D
	r.E, r.E2 = r.E2, r.E
	r.H, r.H2 = r.H2, r.H
	r.L, r.L2 = r.L2, r.L
}

// ExchangeDEHL swaps the DE and HL pairs.
func (r *RegFile) ExchangeDEHL() {
	r.D, r.H = r.H, r.D
	r.E, r.L = r.L, r.E
}
