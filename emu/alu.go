package emu

import (
	"math/bits"

	"github.com/sarchlab/micro8/insts"
)

// ALU implements the 8-bit arithmetic and logic primitives as pure
// functions from operands (and the incoming flags where an operation
// consumes them) to a result and a complete new flag set. The variant
// selects the parity-versus-overflow rule for the P flag position.
type ALU struct {
	variant insts.Variant
}

// NewALU creates an ALU for the given variant.
func NewALU(v insts.Variant) *ALU {
	return &ALU{variant: v}
}

// parity reports even parity: true iff the value has an even number of
// set bits.
func parity(v byte) bool {
	return bits.OnesCount8(v)%2 == 0
}

// pFlag computes the P-position flag: parity of the result on the 8085,
// the provided signed-overflow value on the Z80.
func (a *ALU) pFlag(result byte, overflow bool) bool {
	if a.variant == insts.VariantZ80 {
		return overflow
	}
	return parity(result)
}

// Add returns x+y and the full flag set.
func (a *ALU) Add(x, y byte) (byte, Flags) {
	return a.addCore(x, y, 0)
}

// Adc returns x+y+carry and the full flag set.
func (a *ALU) Adc(x, y byte, carry bool) (byte, Flags) {
	var c byte
	if carry {
		c = 1
	}
	return a.addCore(x, y, c)
}

func (a *ALU) addCore(x, y, c byte) (byte, Flags) {
	sum := uint16(x) + uint16(y) + uint16(c)
	result := byte(sum)
	// Signed overflow: both operands share a sign the result does not.
	overflow := (^(x^y))&(x^result)&0x80 != 0
	return result, Flags{
		S: result&0x80 != 0,
		Z: result == 0,
		H: (x&0x0F)+(y&0x0F)+c > 0x0F,
		P: a.pFlag(result, overflow),
		N: false,
		C: sum > 0xFF,
	}
}

// Sub returns x-y and the full flag set. Carry set means a borrow
// occurred (unsigned x < y).
func (a *ALU) Sub(x, y byte) (byte, Flags) {
	return a.subCore(x, y, 0)
}

// Sbc returns x-y-borrow and the full flag set.
func (a *ALU) Sbc(x, y byte, borrow bool) (byte, Flags) {
	var b byte
	if borrow {
		b = 1
	}
	return a.subCore(x, y, b)
}

func (a *ALU) subCore(x, y, b byte) (byte, Flags) {
	diff := uint16(x) - uint16(y) - uint16(b)
	result := byte(diff)
	overflow := (x^y)&(x^result)&0x80 != 0
	return result, Flags{
		S: result&0x80 != 0,
		Z: result == 0,
		H: x&0x0F < y&0x0F+b,
		P: a.pFlag(result, overflow),
		N: true,
		C: diff > 0xFF, // borrow
	}
}

// Compare computes the Sub flag set of x-y and discards the result.
func (a *ALU) Compare(x, y byte) Flags {
	_, f := a.subCore(x, y, 0)
	return f
}

// Inc returns x+1. By architecture convention the Carry flag passes
// through untouched; every other flag follows the add rule.
func (a *ALU) Inc(x byte, in Flags) (byte, Flags) {
	result, f := a.addCore(x, 1, 0)
	f.C = in.C
	return result, f
}

// Dec returns x-1. Carry passes through untouched.
func (a *ALU) Dec(x byte, in Flags) (byte, Flags) {
	result, f := a.subCore(x, 1, 0)
	f.C = in.C
	return result, f
}

// And returns x&y. Carry and half-carry are forced clear; P is parity of
// the result on both variants.
func (a *ALU) And(x, y byte) (byte, Flags) {
	return logicFlags(x & y)
}

// Or returns x|y with the logic flag rule.
func (a *ALU) Or(x, y byte) (byte, Flags) {
	return logicFlags(x | y)
}

// Xor returns x^y with the logic flag rule.
func (a *ALU) Xor(x, y byte) (byte, Flags) {
	return logicFlags(x ^ y)
}

func logicFlags(result byte) (byte, Flags) {
	return result, Flags{
		S: result&0x80 != 0,
		Z: result == 0,
		P: parity(result),
	}
}

// Add16 returns x+y modulo 2^16. On the Z80 the Carry comes from bit 15
// and the half-carry from bit 11 while Sign/Zero/P pass through; the
// 8085 form (DAD) updates Carry only.
func (a *ALU) Add16(x, y uint16, in Flags) (uint16, Flags) {
	sum := uint32(x) + uint32(y)
	f := in
	f.C = sum > 0xFFFF
	if a.variant == insts.VariantZ80 {
		f.H = (x&0x0FFF)+(y&0x0FFF) > 0x0FFF
		f.N = false
	}
	return uint16(sum), f
}

// Daa applies the BCD correction after an addition: add 6 to the low
// nibble if it exceeds 9 or half-carry is set, then add 0x60 if the
// (possibly corrected) high nibble exceeds 9 or carry is set. The new
// Carry is the OR of the incoming carry with any carry the corrections
// produce. The adjustment is mechanical: bytes that were never valid BCD
// are corrected all the same.
func (a *ALU) Daa(x byte, in Flags) (byte, Flags) {
	v := uint16(x)
	half := false
	if byte(v)&0x0F > 9 || in.H {
		half = (x&0x0F)+0x06 > 0x0F
		v += 0x06
	}
	if byte(v)>>4 > 9 || in.C || v > 0xFF {
		v += 0x60
	}
	result := byte(v)
	return result, Flags{
		S: result&0x80 != 0,
		Z: result == 0,
		H: half,
		P: parity(result),
		N: in.N,
		C: in.C || v > 0xFF,
	}
}

// Neg returns 0-x with the Sub flag rule (Z80 NEG).
func (a *ALU) Neg(x byte) (byte, Flags) {
	return a.subCore(0, x, 0)
}

// Rlca rotates left circular: bit 7 to bit 0 and to Carry. Only Carry
// (and, on the Z80, H and N) change; Sign/Zero/P pass through.
func (a *ALU) Rlca(x byte, in Flags) (byte, Flags) {
	result := x<<1 | x>>7
	return result, a.rotateFlags(in, x&0x80 != 0)
}

// Rrca rotates right circular: bit 0 to bit 7 and to Carry.
func (a *ALU) Rrca(x byte, in Flags) (byte, Flags) {
	result := x>>1 | x<<7
	return result, a.rotateFlags(in, x&0x01 != 0)
}

// Rla rotates left through Carry: the old Carry enters bit 0.
func (a *ALU) Rla(x byte, in Flags) (byte, Flags) {
	result := x << 1
	if in.C {
		result |= 0x01
	}
	return result, a.rotateFlags(in, x&0x80 != 0)
}

// Rra rotates right through Carry: the old Carry enters bit 7.
func (a *ALU) Rra(x byte, in Flags) (byte, Flags) {
	result := x >> 1
	if in.C {
		result |= 0x80
	}
	return result, a.rotateFlags(in, x&0x01 != 0)
}

func (a *ALU) rotateFlags(in Flags, carry bool) Flags {
	f := in
	f.C = carry
	if a.variant == insts.VariantZ80 {
		f.H = false
		f.N = false
	}
	return f
}

// Scf sets Carry. The Z80 form also clears H and N.
func (a *ALU) Scf(in Flags) Flags {
	f := in
	f.C = true
	if a.variant == insts.VariantZ80 {
		f.H = false
		f.N = false
	}
	return f
}

// Ccf complements Carry. The Z80 form copies the old Carry into H and
// clears N; the 8085 form touches Carry only.
func (a *ALU) Ccf(in Flags) Flags {
	f := in
	f.C = !in.C
	if a.variant == insts.VariantZ80 {
		f.H = in.C
		f.N = false
	}
	return f
}
