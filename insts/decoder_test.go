package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/micro8/insts"
)

// memImage is a tiny ByteReader backed by a program placed at an origin.
type memImage struct {
	origin uint16
	data   []byte
}

func (m memImage) Read8(addr uint16) byte {
	offset := addr - m.origin
	if int(offset) >= len(m.data) {
		return 0
	}
	return m.data[offset]
}

var _ = Describe("Decoder", func() {
	Describe("Z80 variant", func() {
		var d *insts.Decoder

		BeforeEach(func() {
			d = insts.NewDecoder(insts.VariantZ80)
		})

		It("should decode single-byte instructions", func() {
			mem := memImage{origin: 0x0100, data: []byte{0x00}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Op).To(Equal(insts.OpNop))
			Expect(inst.Length).To(Equal(uint16(1)))
		})

		It("should decode an 8-bit immediate", func() {
			mem := memImage{origin: 0x0100, data: []byte{0x3E, 0x42}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Mnemonic).To(Equal("ld a,*"))
			Expect(inst.Imm).To(Equal(uint16(0x42)))
			Expect(inst.Length).To(Equal(uint16(2)))
		})

		It("should decode a 16-bit immediate little-endian", func() {
			mem := memImage{origin: 0x0100, data: []byte{0x21, 0x34, 0x12}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Mnemonic).To(Equal("ld hl,**"))
			Expect(inst.Imm).To(Equal(uint16(0x1234)))
			Expect(inst.Length).To(Equal(uint16(3)))
		})

		It("should decode ED-prefixed block transfers", func() {
			mem := memImage{origin: 0x0100, data: []byte{0xED, 0xB0}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Op).To(Equal(insts.OpBlockLoadIncRepeat))
			Expect(inst.Length).To(Equal(uint16(2)))
		})

		It("should decode an indexed store with displacement and immediate", func() {
			// ld (ix-2),0x99
			mem := memImage{origin: 0x0100, data: []byte{0xDD, 0x36, 0xFE, 0x99}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Op).To(Equal(insts.OpMove))
			Expect(inst.Index).To(Equal(insts.PairIX))
			Expect(inst.Disp).To(Equal(int8(-2)))
			Expect(inst.Imm).To(Equal(uint16(0x99)))
			Expect(inst.Length).To(Equal(uint16(4)))
		})

		It("should record IY for the FD prefix", func() {
			mem := memImage{origin: 0x0100, data: []byte{0xFD, 0x86, 0x05}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Op).To(Equal(insts.OpAdd))
			Expect(inst.Index).To(Equal(insts.PairIY))
			Expect(inst.Disp).To(Equal(int8(5)))
		})

		It("should report an unknown prefixed opcode with both bytes", func() {
			mem := memImage{origin: 0x0100, data: []byte{0xED, 0x00}}

			_, err := d.DecodeAt(mem, 0x0100)

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Addr).To(Equal(uint16(0x0100)))
			Expect(decodeErr.Bytes).To(Equal([]byte{0xED, 0x00}))
			Expect(decodeErr.Reason).To(Equal(insts.ReasonUnknownOpcode))
		})

		It("should cover the whole base page except prefixes and interrupts", func() {
			unassigned := map[byte]bool{
				0xCB: true, // bit operation prefix, not modeled
				0xDD: true, // IX prefix
				0xED: true, // extended prefix
				0xFD: true, // IY prefix
				0xF3: true, // di, interrupts not modeled
				0xFB: true, // ei
			}
			for opcode := 0; opcode <= 0xFF; opcode++ {
				def := d.Lookup(0, byte(opcode))
				if unassigned[byte(opcode)] {
					Expect(def).To(BeNil(), "opcode 0x%02X should be unassigned", opcode)
				} else {
					Expect(def).NotTo(BeNil(), "opcode 0x%02X missing", opcode)
				}
			}
		})
	})

	Describe("8085 variant", func() {
		var d *insts.Decoder

		BeforeEach(func() {
			d = insts.NewDecoder(insts.VariantI8085)
		})

		It("should decode the shared base encodings with 8080 mnemonics", func() {
			mem := memImage{origin: 0x0100, data: []byte{0x3E, 0x42}}

			inst, err := d.DecodeAt(mem, 0x0100)

			Expect(err).To(BeNil())
			Expect(inst.Def.Mnemonic).To(Equal("mvi a,*"))
			Expect(inst.Imm).To(Equal(uint16(0x42)))
		})

		It("should not treat prefix bytes as prefixes", func() {
			for _, opcode := range []byte{0xDD, 0xED, 0xFD} {
				mem := memImage{origin: 0x0100, data: []byte{opcode, 0x44}}

				_, err := d.DecodeAt(mem, 0x0100)

				var decodeErr *insts.DecodeError
				Expect(errors.As(err, &decodeErr)).To(BeTrue())
				Expect(decodeErr.Bytes).To(Equal([]byte{opcode}))
			}
		})

		It("should reject the Z80-only base opcodes", func() {
			for _, opcode := range []byte{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0xD9} {
				mem := memImage{origin: 0x0100, data: []byte{opcode}}

				_, err := d.DecodeAt(mem, 0x0100)

				var decodeErr *insts.DecodeError
				Expect(errors.As(err, &decodeErr)).To(BeTrue(),
					"opcode 0x%02X should not decode", opcode)
			}
		})
	})

	Describe("Validate", func() {
		It("should reject an instruction without a definition", func() {
			err := insts.Validate(insts.Instruction{})

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})

		It("should reject a memory-to-memory move", func() {
			def := &insts.Definition{
				Mnemonic: "ld (hl),(hl)",
				Op:       insts.OpMove,
				Dst:      insts.Operand{Mode: insts.RegisterIndirect, Pair: insts.PairHL},
				Src:      insts.Operand{Mode: insts.RegisterIndirect, Pair: insts.PairHL},
				Bytes:    1,
			}

			err := insts.Validate(insts.Instruction{Def: def, Length: 1})

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Reason).To(Equal(insts.ReasonIllegalOperands))
		})

		It("should accept a decoded instruction", func() {
			d := insts.NewDecoder(insts.VariantZ80)
			mem := memImage{origin: 0, data: []byte{0x78}} // ld a,b

			inst, err := d.DecodeAt(mem, 0)
			Expect(err).To(BeNil())
			Expect(insts.Validate(inst)).To(BeNil())
		})
	})
})
