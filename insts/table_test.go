package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/micro8/insts"
)

var _ = Describe("Opcode tables", func() {
	var (
		z80  *insts.Decoder
		i808 *insts.Decoder
	)

	BeforeEach(func() {
		z80 = insts.NewDecoder(insts.VariantZ80)
		i808 = insts.NewDecoder(insts.VariantI8085)
	})

	It("should place HALT in the move block's memory-to-memory slot", func() {
		for _, d := range []*insts.Decoder{z80, i808} {
			def := d.Lookup(0, 0x76)
			Expect(def).NotTo(BeNil())
			Expect(def.Op).To(Equal(insts.OpHalt))
		}
	})

	It("should keep the shared base encodings aligned across variants", func() {
		// Same operation at the same opcode, different mnemonic dialects.
		shared := map[byte]insts.Op{
			0x00: insts.OpNop,
			0x06: insts.OpMove,
			0x09: insts.OpAdd16,
			0x27: insts.OpDaa,
			0x2F: insts.OpCpl,
			0x76: insts.OpHalt,
			0x80: insts.OpAdd,
			0xC3: insts.OpJump,
			0xC5: insts.OpPush,
			0xC9: insts.OpRet,
			0xCD: insts.OpCall,
			0xD3: insts.OpOut,
			0xDB: insts.OpIn,
			0xE9: insts.OpJump,
			0xEB: insts.OpExchangeDEHL,
			0xF9: insts.OpLoad16,
		}
		for opcode, op := range shared {
			zdef := z80.Lookup(0, opcode)
			idef := i808.Lookup(0, opcode)
			Expect(zdef).NotTo(BeNil(), "z80 opcode 0x%02X", opcode)
			Expect(idef).NotTo(BeNil(), "8085 opcode 0x%02X", opcode)
			Expect(zdef.Op).To(Equal(op))
			Expect(idef.Op).To(Equal(op))
			Expect(zdef.Bytes).To(Equal(idef.Bytes))
		}
	})

	It("should use the 8080 mnemonic dialect for the 8085", func() {
		Expect(i808.Lookup(0, 0x01).Mnemonic).To(Equal("lxi b,**"))
		Expect(i808.Lookup(0, 0x46).Mnemonic).To(Equal("mov b,m"))
		Expect(i808.Lookup(0, 0x80).Mnemonic).To(Equal("add b"))
		Expect(i808.Lookup(0, 0xF5).Mnemonic).To(Equal("push psw"))
		Expect(i808.Lookup(0, 0x76).Mnemonic).To(Equal("hlt"))
	})

	It("should derive instruction lengths from operand modes", func() {
		Expect(z80.Lookup(0, 0x00).Bytes).To(Equal(1))     // nop
		Expect(z80.Lookup(0, 0x3E).Bytes).To(Equal(2))     // ld a,*
		Expect(z80.Lookup(0, 0x21).Bytes).To(Equal(3))     // ld hl,**
		Expect(z80.Lookup(0, 0x32).Bytes).To(Equal(3))     // ld (**),a
		Expect(z80.Lookup(0xED, 0xB0).Bytes).To(Equal(2))  // ldir
		Expect(z80.Lookup(0xDD, 0x21).Bytes).To(Equal(4))  // ld ix,**
		Expect(z80.Lookup(0xDD, 0x36).Bytes).To(Equal(4))  // ld (ix+*),*
		Expect(z80.Lookup(0xDD, 0x86).Bytes).To(Equal(3))  // add a,(ix+*)
	})

	It("should wire the restart vectors", func() {
		for i := 0; i < 8; i++ {
			def := z80.Lookup(0, 0xC7+byte(i)<<3)
			Expect(def).NotTo(BeNil())
			Expect(def.Op).To(Equal(insts.OpRst))
			Expect(def.Vector).To(Equal(byte(i * 8)))
		}
	})

	It("should attach conditions to the conditional rows", func() {
		Expect(z80.Lookup(0, 0xC2).Cond).To(Equal(insts.CondNZ))
		Expect(z80.Lookup(0, 0xCA).Cond).To(Equal(insts.CondZ))
		Expect(z80.Lookup(0, 0xD2).Cond).To(Equal(insts.CondNC))
		Expect(z80.Lookup(0, 0xDA).Cond).To(Equal(insts.CondC))
		Expect(z80.Lookup(0, 0xE2).Cond).To(Equal(insts.CondPO))
		Expect(z80.Lookup(0, 0xEA).Cond).To(Equal(insts.CondPE))
		Expect(z80.Lookup(0, 0xF2).Cond).To(Equal(insts.CondP))
		Expect(z80.Lookup(0, 0xFA).Cond).To(Equal(insts.CondM))

		Expect(z80.Lookup(0, 0xC3).Cond).To(Equal(insts.CondNone))
	})

	It("should give the 8085 no prefix tables", func() {
		Expect(i808.Lookup(0xED, 0xB0)).To(BeNil())
		Expect(i808.Lookup(0xDD, 0x21)).To(BeNil())
	})
})
