package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/micro8/emu"
	"github.com/sarchlab/micro8/insts"
)

var _ = Describe("Block transfers", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator(insts.VariantZ80)
	})

	Describe("LDI", func() {
		It("should copy one byte and advance the pointers", func() {
			// ld hl,0x8000; ld de,0x9000; ld bc,0x0003; ldi; halt
			e.LoadProgram(0x0100, []byte{
				0x21, 0x00, 0x80,
				0x11, 0x00, 0x90,
				0x01, 0x03, 0x00,
				0xED, 0xA0,
				0x76,
			})
			e.Memory().Write8(0x8000, 0x5A)

			e.Run(10)

			Expect(e.Memory().Read8(0x9000)).To(Equal(byte(0x5A)))
			Expect(e.RegFile().Read16(insts.PairHL)).To(Equal(uint16(0x8001)))
			Expect(e.RegFile().Read16(insts.PairDE)).To(Equal(uint16(0x9001)))
			Expect(e.RegFile().Read16(insts.PairBC)).To(Equal(uint16(0x0002)))
			Expect(e.RegFile().Flags.P).To(BeTrue())
		})

		It("should clear P when the counter reaches zero", func() {
			e.LoadProgram(0x0100, []byte{
				0x21, 0x00, 0x80,
				0x11, 0x00, 0x90,
				0x01, 0x01, 0x00,
				0xED, 0xA0,
				0x76,
			})
			e.Run(10)
			Expect(e.RegFile().Flags.P).To(BeFalse())
		})
	})

	Describe("LDD", func() {
		It("should copy one byte and retreat the pointers", func() {
			// ld hl,0x8005; ld de,0x9005; ld bc,0x0002; ldd; halt
			e.LoadProgram(0x0100, []byte{
				0x21, 0x05, 0x80,
				0x11, 0x05, 0x90,
				0x01, 0x02, 0x00,
				0xED, 0xA8,
				0x76,
			})
			e.Memory().Write8(0x8005, 0x33)

			e.Run(10)

			Expect(e.Memory().Read8(0x9005)).To(Equal(byte(0x33)))
			Expect(e.RegFile().Read16(insts.PairHL)).To(Equal(uint16(0x8004)))
			Expect(e.RegFile().Read16(insts.PairDE)).To(Equal(uint16(0x9004)))
			Expect(e.RegFile().Read16(insts.PairBC)).To(Equal(uint16(0x0001)))
		})
	})

	Describe("LDIR", func() {
		It("should copy a whole buffer in a single instruction", func() {
			// ld hl,0x8000; ld de,0x9000; ld bc,100; ldir; halt
			e.LoadProgram(0x0100, []byte{
				0x21, 0x00, 0x80,
				0x11, 0x00, 0x90,
				0x01, 0x64, 0x00,
				0xED, 0xB0,
				0x76,
			})
			for i := 0; i < 100; i++ {
				e.Memory().Write8(0x8000+uint16(i), byte(i))
			}

			result := e.Run(10)

			Expect(result.Outcome).To(Equal(emu.OutcomeHalted))
			Expect(result.Steps).To(Equal(uint64(5)))
			for i := 0; i < 100; i++ {
				Expect(e.Memory().Read8(0x9000 + uint16(i))).To(Equal(byte(i)))
			}
			Expect(e.RegFile().Read16(insts.PairBC)).To(Equal(uint16(0x0000)))
			Expect(e.RegFile().Read16(insts.PairHL)).To(Equal(uint16(0x8064)))
			Expect(e.RegFile().Read16(insts.PairDE)).To(Equal(uint16(0x9064)))
			Expect(e.RegFile().Flags.P).To(BeFalse())
		})

		It("should be a no-op when BC is zero at entry", func() {
			// ld hl,0x8000; ld de,0x9000; ld bc,0; ldir; halt
			e.LoadProgram(0x0100, []byte{
				0x21, 0x00, 0x80,
				0x11, 0x00, 0x90,
				0x01, 0x00, 0x00,
				0xED, 0xB0,
				0x76,
			})
			e.Memory().Write8(0x8000, 0xAA)

			e.Run(10)

			Expect(e.Memory().Read8(0x9000)).To(Equal(byte(0x00)))
			Expect(e.RegFile().Read16(insts.PairHL)).To(Equal(uint16(0x8000)))
			Expect(e.RegFile().Read16(insts.PairDE)).To(Equal(uint16(0x9000)))
			Expect(e.RegFile().Read16(insts.PairBC)).To(Equal(uint16(0x0000)))
		})

		It("should handle overlapping forward copies like repeated single moves", func() {
			// Fill with a byte: mem[0x8000]=0xFF, copy 0x8000..0x8003 to 0x8001..
			e.LoadProgram(0x0100, []byte{
				0x21, 0x00, 0x80,
				0x11, 0x01, 0x80,
				0x01, 0x04, 0x00,
				0xED, 0xB0,
				0x76,
			})
			e.Memory().Write8(0x8000, 0xFF)

			e.Run(10)

			for addr := uint16(0x8000); addr <= 0x8004; addr++ {
				Expect(e.Memory().Read8(addr)).To(Equal(byte(0xFF)))
			}
		})
	})

	Describe("LDDR", func() {
		It("should copy a buffer downward", func() {
			// ld hl,0x8004; ld de,0x9004; ld bc,5; lddr; halt
			e.LoadProgram(0x0100, []byte{
				0x21, 0x04, 0x80,
				0x11, 0x04, 0x90,
				0x01, 0x05, 0x00,
				0xED, 0xB8,
				0x76,
			})
			for i := 0; i < 5; i++ {
				e.Memory().Write8(0x8000+uint16(i), byte(0x10+i))
			}

			e.Run(10)

			for i := 0; i < 5; i++ {
				Expect(e.Memory().Read8(0x9000 + uint16(i))).To(Equal(byte(0x10 + i)))
			}
			Expect(e.RegFile().Read16(insts.PairHL)).To(Equal(uint16(0x7FFF)))
			Expect(e.RegFile().Read16(insts.PairDE)).To(Equal(uint16(0x8FFF)))
			Expect(e.RegFile().Read16(insts.PairBC)).To(Equal(uint16(0x0000)))
		})
	})
})
