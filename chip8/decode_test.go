package chip8_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chip8vm/chip8vm/chip8"
)

var _ = Describe("Decoder", func() {
	Describe("Fetch", func() {
		It("should read the opcode big-endian at PC", func() {
			vm := load(0x61, 0x02)

			opcode, err := vm.Fetch()

			Expect(err).ToNot(HaveOccurred())
			Expect(opcode).To(Equal(uint16(0x6102)))
			Expect(vm.PC).To(Equal(uint16(0x200)), "fetch must not advance PC")
		})

		It("should fail when the opcode runs past the end of memory", func() {
			vm := chip8.New()
			vm.PC = 0xFFF

			_, err := vm.Fetch()

			Expect(errors.Is(err, chip8.ErrAddressOutOfRange)).To(BeTrue())
		})

		It("should read the last full word of memory", func() {
			vm := chip8.New()
			vm.Memory[0xFFE] = 0x12
			vm.Memory[0xFFF] = 0x34
			vm.PC = 0xFFE

			opcode, err := vm.Fetch()

			Expect(err).ToNot(HaveOccurred())
			Expect(opcode).To(Equal(uint16(0x1234)))
		})
	})

	Describe("Decode", func() {
		It("should split out every operand field", func() {
			inst, err := chip8.Decode(0xD12F)

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(chip8.OpDRW))
			Expect(inst.Opcode).To(Equal(uint16(0xD12F)))
			Expect(inst.X).To(Equal(byte(0x1)))
			Expect(inst.Y).To(Equal(byte(0x2)))
			Expect(inst.N).To(Equal(byte(0xF)))
			Expect(inst.Byte).To(Equal(byte(0x2F)))
			Expect(inst.Address).To(Equal(uint16(0x12F)))
		})

		It("should decode every instruction group", func() {
			cases := map[uint16]chip8.Op{
				0x00E0: chip8.OpCLS,
				0x00EE: chip8.OpRET,
				0x1234: chip8.OpJP,
				0x2345: chip8.OpCALL,
				0x3A12: chip8.OpSEByte,
				0x4A12: chip8.OpSNEByte,
				0x5AB0: chip8.OpSEReg,
				0x6A12: chip8.OpLDByte,
				0x7A12: chip8.OpADDByte,
				0x8AB0: chip8.OpLDReg,
				0x8AB1: chip8.OpOR,
				0x8AB2: chip8.OpAND,
				0x8AB3: chip8.OpXOR,
				0x8AB4: chip8.OpADDReg,
				0x8AB5: chip8.OpSUB,
				0x8AB6: chip8.OpSHR,
				0x8AB7: chip8.OpSUBN,
				0x8ABE: chip8.OpSHL,
				0x9AB0: chip8.OpSNEReg,
				0xA123: chip8.OpLDI,
				0xB123: chip8.OpJPV0,
				0xCA0F: chip8.OpRND,
				0xDAB5: chip8.OpDRW,
				0xEA9E: chip8.OpSKP,
				0xEAA1: chip8.OpSKNP,
				0xFA07: chip8.OpLDVxDT,
				0xFA0A: chip8.OpLDVxK,
				0xFA15: chip8.OpLDDTVx,
				0xFA18: chip8.OpLDSTVx,
				0xFA1E: chip8.OpADDI,
				0xFA29: chip8.OpLDF,
				0xFA33: chip8.OpLDB,
				0xFA55: chip8.OpLDIVx,
				0xFA65: chip8.OpLDVxI,
			}

			for opcode, op := range cases {
				inst, err := chip8.Decode(opcode)
				Expect(err).ToNot(HaveOccurred(), "opcode %04X", opcode)
				Expect(inst.Op).To(Equal(op), "opcode %04X", opcode)
			}
		})

		It("should reject unknown secondary codes", func() {
			invalid := []uint16{
				0x0000, 0x0123, 0x00E1, 0x00FF, 0x0F12,
				0x8AB8, 0x8ABD, 0x8ABF,
				0xEA00, 0xEA9F,
				0xFA00, 0xFA08, 0xFA30, 0xFA75, 0xFAFF,
			}

			for _, opcode := range invalid {
				_, err := chip8.Decode(opcode)

				var decodeErr *chip8.DecodeError
				Expect(errors.As(err, &decodeErr)).To(BeTrue(), "opcode %04X", opcode)
				Expect(decodeErr.Opcode).To(Equal(opcode))
				Expect(errors.Is(err, chip8.ErrInvalidOpcode)).To(BeTrue())
			}
		})

		It("should dispatch group 0 on the low byte only", func() {
			cases := map[uint16]chip8.Op{
				0x01E0: chip8.OpCLS,
				0x0FE0: chip8.OpCLS,
				0x0FEE: chip8.OpRET,
				0x0AEE: chip8.OpRET,
			}

			for opcode, op := range cases {
				inst, err := chip8.Decode(opcode)
				Expect(err).ToNot(HaveOccurred(), "opcode %04X", opcode)
				Expect(inst.Op).To(Equal(op), "opcode %04X", opcode)
			}
		})

		It("should ignore the low nibble of register compares", func() {
			for n := uint16(0); n <= 0xF; n++ {
				inst, err := chip8.Decode(0x5120 | n)
				Expect(err).ToNot(HaveOccurred(), "opcode %04X", 0x5120|n)
				Expect(inst.Op).To(Equal(chip8.OpSEReg))

				inst, err = chip8.Decode(0x9120 | n)
				Expect(err).ToNot(HaveOccurred(), "opcode %04X", 0x9120|n)
				Expect(inst.Op).To(Equal(chip8.OpSNEReg))
			}
		})
	})

	Describe("Op", func() {
		It("should share mnemonics between operand forms", func() {
			Expect(chip8.OpLDByte.Mnemonic()).To(Equal("LD"))
			Expect(chip8.OpLDVxI.Mnemonic()).To(Equal("LD"))
			Expect(chip8.OpSUBN.Mnemonic()).To(Equal("SUBN"))
			Expect(chip8.Op(0xFF).Mnemonic()).To(Equal("??"))
		})
	})
})
