package chip8_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chip8vm/chip8vm/chip8"
)

var _ = Describe("Instruction Set", func() {
	Describe("Arithmetic", func() {
		It("should set VF on ADD carry", func() {
			vm := load(0x80, 0x14) // ADD V0, V1
			vm.V[0] = 0xFF
			vm.V[1] = 0x02

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x01)))
			Expect(vm.V[0xF]).To(Equal(byte(1)))
			Expect(vm.PC).To(Equal(uint16(0x202)))
		})

		It("should clear VF on ADD without carry", func() {
			vm := load(0x80, 0x14)
			vm.V[0] = 0x10
			vm.V[1] = 0x20
			vm.V[0xF] = 1

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x30)))
			Expect(vm.V[0xF]).To(Equal(byte(0)))
		})

		It("should leave VF alone on ADD with a byte", func() {
			vm := load(0x70, 0x02) // ADD V0, #02
			vm.V[0] = 0xFF
			vm.V[0xF] = 7

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x01)))
			Expect(vm.V[0xF]).To(Equal(byte(7)))
		})

		It("should clear VF on SUB borrow", func() {
			vm := load(0x80, 0x15) // SUB V0, V1
			vm.V[0] = 0x01
			vm.V[1] = 0x02

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0xFF)))
			Expect(vm.V[0xF]).To(Equal(byte(0)))
		})

		It("should set VF on SUB of equal values", func() {
			vm := load(0x80, 0x15)
			vm.V[0] = 0x42
			vm.V[1] = 0x42

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0)))
			Expect(vm.V[0xF]).To(Equal(byte(1)))
		})

		It("should compute SUBN as Vy - Vx", func() {
			vm := load(0x80, 0x17) // SUBN V0, V1
			vm.V[0] = 0x02
			vm.V[1] = 0x05

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x03)))
			Expect(vm.V[0xF]).To(Equal(byte(1)))
		})

		It("should clear VF on SUBN when Vy is not greater", func() {
			vm := load(0x80, 0x17)
			vm.V[0] = 0x05
			vm.V[1] = 0x05

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0)))
			Expect(vm.V[0xF]).To(Equal(byte(0)))
		})

		It("should shift right into VF", func() {
			vm := load(0x80, 0x06) // SHR V0
			vm.V[0] = 0x03

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x01)))
			Expect(vm.V[0xF]).To(Equal(byte(1)))
		})

		It("should shift left into VF", func() {
			vm := load(0x80, 0x0E) // SHL V0
			vm.V[0] = 0x81

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x02)))
			Expect(vm.V[0xF]).To(Equal(byte(1)))
		})

		It("should ignore Vy on shifts", func() {
			vm := load(0x80, 0x16) // SHR V0, V1
			vm.V[0] = 0x04
			vm.V[1] = 0xFF

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x02)))
			Expect(vm.V[0xF]).To(Equal(byte(0)))
		})

		It("should apply bitwise operations without touching VF", func() {
			vm := load(
				0x80, 0x11, // OR V0, V1
				0x82, 0x32, // AND V2, V3
				0x84, 0x53, // XOR V4, V5
			)
			vm.V[0], vm.V[1] = 0xF0, 0x0F
			vm.V[2], vm.V[3] = 0xF0, 0x3C
			vm.V[4], vm.V[5] = 0xFF, 0x0F
			vm.V[0xF] = 9

			step(vm, 3)

			Expect(vm.V[0]).To(Equal(byte(0xFF)))
			Expect(vm.V[2]).To(Equal(byte(0x30)))
			Expect(vm.V[4]).To(Equal(byte(0xF0)))
			Expect(vm.V[0xF]).To(Equal(byte(9)))
		})

		Context("when VF is the destination", func() {
			It("should keep the carry over the sum on ADD", func() {
				vm := load(0x8F, 0x04) // ADD VF, V0
				vm.V[0xF] = 0xFF
				vm.V[0] = 0x02

				step(vm, 1)

				Expect(vm.V[0xF]).To(Equal(byte(1)))
			})

			It("should shift the flag it just wrote on SHR", func() {
				vm := load(0x8F, 0x06) // SHR VF
				vm.V[0xF] = 0x05

				step(vm, 1)

				// VF = 5&1 = 1, then 1>>1
				Expect(vm.V[0xF]).To(Equal(byte(0)))
			})

			It("should shift the flag it just wrote on SHL", func() {
				vm := load(0x8F, 0x0E) // SHL VF
				vm.V[0xF] = 0x81

				step(vm, 1)

				Expect(vm.V[0xF]).To(Equal(byte(2)))
			})
		})
	})

	Describe("Loads", func() {
		It("should load bytes and registers", func() {
			vm := load(
				0x6A, 0x42, // LD VA, #42
				0x8B, 0xA0, // LD VB, VA
				0xA1, 0x23, // LD I, #123
			)

			step(vm, 3)

			Expect(vm.V[0xA]).To(Equal(byte(0x42)))
			Expect(vm.V[0xB]).To(Equal(byte(0x42)))
			Expect(vm.I).To(Equal(uint16(0x123)))
		})

		It("should store BCD digits at I", func() {
			vm := load(0xF0, 0x33) // LD B, V0
			vm.V[0] = 234
			vm.I = 0x300

			step(vm, 1)

			Expect(vm.Memory[0x300:0x303]).To(Equal([]byte{2, 3, 4}))
			Expect(vm.I).To(Equal(uint16(0x300)))
		})

		It("should point I at the font glyph", func() {
			vm := load(0xF0, 0x29) // LD F, V0
			vm.V[0] = 0x0A

			step(vm, 1)

			Expect(vm.I).To(Equal(uint16(0x082)))
			Expect(vm.I).To(Equal(chip8.GlyphAddress(0xA)))
			Expect(vm.Memory[vm.I : vm.I+5]).To(Equal([]byte{0xF0, 0x90, 0xF0, 0x90, 0x90}))
		})

		It("should use only the low nibble for the font glyph", func() {
			vm := load(0xF0, 0x29)
			vm.V[0] = 0x1F

			step(vm, 1)

			Expect(vm.I).To(Equal(chip8.GlyphAddress(0xF)))
		})

		It("should store and load registers through I", func() {
			vm := load(
				0xF3, 0x55, // LD [I], V3
				0xF3, 0x65, // LD V3, [I]
			)
			vm.V = [16]byte{1, 2, 3, 4, 5}
			vm.I = 0x400

			step(vm, 1)

			Expect(vm.Memory[0x400:0x405]).To(Equal([]byte{1, 2, 3, 4, 0}))
			Expect(vm.I).To(Equal(uint16(0x400)))

			vm.V = [16]byte{}
			step(vm, 1)

			Expect(vm.V[:5]).To(Equal([]byte{1, 2, 3, 4, 0}))
		})

		It("should wrap I on ADD I, Vx", func() {
			vm := load(0xF0, 0x1E) // ADD I, V0
			vm.I = 0xFFFF
			vm.V[0] = 2

			step(vm, 1)

			Expect(vm.I).To(Equal(uint16(0x0001)))
		})

		It("should move values between registers and timers", func() {
			vm := load(
				0xF0, 0x15, // LD DT, V0
				0xF1, 0x18, // LD ST, V1
				0xF2, 0x07, // LD V2, DT
			)
			vm.V[0] = 10
			vm.V[1] = 20

			step(vm, 3)

			// DT was set to 10, then ticked by cycles 1 and 2 before the read
			Expect(vm.V[2]).To(Equal(byte(8)))
			Expect(vm.DT).To(Equal(byte(7)))
			Expect(vm.ST).To(Equal(byte(18)))
		})

		It("should mask RND with its operand", func() {
			vm := chip8.New(chip8.WithRandom(chip8.FixedRandom(0xAB)))
			Expect(vm.LoadROM([]byte{0xC0, 0x0F})).To(Succeed()) // RND V0, #0F

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x0B)))
		})

		It("should use the fixed random stub by default", func() {
			vm := load(0xC0, 0xFF)

			step(vm, 1)

			Expect(vm.V[0]).To(Equal(byte(0x01)))
		})
	})

	Describe("Flow control", func() {
		It("should jump", func() {
			vm := load(0x13, 0x45)

			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x345)))
		})

		It("should jump relative to V0", func() {
			vm := load(0xB3, 0x00)
			vm.V[0] = 0x10

			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x310)))
		})

		It("should round trip CALL and RET at every depth", func() {
			for depth := 0; depth < chip8.StackSize; depth++ {
				vm := load(0x22, 0x04, 0x00, 0x00, 0x00, 0xEE) // CALL #204; ...; RET
				vm.SP = uint8(depth)

				step(vm, 1)

				Expect(vm.PC).To(Equal(uint16(0x204)))
				Expect(vm.SP).To(Equal(uint8(depth + 1)))
				Expect(vm.Stack[depth]).To(Equal(uint16(0x202)))

				step(vm, 1)

				Expect(vm.PC).To(Equal(uint16(0x202)))
				Expect(vm.SP).To(Equal(uint8(depth)))
			}
		})

		It("should fail CALL with a full stack", func() {
			vm := load(0x22, 0x00)
			vm.SP = chip8.StackSize

			err := vm.Step()

			Expect(errors.Is(err, chip8.ErrStackOverflow)).To(BeTrue())
			Expect(vm.PC).To(Equal(uint16(0x200)))
			Expect(vm.SP).To(Equal(uint8(chip8.StackSize)))
		})

		It("should fail RET with an empty stack", func() {
			vm := load(0x00, 0xEE)

			err := vm.Step()

			Expect(errors.Is(err, chip8.ErrStackUnderflow)).To(BeTrue())
		})

		It("should skip on SE and SNE", func() {
			vm := load(
				0x30, 0x05, // SE V0, #05
				0x00, 0x00,
				0x40, 0x05, // SNE V0, #05
				0x50, 0x10, // SE V0, V1
				0x00, 0x00,
				0x90, 0x10, // SNE V0, V1
			)
			vm.V[0] = 5
			vm.V[1] = 5

			step(vm, 1)
			Expect(vm.PC).To(Equal(uint16(0x204)))

			step(vm, 1)
			Expect(vm.PC).To(Equal(uint16(0x206)))

			step(vm, 1)
			Expect(vm.PC).To(Equal(uint16(0x20A)))

			step(vm, 1)
			Expect(vm.PC).To(Equal(uint16(0x20C)))
		})

		It("should run register compares with any low nibble", func() {
			vm := load(
				0x50, 0x17, // SE V0, V1 (n=7)
				0x00, 0x00,
				0x90, 0x1F, // SNE V0, V1 (n=F)
			)
			vm.V[0] = 5
			vm.V[1] = 5

			step(vm, 2)

			Expect(vm.Halted()).To(BeNil())
			Expect(vm.PC).To(Equal(uint16(0x206)))
		})

		It("should run CLS and RET with a nonzero middle nibble", func() {
			vm := load(
				0x22, 0x04, // CALL #204
				0x00, 0x00,
				0x01, 0xE0, // CLS
				0x0F, 0xEE, // RET
			)
			vm.Video[0] = 1

			step(vm, 3)

			Expect(vm.Halted()).To(BeNil())
			Expect(vm.Pixel(0, 0)).To(BeFalse())
			Expect(vm.PC).To(Equal(uint16(0x202)))
		})
	})

	Describe("Keypad", func() {
		It("should skip on SKP when the key is pressed", func() {
			vm := load(0xE0, 0x9E)
			vm.V[0] = 0x7
			vm.PressKey(0x7)

			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x204)))
		})

		It("should skip on SKNP when the key is released", func() {
			vm := load(0xE0, 0xA1)
			vm.V[0] = 0x7

			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x204)))
		})

		It("should halt when Vx names no key", func() {
			for _, opcode := range []byte{0x9E, 0xA1} {
				vm := load(0xE0, opcode) // SKP V0 / SKNP V0
				vm.V[0] = 0x13
				vm.PressKey(0x3)

				err := vm.Step()

				var keyErr *chip8.KeyError
				Expect(errors.As(err, &keyErr)).To(BeTrue())
				Expect(keyErr.Key).To(Equal(byte(0x13)))
				Expect(errors.Is(err, chip8.ErrInvalidKey)).To(BeTrue())
				Expect(vm.PC).To(Equal(uint16(0x200)))
				Expect(vm.Halted()).ToNot(BeNil())
			}
		})

		It("should rewind while waiting for a key", func() {
			vm := load(0xF0, 0x0A) // LD V0, K
			vm.DT = 5

			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x200)))
			Expect(vm.Waiting()).To(BeTrue())
			Expect(vm.DT).To(Equal(byte(4)), "timers tick while waiting")

			vm.SetKeys([chip8.NumKeys]byte{0x5: 1, 0x9: 1})
			step(vm, 1)

			Expect(vm.PC).To(Equal(uint16(0x202)))
			Expect(vm.V[0]).To(Equal(byte(0x5)))
			Expect(vm.Waiting()).To(BeFalse())
		})

		It("should ignore keys outside the keypad", func() {
			vm := chip8.New()

			vm.PressKey(16)
			Expect(vm.Keys).To(Equal([chip8.NumKeys]byte{}))

			vm.PressKey(0xF)
			vm.ReleaseKey(0xF)
			Expect(vm.Keys[0xF]).To(Equal(byte(0)))
		})
	})

	Describe("Memory bounds", func() {
		It("should fail BCD past the end of memory without writing", func() {
			vm := load(0xF0, 0x33)
			vm.I = 0xFFE
			vm.V[0] = 255

			err := vm.Step()

			var addrErr *chip8.AddressError
			Expect(errors.As(err, &addrErr)).To(BeTrue())
			Expect(addrErr.Address).To(Equal(0xFFE))
			Expect(addrErr.Length).To(Equal(3))
			Expect(vm.Memory[0xFFE:]).To(Equal([]byte{0, 0}))
		})

		It("should fail a block store past the end of memory", func() {
			vm := load(0xFF, 0x55) // LD [I], VF
			vm.I = 0xFF8

			err := vm.Step()

			Expect(errors.Is(err, chip8.ErrAddressOutOfRange)).To(BeTrue())
		})

		It("should fail a block load from an I past 12 bits", func() {
			vm := load(0xF0, 0x65) // LD V0, [I]
			vm.I = 0x1000

			err := vm.Step()

			Expect(errors.Is(err, chip8.ErrAddressOutOfRange)).To(BeTrue())
		})
	})
})
