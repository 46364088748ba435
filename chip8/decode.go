/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

// Op identifies a decoded instruction.
type Op uint8

// CHIP-8 operations. Operand fields used by each are noted after the
// canonical encoding.
const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN  Address
	OpCALL       // 2NNN  Address
	OpSEByte     // 3XKK  X, Byte
	OpSNEByte    // 4XKK  X, Byte
	OpSEReg      // 5XY0  X, Y
	OpLDByte     // 6XKK  X, Byte
	OpADDByte    // 7XKK  X, Byte
	OpLDReg      // 8XY0  X, Y
	OpOR         // 8XY1  X, Y
	OpAND        // 8XY2  X, Y
	OpXOR        // 8XY3  X, Y
	OpADDReg     // 8XY4  X, Y
	OpSUB        // 8XY5  X, Y
	OpSHR        // 8XY6  X
	OpSUBN       // 8XY7  X, Y
	OpSHL        // 8XYE  X
	OpSNEReg     // 9XY0  X, Y
	OpLDI        // ANNN  Address
	OpJPV0       // BNNN  Address
	OpRND        // CXKK  X, Byte
	OpDRW        // DXYN  X, Y, N
	OpSKP        // EX9E  X
	OpSKNP       // EXA1  X
	OpLDVxDT     // FX07  X
	OpLDVxK      // FX0A  X
	OpLDDTVx     // FX15  X
	OpLDSTVx     // FX18  X
	OpADDI       // FX1E  X
	OpLDF        // FX29  X
	OpLDB        // FX33  X
	OpLDIVx      // FX55  X
	OpLDVxI      // FX65  X
)

var mnemonics = [...]string{
	OpUnknown: "??",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// Mnemonic returns the assembly mnemonic of op. Several ops share one.
func (op Op) Mnemonic() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return mnemonics[OpUnknown]
}

// Instruction is a decoded opcode. Only the operand fields listed for its
// Op are meaningful.
type Instruction struct {
	Op     Op
	Opcode uint16

	X, Y    byte   // register indices
	N       byte   // low nibble (DRW height)
	Byte    byte   // 8-bit immediate
	Address uint16 // 12-bit address
}

// Fetch returns the big-endian opcode at PC without advancing it.
func (vm *VM) Fetch() (uint16, error) {
	b, err := vm.span(vm.PC, 2)
	if err != nil {
		return 0, err
	}

	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Decode turns a 16-bit opcode into an Instruction. Opcodes outside the
// instruction set yield a *DecodeError.
func Decode(opcode uint16) (Instruction, error) {
	inst := Instruction{
		Opcode:  opcode,
		X:       byte(opcode>>8) & 0xF,
		Y:       byte(opcode>>4) & 0xF,
		N:       byte(opcode) & 0xF,
		Byte:    byte(opcode),
		Address: opcode & 0xFFF,
	}

	switch opcode >> 12 {
	case 0x0:
		switch inst.Byte {
		case 0xE0:
			inst.Op = OpCLS
		case 0xEE:
			inst.Op = OpRET
		}
	case 0x1:
		inst.Op = OpJP
	case 0x2:
		inst.Op = OpCALL
	case 0x3:
		inst.Op = OpSEByte
	case 0x4:
		inst.Op = OpSNEByte
	case 0x5:
		inst.Op = OpSEReg
	case 0x6:
		inst.Op = OpLDByte
	case 0x7:
		inst.Op = OpADDByte
	case 0x8:
		inst.Op = decodeALU(inst.N)
	case 0x9:
		inst.Op = OpSNEReg
	case 0xA:
		inst.Op = OpLDI
	case 0xB:
		inst.Op = OpJPV0
	case 0xC:
		inst.Op = OpRND
	case 0xD:
		inst.Op = OpDRW
	case 0xE:
		switch inst.Byte {
		case 0x9E:
			inst.Op = OpSKP
		case 0xA1:
			inst.Op = OpSKNP
		}
	case 0xF:
		inst.Op = decodeMisc(inst.Byte)
	}

	if inst.Op == OpUnknown {
		return inst, &DecodeError{Opcode: opcode}
	}

	return inst, nil
}

// decodeALU resolves the 8XYN group on its low nibble.
func decodeALU(n byte) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpUnknown
}

// decodeMisc resolves the FXKK group on its low byte.
func decodeMisc(b byte) Op {
	switch b {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpUnknown
}
