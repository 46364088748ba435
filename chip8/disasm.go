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

import "fmt"

// Operands returns the operand text of the instruction in assembler syntax.
func (inst Instruction) Operands() string {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpJP, OpCALL:
		return fmt.Sprintf("#%03X", inst.Address)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("V%X, #%02X", x, inst.Byte)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", x, y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", x)
	case OpLDI:
		return fmt.Sprintf("I, #%03X", inst.Address)
	case OpJPV0:
		return fmt.Sprintf("V0, #%03X", inst.Address)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, %d", x, y, inst.N)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", x)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", x)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", x)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", x)
	case OpADDI:
		return fmt.Sprintf("I, V%X", x)
	case OpLDF:
		return fmt.Sprintf("F, V%X", x)
	case OpLDB:
		return fmt.Sprintf("B, V%X", x)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", x)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", x)
	}

	return ""
}

// String formats the instruction as a line of assembly, e.g. "LD     V1, #02".
// Undecodable opcodes are shown as raw words.
func (inst Instruction) String() string {
	if inst.Op == OpUnknown {
		return fmt.Sprintf("%-6s #%04X", "WORD", inst.Opcode)
	}

	operands := inst.Operands()
	if operands == "" {
		return inst.Op.Mnemonic()
	}

	return fmt.Sprintf("%-6s %s", inst.Op.Mnemonic(), operands)
}

// Disassemble the instruction at address, prefixed by the address. Zero
// words (unused memory) print as just the address.
func (vm *VM) Disassemble(address uint16) string {
	if int(address) >= MemorySize-1 {
		return ""
	}

	opcode := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])
	if opcode == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	// decode errors still yield the raw opcode
	inst, _ := Decode(opcode)

	return fmt.Sprintf("%04X - %s", address, inst)
}
