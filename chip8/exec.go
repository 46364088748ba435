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

import (
	"fmt"
)

// execute dispatches a decoded instruction. PC already points at the
// following instruction.
func (vm *VM) execute(inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.Address)
	case OpCALL:
		return vm.call(inst.Address)
	case OpSEByte:
		vm.skipIf(x, inst.Byte)
	case OpSNEByte:
		vm.skipIfNot(x, inst.Byte)
	case OpSEReg:
		vm.skipIfXY(x, y)
	case OpLDByte:
		vm.loadX(x, inst.Byte)
	case OpADDByte:
		vm.addX(x, inst.Byte)
	case OpLDReg:
		vm.loadXY(x, y)
	case OpOR:
		vm.or(x, y)
	case OpAND:
		vm.and(x, y)
	case OpXOR:
		vm.xor(x, y)
	case OpADDReg:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSHR:
		vm.shr(x)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHL:
		vm.shl(x)
	case OpSNEReg:
		vm.skipIfNotXY(x, y)
	case OpLDI:
		vm.loadI(inst.Address)
	case OpJPV0:
		vm.jumpV0(inst.Address)
	case OpRND:
		vm.rnd(x, inst.Byte)
	case OpDRW:
		return vm.drw(x, y, inst.N)
	case OpSKP:
		return vm.skipIfPressed(x)
	case OpSKNP:
		return vm.skipIfNotPressed(x)
	case OpLDVxDT:
		vm.loadXDT(x)
	case OpLDVxK:
		vm.loadXK(x)
	case OpLDDTVx:
		vm.loadDTX(x)
	case OpLDSTVx:
		vm.loadSTX(x)
	case OpADDI:
		vm.addIX(x)
	case OpLDF:
		vm.loadF(x)
	case OpLDB:
		return vm.loadB(x)
	case OpLDIVx:
		return vm.saveRegs(x)
	case OpLDVxI:
		return vm.loadRegs(x)
	default:
		return fmt.Errorf("%w: no handler for %04X", ErrInvalidOpcode, inst.Opcode)
	}

	return nil
}

// span returns n bytes of memory starting at address, or an AddressError
// if any of them lie past the end of memory.
func (vm *VM) span(address uint16, n int) ([]byte, error) {
	start := int(address)
	if start+n > MemorySize {
		return nil, &AddressError{Address: start, Length: n}
	}

	return vm.Memory[start : start+n], nil
}

// cls clears the display.
func (vm *VM) cls() {
	vm.Video = [ScreenWidth * ScreenHeight]byte{}
}

// ret pops the return address into PC.
func (vm *VM) ret() error {
	if vm.SP == 0 {
		return ErrStackUnderflow
	}

	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

// jump to address.
func (vm *VM) jump(address uint16) {
	vm.PC = address
}

// call pushes the address of the next instruction and jumps to address.
func (vm *VM) call(address uint16) error {
	if int(vm.SP) >= StackSize {
		return ErrStackOverflow
	}

	vm.Stack[vm.SP] = vm.PC
	vm.SP++
	vm.PC = address

	return nil
}

// jumpV0 jumps to address + v0.
func (vm *VM) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

// skip the next instruction if vx == b.
func (vm *VM) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

// skip the next instruction if vx != b.
func (vm *VM) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

// skip the next instruction if vx == vy.
func (vm *VM) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

// skip the next instruction if vx != vy.
func (vm *VM) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

// key returns the state of the key named by vx.
func (vm *VM) key(x byte) (byte, error) {
	if vm.V[x] >= NumKeys {
		return 0, &KeyError{Key: vm.V[x]}
	}
	return vm.Keys[vm.V[x]], nil
}

// skip the next instruction if key(vx) is pressed.
func (vm *VM) skipIfPressed(x byte) error {
	k, err := vm.key(x)
	if err != nil {
		return err
	}
	if k != 0 {
		vm.PC += 2
	}
	return nil
}

// skip the next instruction if key(vx) is not pressed.
func (vm *VM) skipIfNotPressed(x byte) error {
	k, err := vm.key(x)
	if err != nil {
		return err
	}
	if k == 0 {
		vm.PC += 2
	}
	return nil
}

// loadX loads b into vx.
func (vm *VM) loadX(x, b byte) {
	vm.V[x] = b
}

// loadXY loads vy into vx.
func (vm *VM) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

// loadXDT loads the delay timer into vx.
func (vm *VM) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

// loadDTX loads vx into the delay timer.
func (vm *VM) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

// loadSTX loads vx into the sound timer.
func (vm *VM) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

// loadXK stores the lowest pressed key in vx. With no key down, PC is
// rewound so the instruction runs again next cycle.
func (vm *VM) loadXK(x byte) {
	for key, down := range vm.Keys {
		if down != 0 {
			vm.V[x] = byte(key)
			return
		}
	}

	vm.PC -= 2
	vm.waiting = true
}

// loadI loads the address register.
func (vm *VM) loadI(address uint16) {
	vm.I = address
}

// addIX adds vx to I, wrapping at 16 bits.
func (vm *VM) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

// loadF points I at the font glyph for vx.
func (vm *VM) loadF(x byte) {
	vm.I = GlyphAddress(vm.V[x])
}

// loadB stores the decimal digits of vx at I, I+1 and I+2.
func (vm *VM) loadB(x byte) error {
	m, err := vm.span(vm.I, 3)
	if err != nil {
		return err
	}

	n := vm.V[x]

	m[0] = n / 100
	m[1] = n / 10 % 10
	m[2] = n % 10

	return nil
}

// saveRegs stores v0..vx at I.
func (vm *VM) saveRegs(x byte) error {
	m, err := vm.span(vm.I, int(x)+1)
	if err != nil {
		return err
	}

	copy(m, vm.V[:x+1])

	return nil
}

// loadRegs loads v0..vx from I.
func (vm *VM) loadRegs(x byte) error {
	m, err := vm.span(vm.I, int(x)+1)
	if err != nil {
		return err
	}

	copy(vm.V[:x+1], m)

	return nil
}

// or vx with vy into vx.
func (vm *VM) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

// and vx with vy into vx.
func (vm *VM) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

// xor vx with vy into vx.
func (vm *VM) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

// shl shifts vx left 1 bit, vf gets the MSB from before the shift.
func (vm *VM) shl(x byte) {
	vm.V[0xF] = vm.V[x] >> 7
	vm.V[x] <<= 1
}

// shr shifts vx right 1 bit, vf gets the LSB from before the shift.
func (vm *VM) shr(x byte) {
	vm.V[0xF] = vm.V[x] & 1
	vm.V[x] >>= 1
}

// addX adds b to vx without touching vf.
func (vm *VM) addX(x, b byte) {
	vm.V[x] += b
}

// addXY adds vy to vx, vf is the carry.
func (vm *VM) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

// subXY subtracts vy from vx, vf is set if there was no borrow.
func (vm *VM) subXY(x, y byte) {
	var flag byte
	if vm.V[x] >= vm.V[y] {
		flag = 1
	}

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = flag
}

// subYX stores vy - vx in vx, vf is set if vy > vx.
func (vm *VM) subYX(x, y byte) {
	if vm.V[y] > vm.V[x] {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}

	vm.V[x] = vm.V[y] - vm.V[x]
}

// rnd loads a random byte & b into vx.
func (vm *VM) rnd(x, b byte) {
	vm.V[x] = vm.random() & b
}
