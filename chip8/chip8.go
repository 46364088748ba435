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

// Package chip8 implements a CHIP-8 virtual machine: memory, registers,
// stack, timers, a 64x32 monochrome framebuffer and a 16-key keypad,
// advanced one instruction at a time by Step.
//
// The VM owns no goroutines, locks or clocks. A host loads a program,
// writes the keypad state, calls Step (or Run) and reads the screen back:
//
//	vm := chip8.New(chip8.WithRandom(chip8.MathRandom(seed)))
//	if err := vm.LoadROM(program); err != nil {
//		return err
//	}
//	for running {
//		vm.SetKeys(keys)
//		if err := vm.Step(); err != nil {
//			return err
//		}
//		render(vm.Screen())
//	}
package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const (
	// MemorySize is the number of addressable bytes.
	MemorySize = 0x1000

	// ProgramStart is where programs are loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits above ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// StackSize is the maximum CALL nesting depth.
	StackSize = 16

	// ScreenWidth and ScreenHeight are the framebuffer dimensions in pixels.
	ScreenWidth  = 64
	ScreenHeight = 32

	// NumKeys is the size of the hex keypad.
	NumKeys = 16
)

// VM is the complete state of a CHIP-8 virtual machine. Exported fields
// may be inspected by a host or debugger between cycles; only one goroutine
// may use a VM at a time.
type VM struct {
	// ROM is the pristine memory image (font + program) that Reset
	// restores Memory from.
	ROM [MemorySize]byte

	// Memory addressable by CHIP-8 programs.
	Memory [MemorySize]byte

	// Video holds one byte per pixel (0 or 1), row-major: y*ScreenWidth+x.
	Video [ScreenWidth * ScreenHeight]byte

	// PC is the program counter.
	PC uint16

	// I is the index (address) register. It is not masked to 12 bits.
	I uint16

	// V are the 16 general purpose registers. VF doubles as the flag output.
	V [16]byte

	// Stack holds return addresses, SP is the number of entries in use.
	Stack [StackSize]uint16
	SP    uint8

	// DT and ST are the delay and sound timers. Both count down once per
	// executed cycle while nonzero.
	DT byte
	ST byte

	// Keys is the keypad snapshot; nonzero means pressed.
	Keys [NumKeys]byte

	// Cycles is the number of cycles executed since the last Reset.
	Cycles uint64

	// Breakpoints is a set of addresses the host wants to stop at.
	Breakpoints map[uint16]bool

	random  RandomSource
	logger  *log.Logger
	waiting bool
	halted  error
}

// Option configures a VM created with New.
type Option func(*VM)

// WithRandom sets the source RND draws bytes from.
func WithRandom(source RandomSource) Option {
	return func(vm *VM) {
		vm.random = source
	}
}

// WithLogger sets the logger used for instruction traces (debug level) and
// fatal errors.
func WithLogger(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.logger = logger
	}
}

// New creates a powered-on VM with the font loaded and no program.
// Unless WithRandom is given, RND uses FixedRandom(0x01).
func New(opts ...Option) *VM {
	vm := &VM{
		Breakpoints: make(map[uint16]bool),
		random:      FixedRandom(0x01),
		logger:      log.NewNop(),
	}

	// the font lives below the program area
	copy(vm.ROM[FontStart:], font[:])

	for _, opt := range opts {
		opt(vm)
	}

	vm.Reset()

	return vm
}

// LoadROM copies program into the ROM image at ProgramStart and resets the
// VM so it begins executing it.
func (vm *VM) LoadROM(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrROMTooLarge, len(program), MaxProgramSize)
	}

	// drop any previously loaded program
	for i := ProgramStart; i < MemorySize; i++ {
		vm.ROM[i] = 0
	}

	copy(vm.ROM[ProgramStart:], program)

	vm.Reset()

	return nil
}

// Reset restores the power-on state, keeping the loaded program and
// breakpoints.
func (vm *VM) Reset() {
	vm.Memory = vm.ROM

	// reset video memory and keys
	vm.Video = [ScreenWidth * ScreenHeight]byte{}
	vm.Keys = [NumKeys]byte{}

	// reset program counter, stack and address register
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackSize]uint16{}
	vm.I = 0

	// reset virtual registers and timers
	vm.V = [16]byte{}
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0
	vm.waiting = false
	vm.halted = nil
}

// PressKey marks key (0x0-0xF) as pressed.
func (vm *VM) PressKey(key uint) {
	if key < NumKeys {
		vm.Keys[key] = 1
	}
}

// ReleaseKey marks key (0x0-0xF) as released.
func (vm *VM) ReleaseKey(key uint) {
	if key < NumKeys {
		vm.Keys[key] = 0
	}
}

// SetKeys replaces the whole keypad snapshot.
func (vm *VM) SetKeys(keys [NumKeys]byte) {
	vm.Keys = keys
}

// Screen returns the framebuffer, ScreenWidth*ScreenHeight cells of 0 or 1.
// The slice aliases VM memory and must be treated as read-only.
func (vm *VM) Screen() []byte {
	return vm.Video[:]
}

// Pixel reports whether the pixel at x, y is set. Coordinates outside the
// screen are never set.
func (vm *VM) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= ScreenWidth || y >= ScreenHeight {
		return false
	}

	return vm.Video[y*ScreenWidth+x] != 0
}

// Waiting is true if the last cycle was an LD Vx, K with no key pressed,
// so the same instruction will run again on the next cycle.
func (vm *VM) Waiting() bool {
	return vm.waiting
}

// Halted returns the fatal error that stopped the VM, or nil.
func (vm *VM) Halted() error {
	return vm.halted
}

// ToggleBreakpoint adds or removes a breakpoint at address.
func (vm *VM) ToggleBreakpoint(address uint16) {
	if vm.Breakpoints[address] {
		delete(vm.Breakpoints, address)
	} else {
		vm.Breakpoints[address] = true
	}
}

// AtBreakpoint is true if the next instruction to execute is a breakpoint.
func (vm *VM) AtBreakpoint() bool {
	return vm.Breakpoints[vm.PC]
}
