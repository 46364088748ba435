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
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Step executes a single instruction and then ticks the timers.
//
// On failure the VM halts: PC is left at the failing instruction, the
// timers are not ticked and every later call returns ErrHalted wrapping
// the original error.
func (vm *VM) Step() error {
	if vm.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, vm.halted)
	}

	pc := vm.PC
	vm.waiting = false

	opcode, err := vm.Fetch()
	if err != nil {
		return vm.halt(pc, 0, err)
	}

	// advance past the instruction before executing it
	vm.PC += 2

	inst, err := Decode(opcode)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Address = pc
		}
		return vm.halt(pc, opcode, err)
	}

	if vm.logger.Enabled(log.DebugLevel) {
		vm.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("%04X", pc)),
			log.String("opcode", fmt.Sprintf("%04X", opcode)),
			log.Stringer("instruction", inst))
	}

	if err := vm.execute(inst); err != nil {
		return vm.halt(pc, opcode, err)
	}

	vm.tick()
	vm.Cycles++

	return nil
}

// Run executes up to n cycles, stopping early on an error or when the next
// instruction is a breakpoint (after at least one cycle has executed). It
// returns the number of cycles executed.
func (vm *VM) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if i > 0 && vm.AtBreakpoint() {
			return i, nil
		}

		if err := vm.Step(); err != nil {
			return i, err
		}
	}

	return n, nil
}

// tick counts both timers down by one.
func (vm *VM) tick() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}

// halt stops the VM on err, restoring PC to the failing instruction.
func (vm *VM) halt(pc, opcode uint16, err error) error {
	vm.PC = pc
	vm.waiting = false
	vm.halted = err

	vm.logger.Error("vm halted", err,
		log.String("pc", fmt.Sprintf("%04X", pc)),
		log.String("opcode", fmt.Sprintf("%04X", opcode)),
		log.Uint64("cycles", vm.Cycles))

	return err
}
