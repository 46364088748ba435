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

package main

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/chip8vm/chip8vm/chip8"
)

// number of lines shown by the trace and assembly views
const debugLines = 16

var helpText = []string{
	"Virtual keys:",
	"  1-2-3-4",
	"  Q-W-E-R",
	"  A-S-D-F",
	"  Z-X-C-V",
	"",
	"Emulation keys:",
	"  ESC        - Quit",
	"  BS         - Reboot (hold CTRL to reboot paused)",
	"  SPACE / F5 - Pause",
	"  F6         - Step",
	"  F3         - Load ROM",
	"  F9         - Toggle breakpoint",
	"  F8         - Registers and assembly",
	"  PG UP/DN   - Scroll trace",
	"  HOME / END - Trace start / end",
	"  H          - Help",
}

// DebugHelp logs the key bindings.
func DebugHelp(logger *log.Logger) {
	for _, line := range helpText {
		logger.Info(line)
	}
}

// DebugRegisters logs the current value of all the CHIP-8 registers.
func DebugRegisters(logger *log.Logger, vm *chip8.VM) {
	fields := make([]any, 0, len(vm.V)+6)

	for i, v := range vm.V {
		fields = append(fields, log.String(fmt.Sprintf("V%X", i), fmt.Sprintf("#%02X", v)))
	}

	fields = append(fields,
		log.String("PC", fmt.Sprintf("#%04X", vm.PC)),
		log.Uint8("SP", vm.SP),
		log.String("I", fmt.Sprintf("#%04X", vm.I)),
		log.Uint8("DT", vm.DT),
		log.Uint8("ST", vm.ST),
		log.Uint64("cycles", vm.Cycles))

	logger.Info("Registers", fields...)
}

// DebugAssembly logs the disassembled instructions around the program
// counter, marking it and any breakpoints.
func DebugAssembly(logger *log.Logger, vm *chip8.VM) {
	address := int(vm.PC) - debugLines/2
	if address < 0 {
		address = 0
	}

	// keep the view aligned with the program counter
	address &^= 1
	address |= int(vm.PC & 1)

	for i := 0; i < debugLines; i += 2 {
		a := uint16(address + i)

		text := vm.Disassemble(a)
		if text == "" {
			break
		}

		marker := " "
		switch {
		case a == vm.PC:
			marker = ">"
		case vm.Breakpoints[a]:
			marker = "*"
		}

		logger.Info(marker + " " + text)
	}
}

// DebugTrace logs the visible page of the instruction trace.
func DebugTrace(logger *log.Logger, trace *Trace) {
	lines := trace.Window(debugLines)
	if len(lines) == 0 {
		logger.Info("Trace is empty")
		return
	}

	for _, line := range lines {
		logger.Info("  " + line)
	}
}
