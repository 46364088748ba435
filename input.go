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
	"github.com/veandco/go-sdl2/sdl"
)

// KeyMap maps a modern keyboard onto the CHIP-8 hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var KeyMap = map[sdl.Scancode]uint{
	sdl.SCANCODE_X: 0x0,
	sdl.SCANCODE_1: 0x1,
	sdl.SCANCODE_2: 0x2,
	sdl.SCANCODE_3: 0x3,
	sdl.SCANCODE_Q: 0x4,
	sdl.SCANCODE_W: 0x5,
	sdl.SCANCODE_E: 0x6,
	sdl.SCANCODE_A: 0x7,
	sdl.SCANCODE_S: 0x8,
	sdl.SCANCODE_D: 0x9,
	sdl.SCANCODE_Z: 0xA,
	sdl.SCANCODE_C: 0xB,
	sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_V: 0xF,
}

// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false once
// the emulator should quit.
func (e *Emulator) ProcessEvents() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				if ev.Type == sdl.KEYDOWN {
					e.vm.PressKey(key)
				} else {
					e.vm.ReleaseKey(key)
				}
				continue
			}

			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}

			if !e.emulationKey(ev.Keysym) {
				return false
			}
		}
	}

	return true
}

// emulationKey handles the keys that control the emulator rather than the
// CHIP-8 program. Returns false on quit.
func (e *Emulator) emulationKey(key sdl.Keysym) bool {
	switch key.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		// holding control during reset will reboot paused
		e.Reboot(key.Mod&sdl.KMOD_CTRL != 0)
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		e.SetPaused(!e.paused)
	case sdl.SCANCODE_F6:
		if e.paused {
			e.Step()
		}
	case sdl.SCANCODE_F3:
		e.LoadDialog()
	case sdl.SCANCODE_F8:
		DebugRegisters(e.logger, e.vm)
		DebugAssembly(e.logger, e.vm)
	case sdl.SCANCODE_F9:
		if e.paused {
			e.vm.ToggleBreakpoint(e.vm.PC)
			DebugAssembly(e.logger, e.vm)
		}
	case sdl.SCANCODE_PAGEUP:
		e.trace.Scroll(-debugLines)
		DebugTrace(e.logger, e.trace)
	case sdl.SCANCODE_PAGEDOWN:
		e.trace.Scroll(debugLines)
		DebugTrace(e.logger, e.trace)
	case sdl.SCANCODE_HOME:
		e.trace.Home()
		DebugTrace(e.logger, e.trace)
	case sdl.SCANCODE_END:
		e.trace.End()
		DebugTrace(e.logger, e.trace)
	case sdl.SCANCODE_H:
		DebugHelp(e.logger)
	}

	return true
}
