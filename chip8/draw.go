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

// drw draws an n-byte sprite from memory at I to vx, vy. Each row is
// XORed onto the screen MSB first; pixels past the right or bottom edge
// are clipped. vf is set if any lit pixel was turned off.
func (vm *VM) drw(x, y, n byte) error {
	sprite, err := vm.span(vm.I, int(n))
	if err != nil {
		return err
	}

	// read the coordinates before vf is cleared, x or y may be 0xF
	cx, cy := int(vm.V[x]), int(vm.V[y])

	vm.V[0xF] = 0

	for row, b := range sprite {
		py := cy + row
		if py >= ScreenHeight {
			break
		}

		for col := 0; col < 8; col++ {
			px := cx + col
			if px >= ScreenWidth {
				break
			}

			if b&(0x80>>col) == 0 {
				continue
			}

			p := &vm.Video[py*ScreenWidth+px]
			if *p != 0 {
				vm.V[0xF] = 1
			}

			*p ^= 1
		}
	}

	return nil
}
