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
	"math/rand"
)

// RandomSource returns the byte RND masks with its immediate operand.
type RandomSource func() byte

// FixedRandom returns a source that always yields b. New uses
// FixedRandom(0x01) so execution is reproducible by default.
func FixedRandom(b byte) RandomSource {
	return func() byte {
		return b
	}
}

// MathRandom returns a pseudo-random source seeded with seed.
func MathRandom(seed int64) RandomSource {
	r := rand.New(rand.NewSource(seed))

	return func() byte {
		return byte(r.Intn(0x100))
	}
}
