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
)

var (
	// ErrInvalidOpcode is returned (wrapped in a DecodeError) for an opcode
	// that is not part of the instruction set.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrAddressOutOfRange is returned (wrapped in an AddressError) when an
	// instruction touches memory beyond the last address.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrStackOverflow is returned by CALL with a full stack.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned by RET with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrInvalidKey is returned (wrapped in a KeyError) by SKP and SKNP when
	// Vx does not name a key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrHalted is returned by Step once the VM has stopped on a fatal error.
	ErrHalted = errors.New("vm halted")

	// ErrROMTooLarge is returned when a program does not fit above ProgramStart.
	ErrROMTooLarge = errors.New("program too large to fit in memory")
)

// DecodeError describes an opcode that could not be decoded.
type DecodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid opcode %04X at %04X", e.Opcode, e.Address)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidOpcode
}

// AddressError describes a memory access of Length bytes at Address that
// does not fit in memory. Address is an int since the index register may
// point close to 0xFFFF before the length is added.
type AddressError struct {
	Address int
	Length  int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("access of %d byte(s) at %04X exceeds memory", e.Length, e.Address)
}

func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}

// KeyError describes a key index beyond the keypad.
type KeyError struct {
	Key byte
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %02X out of range", e.Key)
}

func (e *KeyError) Unwrap() error {
	return ErrInvalidKey
}
