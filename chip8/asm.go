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
	"bufio"
	"bytes"
	"fmt"
)

// Assembly is a completely assembled source file.
type Assembly struct {
	// ROM is the assembled program, to be loaded at ProgramStart.
	ROM []byte

	// Breakpoints are the addresses marked with BREAK.
	Breakpoints []Breakpoint

	// Labels maps every defined label to its address.
	Labels map[string]int

	// image is the memory image being built, starting at address 0
	image []byte

	// final is set on the second pass, when every label must resolve
	final bool
}

// Breakpoint is an address marked in the source with BREAK.
type Breakpoint struct {
	Address uint16
	Reason  string
}

// AsmError is an assembly failure on a source line.
type AsmError struct {
	Line int
	Msg  string
}

func (e *AsmError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// asmFailure is the panic value used to unwind out of a line on a syntax
// error. Assemble recovers it and nothing else.
type asmFailure string

func fail(format string, args ...any) {
	panic(asmFailure(fmt.Sprintf(format, args...)))
}

// Assemble CHIP-8 assembly source into a program image.
//
// Source is case insensitive. Each line holds an optional "label:", then an
// instruction, a directive or BREAK, and an optional "; comment".
// Literals are decimal, #hex or $binary (with '.' for 0). The directives
// are BYTE and WORD (comma-separated values), ALIGN n and PAD n.
func Assemble(source []byte) (*Assembly, error) {
	// first pass collects label addresses, second emits the final image
	first := newAssembly(false)
	if err := first.assembleSource(source); err != nil {
		return nil, err
	}

	out := newAssembly(true)
	out.Labels = first.Labels
	if err := out.assembleSource(source); err != nil {
		return nil, err
	}

	if len(out.image) > MemorySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrROMTooLarge, len(out.image)-ProgramStart)
	}

	out.ROM = out.image[ProgramStart:]

	return out, nil
}

func newAssembly(final bool) *Assembly {
	return &Assembly{
		Labels: make(map[string]int),
		image:  make([]byte, ProgramStart, MemorySize),
		final:  final,
	}
}

// assembleSource runs one pass over every line.
func (a *Assembly) assembleSource(source []byte) (err error) {
	var line int

	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(asmFailure)
			if !ok {
				panic(r)
			}
			err = &AsmError{Line: line, Msg: string(msg)}
		}
	}()

	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(source)))

	for line = 1; scanner.Scan(); line++ {
		a.assemble(&tokenScanner{bytes: scanner.Bytes()})
	}

	return scanner.Err()
}

// address is where the next byte will be emitted.
func (a *Assembly) address() int {
	return len(a.image)
}

// assemble a single line.
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	if t.typ == tokenLabel {
		a.assembleLabel(t.text)
		t = s.scanToken()
	}

	switch t.typ {
	case tokenEnd:
	case tokenInstruction:
		a.emit(a.assembleInstruction(t.text, s.scanOperands())...)
	case tokenDirective:
		a.assembleDirective(t.text, s.scanOperands())
	case tokenBreak:
		a.Breakpoints = append(a.Breakpoints, Breakpoint{
			Address: uint16(a.address()),
			Reason:  s.scanToEnd(),
		})
	default:
		fail("unexpected token")
	}
}

// assembleLabel binds label to the current address.
func (a *Assembly) assembleLabel(label string) {
	if a.final {
		// labels were collected on the first pass
		return
	}

	if _, exists := a.Labels[label]; exists {
		fail("duplicate label: %s", label)
	}

	a.Labels[label] = a.address()
}

func (a *Assembly) emit(b ...byte) {
	a.image = append(a.image, b...)
}

// operand expands a label reference into a literal. On the first pass an
// unknown label assembles as 0 since its address isn't known yet.
func (a *Assembly) operand(t token) token {
	if t.typ != tokenRef {
		return t
	}

	if v, ok := a.Labels[t.text]; ok {
		return token{typ: tokenLit, val: v}
	}

	if a.final {
		fail("unresolved label: %s", t.text)
	}

	return token{typ: tokenLit}
}

// operands matches tokens against the wanted types, expanding labels.
func (a *Assembly) operands(tokens []token, want ...tokenType) ([]token, bool) {
	if len(tokens) != len(want) {
		return nil, false
	}

	ops := make([]token, len(tokens))

	for i, typ := range want {
		t := a.operand(tokens[i])
		if t.typ != typ {
			return nil, false
		}

		ops[i] = t
	}

	return ops, true
}

// addr validates a 12-bit address operand.
func addr(t token) uint16 {
	if t.val < 0 || t.val >= MemorySize {
		fail("address out of range: %d", t.val)
	}
	return uint16(t.val)
}

// imm validates an 8-bit operand, signed or unsigned.
func imm(t token) byte {
	if t.val < -0x80 || t.val > 0xFF {
		fail("byte out of range: %d", t.val)
	}
	return byte(t.val)
}

// nibble validates a 4-bit operand.
func nibble(t token) byte {
	if t.val < 0 || t.val > 0xF {
		fail("nibble out of range: %d", t.val)
	}
	return byte(t.val)
}

func opXY(hi byte, x, y token, lo byte) []byte {
	return []byte{hi<<4 | byte(x.val), byte(y.val)<<4 | lo}
}

func opXKK(hi byte, x token, b byte) []byte {
	return []byte{hi<<4 | byte(x.val), b}
}

func opNNN(hi byte, a uint16) []byte {
	return []byte{hi<<4 | byte(a>>8), byte(a)}
}

// assembleInstruction encodes one instruction, trying each operand form
// the mnemonic accepts.
func (a *Assembly) assembleInstruction(mnemonic string, tokens []token) []byte {
	switch mnemonic {
	case "CLS":
		if len(tokens) == 0 {
			return []byte{0x00, 0xE0}
		}
	case "RET":
		if len(tokens) == 0 {
			return []byte{0x00, 0xEE}
		}
	case "JP":
		return a.assembleJP(tokens)
	case "CALL":
		if ops, ok := a.operands(tokens, tokenLit); ok {
			return opNNN(0x2, addr(ops[0]))
		}
	case "SE":
		return a.assembleSkip(tokens, 0x3, 0x5)
	case "SNE":
		return a.assembleSkip(tokens, 0x4, 0x9)
	case "SKP":
		if ops, ok := a.operands(tokens, tokenV); ok {
			return opXKK(0xE, ops[0], 0x9E)
		}
	case "SKNP":
		if ops, ok := a.operands(tokens, tokenV); ok {
			return opXKK(0xE, ops[0], 0xA1)
		}
	case "OR":
		return a.assembleALU(tokens, 0x1)
	case "AND":
		return a.assembleALU(tokens, 0x2)
	case "XOR":
		return a.assembleALU(tokens, 0x3)
	case "SUB":
		return a.assembleALU(tokens, 0x5)
	case "SUBN":
		return a.assembleALU(tokens, 0x7)
	case "SHR":
		return a.assembleShift(tokens, 0x6)
	case "SHL":
		return a.assembleShift(tokens, 0xE)
	case "ADD":
		return a.assembleADD(tokens)
	case "RND":
		if ops, ok := a.operands(tokens, tokenV, tokenLit); ok {
			return opXKK(0xC, ops[0], imm(ops[1]))
		}
	case "DRW":
		if ops, ok := a.operands(tokens, tokenV, tokenV, tokenLit); ok {
			return opXY(0xD, ops[0], ops[1], nibble(ops[2]))
		}
	case "LD":
		return a.assembleLD(tokens)
	}

	fail("illegal instruction: %s", mnemonic)
	return nil
}

// assembleJP handles JP addr and JP V0, addr.
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.operands(tokens, tokenLit); ok {
		return opNNN(0x1, addr(ops[0]))
	}
	if ops, ok := a.operands(tokens, tokenV, tokenLit); ok && ops[0].val == 0 {
		return opNNN(0xB, addr(ops[1]))
	}

	fail("illegal instruction: JP")
	return nil
}

// assembleSkip handles SE and SNE with a byte or register operand.
func (a *Assembly) assembleSkip(tokens []token, byteOp, regOp byte) []byte {
	if ops, ok := a.operands(tokens, tokenV, tokenLit); ok {
		return opXKK(byteOp, ops[0], imm(ops[1]))
	}
	if ops, ok := a.operands(tokens, tokenV, tokenV); ok {
		return opXY(regOp, ops[0], ops[1], 0x0)
	}

	fail("illegal skip instruction")
	return nil
}

// assembleALU handles the 8XYN register to register group.
func (a *Assembly) assembleALU(tokens []token, n byte) []byte {
	if ops, ok := a.operands(tokens, tokenV, tokenV); ok {
		return opXY(0x8, ops[0], ops[1], n)
	}

	fail("illegal arithmetic instruction")
	return nil
}

// assembleShift handles SHR VX and SHL VX. An explicit VY is accepted and
// encoded but ignored by the VM.
func (a *Assembly) assembleShift(tokens []token, n byte) []byte {
	if ops, ok := a.operands(tokens, tokenV); ok {
		return opXY(0x8, ops[0], ops[0], n)
	}
	if ops, ok := a.operands(tokens, tokenV, tokenV); ok {
		return opXY(0x8, ops[0], ops[1], n)
	}

	fail("illegal shift instruction")
	return nil
}

// assembleADD handles ADD VX, byte / ADD VX, VY / ADD I, VX.
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.operands(tokens, tokenV, tokenLit); ok {
		return opXKK(0x7, ops[0], imm(ops[1]))
	}
	if ops, ok := a.operands(tokens, tokenV, tokenV); ok {
		return opXY(0x8, ops[0], ops[1], 0x4)
	}
	if ops, ok := a.operands(tokens, tokenI, tokenV); ok {
		return opXKK(0xF, ops[1], 0x1E)
	}

	fail("illegal instruction: ADD")
	return nil
}

// assembleLD handles every form of LD.
func (a *Assembly) assembleLD(tokens []token) []byte {
	if len(tokens) != 2 {
		fail("LD takes 2 operands")
	}

	dst, src := a.operand(tokens[0]), a.operand(tokens[1])

	switch dst.typ {
	case tokenV:
		switch src.typ {
		case tokenLit:
			return opXKK(0x6, dst, imm(src))
		case tokenV:
			return opXY(0x8, dst, src, 0x0)
		case tokenDT:
			return opXKK(0xF, dst, 0x07)
		case tokenK:
			return opXKK(0xF, dst, 0x0A)
		case tokenIndirect:
			return opXKK(0xF, dst, 0x65)
		}
	case tokenI:
		if src.typ == tokenLit {
			return opNNN(0xA, addr(src))
		}
	case tokenDT:
		if src.typ == tokenV {
			return opXKK(0xF, src, 0x15)
		}
	case tokenST:
		if src.typ == tokenV {
			return opXKK(0xF, src, 0x18)
		}
	case tokenF:
		if src.typ == tokenV {
			return opXKK(0xF, src, 0x29)
		}
	case tokenB:
		if src.typ == tokenV {
			return opXKK(0xF, src, 0x33)
		}
	case tokenIndirect:
		if src.typ == tokenV {
			return opXKK(0xF, src, 0x55)
		}
	}

	fail("illegal instruction: LD")
	return nil
}

// assembleDirective handles the data and layout directives.
func (a *Assembly) assembleDirective(directive string, tokens []token) {
	switch directive {
	case "BYTE":
		if len(tokens) == 0 {
			fail("BYTE requires operands")
		}
		for _, t := range tokens {
			t = a.operand(t)
			switch t.typ {
			case tokenLit:
				a.emit(imm(t))
			case tokenText:
				a.emit([]byte(t.text)...)
			default:
				fail("BYTE operands must be literals or strings")
			}
		}
	case "WORD":
		if len(tokens) == 0 {
			fail("WORD requires operands")
		}
		for _, t := range tokens {
			t = a.operand(t)
			if t.typ != tokenLit || t.val < -0x8000 || t.val > 0xFFFF {
				fail("illegal word value")
			}
			a.emit(byte(t.val>>8), byte(t.val))
		}
	case "ALIGN":
		n := count(tokens, directive)
		for n > 0 && a.address()%n != 0 {
			a.emit(0)
		}
	case "PAD":
		n := count(tokens, directive)
		a.emit(make([]byte, n)...)
	}

	if a.address() > MemorySize {
		fail("program exceeds memory")
	}
}

// count reads the single literal operand of ALIGN or PAD. Labels are not
// allowed since the size must be known on the first pass.
func count(tokens []token, directive string) int {
	if len(tokens) != 1 || tokens[0].typ != tokenLit || tokens[0].val < 0 || tokens[0].val > MemorySize {
		fail("%s requires a literal count", directive)
	}
	return tokens[0].val
}
