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
	"strconv"
	"strings"
)

// tokenType is the lexical class of a scanned token.
type tokenType uint

const (
	tokenEnd tokenType = iota
	tokenChar
	tokenComma
	tokenLabel
	tokenRef
	tokenInstruction
	tokenDirective
	tokenBreak
	tokenV
	tokenI
	tokenIndirect
	tokenB
	tokenF
	tokenK
	tokenDT
	tokenST
	tokenLit
	tokenText
)

// token is a single lexical token. Registers and literals carry their value
// in val, identifiers and strings their text.
type token struct {
	typ  tokenType
	val  int
	text string
}

// tokenScanner splits a single, upper-cased source line into tokens.
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

// scanToken reads the next token. Comments and the end of the line both
// produce tokenEnd.
func (s *tokenScanner) scanToken() token {
	for s.pos < len(s.bytes) && s.bytes[s.pos] <= ' ' {
		s.pos++
	}

	if s.pos >= len(s.bytes) {
		return token{typ: tokenEnd}
	}

	c := s.bytes[s.pos]

	switch {
	case c == ';':
		s.pos = len(s.bytes)
		return token{typ: tokenEnd}
	case c == ',':
		s.pos++
		return token{typ: tokenComma}
	case c == '[':
		return s.scanIndirection()
	case c == '#':
		return s.scanHexLit()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || isDigit(c):
		return s.scanDecLit()
	case c == '"' || c == '\'':
		return s.scanString(c)
	case isIdentStart(c):
		return s.scanIdentifier()
	}

	s.pos++

	return token{typ: tokenChar, val: int(c)}
}

// scanOperands reads a comma-separated list of operands up to the end of
// the line.
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	t := s.scanToken()
	if t.typ == tokenEnd {
		return tokens
	}

	for {
		if t.typ == tokenComma || t.typ == tokenEnd {
			fail("expected operand")
		}

		// mnemonics only count at the start of a line
		if t.typ == tokenInstruction || t.typ == tokenDirective {
			t.typ = tokenRef
		}

		tokens = append(tokens, t)

		switch sep := s.scanToken(); sep.typ {
		case tokenEnd:
			return tokens
		case tokenComma:
			t = s.scanToken()
		default:
			fail("unexpected token after operand")
		}
	}
}

// scanToEnd returns the rest of the line, trimmed.
func (s *tokenScanner) scanToEnd() string {
	text := string(s.bytes[s.pos:])

	s.pos = len(s.bytes)

	return strings.TrimSpace(text)
}

// scanIdentifier reads an instruction, register, directive, label
// definition or label reference.
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	for s.pos < len(s.bytes) && (isIdentStart(s.bytes[s.pos]) || isDigit(s.bytes[s.pos])) {
		s.pos++
	}

	id := string(s.bytes[i:s.pos])

	// a trailing colon defines a label
	if s.pos < len(s.bytes) && s.bytes[s.pos] == ':' {
		s.pos++
		return token{typ: tokenLabel, text: id}
	}

	if len(id) == 2 && id[0] == 'V' {
		if n, err := strconv.ParseUint(id[1:], 16, 8); err == nil {
			return token{typ: tokenV, val: int(n)}
		}
	}

	switch id {
	case "I":
		return token{typ: tokenI}
	case "B":
		return token{typ: tokenB}
	case "F":
		return token{typ: tokenF}
	case "K":
		return token{typ: tokenK}
	case "DT":
		return token{typ: tokenDT}
	case "ST":
		return token{typ: tokenST}
	case "CLS", "RET", "JP", "CALL", "SE", "SNE", "SKP", "SKNP", "LD", "OR", "AND", "XOR", "ADD", "SUB", "SUBN", "SHR", "SHL", "RND", "DRW":
		return token{typ: tokenInstruction, text: id}
	case "BYTE", "WORD", "ALIGN", "PAD":
		return token{typ: tokenDirective, text: id}
	case "BREAK":
		return token{typ: tokenBreak}
	}

	return token{typ: tokenRef, text: id}
}

// scanIndirection reads the [I] operand.
func (s *tokenScanner) scanIndirection() token {
	s.pos++

	if t := s.scanToken(); t.typ != tokenI {
		fail("only [I] indirection is supported")
	}
	if t := s.scanToken(); t.typ != tokenChar || t.val != ']' {
		fail("expected ]")
	}

	return token{typ: tokenIndirect}
}

// scanDecLit reads a decimal literal with an optional leading minus.
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	if s.bytes[i] == '-' {
		s.pos++
	}

	for s.pos < len(s.bytes) && isDigit(s.bytes[s.pos]) {
		s.pos++
	}

	n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32)
	if err != nil {
		fail("illegal decimal value: %s", s.bytes[i:s.pos])
	}

	return token{typ: tokenLit, val: int(n)}
}

// scanHexLit reads a #hex literal.
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32)
	if err != nil {
		fail("illegal hex value: %s", s.bytes[i:s.pos])
	}

	return token{typ: tokenLit, val: int(n)}
}

// scanBinLit reads a $binary literal, where '.' may be used for 0 so
// sprites can be drawn in the source.
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	n, err := strconv.ParseInt(v, 2, 32)
	if err != nil {
		fail("illegal binary value: %s", s.bytes[i:s.pos])
	}

	return token{typ: tokenLit, val: int(n)}
}

// scanString reads a quoted string.
func (s *tokenScanner) scanString(term byte) token {
	s.pos++

	i := s.pos

	for s.pos < len(s.bytes) && s.bytes[s.pos] != term {
		s.pos++
	}

	if s.pos >= len(s.bytes) {
		fail("unterminated string")
	}

	text := string(s.bytes[i:s.pos])

	// skip the closing quote
	s.pos++

	return token{typ: tokenText, text: text}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || c == '_'
}
