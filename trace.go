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

// Trace is a bounded, scrollable history of executed instructions.
type Trace struct {
	// buf contains each traced line, oldest first.
	buf []string

	// size is the most lines kept.
	size int

	// pos is the current read position within the trace.
	pos int
}

// NewTrace creates a Trace keeping the last size lines.
func NewTrace(size int) *Trace {
	return &Trace{
		buf:  make([]string, 0, size),
		size: size,
	}
}

// Record appends a line, dropping the oldest once full. The view follows
// new lines if it was at the end.
func (t *Trace) Record(line string) {
	scroll := t.pos == len(t.buf)

	if len(t.buf) == t.size {
		copy(t.buf, t.buf[1:])
		t.buf = t.buf[:len(t.buf)-1]

		if !scroll && t.pos > 0 {
			t.pos--
		}
	}

	t.buf = append(t.buf, line)

	if scroll {
		t.pos = len(t.buf)
	}
}

// Window returns a page of up to n lines ending at the read position. Near
// the beginning the page is filled from the first line.
func (t *Trace) Window(n int) []string {
	start := t.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	if start+n >= len(t.buf) {
		return t.buf[start:]
	}

	return t.buf[start : start+n]
}

// Len is the number of lines held.
func (t *Trace) Len() int {
	return len(t.buf)
}

// Home scrolls the trace to the beginning.
func (t *Trace) Home() {
	t.pos = 0
}

// End scrolls the trace to the end.
func (t *Trace) End() {
	t.pos = len(t.buf)
}

// Scroll moves the read position by n lines, clamped to the trace.
func (t *Trace) Scroll(n int) {
	t.pos += n

	if t.pos < 0 {
		t.Home()
	}
	if t.pos > len(t.buf) {
		t.End()
	}
}

// Clear drops every line.
func (t *Trace) Clear() {
	t.buf = t.buf[:0]
	t.pos = 0
}
