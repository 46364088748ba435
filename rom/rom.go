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

// Package rom loads CHIP-8 programs from binary images or assembly source.
package rom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/chip8vm/chip8vm/chip8"
)

// ErrEmptyROM is returned for a file without any program bytes.
var ErrEmptyROM = errors.New("rom is empty")

// sourceExtensions are file extensions assembled instead of loaded as is.
var sourceExtensions = map[string]struct{}{
	".asm": {},
	".c8s": {},
	".src": {},
}

// Image is a program ready to be loaded into a VM.
type Image struct {
	// Name is the file the image was read from.
	Name string

	// Program is the bytes to load at chip8.ProgramStart.
	Program []byte

	// Source is true if Program was assembled from source.
	Source bool

	// Breakpoints holds the addresses marked with BREAK in the source.
	Breakpoints []chip8.Breakpoint
}

// Load reads and parses the program at path.
func Load(path string, logger *log.Logger) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	img, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	format := "binary"
	if img.Source {
		format = "source"
	}

	logger.Info("Loaded ROM",
		log.String("file", path),
		log.String("format", format),
		log.Int("size", len(img.Program)),
		log.Int("breakpoints", len(img.Breakpoints)))

	return img, nil
}

// Parse builds an image from file contents. name is used to tell assembly
// source apart from binary images by its extension.
func Parse(name string, data []byte) (*Image, error) {
	img := &Image{
		Name: name,
	}

	if IsSource(name) {
		asm, err := chip8.Assemble(data)
		if err != nil {
			return nil, fmt.Errorf("assembling %s: %w", filepath.Base(name), err)
		}

		img.Source = true
		img.Program = asm.ROM
		img.Breakpoints = asm.Breakpoints
	} else {
		img.Program = data
	}

	if len(img.Program) == 0 {
		return nil, ErrEmptyROM
	}
	if len(img.Program) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, %d available", chip8.ErrROMTooLarge, len(img.Program), chip8.MaxProgramSize)
	}

	return img, nil
}

// IsSource reports whether name has an assembly source extension.
func IsSource(name string) bool {
	_, ok := sourceExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Boot loads the image into vm, replacing any breakpoints with its own.
func (img *Image) Boot(vm *chip8.VM) error {
	if err := vm.LoadROM(img.Program); err != nil {
		return fmt.Errorf("loading %s: %w", img.Name, err)
	}

	clear(vm.Breakpoints)
	for _, bp := range img.Breakpoints {
		vm.Breakpoints[bp.Address] = true
	}

	return nil
}
