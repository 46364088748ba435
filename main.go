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

// Package main implements an SDL front end for the CHIP-8 virtual machine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/rom"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// frame duration in milliseconds at 60Hz
const frameTime = 1000 / 60

// number of executed instructions kept for the trace view
const traceSize = 1024

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := cfg.CreateLogger()
	logger.Info("CHIP-8 VM", log.String("version", buildinfo.Version(version, commit, date)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Fatal("Emulator failed", log.Err(err))
	}
}

// Emulator ties a VM to an SDL window.
type Emulator struct {
	cfg    Config
	logger *log.Logger

	vm    *chip8.VM
	image *rom.Image
	trace *Trace

	window   *sdl.Window
	renderer *sdl.Renderer
	screen   *Screen

	// paused stops emulation between single steps
	paused bool

	// resumed is set when emulation continues from a breakpoint, so the
	// instruction at it runs instead of breaking again
	resumed bool
}

func run(ctx context.Context, cfg Config, logger *log.Logger) error {
	e := &Emulator{
		cfg:    cfg,
		logger: logger,
		trace:  NewTrace(traceSize),
		paused: cfg.Paused,
		vm: chip8.New(
			chip8.WithRandom(cfg.RandomSource()),
			chip8.WithLogger(logger),
		),
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	w, h := int32(chip8.ScreenWidth*cfg.Scale), int32(chip8.ScreenHeight*cfg.Scale)

	var err error
	if e.window, e.renderer, err = sdl.CreateWindowAndRenderer(w, h, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer func() {
		_ = e.renderer.Destroy()
		_ = e.window.Destroy()
	}()

	e.window.SetTitle("CHIP-8")

	if e.screen, err = NewScreen(e.renderer); err != nil {
		return err
	}
	defer e.screen.Destroy()

	if cfg.ROM != "" {
		if err := e.Load(cfg.ROM); err != nil {
			return err
		}
	} else if !e.LoadDialog() {
		return errors.New("no ROM selected")
	}

	logger.Info("Press H for help")

	// loop until window closed, user quit or interrupted
	for e.ProcessEvents() {
		if ctx.Err() != nil {
			logger.Info("Interrupted")
			return nil
		}

		start := sdl.GetTicks()

		if !e.paused {
			e.RunFrame()
		}

		if err := e.Refresh(); err != nil {
			return err
		}

		if elapsed := sdl.GetTicks() - start; elapsed < frameTime {
			sdl.Delay(frameTime - elapsed)
		}
	}

	return nil
}

// Load a ROM from path and boot it.
func (e *Emulator) Load(path string) error {
	img, err := rom.Load(path, e.logger)
	if err == nil {
		err = img.Boot(e.vm)
	}
	if err != nil {
		e.logger.Error("Loading ROM failed", err, log.String("file", path))
		dialog.Message("%s", err).Title("CHIP-8").Error()
		return err
	}

	e.image = img
	e.trace.Clear()
	e.resumed = false
	e.window.SetTitle("CHIP-8 - " + filepath.Base(path))

	return nil
}

// LoadDialog asks for a ROM to load. Returns true if one was loaded.
func (e *Emulator) LoadDialog() bool {
	path, err := dialog.File().
		Title("Load CHIP-8 ROM").
		Filter("CHIP-8 programs", "ch8", "c8", "asm", "c8s", "src").
		Filter("All files", "*").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			e.logger.Error("File dialog failed", err)
		}
		return false
	}

	return e.Load(path) == nil
}

// Reboot the loaded program, optionally paused.
func (e *Emulator) Reboot(paused bool) {
	e.vm.Reset()
	e.trace.Clear()
	e.resumed = false

	e.logger.Info("Rebooted", log.String("file", e.image.Name))

	if paused {
		e.SetPaused(true)
		return
	}

	e.paused = false
}

// SetPaused pauses or resumes emulation. Pausing shows the registers and
// the code at the program counter.
func (e *Emulator) SetPaused(paused bool) {
	e.paused = paused

	if paused {
		e.logger.Info("Paused")
		DebugRegisters(e.logger, e.vm)
		DebugAssembly(e.logger, e.vm)
		return
	}

	e.resumed = true
	e.logger.Info("Resumed")
}

// RunFrame executes one 60Hz frame worth of instructions, stopping at
// breakpoints and errors.
func (e *Emulator) RunFrame() {
	for i := 0; i < e.cfg.CyclesPerFrame(); i++ {
		if e.vm.AtBreakpoint() && !e.resumed {
			e.logger.Info("Breakpoint", log.String("pc", fmt.Sprintf("%04X", e.vm.PC)))
			e.SetPaused(true)
			return
		}

		e.resumed = false

		if !e.Step() {
			return
		}
	}
}

// Step executes a single instruction, recording it in the trace.
func (e *Emulator) Step() bool {
	if err := e.vm.Halted(); err != nil {
		e.logger.Info("Halted, reboot to continue", log.Err(err))
		return false
	}

	e.trace.Record(e.vm.Disassemble(e.vm.PC))

	if err := e.vm.Step(); err != nil {
		e.Halt(err)
		return false
	}

	if e.paused {
		DebugAssembly(e.logger, e.vm)
	}

	return true
}

// Halt pauses emulation after a fatal VM error and reports it.
func (e *Emulator) Halt(err error) {
	e.paused = true

	DebugTrace(e.logger, e.trace)
	DebugRegisters(e.logger, e.vm)

	dialog.Message("%s\n\nPress BACKSPACE to reboot.", err).Title("CHIP-8 halted").Error()
}

// Refresh renders the CHIP-8 screen to the window.
func (e *Emulator) Refresh() error {
	if err := e.renderer.SetDrawColor(32, 42, 53, 255); err != nil {
		return fmt.Errorf("setting draw color: %w", err)
	}
	if err := e.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}

	if err := e.screen.Refresh(e.vm.Screen()); err != nil {
		return err
	}

	w, h := e.window.GetSize()
	if err := e.screen.Copy(e.renderer, &sdl.Rect{W: w, H: h}); err != nil {
		return fmt.Errorf("copying screen: %w", err)
	}

	if e.paused {
		e.frame(w, h)
	}

	e.renderer.Present()

	return nil
}

// frame outlines the window to show emulation is paused.
func (e *Emulator) frame(w, h int32) {
	_ = e.renderer.SetDrawColor(176, 32, 57, 255)
	_ = e.renderer.DrawRect(&sdl.Rect{W: w, H: h})
	_ = e.renderer.DrawRect(&sdl.Rect{X: 1, Y: 1, W: w - 2, H: h - 2})
}
