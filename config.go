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
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/chip8vm/chip8vm/chip8"
)

// Config holds the command line options of the emulator.
type Config struct {
	ROM         string
	Hz          int
	Scale       int
	Seed        int64
	FixedRandom bool
	Debug       bool
	Quiet       bool
	Paused      bool
}

// ParseFlags reads the configuration from args (without the program name).
// The ROM may be given with -rom or as the first positional argument.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.StringVar(&cfg.ROM, "rom", "", "ROM image or assembly source (.asm, .c8s, .src) to run")
	flags.IntVar(&cfg.Hz, "hz", 500, "instructions executed per second")
	flags.IntVar(&cfg.Scale, "scale", 10, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&cfg.Seed, "seed", 0, "seed for RND, 0 seeds from the clock")
	flags.BoolVar(&cfg.FixedRandom, "fixed-random", false, "make RND always return 1 before masking")
	flags.BoolVar(&cfg.Debug, "debug", false, "log every executed instruction")
	flags.BoolVar(&cfg.Quiet, "q", false, "only log errors")
	flags.BoolVar(&cfg.Paused, "paused", false, "start with emulation paused")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: chip8vm [options] [rom]\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	args = flags.Args()
	if cfg.ROM == "" && len(args) > 0 {
		cfg.ROM = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return cfg, fmt.Errorf("unexpected arguments after rom: %v", args)
	}

	if cfg.Hz < 60 {
		return cfg, fmt.Errorf("hz must be at least 60, got %d", cfg.Hz)
	}
	if cfg.Scale < 1 {
		return cfg, fmt.Errorf("scale must be positive, got %d", cfg.Scale)
	}

	return cfg, nil
}

// CreateLogger creates a logger for the configured verbosity.
func (cfg Config) CreateLogger() *log.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Output = os.Stderr
	if cfg.Debug {
		logCfg.Level = log.DebugLevel
	} else if cfg.Quiet {
		logCfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(logCfg)
}

// RandomSource returns the RND source for the VM.
func (cfg Config) RandomSource() chip8.RandomSource {
	if cfg.FixedRandom {
		return chip8.FixedRandom(0x01)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return chip8.MathRandom(seed)
}

// CyclesPerFrame is how many instructions run per 60Hz frame.
func (cfg Config) CyclesPerFrame() int {
	return cfg.Hz / 60
}
