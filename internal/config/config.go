// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Default run settings.
const (
	DefaultCycles  = 1000
	DefaultClockHz = 700
	DefaultFrameHz = 60
)

// NewLogger returns the program logger. Debug mode logs every executed
// instruction and takes precedence over quiet mode, which only logs errors.
func NewLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// RunnerConfig returns the runner configuration for the program options.
// Without live rendering only the final frame is drawn.
func RunnerConfig(opts options.Program) runner.Config {
	cfg := runner.Config{
		ClockHz:   opts.ClockHz,
		MaxCycles: opts.Cycles,
	}
	if opts.Live {
		cfg.FrameHz = opts.FrameHz
	}
	return cfg
}
