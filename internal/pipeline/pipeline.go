// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/engine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/render"
	"github.com/retroenv/retrochip8/internal/rom"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates loading, running and rendering of a ROM.
type Pipeline struct {
	logger *log.Logger
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
	}
}

// Execute loads the ROM file named in the options, runs it and renders
// the display to the writer. It returns the final frame.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (runner.Frame, error) {
	program, err := rom.ReadFile(opts.Input)
	if err != nil {
		return runner.Frame{}, fmt.Errorf("loading rom: %w", err)
	}
	return p.ExecuteProgram(ctx, program, opts, writer)
}

// ExecuteProgram runs an already loaded program.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteProgram(ctx context.Context, program []byte, opts options.Program,
	writer io.Writer) (runner.Frame, error) {

	eng := p.createEngine(opts)
	if err := eng.Load(program); err != nil {
		return runner.Frame{}, fmt.Errorf("creating engine: %w", err)
	}
	for _, key := range opts.Keys {
		eng.SetKey(key, true)
	}

	p.printInfo(opts, program)

	renderer := render.New(writer, renderOptions(opts))
	run := runner.New(p.logger, eng, config.RunnerConfig(opts))

	err := run.Run(ctx, func(frame runner.Frame) error {
		return renderer.Frame(frame.Display)
	})
	frame := run.Snapshot()
	if err != nil {
		return frame, fmt.Errorf("running program: %w", err)
	}

	if !opts.Quiet {
		p.logger.Info("Execution finished", log.Int("cycles", int(frame.Cycles)))
	}
	return frame, nil
}

// createEngine creates an engine with a seeded random generator if a
// seed is set.
func (p *Pipeline) createEngine(opts options.Program) *engine.Engine {
	engineOpts := []engine.Option{
		engine.WithTrace(opts.Debug),
	}
	if opts.Seed != 0 {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		engineOpts = append(engineOpts, engine.WithRandom(func() byte {
			return byte(rng.Uint32())
		}))
	}
	return engine.New(p.logger, engineOpts...)
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, program []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.Int("hz", opts.ClockHz),
	)
}

func renderOptions(opts options.Program) render.Options {
	renderOpts := render.DefaultOptions()
	renderOpts.Live = opts.Live
	return renderOpts
}
