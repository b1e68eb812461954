// Package runner drives a CHIP-8 engine from a dedicated goroutine at a
// fixed clock rate and hands display frames to a renderer.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/engine"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// Config controls the pacing of a Runner.
type Config struct {
	ClockHz   int    // executed cycles per second, 0 runs unpaced
	FrameHz   int    // rendered frames per second, 0 only renders the final frame
	MaxCycles uint64 // cycles to execute before stopping, 0 runs until cancelled
}

// Frame is a consistent snapshot of the host visible machine state.
type Frame struct {
	Display     []bool
	SoundActive bool
	Cycles      uint64
}

// FrameFunc receives display frames between cycles.
type FrameFunc func(Frame) error

// Runner serializes all access to an engine with a single mutex that is
// held for a whole cycle or a whole snapshot.
type Runner struct {
	logger *log.Logger
	config Config

	mu     sync.Mutex
	engine *engine.Engine
}

// New returns a new runner for the given engine.
func New(logger *log.Logger, eng *engine.Engine, config Config) *Runner {
	return &Runner{
		logger: logger,
		config: config,
		engine: eng,
	}
}

// Run executes cycles until the context is cancelled, the configured
// cycle count is reached or the engine faults. The fault is returned,
// cancellation and reaching the cycle count are not errors. The final
// frame is always rendered if a frame function is given.
func (r *Runner) Run(ctx context.Context, render FrameFunc) error {
	group, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	group.Go(func() error {
		defer close(done)
		return r.runCycles(ctx)
	})
	if render != nil {
		group.Go(func() error {
			return r.runFrames(ctx, done, render)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	r.logger.Debug("Runner stopped", log.Int("cycles", int(r.Snapshot().Cycles)))
	return nil
}

// SetKey sets the pressed state of a keypad key between cycles.
func (r *Runner) SetKey(key uint8, pressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetKey(key, pressed)
}

// Snapshot returns the current display, sound state and cycle count.
func (r *Runner) Snapshot() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Frame{
		Display:     r.engine.Display(),
		SoundActive: r.engine.SoundActive(),
		Cycles:      r.engine.Cycles(),
	}
}

func (r *Runner) runCycles(ctx context.Context) error {
	if r.config.ClockHz <= 0 {
		for {
			if ctx.Err() != nil {
				return nil
			}
			finished, err := r.cycle()
			if err != nil || finished {
				return err
			}
		}
	}

	ticker := time.NewTicker(interval(r.config.ClockHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			finished, err := r.cycle()
			if err != nil || finished {
				return err
			}
		}
	}
}

// cycle executes a single step and returns whether the configured cycle
// count is reached.
func (r *Runner) cycle() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.engine.Step(); err != nil {
		return false, fmt.Errorf("cycle %d: %w", r.engine.Cycles()+1, err)
	}
	return r.config.MaxCycles > 0 && r.engine.Cycles() >= r.config.MaxCycles, nil
}

func (r *Runner) runFrames(ctx context.Context, done <-chan struct{}, render FrameFunc) error {
	var frames <-chan time.Time
	if r.config.FrameHz > 0 {
		ticker := time.NewTicker(interval(r.config.FrameHz))
		defer ticker.Stop()
		frames = ticker.C
	}

	for {
		select {
		case <-done:
			return render(r.Snapshot())
		case <-ctx.Done():
			<-done
			return render(r.Snapshot())
		case <-frames:
			if err := render(r.Snapshot()); err != nil {
				return fmt.Errorf("rendering frame: %w", err)
			}
		}
	}
}

// interval returns the tick period of a positive rate, at least 1ns.
func interval(hz int) time.Duration {
	return max(time.Second/time.Duration(hz), time.Nanosecond)
}
