// Package engine implements the CHIP-8 instruction engine that fetches,
// decodes and executes one instruction per cycle on a machine state.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// ErrAddressOutOfRange is returned when an instruction fetch would read past the end of memory.
var ErrAddressOutOfRange = errors.New("address out of range")

// Engine executes CHIP-8 instructions on a machine state it owns exclusively.
// It is not safe for concurrent use.
type Engine struct {
	logger *log.Logger
	state  *machine.State
	random func() byte
	trace  bool

	fault  error  // fatal fault that halted the engine
	cycles uint64 // executed cycles since the last reset
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the random byte source used by the RND instruction.
func WithRandom(random func() byte) Option {
	return func(e *Engine) {
		e.random = random
	}
}

// WithState sets the machine state the engine operates on.
func WithState(state *machine.State) Option {
	return func(e *Engine) {
		e.state = state
	}
}

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

// New returns a new engine with an initialized machine state.
func New(logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logger,
		random: randomByte,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = machine.New()
	}
	return e
}

// Reset returns the machine to its initial state and clears a halt.
func (e *Engine) Reset() {
	e.state.Reset()
	e.fault = nil
	e.cycles = 0
}

// Load copies a program into memory at the program start address.
func (e *Engine) Load(program []byte) error {
	if err := e.state.Load(machine.ProgramStart, program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	e.logger.Debug("Program loaded",
		log.Hex("address", machine.ProgramStart),
		log.Int("size", len(program)))
	return nil
}

// Step executes a single cycle: fetch, decode, execute and timer update.
// A fatal fault halts the engine and is returned by every following call
// until Reset is called.
func (e *Engine) Step() error {
	if e.fault != nil {
		return e.fault
	}

	pc := e.state.PC
	word, err := e.fetch()
	if err != nil {
		return e.halt(err)
	}

	ins := Decode(word)
	if e.trace {
		e.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.Stringer("kind", ins.Kind),
			log.String("instruction", trace.Format(word)))
	}

	if err := e.execute(ins); err != nil {
		return e.halt(fmt.Errorf("executing %04x at address %04x: %w", word, pc, err))
	}

	if e.trace && trace.IsSkip(word) && e.state.PC == pc+2*opcodeSize {
		e.logger.Debug("Skipped instruction", log.Hex("address", pc+opcodeSize))
	}

	e.state.TickTimers()
	e.cycles++
	return nil
}

// Halted returns the fault that halted the engine, or nil.
func (e *Engine) Halted() error {
	return e.fault
}

// Cycles returns the number of cycles executed since the last reset.
func (e *Engine) Cycles() uint64 {
	return e.cycles
}

// State returns the machine state the engine operates on.
func (e *Engine) State() *machine.State {
	return e.state
}

// Display returns a copy of the display buffer, addressed as y*64+x.
func (e *Engine) Display() []bool {
	return e.state.Display()
}

// Pixel returns whether the pixel at the given position is on.
func (e *Engine) Pixel(x, y int) bool {
	return e.state.Pixel(x, y)
}

// SoundActive returns whether the sound timer signals an active tone.
func (e *Engine) SoundActive() bool {
	return e.state.SoundActive()
}

// SetKey sets the pressed state of a keypad key.
func (e *Engine) SetKey(key uint8, pressed bool) {
	e.state.SetKey(key, pressed)
}

// SetKeys replaces the pressed state of all keypad keys.
func (e *Engine) SetKeys(keys [machine.KeyCount]bool) {
	e.state.SetKeys(keys)
}

// fetch reads the big-endian instruction word at the program counter and
// advances the program counter past it.
func (e *Engine) fetch() (uint16, error) {
	pc := e.state.PC
	if int(pc)+opcodeSize > machine.MemorySize {
		return 0, fmt.Errorf("%w: fetching instruction at address %04x", ErrAddressOutOfRange, pc)
	}

	word := uint16(e.state.Memory[pc])<<8 | uint16(e.state.Memory[pc+1])
	e.state.PC += opcodeSize
	return word, nil
}

func (e *Engine) halt(err error) error {
	e.fault = err
	e.logger.Debug("Engine halted",
		log.Hex("pc", e.state.PC),
		log.Err(err))
	return err
}

func randomByte() byte {
	return byte(rand.Uint32())
}
