// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/set"
)

var (
	errInvalidKey  = errors.New("invalid key")
	errInvalidRate = errors.New("invalid rate")
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	var keys string
	readOptionFlags(flags, &opts, &keys)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if err := validateOptions(opts); err != nil {
		return opts, err
	}

	opts.Keys, err = parseKeys(keys)
	if err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the error message if set, followed by the flag usage.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: retrochip8 [options] <rom file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks that the ROM file is the only positional argument.
// The flag set stops parsing at the first positional argument, so flags
// placed after the ROM file end up here.
func validateArgs(args []string) error {
	rest := args[1:]
	for _, arg := range rest {
		if strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("flag %s found after ROM file %s, please pass the ROM file as last argument", arg, args[0]),
			}
		}
	}
	if len(rest) > 0 {
		return &UsageError{
			msg: fmt.Sprintf("unexpected arguments %q after ROM file %s", rest, args[0]),
		}
	}
	return nil
}

// maxRate is the highest rate that still has a tick period of at least 1ns.
const maxRate = int(time.Second)

// validateOptions checks the numeric option values.
func validateOptions(opts options.Program) error {
	if opts.ClockHz < 0 || opts.ClockHz > maxRate {
		return fmt.Errorf("%w: clock rate %d, expected 0-%d", errInvalidRate, opts.ClockHz, maxRate)
	}
	if opts.FrameHz < 0 || opts.FrameHz > maxRate {
		return fmt.Errorf("%w: frame rate %d, expected 0-%d", errInvalidRate, opts.FrameHz, maxRate)
	}
	return nil
}

// parseKeys parses a comma separated list of hex keypad keys. Duplicate
// keys are ignored and the result is sorted.
func parseKeys(s string) ([]uint8, error) {
	if s == "" {
		return nil, nil
	}

	keys := set.New[uint8]()
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		key, err := strconv.ParseUint(field, 16, 8)
		if err != nil || key >= machine.KeyCount {
			return nil, fmt.Errorf("%w '%s', expected 0-F", errInvalidKey, field)
		}
		keys.Add(uint8(key))
	}

	return set.Sorted(keys), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, keys *string) {
	flags.Uint64Var(&opts.Cycles, "cycles", config.DefaultCycles, "number of cycles to execute, 0 runs until interrupted")
	flags.IntVar(&opts.ClockHz, "hz", config.DefaultClockHz, "clock rate in cycles per second, 0 runs unpaced")
	flags.IntVar(&opts.FrameHz, "fps", config.DefaultFrameHz, "frame rate of the live display")
	flags.BoolVar(&opts.Live, "live", false, "render the display continuously instead of only the final frame")
	flags.StringVar(keys, "keys", "", "comma separated hex keys that are held down for the whole run, for example 1,A,F")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses a time based seed")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
