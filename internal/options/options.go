// Package options contains the program options.
package options

// Program options of the emulator.
type Program struct {
	Input string // ROM file to run

	Cycles  uint64 // cycles to execute, 0 runs until interrupted
	ClockHz int    // executed cycles per second
	FrameHz int    // rendered frames per second in live mode
	Live    bool   // render every frame instead of only the final one
	Keys    []uint8
	Seed    uint64 // seed of the random generator, 0 uses a time based seed

	Debug bool
	Quiet bool
}
