// Package machine contains the CHIP-8 machine state: registers, memory,
// call stack, timers, display buffer and keypad.
package machine

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Reserved interpreter area
//	0x050-0x09F: Built-in hexadecimal font set (16 glyphs, 5 bytes each)
//	0x0A0-0x1FF: Reserved interpreter area
//	0x200-0xFFF: Program and working data (3584 bytes)
const (
	// MemorySize is the size of the linear address space.
	MemorySize = 0x1000

	// ProgramStart is the address programs are loaded at and start executing from.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart

	// StackDepth is the number of return addresses the call stack can hold.
	StackDepth = 16

	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16

	// FlagRegister is the index of VF, used as carry, borrow and collision flag.
	FlagRegister = 0xF
)

var (
	// ErrLoadOverflow is returned when a byte sequence does not fit before the end of memory.
	ErrLoadOverflow = errors.New("load overflows memory")
	// ErrStackOverflow is returned when a call is made with all stack entries in use.
	ErrStackOverflow = chip8.ErrStackOverflow
	// ErrStackUnderflow is returned when a return is made with an empty stack.
	ErrStackUnderflow = chip8.ErrStackUnderflow
)

// State holds all emulated hardware state of a CHIP-8 machine.
// It is not safe for concurrent use.
type State struct {
	V      [RegisterCount]uint8 // general purpose registers V0-VF
	I      uint16               // index register
	PC     uint16               // program counter
	SP     uint8                // number of used stack entries
	Stack  [StackDepth]uint16   // return addresses
	Memory [MemorySize]byte

	DelayTimer uint8
	SoundTimer uint8

	display [DisplayWidth * DisplayHeight]bool
	keys    [KeyCount]bool
}

// New returns a new initialized machine state.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset sets all state to zero, loads the font set and sets the program
// counter to the program entry address.
func (s *State) Reset() {
	*s = State{}
	copy(s.Memory[FontBase:], fontSet[:])
	s.PC = ProgramStart
}

// Load copies data into memory starting at the given address. Memory is
// left untouched if the data does not fit before the end of memory.
func (s *State) Load(address uint16, data []byte) error {
	end := int(address) + len(data)
	if end > MemorySize {
		return fmt.Errorf("%w: %d bytes at address %04x exceed memory size %d",
			ErrLoadOverflow, len(data), address, MemorySize)
	}
	copy(s.Memory[address:end], data)
	return nil
}

// Read returns the memory byte at the given address, wrapped to the address space.
func (s *State) Read(address uint16) byte {
	return s.Memory[address%MemorySize]
}

// Write sets the memory byte at the given address, wrapped to the address space.
func (s *State) Write(address uint16, value byte) {
	s.Memory[address%MemorySize] = value
}

// Push stores a return address on the call stack.
func (s *State) Push(address uint16) error {
	if s.SP >= StackDepth {
		return ErrStackOverflow
	}
	s.Stack[s.SP] = address
	s.SP++
	return nil
}

// Pop removes and returns the most recent return address from the call stack.
func (s *State) Pop() (uint16, error) {
	if s.SP == 0 {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Stack[s.SP], nil
}

// TickTimers decrements the delay and sound timers if they are nonzero.
func (s *State) TickTimers() {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
	}
}

// SoundActive returns whether the sound timer signals an active tone.
func (s *State) SoundActive() bool {
	return s.SoundTimer > 0
}

// SetKey sets the pressed state of a keypad key.
func (s *State) SetKey(key uint8, pressed bool) {
	s.keys[key%KeyCount] = pressed
}

// SetKeys replaces the pressed state of all keypad keys.
func (s *State) SetKeys(keys [KeyCount]bool) {
	s.keys = keys
}

// Key returns whether a keypad key is pressed.
func (s *State) Key(key uint8) bool {
	return s.keys[key%KeyCount]
}

// PressedKey returns the lowest pressed key index.
func (s *State) PressedKey() (uint8, bool) {
	for i, pressed := range s.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}
