// Package trace formats CHIP-8 instruction words as assembly text for
// instruction trace logging.
package trace

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Format returns the assembly text of an instruction word, for example
// "LD V2, $34". Words without a matching instruction are returned as a
// data word directive.
func Format(word uint16) string {
	opcode, ok := lookup(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}

	name := opcode.Instruction.Name
	mnemonic := strings.ToUpper(name)
	if params := formatParams(name, word); params != "" {
		return fmt.Sprintf("%s %s", mnemonic, params)
	}
	return mnemonic
}

// IsSkip returns whether the instruction word conditionally skips the
// next instruction.
func IsSkip(word uint16) bool {
	opcode, ok := lookup(word)
	if !ok {
		return false
	}
	return chip8.SkipInstructions.Contains(opcode.Instruction.Name)
}

// lookup finds the opcode matching the word in the opcode table of its
// first nibble.
func lookup(word uint16) (chip8.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// formatParams formats the parameters of an instruction.
func formatParams(name string, word uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJump(word)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", word&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompare(word)
	case chip8.LdName:
		return formatLoad(word)
	case chip8.AddName:
		return formatAdd(word)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", registerX(word), registerY(word))
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", registerX(word))
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", registerX(word), word&0x00FF)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(word), registerY(word), word&0x000F)
	}
	return ""
}

// formatJump formats JP addr and JP V0, addr.
func formatJump(word uint16) string {
	if word&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", word&0x0FFF)
	}
	return fmt.Sprintf("$%03X", word&0x0FFF)
}

// formatCompare formats SE and SNE with a byte or register operand.
func formatCompare(word uint16) string {
	x := registerX(word)
	switch word & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
	default:
		return fmt.Sprintf("V%X, V%X", x, registerY(word))
	}
}

// formatLoad formats all LD variants.
func formatLoad(word uint16) string {
	x := registerX(word)
	switch word & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(word))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", word&0x0FFF)
	}

	switch word & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAdd formats ADD Vx, byte and ADD Vx, Vy and ADD I, Vx.
func formatAdd(word uint16) string {
	x := registerX(word)
	switch word & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, word&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(word))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

func registerX(word uint16) uint16 {
	return (word & 0x0F00) >> 8
}

func registerY(word uint16) uint16 {
	return (word & 0x00F0) >> 4
}
