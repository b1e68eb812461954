package engine

import (
	"github.com/retroenv/retrochip8/internal/machine"
)

// execute dispatches a decoded instruction to its handler.
//
//nolint:cyclop,funlen // one case per instruction
func (e *Engine) execute(ins Instruction) error {
	switch ins.Kind {
	case KindUnknown:
	case KindCls:
		e.cls()
	case KindRet:
		return e.ret()
	case KindJp:
		e.jp(ins)
	case KindCall:
		return e.call(ins)
	case KindSeByte:
		e.skipIf(e.state.V[ins.X] == ins.NN)
	case KindSneByte:
		e.skipIf(e.state.V[ins.X] != ins.NN)
	case KindSeReg:
		e.skipIf(e.state.V[ins.X] == e.state.V[ins.Y])
	case KindSneReg:
		e.skipIf(e.state.V[ins.X] != e.state.V[ins.Y])
	case KindLdByte:
		e.state.V[ins.X] = ins.NN
	case KindAddByte:
		e.state.V[ins.X] += ins.NN
	case KindLdReg:
		e.state.V[ins.X] = e.state.V[ins.Y]
	case KindOr:
		e.state.V[ins.X] |= e.state.V[ins.Y]
	case KindAnd:
		e.state.V[ins.X] &= e.state.V[ins.Y]
	case KindXor:
		e.state.V[ins.X] ^= e.state.V[ins.Y]
	case KindAddReg:
		e.addReg(ins)
	case KindSub:
		e.sub(ins)
	case KindSubn:
		e.subn(ins)
	case KindShr:
		e.shr(ins)
	case KindShl:
		e.shl(ins)
	case KindLdI:
		e.state.I = ins.NNN
	case KindJpV0:
		e.state.PC = ins.NNN + uint16(e.state.V[0])
	case KindRnd:
		e.state.V[ins.X] = e.random() & ins.NN
	case KindDrw:
		e.drw(ins)
	case KindSkp:
		e.skipIf(e.state.Key(e.state.V[ins.X]))
	case KindSknp:
		e.skipIf(!e.state.Key(e.state.V[ins.X]))
	case KindLdVxDT:
		e.state.V[ins.X] = e.state.DelayTimer
	case KindLdVxK:
		e.waitKey(ins)
	case KindLdDTVx:
		e.state.DelayTimer = e.state.V[ins.X]
	case KindLdSTVx:
		e.state.SoundTimer = e.state.V[ins.X]
	case KindAddI:
		e.state.I += uint16(e.state.V[ins.X])
	case KindLdF:
		e.state.I = machine.GlyphAddress(e.state.V[ins.X])
	case KindLdB:
		e.bcd(ins)
	case KindLdMemVx:
		e.storeRegisters(ins)
	case KindLdVxMem:
		e.loadRegisters(ins)
	}
	return nil
}

// cls turns all display pixels off.
func (e *Engine) cls() {
	e.state.ClearDisplay()
}

// ret returns from a subroutine to the address on top of the stack.
func (e *Engine) ret() error {
	address, err := e.state.Pop()
	if err != nil {
		return err
	}
	e.state.PC = address
	return nil
}

// jp jumps to address nnn.
func (e *Engine) jp(ins Instruction) {
	e.state.PC = ins.NNN
}

// call pushes the address of the next instruction and jumps to nnn.
func (e *Engine) call(ins Instruction) error {
	if err := e.state.Push(e.state.PC); err != nil {
		return err
	}
	e.state.PC = ins.NNN
	return nil
}

// skipIf skips the next instruction if the condition holds.
func (e *Engine) skipIf(condition bool) {
	if condition {
		e.state.PC += opcodeSize
	}
}

// addReg adds vy to vx and sets vf on carry. The sum is taken before vf
// is written, so ADD VF, Vy stores the truncated sum.
func (e *Engine) addReg(ins Instruction) {
	sum := uint16(e.state.V[ins.X]) + uint16(e.state.V[ins.Y])
	e.setFlag(sum > 0xFF)
	e.state.V[ins.X] = uint8(sum)
}

// sub sets vf if vx is greater than vy and then subtracts vy from vx.
// The operands are read again after vf is written.
func (e *Engine) sub(ins Instruction) {
	e.setFlag(e.state.V[ins.X] > e.state.V[ins.Y])
	e.state.V[ins.X] -= e.state.V[ins.Y]
}

// subn sets vf if vy is greater than vx and then stores vy minus vx in vx.
func (e *Engine) subn(ins Instruction) {
	e.setFlag(e.state.V[ins.Y] > e.state.V[ins.X])
	e.state.V[ins.X] = e.state.V[ins.Y] - e.state.V[ins.X]
}

// shr stores the low bit of vx in vf and then shifts vx right by one.
func (e *Engine) shr(ins Instruction) {
	e.state.V[machine.FlagRegister] = e.state.V[ins.X] & 1
	e.state.V[ins.X] >>= 1
}

// shl stores the high bit of vx in vf and then shifts vx left by one.
func (e *Engine) shl(ins Instruction) {
	e.state.V[machine.FlagRegister] = e.state.V[ins.X] >> 7
	e.state.V[ins.X] <<= 1
}

func (e *Engine) setFlag(set bool) {
	if set {
		e.state.V[machine.FlagRegister] = 1
	} else {
		e.state.V[machine.FlagRegister] = 0
	}
}

// drw draws an n row sprite from memory at I to position vx, vy. Sprite
// pixels that cross the display edge wrap around to the opposite side.
// VF is set if any pixel was turned off.
func (e *Engine) drw(ins Instruction) {
	x0 := int(e.state.V[ins.X])
	y0 := int(e.state.V[ins.Y])
	collision := false

	for row := range int(ins.N) {
		sprite := e.state.Read(e.state.I + uint16(row))
		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if e.state.TogglePixel(x0+col, y0+row) {
				collision = true
			}
		}
	}

	e.setFlag(collision)
}

// waitKey stores the lowest pressed key in vx. Without a pressed key the
// program counter is rewound so that the next cycle executes it again.
func (e *Engine) waitKey(ins Instruction) {
	key, ok := e.state.PressedKey()
	if !ok {
		e.state.PC -= opcodeSize
		return
	}
	e.state.V[ins.X] = key
}

// bcd stores the decimal digits of vx at I, I+1 and I+2.
func (e *Engine) bcd(ins Instruction) {
	vx := e.state.V[ins.X]
	e.state.Write(e.state.I, vx/100)
	e.state.Write(e.state.I+1, vx/10%10)
	e.state.Write(e.state.I+2, vx%10)
}

// storeRegisters stores v0 to vx in memory starting at I.
func (e *Engine) storeRegisters(ins Instruction) {
	for i := range uint16(ins.X) + 1 {
		e.state.Write(e.state.I+i, e.state.V[i])
	}
}

// loadRegisters loads v0 to vx from memory starting at I.
func (e *Engine) loadRegisters(ins Instruction) {
	for i := range uint16(ins.X) + 1 {
		e.state.V[i] = e.state.Read(e.state.I + i)
	}
}
