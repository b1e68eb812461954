package engine

// Kind identifies one of the 35 CHIP-8 instructions.
type Kind uint8

// Instruction kinds. KindUnknown covers every word without an instruction
// of the base instruction set and executes as a no-op.
const (
	KindUnknown Kind = iota
	KindCls          // 00E0
	KindRet          // 00EE
	KindJp           // 1nnn
	KindCall         // 2nnn
	KindSeByte       // 3xnn
	KindSneByte      // 4xnn
	KindSeReg        // 5xy0
	KindLdByte       // 6xnn
	KindAddByte      // 7xnn
	KindLdReg        // 8xy0
	KindOr           // 8xy1
	KindAnd          // 8xy2
	KindXor          // 8xy3
	KindAddReg       // 8xy4
	KindSub          // 8xy5
	KindShr          // 8xy6
	KindSubn         // 8xy7
	KindShl          // 8xyE
	KindSneReg       // 9xy0
	KindLdI          // Annn
	KindJpV0         // Bnnn
	KindRnd          // Cxnn
	KindDrw          // Dxyn
	KindSkp          // Ex9E
	KindSknp         // ExA1
	KindLdVxDT       // Fx07
	KindLdVxK        // Fx0A
	KindLdDTVx       // Fx15
	KindLdSTVx       // Fx18
	KindAddI         // Fx1E
	KindLdF          // Fx29
	KindLdB          // Fx33
	KindLdMemVx      // Fx55
	KindLdVxMem      // Fx65
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindCls:     "CLS",
	KindRet:     "RET",
	KindJp:      "JP addr",
	KindCall:    "CALL addr",
	KindSeByte:  "SE Vx, byte",
	KindSneByte: "SNE Vx, byte",
	KindSeReg:   "SE Vx, Vy",
	KindLdByte:  "LD Vx, byte",
	KindAddByte: "ADD Vx, byte",
	KindLdReg:   "LD Vx, Vy",
	KindOr:      "OR Vx, Vy",
	KindAnd:     "AND Vx, Vy",
	KindXor:     "XOR Vx, Vy",
	KindAddReg:  "ADD Vx, Vy",
	KindSub:     "SUB Vx, Vy",
	KindShr:     "SHR Vx",
	KindSubn:    "SUBN Vx, Vy",
	KindShl:     "SHL Vx",
	KindSneReg:  "SNE Vx, Vy",
	KindLdI:     "LD I, addr",
	KindJpV0:    "JP V0, addr",
	KindRnd:     "RND Vx, byte",
	KindDrw:     "DRW Vx, Vy, nibble",
	KindSkp:     "SKP Vx",
	KindSknp:    "SKNP Vx",
	KindLdVxDT:  "LD Vx, DT",
	KindLdVxK:   "LD Vx, K",
	KindLdDTVx:  "LD DT, Vx",
	KindLdSTVx:  "LD ST, Vx",
	KindAddI:    "ADD I, Vx",
	KindLdF:     "LD F, Vx",
	KindLdB:     "LD B, Vx",
	KindLdMemVx: "LD [I], Vx",
	KindLdVxMem: "LD Vx, [I]",
}

// String returns the instruction form of the kind, for example "LD Vx, byte".
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Instruction is a decoded instruction word. The operand fields are
// extracted once per cycle and handlers only read them from here.
type Instruction struct {
	Kind Kind
	Word uint16

	Op  uint8  // bits 12-15
	X   uint8  // bits 8-11, register index
	Y   uint8  // bits 4-7, register index
	N   uint8  // bits 0-3
	NN  uint8  // bits 0-7
	NNN uint16 // bits 0-11
}

// Decode extracts the operand fields of an instruction word and identifies
// its instruction kind.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Word: word,
		Op:   uint8(word >> 12),
		X:    uint8(word>>8) & 0xF,
		Y:    uint8(word>>4) & 0xF,
		N:    uint8(word) & 0xF,
		NN:   uint8(word),
		NNN:  word & 0x0FFF,
	}
	ins.Kind = decodeKind(ins)
	return ins
}

// decodeKind dispatches on the top nibble. The 0x0, 0x8 and 0xE groups
// are keyed on the low nibble and the 0xF group on the low byte.
func decodeKind(ins Instruction) Kind {
	switch ins.Op {
	case 0x0:
		return decodeSystem(ins.N)
	case 0x1:
		return KindJp
	case 0x2:
		return KindCall
	case 0x3:
		return KindSeByte
	case 0x4:
		return KindSneByte
	case 0x5:
		return KindSeReg
	case 0x6:
		return KindLdByte
	case 0x7:
		return KindAddByte
	case 0x8:
		return decodeArithmetic(ins.N)
	case 0x9:
		return KindSneReg
	case 0xA:
		return KindLdI
	case 0xB:
		return KindJpV0
	case 0xC:
		return KindRnd
	case 0xD:
		return KindDrw
	case 0xE:
		return decodeKeyboard(ins.N)
	case 0xF:
		return decodeMisc(ins.NN)
	}
	return KindUnknown
}

// decodeSystem keys the 0nnn group on the low nibble. The machine code
// calls of the COSMAC VIP are not emulated.
func decodeSystem(n uint8) Kind {
	switch n {
	case 0x0:
		return KindCls
	case 0xE:
		return KindRet
	}
	return KindUnknown
}

func decodeArithmetic(n uint8) Kind {
	switch n {
	case 0x0:
		return KindLdReg
	case 0x1:
		return KindOr
	case 0x2:
		return KindAnd
	case 0x3:
		return KindXor
	case 0x4:
		return KindAddReg
	case 0x5:
		return KindSub
	case 0x6:
		return KindShr
	case 0x7:
		return KindSubn
	case 0xE:
		return KindShl
	}
	return KindUnknown
}

func decodeKeyboard(n uint8) Kind {
	switch n {
	case 0xE:
		return KindSkp
	case 0x1:
		return KindSknp
	}
	return KindUnknown
}

func decodeMisc(nn uint8) Kind {
	switch nn {
	case 0x07:
		return KindLdVxDT
	case 0x0A:
		return KindLdVxK
	case 0x15:
		return KindLdDTVx
	case 0x18:
		return KindLdSTVx
	case 0x1E:
		return KindAddI
	case 0x29:
		return KindLdF
	case 0x33:
		return KindLdB
	case 0x55:
		return KindLdMemVx
	case 0x65:
		return KindLdVxMem
	}
	return KindUnknown
}
