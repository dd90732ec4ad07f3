package cpu

import (
	"fmt"
)

// Kind is the operation an instruction word decodes to.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	OP_UNKNOWN  = Kind(0)  // .word
	OP_SYS      = Kind(1)  // SYS
	OP_CLS      = Kind(2)  // CLS
	OP_RET      = Kind(3)  // RET
	OP_JP       = Kind(4)  // JP
	OP_CALL     = Kind(5)  // CALL
	OP_SE_BYTE  = Kind(6)  // SE
	OP_SNE_BYTE = Kind(7)  // SNE
	OP_SE_REG   = Kind(8)  // SE
	OP_LD_BYTE  = Kind(9)  // LD
	OP_ADD_BYTE = Kind(10) // ADD
	OP_LD_REG   = Kind(11) // LD
	OP_OR       = Kind(12) // OR
	OP_AND      = Kind(13) // AND
	OP_XOR      = Kind(14) // XOR
	OP_ADD_REG  = Kind(15) // ADD
	OP_SUB      = Kind(16) // SUB
	OP_SHR      = Kind(17) // SHR
	OP_SUBN     = Kind(18) // SUBN
	OP_SHL      = Kind(19) // SHL
	OP_SNE_REG  = Kind(20) // SNE
	OP_LD_I     = Kind(21) // LD
	OP_JP_V0    = Kind(22) // JP
	OP_RND      = Kind(23) // RND
	OP_DRW      = Kind(24) // DRW
	OP_SKP      = Kind(25) // SKP
	OP_SKNP     = Kind(26) // SKNP
	OP_LD_VX_DT = Kind(27) // LD
	OP_LD_VX_K  = Kind(28) // LD
	OP_LD_DT_VX = Kind(29) // LD
	OP_LD_ST_VX = Kind(30) // LD
	OP_ADD_I    = Kind(31) // ADD
	OP_LD_F     = Kind(32) // LD
	OP_LD_B     = Kind(33) // LD
	OP_LD_MEM   = Kind(34) // LD
	OP_LD_REGS  = Kind(35) // LD
)

// KIND_COUNT is the number of declared kinds, OP_UNKNOWN included.
const KIND_COUNT = 36

// Instruction is a decoded instruction word. Only the operand fields
// used by Kind are set; the others are zero.
type Instruction struct {
	Kind Kind
	Word uint16 // Raw instruction word.
	X    uint8  // Register index from bits 11-8.
	Y    uint8  // Register index from bits 7-4.
	N    uint8  // Nibble from bits 3-0.
	Byte uint8  // Immediate from bits 7-0.
	Addr uint16 // Address from bits 11-0.
}

// The 8xyN register-to-register family, by trailing nibble.
var aluKind = map[uint8]Kind{
	0x0: OP_LD_REG,
	0x1: OP_OR,
	0x2: OP_AND,
	0x3: OP_XOR,
	0x4: OP_ADD_REG,
	0x5: OP_SUB,
	0x6: OP_SHR,
	0x7: OP_SUBN,
	0xE: OP_SHL,
}

// The ExKK keypad family, by trailing byte.
var keyKind = map[uint8]Kind{
	0x9E: OP_SKP,
	0xA1: OP_SKNP,
}

// The FxKK family, by trailing byte.
var miscKind = map[uint8]Kind{
	0x07: OP_LD_VX_DT,
	0x0A: OP_LD_VX_K,
	0x15: OP_LD_DT_VX,
	0x18: OP_LD_ST_VX,
	0x1E: OP_ADD_I,
	0x29: OP_LD_F,
	0x33: OP_LD_B,
	0x55: OP_LD_MEM,
	0x65: OP_LD_REGS,
}

// Decode classifies an instruction word, first by its leading nibble,
// then for the shared families by the trailing nibble or byte.
// Unassigned encodings decode to OP_UNKNOWN.
func Decode(word uint16) (ins Instruction) {
	ins.Word = word

	x := uint8(word>>8) & 0xf
	y := uint8(word>>4) & 0xf
	n := uint8(word) & 0xf
	kk := uint8(word)
	nnn := word & 0xfff

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			ins.Kind = OP_CLS
		case 0x00EE:
			ins.Kind = OP_RET
		default:
			ins.Kind, ins.Addr = OP_SYS, nnn
		}
	case 0x1:
		ins.Kind, ins.Addr = OP_JP, nnn
	case 0x2:
		ins.Kind, ins.Addr = OP_CALL, nnn
	case 0x3:
		ins.Kind, ins.X, ins.Byte = OP_SE_BYTE, x, kk
	case 0x4:
		ins.Kind, ins.X, ins.Byte = OP_SNE_BYTE, x, kk
	case 0x5:
		if n == 0 {
			ins.Kind, ins.X, ins.Y = OP_SE_REG, x, y
		}
	case 0x6:
		ins.Kind, ins.X, ins.Byte = OP_LD_BYTE, x, kk
	case 0x7:
		ins.Kind, ins.X, ins.Byte = OP_ADD_BYTE, x, kk
	case 0x8:
		if kind, ok := aluKind[n]; ok {
			ins.Kind, ins.X, ins.Y = kind, x, y
		}
	case 0x9:
		if n == 0 {
			ins.Kind, ins.X, ins.Y = OP_SNE_REG, x, y
		}
	case 0xA:
		ins.Kind, ins.Addr = OP_LD_I, nnn
	case 0xB:
		ins.Kind, ins.Addr = OP_JP_V0, nnn
	case 0xC:
		ins.Kind, ins.X, ins.Byte = OP_RND, x, kk
	case 0xD:
		ins.Kind, ins.X, ins.Y, ins.N = OP_DRW, x, y, n
	case 0xE:
		if kind, ok := keyKind[kk]; ok {
			ins.Kind, ins.X = kind, x
		}
	case 0xF:
		if kind, ok := miscKind[kk]; ok {
			ins.Kind, ins.X = kind, x
		}
	}

	return
}

// Encode is the inverse of Decode. An OP_UNKNOWN instruction encodes
// to its raw Word.
func Encode(ins Instruction) (word uint16) {
	x := uint16(ins.X&0xf) << 8
	y := uint16(ins.Y&0xf) << 4
	n := uint16(ins.N & 0xf)
	kk := uint16(ins.Byte)
	nnn := ins.Addr & 0xfff

	switch ins.Kind {
	case OP_SYS:
		word = nnn
	case OP_CLS:
		word = 0x00E0
	case OP_RET:
		word = 0x00EE
	case OP_JP:
		word = 0x1000 | nnn
	case OP_CALL:
		word = 0x2000 | nnn
	case OP_SE_BYTE:
		word = 0x3000 | x | kk
	case OP_SNE_BYTE:
		word = 0x4000 | x | kk
	case OP_SE_REG:
		word = 0x5000 | x | y
	case OP_LD_BYTE:
		word = 0x6000 | x | kk
	case OP_ADD_BYTE:
		word = 0x7000 | x | kk
	case OP_SNE_REG:
		word = 0x9000 | x | y
	case OP_LD_I:
		word = 0xA000 | nnn
	case OP_JP_V0:
		word = 0xB000 | nnn
	case OP_RND:
		word = 0xC000 | x | kk
	case OP_DRW:
		word = 0xD000 | x | y | n
	default:
		word = ins.Word
		for sub, kind := range aluKind {
			if kind == ins.Kind {
				word = 0x8000 | x | y | uint16(sub)
			}
		}
		for sub, kind := range keyKind {
			if kind == ins.Kind {
				word = 0xE000 | x | uint16(sub)
			}
		}
		for sub, kind := range miscKind {
			if kind == ins.Kind {
				word = 0xF000 | x | uint16(sub)
			}
		}
	}

	return
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() (text string) {
	op := ins.Kind.String()

	switch ins.Kind {
	case OP_UNKNOWN:
		text = fmt.Sprintf("%v 0x%04X", op, ins.Word)
	case OP_CLS, OP_RET:
		text = op
	case OP_SYS, OP_JP, OP_CALL:
		text = fmt.Sprintf("%v 0x%03X", op, ins.Addr)
	case OP_JP_V0:
		text = fmt.Sprintf("%v V0, 0x%03X", op, ins.Addr)
	case OP_LD_I:
		text = fmt.Sprintf("%v I, 0x%03X", op, ins.Addr)
	case OP_SE_BYTE, OP_SNE_BYTE, OP_LD_BYTE, OP_ADD_BYTE, OP_RND:
		text = fmt.Sprintf("%v V%X, 0x%02X", op, ins.X, ins.Byte)
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SUBN:
		text = fmt.Sprintf("%v V%X, V%X", op, ins.X, ins.Y)
	case OP_SHR, OP_SHL, OP_SKP, OP_SKNP:
		text = fmt.Sprintf("%v V%X", op, ins.X)
	case OP_DRW:
		text = fmt.Sprintf("%v V%X, V%X, %d", op, ins.X, ins.Y, ins.N)
	case OP_LD_VX_DT:
		text = fmt.Sprintf("%v V%X, DT", op, ins.X)
	case OP_LD_VX_K:
		text = fmt.Sprintf("%v V%X, K", op, ins.X)
	case OP_LD_DT_VX:
		text = fmt.Sprintf("%v DT, V%X", op, ins.X)
	case OP_LD_ST_VX:
		text = fmt.Sprintf("%v ST, V%X", op, ins.X)
	case OP_ADD_I:
		text = fmt.Sprintf("%v I, V%X", op, ins.X)
	case OP_LD_F:
		text = fmt.Sprintf("%v F, V%X", op, ins.X)
	case OP_LD_B:
		text = fmt.Sprintf("%v B, V%X", op, ins.X)
	case OP_LD_MEM:
		text = fmt.Sprintf("%v [I], V%X", op, ins.X)
	case OP_LD_REGS:
		text = fmt.Sprintf("%v V%X, [I]", op, ins.X)
	default:
		text = fmt.Sprintf("%v 0x%04X", OP_UNKNOWN, ins.Word)
	}

	return
}
