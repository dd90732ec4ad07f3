package cpu

import (
	"iter"
)

// Opcode is a line of assembled source and the bytes it generated.
type Opcode struct {
	LineNo    int
	Addr      uint16   // Load address of the first byte.
	Words     []string // Source words, after equate substitution.
	Data      []uint8  // Generated bytes.
	Code      bool     // Set if Data is an instruction word.
	LinkLabel string   // Label whose address is patched into Data.
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of an address in a Program.
type Debug struct {
	*Opcode
	Offset int // Offset of the address into Opcode.Data.
}

// Debug returns the opcode that generated the byte at addr. The
// returned Opcode is nil if there is none.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && int(addr) < int(op.Addr)+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the raw image to be loaded at PC_START.
// Gaps between opcodes are zero filled.
func (prog *Program) Binary() (image []byte) {
	for _, op := range prog.Opcodes {
		if op.Addr < PC_START {
			continue
		}
		end := int(op.Addr-PC_START) + len(op.Data)
		if end > len(image) {
			image = append(image, make([]byte, end-len(image))...)
		}
		copy(image[op.Addr-PC_START:], op.Data)
	}

	return
}

// Codes iterates over the instructions of the program, by address.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, ins Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !op.Code || len(op.Data) != INSTRUCTION_SIZE {
				continue
			}
			ins := Decode(uint16(op.Data[0])<<8 | uint16(op.Data[1]))
			if !yield(op.Addr, ins) {
				return
			}
		}
	}
}
