package cpu

import (
	"fmt"

	"github.com/ezrec/chip8/memory"
)

const (
	REGISTER_COUNT   = 16                   // General purpose registers V0-VF.
	REG_FLAG         = 0xF                  // VF, the carry/borrow/collision flag.
	PC_START         = memory.RESERVED_SIZE // Program counter at power-on.
	INSTRUCTION_SIZE = 2                    // Bytes per instruction word.
)

// Registers is the register file of the CPU.
type Registers struct {
	V     [REGISTER_COUNT]uint8 // V0-VF.
	I     uint16                // Index register.
	Pc    uint16                // Program counter.
	Stack Stack                 // Return address stack.
	Delay uint8                 // Delay timer, decremented at 60Hz.
	Sound uint8                 // Sound timer, decremented at 60Hz. Tone is on while non-zero.
}

// NewRegisters returns a register file in its power-on state.
func NewRegisters() (regs *Registers) {
	regs = &Registers{}
	regs.Reset()
	return
}

// Reset clears all registers and sets the program counter to PC_START.
func (regs *Registers) Reset() {
	clear(regs.V[:])
	regs.I = 0
	regs.Pc = PC_START
	regs.Stack.Reset()
	regs.Delay = 0
	regs.Sound = 0
}

// PushReturn saves a return address for a subroutine call.
func (regs *Registers) PushReturn(address uint16) (err error) {
	return regs.Stack.Push(address)
}

// PopReturn restores the most recent return address.
func (regs *Registers) PopReturn() (address uint16, err error) {
	return regs.Stack.Pop()
}

// AdvancePc moves the program counter to the next instruction.
// The program counter may reach MEMORY_SIZE, where the next fetch
// faults; it is unchanged if it would go past.
func (regs *Registers) AdvancePc() (err error) {
	next := uint32(regs.Pc) + INSTRUCTION_SIZE
	if next > memory.MEMORY_SIZE {
		err = memory.ErrOutOfBounds(next)
		return
	}

	regs.Pc = uint16(next)
	return
}

// DecrementTimers counts both timers down by one, stopping at zero.
func (regs *Registers) DecrementTimers() {
	if regs.Delay > 0 {
		regs.Delay--
	}
	if regs.Sound > 0 {
		regs.Sound--
	}
}

// String returns the register file as a multi-line dump.
func (regs *Registers) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "pc", regs.Pc)
	text += fmt.Sprintf("% 5s: %03X\n", "i", regs.I)
	for n, v := range regs.V {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%X", n), v)
	}

	stack := "---"
	if top, ok := regs.Stack.Peek(); ok {
		stack = fmt.Sprintf("%03X", top)
	}
	text += fmt.Sprintf("% 5s: %v (%d)\n", "stack", stack, regs.Stack.Depth)
	text += fmt.Sprintf("% 5s: %02X\n", "dt", regs.Delay)
	text += fmt.Sprintf("% 5s: %02X\n", "st", regs.Sound)

	return
}
