// Package cpu implements the processor and assembler for the CHIP-8 system.
//
// The CPU consists of sixteen 8-bit registers (V0-VF, with VF doubling as
// the carry, borrow and collision flag), a 16-bit index register I, a
// program counter, a 16 deep return stack, and the delay and sound timers.
//
// Execution is split in two stages: Decode classifies an instruction word
// into an Instruction, and Cpu.Execute applies it to the register file and
// memory. Display, keypad and tone effects are returned as Events for the
// caller to deliver; the CPU only reads peripheral state.
//
// The assembler accepts the customary mnemonics, with labels, equates,
// macros, and compile-time expression evaluation.
package cpu
