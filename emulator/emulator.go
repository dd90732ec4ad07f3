// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
)

const (
	TIMER_HZ          = 60 // Timer decrements per second.
	INSTRUCTIONS_RATE = 10 // Default instructions per timer tick.
)

var _emulator_defines = map[string]string{
	"TIMER_HZ": fmt.Sprintf("%v", TIMER_HZ),
}

// Emulator state. CPU + memory + peripherals.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the running program, if known.

	Memory  *memory.Memory
	Display *io.Display
	Keypad  *io.Keypad
	Buzzer  *io.Buzzer

	State       State            // Interpreter loop state.
	Waiting     bool             // Set while blocked on a key press.
	Diagnostics []cpu.Diagnostic // Unknown instructions executed since power on.
	Err         error            // Fault that halted the emulator.
}

// NewEmulator creates a powered off emulator that owns the given memory,
// registers and peripherals. nil peripherals are created.
func NewEmulator(mem *memory.Memory, regs *cpu.Registers, display *io.Display, keypad *io.Keypad, buzzer *io.Buzzer) (emu *Emulator) {
	if mem == nil {
		mem = memory.NewMemory()
	}
	if regs == nil {
		regs = cpu.NewRegisters()
	}
	if display == nil {
		display = &io.Display{}
	}
	if keypad == nil {
		keypad = &io.Keypad{}
	}
	if buzzer == nil {
		buzzer = &io.Buzzer{}
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(regs, mem),
		Program: &cpu.Program{},
		Memory:  mem,
		Display: display,
		Keypad:  keypad,
		Buzzer:  buzzer,
	}

	emu.Cpu.Screen = display
	emu.Cpu.Keys = keypad

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		memory.Defines(),
		emu.Cpu.Defines(),
	)
}

// Reset powers off the emulator and restores memory, registers and
// peripherals to their power on state.
func (emu *Emulator) Reset() {
	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	emu.Memory.Verbose = emu.Verbose
	emu.Buzzer.Verbose = emu.Verbose

	emu.Memory.Reset()
	emu.Cpu.Reset()
	emu.Display.Clear()
	emu.Buzzer.Set(false)

	emu.State = POWERED_OFF
	emu.Waiting = false
	emu.Diagnostics = nil
	emu.Err = nil
}

// PowerOn resets the emulator, loads a program image and starts running.
func (emu *Emulator) PowerOn(image []byte) (err error) {
	emu.Reset()

	err = emu.Memory.LoadImage(image)
	if err != nil {
		return
	}

	emu.State = RUNNING

	return
}

// LineNo returns the source line number for the opcode at pc, or 0.
func (emu *Emulator) LineNo(pc uint16) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Step performs a single instruction and applies its events to the
// peripherals. A fault halts the emulator.
func (emu *Emulator) Step() (events []cpu.Event, err error) {
	if emu.State != RUNNING {
		err = ErrNotRunning
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Registers.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.LineNo(pc), Err: err}
			emu.State = HALTED
			emu.Err = err
			if emu.Verbose {
				log.Printf("emulator: halted: %v", err)
			}
		}
	}()

	events, err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	emu.Waiting = false
	for _, event := range events {
		emu.apply(event)
	}

	return
}

// apply delivers an event to its peripheral.
func (emu *Emulator) apply(event cpu.Event) {
	switch ev := event.(type) {
	case cpu.Clear:
		emu.Display.Clear()
	case cpu.Draw:
		emu.Display.Apply(ev)
	case cpu.Tone:
		emu.Buzzer.Set(ev.On)
	case cpu.KeyWait:
		emu.Waiting = true
	case cpu.Diagnostic:
		emu.Diagnostics = append(emu.Diagnostics, ev)
		if emu.Verbose {
			log.Printf("emulator: line %d: %v", emu.LineNo(ev.Pc), ev)
		}
	}
}

// TickTimers is the 60Hz timer trigger. Both timers count down towards
// zero, and the tone stops when the sound timer expires.
func (emu *Emulator) TickTimers() {
	if emu.State != RUNNING {
		return
	}

	emu.Registers.DecrementTimers()

	if emu.Registers.Sound == 0 {
		emu.Buzzer.Set(false)
	}
}

// Frame runs up to count instructions, then ticks the timers once.
// The frame ends early while waiting for a key.
func (emu *Emulator) Frame(count int) (steps int, err error) {
	for range count {
		_, err = emu.Step()
		if err != nil {
			return
		}
		steps++
		if emu.Waiting {
			break
		}
	}

	emu.TickTimers()

	return
}
