package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil, nil, nil, nil, nil)

	assert.False(emu.Verbose)
	assert.Equal(POWERED_OFF, emu.State)
	assert.NotNil(emu.Memory)
	assert.NotNil(emu.Registers)
	assert.Equal(emu.Display, emu.Cpu.Screen)
	assert.Equal(emu.Keypad, emu.Cpu.Keys)

	_, err := emu.Step()
	assert.ErrorIs(err, ErrNotRunning)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil, nil, nil, nil, nil)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("60", defines["TIMER_HZ"])
	assert.Equal("0x200", defines["PROGRAM_START"])
	assert.Equal("64", defines["SCREEN_WIDTH"])
}

// load assembles a program and powers on the emulator with it.
func load(t *testing.T, program ...string) (emu *Emulator) {
	assert := assert.New(t)

	emu = NewEmulator(nil, nil, nil, nil, nil)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		t.FailNow()
	}
	emu.Program = prog

	err = emu.PowerOn(prog.Binary())
	assert.NoError(err)
	assert.Equal(RUNNING, emu.State)

	return
}

func TestEmulator_EndToEnd(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil, nil, nil, nil, nil)
	err := emu.PowerOn([]byte{0x60, 0x05, 0x70, 0x03, 0x12, 0x00})
	assert.NoError(err)

	for range 2 {
		_, err = emu.Step()
		assert.NoError(err)
	}

	for range 10 {
		_, err = emu.Step()
		assert.NoError(err)
		assert.Equal(uint8(0x08), emu.Registers.V[0])
		assert.Equal(uint16(0x200), emu.Registers.Pc)
		assert.Equal(RUNNING, emu.State)
	}
}

func TestEmulator_Halt(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    CLS",
		"    LD I, 0x100",
		"    LD [I], V0",
		"    JP 0x200",
	)

	for range 2 {
		_, err := emu.Step()
		assert.NoError(err)
	}

	_, err := emu.Step()
	assert.ErrorIs(err, memory.ErrProtected(0))
	assert.ErrorIs(err, cpu.ErrOpcode{})
	assert.Equal(HALTED, emu.State)
	assert.Equal(err, emu.Err)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(uint16(0x204), runtime.Pc)
		assert.Equal(3, runtime.LineNo)
	}

	_, err = emu.Step()
	assert.ErrorIs(err, ErrNotRunning)

	// Timers are stopped too.
	emu.Registers.Delay = 5
	emu.TickTimers()
	assert.Equal(uint8(5), emu.Registers.Delay)
}

func TestEmulator_PowerOnTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil, nil, nil, nil, nil)
	err := emu.PowerOn(make([]byte, memory.IMAGE_LIMIT+1))
	assert.ErrorIs(err, memory.ErrImageTooLarge(0))
	assert.Equal(POWERED_OFF, emu.State)

	_, err = emu.Step()
	assert.ErrorIs(err, ErrNotRunning)
}

func TestEmulator_Draw(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    LD V0, 0",
		"    LD F, V0",
		"    DRW V0, V0, 5",
		"    DRW V0, V0, 5",
		"    CLS",
	)

	for range 3 {
		_, err := emu.Step()
		assert.NoError(err)
	}
	assert.True(emu.Display.Pixel(0, 0))
	assert.Equal(14, emu.Display.Lit())
	assert.Equal(uint8(0), emu.Registers.V[cpu.REG_FLAG])

	events, err := emu.Step()
	assert.NoError(err)
	assert.Len(events, 1)
	assert.Equal(0, emu.Display.Lit())
	assert.Equal(uint8(1), emu.Registers.V[cpu.REG_FLAG])

	emu.Display.Apply(cpu.Draw{Rows: []uint8{0xFF}})
	events, err = emu.Step()
	assert.NoError(err)
	assert.Equal([]cpu.Event{cpu.Clear{}}, events)
	assert.Equal(0, emu.Display.Lit())
}

func TestEmulator_KeyWait(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    LD V1, K",
		"    SKP V1",
		"    JP 0x202",
	)

	for range 3 {
		_, err := emu.Step()
		assert.NoError(err)
		assert.True(emu.Waiting)
		assert.Equal(uint16(0x200), emu.Registers.Pc)
	}

	assert.NoError(emu.Keypad.Press(7))
	_, err := emu.Step()
	assert.NoError(err)
	assert.False(emu.Waiting)
	assert.Equal(uint8(7), emu.Registers.V[1])

	// SKP V1 skips the jump while the key is down.
	_, err = emu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x206), emu.Registers.Pc)
}

func TestEmulator_Timers(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    LD V0, 2",
		"    LD ST, V0",
		"    LD DT, V0",
	)

	for range 3 {
		_, err := emu.Step()
		assert.NoError(err)
	}
	assert.True(emu.Buzzer.On())
	assert.Equal(uint8(2), emu.Registers.Delay)

	emu.TickTimers()
	assert.True(emu.Buzzer.On())
	assert.Equal(uint8(1), emu.Registers.Sound)
	assert.Equal(uint8(1), emu.Registers.Delay)

	emu.TickTimers()
	assert.False(emu.Buzzer.On())
	assert.Equal(uint8(0), emu.Registers.Sound)

	emu.TickTimers()
	assert.Equal(uint8(0), emu.Registers.Sound)
	assert.Equal(uint8(0), emu.Registers.Delay)
}

func TestEmulator_Diagnostic(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    .word 0x5121",
		"    LD V2, 1",
	)

	events, err := emu.Step()
	assert.NoError(err)
	assert.Equal([]cpu.Event{cpu.Diagnostic{Pc: 0x200, Word: 0x5121}}, events)
	assert.Equal([]cpu.Diagnostic{{Pc: 0x200, Word: 0x5121}}, emu.Diagnostics)
	assert.Equal(1, emu.LineNo(emu.Diagnostics[0].Pc))
	assert.Equal(RUNNING, emu.State)

	_, err = emu.Step()
	assert.NoError(err)
	assert.Equal(uint8(1), emu.Registers.V[2])
}

func TestEmulator_Frame(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    LD V1, 10",
		"    LD DT, V1",
		"loop:",
		"    ADD V0, 1",
		"    JP loop",
	)

	steps, err := emu.Frame(INSTRUCTIONS_RATE)
	assert.NoError(err)
	assert.Equal(INSTRUCTIONS_RATE, steps)
	assert.Equal(uint8(4), emu.Registers.V[0])
	assert.Equal(uint8(9), emu.Registers.Delay)

	// A key wait ends the frame.
	emu = load(t, "LD V0, K")
	steps, err = emu.Frame(INSTRUCTIONS_RATE)
	assert.NoError(err)
	assert.Equal(1, steps)
	assert.True(emu.Waiting)
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := load(t,
		"    LD V0, 1",
		"    LD ST, V0",
		"    DRW V0, V0, 1",
	)
	for range 3 {
		_, err := emu.Step()
		assert.NoError(err)
	}
	assert.True(emu.Buzzer.On())
	assert.NotZero(emu.Display.Lit())

	emu.Reset()
	assert.Equal(POWERED_OFF, emu.State)
	assert.False(emu.Buzzer.On())
	assert.Zero(emu.Display.Lit())
	assert.Equal(*cpu.NewRegisters(), *emu.Registers)

	v, err := emu.Memory.Read(0x200)
	assert.NoError(err)
	assert.Equal(uint8(0), v)
}
