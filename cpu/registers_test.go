package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/memory"
)

func TestRegisters_Reset(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters()
	assert.Equal(uint16(PC_START), regs.Pc)

	regs.V[3] = 7
	regs.I = 0x300
	regs.Pc = 0x400
	regs.Delay = 1
	regs.Sound = 2
	assert.NoError(regs.PushReturn(0x202))

	regs.Reset()
	assert.Equal(*NewRegisters(), *regs)
}

func TestRegisters_AdvancePc(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters()
	assert.NoError(regs.AdvancePc())
	assert.Equal(uint16(0x202), regs.Pc)

	regs.Pc = memory.MEMORY_SIZE - 4
	assert.NoError(regs.AdvancePc())
	assert.Equal(uint16(memory.MEMORY_SIZE-2), regs.Pc)

	assert.NoError(regs.AdvancePc())
	assert.Equal(uint16(memory.MEMORY_SIZE), regs.Pc)

	err := regs.AdvancePc()
	assert.ErrorIs(err, memory.ErrOutOfBounds(0))
	assert.Equal(uint16(memory.MEMORY_SIZE), regs.Pc)
}

func TestRegisters_ReturnStack(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters()
	_, err := regs.PopReturn()
	assert.ErrorIs(err, ErrStackUnderflow)

	for range STACK_LIMIT {
		assert.NoError(regs.PushReturn(0x202))
	}
	assert.ErrorIs(regs.PushReturn(0x202), ErrStackOverflow)

	addr, err := regs.PopReturn()
	assert.NoError(err)
	assert.Equal(uint16(0x202), addr)
}

func TestRegisters_DecrementTimers(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters()
	regs.Delay = 2
	regs.Sound = 1

	regs.DecrementTimers()
	assert.Equal(uint8(1), regs.Delay)
	assert.Equal(uint8(0), regs.Sound)

	for range 3 {
		regs.DecrementTimers()
	}
	assert.Equal(uint8(0), regs.Delay)
	assert.Equal(uint8(0), regs.Sound)
}

func TestRegisters_String(t *testing.T) {
	assert := assert.New(t)

	regs := NewRegisters()
	regs.V[0xF] = 0x01
	text := regs.String()

	assert.True(strings.HasPrefix(text, "   pc: 200\n"))
	assert.Contains(text, "   vF: 01\n")
	assert.Contains(text, "stack: --- (0)\n")
}
