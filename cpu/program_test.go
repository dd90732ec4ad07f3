package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const programText = `
    LD V0, 5       ; line 2
    .byte 1, 2, 3  ; line 3
    .byte 4
loop:
    JP loop        ; line 6
`

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, programText)
	assert.NoError(err)

	dbg := prog.Debug(0x200)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(2, dbg.LineNo)
		assert.Equal(0, dbg.Offset)
		assert.True(dbg.Code)
	}

	dbg = prog.Debug(0x204)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(2, dbg.Offset)
		assert.False(dbg.Code)
	}

	dbg = prog.Debug(0x207)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(6, dbg.LineNo)
		assert.Equal(1, dbg.Offset)
	}

	dbg = prog.Debug(0x208)
	assert.Nil(dbg.Opcode)

	dbg = prog.Debug(0x100)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, programText)
	assert.NoError(err)
	assert.Equal([]byte{0x60, 0x05, 1, 2, 3, 4, 0x12, 0x06}, prog.Binary())

	empty := &Program{}
	assert.Empty(empty.Binary())

	// Gaps are zero filled.
	sparse := &Program{
		Opcodes: []Opcode{
			{Addr: 0x204, Data: []uint8{0xAA}},
			{Addr: 0x200, Data: []uint8{0x11, 0x22}},
		},
	}
	assert.Equal([]byte{0x11, 0x22, 0x00, 0x00, 0xAA}, sparse.Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, programText)
	assert.NoError(err)

	var addrs []uint16
	var codes []string
	for addr, ins := range prog.Codes() {
		addrs = append(addrs, addr)
		codes = append(codes, ins.String())
	}

	assert.Equal([]uint16{0x200, 0x206}, addrs)
	assert.Equal([]string{"LD V0, 0x05", "JP 0x206"}, codes)
}
