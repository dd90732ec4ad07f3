package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/memory"
)

func TestRom_ReadFrom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	n, err := rom.ReadFrom(bytes.NewReader([]byte{0x60, 0x05, 0x70, 0x03, 0x12}))
	assert.NoError(err)
	assert.Equal(int64(5), n)
	assert.Equal([]byte{0x60, 0x05, 0x70, 0x03, 0x12}, rom.Data)

	var addrs []uint16
	var words []uint16
	for addr, word := range rom.Words() {
		addrs = append(addrs, addr)
		words = append(words, word)
	}
	assert.Equal([]uint16{0x200, 0x202, 0x204}, addrs)
	assert.Equal([]uint16{0x6005, 0x7003, 0x1200}, words)
}

func TestRom_ReadFrom_Limit(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	_, err := rom.ReadFrom(bytes.NewReader(make([]byte, memory.IMAGE_LIMIT)))
	assert.NoError(err)
	assert.Len(rom.Data, memory.IMAGE_LIMIT)

	rom = &Rom{}
	_, err = rom.ReadFrom(bytes.NewReader(make([]byte, memory.IMAGE_LIMIT+1)))
	assert.ErrorIs(err, memory.ErrImageTooLarge(0))
	assert.Nil(rom.Data)
}

func TestRom_ReadFrom_Empty(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	_, err := rom.ReadFrom(bytes.NewReader(nil))
	assert.ErrorIs(err, ErrRomEmpty)
}
