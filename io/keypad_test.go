package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	_, ok := kp.Pressed()
	assert.False(ok)

	assert.NoError(kp.Press(0xC))
	assert.NoError(kp.Press(0x3))
	assert.True(kp.IsKeyDown(0xC))
	assert.True(kp.IsKeyDown(0x3))
	assert.False(kp.IsKeyDown(0x4))

	key, ok := kp.Pressed()
	assert.True(ok)
	assert.Equal(uint8(0x3), key)

	assert.NoError(kp.Release(0x3))
	key, ok = kp.Pressed()
	assert.True(ok)
	assert.Equal(uint8(0xC), key)

	kp.ReleaseAll()
	_, ok = kp.Pressed()
	assert.False(ok)
}

func TestKeypad_Invalid(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	assert.ErrorIs(kp.Press(16), ErrKeyInvalid)
	assert.ErrorIs(kp.Release(0xFF), ErrKeyInvalid)
	assert.False(kp.IsKeyDown(16))
}

func TestKeyOf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		r   rune
		key uint8
		ok  bool
	}){
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'w', 0x5, true},
		{'W', 0x5, true},
		{'x', 0x0, true},
		{'v', 0xF, true},
		{'p', 0, false},
		{'5', 0, false},
	}

	for _, entry := range table {
		key, ok := KeyOf(entry.r)
		assert.Equal(entry.ok, ok, string(entry.r))
		assert.Equal(entry.key, key, string(entry.r))
	}

	// Every keypad key is reachable.
	seen := map[uint8]bool{}
	for _, key := range KEYBOARD_LAYOUT {
		seen[key] = true
	}
	assert.Len(seen, 16)
}
