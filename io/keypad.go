package io

import (
	"github.com/ezrec/chip8/cpu"
)

// KEYBOARD_LAYOUT maps the left hand of a QWERTY keyboard onto the
// hexadecimal keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var KEYBOARD_LAYOUT = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyOf returns the keypad key for a keyboard rune. Upper case runes
// map the same as lower case.
func KeyOf(r rune) (key uint8, ok bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	key, ok = KEYBOARD_LAYOUT[r]
	return
}

// Keypad is the state of the 16 key hexadecimal keypad.
type Keypad struct {
	down [cpu.KEY_COUNT]bool
}

var _ cpu.Keys = (*Keypad)(nil)

// IsKeyDown returns true if the key is pressed.
func (kp *Keypad) IsKeyDown(key uint8) bool {
	if int(key) >= cpu.KEY_COUNT {
		return false
	}
	return kp.down[key]
}

// Press marks a key as pressed.
func (kp *Keypad) Press(key uint8) (err error) {
	if int(key) >= cpu.KEY_COUNT {
		err = ErrKeyInvalid
		return
	}

	kp.down[key] = true
	return
}

// Release marks a key as released.
func (kp *Keypad) Release(key uint8) (err error) {
	if int(key) >= cpu.KEY_COUNT {
		err = ErrKeyInvalid
		return
	}

	kp.down[key] = false
	return
}

// ReleaseAll releases every key.
func (kp *Keypad) ReleaseAll() {
	clear(kp.down[:])
}

// Pressed returns the lowest numbered pressed key.
func (kp *Keypad) Pressed() (key uint8, ok bool) {
	for n, down := range kp.down {
		if down {
			key, ok = uint8(n), true
			return
		}
	}

	return
}
