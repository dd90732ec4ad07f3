// Package memory implements the 4K address space of the CHIP-8 machine.
//
// The first 512 bytes (0x000-0x1FF) held the COSMAC VIP interpreter.
// Here they hold the hexadecimal digit glyphs and are read-only to
// programs. Programs are loaded at 0x200 and may use the rest of memory.
package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
)

const (
	MEMORY_SIZE   = 0x1000                      // Addressable bytes.
	RESERVED_SIZE = 0x200                       // Reserved interpreter region, also the program origin.
	IMAGE_LIMIT   = MEMORY_SIZE - RESERVED_SIZE // Largest loadable program image.
	FONT_BASE     = 0x000                       // Address of the glyph for digit 0.
	GLYPH_SIZE    = 5                           // Bytes (rows) per glyph.
	DUMP_WIDTH    = 16                          // Bytes per Dump() row.
)

// font is the built in 4x5 glyph set for the digits 0-F.
var font = [16 * GLYPH_SIZE]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

var _memory_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"PROGRAM_START": fmt.Sprintf("%#x", RESERVED_SIZE),
	"FONT":          fmt.Sprintf("%#x", FONT_BASE),
	"GLYPH_SIZE":    fmt.Sprintf("%d", GLYPH_SIZE),
}

// Memory is the byte addressable store of the machine.
type Memory struct {
	Verbose bool // Set to log loads and resets.

	data [MEMORY_SIZE]uint8
}

// NewMemory returns a memory in its power-on state.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.Reset()
	return
}

// Glyph returns the address of the glyph for the low nibble of digit.
func Glyph(digit uint8) uint16 {
	return FONT_BASE + uint16(digit&0xf)*GLYPH_SIZE
}

// Defines returns the memory layout equates for the assembler.
func Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset restores the power-on state: glyphs in the reserved region,
// zeros everywhere else.
func (mem *Memory) Reset() {
	if mem.Verbose {
		log.Printf("memory: reset")
	}

	clear(mem.data[:])
	copy(mem.data[FONT_BASE:], font[:])
}

// Read returns the byte at address.
func (mem *Memory) Read(address uint16) (value uint8, err error) {
	if int(address) >= MEMORY_SIZE {
		err = ErrOutOfBounds(address)
		return
	}

	value = mem.data[address]
	return
}

// Write stores value at address. The reserved region can not be written.
func (mem *Memory) Write(address uint16, value uint8) (err error) {
	switch {
	case int(address) >= MEMORY_SIZE:
		err = ErrOutOfBounds(address)
	case address < RESERVED_SIZE:
		err = ErrProtected(address)
	default:
		mem.data[address] = value
	}

	return
}

// LoadImage copies a raw program image to the program origin.
// An image larger than IMAGE_LIMIT is rejected and memory is left untouched.
func (mem *Memory) LoadImage(image []byte) (err error) {
	if len(image) > IMAGE_LIMIT {
		err = ErrImageTooLarge(len(image))
		return
	}

	copy(mem.data[RESERVED_SIZE:], image)

	if mem.Verbose {
		log.Printf("memory: loaded %d bytes at 0x%03x", len(image), RESERVED_SIZE)
	}

	return
}

// Dump iterates over the inclusive range [start, end] in rows of
// DUMP_WIDTH bytes, yielding the address of each row and a copy of its
// contents.
func (mem *Memory) Dump(start, end uint16) iter.Seq2[uint16, []uint8] {
	return func(yield func(address uint16, row []uint8) bool) {
		last := min(int(end), MEMORY_SIZE-1)
		for addr := int(start); addr <= last; addr += DUMP_WIDTH {
			stop := min(addr+DUMP_WIDTH, last+1)
			if !yield(uint16(addr), slices.Clone(mem.data[addr:stop])) {
				return
			}
		}
	}
}
