package io

import (
	"bytes"
	"io"
	"iter"

	"github.com/ezrec/chip8/memory"
)

// Rom is a cartridge image: a raw big-endian instruction stream with no
// header, loaded at the program origin.
type Rom struct {
	Data []byte
}

var _ io.ReaderFrom = (*Rom)(nil)

// ReadFrom replaces the image with the contents of r. Images larger
// than memory.IMAGE_LIMIT are rejected.
func (rom *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	var buf bytes.Buffer

	n, err = buf.ReadFrom(io.LimitReader(r, memory.IMAGE_LIMIT+1))
	if err != nil {
		return
	}

	if n > memory.IMAGE_LIMIT {
		err = memory.ErrImageTooLarge(n)
		return
	}

	if n == 0 {
		err = ErrRomEmpty
		return
	}

	rom.Data = buf.Bytes()
	return
}

// Words iterates over the instruction words of the image, by address.
// A trailing odd byte is returned as the high byte of a word.
func (rom *Rom) Words() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for n := 0; n < len(rom.Data); n += 2 {
			word := uint16(rom.Data[n]) << 8
			if n+1 < len(rom.Data) {
				word |= uint16(rom.Data[n+1])
			}
			if !yield(memory.RESERVED_SIZE+uint16(n), word) {
				return
			}
		}
	}
}
