package memory

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrOutOfBounds is an access to an address at or beyond MEMORY_SIZE.
type ErrOutOfBounds uint32

func (err ErrOutOfBounds) Error() string {
	return f("address 0x%04x out of bounds", uint32(err))
}

func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}

// ErrProtected is a write into the reserved interpreter region.
type ErrProtected uint16

func (err ErrProtected) Error() string {
	return f("address 0x%03x is in the protected region", uint16(err))
}

func (err ErrProtected) Is(target error) (ok bool) {
	_, ok = target.(ErrProtected)
	return
}

// ErrImageTooLarge is a program image that does not fit above the reserved region.
type ErrImageTooLarge int

func (err ErrImageTooLarge) Error() string {
	return f("image of %d bytes exceeds %d bytes", int(err), IMAGE_LIMIT)
}

func (err ErrImageTooLarge) Is(target error) (ok bool) {
	_, ok = target.(ErrImageTooLarge)
	return
}
