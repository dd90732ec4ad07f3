package emulator

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrNotRunning = errors.New(f("emulator not running"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16 // Address of the faulting instruction.
	LineNo int    // Source line, or 0 if there is no listing.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%03x %v", err.Pc, err.Err)
	}
	return f("line %d pc 0x%03x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
