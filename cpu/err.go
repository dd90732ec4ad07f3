package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrPcMisaligned   = errors.New(f("pc misaligned"))
	ErrOpcodeUnknown  = errors.New(f("opcode unknown"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode reports the instruction that raised a fault.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", eo.Word, Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
