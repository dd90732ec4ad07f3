package statsview

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrUnavailable = errors.New(f("built without statsview"))
)
