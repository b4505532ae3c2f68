package emulator

import (
	"errors"

	"github.com/ezrec/c93/translate"
)

var f = translate.From

var (
	ErrStopped         = errors.New(f("emulator stopped"))
	ErrRegisterInvalid = errors.New(f("register name invalid"))
	ErrFlagInvalid     = errors.New(f("flag name invalid"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint32
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("address 0x%06x %v", err.Address, err.Err)
	}
	return f("line %d (0x%06x) %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
