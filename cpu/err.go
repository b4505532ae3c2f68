package cpu

import (
	"errors"
	"fmt"

	"github.com/ezrec/c93/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted           = errors.New(f("halted"))
	ErrStackEmpty       = errors.New(f("call stack empty"))
	ErrStackFull        = errors.New(f("call stack full"))
	ErrInterruptInvalid = errors.New(f("interrupt mode invalid"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrFormInvalid   = errors.New(f("operand form invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f("#EQU syntax"))
	ErrEquateDuplicate    = errors.New(f("#EQU duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f("#MACRO syntax"))
	ErrMacroNesting       = errors.New(f("#MACRO in #MACRO prohibited"))
	ErrMacroDuplicate     = errors.New(f("#MACRO duplicated"))
	ErrMacroLonely        = errors.New(f("#MACRO without #ENDM"))
	ErrMacroLonelyEndm    = errors.New(f("#ENDM without #MACRO"))
	ErrMacroArguments     = errors.New(f("macro argument count"))
	ErrMacroDepth         = errors.New(f("macro expansion too deep"))
	ErrOriginSyntax       = errors.New(f("#ORG syntax"))
	ErrDataSyntax         = errors.New(f("#DB syntax"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrArity              = errors.New(f("operand count invalid"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrConditionInvalid   = errors.New(f("condition invalid"))
	ErrRangeInvalid       = errors.New(f("value out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode is the context of a runtime fault.
type ErrOpcode struct {
	Address uint32
	Opcode  Opcode
}

func (eo ErrOpcode) Error() string {
	return fmt.Sprintf("0x%06x: %v", eo.Address, eo.Opcode.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrForm reports an operand form that the instruction does not allow.
type ErrForm string

func (err ErrForm) Error() string {
	return f("form '%v' not supported", string(err))
}

func (err ErrForm) Unwrap() error {
	return ErrFormInvalid
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return fmt.Sprintf("%s '%v' %v", f("line %d", err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
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
