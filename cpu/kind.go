package cpu

import (
	"strings"
)

// Mode is the addressing mode of an operand.
type Mode uint8

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMM     = Mode(0) // n
	MODE_REG     = Mode(1) // r
	MODE_FREG    = Mode(2) // fr
	MODE_ABS     = Mode(3) // (nnn)
	MODE_ABS_OFF = Mode(4) // (nnn+n)
	MODE_IND     = Mode(5) // (rrr)
	MODE_IND_OFF = Mode(6) // (rrr+n)
	MODE_IND_REG = Mode(7) // (rrr+r)
	MODE_COND    = Mode(8) // cc
	MODE_REL     = Mode(9) // dddd
)

const MODE_COUNT = 10

// IsMemory is true for every mode that addresses RAM.
func (mode Mode) IsMemory() bool {
	return mode >= MODE_ABS && mode <= MODE_IND_REG
}

// Width is the access width of an operand.
type Width uint8

const (
	WIDTH_NONE  = Width(0)
	WIDTH_8     = Width(1)
	WIDTH_16    = Width(2)
	WIDTH_24    = Width(3)
	WIDTH_32    = Width(4)
	WIDTH_FLOAT = Width(5) // IEEE-754 float32
)

// Bytes is the storage size of the width.
func (width Width) Bytes() int {
	if width == WIDTH_FLOAT {
		return 4
	}
	return int(width)
}

// Bits is the natural bit count of the width.
func (width Width) Bits() int {
	return width.Bytes() * 8
}

// Mask of the bits held by the width.
func (width Width) Mask() uint32 {
	if width >= WIDTH_32 {
		return 0xffffffff
	}
	return (uint32(1) << (8 * uint(width))) - 1
}

// SignBit of an integer width.
func (width Width) SignBit() uint32 {
	return uint32(1) << (width.Bits() - 1)
}

// IsFloat is true for the float32 width.
func (width Width) IsFloat() bool {
	return width == WIDTH_FLOAT
}

// Suffix is the mnemonic suffix that selects a memory width.
func (width Width) Suffix() string {
	switch width {
	case WIDTH_16:
		return "16"
	case WIDTH_24:
		return "24"
	case WIDTH_32:
		return "32"
	case WIDTH_FLOAT:
		return "f"
	}
	return ""
}

// Kind is the one byte operand descriptor shared by the encoder and the
// decoder: mode<<3 | width.
type Kind uint8

// MakeKind creates an operand kind.
func MakeKind(mode Mode, width Width) Kind {
	return Kind((uint8(mode) << 3) | (uint8(width) & 0x7))
}

// Mode of the kind.
func (kind Kind) Mode() Mode {
	return Mode(kind >> 3)
}

// Width of the kind.
func (kind Kind) Width() Width {
	return Width(kind & 0x7)
}

// IsFloat is true if the operand value is a float32.
func (kind Kind) IsFloat() bool {
	return kind.Width().IsFloat()
}

// Valid reports whether the mode and width combination can be encoded.
func (kind Kind) Valid() bool {
	width := kind.Width()
	switch kind.Mode() {
	case MODE_IMM:
		return width >= WIDTH_8 && width <= WIDTH_FLOAT
	case MODE_REG:
		return width >= WIDTH_8 && width <= WIDTH_32
	case MODE_FREG:
		return width == WIDTH_FLOAT
	case MODE_ABS, MODE_ABS_OFF, MODE_IND, MODE_IND_OFF, MODE_IND_REG:
		return width >= WIDTH_8 && width <= WIDTH_FLOAT
	case MODE_COND:
		return width == WIDTH_8
	case MODE_REL:
		return width == WIDTH_32
	}
	return false
}

// PayloadSize is the number of bytes that follow the kind bytes for an
// operand of this kind.
func (kind Kind) PayloadSize() (size int) {
	switch kind.Mode() {
	case MODE_IMM:
		size = kind.Width().Bytes()
	case MODE_REG, MODE_FREG, MODE_IND, MODE_COND:
		size = 1
	case MODE_ABS:
		size = 3
	case MODE_ABS_OFF:
		size = 6
	case MODE_IND_OFF:
		size = 4
	case MODE_IND_REG:
		size = 2
	case MODE_REL:
		size = 4
	}
	return
}

// String is the general form name of the kind, e.g. "rr" or "(rrr+n)16".
func (kind Kind) String() string {
	width := kind.Width()
	mode := kind.Mode()
	switch mode {
	case MODE_IMM:
		if width.IsFloat() {
			return "f"
		}
		return strings.Repeat("n", width.Bytes())
	case MODE_REG:
		return strings.Repeat("r", width.Bytes())
	case MODE_FREG, MODE_COND, MODE_REL:
		return mode.String()
	}
	return mode.String() + width.Suffix()
}
