package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	REGISTER_COUNT = 26  // Single byte registers A..Z per bank.
	REGISTER_BANKS = 256 // Register banks.
	REGISTER_SPR   = 26  // Register index of the stack pointer.

	FLOAT_COUNT = 16  // Float registers per bank.
	FLOAT_BANKS = 256 // Float register banks.
)

// Registers is the banked byte register file. Composite registers are
// big-endian views over consecutive cells, wrapping from Z to A.
type Registers struct {
	Bank     [REGISTER_BANKS][REGISTER_COUNT]uint8
	Selected uint8
}

// Get8 reads a single byte register of the selected bank.
func (regs *Registers) Get8(index int) uint8 {
	return regs.Bank[regs.Selected][index%REGISTER_COUNT]
}

// Set8 writes a single byte register of the selected bank.
func (regs *Registers) Set8(index int, value uint8) {
	regs.Bank[regs.Selected][index%REGISTER_COUNT] = value
}

// Get reads the composite register starting at index.
func (regs *Registers) Get(index int, width Width) (value uint32) {
	for n := range width.Bytes() {
		value = (value << 8) | uint32(regs.Get8(index+n))
	}
	return
}

// Set writes the composite register starting at index.
func (regs *Registers) Set(index int, width Width, value uint32) {
	for n := width.Bytes() - 1; n >= 0; n-- {
		regs.Set8(index+n, uint8(value))
		value >>= 8
	}
}

// Select a register bank.
func (regs *Registers) Select(bank uint8) {
	regs.Selected = bank
}

// ClearBank zeroes the selected bank.
func (regs *Registers) ClearBank() {
	clear(regs.Bank[regs.Selected][:])
}

// Reset zeroes all banks and selects bank 0.
func (regs *Registers) Reset() {
	*regs = Registers{}
}

// RegisterName is the assembler name of a register of the given width.
func RegisterName(index int, width Width) string {
	if index == REGISTER_SPR {
		return "SPR"
	}

	var name strings.Builder
	for n := range width.Bytes() {
		name.WriteByte(byte('A' + (index+n)%REGISTER_COUNT))
	}
	return name.String()
}

// ParseRegister parses an integer register name: 1 to 4 consecutive
// letters, or SPR.
func ParseRegister(name string) (index int, width Width, ok bool) {
	name = strings.ToUpper(name)
	if name == "SPR" {
		return REGISTER_SPR, WIDTH_32, true
	}

	if len(name) < 1 || len(name) > 4 {
		return
	}

	for n := range len(name) {
		letter := name[n]
		if letter < 'A' || letter > 'Z' {
			return
		}
		if n == 0 {
			index = int(letter - 'A')
		} else if int(letter-'A') != (index+n)%REGISTER_COUNT {
			return
		}
	}

	return index, Width(len(name)), true
}

// Floats is the banked float register file.
type Floats struct {
	Bank     [FLOAT_BANKS][FLOAT_COUNT]float32
	Selected uint8
}

// Get a float register of the selected bank.
func (fr *Floats) Get(index int) float32 {
	return fr.Bank[fr.Selected][index%FLOAT_COUNT]
}

// Set a float register of the selected bank.
func (fr *Floats) Set(index int, value float32) {
	fr.Bank[fr.Selected][index%FLOAT_COUNT] = value
}

// Select a float register bank.
func (fr *Floats) Select(bank uint8) {
	fr.Selected = bank
}

// Reset zeroes all float banks and selects bank 0.
func (fr *Floats) Reset() {
	*fr = Floats{}
}

// FloatName is the assembler name of a float register.
func FloatName(index int) string {
	return fmt.Sprintf("F%d", index)
}

// ParseFloat parses a float register name, F0 to F15.
func ParseFloat(name string) (index int, ok bool) {
	if len(name) < 2 || (name[0] != 'F' && name[0] != 'f') {
		return
	}

	value, err := strconv.ParseUint(name[1:], 10, 8)
	if err != nil || value >= FLOAT_COUNT {
		return
	}

	return int(value), true
}
