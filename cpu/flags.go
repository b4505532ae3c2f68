package cpu

import (
	"strings"
)

// Flag is the index of a bit in the flags register.
type Flag uint8

const (
	FLAG_Z   = Flag(0) // Zero
	FLAG_C   = Flag(1) // Carry
	FLAG_SN  = Flag(2) // Sign
	FLAG_OV  = Flag(3) // Overflow
	FLAG_EQ  = Flag(4)
	FLAG_GT  = Flag(5)
	FLAG_LT  = Flag(6)
	FLAG_GTE = Flag(7)
	FLAG_LTE = Flag(8)
	FLAG_CF0 = Flag(9) // Custom flags CF0..CF6
	FLAG_CF6 = Flag(15)

	FLAG_COUNT = 16
)

var flagNames = [FLAG_COUNT]string{"Z", "C", "SN", "OV", "EQ", "GT", "LT", "GTE", "LTE",
	"CF0", "CF1", "CF2", "CF3", "CF4", "CF5", "CF6"}

func (flag Flag) String() string {
	if flag >= FLAG_COUNT {
		return "?"
	}
	return flagNames[flag]
}

// ParseFlag parses a flag name.
func ParseFlag(name string) (flag Flag, ok bool) {
	name = strings.ToUpper(name)
	for n, fn := range flagNames {
		if fn == name {
			return Flag(n), true
		}
	}
	return
}

// Flags is the flags register.
type Flags uint16

// Get a flag.
func (flags Flags) Get(flag Flag) bool {
	return flags&(1<<(flag%FLAG_COUNT)) != 0
}

// Set or clear a flag.
func (flags *Flags) Set(flag Flag, value bool) {
	bit := Flags(1) << (flag % FLAG_COUNT)
	if value {
		*flags |= bit
	} else {
		*flags &^= bit
	}
}

// Invert a flag.
func (flags *Flags) Invert(flag Flag) {
	*flags ^= Flags(1) << (flag % FLAG_COUNT)
}

// Compare sets the comparison flags from a single comparison outcome, so
// that exactly one of EQ, GT and LT holds.
func (flags *Flags) Compare(eq, gt bool) {
	lt := !eq && !gt
	flags.Set(FLAG_Z, eq)
	flags.Set(FLAG_EQ, eq)
	flags.Set(FLAG_GT, gt)
	flags.Set(FLAG_LT, lt)
	flags.Set(FLAG_GTE, eq || gt)
	flags.Set(FLAG_LTE, eq || lt)
}

// String lists the set flags.
func (flags Flags) String() string {
	var names []string
	for n := range FLAG_COUNT {
		if flags.Get(Flag(n)) {
			names = append(names, flagNames[n])
		}
	}
	return strings.Join(names, " ")
}

// Cond is an encoded branch condition: bit 7 negates the flag.
type Cond uint8

const COND_NEGATE = Cond(0x80)

// MakeCond creates a condition.
func MakeCond(flag Flag, negate bool) (cond Cond) {
	cond = Cond(flag % FLAG_COUNT)
	if negate {
		cond |= COND_NEGATE
	}
	return
}

// ParseCond parses a flag name, or an N-prefixed flag name.
func ParseCond(token string) (cond Cond, ok bool) {
	token = strings.ToUpper(token)
	if flag, found := ParseFlag(token); found {
		return MakeCond(flag, false), true
	}
	if strings.HasPrefix(token, "N") {
		if flag, found := ParseFlag(token[1:]); found {
			return MakeCond(flag, true), true
		}
	}
	return
}

// Flag tested by the condition.
func (cond Cond) Flag() Flag {
	return Flag(cond&^COND_NEGATE) % FLAG_COUNT
}

// Negated is true if the condition inverts its flag.
func (cond Cond) Negated() bool {
	return cond&COND_NEGATE != 0
}

// Holds evaluates the condition.
func (cond Cond) Holds(flags Flags) bool {
	return flags.Get(cond.Flag()) != cond.Negated()
}

func (cond Cond) String() string {
	if cond.Negated() {
		return "N" + cond.Flag().String()
	}
	return cond.Flag().String()
}
