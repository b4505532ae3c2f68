package cpu

import (
	"iter"
	"strings"
)

// ModeSet is a set of addressing modes.
type ModeSet uint16

// Modes creates a mode set.
func Modes(modes ...Mode) (ms ModeSet) {
	for _, mode := range modes {
		ms |= 1 << mode
	}
	return
}

// Has is true if the mode is in the set.
func (ms ModeSet) Has(mode Mode) bool {
	return mode < MODE_COUNT && ms&(1<<mode) != 0
}

// Union of two mode sets.
func (ms ModeSet) Union(other ModeSet) ModeSet {
	return ms | other
}

// WidthSet is a set of widths.
type WidthSet uint8

// Widths creates a width set.
func Widths(widths ...Width) (ws WidthSet) {
	for _, width := range widths {
		ws |= 1 << width
	}
	return
}

// Has is true if the width is in the set.
func (ws WidthSet) Has(width Width) bool {
	return ws&(1<<width) != 0
}

var (
	MODES_MEMORY = Modes(MODE_ABS, MODE_ABS_OFF, MODE_IND, MODE_IND_OFF, MODE_IND_REG)
	MODES_RM     = Modes(MODE_REG).Union(MODES_MEMORY)
	MODES_FRM    = Modes(MODE_FREG).Union(MODES_RM)
	MODES_NRM    = Modes(MODE_IMM).Union(MODES_RM)
	MODES_ANY    = Modes(MODE_IMM, MODE_FREG).Union(MODES_RM)

	WIDTHS_INT = Widths(WIDTH_8, WIDTH_16, WIDTH_24, WIDTH_32)
	WIDTHS_ALL = Widths(WIDTH_8, WIDTH_16, WIDTH_24, WIDTH_32, WIDTH_FLOAT)
)

// Slot is the grammar of one operand position of an instruction.
type Slot struct {
	Modes    ModeSet
	Widths   WidthSet // Register and memory widths.
	Imm      Width    // Fixed immediate width, or WIDTH_NONE to follow Match.
	Match    int      // Counterpart slot, or -1.
	Positive bool     // Conditions may not be negated.
}

// Dest is a destination slot: register, float register or memory.
func Dest(modes ModeSet, widths WidthSet) Slot {
	return Slot{Modes: modes, Widths: widths, Match: -1}
}

// Source is a slot whose immediate and memory width follow another slot.
func Source(modes ModeSet, widths WidthSet, match int) Slot {
	return Slot{Modes: modes, Widths: widths, Match: match}
}

// Fixed is a slot whose immediate always has the given width.
func Fixed(modes ModeSet, widths WidthSet, imm Width) Slot {
	return Slot{Modes: modes, Widths: widths, Imm: imm, Match: -1}
}

// FlagSlot names a single flag, either by name or by its index.
func FlagSlot() Slot {
	slot := Fixed(Modes(MODE_COND, MODE_IMM), 0, WIDTH_8)
	slot.Positive = true
	return slot
}

func (slot Slot) allows(kinds []Kind, n int) bool {
	kind := kinds[n]
	if !kind.Valid() || !slot.Modes.Has(kind.Mode()) {
		return false
	}

	width := kind.Width()
	switch kind.Mode() {
	case MODE_IMM:
		if slot.Imm != WIDTH_NONE {
			return width == slot.Imm
		}
		if slot.Match >= 0 {
			other := kinds[slot.Match].Width()
			if other.IsFloat() {
				return width.IsFloat()
			}
			return width == other || width.IsFloat()
		}
		return true
	case MODE_COND, MODE_REL:
		return true
	}

	return slot.Widths.Has(width)
}

// Def is an instruction definition: opcode, mnemonic and operand grammar.
type Def struct {
	Opcode Opcode
	Name   string
	Slots  []Slot

	exec func(cpu *Cpu, inst *Instruction) error
}

// Arity is the operand count of the instruction.
func (def *Def) Arity() int {
	return len(def.Slots)
}

// Allows reports whether the operand kinds are a legal form of the
// instruction. Both the assembler and the decoder consult it.
func (def *Def) Allows(kinds []Kind) bool {
	if len(kinds) != len(def.Slots) {
		return false
	}

	for n, slot := range def.Slots {
		if !slot.allows(kinds, n) {
			return false
		}
	}

	return true
}

// Forms enumerates every legal form of the instruction.
func (def *Def) Forms() iter.Seq[Form] {
	return func(yield func(form Form) bool) {
		kinds := make([]Kind, len(def.Slots))
		var walk func(n int) bool
		walk = func(n int) bool {
			if n == len(kinds) {
				if !def.Allows(kinds) {
					return true
				}
				return yield(Form{Def: def, Kinds: append([]Kind(nil), kinds...)})
			}
			for k := range 256 {
				kind := Kind(k)
				if !kind.Valid() || !def.Slots[n].Modes.Has(kind.Mode()) {
					continue
				}
				kinds[n] = kind
				if !walk(n + 1) {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}

// Form is a resolved instruction form: definition and operand kinds.
type Form struct {
	Def   *Def
	Kinds []Kind
}

// Size is the encoded size, in bytes, of any instruction of this form.
func (form Form) Size() (size int) {
	if form.Def == nil {
		return
	}

	size = 1 + len(form.Kinds)
	for _, kind := range form.Kinds {
		size += kind.PayloadSize()
	}
	return
}

// String of the form, e.g. "LD r,(rrr+n)".
func (form Form) String() string {
	if form.Def == nil {
		return ""
	}

	names := make([]string, len(form.Kinds))
	for n, kind := range form.Kinds {
		names[n] = kind.String()
	}

	if len(names) == 0 {
		return form.Def.Name
	}

	return form.Def.Name + " " + strings.Join(names, ",")
}
