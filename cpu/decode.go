package cpu

import (
	"fmt"
	"math"
	"strings"
)

// RegRef is the one byte reference to a register used by the indirect
// modes: (width-1)<<5 | index.
type RegRef uint8

// MakeRegRef creates a register reference.
func MakeRegRef(index int, width Width) RegRef {
	return RegRef(((uint8(width)-1)&0x3)<<5 | uint8(index)&0x1f)
}

// Index of the referenced register.
func (ref RegRef) Index() int {
	return int(ref & 0x1f)
}

// Width of the referenced register.
func (ref RegRef) Width() Width {
	return Width(ref>>5&0x3) + 1
}

func (ref RegRef) String() string {
	return RegisterName(ref.Index(), ref.Width())
}

// Operand is a decoded operand.
type Operand struct {
	Kind   Kind
	Value  uint32 // Immediate bits, absolute address, condition or displacement.
	Reg    uint8  // Register or float register index, or base RegRef.
	Index  RegRef // Offset register of MODE_IND_REG.
	Offset int32  // Signed offset of MODE_ABS_OFF and MODE_IND_OFF.
}

// Mode of the operand.
func (op Operand) Mode() Mode {
	return op.Kind.Mode()
}

// Width of the operand.
func (op Operand) Width() Width {
	return op.Kind.Width()
}

// IsFloat is true if the operand holds a float32.
func (op Operand) IsFloat() bool {
	return op.Kind.IsFloat()
}

// Cond of a MODE_COND operand.
func (op Operand) Cond() Cond {
	return Cond(op.Value)
}

func (op Operand) String() string {
	switch op.Mode() {
	case MODE_IMM:
		if op.IsFloat() {
			return fmt.Sprintf("%g", math.Float32frombits(op.Value))
		}
		return fmt.Sprintf("0x%X", op.Value)
	case MODE_REG:
		return RegisterName(int(op.Reg), op.Width())
	case MODE_FREG:
		return FloatName(int(op.Reg))
	case MODE_ABS:
		return fmt.Sprintf("(0x%06X)", op.Value)
	case MODE_ABS_OFF:
		return fmt.Sprintf("(0x%06X%+d)", op.Value, op.Offset)
	case MODE_IND:
		return fmt.Sprintf("(%v)", RegRef(op.Reg))
	case MODE_IND_OFF:
		return fmt.Sprintf("(%v%+d)", RegRef(op.Reg), op.Offset)
	case MODE_IND_REG:
		return fmt.Sprintf("(%v+%v)", RegRef(op.Reg), op.Index)
	case MODE_COND:
		return op.Cond().String()
	case MODE_REL:
		return fmt.Sprintf("%+d", int32(op.Value))
	}
	return "?"
}

func sext24(value uint32) int32 {
	return int32(value<<8) >> 8
}

// AppendPayload appends the encoded operand payload to buf.
func (op Operand) AppendPayload(buf []byte) []byte {
	put := func(size int, value uint32) {
		for n := size - 1; n >= 0; n-- {
			buf = append(buf, byte(value>>(8*n)))
		}
	}

	switch op.Mode() {
	case MODE_IMM:
		put(op.Width().Bytes(), op.Value)
	case MODE_REG, MODE_FREG, MODE_IND:
		put(1, uint32(op.Reg))
	case MODE_ABS:
		put(3, op.Value)
	case MODE_ABS_OFF:
		put(3, op.Value)
		put(3, uint32(op.Offset))
	case MODE_IND_OFF:
		put(1, uint32(op.Reg))
		put(3, uint32(op.Offset))
	case MODE_IND_REG:
		put(1, uint32(op.Reg))
		put(1, uint32(op.Index))
	case MODE_COND:
		put(1, op.Value)
	case MODE_REL:
		put(4, op.Value)
	}

	return buf
}

// ByteReader is any byte addressed store, such as *memory.Memory.
type ByteReader interface {
	Get8(addr uint32) uint8
}

// Bytes is a ByteReader over a slice; reads past the end are zero.
type Bytes []byte

func (b Bytes) Get8(addr uint32) uint8 {
	if uint64(addr) >= uint64(len(b)) {
		return 0
	}
	return b[addr]
}

func decodeOperand(kind Kind, mem ByteReader, addr uint32) (op Operand) {
	get := func(size int) (value uint32) {
		for range size {
			value = (value << 8) | uint32(mem.Get8(addr))
			addr++
		}
		return
	}

	op.Kind = kind
	switch kind.Mode() {
	case MODE_IMM:
		op.Value = get(kind.Width().Bytes())
	case MODE_REG, MODE_FREG, MODE_IND:
		op.Reg = uint8(get(1))
	case MODE_ABS:
		op.Value = get(3)
	case MODE_ABS_OFF:
		op.Value = get(3)
		op.Offset = sext24(get(3))
	case MODE_IND_OFF:
		op.Reg = uint8(get(1))
		op.Offset = sext24(get(3))
	case MODE_IND_REG:
		op.Reg = uint8(get(1))
		op.Index = RegRef(get(1))
	case MODE_COND:
		op.Value = get(1)
	case MODE_REL:
		op.Value = get(4)
	}

	return
}

// Instruction is a decoded instruction.
type Instruction struct {
	Form
	Address  uint32
	Operands []Operand
}

// End is the address of the following instruction.
func (inst *Instruction) End() uint32 {
	return inst.Address + uint32(inst.Size())
}

// Encode the instruction.
func (inst *Instruction) Encode() (buf []byte) {
	buf = make([]byte, 0, inst.Size())
	buf = append(buf, byte(inst.Def.Opcode))
	for _, kind := range inst.Kinds {
		buf = append(buf, byte(kind))
	}
	for _, op := range inst.Operands {
		buf = op.AppendPayload(buf)
	}
	return
}

// String disassembles the instruction.
func (inst *Instruction) String() string {
	if inst.Def == nil {
		return "?"
	}

	name := inst.Def.Name
	if len(inst.Operands) == 0 {
		return name
	}

	for n, op := range inst.Operands {
		if op.Mode().IsMemory() && op.Width() != inferWidth(inst.Def, inst.Kinds, n) {
			name += op.Width().Suffix()
			break
		}
	}

	args := make([]string, len(inst.Operands))
	for n, op := range inst.Operands {
		args[n] = op.String()
	}

	return name + " " + strings.Join(args, ", ")
}

// counterpart is the slot a memory operand takes its width from.
func counterpart(def *Def, n int) int {
	if match := def.Slots[n].Match; match >= 0 {
		return match
	}
	for other, slot := range def.Slots {
		if slot.Match == n {
			return other
		}
	}
	return -1
}

// inferWidth is the memory width of operand n when no mnemonic suffix is
// given.
func inferWidth(def *Def, kinds []Kind, n int) Width {
	other := counterpart(def, n)
	if other < 0 || other >= len(kinds) {
		return WIDTH_8
	}

	kind := kinds[other]
	switch kind.Mode() {
	case MODE_REG:
		return kind.Width()
	case MODE_FREG:
		return WIDTH_FLOAT
	case MODE_IMM:
		if kind.IsFloat() {
			return WIDTH_FLOAT
		}
	}
	return WIDTH_8
}

// Decode the instruction at addr.
func Decode(mem ByteReader, addr uint32) (inst Instruction, err error) {
	op := Opcode(mem.Get8(addr))
	def, ok := defs[op]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	kinds := make([]Kind, def.Arity())
	for n := range kinds {
		kinds[n] = Kind(mem.Get8(addr + 1 + uint32(n)))
	}

	if !def.Allows(kinds) {
		err = ErrForm(Form{Def: def, Kinds: kinds}.String())
		return
	}

	inst = Instruction{
		Form:     Form{Def: def, Kinds: kinds},
		Address:  addr,
		Operands: make([]Operand, len(kinds)),
	}

	pos := addr + 1 + uint32(len(kinds))
	for n, kind := range kinds {
		op := decodeOperand(kind, mem, pos)
		if def.Slots[n].Positive && kind.Mode() == MODE_COND && op.Cond().Negated() {
			inst = Instruction{}
			err = ErrConditionInvalid
			return
		}
		inst.Operands[n] = op
		pos += uint32(kind.PayloadSize())
	}

	return
}
