package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Opcode is the first byte of every instruction.
type Opcode uint8

const (
	OP_BREAK = Opcode(0x00)
	OP_NOP   = Opcode(0x01)
	OP_LD    = Opcode(0x02)

	OP_ADD  = Opcode(0x10)
	OP_SUB  = Opcode(0x11)
	OP_MUL  = Opcode(0x12)
	OP_SMUL = Opcode(0x13)
	OP_DIV  = Opcode(0x14)
	OP_MOD  = Opcode(0x15)
	OP_INC  = Opcode(0x16)
	OP_DEC  = Opcode(0x17)
	OP_CP   = Opcode(0x18)
	OP_SCP  = Opcode(0x19)

	OP_AND   = Opcode(0x20)
	OP_OR    = Opcode(0x21)
	OP_XOR   = Opcode(0x22)
	OP_IMPLY = Opcode(0x23)
	OP_INV   = Opcode(0x24)
	OP_SET   = Opcode(0x25)
	OP_RES   = Opcode(0x26)
	OP_BIT   = Opcode(0x27)
	OP_RL    = Opcode(0x28)
	OP_RR    = Opcode(0x29)
	OP_SL    = Opcode(0x2a)
	OP_SR    = Opcode(0x2b)

	OP_JP       = Opcode(0x30)
	OP_JP_CC    = Opcode(0x31)
	OP_JR       = Opcode(0x32)
	OP_JR_CC    = Opcode(0x33)
	OP_CALL     = Opcode(0x34)
	OP_CALL_CC  = Opcode(0x35)
	OP_CALLR    = Opcode(0x36)
	OP_CALLR_CC = Opcode(0x37)
	OP_RET      = Opcode(0x38)
	OP_RETIF    = Opcode(0x39)
	OP_DJNZ     = Opcode(0x3a)

	OP_MEMC       = Opcode(0x40)
	OP_MEMF       = Opcode(0x41)
	OP_GETBITS    = Opcode(0x42)
	OP_SETBITS    = Opcode(0x43)
	OP_STREGS     = Opcode(0x44)
	OP_LDREGS     = Opcode(0x45)
	OP_SETVAR     = Opcode(0x46)
	OP_GETVAR     = Opcode(0x47)
	OP_PUSH       = Opcode(0x48)
	OP_PUSH_RANGE = Opcode(0x49)
	OP_POP        = Opcode(0x4a)
	OP_POP_RANGE  = Opcode(0x4b)

	OP_REGS  = Opcode(0x50)
	OP_FREGS = Opcode(0x51)
	OP_SETF  = Opcode(0x52)
	OP_RESF  = Opcode(0x53)
	OP_INVF  = Opcode(0x54)

	OP_SIN   = Opcode(0x60)
	OP_COS   = Opcode(0x61)
	OP_TAN   = Opcode(0x62)
	OP_SQR   = Opcode(0x63)
	OP_CBR   = Opcode(0x64)
	OP_ISQR  = Opcode(0x65)
	OP_ABS   = Opcode(0x66)
	OP_ISGN  = Opcode(0x67)
	OP_FLOOR = Opcode(0x68)
	OP_CEIL  = Opcode(0x69)
	OP_ROUND = Opcode(0x6a)
	OP_POW   = Opcode(0x6b)
	OP_MAX   = Opcode(0x6c)
	OP_MIN   = Opcode(0x6d)

	// In place variants of the float unary operators, OP_SIN + OP_INPLACE.
	OP_INPLACE = Opcode(0x10)

	OP_INT     = Opcode(0x80)
	OP_PLAY    = Opcode(0x81)
	OP_VCL     = Opcode(0x82)
	OP_VDL     = Opcode(0x83)
	OP_HSB2RGB = Opcode(0x84)
	OP_HSL2RGB = Opcode(0x85)
	OP_RGB2HSL = Opcode(0x86)
)

var (
	// Definitions by opcode.
	defs map[Opcode]*Def

	// Definitions by mnemonic, one per arity.
	defsByName map[string][]*Def
)

// Lookup the definition of an opcode.
func Lookup(op Opcode) (def *Def, ok bool) {
	def, ok = defs[op]
	return
}

// LookupName finds the definition of a mnemonic with the given arity.
func LookupName(name string, arity int) (def *Def, err error) {
	list, ok := defsByName[strings.ToUpper(name)]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	for _, def = range list {
		if def.Arity() == arity {
			return
		}
	}

	def = nil
	err = ErrArity
	return
}

// Defs iterates all instruction definitions in opcode order.
func Defs() iter.Seq[*Def] {
	return func(yield func(def *Def) bool) {
		for _, op := range slices.Sorted(maps.Keys(defs)) {
			if !yield(defs[op]) {
				return
			}
		}
	}
}

// String is the mnemonic of the opcode.
func (op Opcode) String() string {
	def, ok := defs[op]
	if !ok {
		return fmt.Sprintf("Opcode(0x%02x)", uint8(op))
	}
	return def.Name
}

type execFunc func(cpu *Cpu, inst *Instruction) error

func define(op Opcode, name string, exec execFunc, slots ...Slot) {
	def := &Def{
		Opcode: op,
		Name:   name,
		Slots:  slots,
		exec:   exec,
	}
	defs[op] = def
	defsByName[name] = append(defsByName[name], def)
}

func init() {
	defs = map[Opcode]*Def{}
	defsByName = map[string][]*Def{}

	var (
		dst      = Dest(MODES_FRM, WIDTHS_ALL)
		dstInt   = Dest(MODES_RM, WIDTHS_INT)
		src      = Source(MODES_ANY, WIDTHS_ALL, 0)
		srcInt   = Source(MODES_NRM, WIDTHS_INT, 0)
		reg      = Dest(Modes(MODE_REG), WIDTHS_INT)
		reg8     = Dest(Modes(MODE_REG), Widths(WIDTH_8))
		regOrI8  = Fixed(Modes(MODE_REG, MODE_IMM), WIDTHS_INT, WIDTH_8)
		regOrI24 = Fixed(Modes(MODE_REG, MODE_IMM), WIDTHS_INT, WIDTH_24)
		regOrI32 = Fixed(Modes(MODE_REG, MODE_IMM), WIDTHS_INT, WIDTH_32)
		bank     = Fixed(MODES_NRM, Widths(WIDTH_8), WIDTH_8)
		mem      = Dest(MODES_MEMORY, WIDTHS_INT)
		cond     = Dest(Modes(MODE_COND), 0)
		rel      = Dest(Modes(MODE_REL), 0)
		flag     = FlagSlot()
		fdst     = Dest(Modes(MODE_REG, MODE_FREG), WIDTHS_ALL)
		fsrc     = Source(Modes(MODE_REG, MODE_FREG, MODE_IMM), WIDTHS_ALL, 0)
	)

	define(OP_BREAK, "BREAK", (*Cpu).execBreak)
	define(OP_NOP, "NOP", (*Cpu).execNop)
	define(OP_LD, "LD", (*Cpu).execLd, dst, src)

	define(OP_ADD, "ADD", (*Cpu).execAdd, dst, src)
	define(OP_SUB, "SUB", (*Cpu).execSub, dst, src)
	define(OP_MUL, "MUL", (*Cpu).execMul, dst, src)
	define(OP_SMUL, "SMUL", (*Cpu).execSmul, dst, src)
	define(OP_DIV, "DIV", (*Cpu).execDiv, dst, src)
	define(OP_MOD, "MOD", (*Cpu).execMod, dst, src)
	define(OP_INC, "INC", (*Cpu).execInc, dstInt)
	define(OP_DEC, "DEC", (*Cpu).execDec, dstInt)
	define(OP_CP, "CP", (*Cpu).execCp, dst, src)
	define(OP_SCP, "SCP", (*Cpu).execScp, dst, src)

	define(OP_AND, "AND", (*Cpu).execAnd, dstInt, srcInt)
	define(OP_OR, "OR", (*Cpu).execOr, dstInt, srcInt)
	define(OP_XOR, "XOR", (*Cpu).execXor, dstInt, srcInt)
	define(OP_IMPLY, "IMPLY", (*Cpu).execImply, dstInt, srcInt)
	define(OP_INV, "INV", (*Cpu).execInv, dstInt)
	define(OP_SET, "SET", (*Cpu).execSet, dstInt, regOrI8)
	define(OP_RES, "RES", (*Cpu).execRes, dstInt, regOrI8)
	define(OP_BIT, "BIT", (*Cpu).execBit, dstInt, regOrI8)
	define(OP_RL, "RL", (*Cpu).execRl, dstInt, regOrI8)
	define(OP_RR, "RR", (*Cpu).execRr, dstInt, regOrI8)
	define(OP_SL, "SL", (*Cpu).execSl, dstInt, regOrI8)
	define(OP_SR, "SR", (*Cpu).execSr, dstInt, regOrI8)

	define(OP_JP, "JP", (*Cpu).execJp, regOrI24)
	define(OP_JP_CC, "JP", (*Cpu).execJp, cond, regOrI24)
	define(OP_JR, "JR", (*Cpu).execJr, rel)
	define(OP_JR_CC, "JR", (*Cpu).execJr, cond, rel)
	define(OP_CALL, "CALL", (*Cpu).execCall, regOrI24)
	define(OP_CALL_CC, "CALL", (*Cpu).execCall, cond, regOrI24)
	define(OP_CALLR, "CALLR", (*Cpu).execCallr, rel)
	define(OP_CALLR_CC, "CALLR", (*Cpu).execCallr, cond, rel)
	define(OP_RET, "RET", (*Cpu).execRet)
	define(OP_RETIF, "RETIF", (*Cpu).execRet, cond)
	define(OP_DJNZ, "DJNZ", (*Cpu).execDjnz, dstInt, regOrI24)

	define(OP_MEMC, "MEMC", (*Cpu).execMemc, regOrI24, regOrI24, regOrI24)
	define(OP_MEMF, "MEMF", (*Cpu).execMemf, regOrI24, regOrI24, regOrI8)
	define(OP_GETBITS, "GETBITS", (*Cpu).execGetbits, reg, regOrI32, regOrI8)
	define(OP_SETBITS, "SETBITS", (*Cpu).execSetbits, regOrI32, regOrI32, regOrI8)
	define(OP_STREGS, "STREGS", (*Cpu).execStregs, mem, reg8, reg8)
	define(OP_LDREGS, "LDREGS", (*Cpu).execLdregs, reg8, reg8, mem)
	define(OP_SETVAR, "SETVAR", (*Cpu).execSetvar, regOrI8, regOrI32)
	define(OP_GETVAR, "GETVAR", (*Cpu).execGetvar, reg, regOrI8)
	define(OP_PUSH, "PUSH", (*Cpu).execPush, dst)
	define(OP_PUSH_RANGE, "PUSH", (*Cpu).execPushRange, reg8, reg8)
	define(OP_POP, "POP", (*Cpu).execPop, dst)
	define(OP_POP_RANGE, "POP", (*Cpu).execPopRange, reg8, reg8)

	define(OP_REGS, "REGS", (*Cpu).execRegs, bank)
	define(OP_FREGS, "FREGS", (*Cpu).execFregs, bank)
	define(OP_SETF, "SETF", (*Cpu).execSetf, flag)
	define(OP_RESF, "RESF", (*Cpu).execResf, flag)
	define(OP_INVF, "INVF", (*Cpu).execInvf, flag)

	for n, name := range floatUnaryNames {
		op := OP_SIN + Opcode(n)
		define(op, name, (*Cpu).execFloatUnary, fdst, fsrc)
		define(op+OP_INPLACE, name, (*Cpu).execFloatUnary, fdst)
	}
	define(OP_POW, "POW", (*Cpu).execPow, fdst, fsrc)
	define(OP_MAX, "MAX", (*Cpu).execMax, fdst, fsrc)
	define(OP_MIN, "MIN", (*Cpu).execMin, fdst, fsrc)

	define(OP_INT, "INT", (*Cpu).execInt, Fixed(Modes(MODE_IMM), 0, WIDTH_8), regOrI8)
	define(OP_PLAY, "PLAY", (*Cpu).execPlay, Fixed(MODES_NRM, WIDTHS_INT, WIDTH_24))
	define(OP_VCL, "VCL", (*Cpu).execVcl, bank)
	define(OP_VDL, "VDL", (*Cpu).execVdl, bank)
	define(OP_HSB2RGB, "HSB2RGB", (*Cpu).execHsb2rgb, reg, srcInt)
	define(OP_HSL2RGB, "HSL2RGB", (*Cpu).execHsl2rgb, reg, srcInt)
	define(OP_RGB2HSL, "RGB2HSL", (*Cpu).execRgb2hsl, reg, srcInt)
}
