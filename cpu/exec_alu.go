package cpu

import (
	"math"
)

// alu is a binary operator of dst, src into dst.
type alu struct {
	integer func(cpu *Cpu, a, b uint32, width Width) uint32
	float   func(cpu *Cpu, a, b float32) float32
	wide    func(a, b float64) float64 // Integer destination, float source.
}

// binary reads both operands before writing the destination, so memory
// operands may alias.
func (cpu *Cpu) binary(inst *Instruction, op alu) (err error) {
	dst, src := inst.Operands[0], inst.Operands[1]
	if dst.IsFloat() && op.float != nil {
		a, b := cpu.getFloat(dst), cpu.getFloat(src)
		cpu.setFloat(dst, op.float(cpu, a, b))
		return
	}

	if src.IsFloat() && op.wide != nil {
		a, b := float64(cpu.getInt(dst)), float64(math.Float32frombits(cpu.getRaw(src)))
		cpu.setInt(dst, floatToInt(op.wide(a, b)))
		return
	}

	width := dst.Width()
	a, b := cpu.getInt(dst), cpu.getInt(src)
	cpu.setInt(dst, op.integer(cpu, a, b, width))
	return
}

func (cpu *Cpu) execBreak(inst *Instruction) (err error) {
	cpu.Halt()
	return
}

func (cpu *Cpu) execNop(inst *Instruction) (err error) {
	return
}

func (cpu *Cpu) execLd(inst *Instruction) (err error) {
	dst, src := inst.Operands[0], inst.Operands[1]
	switch {
	case dst.IsFloat():
		cpu.setFloat(dst, cpu.getFloat(src))
	default:
		cpu.setInt(dst, cpu.getInt(src))
	}
	return
}

var aluAdd = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
		mask := width.Mask()
		b &= mask
		sum := uint64(a) + uint64(b)
		result := uint32(sum) & mask
		cpu.Flags.Set(FLAG_C, sum > uint64(mask))
		cpu.Flags.Set(FLAG_OV, (a^result)&(b^result)&width.SignBit() != 0)
		cpu.setZS(result, width)
		return result
	},
	float: func(cpu *Cpu, a, b float32) float32 {
		result := a + b
		cpu.setZSFloat(result)
		return result
	},
}

var aluSub = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
		mask := width.Mask()
		b &= mask
		result := (a - b) & mask
		cpu.Flags.Set(FLAG_C, b > a)
		cpu.Flags.Set(FLAG_OV, (a^b)&(a^result)&width.SignBit() != 0)
		cpu.setZS(result, width)
		return result
	},
	float: func(cpu *Cpu, a, b float32) float32 {
		result := a - b
		cpu.setZSFloat(result)
		return result
	},
}

var aluMul = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
		mask := width.Mask()
		product := uint64(a) * uint64(b&mask)
		result := uint32(product) & mask
		cpu.Flags.Set(FLAG_OV, product > uint64(mask))
		cpu.setZS(result, width)
		return result
	},
	float: func(cpu *Cpu, a, b float32) float32 {
		result := a * b
		cpu.Flags.Set(FLAG_OV, math.IsInf(float64(result), 0))
		cpu.setZSFloat(result)
		return result
	},
}

var aluSmul = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
		product := signed(a, width) * signed(b&width.Mask(), width)
		result := uint32(product) & width.Mask()
		limit := int64(1) << (width.Bits() - 1)
		cpu.Flags.Set(FLAG_OV, product < -limit || product >= limit)
		cpu.setZS(result, width)
		return result
	},
	float: aluMul.float,
}

var aluDiv = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) (result uint32) {
		if b == 0 {
			result = width.Mask()
		} else {
			result = (a / b) & width.Mask()
		}
		cpu.Flags.Set(FLAG_Z, result == 0)
		return
	},
	float: func(cpu *Cpu, a, b float32) (result float32) {
		if b == 0 {
			result = math.MaxFloat32
		} else {
			result = a / b
		}
		cpu.Flags.Set(FLAG_Z, result == 0)
		return
	},
}

var aluMod = alu{
	integer: func(cpu *Cpu, a, b uint32, width Width) (result uint32) {
		if b == 0 {
			result = width.Mask()
		} else {
			result = (a % b) & width.Mask()
		}
		cpu.Flags.Set(FLAG_Z, result == 0)
		return
	},
	float: func(cpu *Cpu, a, b float32) (result float32) {
		if b == 0 {
			result = math.MaxFloat32
		} else {
			result = float32(math.Mod(float64(a), float64(b)))
		}
		cpu.Flags.Set(FLAG_Z, result == 0)
		return
	},
}

func (cpu *Cpu) execAdd(inst *Instruction) error  { return cpu.binary(inst, aluAdd) }
func (cpu *Cpu) execSub(inst *Instruction) error  { return cpu.binary(inst, aluSub) }
func (cpu *Cpu) execMul(inst *Instruction) error  { return cpu.binary(inst, aluMul) }
func (cpu *Cpu) execSmul(inst *Instruction) error { return cpu.binary(inst, aluSmul) }
func (cpu *Cpu) execDiv(inst *Instruction) error  { return cpu.binary(inst, aluDiv) }
func (cpu *Cpu) execMod(inst *Instruction) error  { return cpu.binary(inst, aluMod) }

func logic(fn func(a, b uint32) uint32) alu {
	return alu{
		integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
			return fn(a, b) & width.Mask()
		},
	}
}

func (cpu *Cpu) execAnd(inst *Instruction) error {
	return cpu.binary(inst, logic(func(a, b uint32) uint32 { return a & b }))
}

func (cpu *Cpu) execOr(inst *Instruction) error {
	return cpu.binary(inst, logic(func(a, b uint32) uint32 { return a | b }))
}

func (cpu *Cpu) execXor(inst *Instruction) error {
	return cpu.binary(inst, logic(func(a, b uint32) uint32 { return a ^ b }))
}

func (cpu *Cpu) execImply(inst *Instruction) error {
	return cpu.binary(inst, logic(func(a, b uint32) uint32 { return ^a | b }))
}

// unary rewrites its only integer operand in place.
func (cpu *Cpu) unary(inst *Instruction, fn func(value uint32, width Width) uint32) (err error) {
	dst := inst.Operands[0]
	cpu.setInt(dst, fn(cpu.getInt(dst), dst.Width()))
	return
}

func (cpu *Cpu) execInv(inst *Instruction) error {
	return cpu.unary(inst, func(value uint32, width Width) uint32 { return ^value })
}

func (cpu *Cpu) execInc(inst *Instruction) error {
	return cpu.unary(inst, func(value uint32, width Width) uint32 { return value + 1 })
}

func (cpu *Cpu) execDec(inst *Instruction) error {
	return cpu.unary(inst, func(value uint32, width Width) uint32 { return value - 1 })
}

// compare sets the comparison flags of two operands. Either side being a
// float makes the comparison a float comparison.
func (cpu *Cpu) compare(inst *Instruction, isSigned bool) (err error) {
	a, b := inst.Operands[0], inst.Operands[1]

	var eq, gt bool
	switch {
	case a.IsFloat() || b.IsFloat():
		fa, fb := cpu.getFloat(a), cpu.getFloat(b)
		eq, gt = fa == fb, fa > fb
	case isSigned:
		sa, sb := signed(cpu.getInt(a), a.Width()), signed(cpu.getInt(b), b.Width())
		eq, gt = sa == sb, sa > sb
	default:
		ua, ub := cpu.getInt(a), cpu.getInt(b)
		eq, gt = ua == ub, ua > ub
	}

	cpu.Flags.Compare(eq, gt)
	return
}

func (cpu *Cpu) execCp(inst *Instruction) error  { return cpu.compare(inst, false) }
func (cpu *Cpu) execScp(inst *Instruction) error { return cpu.compare(inst, true) }

// bitwise applies a single bit or shift operation. Bit indexes and counts
// outside of the operand width leave it unchanged.
func (cpu *Cpu) bitwise(inst *Instruction, fn func(value uint32, n, bits int) uint32) (err error) {
	dst, src := inst.Operands[0], inst.Operands[1]
	bits := dst.Width().Bits()
	n := cpu.getInt(src)
	if n >= uint32(bits) {
		return
	}
	cpu.setInt(dst, fn(cpu.getInt(dst), int(n), bits))
	return
}

func (cpu *Cpu) execSet(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 { return value | (1 << n) })
}

func (cpu *Cpu) execRes(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 { return value &^ (1 << n) })
}

func (cpu *Cpu) execBit(inst *Instruction) (err error) {
	dst, src := inst.Operands[0], inst.Operands[1]
	n := cpu.getInt(src)
	set := n < uint32(dst.Width().Bits()) && cpu.getInt(dst)&(1<<n) != 0
	cpu.Flags.Set(FLAG_Z, !set)
	return
}

func (cpu *Cpu) execRl(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 {
		if n == 0 {
			return value
		}
		return value<<n | value>>(bits-n)
	})
}

func (cpu *Cpu) execRr(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 {
		if n == 0 {
			return value
		}
		return value>>n | value<<(bits-n)
	})
}

func (cpu *Cpu) execSl(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 { return value << n })
}

func (cpu *Cpu) execSr(inst *Instruction) error {
	return cpu.bitwise(inst, func(value uint32, n, bits int) uint32 { return value >> n })
}
