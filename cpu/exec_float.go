package cpu

import (
	"math"
)

var floatUnaryNames = [...]string{"SIN", "COS", "TAN", "SQR", "CBR", "ISQR", "ABS", "ISGN", "FLOOR", "CEIL", "ROUND"}

var floatUnary = [len(floatUnaryNames)]func(x float64) float64{
	math.Sin,
	math.Cos,
	math.Tan,
	math.Sqrt,
	math.Cbrt,
	func(x float64) float64 { return 1 / math.Sqrt(x) },
	math.Abs,
	func(x float64) float64 { return -x },
	math.Floor,
	math.Ceil,
	math.Round,
}

// execFloatUnary covers both the dst, src and the in place forms.
func (cpu *Cpu) execFloatUnary(inst *Instruction) (err error) {
	code := inst.Def.Opcode
	if code >= OP_SIN+OP_INPLACE {
		code -= OP_INPLACE
	}
	fn := floatUnary[code-OP_SIN]

	dst := inst.Operands[0]
	src := inst.Operands[len(inst.Operands)-1]
	result := fn(float64(cpu.getFloat(src)))

	if dst.IsFloat() {
		cpu.setFloat(dst, float32(result))
		return
	}

	rounded := math.Round(result)
	if code == OP_SQR || code == OP_CBR {
		fits := !math.IsNaN(rounded) && math.Abs(rounded) <= float64(dst.Width().Mask())
		cpu.Flags.Set(FLAG_OV, !fits)
		if !fits {
			return
		}
	}
	cpu.setInt(dst, floatToInt(rounded))
	return
}

// An integer destination with a float source computes in float64 and
// takes the rounded result.
var (
	aluPow = alu{
		float: func(cpu *Cpu, a, b float32) float32 {
			return float32(math.Pow(float64(a), float64(b)))
		},
		integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
			return floatToInt(math.Pow(float64(a), float64(b&width.Mask())))
		},
		wide: math.Pow,
	}
	aluMax = alu{
		float: func(cpu *Cpu, a, b float32) float32 {
			return max(a, b)
		},
		integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
			return max(a&width.Mask(), b&width.Mask())
		},
		wide: math.Max,
	}
	aluMin = alu{
		float: func(cpu *Cpu, a, b float32) float32 {
			return min(a, b)
		},
		integer: func(cpu *Cpu, a, b uint32, width Width) uint32 {
			return min(a&width.Mask(), b&width.Mask())
		},
		wide: math.Min,
	}
)

func (cpu *Cpu) execPow(inst *Instruction) error { return cpu.binary(inst, aluPow) }
func (cpu *Cpu) execMax(inst *Instruction) error { return cpu.binary(inst, aluMax) }
func (cpu *Cpu) execMin(inst *Instruction) error { return cpu.binary(inst, aluMin) }
