package cpu

import (
	"math"
)

// getReg reads an integer register, including SPR.
func (cpu *Cpu) getReg(index int, width Width) uint32 {
	if index == REGISTER_SPR {
		return cpu.Spr & width.Mask()
	}
	return cpu.Registers.Get(index, width)
}

// setReg writes an integer register, including SPR.
func (cpu *Cpu) setReg(index int, width Width, value uint32) {
	if index == REGISTER_SPR {
		mask := width.Mask()
		cpu.Spr = (cpu.Spr &^ mask) | (value & mask)
		return
	}
	cpu.Registers.Set(index, width, value)
}

func (cpu *Cpu) getRegRef(ref RegRef) uint32 {
	return cpu.getReg(ref.Index(), ref.Width())
}

// address is the effective address of a memory operand.
func (cpu *Cpu) address(op Operand) (addr uint32) {
	switch op.Mode() {
	case MODE_ABS:
		addr = op.Value
	case MODE_ABS_OFF:
		addr = op.Value + uint32(op.Offset)
	case MODE_IND:
		addr = cpu.getRegRef(RegRef(op.Reg))
	case MODE_IND_OFF:
		addr = cpu.getRegRef(RegRef(op.Reg)) + uint32(op.Offset)
	case MODE_IND_REG:
		addr = cpu.getRegRef(RegRef(op.Reg)) + cpu.getRegRef(op.Index)
	}
	return
}

// getRaw reads the operand bits: integers zero extended, floats as their
// IEEE-754 encoding.
func (cpu *Cpu) getRaw(op Operand) (value uint32) {
	switch mode := op.Mode(); {
	case mode == MODE_IMM:
		value = op.Value
	case mode == MODE_REG:
		value = cpu.getReg(int(op.Reg), op.Width())
	case mode == MODE_FREG:
		value = math.Float32bits(cpu.Floats.Get(int(op.Reg)))
	case mode.IsMemory():
		value = cpu.Memory.Get(cpu.address(op), op.Width().Bytes())
	default:
		value = op.Value
	}
	return
}

// setRaw writes operand bits.
func (cpu *Cpu) setRaw(op Operand, value uint32) {
	switch mode := op.Mode(); {
	case mode == MODE_REG:
		cpu.setReg(int(op.Reg), op.Width(), value)
	case mode == MODE_FREG:
		cpu.Floats.Set(int(op.Reg), math.Float32frombits(value))
	case mode.IsMemory():
		cpu.Memory.Set(cpu.address(op), op.Width().Bytes(), value)
	}
}

// floatToInt rounds to nearest; out of range values saturate.
func floatToInt(value float64) uint32 {
	switch {
	case math.IsNaN(value):
		return 0
	case value <= math.MinInt32:
		return uint32(0x80000000)
	case value >= math.MaxUint32:
		return 0xffffffff
	}
	return uint32(int64(math.Round(value)))
}

// getInt reads an operand as an integer; floats are rounded.
func (cpu *Cpu) getInt(op Operand) uint32 {
	raw := cpu.getRaw(op)
	if op.IsFloat() {
		return floatToInt(float64(math.Float32frombits(raw)))
	}
	return raw
}

// getFloat reads an operand as a float; integers are widened unsigned.
func (cpu *Cpu) getFloat(op Operand) float32 {
	raw := cpu.getRaw(op)
	if op.IsFloat() {
		return math.Float32frombits(raw)
	}
	return float32(raw)
}

// setInt stores an integer, converted when the operand is a float.
func (cpu *Cpu) setInt(op Operand, value uint32) {
	if op.IsFloat() {
		cpu.setRaw(op, math.Float32bits(float32(value)))
		return
	}
	cpu.setRaw(op, value&op.Width().Mask())
}

// setFloat stores a float, rounded when the operand is an integer.
func (cpu *Cpu) setFloat(op Operand, value float32) {
	if op.IsFloat() {
		cpu.setRaw(op, math.Float32bits(value))
		return
	}
	cpu.setRaw(op, floatToInt(float64(value))&op.Width().Mask())
}

// signed interprets an integer of the given width as twos-complement.
func signed(value uint32, width Width) int64 {
	shift := 64 - width.Bits()
	return int64(uint64(value)<<shift) >> shift
}

// setZS sets the zero and sign flags from an integer result.
func (cpu *Cpu) setZS(value uint32, width Width) {
	cpu.Flags.Set(FLAG_Z, value&width.Mask() == 0)
	cpu.Flags.Set(FLAG_SN, value&width.SignBit() != 0)
}

// setZSFloat sets the zero and sign flags from a float result.
func (cpu *Cpu) setZSFloat(value float32) {
	cpu.Flags.Set(FLAG_Z, value == 0)
	cpu.Flags.Set(FLAG_SN, math.Signbit(float64(value)))
}

// regRange lists the single byte registers from first to last, descending
// when last precedes first.
func regRange(first, last int) (regs []int) {
	if last >= first {
		for index := first; index <= last; index++ {
			regs = append(regs, index)
		}
	} else {
		for index := first; index >= last; index-- {
			regs = append(regs, index)
		}
	}
	return
}
