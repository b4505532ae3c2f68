package cpu

func (cpu *Cpu) execMemc(inst *Instruction) (err error) {
	src := cpu.getInt(inst.Operands[0])
	dst := cpu.getInt(inst.Operands[1])
	size := cpu.getInt(inst.Operands[2]) & 0xffffff
	cpu.Memory.Copy(dst, src, size)
	return
}

func (cpu *Cpu) execMemf(inst *Instruction) (err error) {
	addr := cpu.getInt(inst.Operands[0])
	size := cpu.getInt(inst.Operands[1]) & 0xffffff
	value := uint8(cpu.getInt(inst.Operands[2]))
	cpu.Memory.Fill(addr, size, value)
	return
}

// bitCount clamps a bitfield width to the natural width of its operand.
func bitCount(count uint32, natural int) int {
	if count == 0 || count > uint32(natural) {
		return natural
	}
	return int(count)
}

func (cpu *Cpu) execGetbits(inst *Instruction) (err error) {
	dst := inst.Operands[0]
	bitaddr := cpu.getInt(inst.Operands[1])
	count := bitCount(cpu.getInt(inst.Operands[2]), dst.Width().Bits())
	cpu.setInt(dst, cpu.Memory.GetBits(bitaddr, count))
	return
}

func (cpu *Cpu) execSetbits(inst *Instruction) (err error) {
	src := inst.Operands[1]
	bitaddr := cpu.getInt(inst.Operands[0])
	value := cpu.getInt(src)
	count := bitCount(cpu.getInt(inst.Operands[2]), src.Width().Bits())
	cpu.Memory.SetBits(bitaddr, count, value)
	return
}

func (cpu *Cpu) execStregs(inst *Instruction) (err error) {
	addr := cpu.address(inst.Operands[0])
	first, last := int(inst.Operands[1].Reg), int(inst.Operands[2].Reg)
	for n, index := range regRange(first, last) {
		cpu.Memory.Set8(addr+uint32(n), cpu.Registers.Get8(index))
	}
	return
}

func (cpu *Cpu) execLdregs(inst *Instruction) (err error) {
	first, last := int(inst.Operands[0].Reg), int(inst.Operands[1].Reg)
	addr := cpu.address(inst.Operands[2])
	for n, index := range regRange(first, last) {
		cpu.Registers.Set8(index, cpu.Memory.Get8(addr+uint32(n)))
	}
	return
}

func (cpu *Cpu) execSetvar(inst *Instruction) (err error) {
	index := cpu.getInt(inst.Operands[0])
	cpu.Vars.Set(index, cpu.getInt(inst.Operands[1]))
	return
}

func (cpu *Cpu) execGetvar(inst *Instruction) (err error) {
	index := cpu.getInt(inst.Operands[1])
	cpu.setInt(inst.Operands[0], cpu.Vars.Get(index))
	return
}

func (cpu *Cpu) push(size int, value uint32) {
	cpu.Spr -= uint32(size)
	cpu.Memory.Set(cpu.Spr, size, value)
}

func (cpu *Cpu) pop(size int) (value uint32) {
	value = cpu.Memory.Get(cpu.Spr, size)
	cpu.Spr += uint32(size)
	return
}

func (cpu *Cpu) execPush(inst *Instruction) (err error) {
	op := inst.Operands[0]
	cpu.push(op.Width().Bytes(), cpu.getRaw(op))
	return
}

func (cpu *Cpu) execPop(inst *Instruction) (err error) {
	op := inst.Operands[0]
	cpu.setRaw(op, cpu.pop(op.Width().Bytes()))
	return
}

func (cpu *Cpu) execPushRange(inst *Instruction) (err error) {
	for _, index := range regRange(int(inst.Operands[0].Reg), int(inst.Operands[1].Reg)) {
		cpu.push(1, uint32(cpu.Registers.Get8(index)))
	}
	return
}

func (cpu *Cpu) execPopRange(inst *Instruction) (err error) {
	regs := regRange(int(inst.Operands[0].Reg), int(inst.Operands[1].Reg))
	for n := len(regs) - 1; n >= 0; n-- {
		cpu.Registers.Set8(regs[n], uint8(cpu.pop(1)))
	}
	return
}

func (cpu *Cpu) execRegs(inst *Instruction) (err error) {
	cpu.Registers.Select(uint8(cpu.getInt(inst.Operands[0])))
	return
}

func (cpu *Cpu) execFregs(inst *Instruction) (err error) {
	cpu.Floats.Select(uint8(cpu.getInt(inst.Operands[0])))
	return
}

func (cpu *Cpu) flagOperand(op Operand) Flag {
	if op.Mode() == MODE_COND {
		return op.Cond().Flag()
	}
	return Flag(cpu.getInt(op) % FLAG_COUNT)
}

func (cpu *Cpu) execSetf(inst *Instruction) (err error) {
	cpu.Flags.Set(cpu.flagOperand(inst.Operands[0]), true)
	return
}

func (cpu *Cpu) execResf(inst *Instruction) (err error) {
	cpu.Flags.Set(cpu.flagOperand(inst.Operands[0]), false)
	return
}

func (cpu *Cpu) execInvf(inst *Instruction) (err error) {
	cpu.Flags.Invert(cpu.flagOperand(inst.Operands[0]))
	return
}
