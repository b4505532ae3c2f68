package cpu

// taken evaluates the optional leading condition of a branch, returning
// the remaining operands.
func (cpu *Cpu) taken(inst *Instruction) (ok bool, ops []Operand) {
	ops = inst.Operands
	if len(ops) > 0 && ops[0].Mode() == MODE_COND {
		return ops[0].Cond().Holds(cpu.Flags), ops[1:]
	}
	return true, ops
}

func (cpu *Cpu) relative(inst *Instruction, op Operand) uint32 {
	return inst.End() + op.Value
}

func (cpu *Cpu) call(inst *Instruction, target uint32) (err error) {
	if !cpu.Stack.Push(inst.End()) {
		return ErrStackFull
	}
	cpu.next = target
	return
}

func (cpu *Cpu) execJp(inst *Instruction) (err error) {
	ok, ops := cpu.taken(inst)
	if ok {
		cpu.next = cpu.getInt(ops[0]) & 0xffffff
	}
	return
}

func (cpu *Cpu) execJr(inst *Instruction) (err error) {
	ok, ops := cpu.taken(inst)
	if ok {
		cpu.next = cpu.relative(inst, ops[0])
	}
	return
}

func (cpu *Cpu) execCall(inst *Instruction) (err error) {
	ok, ops := cpu.taken(inst)
	if !ok {
		return
	}
	return cpu.call(inst, cpu.getInt(ops[0])&0xffffff)
}

func (cpu *Cpu) execCallr(inst *Instruction) (err error) {
	ok, ops := cpu.taken(inst)
	if !ok {
		return
	}
	return cpu.call(inst, cpu.relative(inst, ops[0]))
}

// execRet implements both RET and RETIF.
func (cpu *Cpu) execRet(inst *Instruction) (err error) {
	ok, _ := cpu.taken(inst)
	if !ok {
		return
	}

	addr, ok := cpu.Stack.Pop()
	if !ok {
		return ErrStackEmpty
	}
	cpu.next = addr
	return
}

func (cpu *Cpu) execDjnz(inst *Instruction) (err error) {
	counter, target := inst.Operands[0], inst.Operands[1]
	value := (cpu.getInt(counter) - 1) & counter.Width().Mask()
	addr := cpu.getInt(target) & 0xffffff
	cpu.setInt(counter, value)
	if value != 0 {
		cpu.next = addr
	}
	return
}

func (cpu *Cpu) execInt(inst *Instruction) (err error) {
	mode := uint8(cpu.getInt(inst.Operands[0]))
	fn := uint8(cpu.getInt(inst.Operands[1]))

	handler, ok := cpu.interrupt[mode]
	if !ok {
		return ErrInterruptInvalid
	}

	return handler.Interrupt(cpu, fn)
}
