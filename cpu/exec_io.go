package cpu

import (
	"github.com/ezrec/c93/io"
)

func (cpu *Cpu) execPlay(inst *Instruction) (err error) {
	op := inst.Operands[0]

	var addr uint32
	if op.Mode().IsMemory() {
		addr = cpu.address(op)
	} else {
		addr = cpu.getInt(op)
	}

	sound, err := io.DecodeSound(cpu.Memory.GetMemoryAt(addr, io.SOUND_BLOCK_SIZE))
	if err != nil {
		return
	}

	if cpu.Audio != nil {
		cpu.Audio.Play(sound)
	}
	return
}

func (cpu *Cpu) execVcl(inst *Instruction) (err error) {
	mode := uint8(cpu.getInt(inst.Operands[0]))
	if cpu.Video != nil {
		cpu.Video.Clear(mode)
	}
	return
}

func (cpu *Cpu) execVdl(inst *Instruction) (err error) {
	mode := uint8(cpu.getInt(inst.Operands[0]))
	if cpu.Video != nil {
		cpu.Video.Draw(mode)
	}
	return
}

func (cpu *Cpu) color(inst *Instruction, convert func(uint32) uint32) (err error) {
	dst, src := inst.Operands[0], inst.Operands[1]
	cpu.setInt(dst, convert(cpu.getInt(src)))
	return
}

func (cpu *Cpu) execHsb2rgb(inst *Instruction) error { return cpu.color(inst, io.HSB2RGB) }
func (cpu *Cpu) execHsl2rgb(inst *Instruction) error { return cpu.color(inst, io.HSL2RGB) }
func (cpu *Cpu) execRgb2hsl(inst *Instruction) error { return cpu.color(inst, io.RGB2HSL) }
