package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/c93/io"
	"github.com/ezrec/c93/memory"
)

// HALT_ADDRESS is the program counter value of a halted cpu.
const HALT_ADDRESS = uint32(0xffffffff)

var _cpu_defines = map[string]string{
	"REGISTER_BANKS": fmt.Sprintf("%d", REGISTER_BANKS),
	"FLOAT_BANKS":    fmt.Sprintf("%d", FLOAT_BANKS),
	"INT_HALT":       fmt.Sprintf("%d", INT_MODE_HALT),
	"INT_MACHINE":    fmt.Sprintf("%d", INT_MODE_MACHINE),
}

// Cpu is the simulation context of the Continuum93 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Byte addressed RAM.
	Vars   *memory.Vars   // Variable store of SETVAR and GETVAR.
	Audio  io.Audio       // PLAY target, may be nil.
	Video  io.Video       // VCL and VDL target, may be nil.

	Pc        uint32    // Program counter.
	Spr       uint32    // Data stack pointer.
	Registers Registers // Banked byte registers.
	Floats    Floats    // Banked float registers.
	Flags     Flags     // Flags register.
	Stack     Stack     // Call stack.

	Ticks int // Instructions executed.

	interrupt map[uint8]Interrupt
	next      uint32
}

// NewCpu creates a cpu attached to memory and a variable store.
func NewCpu(mem *memory.Memory, vars *memory.Vars) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:    mem,
		Vars:      vars,
		interrupt: map[uint8]Interrupt{},
	}

	cpu.SetInterrupt(INT_MODE_HALT, &HaltInterrupt{Reset: DefaultHaltReset})
	cpu.SetInterrupt(INT_MODE_MACHINE, MachineInterrupt{})

	cpu.Reset()

	return
}

// Defines for the assembler.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// SetInterrupt installs the handler of an INT mode. A nil handler
// removes the mode.
func (cpu *Cpu) SetInterrupt(mode uint8, handler Interrupt) {
	if handler == nil {
		delete(cpu.interrupt, mode)
		return
	}
	cpu.interrupt[mode] = handler
}

// Reset the cpu state. Memory is not touched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Floats.Reset()
	cpu.Flags = 0
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Spr = cpu.Memory.Size()
	cpu.Ticks = 0
}

// Halt stops execution; the next Tick reports ErrHalted.
func (cpu *Cpu) Halt() {
	cpu.next = HALT_ADDRESS
	cpu.Pc = HALT_ADDRESS
}

// Halted is true after BREAK or a halting interrupt.
func (cpu *Cpu) Halted() bool {
	return cpu.Pc == HALT_ADDRESS
}

// String returns the current cpu state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   PC: %06X\n", cpu.Pc)
	fmt.Fprintf(&sb, "  SPR: %06X\n", cpu.Spr)
	fmt.Fprintf(&sb, "FLAGS: %v\n", cpu.Flags)
	depth, limit := cpu.Stack.Depth()
	fmt.Fprintf(&sb, "CALLS: %d/%d\n", depth, limit)
	fmt.Fprintf(&sb, " BANK: %d/%d\n", cpu.Registers.Selected, cpu.Floats.Selected)
	for row := 0; row < REGISTER_COUNT; row += 8 {
		sb.WriteString("      ")
		for index := row; index < row+8 && index < REGISTER_COUNT; index++ {
			fmt.Fprintf(&sb, " %c:%02X", 'A'+index, cpu.Registers.Get8(index))
		}
		sb.WriteString("\n")
	}
	for row := 0; row < FLOAT_COUNT; row += 4 {
		sb.WriteString("      ")
		for index := row; index < row+4; index++ {
			fmt.Fprintf(&sb, " %3s:%-12g", FloatName(index), cpu.Floats.Get(index))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	if cpu.Halted() {
		err = ErrHalted
		return
	}

	return Decode(cpu.Memory, cpu.Pc)
}

// Tick executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	inst, err := cpu.Fetch()
	if err != nil {
		if !errors.Is(err, ErrHalted) {
			err = errors.Join(ErrOpcode{Address: cpu.Pc, Opcode: Opcode(cpu.Memory.Get8(cpu.Pc))}, err)
		}
		return
	}

	return cpu.Execute(&inst)
}

// Execute a decoded instruction. Either all of its effects are committed
// or, on error, none of them.
func (cpu *Cpu) Execute(inst *Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Address: inst.Address, Opcode: inst.Def.Opcode}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%06X: %v", inst.Address, inst)
	}

	cpu.next = inst.End()

	err = inst.Def.exec(cpu, inst)
	if err != nil {
		return
	}

	cpu.Pc = cpu.next
	cpu.Ticks++

	return
}
