package cpu

const (
	INT_MODE_HALT    = 0 // Halt, optionally resetting machine state.
	INT_MODE_MACHINE = 1 // Machine environment queries.
)

// Interrupt handles one INT mode. A handler must either complete its
// effects or return an error without changing cpu state.
type Interrupt interface {
	Interrupt(cpu *Cpu, fn uint8) error
}

// InterruptFunc adapts a function to the Interrupt interface.
type InterruptFunc func(cpu *Cpu, fn uint8) error

func (handler InterruptFunc) Interrupt(cpu *Cpu, fn uint8) error {
	return handler(cpu, fn)
}

// HaltInterrupt halts the cpu after running the reset selected by fn.
// Unknown functions halt without a reset.
type HaltInterrupt struct {
	Reset map[uint8]func(cpu *Cpu)
}

// DefaultHaltReset is the INT 0 reset table.
var DefaultHaltReset = map[uint8]func(cpu *Cpu){
	1: func(cpu *Cpu) {
		cpu.Registers.ClearBank()
	},
	2: func(cpu *Cpu) {
		cpu.Registers.Reset()
		cpu.Floats.Reset()
		cpu.Flags = 0
	},
}

func (hi *HaltInterrupt) Interrupt(cpu *Cpu, fn uint8) (err error) {
	if reset, ok := hi.Reset[fn]; ok && reset != nil {
		reset(cpu)
	}
	cpu.Halt()
	return
}

// MachineInterrupt answers environment queries.
//
//	fn 0: AB = screen width, CD = screen height.
type MachineInterrupt struct{}

func (MachineInterrupt) Interrupt(cpu *Cpu, fn uint8) (err error) {
	switch fn {
	case 0:
		var width, height uint16
		if cpu.Video != nil {
			width, height = cpu.Video.Size()
		}
		cpu.Registers.Set(0, WIDTH_16, uint32(width))
		cpu.Registers.Set(2, WIDTH_16, uint32(height))
	default:
		err = ErrInterruptInvalid
	}
	return
}
