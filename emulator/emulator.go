// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"sync/atomic"

	"github.com/ezrec/c93/cpu"
	"github.com/ezrec/c93/internal"
	"github.com/ezrec/c93/io"
	"github.com/ezrec/c93/memory"
)

// INT_MODE_HOST queries the emulator itself.
//
//	fn 0: ABCD = frames presented by VDL.
//	fn 1: ABCD = sounds triggered by PLAY.
const INT_MODE_HOST = 2

// Config sizes the emulated machine.
type Config struct {
	MemorySize   int    // RAM size in bytes.
	VarCount     int    // Words in the variable store.
	CallDepth    int    // Call stack depth.
	ScreenWidth  uint16 // Video buffer width.
	ScreenHeight uint16 // Video buffer height.
	Verbose      bool   // Verbose logging.
}

// DefaultConfig is the full sized machine.
func DefaultConfig() Config {
	return Config{
		MemorySize:   memory.DEFAULT_SIZE,
		VarCount:     memory.DEFAULT_VAR_COUNT,
		CallDepth:    cpu.STACK_LIMIT,
		ScreenWidth:  io.DEFAULT_SCREEN_WIDTH,
		ScreenHeight: io.DEFAULT_SCREEN_HEIGHT,
	}
}

// Emulator state. CPU + memory + ROM image + headless audio and video.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Rom      io.Rom           // Image copied into RAM at reset.
	Recorder io.SoundRecorder // Sounds triggered by PLAY.
	Screen   *io.VideoBuffer  // Frame buffer driven by VCL and VDL.

	config Config
	stop   atomic.Bool
}

// NewEmulator creates a new emulator with the default configuration.
func NewEmulator() (emu *Emulator) {
	return NewEmulatorConfig(DefaultConfig())
}

// NewEmulatorConfig creates a new emulator.
func NewEmulatorConfig(config Config) (emu *Emulator) {
	emu = &Emulator{
		Verbose: config.Verbose,
		Cpu:     cpu.NewCpu(memory.NewMemory(config.MemorySize), memory.NewVars(config.VarCount)),
		Program: &cpu.Program{},
		Screen:  io.NewVideoBuffer(config.ScreenWidth, config.ScreenHeight),
		config:  config,
	}

	emu.Cpu.Audio = &emu.Recorder
	emu.Cpu.Video = emu.Screen
	emu.Cpu.Stack.Limit = config.CallDepth
	emu.Cpu.SetInterrupt(INT_MODE_HOST, cpu.InterruptFunc(emu.hostInterrupt))

	return
}

func (emu *Emulator) hostInterrupt(c *cpu.Cpu, fn uint8) (err error) {
	var value int
	switch fn {
	case 0:
		value = emu.Screen.Frames
	case 1:
		value = len(emu.Recorder.Played)
	default:
		return cpu.ErrInterruptInvalid
	}
	c.Registers.Set(0, cpu.WIDTH_32, uint32(value))
	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	machine := map[string]string{
		"MEMORY_SIZE":   fmt.Sprintf("%d", emu.Memory.Size()),
		"VAR_COUNT":     fmt.Sprintf("%d", emu.Vars.Len()),
		"SCREEN_WIDTH":  fmt.Sprintf("%d", emu.Screen.Width),
		"SCREEN_HEIGHT": fmt.Sprintf("%d", emu.Screen.Height),
		"INT_HOST":      fmt.Sprintf("%d", INT_MODE_HOST),
	}
	return internal.IterSeq2Concat(maps.All(machine),
		emu.Cpu.Defines(),
	)
}

// Forms iterates every legal operand form of every instruction.
func (emu *Emulator) Forms() iter.Seq[cpu.Form] {
	var seqs []iter.Seq[cpu.Form]
	for def := range cpu.Defs() {
		seqs = append(seqs, def.Forms())
	}
	return internal.IterSeqConcat(seqs...)
}

// Build assembles source with the emulator defines, and loads it.
func (emu *Emulator) Build(source string) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Build(source)
	if err != nil {
		return
	}

	return emu.Load(prog)
}

// Load a program as the ROM image, and reset.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	rom, err := io.NewRom(prog.Segments())
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Rom = *rom
	emu.Reset()
	return
}

// LoadMem writes raw bytes at address 0 into the ROM image and RAM.
func (emu *Emulator) LoadMem(data []byte) {
	emu.LoadMemAt(data, 0)
}

// LoadMemAt writes raw bytes into the ROM image, replacing any image bytes
// they overlap, and copies them into RAM. Registers and the program
// counter are left alone.
func (emu *Emulator) LoadMemAt(data []byte, addr uint32) {
	emu.Rom.Put(addr, data)
	emu.Memory.Load(addr, data)
}

// Reset the machine: RAM is reloaded from the ROM image and execution
// restarts at its entry point. The variable store survives a reset.
func (emu *Emulator) Reset() {
	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Memory.Clear()
	emu.Rom.Load(emu.Memory)
	emu.Recorder.Reset()
	emu.Screen.Reset()

	if entry, ok := emu.Rom.Entry(); ok {
		emu.Cpu.Pc = entry
	}
}

// Clear forgets the loaded program and zeroes all state.
func (emu *Emulator) Clear() {
	emu.Program = &cpu.Program{}
	emu.Rom = io.Rom{}
	emu.Vars.Clear()
	emu.Reset()
}

// RAM is the byte addressed memory.
func (emu *Emulator) RAM() *memory.Memory {
	return emu.Memory
}

// HMEM is the variable store.
func (emu *Emulator) HMEM() *memory.Vars {
	return emu.Vars
}

// LineNo returns the source line number of the code at an address, or 0.
func (emu *Emulator) LineNo(addr uint32) int {
	dbg := emu.Program.Debug(addr)
	if dbg.Line == nil {
		return 0
	}
	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	addr := emu.Cpu.Pc
	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		return true, nil
	}
	if err != nil {
		err = &ErrRuntime{Address: addr, LineNo: emu.LineNo(addr), Err: err}
		return
	}

	done = emu.Cpu.Halted()
	return
}

// Run executes from the current program counter until the cpu halts,
// Stop is called, or the context is done. Stop requests are observed
// between instructions.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.stop.Store(false)

	for {
		if emu.stop.Load() {
			return ErrStopped
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// RunAt executes from an address.
func (emu *Emulator) RunAt(ctx context.Context, addr uint32) (err error) {
	emu.Cpu.Pc = addr
	return emu.Run(ctx)
}

// Stop a Run in progress. Safe to call from any goroutine.
func (emu *Emulator) Stop() {
	emu.stop.Store(true)
}

// Register reads an integer register by name, such as "A", "BCD" or "SPR".
func (emu *Emulator) Register(name string) (value uint32, err error) {
	index, width, ok := cpu.ParseRegister(name)
	if !ok {
		err = ErrRegisterInvalid
		return
	}
	if index == cpu.REGISTER_SPR {
		return emu.Cpu.Spr, nil
	}
	return emu.Cpu.Registers.Get(index, width), nil
}

// SetRegister writes an integer register by name.
func (emu *Emulator) SetRegister(name string, value uint32) (err error) {
	index, width, ok := cpu.ParseRegister(name)
	if !ok {
		return ErrRegisterInvalid
	}
	if index == cpu.REGISTER_SPR {
		emu.Cpu.Spr = value
		return
	}
	emu.Cpu.Registers.Set(index, width, value)
	return
}

// Float reads a float register by name, "F0" to "F15".
func (emu *Emulator) Float(name string) (value float32, err error) {
	index, ok := cpu.ParseFloat(name)
	if !ok {
		err = ErrRegisterInvalid
		return
	}
	return emu.Cpu.Floats.Get(index), nil
}

// SetFloat writes a float register by name.
func (emu *Emulator) SetFloat(name string, value float32) (err error) {
	index, ok := cpu.ParseFloat(name)
	if !ok {
		return ErrRegisterInvalid
	}
	emu.Cpu.Floats.Set(index, value)
	return
}

// Flag reads a flag by name.
func (emu *Emulator) Flag(name string) (set bool, err error) {
	flag, ok := cpu.ParseFlag(name)
	if !ok {
		err = ErrFlagInvalid
		return
	}
	return emu.Cpu.Flags.Get(flag), nil
}

// SetFlag writes a flag by name.
func (emu *Emulator) SetFlag(name string, set bool) (err error) {
	flag, ok := cpu.ParseFlag(name)
	if !ok {
		return ErrFlagInvalid
	}
	emu.Cpu.Flags.Set(flag, set)
	return
}
