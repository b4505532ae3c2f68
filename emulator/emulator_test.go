package emulator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/c93/cpu"
	"github.com/ezrec/c93/internal"
	"github.com/ezrec/c93/io"
)

func testConfig() Config {
	config := DefaultConfig()
	config.MemorySize = 0x10000
	config.VarCount = 16
	return config
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(uint32(0x100_0000), emu.RAM().Size())
	assert.Equal(256, emu.HMEM().Len())
	assert.Equal(cpu.STACK_LIMIT, emu.Cpu.Stack.Limit)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("480", defines["SCREEN_WIDTH"])
	assert.Equal("270", defines["SCREEN_HEIGHT"])
	assert.Equal("256", defines["REGISTER_BANKS"])
}

func doRun(t *testing.T, emu *Emulator, program []string) {
	assert := assert.New(t)

	err := emu.Build(strings.Join(program, "\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	for range 10_000 {
		lineno := emu.LineNo(emu.Pc)
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("line %d: %v", lineno, err)
		}
		if done {
			return
		}
	}
	t.Fatal("program did not halt")
}

func TestEmulatorBuild(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())
	doRun(t, emu, []string{
		"#ORG 0x1000",
		".Start",
		"LD ABCD, .Data",
		"LD E, (ABCD)",
		"INT INT_MACHINE, 0",
		"LD F0, 2.5",
		"SETVAR 2, 0x1234",
		"SETF CF3",
		"BREAK",
		".Data",
		"#DB 0x42",
	})

	assert.Equal(uint32(0x1000), emu.Program.Origin())
	assert.True(emu.Halted())

	value, err := emu.Register("E")
	assert.NoError(err)
	assert.Equal(uint32(0x42), value)

	value, err = emu.Register("AB")
	assert.NoError(err)
	assert.Equal(uint32(testConfig().ScreenWidth), value)

	value, err = emu.Register("SPR")
	assert.NoError(err)
	assert.Equal(uint32(0x10000), value)

	float, err := emu.Float("F0")
	assert.NoError(err)
	assert.Equal(float32(2.5), float)

	set, err := emu.Flag("CF3")
	assert.NoError(err)
	assert.True(set)

	assert.Equal(uint32(0x1234), emu.HMEM().Get(2))

	_, err = emu.Register("Q1")
	assert.ErrorIs(err, ErrRegisterInvalid)
	_, err = emu.Float("F16")
	assert.ErrorIs(err, ErrRegisterInvalid)
	_, err = emu.Flag("XX")
	assert.ErrorIs(err, ErrFlagInvalid)
}

func TestEmulatorEntry(t *testing.T) {
	assert := assert.New(t)

	// Code first in the source, data at a lower address.
	emu := NewEmulatorConfig(testConfig())
	doRun(t, emu, []string{
		"#ORG 0x1000",
		"LD A, 5",
		"BREAK",
		"#ORG 0x10",
		"#DB 0xFF",
	})

	assert.Equal(uint32(0x10), emu.Program.Origin())
	assert.True(emu.Halted())
	value, err := emu.Register("A")
	assert.NoError(err)
	assert.Equal(uint32(5), value)

	emu.Reset()
	assert.Equal(uint32(0x1000), emu.Pc)
	assert.Equal(uint8(0xff), emu.RAM().Get8(0x10))
}

func TestEmulatorAccessors(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())

	assert.NoError(emu.SetRegister("ABCD", 0x01020304))
	value, _ := emu.Register("BC")
	assert.Equal(uint32(0x0203), value)
	assert.NoError(emu.SetRegister("SPR", 0x8000))
	assert.Equal(uint32(0x8000), emu.Spr)
	assert.ErrorIs(emu.SetRegister("ACE", 0), ErrRegisterInvalid)

	assert.NoError(emu.SetFloat("F15", -1))
	assert.Equal(float32(-1), emu.Floats.Get(15))
	assert.ErrorIs(emu.SetFloat("G1", 0), ErrRegisterInvalid)

	assert.NoError(emu.SetFlag("Z", true))
	assert.True(emu.Flags.Get(cpu.FLAG_Z))
	assert.ErrorIs(emu.SetFlag("", true), ErrFlagInvalid)
}

func TestEmulatorLoadMem(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())

	// LD A, 7 ; BREAK
	emu.LoadMem([]byte{0x02, 0x09, 0x01, 0x00, 0x07, 0x00})
	emu.LoadMemAt([]byte{0xaa, 0xcc}, 0x2000)
	emu.LoadMemAt([]byte{0xbb}, 0x2001)

	assert.Equal([]byte{0xaa, 0xbb}, emu.RAM().GetMemoryAt(0x2000, 2))
	assert.Equal(3, len(emu.Rom.Segments))
	assert.Equal(io.Segment{Address: 0x2001, Data: []byte{0xbb}}, emu.Rom.Segments[2])

	assert.NoError(emu.Run(context.Background()))
	value, _ := emu.Register("A")
	assert.Equal(uint32(7), value)

	// Reset reloads the image, Clear forgets it.
	emu.RAM().Set8(0x2000, 0)
	emu.HMEM().Set(1, 5)
	emu.Reset()
	assert.Equal(uint8(0xaa), emu.RAM().Get8(0x2000))
	assert.Equal(uint32(5), emu.HMEM().Get(1))
	assert.Equal(uint32(0), emu.Pc)
	assert.False(emu.Halted())

	emu.Clear()
	assert.Equal(uint8(0), emu.RAM().Get8(0x2000))
	assert.Equal(uint32(0), emu.HMEM().Get(1))
	assert.Equal(0, len(emu.Rom.Segments))
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())
	err := emu.Build(strings.Join([]string{
		"NOP",
		"RET",
	}, "\n"))
	assert.NoError(err)

	err = emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrStackEmpty)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(2, rt.LineNo)
	assert.Equal(uint32(1), rt.Address)
	assert.Equal(uint32(1), emu.Pc)
	assert.Contains(rt.Error(), "line 2")

	err = emu.Build("BOGUS")
	var syn cpu.ErrSyntax
	assert.True(errors.As(err, &syn))
}

func TestEmulatorStop(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())
	assert.NoError(emu.Build(".Spin JR .Spin"))

	done := make(chan error, 1)
	go func() {
		done <- emu.Run(context.Background())
	}()

	time.Sleep(time.Millisecond)
	emu.Stop()
	assert.ErrorIs(<-done, ErrStopped)
	assert.False(emu.Halted())
	assert.Less(0, emu.Ticks)

	// Stop requests do not persist into the next run.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(emu.RunAt(ctx, 0), context.Canceled)
}

func TestEmulatorCollaborators(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorConfig(testConfig())
	doRun(t, emu, []string{
		"PLAY .Tone",
		"VCL 1",
		"VDL 1",
		"VDL 1",
		"INT INT_HOST, 0",
		"LD EFGH, ABCD",
		"INT INT_HOST, 1",
		"BREAK",
		".Tone",
		"#DB 1, 0, 261.5, 1.0, 0.5",
	})

	sound, ok := emu.Recorder.GetLastPlayedSound()
	assert.True(ok)
	assert.Equal(float32(261.5), sound.Frequency)
	assert.Equal(2, emu.Screen.Frames)

	value, _ := emu.Register("EFGH")
	assert.Equal(uint32(2), value)
	value, _ = emu.Register("ABCD")
	assert.Equal(uint32(1), value)

	assert.NoError(emu.Build("INT INT_HOST, 9"))
	_, err := emu.Tick()
	assert.ErrorIs(err, cpu.ErrInterruptInvalid)
}

func TestEmulatorForms(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	forms := internal.IterSeqCollect(emu.Forms())
	assert.Less(1000, len(forms))

	for _, form := range forms {
		assert.True(form.Def.Allows(form.Kinds), "%v", form)
	}
}
