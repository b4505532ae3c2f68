package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/c93/io"
	"github.com/ezrec/c93/memory"
)

// FuzzCpu runs arbitrary bytes as code. Every fault must be reported as
// an error, with the cpu state left as it was before the instruction.
func FuzzCpu(f *testing.F) {
	f.Add([]byte{0x00}, uint8(0))
	f.Add([]byte{0x02, 0x09, 0x01, 0x00, 0x05}, uint8(3))
	f.Add([]byte{0x38}, uint8(0))
	f.Add([]byte{0x14, 0x0c, 0x04, 0x00, 0, 0, 0, 0}, uint8(7))
	f.Add([]byte{0x36, 0x4c, 0xff, 0xff, 0xff, 0xfa}, uint8(1))
	f.Add([]byte{0x80, 0x01, 0x01, 0x00, 0x00}, uint8(0))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff}, uint8(0xff))

	f.Fuzz(func(t *testing.T, code []byte, seed uint8) {
		assert := assert.New(t)

		mem := memory.NewMemory(0x1000)
		cpu := NewCpu(mem, memory.NewVars(4))
		cpu.Audio = &io.SoundRecorder{}
		cpu.Video = io.NewVideoBuffer(16, 16)
		cpu.Stack.Limit = 8

		for n := range REGISTER_COUNT {
			cpu.Registers.Set8(n, seed+uint8(n))
		}
		cpu.Pc = 0x100
		mem.Load(cpu.Pc, code)

		for range 64 {
			pc, spr, ticks := cpu.Pc, cpu.Spr, cpu.Ticks
			depth := len(cpu.Stack.Data)

			err := cpu.Tick()
			if errors.Is(err, ErrHalted) {
				return
			}
			if err != nil {
				assert.ErrorIs(err, ErrOpcode{})
				assert.Equal(pc, cpu.Pc)
				assert.Equal(spr, cpu.Spr)
				assert.Equal(ticks, cpu.Ticks)
				assert.Equal(depth, len(cpu.Stack.Data))
				return
			}
			assert.Equal(ticks+1, cpu.Ticks)
		}
	})
}

// FuzzDecode checks that anything that decodes encodes back to the
// same bytes.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x02, 0x09, 0x01, 0x00, 0x05})
	f.Add([]byte{0x10, 0x39, 0x09, 0x26, 0x21, 0x00})
	f.Add([]byte{0x31, 0x41, 0x03, 0x80, 0x00, 0x01, 0x00})

	f.Fuzz(func(t *testing.T, code []byte) {
		assert := assert.New(t)

		inst, err := Decode(Bytes(code), 0)
		if err != nil {
			return
		}
		encoded := inst.Encode()
		assert.Equal(inst.Size(), len(encoded))

		padded := append(append([]byte(nil), code...), make([]byte, len(encoded))...)
		assert.Equal(padded[:len(encoded)], encoded)
	})
}

// FuzzBits checks that SETBITS of what GETBITS read at the same bit
// address leaves memory unchanged.
func FuzzBits(f *testing.F) {
	f.Add([]byte{0xde, 0xad, 0xbe, 0xef}, uint8(3), uint8(13))
	f.Add([]byte{0xff}, uint8(7), uint8(0))
	f.Add([]byte{}, uint8(0), uint8(32))

	f.Fuzz(func(t *testing.T, data []byte, offset uint8, count uint8) {
		assert := assert.New(t)

		cpu := testCpu(t, []string{
			"GETBITS ABCD, EFGH, I",
			"SETBITS EFGH, ABCD, I",
			"BREAK",
		})

		pattern := make([]byte, 48)
		copy(pattern, data)
		cpu.Memory.Load(0x200, pattern)

		bitaddr := uint32(0x200*8) + uint32(offset)
		cpu.Registers.Set(4, WIDTH_32, bitaddr)
		cpu.Registers.Set8(8, count%33)

		assert.NoError(testRun(t, cpu))
		assert.Equal(pattern, cpu.Memory.GetMemoryAt(0x200, len(pattern)))
	})
}
