package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_BigEndian(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(1024)

	mem.Set32(10, 0xAABBCCDD)
	assert.Equal([]byte{0xAA, 0xBB, 0xCC, 0xDD}, mem.GetMemoryAt(10, 4))
	assert.Equal(uint16(0xAABB), mem.Get16(10))
	assert.Equal(uint32(0xAABBCC), mem.Get24(10))
	assert.Equal(uint8(0xDD), mem.Get8(13))

	mem.Set24(20, 0x123456)
	assert.Equal([]byte{0x12, 0x34, 0x56}, mem.GetMemoryAt(20, 3))

	mem.SetFloat(30, 1.5)
	assert.Equal(float32(1.5), mem.GetFloat(30))
	assert.Equal(uint32(0x3FC00000), mem.Get32(30))
}

func TestMemory_Wrap(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	mem.Set32(14, 0x01020304)
	assert.Equal(uint8(0x01), mem.Data[14])
	assert.Equal(uint8(0x02), mem.Data[15])
	assert.Equal(uint8(0x03), mem.Data[0])
	assert.Equal(uint8(0x04), mem.Data[1])
	assert.Equal(uint32(0x01020304), mem.Get32(14))
	assert.Equal(uint8(0x01), mem.Get8(14+16))
}

func TestMemory_CopyOverlap(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		dst, src uint32
		size     uint32
		expected []byte
	}){
		{"forward", 2, 0, 4, []byte{1, 2, 1, 2, 3, 4, 7, 8}},
		{"backward", 0, 2, 4, []byte{3, 4, 5, 6, 5, 6, 7, 8}},
		{"disjoint", 4, 0, 4, []byte{1, 2, 3, 4, 1, 2, 3, 4}},
		{"empty", 4, 0, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, entry := range table {
		mem := NewMemory(8)
		mem.Load(0, []byte{1, 2, 3, 4, 5, 6, 7, 8})
		mem.Copy(entry.dst, entry.src, entry.size)
		assert.Equal(entry.expected, mem.Data, entry.name)
	}
}

func TestMemory_Fill(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	mem.Fill(2, 3, 0xEE)
	assert.Equal([]byte{0, 0, 0xEE, 0xEE, 0xEE, 0, 0, 0}, mem.Data)

	mem.Clear()
	assert.Equal(make([]byte, 8), mem.Data)
}

func TestMemory_SetBits(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(1024)
	mem.SetBits(803, 7, 0xFF)
	assert.Equal([]byte{0x1F, 0xC0, 0, 0, 0}, mem.GetMemoryAt(100, 5))

	assert.Equal(uint32(0x7F), mem.GetBits(803, 7))
	assert.Equal(uint32(0x1F), mem.GetBits(800, 8))
}

func TestMemory_SetBitsPreserves(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)
	mem.Load(0, []byte{0xFF, 0xFF, 0xFF})
	mem.SetBits(4, 12, 0)
	assert.Equal([]byte{0xF0, 0x00, 0xFF}, mem.GetMemoryAt(0, 3))
}

func TestMemory_BitsIdempotent(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)
	mem.Load(0, []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC})
	before := mem.GetMemoryAt(0, 6)

	for bitaddr := uint32(0); bitaddr < 16; bitaddr++ {
		for count := 1; count <= 32; count++ {
			value := mem.GetBits(bitaddr, count)
			mem.SetBits(bitaddr, count, value)
			assert.Equal(before, mem.GetMemoryAt(0, 6), "bitaddr %d count %d", bitaddr, count)
		}
	}
}

func TestVars(t *testing.T) {
	assert := assert.New(t)

	vars := NewVars(4)
	assert.Equal(4, vars.Len())

	vars.Set(1, 0xDEADBEEF)
	assert.Equal(uint32(0xDEADBEEF), vars.Get(1))
	assert.Equal(uint32(0xDEADBEEF), vars.Get(5))

	vars.Clear()
	assert.Equal(uint32(0), vars.Get(1))
}
