package io

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/c93/memory"
)

func segments(segs ...Segment) iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for _, seg := range segs {
			if !yield(seg.Address, seg.Data) {
				return
			}
		}
	}
}

func TestRom(t *testing.T) {
	assert := assert.New(t)

	rom, err := NewRom(segments(
		Segment{Address: 0x200, Data: []byte{4, 5}},
		Segment{Address: 0x100, Data: []byte{1, 2, 3}},
	))
	assert.NoError(err)
	assert.Equal(2, len(rom.Segments))
	assert.Equal(uint32(0x100), rom.Segments[0].Address)
	assert.Equal(uint32(0x103), rom.Segments[0].End())
	assert.Equal(5, rom.Size())

	entry, ok := rom.Entry()
	assert.True(ok)
	assert.Equal(uint32(0x200), entry)

	assert.ErrorIs(rom.Add(0x102, []byte{9}), ErrSegmentOverlap)
	assert.ErrorIs(rom.Add(0x1ff, []byte{9, 9}), ErrSegmentOverlap)
	assert.NoError(rom.Add(0x103, []byte{6}))
	assert.Equal(3, len(rom.Segments))
	assert.Equal(uint32(0x103), rom.Segments[1].Address)

	mem := memory.NewMemory(0x1000)
	rom.Load(mem)
	assert.Equal([]byte{1, 2, 3, 6}, mem.GetMemoryAt(0x100, 4))
	assert.Equal([]byte{4, 5}, mem.GetMemoryAt(0x200, 2))

	_, err = NewRom(segments(
		Segment{Address: 0x10, Data: []byte{1, 2}},
		Segment{Address: 0x11, Data: []byte{3}},
	))
	assert.ErrorIs(err, ErrSegmentOverlap)

	_, ok = (&Rom{}).Entry()
	assert.False(ok)
}

func TestRomPut(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	rom.Put(0x100, []byte{1, 2, 3, 4, 5})
	rom.Put(0x200, []byte{8})

	// Inside an existing segment: split around it.
	rom.Put(0x102, []byte{9})
	assert.Equal([]Segment{
		{Address: 0x100, Data: []byte{1, 2}},
		{Address: 0x102, Data: []byte{9}},
		{Address: 0x103, Data: []byte{4, 5}},
		{Address: 0x200, Data: []byte{8}},
	}, rom.Segments)

	// Across several segments: trimmed and dropped.
	rom.Put(0x101, []byte{7, 7, 7})
	assert.Equal([]Segment{
		{Address: 0x100, Data: []byte{1}},
		{Address: 0x101, Data: []byte{7, 7, 7}},
		{Address: 0x104, Data: []byte{5}},
		{Address: 0x200, Data: []byte{8}},
	}, rom.Segments)
	assert.Equal(6, rom.Size())

	entry, ok := rom.Entry()
	assert.True(ok)
	assert.Equal(uint32(0x100), entry)

	mem := memory.NewMemory(0x1000)
	rom.Load(mem)
	assert.Equal([]byte{1, 7, 7, 7, 5}, mem.GetMemoryAt(0x100, 5))
}
