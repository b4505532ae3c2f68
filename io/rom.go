package io

import (
	"iter"
	"slices"

	"github.com/ezrec/c93/memory"
)

// Segment is a run of bytes loaded at an address.
type Segment struct {
	Address uint32
	Data    []byte
}

// End is the first address after the segment.
func (seg Segment) End() uint32 {
	return seg.Address + uint32(len(seg.Data))
}

// Rom is the program image copied into RAM at reset. Segments are kept
// ordered by address; the entry point is the first segment added.
type Rom struct {
	Segments []Segment

	entry   uint32
	started bool
}

// NewRom creates a ROM from segments in program order.
func NewRom(segments iter.Seq2[uint32, []byte]) (rom *Rom, err error) {
	rom = &Rom{}
	for addr, data := range segments {
		err = rom.Add(addr, data)
		if err != nil {
			return nil, err
		}
	}
	return
}

// Add a segment, keeping segments ordered by address.
func (rom *Rom) Add(addr uint32, data []byte) (err error) {
	seg := Segment{Address: addr, Data: slices.Clone(data)}
	for _, other := range rom.Segments {
		if seg.Address < other.End() && other.Address < seg.End() {
			return ErrSegmentOverlap
		}
	}

	rom.insert(seg)
	return
}

// Put a segment, replacing any bytes it overlaps.
func (rom *Rom) Put(addr uint32, data []byte) {
	seg := Segment{Address: addr, Data: slices.Clone(data)}

	var kept []Segment
	for _, other := range rom.Segments {
		if seg.Address >= other.End() || other.Address >= seg.End() {
			kept = append(kept, other)
			continue
		}
		if other.Address < seg.Address {
			kept = append(kept, Segment{Address: other.Address, Data: other.Data[:seg.Address-other.Address]})
		}
		if other.End() > seg.End() {
			kept = append(kept, Segment{Address: seg.End(), Data: other.Data[seg.End()-other.Address:]})
		}
	}
	rom.Segments = kept

	rom.insert(seg)
}

func (rom *Rom) insert(seg Segment) {
	if !rom.started {
		rom.entry = seg.Address
		rom.started = true
	}

	index, _ := slices.BinarySearchFunc(rom.Segments, seg.Address, func(s Segment, addr uint32) int {
		return int(int64(s.Address) - int64(addr))
	})
	rom.Segments = slices.Insert(rom.Segments, index, seg)
}

// Size is the total byte count of all segments.
func (rom *Rom) Size() (size int) {
	for _, seg := range rom.Segments {
		size += len(seg.Data)
	}
	return
}

// Load copies every segment into memory.
func (rom *Rom) Load(mem *memory.Memory) {
	for _, seg := range rom.Segments {
		mem.Load(seg.Address, seg.Data)
	}
}

// Entry is the address of the first segment added.
func (rom *Rom) Entry() (addr uint32, ok bool) {
	return rom.entry, rom.started
}
