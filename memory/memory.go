// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat big-endian RAM and the word-indexed
// variable store of the Continuum93 machine.
package memory

import (
	"math"
)

const (
	DEFAULT_SIZE      = 0x100_0000 // 16 MiB, the full 24-bit address space.
	DEFAULT_VAR_COUNT = 256        // Variable store words.
)

// Memory is a zero-initialized byte addressable space. All addresses wrap
// modulo the size, so no access can fault.
type Memory struct {
	Data []byte
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size int) (mem *Memory) {
	if size <= 0 {
		size = DEFAULT_SIZE
	}
	mem = &Memory{
		Data: make([]byte, size),
	}
	return
}

// Size of the memory in bytes.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.Data))
}

// Clear zeroes the memory.
func (mem *Memory) Clear() {
	clear(mem.Data)
}

func (mem *Memory) wrap(addr uint32) int {
	return int(addr % uint32(len(mem.Data)))
}

// Get8 reads a byte.
func (mem *Memory) Get8(addr uint32) uint8 {
	return mem.Data[mem.wrap(addr)]
}

// Set8 writes a byte.
func (mem *Memory) Set8(addr uint32, value uint8) {
	mem.Data[mem.wrap(addr)] = value
}

// Get reads a big-endian value of 1 to 4 bytes.
func (mem *Memory) Get(addr uint32, size int) (value uint32) {
	for n := range size {
		value = (value << 8) | uint32(mem.Get8(addr+uint32(n)))
	}
	return
}

// Set writes the low size bytes of value, big-endian.
func (mem *Memory) Set(addr uint32, size int, value uint32) {
	for n := size - 1; n >= 0; n-- {
		mem.Set8(addr+uint32(n), uint8(value))
		value >>= 8
	}
}

// Get16 reads a 16-bit word.
func (mem *Memory) Get16(addr uint32) uint16 {
	return uint16(mem.Get(addr, 2))
}

// Set16 writes a 16-bit word.
func (mem *Memory) Set16(addr uint32, value uint16) {
	mem.Set(addr, 2, uint32(value))
}

// Get24 reads a 24-bit word.
func (mem *Memory) Get24(addr uint32) uint32 {
	return mem.Get(addr, 3)
}

// Set24 writes a 24-bit word.
func (mem *Memory) Set24(addr uint32, value uint32) {
	mem.Set(addr, 3, value)
}

// Get32 reads a 32-bit word.
func (mem *Memory) Get32(addr uint32) uint32 {
	return mem.Get(addr, 4)
}

// Set32 writes a 32-bit word.
func (mem *Memory) Set32(addr uint32, value uint32) {
	mem.Set(addr, 4, value)
}

// GetFloat reads an IEEE-754 float32.
func (mem *Memory) GetFloat(addr uint32) float32 {
	return math.Float32frombits(mem.Get32(addr))
}

// SetFloat writes an IEEE-754 float32.
func (mem *Memory) SetFloat(addr uint32, value float32) {
	mem.Set32(addr, math.Float32bits(value))
}

// GetMemoryAt returns a copy of size bytes at addr.
func (mem *Memory) GetMemoryAt(addr uint32, size int) (data []byte) {
	data = make([]byte, size)
	for n := range data {
		data[n] = mem.Get8(addr + uint32(n))
	}
	return
}

// Load copies data into memory at addr.
func (mem *Memory) Load(addr uint32, data []byte) {
	for n, b := range data {
		mem.Set8(addr+uint32(n), b)
	}
}

// Copy copies size bytes from src to dst. The source is fully read before
// the destination is written, so overlapping ranges behave as a move.
func (mem *Memory) Copy(dst, src uint32, size uint32) {
	if size == 0 {
		return
	}
	mem.Load(dst, mem.GetMemoryAt(src, int(size)))
}

// Fill sets size bytes at addr to value.
func (mem *Memory) Fill(addr uint32, size uint32, value uint8) {
	for n := range size {
		mem.Set8(addr+n, value)
	}
}

// GetBits extracts count bits, MSB first, starting at a bit address
// (byte address * 8 + bit offset). The result is right aligned.
func (mem *Memory) GetBits(bitaddr uint32, count int) (value uint32) {
	for n := range count {
		pos := bitaddr + uint32(n)
		bit := (mem.Get8(pos>>3) >> (7 - (pos & 7))) & 1
		value = (value << 1) | uint32(bit)
	}
	return
}

// SetBits inserts the low count bits of value, MSB first, at a bit address.
// Bits outside of the run are preserved.
func (mem *Memory) SetBits(bitaddr uint32, count int, value uint32) {
	for n := range count {
		pos := bitaddr + uint32(n)
		bit := uint8(value>>(count-1-n)) & 1
		shift := 7 - (pos & 7)
		old := mem.Get8(pos >> 3)
		mem.Set8(pos>>3, old&^(1<<shift) | bit<<shift)
	}
}
