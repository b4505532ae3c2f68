// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

// Vars is the variable store, addressed by index rather than by byte
// address. Indexes wrap modulo the word count.
type Vars struct {
	Word []uint32
}

// NewVars creates a zeroed variable store.
func NewVars(count int) (vars *Vars) {
	if count <= 0 {
		count = DEFAULT_VAR_COUNT
	}
	vars = &Vars{
		Word: make([]uint32, count),
	}
	return
}

// Get a word by index.
func (vars *Vars) Get(index uint32) uint32 {
	return vars.Word[index%uint32(len(vars.Word))]
}

// Set a word by index.
func (vars *Vars) Set(index uint32, value uint32) {
	vars.Word[index%uint32(len(vars.Word))] = value
}

// Len is the number of words in the store.
func (vars *Vars) Len() int {
	return len(vars.Word)
}

// Clear zeroes the store.
func (vars *Vars) Clear() {
	clear(vars.Word)
}
