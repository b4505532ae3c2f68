package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Line is one compiled source line.
type Line struct {
	LineNo  int    // Source line number.
	Address uint32 // Load address.
	Text    string // Source text.
	Form    Form   // Resolved general form; zero for #DB data.
	Bytes   []byte // Encoded bytes.
}

// End is the address after the line.
func (line *Line) End() uint32 {
	return line.Address + uint32(len(line.Bytes))
}

// Program is the output of the assembler.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int // Offset of the address within the line.
}

// Line returns the compiled line at index.
func (prog *Program) Line(index int) (line Line, ok bool) {
	if index < 0 || index >= len(prog.Lines) {
		return
	}
	return prog.Lines[index], true
}

// Debug maps an address to the line that encoded it.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n := range prog.Lines {
		line := &prog.Lines[n]
		if addr >= line.Address && addr < line.End() {
			dbg = Debug{
				Line:  line,
				Index: int(addr - line.Address),
			}
			break
		}
	}

	return
}

// Origin is the lowest address of the program.
func (prog *Program) Origin() (addr uint32) {
	for n, line := range prog.Lines {
		if n == 0 || line.Address < addr {
			addr = line.Address
		}
	}
	return
}

// End is the address after the highest byte of the program.
func (prog *Program) End() (addr uint32) {
	for _, line := range prog.Lines {
		addr = max(addr, line.End())
	}
	return
}

// Code is the flat program image from Origin to End; gaps are zero.
func (prog *Program) Code() (code []byte) {
	origin := prog.Origin()
	end := prog.End()
	if end <= origin {
		return
	}

	code = make([]byte, end-origin)
	for _, line := range prog.Lines {
		copy(code[line.Address-origin:], line.Bytes)
	}
	return
}

// Segments yields each contiguous run of bytes, in source order.
func (prog *Program) Segments() iter.Seq2[uint32, []byte] {
	return func(yield func(addr uint32, data []byte) bool) {
		var addr uint32
		var data []byte
		for _, line := range prog.Lines {
			if len(line.Bytes) == 0 {
				continue
			}
			if len(data) > 0 && line.Address == addr+uint32(len(data)) {
				data = append(data, line.Bytes...)
				continue
			}
			if len(data) > 0 && !yield(addr, data) {
				return
			}
			addr = line.Address
			data = append([]byte(nil), line.Bytes...)
		}
		if len(data) > 0 {
			yield(addr, data)
		}
	}
}

// String is the assembly listing of the program.
func (prog *Program) String() string {
	var sb strings.Builder
	for _, line := range prog.Lines {
		hex := make([]string, len(line.Bytes))
		for n, b := range line.Bytes {
			hex[n] = fmt.Sprintf("%02X", b)
		}
		fmt.Fprintf(&sb, "%06X: %-30s %5d: %v\n", line.Address, strings.Join(hex, " "), line.LineNo, line.Text)
	}
	return sb.String()
}
