package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		kind    Kind
		valid   bool
		payload int
		name    string
	}{
		{MakeKind(MODE_IMM, WIDTH_8), true, 1, "n"},
		{MakeKind(MODE_IMM, WIDTH_24), true, 3, "nnn"},
		{MakeKind(MODE_IMM, WIDTH_FLOAT), true, 4, "f"},
		{MakeKind(MODE_IMM, WIDTH_NONE), false, 0, ""},
		{MakeKind(MODE_REG, WIDTH_32), true, 1, "rrrr"},
		{MakeKind(MODE_REG, WIDTH_FLOAT), false, 1, "rrrr"},
		{MakeKind(MODE_FREG, WIDTH_FLOAT), true, 1, "fr"},
		{MakeKind(MODE_ABS, WIDTH_8), true, 3, "(nnn)"},
		{MakeKind(MODE_ABS_OFF, WIDTH_16), true, 6, "(nnn+n)16"},
		{MakeKind(MODE_IND, WIDTH_24), true, 1, "(rrr)24"},
		{MakeKind(MODE_IND_OFF, WIDTH_32), true, 4, "(rrr+n)32"},
		{MakeKind(MODE_IND_REG, WIDTH_FLOAT), true, 2, "(rrr+r)f"},
		{MakeKind(MODE_COND, WIDTH_8), true, 1, "cc"},
		{MakeKind(MODE_REL, WIDTH_32), true, 4, "dddd"},
		{MakeKind(MODE_REL, WIDTH_8), false, 4, "dddd"},
		{Kind(0xff), false, 0, "Mode(31)"},
	}

	for _, entry := range table {
		assert.Equal(entry.valid, entry.kind.Valid(), "%v", entry.name)
		if entry.valid {
			assert.Equal(entry.payload, entry.kind.PayloadSize(), "%v", entry.name)
			assert.Equal(entry.name, entry.kind.String())
		}
	}
}

func TestDefAllows(t *testing.T) {
	assert := assert.New(t)

	def := func(name string, arity int) *Def {
		def, err := LookupName(name, arity)
		assert.NoError(err)
		return def
	}

	table := [...]struct {
		def   *Def
		kinds []Kind
		ok    bool
	}{
		{def("LD", 2), []Kind{MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_IMM, WIDTH_8)}, true},
		{def("LD", 2), []Kind{MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_IMM, WIDTH_16)}, false},
		{def("LD", 2), []Kind{MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_IMM, WIDTH_FLOAT)}, true},
		{def("LD", 2), []Kind{MakeKind(MODE_FREG, WIDTH_FLOAT), MakeKind(MODE_IMM, WIDTH_8)}, false},
		{def("LD", 2), []Kind{MakeKind(MODE_FREG, WIDTH_FLOAT), MakeKind(MODE_IMM, WIDTH_FLOAT)}, true},
		{def("LD", 2), []Kind{MakeKind(MODE_IMM, WIDTH_8), MakeKind(MODE_REG, WIDTH_8)}, false},
		{def("LD", 2), []Kind{MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_IND_OFF, WIDTH_32)}, true},
		{def("AND", 2), []Kind{MakeKind(MODE_FREG, WIDTH_FLOAT), MakeKind(MODE_REG, WIDTH_8)}, false},
		{def("JP", 1), []Kind{MakeKind(MODE_IMM, WIDTH_24)}, true},
		{def("JP", 1), []Kind{MakeKind(MODE_IMM, WIDTH_8)}, false},
		{def("JP", 2), []Kind{MakeKind(MODE_COND, WIDTH_8), MakeKind(MODE_REG, WIDTH_24)}, true},
		{def("JR", 1), []Kind{MakeKind(MODE_REL, WIDTH_32)}, true},
		{def("JR", 1), []Kind{MakeKind(MODE_IMM, WIDTH_32)}, false},
		{def("STREGS", 3), []Kind{MakeKind(MODE_ABS, WIDTH_8), MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_REG, WIDTH_8)}, true},
		{def("STREGS", 3), []Kind{MakeKind(MODE_ABS, WIDTH_8), MakeKind(MODE_REG, WIDTH_16), MakeKind(MODE_REG, WIDTH_8)}, false},
		{def("SIN", 2), []Kind{MakeKind(MODE_REG, WIDTH_16), MakeKind(MODE_FREG, WIDTH_FLOAT)}, true},
		{def("SIN", 2), []Kind{MakeKind(MODE_FREG, WIDTH_FLOAT), MakeKind(MODE_IMM, WIDTH_16)}, false},
	}

	for n, entry := range table {
		assert.Equal(entry.ok, entry.def.Allows(entry.kinds), "%d: %v", n, Form{Def: entry.def, Kinds: entry.kinds})
	}
}

func TestFormString(t *testing.T) {
	assert := assert.New(t)

	ld, _ := LookupName("LD", 2)
	form := Form{Def: ld, Kinds: []Kind{MakeKind(MODE_REG, WIDTH_8), MakeKind(MODE_IND_OFF, WIDTH_8)}}
	assert.Equal("LD r,(rrr+n)", form.String())
	assert.Equal(1+2+1+4, form.Size())

	ret, _ := LookupName("RET", 0)
	assert.Equal("RET", Form{Def: ret}.String())
	assert.Equal(1, Form{Def: ret}.Size())
}

// Every form of every instruction must decode back to itself.
func TestFormsRoundTrip(t *testing.T) {
	assert := assert.New(t)

	total := 0
	for def := range Defs() {
		count := 0
		for form := range def.Forms() {
			count++
			inst := Instruction{Form: form, Address: 100, Operands: make([]Operand, len(form.Kinds))}
			for n, kind := range form.Kinds {
				inst.Operands[n] = Operand{Kind: kind, Value: uint32(n + 1)}
			}
			code := inst.Encode()
			assert.Equal(form.Size(), len(code), "%v", form)

			mem := make(Bytes, 100+len(code))
			copy(mem[100:], code)
			decoded, err := Decode(mem, 100)
			if !assert.NoError(err, "%v", form) {
				continue
			}
			assert.Equal(form.Kinds, decoded.Kinds, "%v", form)
			assert.Equal(inst.End(), decoded.End())
		}
		assert.NotZero(count, "%v has no forms", def.Name)
		total += count
	}

	assert.Greater(total, len(defs))
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	_, err := Decode(Bytes{0xff}, 0)
	assert.ErrorIs(err, ErrOpcodeInvalid)

	_, err = Decode(Bytes{byte(OP_LD), byte(MakeKind(MODE_IMM, WIDTH_8)), byte(MakeKind(MODE_REG, WIDTH_8))}, 0)
	assert.ErrorIs(err, ErrFormInvalid)

	_, err = Decode(Bytes{byte(OP_JR), byte(MakeKind(MODE_REG, WIDTH_8))}, 0)
	assert.ErrorIs(err, ErrFormInvalid)

	cond := byte(MakeKind(MODE_COND, WIDTH_8))
	_, err = Decode(Bytes{byte(OP_SETF), cond, byte(MakeCond(FLAG_Z, true))}, 0)
	assert.ErrorIs(err, ErrConditionInvalid)

	inst, err := Decode(Bytes{byte(OP_SETF), cond, byte(MakeCond(FLAG_Z, false))}, 0)
	assert.NoError(err)
	assert.Equal("SETF Z", inst.String())
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		source string
		text   string
	}{
		{"LD A, 5", "LD A, 0x5"},
		{"LD ABC, (DEF-3)", "LD ABC, (DEF-3)"},
		{"LD16 (1000), 0x1234", "LD16 (0x0003E8), 0x1234"},
		{"ADD (GH+BC), A", "ADD (GH+BC), A"},
		{"JP NZ, 0x100", "JP NZ, 0x100"},
		{"LD F1, 1.5", "LD F1, 1.5"},
		{"BREAK", "BREAK"},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Build(entry.source)
		if !assert.NoError(err, entry.source) {
			continue
		}
		line, ok := prog.Line(0)
		assert.True(ok)
		inst, err := Decode(Bytes(line.Bytes), 0)
		assert.NoError(err)
		assert.Equal(entry.text, inst.String(), entry.source)
	}
}
