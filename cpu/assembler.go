// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const MACRO_DEPTH = 16 // Maximum macro nesting during expansion.

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a two pass macro assembler for the Continuum93.
type Assembler struct {
	Verbose bool    // If set, verbosely logs the assembler actions.
	Errors  []error // Diagnostics of the last Parse.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros, by upper case name.

	statements []*statement
	address    uint32
	expansions int
	depth      int
}

// statement is one instruction or data directive found by pass 1.
type statement struct {
	lineNo   int
	text     string
	address  uint32
	form     Form
	operands []asmOperand
	data     []datum
	size     int
	bytes    []byte
}

// asmOperand is an operand as written, plus its encoding once resolved.
type asmOperand struct {
	Operand
	mode  Mode
	width Width // Register width.
	value
}

// value is a numeric literal or a label reference.
type value struct {
	number  int64
	float   float64
	isFloat bool
	label   string
}

// datum is one #DB item: literal bytes, or a label to encode in 3 bytes.
type datum struct {
	bytes []byte
	label string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Build assembles source text.
func (asm *Assembler) Build(source string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(source))
}

// Log renders the diagnostics of the last Parse, one per line.
func (asm *Assembler) Log() string {
	lines := make([]string, len(asm.Errors))
	for n, err := range asm.Errors {
		lines[n] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// fail records a diagnostic; assembly continues.
func (asm *Assembler) fail(lineno int, line string, err error) {
	if asm.Verbose {
		log.Printf("%v: %v", lineno, err)
	}
	var syn ErrSyntax
	if !errors.As(err, &syn) {
		err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
	}
	asm.Errors = append(asm.Errors, err)
}

var identRegexp = regexp.MustCompile(`^[A-Za-z_@][A-Za-z0-9_@]*$`)

// isIdent is true for valid label, equate and macro names.
func isIdent(word string) bool {
	return identRegexp.MatchString(word)
}

// cutWord splits off the first blank separated word.
func cutWord(line string) (word string, rest string) {
	line = strings.TrimSpace(line)
	end := strings.IndexAny(line, " \t")
	if end < 0 {
		return line, ""
	}
	return line[:end], strings.TrimSpace(line[end:])
}

// stripComment removes a trailing ';' comment outside of quotes.
func stripComment(line string) string {
	var quote byte
	for n := 0; n < len(line); n++ {
		c := line[n]
		switch {
		case quote != 0 && c == '\\':
			n++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			return line[:n]
		}
	}
	return line
}

// splitOperands splits on commas outside of quotes and parentheses.
func splitOperands(text string) (args []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	var quote byte
	depth := 0
	start := 0
	for n := 0; n < len(text); n++ {
		c := text[n]
		switch {
		case quote != 0 && c == '\\':
			n++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	args = append(args, strings.TrimSpace(text[start:]))
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (result string, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		val, _err := asm.parseValue(str)
		if _err != nil || len(val.label) != 0 {
			// Ignore non-numeric equates. They may be registers
			// or something else.
			continue
		}
		if val.isFloat {
			pred[key] = starlark.Float(val.float)
		} else {
			pred[key] = starlark.MakeInt64(val.number)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	switch rc := dict["rc"].(type) {
	case starlark.Int:
		st_int64, ok := rc.Int64()
		if !ok {
			err = ErrParseExpression(expr)
			return
		}
		result = strconv.FormatInt(st_int64, 10)
	case starlark.Float:
		result = strconv.FormatFloat(float64(rc), 'f', -1, 64)
		if !strings.Contains(result, ".") {
			result += ".0"
		}
	case starlark.Bool:
		result = "0"
		if rc {
			result = "1"
		}
	default:
		err = ErrParseExpression(expr)
	}
	return
}

var charRegexp = regexp.MustCompile(`'\\?[^']'`)

// expand does character literal and $() evaluations.
func (asm *Assembler) expand(line string) (out string, err error) {
	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%d", str[0])
	})

	// Do $() evaluations, innermost parentheses balanced.
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}
		depth := 0
		end := -1
		for n := start + 1; n < len(line) && end < 0; n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = n
				}
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}
		var result string
		result, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}
		line = line[:start] + result + line[end+1:]
	}

	out = line
	return
}

var wordRegexp = regexp.MustCompile(`\.?\b[A-Za-z_][A-Za-z0-9_]*`)

// substitute replaces equate names in an operand.
func (asm *Assembler) substitute(text string) string {
	if strings.HasPrefix(text, "\"") {
		return text
	}
	for range 8 {
		changed := false
		text = wordRegexp.ReplaceAllStringFunc(text, func(word string) string {
			if word[0] == '.' {
				return word
			}
			equate, ok := asm.Equate[word]
			if !ok || equate == word {
				return word
			}
			changed = true
			return equate
		})
		if !changed {
			break
		}
	}
	return text
}

// parseValue parses a number, float or label reference.
func (asm *Assembler) parseValue(text string) (val value, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	if label, ok := strings.CutPrefix(text, "."); ok {
		if !isIdent(label) {
			err = ErrLabelInvalid
			return
		}
		val.label = label
		return
	}

	if number, _err := strconv.ParseInt(text, 0, 64); _err == nil {
		val.number = number
		return
	}

	if strings.ContainsAny(text, ".eE") {
		if float, _err := strconv.ParseFloat(text, 64); _err == nil {
			val.float = float
			val.isFloat = true
			return
		}
	}

	if isIdent(text) {
		val.label = text
		return
	}

	err = ErrParseValue(text)
	return
}

// fits reports whether a literal can be stored as an integer of width
// bytes, either signed or unsigned.
func fits(number int64, size int) bool {
	bits := uint(size * 8)
	return number >= -(int64(1)<<(bits-1)) && number <= (int64(1)<<bits)-1
}

// encodeImmediate sets the payload of a resolved immediate.
func (op *asmOperand) encodeImmediate() (err error) {
	width := op.Kind.Width()
	if width.IsFloat() {
		float := op.float
		if !op.isFloat {
			float = float64(op.number)
		}
		op.Value = math.Float32bits(float32(float))
		return
	}

	number := op.number
	if op.isFloat {
		number = int64(math.Round(op.float))
	}
	if !fits(number, width.Bytes()) {
		err = ErrRangeInvalid
		return
	}
	op.Value = uint32(number) & width.Mask()
	return
}

// encodeAddress sets the payload of an absolute address.
func (op *asmOperand) encodeAddress() (err error) {
	if op.isFloat || op.number < 0 || op.number > 0xffffff {
		err = ErrRangeInvalid
		return
	}
	op.Value = uint32(op.number)
	return
}

func parseOffset(text string) (offset int32, err error) {
	number, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}
	if number < -0x800000 || number > 0x7fffff {
		err = ErrRangeInvalid
		return
	}
	offset = int32(number)
	return
}

// parseMemory parses the inside of a parenthesized memory operand.
func (asm *Assembler) parseMemory(inner string) (op asmOperand, err error) {
	inner = strings.TrimSpace(inner)

	base, offset := inner, ""
	if split := strings.LastIndexAny(inner, "+-"); split > 0 {
		base, offset = strings.TrimSpace(inner[:split]), strings.TrimSpace(inner[split:])
	}

	// A sign in an exponent or a negative base is not an offset.
	if _, err := asm.parseValue(base); err != nil && len(offset) > 0 {
		if _, _, ok := ParseRegister(base); !ok {
			base, offset = inner, ""
		}
	}

	if index, width, ok := ParseRegister(base); ok {
		op.Reg = uint8(MakeRegRef(index, width))
		switch {
		case len(offset) == 0:
			op.mode = MODE_IND
		case offset[0] == '+':
			if index, width, ok := ParseRegister(strings.TrimSpace(offset[1:])); ok {
				op.mode = MODE_IND_REG
				op.Index = MakeRegRef(index, width)
				return
			}
			fallthrough
		default:
			op.mode = MODE_IND_OFF
			op.Offset, err = parseOffset(offset)
		}
		return
	}

	op.value, err = asm.parseValue(base)
	if err != nil {
		return
	}
	if op.isFloat {
		err = ErrParseNumber(base)
		return
	}

	op.mode = MODE_ABS
	if len(offset) > 0 {
		op.mode = MODE_ABS_OFF
		op.Offset, err = parseOffset(offset)
	}
	return
}

// parseOperand classifies an operand for a slot.
func (asm *Assembler) parseOperand(text string, slot Slot) (op asmOperand, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	if slot.Modes.Has(MODE_COND) {
		if cond, ok := ParseCond(text); ok {
			if slot.Positive && cond.Negated() {
				err = ErrConditionInvalid
				return
			}
			op.mode = MODE_COND
			op.Value = uint32(cond)
			return
		}
		if !slot.Modes.Has(MODE_IMM) {
			err = ErrConditionInvalid
			return
		}
	}

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		return asm.parseMemory(text[1 : len(text)-1])
	}

	if index, width, ok := ParseRegister(text); ok {
		op.mode = MODE_REG
		op.width = width
		op.Reg = uint8(index)
		return
	}

	if index, ok := ParseFloat(text); ok {
		op.mode = MODE_FREG
		op.width = WIDTH_FLOAT
		op.Reg = uint8(index)
		return
	}

	op.value, err = asm.parseValue(text)
	if err != nil {
		return
	}

	op.mode = MODE_IMM
	if slot.Modes.Has(MODE_REL) {
		op.mode = MODE_REL
		if op.isFloat {
			err = ErrParseNumber(text)
		}
		op.Value = uint32(int32(op.number))
	}
	return
}

// resolveKinds computes the operand form. Register kinds are fixed by
// their names, memory widths come from the mnemonic suffix or the
// counterpart operand, and immediates take the width their slot asks for.
func (asm *Assembler) resolveKinds(def *Def, ops []asmOperand, suffix Width) (kinds []Kind) {
	kinds = make([]Kind, len(ops))
	for n, op := range ops {
		switch op.mode {
		case MODE_REG:
			kinds[n] = MakeKind(MODE_REG, op.width)
		case MODE_FREG:
			kinds[n] = MakeKind(MODE_FREG, WIDTH_FLOAT)
		case MODE_COND:
			kinds[n] = MakeKind(MODE_COND, WIDTH_8)
		case MODE_REL:
			kinds[n] = MakeKind(MODE_REL, WIDTH_32)
		case MODE_IMM:
			kinds[n] = MakeKind(MODE_IMM, WIDTH_NONE)
			if op.isFloat {
				kinds[n] = MakeKind(MODE_IMM, WIDTH_FLOAT)
			}
		}
	}

	for n, op := range ops {
		if !op.mode.IsMemory() {
			continue
		}
		width := suffix
		if width == WIDTH_NONE {
			width = inferWidth(def, kinds, n)
		}
		kinds[n] = MakeKind(op.mode, width)
	}

	for n, op := range ops {
		if op.mode != MODE_IMM {
			continue
		}
		slot := def.Slots[n]
		var width Width
		switch {
		case slot.Imm != WIDTH_NONE:
			width = slot.Imm
		case slot.Match >= 0:
			other := kinds[slot.Match].Width()
			switch {
			case other.IsFloat() || op.isFloat:
				width = WIDTH_FLOAT
			case other == WIDTH_NONE:
				width = WIDTH_32
			default:
				width = other
			}
		case op.isFloat:
			width = WIDTH_FLOAT
		default:
			width = WIDTH_32
		}
		kinds[n] = MakeKind(MODE_IMM, width)
	}

	return
}

// lookup finds the definition of a mnemonic and its memory width suffix.
func lookup(mnemonic string, arity int) (def *Def, suffix Width, err error) {
	name := strings.ToUpper(mnemonic)
	def, err = LookupName(name, arity)
	if !errors.Is(err, ErrInstructionInvalid) {
		return
	}

	for _, width := range []Width{WIDTH_16, WIDTH_24, WIDTH_32} {
		if base, found := strings.CutSuffix(name, width.Suffix()); found {
			def, err = LookupName(base, arity)
			suffix = width
			return
		}
	}
	return
}

// parseInstruction runs pass 1 over an instruction.
func (asm *Assembler) parseInstruction(lineno int, text string, mnemonic string, rest string) (err error) {
	args := splitOperands(rest)
	def, suffix, err := lookup(mnemonic, len(args))
	if err != nil {
		return
	}

	ops := make([]asmOperand, len(args))
	for n, arg := range args {
		ops[n], err = asm.parseOperand(asm.substitute(arg), def.Slots[n])
		if err != nil {
			return
		}
	}

	kinds := asm.resolveKinds(def, ops, suffix)
	form := Form{Def: def, Kinds: kinds}
	if !def.Allows(kinds) {
		err = ErrForm(form.String())
		return
	}

	for n := range ops {
		op := &ops[n]
		op.Kind = kinds[n]
		if len(op.label) != 0 {
			continue
		}
		switch op.mode {
		case MODE_IMM:
			err = op.encodeImmediate()
		case MODE_ABS, MODE_ABS_OFF:
			err = op.encodeAddress()
		}
		if err != nil {
			return
		}
	}

	asm.emit(&statement{
		lineNo:   lineno,
		text:     text,
		form:     form,
		operands: ops,
		size:     form.Size(),
	})

	return
}

func (asm *Assembler) emit(stmt *statement) {
	stmt.address = asm.address
	asm.statements = append(asm.statements, stmt)
	asm.address += uint32(stmt.size)
}

// literalSize is the #DB width of an integer literal: hex digit pairs,
// binary digit octets, or else the fewest bytes holding the value.
func literalSize(text string, number int64) (size int, err error) {
	digits := strings.ToLower(strings.ReplaceAll(strings.TrimLeft(text, "+-"), "_", ""))
	switch {
	case strings.HasPrefix(digits, "0x"):
		size = (len(digits) - 2 + 1) / 2
	case strings.HasPrefix(digits, "0b"):
		size = (len(digits) - 2 + 7) / 8
	default:
		size = 1
		for size < 4 && !fits(number, size) {
			size++
		}
	}

	size = max(size, 1)
	if size > 4 || !fits(number, size) {
		err = ErrRangeInvalid
	}
	return
}

// parseData runs pass 1 over a #DB directive.
func (asm *Assembler) parseData(lineno int, text string, rest string) (err error) {
	stmt := &statement{
		lineNo: lineno,
		text:   text,
	}

	items := splitOperands(rest)
	if len(items) == 0 {
		return ErrDataSyntax
	}

	for _, item := range items {
		var dat datum
		switch {
		case strings.HasPrefix(item, "\""):
			var str string
			str, err = strconv.Unquote(item)
			if err != nil {
				return ErrDataSyntax
			}
			dat.bytes = []byte(str)
		default:
			word := asm.substitute(item)
			var val value
			val, err = asm.parseValue(word)
			if err != nil {
				return
			}
			switch {
			case len(val.label) != 0:
				dat.label = val.label
				dat.bytes = make([]byte, 3)
			case val.isFloat:
				bits := math.Float32bits(float32(val.float))
				dat.bytes = []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
			default:
				var size int
				size, err = literalSize(word, val.number)
				if err != nil {
					return
				}
				for n := size - 1; n >= 0; n-- {
					dat.bytes = append(dat.bytes, byte(val.number>>(8*n)))
				}
			}
		}
		stmt.data = append(stmt.data, dat)
		stmt.size += len(dat.bytes)
	}

	asm.emit(stmt)
	return
}

// defineLabel binds a label to the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	if !isIdent(label) {
		return ErrLabelInvalid
	}
	if _, ok := asm.Label[label]; ok {
		return ErrLabelDuplicate
	}
	asm.Label[label] = asm.address
	if asm.Verbose {
		log.Printf("label %v = 0x%06X", label, asm.address)
	}
	return
}

// parseLine runs pass 1 over a single line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%d", lineno)

	text := line
	line, err = asm.expand(strings.TrimSpace(stripComment(line)))
	if err != nil {
		return
	}

	// .Label, .Label: and .Label INSTRUCTION
	for strings.HasPrefix(line, ".") {
		var word string
		word, line = cutWord(line)
		err = asm.defineLabel(strings.TrimSuffix(word[1:], ":"))
		if err != nil {
			return
		}
	}

	if len(line) == 0 {
		return
	}

	mnemonic, rest := cutWord(line)
	name := strings.ToUpper(mnemonic)

	switch name {
	case "#EQU":
		equ, val := cutWord(rest)
		if !isIdent(equ) || len(val) == 0 {
			return ErrEquateSyntax
		}
		if _, ok := asm.Equate[equ]; ok {
			return ErrEquateDuplicate
		}
		asm.Equate[equ] = asm.substitute(val)
	case "#ORG":
		var val value
		val, err = asm.parseValue(asm.substitute(rest))
		if err != nil {
			return
		}
		if len(val.label) != 0 || val.isFloat || val.number < 0 || val.number > 0xffffff {
			return ErrOriginSyntax
		}
		asm.address = uint32(val.number)
	case "#DB":
		err = asm.parseData(lineno, text, rest)
	default:
		if macro, ok := asm.Macro[name]; ok {
			return asm.expandMacro(mnemonic, macro, splitOperands(rest))
		}
		if strings.HasPrefix(name, "#") {
			return ErrDirectiveInvalid
		}
		err = asm.parseInstruction(lineno, text, mnemonic, rest)
	}

	return
}

// expandMacro runs pass 1 over the lines of a macro, with its arguments
// bound as equates and '@' replaced by a prefix unique to this expansion.
func (asm *Assembler) expandMacro(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		return ErrMacroArguments
	}
	if asm.depth >= MACRO_DEPTH {
		return ErrMacroDepth
	}

	asm.depth++
	asm.expansions++
	prefix := fmt.Sprintf("%v_%v_", name, asm.expansions)

	// Turn args into equs
	old_equate := maps.Clone(asm.Equate)
	for n, arg := range macro.Args {
		asm.Equate[arg] = asm.substitute(args[n])
	}
	defer func() {
		asm.Equate = old_equate
		asm.depth--
	}()

	for n, line := range macro.Lines {
		lineno := macro.LineNo + n
		line = strings.ReplaceAll(line, "@", prefix)
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrMacro{Macro: name, Line: lineno, Err: err}
			return
		}
	}

	return
}

// link runs pass 2: resolves label references and encodes every
// statement.
func (asm *Assembler) link() {
	for _, stmt := range asm.statements {
		failed := false
		resolve := func(label string) (addr uint32, ok bool) {
			addr, ok = asm.Label[label]
			if !ok {
				asm.fail(stmt.lineNo, stmt.text, ErrLabelMissing(label))
				failed = true
			}
			return
		}

		if stmt.form.Def == nil {
			stmt.bytes = make([]byte, 0, stmt.size)
			for _, dat := range stmt.data {
				if len(dat.label) != 0 {
					addr, _ := resolve(dat.label)
					dat.bytes = []byte{byte(addr >> 16), byte(addr >> 8), byte(addr)}
				}
				stmt.bytes = append(stmt.bytes, dat.bytes...)
			}
			continue
		}

		inst := Instruction{
			Form:     stmt.form,
			Address:  stmt.address,
			Operands: make([]Operand, len(stmt.operands)),
		}
		for n := range stmt.operands {
			op := &stmt.operands[n]
			if len(op.label) != 0 {
				addr, ok := resolve(op.label)
				if !ok {
					continue
				}
				var err error
				switch op.Mode() {
				case MODE_REL:
					op.Value = addr - inst.End()
				case MODE_IMM:
					op.number = int64(addr)
					err = op.encodeImmediate()
				case MODE_ABS, MODE_ABS_OFF:
					op.number = int64(addr)
					err = op.encodeAddress()
				}
				if err != nil {
					asm.fail(stmt.lineNo, stmt.text, err)
					failed = true
				}
			}
			inst.Operands[n] = op.Operand
		}

		if failed {
			continue
		}

		stmt.bytes = inst.Encode()
		if asm.Verbose {
			log.Printf("%06X: %v", inst.Address, &inst)
		}
	}
}

// Parse parses an input stream into a Program. Errors are collected and
// assembly continues, so that every diagnostic is reported at once.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var macro *Macro

	asm.Errors = nil
	asm.Label = map[string]uint32{}
	asm.Macro = map[string](*Macro){}
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
	asm.statements = nil
	asm.address = 0
	asm.expansions = 0
	asm.depth = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := strings.TrimSpace(stripComment(text))
		words := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})

		// #MACRO NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], "#MACRO") {
			if macro != nil {
				asm.fail(lineno, text, ErrMacroNesting)
				continue
			}
			if len(words) < 2 || !isIdent(words[1]) {
				asm.fail(lineno, text, ErrMacroSyntax)
				continue
			}
			name := strings.ToUpper(words[1])
			if _, ok := asm.Macro[name]; ok {
				asm.fail(lineno, text, ErrMacroDuplicate)
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   words[2:],
			}
			asm.Macro[name] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], "#ENDM") {
			if macro == nil {
				asm.fail(lineno, text, ErrMacroLonelyEndm)
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, text)
			continue
		}

		err = asm.parseLine(text, lineno)
		if err != nil {
			asm.fail(lineno, text, err)
		}
	}

	if err = scanner.Err(); err != nil {
		asm.fail(lineno, "", err)
	}

	if macro != nil {
		asm.fail(macro.LineNo-1, "", ErrMacroLonely)
	}

	asm.link()

	prog = &Program{}
	for _, stmt := range asm.statements {
		if stmt.bytes == nil {
			continue
		}
		prog.Lines = append(prog.Lines, Line{
			LineNo:  stmt.lineNo,
			Address: stmt.address,
			Text:    strings.TrimSpace(stmt.text),
			Form:    stmt.form,
			Bytes:   stmt.bytes,
		})
	}

	err = errors.Join(asm.Errors...)
	return
}
