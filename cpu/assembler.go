// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates, visible in $(...) expressions.
var sysEquate = map[string]int{
	"MEMORY_SIZE": MEMORY_SIZE,
	"PORT_IN":     PORT_INPUT,
	"PORT_OUT":    PORT_OUTPUT,
}

// exprPattern matches a $(...) expression, which may contain spaces.
var exprPattern = regexp.MustCompile(`\$\([^\$]*\)`)

// ErrOperandUnresolved is an unrecognized token in the operand position.
var ErrOperandUnresolved = fmt.Errorf("%w %s", ErrTokenUnrecognized, f("operand"))

// pendingLabel is a label waiting for the next instruction line.
type pendingLabel struct {
	name   string
	lineNo int
	line   string
}

// Assembler is a two pass assembler for the SimHymn system.
type Assembler struct {
	Verbose bool           // If set, verbosely logs the assembler actions.
	Label   map[string]int // Map of labels to instruction indexes.
	Errors  ErrAssembly    // Accumulated diagnostics.

	predefine map[string]int
	pending   []pendingLabel
	lines     []Line
	memory    Memory
}

// Assemble is a convenience wrapper to assemble source text.
func Assemble(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Report returns the newline separated diagnostics, or "" if there are none.
func (asm *Assembler) Report() string {
	if len(asm.Errors) == 0 {
		return ""
	}
	return asm.Errors.Error()
}

// addError records a diagnostic and keeps going.
func (asm *Assembler) addError(lineno int, line string, err error) {
	if asm.Verbose {
		log.Printf("%v: error: %v", lineno, err)
	}
	asm.Errors = append(asm.Errors, ErrSyntax{LineNo: lineno, Line: line, Err: err})
}

// Parse parses an input stream into a Program containing the memory image.
//
// All diagnostics are collected; if there are any, the returned error is an
// ErrAssembly listing them and no program is returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Errors = nil
	asm.pending = nil
	asm.lines = asm.lines[:0]
	clear(asm.memory[:])

	// Pass 1: labels and instruction indexes.
	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		asm.scanLine(lineno, text)
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	for _, pending := range asm.pending {
		asm.addError(pending.lineNo, pending.line, ErrLabel{Label: pending.name, Err: ErrLabelDangling})
	}
	asm.pending = nil

	// Pass 2: encoding.
	for n := range asm.lines {
		line := &asm.lines[n]
		word, encode_err := asm.encode(line.Code)
		if encode_err != nil {
			asm.addError(line.LineNo, line.Text, encode_err)
			continue
		}
		line.Word = word
		asm.memory[line.Index] = word
	}

	if len(asm.Errors) != 0 {
		err = slices.Clone(asm.Errors)
		return
	}

	prog = &Program{
		Memory: asm.memory,
		Lines:  slices.Clone(asm.lines),
		Label:  maps.Clone(asm.Label),
	}

	return
}

// scanLine performs the first pass over a single line.
func (asm *Assembler) scanLine(lineno int, text string) {
	code, _, _ := strings.Cut(text, "#")
	code = strings.TrimSpace(code)
	if len(code) == 0 {
		return
	}

	// Every segment before the last ':' is a label. A trailing ':' leaves
	// an empty code segment, making this a label-only line.
	segments := strings.Split(code, ":")
	code = strings.TrimSpace(segments[len(segments)-1])

	var labels []string
	for _, segment := range segments[:len(segments)-1] {
		name := strings.TrimSpace(segment)
		switch {
		case len(name) == 0:
			asm.addError(lineno, text, ErrLabel{Label: name, Err: ErrLabelEmpty})
		case strings.ContainsFunc(name, unicode.IsSpace):
			asm.addError(lineno, text, ErrLabel{Label: name, Err: ErrLabelSpace})
		default:
			labels = append(labels, name)
		}
	}

	if len(code) == 0 {
		for _, name := range labels {
			asm.pending = append(asm.pending, pendingLabel{name: name, lineNo: lineno, line: text})
		}
		return
	}

	index := len(asm.lines)
	if index >= MEMORY_SIZE {
		asm.addError(lineno, text, ErrMemoryFull)
		asm.pending = nil
		return
	}

	for _, pending := range asm.pending {
		asm.bind(pending.name, index, pending.lineNo, pending.line)
	}
	asm.pending = nil

	for _, name := range labels {
		asm.bind(name, index, lineno, text)
	}

	asm.lines = append(asm.lines, Line{LineNo: lineno, Index: index, Text: text, Code: code})
}

// bind sets a label to an instruction index.
func (asm *Assembler) bind(name string, index int, lineno int, text string) {
	_, ok := asm.Label[name]
	if ok {
		asm.addError(lineno, text, ErrLabel{Label: name, Err: ErrLabelDuplicate})
		return
	}

	if asm.Verbose {
		log.Printf("%v: label %v = %v", lineno, name, index)
	}

	asm.Label[name] = index
}

// encode performs the second pass over a single instruction line.
func (asm *Assembler) encode(code string) (word Word, err error) {
	// Do $() evaluations
	code = exprPattern.ReplaceAllStringFunc(code, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = ErrToken{Token: str, Err: ErrOperandUnresolved}
			}
			return str
		}
		return strconv.Itoa(value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(code)

	switch len(words) {
	case 1:
		switch strings.ToLower(words[0]) {
		case "halt":
			word = WORD_HALT
			return
		case "read":
			word = WORD_READ
			return
		case "write":
			word = WORD_WRITE
			return
		}
		var value int
		value, err = asm.valueOf(words[0])
		if err != nil {
			err = ErrToken{Token: words[0], Err: ErrTokenUnrecognized}
			return
		}
		word = Word(Truncate(value))
	case 2:
		op, ok := LookupMnemonic(words[0])
		if !ok {
			err = ErrToken{Token: words[0], Err: ErrMnemonicUnknown}
			return
		}
		var operand int
		operand, err = asm.valueOf(words[1])
		if err != nil {
			err = ErrToken{Token: words[1], Err: ErrOperandUnresolved}
			return
		}
		if asm.Verbose && (operand < 0 || operand > OPERAND_MASK) {
			log.Printf("warning: operand %v of '%v' overflows the operand field", operand, code)
		}
		word = MakeWord(op, operand)
	default:
		err = ErrToken{Token: code, Err: ErrTokenCount}
	}

	return
}

// isBinary returns true for an 8 character binary literal.
func isBinary(word string) bool {
	if len(word) != 8 {
		return false
	}
	return !strings.ContainsFunc(word, func(r rune) bool { return r != '0' && r != '1' })
}

// isDecimal returns true for a non-empty string of decimal digits.
func isDecimal(word string) bool {
	if len(word) == 0 {
		return false
	}
	return !strings.ContainsFunc(word, func(r rune) bool { return r < '0' || r > '9' })
}

// valueOf returns the value of a single token. It is tried as a binary
// literal, a decimal literal, a negative decimal literal, and finally as a
// label.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if isBinary(word) {
		var v64 uint64
		v64, err = strconv.ParseUint(word, 2, 8)
		if err == nil {
			value = int(v64)
			return
		}
	}

	if isDecimal(word) || (strings.HasPrefix(word, "-") && isDecimal(word[1:])) {
		var v64 int64
		v64, err = strconv.ParseInt(word, 10, 64)
		if err == nil {
			value = int(v64)
			return
		}
	}

	index, ok := asm.Label[word]
	if ok {
		value = index
		err = nil
		return
	}

	err = ErrTokenUnrecognized
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "simhymn"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range sysEquate {
		pred[key] = starlark.MakeInt(val)
	}
	for key, val := range asm.predefine {
		pred[key] = starlark.MakeInt(val)
	}
	for key, val := range asm.Label {
		pred[key] = starlark.MakeInt(val)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrTokenUnrecognized
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrTokenUnrecognized
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrTokenUnrecognized
		return
	}
	value = int(st_int64)
	return
}
