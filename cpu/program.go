package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Line is a single instruction line of assembled source.
type Line struct {
	LineNo int    // Source line number, 1-based.
	Index  int    // Memory index of the generated word.
	Text   string // Original source text.
	Code   string // Source text stripped of comments and labels.
	Word   Word   // Generated word.
}

// Program is an assembled memory image and its source map.
type Program struct {
	Memory Memory
	Lines  []Line
	Label  map[string]int
}

// Debug returns the source line that generated the word at an address.
func (prog *Program) Debug(addr int) (line Line, ok bool) {
	for _, line = range prog.Lines {
		if line.Index == addr {
			ok = true
			return
		}
	}

	line = Line{}
	return
}

// Words iterates over the addresses and words of the memory image.
func (prog *Program) Words() iter.Seq2[int, Word] {
	return func(yield func(addr int, word Word) bool) {
		for addr, word := range prog.Memory {
			if !yield(addr, word) {
				return
			}
		}
	}
}

// Listing returns an assembly listing of the memory image.
func (prog *Program) Listing() (listing []string) {
	labels := make(map[int][]string, len(prog.Label))
	for name, index := range prog.Label {
		labels[index] = append(labels[index], name)
	}

	for addr, word := range prog.Words() {
		text := fmt.Sprintf("%02d: %02x %v %-8v", addr, uint8(word), word.Binary(), word)
		line, ok := prog.Debug(addr)
		if ok {
			text += fmt.Sprintf(" ; %d: %v", line.LineNo, strings.TrimSpace(line.Text))
		}
		switch addr {
		case PORT_INPUT:
			text += " ; input port"
		case PORT_OUTPUT:
			text += " ; output port"
		}
		listing = append(listing, strings.TrimRight(text, " "))
	}

	return
}

// WriteHex writes the memory image as one two digit hex byte per line.
func (prog *Program) WriteHex(w io.Writer) (err error) {
	for _, word := range prog.Words() {
		_, err = fmt.Fprintf(w, "%02x\n", uint8(word))
		if err != nil {
			return
		}
	}

	return
}

// ReadHex reads a memory image written by WriteHex.
// The resulting Program has no source map.
func ReadHex(r io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(r)

	var mem Memory
	var addr int
	var lineno int
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		if addr >= len(mem) {
			err = ErrSyntax{LineNo: lineno, Line: text, Err: ErrImageSize}
			return
		}
		var value uint64
		value, err = strconv.ParseUint(text, 16, 8)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: text, Err: ErrImageSyntax}
			return
		}
		mem[addr] = Word(int8(uint8(value)))
		addr++
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	if addr != len(mem) {
		err = ErrSyntax{LineNo: lineno, Err: ErrImageSize}
		return
	}

	prog = &Program{
		Memory: mem,
		Label:  map[string]int{},
	}

	return
}
