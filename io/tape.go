package io

import (
	"bufio"
	"io"
	"strings"
)

// Tape provides input values read one per line from an io.Reader.
// Blank lines are skipped.
type Tape struct {
	input   io.Reader
	scanner *bufio.Scanner
}

var _ Input = (*Tape)(nil)

// SetInput replaces the tape's reader. Reading restarts on the new reader.
func (tc *Tape) SetInput(r io.Reader) {
	tc.input = r
	tc.scanner = nil
}

// HasInput returns true if a reader is attached.
func (tc *Tape) HasInput() bool {
	return tc.input != nil
}

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Next reads the next non-blank line from the input.
func (tc *Tape) Next() (value string, err error) {
	if tc.input == nil {
		err = io.EOF
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.input)
	}

	for tc.scanner.Scan() {
		value = strings.TrimSpace(tc.scanner.Text())
		if len(value) != 0 {
			return
		}
	}

	err = tc.scanner.Err()
	if err == nil {
		err = io.EOF
	}

	return
}
