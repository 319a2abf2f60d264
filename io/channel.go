// Package io provides the I/O sources and sinks for the SimHymn machine.
// It includes canned input values (Queue), line-oriented input from a
// reader (Tape), and the record of a run's I/O (Transcript).
package io

import (
	"io"
)

// Input defines the interface for the input port's value source.
type Input interface {
	// Rewind resets the input to its initial state, if possible.
	Rewind()
	// Next returns the next input value as text. It returns io.EOF
	// when no further input is available.
	Next() (value string, err error)
}

// EOF is returned by Input.Next when no further input is available.
var EOF = io.EOF
