package io

import (
	"io"
	"strings"
)

// FragmentKind is the source of a transcript fragment.
type FragmentKind int

//go:generate go tool stringer -linecomment -type=FragmentKind
const (
	FRAGMENT_PROMPT = FragmentKind(0) // prompt
	FRAGMENT_ECHO   = FragmentKind(1) // echo
	FRAGMENT_OUTPUT = FragmentKind(2) // output
)

// PROMPT is the marker written before each input value.
const PROMPT = "? "

// Fragment is a single piece of text appended during a run.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// Transcript is the ordered record of a machine's I/O.
type Transcript struct {
	Fragments []Fragment

	// Mirror, if set, receives each fragment as it is appended.
	Mirror io.Writer
	// SkipEcho suppresses mirroring of echo fragments, for when the
	// terminal has already echoed the input.
	SkipEcho bool
}

// Reset empties the transcript.
func (tr *Transcript) Reset() {
	tr.Fragments = tr.Fragments[:0]
}

// Append adds a fragment to the transcript.
func (tr *Transcript) Append(kind FragmentKind, text string) (err error) {
	tr.Fragments = append(tr.Fragments, Fragment{Kind: kind, Text: text})

	if tr.Mirror == nil || (tr.SkipEcho && kind == FRAGMENT_ECHO) {
		return
	}

	_, err = io.WriteString(tr.Mirror, text)
	return
}

// Texts returns the text of each fragment, in order.
func (tr *Transcript) Texts() (texts []string) {
	texts = make([]string, len(tr.Fragments))
	for n, frag := range tr.Fragments {
		texts[n] = frag.Text
	}

	return
}

// Outputs returns the text of the output fragments, without line terminators.
func (tr *Transcript) Outputs() (outputs []string) {
	for _, frag := range tr.Fragments {
		if frag.Kind == FRAGMENT_OUTPUT {
			outputs = append(outputs, strings.TrimSuffix(frag.Text, "\n"))
		}
	}

	return
}

// String returns the concatenated transcript.
func (tr *Transcript) String() string {
	var sb strings.Builder
	for _, frag := range tr.Fragments {
		sb.WriteString(frag.Text)
	}
	return sb.String()
}
