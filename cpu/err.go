package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/simhymn/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange        = errors.New(f("pc out of range"))
	ErrAddress        = errors.New(f("address out of range"))
	ErrJumpChain      = errors.New(f("jump chain limit exceeded"))
	ErrInputMissing   = errors.New(f("no input source"))
	ErrInputExhausted = errors.New(f("input exhausted"))
	ErrInputInvalid   = errors.New(f("input invalid"))

	// Label errors
	ErrLabelEmpty     = errors.New(f("label empty"))
	ErrLabelSpace     = errors.New(f("label contains whitespace"))
	ErrLabelDangling  = errors.New(f("label precedes end of file"))
	ErrLabelDuplicate = errors.New(f("label duplicated"))

	// Encoding errors
	ErrTokenUnrecognized = errors.New(f("unrecognized token"))
	ErrTokenCount        = errors.New(f("wrong token count"))
	ErrMnemonicUnknown   = errors.New(f("unknown mnemonic"))
	ErrMemoryFull        = errors.New(f("program exceeds memory"))

	// Image errors
	ErrImageSyntax = errors.New(f("image syntax"))
	ErrImageSize   = errors.New(f("image size"))
)

// ErrLabel names the label at fault.
type ErrLabel struct {
	Label string
	Err   error
}

func (err ErrLabel) Error() string {
	return f("'%v' %v", err.Label, err.Err)
}

func (err ErrLabel) Unwrap() error {
	return err.Err
}

// ErrToken names the token at fault.
type ErrToken struct {
	Token string
	Err   error
}

func (err ErrToken) Error() string {
	return f("%v '%v'", err.Err, err.Token)
}

func (err ErrToken) Unwrap() error {
	return err.Err
}

// ErrSyntax is a single assembler diagnostic.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("Line %d: %v", err.LineNo, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAssembly is the complete list of diagnostics from an assembly.
type ErrAssembly []ErrSyntax

func (err ErrAssembly) Error() string {
	lines := make([]string, len(err))
	for n, diag := range err {
		lines[n] = diag.Error()
	}
	return strings.Join(lines, "\n")
}

func (err ErrAssembly) Unwrap() []error {
	errs := make([]error, len(err))
	for n, diag := range err {
		errs[n] = diag
	}
	return errs
}

// ErrExecution indicates the machine state at a fatal execution error.
type ErrExecution struct {
	Pc   int
	Word Word
	Err  error
}

func (err *ErrExecution) Error() string {
	return f("pc %d '%v' %v", err.Pc, err.Word, err.Err)
}

func (err *ErrExecution) Unwrap() error {
	return err.Err
}
