// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"log"

	"github.com/ezrec/simhymn/cpu"
	"github.com/ezrec/simhymn/io"
)

// Emulator state. CPU + program listing + input.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Queue io.Queue // Canned input values, used when Tape has no input.
	Tape  io.Tape  // Line-oriented input values.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(cpu.Memory{}),
		Program: &cpu.Program{},
	}

	return
}

// Reset loads the program image into memory, selects the input, and
// resets the CPU state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Tape.HasInput() {
		emu.Cpu.Input = &emu.Tape
	} else {
		emu.Cpu.Input = &emu.Queue
	}

	emu.Cpu.Memory = emu.Program.Memory
	emu.Cpu.Reset()
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Pc
}

// Code returns the current instruction word.
func (emu *Emulator) Code() cpu.Word {
	word, _ := emu.Cpu.Fetch()
	return word
}

// LineNo returns the current line number for the executing word.
func (emu *Emulator) LineNo() int {
	line, ok := emu.Program.Debug(emu.Cpu.Pc)
	if !ok {
		return 0
	}

	return line.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			// A chained jump may have moved the fault away from the
			// starting line.
			var exec_err *cpu.ErrExecution
			if errors.As(err, &exec_err) {
				lineno = 0
				line, ok := emu.Program.Debug(exec_err.Pc)
				if ok {
					lineno = line.LineNo
				}
			}
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator until the program halts, returning the transcript.
//
// The context is checked between ticks. If it is done, the machine state
// is discarded and the context's error returned.
func (emu *Emulator) Run(ctx context.Context) (transcript string, err error) {
	for done := false; !done; {
		err = ctx.Err()
		if err != nil {
			if emu.Verbose {
				log.Printf("emulator: %v at pc %v", err, emu.Cpu.Pc)
			}
			emu.Reset()
			return
		}

		done, err = emu.Tick()
		if err != nil {
			break
		}
	}

	transcript = emu.Cpu.Transcript.String()
	return
}
