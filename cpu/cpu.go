package cpu

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/simhymn/io"
)

// Input is the input port's value source.
type Input io.Input

const (
	CHAIN_LIMIT = MEMORY_SIZE // Default limit of chained jumps in a single tick.
)

// control is the outcome of executing a single instruction.
type control int

const (
	ctlAdvance = control(0) // Continue at the next pc.
	ctlJump    = control(1) // Continue at the new pc, within the same tick.
	ctlHalt    = control(2) // Stop the machine.
)

// Cpu is the simulation context for the SimHymn accumulator machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory // Memory image, including the I/O ports.
	Pc       int    // Program counter.
	Acc      int8   // Accumulator.
	Zero     bool   // Zero flag.
	Positive bool   // Positive flag.
	Halted   bool   // Set once the machine has stopped.

	Input      Input         // Source of input port values.
	Transcript io.Transcript // Record of the run's I/O.

	ChainLimit int // Maximum chained jumps in a single tick.
	Ticks      int // Instructions executed, including chained jumps.
}

// NewCpu creates a new CPU with the given memory image.
func NewCpu(mem Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:     mem,
		ChainLimit: CHAIN_LIMIT,
	}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Sets the pc and accumulator to 0.
// - Sets the zero flag, and clears the positive flag.
// - Empties the transcript.
// - Rewinds the input.
//
// Memory is left as-is.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Acc = 0
	cpu.Zero = true
	cpu.Positive = false
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Transcript.Reset()

	if cpu.Input != nil {
		cpu.Input.Rewind()
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "ir", "ac", "zero", "pos"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02d", cpu.Pc)
		case "ir":
			word, err := cpu.Fetch()
			if err != nil {
				strval = "--"
			} else {
				strval = fmt.Sprintf("%02X %v", uint8(word), word)
			}
		case "ac":
			strval = fmt.Sprintf("%02X %d", uint8(cpu.Acc), cpu.Acc)
		case "zero":
			strval = strconv.FormatBool(cpu.Zero)
		case "pos":
			strval = strconv.FormatBool(cpu.Positive)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Fetch fetches the word at the program counter.
func (cpu *Cpu) Fetch() (word Word, err error) {
	if cpu.Pc < 0 || cpu.Pc >= len(cpu.Memory) {
		err = ErrPcRange
		return
	}

	word = cpu.Memory[cpu.Pc]
	return
}

// Tick executes a single instruction. Taken jumps do not end the tick;
// their targets are executed within it, up to ChainLimit jumps.
//
// Once done is set, the machine has halted. Any error also halts the machine.
func (cpu *Cpu) Tick() (done bool, err error) {
	if cpu.Halted {
		done = true
		return
	}

	var word Word
	pc := cpu.Pc

	defer func() {
		if err != nil {
			err = &ErrExecution{Pc: pc, Word: word, Err: err}
			cpu.Halted = true
			done = true
		}
	}()

	for chain := 0; ; chain++ {
		if chain > cpu.ChainLimit {
			err = ErrJumpChain
			return
		}

		// The I/O ports are never fetched as code.
		if cpu.Pc >= CODE_LIMIT {
			cpu.halt()
			done = true
			return
		}

		pc = cpu.Pc
		word, err = cpu.Fetch()
		if err != nil {
			return
		}

		if cpu.Verbose {
			log.Printf("%02d: %v", pc, word)
		}

		op, operand := word.Decode()

		var ctl control
		ctl, err = cpu.execute(op, operand)
		if err != nil {
			return
		}

		if cpu.Verbose && op.IsJump() && ctl == ctlJump {
			log.Printf("%02d: chain %d to %02d", pc, chain+1, cpu.Pc)
		}

		switch ctl {
		case ctlHalt:
			cpu.halt()
			done = true
			return
		case ctlJump:
			cpu.Ticks++
			continue
		case ctlAdvance:
			cpu.Ticks++
			cpu.Pc++
			return
		}
	}
}

// Run ticks the machine until it halts, returning the transcript.
// On an execution error the transcript so far is still returned.
func (cpu *Cpu) Run() (transcript string, err error) {
	for done := false; !done; {
		done, err = cpu.Tick()
		if err != nil {
			break
		}
	}

	transcript = cpu.Transcript.String()
	return
}

// halt stops the machine.
func (cpu *Cpu) halt() {
	if cpu.Verbose {
		log.Printf("%02d: halted", cpu.Pc)
	}
	cpu.Halted = true
}

// execute executes a single decoded instruction.
func (cpu *Cpu) execute(op Opcode, operand int) (ctl control, err error) {
	var value Word

	switch op {
	case OP_HALT:
		ctl = ctlHalt
	case OP_JUMP:
		cpu.Pc = operand
		ctl = ctlJump
	case OP_JZER:
		if cpu.Zero {
			cpu.Pc = operand
			ctl = ctlJump
		}
	case OP_JPOS:
		if cpu.Positive {
			cpu.Pc = operand
			ctl = ctlJump
		}
	case OP_LOAD:
		if operand == PORT_INPUT {
			err = cpu.readInput()
			if err != nil {
				return
			}
		}
		value, err = cpu.Memory.Load(operand)
		if err != nil {
			return
		}
		cpu.setAcc(int(value))
	case OP_STOR:
		if operand == PORT_OUTPUT {
			err = cpu.Transcript.Append(io.FRAGMENT_OUTPUT, strconv.Itoa(int(cpu.Acc))+"\n")
			if err != nil {
				return
			}
		}
		err = cpu.Memory.Store(operand, Word(cpu.Acc))
	case OP_ADD:
		value, err = cpu.Memory.Load(operand)
		if err != nil {
			return
		}
		cpu.setAcc(int(cpu.Acc) + int(value))
	case OP_SUB:
		value, err = cpu.Memory.Load(operand)
		if err != nil {
			return
		}
		cpu.setAcc(int(cpu.Acc) - int(value))
	default:
		panic("unknown opcode")
	}

	return
}

// readInput prompts for, and stores, the next input port value.
func (cpu *Cpu) readInput() (err error) {
	if cpu.Input == nil {
		err = ErrInputMissing
		return
	}

	err = cpu.Transcript.Append(io.FRAGMENT_PROMPT, io.PROMPT)
	if err != nil {
		return
	}

	text, err := cpu.Input.Next()
	if errors.Is(err, io.EOF) {
		err = ErrInputExhausted
		return
	}
	if err != nil {
		err = errors.Join(ErrInputExhausted, err)
		return
	}

	text = strings.TrimSpace(text)
	err = cpu.Transcript.Append(io.FRAGMENT_ECHO, text+"\n")
	if err != nil {
		return
	}

	v64, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		err = fmt.Errorf("%w '%v'", ErrInputInvalid, text)
		return
	}

	cpu.Memory[PORT_INPUT] = Word(Truncate(int(v64)))
	return
}

// setAcc sets the accumulator, and updates the flags from it.
func (cpu *Cpu) setAcc(value int) {
	cpu.Acc = Truncate(value)
	cpu.Zero = cpu.Acc == 0
	cpu.Positive = cpu.Acc > 0
}
