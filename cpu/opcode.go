package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the 3-bit operation selector of an instruction word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HALT = Opcode(0) // halt
	OP_JUMP = Opcode(1) // jump
	OP_JZER = Opcode(2) // jzer
	OP_JPOS = Opcode(3) // jpos
	OP_LOAD = Opcode(4) // load
	OP_STOR = Opcode(5) // stor
	OP_ADD  = Opcode(6) // add
	OP_SUB  = Opcode(7) // sub
)

const (
	OPCODE_SHIFT = 5    // Position of the opcode field.
	OPERAND_MASK = 0x1f // Mask of the operand field.
)

// IsJump returns true for the jump family of opcodes.
func (op Opcode) IsJump() bool {
	return op == OP_JUMP || op == OP_JZER || op == OP_JPOS
}

// mnemonicMap maps the assembler mnemonics to opcodes.
// OP_HALT is never named as a mnemonic.
var mnemonicMap = map[string]Opcode{
	"jump":  OP_JUMP,
	"jzer":  OP_JZER,
	"jpos":  OP_JPOS,
	"load":  OP_LOAD,
	"stor":  OP_STOR,
	"store": OP_STOR,
	"add":   OP_ADD,
	"sub":   OP_SUB,
}

// LookupMnemonic finds the opcode for a case-insensitive mnemonic.
func LookupMnemonic(name string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToLower(name)]
	return
}

// Word is a single signed 8-bit memory cell.
type Word int8

// Sentinel words.
var (
	WORD_HALT  = Word(0)                        // halt
	WORD_READ  = MakeWord(OP_LOAD, PORT_INPUT)  // load from the input port
	WORD_WRITE = MakeWord(OP_STOR, PORT_OUTPUT) // store to the output port
)

// Truncate reduces a value to 8-bit two's complement.
func Truncate(value int) int8 {
	return int8(uint8(value & 0xff))
}

// MakeWord packs an opcode and operand as (op << 5) + operand, truncated to
// 8 bits. Operands outside of 0..31 spill into the opcode field.
func MakeWord(op Opcode, operand int) Word {
	return Word(Truncate((int(op) << OPCODE_SHIFT) + operand))
}

// Decode splits the word into its opcode and operand.
func (word Word) Decode() (op Opcode, operand int) {
	bits := uint8(word)
	op = Opcode(bits >> OPCODE_SHIFT)
	operand = int(bits & OPERAND_MASK)
	return
}

// Opcode returns the opcode field of the word.
func (word Word) Opcode() Opcode {
	op, _ := word.Decode()
	return op
}

// Operand returns the operand field of the word.
func (word Word) Operand() int {
	_, operand := word.Decode()
	return operand
}

// String returns the disassembly of the word.
func (word Word) String() string {
	switch word {
	case WORD_HALT:
		return "halt"
	case WORD_READ:
		return "read"
	case WORD_WRITE:
		return "write"
	}

	op, operand := word.Decode()
	if op == OP_HALT {
		// Opcode zero with a non-zero operand is data.
		return fmt.Sprintf("%d", int8(word))
	}

	return fmt.Sprintf("%v %d", op, operand)
}

// Binary returns the word as an 8 character binary literal.
func (word Word) Binary() string {
	return fmt.Sprintf("%08b", uint8(word))
}
