// Package cpu implements the microprocessor and assembler for the SimHymn
// system.
//
// The CPU is an 8-bit accumulator machine with a program counter (PC), a
// single signed accumulator (AC), and zero/positive condition flags. It
// addresses a fixed 32 word memory, where the last two words are the
// memory-mapped input and output ports.
//
// Each instruction word packs a 3-bit opcode above a 5-bit operand. Jumps
// chain: a taken jump executes its target within the same step.
//
// The assembler is a two pass assembler supporting labels, binary and
// decimal literals, and compile-time $(...) expression evaluation. It
// collects every diagnostic in a source file instead of stopping at the
// first.
package cpu
