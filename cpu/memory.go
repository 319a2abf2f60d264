package cpu

const (
	MEMORY_SIZE = 32 // Words of memory.
	PORT_INPUT  = 30 // Memory-mapped input port.
	PORT_OUTPUT = 31 // Memory-mapped output port.
	CODE_LIMIT  = PORT_INPUT
)

// Memory is the complete SimHymn address space.
type Memory [MEMORY_SIZE]Word

// Load returns the word at an address.
func (mem *Memory) Load(addr int) (word Word, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress
		return
	}

	word = mem[addr]
	return
}

// Store sets the word at an address.
func (mem *Memory) Store(addr int, word Word) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress
		return
	}

	mem[addr] = word
	return
}

// MemoryOf builds a memory image from leading words; the remainder is zero.
func MemoryOf(words ...Word) (mem Memory) {
	copy(mem[:], words)
	return
}
