package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doAssemble(program []string) (asm *Assembler, prog *Program, err error) {
	asm = &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	return
}

// diagnostics returns the diagnostics from a failed assembly.
func diagnostics(t *testing.T, err error) (diags ErrAssembly) {
	t.Helper()

	if !errors.As(err, &diags) {
		t.Fatalf("expected ErrAssembly, got %v", err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(Memory{}, prog.Memory)
	assert.Equal(0, len(prog.Lines))
	assert.Equal(0, len(prog.Label))
	assert.Equal("", asm.Report())
}

func TestAssemblerOriginal(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"# Subtract a value from itself",
		"   load x     # -124",
		"   sub x      # -28",
		"",
		"   write      # -65",
		"   halt",
		"x: 5",
		"   5",
		"   read       # -98",
	}

	asm, prog, err := doAssemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := MemoryOf(-124, -28, -65, 0, 5, 5, -98)
	assert.Equal(expected, prog.Memory)
	assert.Equal(map[string]int{"x": 4}, asm.Label)
	assert.Equal(map[string]int{"x": 4}, prog.Label)

	lines := []Line{
		{2, 0, program[1], "load x", -124},
		{3, 1, program[2], "sub x", -28},
		{5, 2, program[4], "write", -65},
		{6, 3, program[5], "halt", 0},
		{7, 4, program[6], "5", 5},
		{8, 5, program[7], "5", 5},
		{9, 6, program[8], "read", -98},
	}
	assert.Equal(lines, prog.Lines)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"# leading comment",
		"start:",
		"again:",
		"",
		"      load 30",
		"loop: add one    # forward reference",
		"      jump loop",
		"",
		"first: second:",
		"one: 1",
		"a: b:c: halt",
	}

	asm, prog, err := doAssemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]int{
		"start":  0,
		"again":  0,
		"loop":   1,
		"first":  3,
		"second": 3,
		"one":    3,
		"a":      4,
		"b":      4,
		"c":      4,
	}
	assert.Equal(expected, asm.Label)

	assert.Equal(MemoryOf(
		WORD_READ,
		MakeWord(OP_ADD, 3),
		MakeWord(OP_JUMP, 1),
		1,
		WORD_HALT,
	), prog.Memory)
}

func TestAssemblerBackToBackLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"halt",
		"here:",
		"there:",
		"add 0",
	}

	asm, _, err := doAssemble(program)
	assert.NoError(err)
	assert.Equal(1, asm.Label["here"])
	assert.Equal(1, asm.Label["there"])
}

func TestAssemblerLiterals(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code     string
		expected Word
	}){
		{"00000101", 5},
		{"10000000", -128},
		{"11111111", -1},
		{"0101", 101},
		{"5", 5},
		{"127", 127},
		{"200", -56},
		{"-5", -5},
		{"-128", -128},
		{"halt", WORD_HALT},
		{"HALT", WORD_HALT},
		{"read", WORD_READ},
		{"Write", WORD_WRITE},
		{"load 30", WORD_READ},
		{"STORE 31", WORD_WRITE},
		{"stor 31", WORD_WRITE},
		{"add 5", -59},
		{"sub 00000100", MakeWord(OP_SUB, 4)},
		{"jump $(PORT_OUT-1)", MakeWord(OP_JUMP, 30)},
		{"load $(PORT_IN)", WORD_READ},
		{"$(MEMORY_SIZE*2+1)", 65},
	}

	for _, entry := range table {
		_, prog, err := doAssemble([]string{entry.code})
		assert.NoError(err, entry.code)
		if err != nil {
			continue
		}
		assert.Equal(entry.expected, prog.Memory[0], entry.code)
	}
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("ANSWER", 4)

	program := []string{
		"      jump $(done-1)",
		"      halt",
		"      halt",
		"done: add $(ANSWER+1)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(MakeWord(OP_JUMP, 2), prog.Memory[0])
	assert.Equal(MakeWord(OP_ADD, 5), prog.Memory[3])
}

func TestAssemblerExpressionSpaces(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("ANSWER", 4)

	program := []string{
		"      jump $(done - 1)",
		"      halt",
		"      halt",
		"done: add $( ANSWER + 1 )",
		"      $(PORT_OUT - 1)",
		"      load $(nope + 1)",
	}

	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	diags := diagnostics(t, err)
	assert.Equal(1, len(diags))
	assert.Equal(6, diags[0].LineNo)
	assert.ErrorIs(diags[0], ErrOperandUnresolved)
	assert.Contains(diags[0].Error(), "$(nope + 1)")

	program = program[:len(program)-1]
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(MakeWord(OP_JUMP, 2), prog.Memory[0])
	assert.Equal(MakeWord(OP_ADD, 5), prog.Memory[3])
	assert.Equal(Word(30), prog.Memory[4])
}

func TestAssemblerDangling(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"load 30",
		"end:",
		"other: again:",
	}

	asm, prog, err := doAssemble(program)
	assert.Nil(prog)
	assert.ErrorIs(err, ErrLabelDangling)

	diags := diagnostics(t, err)
	assert.Equal(3, len(diags))
	for _, diag := range diags {
		assert.ErrorIs(diag, ErrLabelDangling)
	}
	assert.Equal(2, diags[0].LineNo)
	assert.Equal(3, diags[1].LineNo)
	assert.Equal(3, diags[2].LineNo)

	assert.Equal("Line 2: 'end' label precedes end of file", diags[0].Error())
	assert.Equal(err.Error(), asm.Report())
	assert.Equal(3, len(strings.Split(asm.Report(), "\n")))
}

func TestAssemblerUndefinedLabel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"load 30",
		"add nowhere",
		"halt",
	}

	_, prog, err := doAssemble(program)
	assert.Nil(prog)

	diags := diagnostics(t, err)
	assert.Equal(1, len(diags))
	assert.Equal(2, diags[0].LineNo)
	assert.ErrorIs(diags[0], ErrTokenUnrecognized)
	assert.ErrorIs(diags[0], ErrOperandUnresolved)
	assert.True(strings.HasPrefix(diags[0].Error(), "Line 2: "))
	assert.Contains(diags[0].Error(), "nowhere")
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"unrecognized", []string{"halt", "bogus"}, 2, ErrTokenUnrecognized},
		{"binary-short", []string{"0101010"}, 1, nil},
		{"binary-bad", []string{"0101010x"}, 1, ErrTokenUnrecognized},
		{"mnemonic", []string{"mul 3"}, 1, ErrMnemonicUnknown},
		{"sentinel-operand", []string{"halt 3"}, 1, ErrMnemonicUnknown},
		{"operand", []string{"load read"}, 1, ErrOperandUnresolved},
		{"count", []string{"add 1 2"}, 1, ErrTokenCount},
		{"label-space", []string{"my label: halt"}, 1, ErrLabelSpace},
		{"label-empty", []string{":halt"}, 1, ErrLabelEmpty},
		{"label-duplicate", []string{"x: halt", "x: halt"}, 2, ErrLabelDuplicate},
		{"dangling", []string{"", "x:"}, 2, ErrLabelDangling},
		{"expression", []string{"load $(nope)"}, 1, ErrOperandUnresolved},
	}

	for _, entry := range table {
		_, prog, err := doAssemble(entry.program)
		if entry.err == nil {
			assert.NoError(err, entry.name)
			continue
		}
		assert.Nil(prog, entry.name)
		diags := diagnostics(t, err)
		assert.Equal(1, len(diags), entry.name)
		if len(diags) == 0 {
			continue
		}
		assert.Equal(entry.lineno, diags[0].LineNo, entry.name)
		assert.ErrorIs(diags[0], entry.err, entry.name)
	}
}

func TestAssemblerAccumulates(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"bad label: load 30", // 1: label error, still encoded
		"mul 3",              // 2: unknown mnemonic
		"add",                // 3: unrecognized token
		"add 1 2 3",          // 4: token count
		"ok: halt",
		"ok: 5", // 6: duplicate
		"tail:", // 7: dangling
	}

	asm, prog, err := doAssemble(program)
	assert.Nil(prog)

	diags := diagnostics(t, err)
	assert.Equal(6, len(diags))

	lines := make([]int, len(diags))
	for n, diag := range diags {
		lines[n] = diag.LineNo
	}
	// Pass 1 diagnostics, then dangling labels, then encoding diagnostics.
	assert.Equal([]int{1, 6, 7, 2, 3, 4}, lines)

	assert.ErrorIs(err, ErrLabelSpace)
	assert.ErrorIs(err, ErrLabelDuplicate)
	assert.ErrorIs(err, ErrLabelDangling)
	assert.ErrorIs(err, ErrMnemonicUnknown)
	assert.ErrorIs(err, ErrTokenUnrecognized)
	assert.ErrorIs(err, ErrTokenCount)

	for n, text := range strings.Split(asm.Report(), "\n") {
		assert.True(strings.HasPrefix(text, "Line "), "%d: %v", n, text)
	}

	// The first binding of a duplicate label wins.
	assert.Equal(4, asm.Label["ok"])
}

func TestAssemblerMemoryFull(t *testing.T) {
	assert := assert.New(t)

	var program []string
	for range MEMORY_SIZE {
		program = append(program, "halt")
	}

	_, prog, err := doAssemble(program)
	assert.NoError(err)
	assert.NotNil(prog)

	program = append(program, "last: halt")
	_, prog, err = doAssemble(program)
	assert.Nil(prog)
	diags := diagnostics(t, err)
	assert.Equal(1, len(diags))
	assert.Equal(MEMORY_SIZE+1, diags[0].LineNo)
	assert.ErrorIs(diags[0], ErrMemoryFull)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("x: bogus"))
	assert.Error(err)
	assert.NotEqual("", asm.Report())

	prog, err := asm.Parse(strings.NewReader("y: 7"))
	assert.NoError(err)
	assert.Equal("", asm.Report())
	assert.Equal(map[string]int{"y": 0}, asm.Label)
	assert.Equal(MemoryOf(7), prog.Memory)
}

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("read\nadd 30\nwrite\nhalt\n")
	assert.NoError(err)
	assert.Equal(MemoryOf(WORD_READ, MakeWord(OP_ADD, 30), WORD_WRITE), prog.Memory)
}
