// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/simhymn/cpu"
	"github.com/ezrec/simhymn/emulator"
)

func main() {
	var compile string
	var image string
	var save bool
	var listing bool
	var input string
	var timeout time.Duration
	var verbose bool

	flag.StringVar(&compile, "c", "", "source file to assemble")
	flag.StringVar(&image, "x", "", "hex memory image to load")
	flag.BoolVar(&save, "s", false, "Save hex memory image to stdout, do not execute")
	flag.BoolVar(&listing, "l", false, "Print a listing, do not execute")
	flag.StringVar(&input, "i", "-", "Input values, one per line")
	flag.DurationVar(&timeout, "t", 0, "Run timeout (0 for none)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(image) == 0) {
		log.Fatalf("%v: exactly one of -c or -x is required", os.Args[0])
	}

	var prog *cpu.Program

	// Assemble a new memory image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v:\n%v", compile, err)
		}
	}

	// Load an existing memory image.
	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		prog, err = cpu.ReadHex(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if listing {
		for _, line := range prog.Listing() {
			fmt.Println(line)
		}
		return
	}

	if save {
		err := prog.WriteHex(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose

	if input == "-" {
		emu.Tape.SetInput(os.Stdin)
		// An interactive terminal has already echoed the input.
		emu.Cpu.Transcript.SkipEcho = term.IsTerminal(int(os.Stdin.Fd()))
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.SetInput(inf)
	}
	emu.Cpu.Transcript.Mirror = os.Stdout

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	emu.Reset()
	_, err := emu.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
}
