// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/ezrec/c93/emulator"
	"github.com/ezrec/c93/internal"
	"github.com/ezrec/c93/translate"
)

// dumpWidth is the bytes per row of a memory dump that fits the terminal.
func dumpWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 16
	}
	cols, _, err := term.GetSize(fd)
	if err != nil {
		return 16
	}
	// "AAAAAA: " + "XX " per byte
	width := (cols - 8) / 3
	width -= width % 8
	return max(width, 8)
}

func dumpMemory(emu *emulator.Emulator, addr, end uint32) {
	width := uint32(dumpWidth())
	for ; addr < end; addr += width {
		size := min(width, end-addr)
		hex := make([]string, size)
		for n, b := range emu.RAM().GetMemoryAt(addr, int(size)) {
			hex[n] = fmt.Sprintf("%02X", b)
		}
		fmt.Printf("%06X: %v\n", addr, strings.Join(hex, " "))
	}
}

func main() {
	var compile string
	var binary string
	var output string
	var run bool
	var verbose bool
	var state bool
	var listing bool
	var forms bool
	var origin int
	var lang string

	config := emulator.DefaultConfig()

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&binary, "b", "", "raw binary to load at the origin")
	flag.StringVar(&output, "o", "", "write the compiled image to a binary file")
	flag.BoolVar(&run, "r", false, "run the program")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&state, "s", false, "dump cpu state and program memory after the run")
	flag.BoolVar(&listing, "l", false, "print the assembly listing")
	flag.BoolVar(&forms, "f", false, "list every instruction operand form")
	flag.IntVar(&origin, "a", -1, "origin override: binary load and run address")
	flag.IntVar(&config.MemorySize, "m", config.MemorySize, "memory size in bytes")
	flag.IntVar(&config.CallDepth, "depth", config.CallDepth, "call stack depth")
	flag.StringVar(&lang, "lang", "", "message language tag, instead of the host locale")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
		translate.SetLanguage(tag)
	}

	config.Verbose = verbose
	emu := emulator.NewEmulatorConfig(config)

	if forms {
		all := internal.IterSeqCollect(emu.Forms())
		for _, form := range all {
			fmt.Printf("%02X %v\n", uint8(form.Def.Opcode), form)
		}
		translate.Fprint(os.Stderr, "%d forms\n", len(all))
	}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		source, err := os.ReadFile(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		err = emu.Build(string(source))
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if listing {
			fmt.Print(emu.Program.String())
		}

		if len(output) != 0 {
			err = os.WriteFile(output, emu.Program.Code(), 0o644)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		}
	}

	if len(binary) != 0 {
		data, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		emu.LoadMemAt(data, uint32(max(origin, 0)))
	}

	if !run {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	if origin >= 0 {
		err = emu.RunAt(ctx, uint32(origin))
	} else {
		err = emu.Run(ctx)
	}

	if state {
		fmt.Print(emu.String())
		translate.Fprint(os.Stdout, "TICKS: %d\n", emu.Ticks)
		if end := emu.Program.End(); end > 0 {
			dumpMemory(emu, emu.Program.Origin(), end)
		}
		for n, sound := range emu.Recorder.Played {
			fmt.Printf("PLAY %d: %v\n", n, sound)
		}
		if emu.Screen.Frames > 0 {
			fmt.Printf("VIDEO: %d frames\n", emu.Screen.Frames)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}
