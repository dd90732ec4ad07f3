// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal/statsview"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/translate"
)

const (
	KEY_HOLD_FRAMES = 6 // Frames a keystroke holds its key down.
	KEY_CTRL_C      = 0x03
	KEY_ESCAPE      = 0x1b
)

func main() {
	var compile string
	var rom string
	var steps int
	var ipf int
	var terminal bool
	var disassemble bool
	var lang string
	var graph string
	var stats string
	var verbose bool

	flag.StringVar(&compile, "c", "", "assembly source file to compile")
	flag.StringVar(&rom, "r", "", "raw ROM image to load")
	flag.IntVar(&steps, "n", 1000, "instructions to run headless")
	flag.IntVar(&ipf, "ipf", emulator.INSTRUCTIONS_RATE, "instructions per 60Hz frame")
	flag.BoolVar(&terminal, "t", false, "run interactively on the terminal")
	flag.BoolVar(&disassemble, "d", false, "disassemble the program, do not execute")
	flag.StringVar(&lang, "lang", "", "message language, such as de-CH")
	flag.StringVar(&graph, "memviz", "", "write the final register state as a graphviz file")
	flag.StringVar(&stats, "stats", "", "serve runtime statistics on this address, if built with statsview")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if ipf < 1 {
		log.Fatalf("%v: -ipf must be at least 1", os.Args[0])
	}

	emu := emulator.NewEmulator(nil, nil, nil, nil, nil)
	emu.Verbose = verbose

	var image []byte

	switch {
	case len(compile) != 0 && len(rom) != 0:
		log.Fatalf("%v: -c and -r are exclusive", os.Args[0])
	case len(compile) != 0:
		// Compile a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = emu.Program.Binary()
	case len(rom) != 0:
		inf, err := os.Open(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		defer inf.Close()

		cart := &io.Rom{}
		_, err = cart.ReadFrom(inf)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		image = cart.Data
	default:
		log.Fatalf("%v: one of -c or -r is required", os.Args[0])
	}

	if disassemble {
		cart := &io.Rom{Data: image}
		for addr, word := range cart.Words() {
			fmt.Printf("%03X: %04X  %v\n", addr, word, cpu.Decode(word))
		}
		return
	}

	if len(stats) != 0 {
		link, err := statsview.Launch(stats)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		log.Printf("statistics at %v", link)
	}

	err := emu.PowerOn(image)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if terminal {
		err = runTerminal(emu, ipf)
	} else {
		err = runHeadless(emu, ipf, steps)
	}

	if len(graph) != 0 {
		ouf, gerr := os.Create(graph)
		if gerr != nil {
			log.Fatalf("%v: %v", graph, gerr)
		}
		memviz.Map(ouf, emu.Registers)
		gerr = ouf.Close()
		if gerr != nil {
			log.Fatalf("%v: %v", graph, gerr)
		}
	}

	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}

// runHeadless runs a fixed number of instructions, then prints the
// display and the registers.
func runHeadless(emu *emulator.Emulator, ipf int, steps int) (err error) {
	for steps > 0 {
		var count int
		count, err = emu.Frame(min(ipf, steps))
		if err != nil {
			break
		}
		steps -= count
	}

	fmt.Print(emu.Display.String())
	fmt.Print(emu.Cpu.String())
	fmt.Printf("state: %v\n", emu.State)
	for _, diag := range emu.Diagnostics {
		fmt.Printf("warning: line %d: %v\n", emu.LineNo(diag.Pc), diag)
	}

	return
}

// runTerminal runs in real time on the terminal until escape is pressed.
func runTerminal(emu *emulator.Emulator, ipf int) (err error) {
	host := NewTerminal()

	width, height, err := host.Size()
	if err == nil && (width < io.DISPLAY_WIDTH || height < io.DISPLAY_HEIGHT/2) {
		log.Printf("terminal is %dx%d, %dx%d is needed", width, height, io.DISPLAY_WIDTH, io.DISPLAY_HEIGHT/2)
	}

	err = host.Start()
	if err != nil {
		return
	}
	defer host.Stop()

	// Clear the screen and hide the cursor.
	fmt.Print("\x1b[2J\x1b[?25l")
	defer fmt.Print("\x1b[?25h\r\n")

	ticker := time.NewTicker(time.Second / emulator.TIMER_HZ)
	defer ticker.Stop()

	held := map[uint8]int{}
	tones := emu.Buzzer.Changes

	for range ticker.C {
		for drained := false; !drained; {
			select {
			case b, ok := <-host.Keys:
				if !ok || b == KEY_ESCAPE || b == KEY_CTRL_C {
					return
				}
				key, ok := io.KeyOf(rune(b))
				if ok {
					_ = emu.Keypad.Press(key)
					held[key] = KEY_HOLD_FRAMES
				}
			default:
				drained = true
			}
		}

		_, err = emu.Frame(ipf)
		if err != nil {
			return
		}

		// Terminals do not report key releases.
		for key, frames := range held {
			if frames <= 1 {
				_ = emu.Keypad.Release(key)
				delete(held, key)
			} else {
				held[key] = frames - 1
			}
		}

		if emu.Buzzer.Changes != tones {
			tones = emu.Buzzer.Changes
			if emu.Buzzer.On() {
				fmt.Print("\a")
			}
		}

		if emu.Display.Dirty {
			emu.Display.Dirty = false
			fmt.Print("\x1b[H" + strings.ReplaceAll(emu.Display.String(), "\n", "\r\n"))
		}
	}

	return
}
