// Package io provides the peripherals that surround the CHIP-8 core.
//
// The core never owns peripheral state. It reads the Display and the
// Keypad through the cpu.Screen and cpu.Keys capabilities, and reports
// side effects as cpu.Event values that the emulator applies here:
// sprites are XOR composited onto the Display, tones switch the Buzzer.
// A Rom holds a raw program image read from a cartridge file.
package io
