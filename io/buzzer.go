package io

import (
	"log"
)

// Buzzer is the single tone sound output.
type Buzzer struct {
	Verbose bool // Set to log tone changes.
	Changes int  // Number of on/off transitions.

	on bool
}

// Set turns the tone on or off.
func (bz *Buzzer) Set(on bool) {
	if on == bz.on {
		return
	}

	if bz.Verbose {
		log.Printf("buzzer: on=%v", on)
	}

	bz.on = on
	bz.Changes++
}

// On returns true while the tone sounds.
func (bz *Buzzer) On() bool {
	return bz.on
}
