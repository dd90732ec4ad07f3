package emulator

// State of the interpreter loop.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	POWERED_OFF = State(0) // powered-off
	RUNNING     = State(1) // running
	HALTED      = State(2) // halted
)
