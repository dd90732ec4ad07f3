package cpu

// Event is a side effect of one executed instruction, addressed to a
// peripheral. The CPU never drives peripherals itself.
type Event interface {
	event()
}

// Clear requests the display to be blanked.
type Clear struct{}

// Draw requests Rows to be XOR-ed onto the display at (X, Y).
// Each row is 8 pixels wide, most significant bit leftmost.
// Pixels past the right or bottom edge wrap around.
type Draw struct {
	X    uint8
	Y    uint8
	Rows []uint8
}

// KeyWait reports that the CPU is blocked until a key is pressed,
// which will be stored in V[Register].
type KeyWait struct {
	Register uint8
}

// Tone reports the sound timer switching the tone on or off.
type Tone struct {
	On bool
}

// Diagnostic reports an instruction word that was skipped because it
// does not decode.
type Diagnostic struct {
	Pc   uint16
	Word uint16
}

func (Clear) event()      {}
func (Draw) event()       {}
func (KeyWait) event()    {}
func (Tone) event()       {}
func (Diagnostic) event() {}

func (diag Diagnostic) Error() string {
	return f("0x%03x: %v 0x%04x", diag.Pc, ErrOpcodeUnknown, diag.Word)
}

func (diag Diagnostic) Unwrap() error {
	return ErrOpcodeUnknown
}
