package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"

	"github.com/ezrec/chip8/memory"
)

const (
	SCREEN_WIDTH  = 64 // Display width in pixels.
	SCREEN_HEIGHT = 32 // Display height in pixels.
	SPRITE_WIDTH  = 8  // Pixels per sprite row.
	KEY_COUNT     = 16 // Keys on the hexadecimal keypad.
)

var _cpu_defines = map[string]string{
	"SCREEN_WIDTH":  fmt.Sprintf("%d", SCREEN_WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%d", SCREEN_HEIGHT),
	"STACK_LIMIT":   fmt.Sprintf("%d", STACK_LIMIT),
}

// Bus is the memory the CPU fetches from and stores to.
type Bus interface {
	Read(address uint16) (value uint8, err error)
	Write(address uint16, value uint8) (err error)
}

// Screen is read access to the pixels currently displayed, used for
// sprite collision detection.
type Screen interface {
	Pixel(x, y int) bool
}

// Keys is read access to the keypad state.
type Keys interface {
	IsKeyDown(key uint8) bool
}

// Cpu is the simulation context for the CHIP-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers *Registers // Register file.
	Bus       Bus        // Memory.
	Screen    Screen     // Display snapshot for collisions. nil is a blank screen.
	Keys      Keys       // Keypad state. nil has no keys down.

	Random func() uint8 // Source for RND. Defaults to math/rand.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a CPU operating on the given register file and memory.
func NewCpu(regs *Registers, bus Bus) (cpu *Cpu) {
	cpu = &Cpu{
		Registers: regs,
		Bus:       bus,
		Random:    func() uint8 { return uint8(rand.Intn(256)) },
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Registers.String()
}

// Reset the CPU state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Ticks = 0
}

// Fetch reads and decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	pc := cpu.Registers.Pc
	if pc%INSTRUCTION_SIZE != 0 {
		err = ErrPcMisaligned
		return
	}

	hi, err := cpu.Bus.Read(pc)
	if err != nil {
		return
	}
	lo, err := cpu.Bus.Read(pc + 1)
	if err != nil {
		return
	}

	ins = Decode(uint16(hi)<<8 | uint16(lo))
	return
}

// Tick executes a single fetch, advance, decode and execute cycle.
func (cpu *Cpu) Tick() (events []Event, err error) {
	ins, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Registers.AdvancePc()
	if err != nil {
		return
	}

	return cpu.Execute(ins)
}

// jump moves the program counter to target, which must be a valid
// instruction address.
func (cpu *Cpu) jump(target uint32) (err error) {
	switch {
	case target >= memory.MEMORY_SIZE:
		err = memory.ErrOutOfBounds(target)
	case target%INSTRUCTION_SIZE != 0:
		err = ErrPcMisaligned
	default:
		cpu.Registers.Pc = uint16(target)
	}

	return
}

// skipIf skips the next instruction if cond holds.
func (cpu *Cpu) skipIf(cond bool) (err error) {
	if cond {
		err = cpu.Registers.AdvancePc()
	}
	return
}

// Execute executes a single decoded instruction. The program counter is
// expected to already point past the instruction.
//
// Memory and stack faults are returned joined with ErrOpcode. Unknown
// instructions are not faults: they change nothing and are reported as
// a Diagnostic event.
func (cpu *Cpu) Execute(ins Instruction) (events []Event, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()

	regs := cpu.Registers
	v := &regs.V
	here := regs.Pc - INSTRUCTION_SIZE

	if cpu.Verbose {
		log.Printf("%03x: %v", here, ins)
	}

	cpu.Ticks++

	switch ins.Kind {
	case OP_UNKNOWN:
		if cpu.Verbose {
			log.Printf("%03x: unknown opcode 0x%04x", here, ins.Word)
		}
		events = append(events, Diagnostic{Pc: here, Word: ins.Word})
	case OP_SYS:
		// COSMAC VIP machine code routines are ignored.
	case OP_CLS:
		events = append(events, Clear{})
	case OP_RET:
		var addr uint16
		addr, err = regs.PopReturn()
		if err != nil {
			return
		}
		err = cpu.jump(uint32(addr))
	case OP_JP:
		err = cpu.jump(uint32(ins.Addr))
	case OP_CALL:
		err = regs.PushReturn(regs.Pc)
		if err != nil {
			return
		}
		err = cpu.jump(uint32(ins.Addr))
	case OP_JP_V0:
		err = cpu.jump(uint32(ins.Addr) + uint32(v[0]))
	case OP_SE_BYTE:
		err = cpu.skipIf(v[ins.X] == ins.Byte)
	case OP_SNE_BYTE:
		err = cpu.skipIf(v[ins.X] != ins.Byte)
	case OP_SE_REG:
		err = cpu.skipIf(v[ins.X] == v[ins.Y])
	case OP_SNE_REG:
		err = cpu.skipIf(v[ins.X] != v[ins.Y])
	case OP_SKP:
		err = cpu.skipIf(cpu.keyDown(v[ins.X]))
	case OP_SKNP:
		err = cpu.skipIf(!cpu.keyDown(v[ins.X]))
	case OP_LD_BYTE:
		v[ins.X] = ins.Byte
	case OP_ADD_BYTE:
		v[ins.X] += ins.Byte
	case OP_LD_REG, OP_OR, OP_AND, OP_XOR, OP_ADD_REG, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		cpu.doAlu(ins.Kind, ins.X, ins.Y)
	case OP_LD_I:
		regs.I = ins.Addr
	case OP_ADD_I:
		regs.I += uint16(v[ins.X])
	case OP_LD_F:
		regs.I = memory.Glyph(v[ins.X])
	case OP_RND:
		v[ins.X] = cpu.Random() & ins.Byte
	case OP_DRW:
		var draw Draw
		draw, err = cpu.doDraw(ins)
		if err != nil {
			return
		}
		events = append(events, draw)
	case OP_LD_VX_DT:
		v[ins.X] = regs.Delay
	case OP_LD_DT_VX:
		regs.Delay = v[ins.X]
	case OP_LD_ST_VX:
		regs.Sound = v[ins.X]
		events = append(events, Tone{On: regs.Sound > 0})
	case OP_LD_VX_K:
		key, ok := cpu.firstKeyDown()
		if ok {
			v[ins.X] = key
		} else {
			// Don't advance to next instruction.
			regs.Pc = here
			events = append(events, KeyWait{Register: ins.X})
		}
	case OP_LD_B:
		value := v[ins.X]
		digits := [3]uint8{value / 100, (value / 10) % 10, value % 10}
		for n, digit := range digits {
			err = cpu.Bus.Write(regs.I+uint16(n), digit)
			if err != nil {
				return
			}
		}
	case OP_LD_MEM:
		for n := range int(ins.X) + 1 {
			err = cpu.Bus.Write(regs.I+uint16(n), v[n])
			if err != nil {
				return
			}
		}
	case OP_LD_REGS:
		for n := range int(ins.X) + 1 {
			v[n], err = cpu.Bus.Read(regs.I + uint16(n))
			if err != nil {
				return
			}
		}
	default:
		panic(fmt.Sprintf("unhandled kind %v", ins.Kind))
	}

	return
}

// doAlu performs the 8xyN register operations. The flag register is
// written after the destination, so VF holds the flag when x is F.
func (cpu *Cpu) doAlu(kind Kind, x, y uint8) {
	v := &cpu.Registers.V
	vx, vy := v[x], v[y]

	var flag uint8
	set_flag := true

	switch kind {
	case OP_LD_REG:
		v[x] = vy
		set_flag = false
	case OP_OR:
		v[x] = vx | vy
		set_flag = false
	case OP_AND:
		v[x] = vx & vy
		set_flag = false
	case OP_XOR:
		v[x] = vx ^ vy
		set_flag = false
	case OP_ADD_REG:
		if uint16(vx)+uint16(vy) > 0xff {
			flag = 1
		}
		v[x] = vx + vy
	case OP_SUB:
		if vy <= vx {
			flag = 1
		}
		v[x] = vx - vy
	case OP_SUBN:
		if vx <= vy {
			flag = 1
		}
		v[x] = vy - vx
	case OP_SHR:
		flag = vx & 0x1
		v[x] = vx >> 1
	case OP_SHL:
		flag = vx >> 7
		v[x] = vx << 1
	}

	if set_flag {
		v[REG_FLAG] = flag
	}
}

// doDraw reads the sprite rows at I and computes the collision flag
// against the current screen. The screen itself is not modified.
func (cpu *Cpu) doDraw(ins Instruction) (draw Draw, err error) {
	regs := cpu.Registers

	draw.X = regs.V[ins.X] % SCREEN_WIDTH
	draw.Y = regs.V[ins.Y] % SCREEN_HEIGHT
	draw.Rows = make([]uint8, ins.N)

	collision := false
	for row := range draw.Rows {
		var bits uint8
		bits, err = cpu.Bus.Read(regs.I + uint16(row))
		if err != nil {
			return
		}
		draw.Rows[row] = bits

		if cpu.Screen == nil {
			continue
		}
		py := (int(draw.Y) + row) % SCREEN_HEIGHT
		for col := range SPRITE_WIDTH {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(draw.X) + col) % SCREEN_WIDTH
			if cpu.Screen.Pixel(px, py) {
				collision = true
			}
		}
	}

	regs.V[REG_FLAG] = 0
	if collision {
		regs.V[REG_FLAG] = 1
	}

	return
}

// keyDown returns true if the key, taken modulo KEY_COUNT, is pressed.
func (cpu *Cpu) keyDown(key uint8) bool {
	if cpu.Keys == nil {
		return false
	}
	return cpu.Keys.IsKeyDown(key % KEY_COUNT)
}

// firstKeyDown returns the lowest numbered pressed key.
func (cpu *Cpu) firstKeyDown() (key uint8, ok bool) {
	for k := range uint8(KEY_COUNT) {
		if cpu.keyDown(k) {
			key, ok = k, true
			return
		}
	}

	return
}
