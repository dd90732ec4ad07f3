package io

import (
	"iter"
	"strings"

	"github.com/ezrec/chip8/cpu"
)

const (
	DISPLAY_WIDTH  = cpu.SCREEN_WIDTH
	DISPLAY_HEIGHT = cpu.SCREEN_HEIGHT
)

// Display is the monochrome 64x32 framebuffer.
type Display struct {
	Dirty bool // Set when the pixels change, cleared by the presenter.

	pixels [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool
}

var _ cpu.Screen = (*Display)(nil)

func wrap(v, limit int) int {
	v %= limit
	if v < 0 {
		v += limit
	}
	return v
}

// Pixel returns the state of a pixel. Coordinates wrap around the edges.
func (disp *Display) Pixel(x, y int) bool {
	return disp.pixels[wrap(y, DISPLAY_HEIGHT)][wrap(x, DISPLAY_WIDTH)]
}

// Clear turns off all pixels.
func (disp *Display) Clear() {
	disp.pixels = [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool{}
	disp.Dirty = true
}

// Apply XORs a sprite onto the framebuffer, wrapping at the edges.
// Returns true if any lit pixel was turned off.
func (disp *Display) Apply(draw cpu.Draw) (collision bool) {
	for row, bits := range draw.Rows {
		y := wrap(int(draw.Y)+row, DISPLAY_HEIGHT)
		for col := range cpu.SPRITE_WIDTH {
			if bits&(0x80>>col) == 0 {
				continue
			}
			x := wrap(int(draw.X)+col, DISPLAY_WIDTH)
			if disp.pixels[y][x] {
				collision = true
			}
			disp.pixels[y][x] = !disp.pixels[y][x]
		}
	}

	if len(draw.Rows) > 0 {
		disp.Dirty = true
	}

	return
}

// Lit returns the number of pixels turned on.
func (disp *Display) Lit() (count int) {
	for _, line := range disp.Lines() {
		for _, on := range line {
			if on {
				count++
			}
		}
	}
	return
}

// Lines iterates over the rows of pixels, top to bottom.
func (disp *Display) Lines() iter.Seq2[int, []bool] {
	return func(yield func(y int, line []bool) bool) {
		for y := range DISPLAY_HEIGHT {
			if !yield(y, disp.pixels[y][:]) {
				return
			}
		}
	}
}

// The half block glyphs, indexed by top pixel | bottom pixel << 1.
var halfBlock = [4]string{" ", "▀", "▄", "█"}

// String renders the display as text, two pixel rows per text line.
func (disp *Display) String() string {
	var sb strings.Builder

	for y := 0; y < DISPLAY_HEIGHT; y += 2 {
		for x := range DISPLAY_WIDTH {
			index := 0
			if disp.pixels[y][x] {
				index |= 1
			}
			if disp.pixels[y+1][x] {
				index |= 2
			}
			sb.WriteString(halfBlock[index])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
