package scene

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Braille dots cover a small part of a cell, so stroke alpha is amplified before blending.
const terminalGain = 3.0

// Canvas is a terminal Surface. Each cell holds a 2x4 Braille dot matrix and the
// strongest stroke that touched it.
type Canvas struct {
	Width, Height int // cells
	Grid          [][]rune

	strokes [][]Stroke
	// viewport pixels -> sub-pixels
	sx, sy float64
}

// NewCanvas creates a canvas of w×h terminal cells.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{sx: 1, sy: 1}
	c.Reshape(w, h)
	return c
}

// TerminalViewport maps a w×h cell area to a viewport, assuming 8×16 pixel cells.
func TerminalViewport(w, h int) Viewport {
	return Viewport{Width: w * 8, Height: h * 16, PixelRatio: 1}
}

// Reshape changes the cell dimensions and clears the canvas.
func (c *Canvas) Reshape(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.strokes = make([][]Stroke, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.strokes[i] = make([]Stroke, w)
	}
	c.Clear()
}

// Resize implements Surface. Lines arrive in viewport pixels, which is the backing size
// divided by scale; they are stretched onto the canvas' sub-pixel grid.
func (c *Canvas) Resize(backingWidth, backingHeight int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	vw, vh := float64(backingWidth)/scale, float64(backingHeight)/scale
	c.sx, c.sy = 0, 0
	if vw > 0 {
		c.sx = float64(c.Width*2) / vw
	}
	if vh > 0 {
		c.sy = float64(c.Height*4) / vh
	}
}

// Clear resets the canvas.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.strokes[i][j] = Stroke{}
		}
	}
}

// Line implements Surface.
func (c *Canvas) Line(a, b Point2D, s Stroke) {
	x0, y0 := int(a.X*c.sx), int(a.Y*c.sy)
	x1, y1 := int(b.X*c.sx), int(b.Y*c.sy)
	c.DrawLine(x0, y0, x1, y1, s)
}

// Set lights the sub-pixel (x, y). The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, s Stroke) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if s.Alpha >= c.strokes[row][col].Alpha {
		c.strokes[row][col] = s
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, s Stroke) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, s)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Lit counts cells with at least one dot set.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the canvas with every lit cell colored by its stroke, blended onto
// background by the stroke's alpha.
func (c *Canvas) Render(background string) string {
	bg, err := colorful.Hex(background)
	if err != nil {
		bg = colorful.Color{}
	}
	cache := make(map[Stroke]lipgloss.Style)

	var b strings.Builder
	for i, row := range c.Grid {
		var run []rune
		var runStroke Stroke
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runStroke.Color == "" {
				b.WriteString(string(run))
			} else {
				st, ok := cache[runStroke]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(blend(bg, runStroke)))
					cache[runStroke] = st
				}
				b.WriteString(st.Render(string(run)))
			}
			run = run[:0]
		}
		for j, r := range row {
			s := c.strokes[i][j]
			if r == blank {
				s = Stroke{}
			}
			if s != runStroke {
				flush()
				runStroke = s
			}
			run = append(run, r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func blend(bg colorful.Color, s Stroke) string {
	fg, err := colorful.Hex(s.Color)
	if err != nil {
		return s.Color
	}
	t := s.Alpha * terminalGain
	if t > 1 {
		t = 1
	}
	return bg.BlendRgb(fg, t).Clamped().Hex()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
