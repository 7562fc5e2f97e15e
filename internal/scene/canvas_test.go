package scene

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0, ColorA)
	c.Set(1, 3, ColorA)
	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("cell = %U", got)
	}

	// out of range is ignored
	c.Set(-1, 0, ColorA)
	c.Set(8, 0, ColorA)
	c.Set(0, 8, ColorA)
	if c.Lit() != 1 {
		t.Errorf("lit = %d, want 1", c.Lit())
	}

	c.Clear()
	if c.Lit() != 0 {
		t.Errorf("lit after clear = %d", c.Lit())
	}
}

func TestCanvasStrongestStrokeWins(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0, ColorB)
	c.Set(1, 0, ColorA)
	c.Set(0, 1, ColorB)
	if c.strokes[0][0] != ColorA {
		t.Errorf("stroke = %+v, want ColorA", c.strokes[0][0])
	}
}

func TestCanvasLineSpansViewport(t *testing.T) {
	c := NewCanvas(10, 5)
	vp := TerminalViewport(10, 5)
	c.Resize(int(float64(vp.Width)*1.5), int(float64(vp.Height)*1.5), 1.5)

	c.Line(Point2D{0, 0}, Point2D{float64(vp.Width) - 1, 0}, ColorA)
	for col := 0; col < c.Width; col++ {
		if c.Grid[0][col] == blank {
			t.Fatalf("column %d not lit", col)
		}
	}
	if c.Lit() != c.Width {
		t.Errorf("lit = %d, want %d", c.Lit(), c.Width)
	}
}

func TestCanvasRenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(6, 3)
	c.Resize(48, 48, 1)
	c.Line(Point2D{0, 0}, Point2D{47, 47}, ColorA)

	plain := c.String()
	if strings.Count(plain, "\n") != 3 {
		t.Fatalf("expected 3 rows, got %q", plain)
	}
	rendered := c.Render("#0a0a0a")
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank && !strings.ContainsRune(rendered, r) {
				t.Errorf("rendered output lost %U", r)
			}
		}
	}
}

func TestBlend(t *testing.T) {
	bg, _ := colorful.Hex("#000000")
	got, err := colorful.Hex(blend(bg, ColorB))
	if err != nil {
		t.Fatal(err)
	}
	fg, _ := colorful.Hex(ColorB.Color)
	if got.R > fg.R+1e-9 || got.G > fg.G+1e-9 || got.B > fg.B+1e-9 {
		t.Errorf("blend %v brighter than stroke %v", got.Hex(), fg.Hex())
	}
	if got.G == 0 {
		t.Error("blend produced background only")
	}

	// full alpha after gain is the stroke color itself
	if h := blend(bg, Stroke{Color: "#ff0000", Alpha: 1}); h != "#ff0000" {
		t.Errorf("blend = %s", h)
	}
}

func TestRendererDrawsOnCanvas(t *testing.T) {
	c := NewCanvas(80, 24)
	r, ok := Initialize(c, TerminalViewport(80, 24))
	if !ok {
		t.Fatal("initialize failed")
	}
	r.RenderFrame()
	if c.Lit() == 0 {
		t.Error("frame left canvas empty")
	}
}

func TestCanvasStringPlain(t *testing.T) {
	c := NewCanvas(5, 3)
	c.Set(0, 0, ColorA)
	out := c.String()
	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output carries escape codes")
	}
	if []rune(rows[0])[0] != blank|0x1 {
		t.Errorf("first cell = %U", []rune(rows[0])[0])
	}
}
