package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/limetred/limetred/internal/market"
	"github.com/limetred/limetred/internal/scene"
)

const Background = "#0a0a0a"

type svgLine struct {
	a, b scene.Point2D
	s    scene.Stroke
}

// SVG is a scene.Surface that records lines and writes them as an SVG document.
// The backing size becomes the document size and the scale becomes the viewBox ratio,
// so coordinates stay in viewport pixels.
type SVG struct {
	Background string

	width, height int
	scale         float64
	lines         []svgLine
}

func NewSVG() *SVG {
	return &SVG{Background: Background, scale: 1}
}

func (s *SVG) Resize(backingWidth, backingHeight int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.width, s.height, s.scale = backingWidth, backingHeight, scale
	s.lines = s.lines[:0]
}

func (s *SVG) Clear() { s.lines = s.lines[:0] }

func (s *SVG) Line(a, b scene.Point2D, st scene.Stroke) {
	s.lines = append(s.lines, svgLine{a, b, st})
}

// Len is the number of lines drawn since the last Clear.
func (s *SVG) Len() int { return len(s.lines) }

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func (s *SVG) String() string {
	var sb strings.Builder

	vw, vh := float64(s.width)/s.scale, float64(s.height)/s.scale
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %.1f %.1f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke-linecap="round">
`, s.width, s.height, vw, vh, s.Background)

	for _, l := range s.lines {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f"/>
`, l.a.X, l.a.Y, l.b.X, l.b.Y, l.s.Color, l.s.Alpha, l.s.Width)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// MarketChartSVG plots the market-cap window as a line chart.
func MarketChartSVG(samples []market.MarketSample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	minX, maxX := float64(samples[0].Time), float64(samples[len(samples)-1].Time)
	minY, maxY := samples[0].Price, samples[0].Price
	for _, p := range samples {
		minY = min(minY, p.Price)
		maxY = max(maxY, p.Price)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// headroom above and below the series
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, Background, strokeColor)

	for i, p := range samples {
		x := (float64(p.Time) - minX) / rangeX * float64(width)
		y := float64(height) - (p.Price-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
