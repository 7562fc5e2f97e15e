package scene

import "math"

// MobileBreakpoint is the viewport width below which the compact profile is used.
const MobileBreakpoint = 768

// Profile sizes the cube grid.
type Profile struct {
	Name           string
	GridSize       int
	CubeSize       float64 // edge length in viewport pixels
	Spacing        float64
	RotationSpeed  float64 // radians per frame
	SecondarySpeed float64 // extra radians per frame about Y
}

var (
	CompactProfile = Profile{Name: "compact", GridSize: 3, CubeSize: 40, Spacing: 110, RotationSpeed: 0.005, SecondarySpeed: 0.003}
	FullProfile    = Profile{Name: "full", GridSize: 6, CubeSize: 60, Spacing: 150, RotationSpeed: 0.005, SecondarySpeed: 0.003}
)

// ProfileFor picks the grid profile for a viewport width.
func ProfileFor(width int) Profile {
	if width < MobileBreakpoint {
		return CompactProfile
	}
	return FullProfile
}

// Stroke describes how an edge is drawn.
type Stroke struct {
	Color string
	Alpha float64
	Width float64
}

// Checkerboard strokes: ColorA on even (i+j), ColorB on odd.
var (
	ColorA = Stroke{Color: "#84cc16", Alpha: 0.25, Width: 1.2}
	ColorB = Stroke{Color: "#10b981", Alpha: 0.15, Width: 1.2}
)

// StrokeFor returns the checkerboard stroke for grid cell (i, j).
func StrokeFor(i, j int) Stroke {
	if (i+j)%2 == 0 {
		return ColorA
	}
	return ColorB
}

const (
	phaseStep    = 0.2
	bobFrequency = 0.01
	bobAmplitude = 30.0
)

// CubeFrame is one projected cube.
type CubeFrame struct {
	I, J     int
	Vertices [8]Point2D
	Visible  [8]bool
	Stroke   Stroke
}

// Edges returns the segments to draw, skipping any edge with an endpoint behind the eye.
func (c CubeFrame) Edges() [][2]Point2D {
	out := make([][2]Point2D, 0, len(cubeEdges))
	for _, e := range cubeEdges {
		if c.Visible[e[0]] && c.Visible[e[1]] {
			out = append(out, [2]Point2D{c.Vertices[e[0]], c.Vertices[e[1]]})
		}
	}
	return out
}

// Frame is the full grid for one clock value.
type Frame struct {
	Clock Clock
	Cubes []CubeFrame
}

// ComputeFrame projects every cube of the profile's grid at the given clock.
// It has no side effects; the same inputs always give the same frame.
func ComputeFrame(p Profile, w, h float64, clock Clock) Frame {
	n := p.GridSize
	if n < 0 {
		n = 0
	}
	f := Frame{Clock: clock, Cubes: make([]CubeFrame, 0, n*n)}
	t := float64(clock)
	half := p.CubeSize / 2
	offset := float64(n-1) * p.Spacing / 2

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			phase := float64(i*n + j)
			ax := t*p.RotationSpeed + phase*phaseStep
			ay := t*(p.RotationSpeed+p.SecondarySpeed) + phase*phaseStep
			bob := math.Sin(t*bobFrequency+phase) * bobAmplitude
			gx := float64(i)*p.Spacing - offset
			gy := float64(j)*p.Spacing - offset

			cf := CubeFrame{I: i, J: j, Stroke: StrokeFor(i, j)}
			for k, v := range cubeVertices {
				world := v.Scale(half).RotateX(ax).RotateY(ay).Translate(gx, gy, bob)
				cf.Vertices[k], cf.Visible[k] = Project(world, w, h)
			}
			f.Cubes = append(f.Cubes, cf)
		}
	}
	return f
}
