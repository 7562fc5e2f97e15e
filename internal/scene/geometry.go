package scene

import "math"

// Point3D is a vertex in object-local space. Transforms return new values.
type Point3D struct {
	X, Y, Z float64
}

// Point2D is a projected screen coordinate in viewport pixels.
type Point2D struct {
	X, Y float64
}

func (p Point3D) Add(o Point3D) Point3D             { return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point3D) Scale(s float64) Point3D           { return Point3D{p.X * s, p.Y * s, p.Z * s} }
func (p Point3D) Translate(x, y, z float64) Point3D { return Point3D{p.X + x, p.Y + y, p.Z + z} }

// RotateX rotates about the X axis.
func (p Point3D) RotateX(a float64) Point3D {
	c, s := math.Cos(a), math.Sin(a)
	return Point3D{p.X, p.Y*c - p.Z*s, p.Y*s + p.Z*c}
}

// RotateY rotates about the Y axis.
func (p Point3D) RotateY(a float64) Point3D {
	c, s := math.Cos(a), math.Sin(a)
	return Point3D{p.X*c + p.Z*s, p.Y, -p.X*s + p.Z*c}
}

// FOV is the perspective constant used by Project.
const FOV = 400.0

// Project applies the perspective divide and centres the result in a w×h viewport.
// Points at or behind the eye plane are reported as not visible.
func Project(p Point3D, w, h float64) (Point2D, bool) {
	d := FOV + p.Z
	if d <= 0 {
		return Point2D{}, false
	}
	f := FOV / d
	return Point2D{X: p.X*f + w/2, Y: p.Y*f + h/2}, true
}

// unit cube template; front face, back face, connectors
var (
	cubeVertices = [8]Point3D{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	cubeEdges = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

