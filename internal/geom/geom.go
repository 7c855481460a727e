// Package geom holds the small amount of 2D math the office floor needs:
// points, axis-aligned rectangles, straight-line steering and random
// placement. Everything here is pure; nothing keeps state between calls.
package geom

import (
	"math"
	"math/rand/v2"
)

// Point is a location on the office floor, in floor units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// MoveToward steps pos toward dest by at most speed units. The second
// result reports whether dest was reached this step, in which case the
// returned point is exactly dest.
func MoveToward(pos, dest Point, speed float64) (Point, bool) {
	d := Distance(pos, dest)
	if d <= speed || d < 1e-9 {
		return dest, true
	}
	step := dest.Sub(pos).Scale(speed / d)
	return pos.Add(step), false
}

// Rect is an axis-aligned rectangle; Min is inclusive, Max is inclusive.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// RectFromCenter builds the rectangle of the given size centered on c.
func RectFromCenter(c Point, width, height float64) Rect {
	hw, hh := width/2, height/2
	return Rect{
		Min: Point{X: c.X - hw, Y: c.Y - hh},
		Max: Point{X: c.X + hw, Y: c.Y + hh},
	}
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inflate grows r by d on every side; a negative d shrinks it. Shrinking
// past the center collapses r onto its center point.
func (r Rect) Inflate(d float64) Rect {
	out := Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
	if out.Min.X > out.Max.X {
		c := r.Center().X
		out.Min.X, out.Max.X = c, c
	}
	if out.Min.Y > out.Max.Y {
		c := r.Center().Y
		out.Min.Y, out.Max.Y = c, c
	}
	return out
}

// Overlaps reports whether r and q share any area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(q Rect) bool {
	return r.Min.X < q.Max.X && q.Min.X < r.Max.X && r.Min.Y < q.Max.Y && q.Min.Y < r.Max.Y
}

// RandomPointIn returns a uniformly distributed point inside r.
func RandomPointIn(rng *rand.Rand, r Rect) Point {
	return Point{
		X: r.Min.X + rng.Float64()*r.Dx(),
		Y: r.Min.Y + rng.Float64()*r.Dy(),
	}
}
