// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// RectInt is a half-open integer rectangle covering [X0,X1) x [Y0,Y1).
type RectInt struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x0, y0, x1, y1 int) RectInt {
	return RectInt{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Dx returns the width of the rectangle.
func (r RectInt) Dx() int {
	return r.X1 - r.X0
}

// Dy returns the height of the rectangle.
func (r RectInt) Dy() int {
	return r.Y1 - r.Y0
}

// Empty returns true if the rectangle covers no points.
func (r RectInt) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// ContainsPoint returns true if the point lies inside the half-open rectangle.
func (r RectInt) ContainsPoint(p PointInt) bool {
	return p.X >= r.X0 && p.X < r.X1 && p.Y >= r.Y0 && p.Y < r.Y1
}

// ContainsRect returns true if other lies fully inside r.
func (r RectInt) ContainsRect(other RectInt) bool {
	if other.Empty() {
		return true
	}
	return other.X0 >= r.X0 && other.X1 <= r.X1 &&
		other.Y0 >= r.Y0 && other.Y1 <= r.Y1
}

// Intersect returns the largest rectangle contained in both r and other.
func (r RectInt) Intersect(other RectInt) RectInt {
	out := RectInt{
		X0: max(r.X0, other.X0),
		Y0: max(r.Y0, other.Y0),
		X1: min(r.X1, other.X1),
		Y1: min(r.Y1, other.Y1),
	}
	if out.Empty() {
		return RectInt{}
	}
	return out
}

// ToImageRect converts to the stdlib image.Rectangle.
func (r RectInt) ToImageRect() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1, r.Y1)
}
