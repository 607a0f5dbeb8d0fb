// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point2D) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.vec(), other.vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return fromVec(r2.Add(p.vec(), other.vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return fromVec(r2.Sub(p.vec(), other.vec()))
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

func (r Rect) box() r2.Box {
	return r2.NewBox(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Contains returns true if the point is inside the rectangle or on its border.
func (r Rect) Contains(p Point2D) bool {
	return r.box().Contains(p.vec())
}

// Interior returns true if the point lies strictly inside the rectangle.
// Clicks on the exact border of the canvas are not treated as inside.
func (r Rect) Interior(p Point2D) bool {
	return p.X > r.X && p.X < r.X+r.Width &&
		p.Y > r.Y && p.Y < r.Y+r.Height
}

// Clamp returns the nearest point of the rectangle to p.
func (r Rect) Clamp(p Point2D) Point2D {
	return Point2D{
		X: min(max(p.X, r.X), r.X+r.Width),
		Y: min(max(p.Y, r.Y), r.Y+r.Height),
	}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
