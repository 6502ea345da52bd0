package model

import "math"

// Point is a position in page coordinates
type Point struct {
	X float64
	Y float64
}

// Rect is a measured on-screen rectangle, X/Y being its top-left corner
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the centre point of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
