// Package geometry provides box overlap and proximity helpers for
// axis-aligned bounding boxes in image pixel space.
package geometry

import "math"

// Rect is an axis-aligned rectangle in pixel coordinates.
// Left/Top is the upper-left corner, Right/Bottom the lower-right.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect builds a Rect from a corner and a size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent of the box
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the box
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Area returns width*height, or 0 for inverted or degenerate boxes.
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the center point of the box
func (r Rect) Center() (x, y float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// AspectRatio returns width/height. Boxes with no height report 0.
func (r Rect) AspectRatio() float64 {
	h := r.Height()
	if h <= 0 {
		return 0
	}
	return r.Width() / h
}

// IsFinite reports whether every coordinate is a real number.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float64{r.Left, r.Top, r.Right, r.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
