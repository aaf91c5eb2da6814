package geometry

import "math"

// IoU returns the intersection-over-union of two boxes in [0, 1].
// Non-overlapping boxes, boxes with non-positive area and boxes with
// non-finite coordinates all yield 0.
func IoU(a, b Rect) float64 {
	if !a.IsFinite() || !b.IsFinite() {
		return 0
	}

	areaA, areaB := a.Area(), b.Area()
	if areaA <= 0 || areaB <= 0 {
		return 0
	}

	inter := Rect{
		Left:   math.Max(a.Left, b.Left),
		Top:    math.Max(a.Top, b.Top),
		Right:  math.Min(a.Right, b.Right),
		Bottom: math.Min(a.Bottom, b.Bottom),
	}.Area()
	if inter <= 0 {
		return 0
	}

	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return math.Min(inter/union, 1)
}

// AreNearby reports whether the centers of a and b are closer than
// thresholdRatio times the mean of the four side lengths.
func AreNearby(a, b Rect, thresholdRatio float64) bool {
	if !a.IsFinite() || !b.IsFinite() {
		return false
	}

	ax, ay := a.Center()
	bx, by := b.Center()
	avgSide := (a.Width() + a.Height() + b.Width() + b.Height()) / 4

	return Distance(ax, ay, bx, by) < thresholdRatio*avgSide
}
