package pose

import (
	"math"

	"github.com/teslashibe/go-sentinel/pkg/geometry"
)

// Pose is one skeleton observation
type Pose struct {
	Landmarks []Landmark `json:"landmarks"`
}

// Landmark returns landmark i if it exists and is visible
func (p *Pose) Landmark(i int) (Landmark, bool) {
	if p == nil || i < 0 || i >= len(p.Landmarks) {
		return Landmark{}, false
	}
	l := p.Landmarks[i]
	if !l.Visible() {
		return Landmark{}, false
	}
	return l, true
}

// VisibleCount returns how many landmarks are visible
func (p *Pose) VisibleCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, l := range p.Landmarks {
		if l.Visible() {
			n++
		}
	}
	return n
}

// Centroid returns the mean position of the visible landmarks.
func (p *Pose) Centroid() (x, y float64, ok bool) {
	n := 0
	for _, l := range p.Landmarks {
		if !l.Visible() {
			continue
		}
		x += l.X
		y += l.Y
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return x / float64(n), y / float64(n), true
}

// Midpoint returns the midpoint of landmarks a and b when both are visible
func (p *Pose) Midpoint(a, b int) (Landmark, bool) {
	la, okA := p.Landmark(a)
	lb, okB := p.Landmark(b)
	if !okA || !okB {
		return Landmark{}, false
	}
	return Landmark{
		X:          (la.X + lb.X) / 2,
		Y:          (la.Y + lb.Y) / 2,
		Z:          (la.Z + lb.Z) / 2,
		Visibility: math.Min(la.Visibility, lb.Visibility),
	}, true
}

// JointAngle returns the angle in degrees at joint b formed by a-b-c.
// The second result is false when any landmark is missing.
func (p *Pose) JointAngle(a, b, c int) (float64, bool) {
	la, okA := p.Landmark(a)
	lb, okB := p.Landmark(b)
	lc, okC := p.Landmark(c)
	if !okA || !okB || !okC {
		return 0, false
	}
	return angleAt(la, lb, lc)
}

// BodyAngle is the shoulder-hip-knee angle measured at the hip midpoint.
// An upright body is close to 180 degrees; folding at the waist lowers it.
func (p *Pose) BodyAngle() (float64, bool) {
	shoulder, ok1 := p.Midpoint(LeftShoulder, RightShoulder)
	hip, ok2 := p.Midpoint(LeftHip, RightHip)
	knee, ok3 := p.Midpoint(LeftKnee, RightKnee)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return angleAt(shoulder, hip, knee)
}

// KneeAngles returns the hip-knee-ankle angle for each leg; a missing leg
// reports ok false.
func (p *Pose) KneeAngles() (left float64, leftOK bool, right float64, rightOK bool) {
	left, leftOK = p.JointAngle(LeftHip, LeftKnee, LeftAnkle)
	right, rightOK = p.JointAngle(RightHip, RightKnee, RightAnkle)
	return
}

func angleAt(a, b, c Landmark) (float64, bool) {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	n1 := geometry.Distance(a.X, a.Y, b.X, b.Y)
	n2 := geometry.Distance(c.X, c.Y, b.X, b.Y)
	if n1 == 0 || n2 == 0 {
		return 0, false
	}
	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}
