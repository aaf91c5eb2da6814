package pose

import (
	"time"

	"github.com/gammazero/deque"
)

// DefaultCapacity holds about five seconds at 30fps
const DefaultCapacity = 150

// Frame is a pose with its capture time
type Frame struct {
	Pose      *Pose
	Timestamp time.Time
}

// PositionSample is a pose centroid with its capture time
type PositionSample struct {
	X, Y      float64
	Timestamp time.Time
}

// History is the rolling buffer of recent poses and centroid positions.
//
// Windows are measured back from the latest frame time seen, never from
// an assumed frame rate, so dropped frames only thin the window. A frame
// without a centroid still advances that time, which ages out the
// position samples before it.
// History is not safe for concurrent use.
type History struct {
	poses     deque.Deque[Frame]
	positions deque.Deque[PositionSample]
	capacity  int
	latest    time.Time
}

// NewHistory creates a history holding at most capacity entries per ring
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Add records a pose and, when it has visible landmarks, its centroid
func (h *History) Add(p *Pose, ts time.Time) {
	if p == nil {
		return
	}
	for h.poses.Len() >= h.capacity {
		h.poses.PopFront()
	}
	h.poses.PushBack(Frame{Pose: p, Timestamp: ts})
	h.advance(ts)

	x, y, ok := p.Centroid()
	if !ok {
		return
	}
	h.AddPosition(PositionSample{X: x, Y: y, Timestamp: ts})
}

// AddPosition records a centroid sample directly
func (h *History) AddPosition(s PositionSample) {
	for h.positions.Len() >= h.capacity {
		h.positions.PopFront()
	}
	h.positions.PushBack(s)
	h.advance(s.Timestamp)
}

func (h *History) advance(ts time.Time) {
	if ts.After(h.latest) {
		h.latest = ts
	}
}

// PosesWithin returns the poses no older than d before the latest frame
// time, oldest first.
func (h *History) PosesWithin(d time.Duration) []Frame {
	n := h.poses.Len()
	if n == 0 {
		return nil
	}
	cutoff := h.latest.Add(-d)
	start := n
	for start > 0 && !h.poses.At(start-1).Timestamp.Before(cutoff) {
		start--
	}
	if start == n {
		return nil
	}
	out := make([]Frame, 0, n-start)
	for i := start; i < n; i++ {
		out = append(out, h.poses.At(i))
	}
	return out
}

// PositionsWithin returns the centroid samples no older than d before the
// latest frame time, oldest first.
func (h *History) PositionsWithin(d time.Duration) []PositionSample {
	n := h.positions.Len()
	if n == 0 {
		return nil
	}
	cutoff := h.latest.Add(-d)
	start := n
	for start > 0 && !h.positions.At(start-1).Timestamp.Before(cutoff) {
		start--
	}
	if start == n {
		return nil
	}
	out := make([]PositionSample, 0, n-start)
	for i := start; i < n; i++ {
		out = append(out, h.positions.At(i))
	}
	return out
}

// Len returns the number of stored poses
func (h *History) Len() int { return h.poses.Len() }

// PositionCount returns the number of stored centroid samples
func (h *History) PositionCount() int { return h.positions.Len() }

// Cap returns the per-ring capacity
func (h *History) Cap() int { return h.capacity }

// Clear empties both rings
func (h *History) Clear() {
	h.poses.Clear()
	h.positions.Clear()
	h.latest = time.Time{}
}
