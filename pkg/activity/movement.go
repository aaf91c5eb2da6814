package activity

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/geometry"
	"github.com/teslashibe/go-sentinel/pkg/pose"
	"gonum.org/v1/gonum/stat"
)

// Loitering thresholds
const (
	loiterWindow      = 10 * time.Second
	loiterMinRecent   = 30
	loiterMinTotal    = 150
	loiterMaxMovement = 5.0  // px per frame
	loiterScale       = 10.0 // px per frame at zero confidence
)

// Pacing thresholds
const (
	paceWindow      = 5 * time.Second
	paceMinSamples  = 50
	paceDeadZone    = 2.0 // px of x movement that keeps the previous direction
	paceMinReversal = 3
	paceMinMovement = 10.0
	paceMaxMovement = 40.0
	paceFullScale   = 6.0 // reversals at full confidence
)

// Climbing thresholds
const (
	climbWindow     = 2 * time.Second
	climbMinSamples = 20
	climbMinRise    = 20.0 // px
	climbScale      = 50.0
)

// Running thresholds
const (
	runWindow      = time.Second
	runMinSamples  = 20
	runMinMovement = 40.0 // px per frame
	runScale       = 80.0
)

type base struct {
	typ       Type
	threshold float64
}

func (b base) Type() Type         { return b.typ }
func (b base) Threshold() float64 { return b.threshold }

// LoiteringDetector fires when a person stays nearly still for a long time
type LoiteringDetector struct{ base }

// NewLoiteringDetector creates a loitering detector
func NewLoiteringDetector(threshold float64) *LoiteringDetector {
	return &LoiteringDetector{base{Loitering, threshold}}
}

// Analyze implements Detector
func (d *LoiteringDetector) Analyze(_ *pose.Pose, h *pose.History) Analysis {
	samples := h.PositionsWithin(loiterWindow)
	if len(samples) < loiterMinRecent || h.PositionCount() < loiterMinTotal {
		return notDetected()
	}

	avg := stat.Mean(displacements(samples), nil)
	if avg >= loiterMaxMovement {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01(1 - avg/loiterScale),
		Duration:   span(samples),
		Details:    fmt.Sprintf("average movement %.1fpx over %d samples", avg, len(samples)),
	}
}

// PacingDetector fires on repeated back-and-forth walking
type PacingDetector struct{ base }

// NewPacingDetector creates a pacing detector
func NewPacingDetector(threshold float64) *PacingDetector {
	return &PacingDetector{base{Pacing, threshold}}
}

// Analyze implements Detector
func (d *PacingDetector) Analyze(_ *pose.Pose, h *pose.History) Analysis {
	samples := h.PositionsWithin(paceWindow)
	if len(samples) < paceMinSamples {
		return notDetected()
	}

	reversals := 0
	direction := 0
	for i := 1; i < len(samples); i++ {
		dx := samples[i].X - samples[i-1].X
		next := direction
		switch {
		case dx > paceDeadZone:
			next = 1
		case dx < -paceDeadZone:
			next = -1
		}
		if direction != 0 && next != direction {
			reversals++
		}
		direction = next
	}

	avg := stat.Mean(displacements(samples), nil)
	if reversals < paceMinReversal || avg < paceMinMovement || avg > paceMaxMovement {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01(float64(reversals) / paceFullScale),
		Duration:   span(samples),
		Details:    fmt.Sprintf("%d direction changes, average movement %.1fpx", reversals, avg),
	}
}

// ClimbingDetector fires when the body rises with both hands above the head
type ClimbingDetector struct{ base }

// NewClimbingDetector creates a climbing detector
func NewClimbingDetector(threshold float64) *ClimbingDetector {
	return &ClimbingDetector{base{Climbing, threshold}}
}

// Analyze implements Detector
func (d *ClimbingDetector) Analyze(current *pose.Pose, h *pose.History) Analysis {
	samples := h.PositionsWithin(climbWindow)
	if len(samples) < climbMinSamples {
		return notDetected()
	}

	// Image y grows downward, so a rise is oldest.Y - newest.Y.
	rise := samples[0].Y - samples[len(samples)-1].Y
	if rise <= climbMinRise || !handsAboveHead(current) {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01((rise/climbScale)*0.7 + 0.3),
		Duration:   span(samples),
		Details:    fmt.Sprintf("rose %.0fpx with hands above head", rise),
	}
}

// RunningDetector fires on sustained fast movement
type RunningDetector struct{ base }

// NewRunningDetector creates a running detector
func NewRunningDetector(threshold float64) *RunningDetector {
	return &RunningDetector{base{Running, threshold}}
}

// Analyze implements Detector
func (d *RunningDetector) Analyze(_ *pose.Pose, h *pose.History) Analysis {
	samples := h.PositionsWithin(runWindow)
	if len(samples) < runMinSamples {
		return notDetected()
	}

	avg := stat.Mean(displacements(samples), nil)
	if avg <= runMinMovement {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01(avg / runScale),
		Duration:   span(samples),
		Details:    fmt.Sprintf("average movement %.1fpx per frame", avg),
	}
}

func handsAboveHead(p *pose.Pose) bool {
	nose, ok := p.Landmark(pose.Nose)
	if !ok {
		return false
	}
	lw, okL := p.Landmark(pose.LeftWrist)
	rw, okR := p.Landmark(pose.RightWrist)
	return okL && okR && lw.Y < nose.Y && rw.Y < nose.Y
}

// displacements returns the distance between consecutive samples
func displacements(samples []pose.PositionSample) []float64 {
	if len(samples) < 2 {
		return []float64{0}
	}
	out := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		out[i-1] = geometry.Distance(samples[i-1].X, samples[i-1].Y, samples[i].X, samples[i].Y)
	}
	return out
}

func span(samples []pose.PositionSample) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp)
}
