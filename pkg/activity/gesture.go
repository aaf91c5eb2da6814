package activity

import (
	"fmt"
	"math"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/pose"
	"gonum.org/v1/gonum/stat"
)

// Gesture thresholds
const (
	aggressiveWindow      = time.Second
	aggressiveMinSamples  = 10
	aggressiveMinMovement = 50.0 // px of combined wrist travel per frame
	aggressiveScale       = 100.0

	vandalWindow     = 2 * time.Second
	vandalMinSamples = 20
	vandalStrikeDrop = 30.0 // px the wrists travel in one frame
	vandalMinStrikes = 2
	vandalFullScale  = 4.0
)

// AggressiveGestureDetector fires on fast, sustained arm movement
type AggressiveGestureDetector struct{ base }

// NewAggressiveGestureDetector creates an aggressive gesture detector
func NewAggressiveGestureDetector(threshold float64) *AggressiveGestureDetector {
	return &AggressiveGestureDetector{base{AggressiveGesture, threshold}}
}

// Analyze implements Detector
func (d *AggressiveGestureDetector) Analyze(_ *pose.Pose, h *pose.History) Analysis {
	frames := h.PosesWithin(aggressiveWindow)
	if len(frames) < aggressiveMinSamples {
		return notDetected()
	}

	var moves []float64
	for i := 1; i < len(frames); i++ {
		prev, ok1 := wrists(frames[i-1].Pose)
		cur, ok2 := wrists(frames[i].Pose)
		if !ok1 || !ok2 {
			continue
		}
		moves = append(moves,
			math.Abs(cur[0].X-prev[0].X)+math.Abs(cur[0].Y-prev[0].Y)+
				math.Abs(cur[1].X-prev[1].X)+math.Abs(cur[1].Y-prev[1].Y))
	}
	if len(moves) == 0 {
		return notDetected()
	}

	avg := stat.Mean(moves, nil)
	if avg <= aggressiveMinMovement {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01(avg / aggressiveScale),
		Duration:   frameSpan(frames),
		Details:    fmt.Sprintf("average wrist movement %.0fpx per frame", avg),
	}
}

// VandalismDetector fires on repeated downward striking motions
type VandalismDetector struct{ base }

// NewVandalismDetector creates a vandalism detector
func NewVandalismDetector(threshold float64) *VandalismDetector {
	return &VandalismDetector{base{Vandalism, threshold}}
}

// Analyze implements Detector
func (d *VandalismDetector) Analyze(_ *pose.Pose, h *pose.History) Analysis {
	frames := h.PosesWithin(vandalWindow)
	if len(frames) < vandalMinSamples {
		return notDetected()
	}

	strikes := 0
	prevY, havePrev := 0.0, false
	for _, f := range frames {
		w, ok := wrists(f.Pose)
		if !ok {
			havePrev = false
			continue
		}
		y := (w[0].Y + w[1].Y) / 2
		if havePrev && y-prevY > vandalStrikeDrop {
			strikes++
		}
		prevY, havePrev = y, true
	}

	if strikes < vandalMinStrikes {
		return notDetected()
	}
	return Analysis{
		Detected:   true,
		Confidence: clamp01(float64(strikes) / vandalFullScale),
		Duration:   frameSpan(frames),
		Details:    fmt.Sprintf("%d striking motions", strikes),
	}
}

func wrists(p *pose.Pose) ([2]pose.Landmark, bool) {
	l, okL := p.Landmark(pose.LeftWrist)
	r, okR := p.Landmark(pose.RightWrist)
	return [2]pose.Landmark{l, r}, okL && okR
}

func frameSpan(frames []pose.Frame) time.Duration {
	if len(frames) == 0 {
		return 0
	}
	return frames[len(frames)-1].Timestamp.Sub(frames[0].Timestamp)
}
