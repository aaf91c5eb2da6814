// Package activity analyzes pose history for suspicious behavior.
//
// A fixed set of detectors runs against the same pose and shared history
// each frame. Detectors are stateless; every temporal signal comes from
// pose.History, which the Engine owns.
package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/pose"
)

// Type identifies an activity detector
type Type string

// Activity types
const (
	Loitering         Type = "LOITERING"
	Pacing            Type = "PACING"
	Crouching         Type = "CROUCHING"
	Hiding            Type = "HIDING"
	Climbing          Type = "CLIMBING"
	AggressiveGesture Type = "AGGRESSIVE_GESTURE"
	Vandalism         Type = "VANDALISM"
	Running           Type = "RUNNING"
)

// Types lists every activity in registry order
var Types = []Type{
	Loitering,
	Pacing,
	Crouching,
	Hiding,
	Climbing,
	AggressiveGesture,
	Vandalism,
	Running,
}

// ParseType resolves a case-insensitive activity name
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivity, s)
}

// Analysis is one detector's verdict on the current frame
type Analysis struct {
	Detected   bool
	Confidence float64
	Duration   time.Duration // Span of history the verdict is based on
	Details    string
}

// Finding is an analysis that passed its detector's threshold
type Finding struct {
	Type       Type          `json:"type"`
	Confidence float64       `json:"confidence"`
	Duration   time.Duration `json:"duration"`
	Details    string        `json:"details"`
}

// Detector recognizes one activity from the current pose and history
type Detector interface {
	Type() Type
	Threshold() float64
	Analyze(current *pose.Pose, h *pose.History) Analysis
}

// Status is the outcome of analyzing one frame
type Status int

const (
	// NoPoseDetected means the pose model returned nothing for the frame
	NoPoseDetected Status = iota
	// Normal means a pose was seen and no detector fired
	Normal
	// Detected means at least one finding passed its threshold
	Detected
)

func (s Status) String() string {
	switch s {
	case NoPoseDetected:
		return "no_pose"
	case Normal:
		return "normal"
	case Detected:
		return "detected"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the engine output for one frame
type Result struct {
	Status    Status    `json:"status"`
	Findings  []Finding `json:"findings,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func notDetected() Analysis {
	return Analysis{}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
