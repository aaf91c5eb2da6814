package activity

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-sentinel/pkg/geometry"
	"github.com/teslashibe/go-sentinel/pkg/pose"
)

// Posture thresholds, in degrees unless noted
const (
	crouchMaxBody = 100.0
	crouchMaxKnee = 120.0

	hideMinVisible     = 10
	hideOccludedConf   = 0.8
	hideMaxBody        = 80.0
	hideFaceDistance   = 100.0 // px from wrist to nose
	hideConcealingConf = 0.75
)

// CrouchingDetector fires when the torso folds and a knee bends
type CrouchingDetector struct{ base }

// NewCrouchingDetector creates a crouching detector
func NewCrouchingDetector(threshold float64) *CrouchingDetector {
	return &CrouchingDetector{base{Crouching, threshold}}
}

// Analyze implements Detector
func (d *CrouchingDetector) Analyze(current *pose.Pose, _ *pose.History) Analysis {
	body, ok := current.BodyAngle()
	if !ok || body >= crouchMaxBody {
		return notDetected()
	}

	left, leftOK, right, rightOK := current.KneeAngles()
	knee := math.Inf(1)
	if leftOK {
		knee = left
	}
	if rightOK {
		knee = math.Min(knee, right)
	}
	if knee >= crouchMaxKnee {
		return notDetected()
	}

	bodyScore := clamp01((180 - body) / 90)
	kneeScore := clamp01((180 - knee) / 90)
	return Analysis{
		Detected:   true,
		Confidence: clamp01((bodyScore + kneeScore) / 2),
		Details:    fmt.Sprintf("body %.0f°, knee %.0f°", body, knee),
	}
}

// HidingDetector fires on heavy occlusion or a concealing posture
type HidingDetector struct{ base }

// NewHidingDetector creates a hiding detector
func NewHidingDetector(threshold float64) *HidingDetector {
	return &HidingDetector{base{Hiding, threshold}}
}

// Analyze implements Detector
func (d *HidingDetector) Analyze(current *pose.Pose, _ *pose.History) Analysis {
	if current == nil {
		return notDetected()
	}

	visible := current.VisibleCount()
	if visible < hideMinVisible {
		return Analysis{
			Detected:   true,
			Confidence: hideOccludedConf,
			Details:    fmt.Sprintf("only %d landmarks visible", visible),
		}
	}

	if body, ok := current.BodyAngle(); ok && body < hideMaxBody {
		return Analysis{
			Detected:   true,
			Confidence: hideConcealingConf,
			Details:    fmt.Sprintf("body folded to %.0f°", body),
		}
	}
	if handsNearFace(current) {
		return Analysis{
			Detected:   true,
			Confidence: hideConcealingConf,
			Details:    "both hands covering face",
		}
	}
	return notDetected()
}

func handsNearFace(p *pose.Pose) bool {
	nose, ok := p.Landmark(pose.Nose)
	if !ok {
		return false
	}
	for _, i := range []int{pose.LeftWrist, pose.RightWrist} {
		w, ok := p.Landmark(i)
		if !ok || geometry.Distance(w.X, w.Y, nose.X, nose.Y) >= hideFaceDistance {
			return false
		}
	}
	return true
}
