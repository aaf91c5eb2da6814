package pipeline

import (
	"time"

	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/pose"
)

// DetectionFrame is one frame of object detections from the inference model
type DetectionFrame struct {
	Timestamp  time.Time             `json:"timestamp"`
	Width      float64               `json:"width"`
	Height     float64               `json:"height"`
	Detections []detection.Detection `json:"detections"`
}

// PoseFrame is one frame from the pose model; Pose is nil when no
// person was found.
type PoseFrame struct {
	Timestamp time.Time  `json:"timestamp"`
	Pose      *pose.Pose `json:"pose,omitempty"`
}

// AlertEvent is the outcome of one detection frame
type AlertEvent struct {
	ID        string                       `json:"id"`
	SessionID string                       `json:"session_id"`
	Timestamp time.Time                    `json:"timestamp"`
	Result    alert.Result                 `json:"result"`
	Tracks    []detection.TrackedDetection `json:"tracks"`
	Rejected  int                          `json:"rejected"`
	Latency   time.Duration                `json:"latency"`
}

// ActivityEvent is the outcome of one pose frame
type ActivityEvent struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Timestamp time.Time       `json:"timestamp"`
	Result    activity.Result `json:"result"`
	Latency   time.Duration   `json:"latency"`
}

// Observer receives every processed frame. Calls happen outside the
// pipeline lock, on the goroutine that processed the frame.
type Observer interface {
	OnAlert(AlertEvent)
	OnActivity(ActivityEvent)
}
