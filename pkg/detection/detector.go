// Package detection holds the per-frame object observations produced by
// the inference collaborator, the class vocabulary used to reason about
// them, and the size/aspect sanity filter applied before tracking.
package detection

import "github.com/teslashibe/go-sentinel/pkg/geometry"

// Detection is one object observation in one frame.
// Boxes are in image pixel space.
type Detection struct {
	Label      string        `json:"label"`
	Confidence float64       `json:"confidence"` // 0-1
	Box        geometry.Rect `json:"box"`
	ClassID    int           `json:"class_id"`
}

// TrackedDetection is a Detection resolved to a persistent track.
type TrackedDetection struct {
	Detection
	TrackingID int `json:"tracking_id"`
	FrameCount int `json:"frame_count"` // Frames this track has been matched
}

// Detector is the interface for inference backends
type Detector interface {
	// Detect finds objects in the image and returns their boxes in pixels
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	NMSThresh        float64 // Duplicate suppression IoU
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YOLOv8n
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// MaxConfidence returns the highest confidence in dets, or 0 when empty.
func MaxConfidence(dets []TrackedDetection) float64 {
	best := 0.0
	for _, d := range dets {
		if d.Confidence > best {
			best = d.Confidence
		}
	}
	return best
}
