package alert

import (
	"math"

	"github.com/teslashibe/go-sentinel/pkg/detection"
)

// SmoothedConfidence blends the current frame's best confidence with the
// best confidence of up to window recent frames, newest first. Entry k
// (0-based) gets weight alpha*(1-alpha)^(k+1), so older frames fade out.
// This is a weighted average, not a Kalman filter.
func SmoothedConfidence(current []detection.TrackedDetection, h *History, alpha float64, window int) float64 {
	smoothed := detection.MaxConfidence(current)
	if h == nil {
		return smoothed
	}

	for k, entry := range h.Recent(window) {
		w := alpha * math.Pow(1-alpha, float64(k+1))
		smoothed = smoothed*(1-w) + detection.MaxConfidence(entry.Detections)*w
	}
	return smoothed
}
