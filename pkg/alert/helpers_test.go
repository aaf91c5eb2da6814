package alert

import (
	"time"

	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/geometry"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func tracked(id int, label string, conf float64, box geometry.Rect) detection.TrackedDetection {
	return detection.TrackedDetection{
		Detection: detection.Detection{
			Label:      label,
			Confidence: conf,
			Box:        box,
		},
		TrackingID: id,
		FrameCount: 3,
	}
}

func person(id int, conf float64) detection.TrackedDetection {
	x := float64(id) * 150
	return tracked(id, "person", conf, geometry.Rect{Left: x, Top: 100, Right: x + 100, Bottom: 300})
}

func knife(id int, conf float64) detection.TrackedDetection {
	return tracked(id, "knife", conf, geometry.Rect{Left: 500, Top: 400, Right: 560, Bottom: 415})
}
