// Package tracking associates per-frame detections into persistent tracks.
//
// The tracker is a lightweight greedy IoU matcher: detections are visited
// in input order and each takes the best still-unclaimed track with the same
// label. It is not a globally optimal assignment; under ambiguity the
// earlier detection in the list wins.
//
// A Tracker is not safe for concurrent use. Callers serialize Update and
// Reset (see pkg/pipeline).
package tracking

import (
	"log/slog"
	"sort"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/geometry"
)

// Track is the tracker's state for one persistent object
type Track struct {
	ID         int
	Label      string
	LastBox    geometry.Rect
	LastSeen   time.Time
	FirstSeen  time.Time
	Confidence float64
	FrameCount int // Frames matched since creation
}

// Age returns how long the track has existed as of now.
func (t *Track) Age(now time.Time) time.Duration {
	return now.Sub(t.FirstSeen)
}

// Tracker maintains tracks across frames
type Tracker struct {
	config Config
	logger *slog.Logger

	tracks map[int]*Track
	nextID int
}

// New creates a tracker. Track IDs start at 1.
func New(config Config) *Tracker {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		config: config,
		logger: logger,
		tracks: make(map[int]*Track),
		nextID: 1,
	}
}

// Update associates this frame's detections with existing tracks and
// returns one TrackedDetection per input detection, in input order.
func (t *Tracker) Update(dets []detection.Detection, now time.Time) []detection.TrackedDetection {
	t.evict(now)

	// Stable candidate order so ties go to the oldest track
	candidates := t.sortedTracks()
	claimed := make(map[int]bool, len(candidates))

	out := make([]detection.TrackedDetection, 0, len(dets))
	for _, d := range dets {
		var best *Track
		bestIoU := t.config.IoUThreshold

		for _, tr := range candidates {
			if claimed[tr.ID] || tr.Label != d.Label {
				continue
			}
			if iou := geometry.IoU(d.Box, tr.LastBox); iou > bestIoU {
				bestIoU = iou
				best = tr
			}
		}

		if best == nil {
			best = &Track{
				ID:         t.nextID,
				Label:      d.Label,
				LastBox:    d.Box,
				LastSeen:   now,
				FirstSeen:  now,
				Confidence: d.Confidence,
				FrameCount: 1,
			}
			t.tracks[best.ID] = best
			t.nextID++
			t.logger.Debug("track started", "id", best.ID, "label", best.Label)
		} else {
			best.LastBox = d.Box
			best.LastSeen = now
			best.Confidence = d.Confidence
			best.FrameCount++
		}
		claimed[best.ID] = true

		out = append(out, detection.TrackedDetection{
			Detection:  d,
			TrackingID: best.ID,
			FrameCount: best.FrameCount,
		})
	}

	return out
}

// evict drops tracks not matched within MaxTrackingAge of now
func (t *Tracker) evict(now time.Time) {
	for id, tr := range t.tracks {
		if now.Sub(tr.LastSeen) > t.config.MaxTrackingAge {
			delete(t.tracks, id)
			t.logger.Debug("track expired",
				"id", id,
				"label", tr.Label,
				"frames", tr.FrameCount,
				"age", tr.Age(now))
		}
	}
}

func (t *Tracker) sortedTracks() []*Track {
	list := make([]*Track, 0, len(t.tracks))
	for _, tr := range t.tracks {
		list = append(list, tr)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Tracks returns a copy of all live tracks ordered by ID
func (t *Tracker) Tracks() []Track {
	sorted := t.sortedTracks()
	result := make([]Track, len(sorted))
	for i, tr := range sorted {
		result[i] = *tr
	}
	return result
}

// Len returns the number of live tracks
func (t *Tracker) Len() int {
	return len(t.tracks)
}

// Reset removes all tracks. IDs keep increasing so a reset never reuses one.
func (t *Tracker) Reset() {
	t.tracks = make(map[int]*Track)
}
