package alert

import (
	"time"

	"github.com/gammazero/deque"
	"github.com/teslashibe/go-sentinel/pkg/detection"
)

// HistoryEntry records one processed frame
type HistoryEntry struct {
	Timestamp  time.Time
	Detections []detection.TrackedDetection
	Classified Kind // Preliminary classification for the frame
}

// History is a bounded ring of recent frames; the oldest entry is
// dropped when a new one would exceed capacity.
type History struct {
	entries  deque.Deque[HistoryEntry]
	capacity int
}

// NewHistory creates a history ring holding at most capacity entries
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Append adds an entry, evicting the oldest when full
func (h *History) Append(e HistoryEntry) {
	for h.entries.Len() >= h.capacity {
		h.entries.PopFront()
	}
	h.entries.PushBack(e)
}

// Len returns the number of stored entries
func (h *History) Len() int {
	return h.entries.Len()
}

// Cap returns the maximum number of entries
func (h *History) Cap() int {
	return h.capacity
}

// Recent returns up to n entries, newest first
func (h *History) Recent(n int) []HistoryEntry {
	if n > h.entries.Len() {
		n = h.entries.Len()
	}
	out := make([]HistoryEntry, 0, n)
	for i := h.entries.Len() - 1; i >= h.entries.Len()-n; i-- {
		out = append(out, h.entries.At(i))
	}
	return out
}

// Entries returns every entry, oldest first
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, h.entries.Len())
	for i := range out {
		out[i] = h.entries.At(i)
	}
	return out
}

// CountAlerts returns how many of the n most recent entries carry a
// non-NONE classification
func (h *History) CountAlerts(n int) int {
	count := 0
	for _, e := range h.Recent(n) {
		if !e.Classified.IsNone() {
			count++
		}
	}
	return count
}

// Clear removes all entries
func (h *History) Clear() {
	h.entries.Clear()
}
