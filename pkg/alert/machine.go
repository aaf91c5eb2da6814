package alert

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/detection"
)

// State is the pending or confirmed alert. At most one exists at a time.
type State struct {
	Kind               Kind
	FirstDetected      time.Time
	LastDetected       time.Time
	ConsecutiveCount   int
	SmoothedConfidence float64
}

// Result is the per-frame output of the machine
type Result struct {
	Kind          Kind    `json:"kind"`
	Confidence    float64 `json:"confidence"`
	ShouldTrigger bool    `json:"should_trigger"`
	Reason        string  `json:"reason"` // Diagnostic only
	Score         Score   `json:"score"`
}

// Machine debounces classified frames into alerts.
//
// It owns the detection history and the alert state and is not safe for
// concurrent use; callers serialize Process and Reset.
type Machine struct {
	config  Config
	logger  *slog.Logger
	history *History

	state         *State
	lastConfirmed map[Kind]time.Time
}

// NewMachine creates an alert state machine
func NewMachine(config Config) *Machine {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		config:        config,
		logger:        logger,
		history:       NewHistory(config.MaxHistorySize),
		lastConfirmed: make(map[Kind]time.Time),
	}
}

// Process classifies one frame of tracked detections and advances the
// alert state. It never fails; anything that does not qualify yields a
// NONE result and clears the pending state.
func (m *Machine) Process(tracked []detection.TrackedDetection, now time.Time) Result {
	use := StableDetections(tracked)
	kind := Classify(use, m.config.Thresholds)
	smoothed := SmoothedConfidence(use, m.history, m.config.SmoothingWeight, m.config.SmoothingWindow)
	score := ComputeScore(use, smoothed, m.config)
	corroborated := Corroborated(score.Total, kind, m.history, m.config)

	m.history.Append(HistoryEntry{
		Timestamp:  now,
		Detections: tracked,
		Classified: kind,
	})

	result := Result{
		Kind:       KindNone,
		Confidence: smoothed,
		Score:      score,
	}

	switch {
	case kind.IsNone():
		m.clear("no alert condition")
		result.Reason = "no alert condition"
		return result

	case !corroborated:
		m.clear("not corroborated")
		if score.Total < m.config.MinScore {
			result.Reason = fmt.Sprintf("%s score %.2f below %.2f", kind, score.Total, m.config.MinScore)
		} else {
			result.Reason = fmt.Sprintf("%s awaiting corroboration", kind)
		}
		return result

	case m.coolingDown(kind, now):
		m.clear("cooldown")
		result.Reason = fmt.Sprintf("%s in cooldown", kind)
		return result
	}

	if m.state == nil || m.state.Kind != kind {
		if m.state != nil {
			m.logger.Debug("alert kind changed", "from", m.state.Kind, "to", kind)
		}
		m.state = &State{Kind: kind, FirstDetected: now}
	}
	m.state.ConsecutiveCount++
	m.state.LastDetected = now
	m.state.SmoothedConfidence = smoothed

	result.Kind = kind
	if m.state.ConsecutiveCount < m.config.StabilityFrames {
		result.Reason = fmt.Sprintf("%s stabilizing %d/%d", kind,
			m.state.ConsecutiveCount, m.config.StabilityFrames)
		return result
	}

	m.lastConfirmed[kind] = now
	result.ShouldTrigger = true
	result.Reason = fmt.Sprintf("%s confirmed after %d frames (score %.2f)", kind,
		m.state.ConsecutiveCount, score.Total)

	m.logger.Info("alert triggered",
		"kind", kind,
		"confidence", smoothed,
		"score", score.Total,
		"frames", m.state.ConsecutiveCount)

	return result
}

func (m *Machine) coolingDown(kind Kind, now time.Time) bool {
	last, ok := m.lastConfirmed[kind]
	return ok && now.Sub(last) < m.config.AlertCooldown
}

func (m *Machine) clear(reason string) {
	if m.state != nil {
		m.logger.Debug("alert state cleared", "kind", m.state.Kind, "reason", reason)
	}
	m.state = nil
}

// State returns a copy of the pending alert, or nil when there is none
func (m *Machine) State() *State {
	if m.state == nil {
		return nil
	}
	s := *m.state
	return &s
}

// History returns the frame history, oldest first
func (m *Machine) History() []HistoryEntry {
	return m.history.Entries()
}

// Reset clears history, pending state and cooldowns
func (m *Machine) Reset() {
	m.history.Clear()
	m.state = nil
	m.lastConfirmed = make(map[Kind]time.Time)
}
