// Package pipeline wires the detection and pose stages into a per-frame
// process with a single writer.
//
// Pipeline serializes every frame and Reset behind one mutex, so a reset is
// never observed half-applied. Runner puts the same Pipeline behind a
// bounded queue drained by one goroutine.
package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/tracking"
)

// Status is a snapshot of pipeline state
type Status struct {
	SessionID      string       `json:"session_id"`
	Started        time.Time    `json:"started"`
	DetectionCount uint64       `json:"detection_frames"`
	PoseCount      uint64       `json:"pose_frames"`
	ActiveTracks   int          `json:"active_tracks"`
	PendingAlert   *alert.State `json:"pending_alert,omitempty"`
	LastTriggered  *AlertEvent  `json:"last_triggered,omitempty"`
}

// Pipeline runs filter, tracker, alert machine and activity engine
type Pipeline struct {
	mu sync.Mutex

	filter  *detection.Filter
	tracker *tracking.Tracker
	machine *alert.Machine
	engine  *activity.Engine
	logger  *slog.Logger

	sessionID     string
	started       time.Time
	detFrames     uint64
	poseFrames    uint64
	lastTriggered *AlertEvent

	obsMu     sync.RWMutex
	observers []Observer
}

// New creates a pipeline. The configuration should already be validated.
func New(config Config) *Pipeline {
	config = config.withLogger()
	return &Pipeline{
		filter:    detection.NewFilter(config.Filter),
		tracker:   tracking.New(config.Tracking),
		machine:   alert.NewMachine(config.Alert),
		engine:    activity.NewEngine(config.Activity),
		logger:    config.Logger,
		sessionID: uuid.NewString(),
		started:   time.Now(),
	}
}

// AddObserver registers o for every subsequent frame
func (p *Pipeline) AddObserver(o Observer) {
	p.obsMu.Lock()
	p.observers = append(p.observers, o)
	p.obsMu.Unlock()
}

// ProcessDetections filters, tracks and classifies one detection frame
func (p *Pipeline) ProcessDetections(f DetectionFrame) AlertEvent {
	start := time.Now()

	p.mu.Lock()
	kept := p.filter.Apply(f.Detections, f.Width, f.Height)
	tracked := p.tracker.Update(kept, f.Timestamp)
	result := p.machine.Process(tracked, f.Timestamp)
	p.detFrames++

	ev := AlertEvent{
		ID:        uuid.NewString(),
		SessionID: p.sessionID,
		Timestamp: f.Timestamp,
		Result:    result,
		Tracks:    tracked,
		Rejected:  len(f.Detections) - len(kept),
		Latency:   time.Since(start),
	}
	if result.ShouldTrigger {
		last := ev
		p.lastTriggered = &last
	}
	p.mu.Unlock()

	if result.ShouldTrigger {
		p.logger.Info("security alert",
			"id", ev.ID,
			"kind", result.Kind,
			"confidence", result.Confidence,
			"tracks", len(tracked))
	}

	for _, o := range p.snapshotObservers() {
		o.OnAlert(ev)
	}
	return ev
}

// ProcessPose runs the activity engine on one pose frame
func (p *Pipeline) ProcessPose(f PoseFrame) ActivityEvent {
	start := time.Now()

	p.mu.Lock()
	result := p.engine.Analyze(f.Pose, f.Timestamp)
	p.poseFrames++
	ev := ActivityEvent{
		ID:        uuid.NewString(),
		SessionID: p.sessionID,
		Timestamp: f.Timestamp,
		Result:    result,
		Latency:   time.Since(start),
	}
	p.mu.Unlock()

	for _, o := range p.snapshotObservers() {
		o.OnActivity(ev)
	}
	return ev
}

// Reset clears tracks, alert history, cooldowns and pose history, and
// starts a new session.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tracker.Reset()
	p.machine.Reset()
	p.engine.Reset()
	p.lastTriggered = nil
	p.detFrames = 0
	p.poseFrames = 0

	old := p.sessionID
	p.sessionID = uuid.NewString()
	p.started = time.Now()
	p.logger.Info("pipeline reset", "previous_session", old, "session", p.sessionID)
}

// Status returns a snapshot of the pipeline state
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Status{
		SessionID:      p.sessionID,
		Started:        p.started,
		DetectionCount: p.detFrames,
		PoseCount:      p.poseFrames,
		ActiveTracks:   p.tracker.Len(),
		PendingAlert:   p.machine.State(),
	}
	if p.lastTriggered != nil {
		last := *p.lastTriggered
		s.LastTriggered = &last
	}
	return s
}

// SessionID returns the current session identifier
func (p *Pipeline) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

func (p *Pipeline) snapshotObservers() []Observer {
	p.obsMu.RLock()
	defer p.obsMu.RUnlock()
	return append([]Observer(nil), p.observers...)
}
