package activity

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/pose"
)

// Config holds engine settings
type Config struct {
	HistoryCapacity int              // Poses and positions kept per ring
	Thresholds      map[Type]float64 // Per-detector minimum confidence
	Logger          *slog.Logger
}

// DefaultThresholds returns the per-detector confidence floors
func DefaultThresholds() map[Type]float64 {
	return map[Type]float64{
		Loitering:         0.5,
		Pacing:            0.5,
		Crouching:         0.6,
		Hiding:            0.7,
		Climbing:          0.5,
		AggressiveGesture: 0.5,
		Vandalism:         0.5,
		Running:           0.5,
	}
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		HistoryCapacity: pose.DefaultCapacity,
		Thresholds:      DefaultThresholds(),
		Logger:          slog.Default(),
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	for t, v := range c.Thresholds {
		if _, err := ParseType(string(t)); err != nil {
			return err
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidThreshold, t, v)
		}
	}
	return nil
}

func (c *Config) threshold(t Type) float64 {
	if v, ok := c.Thresholds[t]; ok {
		return v
	}
	return DefaultThresholds()[t]
}

// Engine runs every detector against each pose.
// It owns the pose history and is not safe for concurrent use.
type Engine struct {
	detectors []Detector
	history   *pose.History
	logger    *slog.Logger
}

// NewEngine creates an engine with the full detector registry
func NewEngine(config Config) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		detectors: []Detector{
			NewLoiteringDetector(config.threshold(Loitering)),
			NewPacingDetector(config.threshold(Pacing)),
			NewCrouchingDetector(config.threshold(Crouching)),
			NewHidingDetector(config.threshold(Hiding)),
			NewClimbingDetector(config.threshold(Climbing)),
			NewAggressiveGestureDetector(config.threshold(AggressiveGesture)),
			NewVandalismDetector(config.threshold(Vandalism)),
			NewRunningDetector(config.threshold(Running)),
		},
		history: pose.NewHistory(config.HistoryCapacity),
		logger:  logger,
	}
}

// Analyze records p in the history and runs every detector.
// A nil or empty pose yields NoPoseDetected and leaves the history alone.
func (e *Engine) Analyze(p *pose.Pose, ts time.Time) Result {
	if p == nil || len(p.Landmarks) == 0 {
		return Result{Status: NoPoseDetected, Timestamp: ts}
	}

	e.history.Add(p, ts)

	var findings []Finding
	for _, d := range e.detectors {
		a := d.Analyze(p, e.history)
		if !a.Detected || a.Confidence < d.Threshold() {
			continue
		}
		findings = append(findings, Finding{
			Type:       d.Type(),
			Confidence: a.Confidence,
			Duration:   a.Duration,
			Details:    a.Details,
		})
		e.logger.Debug("activity detected",
			"type", d.Type(),
			"confidence", a.Confidence,
			"details", a.Details)
	}

	if len(findings) == 0 {
		return Result{Status: Normal, Timestamp: ts}
	}
	return Result{Status: Detected, Findings: findings, Timestamp: ts}
}

// Detectors returns the registry in evaluation order
func (e *Engine) Detectors() []Detector {
	return e.detectors
}

// History exposes the shared pose history
func (e *Engine) History() *pose.History {
	return e.history
}

// Reset clears the pose history
func (e *Engine) Reset() {
	e.history.Clear()
}
