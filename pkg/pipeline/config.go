package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/tracking"
)

// Config bundles the stage configurations
type Config struct {
	Filter   detection.FilterConfig
	Tracking tracking.Config
	Alert    alert.Config
	Activity activity.Config

	QueueSize int // Runner frame queue depth

	Logger *slog.Logger
}

// DefaultConfig returns defaults for every stage
func DefaultConfig() Config {
	return Config{
		Filter:    detection.DefaultFilterConfig(),
		Tracking:  tracking.DefaultConfig(),
		Alert:     alert.DefaultConfig(),
		Activity:  activity.DefaultConfig(),
		QueueSize: 8,
		Logger:    slog.Default(),
	}
}

// Validate checks every stage configuration
func (c *Config) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := c.Tracking.Validate(); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	if err := c.Alert.Validate(); err != nil {
		return fmt.Errorf("alert: %w", err)
	}
	if err := c.Activity.Validate(); err != nil {
		return fmt.Errorf("activity: %w", err)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQueueSize, c.QueueSize)
	}
	return nil
}

// withLogger gives each stage a component logger derived from the pipeline
// logger unless the stage was configured with its own
func (c Config) withLogger() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	inherit := func(l *slog.Logger) bool { return l == nil || l == slog.Default() }
	if inherit(c.Filter.Logger) {
		c.Filter.Logger = c.Logger.With("component", "filter")
	}
	if inherit(c.Tracking.Logger) {
		c.Tracking.Logger = c.Logger.With("component", "tracker")
	}
	if inherit(c.Alert.Logger) {
		c.Alert.Logger = c.Logger.With("component", "alert")
	}
	if inherit(c.Activity.Logger) {
		c.Activity.Logger = c.Logger.With("component", "activity")
	}
	return c
}
