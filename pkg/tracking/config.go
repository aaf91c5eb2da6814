package tracking

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the tunable parameters for frame-to-frame association
type Config struct {
	// IoUThreshold is the minimum overlap for a detection to continue a
	// track. Looser than NMS so moving objects keep their identity.
	IoUThreshold float64

	// MaxTrackingAge evicts tracks not matched for longer than this.
	MaxTrackingAge time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns the recommended configuration for ~30fps input
func DefaultConfig() Config {
	return Config{
		IoUThreshold:   0.3,
		MaxTrackingAge: 1000 * time.Millisecond,
		Logger:         slog.Default(),
	}
}

// LowFrameRateConfig tolerates larger gaps and more motion between frames,
// for cameras sampled at a few frames per second
func LowFrameRateConfig() Config {
	cfg := DefaultConfig()
	cfg.IoUThreshold = 0.2
	cfg.MaxTrackingAge = 3 * time.Second
	return cfg
}

// StrictConfig requires tighter overlap, for crowded scenes where
// identity switches are worse than fragmented tracks
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.IoUThreshold = 0.5
	return cfg
}

// Validate checks that the thresholds are usable.
func (c *Config) Validate() error {
	if c.IoUThreshold < 0 || c.IoUThreshold >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidIoU, c.IoUThreshold)
	}
	if c.MaxTrackingAge <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTrackingAge, c.MaxTrackingAge)
	}
	return nil
}
