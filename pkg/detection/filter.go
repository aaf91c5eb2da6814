package detection

import (
	"fmt"
	"log/slog"
	"math"
)

// AspectRange bounds width/height for a class.
type AspectRange struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

// Contains reports whether ratio lies within [Min, Max].
func (r AspectRange) Contains(ratio float64) bool {
	return ratio >= r.Min && ratio <= r.Max
}

// FilterConfig holds the plausibility bounds for detections
type FilterConfig struct {
	MinObjectSizePercent float64 // Minimum box area as a fraction of the frame
	MaxObjectSizePercent float64 // Maximum box area as a fraction of the frame
	MinAspectRatio       float64 // Global width/height floor
	MaxAspectRatio       float64 // Global width/height ceiling
	MinSidePixels        float64 // Absolute floor on box width and height

	// ClassAspectRatios narrows the global range for specific labels.
	ClassAspectRatios map[string]AspectRange

	Logger *slog.Logger
}

// DefaultClassAspectRatios returns the per-class aspect table.
func DefaultClassAspectRatios() map[string]AspectRange {
	return map[string]AspectRange{
		"person":     {Min: 0.3, Max: 3.0},
		"knife":      {Min: 2.0, Max: 10.0},
		"car":        {Min: 1.0, Max: 4.0},
		"truck":      {Min: 0.8, Max: 4.0},
		"bus":        {Min: 1.0, Max: 4.5},
		"motorcycle": {Min: 0.6, Max: 2.5},
		"bicycle":    {Min: 0.6, Max: 2.5},
		"backpack":   {Min: 0.4, Max: 1.5},
		"handbag":    {Min: 0.5, Max: 2.5},
	}
}

// DefaultFilterConfig returns the production filter bounds
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinObjectSizePercent: 0.02,
		MaxObjectSizePercent: 0.95,
		MinAspectRatio:       0.2,
		MaxAspectRatio:       5.0,
		MinSidePixels:        10,
		ClassAspectRatios:    DefaultClassAspectRatios(),
		Logger:               slog.Default(),
	}
}

// Validate checks that the bounds describe non-empty ranges.
func (c *FilterConfig) Validate() error {
	if c.MinObjectSizePercent < 0 || c.MaxObjectSizePercent > 1 ||
		c.MinObjectSizePercent >= c.MaxObjectSizePercent {
		return fmt.Errorf("%w: [%.3f, %.3f]", ErrInvalidSizeRange,
			c.MinObjectSizePercent, c.MaxObjectSizePercent)
	}
	if c.MinAspectRatio <= 0 || c.MinAspectRatio >= c.MaxAspectRatio {
		return fmt.Errorf("%w: global [%.2f, %.2f]", ErrInvalidAspectRange,
			c.MinAspectRatio, c.MaxAspectRatio)
	}
	for label, r := range c.ClassAspectRatios {
		if r.Min <= 0 || r.Min >= r.Max {
			return fmt.Errorf("%w: %s [%.2f, %.2f]", ErrInvalidAspectRange, label, r.Min, r.Max)
		}
	}
	return nil
}

// Filter rejects detections whose size or shape is implausible for the
// frame or for their class.
type Filter struct {
	config FilterConfig
	logger *slog.Logger
}

// NewFilter creates a detection filter
func NewFilter(cfg FilterConfig) *Filter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{config: cfg, logger: logger}
}

// Apply returns the detections that pass every check, in input order.
// Rejected detections are dropped silently apart from a debug log line.
func (f *Filter) Apply(dets []Detection, frameWidth, frameHeight float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if reason := f.Check(d, frameWidth, frameHeight); reason != "" {
			f.logger.Debug("detection rejected",
				"label", d.Label,
				"confidence", d.Confidence,
				"reason", reason)
			continue
		}
		out = append(out, d)
	}
	return out
}

// Check returns why d fails the filter, or "" when it passes.
func (f *Filter) Check(d Detection, frameWidth, frameHeight float64) string {
	box := d.Box
	if !box.IsFinite() || math.IsNaN(d.Confidence) {
		return "non-finite values"
	}
	if box.Left < 0 || box.Top < 0 || box.Right < 0 || box.Bottom < 0 {
		return "negative coordinates"
	}
	if !(frameWidth > 0) || !(frameHeight > 0) {
		return "invalid frame size"
	}

	w, h := box.Width(), box.Height()
	if w < f.config.MinSidePixels || h < f.config.MinSidePixels {
		return fmt.Sprintf("too small %.0fx%.0f", w, h)
	}

	sizeRatio := box.Area() / (frameWidth * frameHeight)
	if sizeRatio < f.config.MinObjectSizePercent || sizeRatio > f.config.MaxObjectSizePercent {
		return fmt.Sprintf("size %.3f of frame", sizeRatio)
	}

	aspect := box.AspectRatio()
	if aspect < f.config.MinAspectRatio || aspect > f.config.MaxAspectRatio {
		return fmt.Sprintf("aspect %.2f outside global range", aspect)
	}
	if r, ok := f.config.ClassAspectRatios[d.Label]; ok && !r.Contains(aspect) {
		return fmt.Sprintf("aspect %.2f outside %s range", aspect, d.Label)
	}

	return ""
}
