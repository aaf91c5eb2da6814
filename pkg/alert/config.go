package alert

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Thresholds holds the per-rule confidence floors used by Classify
type Thresholds struct {
	Weapon             float64 // Weapon confidence for WEAPON_DETECTED
	Intruder           float64 // Person confidence counted toward MULTIPLE_INTRUDERS
	MinIntruders       int     // People needed for MULTIPLE_INTRUDERS
	VehiclePerson      float64 // Person and vehicle confidence for VEHICLE_WITH_PERSON
	SuspiciousPerson   float64 // Person confidence for SUSPICIOUS_ITEMS
	MinSuspiciousItems int     // Bags needed for SUSPICIOUS_ITEMS
	HighPerson         float64 // Person confidence for HIGH_CONFIDENCE_PERSON
}

// Weights holds the composite score weights; they must sum to 1.0
type Weights struct {
	Presence    float64
	Count       float64
	Interaction float64
}

// Sum returns the total weight
func (w Weights) Sum() float64 {
	return w.Presence + w.Count + w.Interaction
}

// Config holds all tunable parameters for alert stabilization
type Config struct {
	// Debounce
	AlertCooldown   time.Duration // Same kind cannot re-trigger within this window
	StabilityFrames int           // Consecutive qualifying frames before triggering

	// History and smoothing
	MaxHistorySize   int     // Frames kept for smoothing and corroboration
	SmoothingWeight  float64 // Alpha of the exponential history blend
	SmoothingWindow  int     // History entries blended into the smoothed confidence
	CorroborateCount int     // Non-NONE entries needed ...
	CorroborateOf    int     // ... among this many most recent entries

	// Scoring
	Weights               Weights
	MinScore              float64 // Scores below this are never actionable
	BypassSeverity        int     // Kinds at or above this skip corroboration
	CountSaturation       float64 // Detection count that maxes the count factor
	InteractionSaturation float64 // Interacting pairs that max the interaction factor
	InteractionRatio      float64 // AreNearby ratio for person/object pairs

	Thresholds Thresholds

	Logger *slog.Logger
}

// DefaultConfig returns the production alert configuration
func DefaultConfig() Config {
	return Config{
		AlertCooldown:   5000 * time.Millisecond,
		StabilityFrames: 3,

		MaxHistorySize:   10,
		SmoothingWeight:  0.7,
		SmoothingWindow:  5,
		CorroborateCount: 2,
		CorroborateOf:    3,

		Weights: Weights{
			Presence:    0.4,
			Count:       0.3,
			Interaction: 0.3,
		},
		MinScore:              0.3,
		BypassSeverity:        4,
		CountSaturation:       5,
		InteractionSaturation: 3,
		InteractionRatio:      0.3,

		Thresholds: Thresholds{
			Weapon:             0.7,
			Intruder:           0.7,
			MinIntruders:       3,
			VehiclePerson:      0.65,
			SuspiciousPerson:   0.65,
			MinSuspiciousItems: 2,
			HighPerson:         0.85,
		},

		Logger: slog.Default(),
	}
}

// SensitiveConfig triggers faster, for low-traffic areas where a missed
// intrusion costs more than an extra notification
func SensitiveConfig() Config {
	cfg := DefaultConfig()
	cfg.StabilityFrames = 2
	cfg.AlertCooldown = 3 * time.Second
	return cfg
}

// QuietConfig requires longer confirmation and backs off longer, for busy
// scenes such as shop fronts
func QuietConfig() Config {
	cfg := DefaultConfig()
	cfg.StabilityFrames = 5
	cfg.AlertCooldown = 15 * time.Second
	return cfg
}

// Validate checks the configuration once at construction.
func (c *Config) Validate() error {
	if math.Abs(c.Weights.Sum()-1.0) > 1e-6 {
		return fmt.Errorf("%w: got %.4f", ErrWeightsSum, c.Weights.Sum())
	}
	if c.StabilityFrames < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidStabilityFrames, c.StabilityFrames)
	}
	if c.MaxHistorySize < 1 || c.MaxHistorySize < c.CorroborateOf {
		return fmt.Errorf("%w: %d (corroboration needs %d)", ErrInvalidHistorySize,
			c.MaxHistorySize, c.CorroborateOf)
	}
	if c.SmoothingWeight <= 0 || c.SmoothingWeight > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidSmoothingWeight, c.SmoothingWeight)
	}
	return nil
}
