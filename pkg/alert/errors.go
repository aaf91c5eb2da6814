package alert

import "errors"

// Sentinel errors for alert configuration.
var (
	// ErrWeightsSum is returned when the scorer weights do not sum to 1.
	ErrWeightsSum = errors.New("alert: scorer weights must sum to 1.0")

	// ErrInvalidStabilityFrames is returned when fewer than one frame is required to trigger.
	ErrInvalidStabilityFrames = errors.New("alert: stability frames must be at least 1")

	// ErrInvalidHistorySize is returned when the history ring cannot hold the corroboration window.
	ErrInvalidHistorySize = errors.New("alert: history size too small")

	// ErrInvalidSmoothingWeight is returned when the smoothing weight is outside (0, 1].
	ErrInvalidSmoothingWeight = errors.New("alert: smoothing weight must be in (0, 1]")
)
