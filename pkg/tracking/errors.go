package tracking

import "errors"

// Sentinel errors for tracker configuration.
var (
	// ErrInvalidIoU is returned when the association threshold is outside [0, 1).
	ErrInvalidIoU = errors.New("tracking: IoU threshold must be in [0, 1)")

	// ErrInvalidTrackingAge is returned when the eviction age is not positive.
	ErrInvalidTrackingAge = errors.New("tracking: max tracking age must be positive")
)
