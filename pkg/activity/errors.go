package activity

import "errors"

var (
	// ErrUnknownActivity is returned for an activity name outside Types
	ErrUnknownActivity = errors.New("activity: unknown activity type")

	// ErrInvalidThreshold is returned for a confidence threshold outside [0, 1]
	ErrInvalidThreshold = errors.New("activity: threshold must be in [0, 1]")
)
