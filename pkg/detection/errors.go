package detection

import "errors"

// Sentinel errors for filter configuration.
var (
	// ErrInvalidSizeRange is returned when the object size bounds are not 0 <= min < max <= 1.
	ErrInvalidSizeRange = errors.New("detection: invalid object size range")

	// ErrInvalidAspectRange is returned when an aspect ratio range is empty or non-positive.
	ErrInvalidAspectRange = errors.New("detection: invalid aspect ratio range")
)
