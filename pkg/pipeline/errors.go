package pipeline

import "errors"

var (
	// ErrRunnerStopped is returned when submitting to a runner that has exited
	ErrRunnerStopped = errors.New("pipeline: runner stopped")

	// ErrFrameDropped is returned when the runner queue is full
	ErrFrameDropped = errors.New("pipeline: queue full, frame dropped")

	// ErrInvalidQueueSize is returned for a queue depth below one
	ErrInvalidQueueSize = errors.New("pipeline: queue size must be at least 1")
)
