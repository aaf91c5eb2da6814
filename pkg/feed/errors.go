package feed

import "errors"

var (
	// ErrUnknownMessage is returned for a message type other than
	// detections or pose
	ErrUnknownMessage = errors.New("feed: unknown message type")
)
