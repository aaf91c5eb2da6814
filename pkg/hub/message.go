// Package hub fans pipeline events out to websocket clients using a
// channel-based broadcast loop.
package hub

import (
	"encoding/json"
	"time"
)

// Message is one pre-encoded JSON payload queued for every client
type Message struct {
	Data []byte
}

// NewJSONMessage creates a message from pre-encoded JSON bytes
func NewJSONMessage(data []byte) Message {
	return Message{Data: data}
}

// Event topics
const (
	TopicAlert    = "alert"
	TopicActivity = "activity"
	TopicReset    = "reset"
)

// Envelope wraps an event payload with its topic
type Envelope struct {
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Encode marshals the envelope into a JSON message
func (e Envelope) Encode() (Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Message{}, err
	}
	return NewJSONMessage(data), nil
}
