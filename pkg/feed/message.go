// Package feed ingests frames from an inference service, either live over
// a websocket or replayed from a JSON-lines recording, and hands them to
// the pipeline.
package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
	"github.com/teslashibe/go-sentinel/pkg/pose"
)

// Message types on the wire
const (
	TypeDetections = "detections"
	TypePose       = "pose"
)

// Message is one inference result as sent by the inference service.
// Timestamps are milliseconds on the producer's monotonic clock.
type Message struct {
	Type        string                `json:"type"`
	TimestampMs int64                 `json:"timestamp_ms"`
	Width       float64               `json:"width,omitempty"`
	Height      float64               `json:"height,omitempty"`
	Detections  []detection.Detection `json:"detections,omitempty"`
	Pose        *pose.Pose            `json:"pose,omitempty"`
}

// Sink accepts decoded frames. *pipeline.Runner satisfies it.
type Sink interface {
	SubmitDetections(pipeline.DetectionFrame) error
	SubmitPose(pipeline.PoseFrame) error
}

// Decode parses one message and delivers it to sink
func Decode(data []byte, sink Sink) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return Deliver(msg, sink)
}

// Deliver converts msg into a pipeline frame and submits it
func Deliver(msg Message, sink Sink) error {
	ts := time.UnixMilli(msg.TimestampMs)
	switch msg.Type {
	case TypeDetections:
		return sink.SubmitDetections(pipeline.DetectionFrame{
			Timestamp:  ts,
			Width:      msg.Width,
			Height:     msg.Height,
			Detections: msg.Detections,
		})
	case TypePose:
		return sink.SubmitPose(pipeline.PoseFrame{Timestamp: ts, Pose: msg.Pose})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// Direct adapts a Pipeline into a synchronous Sink
func Direct(p *pipeline.Pipeline) Sink {
	return directSink{p}
}

type directSink struct {
	p *pipeline.Pipeline
}

func (d directSink) SubmitDetections(f pipeline.DetectionFrame) error {
	d.p.ProcessDetections(f)
	return nil
}

func (d directSink) SubmitPose(f pipeline.PoseFrame) error {
	d.p.ProcessPose(f)
	return nil
}
