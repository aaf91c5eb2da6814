package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type job struct {
	detections *DetectionFrame
	pose       *PoseFrame
	reset      bool
}

// Runner drains a bounded frame queue on a single goroutine.
//
// Submit never blocks: when the queue is full the frame is dropped, which
// the tracker and histories tolerate because they work from timestamps.
type Runner struct {
	pipeline *Pipeline
	queue    chan job
	logger   *slog.Logger

	// OnDrop, when set, is called for every dropped frame
	OnDrop func()

	dropped atomic.Uint64
	done    chan struct{}
	once    sync.Once
}

// NewRunner creates a runner with the given queue depth
func NewRunner(p *Pipeline, queueSize int) *Runner {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Runner{
		pipeline: p,
		queue:    make(chan job, queueSize),
		logger:   p.logger.With("component", "runner"),
		done:     make(chan struct{}),
	}
}

// Run processes queued frames until ctx is cancelled. Frames still queued
// at that point are discarded.
func (r *Runner) Run(ctx context.Context) {
	defer r.once.Do(func() { close(r.done) })

	r.logger.Debug("runner started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("runner stopped", "pending", len(r.queue), "dropped", r.dropped.Load())
			return
		case j := <-r.queue:
			switch {
			case j.reset:
				r.pipeline.Reset()
			case j.detections != nil:
				r.pipeline.ProcessDetections(*j.detections)
			case j.pose != nil:
				r.pipeline.ProcessPose(*j.pose)
			}
		}
	}
}

// SubmitDetections queues a detection frame
func (r *Runner) SubmitDetections(f DetectionFrame) error {
	return r.submit(job{detections: &f})
}

// SubmitPose queues a pose frame
func (r *Runner) SubmitPose(f PoseFrame) error {
	return r.submit(job{pose: &f})
}

// Reset queues a pipeline reset behind any frames already submitted
func (r *Runner) Reset() error {
	return r.submit(job{reset: true})
}

func (r *Runner) submit(j job) error {
	select {
	case <-r.done:
		return ErrRunnerStopped
	default:
	}

	select {
	case r.queue <- j:
		return nil
	default:
		r.dropped.Add(1)
		if r.OnDrop != nil {
			r.OnDrop()
		}
		return ErrFrameDropped
	}
}

// Dropped returns the number of frames dropped because the queue was full
func (r *Runner) Dropped() uint64 {
	return r.dropped.Load()
}

// Done is closed once Run has returned
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
