// Package metrics exposes pipeline activity as Prometheus metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

const namespace = "sentinel"

// Frame sources used as the "source" label
const (
	SourceDetections = "detections"
	SourcePose       = "pose"
)

// PipelineMetrics records per-frame pipeline outcomes
type PipelineMetrics struct {
	registry *prometheus.Registry

	framesTotal             *prometheus.CounterVec
	framesDroppedTotal      prometheus.Counter
	rejectedDetectionsTotal prometheus.Counter
	activeTracks            prometheus.Gauge
	alertsTotal             *prometheus.CounterVec
	findingsTotal           *prometheus.CounterVec
	frameDuration           *prometheus.HistogramVec
}

// NewPipelineMetrics creates and registers pipeline metrics
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames processed",
		},
		[]string{"source"}, // source: detections, pose
	)

	m.framesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames dropped because the processing queue was full",
		},
	)

	m.rejectedDetectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_detections_total",
			Help:      "Detections removed by the size and aspect filter",
		},
	)

	m.activeTracks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_tracks",
			Help:      "Tracks alive after the most recent detection frame",
		},
	)

	m.alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_triggered_total",
			Help:      "Security alerts that passed cooldown and stability checks",
		},
		[]string{"kind"},
	)

	m.findingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_findings_total",
			Help:      "Pose activity findings above their detector threshold",
		},
		[]string{"type"},
	)

	m.frameDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent processing one frame",
			// 50us to ~100ms
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		},
		[]string{"source"},
	)
}

// Describe implements the Collector interface
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.framesTotal.Describe(ch)
	m.framesDroppedTotal.Describe(ch)
	m.rejectedDetectionsTotal.Describe(ch)
	m.activeTracks.Describe(ch)
	m.alertsTotal.Describe(ch)
	m.findingsTotal.Describe(ch)
	m.frameDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	m.framesTotal.Collect(ch)
	m.framesDroppedTotal.Collect(ch)
	m.rejectedDetectionsTotal.Collect(ch)
	m.activeTracks.Collect(ch)
	m.alertsTotal.Collect(ch)
	m.findingsTotal.Collect(ch)
	m.frameDuration.Collect(ch)
}

// OnAlert implements pipeline.Observer
func (m *PipelineMetrics) OnAlert(ev pipeline.AlertEvent) {
	m.framesTotal.WithLabelValues(SourceDetections).Inc()
	m.frameDuration.WithLabelValues(SourceDetections).Observe(ev.Latency.Seconds())
	m.rejectedDetectionsTotal.Add(float64(ev.Rejected))
	m.activeTracks.Set(float64(len(ev.Tracks)))
	if ev.Result.ShouldTrigger {
		m.alertsTotal.WithLabelValues(string(ev.Result.Kind)).Inc()
	}
}

// OnActivity implements pipeline.Observer
func (m *PipelineMetrics) OnActivity(ev pipeline.ActivityEvent) {
	m.framesTotal.WithLabelValues(SourcePose).Inc()
	m.frameDuration.WithLabelValues(SourcePose).Observe(ev.Latency.Seconds())
	for _, f := range ev.Result.Findings {
		m.findingsTotal.WithLabelValues(string(f.Type)).Inc()
	}
}

// RecordDroppedFrame counts a frame the runner could not queue
func (m *PipelineMetrics) RecordDroppedFrame() {
	m.framesDroppedTotal.Inc()
}

// Registry returns the registry the metrics are registered with
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}
