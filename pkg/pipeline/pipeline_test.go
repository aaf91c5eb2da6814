package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/geometry"
)

var t0 = time.Date(2026, 5, 4, 2, 30, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func knifeFrame(ms int) DetectionFrame {
	return DetectionFrame{
		Timestamp: at(ms),
		Width:     640,
		Height:    480,
		Detections: []detection.Detection{
			{Label: "knife", Confidence: 0.9, Box: geometry.NewRect(200, 300, 180, 40), ClassID: 43},
			{Label: "person", Confidence: 0.6, Box: geometry.NewRect(10, 10, 5, 5)}, // too small
		},
	}
}

type recorder struct {
	mu         sync.Mutex
	alerts     []AlertEvent
	activities []ActivityEvent
	notify     chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 64)}
}

func (r *recorder) OnAlert(ev AlertEvent) {
	r.mu.Lock()
	r.alerts = append(r.alerts, ev)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recorder) OnActivity(ev ActivityEvent) {
	r.mu.Lock()
	r.activities = append(r.activities, ev)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
}

func TestProcessDetectionsTriggersWeapon(t *testing.T) {
	p := New(DefaultConfig())
	rec := newRecorder()
	p.AddObserver(rec)

	var ev AlertEvent
	for _, ms := range []int{0, 33, 66} {
		ev = p.ProcessDetections(knifeFrame(ms))
	}

	assert.True(t, ev.Result.ShouldTrigger)
	assert.Equal(t, alert.KindWeaponDetected, ev.Result.Kind)
	assert.Equal(t, 1, ev.Rejected)
	require.Len(t, ev.Tracks, 1)
	assert.Equal(t, 3, ev.Tracks[0].FrameCount)
	assert.Equal(t, p.SessionID(), ev.SessionID)
	assert.NotEmpty(t, ev.ID)

	rec.wait(t, 3)
	assert.Len(t, rec.alerts, 3)

	st := p.Status()
	assert.Equal(t, uint64(3), st.DetectionCount)
	assert.Equal(t, 1, st.ActiveTracks)
	require.NotNil(t, st.LastTriggered)
	assert.Equal(t, ev.ID, st.LastTriggered.ID)
}

func TestProcessPose(t *testing.T) {
	p := New(DefaultConfig())

	ev := p.ProcessPose(PoseFrame{Timestamp: at(0)})
	assert.Equal(t, activity.NoPoseDetected, ev.Result.Status)
	assert.Equal(t, uint64(1), p.Status().PoseCount)
}

func TestResetStartsNewSession(t *testing.T) {
	p := New(DefaultConfig())
	for _, ms := range []int{0, 33} {
		p.ProcessDetections(knifeFrame(ms))
	}
	before := p.SessionID()
	require.NotNil(t, p.Status().PendingAlert)

	p.Reset()

	st := p.Status()
	assert.NotEqual(t, before, st.SessionID)
	assert.Zero(t, st.ActiveTracks)
	assert.Zero(t, st.DetectionCount)
	assert.Nil(t, st.PendingAlert)
	assert.Nil(t, st.LastTriggered)

	ev := p.ProcessDetections(knifeFrame(100))
	require.Len(t, ev.Tracks, 1)
	assert.Equal(t, 1, ev.Tracks[0].FrameCount, "tracks start over after reset")
}

func TestConcurrentFramesAreSerialized(t *testing.T) {
	p := New(DefaultConfig())

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				p.ProcessDetections(knifeFrame(g*1000 + i*33))
				p.ProcessPose(PoseFrame{Timestamp: at(g*1000 + i*33)})
				if i == 10 && g == 0 {
					p.Reset()
				}
			}
		}(g)
	}
	wg.Wait()

	st := p.Status()
	assert.LessOrEqual(t, st.DetectionCount, uint64(100))
	assert.LessOrEqual(t, st.ActiveTracks, 1)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.QueueSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidQueueSize)

	cfg = DefaultConfig()
	cfg.Alert.Weights.Count = 0.5
	assert.ErrorIs(t, cfg.Validate(), alert.ErrWeightsSum)
}
