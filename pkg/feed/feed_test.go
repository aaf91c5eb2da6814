package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

type recordingSink struct {
	mu     sync.Mutex
	dets   []pipeline.DetectionFrame
	poses  []pipeline.PoseFrame
	frames chan struct{}
	err    error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{frames: make(chan struct{}, 16)}
}

func (s *recordingSink) SubmitDetections(f pipeline.DetectionFrame) error {
	s.mu.Lock()
	s.dets = append(s.dets, f)
	s.mu.Unlock()
	s.frames <- struct{}{}
	return s.err
}

func (s *recordingSink) SubmitPose(f pipeline.PoseFrame) error {
	s.mu.Lock()
	s.poses = append(s.poses, f)
	s.mu.Unlock()
	s.frames <- struct{}{}
	return s.err
}

const detectionsLine = `{"type":"detections","timestamp_ms":1000,"width":640,"height":480,` +
	`"detections":[{"label":"knife","confidence":0.9,"box":{"left":200,"top":300,"right":380,"bottom":340},"class_id":43}]}`

const poseLine = `{"type":"pose","timestamp_ms":1033}`

func TestDecode(t *testing.T) {
	sink := newRecordingSink()

	require.NoError(t, Decode([]byte(detectionsLine), sink))
	require.NoError(t, Decode([]byte(poseLine), sink))

	require.Len(t, sink.dets, 1)
	f := sink.dets[0]
	assert.Equal(t, time.UnixMilli(1000), f.Timestamp)
	assert.Equal(t, 640.0, f.Width)
	require.Len(t, f.Detections, 1)
	assert.Equal(t, "knife", f.Detections[0].Label)
	assert.Equal(t, 380.0, f.Detections[0].Box.Right)

	require.Len(t, sink.poses, 1)
	assert.Nil(t, sink.poses[0].Pose)
}

func TestDecodeErrors(t *testing.T) {
	sink := newRecordingSink()

	err := Decode([]byte(`{"type":"audio"}`), sink)
	assert.True(t, errors.Is(err, ErrUnknownMessage), "got %v", err)

	assert.Error(t, Decode([]byte(`{not json`), sink))
	assert.Empty(t, sink.dets)
}

func TestReplay(t *testing.T) {
	recording := strings.Join([]string{
		detectionsLine,
		"",
		"garbage",
		poseLine,
		`{"type":"thermal","timestamp_ms":1066}`,
	}, "\n")

	sink := newRecordingSink()
	stats, err := Replay(context.Background(), strings.NewReader(recording), sink, ReplayOptions{})
	require.NoError(t, err)
	assert.Equal(t, ReplayStats{Lines: 5, Frames: 2, Skipped: 2}, stats)
}

func TestReplayThroughPipeline(t *testing.T) {
	var lines []string
	for _, ts := range []string{"1000", "1033", "1066"} {
		lines = append(lines, strings.Replace(detectionsLine, `"timestamp_ms":1000`, `"timestamp_ms":`+ts, 1))
	}

	p := pipeline.New(pipeline.DefaultConfig())
	stats, err := Replay(context.Background(), strings.NewReader(strings.Join(lines, "\n")), Direct(p), ReplayOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Frames)

	st := p.Status()
	require.NotNil(t, st.LastTriggered)
	assert.Equal(t, "WEAPON_DETECTED", string(st.LastTriggered.Result.Kind))

	ev := p.ProcessPose(pipeline.PoseFrame{Timestamp: time.UnixMilli(1100)})
	assert.Equal(t, activity.NoPoseDetected, ev.Result.Status)
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Replay(ctx, strings.NewReader(detectionsLine), newRecordingSink(), ReplayOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientReadsFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.WriteMessage(websocket.TextMessage, []byte(detectionsLine))
		ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"unknown"}`))
		ws.WriteMessage(websocket.TextMessage, []byte(poseLine))
		// Hold the connection until the client goes away
		ws.ReadMessage()
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	sink := newRecordingSink()
	client := NewClient(cfg, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-sink.frames:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for frames")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Len(t, sink.dets, 1)
	assert.Len(t, sink.poses, 1)
}

func TestClientStopsWhenRunnerStops(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.WriteMessage(websocket.TextMessage, []byte(detectionsLine))
		ws.ReadMessage()
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	sink := newRecordingSink()
	sink.err = pipeline.ErrRunnerStopped

	err := NewClient(cfg, sink).Run(context.Background())
	assert.ErrorIs(t, err, pipeline.ErrRunnerStopped)
}

func TestBackoff(t *testing.T) {
	b := newBackoff(0, 0)
	assert.Equal(t, minReconnectDelay, b.Next(), "zero delay is floored")
	assert.Equal(t, minReconnectDelay, b.Next(), "max never below min")

	b = newBackoff(200*time.Millisecond, time.Second)
	assert.Equal(t, 200*time.Millisecond, b.Next())
	assert.Equal(t, 400*time.Millisecond, b.Next())
	assert.Equal(t, 800*time.Millisecond, b.Next())
	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, time.Second, b.Next())

	b.Reset()
	assert.Equal(t, 200*time.Millisecond, b.Next())
}

func TestClientBackoffResetsAfterConnecting(t *testing.T) {
	var conns atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns.Add(1)
		ws.Close()
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.ReconnectDelay = 100 * time.Millisecond
	cfg.MaxReconnectDelay = 10 * time.Second
	client := NewClient(cfg, newRecordingSink())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	// Without a reset the sixth connection would come after 3.1s of waits.
	require.Eventually(t, func() bool { return conns.Load() >= 6 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
