package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

type fakeStatus struct{ st pipeline.Status }

func (f fakeStatus) Status() pipeline.Status { return f.st }

func triggered(id string) pipeline.AlertEvent {
	return pipeline.AlertEvent{
		ID:     id,
		Result: alert.Result{Kind: alert.KindWeaponDetected, ShouldTrigger: true, Confidence: 0.9},
	}
}

func get(t *testing.T, s *Server, path string, v any) int {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return resp.StatusCode
}

func TestStatusEndpoint(t *testing.T) {
	s := NewServer(Options{Status: fakeStatus{pipeline.Status{SessionID: "abc", ActiveTracks: 2}}})

	var got struct {
		Pipeline pipeline.Status `json:"pipeline"`
	}
	assert.Equal(t, 200, get(t, s, "/api/status", &got))
	assert.Equal(t, "abc", got.Pipeline.SessionID)
	assert.Equal(t, 2, got.Pipeline.ActiveTracks)

	empty := NewServer(Options{})
	assert.Equal(t, 503, get(t, empty, "/api/status", nil))
}

func TestAlertsKeepsTriggeredOnly(t *testing.T) {
	s := NewServer(Options{})

	s.OnAlert(pipeline.AlertEvent{ID: "quiet", Result: alert.Result{Kind: alert.KindWeaponDetected}})
	s.OnAlert(triggered("first"))
	s.OnAlert(triggered("second"))

	var got []pipeline.AlertEvent
	assert.Equal(t, 200, get(t, s, "/api/alerts", &got))
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].ID, "newest first")

	assert.Equal(t, 200, get(t, s, "/api/alerts?limit=1", &got))
	assert.Len(t, got, 1)
}

func TestAlertsBounded(t *testing.T) {
	s := NewServer(Options{})
	for i := 0; i < recentLimit+20; i++ {
		s.OnAlert(triggered("a"))
	}
	assert.Len(t, s.recentAlerts(0), recentLimit)
}

func TestActivitiesEndpoint(t *testing.T) {
	s := NewServer(Options{})
	ts := time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC)

	s.OnActivity(pipeline.ActivityEvent{ID: "n", Result: activity.Result{Status: activity.Normal}})
	s.OnActivity(pipeline.ActivityEvent{
		ID:        "e1",
		Timestamp: ts,
		Result: activity.Result{
			Status:   activity.Detected,
			Findings: []activity.Finding{{Type: activity.Loitering, Confidence: 0.9}},
		},
	})

	var got []FindingEntry
	assert.Equal(t, 200, get(t, s, "/api/activities", &got))
	require.Len(t, got, 1)
	assert.Equal(t, activity.Loitering, got[0].Type)
	assert.Equal(t, "e1", got[0].EventID)
	assert.True(t, ts.Equal(got[0].Timestamp))
}

func TestResetEndpoint(t *testing.T) {
	calls := 0
	s := NewServer(Options{Reset: func() error { calls++; return nil }})
	s.OnAlert(triggered("x"))

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/reset", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, calls)
	assert.Empty(t, s.recentAlerts(0))

	failing := NewServer(Options{Reset: func() error { return errors.New("runner stopped") }})
	resp, err = failing.app.Test(httptest.NewRequest("POST", "/api/reset", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 500, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "sentinel_test_total", Help: "test"})
	registry.MustRegister(c)
	c.Inc()

	s := NewServer(Options{Registry: registry})
	resp, err := s.app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sentinel_test_total 1")
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	s := NewServer(Options{})
	assert.Equal(t, 426, get(t, s, "/ws/events", nil))
}
