// Package web serves the monitoring API: pipeline status, recent alerts
// and activity findings, reset, Prometheus metrics and a live event stream.
package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/hub"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

// recentLimit is how many alerts and findings the API keeps
const recentLimit = 100

// StatusSource reports pipeline state
type StatusSource interface {
	Status() pipeline.Status
}

// Options configures a Server
type Options struct {
	Addr     string
	Status   StatusSource
	Reset    func() error         // Called by POST /api/reset
	Registry *prometheus.Registry // Served on /metrics when set
	Logger   *slog.Logger
}

// FindingEntry is an activity finding with its frame context
type FindingEntry struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	activity.Finding
	Timestamp time.Time `json:"timestamp"`
}

// Server is the monitoring HTTP server
type Server struct {
	app    *fiber.App
	addr   string
	status StatusSource
	reset  func() error
	logger *slog.Logger

	events *hub.Hub

	mu       sync.RWMutex
	alerts   deque.Deque[pipeline.AlertEvent]
	findings deque.Deque[FindingEntry]
}

// NewServer creates the monitoring server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:   opts.Addr,
		status: opts.Status,
		reset:  opts.Reset,
		logger: logger.With("component", "web"),
		events: hub.New("events", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Sentinel",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/alerts", s.handleAlerts)
	api.Get("/activities", s.handleActivities)
	api.Post("/reset", s.handleReset)

	if opts.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry})))
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	go s.events.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("monitoring server listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.Shutdown(); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// OnAlert implements pipeline.Observer. Only triggered alerts are kept
// and streamed.
func (s *Server) OnAlert(ev pipeline.AlertEvent) {
	if !ev.Result.ShouldTrigger {
		return
	}

	s.mu.Lock()
	if s.alerts.Len() >= recentLimit {
		s.alerts.PopFront()
	}
	s.alerts.PushBack(ev)
	s.mu.Unlock()

	s.publish(hub.TopicAlert, ev)
}

// OnActivity implements pipeline.Observer
func (s *Server) OnActivity(ev pipeline.ActivityEvent) {
	if ev.Result.Status != activity.Detected {
		return
	}

	s.mu.Lock()
	for _, f := range ev.Result.Findings {
		if s.findings.Len() >= recentLimit {
			s.findings.PopFront()
		}
		s.findings.PushBack(FindingEntry{
			EventID:   ev.ID,
			SessionID: ev.SessionID,
			Finding:   f,
			Timestamp: ev.Timestamp,
		})
	}
	s.mu.Unlock()

	s.publish(hub.TopicActivity, ev)
}

// Hub returns the live event hub
func (s *Server) Hub() *hub.Hub {
	return s.events
}

func (s *Server) publish(topic string, data any) {
	err := s.events.Publish(hub.Envelope{Topic: topic, Timestamp: timeNow(), Data: data})
	if err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// recentAlerts returns up to n triggered alerts, newest first
func (s *Server) recentAlerts(n int) []pipeline.AlertEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > s.alerts.Len() {
		n = s.alerts.Len()
	}
	out := make([]pipeline.AlertEvent, 0, n)
	for i := s.alerts.Len() - 1; len(out) < n; i-- {
		out = append(out, s.alerts.At(i))
	}
	return out
}

// recentFindings returns up to n findings, newest first
func (s *Server) recentFindings(n int) []FindingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > s.findings.Len() {
		n = s.findings.Len()
	}
	out := make([]FindingEntry, 0, n)
	for i := s.findings.Len() - 1; len(out) < n; i-- {
		out = append(out, s.findings.At(i))
	}
	return out
}

func (s *Server) clearRecent() {
	s.mu.Lock()
	s.alerts.Clear()
	s.findings.Clear()
	s.mu.Unlock()
}
