package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

// ClientConfig configures the live inference feed
type ClientConfig struct {
	URL               string
	Header            http.Header
	HandshakeTimeout  time.Duration
	ReconnectDelay    time.Duration // First retry delay; doubles up to MaxReconnectDelay
	MaxReconnectDelay time.Duration
	Logger            *slog.Logger
}

// DefaultClientConfig returns defaults for a local inference service
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:               "ws://127.0.0.1:8765/frames",
		HandshakeTimeout:  10 * time.Second,
		ReconnectDelay:    500 * time.Millisecond,
		MaxReconnectDelay: 10 * time.Second,
		Logger:            slog.Default(),
	}
}

// Client reads frames from an inference service websocket
type Client struct {
	config ClientConfig
	sink   Sink
	logger *slog.Logger
	dialer websocket.Dialer
}

// NewClient creates a feed client delivering into sink
func NewClient(config ClientConfig, sink Sink) *Client {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		sink:   sink,
		logger: logger.With("component", "feed", "url", config.URL),
		dialer: websocket.Dialer{HandshakeTimeout: config.HandshakeTimeout},
	}
}

// minReconnectDelay floors the retry delay so a zero config cannot spin
const minReconnectDelay = 100 * time.Millisecond

// backoff doubles the retry delay up to a cap
type backoff struct {
	min, max, next time.Duration
}

func newBackoff(initial, limit time.Duration) *backoff {
	if initial < minReconnectDelay {
		initial = minReconnectDelay
	}
	if limit < initial {
		limit = initial
	}
	return &backoff{min: initial, max: limit, next: initial}
}

// Next returns the delay to wait now and doubles the following one
func (b *backoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// Reset starts over from the minimum delay
func (b *backoff) Reset() {
	b.next = b.min
}

// Run connects and reads until ctx is cancelled, reconnecting with
// exponential backoff after failures. The backoff starts over after
// every session that managed to connect.
func (c *Client) Run(ctx context.Context) error {
	retry := newBackoff(c.config.ReconnectDelay, c.config.MaxReconnectDelay)
	for {
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, pipeline.ErrRunnerStopped) {
			return err
		}
		if connected {
			retry.Reset()
		}
		delay := retry.Next()
		c.logger.Warn("feed disconnected", "error", err, "retry_in", delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// session runs one connection to completion and reports whether the
// dial succeeded
func (c *Client) session(ctx context.Context) (bool, error) {
	ws, _, err := c.dialer.DialContext(ctx, c.config.URL, c.config.Header)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	c.logger.Info("feed connected")

	// Unblock ReadMessage on shutdown
	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer func() {
		stop()
		ws.Close()
	}()

	var dropped uint64
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}
		if mt != websocket.TextMessage {
			continue
		}

		err = Decode(data, c.sink)
		switch {
		case err == nil:
		case errors.Is(err, pipeline.ErrFrameDropped):
			dropped++
			if dropped%100 == 1 {
				c.logger.Warn("pipeline behind, dropping frames", "dropped", dropped)
			}
		case errors.Is(err, pipeline.ErrRunnerStopped):
			return true, err
		default:
			c.logger.Debug("skipping bad message", "error", err)
		}
	}
}
