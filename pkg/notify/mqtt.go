// Package notify publishes triggered alerts and activity findings to an
// MQTT broker.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

// ErrNotConnected is returned when the broker connection is down
var ErrNotConnected = errors.New("notify: not connected to MQTT broker")

// Config holds the MQTT publisher settings
type Config struct {
	Broker         string // e.g. tcp://localhost:1883
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string // Alerts go to <prefix>/alert/<kind>
	QoS            byte
	Retain         bool
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	QueueSize      int
	Logger         *slog.Logger
}

// DefaultConfig returns defaults for a local broker
func DefaultConfig() Config {
	return Config{
		Broker:         "tcp://localhost:1883",
		ClientID:       "sentinel",
		TopicPrefix:    "sentinel",
		QoS:            1,
		ConnectTimeout: 30 * time.Second,
		PublishTimeout: 10 * time.Second,
		QueueSize:      64,
		Logger:         slog.Default(),
	}
}

// client is the subset of mqtt.Client the publisher needs
type client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

type outgoing struct {
	topic   string
	payload []byte
}

// Publisher forwards pipeline events to MQTT. It implements
// pipeline.Observer; publishing happens on the Run goroutine so frame
// processing never waits on the broker.
type Publisher struct {
	config Config
	client client
	logger *slog.Logger
	queue  chan outgoing
}

// NewPublisher creates a publisher for the configured broker
func NewPublisher(config Config) *Publisher {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(config.ConnectTimeout)

	p := newPublisher(config, nil)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.logger.Info("connected to MQTT broker")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.logger.Warn("MQTT connection lost", "error", err)
	})
	p.client = mqtt.NewClient(opts)
	return p
}

func newPublisher(config Config, c client) *Publisher {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := config.QueueSize
	if size < 1 {
		size = 1
	}
	return &Publisher{
		config: config,
		client: c,
		logger: logger.With("component", "notify", "broker", config.Broker),
		queue:  make(chan outgoing, size),
	}
}

// Connect dials the broker
func (p *Publisher) Connect(ctx context.Context) error {
	token := p.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.config.ConnectTimeout):
		return fmt.Errorf("connect to %s: timeout", p.config.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", p.config.Broker, err)
	}
	return nil
}

// Run publishes queued events until ctx is cancelled, then disconnects
func (p *Publisher) Run(ctx context.Context) {
	defer p.client.Disconnect(250)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			if err := p.publish(msg); err != nil {
				p.logger.Warn("publish failed", "topic", msg.topic, "error", err)
			}
		}
	}
}

func (p *Publisher) publish(msg outgoing) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	token := p.client.Publish(msg.topic, p.config.QoS, p.config.Retain, msg.payload)
	if !token.WaitTimeout(p.config.PublishTimeout) {
		return fmt.Errorf("publish to %s: timeout", msg.topic)
	}
	return token.Error()
}

// OnAlert implements pipeline.Observer; only triggered alerts are sent
func (p *Publisher) OnAlert(ev pipeline.AlertEvent) {
	if !ev.Result.ShouldTrigger {
		return
	}
	p.enqueue(p.topic("alert", string(ev.Result.Kind)), struct {
		pipeline.AlertEvent
		Description string `json:"description"`
	}{ev, ev.Result.Kind.Description()})
}

// OnActivity implements pipeline.Observer; one message per finding
func (p *Publisher) OnActivity(ev pipeline.ActivityEvent) {
	if ev.Result.Status != activity.Detected {
		return
	}
	for _, f := range ev.Result.Findings {
		p.enqueue(p.topic("activity", string(f.Type)), struct {
			ID        string    `json:"id"`
			SessionID string    `json:"session_id"`
			Timestamp time.Time `json:"timestamp"`
			activity.Finding
		}{ev.ID, ev.SessionID, ev.Timestamp, f})
	}
}

func (p *Publisher) topic(kind, name string) string {
	return strings.Join([]string{p.config.TopicPrefix, kind, strings.ToLower(name)}, "/")
}

func (p *Publisher) enqueue(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("encode notification", "topic", topic, "error", err)
		return
	}
	select {
	case p.queue <- outgoing{topic: topic, payload: payload}:
	default:
		p.logger.Warn("notification queue full, dropping", "topic", topic)
	}
}
