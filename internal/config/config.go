// Package config loads sentinel settings from a YAML file and SENTINEL_*
// environment variables on top of the package defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/teslashibe/go-sentinel/pkg/activity"
	"github.com/teslashibe/go-sentinel/pkg/alert"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/feed"
	"github.com/teslashibe/go-sentinel/pkg/notify"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
	"github.com/teslashibe/go-sentinel/pkg/tracking"
)

// EnvPrefix is prepended to environment overrides, e.g.
// SENTINEL_ALERT_STABILITY_FRAMES=5
const EnvPrefix = "SENTINEL"

// Settings is the full runtime configuration
type Settings struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Feed struct {
		URL               string        `mapstructure:"url"`
		ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
		MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"`
	} `mapstructure:"feed"`

	Web struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"web"`

	MQTT struct {
		Enabled     bool   `mapstructure:"enabled"`
		Broker      string `mapstructure:"broker"`
		ClientID    string `mapstructure:"client_id"`
		Username    string `mapstructure:"username"`
		Password    string `mapstructure:"password"`
		TopicPrefix string `mapstructure:"topic_prefix"`
	} `mapstructure:"mqtt"`

	Pipeline struct {
		QueueSize int `mapstructure:"queue_size"`
	} `mapstructure:"pipeline"`

	Filter struct {
		MinObjectSizePercent float64                          `mapstructure:"min_object_size_percent"`
		MaxObjectSizePercent float64                          `mapstructure:"max_object_size_percent"`
		MinAspectRatio       float64                          `mapstructure:"min_aspect_ratio"`
		MaxAspectRatio       float64                          `mapstructure:"max_aspect_ratio"`
		MinSidePixels        float64                          `mapstructure:"min_side_pixels"`
		ClassAspectRatios    map[string]detection.AspectRange `mapstructure:"class_aspect_ratios"`
	} `mapstructure:"filter"`

	Tracking struct {
		IoUThreshold   float64       `mapstructure:"iou_threshold"`
		MaxTrackingAge time.Duration `mapstructure:"max_tracking_age"`
	} `mapstructure:"tracking"`

	Alert struct {
		Cooldown        time.Duration `mapstructure:"cooldown"`
		StabilityFrames int           `mapstructure:"stability_frames"`
		MaxHistorySize  int           `mapstructure:"max_history_size"`
		SmoothingWeight float64       `mapstructure:"smoothing_weight"`
		MinScore        float64       `mapstructure:"min_score"`
		Weights         struct {
			Presence    float64 `mapstructure:"presence"`
			Count       float64 `mapstructure:"count"`
			Interaction float64 `mapstructure:"interaction"`
		} `mapstructure:"weights"`
	} `mapstructure:"alert"`

	Activity struct {
		HistoryCapacity int                `mapstructure:"history_capacity"`
		Thresholds      map[string]float64 `mapstructure:"thresholds"`
	} `mapstructure:"activity"`
}

// setDefaults seeds viper from the package defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	fc := feed.DefaultClientConfig()
	v.SetDefault("feed.url", fc.URL)
	v.SetDefault("feed.reconnect_delay", fc.ReconnectDelay)
	v.SetDefault("feed.max_reconnect_delay", fc.MaxReconnectDelay)

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.addr", ":8080")

	mc := notify.DefaultConfig()
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", mc.Broker)
	v.SetDefault("mqtt.client_id", mc.ClientID)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", mc.TopicPrefix)

	pc := pipeline.DefaultConfig()
	v.SetDefault("pipeline.queue_size", pc.QueueSize)

	f := pc.Filter
	v.SetDefault("filter.min_object_size_percent", f.MinObjectSizePercent)
	v.SetDefault("filter.max_object_size_percent", f.MaxObjectSizePercent)
	v.SetDefault("filter.min_aspect_ratio", f.MinAspectRatio)
	v.SetDefault("filter.max_aspect_ratio", f.MaxAspectRatio)
	v.SetDefault("filter.min_side_pixels", f.MinSidePixels)
	ratios := make(map[string]any, len(f.ClassAspectRatios))
	for label, r := range f.ClassAspectRatios {
		ratios[label] = map[string]any{"min": r.Min, "max": r.Max}
	}
	v.SetDefault("filter.class_aspect_ratios", ratios)

	v.SetDefault("tracking.iou_threshold", pc.Tracking.IoUThreshold)
	v.SetDefault("tracking.max_tracking_age", pc.Tracking.MaxTrackingAge)

	a := pc.Alert
	v.SetDefault("alert.cooldown", a.AlertCooldown)
	v.SetDefault("alert.stability_frames", a.StabilityFrames)
	v.SetDefault("alert.max_history_size", a.MaxHistorySize)
	v.SetDefault("alert.smoothing_weight", a.SmoothingWeight)
	v.SetDefault("alert.min_score", a.MinScore)
	v.SetDefault("alert.weights.presence", a.Weights.Presence)
	v.SetDefault("alert.weights.count", a.Weights.Count)
	v.SetDefault("alert.weights.interaction", a.Weights.Interaction)

	v.SetDefault("activity.history_capacity", pc.Activity.HistoryCapacity)
	thresholds := make(map[string]float64, len(pc.Activity.Thresholds))
	for t, th := range pc.Activity.Thresholds {
		thresholds[strings.ToLower(string(t))] = th
	}
	v.SetDefault("activity.thresholds", thresholds)
}

// Load reads settings from path, or from sentinel.yaml in the working
// directory or ~/.config/sentinel when path is empty. A missing default
// file is not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sentinel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sentinel")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return settings, nil
}

// PipelineConfig builds and validates the pipeline configuration
func (s *Settings) PipelineConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	cfg.QueueSize = s.Pipeline.QueueSize

	cfg.Filter.MinObjectSizePercent = s.Filter.MinObjectSizePercent
	cfg.Filter.MaxObjectSizePercent = s.Filter.MaxObjectSizePercent
	cfg.Filter.MinAspectRatio = s.Filter.MinAspectRatio
	cfg.Filter.MaxAspectRatio = s.Filter.MaxAspectRatio
	cfg.Filter.MinSidePixels = s.Filter.MinSidePixels
	if len(s.Filter.ClassAspectRatios) > 0 {
		cfg.Filter.ClassAspectRatios = s.Filter.ClassAspectRatios
	}

	cfg.Tracking = tracking.Config{
		IoUThreshold:   s.Tracking.IoUThreshold,
		MaxTrackingAge: s.Tracking.MaxTrackingAge,
	}

	cfg.Alert.AlertCooldown = s.Alert.Cooldown
	cfg.Alert.StabilityFrames = s.Alert.StabilityFrames
	cfg.Alert.MaxHistorySize = s.Alert.MaxHistorySize
	cfg.Alert.SmoothingWeight = s.Alert.SmoothingWeight
	cfg.Alert.MinScore = s.Alert.MinScore
	cfg.Alert.Weights = alert.Weights{
		Presence:    s.Alert.Weights.Presence,
		Count:       s.Alert.Weights.Count,
		Interaction: s.Alert.Weights.Interaction,
	}

	cfg.Activity.HistoryCapacity = s.Activity.HistoryCapacity
	for name, th := range s.Activity.Thresholds {
		t, err := activity.ParseType(name)
		if err != nil {
			return cfg, err
		}
		cfg.Activity.Thresholds[t] = th
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FeedConfig builds the live feed client configuration
func (s *Settings) FeedConfig() feed.ClientConfig {
	cfg := feed.DefaultClientConfig()
	cfg.URL = s.Feed.URL
	cfg.ReconnectDelay = s.Feed.ReconnectDelay
	cfg.MaxReconnectDelay = s.Feed.MaxReconnectDelay
	return cfg
}

// NotifyConfig builds the MQTT publisher configuration
func (s *Settings) NotifyConfig() notify.Config {
	cfg := notify.DefaultConfig()
	cfg.Broker = s.MQTT.Broker
	cfg.ClientID = s.MQTT.ClientID
	cfg.Username = s.MQTT.Username
	cfg.Password = s.MQTT.Password
	cfg.TopicPrefix = s.MQTT.TopicPrefix
	return cfg
}
