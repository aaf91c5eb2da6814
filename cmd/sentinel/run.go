package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/teslashibe/go-sentinel/internal/log"
	"github.com/teslashibe/go-sentinel/pkg/feed"
	"github.com/teslashibe/go-sentinel/pkg/metrics"
	"github.com/teslashibe/go-sentinel/pkg/notify"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
	"github.com/teslashibe/go-sentinel/pkg/web"
	"golang.org/x/sync/errgroup"
)

func runCommand(root *rootOptions) *cobra.Command {
	var feedURL string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a live inference feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := root.settings
			if feedURL != "" {
				s.Feed.URL = feedURL
			}

			cfg, err := s.PipelineConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cfg.Logger = log.L()

			p := pipeline.New(cfg)
			runner := pipeline.NewRunner(p, cfg.QueueSize)

			registry := prometheus.NewRegistry()
			m, err := metrics.NewPipelineMetrics(registry)
			if err != nil {
				return err
			}
			p.AddObserver(m)
			runner.OnDrop = m.RecordDroppedFrame

			g, ctx := errgroup.WithContext(cmd.Context())

			if s.MQTT.Enabled {
				pub := notify.NewPublisher(s.NotifyConfig())
				if err := pub.Connect(ctx); err != nil {
					return err
				}
				p.AddObserver(pub)
				g.Go(func() error {
					pub.Run(ctx)
					return nil
				})
			}

			if s.Web.Enabled {
				srv := web.NewServer(web.Options{
					Addr:     s.Web.Addr,
					Status:   p,
					Reset:    runner.Reset,
					Registry: registry,
					Logger:   log.L(),
				})
				p.AddObserver(srv)
				g.Go(func() error { return srv.Run(ctx) })
			}

			g.Go(func() error {
				runner.Run(ctx)
				return nil
			})

			fc := s.FeedConfig()
			fc.Logger = log.L()
			client := feed.NewClient(fc, runner)
			g.Go(func() error { return client.Run(ctx) })

			log.Info("sentinel running", "session", p.SessionID(), "feed", fc.URL)
			err = g.Wait()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("sentinel stopped", "dropped_frames", runner.Dropped())
			return nil
		},
	}

	cmd.Flags().StringVar(&feedURL, "feed", "", "inference feed websocket URL")
	return cmd
}
