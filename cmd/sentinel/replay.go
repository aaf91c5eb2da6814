package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-sentinel/internal/log"
	"github.com/teslashibe/go-sentinel/pkg/feed"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

// printer writes triggered alerts and findings as JSON lines
type printer struct {
	enc *json.Encoder
}

func (p printer) OnAlert(ev pipeline.AlertEvent) {
	if ev.Result.ShouldTrigger {
		p.enc.Encode(ev)
	}
}

func (p printer) OnActivity(ev pipeline.ActivityEvent) {
	if len(ev.Result.Findings) > 0 {
		p.enc.Encode(ev)
	}
}

func replayCommand(root *rootOptions) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Run a recorded feed through the pipeline and print alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.settings.PipelineConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cfg.Logger = log.L()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			p := pipeline.New(cfg)
			p.AddObserver(printer{enc: json.NewEncoder(cmd.OutOrStdout())})

			stats, err := feed.Replay(cmd.Context(), f, feed.Direct(p), feed.ReplayOptions{Speed: speed})
			if err != nil {
				return err
			}
			log.Info("replay finished",
				"lines", stats.Lines,
				"frames", stats.Frames,
				"skipped", stats.Skipped)
			return nil
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 0, "playback speed relative to recording (0 = as fast as possible)")
	return cmd
}
