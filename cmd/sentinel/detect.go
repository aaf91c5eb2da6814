package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-sentinel/internal/log"
	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/pipeline"
)

func detectCommand(root *rootOptions) *cobra.Command {
	var (
		modelPath string
		class         string
		interval      time.Duration
		ignoreAnimals bool
	)

	cmd := &cobra.Command{
		Use:   "detect <image.jpg>...",
		Short: "Run the YOLO model over JPEG frames and print each alert result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.settings.PipelineConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cfg.Logger = log.L()

			dcfg := detection.DefaultConfig()
			if modelPath != "" {
				dcfg.ModelPath = modelPath
			}
			yolo, err := detection.NewYOLO(dcfg)
			if err != nil {
				return err
			}
			defer yolo.Close()

			p := pipeline.New(cfg)
			enc := json.NewEncoder(cmd.OutOrStdout())
			ts := time.Now()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				img, err := jpeg.DecodeConfig(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				var dets []detection.Detection
				if class != "" {
					dets, err = yolo.DetectClass(data, class)
				} else {
					dets, err = yolo.Detect(data)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if ignoreAnimals {
					dets = withoutAnimals(dets)
				}

				ev := p.ProcessDetections(pipeline.DetectionFrame{
					Timestamp:  ts,
					Width:      float64(img.Width),
					Height:     float64(img.Height),
					Detections: dets,
				})
				if err := enc.Encode(struct {
					File string `json:"file"`
					pipeline.AlertEvent
				}{path, ev}); err != nil {
					return err
				}
				ts = ts.Add(interval)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "YOLOv8 ONNX model path")
	cmd.Flags().StringVar(&class, "class", "", "keep only detections of this COCO class")
	cmd.Flags().BoolVar(&ignoreAnimals, "ignore-animals", true, "drop pets and wildlife before tracking")
	cmd.Flags().DurationVar(&interval, "interval", 33*time.Millisecond, "time between consecutive images")
	return cmd
}

func withoutAnimals(dets []detection.Detection) []detection.Detection {
	kept := dets[:0]
	for _, d := range dets {
		if !detection.IsAnimal(d.Label) {
			kept = append(kept, d)
		}
	}
	return kept
}
