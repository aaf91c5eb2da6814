// Sentinel turns object detections and body poses from an inference
// service into debounced security alerts and activity findings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-sentinel/internal/config"
	"github.com/teslashibe/go-sentinel/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
	settings   *config.Settings
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Security alerting from object detection and pose streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				settings.Log.Level = opts.logLevel
			}
			log.Init(log.Options{Level: settings.Log.Level, Format: settings.Log.Format})
			opts.settings = settings
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./sentinel.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		runCommand(opts),
		replayCommand(opts),
		detectCommand(opts),
	)
	return root
}
