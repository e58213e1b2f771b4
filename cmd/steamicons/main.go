// Package main fetches missing Steam shortcut icons.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/steamicons/internal/interrupt"
	"github.com/louisbranch/steamicons/internal/platform/cmd"
	"github.com/louisbranch/steamicons/internal/platform/config"
	"github.com/louisbranch/steamicons/internal/platform/logging"
	"github.com/louisbranch/steamicons/internal/tools/steamicons"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("Error: %v", err)
	}
	cfg, err := steamicons.ParseConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	logger := steamicons.NewLogger(cfg, os.Stderr)
	logging.SetDefault(logger)

	gate := interrupt.New(logger)
	stop := gate.Install()

	err = cmd.RunWithTelemetry(context.Background(), cmd.ServiceSteamIcons, func(ctx context.Context) error {
		_, err := steamicons.Run(ctx, cfg, gate, logger)
		return err
	})
	stop()
	if err != nil {
		config.ExitCodef(steamicons.Report(logger, err), "Error: %v", err)
	}
}
