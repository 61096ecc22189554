package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/horizon-replay/internal/config"
	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/version"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

// app bundles what every subcommand needs.
type app struct {
	cfg config.Config
	log *logger.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, logger.Format(cfg.LogFormat))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log}, nil
}

func (a *app) tickSource() (ticksource.TickSource, error) {
	source, err := ticksource.NewTickSource(a.cfg.ToSourceConfig(), a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick source: %w", err)
	}

	return source, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "replay",
		Usage:   "Replay recorded gold futures trade intents against historical ticks",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			runCommand(),
			downloadCommand(),
			serveCommand(),
			schemaCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
