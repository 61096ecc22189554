package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/timeutil"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Record the ticks of a window to a Parquet file for offline replay",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Parent futures symbol. Defaults to HORIZON_PARENT_SYMBOL",
			},
			&cli.StringFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Window start as an ISO-8601 timestamp, e.g. `2024-01-16T14:30:00Z`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end",
				Aliases:  []string{"e"},
				Usage:    "Window end (exclusive) as an ISO-8601 timestamp",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Usage:    "Output Parquet file",
				Required: true,
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.log.Sync()

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbol = app.cfg.ParentSymbol
	}

	window, err := parseWindow(cmd.String("start"), cmd.String("end"))
	if err != nil {
		return err
	}

	source, err := app.tickSource()
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", symbol)),
		progressbar.OptionShowCount())

	onProgress := func(ticks int, message string) {
		bar.Describe(message)
		_ = bar.Set(ticks)
	}

	writer := ticksource.NewDuckDBTickWriter(cmd.String("out"), app.log)

	path, written, err := ticksource.Record(ctx, source, writer, symbol, window.Start, window.End, onProgress)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_ = bar.Finish()

	app.log.Info("Download completed",
		zap.String("symbol", symbol),
		zap.String("path", path),
		zap.Int("ticks", written))

	return nil
}

// parseWindow parses and validates a UTC download window.
func parseWindow(start string, end string) (timeutil.Window, error) {
	startTime, err := timeutil.ParseTimestamp(start)
	if err != nil {
		return timeutil.Window{}, err
	}

	endTime, err := timeutil.ParseTimestamp(end)
	if err != nil {
		return timeutil.Window{}, err
	}

	window := timeutil.Window{Start: startTime, End: endTime}
	if err := window.Validate(); err != nil {
		return timeutil.Window{}, err
	}

	return window, nil
}
