package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
	enginev1 "github.com/rxtech-lab/horizon-replay/internal/replay/engine/engine_v1"
	"github.com/rxtech-lab/horizon-replay/internal/replay/writers"
	"github.com/rxtech-lab/horizon-replay/internal/types"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Replay one trade intent and print its metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "request",
				Aliases: []string{"r"},
				Usage:   "Path to a YAML or JSON replay request. Other request flags override its fields",
			},
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Parent futures symbol. Defaults to HORIZON_PARENT_SYMBOL",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Entry date in `YYYY-MM-DD` (America/New_York)",
			},
			&cli.StringFlag{
				Name:  "time",
				Usage: "Entry time in `HH:MM` (America/New_York)",
			},
			&cli.StringFlag{
				Name:  "direction",
				Usage: "Trade direction: long or short",
			},
			&cli.StringFlag{
				Name:  "entry",
				Usage: "Entry price",
			},
			&cli.StringFlag{
				Name:  "stop",
				Usage: "Stop price",
			},
			&cli.StringFlag{
				Name:  "targets",
				Usage: "Comma-separated profit targets, e.g. `2005,2010,2015`",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: json or yaml",
				Value:   outputJSON,
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory for bars and metrics parquet files. Defaults to HORIZON_EXPORT_DIR",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.log.Sync()

	request, err := requestFromFlags(cmd, app.cfg.ParentSymbol)
	if err != nil {
		return err
	}

	source, err := app.tickSource()
	if err != nil {
		return err
	}

	result, err := enginev1.NewReplayEngineV1(source, app.log).Run(ctx, request, engine.LifecycleCallbacks{})
	if err != nil {
		return err
	}

	if err := writeMetrics(os.Stdout, cmd.String("output"), result.Metrics); err != nil {
		return err
	}

	exportDir := cmd.String("export-dir")
	if exportDir == "" {
		exportDir = app.cfg.ExportDir
	}

	if exportDir != "" {
		barsPath, metricsPath, err := writers.NewDuckDBResultWriter(exportDir, app.log).Write(request, result)
		if err != nil {
			return err
		}

		app.log.Info("Replay exported", zap.String("bars", barsPath), zap.String("metrics", metricsPath))
	}

	return nil
}

// requestFromFlags builds the replay request from the optional request file and the flags.
func requestFromFlags(cmd *cli.Command, defaultSymbol string) (engine.ReplayRequest, error) {
	var request engine.ReplayRequest

	if path := cmd.String("request"); path != "" {
		loaded, err := readRequestFile(path)
		if err != nil {
			return engine.ReplayRequest{}, err
		}

		request = loaded
	}

	if symbol := cmd.String("symbol"); symbol != "" {
		request.Symbol = symbol
	}

	if request.Symbol == "" {
		request.Symbol = defaultSymbol
	}

	if date := cmd.String("date"); date != "" {
		request.EntryDate = date
	}

	if clock := cmd.String("time"); clock != "" {
		request.EntryTime = clock
	}

	if direction := cmd.String("direction"); direction != "" {
		request.Direction = types.Direction(strings.ToLower(direction))
	}

	var err error

	if entry := cmd.String("entry"); entry != "" {
		if request.EntryPrice, err = parsePrice("entry", entry); err != nil {
			return engine.ReplayRequest{}, err
		}
	}

	if stop := cmd.String("stop"); stop != "" {
		if request.StopPrice, err = parsePrice("stop", stop); err != nil {
			return engine.ReplayRequest{}, err
		}
	}

	if targets := cmd.String("targets"); targets != "" {
		if request.Targets, err = parseTargets(targets); err != nil {
			return engine.ReplayRequest{}, err
		}
	}

	return request, nil
}

// readRequestFile loads a request from YAML, or JSON when the file has a .json extension.
func readRequestFile(path string) (engine.ReplayRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.ReplayRequest{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var request engine.ReplayRequest

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &request)
	} else {
		err = yaml.Unmarshal(data, &request)
	}

	if err != nil {
		return engine.ReplayRequest{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "malformed request file %s", path)
	}

	return request, nil
}

func parsePrice(name string, value string) (float64, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid %s price %q", name, value)
	}

	return price.InexactFloat64(), nil
}

func parseTargets(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	targets := make([]float64, 0, len(parts))

	for i, part := range parts {
		target, err := parsePrice(fmt.Sprintf("t%d", i+1), part)
		if err != nil {
			return nil, err
		}

		targets = append(targets, target)
	}

	return targets, nil
}

// writeMetrics prints the record as indented JSON or as YAML.
func writeMetrics(w io.Writer, format string, record types.MetricsRecord) error {
	switch strings.ToLower(format) {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(record)
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()

		return encoder.Encode(record.AsMap())
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported output format: %s", format)
	}
}
