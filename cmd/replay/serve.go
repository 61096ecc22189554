package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	enginev1 "github.com/rxtech-lab/horizon-replay/internal/replay/engine/engine_v1"
	"github.com/rxtech-lab/horizon-replay/internal/replay/writers"
	"github.com/rxtech-lab/horizon-replay/internal/server"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve replays over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address. Defaults to HORIZON_LISTEN_ADDR",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.log.Sync()

	source, err := app.tickSource()
	if err != nil {
		return err
	}

	var exporter writers.ResultWriter
	if app.cfg.ExportDir != "" {
		exporter = writers.NewDuckDBResultWriter(app.cfg.ExportDir, app.log)
	}

	srv := server.NewServer(enginev1.NewReplayEngineV1(source, app.log), exporter, app.log)

	addr := cmd.String("addr")
	if addr == "" {
		addr = app.cfg.ListenAddr
	}

	if err := srv.Start(addr); err != nil {
		return err
	}

	app.log.Info("Replay server listening", zap.String("address", srv.Address()))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.log.Info("Shutting down replay server")

	return srv.Stop(shutdownCtx)
}
