package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dmitrijs2005/edulibrary/internal/client/cli"
	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/config"
	"github.com/dmitrijs2005/edulibrary/internal/client/controller"
	"github.com/dmitrijs2005/edulibrary/internal/client/metrics"
	"github.com/dmitrijs2005/edulibrary/internal/client/repositories/settings"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, db, err := settings.Open(ctx, cfg.SettingsDB)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	defer db.Close()

	rec := metrics.NewRecorder()
	api, err := client.NewHTTPClient(cfg.ServerURL,
		client.WithObserver(rec),
		client.WithLogger(logger.With("component", "api")),
	)
	if err != nil {
		log.Fatalf("%v", err)
	}

	deps := controller.Wire(api, repo, view.NewBoard(cfg.StatusTTL), rec, cfg.DownloadDir, logger)
	ctrl := controller.New(deps)

	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}

	app := cli.NewApp(ctrl, os.Stdin, os.Stdout,
		cli.WithStats(rec),
		cli.WithWidth(width),
		cli.WithLogger(logger),
	)
	if err := app.Run(ctx, cfg.InviteURL); err != nil {
		log.Fatalf("%v", err)
	}
}
