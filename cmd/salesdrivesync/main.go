package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"SalesDriveSync/internal/app"
	"SalesDriveSync/internal/config"
	"SalesDriveSync/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := logging.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application not started", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *once {
		report, err := application.RunOnce(ctx)
		if err != nil {
			logger.Error("sync failed", "error", err)
			_ = application.Close()
			os.Exit(1)
		}
		logger.Info("sync finished", "created", report.Created, "updated", report.Updated, "skipped", report.Skipped)
		return
	}

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		_ = application.Close()
		os.Exit(1)
	}
}
