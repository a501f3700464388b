package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/order-management/app/oms"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer l.Sync()

	app, err := oms.New(ctx, cfg, l)
	if err != nil {
		l.Error(err, logger.NewField("action", "init_app"))
		return
	}

	l.Info("order management started",
		logger.NewField("environment", cfg.App.Environment),
		logger.NewField("store", cfg.App.Store),
	)
	if err := app.Run(ctx); err != nil {
		l.Error(err, logger.NewField("action", "run_app"))
		return
	}
	l.Info("order management stopped")
}
