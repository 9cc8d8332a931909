package main

import (
	"context"
	"os/signal"
	"syscall"

	"pricetrack-service/internal/bootstrap"
	"pricetrack-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	w, cleanup, err := bootstrap.InitWorker(ctx, cfg)
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}
	defer cleanup()

	log.Info("worker started",
		zap.Stringers("symbols", cfg.Symbols),
		zap.Duration("interval", cfg.PollInterval),
		zap.String("provider", cfg.Provider),
	)
	w.Start(ctx)
	log.Info("worker stopped")
}
