package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"steam-trends-service/internal/config"
	"steam-trends-service/internal/logging"
	"steam-trends-service/internal/server"
)

const (
	appName    = "steam-trends-service"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})
	if cfg.EnvFile != "" {
		logger.Info("loaded environment file", slog.String("path", cfg.EnvFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}
