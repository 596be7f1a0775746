package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pennyledger/reconcile-backend/internal/api"
	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/config"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/logging"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	// Local .env is optional; container deployments set real env vars.
	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configPath)

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")
	slog.SetDefault(logger)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := service.NewReconcileService(store, cfg, logger)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, store, svc, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
