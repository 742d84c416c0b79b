package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"graphryder-api/infrastructure/config"
	"graphryder-api/infrastructure/di"
	"graphryder-api/interfaces/http/rest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container. An unreachable store is fatal.
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	container.Logger.Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("cors", cfg.EnableCORS),
	)

	if err := rest.Serve(ctx, cfg.Address(), container.Handler, container.Logger); err != nil {
		container.Logger.Error("Server error", zap.Error(err))
		return
	}

	container.Logger.Info("Server stopped")
}
