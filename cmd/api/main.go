package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hdmon/uaa/internal/config"
	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
)

const shutdownDrainDelay = 100 * time.Millisecond

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting user directory service",
		slog.String("name", cfg.App.Name),
		slog.String("environment", cfg.App.Environment),
		slog.String("address", cfg.Server.Address()),
	)

	container, err := NewContainer(cfg, WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	srv := SetupRoutes(container)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go gracefulShutdown(ctx, cancel, container, srv)

	if startErr := srv.Start(); startErr != nil {
		return fmt.Errorf("server error: %w", startErr)
	}

	return nil
}

// setupLogger builds the process-wide structured logger from config.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Log.Level),
		AddSource: cfg.IsDevelopment(),
	}

	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// gracefulShutdown waits for a termination signal, drains in-flight
// requests and releases container resources.
func gracefulShutdown(ctx context.Context, cancel context.CancelFunc, container *Container, srv *httpserver.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-quit:
		container.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		return
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		container.Logger.Error("failed to shutdown server", slog.Any("error", err))
	}

	cancel()
	time.Sleep(shutdownDrainDelay)

	if err := container.Close(); err != nil {
		container.Logger.Error("failed to close container", slog.Any("error", err))
	}
}
