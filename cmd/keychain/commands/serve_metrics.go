package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
)

// RunServeMetrics starts a standalone HTTP server exposing the Prometheus
// metrics endpoint for business operation counters (unlock attempts,
// encrypt/decrypt calls, key-access rejections). Blocks until receiving
// SIGINT/SIGTERM.
func RunServeMetrics(ctx context.Context, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	provider, err := container.MetricsProvider()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics provider: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", provider.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: mux,
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting metrics server", slog.Int("port", cfg.MetricsPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down metrics server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
