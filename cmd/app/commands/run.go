package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quipay/keysmith/internal/app"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// shutdownTimeout bounds the graceful shutdown of the ops server.
const shutdownTimeout = 15 * time.Second

// Server is a long running HTTP server.
type Server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunService starts the rotation scheduler and the ops server and blocks until
// SIGINT/SIGTERM or a fatal server error.
func RunService(ctx context.Context, version string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting keysmith", slog.String("version", version))

	defer CloseContainer(container, logger)

	scheduler, err := container.RotationScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize rotation scheduler: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return Serve(ctx, scheduler, metricsServer, logger)
}

// Serve runs scheduler and server until ctx is done or the server fails, then stops
// both. server may be nil.
func Serve(
	ctx context.Context,
	scheduler rotationUsecase.Scheduler,
	server Server,
	logger *slog.Logger,
) error {
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start rotation scheduler: %w", err)
	}
	defer scheduler.Stop()

	serverErr := make(chan error, 1)
	if server != nil {
		go func() {
			if err := server.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var shutdownErrors []error

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}
