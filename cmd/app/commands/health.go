package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// HealthChecker reports store health.
type HealthChecker interface {
	IsHealthy(ctx context.Context) bool
}

// RunHealth checks the secret store and fails when it is sealed or unreachable.
func RunHealth(ctx context.Context, checker HealthChecker, logger *slog.Logger, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	healthy := checker.IsHealthy(ctx)

	if format == "json" {
		if err := outputJSON(writer, map[string]any{"secret_store": healthy}); err != nil {
			return err
		}
	} else if healthy {
		_, _ = fmt.Fprintln(writer, "Secret store: healthy")
	} else {
		_, _ = fmt.Fprintln(writer, "Secret store: unhealthy")
	}

	if !healthy {
		logger.Warn("secret store unhealthy")
		return fmt.Errorf("secret store is not healthy")
	}
	return nil
}
