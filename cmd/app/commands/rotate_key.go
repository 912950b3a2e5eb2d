package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// RunRotateKey rotates one key immediately with freshly generated material.
func RunRotateKey(
	ctx context.Context,
	scheduler rotationUsecase.Scheduler,
	logger *slog.Logger,
	writer io.Writer,
	keyName string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("rotating key", slog.String("key_name", keyName))

	metadata, err := scheduler.TriggerRotation(ctx, keyName)
	if err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	if format == "json" {
		return outputJSON(writer, metadata)
	}

	_, _ = fmt.Fprintf(writer, "Rotated %s to version %d\n", metadata.KeyName, metadata.RotationVersion)
	_, _ = fmt.Fprintf(writer, "Next rotation due: %s\n", metadata.NextRotationDue.Format("2006-01-02 15:04:05 MST"))
	return nil
}
