package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// RunRotationStatus prints the rotation state of one key, or the keys due for rotation
// when keyName is empty.
func RunRotationStatus(
	ctx context.Context,
	engine rotationUsecase.Engine,
	logger *slog.Logger,
	writer io.Writer,
	keyName string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if keyName == "" {
		due := engine.GetAllKeysNeedingRotation(ctx)
		logger.Info("keys needing rotation", slog.Int("count", len(due)))

		if format == "json" {
			return outputJSON(writer, map[string]any{"keys_needing_rotation": due})
		}
		if len(due) == 0 {
			_, _ = fmt.Fprintln(writer, "No keys need rotation")
			return nil
		}
		_, _ = fmt.Fprintln(writer, "Keys needing rotation:")
		for _, name := range due {
			_, _ = fmt.Fprintf(writer, "  - %s\n", name)
		}
		return nil
	}

	status, err := engine.GetRotationStatus(ctx, keyName)
	if err != nil {
		return fmt.Errorf("failed to read rotation status: %w", err)
	}
	needsRotation := engine.NeedsRotation(ctx, keyName)

	if format == "json" {
		return outputJSON(writer, map[string]any{
			"key_name":       keyName,
			"status":         status,
			"needs_rotation": needsRotation,
		})
	}

	_, _ = fmt.Fprintf(writer, "Key:            %s\n", keyName)
	if status.NeverRotated() {
		_, _ = fmt.Fprintf(writer, "Last rotated:   never\n")
	} else {
		_, _ = fmt.Fprintf(writer, "Last rotated:   %s\n", status.LastRotated.Format("2006-01-02 15:04:05 MST"))
		_, _ = fmt.Fprintf(writer, "Next due:       %s\n", status.NextRotationDue.Format("2006-01-02 15:04:05 MST"))
	}
	_, _ = fmt.Fprintf(writer, "Version:        %d\n", status.Version)
	_, _ = fmt.Fprintf(writer, "Needs rotation: %t\n", needsRotation)
	return nil
}
