package service

import (
	"context"
	"log/slog"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
)

// LogNotifier records rotation events in the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyRotation logs the event. It never fails.
func (n *LogNotifier) NotifyRotation(ctx context.Context, event rotationDomain.RotationEvent) error {
	n.logger.InfoContext(ctx, "key rotation notification",
		slog.String("event_id", event.ID.String()),
		slog.String("key_name", event.KeyName),
		slog.Int("rotation_version", event.Version),
		slog.String("trigger", event.Trigger),
		slog.Time("rotated_at", event.RotatedAt),
		slog.Time("next_rotation_due", event.NextRotationDue),
	)
	return nil
}
