package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/quipay/keysmith/internal/errors"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreService "github.com/quipay/keysmith/internal/secretstore/service"
)

// engine implements Engine on top of the secret store client.
type engine struct {
	client     secretstoreService.Client
	secretPath string
	mount      string
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.RWMutex
	config rotationDomain.RotationConfig
}

// NewEngine creates an Engine for the keys stored under secretPath on mount.
func NewEngine(
	client secretstoreService.Client,
	secretPath, mount string,
	config rotationDomain.RotationConfig,
	logger *slog.Logger,
) (Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &engine{
		client:     client,
		secretPath: strings.Trim(secretPath, "/"),
		mount:      mount,
		logger:     logger,
		now:        time.Now,
		config:     config,
	}, nil
}

// RotateKey writes new key material and records the rotation.
func (e *engine) RotateKey(
	ctx context.Context,
	keyName, material string,
) (*rotationDomain.RotationMetadata, error) {
	if material == "" {
		return nil, rotationDomain.ErrEmptyKeyMaterial
	}

	// Version monotonicity depends on knowing the previous version.
	previous, err := e.GetRotationStatus(ctx, keyName)
	if err != nil {
		return nil, errors.Wrapf(err, "read rotation status of %s", keyName)
	}

	keyPath := rotationDomain.KeyPath(e.secretPath, keyName)
	if _, err := e.client.WriteSecret(ctx, keyPath, map[string]any{secretstoreDomain.ValueField: material}, e.mount); err != nil {
		return nil, errors.Wrapf(err, "write key %s", keyName)
	}

	metadata := rotationDomain.NewRotationMetadata(keyName, previous.Version, e.now(), e.Config().RotationPeriodDays)

	metadataPath := rotationDomain.MetadataPath(e.secretPath, keyName)
	if _, err := e.client.WriteSecret(ctx, metadataPath, metadata.ToData(), e.mount); err != nil {
		e.logger.Error("key material written but rotation metadata was not",
			slog.String("key_name", keyName),
			slog.Int("rotation_version", metadata.RotationVersion),
			slog.Any("error", err),
		)
		return nil, errors.Wrapf(rotationDomain.ErrPartialRotation, "%s: %v", keyName, err)
	}

	e.logger.Info("key rotated",
		slog.String("key_name", keyName),
		slog.Int("rotation_version", metadata.RotationVersion),
		slog.Time("next_rotation_due", metadata.NextRotationDue),
	)

	return metadata, nil
}

// GetRotationStatus reads the rotation metadata of keyName.
func (e *engine) GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error) {
	record, err := e.client.ReadSecret(ctx, rotationDomain.MetadataPath(e.secretPath, keyName), e.mount)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &rotationDomain.RotationStatus{}, nil
		}
		return &rotationDomain.RotationStatus{}, err
	}

	metadata, err := rotationDomain.ParseRotationMetadata(keyName, record.Data)
	if err != nil {
		return &rotationDomain.RotationStatus{}, err
	}
	return metadata.Status(), nil
}

// NeedsRotation reports whether keyName is due.
func (e *engine) NeedsRotation(ctx context.Context, keyName string) bool {
	status, err := e.GetRotationStatus(ctx, keyName)
	if err != nil {
		e.logger.Warn("rotation status unreadable, treating key as due",
			slog.String("key_name", keyName),
			slog.Any("error", err),
		)
		return true
	}
	if status.NeverRotated() {
		return true
	}

	due := rotationDomain.DueDate(*status.LastRotated, e.Config().RotationPeriodDays)
	return !e.now().Before(due)
}

// GetAllKeysNeedingRotation lists the namespace and returns the keys that are due.
func (e *engine) GetAllKeysNeedingRotation(ctx context.Context) []string {
	entries, err := e.client.ListSecrets(ctx, e.secretPath, e.mount)
	if err != nil {
		e.logger.Error("failed to list keys for rotation check",
			slog.String("secret_path", e.secretPath),
			slog.Any("error", err),
		)
		return []string{}
	}

	due := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") {
			continue
		}
		if e.NeedsRotation(ctx, entry) {
			due = append(due, entry)
		}
	}
	return due
}

// SetRotationPeriod changes the rotation period. Keys are re-evaluated against the new
// period on their next check.
func (e *engine) SetRotationPeriod(days int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.config
	next.RotationPeriodDays = days
	if err := next.Validate(); err != nil {
		return err
	}
	e.config = next
	return nil
}

// SetGracePeriod changes the grace period.
func (e *engine) SetGracePeriod(days int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.config
	next.GracePeriodDays = days
	if err := next.Validate(); err != nil {
		return err
	}
	e.config = next
	return nil
}

// Config returns a copy of the rotation policy.
func (e *engine) Config() rotationDomain.RotationConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}
