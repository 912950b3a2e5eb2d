package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quipay/keysmith/internal/errors"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreService "github.com/quipay/keysmith/internal/secretstore/service"
)

// Retry defaults.
const (
	DefaultRetryMaxAttempts     = 3
	DefaultRetryInitialInterval = 200 * time.Millisecond
	DefaultRetryMaxInterval     = 2 * time.Second
)

// RetryConfig bounds the retries applied to transient store failures.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns three attempts starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     DefaultRetryMaxAttempts,
		InitialInterval: DefaultRetryInitialInterval,
		MaxInterval:     DefaultRetryMaxInterval,
	}
}

// Config scopes a SecretAccess to one namespace.
type Config struct {
	SecretPath string
	MountPoint string
	Rotation   rotationDomain.RotationConfig
	Retry      RetryConfig
}

type secretAccess struct {
	client     secretstoreService.Client
	engine     rotationUsecase.Engine
	secretPath string
	mount      string
	retry      RetryConfig
	logger     *slog.Logger
}

// NewSecretAccess creates the facade and the rotation engine it owns.
func NewSecretAccess(client secretstoreService.Client, cfg Config, logger *slog.Logger) (SecretAccess, error) {
	engine, err := rotationUsecase.NewEngine(client, cfg.SecretPath, cfg.MountPoint, cfg.Rotation, logger)
	if err != nil {
		return nil, err
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	if retry.InitialInterval <= 0 {
		retry.InitialInterval = DefaultRetryInitialInterval
	}
	if retry.MaxInterval < retry.InitialInterval {
		retry.MaxInterval = max(DefaultRetryMaxInterval, retry.InitialInterval)
	}

	return &secretAccess{
		client:     client,
		engine:     engine,
		secretPath: strings.Trim(cfg.SecretPath, "/"),
		mount:      cfg.MountPoint,
		retry:      retry,
		logger:     logger,
	}, nil
}

func (s *secretAccess) path(key string) string {
	return s.secretPath + "/" + key
}

// GetSecret returns the value stored under key.
func (s *secretAccess) GetSecret(ctx context.Context, key string) (string, error) {
	record, err := withRetry(ctx, s, func() (*secretstoreDomain.SecretRecord, error) {
		return s.client.ReadSecret(ctx, s.path(key), s.mount)
	})
	if err != nil {
		s.logFailure(ctx, "get_secret", key, err)
		return "", err
	}

	value, ok := record.Value()
	if !ok {
		err := errors.Wrapf(secretstoreDomain.ErrSecretNotFound, "%s has no %s field", key, secretstoreDomain.ValueField)
		s.logFailure(ctx, "get_secret", key, err)
		return "", err
	}
	return value, nil
}

// SetSecret stores value under key and returns the new version.
func (s *secretAccess) SetSecret(ctx context.Context, key, value string) (int, error) {
	version, err := withRetry(ctx, s, func() (int, error) {
		return s.client.WriteSecret(ctx, s.path(key), map[string]any{secretstoreDomain.ValueField: value}, s.mount)
	})
	if err != nil {
		s.logFailure(ctx, "set_secret", key, err)
		return 0, err
	}
	return version, nil
}

// DeleteSecret removes the latest version of key.
func (s *secretAccess) DeleteSecret(ctx context.Context, key string) error {
	_, err := withRetry(ctx, s, func() (struct{}, error) {
		return struct{}{}, s.client.DeleteSecret(ctx, s.path(key), s.mount)
	})
	if err != nil {
		s.logFailure(ctx, "delete_secret", key, err)
	}
	return err
}

// ListSecrets returns the key names directly under the namespace.
func (s *secretAccess) ListSecrets(ctx context.Context) ([]string, error) {
	keys, err := withRetry(ctx, s, func() ([]string, error) {
		return s.client.ListSecrets(ctx, s.secretPath, s.mount)
	})
	if err != nil {
		s.logFailure(ctx, "list_secrets", s.secretPath, err)
		return []string{}, err
	}

	// Folder entries such as the rotation metadata folder are not logical keys.
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, "/") {
			names = append(names, key)
		}
	}
	return names, nil
}

// RotateKey delegates to the owned engine without retrying.
func (s *secretAccess) RotateKey(
	ctx context.Context,
	keyName, material string,
) (*rotationDomain.RotationMetadata, error) {
	metadata, err := s.engine.RotateKey(ctx, keyName, material)
	if err != nil {
		s.logFailure(ctx, "rotate_key", keyName, err)
	}
	return metadata, err
}

// GetRotationStatus delegates to the owned engine.
func (s *secretAccess) GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error) {
	status, err := s.engine.GetRotationStatus(ctx, keyName)
	if err != nil {
		s.logFailure(ctx, "get_rotation_status", keyName, err)
	}
	return status, err
}

// GetPolicy returns the ACL policy document called name.
func (s *secretAccess) GetPolicy(ctx context.Context, name string) (string, error) {
	document, err := withRetry(ctx, s, func() (string, error) {
		return s.client.ReadPolicy(ctx, name)
	})
	if err != nil {
		s.logFailure(ctx, "get_policy", name, err)
		return "", err
	}
	return document, nil
}

// CreatePolicy creates or replaces the ACL policy called name.
func (s *secretAccess) CreatePolicy(ctx context.Context, name, document string) error {
	_, err := withRetry(ctx, s, func() (struct{}, error) {
		return struct{}{}, s.client.CreatePolicy(ctx, name, document)
	})
	if err != nil {
		s.logFailure(ctx, "create_policy", name, err)
	}
	return err
}

// IsHealthy reports whether the store is reachable, initialized and unsealed.
func (s *secretAccess) IsHealthy(ctx context.Context) bool {
	return s.client.HealthCheck(ctx)
}

// RotationEngine returns the engine owned by the facade.
func (s *secretAccess) RotationEngine() rotationUsecase.Engine {
	return s.engine
}

// logFailure is the single place facade failures are logged. Absence is expected
// and logged at debug.
func (s *secretAccess) logFailure(ctx context.Context, op, subject string, err error) {
	attrs := []any{
		slog.String("operation", op),
		slog.String("subject", subject),
		slog.Any("error", err),
	}
	if errors.Is(err, errors.ErrNotFound) {
		s.logger.DebugContext(ctx, "secret store entry not found", attrs...)
		return
	}
	s.logger.ErrorContext(ctx, "secret store operation failed", attrs...)
}

// withRetry runs fn with jittered exponential backoff, retrying transient failures only.
func withRetry[T any](ctx context.Context, s *secretAccess, fn func() (T, error)) (T, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(s.retry.InitialInterval),
				backoff.WithMaxInterval(s.retry.MaxInterval),
			),
			uint64(s.retry.MaxAttempts-1),
		),
		ctx,
	)

	operation := func() (T, error) {
		result, err := fn()
		if err != nil && !isTransient(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, wait time.Duration) {
		s.logger.DebugContext(ctx, "retrying secret store call",
			slog.Duration("retry_in", wait),
			slog.Any("error", err),
		)
	}

	return backoff.RetryNotifyWithData(operation, policy, notify)
}

// isTransient reports whether a store failure may succeed on retry. Absence, denial
// and policy failures never do; neither does a client error answer.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrForbidden),
		errors.Is(err, errors.ErrPolicyViolation),
		errors.Is(err, errors.ErrInvalidInput):
		return false
	}

	var transportErr *secretstoreDomain.TransportError
	if errors.As(err, &transportErr) {
		code := transportErr.StatusCode
		return code == 0 || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	return errors.Is(err, errors.ErrUnavailable)
}
