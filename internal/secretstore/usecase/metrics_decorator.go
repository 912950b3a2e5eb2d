package usecase

import (
	"context"
	"time"

	"github.com/quipay/keysmith/internal/metrics"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

const metricsDomain = "secrets"

// secretAccessWithMetrics decorates SecretAccess with metrics instrumentation.
type secretAccessWithMetrics struct {
	next    SecretAccess
	metrics metrics.BusinessMetrics
}

// NewSecretAccessWithMetrics wraps a SecretAccess with metrics recording.
func NewSecretAccessWithMetrics(next SecretAccess, m metrics.BusinessMetrics) SecretAccess {
	return &secretAccessWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (s *secretAccessWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// GetSecret records metrics for secret reads.
func (s *secretAccessWithMetrics) GetSecret(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := s.next.GetSecret(ctx, key)
	s.record(ctx, "secret_get", start, err)
	return value, err
}

// SetSecret records metrics for secret writes.
func (s *secretAccessWithMetrics) SetSecret(ctx context.Context, key, value string) (int, error) {
	start := time.Now()
	version, err := s.next.SetSecret(ctx, key, value)
	s.record(ctx, "secret_set", start, err)
	return version, err
}

// DeleteSecret records metrics for secret deletion.
func (s *secretAccessWithMetrics) DeleteSecret(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.DeleteSecret(ctx, key)
	s.record(ctx, "secret_delete", start, err)
	return err
}

// ListSecrets records metrics for secret listing.
func (s *secretAccessWithMetrics) ListSecrets(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := s.next.ListSecrets(ctx)
	s.record(ctx, "secret_list", start, err)
	return keys, err
}

// RotateKey records metrics for rotations requested through the facade.
func (s *secretAccessWithMetrics) RotateKey(
	ctx context.Context,
	keyName, material string,
) (*rotationDomain.RotationMetadata, error) {
	start := time.Now()
	metadata, err := s.next.RotateKey(ctx, keyName, material)
	s.record(ctx, "key_rotate", start, err)
	return metadata, err
}

// GetRotationStatus records metrics for rotation status reads.
func (s *secretAccessWithMetrics) GetRotationStatus(
	ctx context.Context,
	keyName string,
) (*rotationDomain.RotationStatus, error) {
	start := time.Now()
	status, err := s.next.GetRotationStatus(ctx, keyName)
	s.record(ctx, "rotation_status", start, err)
	return status, err
}

// GetPolicy records metrics for policy reads.
func (s *secretAccessWithMetrics) GetPolicy(ctx context.Context, name string) (string, error) {
	start := time.Now()
	document, err := s.next.GetPolicy(ctx, name)
	s.record(ctx, "policy_get", start, err)
	return document, err
}

// CreatePolicy records metrics for policy writes.
func (s *secretAccessWithMetrics) CreatePolicy(ctx context.Context, name, document string) error {
	start := time.Now()
	err := s.next.CreatePolicy(ctx, name, document)
	s.record(ctx, "policy_create", start, err)
	return err
}

// IsHealthy passes through.
func (s *secretAccessWithMetrics) IsHealthy(ctx context.Context) bool {
	return s.next.IsHealthy(ctx)
}

// RotationEngine passes through.
func (s *secretAccessWithMetrics) RotationEngine() rotationUsecase.Engine {
	return s.next.RotationEngine()
}
