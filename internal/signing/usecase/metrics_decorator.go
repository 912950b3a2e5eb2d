package usecase

import (
	"context"
	"time"

	"github.com/quipay/keysmith/internal/metrics"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// keyCacheWithMetrics decorates KeyCache with metrics instrumentation.
type keyCacheWithMetrics struct {
	next    KeyCache
	metrics metrics.BusinessMetrics
}

// NewKeyCacheWithMetrics wraps a KeyCache with metrics recording.
func NewKeyCacheWithMetrics(next KeyCache, m metrics.BusinessMetrics) KeyCache {
	return &keyCacheWithMetrics{
		next:    next,
		metrics: m,
	}
}

// Register passes through.
func (k *keyCacheWithMetrics) Register(config signingDomain.KeyAccessConfig) error {
	return k.next.Register(config)
}

// GetSigningKey records metrics for key retrieval, cache hits included.
func (k *keyCacheWithMetrics) GetSigningKey(ctx context.Context, keyName string) (*signingDomain.SigningKey, error) {
	start := time.Now()
	key, err := k.next.GetSigningKey(ctx, keyName)

	status := metrics.StatusFor(err)
	k.metrics.RecordOperation(ctx, "signing", "signing_key_get", status)
	k.metrics.RecordDuration(ctx, "signing", "signing_key_get", time.Since(start), status)

	return key, err
}

// Sign records metrics for payload signing.
func (k *keyCacheWithMetrics) Sign(
	ctx context.Context,
	keyName string,
	payload []byte,
) (*signingDomain.SignedPayload, error) {
	start := time.Now()
	signed, err := k.next.Sign(ctx, keyName, payload)

	status := metrics.StatusFor(err)
	k.metrics.RecordOperation(ctx, "signing", "payload_sign", status)
	k.metrics.RecordDuration(ctx, "signing", "payload_sign", time.Since(start), status)

	return signed, err
}

// ClearCache passes through.
func (k *keyCacheWithMetrics) ClearCache(keyNames ...string) {
	k.next.ClearCache(keyNames...)
}

// SetCacheTTL passes through.
func (k *keyCacheWithMetrics) SetCacheTTL(ttl time.Duration) error {
	return k.next.SetCacheTTL(ttl)
}

// HealthCheck passes through.
func (k *keyCacheWithMetrics) HealthCheck(ctx context.Context) bool {
	return k.next.HealthCheck(ctx)
}
