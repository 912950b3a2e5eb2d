// Package usecase implements the signing key cache. Keys are materialized from the
// secret store, checked against their rotation grace period and cached per name.
package usecase

import (
	"context"
	"time"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// SecretSource is the part of the secret access facade the cache needs.
type SecretSource interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error)
	IsHealthy(ctx context.Context) bool
}

// KeyCache hands out signing keys that satisfy their rotation policy.
type KeyCache interface {
	// Register sets the access configuration of a key. The last registration wins.
	Register(config signingDomain.KeyAccessConfig) error
	// GetSigningKey returns the key, from cache when fresh. It fails with
	// ErrGracePeriodExceeded once the key's grace period is over, even for cached keys.
	GetSigningKey(ctx context.Context, keyName string) (*signingDomain.SigningKey, error)
	// Sign signs an opaque payload with the named key.
	Sign(ctx context.Context, keyName string, payload []byte) (*signingDomain.SignedPayload, error)
	// ClearCache drops the named entries, or every entry when no name is given.
	ClearCache(keyNames ...string)
	SetCacheTTL(ttl time.Duration) error
	HealthCheck(ctx context.Context) bool
}
