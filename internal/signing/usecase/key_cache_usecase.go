package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/quipay/keysmith/internal/errors"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
	signingService "github.com/quipay/keysmith/internal/signing/service"
)

type keyCache struct {
	source SecretSource
	parser signingService.KeyParser
	signer signingService.Signer
	logger *slog.Logger
	now    func() time.Time
	single singleflight.Group

	mu      sync.RWMutex
	ttl     time.Duration
	configs map[string]signingDomain.KeyAccessConfig
	entries map[string]*signingDomain.CachedKeyEntry
	// A refill only stores its entry if the key's generation is unchanged.
	epoch       uint64
	generations map[string]uint64
}

// NewKeyCache creates a KeyCache reading keys through source.
func NewKeyCache(
	source SecretSource,
	parser signingService.KeyParser,
	signer signingService.Signer,
	ttl time.Duration,
	logger *slog.Logger,
) (KeyCache, error) {
	if ttl <= 0 {
		return nil, signingDomain.ErrInvalidCacheTTL
	}

	return &keyCache{
		source:  source,
		parser:  parser,
		signer:  signer,
		logger:  logger,
		now:     time.Now,
		ttl:     ttl,
		configs: make(map[string]signingDomain.KeyAccessConfig),
		entries: make(map[string]*signingDomain.CachedKeyEntry),

		generations: make(map[string]uint64),
	}, nil
}

// Register stores config for its key.
func (c *keyCache) Register(config signingDomain.KeyAccessConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[config.KeyName] = config
	return nil
}

// GetSigningKey returns the named key after enforcing its rotation policy. Concurrent
// misses share one refill; each caller stops waiting when its own ctx is done.
func (c *keyCache) GetSigningKey(ctx context.Context, keyName string) (*signingDomain.SigningKey, error) {
	if key, hit, err := c.cached(keyName); hit {
		return key, err
	}

	generation := c.generation(keyName)
	// The refill outlives any single caller; store calls stay bounded by the request timeout.
	refillCtx := context.WithoutCancel(ctx)
	result := c.single.DoChan(fmt.Sprintf("refill:%s:%d", keyName, generation), func() (any, error) {
		return c.refill(refillCtx, keyName, generation)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "wait for signing key %s", keyName)
	case r := <-result:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*signingDomain.SigningKey), nil
	}
}

// generation returns the current generation of keyName. ClearCache advances it.
func (c *keyCache) generation(keyName string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch + c.generations[keyName]
}

// cached serves a fresh entry. Stale entries are evicted and reported as a miss. An
// entry whose grace deadline has passed is evicted and reported as a hit with
// ErrGracePeriodExceeded.
func (c *keyCache) cached(keyName string) (*signingDomain.SigningKey, bool, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[keyName]
	ttl := c.ttl
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.Fresh(now, ttl) {
		c.evict(keyName, entry)
		return nil, false, nil
	}

	if entry.GraceExpired(now) {
		c.evict(keyName, entry)
		c.logger.Error("cached signing key exceeded rotation grace period",
			slog.String("key_name", keyName),
			slog.Time("grace_deadline", *entry.GraceDeadline),
		)
		return nil, true, errors.Wrapf(signingDomain.ErrGracePeriodExceeded, "key %s", keyName)
	}

	return entry.Key, true, nil
}

// evict removes entry unless a concurrent refill already replaced it.
func (c *keyCache) evict(keyName string, entry *signingDomain.CachedKeyEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[keyName] == entry {
		delete(c.entries, keyName)
	}
}

func (c *keyCache) refill(ctx context.Context, keyName string, generation uint64) (*signingDomain.SigningKey, error) {
	config := c.accessConfig(keyName)
	now := c.now()

	var graceDeadline *time.Time
	if config.RequireRotationCheck {
		status, err := c.source.GetRotationStatus(ctx, keyName)
		if err != nil {
			return nil, errors.Wrapf(signingDomain.ErrSigningKeyUnavailable, "rotation status of %s: %v", keyName, err)
		}
		if !status.NeverRotated() {
			deadline := config.GraceDeadline(*status.LastRotated)
			if now.After(deadline) {
				c.logger.Error("signing key exceeded rotation grace period",
					slog.String("key_name", keyName),
					slog.Time("last_rotated", *status.LastRotated),
					slog.Int("max_rotation_grace_period_days", config.MaxRotationGracePeriodDays),
				)
				return nil, errors.Wrapf(signingDomain.ErrGracePeriodExceeded, "key %s", keyName)
			}
			graceDeadline = &deadline
		}
	}

	material, err := c.source.GetSecret(ctx, keyName)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Wrapf(signingDomain.ErrSigningKeyNotFound, "key %s", keyName)
		}
		return nil, errors.Wrapf(signingDomain.ErrSigningKeyUnavailable, "key %s: %v", keyName, err)
	}

	key, err := c.parser.Parse(keyName, material)
	if err != nil {
		c.logger.Error("invalid signing key material", slog.String("key_name", keyName), slog.Any("error", err))
		if errors.Is(err, signingDomain.ErrMalformedKeyMaterial) {
			return nil, err
		}
		return nil, errors.Wrap(signingDomain.ErrMalformedKeyMaterial, err.Error())
	}

	c.mu.Lock()
	stale := c.epoch+c.generations[keyName] != generation
	if !stale {
		c.entries[keyName] = &signingDomain.CachedKeyEntry{
			Key:           key,
			CachedAt:      now,
			GraceDeadline: graceDeadline,
		}
	}
	c.mu.Unlock()

	if stale {
		c.logger.Debug("cache cleared during refill, signing key not cached", slog.String("key_name", keyName))
		return key, nil
	}

	c.logger.Debug("signing key cached",
		slog.String("key_name", keyName),
		slog.String("fingerprint", key.Fingerprint),
	)
	return key, nil
}

// accessConfig returns the registered config, registering defaults for unknown keys.
func (c *keyCache) accessConfig(keyName string) signingDomain.KeyAccessConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	if config, ok := c.configs[keyName]; ok {
		return config
	}

	config := signingDomain.DefaultKeyAccessConfig(keyName)
	c.configs[keyName] = config
	c.logger.Warn("signing key not registered, registering with defaults",
		slog.String("event", "signing_key_lazy_registration"),
		slog.String("key_name", keyName),
		slog.Bool("require_rotation_check", config.RequireRotationCheck),
		slog.Int("max_rotation_grace_period_days", config.MaxRotationGracePeriodDays),
	)
	return config
}

// Sign signs payload with the named key.
func (c *keyCache) Sign(ctx context.Context, keyName string, payload []byte) (*signingDomain.SignedPayload, error) {
	key, err := c.GetSigningKey(ctx, keyName)
	if err != nil {
		return nil, err
	}

	signature, err := c.signer.Sign(key, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "sign with %s", keyName)
	}

	return &signingDomain.SignedPayload{
		KeyName:     keyName,
		Payload:     payload,
		Signature:   signature,
		PublicKey:   key.Address,
		Fingerprint: key.Fingerprint,
		SignedAt:    c.now().UTC(),
	}, nil
}

// ClearCache evicts entries.
func (c *keyCache) ClearCache(keyNames ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keyNames) == 0 {
		clear(c.entries)
		c.epoch++
		return
	}
	for _, name := range keyNames {
		delete(c.entries, name)
		c.generations[name]++
	}
}

// SetCacheTTL changes the TTL. Existing entries are judged against the new TTL.
func (c *keyCache) SetCacheTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return signingDomain.ErrInvalidCacheTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
	return nil
}

// HealthCheck reports the health of the underlying secret store.
func (c *keyCache) HealthCheck(ctx context.Context) bool {
	return c.source.IsHealthy(ctx)
}
