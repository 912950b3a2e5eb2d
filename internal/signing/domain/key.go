package domain

import (
	"crypto/ed25519"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/quipay/keysmith/internal/errors"
	appValidation "github.com/quipay/keysmith/internal/validation"
)

// Defaults applied to lazily registered keys.
const (
	DefaultRequireRotationCheck = true
	DefaultMaxGracePeriodDays   = 7
	DefaultCacheTTL             = 5 * time.Minute
)

// KeyAccessConfig is the access policy for one signing key.
type KeyAccessConfig struct {
	KeyName                    string `json:"key_name"`
	RequireRotationCheck       bool   `json:"require_rotation_check"`
	MaxRotationGracePeriodDays int    `json:"max_rotation_grace_period_days"`
}

// DefaultKeyAccessConfig returns the configuration used for keys nobody registered.
func DefaultKeyAccessConfig(keyName string) KeyAccessConfig {
	return KeyAccessConfig{
		KeyName:                    keyName,
		RequireRotationCheck:       DefaultRequireRotationCheck,
		MaxRotationGracePeriodDays: DefaultMaxGracePeriodDays,
	}
}

// Validate checks the key access configuration.
func (c KeyAccessConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.KeyName, validation.Required, appValidation.NoWhitespace),
		validation.Field(&c.MaxRotationGracePeriodDays, validation.Min(0)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidKeyAccessConfig, err.Error())
	}
	return nil
}

// GraceDeadline returns the instant after which a key rotated at lastRotated may no
// longer sign.
func (c KeyAccessConfig) GraceDeadline(lastRotated time.Time) time.Time {
	return lastRotated.AddDate(0, 0, c.MaxRotationGracePeriodDays)
}

// SigningKey is a materialized ed25519 signing key. The private half never leaves
// the process and is never serialized.
type SigningKey struct {
	Name        string
	PublicKey   ed25519.PublicKey
	Address     string
	Fingerprint string
	privateKey  ed25519.PrivateKey
}

// NewSigningKey builds a SigningKey from its parts.
func NewSigningKey(name string, privateKey ed25519.PrivateKey, address, fingerprint string) *SigningKey {
	return &SigningKey{
		Name:        name,
		PublicKey:   privateKey.Public().(ed25519.PublicKey),
		Address:     address,
		Fingerprint: fingerprint,
		privateKey:  privateKey,
	}
}

// PrivateKey returns the private key for signers.
func (k *SigningKey) PrivateKey() ed25519.PrivateKey {
	return k.privateKey
}

// CachedKeyEntry is one signing key held by the cache. GraceDeadline is nil when
// the key was admitted without a rotation check or was never rotated.
type CachedKeyEntry struct {
	Key           *SigningKey
	CachedAt      time.Time
	GraceDeadline *time.Time
}

// Fresh reports whether the entry is younger than ttl at now.
func (e *CachedKeyEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// GraceExpired reports whether the entry's grace deadline has passed at now.
func (e *CachedKeyEntry) GraceExpired(now time.Time) bool {
	return e.GraceDeadline != nil && now.After(*e.GraceDeadline)
}

// SignedPayload is the result of signing an opaque payload.
type SignedPayload struct {
	KeyName     string    `json:"key_name"`
	Payload     []byte    `json:"payload"`
	Signature   []byte    `json:"signature"`
	PublicKey   string    `json:"public_key"`
	Fingerprint string    `json:"fingerprint"`
	SignedAt    time.Time `json:"signed_at"`
}
