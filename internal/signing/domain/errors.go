// Package domain defines signing key models, the seed codec and signing errors.
package domain

import (
	"github.com/quipay/keysmith/internal/errors"
)

// Signing error definitions.
var (
	// ErrSigningKeyNotFound indicates no key material is stored under the key name.
	ErrSigningKeyNotFound = errors.Wrap(errors.ErrNotFound, "signing key not found")

	// ErrGracePeriodExceeded indicates the key was last rotated longer ago than its
	// allowed grace period. The key must not sign until it is rotated.
	ErrGracePeriodExceeded = errors.Wrap(errors.ErrPolicyViolation, "rotation grace period exceeded")

	// ErrSigningKeyUnavailable indicates the rotation status or key material could not
	// be read from the secret store.
	ErrSigningKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "signing key unavailable")

	// ErrMalformedKeyMaterial indicates stored key material is not a valid secret seed.
	ErrMalformedKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "malformed key material")

	// ErrInvalidKeyAccessConfig indicates a key access registration is invalid.
	ErrInvalidKeyAccessConfig = errors.Wrap(errors.ErrInvalidInput, "invalid key access config")

	// ErrInvalidCacheTTL indicates a non-positive cache TTL.
	ErrInvalidCacheTTL = errors.Wrap(errors.ErrInvalidInput, "cache ttl must be positive")
)
