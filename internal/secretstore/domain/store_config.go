package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/quipay/keysmith/internal/errors"
	appValidation "github.com/quipay/keysmith/internal/validation"
)

// DefaultRequestTimeout bounds store requests when no timeout is configured.
const DefaultRequestTimeout = 10 * time.Second

// StoreConfig holds connection settings for the secret store. It is immutable once
// the client is built.
type StoreConfig struct {
	Address   string
	Token     string
	Namespace string
	// Timeout bounds every request. Zero means DefaultRequestTimeout.
	Timeout time.Duration
	// RateLimitPerSec limits outbound requests. Zero disables the limiter.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Validate checks the store configuration.
func (c StoreConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required, appValidation.HTTPURL),
		validation.Field(&c.Token, appValidation.NoWhitespace),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimitPerSec, validation.Min(0.0)),
		validation.Field(&c.RateLimitBurst,
			validation.When(c.RateLimitPerSec > 0, validation.Required, validation.Min(1)),
		),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidStoreConfig, err.Error())
	}
	return nil
}

// RequestTimeout returns the configured timeout or DefaultRequestTimeout.
func (c StoreConfig) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.Timeout
}
