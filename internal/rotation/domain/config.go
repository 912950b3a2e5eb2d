// Package domain defines rotation policy, rotation metadata and scheduler models.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/quipay/keysmith/internal/errors"
)

// Defaults applied when no configuration is supplied.
const (
	DefaultRotationPeriodDays = 30
	DefaultGracePeriodDays    = 7
	DefaultCheckInterval      = 24 * time.Hour
	DefaultMaxKeysPerBatch    = 5
)

// RotationConfig is the rotation policy of one key namespace.
type RotationConfig struct {
	// RotationPeriodDays is the number of days after which a key is due.
	RotationPeriodDays int
	// GracePeriodDays is how long past its last rotation a key may still sign.
	GracePeriodDays int
}

// DefaultRotationConfig returns the 30 day period with a 7 day grace window.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		RotationPeriodDays: DefaultRotationPeriodDays,
		GracePeriodDays:    DefaultGracePeriodDays,
	}
}

// Validate checks the rotation policy.
func (c RotationConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.RotationPeriodDays, validation.Required, validation.Min(1)),
		validation.Field(&c.GracePeriodDays, validation.Min(0)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidRotationConfig, err.Error())
	}
	return nil
}

// JobConfig controls the background rotation scheduler.
type JobConfig struct {
	CheckInterval   time.Duration `json:"check_interval"`
	MaxKeysPerBatch int           `json:"max_keys_per_batch"`
}

// DefaultJobConfig returns a daily check rotating at most five keys per pass.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		CheckInterval:   DefaultCheckInterval,
		MaxKeysPerBatch: DefaultMaxKeysPerBatch,
	}
}

// Validate checks the job configuration.
func (c JobConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.CheckInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxKeysPerBatch, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidRotationConfig, err.Error())
	}
	return nil
}
