package domain

import (
	"github.com/quipay/keysmith/internal/errors"
)

// Rotation error definitions.
var (
	// ErrPartialRotation indicates the new key material was written but its rotation
	// metadata was not. The key must be re-checked before it is trusted.
	ErrPartialRotation = errors.Wrap(errors.ErrUnavailable, "key written but rotation metadata not recorded")

	// ErrMalformedRotationMetadata indicates stored rotation metadata could not be parsed.
	ErrMalformedRotationMetadata = errors.Wrap(errors.ErrInvalidInput, "malformed rotation metadata")

	// ErrInvalidRotationConfig indicates a rotation or job setting is out of range.
	ErrInvalidRotationConfig = errors.Wrap(errors.ErrInvalidInput, "invalid rotation config")

	// ErrEmptyKeyMaterial indicates a rotation was requested without key material.
	ErrEmptyKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "key material must not be empty")

	// ErrPassAborted indicates a scheduled rotation pass stopped early.
	ErrPassAborted = errors.New("rotation pass aborted")
)
