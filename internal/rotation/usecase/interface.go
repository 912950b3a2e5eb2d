// Package usecase implements key rotation: the rotation engine that keeps per-key
// rotation metadata and the background scheduler that rotates due keys in batches.
package usecase

import (
	"context"
	"time"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
)

// Engine applies the rotation policy to one key namespace. It keeps no state across
// calls; every query re-reads the store.
type Engine interface {
	// RotateKey stores new material for keyName and records the rotation. A failed
	// status read aborts before anything is written. A metadata write failure after
	// the key write returns ErrPartialRotation.
	RotateKey(ctx context.Context, keyName, material string) (*rotationDomain.RotationMetadata, error)
	// GetRotationStatus returns a zero status and no error for a never rotated key.
	GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error)
	// NeedsRotation reports true for a never rotated key, a key past its period,
	// or when the status cannot be read.
	NeedsRotation(ctx context.Context, keyName string) bool
	// GetAllKeysNeedingRotation returns due keys in listing order. A listing failure
	// yields an empty list.
	GetAllKeysNeedingRotation(ctx context.Context) []string
	SetRotationPeriod(days int) error
	SetGracePeriod(days int) error
	Config() rotationDomain.RotationConfig
}

// KeyGenerator produces fresh key material for a rotation.
type KeyGenerator interface {
	Generate() (string, error)
}

// Notifier is told about every successful rotation.
type Notifier interface {
	NotifyRotation(ctx context.Context, event rotationDomain.RotationEvent) error
}

// Scheduler drives periodic rotation of due keys.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop()
	RunPass(ctx context.Context) error
	TriggerRotation(ctx context.Context, keyName string) (*rotationDomain.RotationMetadata, error)
	SetCheckInterval(ctx context.Context, interval time.Duration) error
	Status(ctx context.Context) *rotationDomain.SchedulerStatus
}
