// Package usecase implements the secret access facade: path and mount aware secret
// operations with bounded retries, plus rotation delegated to an owned engine.
package usecase

import (
	"context"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// SecretAccess is the facade over one (secret path, mount point) namespace. Absence is
// reported as an ErrNotFound family error, store failures as TransportError, so callers
// decide between failing open and failing closed.
type SecretAccess interface {
	GetSecret(ctx context.Context, key string) (string, error)
	SetSecret(ctx context.Context, key, value string) (int, error)
	DeleteSecret(ctx context.Context, key string) error
	ListSecrets(ctx context.Context) ([]string, error)
	RotateKey(ctx context.Context, keyName, material string) (*rotationDomain.RotationMetadata, error)
	GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error)
	GetPolicy(ctx context.Context, name string) (string, error)
	CreatePolicy(ctx context.Context, name, document string) error
	IsHealthy(ctx context.Context) bool
	// RotationEngine returns the engine scoped to this namespace.
	RotationEngine() rotationUsecase.Engine
}
