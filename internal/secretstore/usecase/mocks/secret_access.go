// Package mocks provides mock implementations of the secret access facade for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// MockSecretAccess is a mock implementation of usecase.SecretAccess.
type MockSecretAccess struct {
	mock.Mock
}

// GetSecret mocks the GetSecret method.
func (m *MockSecretAccess) GetSecret(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// SetSecret mocks the SetSecret method.
func (m *MockSecretAccess) SetSecret(ctx context.Context, key, value string) (int, error) {
	args := m.Called(ctx, key, value)
	return args.Int(0), args.Error(1)
}

// DeleteSecret mocks the DeleteSecret method.
func (m *MockSecretAccess) DeleteSecret(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ListSecrets mocks the ListSecrets method.
func (m *MockSecretAccess) ListSecrets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// RotateKey mocks the RotateKey method.
func (m *MockSecretAccess) RotateKey(
	ctx context.Context,
	keyName, material string,
) (*rotationDomain.RotationMetadata, error) {
	args := m.Called(ctx, keyName, material)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rotationDomain.RotationMetadata), args.Error(1)
}

// GetRotationStatus mocks the GetRotationStatus method.
func (m *MockSecretAccess) GetRotationStatus(
	ctx context.Context,
	keyName string,
) (*rotationDomain.RotationStatus, error) {
	args := m.Called(ctx, keyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rotationDomain.RotationStatus), args.Error(1)
}

// GetPolicy mocks the GetPolicy method.
func (m *MockSecretAccess) GetPolicy(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// CreatePolicy mocks the CreatePolicy method.
func (m *MockSecretAccess) CreatePolicy(ctx context.Context, name, document string) error {
	args := m.Called(ctx, name, document)
	return args.Error(0)
}

// IsHealthy mocks the IsHealthy method.
func (m *MockSecretAccess) IsHealthy(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// RotationEngine mocks the RotationEngine method.
func (m *MockSecretAccess) RotationEngine() rotationUsecase.Engine {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(rotationUsecase.Engine)
}
