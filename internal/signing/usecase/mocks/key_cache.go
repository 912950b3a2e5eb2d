// Package mocks provides mock implementations of the signing key cache for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// MockKeyCache is a mock implementation of usecase.KeyCache.
type MockKeyCache struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockKeyCache) Register(config signingDomain.KeyAccessConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

// GetSigningKey mocks the GetSigningKey method.
func (m *MockKeyCache) GetSigningKey(ctx context.Context, keyName string) (*signingDomain.SigningKey, error) {
	args := m.Called(ctx, keyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingDomain.SigningKey), args.Error(1)
}

// Sign mocks the Sign method.
func (m *MockKeyCache) Sign(
	ctx context.Context,
	keyName string,
	payload []byte,
) (*signingDomain.SignedPayload, error) {
	args := m.Called(ctx, keyName, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingDomain.SignedPayload), args.Error(1)
}

// ClearCache mocks the ClearCache method.
func (m *MockKeyCache) ClearCache(keyNames ...string) {
	m.Called(keyNames)
}

// SetCacheTTL mocks the SetCacheTTL method.
func (m *MockKeyCache) SetCacheTTL(ttl time.Duration) error {
	args := m.Called(ttl)
	return args.Error(0)
}

// HealthCheck mocks the HealthCheck method.
func (m *MockKeyCache) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
