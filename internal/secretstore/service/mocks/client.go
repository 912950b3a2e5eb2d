// Package mocks provides mock implementations of the secret store client for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// MockClient is a mock implementation of service.Client for testing.
type MockClient struct {
	mock.Mock
}

// ReadSecret mocks the ReadSecret method of Client.
func (m *MockClient) ReadSecret(
	ctx context.Context,
	path, mount string,
) (*secretstoreDomain.SecretRecord, error) {
	args := m.Called(ctx, path, mount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretstoreDomain.SecretRecord), args.Error(1)
}

// WriteSecret mocks the WriteSecret method of Client.
func (m *MockClient) WriteSecret(
	ctx context.Context,
	path string,
	data map[string]any,
	mount string,
) (int, error) {
	args := m.Called(ctx, path, data, mount)
	return args.Int(0), args.Error(1)
}

// DeleteSecret mocks the DeleteSecret method of Client.
func (m *MockClient) DeleteSecret(ctx context.Context, path, mount string) error {
	args := m.Called(ctx, path, mount)
	return args.Error(0)
}

// ListSecrets mocks the ListSecrets method of Client.
func (m *MockClient) ListSecrets(ctx context.Context, prefix, mount string) ([]string, error) {
	args := m.Called(ctx, prefix, mount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ReadPolicy mocks the ReadPolicy method of Client.
func (m *MockClient) ReadPolicy(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// CreatePolicy mocks the CreatePolicy method of Client.
func (m *MockClient) CreatePolicy(ctx context.Context, name, document string) error {
	args := m.Called(ctx, name, document)
	return args.Error(0)
}

// EnableSecretsEngine mocks the EnableSecretsEngine method of Client.
func (m *MockClient) EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error {
	args := m.Called(ctx, engine)
	return args.Error(0)
}

// CreateAppRole mocks the CreateAppRole method of Client.
func (m *MockClient) CreateAppRole(ctx context.Context, role secretstoreDomain.AppRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

// IssueAppRoleCredentials mocks the IssueAppRoleCredentials method of Client.
func (m *MockClient) IssueAppRoleCredentials(
	ctx context.Context,
	roleName string,
) (*secretstoreDomain.AppRoleCredential, error) {
	args := m.Called(ctx, roleName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretstoreDomain.AppRoleCredential), args.Error(1)
}

// HealthCheck mocks the HealthCheck method of Client.
func (m *MockClient) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
