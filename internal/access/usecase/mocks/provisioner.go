// Package mocks provides mock implementations of the access provisioner for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// MockProvisioner is a mock implementation of usecase.Provisioner.
type MockProvisioner struct {
	mock.Mock
}

// ProvisionPolicy mocks the ProvisionPolicy method.
func (m *MockProvisioner) ProvisionPolicy(ctx context.Context, policy accessDomain.AccessPolicy) (string, error) {
	args := m.Called(ctx, policy)
	return args.String(0), args.Error(1)
}

// ProvisionAppRole mocks the ProvisionAppRole method.
func (m *MockProvisioner) ProvisionAppRole(ctx context.Context, role secretstoreDomain.AppRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

// IssueCredentials mocks the IssueCredentials method.
func (m *MockProvisioner) IssueCredentials(
	ctx context.Context,
	roleName string,
) (*secretstoreDomain.AppRoleCredential, error) {
	args := m.Called(ctx, roleName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretstoreDomain.AppRoleCredential), args.Error(1)
}

// EnableSecretsEngine mocks the EnableSecretsEngine method.
func (m *MockProvisioner) EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error {
	args := m.Called(ctx, engine)
	return args.Error(0)
}

// SetupAll mocks the SetupAll method.
func (m *MockProvisioner) SetupAll(ctx context.Context) ([]accessDomain.SetupStep, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accessDomain.SetupStep), args.Error(1)
}
