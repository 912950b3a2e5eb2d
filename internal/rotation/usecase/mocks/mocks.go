// Package mocks provides mock implementations of the rotation use cases for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
)

// MockEngine is a mock implementation of usecase.Engine.
type MockEngine struct {
	mock.Mock
}

// RotateKey mocks the RotateKey method.
func (m *MockEngine) RotateKey(
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
func (m *MockEngine) GetRotationStatus(ctx context.Context, keyName string) (*rotationDomain.RotationStatus, error) {
	args := m.Called(ctx, keyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rotationDomain.RotationStatus), args.Error(1)
}

// NeedsRotation mocks the NeedsRotation method.
func (m *MockEngine) NeedsRotation(ctx context.Context, keyName string) bool {
	args := m.Called(ctx, keyName)
	return args.Bool(0)
}

// GetAllKeysNeedingRotation mocks the GetAllKeysNeedingRotation method.
func (m *MockEngine) GetAllKeysNeedingRotation(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// SetRotationPeriod mocks the SetRotationPeriod method.
func (m *MockEngine) SetRotationPeriod(days int) error {
	args := m.Called(days)
	return args.Error(0)
}

// SetGracePeriod mocks the SetGracePeriod method.
func (m *MockEngine) SetGracePeriod(days int) error {
	args := m.Called(days)
	return args.Error(0)
}

// Config mocks the Config method.
func (m *MockEngine) Config() rotationDomain.RotationConfig {
	args := m.Called()
	return args.Get(0).(rotationDomain.RotationConfig)
}

// MockKeyGenerator is a mock implementation of usecase.KeyGenerator.
type MockKeyGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockKeyGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of usecase.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NotifyRotation mocks the NotifyRotation method.
func (m *MockNotifier) NotifyRotation(ctx context.Context, event rotationDomain.RotationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockScheduler is a mock implementation of usecase.Scheduler.
type MockScheduler struct {
	mock.Mock
}

// Start mocks the Start method.
func (m *MockScheduler) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stop mocks the Stop method.
func (m *MockScheduler) Stop() {
	m.Called()
}

// RunPass mocks the RunPass method.
func (m *MockScheduler) RunPass(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// TriggerRotation mocks the TriggerRotation method.
func (m *MockScheduler) TriggerRotation(
	ctx context.Context,
	keyName string,
) (*rotationDomain.RotationMetadata, error) {
	args := m.Called(ctx, keyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rotationDomain.RotationMetadata), args.Error(1)
}

// SetCheckInterval mocks the SetCheckInterval method.
func (m *MockScheduler) SetCheckInterval(ctx context.Context, interval time.Duration) error {
	args := m.Called(ctx, interval)
	return args.Error(0)
}

// Status mocks the Status method.
func (m *MockScheduler) Status(ctx context.Context) *rotationDomain.SchedulerStatus {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*rotationDomain.SchedulerStatus)
}
