// Package mocks provides mock implementations of the signing services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// MockKeyParser is a mock implementation of service.KeyParser.
type MockKeyParser struct {
	mock.Mock
}

// Parse mocks the Parse method.
func (m *MockKeyParser) Parse(keyName, material string) (*signingDomain.SigningKey, error) {
	args := m.Called(keyName, material)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingDomain.SigningKey), args.Error(1)
}

// MockSigner is a mock implementation of service.Signer.
type MockSigner struct {
	mock.Mock
}

// Sign mocks the Sign method.
func (m *MockSigner) Sign(key *signingDomain.SigningKey, payload []byte) ([]byte, error) {
	args := m.Called(key, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockSigner) Verify(publicKey []byte, payload, signature []byte) bool {
	args := m.Called(publicKey, payload, signature)
	return args.Bool(0)
}
