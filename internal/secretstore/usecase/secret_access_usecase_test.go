package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quipay/keysmith/internal/errors"
	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreMocks "github.com/quipay/keysmith/internal/secretstore/service/mocks"
)

func newTestSecretAccess(t *testing.T, client *secretstoreMocks.MockClient) SecretAccess {
	t.Helper()

	access, err := NewSecretAccess(client, Config{
		SecretPath: "quipay/keys",
		MountPoint: "secret",
		Rotation:   rotationDomain.DefaultRotationConfig(),
		Retry:      RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return access
}

func serverError(path string) error {
	return &secretstoreDomain.TransportError{Op: "read_secret", Path: path, StatusCode: 503}
}

func TestNewSecretAccess(t *testing.T) {
	t.Run("Success_NormalizesRetry", func(t *testing.T) {
		access, err := NewSecretAccess(&secretstoreMocks.MockClient{}, Config{
			SecretPath: "/quipay/keys/",
			MountPoint: "secret",
			Rotation:   rotationDomain.DefaultRotationConfig(),
		}, slog.Default())

		require.NoError(t, err)
		impl := access.(*secretAccess)
		assert.Equal(t, "quipay/keys", impl.secretPath)
		assert.Equal(t, 1, impl.retry.MaxAttempts)
		assert.Equal(t, DefaultRetryInitialInterval, impl.retry.InitialInterval)
		assert.Equal(t, DefaultRetryMaxInterval, impl.retry.MaxInterval)
		assert.NotNil(t, access.RotationEngine())
	})

	t.Run("Error_InvalidRotationConfig", func(t *testing.T) {
		access, err := NewSecretAccess(&secretstoreMocks.MockClient{}, Config{
			SecretPath: "quipay/keys",
			MountPoint: "secret",
		}, slog.Default())

		assert.Nil(t, access)
		assert.ErrorIs(t, err, rotationDomain.ErrInvalidRotationConfig)
	})
}

func TestSecretAccess_GetSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(&secretstoreDomain.SecretRecord{Data: map[string]any{"value": "SEED"}}, nil).
			Once()

		value, err := access.GetSecret(ctx, "hot-wallet")

		require.NoError(t, err)
		assert.Equal(t, "SEED", value)
	})

	t.Run("Success_RetriesTransientFailure", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(nil, serverError("quipay/keys/hot-wallet")).
			Twice()
		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(&secretstoreDomain.SecretRecord{Data: map[string]any{"value": "SEED"}}, nil).
			Once()

		value, err := access.GetSecret(ctx, "hot-wallet")

		require.NoError(t, err)
		assert.Equal(t, "SEED", value)
		client.AssertNumberOfCalls(t, "ReadSecret", 3)
	})

	t.Run("Error_RetriesAreBounded", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(nil, serverError("quipay/keys/hot-wallet"))

		value, err := access.GetSecret(ctx, "hot-wallet")

		assert.Empty(t, value)
		assert.ErrorIs(t, err, errors.ErrUnavailable)
		client.AssertNumberOfCalls(t, "ReadSecret", 3)
	})

	t.Run("Error_NotFoundIsNotRetried", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/missing", "secret").
			Return(nil, secretstoreDomain.ErrSecretNotFound)

		_, err := access.GetSecret(ctx, "missing")

		assert.ErrorIs(t, err, errors.ErrNotFound)
		client.AssertNumberOfCalls(t, "ReadSecret", 1)
	})

	t.Run("Error_ForbiddenIsNotRetried", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(nil, &secretstoreDomain.TransportError{Op: "read_secret", StatusCode: 403})

		_, err := access.GetSecret(ctx, "hot-wallet")

		assert.ErrorIs(t, err, errors.ErrForbidden)
		client.AssertNumberOfCalls(t, "ReadSecret", 1)
	})

	t.Run("Error_ClientErrorStatusIsNotRetried", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(nil, &secretstoreDomain.TransportError{Op: "read_secret", StatusCode: 400})

		_, err := access.GetSecret(ctx, "hot-wallet")

		assert.ErrorIs(t, err, errors.ErrUnavailable)
		client.AssertNumberOfCalls(t, "ReadSecret", 1)
	})

	t.Run("Error_MissingValueField", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/hot-wallet", "secret").
			Return(&secretstoreDomain.SecretRecord{Data: map[string]any{"other": "x"}}, nil).
			Once()

		_, err := access.GetSecret(ctx, "hot-wallet")

		assert.ErrorIs(t, err, secretstoreDomain.ErrSecretNotFound)
	})
}

func TestSecretAccess_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SetSecret", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("WriteSecret", ctx, "quipay/keys/api", map[string]any{"value": "v"}, "secret").
			Return(0, serverError("quipay/keys/api")).
			Once()
		client.On("WriteSecret", ctx, "quipay/keys/api", map[string]any{"value": "v"}, "secret").
			Return(7, nil).
			Once()

		version, err := access.SetSecret(ctx, "api", "v")

		require.NoError(t, err)
		assert.Equal(t, 7, version)
	})

	t.Run("Success_DeleteSecret", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("DeleteSecret", ctx, "quipay/keys/api", "secret").Return(nil).Once()

		assert.NoError(t, access.DeleteSecret(ctx, "api"))
	})

	t.Run("Error_DeleteSecret", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("DeleteSecret", ctx, "quipay/keys/api", "secret").Return(errors.ErrForbidden).Once()

		assert.ErrorIs(t, access.DeleteSecret(ctx, "api"), errors.ErrForbidden)
	})
}

func TestSecretAccess_ListSecrets(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ListSecrets", ctx, "quipay/keys", "secret").Return([]string{"a", "metadata/", "b"}, nil).Once()

		keys, err := access.ListSecrets(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, keys)
	})

	t.Run("Success_EmptyNamespace", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ListSecrets", ctx, "quipay/keys", "secret").Return(nil, nil).Once()

		keys, err := access.ListSecrets(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{}, keys)
	})

	t.Run("Error_ReturnsEmptyListAndError", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ListSecrets", ctx, "quipay/keys", "secret").
			Return(nil, &secretstoreDomain.TransportError{Op: "list_secrets", Err: context.DeadlineExceeded})

		keys, err := access.ListSecrets(ctx)

		assert.ErrorIs(t, err, errors.ErrUnavailable)
		assert.Equal(t, []string{}, keys)
		client.AssertNumberOfCalls(t, "ListSecrets", 3)
	})
}

func TestSecretAccess_Rotation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DelegatesToEngine", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/metadata/hot-wallet", "secret").
			Return(nil, secretstoreDomain.ErrSecretNotFound)
		client.On("WriteSecret", ctx, "quipay/keys/hot-wallet", mock.Anything, "secret").Return(1, nil).Once()
		client.On("WriteSecret", ctx, "quipay/keys/metadata/hot-wallet", mock.Anything, "secret").Return(1, nil).Once()

		metadata, err := access.RotateKey(ctx, "hot-wallet", "SEED")
		require.NoError(t, err)
		assert.Equal(t, 1, metadata.RotationVersion)

		status, err := access.GetRotationStatus(ctx, "hot-wallet")
		require.NoError(t, err)
		assert.True(t, status.NeverRotated())
	})

	t.Run("Error_RotationIsNotRetried", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadSecret", ctx, "quipay/keys/metadata/hot-wallet", "secret").
			Return(nil, serverError("quipay/keys/metadata/hot-wallet")).
			Once()

		metadata, err := access.RotateKey(ctx, "hot-wallet", "SEED")

		assert.Nil(t, metadata)
		assert.ErrorIs(t, err, errors.ErrUnavailable)
		client.AssertNumberOfCalls(t, "ReadSecret", 1)
	})
}

func TestSecretAccess_Policies(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_GetPolicy", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadPolicy", ctx, "agent").Return(`path "a" {}`, nil).Once()

		document, err := access.GetPolicy(ctx, "agent")

		require.NoError(t, err)
		assert.Equal(t, `path "a" {}`, document)
	})

	t.Run("Error_GetPolicyNotFound", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("ReadPolicy", ctx, "agent").Return("", secretstoreDomain.ErrPolicyNotFound).Once()

		_, err := access.GetPolicy(ctx, "agent")

		assert.ErrorIs(t, err, secretstoreDomain.ErrPolicyNotFound)
	})

	t.Run("Success_CreatePolicy", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		access := newTestSecretAccess(t, client)

		client.On("CreatePolicy", ctx, "agent", "doc").Return(nil).Once()

		assert.NoError(t, access.CreatePolicy(ctx, "agent", "doc"))
	})
}

func TestSecretAccess_IsHealthy(t *testing.T) {
	ctx := context.Background()
	client := &secretstoreMocks.MockClient{}
	access := newTestSecretAccess(t, client)

	client.On("HealthCheck", ctx).Return(false).Once()

	assert.False(t, access.IsHealthy(ctx))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "NoResponse", err: &secretstoreDomain.TransportError{Err: context.DeadlineExceeded}, expected: true},
		{name: "ServerError", err: &secretstoreDomain.TransportError{StatusCode: 500}, expected: true},
		{name: "TooManyRequests", err: &secretstoreDomain.TransportError{StatusCode: 429}, expected: true},
		{name: "BadRequest", err: &secretstoreDomain.TransportError{StatusCode: 400}, expected: false},
		{name: "Forbidden", err: &secretstoreDomain.TransportError{StatusCode: 403}, expected: false},
		{name: "NotFound", err: secretstoreDomain.ErrSecretNotFound, expected: false},
		{name: "PolicyViolation", err: errors.ErrPolicyViolation, expected: false},
		{name: "Unavailable", err: errors.ErrUnavailable, expected: true},
		{name: "Other", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isTransient(tt.err))
		})
	}
}
