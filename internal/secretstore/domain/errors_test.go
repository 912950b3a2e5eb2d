package domain

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quipay/keysmith/internal/errors"
)

func TestTransportError_Is(t *testing.T) {
	t.Run("Success_MatchesUnavailable", func(t *testing.T) {
		err := errors.Wrap(&TransportError{Op: "read_secret", Path: "secret/data/a", StatusCode: 503}, "context")

		assert.ErrorIs(t, err, errors.ErrUnavailable)
		assert.NotErrorIs(t, err, errors.ErrForbidden)
		assert.NotErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("Success_ForbiddenMatchesBoth", func(t *testing.T) {
		err := &TransportError{Op: "write_secret", Path: "secret/data/a", StatusCode: http.StatusForbidden}

		assert.ErrorIs(t, err, errors.ErrForbidden)
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})

	t.Run("Success_UnwrapsCause", func(t *testing.T) {
		err := &TransportError{Op: "read_secret", Path: "secret/data/a", Err: context.DeadlineExceeded}

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTransportError_Error(t *testing.T) {
	t.Run("WithStatusAndMessages", func(t *testing.T) {
		err := &TransportError{
			Op:         "create_policy",
			Path:       "sys/policies/acl/x",
			StatusCode: 400,
			Messages:   []string{"failed to parse policy"},
		}

		assert.Equal(
			t,
			"secret store create_policy sys/policies/acl/x failed: 400 Bad Request: failed to parse policy",
			err.Error(),
		)
	})

	t.Run("WithoutStatus", func(t *testing.T) {
		err := &TransportError{Op: "read_secret", Path: "secret/data/a", Err: context.DeadlineExceeded}

		assert.Equal(t, "secret store read_secret secret/data/a failed: context deadline exceeded", err.Error())
	})
}

func TestDomainErrors(t *testing.T) {
	assert.ErrorIs(t, ErrSecretNotFound, errors.ErrNotFound)
	assert.ErrorIs(t, ErrPolicyNotFound, errors.ErrNotFound)
	assert.ErrorIs(t, ErrInvalidStoreConfig, errors.ErrInvalidInput)
}
