package domain

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/quipay/keysmith/internal/errors"
)

// Secret store error definitions.
var (
	// ErrSecretNotFound indicates no live secret exists at the requested path.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrPolicyNotFound indicates the named ACL policy does not exist.
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "policy not found")

	// ErrUnsealFailed indicates a sealed secret value could not be opened by the keeper.
	ErrUnsealFailed = errors.Wrap(errors.ErrInvalidInput, "sealed secret value could not be opened")

	// ErrInvalidStoreConfig indicates the store configuration failed validation.
	ErrInvalidStoreConfig = errors.Wrap(errors.ErrInvalidInput, "invalid store config")
)

// TransportError describes a failed exchange with the secret store: the request could
// not be delivered, timed out, or the store answered with a non-success status.
//
// Every TransportError matches errors.ErrUnavailable. A 403 answer additionally
// matches errors.ErrForbidden.
type TransportError struct {
	// Op is the client operation that failed (e.g., "read_secret").
	Op string
	// Path is the logical store path of the request.
	Path string
	// StatusCode is the HTTP status returned by the store, zero when no answer was received.
	StatusCode int
	// Messages holds the error strings returned by the store.
	Messages []string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "secret store %s %s failed", e.Op, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if len(e.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Messages, "; "))
	} else if e.Err != nil && e.StatusCode == 0 {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is one of the categories this error belongs to.
func (e *TransportError) Is(target error) bool {
	switch target {
	case errors.ErrUnavailable:
		return true
	case errors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	default:
		return false
	}
}
