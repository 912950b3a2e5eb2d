package domain

import (
	"github.com/quipay/keysmith/internal/errors"
)

// Access provisioning error definitions.
var (
	// ErrInvalidAccessPolicy indicates a policy template failed validation.
	ErrInvalidAccessPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid access policy")

	// ErrInvalidMachineRole indicates a machine identity definition failed validation.
	ErrInvalidMachineRole = errors.Wrap(errors.ErrInvalidInput, "invalid machine role")

	// ErrUnknownRole indicates credentials were requested for a role outside the catalog.
	ErrUnknownRole = errors.Wrap(errors.ErrNotFound, "role not in catalog")

	// ErrSetupIncomplete indicates at least one provisioning step failed. The failed
	// steps are joined to it.
	ErrSetupIncomplete = errors.New("access setup incomplete")
)
