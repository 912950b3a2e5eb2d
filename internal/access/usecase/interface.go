// Package usecase provisions least-privilege policies and machine identities in the
// secret store.
package usecase

import (
	"context"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// Provisioner renders and installs policies and machine identities.
type Provisioner interface {
	// ProvisionPolicy installs the rendered policy unless an identical document is
	// already present. It returns the step outcome.
	ProvisionPolicy(ctx context.Context, policy accessDomain.AccessPolicy) (string, error)
	ProvisionAppRole(ctx context.Context, role secretstoreDomain.AppRole) error
	// IssueCredentials mints a role id and secret id pair for a catalog role.
	IssueCredentials(ctx context.Context, roleName string) (*secretstoreDomain.AppRoleCredential, error)
	EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error
	// SetupAll provisions the whole catalog in order. Every step is attempted; failed
	// steps are joined into an error matching ErrSetupIncomplete.
	SetupAll(ctx context.Context) ([]accessDomain.SetupStep, error)
}
