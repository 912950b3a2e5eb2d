// Package service provides the raw secret store binding: a Vault HTTP client and a
// decorator that seals key material with a gocloud.dev keeper before it is stored.
package service

import (
	"context"

	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// Client is the request/response binding to the secret store. It carries no business
// logic and never retries.
type Client interface {
	// ReadSecret returns the latest live version at path, or ErrSecretNotFound.
	ReadSecret(ctx context.Context, path, mount string) (*secretstoreDomain.SecretRecord, error)
	// WriteSecret stores data as a new version and returns the version number.
	WriteSecret(ctx context.Context, path string, data map[string]any, mount string) (int, error)
	DeleteSecret(ctx context.Context, path, mount string) error
	// ListSecrets returns the entries under prefix. Folder entries keep their trailing "/".
	// Any non-success listing response yields an empty list and no error.
	ListSecrets(ctx context.Context, prefix, mount string) ([]string, error)
	// ReadPolicy returns the ACL policy document, or ErrPolicyNotFound.
	ReadPolicy(ctx context.Context, name string) (string, error)
	CreatePolicy(ctx context.Context, name, document string) error
	EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error
	CreateAppRole(ctx context.Context, role secretstoreDomain.AppRole) error
	// IssueAppRoleCredentials fetches the role id and mints a secret id. Either step
	// failing fails the call.
	IssueAppRoleCredentials(ctx context.Context, roleName string) (*secretstoreDomain.AppRoleCredential, error)
	// HealthCheck reports whether the store is initialized and unsealed. It never errors.
	HealthCheck(ctx context.Context) bool
}
