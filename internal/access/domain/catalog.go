package domain

import (
	"strings"
	"time"

	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// Standard policy and role names.
const (
	AgentPolicyName    = "quipay-agent-key-access"
	RotationPolicyName = "quipay-key-rotation"
	AdminPolicyName    = "quipay-admin"

	AgentRoleName    = "quipay-agent"
	RotationRoleName = "quipay-rotation"
)

// CatalogConfig parameterizes the standard catalog with the deployment's namespace.
type CatalogConfig struct {
	SecretPath   string
	MountPoint   string
	AgentKeyName string
	TokenTTL     time.Duration
	TokenMaxTTL  time.Duration
}

// Catalog is the set of policies and machine identities provisioned by setup, in
// provisioning order.
type Catalog struct {
	Policies []AccessPolicy
	Roles    []secretstoreDomain.AppRole
}

// Role returns the catalog role called name.
func (c Catalog) Role(name string) (secretstoreDomain.AppRole, bool) {
	for _, role := range c.Roles {
		if role.Name == name {
			return role, true
		}
	}
	return secretstoreDomain.AppRole{}, false
}

// StandardCatalog returns the agent, rotation and admin policies plus the agent and
// rotation machine identities. Paths address the KV v2 data and metadata trees.
func StandardCatalog(cfg CatalogConfig) Catalog {
	secretPath := strings.Trim(cfg.SecretPath, "/")
	root := strings.SplitN(secretPath, "/", 2)[0]
	mount := strings.Trim(cfg.MountPoint, "/")

	data := func(p string) string { return mount + "/data/" + p }
	metadata := func(p string) string { return mount + "/metadata/" + p }

	agent := AccessPolicy{
		Name:         AgentPolicyName,
		Description:  "Least privilege access for the signing agent",
		Path:         secretPath,
		Capabilities: []Capability{ReadCapability},
		// The signing path reads rotation metadata before the key itself.
		RequiredSecretPaths: []string{
			data(secretPath + "/" + cfg.AgentKeyName),
			data(secretPath + "/metadata/" + cfg.AgentKeyName),
		},
	}

	rotation := AccessPolicy{
		Name:         RotationPolicyName,
		Description:  "Automated key rotation service",
		Path:         secretPath,
		Capabilities: []Capability{CreateCapability, ReadCapability, UpdateCapability, DeleteCapability, ListCapability},
		RequiredSecretPaths: []string{
			data(secretPath + "/*"),
			metadata(secretPath + "/*"),
		},
	}

	admin := AccessPolicy{
		Name:         AdminPolicyName,
		Description:  "Full administrative access to Quipay secrets",
		Path:         root,
		Capabilities: AllCapabilities,
		RequiredSecretPaths: []string{
			data(root + "/*"),
			metadata(root + "/*"),
		},
	}

	return Catalog{
		Policies: []AccessPolicy{agent, rotation, admin},
		Roles: []secretstoreDomain.AppRole{
			{Name: AgentRoleName, Policies: []string{AgentPolicyName}, TokenTTL: cfg.TokenTTL, TokenMaxTTL: cfg.TokenMaxTTL},
			{Name: RotationRoleName, Policies: []string{RotationPolicyName}, TokenTTL: cfg.TokenTTL, TokenMaxTTL: cfg.TokenMaxTTL},
		},
	}
}
