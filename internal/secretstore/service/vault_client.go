package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"golang.org/x/time/rate"

	"github.com/quipay/keysmith/internal/errors"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// vaultClient implements Client against the Vault HTTP API (KV v2, ACL policies, AppRole).
type vaultClient struct {
	api     *vault.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// NewVaultClient creates a Client for the store described by cfg. The Vault library's
// own retries and environment rate limiter are disabled.
func NewVaultClient(cfg secretstoreDomain.StoreConfig, logger *slog.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiConfig := vault.DefaultConfig()
	if apiConfig.Error != nil {
		return nil, fmt.Errorf("failed to read vault environment: %w", apiConfig.Error)
	}
	apiConfig.Address = cfg.Address
	apiConfig.Timeout = cfg.RequestTimeout()
	apiConfig.MaxRetries = 0
	apiConfig.Limiter = nil

	api, err := vault.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	api.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		api.SetNamespace(cfg.Namespace)
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	}

	return &vaultClient{
		api:     api,
		limiter: limiter,
		timeout: cfg.RequestTimeout(),
		logger:  logger,
	}, nil
}

// ReadSecret reads the latest version of a KV v2 secret.
func (v *vaultClient) ReadSecret(
	ctx context.Context,
	path, mount string,
) (*secretstoreDomain.SecretRecord, error) {
	fullPath := kvDataPath(mount, path)

	secret, err := v.do(ctx, "read_secret", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().ReadWithContext(ctx, fullPath)
	})
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.Data == nil {
		return nil, secretstoreDomain.ErrSecretNotFound
	}

	data, _ := secret.Data["data"].(map[string]any)
	metadata := parseSecretMetadata(secret.Data["metadata"])
	if data == nil || metadata.DeletionTime != nil || metadata.Destroyed {
		// Soft-deleted and destroyed versions keep their metadata but have no data.
		return nil, secretstoreDomain.ErrSecretNotFound
	}

	return &secretstoreDomain.SecretRecord{Data: data, Metadata: metadata}, nil
}

// WriteSecret writes a new version of a KV v2 secret.
func (v *vaultClient) WriteSecret(
	ctx context.Context,
	path string,
	data map[string]any,
	mount string,
) (int, error) {
	fullPath := kvDataPath(mount, path)

	secret, err := v.do(ctx, "write_secret", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().WriteWithContext(ctx, fullPath, map[string]any{"data": data})
	})
	if err != nil {
		return 0, err
	}
	if secret == nil {
		return 0, nil
	}

	version, _ := toInt(secret.Data["version"])
	return version, nil
}

// DeleteSecret soft-deletes the latest version of a KV v2 secret.
func (v *vaultClient) DeleteSecret(ctx context.Context, path, mount string) error {
	fullPath := kvDataPath(mount, path)

	_, err := v.do(ctx, "delete_secret", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().DeleteWithContext(ctx, fullPath)
	})
	return err
}

// ListSecrets lists KV v2 entries under prefix.
func (v *vaultClient) ListSecrets(ctx context.Context, prefix, mount string) ([]string, error) {
	fullPath := kvMetadataPath(mount, prefix)

	secret, err := v.do(ctx, "list_secrets", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().ListWithContext(ctx, fullPath)
	})
	if err != nil {
		var transportErr *secretstoreDomain.TransportError
		if errors.As(err, &transportErr) && transportErr.StatusCode != 0 {
			v.logger.Debug("listing answered with non-success status, treating as empty",
				slog.String("path", fullPath),
				slog.Int("status", transportErr.StatusCode),
			)
			return []string{}, nil
		}
		return nil, err
	}
	if secret == nil || secret.Data == nil {
		return []string{}, nil
	}

	raw, _ := secret.Data["keys"].([]any)
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys, nil
}

// ReadPolicy reads an ACL policy document.
func (v *vaultClient) ReadPolicy(ctx context.Context, name string) (string, error) {
	fullPath := "sys/policies/acl/" + name

	secret, err := v.do(ctx, "read_policy", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().ReadWithContext(ctx, fullPath)
	})
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", secretstoreDomain.ErrPolicyNotFound
	}

	document, ok := secret.Data["policy"].(string)
	if !ok {
		return "", secretstoreDomain.ErrPolicyNotFound
	}
	return document, nil
}

// CreatePolicy creates or replaces an ACL policy.
func (v *vaultClient) CreatePolicy(ctx context.Context, name, document string) error {
	fullPath := "sys/policies/acl/" + name

	_, err := v.do(ctx, "create_policy", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().WriteWithContext(ctx, fullPath, map[string]any{
			"name":   name,
			"policy": document,
		})
	})
	return err
}

// EnableSecretsEngine mounts a secrets engine at engine.Path.
func (v *vaultClient) EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error {
	if err := engine.Validate(); err != nil {
		return err
	}

	fullPath := "sys/mounts/" + engine.Path
	description := engine.Description
	if description == "" {
		description = secretstoreDomain.DefaultEngineDescription
	}
	body := map[string]any{
		"type":        engine.Type,
		"description": description,
	}
	if len(engine.Options) > 0 {
		body["options"] = engine.Options
	}

	_, err := v.do(ctx, "enable_secrets_engine", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().WriteWithContext(ctx, fullPath, body)
	})
	return err
}

// CreateAppRole creates or updates an AppRole bound to role.Policies.
func (v *vaultClient) CreateAppRole(ctx context.Context, role secretstoreDomain.AppRole) error {
	if err := role.Validate(); err != nil {
		return err
	}

	fullPath := appRolePath(role.Name)

	_, err := v.do(ctx, "create_approle", fullPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().WriteWithContext(ctx, fullPath, map[string]any{
			"token_policies": role.Policies,
			"token_ttl":      int64(role.TokenTTL.Seconds()),
			"token_max_ttl":  int64(role.TokenMaxTTL.Seconds()),
		})
	})
	return err
}

// IssueAppRoleCredentials reads the role id and mints a fresh secret id.
func (v *vaultClient) IssueAppRoleCredentials(
	ctx context.Context,
	roleName string,
) (*secretstoreDomain.AppRoleCredential, error) {
	roleIDPath := appRolePath(roleName) + "/role-id"

	roleSecret, err := v.do(ctx, "read_role_id", roleIDPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().ReadWithContext(ctx, roleIDPath)
	})
	if err != nil {
		return nil, err
	}
	roleID, _ := dataString(roleSecret, "role_id")
	if roleID == "" {
		return nil, errors.Wrapf(errors.ErrNotFound, "approle %s", roleName)
	}

	secretIDPath := appRolePath(roleName) + "/secret-id"

	idSecret, err := v.do(ctx, "mint_secret_id", secretIDPath, func(ctx context.Context) (*vault.Secret, error) {
		return v.api.Logical().WriteWithContext(ctx, secretIDPath, map[string]any{})
	})
	if err != nil {
		return nil, err
	}
	secretID, _ := dataString(idSecret, "secret_id")
	if secretID == "" {
		return nil, &secretstoreDomain.TransportError{
			Op:       "mint_secret_id",
			Path:     secretIDPath,
			Messages: []string{"response did not include a secret_id"},
		}
	}
	accessor, _ := dataString(idSecret, "secret_id_accessor")
	ttlSeconds, _ := toInt(idSecret.Data["secret_id_ttl"])

	return &secretstoreDomain.AppRoleCredential{
		RoleName:         roleName,
		RoleID:           roleID,
		SecretID:         secretID,
		SecretIDAccessor: accessor,
		SecretIDTTL:      time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// HealthCheck reports whether Vault is initialized and unsealed.
func (v *vaultClient) HealthCheck(ctx context.Context) bool {
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return false
		}
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	health, err := v.api.Sys().HealthWithContext(ctx)
	if err != nil {
		v.logger.Warn("secret store health check failed", slog.Any("error", err))
		return false
	}
	return health.Initialized && !health.Sealed
}

// do gates a request on the limiter, applies the request timeout and converts any
// failure into a TransportError.
func (v *vaultClient) do(
	ctx context.Context,
	op, path string,
	fn func(ctx context.Context) (*vault.Secret, error),
) (*vault.Secret, error) {
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return nil, &secretstoreDomain.TransportError{Op: op, Path: path, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	secret, err := fn(ctx)
	if err != nil {
		return nil, newTransportError(op, path, err)
	}
	return secret, nil
}

func newTransportError(op, path string, err error) *secretstoreDomain.TransportError {
	transportErr := &secretstoreDomain.TransportError{Op: op, Path: path, Err: err}

	var respErr *vault.ResponseError
	if errors.As(err, &respErr) {
		transportErr.StatusCode = respErr.StatusCode
		transportErr.Messages = respErr.Errors
	}
	return transportErr
}

func kvDataPath(mount, path string) string {
	return strings.Trim(mount, "/") + "/data/" + strings.Trim(path, "/")
}

func kvMetadataPath(mount, path string) string {
	return strings.Trim(mount, "/") + "/metadata/" + strings.Trim(path, "/")
}

func appRolePath(name string) string {
	return "auth/approle/role/" + name
}

func dataString(secret *vault.Secret, key string) (string, bool) {
	if secret == nil || secret.Data == nil {
		return "", false
	}
	s, ok := secret.Data[key].(string)
	return s, ok
}

func parseSecretMetadata(raw any) secretstoreDomain.SecretMetadata {
	var metadata secretstoreDomain.SecretMetadata

	fields, ok := raw.(map[string]any)
	if !ok {
		return metadata
	}

	metadata.Version, _ = toInt(fields["version"])
	if created, ok := fields["created_time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			metadata.CreatedTime = t
		}
	}
	if deleted, ok := fields["deletion_time"].(string); ok && deleted != "" {
		if t, err := time.Parse(time.RFC3339Nano, deleted); err == nil {
			metadata.DeletionTime = &t
		}
	}
	metadata.Destroyed, _ = fields["destroyed"].(bool)
	return metadata
}

// toInt converts the numeric representations produced by the Vault response decoder.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}
