// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	appValidation "github.com/quipay/keysmith/internal/validation"
)

// SealKeeperSchemes lists the gocloud.dev/secrets URL schemes accepted for VAULT_SEAL_KEEPER_URI.
var SealKeeperSchemes = []string{"base64key", "hashivault", "awskms", "gcpkms", "azurekeyvault"}

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// VaultAddr is the base URL of the secret store (e.g., "http://127.0.0.1:8200").
	VaultAddr string
	// VaultToken is the token sent as X-Vault-Token on every request.
	VaultToken string
	// VaultNamespace is sent as X-Vault-Namespace when not empty.
	VaultNamespace string
	// VaultSecretPath is the path prefix under which signing keys and rotation metadata live.
	VaultSecretPath string
	// VaultMountPoint is the KV v2 mount holding the secrets.
	VaultMountPoint string
	// VaultRequestTimeout bounds every store request.
	VaultRequestTimeout time.Duration
	// VaultRateLimitRequestsPerSec limits outbound store requests. Zero disables the limiter.
	VaultRateLimitRequestsPerSec float64
	// VaultRateLimitBurst is the burst size of the outbound limiter.
	VaultRateLimitBurst int
	// VaultRetryMaxAttempts is the number of attempts for facade reads and writes.
	VaultRetryMaxAttempts int
	// VaultRetryInitialInterval is the first backoff interval between attempts.
	VaultRetryInitialInterval time.Duration
	// VaultSealKeeperURI optionally seals key material before it is written to the store.
	VaultSealKeeperURI string

	// RotationCheckInterval is the delay between scheduler passes.
	RotationCheckInterval time.Duration
	// RotationPeriodDays is the number of days after which a key is due for rotation.
	RotationPeriodDays int
	// RotationGracePeriodDays is the number of days a key may still sign after its last rotation.
	RotationGracePeriodDays int
	// RotationMaxKeysPerBatch caps the rotations performed in one scheduler pass.
	RotationMaxKeysPerBatch int
	// RotationWebhookURL receives a JSON notification after every rotation when set.
	RotationWebhookURL string
	// RotationWebhookTimeout bounds a single webhook delivery attempt.
	RotationWebhookTimeout time.Duration

	// SigningKeyCacheTTL is how long materialized signing keys stay cached.
	SigningKeyCacheTTL time.Duration
	// SigningAgentKeyName is the key the payment agent signs with.
	SigningAgentKeyName string

	// AppRoleTokenTTL is the token TTL for provisioned machine identities.
	AppRoleTokenTTL time.Duration
	// AppRoleTokenMaxTTL is the maximum token TTL for provisioned machine identities.
	AppRoleTokenMaxTTL time.Duration

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsHost is the host address the metrics server binds to.
	MetricsHost string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
	// MetricsCORSAllowOrigins lists browser origins allowed to read the ops server.
	MetricsCORSAllowOrigins string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Secret store
		VaultAddr:                    env.GetString("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:                   env.GetString("VAULT_TOKEN", ""),
		VaultNamespace:               env.GetString("VAULT_NAMESPACE", ""),
		VaultSecretPath:              env.GetString("VAULT_SECRET_PATH", "quipay/keys"),
		VaultMountPoint:              env.GetString("VAULT_MOUNT_POINT", "secret"),
		VaultRequestTimeout:          env.GetDuration("VAULT_REQUEST_TIMEOUT_SECONDS", 10, time.Second),
		VaultRateLimitRequestsPerSec: env.GetFloat64("VAULT_RATE_LIMIT_REQUESTS_PER_SEC", 20.0),
		VaultRateLimitBurst:          env.GetInt("VAULT_RATE_LIMIT_BURST", 40),
		VaultRetryMaxAttempts:        env.GetInt("VAULT_RETRY_MAX_ATTEMPTS", 3),
		VaultRetryInitialInterval:    env.GetDuration("VAULT_RETRY_INITIAL_INTERVAL_MS", 200, time.Millisecond),
		VaultSealKeeperURI:           env.GetString("VAULT_SEAL_KEEPER_URI", ""),

		// Rotation
		RotationCheckInterval:   env.GetDuration("ROTATION_CHECK_INTERVAL_SECONDS", 86400, time.Second),
		RotationPeriodDays:      env.GetInt("ROTATION_PERIOD_DAYS", 30),
		RotationGracePeriodDays: env.GetInt("ROTATION_GRACE_PERIOD_DAYS", 7),
		RotationMaxKeysPerBatch: env.GetInt("ROTATION_MAX_KEYS_PER_BATCH", 5),
		RotationWebhookURL:      env.GetString("ROTATION_WEBHOOK_URL", ""),
		RotationWebhookTimeout:  env.GetDuration("ROTATION_WEBHOOK_TIMEOUT_SECONDS", 10, time.Second),

		// Signing
		SigningKeyCacheTTL:  env.GetDuration("SIGNING_KEY_CACHE_TTL_SECONDS", 300, time.Second),
		SigningAgentKeyName: env.GetString("SIGNING_AGENT_KEY_NAME", "hot-wallet"),

		// Machine identities
		AppRoleTokenTTL:    env.GetDuration("APPROLE_TOKEN_TTL_SECONDS", 3600, time.Second),
		AppRoleTokenMaxTTL: env.GetDuration("APPROLE_TOKEN_MAX_TTL_SECONDS", 86400, time.Second),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "keysmith"),
		MetricsHost:      env.GetString("METRICS_HOST", "0.0.0.0"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		MetricsCORSAllowOrigins: env.GetString("METRICS_CORS_ALLOW_ORIGINS", ""),
	}
}

// Validate checks the loaded configuration and returns an ErrInvalidInput describing
// every invalid option.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.VaultAddr, validation.Required, appValidation.HTTPURL),
		validation.Field(&c.VaultToken, appValidation.NoWhitespace),
		validation.Field(&c.VaultSecretPath, validation.Required, appValidation.StorePath),
		validation.Field(&c.VaultMountPoint, validation.Required, appValidation.StorePath),
		validation.Field(&c.VaultRequestTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.VaultRateLimitRequestsPerSec, validation.Min(0.0)),
		validation.Field(&c.VaultRateLimitBurst,
			validation.When(c.VaultRateLimitRequestsPerSec > 0, validation.Required, validation.Min(1)),
		),
		validation.Field(&c.VaultRetryMaxAttempts, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&c.VaultRetryInitialInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.VaultSealKeeperURI, appValidation.URIScheme(SealKeeperSchemes...)),
		validation.Field(&c.RotationCheckInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RotationPeriodDays, validation.Required, validation.Min(1)),
		validation.Field(&c.RotationGracePeriodDays, validation.Min(0)),
		validation.Field(&c.RotationMaxKeysPerBatch, validation.Required, validation.Min(1)),
		validation.Field(&c.RotationWebhookURL, appValidation.HTTPURL),
		validation.Field(&c.RotationWebhookTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SigningKeyCacheTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SigningAgentKeyName, validation.Required, appValidation.StorePath),
		validation.Field(&c.AppRoleTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.AppRoleTokenMaxTTL, validation.Required, validation.Min(c.AppRoleTokenTTL)),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
	)
	return appValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
