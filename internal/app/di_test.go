package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	"github.com/quipay/keysmith/internal/config"
	"github.com/quipay/keysmith/internal/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:                  "info",
		VaultAddr:                 "http://127.0.0.1:8200",
		VaultToken:                "test-token",
		VaultSecretPath:           "quipay/keys",
		VaultMountPoint:           "secret",
		VaultRequestTimeout:       10 * time.Second,
		VaultRetryMaxAttempts:     3,
		VaultRetryInitialInterval: 200 * time.Millisecond,
		RotationCheckInterval:     time.Hour,
		RotationPeriodDays:        30,
		RotationGracePeriodDays:   7,
		RotationMaxKeysPerBatch:   5,
		RotationWebhookTimeout:    10 * time.Second,
		SigningKeyCacheTTL:        5 * time.Minute,
		SigningAgentKeyName:       "hot-wallet",
		AppRoleTokenTTL:           time.Hour,
		AppRoleTokenMaxTTL:        24 * time.Hour,
		MetricsEnabled:            false,
		MetricsNamespace:          "keysmith",
		MetricsHost:               "localhost",
		MetricsPort:               8081,
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger(t *testing.T) {
	t.Run("Success_Singleton", func(t *testing.T) {
		container := NewContainer(&config.Config{LogLevel: "debug"})

		logger := container.Logger()

		require.NotNil(t, logger)
		assert.Same(t, logger, container.Logger())
	})

	t.Run("Success_UnknownLevelDefaultsToInfo", func(t *testing.T) {
		container := NewContainer(&config.Config{LogLevel: "invalid"})

		logger := container.Logger()

		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), -4))
	})

	t.Run("Success_LazyInitialization", func(t *testing.T) {
		container := NewContainer(testConfig())
		assert.Nil(t, container.logger)

		container.Logger()

		assert.NotNil(t, container.logger)
	})
}

func TestContainer_BusinessMetrics(t *testing.T) {
	t.Run("Success_NoOpWhenDisabled", func(t *testing.T) {
		container := NewContainer(testConfig())

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		assert.Nil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)
	})

	t.Run("Success_PrometheusWhenEnabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		require.NotNil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
		assert.NoError(t, container.Shutdown(context.Background()))
	})
}

func TestContainer_SecretStore(t *testing.T) {
	t.Run("Success_PlainClientWithoutKeeper", func(t *testing.T) {
		container := NewContainer(testConfig())

		keeper, err := container.SealKeeper()
		require.NoError(t, err)
		assert.Nil(t, keeper)

		client, err := container.StoreClient()
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("Success_SealingClientWithKeeper", func(t *testing.T) {
		cfg := testConfig()
		cfg.VaultSealKeeperURI = "base64key://"
		container := NewContainer(cfg)

		keeper, err := container.SealKeeper()
		require.NoError(t, err)
		require.NotNil(t, keeper)

		client, err := container.StoreClient()
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.NoError(t, container.Shutdown(context.Background()))
	})

	t.Run("Error_InvalidAddressIsSticky", func(t *testing.T) {
		cfg := testConfig()
		cfg.VaultAddr = "not a url"
		container := NewContainer(cfg)

		_, err := container.StoreClient()
		require.Error(t, err)

		_, err = container.SecretAccess()
		assert.Error(t, err)

		_, err = container.StoreClient()
		assert.Error(t, err)
	})
}

func TestContainer_Components(t *testing.T) {
	container := NewContainer(testConfig())

	secretAccess, err := container.SecretAccess()
	require.NoError(t, err)
	assert.Equal(t, 30, secretAccess.RotationEngine().Config().RotationPeriodDays)

	scheduler, err := container.RotationScheduler()
	require.NoError(t, err)
	assert.NotNil(t, scheduler)

	keyCache, err := container.KeyCache()
	require.NoError(t, err)
	assert.NotNil(t, keyCache)

	provisioner, err := container.Provisioner()
	require.NoError(t, err)
	assert.NotNil(t, provisioner)

	server, err := container.MetricsServer()
	require.NoError(t, err)
	assert.NotNil(t, server.GetHandler())

	assert.NotNil(t, container.RotationNotifier())
	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_AccessCatalog(t *testing.T) {
	catalog := NewContainer(testConfig()).AccessCatalog()

	role, ok := catalog.Role(accessDomain.AgentRoleName)
	require.True(t, ok)
	assert.Equal(t, time.Hour, role.TokenTTL)
	assert.Len(t, catalog.Policies, 3)
}

func TestContainer_Shutdown(t *testing.T) {
	container := NewContainer(testConfig())

	assert.NoError(t, container.Shutdown(context.Background()))
}
