package app

import (
	"context"
	"fmt"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreService "github.com/quipay/keysmith/internal/secretstore/service"
	secretstoreUsecase "github.com/quipay/keysmith/internal/secretstore/usecase"
)

// SealKeeper returns the keeper sealing key material at rest. It is nil when
// VAULT_SEAL_KEEPER_URI is empty.
func (c *Container) SealKeeper() (secretstoreService.Keeper, error) {
	var err error
	c.sealKeeperInit.Do(func() {
		c.sealKeeper, err = c.initSealKeeper()
		if err != nil {
			c.initErrors["sealKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealKeeper"]; exists {
		return nil, storedErr
	}
	return c.sealKeeper, nil
}

// StoreClient returns the secret store client.
func (c *Container) StoreClient() (secretstoreService.Client, error) {
	var err error
	c.storeClientInit.Do(func() {
		c.storeClient, err = c.initStoreClient()
		if err != nil {
			c.initErrors["storeClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storeClient"]; exists {
		return nil, storedErr
	}
	return c.storeClient, nil
}

// SecretAccess returns the secret access facade.
func (c *Container) SecretAccess() (secretstoreUsecase.SecretAccess, error) {
	var err error
	c.secretAccessInit.Do(func() {
		c.secretAccess, err = c.initSecretAccess()
		if err != nil {
			c.initErrors["secretAccess"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretAccess"]; exists {
		return nil, storedErr
	}
	return c.secretAccess, nil
}

func (c *Container) initSealKeeper() (secretstoreService.Keeper, error) {
	if c.config.VaultSealKeeperURI == "" {
		return nil, nil
	}

	keeper, err := secretstoreService.OpenKeeper(context.Background(), c.config.VaultSealKeeperURI)
	if err != nil {
		return nil, err
	}
	return keeper, nil
}

func (c *Container) initStoreClient() (secretstoreService.Client, error) {
	client, err := secretstoreService.NewVaultClient(secretstoreDomain.StoreConfig{
		Address:         c.config.VaultAddr,
		Token:           c.config.VaultToken,
		Namespace:       c.config.VaultNamespace,
		Timeout:         c.config.VaultRequestTimeout,
		RateLimitPerSec: c.config.VaultRateLimitRequestsPerSec,
		RateLimitBurst:  c.config.VaultRateLimitBurst,
	}, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create secret store client: %w", err)
	}

	keeper, err := c.SealKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal keeper for secret store client: %w", err)
	}
	if keeper != nil {
		return secretstoreService.NewSealingClient(client, keeper), nil
	}
	return client, nil
}

func (c *Container) initSecretAccess() (secretstoreUsecase.SecretAccess, error) {
	client, err := c.StoreClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get store client for secret access: %w", err)
	}

	baseUseCase, err := secretstoreUsecase.NewSecretAccess(client, secretstoreUsecase.Config{
		SecretPath: c.config.VaultSecretPath,
		MountPoint: c.config.VaultMountPoint,
		Rotation: rotationDomain.RotationConfig{
			RotationPeriodDays: c.config.RotationPeriodDays,
			GracePeriodDays:    c.config.RotationGracePeriodDays,
		},
		Retry: secretstoreUsecase.RetryConfig{
			MaxAttempts:     c.config.VaultRetryMaxAttempts,
			InitialInterval: c.config.VaultRetryInitialInterval,
			MaxInterval:     secretstoreUsecase.DefaultRetryMaxInterval,
		},
	}, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create secret access: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret access: %w", err)
		}
		return secretstoreUsecase.NewSecretAccessWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
