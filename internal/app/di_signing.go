package app

import (
	"fmt"

	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
	signingService "github.com/quipay/keysmith/internal/signing/service"
	signingUsecase "github.com/quipay/keysmith/internal/signing/usecase"
)

// KeyCache returns the signing key cache with the agent key registered.
func (c *Container) KeyCache() (signingUsecase.KeyCache, error) {
	var err error
	c.keyCacheInit.Do(func() {
		c.keyCache, err = c.initKeyCache()
		if err != nil {
			c.initErrors["keyCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyCache"]; exists {
		return nil, storedErr
	}
	return c.keyCache, nil
}

func (c *Container) initKeyCache() (signingUsecase.KeyCache, error) {
	secretAccess, err := c.SecretAccess()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret access for key cache: %w", err)
	}

	baseUseCase, err := signingUsecase.NewKeyCache(
		secretAccess,
		signingService.NewEd25519Parser(),
		signingService.NewEd25519Signer(),
		c.config.SigningKeyCacheTTL,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cache: %w", err)
	}

	agentConfig := signingDomain.DefaultKeyAccessConfig(c.config.SigningAgentKeyName)
	agentConfig.MaxRotationGracePeriodDays = c.config.RotationGracePeriodDays
	if err := baseUseCase.Register(agentConfig); err != nil {
		return nil, fmt.Errorf("failed to register agent signing key: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for key cache: %w", err)
		}
		return signingUsecase.NewKeyCacheWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
