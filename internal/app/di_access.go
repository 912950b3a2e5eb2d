package app

import (
	"fmt"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	accessUsecase "github.com/quipay/keysmith/internal/access/usecase"
)

// AccessCatalog returns the standard policy and machine identity catalog for the
// configured namespace.
func (c *Container) AccessCatalog() accessDomain.Catalog {
	return accessDomain.StandardCatalog(accessDomain.CatalogConfig{
		SecretPath:   c.config.VaultSecretPath,
		MountPoint:   c.config.VaultMountPoint,
		AgentKeyName: c.config.SigningAgentKeyName,
		TokenTTL:     c.config.AppRoleTokenTTL,
		TokenMaxTTL:  c.config.AppRoleTokenMaxTTL,
	})
}

// Provisioner returns the access provisioner.
func (c *Container) Provisioner() (accessUsecase.Provisioner, error) {
	var err error
	c.provisionerInit.Do(func() {
		c.provisioner, err = c.initProvisioner()
		if err != nil {
			c.initErrors["provisioner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["provisioner"]; exists {
		return nil, storedErr
	}
	return c.provisioner, nil
}

func (c *Container) initProvisioner() (accessUsecase.Provisioner, error) {
	client, err := c.StoreClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get store client for provisioner: %w", err)
	}

	baseUseCase := accessUsecase.NewProvisioner(client, c.AccessCatalog(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for provisioner: %w", err)
		}
		return accessUsecase.NewProvisionerWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
