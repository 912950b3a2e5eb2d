package app

import (
	"fmt"

	rotationDomain "github.com/quipay/keysmith/internal/rotation/domain"
	rotationService "github.com/quipay/keysmith/internal/rotation/service"
	rotationUsecase "github.com/quipay/keysmith/internal/rotation/usecase"
)

// RotationNotifier returns the rotation side channel: structured logs, plus the webhook
// when ROTATION_WEBHOOK_URL is set.
func (c *Container) RotationNotifier() rotationUsecase.Notifier {
	c.rotationNotifierInit.Do(func() {
		c.rotationNotifier = c.initRotationNotifier()
	})
	return c.rotationNotifier
}

// RotationScheduler returns the periodic rotation scheduler. It is created stopped.
func (c *Container) RotationScheduler() (rotationUsecase.Scheduler, error) {
	var err error
	c.rotationSchedulerInit.Do(func() {
		c.rotationScheduler, err = c.initRotationScheduler()
		if err != nil {
			c.initErrors["rotationScheduler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationScheduler"]; exists {
		return nil, storedErr
	}
	return c.rotationScheduler, nil
}

func (c *Container) initRotationNotifier() rotationUsecase.Notifier {
	logger := c.Logger()

	var webhook rotationUsecase.Notifier
	if c.config.RotationWebhookURL != "" {
		webhook = rotationService.NewWebhookNotifier(rotationService.WebhookConfig{
			URL:     c.config.RotationWebhookURL,
			Timeout: c.config.RotationWebhookTimeout,
		}, logger)
	}

	return rotationService.NewMultiNotifier(rotationService.NewLogNotifier(logger), webhook)
}

func (c *Container) initRotationScheduler() (rotationUsecase.Scheduler, error) {
	secretAccess, err := c.SecretAccess()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret access for rotation scheduler: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for rotation scheduler: %w", err)
	}

	scheduler, err := rotationUsecase.NewScheduler(
		rotationDomain.JobConfig{
			CheckInterval:   c.config.RotationCheckInterval,
			MaxKeysPerBatch: c.config.RotationMaxKeysPerBatch,
		},
		secretAccess.RotationEngine(),
		rotationService.NewSeedGenerator(),
		c.RotationNotifier(),
		businessMetrics,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotation scheduler: %w", err)
	}
	return scheduler, nil
}
