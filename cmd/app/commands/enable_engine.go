package commands

import (
	"context"
	"fmt"
	"log/slog"

	accessUsecase "github.com/quipay/keysmith/internal/access/usecase"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// RunEnableEngine mounts a secrets engine. A "kv" engine defaults to version 2.
func RunEnableEngine(
	ctx context.Context,
	provisioner accessUsecase.Provisioner,
	logger *slog.Logger,
	path, engineType, description string,
) error {
	engine := secretstoreDomain.SecretsEngine{
		Path:        path,
		Type:        engineType,
		Description: description,
	}
	if engineType == "kv" {
		engine.Options = map[string]string{"version": "2"}
	}
	if engine.Description == "" {
		engine.Description = secretstoreDomain.DefaultEngineDescription
	}

	if err := provisioner.EnableSecretsEngine(ctx, engine); err != nil {
		return fmt.Errorf("failed to enable secrets engine: %w", err)
	}

	logger.Info("secrets engine ready", slog.String("path", path), slog.String("type", engineType))
	return nil
}
