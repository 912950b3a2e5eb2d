package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	accessUsecase "github.com/quipay/keysmith/internal/access/usecase"
)

// RunSetupAccess provisions the standard policies and machine identities and prints a
// per-step report. Every step is attempted; the command fails if any step failed.
//
// Requirements: VAULT_TOKEN must be allowed to write policies and AppRoles.
func RunSetupAccess(
	ctx context.Context,
	provisioner accessUsecase.Provisioner,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("setting up least privilege access")

	steps, setupErr := provisioner.SetupAll(ctx)

	if format == "json" {
		if err := outputJSON(writer, map[string]any{
			"steps":  steps,
			"passed": setupErr == nil,
		}); err != nil {
			return err
		}
	} else {
		outputSetupText(writer, steps)
	}

	if setupErr != nil {
		return fmt.Errorf("failed to set up access: %w", setupErr)
	}
	return nil
}

func outputSetupText(writer io.Writer, steps []accessDomain.SetupStep) {
	for _, step := range steps {
		_, _ = fmt.Fprintf(writer, "%-8s %-28s %s\n", step.Kind, step.Name, step.Outcome)
		if step.Error != "" {
			_, _ = fmt.Fprintf(writer, "         error: %s\n", step.Error)
		}
	}
}
