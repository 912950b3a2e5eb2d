package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accessUsecase "github.com/quipay/keysmith/internal/access/usecase"
)

// RunIssueCredentials mints an AppRole credential for a catalog role and prints it once.
func RunIssueCredentials(
	ctx context.Context,
	provisioner accessUsecase.Provisioner,
	logger *slog.Logger,
	writer io.Writer,
	roleName string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	credential, err := provisioner.IssueCredentials(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to issue credentials: %w", err)
	}

	if format == "json" {
		if err := outputJSON(writer, credential); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Role:       %s\n", roleName)
		_, _ = fmt.Fprintf(writer, "Role ID:    %s\n", credential.RoleID)
		_, _ = fmt.Fprintf(writer, "Secret ID:  %s\n", credential.SecretID)
		_, _ = fmt.Fprintf(writer, "Token TTL:  %s (max %s)\n", credential.TokenTTL, credential.TokenMaxTTL)
		_, _ = fmt.Fprintf(writer, "\nWARNING: Store the secret ID securely. It will not be shown again.\n")
	}

	logger.Info("credentials issued", slog.String("role", roleName))
	return nil
}
