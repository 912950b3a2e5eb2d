package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	signingUsecase "github.com/quipay/keysmith/internal/signing/usecase"
)

// RunSign signs payload with the named key. An empty payload is read from reader.
func RunSign(
	ctx context.Context,
	keyCache signingUsecase.KeyCache,
	logger *slog.Logger,
	streams IOTuple,
	keyName string,
	payload string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	data := []byte(payload)
	if len(data) == 0 {
		read, err := readAll(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		data = read
	}
	if len(data) == 0 {
		return fmt.Errorf("payload is empty")
	}

	logger.Info("signing payload", slog.String("key_name", keyName), slog.Int("size", len(data)))

	signed, err := keyCache.Sign(ctx, keyName, data)
	if err != nil {
		return fmt.Errorf("failed to sign payload: %w", err)
	}

	if format == "json" {
		return outputJSON(streams.Writer, signed)
	}

	_, _ = fmt.Fprintf(streams.Writer, "Signature:   %s\n", base64.StdEncoding.EncodeToString(signed.Signature))
	_, _ = fmt.Fprintf(streams.Writer, "Public key:  %s\n", signed.PublicKey)
	_, _ = fmt.Fprintf(streams.Writer, "Fingerprint: %s\n", signed.Fingerprint)
	return nil
}

func readAll(reader io.Reader) ([]byte, error) {
	if reader == nil {
		return nil, nil
	}
	return io.ReadAll(reader)
}
