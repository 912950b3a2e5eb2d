package service

import (
	"context"
	"encoding/base64"
	"maps"
	"strings"

	"github.com/quipay/keysmith/internal/errors"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// SealedPrefix marks a ValueField that was encrypted by a keeper before it was stored.
const SealedPrefix = "sealed:v1:"

// sealingClient seals the ValueField of every written secret and opens it on read.
// Values written without sealing are returned unchanged, so sealing can be enabled on
// an existing mount.
type sealingClient struct {
	Client
	keeper Keeper
}

// NewSealingClient wraps next so secret values are encrypted with keeper at rest.
func NewSealingClient(next Client, keeper Keeper) Client {
	return &sealingClient{Client: next, keeper: keeper}
}

// ReadSecret reads the secret and opens a sealed ValueField.
func (s *sealingClient) ReadSecret(
	ctx context.Context,
	path, mount string,
) (*secretstoreDomain.SecretRecord, error) {
	record, err := s.Client.ReadSecret(ctx, path, mount)
	if err != nil {
		return nil, err
	}

	value, ok := record.Value()
	if !ok || !strings.HasPrefix(value, SealedPrefix) {
		return record, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, SealedPrefix))
	if err != nil {
		return nil, errors.Wrapf(secretstoreDomain.ErrUnsealFailed, "%s: %v", path, err)
	}
	plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, errors.Wrapf(secretstoreDomain.ErrUnsealFailed, "%s: %v", path, err)
	}

	opened := &secretstoreDomain.SecretRecord{
		Data:     maps.Clone(record.Data),
		Metadata: record.Metadata,
	}
	opened.Data[secretstoreDomain.ValueField] = string(plaintext)
	return opened, nil
}

// WriteSecret seals the ValueField before writing. Other fields are stored as given.
func (s *sealingClient) WriteSecret(
	ctx context.Context,
	path string,
	data map[string]any,
	mount string,
) (int, error) {
	value, ok := data[secretstoreDomain.ValueField].(string)
	if !ok {
		return s.Client.WriteSecret(ctx, path, data, mount)
	}

	ciphertext, err := s.keeper.Encrypt(ctx, []byte(value))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrUnavailable, "seal %s: %v", path, err)
	}

	sealed := maps.Clone(data)
	sealed[secretstoreDomain.ValueField] = SealedPrefix + base64.StdEncoding.EncodeToString(ciphertext)
	return s.Client.WriteSecret(ctx, path, sealed, mount)
}
