package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register keeper drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper encrypts and decrypts small payloads. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKeeper opens a keeper from a gocloud.dev/secrets URL.
// Supports: base64key://, hashivault://, awskms://, gcpkms://, azurekeyvault://
func OpenKeeper(ctx context.Context, keeperURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open seal keeper: %w", err)
	}
	return keeper, nil
}
