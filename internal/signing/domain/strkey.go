package domain

import (
	"github.com/stellar/go-stellar-sdk/strkey"

	"github.com/quipay/keysmith/internal/errors"
)

// SeedSize is the raw length of an ed25519 seed.
const SeedSize = 32

// EncodedLength is the length of an encoded seed or public key.
const EncodedLength = 56

// EncodeSeed encodes a raw 32 byte ed25519 seed in "S..." form.
func EncodeSeed(raw []byte) (string, error) {
	return encode(strkey.VersionByteSeed, raw)
}

// DecodeSeed decodes an "S..." seed back into its raw 32 bytes. The checksum, version
// byte and payload length are all verified.
func DecodeSeed(encoded string) ([]byte, error) {
	raw, err := strkey.Decode(strkey.VersionByteSeed, encoded)
	if err != nil {
		// The codec error never echoes the input, so it is safe to carry.
		return nil, errors.Wrap(ErrMalformedKeyMaterial, err.Error())
	}
	return raw, nil
}

// EncodePublicKey encodes a raw 32 byte ed25519 public key in "G..." form.
func EncodePublicKey(raw []byte) (string, error) {
	return encode(strkey.VersionByteAccountID, raw)
}

func encode(version strkey.VersionByte, raw []byte) (string, error) {
	if len(raw) != SeedSize {
		return "", errors.Wrapf(ErrMalformedKeyMaterial, "payload must be %d bytes, got %d", SeedSize, len(raw))
	}

	encoded, err := strkey.Encode(version, raw)
	if err != nil {
		return "", errors.Wrap(ErrMalformedKeyMaterial, err.Error())
	}
	return encoded, nil
}
