package service

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/quipay/keysmith/internal/errors"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// fingerprintBytes is how much of the blake2b-256 digest of the public key is kept.
const fingerprintBytes = 16

type ed25519Parser struct{}

// NewEd25519Parser creates a KeyParser for strkey encoded ed25519 seeds.
func NewEd25519Parser() KeyParser {
	return &ed25519Parser{}
}

// Parse decodes the seed and derives the key pair, address and fingerprint. Errors
// never include the material.
func (p *ed25519Parser) Parse(keyName, material string) (*signingDomain.SigningKey, error) {
	seed, err := signingDomain.DecodeSeed(strings.TrimSpace(material))
	if err != nil {
		return nil, errors.Wrapf(err, "parse key %s", keyName)
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	address, err := signingDomain.EncodePublicKey(publicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "encode public key of %s", keyName)
	}

	return signingDomain.NewSigningKey(keyName, privateKey, address, Fingerprint(publicKey)), nil
}

// Fingerprint returns the hex encoded, truncated blake2b-256 digest of a public key.
func Fingerprint(publicKey []byte) string {
	sum := blake2b.Sum256(publicKey)
	return hex.EncodeToString(sum[:fingerprintBytes])
}
