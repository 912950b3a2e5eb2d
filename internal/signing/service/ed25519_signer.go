package service

import (
	"crypto/ed25519"

	"github.com/quipay/keysmith/internal/errors"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

type ed25519Signer struct{}

// NewEd25519Signer creates the default Signer.
func NewEd25519Signer() Signer {
	return &ed25519Signer{}
}

// Sign signs payload with the key's private half.
func (s *ed25519Signer) Sign(key *signingDomain.SigningKey, payload []byte) ([]byte, error) {
	if key == nil || len(key.PrivateKey()) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(signingDomain.ErrMalformedKeyMaterial, "signing key is not materialized")
	}
	return ed25519.Sign(key.PrivateKey(), payload), nil
}

// Verify reports whether signature is a valid signature of payload by publicKey.
func (s *ed25519Signer) Verify(publicKey []byte, payload, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(publicKey, payload, signature)
}
