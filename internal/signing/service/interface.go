// Package service provides the key material parser and payload signer used by the
// signing key cache.
package service

import (
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// KeyParser materializes stored key material into a signing key.
type KeyParser interface {
	Parse(keyName, material string) (*signingDomain.SigningKey, error)
}

// Signer signs opaque payloads with a materialized key.
type Signer interface {
	Sign(key *signingDomain.SigningKey, payload []byte) ([]byte, error)
	Verify(publicKey []byte, payload, signature []byte) bool
}
