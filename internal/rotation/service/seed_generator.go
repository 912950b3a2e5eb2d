// Package service provides key material generation and rotation notifiers.
package service

import (
	"crypto/rand"
	"io"

	"github.com/quipay/keysmith/internal/errors"
	signingDomain "github.com/quipay/keysmith/internal/signing/domain"
)

// SeedGenerator generates strkey encoded ed25519 secret seeds.
type SeedGenerator struct {
	random io.Reader
}

// NewSeedGenerator creates a generator reading from crypto/rand.
func NewSeedGenerator() *SeedGenerator {
	return &SeedGenerator{random: rand.Reader}
}

// Generate returns a fresh 56 character seed carrying 256 bits of entropy.
func (g *SeedGenerator) Generate() (string, error) {
	raw := make([]byte, signingDomain.SeedSize)
	if _, err := io.ReadFull(g.random, raw); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}
	return signingDomain.EncodeSeed(raw)
}

// Validate checks that material is a well formed seed.
func (g *SeedGenerator) Validate(material string) error {
	_, err := signingDomain.DecodeSeed(material)
	return err
}
