package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quipay/keysmith/internal/errors"
)

func TestSecretRecord_Value(t *testing.T) {
	t.Run("Success_StringValue", func(t *testing.T) {
		record := &SecretRecord{Data: map[string]any{ValueField: "SAAAA"}}

		value, ok := record.Value()

		assert.True(t, ok)
		assert.Equal(t, "SAAAA", value)
	})

	t.Run("Missing", func(t *testing.T) {
		record := &SecretRecord{Data: map[string]any{"other": "x"}}

		_, ok := record.Value()

		assert.False(t, ok)
	})

	t.Run("NotAString", func(t *testing.T) {
		record := &SecretRecord{Data: map[string]any{ValueField: 42}}

		_, ok := record.Value()

		assert.False(t, ok)
	})

	t.Run("NilRecord", func(t *testing.T) {
		var record *SecretRecord

		_, ok := record.Value()

		assert.False(t, ok)
	})
}

func TestStoreConfig_Validate(t *testing.T) {
	t.Run("Success_Minimal", func(t *testing.T) {
		cfg := StoreConfig{Address: "http://127.0.0.1:8200", Token: "root"}

		assert.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	})

	t.Run("Success_CustomTimeout", func(t *testing.T) {
		cfg := StoreConfig{Address: "http://127.0.0.1:8200", Timeout: 2 * time.Second}

		assert.Equal(t, 2*time.Second, cfg.RequestTimeout())
	})

	t.Run("Error_MissingAddress", func(t *testing.T) {
		err := StoreConfig{}.Validate()

		assert.ErrorIs(t, err, ErrInvalidStoreConfig)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("Error_RateLimitWithoutBurst", func(t *testing.T) {
		cfg := StoreConfig{Address: "http://127.0.0.1:8200", RateLimitPerSec: 5}

		assert.ErrorIs(t, cfg.Validate(), ErrInvalidStoreConfig)
	})
}

func TestAppRole_Validate(t *testing.T) {
	valid := AppRole{
		Name:        "quipay-agent",
		Policies:    []string{"quipay-agent-key-access"},
		TokenTTL:    time.Hour,
		TokenMaxTTL: 24 * time.Hour,
	}

	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("Error_NoPolicies", func(t *testing.T) {
		role := valid
		role.Policies = nil

		assert.ErrorIs(t, role.Validate(), errors.ErrInvalidInput)
	})

	t.Run("Error_MaxTTLBelowTTL", func(t *testing.T) {
		role := valid
		role.TokenMaxTTL = time.Minute

		assert.ErrorIs(t, role.Validate(), errors.ErrInvalidInput)
	})

	t.Run("Error_InvalidPolicyName", func(t *testing.T) {
		role := valid
		role.Policies = []string{"Bad Policy"}

		assert.ErrorIs(t, role.Validate(), errors.ErrInvalidInput)
	})
}

func TestSecretsEngine(t *testing.T) {
	t.Run("Success_KVv2", func(t *testing.T) {
		engine := KVv2("secret")

		assert.NoError(t, engine.Validate())
		assert.Equal(t, "kv", engine.Type)
		assert.Equal(t, "2", engine.Options["version"])
		assert.Equal(t, DefaultEngineDescription, engine.Description)
	})

	t.Run("Error_MissingType", func(t *testing.T) {
		engine := SecretsEngine{Path: "secret"}

		assert.ErrorIs(t, engine.Validate(), errors.ErrInvalidInput)
	})
}
