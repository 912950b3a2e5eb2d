package domain

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/quipay/keysmith/internal/validation"
)

// DefaultEngineDescription is used when a secrets engine is enabled without a description.
const DefaultEngineDescription = "Quipay secret storage"

// SecretsEngine describes a secrets engine mount.
type SecretsEngine struct {
	Path        string
	Type        string
	Description string
	Options     map[string]string
}

// Validate checks the engine definition.
func (e SecretsEngine) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Path, validation.Required, appValidation.StorePath),
		validation.Field(&e.Type, validation.Required, appValidation.NotBlank, appValidation.NoWhitespace),
	)
	return appValidation.WrapValidationError(err)
}

// KVv2 returns a KV version 2 engine definition for the given mount path.
func KVv2(path string) SecretsEngine {
	return SecretsEngine{
		Path:        path,
		Type:        "kv",
		Description: DefaultEngineDescription,
		Options:     map[string]string{"version": "2"},
	}
}
