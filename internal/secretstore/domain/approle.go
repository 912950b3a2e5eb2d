package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	appValidation "github.com/quipay/keysmith/internal/validation"
)

// AppRole describes a machine identity bound to a set of policies.
type AppRole struct {
	Name        string
	Policies    []string
	TokenTTL    time.Duration
	TokenMaxTTL time.Duration
}

// Validate checks the role definition.
func (r AppRole) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, appValidation.PolicyName),
		validation.Field(&r.Policies, validation.Required, validation.Each(appValidation.PolicyName)),
		validation.Field(&r.TokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&r.TokenMaxTTL, validation.Required, validation.Min(r.TokenTTL)),
	)
	return appValidation.WrapValidationError(err)
}

// AppRoleCredential is a role id and secret id pair issued for a machine identity.
// It is delivered once and never cached.
type AppRoleCredential struct {
	RoleName         string        `json:"role_name"`
	RoleID           string        `json:"role_id"`
	SecretID         string        `json:"secret_id"`
	SecretIDAccessor string        `json:"secret_id_accessor"`
	SecretIDTTL      time.Duration `json:"secret_id_ttl"`
	TokenTTL         time.Duration `json:"token_ttl"`
	TokenMaxTTL      time.Duration `json:"token_max_ttl"`
}
