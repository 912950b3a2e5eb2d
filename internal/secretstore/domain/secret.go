// Package domain defines the secret store data model and errors.
package domain

import (
	"time"
)

// ValueField is the single field under which a named secret stores its value.
const ValueField = "value"

// SecretMetadata is the version information the store keeps for a secret.
type SecretMetadata struct {
	CreatedTime  time.Time
	Version      int
	DeletionTime *time.Time
	Destroyed    bool
}

// SecretRecord is one version of a secret as returned by the store.
// Every write produces a new version; records are never mutated in place.
type SecretRecord struct {
	Data     map[string]any
	Metadata SecretMetadata
}

// StringField returns the named field when it is present and holds a string.
func (r *SecretRecord) StringField(name string) (string, bool) {
	if r == nil || r.Data == nil {
		return "", false
	}
	v, ok := r.Data[name].(string)
	return v, ok
}

// Value returns the ValueField of the record.
func (r *SecretRecord) Value() (string, bool) {
	return r.StringField(ValueField)
}
