// Package domain defines least-privilege access policies, their rendering into store
// policy documents and the standard catalog of policies and machine identities.
package domain

// Capability is an operation a policy grants on a path.
type Capability string

const (
	// CreateCapability allows writing a path that does not exist yet.
	CreateCapability Capability = "create"

	// ReadCapability allows reading a path.
	ReadCapability Capability = "read"

	// UpdateCapability allows overwriting an existing path.
	UpdateCapability Capability = "update"

	// DeleteCapability allows deleting a path.
	DeleteCapability Capability = "delete"

	// ListCapability allows listing the entries under a path.
	ListCapability Capability = "list"
)

// AllCapabilities lists every capability in canonical order.
var AllCapabilities = []Capability{
	CreateCapability,
	ReadCapability,
	UpdateCapability,
	DeleteCapability,
	ListCapability,
}

func capabilityValues() []any {
	values := make([]any, len(AllCapabilities))
	for i, c := range AllCapabilities {
		values[i] = c
	}
	return values
}
