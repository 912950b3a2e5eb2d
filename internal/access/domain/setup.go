package domain

// Provisioning outcomes of a single setup step.
const (
	OutcomeCreated   = "created"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// Setup step kinds.
const (
	StepPolicy  = "policy"
	StepAppRole = "approle"
)

// SetupStep reports one step of a setup run.
type SetupStep struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}
