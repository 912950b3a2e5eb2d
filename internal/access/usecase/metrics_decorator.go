package usecase

import (
	"context"
	"time"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	"github.com/quipay/keysmith/internal/metrics"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
)

// provisionerWithMetrics decorates Provisioner with metrics instrumentation.
type provisionerWithMetrics struct {
	next    Provisioner
	metrics metrics.BusinessMetrics
}

// NewProvisionerWithMetrics wraps a Provisioner with metrics recording.
func NewProvisionerWithMetrics(next Provisioner, m metrics.BusinessMetrics) Provisioner {
	return &provisionerWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (p *provisionerWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	p.metrics.RecordOperation(ctx, "access", operation, status)
	p.metrics.RecordDuration(ctx, "access", operation, time.Since(start), status)
}

// ProvisionPolicy records metrics for policy provisioning.
func (p *provisionerWithMetrics) ProvisionPolicy(
	ctx context.Context,
	policy accessDomain.AccessPolicy,
) (string, error) {
	start := time.Now()
	outcome, err := p.next.ProvisionPolicy(ctx, policy)
	p.record(ctx, "policy_provision", start, err)
	return outcome, err
}

// ProvisionAppRole records metrics for machine identity provisioning.
func (p *provisionerWithMetrics) ProvisionAppRole(ctx context.Context, role secretstoreDomain.AppRole) error {
	start := time.Now()
	err := p.next.ProvisionAppRole(ctx, role)
	p.record(ctx, "approle_provision", start, err)
	return err
}

// IssueCredentials records metrics for credential issuance.
func (p *provisionerWithMetrics) IssueCredentials(
	ctx context.Context,
	roleName string,
) (*secretstoreDomain.AppRoleCredential, error) {
	start := time.Now()
	credential, err := p.next.IssueCredentials(ctx, roleName)
	p.record(ctx, "credentials_issue", start, err)
	return credential, err
}

// EnableSecretsEngine records metrics for engine mounts.
func (p *provisionerWithMetrics) EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error {
	start := time.Now()
	err := p.next.EnableSecretsEngine(ctx, engine)
	p.record(ctx, "engine_enable", start, err)
	return err
}

// SetupAll records metrics for a full setup run.
func (p *provisionerWithMetrics) SetupAll(ctx context.Context) ([]accessDomain.SetupStep, error) {
	start := time.Now()
	steps, err := p.next.SetupAll(ctx)
	p.record(ctx, "setup_all", start, err)
	return steps, err
}
