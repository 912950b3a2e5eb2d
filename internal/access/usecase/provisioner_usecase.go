package usecase

import (
	"context"
	"log/slog"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	"github.com/quipay/keysmith/internal/errors"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreService "github.com/quipay/keysmith/internal/secretstore/service"
)

type provisioner struct {
	client  secretstoreService.Client
	catalog accessDomain.Catalog
	logger  *slog.Logger
}

// NewProvisioner creates a Provisioner for catalog.
func NewProvisioner(
	client secretstoreService.Client,
	catalog accessDomain.Catalog,
	logger *slog.Logger,
) Provisioner {
	return &provisioner{
		client:  client,
		catalog: catalog,
		logger:  logger,
	}
}

// ProvisionPolicy validates, renders and installs policy.
func (p *provisioner) ProvisionPolicy(ctx context.Context, policy accessDomain.AccessPolicy) (string, error) {
	if err := policy.Validate(); err != nil {
		return accessDomain.OutcomeFailed, err
	}

	document := accessDomain.RenderPolicyDocument(policy)

	existing, err := p.client.ReadPolicy(ctx, policy.Name)
	switch {
	case err == nil && accessDomain.SameDocument(existing, document):
		p.logger.Info("policy unchanged", slog.String("policy", policy.Name))
		return accessDomain.OutcomeUnchanged, nil
	case err == nil:
		p.logger.Warn("policy drifted from catalog, replacing", slog.String("policy", policy.Name))
	case !errors.Is(err, errors.ErrNotFound):
		// A token may be allowed to write policies without reading them.
		p.logger.Warn("could not read existing policy",
			slog.String("policy", policy.Name),
			slog.Any("error", err),
		)
	}

	if err := p.client.CreatePolicy(ctx, policy.Name, document); err != nil {
		return accessDomain.OutcomeFailed, errors.Wrapf(err, "create policy %s", policy.Name)
	}

	p.logger.Info("policy created", slog.String("policy", policy.Name))
	return accessDomain.OutcomeCreated, nil
}

// ProvisionAppRole creates or updates a machine identity.
func (p *provisioner) ProvisionAppRole(ctx context.Context, role secretstoreDomain.AppRole) error {
	if err := role.Validate(); err != nil {
		return errors.Wrap(accessDomain.ErrInvalidMachineRole, err.Error())
	}

	if err := p.client.CreateAppRole(ctx, role); err != nil {
		return errors.Wrapf(err, "create approle %s", role.Name)
	}

	p.logger.Info("approle created",
		slog.String("role", role.Name),
		slog.Any("policies", role.Policies),
	)
	return nil
}

// IssueCredentials mints credentials for a catalog role. The credential is returned
// once and never logged.
func (p *provisioner) IssueCredentials(ctx context.Context, roleName string) (*secretstoreDomain.AppRoleCredential, error) {
	role, ok := p.catalog.Role(roleName)
	if !ok {
		return nil, errors.Wrapf(accessDomain.ErrUnknownRole, "%s", roleName)
	}

	credential, err := p.client.IssueAppRoleCredentials(ctx, roleName)
	if err != nil {
		return nil, errors.Wrapf(err, "issue credentials for %s", roleName)
	}
	credential.TokenTTL = role.TokenTTL
	credential.TokenMaxTTL = role.TokenMaxTTL

	p.logger.Info("approle credentials issued",
		slog.String("role", roleName),
		slog.String("secret_id_accessor", credential.SecretIDAccessor),
	)
	return credential, nil
}

// EnableSecretsEngine mounts a secrets engine.
func (p *provisioner) EnableSecretsEngine(ctx context.Context, engine secretstoreDomain.SecretsEngine) error {
	if err := engine.Validate(); err != nil {
		return err
	}
	if err := p.client.EnableSecretsEngine(ctx, engine); err != nil {
		return errors.Wrapf(err, "enable %s engine at %s", engine.Type, engine.Path)
	}

	p.logger.Info("secrets engine enabled",
		slog.String("path", engine.Path),
		slog.String("type", engine.Type),
	)
	return nil
}

// SetupAll provisions every catalog policy, then every catalog role.
func (p *provisioner) SetupAll(ctx context.Context) ([]accessDomain.SetupStep, error) {
	steps := make([]accessDomain.SetupStep, 0, len(p.catalog.Policies)+len(p.catalog.Roles))
	var errs []error

	record := func(kind, name, outcome string, err error) {
		step := accessDomain.SetupStep{Kind: kind, Name: name, Outcome: outcome}
		if err != nil {
			step.Error = err.Error()
			errs = append(errs, err)
			p.logger.Error("access setup step failed",
				slog.String("kind", kind),
				slog.String("name", name),
				slog.Any("error", err),
			)
		}
		steps = append(steps, step)
	}

	for _, policy := range p.catalog.Policies {
		outcome, err := p.ProvisionPolicy(ctx, policy)
		record(accessDomain.StepPolicy, policy.Name, outcome, err)
	}

	for _, role := range p.catalog.Roles {
		outcome := accessDomain.OutcomeCreated
		err := p.ProvisionAppRole(ctx, role)
		if err != nil {
			outcome = accessDomain.OutcomeFailed
		}
		record(accessDomain.StepAppRole, role.Name, outcome, err)
	}

	if len(errs) > 0 {
		return steps, errors.Join(append([]error{accessDomain.ErrSetupIncomplete}, errs...)...)
	}

	p.logger.Info("least privilege access set up",
		slog.Int("policies", len(p.catalog.Policies)),
		slog.Int("roles", len(p.catalog.Roles)),
	)
	return steps, nil
}
