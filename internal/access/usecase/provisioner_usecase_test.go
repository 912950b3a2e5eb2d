package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/quipay/keysmith/internal/access/domain"
	"github.com/quipay/keysmith/internal/errors"
	secretstoreDomain "github.com/quipay/keysmith/internal/secretstore/domain"
	secretstoreMocks "github.com/quipay/keysmith/internal/secretstore/service/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() accessDomain.Catalog {
	return accessDomain.StandardCatalog(accessDomain.CatalogConfig{
		SecretPath:   "quipay/keys",
		MountPoint:   "secret",
		AgentKeyName: "hot-wallet",
		TokenTTL:     time.Hour,
		TokenMaxTTL:  4 * time.Hour,
	})
}

func agentPolicy(t *testing.T) accessDomain.AccessPolicy {
	t.Helper()
	for _, policy := range testCatalog().Policies {
		if policy.Name == accessDomain.AgentPolicyName {
			return policy
		}
	}
	t.Fatal("agent policy missing from catalog")
	return accessDomain.AccessPolicy{}
}

func TestProvisioner_ProvisionPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreatesMissingPolicy", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)
		document := accessDomain.RenderPolicyDocument(policy)

		client.On("ReadPolicy", ctx, policy.Name).Return("", secretstoreDomain.ErrPolicyNotFound).Once()
		client.On("CreatePolicy", ctx, policy.Name, document).Return(nil).Once()

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		require.NoError(t, err)
		assert.Equal(t, accessDomain.OutcomeCreated, outcome)
		client.AssertExpectations(t)
	})

	t.Run("Success_UnchangedPolicySkipsWrite", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)
		document := accessDomain.RenderPolicyDocument(policy)

		client.On("ReadPolicy", ctx, policy.Name).Return(document+"\n", nil).Once()

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		require.NoError(t, err)
		assert.Equal(t, accessDomain.OutcomeUnchanged, outcome)
		client.AssertNotCalled(t, "CreatePolicy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_DriftedPolicyReplaced", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)
		document := accessDomain.RenderPolicyDocument(policy)

		client.On("ReadPolicy", ctx, policy.Name).Return(`path "secret/*" { capabilities = ["sudo"] }`, nil).Once()
		client.On("CreatePolicy", ctx, policy.Name, document).Return(nil).Once()

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		require.NoError(t, err)
		assert.Equal(t, accessDomain.OutcomeCreated, outcome)
		client.AssertExpectations(t)
	})

	t.Run("Success_UnreadablePolicyStillCreated", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)

		client.On("ReadPolicy", ctx, policy.Name).Return("", errors.ErrForbidden).Once()
		client.On("CreatePolicy", ctx, policy.Name, mock.AnythingOfType("string")).Return(nil).Once()

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		require.NoError(t, err)
		assert.Equal(t, accessDomain.OutcomeCreated, outcome)
	})

	t.Run("Error_InvalidPolicyNeverReachesStore", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)
		policy.RequiredSecretPaths = []string{"secret/../sys"}

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.Equal(t, accessDomain.OutcomeFailed, outcome)
		assert.Empty(t, client.Calls)
	})

	t.Run("Error_CreateFails", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		policy := agentPolicy(t)

		client.On("ReadPolicy", ctx, policy.Name).Return("", secretstoreDomain.ErrPolicyNotFound).Once()
		client.On("CreatePolicy", ctx, policy.Name, mock.AnythingOfType("string")).Return(errors.ErrForbidden).Once()

		outcome, err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionPolicy(ctx, policy)

		assert.ErrorIs(t, err, errors.ErrForbidden)
		assert.Contains(t, err.Error(), policy.Name)
		assert.Equal(t, accessDomain.OutcomeFailed, outcome)
	})
}

func TestProvisioner_ProvisionAppRole(t *testing.T) {
	ctx := context.Background()
	role := secretstoreDomain.AppRole{
		Name:        accessDomain.AgentRoleName,
		Policies:    []string{accessDomain.AgentPolicyName},
		TokenTTL:    time.Hour,
		TokenMaxTTL: 4 * time.Hour,
	}

	t.Run("Success", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("CreateAppRole", ctx, role).Return(nil).Once()

		err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionAppRole(ctx, role)

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Error_InvalidRole", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		invalid := role
		invalid.Policies = nil

		err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionAppRole(ctx, invalid)

		assert.ErrorIs(t, err, accessDomain.ErrInvalidMachineRole)
		assert.Empty(t, client.Calls)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("CreateAppRole", ctx, role).Return(errors.ErrUnavailable).Once()

		err := NewProvisioner(client, testCatalog(), discardLogger()).ProvisionAppRole(ctx, role)

		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})
}

func TestProvisioner_IssueCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FillsTokenLifetimes", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("IssueAppRoleCredentials", ctx, accessDomain.AgentRoleName).
			Return(&secretstoreDomain.AppRoleCredential{
				RoleName: accessDomain.AgentRoleName,
				RoleID:   "role-id",
				SecretID: "secret-id",
			}, nil).
			Once()

		credential, err := NewProvisioner(client, testCatalog(), discardLogger()).
			IssueCredentials(ctx, accessDomain.AgentRoleName)

		require.NoError(t, err)
		assert.Equal(t, "role-id", credential.RoleID)
		assert.Equal(t, "secret-id", credential.SecretID)
		assert.Equal(t, time.Hour, credential.TokenTTL)
		assert.Equal(t, 4*time.Hour, credential.TokenMaxTTL)
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}

		credential, err := NewProvisioner(client, testCatalog(), discardLogger()).IssueCredentials(ctx, "root")

		assert.Nil(t, credential)
		assert.ErrorIs(t, err, accessDomain.ErrUnknownRole)
		assert.ErrorIs(t, err, errors.ErrNotFound)
		assert.Empty(t, client.Calls)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("IssueAppRoleCredentials", ctx, accessDomain.RotationRoleName).
			Return(nil, errors.ErrForbidden).
			Once()

		credential, err := NewProvisioner(client, testCatalog(), discardLogger()).
			IssueCredentials(ctx, accessDomain.RotationRoleName)

		assert.Nil(t, credential)
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})
}

func TestProvisioner_EnableSecretsEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		engine := secretstoreDomain.KVv2("secret")
		client.On("EnableSecretsEngine", ctx, engine).Return(nil).Once()

		require.NoError(t, NewProvisioner(client, testCatalog(), discardLogger()).EnableSecretsEngine(ctx, engine))
		client.AssertExpectations(t)
	})

	t.Run("Error_InvalidEngine", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		engine := secretstoreDomain.SecretsEngine{Path: "secret"}

		err := NewProvisioner(client, testCatalog(), discardLogger()).EnableSecretsEngine(ctx, engine)

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.Empty(t, client.Calls)
	})
}

func TestProvisioner_SetupAll(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()

	t.Run("Success_AllStepsCreated", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("ReadPolicy", ctx, mock.AnythingOfType("string")).Return("", secretstoreDomain.ErrPolicyNotFound)
		client.On("CreatePolicy", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
		client.On("CreateAppRole", ctx, mock.AnythingOfType("domain.AppRole")).Return(nil)

		steps, err := NewProvisioner(client, catalog, discardLogger()).SetupAll(ctx)

		require.NoError(t, err)
		require.Len(t, steps, 5)
		assert.Equal(t, accessDomain.StepPolicy, steps[0].Kind)
		assert.Equal(t, accessDomain.AgentPolicyName, steps[0].Name)
		assert.Equal(t, accessDomain.StepAppRole, steps[3].Kind)
		assert.Equal(t, accessDomain.AgentRoleName, steps[3].Name)
		for _, step := range steps {
			assert.Equal(t, accessDomain.OutcomeCreated, step.Outcome)
			assert.Empty(t, step.Error)
		}
		client.AssertNumberOfCalls(t, "CreatePolicy", 3)
		client.AssertNumberOfCalls(t, "CreateAppRole", 2)
	})

	t.Run("Error_FailedStepDoesNotStopTheRest", func(t *testing.T) {
		client := &secretstoreMocks.MockClient{}
		client.On("ReadPolicy", ctx, mock.AnythingOfType("string")).Return("", secretstoreDomain.ErrPolicyNotFound)
		client.On("CreatePolicy", ctx, accessDomain.RotationPolicyName, mock.AnythingOfType("string")).
			Return(errors.ErrForbidden)
		client.On("CreatePolicy", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
		client.On("CreateAppRole", ctx, mock.AnythingOfType("domain.AppRole")).Return(nil)

		steps, err := NewProvisioner(client, catalog, discardLogger()).SetupAll(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, accessDomain.ErrSetupIncomplete)
		assert.ErrorIs(t, err, errors.ErrForbidden)
		require.Len(t, steps, 5)
		assert.Equal(t, accessDomain.OutcomeFailed, steps[1].Outcome)
		assert.NotEmpty(t, steps[1].Error)
		assert.Equal(t, accessDomain.OutcomeCreated, steps[2].Outcome)
		client.AssertNumberOfCalls(t, "CreateAppRole", 2)
	})
}
