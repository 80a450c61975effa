package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

func newTokenService() *TokenService {
	return NewTokenService("test-signing-key", "nbms-test", 15*time.Minute)
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	svc := newTokenService()
	org := id.NewOrgID()
	actor := governance.Actor{
		ID:          id.NewUserID(),
		DisplayName: "Asha Steward",
		OrgID:       &org,
		Roles:       []governance.Role{governance.RoleDataSteward, governance.RoleIndicatorLead},
		Staff:       true,
	}

	token, err := svc.Issue(actor, time.Now())
	require.NoError(t, err)

	parsed, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, parsed.ID)
	assert.Equal(t, actor.DisplayName, parsed.DisplayName)
	require.NotNil(t, parsed.OrgID)
	assert.Equal(t, org, *parsed.OrgID)
	assert.Equal(t, actor.Roles, parsed.Roles)
	assert.True(t, parsed.Staff)
	assert.False(t, parsed.Superuser)
	assert.True(t, parsed.Authenticated())
}

func TestIssueRefusesAnonymous(t *testing.T) {
	_, err := newTokenService().Issue(governance.AnonymousActor(), time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTokenService()
	actor := governance.Actor{ID: id.NewUserID()}

	token, err := svc.Issue(actor, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func TestValidateWrongKey(t *testing.T) {
	token, err := newTokenService().Issue(governance.Actor{ID: id.NewUserID()}, time.Now())
	require.NoError(t, err)

	other := NewTokenService("a-different-key", "nbms-test", 15*time.Minute)
	_, err = other.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func TestValidateWrongIssuer(t *testing.T) {
	issuerA := NewTokenService("test-signing-key", "a", 15*time.Minute)
	issuerB := NewTokenService("test-signing-key", "b", 15*time.Minute)

	token, err := issuerA.Issue(governance.Actor{ID: id.NewUserID()}, time.Now())
	require.NoError(t, err)

	_, err = issuerB.Validate(token)
	require.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	_, err := newTokenService().Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}
