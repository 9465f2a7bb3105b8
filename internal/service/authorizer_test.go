package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

func newTestAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	authz, err := NewAuthorizer(models.RoleCapabilities, nil)
	require.NoError(t, err)
	return authz
}

func actorFor(id string, role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: role}
}

func TestAuthorizerRoleTable(t *testing.T) {
	authz := newTestAuthorizer(t)

	cases := []struct {
		role models.UserRole
		cap  models.Capability
		want Decision
	}{
		{models.RoleCitizen, models.CapPropertySubmit, Authorized},
		{models.RoleCitizen, models.CapPropertyReview, Forbidden},
		{models.RoleCitizen, models.CapMutationReview, Forbidden},
		{models.RoleCitizen, models.CapMutationRespond, Authorized},
		{models.RoleRegistrar, models.CapPropertyReview, Authorized},
		{models.RoleRegistrar, models.CapMutationReview, Forbidden},
		{models.RoleOfficer, models.CapMutationReview, Authorized},
		{models.RoleOfficer, models.CapPropertyReview, Forbidden},
		{models.RoleOfficer, models.CapPropertyViewAll, Authorized},
		{models.RoleAdmin, models.CapMutationReview, Authorized},
		{models.RoleAdmin, models.CapUserManage, Authorized},
		{models.UserRole("auditor"), models.CapPropertyViewAll, Forbidden},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.cap), func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Decide(actorFor("u", tc.role), tc.cap))
		})
	}
}

func TestAuthorizerRequire(t *testing.T) {
	authz := newTestAuthorizer(t)

	err := authz.Require(actorFor("c1", models.RoleCitizen), models.CapMutationReview)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = authz.Require(nil, models.CapPropertySubmit)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	assert.NoError(t, authz.Require(actorFor("o1", models.RoleOfficer), models.CapMutationReview))
}
