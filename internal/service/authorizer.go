package service

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

const capabilityModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Decision is the outcome of an authorization check.
type Decision int

const (
	Forbidden Decision = iota
	Authorized
)

func (d Decision) String() string {
	if d == Authorized {
		return "authorized"
	}
	return "forbidden"
}

// Authorizer answers capability questions for an acting principal. Policies are loaded once from
// models.RoleCapabilities and never change afterwards.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

// NewAuthorizer loads the role table into an in-memory enforcer.
func NewAuthorizer(table map[models.UserRole][]models.Capability, logger *zap.Logger) (*Authorizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := model.NewModelFromString(capabilityModel)
	if err != nil {
		return nil, fmt.Errorf("parse capability model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	for role, caps := range table {
		for _, c := range caps {
			resource, action := c.Split()
			if _, err := enforcer.AddPolicy(string(role), resource, action); err != nil {
				return nil, fmt.Errorf("load policy %s %s: %w", role, c, err)
			}
		}
	}
	return &Authorizer{enforcer: enforcer, logger: logger}, nil
}

// Decide reports whether actor holds capability.
func (a *Authorizer) Decide(actor *models.JWTClaims, capability models.Capability) Decision {
	if a == nil || actor == nil || !actor.Role.Valid() {
		return Forbidden
	}
	resource, action := capability.Split()
	ok, err := a.enforcer.Enforce(string(actor.Role), resource, action)
	if err != nil {
		a.logger.Error("capability check failed", zap.String("role", string(actor.Role)), zap.String("capability", string(capability)), zap.Error(err))
		return Forbidden
	}
	if !ok {
		return Forbidden
	}
	return Authorized
}

// Can is a boolean shorthand for Decide.
func (a *Authorizer) Can(actor *models.JWTClaims, capability models.Capability) bool {
	return a.Decide(actor, capability) == Authorized
}

// Require returns FORBIDDEN unless actor holds capability, and UNAUTHORIZED without an actor.
func (a *Authorizer) Require(actor *models.JWTClaims, capability models.Capability) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if a.Decide(actor, capability) == Forbidden {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s lacks %s", actor.Role, capability))
	}
	return nil
}
