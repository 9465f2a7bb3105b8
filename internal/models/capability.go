package models

import "strings"

// Capability names a permitted action as "resource:action".
type Capability string

const (
	CapAll Capability = "*:*"

	CapPropertySubmit   Capability = "property:submit"
	CapPropertyReview   Capability = "property:review"
	CapPropertyStanding Capability = "property:standing"
	CapPropertyViewAll  Capability = "property:view_all"
	CapPropertyViewOwn  Capability = "property:view_own"

	CapMutationSubmit  Capability = "mutation:submit"
	CapMutationReview  Capability = "mutation:review"
	CapMutationRespond Capability = "mutation:respond"
	CapMutationViewAll Capability = "mutation:view_all"
	CapMutationViewOwn Capability = "mutation:view_own"

	CapOwnerCreate Capability = "owner:create"
	CapOwnerView   Capability = "owner:view"

	CapUserManage       Capability = "user:manage"
	CapAuditView        Capability = "audit:view"
	CapNotificationRead Capability = "notification:read"
)

// Split returns the resource and action halves of the capability.
func (c Capability) Split() (string, string) {
	resource, action, found := strings.Cut(string(c), ":")
	if !found {
		return resource, "*"
	}
	return resource, action
}

// RoleCapabilities is the static role to capability table. It is loaded once into the
// authorizer at start-up and never modified afterwards.
var RoleCapabilities = map[UserRole][]Capability{
	RoleCitizen: {
		CapPropertySubmit,
		CapPropertyViewOwn,
		CapMutationSubmit,
		CapMutationRespond,
		CapMutationViewOwn,
		CapOwnerCreate,
		CapNotificationRead,
	},
	RoleRegistrar: {
		CapPropertyReview,
		CapPropertyStanding,
		CapPropertyViewAll,
		CapMutationViewAll,
		CapOwnerCreate,
		CapOwnerView,
		CapAuditView,
		CapNotificationRead,
	},
	RoleOfficer: {
		CapMutationReview,
		CapMutationViewAll,
		CapPropertyViewAll,
		CapOwnerView,
		CapAuditView,
		CapNotificationRead,
	},
	RoleAdmin: {
		CapAll,
	},
}
