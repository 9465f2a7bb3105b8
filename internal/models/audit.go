package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionUserCreate     = "USER_CREATE"
	AuditActionUserUpdate     = "USER_UPDATE"
	AuditActionUserDelete     = "USER_DELETE"
	AuditActionPasswordChange = "PASSWORD_CHANGE"

	AuditActionOwnerCreate      = "OWNER_CREATE"
	AuditActionPropertySubmit   = "PROPERTY_SUBMIT"
	AuditActionPropertyReview   = "PROPERTY_REVIEW"
	AuditActionPropertyVerify   = "PROPERTY_VERIFY_DOCUMENTS"
	AuditActionPropertyApprove  = "PROPERTY_APPROVE"
	AuditActionPropertyReject   = "PROPERTY_REJECT"
	AuditActionPropertyInfo     = "PROPERTY_REQUEST_INFO"
	AuditActionPropertyStanding = "PROPERTY_STANDING"
	AuditActionMutationCreate   = "MUTATION_CREATE"
	AuditActionMutationReview   = "MUTATION_REVIEW"
	AuditActionMutationVerify   = "MUTATION_VERIFY_DOCUMENTS"
	AuditActionMutationApprove  = "MUTATION_APPROVE"
	AuditActionMutationReject   = "MUTATION_REJECT"
	AuditActionMutationInfo     = "MUTATION_REQUEST_INFO"
	AuditActionMutationRespond  = "MUTATION_RESPOND"
	AuditActionMutationPayment  = "MUTATION_PAYMENT"
)

// Audit resources.
const (
	AuditResourceUsers      = "users"
	AuditResourceOwners     = "owners"
	AuditResourceProperties = "properties"
	AuditResourceMutations  = "mutations"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string         `db:"id" json:"id"`
	UserID     *string        `db:"user_id" json:"user_id,omitempty"`
	Action     string         `db:"action" json:"action"`
	Resource   string         `db:"resource" json:"resource"`
	ResourceID *string        `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  types.JSONText `db:"old_values" json:"old_values,omitempty"`
	NewValues  types.JSONText `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string         `db:"ip_address" json:"ip_address"`
	UserAgent  string         `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit trail queries.
type AuditFilter struct {
	Resource   string
	ResourceID string
	UserID     string
	Page       int
	PageSize   int
}
