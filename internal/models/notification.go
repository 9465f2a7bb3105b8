package models

import "time"

// NotificationEvent identifies the workflow event a notification reports.
type NotificationEvent string

const (
	EventPropertyUnderReview       NotificationEvent = "property_under_review"
	EventPropertyDocumentsVerified NotificationEvent = "property_documents_verified"
	EventPropertyApproved          NotificationEvent = "property_approved"
	EventPropertyRejected          NotificationEvent = "property_rejected"
	EventPropertyInfoRequested     NotificationEvent = "property_info_requested"
	EventPropertyStandingChanged   NotificationEvent = "property_standing_changed"
	EventMutationUnderReview       NotificationEvent = "mutation_under_review"
	EventMutationDocumentsVerified NotificationEvent = "mutation_documents_verified"
	EventMutationApproved          NotificationEvent = "mutation_approved"
	EventMutationRejected          NotificationEvent = "mutation_rejected"
	EventMutationInfoRequired      NotificationEvent = "mutation_information_required"
	EventMutationPaymentRecorded   NotificationEvent = "mutation_payment_recorded"
)

// Notification priorities.
const (
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification is an in-app message delivered to a user.
type Notification struct {
	ID                int64             `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	Title             string            `db:"title" json:"title"`
	Message           string            `db:"message" json:"message"`
	Type              NotificationEvent `db:"type" json:"type"`
	RelatedEntityType *string           `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64            `db:"related_entity_id" json:"related_entity_id,omitempty"`
	Priority          string            `db:"priority" json:"priority"`
	IsRead            bool              `db:"is_read" json:"is_read"`
	ReadAt            *time.Time        `db:"read_at" json:"read_at,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
}

// NotificationFilter constrains inbox queries.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
