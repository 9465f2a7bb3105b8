package dto

import (
	"github.com/noah-isme/land-registry-api/internal/models"
)

// SubmitMutationRequest asks for a change of recorded ownership.
type SubmitMutationRequest struct {
	PropertyID            int64               `json:"property_id" validate:"required,gt=0"`
	MutationType          models.MutationType `json:"mutation_type" validate:"required,oneof=sale inheritance gift partition transfer addition removal correction"`
	FromOwnershipID       *int64              `json:"from_ownership_id,omitempty" validate:"omitempty,gt=0"`
	ToOwnerID             *int64              `json:"to_owner_id,omitempty" validate:"omitempty,gt=0"`
	TransferredPercentage *float64            `json:"transferred_percentage,omitempty" validate:"omitempty,gt=0,lte=100"`
	Description           *string             `json:"description,omitempty" validate:"omitempty,max=4000"`
	Reason                string              `json:"reason" validate:"required,max=2000"`
	PreviousOwners        *string             `json:"previous_owners,omitempty" validate:"omitempty,max=2000"`
	NewOwners             *string             `json:"new_owners,omitempty" validate:"omitempty,max=2000"`
	MutationFee           *float64            `json:"mutation_fee,omitempty" validate:"omitempty,gte=0"`
	Priority              string              `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
}

// MutationCommentsRequest carries officer comments for review steps and approval.
type MutationCommentsRequest struct {
	Comments string `json:"comments" validate:"max=2000"`
}

// RejectMutationRequest carries the mandatory rejection reason.
type RejectMutationRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// RequestMutationInfoRequest lists what the requester must supply.
type RequestMutationInfoRequest struct {
	Information string `json:"information" validate:"required,max=2000"`
}

// RecordPaymentRequest records the outcome of fee collection.
type RecordPaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=paid waived"`
}

// RespondMutationRequest is the requester's answer to an information request.
type RespondMutationRequest struct {
	Response string `json:"response" validate:"required,max=4000"`
}
