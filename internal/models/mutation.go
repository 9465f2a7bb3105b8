package models

import "time"

// MutationType enumerates the kinds of ownership change a citizen can request.
type MutationType string

const (
	MutationTypeSale        MutationType = "sale"
	MutationTypeInheritance MutationType = "inheritance"
	MutationTypeGift        MutationType = "gift"
	MutationTypePartition   MutationType = "partition"
	MutationTypeTransfer    MutationType = "transfer"
	MutationTypeAddition    MutationType = "addition"
	MutationTypeRemoval     MutationType = "removal"
	MutationTypeCorrection  MutationType = "correction"
)

// AcquisitionMode maps the mutation type onto the acquisition mode recorded for the new owner.
func (t MutationType) AcquisitionMode() AcquisitionMode {
	switch t {
	case MutationTypeSale:
		return AcquisitionPurchase
	case MutationTypeInheritance:
		return AcquisitionInheritance
	case MutationTypeGift:
		return AcquisitionGift
	case MutationTypePartition:
		return AcquisitionPartition
	default:
		return AcquisitionOther
	}
}

// MutationStatus captures workflow states for ownership change requests.
type MutationStatus string

const (
	MutationStatusPending             MutationStatus = "pending"
	MutationStatusUnderReview         MutationStatus = "under_review"
	MutationStatusDocumentsVerified   MutationStatus = "documents_verified"
	MutationStatusInformationRequired MutationStatus = "information_required"
	MutationStatusApproved            MutationStatus = "approved"
	MutationStatusRejected            MutationStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s MutationStatus) IsTerminal() bool {
	return s == MutationStatusApproved || s == MutationStatusRejected
}

// Payment states tracked on a mutation. Collection itself happens elsewhere.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusWaived  = "waived"
)

// DefaultMutationFee is charged when a request does not carry its own fee.
const DefaultMutationFee = 500.0

// DefaultMutationPriority applies when a request does not set one.
const DefaultMutationPriority = "normal"

// Mutation is a request to change recorded ownership of a property.
type Mutation struct {
	ID                     int64          `db:"id" json:"id"`
	MutationNumber         *string        `db:"mutation_number" json:"mutation_number,omitempty"`
	CertificateNumber      *string        `db:"mutation_certificate_number" json:"mutation_certificate_number,omitempty"`
	PropertyID             int64          `db:"property_id" json:"property_id"`
	RequesterID            string         `db:"requester_id" json:"requester_id"`
	MutationType           MutationType   `db:"mutation_type" json:"mutation_type"`
	FromOwnershipID        *int64         `db:"from_ownership_id" json:"from_ownership_id,omitempty"`
	ToOwnerID              *int64         `db:"to_owner_id" json:"to_owner_id,omitempty"`
	TransferredPercentage  *float64       `db:"transferred_percentage" json:"transferred_percentage,omitempty"`
	Description            *string        `db:"description" json:"description,omitempty"`
	Reason                 *string        `db:"reason" json:"reason,omitempty"`
	PreviousOwners         *string        `db:"previous_owners" json:"previous_owners,omitempty"`
	NewOwners              *string        `db:"new_owners" json:"new_owners,omitempty"`
	Status                 MutationStatus `db:"status" json:"status"`
	Version                int            `db:"version" json:"version"`
	ProcessedBy            *string        `db:"processed_by" json:"processed_by,omitempty"`
	ProcessingDate         *time.Time     `db:"processing_date" json:"processing_date,omitempty"`
	ApprovalDate           *time.Time     `db:"approval_date" json:"approval_date,omitempty"`
	RejectionDate          *time.Time     `db:"rejection_date" json:"rejection_date,omitempty"`
	RejectionReason        *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	OfficerComments        *string        `db:"officer_comments" json:"officer_comments,omitempty"`
	AdditionalInfoRequired *string        `db:"additional_info_required" json:"additional_info_required,omitempty"`
	CitizenResponse        *string        `db:"citizen_response" json:"citizen_response,omitempty"`
	CertificateIssuedDate  *time.Time     `db:"certificate_issued_date" json:"certificate_issued_date,omitempty"`
	MutationFee            float64        `db:"mutation_fee" json:"mutation_fee"`
	PaymentStatus          string         `db:"payment_status" json:"payment_status"`
	Priority               string         `db:"priority" json:"priority"`
	CreatedAt              time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the request still awaits a decision.
func (m *Mutation) IsPending() bool {
	switch m.Status {
	case MutationStatusPending, MutationStatusUnderReview, MutationStatusDocumentsVerified, MutationStatusInformationRequired:
		return true
	}
	return false
}

// IsApproved reports whether the request was approved.
func (m *Mutation) IsApproved() bool { return m.Status == MutationStatusApproved }

// IsRejected reports whether the request was rejected.
func (m *Mutation) IsRejected() bool { return m.Status == MutationStatusRejected }

// DaysPending returns whole days since submission, or zero once terminal.
func (m *Mutation) DaysPending(now time.Time) int {
	if m.Status.IsTerminal() {
		return 0
	}
	return wholeDays(m.CreatedAt, now)
}

// MutationView is the API projection of a mutation including derived accessors.
type MutationView struct {
	Mutation
	IsPending   bool `json:"is_pending"`
	DaysPending int  `json:"days_pending"`
}

// View builds the API projection at the given instant.
func (m *Mutation) View(now time.Time) MutationView {
	return MutationView{Mutation: *m, IsPending: m.IsPending(), DaysPending: m.DaysPending(now)}
}

// MutationFilter constrains listing queries.
type MutationFilter struct {
	Status      []MutationStatus
	Type        MutationType
	PropertyID  int64
	RequesterID string
	Page        int
	PageSize    int
}
