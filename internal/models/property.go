package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PropertyStatus captures the registration workflow state of a parcel.
type PropertyStatus string

const (
	PropertyStatusPending           PropertyStatus = "pending"
	PropertyStatusUnderReview       PropertyStatus = "under_review"
	PropertyStatusDocumentsVerified PropertyStatus = "documents_verified"
	PropertyStatusApproved          PropertyStatus = "approved"
	PropertyStatusRejected          PropertyStatus = "rejected"
	PropertyStatusActive            PropertyStatus = "active"
	PropertyStatusDisputed          PropertyStatus = "disputed"
	PropertyStatusFrozen            PropertyStatus = "frozen"
)

// IsTerminal reports whether the registration workflow has concluded.
func (s PropertyStatus) IsTerminal() bool {
	return s == PropertyStatusApproved || s == PropertyStatusRejected
}

// IsStanding reports whether the status is one of the post-registration standings.
func (s PropertyStatus) IsStanding() bool {
	switch s {
	case PropertyStatusApproved, PropertyStatusActive, PropertyStatusDisputed, PropertyStatusFrozen:
		return true
	}
	return false
}

// PropertyType classifies land use at the coarsest level.
type PropertyType string

const (
	PropertyTypeAgricultural  PropertyType = "agricultural"
	PropertyTypeResidential   PropertyType = "residential"
	PropertyTypeCommercial    PropertyType = "commercial"
	PropertyTypeIndustrial    PropertyType = "industrial"
	PropertyTypeInstitutional PropertyType = "institutional"
	PropertyTypeGovernment    PropertyType = "government"
	PropertyTypeForest        PropertyType = "forest"
	PropertyTypeWasteland     PropertyType = "wasteland"
)

// Property is a registered (or pending) land parcel.
type Property struct {
	ID    int64   `db:"id" json:"id"`
	ULPIN *string `db:"ulpin" json:"ulpin,omitempty"`

	SurveyNumber string  `db:"survey_number" json:"survey_number"`
	SubDivision  *string `db:"sub_division" json:"sub_division,omitempty"`
	PlotNumber   *string `db:"plot_number" json:"plot_number,omitempty"`
	VillageCity  string  `db:"village_city" json:"village_city"`
	Locality     *string `db:"locality" json:"locality,omitempty"`
	Taluka       *string `db:"taluka" json:"taluka,omitempty"`
	District     string  `db:"district" json:"district"`
	State        string  `db:"state" json:"state"`
	Pincode      string  `db:"pincode" json:"pincode"`

	Area            float64         `db:"area" json:"area"`
	AreaUnit        string          `db:"area_unit" json:"area_unit"`
	SurveyedAreaSqm *float64        `db:"surveyed_area_sqm" json:"surveyed_area_sqm,omitempty"`
	Latitude        *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude       *float64        `db:"longitude" json:"longitude,omitempty"`
	Boundary        *types.JSONText `db:"boundary" json:"boundary,omitempty"`

	PropertyType    PropertyType `db:"property_type" json:"property_type"`
	PropertySubtype *string      `db:"property_subtype" json:"property_subtype,omitempty"`
	LandUse         *string      `db:"land_use" json:"land_use,omitempty"`
	MarketValue     *float64     `db:"market_value" json:"market_value,omitempty"`
	GovernmentValue *float64     `db:"government_value" json:"government_value,omitempty"`
	Description     *string      `db:"description" json:"description,omitempty"`

	Status           PropertyStatus `db:"status" json:"status"`
	Version          int            `db:"version" json:"version"`
	SubmittedBy      string         `db:"submitted_by" json:"submitted_by"`
	ReviewedBy       *string        `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ApprovedBy       *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovalDate     *time.Time     `db:"approval_date" json:"approval_date,omitempty"`
	RegistrationDate *time.Time     `db:"registration_date" json:"registration_date,omitempty"`
	RejectionReason  *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Remarks          *string        `db:"remarks" json:"remarks,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the registration still awaits a decision.
func (p *Property) IsPending() bool {
	switch p.Status {
	case PropertyStatusPending, PropertyStatusUnderReview, PropertyStatusDocumentsVerified:
		return true
	}
	return false
}

// IsApproved reports whether the registration was approved.
func (p *Property) IsApproved() bool { return p.Status == PropertyStatusApproved }

// IsRejected reports whether the registration was rejected.
func (p *Property) IsRejected() bool { return p.Status == PropertyStatusRejected }

// IsRegistered reports whether the parcel may be the subject of a mutation.
func (p *Property) IsRegistered() bool {
	return p.Status == PropertyStatusApproved || p.Status == PropertyStatusActive
}

// DaysPending returns whole days since submission, or zero once a decision was taken.
func (p *Property) DaysPending(now time.Time) int {
	if !p.IsPending() {
		return 0
	}
	return wholeDays(p.CreatedAt, now)
}

// PropertyView is the API projection of a property with its derived workflow fields.
type PropertyView struct {
	Property
	IsPending   bool `json:"is_pending"`
	DaysPending int  `json:"days_pending"`
}

// View projects the property as of now.
func (p *Property) View(now time.Time) PropertyView {
	return PropertyView{Property: *p, IsPending: p.IsPending(), DaysPending: p.DaysPending(now)}
}

// PropertyDetail bundles a property with its active ownership shares.
type PropertyDetail struct {
	PropertyView
	Ownerships []Ownership `json:"ownerships"`
}

// PropertyFilter constrains listing queries.
type PropertyFilter struct {
	Status       []PropertyStatus
	District     string
	State        string
	PropertyType PropertyType
	SubmittedBy  string
	Search       string
	Page         int
	PageSize     int
}

func wholeDays(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
