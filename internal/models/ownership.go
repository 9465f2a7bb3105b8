package models

import "time"

// OwnerType distinguishes natural persons from institutions.
type OwnerType string

const (
	OwnerTypeIndividual   OwnerType = "individual"
	OwnerTypeCompany      OwnerType = "company"
	OwnerTypeTrust        OwnerType = "trust"
	OwnerTypeGovernment   OwnerType = "government"
	OwnerTypeOrganization OwnerType = "organization"
)

// Owner is a party that can hold a share of a property. Citizens are linked through UserID.
type Owner struct {
	ID         int64     `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	FullName   string    `db:"full_name" json:"full_name"`
	OwnerType  OwnerType `db:"owner_type" json:"owner_type"`
	FatherName *string   `db:"father_name" json:"father_name,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Address    *string   `db:"address" json:"address,omitempty"`
	CreatedBy  string    `db:"created_by" json:"created_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// OwnerFilter constrains owner searches.
type OwnerFilter struct {
	Search   string
	UserID   string
	Page     int
	PageSize int
}

// OwnershipType describes how a share is held.
type OwnershipType string

const (
	OwnershipTypeSole    OwnershipType = "sole"
	OwnershipTypeJoint   OwnershipType = "joint"
	OwnershipTypePartial OwnershipType = "partial"
)

// AcquisitionMode records how an owner came to hold a share.
type AcquisitionMode string

const (
	AcquisitionPurchase            AcquisitionMode = "purchase"
	AcquisitionInheritance         AcquisitionMode = "inheritance"
	AcquisitionGift                AcquisitionMode = "gift"
	AcquisitionPartition           AcquisitionMode = "partition"
	AcquisitionCourtOrder          AcquisitionMode = "court_order"
	AcquisitionGovernmentAllotment AcquisitionMode = "government_allotment"
	AcquisitionOther               AcquisitionMode = "other"
)

// Ownership is one row of the ownership ledger: a share held by an owner over a period.
type Ownership struct {
	ID                 int64           `db:"id" json:"id"`
	PropertyID         int64           `db:"property_id" json:"property_id"`
	OwnerID            int64           `db:"owner_id" json:"owner_id"`
	OwnerName          string          `db:"owner_name" json:"owner_name,omitempty"`
	Percentage         float64         `db:"ownership_percentage" json:"ownership_percentage"`
	OwnershipType      OwnershipType   `db:"ownership_type" json:"ownership_type"`
	AcquisitionDate    time.Time       `db:"acquisition_date" json:"acquisition_date"`
	AcquisitionMode    AcquisitionMode `db:"acquisition_mode" json:"acquisition_mode"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	EndDate            *time.Time      `db:"end_date" json:"end_date,omitempty"`
	OpenedByMutationID *int64          `db:"opened_by_mutation_id" json:"opened_by_mutation_id,omitempty"`
	ClosedByMutationID *int64          `db:"closed_by_mutation_id" json:"closed_by_mutation_id,omitempty"`
	Remarks            *string         `db:"remarks" json:"remarks,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// OwnershipTypeForShare derives the holding type from a percentage share.
func OwnershipTypeForShare(percentage float64) OwnershipType {
	if percentage >= 100 {
		return OwnershipTypeSole
	}
	return OwnershipTypeJoint
}

// LedgerChange summarises the rows touched by one ledger update.
type LedgerChange struct {
	Closed []int64 `json:"closed"`
	Opened []int64 `json:"opened"`
}
