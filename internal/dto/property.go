package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/land-registry-api/internal/models"
)

// SubmitPropertyRequest registers a new parcel for review.
type SubmitPropertyRequest struct {
	SurveyNumber string  `json:"survey_number" validate:"required,max=50"`
	SubDivision  *string `json:"sub_division,omitempty" validate:"omitempty,max=20"`
	PlotNumber   *string `json:"plot_number,omitempty" validate:"omitempty,max=50"`
	VillageCity  string  `json:"village_city" validate:"required,max=100"`
	Locality     *string `json:"locality,omitempty" validate:"omitempty,max=100"`
	Taluka       *string `json:"taluka,omitempty" validate:"omitempty,max=100"`
	District     string  `json:"district" validate:"required,max=100"`
	State        string  `json:"state" validate:"required,max=100"`
	Pincode      string  `json:"pincode" validate:"required,numeric,len=6"`

	Area     float64         `json:"area" validate:"required,gt=0"`
	AreaUnit string          `json:"area_unit" validate:"required,oneof=sqft sqm acre hectare bigha guntha"`
	Boundary json.RawMessage `json:"boundary,omitempty" swaggertype:"object"`

	PropertyType    models.PropertyType `json:"property_type" validate:"required,oneof=agricultural residential commercial industrial institutional government forest wasteland"`
	PropertySubtype *string             `json:"property_subtype,omitempty" validate:"omitempty,max=50"`
	LandUse         *string             `json:"land_use,omitempty" validate:"omitempty,max=100"`
	MarketValue     *float64            `json:"market_value,omitempty" validate:"omitempty,gte=0"`
	GovernmentValue *float64            `json:"government_value,omitempty" validate:"omitempty,gte=0"`
	Description     *string             `json:"description,omitempty" validate:"omitempty,max=4000"`

	Owners []DeclaredOwner `json:"owners,omitempty" validate:"omitempty,max=50,dive"`
}

// DeclaredOwner is an owner listed on a registration. Either OwnerID references an existing owner
// or FullName describes a new one.
type DeclaredOwner struct {
	OwnerID         *int64                 `json:"owner_id,omitempty"`
	FullName        string                 `json:"full_name,omitempty" validate:"required_without=OwnerID,max=200"`
	OwnerType       models.OwnerType       `json:"owner_type,omitempty" validate:"omitempty,oneof=individual company trust government organization"`
	FatherName      *string                `json:"father_name,omitempty" validate:"omitempty,max=200"`
	Phone           *string                `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email           *string                `json:"email,omitempty" validate:"omitempty,email"`
	Address         *string                `json:"address,omitempty" validate:"omitempty,max=500"`
	Percentage      float64                `json:"ownership_percentage" validate:"required,gt=0,lte=100"`
	AcquisitionMode models.AcquisitionMode `json:"acquisition_mode,omitempty" validate:"omitempty,oneof=purchase inheritance gift partition court_order government_allotment other"`
	AcquisitionDate *time.Time             `json:"acquisition_date,omitempty"`
}

// PropertyRemarksRequest carries optional reviewer remarks.
type PropertyRemarksRequest struct {
	Remarks string `json:"remarks" validate:"max=2000"`
}

// RejectPropertyRequest carries the mandatory rejection reason.
type RejectPropertyRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// ChangeStandingRequest moves a registered parcel between standings.
type ChangeStandingRequest struct {
	Status  models.PropertyStatus `json:"status" validate:"required,oneof=approved active disputed frozen"`
	Remarks string                `json:"remarks" validate:"max=2000"`
}
