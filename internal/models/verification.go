package models

import "time"

// PublicProperty is the part of a registered property shown without authentication. Contact
// details, valuations and account identifiers are left out.
type PublicProperty struct {
	ULPIN            string         `json:"ulpin"`
	SurveyNumber     string         `json:"survey_number"`
	VillageCity      string         `json:"village_city"`
	District         string         `json:"district"`
	State            string         `json:"state"`
	Area             float64        `json:"area"`
	AreaUnit         string         `json:"area_unit"`
	PropertyType     PropertyType   `json:"property_type"`
	Status           PropertyStatus `json:"status"`
	RegistrationDate *time.Time     `json:"registration_date,omitempty"`
}

// PublicOwnership is a current share as printed on the record of rights.
type PublicOwnership struct {
	OwnerName       string          `json:"owner_name"`
	Percentage      float64         `json:"ownership_percentage"`
	OwnershipType   OwnershipType   `json:"ownership_type"`
	AcquisitionDate time.Time       `json:"acquisition_date"`
	AcquisitionMode AcquisitionMode `json:"acquisition_mode"`
}

// PublicMutation is an approved mutation entry in a property's public history.
type PublicMutation struct {
	MutationNumber    string       `json:"mutation_number"`
	CertificateNumber string       `json:"mutation_certificate_number"`
	MutationType      MutationType `json:"mutation_type"`
	ApprovalDate      *time.Time   `json:"approval_date,omitempty"`
}

// CertificateVerification confirms that a mutation certificate was issued.
type CertificateVerification struct {
	CertificateNumber string         `json:"mutation_certificate_number"`
	MutationNumber    string         `json:"mutation_number"`
	MutationType      MutationType   `json:"mutation_type"`
	IssuedAt          *time.Time     `json:"certificate_issued_date,omitempty"`
	Property          PublicProperty `json:"property"`
}

// PropertyVerification is the public record of a registered property.
type PropertyVerification struct {
	PublicProperty
	Owners    []PublicOwnership `json:"owners"`
	Mutations []PublicMutation  `json:"mutations"`
}

// Public projects a registered property for verification. ok is false for parcels that were
// never registered.
func (p *Property) Public() (PublicProperty, bool) {
	if p.ULPIN == nil {
		return PublicProperty{}, false
	}
	return PublicProperty{
		ULPIN:            *p.ULPIN,
		SurveyNumber:     p.SurveyNumber,
		VillageCity:      p.VillageCity,
		District:         p.District,
		State:            p.State,
		Area:             p.Area,
		AreaUnit:         p.AreaUnit,
		PropertyType:     p.PropertyType,
		Status:           p.Status,
		RegistrationDate: p.RegistrationDate,
	}, true
}
