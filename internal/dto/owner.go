package dto

import "github.com/noah-isme/land-registry-api/internal/models"

// CreateOwnerRequest registers a party that can hold property shares.
type CreateOwnerRequest struct {
	UserID     *string          `json:"user_id,omitempty" validate:"omitempty,uuid"`
	FullName   string           `json:"full_name" validate:"required,max=200"`
	OwnerType  models.OwnerType `json:"owner_type" validate:"omitempty,oneof=individual company trust government organization"`
	FatherName *string          `json:"father_name,omitempty" validate:"omitempty,max=200"`
	Phone      *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email      *string          `json:"email,omitempty" validate:"omitempty,email"`
	Address    *string          `json:"address,omitempty" validate:"omitempty,max=500"`
}
