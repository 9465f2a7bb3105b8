package dto

import "github.com/noah-isme/land-registry-api/internal/models"

// RegisterCitizenRequest is the self-service sign-up payload.
type RegisterCitizenRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// CreateUserRequest lets an administrator create an account with any role.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"full_name" validate:"required,max=200"`
	Phone    *string         `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Role     models.UserRole `json:"role" validate:"required,oneof=citizen officer registrar admin"`
}

// UpdateUserRequest changes profile fields, role or activation.
type UpdateUserRequest struct {
	FullName *string          `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Phone    *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string          `json:"address,omitempty" validate:"omitempty,max=500"`
	Role     *models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=citizen officer registrar admin"`
	Active   *bool            `json:"active,omitempty"`
}
