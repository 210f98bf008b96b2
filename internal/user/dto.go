package user

import (
	"errors"

	"github.com/osmech/workshop-management/internal/auth"
)

// CreateUserDTO is the payload for POST /users.
type CreateUserDTO struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Phone          *string   `json:"phone,omitempty"`
	Role           auth.Role `json:"role,omitempty"`
	Specialty      *string   `json:"specialty,omitempty"`
	CommissionRate *float64  `json:"commission_rate,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if len(dto.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if dto.Role != "" && !dto.Role.Valid() {
		return errors.New("role must be ADMIN or MECHANIC")
	}
	return nil
}

// UpdateUserDTO carries partial updates: nil fields stay untouched.
type UpdateUserDTO struct {
	Name           *string    `json:"name,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Role           *auth.Role `json:"role,omitempty"`
	Avatar         *string    `json:"avatar,omitempty"`
	Specialty      *string    `json:"specialty,omitempty"`
	CommissionRate *float64   `json:"commission_rate,omitempty"`
	Active         *bool      `json:"active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Role != nil && !dto.Role.Valid() {
		return errors.New("role must be ADMIN or MECHANIC")
	}
	return nil
}
