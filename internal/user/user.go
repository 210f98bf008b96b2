package user

import (
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/auth"
)

// User is a staff account: an administrator or a mechanic. Accounts are
// never hard-deleted because orders, expenses and audit entries keep
// referencing them; deactivation flips Active instead.
type User struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"index;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"column:password_hash;not null"`
	Phone          *string   `json:"phone,omitempty"`
	Role           auth.Role `json:"role" gorm:"default:MECHANIC"`
	Avatar         *string   `json:"avatar,omitempty"`
	Specialty      *string   `json:"specialty,omitempty"`
	CommissionRate float64   `json:"commission_rate" gorm:"column:commission_rate;default:0"`
	Active         bool      `json:"active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Summary converts a full record into the context identity shape.
func (u *User) Summary() *auth.User {
	return &auth.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Specialty: u.Specialty,
		Active:    u.Active,
	}
}

var (
	ErrUserNotFound         = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken           = internal.NewConflictError("email already registered", internal.ErrCodeEmailTaken)
	ErrCannotDeactivateSelf = internal.NewValidationError("cannot deactivate your own account", internal.ErrCodeValidationFailed)
	ErrForbidden            = internal.NewForbiddenError("no permission to edit this user", internal.ErrCodeAdminOnly)
)
