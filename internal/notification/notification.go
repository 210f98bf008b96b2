package notification

import (
	"time"

	"github.com/osmech/workshop-management/internal"
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
	TypeSystem  Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo, TypeSystem:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Category string

const (
	CategoryOrder     Category = "order"
	CategoryPayment   Category = "payment"
	CategorySystem    Category = "system"
	CategoryCustomer  Category = "customer"
	CategoryInventory Category = "inventory"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryOrder, CategoryPayment, CategorySystem, CategoryCustomer, CategoryInventory:
		return true
	}
	return false
}

// Recipient is either a broadcast to every user or a delivery to one.
// The zero value is a broadcast; persisted as a nullable user_id.
type Recipient struct {
	userID *int64
}

func Broadcast() Recipient {
	return Recipient{}
}

func Personal(userID int64) Recipient {
	return Recipient{userID: &userID}
}

func (r Recipient) IsBroadcast() bool {
	return r.userID == nil
}

// UserID returns the target user and false for broadcasts.
func (r Recipient) UserID() (int64, bool) {
	if r.userID == nil {
		return 0, false
	}
	return *r.userID, true
}

// Notification is one in-app message. A null user_id means every user
// sees it; read state on a broadcast is shared, not per-user.
type Notification struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Type        Type       `json:"type" gorm:"not null"`
	Priority    Priority   `json:"priority" gorm:"default:normal"`
	Title       string     `json:"title" gorm:"not null"`
	Message     string     `json:"message" gorm:"not null"`
	Category    *Category  `json:"category,omitempty"`
	RelatedID   *string    `json:"related_id,omitempty" gorm:"column:related_id"`
	ActionURL   *string    `json:"action_url,omitempty" gorm:"column:action_url"`
	ActionLabel *string    `json:"action_label,omitempty" gorm:"column:action_label"`
	UserID      *int64     `json:"user_id,omitempty" gorm:"column:user_id;index"`
	Read        bool       `json:"read" gorm:"default:false"`
	ReadAt      *time.Time `json:"read_at,omitempty" gorm:"column:read_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Recipient reconstructs the tagged form from the stored column.
func (n *Notification) Recipient() Recipient {
	if n.UserID == nil {
		return Broadcast()
	}
	return Personal(*n.UserID)
}

// VisibleTo reports whether the given user may see this notification.
func (n *Notification) VisibleTo(userID int64) bool {
	return n.UserID == nil || *n.UserID == userID
}

var (
	ErrNotificationNotFound = internal.NewNotFoundError("notification not found", internal.ErrCodeNotificationNotFound)
	ErrNotOwner             = internal.NewForbiddenError("notification belongs to another user", internal.ErrCodeNotOwner)
)
