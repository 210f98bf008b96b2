package audit

import (
	"time"

	"gorm.io/datatypes"
)

// Action kinds recorded in the audit trail.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionLogin   = "LOGIN"
	ActionFinance = "FINANCE"
)

// Actions lists every recordable action kind, in the order the API reports them.
func Actions() []string {
	return []string{ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionFinance}
}

// Log is one append-only audit trail entry. Entries are never updated or
// deleted by any normal flow.
type Log struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	Action    string         `json:"action" gorm:"index;not null"`
	TargetID  *string        `json:"target_id,omitempty" gorm:"column:target_id;index"`
	UserID    int64          `json:"user_id" gorm:"column:user_id;not null"`
	UserName  string         `json:"user_name" gorm:"column:user_name;not null"`
	Details   string         `json:"details"`
	Snapshot  datatypes.JSON `json:"snapshot,omitempty" gorm:"column:snapshot_json"`
	Timestamp time.Time      `json:"timestamp" gorm:"index"`
}

func (Log) TableName() string {
	return "audit_logs"
}

// Recorder is the write-side dependency other services use to append entries.
type Recorder interface {
	Record(entry *Log) error
}

// ListFilters narrows audit queries. Zero values mean "no filter".
type ListFilters struct {
	Action string
	UserID int64
	Limit  int
	Offset int
}

const MaxPageSize = 500

// NewEntry builds a Log stamped with the current time.
func NewEntry(action string, targetID *string, userID int64, userName, details string) *Log {
	return &Log{
		Action:    action,
		TargetID:  targetID,
		UserID:    userID,
		UserName:  userName,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}
