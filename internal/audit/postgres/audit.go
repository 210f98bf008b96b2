package postgres

import (
	"github.com/osmech/workshop-management/internal/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(entry *audit.Log) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepository) List(filters audit.ListFilters) ([]*audit.Log, error) {
	query := r.db.Model(&audit.Log{})

	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.UserID != 0 {
		query = query.Where("user_id = ?", filters.UserID)
	}

	var logs []*audit.Log
	err := query.Order("timestamp DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) ListByTarget(targetID string) ([]*audit.Log, error) {
	var logs []*audit.Log
	err := r.db.Where("target_id = ?", targetID).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
