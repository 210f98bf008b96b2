package postgres

import (
	"time"

	"github.com/osmech/workshop-management/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) visible(viewerID int64) *gorm.DB {
	return r.db.Model(&notification.Notification{}).
		Where("user_id = ? OR user_id IS NULL", viewerID)
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	var n notification.Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListVisible(viewerID int64, filters notification.ListFilters) ([]*notification.Notification, error) {
	query := r.visible(viewerID)
	if filters.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	var list []*notification.Notification
	err := query.Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountVisible(viewerID int64, unreadOnly bool) (int64, error) {
	query := r.visible(viewerID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

type groupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *NotificationRepository) CountVisibleByType(viewerID int64) (map[notification.Type]int64, error) {
	var rows []groupCount
	err := r.visible(viewerID).
		Select("type AS key, COUNT(id) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[notification.Type]int64, len(rows))
	for _, row := range rows {
		result[notification.Type(row.Key)] = row.Count
	}
	return result, nil
}

func (r *NotificationRepository) CountVisibleByCategory(viewerID int64) (map[notification.Category]int64, error) {
	var rows []groupCount
	err := r.visible(viewerID).
		Where("category IS NOT NULL").
		Select("category AS key, COUNT(id) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[notification.Category]int64, len(rows))
	for _, row := range rows {
		result[notification.Category(row.Key)] = row.Count
	}
	return result, nil
}

func (r *NotificationRepository) Update(n *notification.Notification) error {
	return r.db.Save(n).Error
}

func (r *NotificationRepository) MarkAllRead(viewerID int64, at time.Time) (int64, error) {
	result := r.visible(viewerID).
		Where("read = ?", false).
		Updates(map[string]interface{}{"read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) Delete(n *notification.Notification) error {
	return r.db.Delete(n).Error
}

func (r *NotificationRepository) DeleteVisible(viewerID int64) (int64, error) {
	result := r.db.
		Where("user_id = ? OR user_id IS NULL", viewerID).
		Delete(&notification.Notification{})
	return result.RowsAffected, result.Error
}
