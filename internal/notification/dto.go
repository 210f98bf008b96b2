package notification

import "errors"

type CreateNotificationDTO struct {
	Type        Type      `json:"type"`
	Priority    Priority  `json:"priority"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Category    *Category `json:"category,omitempty"`
	RelatedID   *string   `json:"related_id,omitempty"`
	ActionURL   *string   `json:"action_url,omitempty"`
	ActionLabel *string   `json:"action_label,omitempty"`
	// UserID nil means broadcast.
	UserID *int64 `json:"user_id,omitempty"`
}

func (dto CreateNotificationDTO) Validate() error {
	if !dto.Type.Valid() {
		return errors.New("invalid notification type")
	}
	if dto.Priority != "" && !dto.Priority.Valid() {
		return errors.New("invalid notification priority")
	}
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Message == "" {
		return errors.New("message is required")
	}
	if dto.Category != nil && !dto.Category.Valid() {
		return errors.New("invalid notification category")
	}
	return nil
}

type UpdateNotificationDTO struct {
	Read *bool `json:"read,omitempty"`
}

// ListFilters narrows notification listings over the caller's visible set.
type ListFilters struct {
	UnreadOnly bool
	Category   Category
	Limit      int
	Offset     int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Stats is the response of GET /notifications/stats. Broadcasts with no
// category are counted in the totals but skipped in by_category.
type Stats struct {
	Total      int64              `json:"total"`
	Unread     int64              `json:"unread"`
	ByType     map[Type]int64     `json:"by_type"`
	ByCategory map[Category]int64 `json:"by_category"`
}
