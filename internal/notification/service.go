package notification

import (
	"log/slog"
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/auth"
)

// Repository scopes every read to a viewer: personal notifications plus
// broadcasts.
type Repository interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	ListVisible(viewerID int64, filters ListFilters) ([]*Notification, error)
	CountVisible(viewerID int64, unreadOnly bool) (int64, error)
	CountVisibleByType(viewerID int64) (map[Type]int64, error)
	CountVisibleByCategory(viewerID int64) (map[Category]int64, error)
	Update(n *Notification) error
	MarkAllRead(viewerID int64, at time.Time) (int64, error)
	Delete(n *Notification) error
	DeleteVisible(viewerID int64) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListNotifications(viewer *auth.User, filters ListFilters) ([]*Notification, error) {
	if filters.Category != "" && !filters.Category.Valid() {
		return nil, internal.NewValidationError("invalid notification category", internal.ErrCodeInvalidCategory)
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultPageSize
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	list, err := s.repo.ListVisible(viewer.ID, filters)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", viewer.ID)
		return nil, err
	}
	return list, nil
}

func (s *Service) NotificationStats(viewer *auth.User) (*Stats, error) {
	total, err := s.repo.CountVisible(viewer.ID, false)
	if err != nil {
		s.logger.Error("failed to count notifications", "error", err, "user_id", viewer.ID)
		return nil, err
	}
	unread, err := s.repo.CountVisible(viewer.ID, true)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountVisibleByType(viewer.ID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.CountVisibleByCategory(viewer.ID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Total:      total,
		Unread:     unread,
		ByType:     byType,
		ByCategory: byCategory,
	}, nil
}

// CreateNotification delivers to the recipient in the DTO. Only admins may
// target a user other than themselves; a nil user_id is a broadcast and is
// open to any authenticated caller.
func (s *Service) CreateNotification(dto CreateNotificationDTO, actor *auth.User) (*Notification, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if dto.UserID != nil && *dto.UserID != actor.ID && !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only admins can notify other users", internal.ErrCodeAdminOnly)
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	n := &Notification{
		Type:        dto.Type,
		Priority:    priority,
		Title:       dto.Title,
		Message:     dto.Message,
		Category:    dto.Category,
		RelatedID:   dto.RelatedID,
		ActionURL:   dto.ActionURL,
		ActionLabel: dto.ActionLabel,
		UserID:      dto.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "error", err)
		return nil, err
	}

	s.logger.Info("notification created",
		"notification_id", n.ID,
		"type", n.Type,
		"broadcast", n.Recipient().IsBroadcast(),
		"by", actor.ID)

	return n, nil
}

// Notify is the internal delivery path used by event subscribers. It
// bypasses the actor checks because the sender is the system itself.
func (s *Service) Notify(recipient Recipient, typ Type, priority Priority, title, message string, category Category, relatedID *string) error {
	n := &Notification{
		Type:      typ,
		Priority:  priority,
		Title:     title,
		Message:   message,
		Category:  &category,
		RelatedID: relatedID,
		CreatedAt: time.Now().UTC(),
	}
	if userID, ok := recipient.UserID(); ok {
		n.UserID = &userID
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to deliver notification", "error", err, "title", title)
		return err
	}
	return nil
}

// SetRead toggles read state. Setting read stamps read_at; clearing it
// clears the stamp.
func (s *Service) SetRead(id int64, dto UpdateNotificationDTO, actor *auth.User) (*Notification, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotificationNotFound
	}

	if !n.VisibleTo(actor.ID) {
		return nil, ErrNotOwner
	}

	if dto.Read != nil {
		n.Read = *dto.Read
		if *dto.Read {
			now := time.Now().UTC()
			n.ReadAt = &now
		} else {
			n.ReadAt = nil
		}
		if err := s.repo.Update(n); err != nil {
			s.logger.Error("failed to update notification", "error", err, "notification_id", id)
			return nil, err
		}
	}

	return n, nil
}

func (s *Service) MarkAllRead(actor *auth.User) (int64, error) {
	count, err := s.repo.MarkAllRead(actor.ID, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to mark notifications read", "error", err, "user_id", actor.ID)
		return 0, err
	}
	return count, nil
}

func (s *Service) DeleteNotification(id int64, actor *auth.User) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return ErrNotificationNotFound
	}

	if !n.VisibleTo(actor.ID) {
		return ErrNotOwner
	}

	if err := s.repo.Delete(n); err != nil {
		s.logger.Error("failed to delete notification", "error", err, "notification_id", id)
		return err
	}
	return nil
}

func (s *Service) ClearAll(actor *auth.User) (int64, error) {
	count, err := s.repo.DeleteVisible(actor.ID)
	if err != nil {
		s.logger.Error("failed to clear notifications", "error", err, "user_id", actor.ID)
		return 0, err
	}
	s.logger.Info("notifications cleared", "count", count, "user_id", actor.ID)
	return count, nil
}
