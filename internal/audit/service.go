package audit

import (
	"log/slog"
)

type Repository interface {
	Create(entry *Log) error
	List(filters ListFilters) ([]*Log, error)
	ListByTarget(targetID string) ([]*Log, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry to the trail. Callers treat failures as
// non-fatal: the mutation being audited has already committed.
func (s *Service) Record(entry *Log) error {
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to record audit entry",
			"action", entry.Action,
			"user_id", entry.UserID,
			"error", err)
		return err
	}
	return nil
}

func (s *Service) ListLogs(filters ListFilters) ([]*Log, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	logs, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		return nil, err
	}
	return logs, nil
}

// LogsForOrder returns every entry whose target is the given order number,
// newest first.
func (s *Service) LogsForOrder(orderNumber string) ([]*Log, error) {
	logs, err := s.repo.ListByTarget(orderNumber)
	if err != nil {
		s.logger.Error("failed to list audit logs for order", "order_number", orderNumber, "error", err)
		return nil, err
	}
	return logs, nil
}
