package company

import (
	"log/slog"

	"github.com/osmech/workshop-management/internal/auth"
)

// Repository holds the singleton settings row. Get returns (nil, nil)
// when the row has never been created.
type Repository interface {
	Get() (*Settings, error)
	Save(s *Settings) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetSettings() (*Settings, error) {
	settings, err := s.repo.Get()
	if err != nil {
		s.logger.Error("failed to load company settings", "error", err)
		return nil, err
	}
	return settings, nil
}

// UpdateSettings applies a partial update, creating the row on first use.
func (s *Service) UpdateSettings(dto UpdateSettingsDTO, actor *auth.User) (*Settings, error) {
	settings, err := s.repo.Get()
	if err != nil {
		s.logger.Error("failed to load company settings", "error", err)
		return nil, err
	}
	if settings == nil {
		settings = &Settings{}
	}

	if dto.Name != nil {
		settings.Name = *dto.Name
	}
	if dto.CNPJ != nil {
		settings.CNPJ = *dto.CNPJ
	}
	if dto.Address != nil {
		settings.Address = *dto.Address
	}
	if dto.Phone != nil {
		settings.Phone = *dto.Phone
	}
	if dto.Email != nil {
		settings.Email = dto.Email
	}
	if dto.Subtitle != nil {
		settings.Subtitle = dto.Subtitle
	}
	if dto.Logo != nil {
		settings.Logo = dto.Logo
	}

	if err := s.repo.Save(settings); err != nil {
		s.logger.Error("failed to save company settings", "error", err)
		return nil, err
	}

	s.logger.Info("company settings updated", "by", actor.ID)
	return settings, nil
}
