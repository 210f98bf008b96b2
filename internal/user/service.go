package user

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(activeOnly bool) ([]*User, error)
	ListMechanics() ([]*User, error)
	Update(u *User) error
	CountAdmins() (int64, error)
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo     Repository
	hasher   PasswordHasher
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) ListUsers(activeOnly bool) ([]*User, error) {
	users, err := s.repo.List(activeOnly)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) ListMechanics() ([]*User, error) {
	users, err := s.repo.ListMechanics()
	if err != nil {
		s.logger.Error("failed to list mechanics", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CreateUser registers a new staff account. Email uniqueness is checked
// before insert; role defaults to MECHANIC and commission rate to zero.
func (s *Service) CreateUser(dto CreateUserDTO, actor *auth.User) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		s.logger.Warn("create user rejected: email taken", "email", dto.Email)
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = auth.RoleMechanic
	}
	commission := float64(0)
	if dto.CommissionRate != nil {
		commission = *dto.CommissionRate
	}

	now := time.Now().UTC()
	u := &User{
		Name:           dto.Name,
		Email:          dto.Email,
		PasswordHash:   hash,
		Phone:          dto.Phone,
		Role:           role,
		Specialty:      dto.Specialty,
		CommissionRate: commission,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	targetID := fmt.Sprintf("%d", u.ID)
	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionCreate, &targetID, actor.ID, actor.Name,
		fmt.Sprintf("Usuário %s criado", u.Name),
	))

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "created_by", actor.ID)
	return u, nil
}

// UpdateUser applies a partial update. Admins can edit anyone; other users
// can only edit themselves.
func (s *Service) UpdateUser(id int64, dto UpdateUserDTO, actor *auth.User) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !actor.IsAdmin() && actor.ID != id {
		s.logger.Warn("update user denied", "target_id", id, "actor_id", actor.ID)
		return nil, ErrForbidden
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.Avatar != nil {
		u.Avatar = dto.Avatar
	}
	if dto.Specialty != nil {
		u.Specialty = dto.Specialty
	}
	if dto.CommissionRate != nil {
		u.CommissionRate = *dto.CommissionRate
	}
	if dto.Active != nil {
		u.Active = *dto.Active
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	return u, nil
}

// DeactivateUser soft-deletes an account. The acting admin cannot
// deactivate themselves.
func (s *Service) DeactivateUser(id int64, actor *auth.User) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return ErrUserNotFound
	}

	if u.ID == actor.ID {
		return ErrCannotDeactivateSelf
	}

	u.Active = false
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return err
	}

	targetID := fmt.Sprintf("%d", u.ID)
	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionDelete, &targetID, actor.ID, actor.Name,
		fmt.Sprintf("Usuário %s desativado", u.Name),
	))

	s.logger.Info("user deactivated", "user_id", id, "by", actor.ID)
	return nil
}
