package auth

import (
	"fmt"

	"github.com/osmech/workshop-management/internal/audit"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the slice of user storage auth needs. It is implemented
// in this package's postgres subpackage to keep auth independent of the
// user feature package.
type UserRepository interface {
	GetByEmail(email string) (*User, string, error)
	GetByID(userID int64) (*User, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	recorder       audit.Recorder
	bcryptCost     int
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, recorder audit.Recorder, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		recorder:       recorder,
		bcryptCost:     bcryptCost,
	}
}

// Authenticate validates credentials and returns a bearer token plus the
// user summary. Unknown email, wrong password and deactivated account all
// collapse into ErrInvalidCredentials so the response cannot be used to
// enumerate accounts.
func (s *Service) Authenticate(dto LoginDTO) (string, *User, error) {
	if err := dto.Validate(); err != nil {
		return "", nil, err
	}

	user, storedHash, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	if s.recorder != nil {
		_ = s.recorder.Record(audit.NewEntry(
			audit.ActionLogin, nil, user.ID, user.Name,
			fmt.Sprintf("Login realizado: %s", user.Email),
		))
	}

	return token, user, nil
}

// ResolveToken validates a bearer token and loads the user it belongs to.
// A valid signature is not enough: the user must still exist and be active.
func (s *Service) ResolveToken(tokenString string) (*User, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	return user, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
