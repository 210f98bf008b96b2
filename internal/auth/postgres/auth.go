package postgres

import (
	"database/sql"

	"github.com/osmech/workshop-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(email string) (*auth.User, string, error) {
	var user auth.User
	var passwordHash string

	query := `SELECT id, name, email, role, avatar, specialty, active, password_hash FROM users WHERE email = ?`
	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.Avatar, &user.Specialty, &user.Active, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", auth.ErrUserNotFound
		}
		return nil, "", err
	}
	return &user, passwordHash, nil
}

func (r *Repository) GetByID(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, name, email, role, avatar, specialty, active FROM users WHERE id = ?`
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.Avatar, &user.Specialty, &user.Active); err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
