package postgres

import (
	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(activeOnly bool) ([]*user.User, error) {
	query := r.db.Model(&user.User{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var users []*user.User
	err := query.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListMechanics() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("role = ? AND active = ?", auth.RoleMechanic, true).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("role = ?", auth.RoleAdmin).Count(&count).Error
	return count, err
}
