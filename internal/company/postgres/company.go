package postgres

import (
	"github.com/osmech/workshop-management/internal/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Get() (*company.Settings, error) {
	var s company.Settings
	err := r.db.First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *CompanyRepository) Save(s *company.Settings) error {
	return r.db.Save(s).Error
}
