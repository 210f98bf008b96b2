package postgres

import (
	"github.com/osmech/workshop-management/internal/inventory"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(item *inventory.Item) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) GetByID(id int64) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, inventory.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) GetByCode(code string) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.Where("code = ?", code).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, inventory.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) List(filters inventory.ListFilters) ([]*inventory.Item, error) {
	query := r.db.Model(&inventory.Item{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.LowStock {
		query = query.Where("stock_quantity <= min_stock_level")
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var items []*inventory.Item
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) ListLowStock() ([]*inventory.Item, error) {
	var items []*inventory.Item
	err := r.db.Where("stock_quantity <= min_stock_level").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *InventoryRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&inventory.Item{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *InventoryRepository) Update(item *inventory.Item) error {
	return r.db.Save(item).Error
}

func (r *InventoryRepository) Delete(item *inventory.Item) error {
	return r.db.Delete(item).Error
}
