package postgres

import (
	"fmt"

	"github.com/osmech/workshop-management/internal/order"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.Repository {
	return &OrderRepository{db: db}
}

// Create allocates the next order number from the counter row and inserts
// the order in the same transaction. The bare UPDATE takes a row lock on
// postgres and serializes through the writer lock on sqlite, so concurrent
// creates never observe the same counter value.
func (r *OrderRepository) Create(o *order.ServiceOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order.OrderCounter{}).
			Where("id = ?", 1).
			Update("next_number", gorm.Expr("next_number + 1")).Error; err != nil {
			return err
		}

		var counter order.OrderCounter
		if err := tx.Where("id = ?", 1).First(&counter).Error; err != nil {
			return err
		}

		o.OrderNumber = fmt.Sprintf("OS-%d", counter.NextNumber)
		return tx.Create(o).Error
	})
}

func (r *OrderRepository) GetByID(id int64) (*order.ServiceOrder, error) {
	var o order.ServiceOrder
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(filters order.ListFilters) ([]*order.ServiceOrder, error) {
	query := r.db.Model(&order.ServiceOrder{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Plate != "" {
		query = query.Where("plate LIKE ?", "%"+filters.Plate+"%")
	}

	var orders []*order.ServiceOrder
	err := query.Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(o *order.ServiceOrder) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(o *order.ServiceOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID).Delete(&order.ServiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(o).Error
	})
}

func (r *OrderRepository) AddItem(item *order.ServiceItem, o *order.ServiceOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Save(o).Error
	})
}

func (r *OrderRepository) ItemsForOrder(orderID int64) ([]*order.ServiceItem, error) {
	var items []*order.ServiceItem
	err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *OrderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&order.ServiceOrder{}).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByStatus(status order.OSStatus) (int64, error) {
	var count int64
	err := r.db.Model(&order.ServiceOrder{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *OrderRepository) SumTotalCostByStatus(status order.OSStatus) (float64, error) {
	var sum float64
	err := r.db.Model(&order.ServiceOrder{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&sum).Error
	return sum, err
}
