package postgres

import (
	"time"

	"github.com/osmech/workshop-management/internal/finance"
	"github.com/osmech/workshop-management/internal/order"
	"gorm.io/gorm"
)

type FinanceRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) finance.Repository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) Create(e *finance.Expense) error {
	return r.db.Create(e).Error
}

func (r *FinanceRepository) GetByID(id int64) (*finance.Expense, error) {
	var e finance.Expense
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, finance.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *FinanceRepository) List(filters finance.ExpenseFilters) ([]*finance.Expense, error) {
	query := r.db.Model(&finance.Expense{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Month != 0 && filters.Year != 0 {
		start := time.Date(filters.Year, time.Month(filters.Month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		query = query.Where("date >= ? AND date < ?", start, end)
	}

	var expenses []*finance.Expense
	err := query.Order("date DESC").Find(&expenses).Error
	return expenses, err
}

func (r *FinanceRepository) Update(e *finance.Expense) error {
	return r.db.Save(e).Error
}

func (r *FinanceRepository) Delete(e *finance.Expense) error {
	return r.db.Delete(e).Error
}

func (r *FinanceRepository) SumExpenses(start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.Model(&finance.Expense{}).
		Where("date >= ? AND date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *FinanceRepository) SumExpensesByStatus(start, end time.Time, status finance.ExpenseStatus) (float64, error) {
	var sum float64
	err := r.db.Model(&finance.Expense{}).
		Where("date >= ? AND date < ? AND status = ?", start, end, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *FinanceRepository) SumExpensesByCategory(start, end time.Time, category finance.ExpenseCategory) (float64, error) {
	var sum float64
	err := r.db.Model(&finance.Expense{}).
		Where("date >= ? AND date < ? AND category = ?", start, end, category).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *FinanceRepository) PaidRevenue(start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.Model(&order.ServiceOrder{}).
		Where("status = ? AND payment_date >= ? AND payment_date < ?", order.StatusPaid, start, end).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *FinanceRepository) PaidOrderCount(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&order.ServiceOrder{}).
		Where("status = ? AND payment_date >= ? AND payment_date < ?", order.StatusPaid, start, end).
		Count(&count).Error
	return count, err
}

func (r *FinanceRepository) Receivables() (float64, error) {
	var sum float64
	err := r.db.Model(&order.ServiceOrder{}).
		Where("status = ?", order.StatusCompleted).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&sum).Error
	return sum, err
}
