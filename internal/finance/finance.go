package finance

import (
	"time"

	"github.com/osmech/workshop-management/internal"
)

type ExpenseCategory string

const (
	CategoryFixed    ExpenseCategory = "FIXED"
	CategoryVariable ExpenseCategory = "VARIABLE"
	CategoryPayroll  ExpenseCategory = "PAYROLL"
	CategoryParts    ExpenseCategory = "PARTS"
	CategoryTaxes    ExpenseCategory = "TAXES"
)

// AllCategories lists every expense category. Dashboard breakdowns
// zero-fill from this list.
func AllCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryFixed,
		CategoryVariable,
		CategoryPayroll,
		CategoryParts,
		CategoryTaxes,
	}
}

func (c ExpenseCategory) Valid() bool {
	for _, cat := range AllCategories() {
		if c == cat {
			return true
		}
	}
	return false
}

type ExpenseStatus string

const (
	ExpensePaid    ExpenseStatus = "PAID"
	ExpensePending ExpenseStatus = "PENDING"
)

func (s ExpenseStatus) Valid() bool {
	return s == ExpensePaid || s == ExpensePending
}

// Expense is an operating cost entry. The date field drives every period
// window; due_date is informational only.
type Expense struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"not null"`
	Amount      float64         `json:"amount" gorm:"not null"`
	Category    ExpenseCategory `json:"category" gorm:"index;not null"`
	Date        time.Time       `json:"date" gorm:"index;not null"`
	DueDate     *time.Time      `json:"due_date,omitempty" gorm:"column:due_date"`
	Status      ExpenseStatus   `json:"status" gorm:"default:PENDING"`
	UserID      int64           `json:"user_id" gorm:"column:user_id;not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

var ErrExpenseNotFound = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)
