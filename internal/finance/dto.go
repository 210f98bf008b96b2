package finance

import (
	"errors"
	"time"
)

type CreateExpenseDTO struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Date        time.Time       `json:"date"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Status      ExpenseStatus   `json:"status,omitempty"`
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.Description == "" {
		return errors.New("description is required")
	}
	if dto.Amount < 0 {
		return errors.New("amount cannot be negative")
	}
	if !dto.Category.Valid() {
		return errors.New("invalid expense category")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	if dto.Status != "" && !dto.Status.Valid() {
		return errors.New("invalid expense status")
	}
	return nil
}

// UpdateExpenseDTO carries partial updates: nil fields stay untouched.
type UpdateExpenseDTO struct {
	Description *string          `json:"description,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
	Category    *ExpenseCategory `json:"category,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Status      *ExpenseStatus   `json:"status,omitempty"`
}

func (dto UpdateExpenseDTO) Validate() error {
	if dto.Description != nil && *dto.Description == "" {
		return errors.New("description cannot be empty")
	}
	if dto.Amount != nil && *dto.Amount < 0 {
		return errors.New("amount cannot be negative")
	}
	if dto.Category != nil && !dto.Category.Valid() {
		return errors.New("invalid expense category")
	}
	if dto.Status != nil && !dto.Status.Valid() {
		return errors.New("invalid expense status")
	}
	return nil
}

// ExpenseFilters narrows expense listings. Month and Year only apply
// together.
type ExpenseFilters struct {
	Category ExpenseCategory
	Status   ExpenseStatus
	Month    int
	Year     int
}

type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Dashboard is the response of GET /finance/dashboard. Receivables are
// unbounded by the period: completed-but-unpaid work is owed regardless
// of when it finished.
type Dashboard struct {
	Period             Period                      `json:"period"`
	Revenue            float64                     `json:"revenue"`
	TotalExpenses      float64                     `json:"total_expenses"`
	PaidExpenses       float64                     `json:"paid_expenses"`
	PendingExpenses    float64                     `json:"pending_expenses"`
	Profit             float64                     `json:"profit"`
	ExpensesByCategory map[ExpenseCategory]float64 `json:"expenses_by_category"`
	Receivables        float64                     `json:"receivables"`
	OrdersCompleted    int64                       `json:"orders_completed"`
}

type MonthlyRow struct {
	Month       int     `json:"month"`
	Revenue     float64 `json:"revenue"`
	Expenses    float64 `json:"expenses"`
	Profit      float64 `json:"profit"`
	OrdersCount int64   `json:"orders_count"`
}

type MonthlyReport struct {
	Year          int          `json:"year"`
	MonthlyData   []MonthlyRow `json:"monthly_data"`
	TotalRevenue  float64      `json:"total_revenue"`
	TotalExpenses float64      `json:"total_expenses"`
	TotalProfit   float64      `json:"total_profit"`
}
