package finance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
)

// Repository covers both the expenses table and the revenue aggregates it
// is reported against.
type Repository interface {
	Create(e *Expense) error
	GetByID(id int64) (*Expense, error)
	List(filters ExpenseFilters) ([]*Expense, error)
	Update(e *Expense) error
	Delete(e *Expense) error

	SumExpenses(start, end time.Time) (float64, error)
	SumExpensesByStatus(start, end time.Time, status ExpenseStatus) (float64, error)
	SumExpensesByCategory(start, end time.Time, category ExpenseCategory) (float64, error)

	PaidRevenue(start, end time.Time) (float64, error)
	PaidOrderCount(start, end time.Time) (int64, error)
	Receivables() (float64, error)
}

type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// monthWindow returns the half-open [start, end) interval covering one
// calendar month.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *Service) ListExpenses(filters ExpenseFilters) ([]*Expense, error) {
	if filters.Category != "" && !filters.Category.Valid() {
		return nil, internal.NewValidationError("invalid expense category", internal.ErrCodeInvalidCategory)
	}
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, internal.NewValidationError("invalid expense status", internal.ErrCodeValidationFailed)
	}
	if filters.Month != 0 && (filters.Month < 1 || filters.Month > 12) {
		return nil, internal.NewValidationError("month must be between 1 and 12", internal.ErrCodeInvalidDate)
	}

	expenses, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, err
	}
	return expenses, nil
}

func (s *Service) CreateExpense(dto CreateExpenseDTO, actor *auth.User) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	status := dto.Status
	if status == "" {
		status = ExpensePending
	}

	e := &Expense{
		Description: dto.Description,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Date:        dto.Date,
		DueDate:     dto.DueDate,
		Status:      status,
		UserID:      actor.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, err
	}

	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionFinance, nil, actor.ID, actor.Name,
		fmt.Sprintf("Despesa criada: %s - R$ %.2f", e.Description, e.Amount),
	))

	s.logger.Info("expense created",
		"expense_id", e.ID,
		"category", e.Category,
		"amount", e.Amount,
		"by", actor.ID)

	return e, nil
}

func (s *Service) UpdateExpense(id int64, dto UpdateExpenseDTO, actor *auth.User) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}

	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.Category != nil {
		e.Category = *dto.Category
	}
	if dto.Date != nil {
		e.Date = *dto.Date
	}
	if dto.DueDate != nil {
		e.DueDate = dto.DueDate
	}
	if dto.Status != nil {
		e.Status = *dto.Status
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, err
	}

	s.logger.Info("expense updated", "expense_id", id, "by", actor.ID)
	return e, nil
}

func (s *Service) DeleteExpense(id int64, actor *auth.User) error {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return ErrExpenseNotFound
	}

	targetID := fmt.Sprintf("%d", id)
	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionFinance, &targetID, actor.ID, actor.Name,
		fmt.Sprintf("Despesa removida: %s", e.Description),
	))

	if err := s.repo.Delete(e); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}

	s.logger.Info("expense deleted", "expense_id", id, "by", actor.ID)
	return nil
}

// FinanceDashboard aggregates revenue, expenses and receivables for one
// calendar month (current month when unset).
func (s *Service) FinanceDashboard(month, year int) (*Dashboard, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return nil, internal.NewValidationError("month must be between 1 and 12", internal.ErrCodeInvalidDate)
	}

	start, end := monthWindow(year, month)

	revenue, err := s.repo.PaidRevenue(start, end)
	if err != nil {
		s.logger.Error("failed to compute revenue", "error", err)
		return nil, err
	}

	totalExpenses, err := s.repo.SumExpenses(start, end)
	if err != nil {
		return nil, err
	}
	paidExpenses, err := s.repo.SumExpensesByStatus(start, end, ExpensePaid)
	if err != nil {
		return nil, err
	}
	pendingExpenses, err := s.repo.SumExpensesByStatus(start, end, ExpensePending)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[ExpenseCategory]float64, len(AllCategories()))
	for _, category := range AllCategories() {
		total, err := s.repo.SumExpensesByCategory(start, end, category)
		if err != nil {
			return nil, err
		}
		byCategory[category] = total
	}

	receivables, err := s.repo.Receivables()
	if err != nil {
		return nil, err
	}

	ordersCompleted, err := s.repo.PaidOrderCount(start, end)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Period:             Period{Month: month, Year: year},
		Revenue:            revenue,
		TotalExpenses:      totalExpenses,
		PaidExpenses:       paidExpenses,
		PendingExpenses:    pendingExpenses,
		Profit:             revenue - totalExpenses,
		ExpensesByCategory: byCategory,
		Receivables:        receivables,
		OrdersCompleted:    ordersCompleted,
	}, nil
}

// MonthlyReport breaks the year into twelve revenue/expense/profit rows
// plus yearly totals.
func (s *Service) MonthlyReport(year int) (*MonthlyReport, error) {
	if year == 0 {
		year = s.now().Year()
	}

	report := &MonthlyReport{
		Year:        year,
		MonthlyData: make([]MonthlyRow, 0, 12),
	}

	for month := 1; month <= 12; month++ {
		start, end := monthWindow(year, month)

		revenue, err := s.repo.PaidRevenue(start, end)
		if err != nil {
			s.logger.Error("failed to compute monthly revenue", "error", err, "month", month)
			return nil, err
		}
		expenses, err := s.repo.SumExpenses(start, end)
		if err != nil {
			return nil, err
		}
		ordersCount, err := s.repo.PaidOrderCount(start, end)
		if err != nil {
			return nil, err
		}

		row := MonthlyRow{
			Month:       month,
			Revenue:     revenue,
			Expenses:    expenses,
			Profit:      revenue - expenses,
			OrdersCount: ordersCount,
		}
		report.MonthlyData = append(report.MonthlyData, row)

		report.TotalRevenue += row.Revenue
		report.TotalExpenses += row.Expenses
		report.TotalProfit += row.Profit
	}

	return report, nil
}
