package finance

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/transport"
	"github.com/osmech/workshop-management/pkg/logger"
)

type ServiceAPI interface {
	ListExpenses(filters ExpenseFilters) ([]*Expense, error)
	CreateExpense(dto CreateExpenseDTO, actor *auth.User) (*Expense, error)
	UpdateExpense(id int64, dto UpdateExpenseDTO, actor *auth.User) (*Expense, error)
	DeleteExpense(id int64, actor *auth.User) error
	FinanceDashboard(month, year int) (*Dashboard, error)
	MonthlyReport(year int) (*MonthlyReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ExpenseFilters{
		Category: ExpenseCategory(q.Get("category")),
		Status:   ExpenseStatus(q.Get("status")),
	}
	if v := q.Get("month"); v != "" {
		if month, err := strconv.Atoi(v); err == nil {
			filters.Month = month
		}
	}
	if v := q.Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filters.Year = year
		}
	}

	expenses, err := h.Service.ListExpenses(filters)
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.CreateExpense(dto, actor)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateExpense(id, dto, actor)
	if err != nil {
		h.Logger.Error("UpdateExpense: service error", "error", err, "expense_id", id, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.Service.DeleteExpense(id, actor); err != nil {
		h.Logger.Error("DeleteExpense: service error", "error", err, "expense_id", id, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var month, year int
	if v := q.Get("month"); v != "" {
		month, _ = strconv.Atoi(v)
	}
	if v := q.Get("year"); v != "" {
		year, _ = strconv.Atoi(v)
	}

	dashboard, err := h.Service.FinanceDashboard(month, year)
	if err != nil {
		h.Logger.Error("GetDashboard: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	var year int
	if v := r.URL.Query().Get("year"); v != "" {
		year, _ = strconv.Atoi(v)
	}

	report, err := h.Service.MonthlyReport(year)
	if err != nil {
		h.Logger.Error("GetMonthlyReport: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
