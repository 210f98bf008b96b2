package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/osmech/workshop-management/internal/transport"
	"github.com/osmech/workshop-management/pkg/logger"
)

type ServiceAPI interface {
	ListLogs(filters ListFilters) ([]*Log, error)
	LogsForOrder(orderNumber string) ([]*Log, error)
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

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Action: q.Get("action"),
	}
	if v := q.Get("user_id"); v != "" {
		if userID, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.UserID = userID
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filters.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filters.Offset = offset
		}
	}

	logs, err := h.Service.ListLogs(filters)
	if err != nil {
		h.Logger.Error("ListLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, logs)
}

// ListActions returns the fixed action vocabulary so the UI can build
// its filter dropdown without hardcoding it.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, Actions())
}

func (h *Handler) LogsByOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "order_number")
	if orderNumber == "" {
		h.WriteError(w, http.StatusBadRequest, "order number is required")
		return
	}

	logs, err := h.Service.LogsForOrder(orderNumber)
	if err != nil {
		h.Logger.Error("LogsByOrder: service error", "error", err, "order_number", orderNumber)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, logs)
}
