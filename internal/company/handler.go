package company

import (
	"encoding/json"
	"net/http"

	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/transport"
	"github.com/osmech/workshop-management/pkg/logger"
)

type ServiceAPI interface {
	GetSettings() (*Settings, error)
	UpdateSettings(dto UpdateSettingsDTO, actor *auth.User) (*Settings, error)
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

// GetSettings is public: the login screen renders the company identity
// before any token exists. An unset row returns an empty object.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetSettings()
	if err != nil {
		h.Logger.Error("GetSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if settings == nil {
		h.WriteJSON(w, http.StatusOK, map[string]string{})
		return
	}

	h.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.Service.UpdateSettings(dto, actor)
	if err != nil {
		h.Logger.Error("UpdateSettings: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, settings)
}
