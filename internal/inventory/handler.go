package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/platform/httpx"
)

// Handler wires HTTP endpoints for stock alerts.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/alerts", h.handleAlerts)
}

type alertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	minUrgency := 0
	if v := r.URL.Query().Get("min_urgency"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			httpx.InvalidFields(w, map[string]string{"min_urgency": "must be an integer between 0 and 100"})
			return
		}
		minUrgency = n
	}
	alerts, err := h.service.Alerts(r.Context(), minUrgency)
	if err != nil {
		h.logger.Error("list stock alerts", slog.Any("error", err))
		httpx.RespondError(w, upstream(err))
		return
	}
	httpx.JSON(w, http.StatusOK, alertsResponse{Alerts: alerts})
}

func upstream(err error) error {
	if errors.Is(err, backend.ErrUnavailable) {
		return fmt.Errorf("%w: %v", httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
}
