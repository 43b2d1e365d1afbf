package printinghttp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pestdocs/pestdocs/internal/platform/httpx"
	"github.com/pestdocs/pestdocs/jobs"
)

type jobRequest struct {
	RequestID   string `json:"request_id" validate:"omitempty,uuid"`
	Kind        string `json:"kind" validate:"required,oneof=work_order faes"`
	ID          int64  `json:"id" validate:"required,gt=0"`
	Copies      int    `json:"copies" validate:"omitempty,oneof=1 2"`
	Certificate bool   `json:"certificate"`
	Variant     string `json:"variant" validate:"omitempty,oneof=standard compact"`
}

type jobResponse struct {
	RequestID string `json:"request_id"`
	TaskID    string `json:"task_id"`
	Queue     string `json:"queue"`
}

func (h *Handler) enqueueDocument(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "job queue not configured")
		return
	}
	var req jobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if invalid := h.check(req); len(invalid) > 0 {
		httpx.InvalidFields(w, invalid)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	payload := jobs.DocumentPayload{
		RequestID:   req.RequestID,
		Kind:        req.Kind,
		ID:          req.ID,
		Copies:      req.Copies,
		Certificate: req.Certificate,
		Variant:     req.Variant,
	}
	info, err := h.jobs.EnqueueDocument(r.Context(), payload)
	if errors.Is(err, jobs.ErrDuplicateRequest) {
		httpx.RespondError(w, fmt.Errorf("%w: request %s is already queued", httpx.ErrConflict, payload.RequestID))
		return
	}
	if err != nil {
		h.logger.Error("enqueue document", slog.String("kind", req.Kind), slog.Int64("id", req.ID), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "could not enqueue document")
		return
	}
	httpx.JSON(w, http.StatusAccepted, jobResponse{RequestID: payload.RequestID, TaskID: info.ID, Queue: info.Queue})
}
