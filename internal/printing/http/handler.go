// Package printinghttp exposes document generation and FAES submission over HTTP.
package printinghttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/faes"
	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/internal/platform/httpx"
	"github.com/pestdocs/pestdocs/internal/printable"
	"github.com/pestdocs/pestdocs/internal/printing"
	"github.com/pestdocs/pestdocs/jobs"
)

type documentService interface {
	Projection(ctx context.Context, id int64) (printable.Projection, error)
	WorkOrder(ctx context.Context, id int64, opts layout.Options, sink printing.Sink) (layout.Document, error)
	FAES(ctx context.Context, id int64, opts layout.Options, sink printing.Sink) (layout.Document, error)
}

type submitter interface {
	Submit(ctx context.Context, req faes.SubmitRequest) (faes.SubmitResult, error)
}

type schemaSource interface {
	FetchSchema(ctx context.Context, id int64) (faes.Schema, error)
}

type enqueuer interface {
	EnqueueDocument(ctx context.Context, payload jobs.DocumentPayload) (*asynq.TaskInfo, error)
}

// Config wires the handler. Jobs may be nil when no queue is configured.
type Config struct {
	Service   documentService
	Exporter  printing.Exporter
	Submitter submitter
	Schemas   schemaSource
	Jobs      enqueuer
	Logger    *slog.Logger
}

// Handler serves the document routes.
type Handler struct {
	service   documentService
	exporter  printing.Exporter
	submitter submitter
	schemas   schemaSource
	jobs      enqueuer
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewHandler constructs the handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:   cfg.Service,
		exporter:  cfg.Exporter,
		submitter: cfg.Submitter,
		schemas:   cfg.Schemas,
		jobs:      cfg.Jobs,
		validate:  v,
		logger:    logger,
	}
}

// MountRoutes registers the document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/service-orders/{id}/document", h.workOrderDocument)
	r.Get("/service-orders/{id}/projection", h.projection)
	r.Get("/faes/{id}/document", h.faesDocument)
	r.Post("/faes/validate", h.validateFAES)
	r.Post("/faes", h.submitFAES)
	r.Post("/documents/jobs", h.enqueueDocument)
}

type documentQuery struct {
	Copies      int    `json:"copies" validate:"omitempty,oneof=1 2"`
	Certificate bool   `json:"certificate"`
	Variant     string `json:"variant" validate:"omitempty,oneof=standard compact"`
}

func (h *Handler) workOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	opts, ok := h.documentOptions(w, r)
	if !ok {
		return
	}
	tw := &trackingWriter{ResponseWriter: w}
	_, err := h.service.WorkOrder(r.Context(), id, opts, printing.Download(h.exporter, tw))
	h.finishDownload(tw, err)
}

func (h *Handler) faesDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	opts, ok := h.documentOptions(w, r)
	if !ok {
		return
	}
	tw := &trackingWriter{ResponseWriter: w}
	_, err := h.service.FAES(r.Context(), id, opts, printing.Download(h.exporter, tw))
	h.finishDownload(tw, err)
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Projection(r.Context(), id)
	if err != nil {
		h.logger.Warn("build projection", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, classify(err))
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// finishDownload reports err unless the PDF already started streaming.
func (h *Handler) finishDownload(tw *trackingWriter, err error) {
	if err == nil {
		return
	}
	if tw.wrote {
		h.logger.Warn("document stream interrupted", slog.Any("error", err))
		return
	}
	httpx.RespondError(tw.ResponseWriter, classify(err))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.InvalidFields(w, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *Handler) documentOptions(w http.ResponseWriter, r *http.Request) (layout.Options, bool) {
	q := r.URL.Query()
	var query documentQuery
	invalid := map[string]string{}
	if v := q.Get("copies"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid["copies"] = "must be an integer"
		}
		query.Copies = n
	}
	if v := q.Get("certificate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid["certificate"] = "must be a boolean"
		}
		query.Certificate = b
	}
	query.Variant = q.Get("variant")
	if len(invalid) == 0 {
		invalid = h.check(query)
	}
	if len(invalid) > 0 {
		httpx.InvalidFields(w, invalid)
		return layout.Options{}, false
	}
	return layout.Options{
		Copies:             query.Copies,
		IncludeCertificate: query.Certificate,
		Variant:            layout.Variant(query.Variant),
	}, true
}

// check runs struct validation and returns messages keyed by json field name.
func (h *Handler) check(v any) map[string]string {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = "failed rule " + rule
	}
	return out
}

// classify maps generation errors onto the httpx sentinels. Unrecognised errors are
// returned unchanged and become a 500.
func classify(err error) error {
	if mapped := mapKnown(err); mapped != nil {
		return mapped
	}
	if stage, ok := printing.FailedStage(err); ok && (stage == printing.StageNormalizing || stage == printing.StageRendering) {
		return fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
	}
	return err
}

// classifyUpstream is classify for calls that only fail on the backend.
func classifyUpstream(err error) error {
	if mapped := mapKnown(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
}

// mapKnown returns nil for errors without a dedicated status.
func mapKnown(err error) error {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		return fmt.Errorf("%w: %v", httpx.ErrNotFound, err)
	case errors.Is(err, backend.ErrUnavailable):
		return fmt.Errorf("%w: %v", httpx.ErrUnavailable, err)
	case errors.Is(err, layout.ErrInvalidCopies), errors.Is(err, layout.ErrUnknownVariant):
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return nil
}

// trackingWriter remembers whether a response has started.
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) WriteHeader(status int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}
