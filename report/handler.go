package report

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handler exposes engine diagnostics.
type Handler struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a report handler.
func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{client: client, logger: logger, now: time.Now}
}

// MountRoutes registers the engine routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Post("/sample", h.sample)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

var sampleTemplate = template.Must(template.New("sample").Parse(`<!DOCTYPE html>
<html lang="pt-BR"><head><meta charset="utf-8"><title>Página de teste</title></head>
<body><h1>Página de teste de impressão</h1><p>Gerada em {{.}}</p></body></html>`))

// sample renders a one-page test document to check fonts and margins end to end.
func (h *Handler) sample(w http.ResponseWriter, r *http.Request) {
	var html strings.Builder
	if err := sampleTemplate.Execute(&html, h.now().Format("02/01/2006 15:04:05")); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	pdf, err := h.client.RenderHTML(r.Context(), html.String())
	if err != nil {
		h.logger.Error("render sample pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=pagina-teste.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
