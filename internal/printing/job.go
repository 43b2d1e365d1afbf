package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/jobs"
)

// JobConfig wires dependencies required by the worker job.
type JobConfig struct {
	Service    *Service
	Exporter   Exporter
	StorageDir string
	Logger     *slog.Logger
}

// Job processes document generation requests coming from the queue.
type Job struct {
	service    *Service
	exporter   Exporter
	storageDir string
	logger     *slog.Logger
}

// NewJob constructs a Job handler.
func NewJob(cfg JobConfig) *Job {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{service: cfg.Service, exporter: cfg.Exporter, storageDir: cfg.StorageDir, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract. Each request is stored under its own
// request directory so concurrent requests for the same document never collide.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.service == nil || j.exporter == nil {
		return fmt.Errorf("printing job not configured")
	}
	payload, err := jobs.ParseDocumentPayload(task)
	if err != nil {
		return err
	}
	opts := layout.Options{
		Copies:             payload.Copies,
		IncludeCertificate: payload.Certificate,
		Variant:            layout.Variant(payload.Variant),
	}
	dir := filepath.Join(j.dir(), payload.RequestID)

	var path string
	sink := Store(j.exporter, dir, &path)
	switch payload.Kind {
	case jobs.DocumentFAES:
		_, err = j.service.FAES(ctx, payload.ID, opts, sink)
	default:
		_, err = j.service.WorkOrder(ctx, payload.ID, opts, sink)
	}
	if err != nil {
		if permanent(err) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}
	j.logger.Info("document stored",
		slog.String("request_id", payload.RequestID),
		slog.String("kind", payload.Kind),
		slog.Int64("id", payload.ID),
		slog.String("file", path))
	return nil
}

func (j *Job) dir() string {
	if strings.TrimSpace(j.storageDir) == "" {
		return filepath.Join(os.TempDir(), "pestdocs")
	}
	return j.storageDir
}

// permanent reports failures a retry cannot fix.
func permanent(err error) bool {
	return errors.Is(err, backend.ErrNotFound) ||
		errors.Is(err, ErrMissingSchema) ||
		errors.Is(err, layout.ErrInvalidCopies) ||
		errors.Is(err, layout.ErrUnknownVariant)
}
