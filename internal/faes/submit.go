package faes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrSchemaMismatch reports a data bag that is not an object.
var ErrSchemaMismatch = errors.New("faes: data must be an object")

// Backend is the persistence collaborator used by the Submitter.
type Backend interface {
	FetchSchema(ctx context.Context, id int64) (Schema, error)
	Upload(ctx context.Context, f File) (string, error)
	SaveSubmission(ctx context.Context, in SubmissionInput) (map[string]any, error)
}

// SubmitRequest is a draft save or a finalization attempt.
type SubmitRequest struct {
	ID             int64  `json:"id,omitempty"`
	SchemaID       int64  `json:"schema_id" validate:"required,gt=0"`
	ClientID       int64  `json:"client_id" validate:"required,gt=0"`
	ServiceOrderID *int64 `json:"service_order_id,omitempty" validate:"omitempty,gt=0"`
	Finalize       bool   `json:"finalized"`
	Data           Node   `json:"-"`
}

// SubmissionInput is what gets persisted once every file leaf is a URL.
type SubmissionInput struct {
	ID             int64          `json:"id,omitempty"`
	SchemaID       int64          `json:"schema_id"`
	ClientID       int64          `json:"client_id"`
	ServiceOrderID *int64         `json:"service_order_id,omitempty"`
	Finalized      bool           `json:"finalized"`
	Data           map[string]any `json:"data"`
	SubmittedAt    time.Time      `json:"submitted_at"`
}

// SubmitResult carries either the refusal list or the saved record.
type SubmitResult struct {
	Missing []string
	Saved   map[string]any
}

// Refused reports whether finalization was refused for missing fields.
func (r SubmitResult) Refused() bool { return len(r.Missing) > 0 }

// Submitter validates, flattens and persists submissions.
type Submitter struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(backend Backend, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{backend: backend, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Submitter) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Submit persists a submission. A finalization attempt is checked against the schema
// first and refused, with nothing uploaded or saved, when fields are missing. Files
// are uploaded serially; the first upload error aborts the submission.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	if req.Data.Kind != KindObject {
		return SubmitResult{}, ErrSchemaMismatch
	}
	if req.Finalize {
		schema, err := s.backend.FetchSchema(ctx, req.SchemaID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("fetch schema %d: %w", req.SchemaID, err)
		}
		data, _ := req.Data.Interface().(map[string]any)
		if missing := ValidateForFinalization(schema, data); len(missing) > 0 {
			s.logger.Info("faes finalization refused",
				slog.Int64("schema_id", req.SchemaID),
				slog.Int("missing", len(missing)))
			return SubmitResult{Missing: missing}, nil
		}
	}

	flat, err := Flatten(ctx, req.Data, s.backend.Upload)
	if err != nil {
		return SubmitResult{}, err
	}
	data, _ := flat.(map[string]any)

	saved, err := s.backend.SaveSubmission(ctx, SubmissionInput{
		ID:             req.ID,
		SchemaID:       req.SchemaID,
		ClientID:       req.ClientID,
		ServiceOrderID: req.ServiceOrderID,
		Finalized:      req.Finalize,
		Data:           data,
		SubmittedAt:    s.now().UTC(),
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save submission: %w", err)
	}
	s.logger.Info("faes submission saved",
		slog.Int64("schema_id", req.SchemaID),
		slog.Bool("finalized", req.Finalize),
		slog.Int("files", req.Data.Files()))
	return SubmitResult{Saved: saved}, nil
}
