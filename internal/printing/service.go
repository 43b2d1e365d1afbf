// Package printing drives document generation from backend payload to exported PDF.
package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/pestdocs/pestdocs/internal/faes"
	"github.com/pestdocs/pestdocs/internal/layout"
	"github.com/pestdocs/pestdocs/internal/printable"
)

var tracer = otel.Tracer("printing")

// ErrMissingSchema is returned for submissions that do not reference a schema.
var ErrMissingSchema = errors.New("printing: submission has no schema")

// Source reads the raw payloads documents are built from.
type Source interface {
	FetchPrintable(ctx context.Context, id int64) (map[string]any, error)
	FetchSubmission(ctx context.Context, id int64) (map[string]any, error)
	FetchSchema(ctx context.Context, id int64) (faes.Schema, error)
}

// CompanyResolver supplies the issuer profile when a payload carries none.
type CompanyResolver interface {
	Company(ctx context.Context) printable.CompanyProfile
}

// Sink receives the composed document. Rendering happens inside the sink.
type Sink func(ctx context.Context, doc layout.Document) error

// Config wires the Service dependencies. Company and Metrics are optional.
type Config struct {
	Source  Source
	Company CompanyResolver
	Metrics Recorder
	Logger  *slog.Logger
}

// Service generates work-order and FAES documents.
type Service struct {
	source  Source
	company CompanyResolver
	metrics Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a Service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:  cfg.Source,
		company: cfg.Company,
		metrics: cfg.Metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Projection builds the render-ready projection of a service order without
// composing a document.
func (s *Service) Projection(ctx context.Context, id int64) (printable.Projection, error) {
	raw, err := s.source.FetchPrintable(ctx, id)
	if err != nil {
		return printable.Projection{}, &StageError{Stage: StageNormalizing, Err: fmt.Errorf("fetch service order %d: %w", id, err)}
	}
	return printable.Derive(s.withCompany(ctx, printable.Normalize(raw))), nil
}

// WorkOrder generates the service-order document and hands it to sink.
func (s *Service) WorkOrder(ctx context.Context, id int64, opts layout.Options, sink Sink) (layout.Document, error) {
	ctx, r := s.start(ctx, string(layout.KindWorkOrder), id)

	r.enter(StageNormalizing)
	raw, err := s.source.FetchPrintable(ctx, id)
	if err != nil {
		return layout.Document{}, r.fail(fmt.Errorf("fetch service order %d: %w", id, err))
	}
	normalized := printable.Normalize(raw)

	r.enter(StageComputingDerived)
	projection := printable.Derive(s.withCompany(ctx, normalized))

	r.enter(StageComposing)
	doc, err := layout.ComposeWorkOrder(projection, s.stamp(opts))
	if err != nil {
		return layout.Document{}, r.fail(err)
	}

	return s.finish(ctx, r, doc, sink)
}

// FAES generates the submission document and hands it to sink.
func (s *Service) FAES(ctx context.Context, id int64, opts layout.Options, sink Sink) (layout.Document, error) {
	ctx, r := s.start(ctx, string(layout.KindFAES), id)

	r.enter(StageNormalizing)
	raw, err := s.source.FetchSubmission(ctx, id)
	if err != nil {
		return layout.Document{}, r.fail(fmt.Errorf("fetch submission %d: %w", id, err))
	}
	schemaID := faes.SchemaID(raw)
	if schemaID == 0 {
		return layout.Document{}, r.fail(ErrMissingSchema)
	}
	schema, err := s.source.FetchSchema(ctx, schemaID)
	if err != nil {
		return layout.Document{}, r.fail(fmt.Errorf("fetch schema %d: %w", schemaID, err))
	}

	r.enter(StageComputingDerived)
	sub := faes.BuildProjection(raw, schema)
	if !sub.CompanySupplied && s.company != nil {
		sub.Company = s.company.Company(ctx)
	}

	r.enter(StageComposing)
	doc, err := layout.ComposeFAES(sub, s.stamp(opts))
	if err != nil {
		return layout.Document{}, r.fail(err)
	}

	return s.finish(ctx, r, doc, sink)
}

func (s *Service) finish(ctx context.Context, r *run, doc layout.Document, sink Sink) (layout.Document, error) {
	r.enter(StageRendering)
	if sink != nil {
		if err := sink(ctx, doc); err != nil {
			return doc, r.fail(err)
		}
	}
	r.succeed()
	return doc, nil
}

func (s *Service) withCompany(ctx context.Context, n printable.Normalized) printable.Normalized {
	if !n.CompanySupplied && s.company != nil {
		n.Company = s.company.Company(ctx)
	}
	return n
}

func (s *Service) stamp(opts layout.Options) layout.Options {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = s.now()
	}
	return opts
}
