package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stage is a step of one document generation.
type Stage string

const (
	StageRequested        Stage = "requested"
	StageNormalizing      Stage = "normalizing"
	StageComputingDerived Stage = "computing_derived"
	StageComposing        Stage = "composing"
	StageRendering        Stage = "rendering"
	StageSucceeded        Stage = "succeeded"
	StageFailed           Stage = "failed"
)

// StageError wraps the error that stopped a generation with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("printing: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage reports the stage carried by err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// Recorder receives generation metrics. *observability.Metrics satisfies it.
type Recorder interface {
	ObserveDocument(kind string, err error)
	ObserveStage(stage string, elapsed time.Duration)
}

// run tracks one generation through its stages. Stages only move forward.
type run struct {
	kind    string
	id      int64
	stage   Stage
	entered time.Time
	span    trace.Span
	metrics Recorder
	logger  *slog.Logger
}

func (s *Service) start(ctx context.Context, kind string, id int64) (context.Context, *run) {
	ctx, span := tracer.Start(ctx, "printing."+kind)
	span.SetAttributes(attribute.String("document.kind", kind), attribute.Int64("document.source_id", id))
	return ctx, &run{
		kind:    kind,
		id:      id,
		stage:   StageRequested,
		entered: time.Now(),
		span:    span,
		metrics: s.metrics,
		logger:  s.logger,
	}
}

func (r *run) enter(next Stage) {
	r.observe()
	r.stage = next
	r.entered = time.Now()
	r.span.AddEvent(string(next))
}

func (r *run) observe() {
	if r.metrics == nil || r.stage == StageRequested {
		return
	}
	r.metrics.ObserveStage(string(r.stage), time.Since(r.entered))
}

// fail closes the run in StageFailed and returns err wrapped with the stage it
// interrupted.
func (r *run) fail(err error) error {
	failed := &StageError{Stage: r.stage, Err: err}
	r.observe()
	r.stage = StageFailed
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, err.Error())
	r.span.End()
	if r.metrics != nil {
		r.metrics.ObserveDocument(r.kind, failed)
	}
	r.logger.Error("document generation failed",
		slog.String("kind", r.kind),
		slog.Int64("id", r.id),
		slog.String("stage", string(failed.Stage)),
		slog.Any("error", err))
	return failed
}

func (r *run) succeed() {
	r.observe()
	r.stage = StageSucceeded
	r.span.SetStatus(codes.Ok, "")
	r.span.End()
	if r.metrics != nil {
		r.metrics.ObserveDocument(r.kind, nil)
	}
	r.logger.Info("document generated", slog.String("kind", r.kind), slog.Int64("id", r.id))
}
