package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salespulse/internal/infrastructure"
)

const (
	TracerName = "salespulse.operations"
)

// RunTracer provides OpenTelemetry instrumentation for analysis runs
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	system  *infrastructure.SystemMetrics
}

// NewRunTracer creates a run tracer. Nil providers yield a no-op tracer.
func NewRunTracer(providers *infrastructure.OTelProviders) (*RunTracer, error) {
	var (
		tracer trace.Tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
		meter  metric.Meter = metricnoop.NewMeterProvider().Meter(TracerName)
	)
	if providers != nil {
		if providers.TracerProvider != nil {
			tracer = providers.TracerProvider.Tracer(TracerName)
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.CreatePipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	system, err := infrastructure.NewSystemMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}

	return &RunTracer{
		tracer:  tracer,
		metrics: metrics,
		system:  system,
	}, nil
}

// TraceRun creates a span for the entire run
func (rt *RunTracer) TraceRun(ctx context.Context, req RunRequest) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "run.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", req.ID),
			attribute.Int("run.files", len(req.Files)),
			attribute.String("run.period", string(req.Params.Period)),
		),
	)
}

// TraceStep creates a span for an individual step
func (rt *RunTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, fmt.Sprintf("run.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion ends a step span and records the step metrics
func (rt *RunTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	rt.metrics.RecordStep(ctx, stepID, duration, err)
}

// RecordRunCompletion ends the run span and records the run and process
// metrics
func (rt *RunTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *RunState, err error) *infrastructure.SystemStats {
	duration := state.Duration()
	stats := rt.system.Collect(ctx, state.StartTime)
	span.SetAttributes(
		attribute.Int64("process.heap_bytes", stats.MemoryUsage),
		attribute.Int64("process.goroutines", stats.GoRoutines),
		attribute.String("run.status", string(state.Status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.rows", state.Table.Len()),
		attribute.Int("run.artifacts", len(state.Artifacts)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	rt.metrics.RecordRun(ctx, duration, err)
	return stats
}

// RecordStepFacts adds the data-volume counters produced by a finished step
func (rt *RunTracer) RecordStepFacts(ctx context.Context, state *RunState, stepID string) {
	switch stepID {
	case StepIDLoad:
		rt.metrics.RowsLoaded.Add(ctx, int64(state.Raw.Len()))
		rt.metrics.FilesSkipped.Add(ctx, int64(len(state.Skipped)))
	case StepIDClean:
		rt.metrics.RowsDropped.Add(ctx, int64(state.CleanStats.Dropped()))
	case StepIDExport:
		rt.metrics.ArtifactsWritten.Add(ctx, int64(len(state.Artifacts)))
	}
}
