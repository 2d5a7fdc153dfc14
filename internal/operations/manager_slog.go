package operations

import (
	"context"
	"log/slog"
	"time"

	"salespulse/internal/infrastructure"
)

// logRunStart logs the start of a run
func (m *Manager) logRunStart(ctx context.Context, req RunRequest) {
	m.logger.InfoContext(ctx, "run_start",
		slog.String("run_id", req.ID),
		slog.Any("files", req.Files),
		slog.String("period", string(req.Params.Period)),
		slog.Int("min_rows", req.Params.MinRows))
}

// logRunComplete logs the completion of a run
func (m *Manager) logRunComplete(ctx context.Context, runID string, duration time.Duration, status string, stats *infrastructure.SystemStats) {
	m.logger.InfoContext(ctx, "run_complete",
		slog.String("run_id", runID),
		slog.String("status", status),
		slog.Duration("duration", duration),
		slog.Int64("heap_bytes", stats.MemoryUsage),
		slog.Int64("goroutines", stats.GoRoutines))
}

// logRunError logs a run error
func (m *Manager) logRunError(ctx context.Context, runID string, err error) {
	m.logger.ErrorContext(ctx, "run_error",
		slog.String("run_id", runID),
		slog.String("error", err.Error()))
}

// logStepStart logs the start of a step
func (m *Manager) logStepStart(ctx context.Context, runID, stepID string) {
	m.logger.InfoContext(ctx, "step_start",
		slog.String("run_id", runID),
		slog.String("step", stepID))
}

// logStepComplete logs the completion of a step
func (m *Manager) logStepComplete(ctx context.Context, runID, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "step_complete",
		slog.String("run_id", runID),
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStepError logs a step error
func (m *Manager) logStepError(ctx context.Context, runID, stepID string, err error) {
	m.logger.ErrorContext(ctx, "step_error",
		slog.String("run_id", runID),
		slog.String("step", stepID),
		slog.String("error", err.Error()))
}
