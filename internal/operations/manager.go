package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/internal/infrastructure"
)

// Manager orchestrates analysis runs
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *RunTracer
	logger   *slog.Logger
}

// NewManager creates a new run manager with dependency injection
func NewManager(registry *Registry, config *Config, tracer *RunTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer, _ = NewRunTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   logger,
	}
}

// NewAnalysisRegistry registers the standard steps in run order:
// load, clean, analyze and export.
func NewAnalysisRegistry(logger *slog.Logger, writers ...ArtifactWriter) (*Registry, error) {
	registry := NewRegistry()
	steps := []Step{
		NewLoadStep(dataprocessing.NewLoader(logger), logger),
		NewCleanStep(dataprocessing.NewCleaner(logger), logger),
		NewAnalyzeStep(logger),
		NewExportStep(logger, writers...),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// RegisterStep registers a step with the manager
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered step in order. The response is returned
// even when the run fails so callers can report partial state.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunResponse, error) {
	if req.ID == "" {
		req.ID = infrastructure.RunIDFromContext(ctx)
	}
	if req.ID == "" {
		req.ID = infrastructure.GenerateRunID()
	}
	ctx = infrastructure.WithRunID(ctx, req.ID)

	state := NewRunState(req.ID)
	state.Files = req.Files
	state.Params = req.Params
	if !req.Now.IsZero() {
		state.Now = req.Now
	}

	ctx, span := m.tracer.TraceRun(ctx, req)
	m.logRunStart(ctx, req)

	steps := m.registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}
	state.Start()

	err := req.Params.Validate()
	if err != nil {
		err = WrapError(err, "", "invalid analysis parameters")
		m.skipRemaining(state, steps, "invalid analysis parameters")
	} else {
		err = m.executeSequential(ctx, state, steps)
	}

	switch {
	case err == nil:
		state.Complete()
	case errors.Is(err, context.Canceled):
		state.Cancel()
	default:
		state.Fail(err)
	}

	if err != nil {
		m.logRunError(ctx, req.ID, err)
	}
	stats := m.tracer.RecordRunCompletion(ctx, span, state, err)
	m.logRunComplete(ctx, req.ID, state.Duration(), string(state.Status), stats)

	return m.createResponse(state), err
}

// executeSequential executes steps one by one. Each step consumes the
// output of the previous one, so a failure skips the rest.
func (m *Manager) executeSequential(ctx context.Context, state *RunState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "run_cancelled",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "run cancelled")
			return fmt.Errorf("%w: %w", NewCancellationError(step.ID()), err)
		}

		m.logger.DebugContext(ctx, "executing_step",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.logStepError(ctx, state.ID, step.ID(), err)
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStep validates and executes a single step under its timeout
func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("step state not found for %s", step.ID()), nil)
	}

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		return WrapError(err, step.ID(), "step validation failed")
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stepCtx, span := m.tracer.TraceStep(stepCtx, state.ID, step.ID())
	m.logStepStart(ctx, state.ID, step.ID())
	stepState.Start()

	startTime := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(startTime)

	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(step.ID(), timeout.String())
	}
	m.tracer.RecordStepCompletion(ctx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		return WrapError(err, step.ID(), "step execution failed")
	}

	stepState.Complete()
	m.tracer.RecordStepFacts(ctx, state, step.ID())
	m.logStepComplete(ctx, state.ID, step.ID(), duration)
	return nil
}

// skipRemaining marks pending steps as skipped
func (m *Manager) skipRemaining(state *RunState, steps []Step, reason string) {
	for _, step := range steps {
		if stepState := state.GetStep(step.ID()); stepState != nil && stepState.GetStatus() == StepStatusPending {
			stepState.Skip(reason)
		}
	}
}

// createResponse creates a run response from state
func (m *Manager) createResponse(state *RunState) *RunResponse {
	resp := &RunResponse{
		ID:        state.ID,
		Status:    state.Status,
		Steps:     state.Steps,
		Result:    state.Result,
		Loaded:    state.Loaded,
		Skipped:   state.Skipped,
		Artifacts: state.Artifacts,
		Duration:  state.Duration(),
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
