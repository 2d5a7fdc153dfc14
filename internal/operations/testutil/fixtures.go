package testutil

import (
	"context"
	"time"

	"salespulse/internal/operations"
)

// CreateTestConfig returns a run configuration with short timeouts
func CreateTestConfig() *operations.Config {
	config := operations.NewConfig()
	for _, id := range []string{operations.StepIDLoad, operations.StepIDClean, operations.StepIDAnalyze, operations.StepIDExport} {
		config.SetStepTimeout(id, 30*time.Second)
	}
	return config
}

// CreateSuccessfulStep creates a step that always succeeds
func CreateSuccessfulStep(id, name string) *MockStep {
	return &MockStep{IDValue: id, NameValue: name}
}

// CreateFailingStep creates a step that always fails with err
func CreateFailingStep(id, name string, err error) *MockStep {
	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			return err
		},
	}
}

// CreateSlowStep creates a step that waits for duration or cancellation
func CreateSlowStep(id, name string, duration time.Duration) *MockStep {
	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			select {
			case <-time.After(duration):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}

// CreateValidationFailingStep creates a step whose validation fails
func CreateValidationFailingStep(id, name string, validationErr error) *MockStep {
	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ValidateFunc: func(state *operations.RunState) error {
			return validationErr
		},
	}
}

// CreateRunRequest returns a request over files with the default parameters
func CreateRunRequest(files ...string) operations.RunRequest {
	return operations.RunRequest{
		ID:     "test-run",
		Files:  files,
		Params: operations.DefaultAnalysisParams(),
		Now:    time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}
