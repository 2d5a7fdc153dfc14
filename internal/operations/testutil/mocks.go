package testutil

import (
	"context"
	"sync"

	"salespulse/internal/operations"
	"salespulse/pkg/contracts/domain"
)

// MockStep is a configurable mock implementation of the step interface
type MockStep struct {
	IDValue   string
	NameValue string

	// Configurable functions
	ExecuteFunc  func(ctx context.Context, state *operations.RunState) error
	ValidateFunc func(state *operations.RunState) error

	// Call tracking
	mu            sync.Mutex
	ExecuteCalls  int
	ValidateCalls int
}

// ID returns the step ID
func (m *MockStep) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStep) Name() string {
	return m.NameValue
}

// Execute runs the mock execute function
func (m *MockStep) Execute(ctx context.Context, state *operations.RunState) error {
	m.mu.Lock()
	m.ExecuteCalls++
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// Validate runs the mock validate function
func (m *MockStep) Validate(state *operations.RunState) error {
	m.mu.Lock()
	m.ValidateCalls++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(state)
	}
	return nil
}

// GetExecuteCalls returns the number of Execute calls
func (m *MockStep) GetExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}

// MockWriter records the results it is asked to write
type MockWriter struct {
	NameValue string
	Paths     []string
	Err       error

	mu      sync.Mutex
	Results []*domain.AnalysisResult
}

// Name returns the writer name
func (w *MockWriter) Name() string {
	if w.NameValue == "" {
		return "mock"
	}
	return w.NameValue
}

// Write records the result and returns the configured paths and error
func (w *MockWriter) Write(ctx context.Context, result *domain.AnalysisResult) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Results = append(w.Results, result)
	return w.Paths, w.Err
}

// Calls returns the number of Write calls
func (w *MockWriter) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Results)
}
