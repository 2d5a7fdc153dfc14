package operations_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/operations"
)

func TestStepStateTransitions(t *testing.T) {
	step := operations.NewStepState("load", "Data Loading")
	assert.Equal(t, operations.StepStatusPending, step.GetStatus())
	assert.Zero(t, step.Duration())

	step.Start()
	assert.Equal(t, operations.StepStatusActive, step.GetStatus())
	require.NotNil(t, step.StartTime)

	time.Sleep(time.Millisecond)
	step.Complete()
	assert.Equal(t, operations.StepStatusCompleted, step.GetStatus())
	require.NotNil(t, step.EndTime)
	assert.Positive(t, step.Duration())
}

func TestStepStateFailAndSkip(t *testing.T) {
	failed := operations.NewStepState("clean", "Data Cleansing")
	failed.Start()
	failed.Fail(errors.New("boom"))
	assert.Equal(t, operations.StepStatusFailed, failed.GetStatus())
	assert.Equal(t, "boom", failed.Message)
	assert.EqualError(t, failed.Error, "boom")

	skipped := operations.NewStepState("export", "Report Export")
	skipped.Skip("previous step clean failed")
	assert.Equal(t, operations.StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "previous step clean failed", skipped.Message)
}

func TestRunState(t *testing.T) {
	state := operations.NewRunState("run-1")
	assert.Equal(t, operations.RunStatusPending, state.Status)

	state.SetStep("load", operations.NewStepState("load", "Data Loading"))
	assert.NotNil(t, state.GetStep("load"))
	assert.Nil(t, state.GetStep("missing"))

	state.Start()
	assert.Equal(t, operations.RunStatusRunning, state.Status)
	assert.False(t, state.HasFailures())

	state.GetStep("load").Fail(errors.New("no files"))
	assert.True(t, state.HasFailures())

	state.AddArtifacts("a.csv", "b.csv")
	state.AddArtifacts("c.png")
	assert.Equal(t, []string{"a.csv", "b.csv", "c.png"}, state.Artifacts)

	state.Fail(errors.New("no files"))
	assert.Equal(t, operations.RunStatusFailed, state.Status)
	require.NotNil(t, state.EndTime)
}
