package operations_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/operations"
	"salespulse/internal/operations/testutil"
)

// logEntries decodes every JSON log line written to buf
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func messages(entries []map[string]interface{}) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e["msg"].(string))
	}
	return out
}

func TestManagerStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	manager := operations.NewManager(nil, testutil.CreateTestConfig(), nil, logger)
	require.NoError(t, manager.RegisterStep(testutil.CreateSuccessfulStep("load", "Load")))
	require.NoError(t, manager.RegisterStep(testutil.CreateSuccessfulStep("clean", "Clean")))

	_, err := manager.Execute(context.Background(), testutil.CreateRunRequest("a.csv"))
	require.NoError(t, err)

	entries := logEntries(t, &buf)
	msgs := messages(entries)
	assert.Equal(t, "run_start", msgs[0])
	assert.Equal(t, "run_complete", msgs[len(msgs)-1])
	assert.Contains(t, msgs, "step_start")
	assert.Contains(t, msgs, "step_complete")

	for _, e := range entries {
		assert.Equal(t, "test-run", e["run_id"], "entry %v", e["msg"])
	}
	assert.Equal(t, "completed", entries[len(entries)-1]["status"])
}

func TestManagerErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	manager := operations.NewManager(nil, testutil.CreateTestConfig(), nil, logger)
	require.NoError(t, manager.RegisterStep(testutil.CreateFailingStep("load", "Load", errors.New("disk gone"))))

	_, err := manager.Execute(context.Background(), testutil.CreateRunRequest("a.csv"))
	require.Error(t, err)

	var runErr map[string]interface{}
	for _, e := range logEntries(t, &buf) {
		if e["msg"] == "run_error" {
			runErr = e
		}
	}
	require.NotNil(t, runErr)
	assert.Equal(t, "ERROR", runErr["level"])
	assert.Contains(t, runErr["error"], "disk gone")
}

func TestLoadStepLogsInterruptedProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	dir := t.TempDir()
	file := testutil.CreateSalesFile(t, dir, "sales.csv", testutil.SalesRows("a", 3, fixtureStart))
	state := operations.NewRunState("interrupted")
	state.Files = []string{file}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := operations.NewLoadStep(nil, logger).Execute(ctx, state)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, state.Loaded)

	var interrupted map[string]interface{}
	for _, e := range logEntries(t, &buf) {
		if e["msg"] == "loading interrupted" {
			interrupted = e
		}
	}
	require.NotNil(t, interrupted)
	assert.Equal(t, float64(0), interrupted["current"])
	assert.Equal(t, float64(1), interrupted["total"])
}
