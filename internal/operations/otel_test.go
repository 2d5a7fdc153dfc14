package operations_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/infrastructure"
	"salespulse/internal/operations"
	"salespulse/internal/operations/testutil"
)

func TestRunTracerNoop(t *testing.T) {
	tracer, err := operations.NewRunTracer(nil)
	require.NoError(t, err)

	manager := operations.NewManager(nil, testutil.CreateTestConfig(), tracer, nil)
	require.NoError(t, manager.RegisterStep(testutil.CreateSuccessfulStep("load", "Load")))

	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest("a.csv"))
	require.NoError(t, err)
	assert.Equal(t, operations.RunStatusCompleted, resp.Status)
}

func TestRunTracerExportsRunTelemetry(t *testing.T) {
	dir := t.TempDir()
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: infrastructure.ServiceVersion,
		EnableTracing:  true,
		TraceFile:      filepath.Join(dir, "traces.json"),
		EnableMetrics:  true,
		MetricsFile:    filepath.Join(dir, "run.prom"),
	}, nil)
	require.NoError(t, err)

	tracer, err := operations.NewRunTracer(providers)
	require.NoError(t, err)

	file := testutil.CreateSalesFile(t, dir, "sales.csv", testutil.SalesRows("a", 15, fixtureStart))
	registry, err := operations.NewAnalysisRegistry(nil)
	require.NoError(t, err)
	manager := operations.NewManager(registry, testutil.CreateTestConfig(), tracer, nil)

	_, err = manager.Execute(context.Background(), testutil.CreateRunRequest(file))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))

	traces, err := os.ReadFile(filepath.Join(dir, "traces.json"))
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name": "run.execute"`)
	assert.Contains(t, string(traces), `"Name": "run.step.analyze"`)

	exposition, err := os.ReadFile(filepath.Join(dir, "run.prom"))
	require.NoError(t, err)
	assert.Regexp(t, `salespulse_rows_loaded_total(\{[^}]*\})? 15`, string(exposition))
	assert.Contains(t, string(exposition), "system_memory_usage_bytes")
}
