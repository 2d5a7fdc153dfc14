package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
)

func TestOTelInitialization_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_FileExport(t *testing.T) {
	dir := t.TempDir()
	cfg := &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		EnableTracing:  true,
		TraceFile:      filepath.Join(dir, "traces.json"),
		EnableMetrics:  true,
		MetricsFile:    filepath.Join(dir, "metrics", "run.prom"),
	}

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.Registry)

	ctx, span := providers.Tracer.Start(context.Background(), "analysis")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordStep(ctx, "load", 20*time.Millisecond, nil)
	metrics.RecordRun(ctx, time.Second, errors.New("failed"))
	metrics.RowsLoaded.Add(ctx, 42)

	system, err := NewSystemMetrics(providers.Meter)
	require.NoError(t, err)
	stats := system.Collect(ctx, time.Now().Add(-time.Minute))
	assert.Positive(t, stats.GoRoutines)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))

	traces, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name": "analysis"`)

	exposition, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Regexp(t, `salespulse_rows_loaded_total(\{[^}]*\})? 42`, string(exposition))
	assert.Contains(t, string(exposition), `status="failure"`)
	assert.Contains(t, string(exposition), "system_goroutines")
}

func TestNewOTelConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.BaseDir = t.TempDir()
	cfg.Telemetry.Tracing = true
	cfg.Telemetry.MetricsFile = "out/metrics.prom"

	paths, err := cfg.GetPaths()
	require.NoError(t, err)

	otelCfg := NewOTelConfig(cfg.Telemetry, paths)
	assert.True(t, otelCfg.EnableTracing)
	assert.True(t, otelCfg.EnableMetrics)
	assert.Equal(t, filepath.Join(cfg.Output.BaseDir, "out", "metrics.prom"), otelCfg.MetricsFile)
	assert.Equal(t, filepath.Join(cfg.Output.BaseDir, "logs", "traces.json"), otelCfg.TraceFile)

	cfg.Telemetry.MetricsFile = ""
	assert.False(t, NewOTelConfig(cfg.Telemetry, nil).EnableMetrics)
}

func TestPipelineMetrics_Nil(t *testing.T) {
	var m *PipelineMetrics
	m.RecordStep(context.Background(), "load", time.Second, nil)
	m.RecordRun(context.Background(), time.Second, nil)

	noop, err := CreatePipelineMetrics(nil)
	require.NoError(t, err)
	noop.RecordRun(context.Background(), time.Second, nil)
}
