package operations_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/operations"
	"salespulse/internal/operations/testutil"
	"salespulse/pkg/contracts/domain"
)

var fixtureStart = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

func newAnalysisManager(t *testing.T, writers ...operations.ArtifactWriter) *operations.Manager {
	t.Helper()
	registry, err := operations.NewAnalysisRegistry(nil, writers...)
	require.NoError(t, err)
	return operations.NewManager(registry, testutil.CreateTestConfig(), nil, nil)
}

func TestAnalysisRunConcatenatesFiles(t *testing.T) {
	dir := t.TempDir()
	first := testutil.CreateSalesFile(t, dir, "Данные 1.csv", testutil.SalesRows("a", 20, fixtureStart))
	second := testutil.CreateSalesFile(t, dir, "Данные 2.csv",
		append(testutil.SalesRows("b", 27, fixtureStart), testutil.InvalidRows("b", 3)...))

	writer := &testutil.MockWriter{Paths: []string{filepath.Join(dir, "report.txt")}}
	manager := newAnalysisManager(t, writer)

	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(first, second))
	require.NoError(t, err)
	assert.Equal(t, operations.RunStatusCompleted, resp.Status)

	require.Len(t, resp.Loaded, 2)
	assert.Equal(t, 20, resp.Loaded[0].Rows)
	assert.Equal(t, 30, resp.Loaded[1].Rows)
	assert.Equal(t, ";", resp.Loaded[0].Delimiter)
	assert.Empty(t, resp.Skipped)

	result := resp.Result
	require.NotNil(t, result)
	assert.Equal(t, 47, result.RowCount)
	assert.LessOrEqual(t, result.RowCount, 50)
	assert.Equal(t, 3, result.RowsDropped)
	assert.Equal(t, []string{first, second}, result.Sources)
	assert.Equal(t, "test-run", result.RunID)
	assert.Equal(t, domain.GranularityDay, result.Period)

	assert.NotEmpty(t, result.Revenue)
	assert.NotEmpty(t, result.Profit)
	assert.Equal(t, len(result.Profit), result.ProfitStats.Periods)
	assert.Len(t, result.Categories.Stats, 2)
	assert.True(t, result.Categories.WithReceipts)
	assert.Len(t, result.TopByQuantity, 4)
	assert.Len(t, result.TopByRevenue, 4)
	assert.Len(t, result.Turnover, 4)
	assert.Equal(t, 4, result.Insights.Summary.TotalItems)
	assert.NotNil(t, result.SlowMovers)

	require.Equal(t, 1, writer.Calls())
	assert.Same(t, result, writer.Results[0])
	assert.Equal(t, writer.Paths, resp.Artifacts)

	for _, id := range []string{operations.StepIDLoad, operations.StepIDClean, operations.StepIDAnalyze, operations.StepIDExport} {
		assert.Equal(t, operations.StepStatusCompleted, resp.Steps[id].GetStatus(), id)
	}
}

func TestAnalysisRunSkipsMissingFile(t *testing.T) {
	dir := t.TempDir()
	present := testutil.CreateSalesFile(t, dir, "Данные 1.csv", testutil.SalesRows("a", 12, fixtureStart))
	missing := filepath.Join(dir, "Данные 2.csv")

	manager := newAnalysisManager(t)
	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(present, missing))
	require.NoError(t, err)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, missing, resp.Skipped[0].Path)
	assert.Equal(t, "file not found", resp.Skipped[0].Reason)
	assert.Equal(t, 12, resp.Result.RowCount)
}

func TestAnalysisRunExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	second := testutil.CreateSalesFile(t, dir, "data/2.csv", testutil.SalesRows("b", 6, fixtureStart))
	first := testutil.CreateSalesFile(t, dir, "data/1.csv", testutil.SalesRows("a", 6, fixtureStart))
	testutil.CreateTestFile(t, dir, "data/readme.txt", "not a log")

	manager := newAnalysisManager(t)
	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(filepath.Join(dir, "data")))
	require.NoError(t, err)

	require.Len(t, resp.Loaded, 2)
	assert.Equal(t, first, resp.Loaded[0].Path)
	assert.Equal(t, second, resp.Loaded[1].Path)
	assert.Equal(t, 12, resp.Result.RowCount)
}

func TestAnalysisRunSkipsUnloadableFile(t *testing.T) {
	dir := t.TempDir()
	present := testutil.CreateSalesFile(t, dir, "good.csv", testutil.SalesRows("a", 12, fixtureStart))
	broken := testutil.CreateTestFile(t, dir, "broken.csv", "ID операции;Дата\n1;01.02.2024\n")

	manager := newAnalysisManager(t)
	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(broken, present))
	require.NoError(t, err)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, broken, resp.Skipped[0].Path)
	assert.Contains(t, resp.Skipped[0].Reason, "MISSING_COLUMNS")
	require.Len(t, resp.Loaded, 1)
	assert.Equal(t, present, resp.Loaded[0].Path)
}

func TestAnalysisRunNoLoadableFiles(t *testing.T) {
	dir := t.TempDir()

	manager := newAnalysisManager(t)
	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(filepath.Join(dir, "absent.csv")))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoInputData)
	assert.Equal(t, operations.StepStatusFailed, resp.Steps[operations.StepIDLoad].GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[operations.StepIDClean].GetStatus())
	assert.Nil(t, resp.Result)
}

func TestAnalysisRunInsufficientData(t *testing.T) {
	dir := t.TempDir()
	file := testutil.CreateSalesFile(t, dir, "small.csv",
		append(testutil.SalesRows("a", 9, fixtureStart), testutil.InvalidRows("a", 5)...))

	writer := &testutil.MockWriter{}
	manager := newAnalysisManager(t, writer)

	resp, err := manager.Execute(context.Background(), testutil.CreateRunRequest(file))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
	assert.Contains(t, err.Error(), "insufficient")

	assert.Equal(t, operations.RunStatusFailed, resp.Status)
	assert.Equal(t, operations.StepStatusFailed, resp.Steps[operations.StepIDClean].GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[operations.StepIDAnalyze].GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[operations.StepIDExport].GetStatus())
	assert.Nil(t, resp.Result)
	assert.Zero(t, writer.Calls())
}

func TestAnalysisRunRanksSingleDay(t *testing.T) {
	dir := t.TempDir()
	file := testutil.CreateSalesFile(t, dir, "sales.csv", testutil.SalesRows("a", 15, fixtureStart))

	req := testutil.CreateRunRequest(file)
	day := fixtureStart
	req.Params.TopDate = &day

	resp, err := newAnalysisManager(t).Execute(context.Background(), req)
	require.NoError(t, err)

	// Only row a-000 (SKU-0, qty 1, price 10,50) is a sale on the first day.
	require.Len(t, resp.Result.TopByQuantity, 1)
	assert.Equal(t, "SKU-0", resp.Result.TopByQuantity[0].SKU)
	assert.True(t, resp.Result.TopByQuantity[0].Value.Equal(decimal.NewFromInt(1)))
	assert.True(t, resp.Result.TopByRevenue[0].Value.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, &day, resp.Result.TopDate)
}

func TestAnalysisRunCollectsWriterErrors(t *testing.T) {
	dir := t.TempDir()
	file := testutil.CreateSalesFile(t, dir, "sales.csv", testutil.SalesRows("a", 12, fixtureStart))

	broken := &testutil.MockWriter{NameValue: "charts", Err: errors.New("disk full")}
	healthy := &testutil.MockWriter{NameValue: "report", Paths: []string{"report.txt"}}

	resp, err := newAnalysisManager(t, broken, healthy).Execute(context.Background(), testutil.CreateRunRequest(file))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Contains(t, err.Error(), "charts: disk full")

	var failures *operations.ErrorList
	require.ErrorAs(t, err, &failures)
	require.Len(t, failures.Errors, 1)
	assert.Equal(t, operations.StepIDExport, failures.Errors[0].Step)
	assert.Equal(t, "charts", failures.Errors[0].Context["writer"])
	assert.ErrorIs(t, err, broken.Err)

	assert.Equal(t, 1, healthy.Calls())
	assert.Equal(t, []string{"report.txt"}, resp.Artifacts)
	assert.NotNil(t, resp.Result)
	assert.Equal(t, operations.StepStatusFailed, resp.Steps[operations.StepIDExport].GetStatus())
}
