package charts

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPaths(dir string) *config.Paths {
	return &config.Paths{
		BaseDir:   dir,
		ChartsDir: filepath.Join(dir, "charts"),
		ExportDir: filepath.Join(dir, "exports"),
	}
}

func chartResult() *domain.AnalysisResult {
	day := func(n int) time.Time { return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC) }

	var revenue, profit []domain.PeriodMetric
	for i := 1; i <= 20; i++ {
		revenue = append(revenue, domain.PeriodMetric{PeriodStart: day(i), Value: decimal.NewFromInt(int64(1500 * i))})
		profit = append(profit, domain.PeriodMetric{PeriodStart: day(i), Value: decimal.NewFromInt(int64(100*i - 700))})
	}

	return &domain.AnalysisResult{
		RunID:   "run-charts",
		Period:  domain.GranularityDay,
		Revenue: revenue,
		Profit:  profit,
		Categories: domain.CategoryBreakdown{Stats: []domain.CategoryStats{
			{Department: "Молочные продукты", Revenue: d("5000")},
			{Department: "Бакалея", Revenue: d("300")},
			{Department: "Возвраты", Revenue: d("-20")},
		}},
		TopByQuantity: []domain.ProductRank{{SKU: "A-1", ProductName: "Молоко", Value: d("100")}, {SKU: "B-2", ProductName: "Хлеб", Value: d("10")}},
		TopByRevenue:  []domain.ProductRank{{SKU: "A-1", ProductName: "Молоко", Value: d("5000")}},
		Turnover: []domain.TurnoverRow{
			{SKU: "A-1", ProductName: "Молоко", SoldUnits: d("100"), ReceivedUnits: d("0")},
			{SKU: "B-2", ProductName: "Хлеб", SoldUnits: d("10"), ReceivedUnits: d("60")},
		},
		SlowMovers: []domain.SlowMoverRow{
			{SKU: "B-2", ProductName: "Хлеб очень длинное название товара для проверки обрезки подписи", CurrentStock: d("50")},
		},
		SlowWindowDays: 90,
	}
}

func TestChartWriter_WritesAllCharts(t *testing.T) {
	dir := t.TempDir()
	writer := NewChartWriter(testPaths(dir), nil)
	assert.Equal(t, "charts", writer.Name())

	paths, err := writer.Write(context.Background(), chartResult())
	require.NoError(t, err)
	require.Len(t, paths, 7)

	expected := []string{
		RevenueTrendFile, ProfitTrendFile, CategorySplitFile,
		TopQuantityFile, TopRevenueFile, TurnoverFile, SlowMoversFile,
	}
	for i, name := range expected {
		assert.Equal(t, filepath.Join(dir, "charts", name), paths[i])

		f, err := os.Open(paths[i])
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, Width, img.Bounds().Dx(), name)
		assert.Equal(t, Height, img.Bounds().Dy(), name)
	}
}

func TestChartWriter_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	writer := NewChartWriter(testPaths(dir), nil)

	paths, err := writer.Write(context.Background(), &domain.AnalysisResult{})
	require.NoError(t, err)
	assert.Empty(t, paths)
	_, statErr := os.Stat(filepath.Join(dir, "charts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestChartWriter_NilResult(t *testing.T) {
	writer := NewChartWriter(testPaths(t.TempDir()), nil)

	_, err := writer.Write(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoInputData)
}

func TestChartWriter_CancelledContext(t *testing.T) {
	writer := NewChartWriter(testPaths(t.TempDir()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := writer.Write(ctx, chartResult())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestBuild(t *testing.T) {
	t.Run("skips sections without data", func(t *testing.T) {
		result := &domain.AnalysisResult{
			TopByQuantity: []domain.ProductRank{{SKU: "A-1", ProductName: "Молоко", Value: d("3")}},
		}
		set := Build(result)
		require.Len(t, set, 1)
		assert.Equal(t, TopQuantityFile, set[0].File)
	})

	t.Run("pie leaves out non-positive departments", func(t *testing.T) {
		set := Build(chartResult())
		var pie PieChart
		for _, named := range set {
			if named.File == CategorySplitFile {
				pie = named.Chart.(PieChart)
			}
		}
		assert.Equal(t, []string{"Молочные продукты", "Бакалея"}, pie.Labels)
		assert.Equal(t, []float64{5000, 300}, pie.Values)
	})

	t.Run("no pie when no department has revenue", func(t *testing.T) {
		result := &domain.AnalysisResult{Categories: domain.CategoryBreakdown{Stats: []domain.CategoryStats{
			{Department: "Бакалея", Revenue: d("0")},
		}}}
		assert.Empty(t, Build(result))
	})

	t.Run("turnover carries received units as second series", func(t *testing.T) {
		set := Build(chartResult())
		for _, named := range set {
			if named.File != TurnoverFile {
				continue
			}
			bars := named.Chart.(BarChart)
			assert.Equal(t, []float64{100, 10}, bars.Values)
			require.Len(t, bars.Extra, 1)
			assert.Equal(t, []float64{0, 60}, bars.Extra[0])
			assert.Len(t, bars.Series, 2)
		}
	})

	t.Run("monthly labels", func(t *testing.T) {
		result := &domain.AnalysisResult{
			Period: domain.GranularityMonth,
			Revenue: []domain.PeriodMetric{
				{PeriodStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Value: d("10")},
			},
		}
		set := Build(result)
		require.Len(t, set, 1)
		line := set[0].Chart.(LineChart)
		assert.Equal(t, []string{"2024-01"}, line.Labels)
		assert.Equal(t, "Динамика выручки по месяцам", line.Title)
	})
}

func TestSeries_KeepsMostRecentPoints(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	metrics := make([]domain.PeriodMetric, maxLineChartPoints+10)
	for i := range metrics {
		metrics[i] = domain.PeriodMetric{PeriodStart: start.AddDate(0, 0, i), Value: decimal.NewFromInt(int64(i))}
	}

	labels, values := series(metrics, domain.GranularityDay)
	require.Len(t, values, maxLineChartPoints)
	assert.Equal(t, float64(10), values[0])
	assert.Equal(t, start.AddDate(0, 0, 10).Format("2006-01-02"), labels[0])
}
