package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fogleman/gg"
	"github.com/shopspring/decimal"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// Chart file names
const (
	RevenueTrendFile   = "revenue_trend.png"
	ProfitTrendFile    = "profit_trend.png"
	CategorySplitFile  = "category_split.png"
	TopQuantityFile    = "top_products_quantity.png"
	TopRevenueFile     = "top_products_revenue.png"
	TurnoverFile       = "turnover.png"
	SlowMoversFile     = "slow_movers.png"
	maxSlowMoverChart  = 20
	maxLineChartPoints = 366
)

// Named is a chart paired with the file it is saved to
type Named struct {
	File  string
	Chart Chart
}

// ChartWriter renders the chart set of an analysis result as PNG files
type ChartWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewChartWriter creates a chart writer saving into paths.ChartsDir
func NewChartWriter(paths *config.Paths, logger *slog.Logger) *ChartWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartWriter{paths: paths, logger: logger}
}

// Name identifies the writer
func (w *ChartWriter) Name() string {
	return "charts"
}

// Write renders every chart that has data and returns the written paths
func (w *ChartWriter) Write(ctx context.Context, result *domain.AnalysisResult) ([]string, error) {
	if result == nil {
		return nil, apperrors.NewNoInputDataError("no analysis result to chart")
	}

	set := Build(result)
	if len(set) == 0 {
		w.logger.InfoContext(ctx, "no chartable data")
		return nil, nil
	}

	if err := os.MkdirAll(w.paths.ChartsDir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create charts directory", err)
	}

	f, err := newFaces()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load chart font", err)
	}

	written := make([]string, 0, len(set))
	for _, named := range set {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := w.paths.ChartPath(named.File)
		dc := gg.NewContext(Width, Height)
		named.Chart.Draw(dc, f)
		if err := dc.SavePNG(path); err != nil {
			return written, apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
		}
		w.logger.DebugContext(ctx, "chart saved", slog.String("path", path))
		written = append(written, path)
	}

	w.logger.InfoContext(ctx, "charts written",
		slog.String("dir", w.paths.ChartsDir),
		slog.Int("count", len(written)))
	return written, nil
}

// Build lays out the charts of a result. Sections without data produce no
// chart.
func Build(result *domain.AnalysisResult) []Named {
	var set []Named

	if len(result.Revenue) > 0 {
		labels, values := series(result.Revenue, result.Period)
		set = append(set, Named{RevenueTrendFile, LineChart{
			Title:  revenueTitle(result.Period),
			Labels: labels,
			Values: values,
		}})
	}

	if len(result.Profit) > 0 {
		labels, values := series(result.Profit, result.Period)
		set = append(set, Named{ProfitTrendFile, LineChart{
			Title:  "Динамика прибыли по периодам",
			Labels: labels,
			Values: values,
		}})
	}

	if pie, ok := categoryPie(result.Categories); ok {
		set = append(set, Named{CategorySplitFile, pie})
	}

	if len(result.TopByQuantity) > 0 {
		set = append(set, Named{TopQuantityFile, rankBars(
			"Топ самых продаваемых товаров по количеству", result.TopByQuantity)})
	}

	if len(result.TopByRevenue) > 0 {
		set = append(set, Named{TopRevenueFile, rankBars(
			"Топ самых продаваемых товаров по выручке", result.TopByRevenue)})
	}

	if len(result.Turnover) > 0 {
		chart := BarChart{
			Title:  "Оборачиваемость: продано и поступило",
			Series: []string{"Продано, шт.", "Поступило, шт."},
		}
		received := make([]float64, 0, len(result.Turnover))
		for _, row := range result.Turnover {
			chart.Labels = append(chart.Labels, row.ProductName)
			chart.Values = append(chart.Values, toFloat(row.SoldUnits))
			received = append(received, toFloat(row.ReceivedUnits))
		}
		chart.Extra = [][]float64{received}
		set = append(set, Named{TurnoverFile, chart})
	}

	if len(result.SlowMovers) > 0 {
		chart := BarChart{
			Title: fmt.Sprintf("Залежавшиеся товары: остаток на складе (%d дней без продаж)", result.SlowWindowDays),
		}
		for i, row := range result.SlowMovers {
			if i == maxSlowMoverChart {
				break
			}
			chart.Labels = append(chart.Labels, row.ProductName)
			chart.Values = append(chart.Values, toFloat(row.CurrentStock))
		}
		set = append(set, Named{SlowMoversFile, chart})
	}

	return set
}

func revenueTitle(g domain.Granularity) string {
	switch g {
	case domain.GranularityWeek:
		return "Динамика выручки по неделям"
	case domain.GranularityMonth:
		return "Динамика выручки по месяцам"
	default:
		return "Динамика выручки по дням"
	}
}

// series converts period metrics to chart points, keeping the most recent
// maxLineChartPoints
func series(metrics []domain.PeriodMetric, g domain.Granularity) ([]string, []float64) {
	if len(metrics) > maxLineChartPoints {
		metrics = metrics[len(metrics)-maxLineChartPoints:]
	}
	layout := "2006-01-02"
	if g == domain.GranularityMonth {
		layout = "2006-01"
	}
	labels := make([]string, len(metrics))
	values := make([]float64, len(metrics))
	for i, m := range metrics {
		labels[i] = m.PeriodStart.Format(layout)
		values[i] = toFloat(m.Value)
	}
	return labels, values
}

func categoryPie(breakdown domain.CategoryBreakdown) (PieChart, bool) {
	pie := PieChart{Title: "Доля выручки по отделам"}
	for _, stat := range breakdown.Stats {
		if !stat.Revenue.IsPositive() {
			continue
		}
		pie.Labels = append(pie.Labels, stat.Department)
		pie.Values = append(pie.Values, toFloat(stat.Revenue))
	}
	return pie, len(pie.Values) > 0
}

func rankBars(title string, ranks []domain.ProductRank) BarChart {
	chart := BarChart{Title: title}
	for _, r := range ranks {
		chart.Labels = append(chart.Labels, r.ProductName)
		chart.Values = append(chart.Values, toFloat(r.Value))
	}
	return chart
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
