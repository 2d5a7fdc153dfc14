package dataprocessing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// PeriodStart returns the first instant of the bucket containing t. Weeks
// start on Monday and months on the 1st.
func PeriodStart(t time.Time, g domain.Granularity) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case domain.GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// RevenueByPeriod sums sale amounts per period, ascending by period start.
func RevenueByPeriod(table *domain.Table, g domain.Granularity) ([]domain.PeriodMetric, error) {
	if err := validateGranularity(g); err != nil {
		return nil, err
	}
	sums := sumByPeriod(sales(table), g)
	return sortedMetrics(sums, nil), nil
}

// ProfitByPeriod returns sales minus receipts per period. Periods present on
// only one side are kept with the other side counted as zero. Without any
// sales the result is empty.
func ProfitByPeriod(table *domain.Table, g domain.Granularity) ([]domain.PeriodMetric, error) {
	if err := validateGranularity(g); err != nil {
		return nil, err
	}
	saleRows := sales(table)
	if saleRows.IsEmpty() {
		return []domain.PeriodMetric{}, nil
	}
	income := sumByPeriod(saleRows, g)
	expense := sumByPeriod(receipts(table), g)
	return sortedMetrics(income, expense), nil
}

// SummarizePeriods computes max, min, mean and total of a series.
func SummarizePeriods(metrics []domain.PeriodMetric) domain.PeriodStats {
	stats := domain.PeriodStats{Periods: len(metrics)}
	if len(metrics) == 0 {
		return stats
	}
	stats.Max = metrics[0].Value
	stats.Min = metrics[0].Value
	for _, m := range metrics {
		stats.Total = stats.Total.Add(m.Value)
		if m.Value.GreaterThan(stats.Max) {
			stats.Max = m.Value
		}
		if m.Value.LessThan(stats.Min) {
			stats.Min = m.Value
		}
	}
	stats.Mean = stats.Total.Div(decimal.NewFromInt(int64(len(metrics))))
	return stats
}

func validateGranularity(g domain.Granularity) error {
	switch g {
	case domain.GranularityDay, domain.GranularityWeek, domain.GranularityMonth:
		return nil
	}
	return apperrors.NewValidationError(fmt.Sprintf("unsupported period %q, expected D, W or M", g))
}

func sumByPeriod(table *domain.Table, g domain.Granularity) map[time.Time]decimal.Decimal {
	sums := make(map[time.Time]decimal.Decimal)
	for _, tx := range table.Records() {
		key := PeriodStart(tx.Date, g)
		sums[key] = sums[key].Add(tx.Amount)
	}
	return sums
}

// sortedMetrics outer-joins plus and minus on the period key and returns
// plus - minus per period, ascending.
func sortedMetrics(plus, minus map[time.Time]decimal.Decimal) []domain.PeriodMetric {
	keys := make(map[time.Time]struct{}, len(plus)+len(minus))
	for k := range plus {
		keys[k] = struct{}{}
	}
	for k := range minus {
		keys[k] = struct{}{}
	}

	out := make([]domain.PeriodMetric, 0, len(keys))
	for k := range keys {
		out = append(out, domain.PeriodMetric{
			PeriodStart: k,
			Value:       plus[k].Sub(minus[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodStart.Before(out[j].PeriodStart)
	})
	return out
}
