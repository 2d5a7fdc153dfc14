package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// ParseRankMetric resolves a metric selector, failing with InvalidMetric
// for anything outside quantity and revenue.
func ParseRankMetric(s string) (domain.RankMetric, error) {
	switch m := domain.RankMetric(strings.ToLower(strings.TrimSpace(s))); m {
	case domain.RankByQuantity, domain.RankByRevenue:
		return m, nil
	}
	return "", apperrors.NewInvalidMetricError(s)
}

// TopProducts returns the n best-selling products by the chosen metric.
// Equal sums keep the order in which products first appear in the table.
func TopProducts(table *domain.Table, n int, metric domain.RankMetric) ([]domain.ProductRank, error) {
	if _, err := ParseRankMetric(string(metric)); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("top-n count must be at least 1, got %d", n))
	}
	return rank(sales(table), n, metric), nil
}

// TopProductsOn ranks only the sales made on the calendar day of day.
func TopProductsOn(table *domain.Table, day time.Time, n int, metric domain.RankMetric) ([]domain.ProductRank, error) {
	start := PeriodStart(day, domain.GranularityDay)
	onDay := table.Where(func(tx domain.Transaction) bool {
		return PeriodStart(tx.Date, domain.GranularityDay).Equal(start)
	})
	return TopProducts(onDay, n, metric)
}

func rank(saleRows *domain.Table, n int, metric domain.RankMetric) []domain.ProductRank {
	var order []domain.ProductKey
	sums := make(map[domain.ProductKey]decimal.Decimal)
	for _, tx := range saleRows.Records() {
		key := tx.Product()
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		value := tx.Quantity
		if metric == domain.RankByRevenue {
			value = tx.Amount
		}
		sums[key] = sums[key].Add(value)
	}

	out := make([]domain.ProductRank, 0, len(order))
	for _, key := range order {
		out = append(out, domain.ProductRank{SKU: key.SKU, ProductName: key.Name, Value: sums[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
