package dataprocessing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

const (
	moneyPlaces         = 2
	insightListSize     = 5
	imbalanceThreshold  = "0.3"
	profitExtremesCount = 5
)

var hundred = decimal.NewFromInt(100)

type flow struct {
	units  decimal.Decimal
	amount decimal.Decimal
}

// AnalyzeTurnover joins sales and receipts per product and returns the topN
// rows with the largest absolute unit imbalance. Products recorded on only
// one side are kept with zeros on the other.
func AnalyzeTurnover(table *domain.Table, topN int) ([]domain.TurnoverRow, error) {
	if topN < 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("turnover top-n must be at least 1, got %d", topN))
	}

	sold := sumFlows(sales(table))
	received := sumFlows(receipts(table))

	keys := make([]domain.ProductKey, 0, len(sold)+len(received))
	for k := range sold {
		keys = append(keys, k)
	}
	for k := range received {
		if _, ok := sold[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	rows := make([]domain.TurnoverRow, 0, len(keys))
	for _, k := range keys {
		s, r := sold[k], received[k]
		profit := s.amount.Sub(r.amount)
		margin := decimal.Zero
		if r.amount.IsPositive() {
			margin = profit.Div(r.amount).Mul(hundred)
		}
		rows = append(rows, domain.TurnoverRow{
			SKU:             k.SKU,
			ProductName:     k.Name,
			SoldUnits:       s.units,
			ReceivedUnits:   r.units,
			SoldRevenue:     s.amount.Round(moneyPlaces),
			ReceivedCost:    r.amount.Round(moneyPlaces),
			UnitDelta:       s.units.Sub(r.units),
			Profit:          profit.Round(moneyPlaces),
			ProfitMarginPct: margin.Round(moneyPlaces),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UnitDelta.Abs().GreaterThan(rows[j].UnitDelta.Abs())
	})
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows, nil
}

// TurnoverInsightsFor derives deficit and excess candidates and the profit
// extremes from a ranked turnover set. Rows whose delta exceeds 30% of the
// mean sold units are deficit candidates; rows below the negated threshold
// are excess candidates.
func TurnoverInsightsFor(rows []domain.TurnoverRow) domain.TurnoverInsights {
	insights := domain.TurnoverInsights{
		Deficit:         []domain.TurnoverRow{},
		Excess:          []domain.TurnoverRow{},
		MostProfitable:  []domain.TurnoverRow{},
		LeastProfitable: []domain.TurnoverRow{},
	}
	if len(rows) == 0 {
		return insights
	}

	count := decimal.NewFromInt(int64(len(rows)))
	var soldTotal, revenue, costs, profit, margins decimal.Decimal
	for _, r := range rows {
		soldTotal = soldTotal.Add(r.SoldUnits)
		revenue = revenue.Add(r.SoldRevenue)
		costs = costs.Add(r.ReceivedCost)
		profit = profit.Add(r.Profit)
		margins = margins.Add(r.ProfitMarginPct)
	}
	threshold := soldTotal.Div(count).Mul(decimal.RequireFromString(imbalanceThreshold))

	for _, r := range rows {
		switch {
		case r.UnitDelta.GreaterThan(threshold):
			insights.Deficit = append(insights.Deficit, r)
		case r.UnitDelta.LessThan(threshold.Neg()):
			insights.Excess = append(insights.Excess, r)
		}
	}

	byProfit := make([]domain.TurnoverRow, len(rows))
	copy(byProfit, rows)
	sort.SliceStable(byProfit, func(i, j int) bool {
		return byProfit[i].Profit.GreaterThan(byProfit[j].Profit)
	})
	insights.MostProfitable = head(byProfit, profitExtremesCount)

	sort.SliceStable(byProfit, func(i, j int) bool {
		return byProfit[i].Profit.LessThan(byProfit[j].Profit)
	})
	insights.LeastProfitable = head(byProfit, profitExtremesCount)

	insights.Summary = domain.TurnoverSummary{
		TotalItems:       len(rows),
		TotalRevenue:     revenue.Round(moneyPlaces),
		TotalCosts:       costs.Round(moneyPlaces),
		TotalProfit:      profit.Round(moneyPlaces),
		AvgMarginPct:     margins.Div(count).Round(moneyPlaces),
		ItemsWithDeficit: len(insights.Deficit),
		ItemsWithExcess:  len(insights.Excess),
	}
	insights.Deficit = head(insights.Deficit, insightListSize)
	insights.Excess = head(insights.Excess, insightListSize)
	return insights
}

func sumFlows(table *domain.Table) map[domain.ProductKey]flow {
	out := make(map[domain.ProductKey]flow)
	for _, tx := range table.Records() {
		f := out[tx.Product()]
		f.units = f.units.Add(tx.Quantity)
		f.amount = f.amount.Add(tx.Amount)
		out[tx.Product()] = f
	}
	return out
}

func head(rows []domain.TurnoverRow, n int) []domain.TurnoverRow {
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]domain.TurnoverRow, len(rows))
	copy(out, rows)
	return out
}
