package dataprocessing

import (
	"sort"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

type categoryAcc struct {
	revenue  decimal.Decimal
	sold     decimal.Decimal
	received decimal.Decimal
	skus     map[string]struct{}
}

// SalesByCategory groups sales by department. Received units and net are
// filled in only when the table carries receipts; departments with sales
// but no receipts get zero received.
func SalesByCategory(table *domain.Table) domain.CategoryBreakdown {
	saleRows := sales(table)
	if saleRows.IsEmpty() {
		return domain.CategoryBreakdown{Stats: []domain.CategoryStats{}}
	}

	byDept := make(map[string]*categoryAcc)
	for _, tx := range saleRows.Records() {
		acc, ok := byDept[tx.Department]
		if !ok {
			acc = &categoryAcc{skus: make(map[string]struct{})}
			byDept[tx.Department] = acc
		}
		acc.revenue = acc.revenue.Add(tx.Amount)
		acc.sold = acc.sold.Add(tx.Quantity)
		acc.skus[tx.SKU] = struct{}{}
	}

	receiptRows := receipts(table)
	withReceipts := !receiptRows.IsEmpty()
	for _, tx := range receiptRows.Records() {
		if acc, ok := byDept[tx.Department]; ok {
			acc.received = acc.received.Add(tx.Quantity)
		}
	}

	stats := make([]domain.CategoryStats, 0, len(byDept))
	for dept, acc := range byDept {
		row := domain.CategoryStats{
			Department:     dept,
			Revenue:        acc.revenue,
			UnitsSold:      acc.sold,
			UniqueProducts: len(acc.skus),
		}
		if withReceipts {
			row.UnitsReceived = acc.received
			row.Net = acc.sold.Sub(acc.received)
		}
		stats = append(stats, row)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Department < stats[j].Department
	})

	return domain.CategoryBreakdown{Stats: stats, WithReceipts: withReceipts}
}
