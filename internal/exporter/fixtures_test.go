package exporter

import (
	"time"

	"github.com/shopspring/decimal"

	"salespulse/internal/config"
	"salespulse/pkg/contracts/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(i int) *int {
	return &i
}

func testPaths(dir string) *config.Paths {
	return &config.Paths{
		BaseDir:    dir,
		ReportFile: dir + "/inventory_report.txt",
		ChartsDir:  dir + "/charts",
		ExportDir:  dir + "/exports",
	}
}

func sampleResult() *domain.AnalysisResult {
	day := func(n int) time.Time { return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC) }

	revenue := make([]domain.PeriodMetric, 0, 12)
	profit := make([]domain.PeriodMetric, 0, 12)
	for i := 1; i <= 12; i++ {
		revenue = append(revenue, domain.PeriodMetric{PeriodStart: day(i), Value: decimal.NewFromInt(int64(100 * i))})
		profit = append(profit, domain.PeriodMetric{PeriodStart: day(i), Value: decimal.NewFromInt(int64(10*i - 40))})
	}

	turnover := []domain.TurnoverRow{
		{SKU: "A-1", ProductName: "Молоко", SoldUnits: d("100"), ReceivedUnits: d("0"), SoldRevenue: d("5000"), ReceivedCost: d("0"), UnitDelta: d("100"), Profit: d("5000"), ProfitMarginPct: d("0")},
		{SKU: "B-2", ProductName: "Хлеб", SoldUnits: d("10"), ReceivedUnits: d("60"), SoldRevenue: d("300"), ReceivedCost: d("900"), UnitDelta: d("-50"), Profit: d("-600"), ProfitMarginPct: d("-66.67")},
	}

	return &domain.AnalysisResult{
		RunID:       "run-42",
		GeneratedAt: time.Date(2024, time.April, 1, 9, 30, 0, 0, time.UTC),
		RowCount:    47,
		RowsDropped: 3,
		Sources:     []string{"Данные 1.csv", "Данные 2.csv"},
		Period:      domain.GranularityDay,
		Revenue:     revenue,
		Profit:      profit,
		ProfitStats: domain.PeriodStats{Periods: 12, Max: d("80"), Min: d("-30"), Mean: d("25"), Total: d("300")},
		Categories: domain.CategoryBreakdown{
			Stats: []domain.CategoryStats{
				{Department: "Бакалея", Revenue: d("300"), UnitsSold: d("10"), UniqueProducts: 1, UnitsReceived: d("60"), Net: d("50")},
				{Department: "Молочные продукты", Revenue: d("5000"), UnitsSold: d("100"), UniqueProducts: 1, UnitsReceived: d("0"), Net: d("-100")},
			},
			WithReceipts: true,
		},
		TopN:          5,
		TopByQuantity: []domain.ProductRank{{SKU: "A-1", ProductName: "Молоко", Value: d("100")}, {SKU: "B-2", ProductName: "Хлеб", Value: d("10")}},
		TopByRevenue:  []domain.ProductRank{{SKU: "A-1", ProductName: "Молоко", Value: d("5000")}, {SKU: "B-2", ProductName: "Хлеб", Value: d("300")}},
		TurnoverTopN:  10,
		Turnover:      turnover,
		Insights: domain.TurnoverInsights{
			Deficit:         turnover[:1],
			Excess:          turnover[1:],
			MostProfitable:  turnover,
			LeastProfitable: []domain.TurnoverRow{turnover[1], turnover[0]},
			Summary: domain.TurnoverSummary{
				TotalItems: 2, TotalRevenue: d("5300"), TotalCosts: d("900"), TotalProfit: d("4400"),
				AvgMarginPct: d("-33.34"), ItemsWithDeficit: 1, ItemsWithExcess: 1,
			},
		},
		SlowMovers: []domain.SlowMoverRow{
			{SKU: "B-2", ProductName: "Хлеб", SoldInWindow: d("0"), CurrentStock: d("50"), DaysSinceLastSale: nil},
			{SKU: "C-3", ProductName: "Соль", SoldInWindow: d("2"), CurrentStock: d("8"), DaysSinceLastSale: intPtr(12)},
		},
		SlowWindowDays: 90,
		SlowThreshold:  d("5"),
	}
}
