package exporter

import (
	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// Sheet is one aggregation laid out as a table. The same layout feeds the
// CSV files, the workbook and the text report.
type Sheet struct {
	Name     string
	FileName string
	Headers  []string
	// Numeric marks the columns written as numbers in the workbook.
	Numeric []bool
	Rows    [][]string
}

// Sheet file names
const (
	RevenueFile    = "revenue_by_period.csv"
	ProfitFile     = "profit_by_period.csv"
	CategoryFile   = "sales_by_category.csv"
	TopQtyFile     = "top_by_quantity.csv"
	TopRevenueFile = "top_by_revenue.csv"
	TurnoverFile   = "turnover.csv"
	SlowMoverFile  = "slow_movers.csv"
)

// BuildSheets lays out every aggregation of a result in report order
func BuildSheets(result *domain.AnalysisResult) []Sheet {
	return []Sheet{
		periodSheet("Выручка", RevenueFile, "Выручка", result.Revenue, result.Period),
		periodSheet("Прибыль", ProfitFile, "Прибыль", result.Profit, result.Period),
		categorySheet(result.Categories),
		rankSheet("Топ по количеству", TopQtyFile, "Продано упаковок", result.TopByQuantity, formatQuantity),
		rankSheet("Топ по выручке", TopRevenueFile, "Выручка", result.TopByRevenue, formatMoney),
		turnoverSheet(result.Turnover),
		slowMoverSheet(result.SlowMovers),
	}
}

func periodSheet(name, file, valueHeader string, metrics []domain.PeriodMetric, g domain.Granularity) Sheet {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{formatPeriod(m.PeriodStart, g), formatMoney(m.Value)})
	}
	return Sheet{
		Name:     name,
		FileName: file,
		Headers:  []string{"Период", valueHeader},
		Numeric:  []bool{false, true},
		Rows:     rows,
	}
}

func categorySheet(breakdown domain.CategoryBreakdown) Sheet {
	headers := []string{"Отдел", "Выручка", "Продано упаковок", "Уникальных товаров"}
	numeric := []bool{false, true, true, true}
	if breakdown.WithReceipts {
		headers = append(headers, "Поступило упаковок", "Чистое движение")
		numeric = append(numeric, true, true)
	}

	rows := make([][]string, 0, len(breakdown.Stats))
	for _, s := range breakdown.Stats {
		row := []string{s.Department, formatMoney(s.Revenue), formatQuantity(s.UnitsSold), formatInt(s.UniqueProducts)}
		if breakdown.WithReceipts {
			row = append(row, formatQuantity(s.UnitsReceived), formatQuantity(s.Net))
		}
		rows = append(rows, row)
	}
	return Sheet{
		Name:     "Отделы",
		FileName: CategoryFile,
		Headers:  headers,
		Numeric:  numeric,
		Rows:     rows,
	}
}

func rankSheet(name, file, valueHeader string, ranks []domain.ProductRank, value func(decimal.Decimal) string) Sheet {
	rows := make([][]string, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, []string{r.SKU, r.ProductName, value(r.Value)})
	}
	return Sheet{
		Name:     name,
		FileName: file,
		Headers:  []string{"Артикул", "Название товара", valueHeader},
		Numeric:  []bool{false, false, true},
		Rows:     rows,
	}
}

func turnoverSheet(turnover []domain.TurnoverRow) Sheet {
	rows := make([][]string, 0, len(turnover))
	for _, t := range turnover {
		rows = append(rows, []string{
			t.SKU,
			t.ProductName,
			formatQuantity(t.SoldUnits),
			formatQuantity(t.ReceivedUnits),
			formatMoney(t.SoldRevenue),
			formatMoney(t.ReceivedCost),
			formatQuantity(t.UnitDelta),
			formatMoney(t.Profit),
			formatMoney(t.ProfitMarginPct),
		})
	}
	return Sheet{
		Name:     "Оборачиваемость",
		FileName: TurnoverFile,
		Headers: []string{
			"Артикул", "Название товара", "Продано упаковок", "Поступило упаковок",
			"Выручка", "Затраты", "Разница упаковок", "Прибыль", "Рентабельность, %",
		},
		Numeric: []bool{false, false, true, true, true, true, true, true, true},
		Rows:    rows,
	}
}

func slowMoverSheet(slow []domain.SlowMoverRow) Sheet {
	rows := make([][]string, 0, len(slow))
	for _, s := range slow {
		rows = append(rows, []string{
			s.SKU,
			s.ProductName,
			formatQuantity(s.SoldInWindow),
			formatQuantity(s.CurrentStock),
			formatDays(s.DaysSinceLastSale),
		})
	}
	return Sheet{
		Name:     "Залежавшиеся товары",
		FileName: SlowMoverFile,
		Headers:  []string{"Артикул", "Название товара", "Продано за период", "Текущий остаток", "Дней с последней продажи"},
		Numeric:  []bool{false, false, true, true, true},
		Rows:     rows,
	}
}
