package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// reportPreviewRows limits the period sections of the text report
const reportPreviewRows = 10

// ReportWriter renders the text report
type ReportWriter struct {
	path   string
	logger *slog.Logger
}

// NewReportWriter creates a report writer for the configured report file
func NewReportWriter(paths *config.Paths, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{path: paths.ReportFile, logger: logger}
}

// Name identifies the writer
func (r *ReportWriter) Name() string {
	return "report"
}

// Write renders the report to the report file
func (r *ReportWriter) Write(ctx context.Context, result *domain.AnalysisResult) ([]string, error) {
	if result == nil {
		return nil, apperrors.NewNoInputDataError("no analysis result to report")
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, result); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create report directory", err)
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0644); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to write %s", r.path), err)
	}

	r.logger.InfoContext(ctx, "report written",
		slog.String("path", r.path),
		slog.Int("bytes", buf.Len()))
	return []string{r.path}, nil
}

// RenderReport writes the report sections in fixed order: header, revenue,
// profit, departments, both top-N rankings, turnover with its insights and
// slow movers.
func RenderReport(w io.Writer, result *domain.AnalysisResult) error {
	rw := &reportBuilder{w: w}
	sheets := BuildSheets(result)
	byFile := make(map[string]Sheet, len(sheets))
	for _, s := range sheets {
		byFile[s.FileName] = s
	}

	rw.line("ОТЧЁТ ПО АНАЛИЗУ ПРОДАЖ И ИНВЕНТАРЯ")
	rw.line(strings.Repeat("=", 70))
	rw.line("Дата генерации: %s", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	rw.line("Обработано строк: %d", result.RowCount)
	rw.line("Отброшено при очистке: %d", result.RowsDropped)
	if len(result.Sources) > 0 {
		rw.line("Источники: %s", strings.Join(result.Sources, ", "))
	}
	if result.RunID != "" {
		rw.line("Идентификатор запуска: %s", result.RunID)
	}
	rw.line("")

	period := periodHeading(result.Period)

	rw.section(fmt.Sprintf("ВЫРУЧКА ПО %s (первые %d записей):", period, reportPreviewRows),
		"НЕТ ДАННЫХ О ВЫРУЧКЕ.", head(byFile[RevenueFile], reportPreviewRows))

	rw.section(fmt.Sprintf("ПРИБЫЛЬ ПО %s (первые %d записей):", period, reportPreviewRows),
		"НЕТ ДАННЫХ О ПРИБЫЛИ.", head(byFile[ProfitFile], reportPreviewRows))
	if len(result.Profit) > 0 {
		stats := result.ProfitStats
		rw.line("Максимальная прибыль: %s", formatMoney(stats.Max))
		rw.line("Минимальная прибыль: %s", formatMoney(stats.Min))
		rw.line("Средняя прибыль: %s", formatMoney(stats.Mean))
		rw.line("Общая прибыль: %s", formatMoney(stats.Total))
		rw.line("")
	}

	rw.section("ПРОДАЖИ ПО ОТДЕЛАМ:", "НЕТ ДАННЫХ О ПРОДАЖАХ ПО ОТДЕЛАМ.", byFile[CategoryFile])

	suffix := ""
	if result.TopDate != nil {
		suffix = " ЗА " + result.TopDate.Format("2006-01-02")
	}
	rw.section(fmt.Sprintf("ТОП-%d ТОВАРОВ ПО КОЛИЧЕСТВУ ПРОДАННЫХ ЕДИНИЦ%s:", result.TopN, suffix),
		"НЕТ ДАННЫХ О ПРОДАЖАХ ТОВАРОВ.", byFile[TopQtyFile])
	rw.section(fmt.Sprintf("ТОП-%d ТОВАРОВ ПО ВЫРУЧКЕ%s:", result.TopN, suffix),
		"НЕТ ДАННЫХ О ПРОДАЖАХ ТОВАРОВ.", byFile[TopRevenueFile])

	rw.section(fmt.Sprintf("АНАЛИЗ ОБОРАЧИВАЕМОСТИ ТОВАРОВ (ТОП-%d):", result.TurnoverTopN),
		"НЕТ ДАННЫХ ОБ ОБОРАЧИВАЕМОСТИ.", byFile[TurnoverFile])
	if len(result.Turnover) > 0 {
		rw.insights(result.Insights)
	}

	slow := byFile[SlowMoverFile]
	if len(slow.Rows) > 0 {
		rw.line("ТОВАРЫ, КОТОРЫЕ 'ЗАСТОЯЛИСЬ' НА СКЛАДЕ (за %d дней):", result.SlowWindowDays)
		rw.table(slow)
		rw.line("")
	} else {
		rw.line("НЕТ ТОВАРОВ, КОТОРЫЕ ЗАСТОЯЛИСЬ НА СКЛАДЕ (все товары активны).")
		rw.line("")
	}

	rw.line("АНАЛИЗ ЗАВЕРШЁН.")
	return rw.err
}

func periodHeading(g domain.Granularity) string {
	switch g {
	case domain.GranularityWeek:
		return "НЕДЕЛЯМ"
	case domain.GranularityMonth:
		return "МЕСЯЦАМ"
	default:
		return "ДНЯМ"
	}
}

func head(sheet Sheet, n int) Sheet {
	if len(sheet.Rows) > n {
		sheet.Rows = sheet.Rows[:n]
	}
	return sheet
}

// reportBuilder keeps the first write error
type reportBuilder struct {
	w   io.Writer
	err error
}

func (b *reportBuilder) line(format string, args ...interface{}) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format+"\n", args...)
}

func (b *reportBuilder) section(title, empty string, sheet Sheet) {
	if len(sheet.Rows) == 0 {
		b.line("%s", empty)
		b.line("")
		return
	}
	b.line("%s", title)
	b.table(sheet)
	b.line("")
}

func (b *reportBuilder) table(sheet Sheet) {
	if b.err != nil {
		return
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(sheet.Numeric))
	for i, numeric := range sheet.Numeric {
		if numeric {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.SetColumnConfigs(configs)

	for _, row := range sheet.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		t.AppendRow(r)
	}
	b.line("%s", t.Render())
}

func (b *reportBuilder) insights(in domain.TurnoverInsights) {
	stats := in.Summary
	b.line("СВОДНАЯ СТАТИСТИКА:")
	b.line("%s", strings.Repeat("-", 40))
	b.line("Всего товаров в анализе: %d", stats.TotalItems)
	b.line("Общая выручка: %s руб.", formatMoney(stats.TotalRevenue))
	b.line("Общие затраты на закупки: %s руб.", formatMoney(stats.TotalCosts))
	b.line("Общая прибыль: %s руб.", formatMoney(stats.TotalProfit))
	b.line("Средняя рентабельность: %s%%", formatMoney(stats.AvgMarginPct))
	b.line("Товаров с возможным дефицитом: %d", stats.ItemsWithDeficit)
	b.line("Товаров с возможным излишком: %d", stats.ItemsWithExcess)
	b.line("")

	b.line("ТОВАРЫ С ВОЗМОЖНЫМ ДЕФИЦИТОМ (продажи > поступления):")
	b.line("%s", strings.Repeat("-", 40))
	if len(in.Deficit) == 0 {
		b.line("Нет товаров с явным дефицитом")
	}
	for _, item := range in.Deficit {
		b.line("• %s (%s)", item.ProductName, item.SKU)
		b.line("  Продано: %s уп., Поступило: %s уп.", formatQuantity(item.SoldUnits), formatQuantity(item.ReceivedUnits))
		b.line("  Разница: +%s уп. (дефицит)", formatQuantity(item.UnitDelta))
	}
	b.line("")

	b.line("ТОВАРЫ С ВОЗМОЖНЫМ ИЗЛИШКОМ (поступления > продаж):")
	b.line("%s", strings.Repeat("-", 40))
	if len(in.Excess) == 0 {
		b.line("Нет товаров с явным излишком")
	}
	for _, item := range in.Excess {
		b.line("• %s (%s)", item.ProductName, item.SKU)
		b.line("  Продано: %s уп., Поступило: %s уп.", formatQuantity(item.SoldUnits), formatQuantity(item.ReceivedUnits))
		b.line("  Разница: %s уп. (излишек)", formatQuantity(item.UnitDelta))
	}
	b.line("")

	b.profitList("САМЫЕ ПРИБЫЛЬНЫЕ ТОВАРЫ:", in.MostProfitable)
	b.profitList("НАИМЕНЕЕ ПРИБЫЛЬНЫЕ ТОВАРЫ:", in.LeastProfitable)
}

func (b *reportBuilder) profitList(title string, rows []domain.TurnoverRow) {
	b.line("%s", title)
	b.line("%s", strings.Repeat("-", 40))
	for _, item := range rows {
		status := fmt.Sprintf("Прибыль: %s руб.", formatMoney(item.Profit))
		if item.Profit.IsNegative() {
			status = fmt.Sprintf("Убыток: %s руб.", formatMoney(item.Profit))
		}
		b.line("• %s (%s)", item.ProductName, item.SKU)
		b.line("  %s | Рентабельность: %s%%", status, formatMoney(item.ProfitMarginPct))
	}
	b.line("")
}
