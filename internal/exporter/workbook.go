package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// WorkbookFile is the name of the analytics workbook in the export directory
const WorkbookFile = "analytics.xlsx"

// WorkbookExporter writes every aggregation into one xlsx workbook, one
// sheet per aggregation
type WorkbookExporter struct {
	path   string
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		path:   paths.ExportPath(WorkbookFile),
		logger: logger,
	}
}

// Name identifies the exporter
func (e *WorkbookExporter) Name() string {
	return "workbook"
}

// Write builds and saves the workbook
func (e *WorkbookExporter) Write(ctx context.Context, result *domain.AnalysisResult) ([]string, error) {
	if result == nil {
		return nil, apperrors.NewNoInputDataError("no analysis result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range BuildSheets(result) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create export directory", err)
	}
	if err := f.SaveAs(e.path); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to save %s", e.path), err)
	}

	e.logger.InfoContext(ctx, "workbook written",
		slog.String("path", e.path))
	return []string{e.path}, nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	for col, header := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return err
		}
	}
	if len(sheet.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, 18); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, cellValue(sheet, col, value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue converts numeric columns to float64 so spreadsheets can sum them
func cellValue(sheet Sheet, col int, value string) interface{} {
	if col < len(sheet.Numeric) && sheet.Numeric[col] {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
