// Package exporter renders an analysis result to files.
//
// This package contains three artifact writers:
//
// ReportWriter: the UTF-8 text report with its fixed section order.
//
// CSVExporter: one CSV file per aggregation, with a UTF-8 BOM for Excel
// compatibility, written through CSVWriter.
//
// WorkbookExporter: a single xlsx workbook with one sheet per aggregation.
//
// All three share the table layouts built by BuildSheets, so a column is
// named and formatted the same way everywhere.
//
// Example usage:
//
//	paths, _ := cfg.GetPaths()
//	report := exporter.NewReportWriter(paths, logger)
//	written, err := report.Write(ctx, result)
package exporter
