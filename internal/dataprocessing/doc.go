// Package dataprocessing turns raw sales and inventory logs into analytics.
//
// # Pipeline
//
// The package is organized in three stages:
//
// 1. Loader: detects encoding and delimiter, canonicalizes headers
// 2. Cleaner: types every cell and drops invalid rows
// 3. Aggregators: period, category, ranking, turnover and slow-mover views
//
// Every aggregator takes the immutable cleansed table and returns a fresh
// result, so they may run concurrently against the same table.
//
// # Usage
//
//	raw, err := dataprocessing.NewLoader(logger).LoadFile(ctx, "Данные 1.csv")
//	if err != nil {
//	    return err
//	}
//	table, stats, err := dataprocessing.NewCleaner(logger).Clean(ctx, raw)
//	if err != nil {
//	    return err
//	}
//	revenue, err := dataprocessing.RevenueByPeriod(table, domain.GranularityDay)
//
// # Data Flow
//
//	CSV bytes → Loader → RawTable → Cleaner → Table → Aggregators → AnalysisResult
//
// # Error Handling
//
// Loading and cleaning fail with typed application errors (UnreadableFile,
// MissingColumns, NoInputData, DateParse). Aggregators return an empty
// result, not an error, when the table holds no relevant rows.
package dataprocessing
