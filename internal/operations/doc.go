// Package operations runs an analysis end to end as an ordered list of steps.
//
// The standard run has four steps:
//
//   - load: read every input file (a directory stands for its CSV files),
//     skip missing or unreadable ones, concatenate
//   - clean: type and filter the rows, then enforce the minimum-row gate
//   - analyze: compute every aggregation over the immutable cleansed table
//   - export: hand the result to the artifact writers (report, exports, charts)
//
// Core Components:
//
// Manager: executes the registered steps sequentially, tracks per-step
// state, logs each transition and records spans and metrics through a
// RunTracer. A failing step skips every later step.
//
// Step: a single unit of work. Steps share data through RunState.
//
// Registry: keeps steps in registration order.
//
// ArtifactWriter: the extension point for anything that renders a result.
//
// Example usage:
//
//	registry, err := operations.NewAnalysisRegistry(logger, reportWriter, chartWriter)
//	if err != nil {
//		return err
//	}
//	manager := operations.NewManager(registry, operations.NewConfig(), tracer, logger)
//	resp, err := manager.Execute(ctx, operations.RunRequest{
//		Files:  []string{"Данные 1.csv", "Данные 2.csv"},
//		Params: operations.DefaultAnalysisParams(),
//	})
package operations
