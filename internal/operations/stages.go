package operations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// LoadStep reads every input file and concatenates the tables. Missing or
// unreadable files are skipped with a warning.
type LoadStep struct {
	BaseStep
	loader   *dataprocessing.Loader
	detector *FileDetector
	logger   *slog.Logger
}

// NewLoadStep creates the load step
func NewLoadStep(loader *dataprocessing.Loader, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = dataprocessing.NewLoader(logger)
	}
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, StepNameLoad),
		loader:   loader,
		detector: NewFileDetector(logger),
		logger:   logger,
	}
}

// Validate requires at least one input path
func (s *LoadStep) Validate(state *RunState) error {
	if len(state.Files) == 0 {
		return apperrors.NewNoInputDataError("no input files configured")
	}
	return nil
}

// Execute loads the input files in order. Directories are expanded to the
// CSV files they contain.
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	files := s.detector.ResolveInputs(state.Files)
	tables := make([]*domain.RawTable, 0, len(files))
	progress := NewProgressTracker(s.ID(), len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			if !progress.IsComplete() {
				current, total, _, _ := progress.GetProgress()
				s.logger.WarnContext(ctx, "loading interrupted",
					slog.Int("current", current),
					slog.Int("total", total))
			}
			return err
		}
		progress.Increment(path)
		current, total, pct, _ := progress.GetProgress()
		s.logger.DebugContext(ctx, "loading input file",
			slog.String("file", path),
			slog.Int("current", current),
			slog.Int("total", total),
			slog.Float64("percentage", pct))

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "input file not found, skipping",
				slog.String("file", path))
			state.Skipped = append(state.Skipped, SkippedFile{Path: path, Reason: "file not found"})
			continue
		}

		raw, err := s.loader.LoadFile(ctx, path)
		if err != nil {
			s.logger.WarnContext(ctx, "input file could not be loaded, skipping",
				slog.String("file", path),
				slog.String("error", err.Error()))
			state.Skipped = append(state.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			continue
		}

		tables = append(tables, raw)
		state.Loaded = append(state.Loaded, LoadedFile{
			Path:      path,
			Encoding:  raw.Encoding,
			Delimiter: string(raw.Delimiter),
			Rows:      raw.Len(),
		})
	}

	if len(tables) == 0 {
		return apperrors.NewNoInputDataError(fmt.Sprintf("none of the %d input files could be loaded", len(files)))
	}

	state.Raw = dataprocessing.Concat(tables...)
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("files_loaded", len(state.Loaded))
		step.SetMetadata("files_skipped", len(state.Skipped))
		step.SetMetadata("rows", state.Raw.Len())
	}
	s.logger.InfoContext(ctx, "input files loaded",
		slog.Duration("elapsed", progress.GetElapsedTime()),
		slog.Int("files_loaded", len(state.Loaded)),
		slog.Int("files_skipped", len(state.Skipped)),
		slog.Int("rows", state.Raw.Len()))
	return nil
}

// CleanStep cleanses the concatenated table and applies the minimum-row gate
type CleanStep struct {
	BaseStep
	cleaner *dataprocessing.Cleaner
	logger  *slog.Logger
}

// NewCleanStep creates the clean step
func NewCleanStep(cleaner *dataprocessing.Cleaner, logger *slog.Logger) *CleanStep {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = dataprocessing.NewCleaner(logger)
	}
	return &CleanStep{
		BaseStep: NewBaseStep(StepIDClean, StepNameClean),
		cleaner:  cleaner,
		logger:   logger,
	}
}

// Validate requires a loaded table
func (s *CleanStep) Validate(state *RunState) error {
	if state.Raw == nil {
		return apperrors.NewNoInputDataError("nothing was loaded")
	}
	return nil
}

// Execute cleanses the raw rows. Fewer valid rows than the configured
// minimum abort the run before any aggregation.
func (s *CleanStep) Execute(ctx context.Context, state *RunState) error {
	table, stats, err := s.cleaner.Clean(ctx, state.Raw)
	if err != nil {
		return err
	}
	state.Table = table
	state.CleanStats = stats

	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("rows_in", stats.Input)
		step.SetMetadata("rows_out", stats.Output)
	}

	if table.Len() < state.Params.MinRows {
		s.logger.ErrorContext(ctx, "insufficient data for analysis",
			slog.Int("rows", table.Len()),
			slog.Int("min_rows", state.Params.MinRows))
		return apperrors.NewInsufficientDataError(table.Len(), state.Params.MinRows)
	}
	return nil
}

// AnalyzeStep runs every aggregation against the cleansed table
type AnalyzeStep struct {
	BaseStep
	logger *slog.Logger
}

// NewAnalyzeStep creates the analyze step
func NewAnalyzeStep(logger *slog.Logger) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{
		BaseStep: NewBaseStep(StepIDAnalyze, StepNameAnalyze),
		logger:   logger,
	}
}

// Validate requires a cleansed table
func (s *AnalyzeStep) Validate(state *RunState) error {
	if state.Table == nil {
		return apperrors.NewNoInputDataError("no cleansed table to analyze")
	}
	return nil
}

// Execute fans the aggregations out over the immutable table. Each
// goroutine owns distinct fields of the result.
func (s *AnalyzeStep) Execute(ctx context.Context, state *RunState) error {
	table := state.Table
	params := state.Params

	sources := make([]string, 0, len(state.Loaded))
	for _, f := range state.Loaded {
		sources = append(sources, f.Path)
	}

	result := &domain.AnalysisResult{
		RunID:          state.ID,
		GeneratedAt:    state.Now,
		RowCount:       table.Len(),
		RowsDropped:    state.CleanStats.Dropped(),
		Sources:        sources,
		Period:         params.Period,
		TopN:           params.TopN,
		TopDate:        params.TopDate,
		TurnoverTopN:   params.TurnoverTopN,
		SlowWindowDays: params.SlowWindowDays,
		SlowThreshold:  params.SlowThreshold,
	}

	var g errgroup.Group

	g.Go(func() error {
		revenue, err := dataprocessing.RevenueByPeriod(table, params.Period)
		if err != nil {
			return fmt.Errorf("revenue by period: %w", err)
		}
		result.Revenue = revenue
		return nil
	})

	g.Go(func() error {
		profit, err := dataprocessing.ProfitByPeriod(table, params.Period)
		if err != nil {
			return fmt.Errorf("profit by period: %w", err)
		}
		result.Profit = profit
		result.ProfitStats = dataprocessing.SummarizePeriods(profit)
		return nil
	})

	g.Go(func() error {
		result.Categories = dataprocessing.SalesByCategory(table)
		return nil
	})

	g.Go(func() error {
		byQuantity, err := s.rank(table, params, domain.RankByQuantity)
		if err != nil {
			return err
		}
		byRevenue, err := s.rank(table, params, domain.RankByRevenue)
		if err != nil {
			return err
		}
		result.TopByQuantity = byQuantity
		result.TopByRevenue = byRevenue
		return nil
	})

	g.Go(func() error {
		turnover, err := dataprocessing.AnalyzeTurnover(table, params.TurnoverTopN)
		if err != nil {
			return fmt.Errorf("turnover: %w", err)
		}
		result.Turnover = turnover
		result.Insights = dataprocessing.TurnoverInsightsFor(turnover)
		return nil
	})

	g.Go(func() error {
		slow, err := dataprocessing.SlowMovers(table, state.Now, params.SlowWindowDays, params.SlowThreshold)
		if err != nil {
			return fmt.Errorf("slow movers: %w", err)
		}
		result.SlowMovers = slow
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	state.Result = result
	s.logger.InfoContext(ctx, "analysis complete",
		slog.Int("periods", len(result.Revenue)),
		slog.Int("departments", len(result.Categories.Stats)),
		slog.Int("turnover_rows", len(result.Turnover)),
		slog.Int("slow_movers", len(result.SlowMovers)))
	return nil
}

func (s *AnalyzeStep) rank(table *domain.Table, params AnalysisParams, metric domain.RankMetric) ([]domain.ProductRank, error) {
	if params.TopDate != nil {
		ranks, err := dataprocessing.TopProductsOn(table, *params.TopDate, params.TopN, metric)
		if err != nil {
			return nil, fmt.Errorf("top products by %s on %s: %w", metric, params.TopDate.Format("2006-01-02"), err)
		}
		return ranks, nil
	}
	ranks, err := dataprocessing.TopProducts(table, params.TopN, metric)
	if err != nil {
		return nil, fmt.Errorf("top products by %s: %w", metric, err)
	}
	return ranks, nil
}

// ExportStep hands the result to every artifact writer
type ExportStep struct {
	BaseStep
	writers []ArtifactWriter
	logger  *slog.Logger
}

// NewExportStep creates the export step
func NewExportStep(logger *slog.Logger, writers ...ArtifactWriter) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, StepNameExport),
		writers:  writers,
		logger:   logger,
	}
}

// Validate requires an analysis result
func (s *ExportStep) Validate(state *RunState) error {
	if state.Result == nil {
		return apperrors.NewNoInputDataError("no analysis result to export")
	}
	return nil
}

// Execute runs every writer. A failing writer does not stop the others;
// the step fails afterwards with one error per failed writer.
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	var failures ErrorList
	for _, w := range s.writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		paths, err := w.Write(ctx, state.Result)
		state.AddArtifacts(paths...)
		if err != nil {
			s.logger.ErrorContext(ctx, "artifact writer failed",
				slog.String("writer", w.Name()),
				slog.String("error", err.Error()))
			failures.Add(NewWriterError(w.Name(), err))
			continue
		}
		s.logger.InfoContext(ctx, "artifacts written",
			slog.String("writer", w.Name()),
			slog.Int("files", len(paths)))
	}
	if failures.HasErrors() {
		return apperrors.NewStorageError("failed to write artifacts", &failures)
	}
	return nil
}
