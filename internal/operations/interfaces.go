package operations

import (
	"context"

	"salespulse/pkg/contracts/domain"
)

// ArtifactWriter renders an analysis result to files. The text report, the
// table exports and the chart set are all artifact writers.
type ArtifactWriter interface {
	// Name identifies the writer in logs and errors
	Name() string

	// Write renders the result and returns the paths it wrote
	Write(ctx context.Context, result *domain.AnalysisResult) ([]string, error)
}
