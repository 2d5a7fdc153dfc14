package operations

import (
	"time"

	"salespulse/pkg/contracts/domain"
)

// Analysis step identifiers
const (
	StepIDLoad    = "load"
	StepIDClean   = "clean"
	StepIDAnalyze = "analyze"
	StepIDExport  = "export"
)

// Analysis step names
const (
	StepNameLoad    = "Data Loading"
	StepNameClean   = "Data Cleansing"
	StepNameAnalyze = "Analytics"
	StepNameExport  = "Report Export"
)

// Default timeouts
const (
	DefaultStepTimeout   = 10 * time.Minute
	DefaultExportTimeout = 5 * time.Minute
)

// RunRequest describes one analysis run
type RunRequest struct {
	ID     string         `json:"id"`
	Files  []string       `json:"files"`
	Params AnalysisParams `json:"params"`
	// Now anchors the slow-mover window; zero means time.Now.
	Now time.Time `json:"now"`
}

// RunResponse is the outcome of a run
type RunResponse struct {
	ID        string                 `json:"id"`
	Status    RunStatus              `json:"status"`
	Steps     map[string]*StepState  `json:"steps"`
	Result    *domain.AnalysisResult `json:"result,omitempty"`
	Loaded    []LoadedFile           `json:"loaded"`
	Skipped   []SkippedFile          `json:"skipped"`
	Artifacts []string               `json:"artifacts"`
	Duration  time.Duration          `json:"duration"`
	Error     string                 `json:"error,omitempty"`
}

// LoadedFile records a file that contributed rows
type LoadedFile struct {
	Path      string `json:"path"`
	Encoding  string `json:"encoding"`
	Delimiter string `json:"delimiter"`
	Rows      int    `json:"rows"`
}

// SkippedFile records a file left out of the run and why
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}
