package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file location used by an analysis run.
// This is the single source of truth for output paths.
type Paths struct {
	BaseDir     string
	ReportFile  string
	ChartsDir   string
	ExportDir   string
	LogFile     string
	TraceFile   string
	MetricsFile string
}

// GetPaths resolves the configured locations. Relative paths are anchored
// at Output.BaseDir, or the working directory when it is empty.
func (c *Config) GetPaths() (*Paths, error) {
	base := c.Output.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:     base,
		ReportFile:  resolve(c.Output.ReportFile),
		ChartsDir:   resolve(c.Output.ChartsDir),
		ExportDir:   resolve(c.Output.ExportDir),
		LogFile:     resolve(c.Logging.FilePath),
		TraceFile:   resolve(c.Telemetry.TraceFile),
		MetricsFile: resolve(c.Telemetry.MetricsFile),
	}, nil
}

// EnsureDirectories creates the directories that artifacts are written to
func (p *Paths) EnsureDirectories(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	directories := []string{
		filepath.Dir(p.ReportFile),
		p.ChartsDir,
		p.ExportDir,
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// ChartPath returns the location of a chart image
func (p *Paths) ChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// ExportPath returns the location of an exported table
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs the resolved locations
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.String("base", p.BaseDir),
		slog.Group("outputs",
			slog.String("report", p.ReportFile),
			slog.String("charts", p.ChartsDir),
			slog.String("exports", p.ExportDir),
		),
		slog.Group("telemetry",
			slog.String("log", p.LogFile),
			slog.String("traces", p.TraceFile),
			slog.String("metrics", p.MetricsFile),
		))
}
