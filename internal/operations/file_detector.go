package operations

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileDetector expands run inputs. A directory stands for the transaction
// logs it contains; any other path is passed through unchanged so missing
// files are still reported by the load step.
type FileDetector struct {
	logger *slog.Logger
}

// NewFileDetector creates a new FileDetector with optional logger
func NewFileDetector(logger *slog.Logger) *FileDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDetector{logger: logger}
}

// ResolveInputs replaces every directory in paths with its CSV files in
// name order. Input order is otherwise kept.
func (fd *FileDetector) ResolveInputs(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			resolved = append(resolved, path)
			continue
		}

		files, err := fd.DetectCSVFiles(path)
		if err != nil {
			fd.logger.Warn("Failed to list input directory",
				slog.String("directory", path),
				slog.String("error", err.Error()))
			continue
		}
		if len(files) == 0 {
			fd.logger.Warn("Input directory holds no CSV files",
				slog.String("directory", path))
		}
		resolved = append(resolved, files...)
	}
	return resolved
}

// DetectCSVFiles lists the .csv files directly under dir, sorted by name.
// Hidden files and office lock files (~$) are ignored.
func (fd *FileDetector) DetectCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".csv") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	fd.logger.Debug("CSV detection results",
		slog.String("directory", dir),
		slog.Int("count", len(files)))
	return files, nil
}
