package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"naads/internal/config"
	apperrors "naads/internal/errors"
)

// SourceStatus reports the availability of one pipeline input
type SourceStatus struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// SourceValidator checks pipeline inputs before and outside of a run
type SourceValidator struct {
	logger *slog.Logger
}

// NewSourceValidator creates a new source validator
func NewSourceValidator(logger *slog.Logger) *SourceValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceValidator{logger: logger}
}

// ValidateSources returns a SOURCE_MISSING error for the first metric
// workbook or ad spend file that is absent or unreadable.
func (v *SourceValidator) ValidateSources(src config.Sources) error {
	for _, st := range v.Check(src) {
		if !st.Available {
			return apperrors.NewSourceMissingError(st.Name, st.Path, fmt.Errorf("%s", st.Error))
		}
	}
	return nil
}

// Check reports the status of every source, metric tables first
func (v *SourceValidator) Check(src config.Sources) []SourceStatus {
	statuses := make([]SourceStatus, 0, len(src.MetricNames)+1)
	for _, name := range src.MetricNames {
		statuses = append(statuses, v.status(name, src.Metrics[name], v.ValidateExcelFile))
	}
	statuses = append(statuses, v.status("ads", src.AdSpend, v.ValidateCSVFile))
	return statuses
}

func (v *SourceValidator) status(name, path string, check func(string) error) SourceStatus {
	st := SourceStatus{Name: name, Path: path, Available: true}
	if err := check(path); err != nil {
		st.Available = false
		st.Error = err.Error()
	}
	return st
}

// ValidateFile checks that a file exists and is readable
func (v *SourceValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Warn("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Warn("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a readable workbook
func (v *SourceValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" {
		return fmt.Errorf("file %s is not an Excel workbook (extension: %s)", path, ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	return nil
}

// ValidateCSVFile checks that path is a readable CSV file
func (v *SourceValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		return fmt.Errorf("file %s is not a CSV file (extension: %s)", path, ext)
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable
func (v *SourceValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
