package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sources is the resolved set of files the preparation pipeline reads
type Sources struct {
	DataDir     string
	MetricNames []string          // load order
	Metrics     map[string]string // metric name -> absolute xlsx path
	AdSpend     string
}

// Sources resolves every pipeline input relative to the data directory
func (c *Config) Sources() Sources {
	s := Sources{
		DataDir:     c.Paths.DataDir,
		MetricNames: append([]string(nil), c.Pipeline.MetricTables...),
		Metrics:     make(map[string]string, len(c.Pipeline.MetricTables)),
		AdSpend:     c.resolveDataPath(c.Pipeline.AdSpendFile),
	}
	for _, name := range c.Pipeline.MetricTables {
		s.Metrics[name] = c.resolveDataPath(fmt.Sprintf(c.Pipeline.MetricFilePattern, name))
	}
	return s
}

// All returns every source path, metric tables first then the ad spend file
func (s Sources) All() []string {
	paths := make([]string, 0, len(s.MetricNames)+1)
	for _, name := range s.MetricNames {
		paths = append(paths, s.Metrics[name])
	}
	return append(paths, s.AdSpend)
}

// Dirs returns the distinct directories containing sources
func (s Sources) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range s.All() {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// ExcludedDates parses the configured exclusion list
func (c *Config) ExcludedDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.Pipeline.ExcludedDates))
	for _, raw := range c.Pipeline.ExcludedDates {
		d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid excluded date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// AfterCutoffDate parses the is_after cutoff
func (c *Config) AfterCutoffDate() (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(c.Pipeline.AfterCutoff))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid after cutoff %q: %w", c.Pipeline.AfterCutoff, err)
	}
	return d, nil
}

func (c *Config) resolveDataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DataDir, filepath.FromSlash(name))
}

// EnsureDirectories creates the log directory when file logging is enabled
func (c *Config) EnsureDirectories() error {
	if c.Logging.Output == "console" || c.Paths.LogsDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %w", c.Paths.LogsDir, err)
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (c *Config) LogPathResolution(logger *slog.Logger) {
	s := c.Sources()
	logger.Info("Path resolution",
		slog.String("base_dir", c.Paths.BaseDir),
		slog.String("data_dir", s.DataDir),
		slog.String("ad_spend", s.AdSpend),
		slog.Int("metric_tables", len(s.MetricNames)))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
