package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"naads/internal/config"
)

// AdSpendHeader is the column order of the ad spend export
var AdSpendHeader = []string{"date", "category", "campaign_name", "campaign_desc", "est_cost", "target_count"}

// SourceFixtures writes analytics exports into a temporary data directory
type SourceFixtures struct {
	t   testing.TB
	Dir string
}

// NewSourceFixtures creates an empty data directory under t.TempDir()
func NewSourceFixtures(t testing.TB) *SourceFixtures {
	t.Helper()
	return &SourceFixtures{t: t, Dir: t.TempDir()}
}

// MetricPath returns where the workbook for name is written
func (f *SourceFixtures) MetricPath(name string) string {
	return filepath.Join(f.Dir, fmt.Sprintf(config.DefaultMetricFilePattern, name))
}

// AdSpendPath returns where the ad spend export is written
func (f *SourceFixtures) AdSpendPath() string {
	return filepath.Join(f.Dir, filepath.FromSlash(config.DefaultAdSpendFile))
}

// WriteMetric writes a single-sheet workbook with header and rows
func (f *SourceFixtures) WriteMetric(name string, header []string, rows ...[]interface{}) string {
	f.t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	require.NoError(f.t, wb.SetSheetRow(sheet, "A1", &headerCells))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(f.t, err)
		r := row
		require.NoError(f.t, wb.SetSheetRow(sheet, cell, &r))
	}

	path := f.MetricPath(name)
	require.NoError(f.t, wb.SaveAs(path))
	return path
}

// WriteAdSpend writes the ad spend CSV with the standard header
func (f *SourceFixtures) WriteAdSpend(records ...[]string) string {
	f.t.Helper()
	return f.WriteAdSpendRaw(append([][]string{AdSpendHeader}, records...)...)
}

// WriteAdSpendRaw writes the ad spend CSV exactly as given
func (f *SourceFixtures) WriteAdSpendRaw(lines ...[]string) string {
	f.t.Helper()

	path := f.AdSpendPath()
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))

	file, err := os.Create(path)
	require.NoError(f.t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(f.t, w.WriteAll(lines))
	return path
}

// WriteDefaults writes every configured metric table and an ad spend file.
//
// uv carries a duplicate for 2025-03-01 (100 then 150), no ads on 2025-03-02,
// two campaigns (1000 and 2000) on 2025-03-03, the 2025-03-25/26 cutoff pair
// and the excluded 2025-05-14. resolutionDashboard has no row for 2025-03-02.
func (f *SourceFixtures) WriteDefaults() {
	f.t.Helper()

	f.WriteMetric(config.MetricVisitors, []string{"date", "방문자수"},
		[]interface{}{"2025-03-01", 100},
		[]interface{}{"2025-03-01", 150},
		[]interface{}{"2025-03-02", 120},
		[]interface{}{"2025-03-03", 130},
		[]interface{}{"2025-03-25", 90},
		[]interface{}{"2025-03-26", 110},
		[]interface{}{"2025-05-14", 999},
	)
	f.WriteMetric(config.MetricResolution, []string{"date", "해상도", "비율"},
		[]interface{}{"2025-03-01", "1920x1080", 45.5},
		[]interface{}{"2025-03-03", "1366x768", "30.2%"},
		[]interface{}{"2025-03-25", "1920x1080", 40},
		[]interface{}{"2025-03-26", "1920x1080", 41},
		[]interface{}{"2025-05-14", "1920x1080", 99},
	)
	for _, name := range config.DefaultMetricTables {
		if name == config.MetricVisitors || name == config.MetricResolution {
			continue
		}
		f.WriteMetric(name, []string{"date", "value"},
			[]interface{}{"2025-03-01", 1},
			[]interface{}{"2025-03-01", 2},
			[]interface{}{"2025-03-02", 3},
			[]interface{}{"2025-05-14", 4},
		)
	}

	f.WriteAdSpend(
		[]string{"2025-03-01", "search", "brand", "brand keywords", "1,500", "10"},
		[]string{"2025-03-03", "social", "camp A", "spring promo", "1000", "5"},
		[]string{"2025-03-03", "social", "camp B", "retargeting", "2000", "7"},
		[]string{"2025-03-26", "search", "late", "late launch", "", ""},
	)
}

// Config returns the default configuration pointed at the fixture directory
func (f *SourceFixtures) Config() *config.Config {
	cfg := config.Default()
	cfg.Paths.BaseDir = f.Dir
	cfg.Paths.DataDir = f.Dir
	cfg.Paths.LogsDir = filepath.Join(f.Dir, "logs")
	cfg.Telemetry.MetricExporter = "none"
	return cfg
}

// Sources resolves the fixture source paths
func (f *SourceFixtures) Sources() config.Sources {
	return f.Config().Sources()
}

// Touch moves the modification time of path to at
func (f *SourceFixtures) Touch(path string, at time.Time) {
	f.t.Helper()
	require.NoError(f.t, os.Chtimes(path, at, at))
}

// Date parses a YYYY-MM-DD date in UTC
func Date(s string) time.Time {
	d, err := time.Parse(config.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
