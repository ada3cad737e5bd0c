package dataprocessing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "naads/internal/errors"
	"naads/internal/shared/testutil"
	"naads/pkg/contracts/domain"
)

func TestLoadMetricTable_DeduplicatesAndExcludes(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()

	table, stats, err := LoadMetricTable("uv", fx.MetricPath("uv"), LoadOptions{
		ExcludedDates:   []time.Time{testutil.Date("2025-05-14")},
		RequiredColumns: []string{domain.ColumnVisitors},
	})
	require.NoError(t, err)

	assert.Equal(t, "uv", table.Name)
	assert.Equal(t, []string{"date", "방문자수"}, table.Columns)
	require.Len(t, table.Rows, 5)
	assert.Equal(t, 7, stats.RawRows)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.ExcludedRows)
	assert.Equal(t, 5, stats.RetainedRows)

	first := table.Rows[0]
	assert.Equal(t, testutil.Date("2025-03-01"), first.Date)
	visitors, ok := table.Float(first, domain.ColumnVisitors)
	require.True(t, ok)
	assert.Equal(t, 100.0, visitors, "first occurrence must win")

	seen := make(map[time.Time]bool)
	for _, row := range table.Rows {
		assert.False(t, seen[row.Date], "duplicate date %s", row.Date)
		seen[row.Date] = true
		assert.NotEqual(t, testutil.Date("2025-05-14"), row.Date)
	}
}

func TestLoadMetricTable_SerialAndBlankDates(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	path := fx.WriteMetric("pv", []string{"date", "페이지뷰"},
		[]interface{}{45717, 10},
		[]interface{}{"", 11},
		[]interface{}{"2025-03-02", 12},
	)

	table, stats, err := LoadMetricTable("pv", path, LoadOptions{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, testutil.Date("2025-03-01"), table.Rows[0].Date)
	assert.Equal(t, "2025-03-01", table.String(table.Rows[0], domain.ColumnDate))
	assert.Equal(t, testutil.Date("2025-03-02"), table.Rows[1].Date)
	assert.Equal(t, 1, stats.BlankDates)
}

func TestLoadMetricTable_Errors(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)

	tests := []struct {
		name     string
		setup    func() string
		opts     LoadOptions
		wantType apperrors.ErrorType
		column   string
	}{
		{
			name:     "missing file",
			setup:    func() string { return filepath.Join(fx.Dir, "nope_data.xlsx") },
			wantType: apperrors.ErrTypeSourceMissing,
		},
		{
			name: "no date column",
			setup: func() string {
				return fx.WriteMetric("uv", []string{"day", "방문자수"}, []interface{}{"2025-03-01", 1})
			},
			wantType: apperrors.ErrTypeSchemaMismatch,
			column:   domain.ColumnDate,
		},
		{
			name: "missing required column",
			setup: func() string {
				return fx.WriteMetric("resolutionDashboard", []string{"date", "해상도"}, []interface{}{"2025-03-01", "1920x1080"})
			},
			opts:     LoadOptions{RequiredColumns: []string{domain.ColumnResolution, domain.ColumnResolutionPct}},
			wantType: apperrors.ErrTypeSchemaMismatch,
			column:   domain.ColumnResolutionPct,
		},
		{
			name: "unparseable date",
			setup: func() string {
				return fx.WriteMetric("pv", []string{"date", "value"}, []interface{}{"not a date", 1})
			},
			wantType: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadMetricTable("table", tt.setup(), tt.opts)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)

			if tt.column != "" {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.column, appErr.Context["column"])
			}
		})
	}
}
