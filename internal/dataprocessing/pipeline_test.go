package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naads/internal/config"
	apperrors "naads/internal/errors"
	"naads/internal/shared/testutil"
	"naads/pkg/contracts/domain"
)

func newFixturePipeline(t *testing.T, fx *testutil.SourceFixtures, mutate func(*config.Config)) (*Pipeline, *testutil.BufferedSlogHandler) {
	t.Helper()

	cfg := fx.Config()
	if mutate != nil {
		mutate(cfg)
	}
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	logger, handler := testutil.NewTestLogger(t)
	return NewPipeline(opts, logger, nil), handler
}

func rowsOn(rows []domain.VisitRow, date string) []domain.VisitRow {
	var out []domain.VisitRow
	for _, r := range rows {
		if r.Date.Equal(testutil.Date(date)) {
			out = append(out, r)
		}
	}
	return out
}

func TestPipeline_Run_Fanout(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()
	p, logs := newFixturePipeline(t, fx, nil)

	data, err := p.Run(context.Background())
	require.NoError(t, err)
	testutil.AssertNoErrors(t, logs)
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Pipeline completed")

	rows := data.Visits.Rows
	assert.Equal(t, config.JoinModeFanout, data.Visits.JoinMode)
	require.Len(t, rows, 6)

	t.Run("dedup keeps first visitor count", func(t *testing.T) {
		day := rowsOn(rows, "2025-03-01")
		require.Len(t, day, 1)
		assert.Equal(t, 100.0, day[0].Visitors)
		assert.Equal(t, int64(1500), day[0].EstCost)
		assert.Equal(t, "1920x1080", day[0].Resolution)
		assert.Equal(t, 45.5, day[0].ResolutionShare)
	})

	t.Run("date without ads gets defaults", func(t *testing.T) {
		day := rowsOn(rows, "2025-03-02")
		require.Len(t, day, 1)
		assert.Equal(t, int64(0), day[0].EstCost)
		assert.Equal(t, int64(0), day[0].TargetCount)
		assert.Equal(t, "", day[0].CampaignName)
		assert.Equal(t, "", day[0].CampaignDesc)
		assert.Equal(t, 0, day[0].HasAd)
		assert.Equal(t, "", day[0].Resolution)
		assert.Equal(t, 0.0, day[0].ResolutionShare)
	})

	t.Run("campaigns sharing a date fan out with summed daily cost", func(t *testing.T) {
		day := rowsOn(rows, "2025-03-03")
		require.Len(t, day, 2)
		assert.Equal(t, "camp A", day[0].CampaignName)
		assert.Equal(t, "camp B", day[1].CampaignName)
		for _, r := range day {
			assert.Equal(t, int64(3000), r.DailyCost)
			assert.Equal(t, 130.0, r.Visitors)
			assert.Equal(t, 30.2, r.ResolutionShare)
		}
	})

	t.Run("after cutoff flag", func(t *testing.T) {
		assert.Equal(t, 0, rowsOn(rows, "2025-03-25")[0].IsAfterCutoff)
		assert.Equal(t, 1, rowsOn(rows, "2025-03-26")[0].IsAfterCutoff)
	})

	t.Run("previous day visitors", func(t *testing.T) {
		assert.Nil(t, rows[0].PrevDayVisitors)
		require.NotNil(t, rows[1].PrevDayVisitors)
		assert.Equal(t, rows[0].Visitors, *rows[1].PrevDayVisitors)
		// fan-out rows repeat the visit count of the same date
		require.NotNil(t, rows[3].PrevDayVisitors)
		assert.Equal(t, 130.0, *rows[3].PrevDayVisitors)
	})

	t.Run("weekday columns", func(t *testing.T) {
		sat := rowsOn(rows, "2025-03-01")[0]
		assert.Equal(t, "Saturday", sat.DayOfWeek)
		assert.Equal(t, 1, sat.IsWeekend)
		mon := rowsOn(rows, "2025-03-03")[0]
		assert.Equal(t, "Monday", mon.DayOfWeek)
		assert.Equal(t, 0, mon.IsWeekend)
	})

	t.Run("row invariants", func(t *testing.T) {
		daily := make(map[time.Time]int64)
		for _, r := range rows {
			daily[r.Date] += r.EstCost
		}
		for i, r := range rows {
			assert.GreaterOrEqual(t, r.EstCost, int64(0))
			assert.GreaterOrEqual(t, r.TargetCount, int64(0))
			assert.Equal(t, r.EstCost > 0, r.HasAd == 1)
			wd := r.Date.Weekday()
			assert.Equal(t, wd == time.Saturday || wd == time.Sunday, r.IsWeekend == 1)
			assert.Equal(t, daily[r.Date], r.DailyCost)
			if i > 0 {
				assert.False(t, r.Date.Before(rows[i-1].Date), "rows must be sorted by date")
			}
		}
	})

	t.Run("metric tables", func(t *testing.T) {
		assert.Len(t, data.Metrics, len(config.DefaultMetricTables))
		for _, name := range config.DefaultMetricTables {
			table, ok := data.Metric(name)
			require.True(t, ok, name)

			seen := make(map[time.Time]bool)
			for _, row := range table.Rows {
				assert.False(t, seen[row.Date], "%s has duplicate date %s", name, row.Date)
				seen[row.Date] = true
				assert.NotEqual(t, testutil.Date("2025-05-14"), row.Date, name)
			}
		}
		_, ok := data.Metrics["uv_df"]
		assert.True(t, ok)
	})
}

func TestPipeline_Run_Collapse(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()
	p, _ := newFixturePipeline(t, fx, func(cfg *config.Config) {
		cfg.Pipeline.AdJoinMode = config.JoinModeCollapse
	})

	data, err := p.Run(context.Background())
	require.NoError(t, err)

	rows := data.Visits.Rows
	assert.Equal(t, config.JoinModeCollapse, data.Visits.JoinMode)
	require.Len(t, rows, 5, "one row per visit date")

	day := rowsOn(rows, "2025-03-03")
	require.Len(t, day, 1)
	assert.Equal(t, int64(3000), day[0].EstCost)
	assert.Equal(t, int64(3000), day[0].DailyCost)
	assert.Equal(t, int64(12), day[0].TargetCount)
	assert.Equal(t, "camp A, camp B", day[0].CampaignName)
	assert.Equal(t, "spring promo, retargeting", day[0].CampaignDesc)
	assert.Equal(t, "social", day[0].Category)
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()
	p, _ := newFixturePipeline(t, fx, nil)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Visits, second.Visits)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestPipeline_Run_ConfiguredExclusions(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()
	p, _ := newFixturePipeline(t, fx, func(cfg *config.Config) {
		cfg.Pipeline.ExcludedDates = []string{"2025-03-02"}
		cfg.Pipeline.AfterCutoff = "2025-03-03"
	})

	data, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, rowsOn(data.Visits.Rows, "2025-03-02"))
	assert.Len(t, rowsOn(data.Visits.Rows, "2025-05-14"), 1, "default exclusion was replaced")
	assert.Equal(t, 1, rowsOn(data.Visits.Rows, "2025-03-03")[0].IsAfterCutoff)
}

func TestPipeline_Run_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(fx *testutil.SourceFixtures)
		wantType apperrors.ErrorType
	}{
		{
			name: "missing metric workbook",
			setup: func(fx *testutil.SourceFixtures) {
				require.NoError(t, os.Remove(fx.MetricPath("timeline")))
			},
			wantType: apperrors.ErrTypeSourceMissing,
		},
		{
			name: "missing ad spend",
			setup: func(fx *testutil.SourceFixtures) {
				require.NoError(t, os.Remove(fx.AdSpendPath()))
			},
			wantType: apperrors.ErrTypeSourceMissing,
		},
		{
			name: "visitor column missing",
			setup: func(fx *testutil.SourceFixtures) {
				fx.WriteMetric("uv", []string{"date", "visitors"}, []interface{}{"2025-03-01", 1})
			},
			wantType: apperrors.ErrTypeSchemaMismatch,
		},
		{
			name: "ad spend column missing",
			setup: func(fx *testutil.SourceFixtures) {
				fx.WriteAdSpendRaw([]string{"date", "est_cost"}, []string{"2025-03-01", "1"})
			},
			wantType: apperrors.ErrTypeSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := testutil.NewSourceFixtures(t)
			fx.WriteDefaults()
			tt.setup(fx)
			p, _ := newFixturePipeline(t, fx, nil)

			data, err := p.Run(context.Background())
			assert.Nil(t, data)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestPipeline_Run_Canceled(t *testing.T) {
	fx := testutil.NewSourceFixtures(t)
	fx.WriteDefaults()
	p, _ := newFixturePipeline(t, fx, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions_Key(t *testing.T) {
	cfg := config.Default()
	a, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	cfg.Pipeline.AdJoinMode = config.JoinModeCollapse
	b, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a.Key(), b.Key())
	assert.Contains(t, a.Key(), "excluded=2025-05-14")
	assert.Equal(t, a.Key(), Options{
		ExcludedDates: []time.Time{testutil.Date("2025-05-14")},
		AfterCutoff:   testutil.Date("2025-03-26"),
	}.Key(), "empty join mode means fanout")
}
