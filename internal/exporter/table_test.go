package exporter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"naads/internal/shared/testutil"
	"naads/pkg/contracts/domain"
)

func sampleData() *domain.PreparedData {
	prev := 100.0
	return &domain.PreparedData{
		Visits: &domain.UnifiedVisitTable{
			JoinMode: "fanout",
			Rows: []domain.VisitRow{
				{
					Date: testutil.Date("2025-03-01"), Visitors: 100, Category: "search",
					CampaignName: "brand", CampaignDesc: "brand keywords", EstCost: 1500, TargetCount: 10,
					Resolution: "1920x1080", ResolutionShare: 45.5, HasAd: 1, IsWeekend: 1,
					DayOfWeek: "Saturday", DailyCost: 1500,
				},
				{
					Date: testutil.Date("2025-03-02"), Visitors: 120, IsWeekend: 1,
					DayOfWeek: "Sunday", PrevDayVisitors: &prev,
				},
			},
		},
		Metrics: map[string]*domain.MetricTable{
			"uv_df": {
				Name:    "uv",
				Columns: []string{"date", "방문자수"},
				Rows: []domain.MetricRow{
					{Date: testutil.Date("2025-03-01"), Cells: []string{"2025-03-01", "100"}},
				},
			},
			"pv_df": {
				Name:    "pv",
				Columns: []string{"date", "value"},
				Rows:    []domain.MetricRow{},
			},
		},
	}
}

func TestWriteVisitTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVisitTableCSV(&buf, sampleData().Visits))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, VisitTableHeaders, records[0])
	assert.Equal(t, []string{
		"2025-03-01", "100", "search", "brand", "brand keywords", "1500", "10",
		"1920x1080", "45.5", "1", "0", "1", "Saturday", "", "1500",
	}, records[1])
	assert.Equal(t, "100", records[2][13], "prev_day_visitors")
	assert.Equal(t, "0", records[2][5], "est_cost defaults to 0")
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dashboard.xlsx")
	require.NoError(t, SaveWorkbook(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{VisitsSheet, "pv", "uv"}, f.GetSheetList())

	rows, err := f.GetRows(VisitsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, VisitTableHeaders, rows[0])
	assert.Equal(t, "2025-03-01", rows[1][0])
	assert.Equal(t, "1500", rows[1][5])

	uv, err := f.GetRows("uv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"date", "방문자수"}, {"2025-03-01", "100"}}, uv)
}

func TestWriteWorkbook_RequiresData(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteWorkbook(&buf, nil))
	assert.Error(t, WriteWorkbook(&buf, &domain.PreparedData{}))

	require.NoError(t, WriteWorkbook(&buf, sampleData()))
	assert.NotZero(t, buf.Len())
}
