package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naads/internal/shared/testutil"
	"naads/pkg/contracts/domain"
)

func TestCollapseAdSpend(t *testing.T) {
	d1, d2 := testutil.Date("2025-03-03"), testutil.Date("2025-03-01")
	records := []domain.AdSpendRecord{
		{Date: d1, Category: "social", CampaignName: "A", CampaignDesc: "x", EstCost: 1000, TargetCount: 1},
		{Date: d2, Category: "search", CampaignName: "C", EstCost: 10},
		{Date: d1, Category: "social", CampaignName: "B", CampaignDesc: "y", EstCost: 2000, TargetCount: 2},
		{Date: d1, Category: "display", CampaignName: "A", CampaignDesc: "", EstCost: 5},
	}

	got := CollapseAdSpend(records)
	require.Len(t, got, 2)

	assert.Equal(t, d1, got[0].Date)
	assert.Equal(t, int64(3005), got[0].EstCost)
	assert.Equal(t, int64(3), got[0].TargetCount)
	assert.Equal(t, "A, B", got[0].CampaignName)
	assert.Equal(t, "x, y", got[0].CampaignDesc)
	assert.Equal(t, "social, display", got[0].Category)

	assert.Equal(t, d2, got[1].Date)
	assert.Equal(t, "C", got[1].CampaignName)
	assert.Equal(t, "", got[1].CampaignDesc)
}

func TestJoinAdSpend_CountsDefaultedVisitors(t *testing.T) {
	visits := &domain.MetricTable{
		Name:    "uv",
		Columns: []string{domain.ColumnDate, domain.ColumnVisitors},
		Rows: []domain.MetricRow{
			{Date: testutil.Date("2025-03-01"), Cells: []string{"2025-03-01", "1,200"}},
			{Date: testutil.Date("2025-03-02"), Cells: []string{"2025-03-02", ""}},
		},
	}

	rows, defaulted := JoinAdSpend(visits, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, 1200.0, rows[0].Visitors)
	assert.Equal(t, 0.0, rows[1].Visitors)
	assert.Equal(t, 1, defaulted)
}

func TestDerive_StableSortAndPrevious(t *testing.T) {
	rows := []domain.VisitRow{
		{Date: testutil.Date("2025-03-05"), Visitors: 50, EstCost: 10},
		{Date: testutil.Date("2025-03-01"), Visitors: 10, CampaignName: "first"},
		{Date: testutil.Date("2025-03-01"), Visitors: 10, CampaignName: "second"},
	}

	Derive(rows, testutil.Date("2025-03-05"))
	AggregateDailyCost(rows)

	assert.Equal(t, "first", rows[0].CampaignName)
	assert.Equal(t, "second", rows[1].CampaignName)
	assert.Nil(t, rows[0].PrevDayVisitors)
	assert.Equal(t, 10.0, *rows[1].PrevDayVisitors)
	assert.Equal(t, 10.0, *rows[2].PrevDayVisitors, "gaps between dates are ignored")

	assert.Equal(t, 1, rows[2].HasAd)
	assert.Equal(t, 1, rows[2].IsAfterCutoff)
	assert.Equal(t, "Wednesday", rows[2].DayOfWeek)
	assert.Equal(t, int64(10), rows[2].DailyCost)
	assert.Equal(t, int64(0), rows[0].DailyCost)
}
