package exporter

import (
	"io"

	"naads/pkg/contracts/domain"
)

// VisitTableHeaders is the column order of exported unified tables
var VisitTableHeaders = []string{
	domain.ColumnDate,
	domain.ColumnVisitors,
	domain.ColumnCategory,
	domain.ColumnCampaignName,
	domain.ColumnCampaignDesc,
	domain.ColumnEstCost,
	domain.ColumnTargetCount,
	domain.ColumnResolution,
	domain.ColumnResolutionPct,
	"has_ad",
	"is_after_0326",
	"is_weekend",
	"day_of_week",
	"prev_day_visitors",
	"daily_cost",
}

// VisitRecord formats one unified row in VisitTableHeaders order
func VisitRecord(r domain.VisitRow) []string {
	return []string{
		r.Date.Format("2006-01-02"),
		formatFloat(r.Visitors),
		r.Category,
		r.CampaignName,
		r.CampaignDesc,
		formatInt(r.EstCost),
		formatInt(r.TargetCount),
		r.Resolution,
		formatFloat(r.ResolutionShare),
		formatInt(int64(r.HasAd)),
		formatInt(int64(r.IsAfterCutoff)),
		formatInt(int64(r.IsWeekend)),
		r.DayOfWeek,
		formatOptionalFloat(r.PrevDayVisitors),
		formatInt(r.DailyCost),
	}
}

// VisitRecords formats every row of table
func VisitRecords(table *domain.UnifiedVisitTable) [][]string {
	if table == nil {
		return nil
	}
	records := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		records[i] = VisitRecord(r)
	}
	return records
}

// MetricRecords returns the cleaned cells of a metric table
func MetricRecords(table *domain.MetricTable) [][]string {
	records := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		records[i] = r.Cells
	}
	return records
}

// WriteVisitTableCSV writes the unified table as CSV with a UTF-8 BOM
func WriteVisitTableCSV(out io.Writer, table *domain.UnifiedVisitTable) error {
	return WriteCSVTo(out, VisitTableHeaders, VisitRecords(table), true)
}
