package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"naads/pkg/contracts/domain"
)

// CollapseAdSpend merges records sharing a date into one record. Costs and
// counts are summed; distinct non-empty texts are joined with ", " in order of
// first appearance. Output is ordered by first appearance of each date.
func CollapseAdSpend(records []domain.AdSpendRecord) []domain.AdSpendRecord {
	type group struct {
		record     domain.AdSpendRecord
		categories []string
		names      []string
		descs      []string
	}

	var order []time.Time
	groups := make(map[time.Time]*group)
	for _, r := range records {
		g, ok := groups[r.Date]
		if !ok {
			g = &group{record: domain.AdSpendRecord{Date: r.Date}}
			groups[r.Date] = g
			order = append(order, r.Date)
		}
		g.record.EstCost += r.EstCost
		g.record.TargetCount += r.TargetCount
		g.categories = appendDistinct(g.categories, r.Category)
		g.names = appendDistinct(g.names, r.CampaignName)
		g.descs = appendDistinct(g.descs, r.CampaignDesc)
	}

	out := make([]domain.AdSpendRecord, 0, len(order))
	for _, d := range order {
		g := groups[d]
		g.record.Category = strings.Join(g.categories, ", ")
		g.record.CampaignName = strings.Join(g.names, ", ")
		g.record.CampaignDesc = strings.Join(g.descs, ", ")
		out = append(out, g.record)
	}
	return out
}

func appendDistinct(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// JoinAdSpend left-joins the visitor table with ad spend on date. Each visit
// row yields one unified row per matching ad record, or one row with empty
// campaign fields when the date had no ads. defaulted counts visitor cells
// that were blank or not numeric.
func JoinAdSpend(visits *domain.MetricTable, ads []domain.AdSpendRecord) (rows []domain.VisitRow, defaulted int) {
	byDate := make(map[time.Time][]domain.AdSpendRecord)
	for _, ad := range ads {
		byDate[ad.Date] = append(byDate[ad.Date], ad)
	}

	rows = make([]domain.VisitRow, 0, len(visits.Rows))
	for _, v := range visits.Rows {
		visitors, ok := visits.Float(v, domain.ColumnVisitors)
		if !ok {
			defaulted++
		}

		matches := byDate[v.Date]
		if len(matches) == 0 {
			rows = append(rows, domain.VisitRow{Date: v.Date, Visitors: visitors})
			continue
		}
		for _, ad := range matches {
			rows = append(rows, domain.VisitRow{
				Date:         v.Date,
				Visitors:     visitors,
				Category:     ad.Category,
				CampaignName: ad.CampaignName,
				CampaignDesc: ad.CampaignDesc,
				EstCost:      ad.EstCost,
				TargetCount:  ad.TargetCount,
			})
		}
	}
	return rows, defaulted
}

// JoinResolution attaches the resolution and its share for each row's date.
// Dates absent from the resolution table keep "" and 0. defaulted counts
// share cells that were present but not numeric.
func JoinResolution(rows []domain.VisitRow, resolution *domain.MetricTable) (defaulted int) {
	type entry struct {
		name  string
		share float64
	}

	byDate := make(map[time.Time]entry, len(resolution.Rows))
	for _, r := range resolution.Rows {
		share, ok := resolution.Float(r, domain.ColumnResolutionPct)
		if !ok && resolution.String(r, domain.ColumnResolutionPct) != "" {
			defaulted++
		}
		byDate[r.Date] = entry{
			name:  resolution.String(r, domain.ColumnResolution),
			share: share,
		}
	}

	for i := range rows {
		if e, ok := byDate[rows[i].Date]; ok {
			rows[i].Resolution = e.name
			rows[i].ResolutionShare = e.share
		}
	}
	return defaulted
}

// Derive sorts rows by date (stable) and fills the derived columns. Rows dated
// on or after cutoff are flagged as after the cutoff. The previous-day value
// is the visitor count of the preceding row regardless of date gaps.
func Derive(rows []domain.VisitRow, cutoff time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	cutoff = truncateDay(cutoff)
	for i := range rows {
		r := &rows[i]
		r.HasAd = boolToInt(r.EstCost > 0)
		r.IsAfterCutoff = boolToInt(!r.Date.Before(cutoff))
		r.IsWeekend = boolToInt(isWeekend(r.Date))
		r.DayOfWeek = r.Date.Weekday().String()
		r.PrevDayVisitors = nil
		if i > 0 {
			prev := rows[i-1].Visitors
			r.PrevDayVisitors = &prev
		}
	}
}

// AggregateDailyCost sets daily_cost on every row to the total est_cost of
// all rows sharing its date.
func AggregateDailyCost(rows []domain.VisitRow) {
	totals := make(map[time.Time]int64)
	for _, r := range rows {
		totals[r.Date] += r.EstCost
	}
	for i := range rows {
		rows[i].DailyCost = totals[rows[i].Date]
	}
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
