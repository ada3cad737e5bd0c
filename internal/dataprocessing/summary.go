package dataprocessing

import (
	"time"

	"naads/pkg/contracts/domain"
)

// estCostAxisHeadroom scales the largest daily spend to size the spend axis
const estCostAxisHeadroom = 1.1

// weekdayOrder is the presentation order of the weekday chart
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Summarize computes the dashboard tiles and chart series. Totals and
// averages are taken over the table rows as they are, so a date with several
// campaigns contributes its visitor count once per campaign row.
func Summarize(table *domain.UnifiedVisitTable) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{
		VisitSeries: []domain.SeriesPoint{},
		AdMarkers:   []domain.AdMarker{},
	}
	if table == nil {
		summary.WeekdayAverages = weekdayAverages(nil)
		return summary
	}

	rows := table.Rows
	summary.RowCount = len(rows)
	summary.WeekdayAverages = weekdayAverages(rows)
	summary.WeekdayMean = weekdayMean(summary.WeekdayAverages)
	if len(rows) == 0 {
		return summary
	}

	summary.PeriodStart = rows[0].Date
	summary.PeriodEnd = rows[0].Date
	summary.MaxVisitors = rows[0].Visitors
	var maxCost int64

	for _, r := range rows {
		if r.Date.Before(summary.PeriodStart) {
			summary.PeriodStart = r.Date
		}
		if r.Date.After(summary.PeriodEnd) {
			summary.PeriodEnd = r.Date
		}
		if r.Visitors > summary.MaxVisitors {
			summary.MaxVisitors = r.Visitors
		}
		if r.EstCost > maxCost {
			maxCost = r.EstCost
		}
		summary.TotalVisitors += r.Visitors
		summary.TotalEstCost += r.EstCost

		summary.VisitSeries = append(summary.VisitSeries, domain.SeriesPoint{
			Date:      r.Date,
			Visitors:  r.Visitors,
			EstCost:   r.EstCost,
			IsWeekend: r.IsWeekend == 1,
		})
		if r.EstCost > 0 {
			summary.AdMarkers = append(summary.AdMarkers, domain.AdMarker{
				Date:         r.Date,
				Visitors:     r.Visitors,
				Category:     r.Category,
				CampaignDesc: r.CampaignDesc,
				EstCost:      r.EstCost,
			})
		}
	}

	summary.MeanVisitors = summary.TotalVisitors / float64(len(rows))
	summary.EstCostAxisMax = float64(maxCost) * estCostAxisHeadroom
	return summary
}

func weekdayAverages(rows []domain.VisitRow) []domain.WeekdayAverage {
	sums := make(map[time.Weekday]float64, 7)
	counts := make(map[time.Weekday]int, 7)
	for _, r := range rows {
		wd := r.Date.Weekday()
		sums[wd] += r.Visitors
		counts[wd]++
	}

	averages := make([]domain.WeekdayAverage, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		avg := domain.WeekdayAverage{
			DayOfWeek: wd.String(),
			Rows:      counts[wd],
			HasData:   counts[wd] > 0,
			IsWeekend: wd == time.Saturday || wd == time.Sunday,
		}
		if avg.HasData {
			avg.MeanVisitors = sums[wd] / float64(counts[wd])
		}
		averages = append(averages, avg)
	}
	return averages
}

// weekdayMean averages the weekdays that have data
func weekdayMean(averages []domain.WeekdayAverage) float64 {
	var sum float64
	var n int
	for _, a := range averages {
		if a.HasData {
			sum += a.MeanVisitors
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
