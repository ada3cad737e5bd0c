package domain

import "time"

// DashboardSummary holds the scalar tiles and chart series of the dashboard
type DashboardSummary struct {
	PeriodStart     time.Time        `json:"period_start"`
	PeriodEnd       time.Time        `json:"period_end"`
	RowCount        int              `json:"row_count"`
	TotalVisitors   float64          `json:"total_visitors"`
	MeanVisitors    float64          `json:"mean_visitors"`
	MaxVisitors     float64          `json:"max_visitors"`
	TotalEstCost    int64            `json:"total_est_cost"`
	EstCostAxisMax  float64          `json:"est_cost_axis_max"`
	VisitSeries     []SeriesPoint    `json:"visit_series"`
	AdMarkers       []AdMarker       `json:"ad_markers"`
	WeekdayAverages []WeekdayAverage `json:"weekday_averages"`
	WeekdayMean     float64          `json:"weekday_mean"`
}

// SeriesPoint is one point of the visits vs. ad spend time series
type SeriesPoint struct {
	Date      time.Time `json:"date"`
	Visitors  float64   `json:"visitors"`
	EstCost   int64     `json:"est_cost"`
	IsWeekend bool      `json:"is_weekend"`
}

// AdMarker marks a row with ad spend on the visits chart
type AdMarker struct {
	Date         time.Time `json:"date"`
	Visitors     float64   `json:"visitors"`
	Category     string    `json:"category"`
	CampaignDesc string    `json:"campaign_desc"`
	EstCost      int64     `json:"est_cost"`
}

// WeekdayAverage is the mean visitor count for one weekday
type WeekdayAverage struct {
	DayOfWeek    string  `json:"day_of_week"`
	MeanVisitors float64 `json:"mean_visitors"`
	Rows         int     `json:"rows"`
	HasData      bool    `json:"has_data"`
	IsWeekend    bool    `json:"is_weekend"`
}
