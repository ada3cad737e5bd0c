package domain

import (
	"strconv"
	"strings"
	"time"
)

// Stable column names shared with the presentation layer.
const (
	ColumnDate          = "date"
	ColumnVisitors      = "방문자수"
	ColumnResolution    = "해상도"
	ColumnResolutionPct = "비율"
	ColumnCategory      = "category"
	ColumnCampaignName  = "campaign_name"
	ColumnCampaignDesc  = "campaign_desc"
	ColumnEstCost       = "est_cost"
	ColumnTargetCount   = "target_count"
)

// MetricRow is one dated row of a metric export. Cells are aligned with the
// owning table's Columns.
type MetricRow struct {
	Date  time.Time `json:"date"`
	Cells []string  `json:"cells"`
}

// MetricTable is a cleaned per-domain spreadsheet export with at most one row
// per date.
type MetricTable struct {
	Name    string      `json:"name"`
	Source  string      `json:"source,omitempty"`
	Columns []string    `json:"columns"`
	Rows    []MetricRow `json:"rows"`
}

// ColumnIndex returns the position of a column or -1
func (t *MetricTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column
func (t *MetricTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// String returns the trimmed cell value for column col, or "" when absent
func (t *MetricTable) String(row MetricRow, col string) string {
	idx := t.ColumnIndex(col)
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx])
}

// Float parses the cell for column col. ok is false when the cell is blank or
// not numeric.
func (t *MetricTable) Float(row MetricRow, col string) (value float64, ok bool) {
	raw := strings.ReplaceAll(t.String(row, col), ",", "")
	raw = strings.TrimSuffix(raw, "%")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AdSpendRecord is one campaign line of the ad spend export. Several records
// may share a date.
type AdSpendRecord struct {
	Date         time.Time `json:"date" validate:"required"`
	Category     string    `json:"category"`
	CampaignName string    `json:"campaign_name"`
	CampaignDesc string    `json:"campaign_desc"`
	EstCost      int64     `json:"est_cost" validate:"min=0"`
	TargetCount  int64     `json:"target_count" validate:"min=0"`
}

// VisitRow is one row of the unified visit table consumed by the dashboard
type VisitRow struct {
	Date            time.Time `json:"date"`
	Visitors        float64   `json:"방문자수"`
	Category        string    `json:"category"`
	CampaignName    string    `json:"campaign_name"`
	CampaignDesc    string    `json:"campaign_desc"`
	EstCost         int64     `json:"est_cost" validate:"min=0"`
	TargetCount     int64     `json:"target_count" validate:"min=0"`
	Resolution      string    `json:"해상도"`
	ResolutionShare float64   `json:"비율"`
	HasAd           int       `json:"has_ad" validate:"oneof=0 1"`
	IsAfterCutoff   int       `json:"is_after_0326" validate:"oneof=0 1"`
	IsWeekend       int       `json:"is_weekend" validate:"oneof=0 1"`
	DayOfWeek       string    `json:"day_of_week"`
	PrevDayVisitors *float64  `json:"prev_day_visitors"`
	DailyCost       int64     `json:"daily_cost" validate:"min=0"`
}

// UnifiedVisitTable is the joined, derived visit table sorted by date
type UnifiedVisitTable struct {
	JoinMode string     `json:"join_mode"`
	Rows     []VisitRow `json:"rows"`
}

// PreparedData is the complete output of one pipeline run
type PreparedData struct {
	Visits      *UnifiedVisitTable      `json:"visits"`
	Metrics     map[string]*MetricTable `json:"metrics"` // keyed "<name>_df"
	Fingerprint string                  `json:"fingerprint,omitempty"`
	PreparedAt  time.Time               `json:"prepared_at"`
}

// MetricKey returns the mapping key used for a metric table name
func MetricKey(name string) string {
	return name + "_df"
}

// Metric looks a cleaned table up by its bare name (e.g. "uv")
func (p *PreparedData) Metric(name string) (*MetricTable, bool) {
	t, ok := p.Metrics[MetricKey(name)]
	return t, ok
}
