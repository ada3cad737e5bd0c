package config

import (
	"time"

	"naads/pkg/contracts"
)

// Application constants
const (
	AppName    = "NA Ads Dashboard"
	AppVersion = contracts.Version

	DefaultPort      = 8501
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	DefaultMetricFilePattern = "%s_data.xlsx"
	DefaultAdSpendFile       = "ads/ad_2025_02_2025_05.csv"

	// DefaultExcludedDate is a known-bad export day dropped from every metric table.
	DefaultExcludedDate = "2025-05-14"
	DefaultAfterCutoff  = "2025-03-26"

	DefaultCacheEntries = 4

	DateLayout = "2006-01-02"
)

// Ad spend join modes
const (
	JoinModeFanout   = "fanout"
	JoinModeCollapse = "collapse"
)

// Well-known metric tables referenced by name in the pipeline
const (
	MetricVisitors   = "uv"
	MetricResolution = "resolutionDashboard"
)

// DefaultMetricTables lists the spreadsheet exports the dashboard loads
var DefaultMetricTables = []string{
	"browserDashboard", "durationTime", "endPage", "osDashboard",
	"popularPage", "pv", "resolutionDashboard", "returnPage",
	"startPage", "timeline", "urls", "uv",
}

// WatchDebounceFloor is the smallest debounce the source watcher accepts
const WatchDebounceFloor = 50 * time.Millisecond
