package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

// DefaultPageTitle is the heading of the dashboard page
const DefaultPageTitle = "네이버 애널리틱스 대시보드"

//go:embed web/index.html
var webFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// PageData is rendered into the dashboard page
type PageData struct {
	Title      string
	APIBase    string
	ChartJSURL string
}

// ChartJSURL is the Chart.js bundle the page loads
const ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

// ServeDashboard serves the dashboard page. Data is fetched by the page from
// the JSON API.
func ServeDashboard(title string, logger *slog.Logger) http.HandlerFunc {
	if title == "" {
		title = DefaultPageTitle
	}
	data := PageData{
		Title:      title,
		APIBase:    "/api",
		ChartJSURL: ChartJSURL,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, data); err != nil {
			logger.ErrorContext(r.Context(), "failed to render dashboard page",
				slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		buf.WriteTo(w)
	}
}
