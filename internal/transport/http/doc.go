// Package http implements the HTTP handlers of the dashboard server. Handlers
// are a thin layer over the services package: they parse query parameters,
// call a service and render JSON, leaving data preparation to the pipeline.
//
// # Routes
//
//	GET  /                             dashboard page (embedded HTML + Chart.js)
//	GET  /api/dashboard/summary        tiles and chart series
//	GET  /api/dashboard/visits         unified visit rows (?limit=&offset=)
//	GET  /api/dashboard/metrics        cleaned metric table names
//	GET  /api/dashboard/metrics/{name} one cleaned metric table
//	GET  /api/dashboard/sources        source availability and data directory files
//	GET  /api/dashboard/export         ?format=csv|xlsx
//	GET  /api/cache/stats              cache counters
//	POST /api/cache/invalidate         drop memoized results
//	POST /api/client-log               page errors relayed to the server log
//
// # Error Handling
//
// Every error is written by errors.ErrorHandler as an RFC 7807 problem
// document:
//
//	{
//	    "type": "/errors/data/source-missing",
//	    "title": "Data Source Missing",
//	    "status": 503,
//	    "detail": "source file not found",
//	    "instance": "/api/dashboard/summary",
//	    "trace_id": "9d7c..."
//	}
//
// Successful JSON responses use the envelope {"status":"success","data":...}.
package http
