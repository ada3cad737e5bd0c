// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the preparation pipeline, its cache and the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config.yaml, NAADS_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Build the pipeline, cache store and services
//	4. Set up middleware and routes
//	5. Start the HTTP server and, when enabled, the source watcher
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down and flushes
// telemetry. Initialization errors are returned to the caller; the package
// never calls os.Exit.
package app
