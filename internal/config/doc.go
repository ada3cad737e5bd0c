// Package config provides configuration management for the dashboard.
//
// # Configuration Sources
//
// Configuration is assembled in order of increasing precedence:
//
//	1. Default() values
//	2. An optional YAML file (NAADS_CONFIG, config.yaml or configs/config.yaml)
//	3. Environment variables prefixed with NAADS_
//
// # Environment Variables
//
//	NAADS_SERVER_PORT=8501
//	NAADS_PATHS_DATA_DIR=/srv/dashboard/data
//	NAADS_PIPELINE_EXCLUDED_DATES=2025-05-14,2025-05-15
//	NAADS_PIPELINE_AD_JOIN_MODE=collapse
//	NAADS_CACHE_WATCH_SOURCES=true
//	NAADS_LOGGING_LEVEL=debug
//
// # Sources
//
// Sources() resolves the twelve metric workbooks and the ad spend CSV
// relative to the data directory:
//
//	src := cfg.Sources()
//	uvPath := src.Metrics["uv"]
//
// Validation uses go-playground/validator struct tags and runs once at load.
package config
