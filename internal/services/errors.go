package services

import "errors"

// Dashboard service errors
var (
	ErrMetricNotFound = errors.New("metric table not found")
	ErrNoData         = errors.New("no prepared data available")
)
