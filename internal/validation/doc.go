// Package validation checks pipeline inputs and outputs.
//
// SourceValidator verifies that every metric workbook and the ad spend export
// exist and are readable, reporting problems as SOURCE_MISSING errors or as a
// per-source status list for readiness probes. ValidateVisitTable asserts the
// invariants of a prepared unified table before it is exported.
package validation
