// Package dataprocessing prepares the dashboard tables from the raw analytics
// exports.
//
// A run loads every daily metric workbook, deduplicates it by date (first row
// wins) and drops excluded dates. The visitor table is then left-joined with
// the ad spend export and the resolution table, derived columns are filled and
// the per-date ad spend total is attached to every row.
//
// # Usage
//
//	opts, err := dataprocessing.OptionsFromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	data, err := dataprocessing.NewPipeline(opts, logger, metrics).Run(ctx)
//	if err != nil {
//	    return err
//	}
//	summary := dataprocessing.Summarize(data.Visits)
//
// # Ad spend fan-out
//
// A date with several campaigns produces one unified row per campaign in the
// default fanout mode. The collapse mode sums spend per date first so every
// date yields exactly one row.
//
// # Errors
//
// Missing or unreadable files are reported as SOURCE_MISSING, absent columns
// as SCHEMA_MISMATCH and unparseable date cells as PARSING application errors.
// Other bad values are replaced with their defaults and counted.
package dataprocessing
