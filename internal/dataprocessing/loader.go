package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "naads/internal/errors"
	"naads/pkg/contracts/domain"
)

// LoadOptions controls how a metric workbook is read and cleaned
type LoadOptions struct {
	// Sheet selects the worksheet; the first sheet is used when empty.
	Sheet string
	// ExcludedDates are dropped after deduplication.
	ExcludedDates []time.Time
	// RequiredColumns must be present in the header in addition to date.
	RequiredColumns []string
}

// LoadStats describes what cleaning removed from a table
type LoadStats struct {
	RawRows      int
	BlankDates   int
	Duplicates   int
	ExcludedRows int
	RetainedRows int
}

// LoadMetricTable reads one metric export, deduplicates it by date keeping the
// first occurrence and drops excluded dates.
func LoadMetricTable(name, path string, opts LoadOptions) (*domain.MetricTable, LoadStats, error) {
	var stats LoadStats

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, stats, apperrors.NewSourceMissingError(name, path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, stats, apperrors.NewSchemaMismatchError(name, domain.ColumnDate)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, stats, apperrors.NewSourceMissingError(name, path, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, stats, apperrors.NewSchemaMismatchError(name, domain.ColumnDate)
	}

	table := &domain.MetricTable{
		Name:    name,
		Source:  path,
		Columns: normalizeHeader(rows[headerIdx]),
	}
	for _, col := range append([]string{domain.ColumnDate}, opts.RequiredColumns...) {
		if !table.HasColumn(col) {
			return nil, stats, apperrors.NewSchemaMismatchError(name, col)
		}
	}

	dateIdx := table.ColumnIndex(domain.ColumnDate)
	excluded := newDateSet(opts.ExcludedDates)
	seen := make(dateSet)

	for i, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		stats.RawRows++

		cells := make([]string, len(table.Columns))
		copy(cells, row)

		rawDate := strings.TrimSpace(cells[dateIdx])
		if rawDate == "" {
			stats.BlankDates++
			continue
		}
		date, err := ParseDate(rawDate)
		if err != nil {
			// +2: one for the header row, one for 1-based spreadsheet rows
			return nil, stats, apperrors.NewParsingError(fmt.Sprintf("invalid date in %s", name), err).
				WithContext("source", name).
				WithContext("row", headerIdx+i+2)
		}

		if seen.contains(date) {
			stats.Duplicates++
			continue
		}
		seen[date] = struct{}{}

		if excluded.contains(date) {
			stats.ExcludedRows++
			continue
		}

		cells[dateIdx] = date.Format("2006-01-02")
		table.Rows = append(table.Rows, domain.MetricRow{Date: date, Cells: cells})
	}

	stats.RetainedRows = len(table.Rows)
	return table, stats, nil
}

func normalizeHeader(row []string) []string {
	cols := make([]string, len(row))
	for i, c := range row {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(c, utf8BOM))
	}
	return cols
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
