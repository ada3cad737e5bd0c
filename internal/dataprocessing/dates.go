package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts lists the textual date forms accepted in source files, tried in
// order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"2006.1.2",
	"2006-1-2",
	"20060102",
}

const maxExcelSerial = 2958466

// ParseDate parses a date cell into a UTC calendar day. Excel serial numbers
// (as returned for raw cell values) are accepted alongside the text layouts.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}

	// 9999-12-31 is the last day Excel can represent.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid excel serial date %q: %w", s, err)
		}
		return truncateDay(t), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateSet is a lookup of calendar days
type dateSet map[time.Time]struct{}

func newDateSet(dates []time.Time) dateSet {
	set := make(dateSet, len(dates))
	for _, d := range dates {
		set[truncateDay(d)] = struct{}{}
	}
	return set
}

func (s dateSet) contains(d time.Time) bool {
	_, ok := s[d]
	return ok
}
