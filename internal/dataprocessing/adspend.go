package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "naads/internal/errors"
	"naads/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// AdSpendSource is the logical name of the ad spend export in errors and logs
const AdSpendSource = "ads"

var adSpendColumns = []string{
	domain.ColumnDate,
	domain.ColumnCategory,
	domain.ColumnCampaignName,
	domain.ColumnCampaignDesc,
	domain.ColumnEstCost,
	domain.ColumnTargetCount,
}

// AdSpendStats counts values that were coerced to zero while loading
type AdSpendStats struct {
	Records              int
	DefaultedEstCost     int
	DefaultedTargetCount int
}

// LoadAdSpend reads the ad spend CSV. Several records may share a date.
func LoadAdSpend(path string) ([]domain.AdSpendRecord, AdSpendStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, AdSpendStats{}, apperrors.NewSourceMissingError(AdSpendSource, path, err)
	}
	defer file.Close()

	return ReadAdSpend(file)
}

// ReadAdSpend parses ad spend records from r
func ReadAdSpend(r io.Reader) ([]domain.AdSpendRecord, AdSpendStats, error) {
	var stats AdSpendStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, apperrors.NewSchemaMismatchError(AdSpendSource, domain.ColumnDate)
		}
		return nil, stats, apperrors.NewParsingError("failed to read ad spend header", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range adSpendColumns {
		if _, ok := index[col]; !ok {
			return nil, stats, apperrors.NewSchemaMismatchError(AdSpendSource, col)
		}
	}

	get := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var records []domain.AdSpendRecord
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, stats, apperrors.NewParsingError(fmt.Sprintf("failed to read ad spend line %d", line), err)
		}
		if isBlankRow(rec) {
			continue
		}

		rawDate := get(rec, domain.ColumnDate)
		if rawDate == "" {
			continue
		}
		date, err := ParseDate(rawDate)
		if err != nil {
			return nil, stats, apperrors.NewParsingError("invalid date in ads", err).
				WithContext("source", AdSpendSource).
				WithContext("row", line)
		}

		estCost, ok := coerceCount(get(rec, domain.ColumnEstCost))
		if !ok {
			stats.DefaultedEstCost++
		}
		targetCount, ok := coerceCount(get(rec, domain.ColumnTargetCount))
		if !ok {
			stats.DefaultedTargetCount++
		}

		records = append(records, domain.AdSpendRecord{
			Date:         date,
			Category:     get(rec, domain.ColumnCategory),
			CampaignName: get(rec, domain.ColumnCampaignName),
			CampaignDesc: get(rec, domain.ColumnCampaignDesc),
			EstCost:      estCost,
			TargetCount:  targetCount,
		})
	}

	stats.Records = len(records)
	return records, stats, nil
}

// coerceCount converts a spreadsheet number into a non-negative integer.
// Thousands separators are removed and decimals truncated. ok is false when
// the value had to be defaulted to 0.
func coerceCount(raw string) (int64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}
