package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"naads/pkg/contracts/domain"
)

// VisitsSheet is the name of the unified table worksheet
const VisitsSheet = "visits"

// WriteWorkbook writes the unified table and every metric table as one
// worksheet each. Metric sheets are named after the table and sorted.
func WriteWorkbook(out io.Writer, data *domain.PreparedData) error {
	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook produced by WriteWorkbook to path
func SaveWorkbook(path string, data *domain.PreparedData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("Workbook saved",
		slog.String("path", path),
		slog.Int("sheets", len(f.GetSheetList())))
	return nil
}

func buildWorkbook(data *domain.PreparedData) (*excelize.File, error) {
	if data == nil || data.Visits == nil {
		return nil, fmt.Errorf("no prepared data to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), VisitsSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSheet(f, VisitsSheet, VisitTableHeaders, visitCells(data.Visits)); err != nil {
		f.Close()
		return nil, err
	}

	names := make([]string, 0, len(data.Metrics))
	for _, t := range data.Metrics {
		names = append(names, t.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		table, _ := data.Metric(name)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		rows := make([][]interface{}, len(table.Rows))
		for i, r := range table.Rows {
			rows[i] = make([]interface{}, len(r.Cells))
			for j, c := range r.Cells {
				rows[i][j] = c
			}
		}
		if err := writeSheet(f, name, table.Columns, rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// visitCells keeps numbers numeric so spreadsheets can aggregate them
func visitCells(table *domain.UnifiedVisitTable) [][]interface{} {
	rows := make([][]interface{}, len(table.Rows))
	for i, r := range table.Rows {
		var prev interface{}
		if r.PrevDayVisitors != nil {
			prev = *r.PrevDayVisitors
		}
		rows[i] = []interface{}{
			r.Date.Format("2006-01-02"),
			r.Visitors,
			r.Category,
			r.CampaignName,
			r.CampaignDesc,
			r.EstCost,
			r.TargetCount,
			r.Resolution,
			r.ResolutionShare,
			r.HasAd,
			r.IsAfterCutoff,
			r.IsWeekend,
			r.DayOfWeek,
			prev,
			r.DailyCost,
		}
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
