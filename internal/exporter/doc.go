// Package exporter writes prepared dashboard data to CSV and Excel.
//
// CSV output starts with a UTF-8 BOM so that spreadsheet applications read
// the Korean column names correctly. The Excel workbook holds the unified
// visit table in the "visits" sheet followed by one sheet per cleaned metric
// table.
//
// Example usage:
//
//	if err := exporter.WriteVisitTableCSV(w, data.Visits); err != nil {
//	    return err
//	}
//	if err := exporter.SaveWorkbook("out/dashboard.xlsx", data); err != nil {
//	    return err
//	}
package exporter
