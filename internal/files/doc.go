// Package files discovers the spreadsheet and CSV exports present in the data
// directory. Inventory tags each file with the configured source that reads
// it so that stray or misnamed exports can be reported.
package files
