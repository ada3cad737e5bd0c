package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"naads/internal/config"
)

// FileInfo represents a spreadsheet or CSV export found in the data directory
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Source  string    `json:"source,omitempty"` // configured source name, "" when unused
}

// Configured reports whether the pipeline reads this file
func (f FileInfo) Configured() bool {
	return f.Source != ""
}

// Discovery lists export files under a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExcelFiles finds Excel workbooks in dir, oldest first. Lock files left
// by an open workbook (~$name.xlsx) are skipped.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	files, err := d.find(dir, ".xlsx", ".xlsm")
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// FindCSVFiles finds CSV files in dir sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.find(dir, ".csv")
}

func (d *Discovery) find(dir string, exts ...string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !hasExt(name, exts) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Inventory lists every workbook and CSV in the directories holding src,
// tagging files the pipeline reads with their source name. Directories that
// do not exist are skipped.
func Inventory(src config.Sources) ([]FileInfo, error) {
	byPath := make(map[string]string, len(src.Metrics)+1)
	for name, p := range src.Metrics {
		byPath[filepath.Clean(p)] = name
	}
	byPath[filepath.Clean(src.AdSpend)] = "ads"

	d := NewDiscovery(src.DataDir)
	var out []FileInfo
	for _, dir := range src.Dirs() {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		excel, err := d.FindExcelFiles(dir)
		if err != nil {
			return nil, err
		}
		csvs, err := d.FindCSVFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range append(excel, csvs...) {
			f.Source = byPath[filepath.Clean(f.Path)]
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Unconfigured returns the files no source refers to
func Unconfigured(files []FileInfo) []FileInfo {
	var out []FileInfo
	for _, f := range files {
		if !f.Configured() {
			out = append(out, f)
		}
	}
	return out
}
