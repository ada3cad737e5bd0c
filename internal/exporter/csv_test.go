package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	base := t.TempDir()
	w := NewCSVWriter(base)

	require.NoError(t, w.WriteCSV("reports/out.csv", WriteOptions{
		Headers:   []string{"date", "방문자수"},
		Records:   [][]string{{"2025-03-01", "100"}},
		BOMPrefix: true,
	}))
	require.NoError(t, w.WriteCSV("reports/out.csv", WriteOptions{
		Headers:   []string{"ignored", "on append"},
		Records:   [][]string{{"2025-03-02", "120"}},
		Append:    true,
		BOMPrefix: true,
	}))

	content, err := os.ReadFile(filepath.Join(base, "reports", "out.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, utf8BOM))
	assert.Equal(t, 1, bytes.Count(content, utf8BOM), "BOM is written once")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"date", "방문자수"},
		{"2025-03-01", "100"},
		{"2025-03-02", "120"},
	}, records)
}

func TestWriteCSVTo_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSVTo(&buf, []string{"campaign_name"}, [][]string{{"camp A, camp B"}}, false))
	assert.Equal(t, "campaign_name\n\"camp A, camp B\"\n", buf.String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1200", formatFloat(1200))
	assert.Equal(t, "45.5", formatFloat(45.5))
	assert.Equal(t, "", formatOptionalFloat(nil))
	v := 3.25
	assert.Equal(t, "3.25", formatOptionalFloat(&v))
}
