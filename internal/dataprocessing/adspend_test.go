package dataprocessing

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "naads/internal/errors"
	"naads/internal/shared/testutil"
)

func TestReadAdSpend(t *testing.T) {
	input := "\ufeffdate,category,campaign_name,campaign_desc,est_cost,target_count\n" +
		"2025-03-01,search,brand,brand keywords,\"1,500\",10\n" +
		"2025-03-03,social,camp A,spring promo,1000.9,5\n" +
		"2025-03-03,social,camp B,,-20,abc\n" +
		"\n" +
		"2025-03-04,,,,,\n"

	records, stats, err := ReadAdSpend(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, testutil.Date("2025-03-01"), records[0].Date)
	assert.Equal(t, "brand", records[0].CampaignName)
	assert.Equal(t, int64(1500), records[0].EstCost)
	assert.Equal(t, int64(10), records[0].TargetCount)

	assert.Equal(t, int64(1000), records[1].EstCost, "decimals are truncated")

	assert.Equal(t, int64(0), records[2].EstCost)
	assert.Equal(t, int64(0), records[2].TargetCount)
	assert.Equal(t, "", records[2].CampaignDesc)

	assert.Equal(t, int64(0), records[3].EstCost)
	assert.Equal(t, "", records[3].Category)

	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 2, stats.DefaultedEstCost)
	assert.Equal(t, 2, stats.DefaultedTargetCount)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.EstCost, int64(0))
		assert.GreaterOrEqual(t, r.TargetCount, int64(0))
	}
}

func TestReadAdSpend_MissingColumn(t *testing.T) {
	_, _, err := ReadAdSpend(strings.NewReader("date,category,campaign_name,est_cost,target_count\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "campaign_desc", appErr.Context["column"])
}

func TestReadAdSpend_BadDate(t *testing.T) {
	input := "date,category,campaign_name,campaign_desc,est_cost,target_count\nsoon,a,b,c,1,1\n"
	_, _, err := ReadAdSpend(strings.NewReader(input))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestLoadAdSpend_MissingFile(t *testing.T) {
	_, _, err := LoadAdSpend(filepath.Join(t.TempDir(), "ads.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSourceMissing))
}

func TestReadAdSpend_OverflowDefaults(t *testing.T) {
	input := "date,category,campaign_name,campaign_desc,est_cost,target_count\n" +
		"2025-03-01,a,b,c,9223372036854775808,1\n"
	records, stats, err := ReadAdSpend(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].EstCost)
	assert.Equal(t, 1, stats.DefaultedEstCost)
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{" 1,234 ", 1234, true},
		{"99.99", 99, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"-1", 0, false},
		{"-0.5", 0, false},
		{"NaN", 0, false},
		{"n/a", 0, false},
		{"9223372036854775807", math.MaxInt64, true},
		{"9223372036854775808", 0, false},
		{"9223372036854775807.5", 0, false},
		{"1e19", 0, false},
	}
	for _, tt := range tests {
		got, ok := coerceCount(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}
