package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "naads/internal/errors"
	"naads/internal/shared/testutil"
	"naads/pkg/contracts/domain"
)

func TestValidateVisitTable(t *testing.T) {
	d1, d2 := testutil.Date("2025-03-01"), testutil.Date("2025-03-02")
	valid := func() []domain.VisitRow {
		return []domain.VisitRow{
			{Date: d1, EstCost: 1000, HasAd: 1, DailyCost: 3000},
			{Date: d1, EstCost: 2000, HasAd: 1, DailyCost: 3000},
			{Date: d2, DailyCost: 0},
		}
	}

	tests := []struct {
		name    string
		mutate  func(rows []domain.VisitRow) []domain.VisitRow
		wantErr bool
	}{
		{name: "valid", mutate: func(r []domain.VisitRow) []domain.VisitRow { return r }},
		{name: "negative cost", mutate: func(r []domain.VisitRow) []domain.VisitRow {
			r[2].EstCost, r[2].DailyCost = -1, -1
			return r
		}, wantErr: true},
		{name: "has_ad mismatch", mutate: func(r []domain.VisitRow) []domain.VisitRow {
			r[2].HasAd = 1
			return r
		}, wantErr: true},
		{name: "flag out of range", mutate: func(r []domain.VisitRow) []domain.VisitRow {
			r[0].IsWeekend = 2
			return r
		}, wantErr: true},
		{name: "inconsistent daily cost", mutate: func(r []domain.VisitRow) []domain.VisitRow {
			r[1].DailyCost = 2000
			return r
		}, wantErr: true},
		{name: "unsorted", mutate: func(r []domain.VisitRow) []domain.VisitRow {
			return []domain.VisitRow{r[2], r[0], r[1]}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVisitTable(&domain.UnifiedVisitTable{Rows: tt.mutate(valid())})
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, ValidateVisitTable(nil))
}
