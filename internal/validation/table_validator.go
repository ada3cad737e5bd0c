package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "naads/internal/errors"
	"naads/pkg/contracts/domain"
)

var structValidator = validator.New()

// ValidateVisitTable checks the value invariants of a prepared unified
// table: non-negative spend, 0/1 flags consistent with the data, and one
// daily cost per date.
func ValidateVisitTable(table *domain.UnifiedVisitTable) error {
	if table == nil {
		return apperrors.NewAppValidationError("unified visit table is nil")
	}

	daily := make(map[string]int64)
	for _, r := range table.Rows {
		daily[r.Date.Format("2006-01-02")] += r.EstCost
	}

	for i := range table.Rows {
		r := &table.Rows[i]
		if err := structValidator.Struct(r); err != nil {
			return apperrors.NewAppValidationError(fmt.Sprintf("row %d: %v", i, err))
		}
		if (r.EstCost > 0) != (r.HasAd == 1) {
			return apperrors.NewAppValidationError(fmt.Sprintf("row %d: has_ad does not match est_cost", i))
		}
		if want := daily[r.Date.Format("2006-01-02")]; r.DailyCost != want {
			return apperrors.NewAppValidationError(fmt.Sprintf("row %d: daily_cost %d, want %d", i, r.DailyCost, want))
		}
		if i > 0 && r.Date.Before(table.Rows[i-1].Date) {
			return apperrors.NewAppValidationError(fmt.Sprintf("row %d: rows are not sorted by date", i))
		}
	}
	return nil
}
