// Package calculator holds the pure money derivations of the settlement
// workflow: reduction percentages, final amounts, and the reporting
// aggregates over ledger and queue state.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/errs"
)

var hundred = decimal.NewFromInt(100)

// ValidateReduction checks 0 <= reduction <= original and original > 0.
func ValidateReduction(original, reduction decimal.Decimal) error {
	if !original.IsPositive() {
		return errs.ValidationError("original amount must be greater than zero")
	}
	if reduction.IsNegative() {
		return errs.ValidationError("requested reduction cannot be negative")
	}
	if reduction.GreaterThan(original) {
		return errs.ValidationError("requested reduction %s exceeds original amount %s",
			reduction.StringFixed(2), original.StringFixed(2))
	}
	return nil
}

// ReductionPercentage returns reduction / original * 100 rounded to two places.
//
// Example: original 10000, reduction 3000 -> 30.00
func ReductionPercentage(original, reduction decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateReduction(original, reduction); err != nil {
		return decimal.Zero, err
	}
	return reduction.Mul(hundred).Div(original).Round(2), nil
}

// FinalAmount is original - reduction.
func FinalAmount(original, reduction decimal.Decimal) decimal.Decimal {
	return original.Sub(reduction)
}

// AmountMismatch reports whether confirmed differs from expected by more than
// tolerance. A negative tolerance is treated as zero.
func AmountMismatch(confirmed, expected, tolerance decimal.Decimal) bool {
	if tolerance.IsNegative() {
		tolerance = decimal.Zero
	}
	return confirmed.Sub(expected).Abs().GreaterThan(tolerance)
}
