package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/errs"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReductionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		reduction string
		want      string
		wantErr   bool
	}{
		{name: "thirty percent", original: "10000", reduction: "3000", want: "30"},
		{name: "zero reduction", original: "250.00", reduction: "0", want: "0"},
		{name: "full reduction", original: "80", reduction: "80", want: "100"},
		{name: "rounds to two places", original: "3", reduction: "1", want: "33.33"},
		{name: "cents stay exact", original: "0.30", reduction: "0.10", want: "33.33"},
		{name: "negative reduction", original: "100", reduction: "-1", wantErr: true},
		{name: "reduction exceeds original", original: "100", reduction: "100.01", wantErr: true},
		{name: "zero original", original: "0", reduction: "0", wantErr: true},
		{name: "negative original", original: "-5", reduction: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReductionPercentage(d(tt.original), d(tt.reduction))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				if !errs.Is(err, errs.Validation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("ReductionPercentage() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFinalAmount(t *testing.T) {
	got := FinalAmount(d("10000"), d("3000"))
	if !got.Equal(d("7000")) {
		t.Errorf("FinalAmount() = %s, want 7000", got)
	}

	// 0.1 + 0.2 style drift must not appear
	got = FinalAmount(d("0.3"), d("0.1"))
	if !got.Equal(d("0.2")) {
		t.Errorf("FinalAmount() = %s, want 0.2", got)
	}
}

func TestAmountMismatch(t *testing.T) {
	tests := []struct {
		name      string
		confirmed string
		expected  string
		tolerance string
		want      bool
	}{
		{"exact", "7000", "7000", "0.01", false},
		{"within tolerance", "7000.01", "7000", "0.01", false},
		{"above", "7000.02", "7000", "0.01", true},
		{"below", "6500", "7000", "0.01", true},
		{"negative tolerance is zero", "7000.01", "7000", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountMismatch(d(tt.confirmed), d(tt.expected), d(tt.tolerance)); got != tt.want {
				t.Errorf("AmountMismatch() = %v, want %v", got, tt.want)
			}
		})
	}
}
