package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/models"
)

// SettlementSummary is the dashboard view over the ledger.
type SettlementSummary struct {
	Total    int
	Pending  int
	Approved int // approved, confirmed and paid
	Denied   int
	Disputed int // disputed and escalated

	TotalOriginalAmount decimal.Decimal
	// TotalReduction sums reductions over the approved bucket only.
	TotalReduction decimal.Decimal
	// AverageReductionPercentage is the mean over the approved bucket, 0 if empty.
	AverageReductionPercentage decimal.Decimal
}

// EscalationSummary is the dashboard view over the escalation queue.
type EscalationSummary struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
	Closed     int

	// AverageResolutionDays is the mean over resolved and closed items,
	// rounded to one decimal place, 0 if none.
	AverageResolutionDays float64
}

// SettlementStats aggregates requests. It never fails, including on empty input.
func SettlementStats(requests []*models.SettlementRequest) SettlementSummary {
	summary := SettlementSummary{
		TotalOriginalAmount:        decimal.Zero,
		TotalReduction:             decimal.Zero,
		AverageReductionPercentage: decimal.Zero,
	}

	pctSum := decimal.Zero
	for _, r := range requests {
		if r == nil {
			continue
		}
		summary.Total++
		summary.TotalOriginalAmount = summary.TotalOriginalAmount.Add(r.OriginalAmount)

		switch r.Status {
		case models.StatusPending:
			summary.Pending++
		case models.StatusApproved, models.StatusConfirmed, models.StatusPaid:
			summary.Approved++
			summary.TotalReduction = summary.TotalReduction.Add(r.RequestedReduction)
			pctSum = pctSum.Add(r.ReductionPercentage)
		case models.StatusDenied:
			summary.Denied++
		case models.StatusDisputed, models.StatusEscalated:
			summary.Disputed++
		}
	}

	if summary.Approved > 0 {
		summary.AverageReductionPercentage = pctSum.Div(decimal.NewFromInt(int64(summary.Approved))).Round(2)
	}
	return summary
}

// ResolutionTimeDays is (resolved_at - created_at) in days. Items closed
// without a formal resolution fall back to closed_at. The second result is
// false when the item has not finished.
func ResolutionTimeDays(item *models.EscalationQueueItem) (float64, bool) {
	end := item.ResolvedAt
	if end == nil {
		end = item.ClosedAt
	}
	if end == nil || item.CreatedAt.IsZero() {
		return 0, false
	}
	return end.Sub(item.CreatedAt).Hours() / 24, true
}

// EscalationStats aggregates queue items. It never fails, including on empty input.
func EscalationStats(items []*models.EscalationQueueItem) EscalationSummary {
	var summary EscalationSummary
	var days float64
	var finished int

	for _, item := range items {
		if item == nil {
			continue
		}
		summary.Total++
		switch item.Status {
		case models.EscalationOpen:
			summary.Open++
		case models.EscalationInProgress:
			summary.InProgress++
		case models.EscalationResolved:
			summary.Resolved++
		case models.EscalationClosed:
			summary.Closed++
		}

		if item.Status == models.EscalationResolved || item.Status == models.EscalationClosed {
			if d, ok := ResolutionTimeDays(item); ok {
				days += d
				finished++
			}
		}
	}

	if finished > 0 {
		summary.AverageResolutionDays = math.Round(days/float64(finished)*10) / 10
	}
	return summary
}
