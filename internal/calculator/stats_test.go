package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/casesettle/internal/models"
)

func request(status models.SettlementStatus, original, reduction, pct string) *models.SettlementRequest {
	return &models.SettlementRequest{
		Status:              status,
		OriginalAmount:      d(original),
		RequestedReduction:  d(reduction),
		ReductionPercentage: d(pct),
	}
}

func TestSettlementStats(t *testing.T) {
	t.Run("empty input is zero valued", func(t *testing.T) {
		s := SettlementStats(nil)
		if s.Total != 0 || s.Pending != 0 || s.Approved != 0 || s.Disputed != 0 {
			t.Errorf("expected zero counts, got %+v", s)
		}
		if !s.TotalOriginalAmount.IsZero() || !s.TotalReduction.IsZero() || !s.AverageReductionPercentage.IsZero() {
			t.Errorf("expected zero amounts, got %+v", s)
		}
	})

	t.Run("buckets and sums", func(t *testing.T) {
		reqs := []*models.SettlementRequest{
			request(models.StatusPending, "1000", "100", "10"),
			request(models.StatusApproved, "10000", "3000", "30"),
			request(models.StatusConfirmed, "2000", "200", "10"),
			request(models.StatusPaid, "500", "100", "20"),
			request(models.StatusDenied, "400", "400", "100"),
			request(models.StatusEscalated, "300", "30", "10"),
			request(models.StatusDisputed, "100", "0", "0"),
			nil,
		}

		s := SettlementStats(reqs)
		if s.Total != 7 {
			t.Errorf("Total = %d, want 7", s.Total)
		}
		if s.Pending != 1 {
			t.Errorf("Pending = %d, want 1", s.Pending)
		}
		if s.Approved != 3 {
			t.Errorf("Approved = %d, want 3", s.Approved)
		}
		if s.Denied != 1 {
			t.Errorf("Denied = %d, want 1", s.Denied)
		}
		if s.Disputed != 2 {
			t.Errorf("Disputed = %d, want 2", s.Disputed)
		}
		if !s.TotalOriginalAmount.Equal(d("14300")) {
			t.Errorf("TotalOriginalAmount = %s, want 14300", s.TotalOriginalAmount)
		}
		if !s.TotalReduction.Equal(d("3300")) {
			t.Errorf("TotalReduction = %s, want 3300", s.TotalReduction)
		}
		if !s.AverageReductionPercentage.Equal(d("20")) {
			t.Errorf("AverageReductionPercentage = %s, want 20", s.AverageReductionPercentage)
		}
	})
}

func TestEscalationStats(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(days float64) *time.Time {
		ts := created.Add(time.Duration(days * 24 * float64(time.Hour)))
		return &ts
	}

	t.Run("empty input is zero valued", func(t *testing.T) {
		s := EscalationStats(nil)
		if s.Total != 0 || s.AverageResolutionDays != 0 {
			t.Errorf("expected zero summary, got %+v", s)
		}
	})

	t.Run("no finished items averages to zero", func(t *testing.T) {
		s := EscalationStats([]*models.EscalationQueueItem{
			{Status: models.EscalationOpen, CreatedAt: created},
			{Status: models.EscalationInProgress, CreatedAt: created},
		})
		if s.Open != 1 || s.InProgress != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.AverageResolutionDays != 0 {
			t.Errorf("AverageResolutionDays = %v, want 0", s.AverageResolutionDays)
		}
	})

	t.Run("averages resolved and closed", func(t *testing.T) {
		s := EscalationStats([]*models.EscalationQueueItem{
			{Status: models.EscalationResolved, CreatedAt: created, ResolvedAt: at(2)},
			{Status: models.EscalationClosed, CreatedAt: created, ResolvedAt: at(3), ClosedAt: at(5)},
			// withdrawn: closed without a formal resolution
			{Status: models.EscalationClosed, CreatedAt: created, ClosedAt: at(1.5)},
			{Status: models.EscalationOpen, CreatedAt: created},
		})
		if s.Total != 4 || s.Resolved != 1 || s.Closed != 2 || s.Open != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		// (2 + 3 + 1.5) / 3 = 2.1666 -> 2.2
		if s.AverageResolutionDays != 2.2 {
			t.Errorf("AverageResolutionDays = %v, want 2.2", s.AverageResolutionDays)
		}
	})
}

func TestResolutionTimeDays(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resolved := created.Add(36 * time.Hour)

	days, ok := ResolutionTimeDays(&models.EscalationQueueItem{CreatedAt: created, ResolvedAt: &resolved})
	if !ok || days != 1.5 {
		t.Errorf("ResolutionTimeDays() = %v, %v; want 1.5, true", days, ok)
	}

	if _, ok := ResolutionTimeDays(&models.EscalationQueueItem{CreatedAt: created}); ok {
		t.Error("expected unfinished item to report false")
	}
}
