package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

// orphan stores an escalated request without its escalation item, as a
// failed dispute on a non-transactional backend would leave it.
func (f *fixture) orphan(t *testing.T, caseID string, withDisputeAudit bool) *models.SettlementRequest {
	t.Helper()
	ctx := context.Background()
	req := &models.SettlementRequest{
		CaseID:              caseID,
		RequestedByOrg:      "org-law",
		RequestedByUser:     "u-law",
		OriginalAmount:      dec("1000"),
		RequestedReduction:  dec("100"),
		ReductionPercentage: dec("10"),
		ReductionReason:     "r",
		ReductionCategory:   models.CategoryStandard,
		Status:              models.StatusPending,
	}
	if err := f.store.CreateSettlementRequest(ctx, req, &models.AuditEntry{Action: "create", ToStatus: models.StatusPending, ActorUser: "u-law"}); err != nil {
		t.Fatalf("CreateSettlementRequest failed: %v", err)
	}

	next := req.Clone()
	next.Status = models.StatusEscalated
	var entry *models.AuditEntry
	if withDisputeAudit {
		entry = &models.AuditEntry{Action: string(ActionDispute), FromStatus: models.StatusPending, ToStatus: models.StatusEscalated, ActorUser: "u-pt", Reason: "bills duplicated"}
	}
	if err := f.store.UpdateSettlementRequest(ctx, next, []models.SettlementStatus{models.StatusPending}, entry); err != nil {
		t.Fatalf("UpdateSettlementRequest failed: %v", err)
	}
	return next
}

func TestReconcilerRunOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withAudit := f.orphan(t, "case-1", true)
	bare := f.orphan(t, "case-1", false)
	_, healthy := f.dispute(t)

	n, err := f.reconciler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("repaired %d, want 2", n)
	}

	check := func(req *models.SettlementRequest, wantBy, wantReason string) {
		t.Helper()
		item, err := f.store.ActiveEscalation(ctx, req.ID)
		if err != nil {
			t.Fatalf("ActiveEscalation(%s) failed: %v", req.ID, err)
		}
		if item.EscalatedByUser != wantBy || item.EscalationReason != wantReason {
			t.Errorf("item = by %q reason %q, want %q %q", item.EscalatedByUser, item.EscalationReason, wantBy, wantReason)
		}
	}
	check(withAudit, "u-pt", "bills duplicated")
	check(bare, "system", recoveredReason)

	items, err := f.store.ListEscalations(ctx, storage.EscalationFilter{SettlementRequestID: healthy.SettlementRequestID})
	if err != nil {
		t.Fatalf("ListEscalations failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("healthy dispute should keep one item, got %d", len(items))
	}

	n, err = f.reconciler.RunOnce(ctx)
	if err != nil || n != 0 {
		t.Errorf("second pass = %d, %v; want 0, nil", n, err)
	}
}

func TestReconcilerRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.orphan(t, "case-1", false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.reconciler.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for {
		orphans, err := f.store.ListEscalatedWithoutQueueItem(context.Background())
		if err != nil {
			t.Fatalf("ListEscalatedWithoutQueueItem failed: %v", err)
		}
		if len(orphans) == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reconciler did not repair the orphan")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
