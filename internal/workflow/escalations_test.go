package workflow

import (
	"context"
	"testing"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

func (f *fixture) dispute(t *testing.T) (*models.SettlementRequest, *models.EscalationQueueItem) {
	t.Helper()
	req := f.create(t, "2000", "400")
	next, item, err := f.ledger.Dispute(context.Background(), provider, req.ID, "amount too low", DisputeOptions{})
	if err != nil {
		t.Fatalf("Dispute failed: %v", err)
	}
	return next, item
}

func TestResolveWithoutAssignment(t *testing.T) {
	f := newFixture(t)
	_, item := f.dispute(t)

	got, err := f.escalations.Resolve(context.Background(), admin, item.ID, "withdrawn by requester", models.ResolutionWithdrawn)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Status != models.EscalationResolved || got.AssignedToUser != "" {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestEscalationGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, item := f.dispute(t)

	_, err := f.escalations.Assign(ctx, provider, item.ID, "reviewer-1")
	wantKind(t, err, errs.Authorization)

	_, err = f.escalations.Assign(ctx, stranger, item.ID, "reviewer-1")
	wantKind(t, err, errs.NotFound)

	_, err = f.escalations.Assign(ctx, admin, item.ID, "")
	wantKind(t, err, errs.Validation)

	_, err = f.escalations.Resolve(ctx, admin, item.ID, "", models.ResolutionOther)
	wantKind(t, err, errs.Validation)

	_, err = f.escalations.Get(ctx, admin, "missing")
	wantKind(t, err, errs.NotFound)

	if _, err := f.escalations.Assign(ctx, admin, item.ID, "reviewer-1"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	_, err = f.escalations.Assign(ctx, admin, item.ID, "reviewer-2")
	wantKind(t, err, errs.InvalidState)
}

func TestCloseWithdrawnDispute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, item := f.dispute(t)

	closed, err := f.escalations.Close(ctx, admin, item.ID)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.Status != models.EscalationClosed {
		t.Errorf("status = %s, want closed", closed.Status)
	}

	// The request stays escalated with no active item; Open may add a fresh one.
	reopened, err := f.escalations.Open(ctx, admin, OpenInput{SettlementRequestID: req.ID, Reason: "re-review requested"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if reopened.ID == item.ID || reopened.Status != models.EscalationOpen {
		t.Errorf("expected a new open item, got %+v", reopened)
	}

	items, err := f.escalations.List(ctx, provider, storage.EscalationFilter{SettlementRequestID: req.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected closed and new items, got %d", len(items))
	}
}

func TestOpenGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, _ := f.dispute(t)

	_, err := f.escalations.Open(ctx, admin, OpenInput{SettlementRequestID: req.ID, Reason: "dup"})
	wantKind(t, err, errs.InvalidState)

	_, err = f.escalations.Open(ctx, lawyer, OpenInput{SettlementRequestID: req.ID, Reason: "dup"})
	wantKind(t, err, errs.Authorization)

	pending := f.create(t, "100", "10")
	_, err = f.escalations.Open(ctx, admin, OpenInput{SettlementRequestID: pending.ID, Reason: "not escalated"})
	wantKind(t, err, errs.InvalidState)
}

func TestEscalationStatsAfterResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, a := f.dispute(t)
	f.dispute(t)

	if _, err := f.escalations.Resolve(ctx, admin, a.ID, "agreed", models.ResolutionAgreementReached); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	s, err := f.escalations.Stats(ctx, lawyer, storage.EscalationFilter{})
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Total != 2 || s.Open != 1 || s.Resolved != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	// The step clock puts creation and resolution minutes apart.
	if s.AverageResolutionDays != 0 {
		t.Errorf("average = %v, want 0 after rounding", s.AverageResolutionDays)
	}
}
