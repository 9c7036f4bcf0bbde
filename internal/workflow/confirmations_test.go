package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

func TestConfirmationScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.create(t, "10000", "3000")
	f.approve(t, req.ID)

	first, err := f.confirmations.Confirm(ctx, lawyer, ConfirmInput{
		SettlementRequestID: req.ID,
		ConfirmedAmount:     dec("7000"),
	})
	if err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}
	if !first.Created || first.Finalized {
		t.Errorf("unexpected first result: created=%v finalized=%v", first.Created, first.Finalized)
	}
	if first.Settlement.Status != models.StatusApproved {
		t.Errorf("status after one confirmation = %s, want approved", first.Settlement.Status)
	}

	second, err := f.confirmations.Confirm(ctx, provider, ConfirmInput{
		SettlementRequestID: req.ID,
		ConfirmedAmount:     dec("7000"),
		PaymentReceived:     true,
		PaymentAmount:       dec("7000"),
		PaymentMethod:       models.PaymentWire,
	})
	if err != nil {
		t.Fatalf("second Confirm failed: %v", err)
	}
	if !second.Finalized || second.Settlement.Status != models.StatusConfirmed {
		t.Errorf("expected finalization, got status %s", second.Settlement.Status)
	}
	if second.Confirmation.PaymentDate == nil {
		t.Error("payment date should default to now")
	}

	// A third confirmation updates the requester's row and leaves the status alone.
	third, err := f.confirmations.Confirm(ctx, lawyer, ConfirmInput{
		SettlementRequestID: req.ID,
		ConfirmedAmount:     dec("7000"),
		Notes:               "countersigned",
	})
	if err != nil {
		t.Fatalf("third Confirm failed: %v", err)
	}
	if third.Created || third.Finalized {
		t.Errorf("third confirm should update: created=%v finalized=%v", third.Created, third.Finalized)
	}
	if third.Confirmation.ID != first.Confirmation.ID {
		t.Errorf("confirmation ID changed: %s -> %s", first.Confirmation.ID, third.Confirmation.ID)
	}

	all, err := f.confirmations.List(ctx, admin, req.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 confirmation rows, got %d", len(all))
	}

	paidOn := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	paid, err := f.ledger.RecordPayment(ctx, provider, req.ID, PaymentInput{
		Amount: dec("7000"), Method: models.PaymentCheck, Reference: "chk-1001", PaidAt: &paidOn,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if paid.Status != models.StatusPaid || !paid.PaidAt.Equal(paidOn) || paid.PaymentReference != "chk-1001" {
		t.Errorf("unexpected paid request: %+v", paid)
	}

	// Confirming a paid settlement is still allowed and changes nothing.
	late, err := f.confirmations.Confirm(ctx, provider, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("7000")})
	if err != nil {
		t.Fatalf("late Confirm failed: %v", err)
	}
	if late.Settlement.Status != models.StatusPaid {
		t.Errorf("status = %s, want paid", late.Settlement.Status)
	}
}

func TestConfirmationOrderDoesNotMatter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "500", "50")
	f.approve(t, req.ID)

	for i, actor := range []models.Actor{provider, lawyer} {
		res, err := f.confirmations.Confirm(ctx, actor, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("450")})
		if err != nil {
			t.Fatalf("Confirm failed: %v", err)
		}
		if want := i == 1; res.Finalized != want {
			t.Errorf("confirm %d finalized = %v, want %v", i, res.Finalized, want)
		}
	}
}

func TestConfirmGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "1000", "100")

	_, err := f.confirmations.Confirm(ctx, lawyer, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900")})
	wantKind(t, err, errs.InvalidState)

	f.approve(t, req.ID)

	_, err = f.confirmations.Confirm(ctx, lawyer, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("-1")})
	wantKind(t, err, errs.Validation)

	_, err = f.confirmations.Confirm(ctx, lawyer, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900"), PaymentReceived: true, PaymentAmount: dec("900"), PaymentMethod: "barter"})
	wantKind(t, err, errs.Validation)

	_, err = f.confirmations.Confirm(ctx, stranger, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900")})
	wantKind(t, err, errs.NotFound)

	_, err = f.confirmations.Confirm(ctx, admin, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900")})
	wantKind(t, err, errs.Authorization)
}

func TestConfirmFlagsMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "1000", "100")
	f.approve(t, req.ID)

	res, err := f.confirmations.Confirm(ctx, lawyer, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("850")})
	if err != nil {
		t.Fatalf("Confirm should accept a mismatch: %v", err)
	}
	if !res.Confirmation.AmountMismatch {
		t.Error("expected mismatch flag")
	}

	res, err = f.confirmations.Confirm(ctx, provider, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900.01")})
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if res.Confirmation.AmountMismatch {
		t.Error("a difference within tolerance should not be flagged")
	}
	if !res.Finalized {
		t.Error("mismatched confirmations still finalize")
	}
}

func TestHasConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "1000", "100")
	f.approve(t, req.ID)

	ok, err := f.confirmations.HasConfirmed(ctx, lawyer, req.ID, "")
	if err != nil || ok {
		t.Fatalf("HasConfirmed before confirm = %v, %v", ok, err)
	}
	if _, err := f.confirmations.Confirm(ctx, lawyer, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900")}); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	ok, err = f.confirmations.HasConfirmed(ctx, provider, req.ID, "org-law")
	if err != nil || !ok {
		t.Errorf("HasConfirmed(org-law) = %v, %v", ok, err)
	}
	ok, err = f.confirmations.HasConfirmed(ctx, provider, req.ID, "")
	if err != nil || ok {
		t.Errorf("HasConfirmed(own org) = %v, %v", ok, err)
	}

	_, err = f.confirmations.HasConfirmed(ctx, stranger, req.ID, "")
	wantKind(t, err, errs.NotFound)
}

func TestConfirmKeepsPaymentReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "10000", "3000")
	f.approve(t, req.ID)

	if _, err := f.confirmations.Confirm(ctx, provider, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("7000")}); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Payment details arrive with a later confirmation.
	withPayment, err := f.confirmations.Confirm(ctx, provider, ConfirmInput{
		SettlementRequestID: req.ID,
		ConfirmedAmount:     dec("7000"),
		PaymentReceived:     true,
		PaymentAmount:       dec("7000"),
		PaymentMethod:       models.PaymentWire,
		PaymentReference:    "W-1",
	})
	if err != nil {
		t.Fatalf("Confirm with payment failed: %v", err)
	}
	if withPayment.Created || !withPayment.Confirmation.PaymentReceived {
		t.Errorf("expected update with payment: %+v", withPayment.Confirmation)
	}

	noteOnly, err := f.confirmations.Confirm(ctx, provider, ConfirmInput{
		SettlementRequestID: req.ID,
		ConfirmedAmount:     dec("7000"),
		Notes:               "add note",
	})
	if err != nil {
		t.Fatalf("note-only Confirm failed: %v", err)
	}
	if !noteOnly.Confirmation.PaymentReceived {
		t.Error("note-only confirm should report the stored receipt")
	}

	got, err := f.store.GetConfirmation(ctx, req.ID, provider.OrgID)
	if err != nil {
		t.Fatalf("GetConfirmation failed: %v", err)
	}
	if got.ConfirmationNotes != "add note" {
		t.Errorf("notes = %q, want %q", got.ConfirmationNotes, "add note")
	}
	if !got.PaymentReceived || !got.PaymentAmount.Equal(dec("7000")) ||
		got.PaymentMethod != models.PaymentWire || got.PaymentReference != "W-1" || got.PaymentDate == nil {
		t.Errorf("payment receipt lost: %+v", got)
	}
}

func TestMarkConfirmedReportsLostRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, "1000", "100")
	stale := f.approve(t, req.ID)

	for _, actor := range []models.Actor{lawyer, provider} {
		if _, err := f.confirmations.Confirm(ctx, actor, ConfirmInput{SettlementRequestID: req.ID, ConfirmedAmount: dec("900")}); err != nil {
			t.Fatalf("Confirm failed: %v", err)
		}
	}

	// The stale copy still reads approved, so the conditional write loses.
	final, moved, err := f.ledger.markConfirmed(ctx, provider, stale)
	if err != nil {
		t.Fatalf("markConfirmed failed: %v", err)
	}
	if moved {
		t.Error("a lost race must not report the move")
	}
	if final.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", final.Status)
	}
}
