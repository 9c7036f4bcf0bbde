package workflow

import (
	"testing"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from    models.SettlementStatus
		action  Action
		want    models.SettlementStatus
		wantErr bool
	}{
		{models.StatusPending, ActionApprove, models.StatusApproved, false},
		{models.StatusPending, ActionDeny, models.StatusDenied, false},
		{models.StatusApproved, ActionDeny, "", true},
		{models.StatusDenied, ActionApprove, "", true},
		{models.StatusPending, ActionDispute, models.StatusEscalated, false},
		{models.StatusApproved, ActionDispute, models.StatusEscalated, false},
		{models.StatusEscalated, ActionDispute, "", true},
		{models.StatusDenied, ActionDispute, "", true},
		{models.StatusDenied, ActionOverride, models.StatusApproved, false},
		{models.StatusEscalated, ActionOverride, models.StatusApproved, false},
		{models.StatusPaid, ActionOverride, "", true},
		{models.StatusApproved, ActionConfirm, models.StatusConfirmed, false},
		{models.StatusPending, ActionConfirm, "", true},
		{models.StatusConfirmed, ActionRecordPayment, models.StatusPaid, false},
		{models.StatusApproved, ActionRecordPayment, "", true},
		{models.StatusPending, Action("reopen"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.action)
			if tt.wantErr {
				if !errs.Is(err, errs.InvalidState) {
					t.Fatalf("expected InvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNoTransitionEntersPending(t *testing.T) {
	for action, edge := range settlementTransitions {
		if edge.to == models.StatusPending || edge.to == models.StatusDisputed {
			t.Errorf("action %s targets %s", action, edge.to)
		}
	}
}

func TestNextEscalationStatus(t *testing.T) {
	tests := []struct {
		from    models.EscalationStatus
		action  EscalationAction
		want    models.EscalationStatus
		wantErr bool
	}{
		{models.EscalationOpen, EscalationAssign, models.EscalationInProgress, false},
		{models.EscalationInProgress, EscalationAssign, "", true},
		{models.EscalationOpen, EscalationResolve, models.EscalationResolved, false},
		{models.EscalationInProgress, EscalationResolve, models.EscalationResolved, false},
		{models.EscalationClosed, EscalationResolve, "", true},
		{models.EscalationResolved, EscalationResolve, "", true},
		{models.EscalationResolved, EscalationClose, models.EscalationClosed, false},
		{models.EscalationOpen, EscalationClose, models.EscalationClosed, false},
		{models.EscalationClosed, EscalationClose, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextEscalationStatus(tt.from, tt.action)
			if tt.wantErr {
				if !errs.Is(err, errs.InvalidState) {
					t.Fatalf("expected InvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
