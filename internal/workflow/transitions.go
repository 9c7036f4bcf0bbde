package workflow

import (
	"slices"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

// Action names a ledger transition. Actions are recorded in the audit trail.
type Action string

const (
	ActionCreate        Action = "create"
	ActionApprove       Action = "approve"
	ActionDeny          Action = "deny"
	ActionOverride      Action = "override"
	ActionDispute       Action = "dispute"
	ActionConfirm       Action = "confirm"
	ActionRecordPayment Action = "record_payment"
)

type settlementEdge struct {
	from []models.SettlementStatus
	to   models.SettlementStatus
}

var settlementTransitions = map[Action]settlementEdge{
	ActionApprove: {from: []models.SettlementStatus{models.StatusPending}, to: models.StatusApproved},
	ActionDeny:    {from: []models.SettlementStatus{models.StatusPending}, to: models.StatusDenied},
	ActionOverride: {
		from: []models.SettlementStatus{
			models.StatusPending, models.StatusApproved, models.StatusDenied, models.StatusDisputed,
			models.StatusEscalated, models.StatusConfirmed,
		},
		to: models.StatusApproved,
	},
	ActionDispute:       {from: []models.SettlementStatus{models.StatusPending, models.StatusApproved}, to: models.StatusEscalated},
	ActionConfirm:       {from: []models.SettlementStatus{models.StatusApproved}, to: models.StatusConfirmed},
	ActionRecordPayment: {from: []models.SettlementStatus{models.StatusConfirmed}, to: models.StatusPaid},
}

// NextStatus is the only place ledger transitions are decided. It returns an
// errs.InvalidState error when action is not allowed from from.
func NextStatus(from models.SettlementStatus, action Action) (models.SettlementStatus, error) {
	edge, ok := settlementTransitions[action]
	if !ok {
		return "", errs.InvalidStateError("unknown settlement action %q", action)
	}
	if !slices.Contains(edge.from, from) {
		return "", errs.InvalidStateError("cannot %s a settlement that is %s", actionVerb(action), from)
	}
	return edge.to, nil
}

func actionVerb(a Action) string {
	switch a {
	case ActionRecordPayment:
		return "record payment on"
	case ActionOverride:
		return "override"
	}
	return string(a)
}

// EscalationAction names an escalation queue transition.
type EscalationAction string

const (
	EscalationAssign  EscalationAction = "assign"
	EscalationResolve EscalationAction = "resolve"
	EscalationClose   EscalationAction = "close"
)

type escalationEdge struct {
	from []models.EscalationStatus
	to   models.EscalationStatus
}

var escalationTransitions = map[EscalationAction]escalationEdge{
	EscalationAssign: {from: []models.EscalationStatus{models.EscalationOpen}, to: models.EscalationInProgress},
	EscalationResolve: {
		from: []models.EscalationStatus{models.EscalationOpen, models.EscalationInProgress},
		to:   models.EscalationResolved,
	},
	EscalationClose: {
		from: []models.EscalationStatus{models.EscalationOpen, models.EscalationInProgress, models.EscalationResolved},
		to:   models.EscalationClosed,
	},
}

// NextEscalationStatus decides escalation queue transitions.
func NextEscalationStatus(from models.EscalationStatus, action EscalationAction) (models.EscalationStatus, error) {
	edge, ok := escalationTransitions[action]
	if !ok {
		return "", errs.InvalidStateError("unknown escalation action %q", action)
	}
	if !slices.Contains(edge.from, from) {
		return "", errs.InvalidStateError("cannot %s an escalation that is %s", action, from)
	}
	return edge.to, nil
}
