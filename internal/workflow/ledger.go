package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/authz"
	"github.com/mmynk/casesettle/internal/calculator"
	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/notify"
	"github.com/mmynk/casesettle/internal/storage"
)

// CreateInput carries the fields of a new settlement request.
type CreateInput struct {
	CaseID             string
	EncounterID        string
	OriginalAmount     decimal.Decimal
	RequestedReduction decimal.Decimal
	Reason             string
	Category           models.ReductionCategory
	Attachments        []string
}

// DisputeOptions classify the escalation item a dispute opens. Zero values
// mean disputed_reduction at normal priority.
type DisputeOptions struct {
	Type     models.EscalationType
	Priority models.EscalationPriority
}

// PaymentInput records money moving on a confirmed settlement.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    models.PaymentMethod
	Reference string
	PaidAt    *time.Time
}

// Ledger owns settlement requests and their status transitions.
type Ledger struct {
	store storage.SettlementStore
	gate  authz.Gate
	options
}

func NewLedger(store storage.SettlementStore, gate authz.Gate, opts ...Option) *Ledger {
	return &Ledger{store: store, gate: gate, options: buildOptions(opts)}
}

// Create opens a new negotiation in pending on behalf of the actor's organization.
func (l *Ledger) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.SettlementRequest, error) {
	if blank(in.CaseID) {
		return nil, errs.ValidationError("case id is required")
	}
	if blank(in.Reason) {
		return nil, errs.ValidationError("reason required to request a reduction")
	}
	category := in.Category
	if category == "" {
		category = l.defaultCategory
	}
	if !category.Valid() {
		return nil, errs.ValidationError("unknown reduction category %q", category)
	}
	pct, err := calculator.ReductionPercentage(in.OriginalAmount, in.RequestedReduction)
	if err != nil {
		return nil, err
	}

	acc, err := l.gate.CanActOnCase(ctx, actor, in.CaseID)
	if err != nil {
		return nil, err
	}
	if !acc.CanWrite {
		return nil, errs.NotFoundError("case not found: %s", in.CaseID)
	}
	if !isParty(acc) {
		return nil, errs.AuthorizationError("only a party to case %s can request a settlement", in.CaseID)
	}

	now := l.now()
	req := &models.SettlementRequest{
		CaseID:              in.CaseID,
		EncounterID:         in.EncounterID,
		RequestedByOrg:      acc.OrgID,
		RequestedByUser:     actor.UserID,
		OriginalAmount:      in.OriginalAmount,
		RequestedReduction:  in.RequestedReduction,
		ReductionPercentage: pct,
		ReductionReason:     strings.TrimSpace(in.Reason),
		ReductionCategory:   category,
		Attachments:         in.Attachments,
		Status:              models.StatusPending,
		RequestedAt:         now,
		UpdatedAt:           now,
	}
	entry := l.auditEntry(actor, ActionCreate, "", req.Status, req.ReductionReason, now)
	if err := l.store.CreateSettlementRequest(ctx, req, entry); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Settlement requested",
		"settlement_id", req.ID,
		"case_id", req.CaseID,
		"actor", actor.UserID,
		"original_amount", req.OriginalAmount.String(),
		"requested_reduction", req.RequestedReduction.String(),
	)
	l.metrics.Transition(string(ActionCreate), "", string(req.Status))
	l.announce(ctx, ActionCreate, req, actor)
	return req, nil
}

// Approve accepts a pending request. Only the organization opposite the
// requester may approve.
func (l *Ledger) Approve(ctx context.Context, actor models.Actor, id, notes string) (*models.SettlementRequest, error) {
	return l.respond(ctx, actor, id, ActionApprove, strings.TrimSpace(notes))
}

// Deny rejects a pending request. A reason is required.
func (l *Ledger) Deny(ctx context.Context, actor models.Actor, id, reason string) (*models.SettlementRequest, error) {
	if blank(reason) {
		return nil, errs.ValidationError("reason required to deny a request")
	}
	return l.respond(ctx, actor, id, ActionDeny, strings.TrimSpace(reason))
}

func (l *Ledger) respond(ctx context.Context, actor models.Actor, id string, action Action, notes string) (*models.SettlementRequest, error) {
	req, acc, err := l.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	to, err := NextStatus(req.Status, action)
	if err != nil {
		return nil, err
	}
	if !isParty(acc) || acc.OrgID == req.RequestedByOrg {
		return nil, errs.AuthorizationError("only the counterparty organization can %s this request", action)
	}

	now := l.now()
	next := req.Clone()
	next.Status = to
	next.ResponseByUser = actor.UserID
	next.ResponseNotes = notes
	next.RespondedAt = &now
	next.UpdatedAt = now

	if err := l.write(ctx, actor, action, req, next, notes); err != nil {
		return nil, err
	}
	return next, nil
}

// Override force-approves a request from any status except paid. Admin only.
func (l *Ledger) Override(ctx context.Context, actor models.Actor, id, reason, attachment string) (*models.SettlementRequest, error) {
	req, _, err := l.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin {
		return nil, errs.AuthorizationError("override requires the administrator role")
	}
	if blank(reason) {
		return nil, errs.ValidationError("reason required to override a settlement")
	}
	to, err := NextStatus(req.Status, ActionOverride)
	if err != nil {
		return nil, err
	}

	now := l.now()
	next := req.Clone()
	next.Status = to
	next.OverrideReason = strings.TrimSpace(reason)
	next.OverrideByUser = actor.UserID
	next.OverrideAttachment = attachment
	next.UpdatedAt = now

	if err := l.write(ctx, actor, ActionOverride, req, next, next.OverrideReason); err != nil {
		return nil, err
	}
	l.logger.WarnContext(ctx, "Settlement overridden",
		"settlement_id", req.ID,
		"case_id", req.CaseID,
		"actor", actor.UserID,
		"from", req.Status,
		"reason", next.OverrideReason,
	)
	return next, nil
}

// Dispute moves a pending or approved request to escalated and opens its
// escalation item in the same storage transaction.
func (l *Ledger) Dispute(ctx context.Context, actor models.Actor, id, reason string, opts DisputeOptions) (*models.SettlementRequest, *models.EscalationQueueItem, error) {
	req, acc, err := l.load(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if !isParty(acc) {
		return nil, nil, errs.AuthorizationError("only a party to the case can dispute a settlement")
	}
	if blank(reason) {
		return nil, nil, errs.ValidationError("reason required to dispute a settlement")
	}
	to, err := NextStatus(req.Status, ActionDispute)
	if err != nil {
		return nil, nil, err
	}

	now := l.now()
	item, err := newEscalationItem(req.ID, actor.UserID, reason, opts.Type, opts.Priority, now)
	if err != nil {
		return nil, nil, err
	}
	next := req.Clone()
	next.Status = to
	next.UpdatedAt = now

	entry := l.auditEntry(actor, ActionDispute, req.Status, to, item.EscalationReason, now)
	if err := l.store.EscalateSettlementRequest(ctx, next, []models.SettlementStatus{req.Status}, item, entry); err != nil {
		return nil, nil, err
	}

	l.metrics.Transition(string(ActionDispute), string(req.Status), string(to))
	l.metrics.EscalationOpened("dispute")
	l.logger.InfoContext(ctx, "Settlement disputed",
		"settlement_id", req.ID,
		"escalation_id", item.ID,
		"actor", actor.UserID,
		"from", req.Status,
	)
	l.announce(ctx, ActionDispute, next, actor)
	l.publish(ctx, escalationEvent("open", item, actor, now))
	return next, item, nil
}

// RecordPayment marks a confirmed settlement as paid.
func (l *Ledger) RecordPayment(ctx context.Context, actor models.Actor, id string, in PaymentInput) (*models.SettlementRequest, error) {
	req, acc, err := l.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !isParty(acc) {
		return nil, errs.AuthorizationError("only a party to the case can record payment")
	}
	if !in.Amount.IsPositive() {
		return nil, errs.ValidationError("payment amount must be greater than zero")
	}
	if !in.Method.Valid() {
		return nil, errs.ValidationError("unknown payment method %q", in.Method)
	}
	to, err := NextStatus(req.Status, ActionRecordPayment)
	if err != nil {
		return nil, err
	}

	now := l.now()
	paidAt := now
	if in.PaidAt != nil {
		paidAt = in.PaidAt.UTC().Truncate(time.Second)
	}
	next := req.Clone()
	next.Status = to
	next.PaymentAmount = in.Amount
	next.PaymentMethod = in.Method
	next.PaymentReference = in.Reference
	next.PaidAt = &paidAt
	next.UpdatedAt = now

	if err := l.write(ctx, actor, ActionRecordPayment, req, next, in.Reference); err != nil {
		return nil, err
	}
	return next, nil
}

// markConfirmed moves an approved request to confirmed. moved is false when
// the request was already confirmed or paid, including when a concurrent
// confirmation won the write.
func (l *Ledger) markConfirmed(ctx context.Context, actor models.Actor, req *models.SettlementRequest) (final *models.SettlementRequest, moved bool, err error) {
	if req.Status == models.StatusConfirmed || req.Status == models.StatusPaid {
		return req, false, nil
	}
	to, err := NextStatus(req.Status, ActionConfirm)
	if err != nil {
		return nil, false, err
	}

	next := req.Clone()
	next.Status = to
	next.UpdatedAt = l.now()

	err = l.write(ctx, actor, ActionConfirm, req, next, "")
	if errs.Is(err, errs.Conflict) {
		current, gerr := l.store.GetSettlementRequest(ctx, req.ID)
		if gerr != nil {
			return nil, false, gerr
		}
		if current.Status == models.StatusConfirmed || current.Status == models.StatusPaid {
			return current, false, nil
		}
		return nil, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// Get returns a request visible to the actor.
func (l *Ledger) Get(ctx context.Context, actor models.Actor, id string) (*models.SettlementRequest, error) {
	req, _, err := l.load(ctx, actor, id)
	return req, err
}

// List returns requests visible to the actor. Non-admins only see cases
// their organization is a party to.
func (l *Ledger) List(ctx context.Context, actor models.Actor, filter storage.SettlementFilter) ([]*models.SettlementRequest, error) {
	if !actor.Admin {
		if actor.OrgID == "" {
			return nil, nil
		}
		filter.OrgID = actor.OrgID
	}
	return l.store.ListSettlementRequests(ctx, filter)
}

// AuditTrail returns the transitions recorded for a request, oldest first.
func (l *Ledger) AuditTrail(ctx context.Context, actor models.Actor, id string) ([]*models.AuditEntry, error) {
	if _, _, err := l.load(ctx, actor, id); err != nil {
		return nil, err
	}
	return l.store.ListAuditEntries(ctx, id)
}

// Stats aggregates the requests visible to the actor.
func (l *Ledger) Stats(ctx context.Context, actor models.Actor, filter storage.SettlementFilter) (calculator.SettlementSummary, error) {
	reqs, err := l.List(ctx, actor, filter)
	if err != nil {
		return calculator.SettlementSummary{}, err
	}
	return calculator.SettlementStats(reqs), nil
}

// load fetches a request and the actor's access to its case. Actors who
// cannot read the case get the same NotFound as for an unknown id.
func (l *Ledger) load(ctx context.Context, actor models.Actor, id string) (*models.SettlementRequest, authz.Access, error) {
	req, err := l.store.GetSettlementRequest(ctx, id)
	if err != nil {
		return nil, authz.Access{}, err
	}
	acc, err := l.gate.CanActOnCase(ctx, actor, req.CaseID)
	if errs.Is(err, errs.NotFound) || (err == nil && !acc.CanRead) {
		return nil, authz.Access{}, errs.NotFoundError("settlement not found: %s", id)
	}
	if err != nil {
		return nil, authz.Access{}, err
	}
	return req, acc, nil
}

// write persists next guarded on prev's status, then records and announces it.
func (l *Ledger) write(ctx context.Context, actor models.Actor, action Action, prev, next *models.SettlementRequest, reason string) error {
	entry := l.auditEntry(actor, action, prev.Status, next.Status, reason, next.UpdatedAt)
	if err := l.store.UpdateSettlementRequest(ctx, next, []models.SettlementStatus{prev.Status}, entry); err != nil {
		return err
	}
	l.metrics.Transition(string(action), string(prev.Status), string(next.Status))
	l.logger.InfoContext(ctx, "Settlement transition",
		"settlement_id", next.ID,
		"action", action,
		"from", prev.Status,
		"to", next.Status,
		"actor", actor.UserID,
	)
	l.announce(ctx, action, next, actor)
	return nil
}

func (l *Ledger) auditEntry(actor models.Actor, action Action, from, to models.SettlementStatus, reason string, at time.Time) *models.AuditEntry {
	return &models.AuditEntry{
		Action:     string(action),
		FromStatus: from,
		ToStatus:   to,
		ActorUser:  actor.UserID,
		ActorOrg:   actor.OrgID,
		Reason:     reason,
		CreatedAt:  at,
	}
}

func (l *Ledger) announce(ctx context.Context, action Action, req *models.SettlementRequest, actor models.Actor) {
	l.publish(ctx, notify.Event{
		Kind:                notify.KindSettlement,
		Action:              string(action),
		ID:                  req.ID,
		SettlementRequestID: req.ID,
		CaseID:              req.CaseID,
		Status:              string(req.Status),
		ActorUser:           actor.UserID,
		At:                  req.UpdatedAt,
	})
}
