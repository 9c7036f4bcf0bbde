package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/mmynk/casesettle/internal/authz"
	"github.com/mmynk/casesettle/internal/calculator"
	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/notify"
	"github.com/mmynk/casesettle/internal/storage"
)

// OpenInput describes an escalation item opened outside of Ledger.Dispute.
type OpenInput struct {
	SettlementRequestID string
	// EscalatedByUser defaults to the acting user.
	EscalatedByUser string
	Reason          string
	Type            models.EscalationType
	Priority        models.EscalationPriority
}

// Escalations is the neutral resolution queue for disputed settlements.
// Resolving an item never changes the settlement it refers to.
type Escalations struct {
	store       storage.EscalationStore
	settlements storage.SettlementStore
	gate        authz.Gate
	options
}

func NewEscalations(store storage.EscalationStore, settlements storage.SettlementStore, gate authz.Gate, opts ...Option) *Escalations {
	return &Escalations{store: store, settlements: settlements, gate: gate, options: buildOptions(opts)}
}

func newEscalationItem(requestID, user, reason string, typ models.EscalationType, priority models.EscalationPriority, now time.Time) (*models.EscalationQueueItem, error) {
	if blank(reason) {
		return nil, errs.ValidationError("escalation reason is required")
	}
	if typ == "" {
		typ = models.EscalationDisputedReduction
	}
	if !typ.Valid() {
		return nil, errs.ValidationError("unknown escalation type %q", typ)
	}
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !priority.Valid() {
		return nil, errs.ValidationError("unknown escalation priority %q", priority)
	}
	return &models.EscalationQueueItem{
		SettlementRequestID: requestID,
		EscalatedByUser:     user,
		EscalationReason:    strings.TrimSpace(reason),
		EscalationType:      typ,
		Priority:            priority,
		Status:              models.EscalationOpen,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// Open adds an item for an escalated settlement that has none active.
// Disputes open their item through Ledger.Dispute; Open serves repairs and
// administrators.
func (e *Escalations) Open(ctx context.Context, actor models.Actor, in OpenInput) (*models.EscalationQueueItem, error) {
	if !actor.Admin && actor != models.System {
		return nil, errs.AuthorizationError("opening an escalation directly requires the administrator role")
	}
	req, err := e.settlements.GetSettlementRequest(ctx, in.SettlementRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusEscalated {
		return nil, errs.InvalidStateError("settlement %s is %s, not escalated", req.ID, req.Status)
	}
	if existing, err := e.store.ActiveEscalation(ctx, req.ID); err == nil {
		return nil, errs.InvalidStateError("escalation %s is already %s for settlement %s", existing.ID, existing.Status, req.ID)
	} else if !errs.Is(err, errs.NotFound) {
		return nil, err
	}

	by := in.EscalatedByUser
	if by == "" {
		by = actor.UserID
	}
	now := e.now()
	item, err := newEscalationItem(req.ID, by, in.Reason, in.Type, in.Priority, now)
	if err != nil {
		return nil, err
	}
	if err := e.store.CreateEscalation(ctx, item); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Escalation opened",
		"escalation_id", item.ID,
		"settlement_id", req.ID,
		"actor", actor.UserID,
	)
	e.publish(ctx, escalationEvent("open", item, actor, now))
	return item, nil
}

// Assign takes an open item into in_progress.
func (e *Escalations) Assign(ctx context.Context, actor models.Actor, id, userID string) (*models.EscalationQueueItem, error) {
	if blank(userID) {
		return nil, errs.ValidationError("assignee is required")
	}
	return e.transition(ctx, actor, id, EscalationAssign, func(item *models.EscalationQueueItem, now time.Time) {
		item.AssignedToUser = strings.TrimSpace(userID)
		item.AssignedAt = &now
	})
}

// Resolve records the outcome. Allowed from open or in_progress.
func (e *Escalations) Resolve(ctx context.Context, actor models.Actor, id, resolution string, resolutionType models.ResolutionType) (*models.EscalationQueueItem, error) {
	if blank(resolution) {
		return nil, errs.ValidationError("resolution text is required")
	}
	if resolutionType == "" {
		resolutionType = models.ResolutionOther
	}
	if !resolutionType.Valid() {
		return nil, errs.ValidationError("unknown resolution type %q", resolutionType)
	}
	return e.transition(ctx, actor, id, EscalationResolve, func(item *models.EscalationQueueItem, now time.Time) {
		item.Resolution = strings.TrimSpace(resolution)
		item.ResolutionType = resolutionType
		item.ResolvedByUser = actor.UserID
		item.ResolvedAt = &now
	})
}

// Close is the terminal transition, from resolved or directly for withdrawn disputes.
func (e *Escalations) Close(ctx context.Context, actor models.Actor, id string) (*models.EscalationQueueItem, error) {
	return e.transition(ctx, actor, id, EscalationClose, func(item *models.EscalationQueueItem, now time.Time) {
		item.ClosedAt = &now
	})
}

func (e *Escalations) transition(ctx context.Context, actor models.Actor, id string, action EscalationAction, apply func(*models.EscalationQueueItem, time.Time)) (*models.EscalationQueueItem, error) {
	item, err := e.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin {
		return nil, errs.AuthorizationError("working the escalation queue requires the administrator role")
	}
	to, err := NextEscalationStatus(item.Status, action)
	if err != nil {
		return nil, err
	}

	now := e.now()
	next := item.Clone()
	next.Status = to
	next.UpdatedAt = now
	apply(next, now)

	if err := e.store.UpdateEscalation(ctx, next, []models.EscalationStatus{item.Status}); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Escalation transition",
		"escalation_id", item.ID,
		"settlement_id", item.SettlementRequestID,
		"action", action,
		"from", item.Status,
		"to", to,
		"actor", actor.UserID,
	)
	e.publish(ctx, escalationEvent(string(action), next, actor, now))
	return next, nil
}

// Get returns an item visible to the actor.
func (e *Escalations) Get(ctx context.Context, actor models.Actor, id string) (*models.EscalationQueueItem, error) {
	item, err := e.load(ctx, actor, id)
	return item, err
}

// List returns items visible to the actor. Non-admins see only items on
// cases their organization is a party to.
func (e *Escalations) List(ctx context.Context, actor models.Actor, filter storage.EscalationFilter) ([]*models.EscalationQueueItem, error) {
	if !actor.Admin {
		if actor.OrgID == "" {
			return nil, nil
		}
		filter.OrgID = actor.OrgID
	}
	return e.store.ListEscalations(ctx, filter)
}

// Stats aggregates the items visible to the actor.
func (e *Escalations) Stats(ctx context.Context, actor models.Actor, filter storage.EscalationFilter) (calculator.EscalationSummary, error) {
	items, err := e.List(ctx, actor, filter)
	if err != nil {
		return calculator.EscalationSummary{}, err
	}
	return calculator.EscalationStats(items), nil
}

func (e *Escalations) load(ctx context.Context, actor models.Actor, id string) (*models.EscalationQueueItem, error) {
	item, err := e.store.GetEscalation(ctx, id)
	if err != nil {
		return nil, err
	}
	req, err := e.settlements.GetSettlementRequest(ctx, item.SettlementRequestID)
	if err != nil {
		return nil, err
	}
	acc, err := e.gate.CanActOnCase(ctx, actor, req.CaseID)
	if errs.Is(err, errs.NotFound) || (err == nil && !acc.CanRead) {
		return nil, errs.NotFoundError("escalation not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func escalationEvent(action string, item *models.EscalationQueueItem, actor models.Actor, at time.Time) notify.Event {
	return notify.Event{
		Kind:                notify.KindEscalation,
		Action:              action,
		ID:                  item.ID,
		SettlementRequestID: item.SettlementRequestID,
		Status:              string(item.Status),
		ActorUser:           actor.UserID,
		At:                  at,
	}
}
