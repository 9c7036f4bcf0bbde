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

// ConfirmInput is one organization's attestation. Payment fields are only
// read when PaymentReceived is set.
type ConfirmInput struct {
	SettlementRequestID string
	ConfirmedAmount     decimal.Decimal
	PaymentReceived     bool
	PaymentAmount       decimal.Decimal
	PaymentDate         *time.Time
	PaymentMethod       models.PaymentMethod
	PaymentReference    string
	Notes               string
}

// ConfirmResult reports what a confirmation did.
type ConfirmResult struct {
	Confirmation *models.SettlementConfirmation
	Settlement   *models.SettlementRequest
	// Created is false when the organization's earlier confirmation was updated.
	Created bool
	// Finalized is true when this call moved the settlement to confirmed.
	Finalized bool
}

// Confirmations records per-organization confirmations and finalizes a
// settlement once both case parties have confirmed.
type Confirmations struct {
	store  storage.ConfirmationStore
	ledger *Ledger
	dir    authz.CaseDirectory
	options
}

func NewConfirmations(store storage.ConfirmationStore, ledger *Ledger, dir authz.CaseDirectory, opts ...Option) *Confirmations {
	return &Confirmations{store: store, ledger: ledger, dir: dir, options: buildOptions(opts)}
}

// Confirm upserts the actor organization's confirmation. Amount mismatches
// are flagged on the row, never rejected.
func (c *Confirmations) Confirm(ctx context.Context, actor models.Actor, in ConfirmInput) (*ConfirmResult, error) {
	req, _, err := c.ledger.load(ctx, actor, in.SettlementRequestID)
	if err != nil {
		return nil, err
	}
	parties, err := c.dir.GetOrganizationsForCase(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	if !parties.Includes(actor.OrgID) {
		return nil, errs.AuthorizationError("only the two parties to case %s can confirm a settlement", req.CaseID)
	}
	if in.ConfirmedAmount.IsNegative() {
		return nil, errs.ValidationError("confirmed amount cannot be negative")
	}

	switch req.Status {
	case models.StatusApproved, models.StatusConfirmed, models.StatusPaid:
	default:
		return nil, errs.InvalidStateError("settlement must be approved before it can be confirmed (currently %s)", req.Status)
	}

	now := c.now()
	conf := &models.SettlementConfirmation{
		SettlementRequestID: req.ID,
		ConfirmingUser:      actor.UserID,
		ConfirmingOrg:       actor.OrgID,
		ConfirmedAmount:     in.ConfirmedAmount,
		ConfirmationNotes:   strings.TrimSpace(in.Notes),
		UpdatedAt:           now,
	}
	if in.PaymentReceived {
		if in.PaymentAmount.IsNegative() {
			return nil, errs.ValidationError("payment amount cannot be negative")
		}
		if !in.PaymentMethod.Valid() {
			return nil, errs.ValidationError("unknown payment method %q", in.PaymentMethod)
		}
		paidOn := now
		if in.PaymentDate != nil {
			paidOn = in.PaymentDate.UTC().Truncate(time.Second)
		}
		conf.PaymentReceived = true
		conf.PaymentAmount = in.PaymentAmount
		conf.PaymentDate = &paidOn
		conf.PaymentMethod = in.PaymentMethod
		conf.PaymentReference = in.PaymentReference
	}

	if calculator.AmountMismatch(conf.ConfirmedAmount, req.FinalAmount(), c.tolerance) {
		conf.AmountMismatch = true
		c.metrics.ConfirmationMismatch()
		c.logger.WarnContext(ctx, "Confirmed amount differs from final amount",
			"settlement_id", req.ID,
			"org", actor.OrgID,
			"confirmed_amount", conf.ConfirmedAmount.String(),
			"final_amount", req.FinalAmount().String(),
		)
	}

	created, err := c.store.UpsertConfirmation(ctx, conf)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "Settlement confirmed by organization",
		"settlement_id", req.ID,
		"org", actor.OrgID,
		"actor", actor.UserID,
		"created", created,
	)
	c.publish(ctx, notify.Event{
		Kind:                notify.KindConfirmation,
		Action:              string(ActionConfirm),
		ID:                  conf.ID,
		SettlementRequestID: req.ID,
		CaseID:              req.CaseID,
		Status:              string(req.Status),
		ActorUser:           actor.UserID,
		At:                  now,
	})

	result := &ConfirmResult{Confirmation: conf, Settlement: req, Created: created}
	if req.Status != models.StatusApproved {
		return result, nil
	}

	both, err := c.bothConfirmed(ctx, req.ID, parties)
	if err != nil {
		return nil, err
	}
	if !both {
		return result, nil
	}
	final, moved, err := c.ledger.markConfirmed(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	result.Settlement = final
	result.Finalized = moved
	return result, nil
}

func (c *Confirmations) bothConfirmed(ctx context.Context, requestID string, parties models.CaseParties) (bool, error) {
	confs, err := c.store.ListConfirmations(ctx, requestID)
	if err != nil {
		return false, err
	}
	var requester, counterparty bool
	for _, conf := range confs {
		switch conf.ConfirmingOrg {
		case parties.RequestingOrg:
			requester = true
		case parties.CounterpartyOrg:
			counterparty = true
		}
	}
	return requester && counterparty, nil
}

// HasConfirmed reports whether orgID has confirmed the request. An empty
// orgID means the actor's own organization.
func (c *Confirmations) HasConfirmed(ctx context.Context, actor models.Actor, requestID, orgID string) (bool, error) {
	if _, _, err := c.ledger.load(ctx, actor, requestID); err != nil {
		return false, err
	}
	if orgID == "" {
		orgID = actor.OrgID
	}
	_, err := c.store.GetConfirmation(ctx, requestID, orgID)
	if errs.Is(err, errs.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every confirmation recorded for a request.
func (c *Confirmations) List(ctx context.Context, actor models.Actor, requestID string) ([]*models.SettlementConfirmation, error) {
	if _, _, err := c.ledger.load(ctx, actor, requestID); err != nil {
		return nil, err
	}
	return c.store.ListConfirmations(ctx, requestID)
}
