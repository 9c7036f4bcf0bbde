package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
	"github.com/mmynk/casesettle/internal/workflow"
	"github.com/mmynk/casesettle/pkg/api"
	"github.com/mmynk/casesettle/pkg/api/apiconnect"
)

// OrgDirectory resolves display names for presentation.
type OrgDirectory interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	GetCaseParties(ctx context.Context, caseID string) (*models.CaseParties, error)
}

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	ledger        *workflow.Ledger
	confirmations *workflow.Confirmations
	directory     OrgDirectory
	logger        *slog.Logger
}

// NewSettlementService creates a SettlementService over the ledger and confirmation store.
func NewSettlementService(ledger *workflow.Ledger, confirmations *workflow.Confirmations, directory OrgDirectory, logger *slog.Logger) *SettlementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettlementService{
		ledger:        ledger,
		confirmations: confirmations,
		directory:     directory,
		logger:        logger,
	}
}

func settlementResponse(r *models.SettlementRequest) *connect.Response[api.SettlementResponse] {
	return connect.NewResponse(&api.SettlementResponse{Settlement: toAPISettlement(r)})
}

// CreateSettlement opens a negotiation on behalf of the caller's organization.
func (s *SettlementService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateSettlement request", "case_id", req.Msg.CaseID, "actor", actor.UserID)

	created, err := s.ledger.Create(ctx, actor, workflow.CreateInput{
		CaseID:             req.Msg.CaseID,
		EncounterID:        req.Msg.EncounterID,
		OriginalAmount:     req.Msg.OriginalAmount,
		RequestedReduction: req.Msg.RequestedReduction,
		Reason:             req.Msg.ReductionReason,
		Category:           models.ReductionCategory(req.Msg.ReductionCategory),
		Attachments:        req.Msg.Attachments,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return settlementResponse(created), nil
}

// GetSettlement returns one settlement with organization names joined in.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	found, err := s.ledger.Get(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := toAPISettlement(found)
	s.joinNames(ctx, out)
	return connect.NewResponse(&api.SettlementResponse{Settlement: out}), nil
}

// joinNames fills organization display names. Lookup failures only cost the
// names, never the response.
func (s *SettlementService) joinNames(ctx context.Context, out *api.Settlement) {
	if s.directory == nil {
		return
	}
	if parties, err := s.directory.GetCaseParties(ctx, out.CaseID); err == nil {
		out.CounterpartyOrg, _ = parties.Opposite(out.RequestedByOrg)
	} else {
		s.logger.Warn("Failed to load case parties", "case_id", out.CaseID, "error", err)
	}

	out.RequestedByOrgName = s.orgName(ctx, out.RequestedByOrg)
	out.CounterpartyOrgName = s.orgName(ctx, out.CounterpartyOrg)
}

func (s *SettlementService) orgName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	org, err := s.directory.GetOrganization(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load organization name", "org_id", id, "error", err)
		return ""
	}
	return org.Name
}

// ListSettlements returns the settlements visible to the caller.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := settlementFilter(req.Msg.CaseID, req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	reqs, err := s.ledger.List(ctx, actor, filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: toAPISettlements(reqs)}), nil
}

func settlementFilter(caseID, status string) (storage.SettlementFilter, error) {
	filter := storage.SettlementFilter{CaseID: caseID, Status: models.SettlementStatus(status)}
	if status != "" && !filter.Status.Valid() {
		return filter, errs.ValidationError("unknown settlement status %q", status)
	}
	return filter, nil
}

// ApproveSettlement accepts a pending request.
func (s *SettlementService) ApproveSettlement(ctx context.Context, req *connect.Request[api.ApproveSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.Approve(ctx, actor, req.Msg.SettlementID, req.Msg.Notes)
	if err != nil {
		return nil, toConnectError(err)
	}
	return settlementResponse(updated), nil
}

// DenySettlement rejects a pending request. A reason is required.
func (s *SettlementService) DenySettlement(ctx context.Context, req *connect.Request[api.DenySettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.Deny(ctx, actor, req.Msg.SettlementID, req.Msg.Reason)
	if err != nil {
		return nil, toConnectError(err)
	}
	return settlementResponse(updated), nil
}

// OverrideSettlement force-approves a request. Administrators only.
func (s *SettlementService) OverrideSettlement(ctx context.Context, req *connect.Request[api.OverrideSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.Override(ctx, actor, req.Msg.SettlementID, req.Msg.Reason, req.Msg.Attachment)
	if err != nil {
		return nil, toConnectError(err)
	}
	return settlementResponse(updated), nil
}

// DisputeSettlement escalates a pending or approved request and opens its
// queue item.
func (s *SettlementService) DisputeSettlement(ctx context.Context, req *connect.Request[api.DisputeSettlementRequest]) (*connect.Response[api.DisputeSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	updated, item, err := s.ledger.Dispute(ctx, actor, req.Msg.SettlementID, req.Msg.Reason, workflow.DisputeOptions{
		Type:     models.EscalationType(req.Msg.EscalationType),
		Priority: models.EscalationPriority(req.Msg.Priority),
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DisputeSettlementResponse{
		Settlement: toAPISettlement(updated),
		Escalation: toAPIEscalation(item),
	}), nil
}

// RecordPayment moves a confirmed settlement to paid.
func (s *SettlementService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.SettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.RecordPayment(ctx, actor, req.Msg.SettlementID, workflow.PaymentInput{
		Amount:    req.Msg.Amount,
		Method:    models.PaymentMethod(req.Msg.Method),
		Reference: req.Msg.Reference,
		PaidAt:    req.Msg.PaidAt,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return settlementResponse(updated), nil
}

// ConfirmSettlement records the caller's organization confirmation and
// finalizes the settlement once both parties have confirmed.
func (s *SettlementService) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.confirmations.Confirm(ctx, actor, workflow.ConfirmInput{
		SettlementRequestID: req.Msg.SettlementID,
		ConfirmedAmount:     req.Msg.ConfirmedAmount,
		PaymentReceived:     req.Msg.PaymentReceived,
		PaymentAmount:       req.Msg.PaymentAmount,
		PaymentDate:         req.Msg.PaymentDate,
		PaymentMethod:       models.PaymentMethod(req.Msg.PaymentMethod),
		PaymentReference:    req.Msg.PaymentReference,
		Notes:               req.Msg.Notes,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ConfirmSettlementResponse{
		Confirmation: toAPIConfirmation(res.Confirmation),
		Settlement:   toAPISettlement(res.Settlement),
		Created:      res.Created,
		Finalized:    res.Finalized,
	}), nil
}

// HasConfirmed reports whether an organization has confirmed a settlement.
func (s *SettlementService) HasConfirmed(ctx context.Context, req *connect.Request[api.HasConfirmedRequest]) (*connect.Response[api.HasConfirmedResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := s.confirmations.HasConfirmed(ctx, actor, req.Msg.SettlementID, req.Msg.OrgID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.HasConfirmedResponse{Confirmed: ok}), nil
}

func (s *SettlementService) ListConfirmations(ctx context.Context, req *connect.Request[api.ListConfirmationsRequest]) (*connect.Response[api.ListConfirmationsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.confirmations.List(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Confirmation, len(list))
	for i, c := range list {
		out[i] = toAPIConfirmation(c)
	}
	return connect.NewResponse(&api.ListConfirmationsResponse{Confirmations: out}), nil
}

func (s *SettlementService) ListAuditTrail(ctx context.Context, req *connect.Request[api.ListAuditTrailRequest]) (*connect.Response[api.ListAuditTrailResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.AuditTrail(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = toAPIAuditEntry(e)
	}
	return connect.NewResponse(&api.ListAuditTrailResponse{Entries: out}), nil
}

func (s *SettlementService) GetSettlementStats(ctx context.Context, req *connect.Request[api.GetSettlementStatsRequest]) (*connect.Response[api.GetSettlementStatsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.ledger.Stats(ctx, actor, storage.SettlementFilter{CaseID: req.Msg.CaseID})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSettlementStatsResponse{Stats: toAPISettlementStats(summary)}), nil
}
