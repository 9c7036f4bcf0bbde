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

// EscalationService implements the Connect EscalationService.
type EscalationService struct {
	apiconnect.UnimplementedEscalationServiceHandler
	escalations *workflow.Escalations
	logger      *slog.Logger
}

func NewEscalationService(escalations *workflow.Escalations, logger *slog.Logger) *EscalationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EscalationService{escalations: escalations, logger: logger}
}

func escalationResponse(item *models.EscalationQueueItem) *connect.Response[api.EscalationResponse] {
	return connect.NewResponse(&api.EscalationResponse{Escalation: toAPIEscalation(item)})
}

func (s *EscalationService) GetEscalation(ctx context.Context, req *connect.Request[api.GetEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.escalations.Get(ctx, actor, req.Msg.EscalationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return escalationResponse(item), nil
}

func (s *EscalationService) ListEscalations(ctx context.Context, req *connect.Request[api.ListEscalationsRequest]) (*connect.Response[api.ListEscalationsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	filter := storage.EscalationFilter{
		SettlementRequestID: req.Msg.SettlementID,
		Status:              models.EscalationStatus(req.Msg.Status),
		AssignedToUser:      req.Msg.AssignedToUser,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, toConnectError(errs.ValidationError("unknown escalation status %q", req.Msg.Status))
	}

	items, err := s.escalations.List(ctx, actor, filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Escalation, len(items))
	for i, item := range items {
		out[i] = toAPIEscalation(item)
	}
	return connect.NewResponse(&api.ListEscalationsResponse{Escalations: out}), nil
}

// AssignEscalation takes an open item into in_progress. Administrators only.
func (s *EscalationService) AssignEscalation(ctx context.Context, req *connect.Request[api.AssignEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.escalations.Assign(ctx, actor, req.Msg.EscalationID, req.Msg.AssigneeID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return escalationResponse(item), nil
}

// ResolveEscalation records the outcome. The settlement itself is not changed.
func (s *EscalationService) ResolveEscalation(ctx context.Context, req *connect.Request[api.ResolveEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.escalations.Resolve(ctx, actor, req.Msg.EscalationID, req.Msg.Resolution, models.ResolutionType(req.Msg.ResolutionType))
	if err != nil {
		return nil, toConnectError(err)
	}
	return escalationResponse(item), nil
}

func (s *EscalationService) CloseEscalation(ctx context.Context, req *connect.Request[api.CloseEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.escalations.Close(ctx, actor, req.Msg.EscalationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return escalationResponse(item), nil
}

func (s *EscalationService) GetEscalationStats(ctx context.Context, req *connect.Request[api.GetEscalationStatsRequest]) (*connect.Response[api.GetEscalationStatsResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.escalations.Stats(ctx, actor, storage.EscalationFilter{SettlementRequestID: req.Msg.SettlementID})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetEscalationStatsResponse{Stats: toAPIEscalationStats(summary)}), nil
}
