package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
	"github.com/mmynk/casesettle/pkg/api"
	"github.com/mmynk/casesettle/pkg/api/apiconnect"
)

// DirectoryService maintains organizations and case rosters. Every method
// requires the administrator role.
type DirectoryService struct {
	apiconnect.UnimplementedDirectoryServiceHandler
	store  storage.DirectoryStore
	logger *slog.Logger
}

func NewDirectoryService(store storage.DirectoryStore, logger *slog.Logger) *DirectoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryService{store: store, logger: logger}
}

func (s *DirectoryService) requireAdmin(ctx context.Context) (models.Actor, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return actor, err
	}
	if !actor.Admin {
		return actor, toConnectError(errs.AuthorizationError("directory changes require the administrator role"))
	}
	return actor, nil
}

// RegisterOrganization creates or renames an organization.
func (s *DirectoryService) RegisterOrganization(ctx context.Context, req *connect.Request[api.RegisterOrganizationRequest]) (*connect.Response[api.OrganizationResponse], error) {
	actor, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Msg.ID) == "" || strings.TrimSpace(req.Msg.Name) == "" {
		return nil, toConnectError(errs.ValidationError("organization id and name are required"))
	}

	org := &models.Organization{
		ID:        strings.TrimSpace(req.Msg.ID),
		Name:      strings.TrimSpace(req.Msg.Name),
		Kind:      req.Msg.Kind,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.UpsertOrganization(ctx, org); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Organization registered", "org_id", org.ID, "actor", actor.UserID)

	saved, err := s.store.GetOrganization(ctx, org.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.OrganizationResponse{Organization: toAPIOrganization(saved)}), nil
}

// RegisterCase records which two organizations negotiate a case.
func (s *DirectoryService) RegisterCase(ctx context.Context, req *connect.Request[api.RegisterCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	actor, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	parties := &models.CaseParties{
		CaseID:          strings.TrimSpace(req.Msg.CaseID),
		RequestingOrg:   req.Msg.RequestingOrg,
		CounterpartyOrg: req.Msg.CounterpartyOrg,
	}
	if parties.CaseID == "" || parties.RequestingOrg == "" || parties.CounterpartyOrg == "" {
		return nil, toConnectError(errs.ValidationError("case id and both organizations are required"))
	}
	if parties.RequestingOrg == parties.CounterpartyOrg {
		return nil, toConnectError(errs.ValidationError("a case needs two different organizations"))
	}
	for _, id := range []string{parties.RequestingOrg, parties.CounterpartyOrg} {
		if _, err := s.store.GetOrganization(ctx, id); err != nil {
			if errs.Is(err, errs.NotFound) {
				return nil, toConnectError(errs.ValidationError("unknown organization %q", id))
			}
			return nil, toConnectError(err)
		}
	}

	if err := s.store.UpsertCaseParties(ctx, parties); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Case registered", "case_id", parties.CaseID, "actor", actor.UserID)
	return connect.NewResponse(&api.CaseResponse{Case: toAPICase(parties)}), nil
}

func (s *DirectoryService) GetCase(ctx context.Context, req *connect.Request[api.GetCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	parties, err := s.store.GetCaseParties(ctx, req.Msg.CaseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CaseResponse{Case: toAPICase(parties)}), nil
}
