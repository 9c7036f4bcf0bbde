package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/middleware"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/pkg/api"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{errs.ValidationError("bad"), connect.CodeInvalidArgument},
		{errs.InvalidStateError("bad"), connect.CodeFailedPrecondition},
		{errs.AuthorizationError("bad"), connect.CodePermissionDenied},
		{errs.NotFoundError("bad"), connect.CodeNotFound},
		{fmt.Errorf("wrapped: %w", errs.ConflictError("bad")), connect.CodeAborted},
		{errors.New("disk full"), connect.CodeInternal},
		{connect.NewError(connect.CodeUnauthenticated, errors.New("no")), connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		if got := connect.CodeOf(toConnectError(tt.err)); got != tt.want {
			t.Errorf("toConnectError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	internal := toConnectError(fmt.Errorf("failed to update settlement request: %w", errors.New("database is locked")))
	var connectErr *connect.Error
	if !errors.As(internal, &connectErr) || connectErr.Message() != "internal error" {
		t.Errorf("internal error message = %v, want generic text", internal)
	}
	if strings.Contains(internal.Error(), "database is locked") {
		t.Errorf("internal error leaks storage detail: %v", internal)
	}
	if toConnectError(nil) != nil {
		t.Error("nil error should stay nil")
	}
}

// brokenDirectory fails every lookup.
type brokenDirectory struct{}

func (brokenDirectory) GetOrganization(context.Context, string) (*models.Organization, error) {
	return nil, errors.New("directory unavailable")
}

func (brokenDirectory) GetCaseParties(context.Context, string) (*models.CaseParties, error) {
	return nil, errors.New("directory unavailable")
}

func TestJoinNamesDegradesGracefully(t *testing.T) {
	svc := NewSettlementService(nil, nil, brokenDirectory{}, nil)
	out := &api.Settlement{ID: "s-1", CaseID: "case-1", RequestedByOrg: "org-law"}

	svc.joinNames(context.Background(), out)

	if out.RequestedByOrgName != "" || out.CounterpartyOrgName != "" || out.CounterpartyOrg != "" {
		t.Errorf("expected empty names on lookup failure, got %+v", out)
	}
}

func TestActorFrom(t *testing.T) {
	if _, err := actorFrom(context.Background()); connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}
	ctx := middleware.WithActor(context.Background(), models.Actor{UserID: "u-1", OrgID: "org-1"})
	actor, err := actorFrom(ctx)
	if err != nil || actor.UserID != "u-1" {
		t.Errorf("actorFrom = %+v, %v", actor, err)
	}
}
