package authz

import (
	"context"
	"testing"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

type mapDirectory map[string]models.CaseParties

func (m mapDirectory) GetOrganizationsForCase(_ context.Context, caseID string) (models.CaseParties, error) {
	p, ok := m[caseID]
	if !ok {
		return models.CaseParties{}, errs.NotFoundError("case not found: %s", caseID)
	}
	return p, nil
}

func TestRosterGate(t *testing.T) {
	gate := NewRosterGate(mapDirectory{
		"case-1": {CaseID: "case-1", RequestingOrg: "org-law", CounterpartyOrg: "org-pt"},
	})

	tests := []struct {
		name      string
		actor     models.Actor
		wantRole  CaseRole
		wantWrite bool
		wantOrg   string
	}{
		{"requester", models.Actor{UserID: "u1", OrgID: "org-law"}, RoleRequester, true, "org-law"},
		{"counterparty", models.Actor{UserID: "u2", OrgID: "org-pt"}, RoleCounterparty, true, "org-pt"},
		{"admin outside the case", models.Actor{UserID: "a1", OrgID: "org-ops", Admin: true}, RoleAdmin, true, ""},
		{"admin who is a party keeps party role", models.Actor{UserID: "a2", OrgID: "org-pt", Admin: true}, RoleCounterparty, true, "org-pt"},
		{"stranger", models.Actor{UserID: "u3", OrgID: "org-other"}, RoleNone, false, ""},
		{"no org", models.Actor{UserID: "u4"}, RoleNone, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.CanActOnCase(context.Background(), tt.actor, "case-1")
			if err != nil {
				t.Fatalf("CanActOnCase failed: %v", err)
			}
			if got.Role != tt.wantRole || got.CanWrite != tt.wantWrite || got.CanRead != tt.wantWrite || got.OrgID != tt.wantOrg {
				t.Errorf("got %+v, want role=%q write=%v org=%q", got, tt.wantRole, tt.wantWrite, tt.wantOrg)
			}
		})
	}

	t.Run("unknown case", func(t *testing.T) {
		_, err := gate.CanActOnCase(context.Background(), models.Actor{UserID: "u1", OrgID: "org-law"}, "nope")
		if !errs.Is(err, errs.NotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}
