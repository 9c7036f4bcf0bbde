// Package authz answers who may act on a case's settlement data.
//
// The workflow consumes Gate and CaseDirectory only. RosterGate is the local
// implementation backed by the case roster in storage; deployments with an
// external permission service supply their own Gate.
package authz

import (
	"context"

	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

// CaseRole is the side an actor's organization is on for a case.
type CaseRole string

const (
	RoleNone         CaseRole = ""
	RoleRequester    CaseRole = "requesting_org"
	RoleCounterparty CaseRole = "counterparty_org"
	RoleAdmin        CaseRole = "admin"
)

// Access is the answer to "can this actor act on this case?".
type Access struct {
	CanRead  bool
	CanWrite bool
	Role     CaseRole
	// OrgID is the case party the actor acts for. Empty for admins who are
	// not themselves a party.
	OrgID string
}

// Gate decides an actor's access to a case.
type Gate interface {
	// CanActOnCase returns an errs.NotFound error for unknown cases.
	CanActOnCase(ctx context.Context, actor models.Actor, caseID string) (Access, error)
}

// CaseDirectory resolves which two organizations negotiate a case.
type CaseDirectory interface {
	GetOrganizationsForCase(ctx context.Context, caseID string) (models.CaseParties, error)
}

// StoreDirectory adapts storage.DirectoryStore to CaseDirectory.
type StoreDirectory struct {
	store storage.DirectoryStore
}

func NewStoreDirectory(store storage.DirectoryStore) *StoreDirectory {
	return &StoreDirectory{store: store}
}

func (d *StoreDirectory) GetOrganizationsForCase(ctx context.Context, caseID string) (models.CaseParties, error) {
	p, err := d.store.GetCaseParties(ctx, caseID)
	if err != nil {
		return models.CaseParties{}, err
	}
	return *p, nil
}

// RosterGate grants read and write access to both parties of a case and to
// administrators. Everyone else gets an empty Access.
type RosterGate struct {
	dir CaseDirectory
}

func NewRosterGate(dir CaseDirectory) *RosterGate {
	return &RosterGate{dir: dir}
}

func (g *RosterGate) CanActOnCase(ctx context.Context, actor models.Actor, caseID string) (Access, error) {
	parties, err := g.dir.GetOrganizationsForCase(ctx, caseID)
	if err != nil {
		return Access{}, err
	}

	switch actor.OrgID {
	case "":
	case parties.RequestingOrg:
		return Access{CanRead: true, CanWrite: true, Role: RoleRequester, OrgID: actor.OrgID}, nil
	case parties.CounterpartyOrg:
		return Access{CanRead: true, CanWrite: true, Role: RoleCounterparty, OrgID: actor.OrgID}, nil
	}

	if actor.Admin {
		return Access{CanRead: true, CanWrite: true, Role: RoleAdmin}, nil
	}
	return Access{}, nil
}
