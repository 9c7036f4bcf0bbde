package models

// Organization is a provider or law firm participating in cases.
// Only the display name is used by the workflow, for presentation joins.
type Organization struct {
	// ID is the unique identifier for the organization.
	ID string

	// Name is the display name (e.g., "Riverside Physical Therapy").
	Name string

	// Kind is a free classification such as "provider" or "law_firm".
	Kind string

	// CreatedAt is the Unix timestamp when the organization was registered.
	CreatedAt int64
}

// CaseParties is the roster of the two organizations negotiating a case.
// Both must confirm before a settlement is finalized.
type CaseParties struct {
	CaseID          string
	RequestingOrg   string
	CounterpartyOrg string
}

// Includes reports whether orgID is one of the two parties.
func (p CaseParties) Includes(orgID string) bool {
	return orgID != "" && (orgID == p.RequestingOrg || orgID == p.CounterpartyOrg)
}

// Opposite returns the party on the other side from orgID.
// The second result is false when orgID is not on the case.
func (p CaseParties) Opposite(orgID string) (string, bool) {
	switch orgID {
	case "":
		return "", false
	case p.RequestingOrg:
		return p.CounterpartyOrg, true
	case p.CounterpartyOrg:
		return p.RequestingOrg, true
	}
	return "", false
}

// Actor is the identity performing an operation, resolved once at the API
// boundary and passed explicitly into every workflow call.
type Actor struct {
	UserID string
	OrgID  string
	Admin  bool
}

// System is the actor used for background repairs.
var System = Actor{UserID: "system"}
