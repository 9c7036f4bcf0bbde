// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/casesettle/internal/models"
)

// SettlementFilter narrows ListSettlementRequests. Zero values match everything.
type SettlementFilter struct {
	CaseID string
	// OrgID restricts to requests on cases where the organization is a party.
	OrgID  string
	Status models.SettlementStatus
}

// EscalationFilter narrows ListEscalations. Zero values match everything.
type EscalationFilter struct {
	SettlementRequestID string
	// OrgID restricts to escalations on cases where the organization is a party.
	OrgID          string
	Status         models.EscalationStatus
	AssignedToUser string
}

// SettlementStore persists the settlement ledger. Writes are conditional on
// the status the caller last observed, so races surface as conflicts instead
// of lost updates.
type SettlementStore interface {
	// CreateSettlementRequest persists a new request together with its audit entry.
	// The request ID and RequestedAt are populated by the store when empty.
	CreateSettlementRequest(ctx context.Context, req *models.SettlementRequest, entry *models.AuditEntry) error

	// GetSettlementRequest returns an errs.NotFound error for unknown IDs.
	GetSettlementRequest(ctx context.Context, id string) (*models.SettlementRequest, error)

	ListSettlementRequests(ctx context.Context, filter SettlementFilter) ([]*models.SettlementRequest, error)

	// UpdateSettlementRequest writes req only if the stored status is one of from.
	// Returns errs.Conflict when the status moved, errs.NotFound when the row is gone.
	UpdateSettlementRequest(ctx context.Context, req *models.SettlementRequest, from []models.SettlementStatus, entry *models.AuditEntry) error

	// EscalateSettlementRequest performs the dispute transition and inserts the
	// escalation item in one transaction. It fails with errs.Conflict if an
	// open or in-progress item already exists for the request.
	EscalateSettlementRequest(ctx context.Context, req *models.SettlementRequest, from []models.SettlementStatus, item *models.EscalationQueueItem, entry *models.AuditEntry) error

	// ListAuditEntries returns the request's transitions, oldest first.
	ListAuditEntries(ctx context.Context, requestID string) ([]*models.AuditEntry, error)

	// ListEscalatedWithoutQueueItem finds escalated requests that have no
	// escalation item at all. Used by reconciliation.
	ListEscalatedWithoutQueueItem(ctx context.Context) ([]*models.SettlementRequest, error)
}

// ConfirmationStore persists per-organization confirmations.
type ConfirmationStore interface {
	// UpsertConfirmation inserts or updates the row for
	// (SettlementRequestID, ConfirmingOrg). created is false on update.
	UpsertConfirmation(ctx context.Context, c *models.SettlementConfirmation) (created bool, err error)

	// GetConfirmation returns an errs.NotFound error when the org has not confirmed.
	GetConfirmation(ctx context.Context, requestID, orgID string) (*models.SettlementConfirmation, error)

	ListConfirmations(ctx context.Context, requestID string) ([]*models.SettlementConfirmation, error)
}

// EscalationStore persists the escalation queue.
type EscalationStore interface {
	// CreateEscalation fails with errs.Conflict if an active item exists for the request.
	CreateEscalation(ctx context.Context, item *models.EscalationQueueItem) error

	GetEscalation(ctx context.Context, id string) (*models.EscalationQueueItem, error)

	// ActiveEscalation returns the open or in-progress item for a request,
	// or an errs.NotFound error.
	ActiveEscalation(ctx context.Context, requestID string) (*models.EscalationQueueItem, error)

	ListEscalations(ctx context.Context, filter EscalationFilter) ([]*models.EscalationQueueItem, error)

	// UpdateEscalation writes item only if the stored status is one of from.
	UpdateEscalation(ctx context.Context, item *models.EscalationQueueItem, from []models.EscalationStatus) error
}

// DirectoryStore persists users, organizations and case rosters.
type DirectoryStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	UpsertOrganization(ctx context.Context, org *models.Organization) error
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)

	UpsertCaseParties(ctx context.Context, parties *models.CaseParties) error
	// GetCaseParties returns an errs.NotFound error for unknown cases.
	GetCaseParties(ctx context.Context, caseID string) (*models.CaseParties, error)
}

// Store defines the full storage surface.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the workflow layer.
type Store interface {
	SettlementStore
	ConfirmationStore
	EscalationStore
	DirectoryStore

	// Close releases any resources held by the store.
	Close() error
}
