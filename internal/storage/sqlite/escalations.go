package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

const escalationCols = `id, settlement_request_id, escalated_by_user, escalation_reason, escalation_type,
	priority, status, assigned_to_user, assigned_at, resolution, resolution_type, resolved_by_user,
	resolved_at, closed_at, created_at, updated_at`

// CreateEscalation persists a new escalation queue item.
func (s *SQLiteStore) CreateEscalation(ctx context.Context, item *models.EscalationQueueItem) error {
	return insertEscalation(ctx, s.db, item)
}

// GetEscalation retrieves an escalation by ID.
func (s *SQLiteStore) GetEscalation(ctx context.Context, id string) (*models.EscalationQueueItem, error) {
	item, err := scanEscalation(s.db.QueryRowContext(ctx,
		`SELECT `+escalationCols+` FROM escalation_queue WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "escalation", id)
	}
	return item, nil
}

// ActiveEscalation retrieves the open or in-progress item for a settlement request.
func (s *SQLiteStore) ActiveEscalation(ctx context.Context, requestID string) (*models.EscalationQueueItem, error) {
	return activeEscalation(ctx, s.db, requestID)
}

// ListEscalations retrieves escalations matching the filter, oldest first.
func (s *SQLiteStore) ListEscalations(ctx context.Context, filter storage.EscalationFilter) ([]*models.EscalationQueueItem, error) {
	query := `SELECT ` + prefixed("e", escalationCols) + ` FROM escalation_queue e`
	var (
		where []string
		args  []any
	)
	if filter.OrgID != "" {
		query += ` JOIN settlement_requests r ON r.id = e.settlement_request_id
			LEFT JOIN case_parties p ON p.case_id = r.case_id`
		where = append(where, `(r.requested_by_org = ? OR p.requesting_org = ? OR p.counterparty_org = ?)`)
		args = append(args, filter.OrgID, filter.OrgID, filter.OrgID)
	}
	if filter.SettlementRequestID != "" {
		where = append(where, `e.settlement_request_id = ?`)
		args = append(args, filter.SettlementRequestID)
	}
	if filter.Status != "" {
		where = append(where, `e.status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.AssignedToUser != "" {
		where = append(where, `e.assigned_to_user = ?`)
		args = append(args, filter.AssignedToUser)
	}
	query += whereClause(where) + ` ORDER BY e.created_at, e.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	defer rows.Close()

	var items []*models.EscalationQueueItem
	for rows.Next() {
		item, err := scanEscalation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate escalations: %w", err)
	}
	return items, nil
}

// UpdateEscalation writes the mutable escalation columns, guarded on status.
func (s *SQLiteStore) UpdateEscalation(ctx context.Context, item *models.EscalationQueueItem, from []models.EscalationStatus) error {
	if len(from) == 0 {
		return fmt.Errorf("update escalation %s: no allowed source statuses", item.ID)
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now().UTC()
	}

	args := []any{
		string(item.Status), nullString(item.AssignedToUser), nullUnix(item.AssignedAt),
		nullString(item.Resolution), nullString(string(item.ResolutionType)), nullString(item.ResolvedByUser),
		nullUnix(item.ResolvedAt), nullUnix(item.ClosedAt), unix(item.UpdatedAt),
		item.ID,
	}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE escalation_queue SET
			status = ?, assigned_to_user = ?, assigned_at = ?,
			resolution = ?, resolution_type = ?, resolved_by_user = ?,
			resolved_at = ?, closed_at = ?, updated_at = ?
		 WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update escalation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 1 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, "SELECT status FROM escalation_queue WHERE id = ?", item.ID).Scan(&current)
	if err != nil {
		return notFound(err, "escalation", item.ID)
	}
	return errs.ConflictError("escalation %s changed concurrently (now %s)", item.ID, current)
}

func activeEscalation(ctx context.Context, q querier, requestID string) (*models.EscalationQueueItem, error) {
	item, err := scanEscalation(q.QueryRowContext(ctx,
		`SELECT `+escalationCols+` FROM escalation_queue
		 WHERE settlement_request_id = ? AND status IN (?, ?)`,
		requestID, string(models.EscalationOpen), string(models.EscalationInProgress)))
	if err != nil {
		return nil, notFound(err, "active escalation for settlement", requestID)
	}
	return item, nil
}

func insertEscalation(ctx context.Context, q querier, item *models.EscalationQueueItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO escalation_queue (`+escalationCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.SettlementRequestID, item.EscalatedByUser, item.EscalationReason,
		string(item.EscalationType), string(item.Priority), string(item.Status),
		nullString(item.AssignedToUser), nullUnix(item.AssignedAt), nullString(item.Resolution),
		nullString(string(item.ResolutionType)), nullString(item.ResolvedByUser),
		nullUnix(item.ResolvedAt), nullUnix(item.ClosedAt), unix(item.CreatedAt), unix(item.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return errs.ConflictError("an escalation is already open for settlement %s", item.SettlementRequestID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert escalation: %w", err)
	}
	return nil
}

func scanEscalation(row rowScanner) (*models.EscalationQueueItem, error) {
	item := &models.EscalationQueueItem{}
	var (
		escType, priority, status                   string
		assignedTo, resolution, resType, resolvedBy sql.NullString
		assignedAt, resolvedAt, closedAt            sql.NullInt64
		createdAt, updatedAt                        int64
	)

	err := row.Scan(&item.ID, &item.SettlementRequestID, &item.EscalatedByUser, &item.EscalationReason,
		&escType, &priority, &status, &assignedTo, &assignedAt, &resolution, &resType, &resolvedBy,
		&resolvedAt, &closedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	item.EscalationType = models.EscalationType(escType)
	item.Priority = models.EscalationPriority(priority)
	item.Status = models.EscalationStatus(status)
	item.AssignedToUser = assignedTo.String
	item.AssignedAt = fromNullUnix(assignedAt)
	item.Resolution = resolution.String
	item.ResolutionType = models.ResolutionType(resType.String)
	item.ResolvedByUser = resolvedBy.String
	item.ResolvedAt = fromNullUnix(resolvedAt)
	item.ClosedAt = fromNullUnix(closedAt)
	item.CreatedAt = fromUnix(createdAt)
	item.UpdatedAt = fromUnix(updatedAt)
	return item, nil
}
