package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

const settlementCols = `id, case_id, encounter_id, requested_by_org, requested_by_user, response_by_user,
	original_amount, requested_reduction, reduction_percentage, reduction_reason, reduction_category,
	attachments, response_notes, status, override_reason, override_by_user, override_attachment,
	payment_amount, payment_method, payment_reference, paid_at, requested_at, responded_at, updated_at`

// CreateSettlementRequest persists a new settlement request and its creation audit entry.
func (s *SQLiteStore) CreateSettlementRequest(ctx context.Context, req *models.SettlementRequest, entry *models.AuditEntry) error {
	// Generate ID if not set
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.RequestedAt
	}

	attachments, err := encodeAttachments(req.Attachments)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlement_requests (`+settlementCols+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			req.ID, req.CaseID, nullString(req.EncounterID), req.RequestedByOrg, req.RequestedByUser,
			nullString(req.ResponseByUser), req.OriginalAmount, req.RequestedReduction, req.ReductionPercentage,
			req.ReductionReason, string(req.ReductionCategory), attachments, nullString(req.ResponseNotes),
			string(req.Status), nullString(req.OverrideReason), nullString(req.OverrideByUser),
			nullString(req.OverrideAttachment), req.PaymentAmount, nullString(string(req.PaymentMethod)),
			nullString(req.PaymentReference), nullUnix(req.PaidAt), unix(req.RequestedAt),
			nullUnix(req.RespondedAt), unix(req.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement request: %w", err)
		}
		return insertAudit(ctx, tx, req.ID, entry)
	})
}

// GetSettlementRequest retrieves a settlement request by ID.
func (s *SQLiteStore) GetSettlementRequest(ctx context.Context, id string) (*models.SettlementRequest, error) {
	req, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT `+settlementCols+` FROM settlement_requests WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "settlement", id)
	}
	return req, nil
}

// ListSettlementRequests retrieves requests matching the filter, newest first.
func (s *SQLiteStore) ListSettlementRequests(ctx context.Context, filter storage.SettlementFilter) ([]*models.SettlementRequest, error) {
	query := `SELECT ` + prefixed("r", settlementCols) + ` FROM settlement_requests r`
	var (
		where []string
		args  []any
	)
	if filter.OrgID != "" {
		query += ` LEFT JOIN case_parties p ON p.case_id = r.case_id`
		where = append(where, `(r.requested_by_org = ? OR p.requesting_org = ? OR p.counterparty_org = ?)`)
		args = append(args, filter.OrgID, filter.OrgID, filter.OrgID)
	}
	if filter.CaseID != "" {
		where = append(where, `r.case_id = ?`)
		args = append(args, filter.CaseID)
	}
	if filter.Status != "" {
		where = append(where, `r.status = ?`)
		args = append(args, string(filter.Status))
	}
	query += whereClause(where) + ` ORDER BY r.requested_at DESC, r.id`

	return s.querySettlements(ctx, s.db, query, args...)
}

// UpdateSettlementRequest writes every mutable column, guarded on the status
// the caller observed.
func (s *SQLiteStore) UpdateSettlementRequest(ctx context.Context, req *models.SettlementRequest, from []models.SettlementStatus, entry *models.AuditEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateSettlement(ctx, tx, req, from); err != nil {
			return err
		}
		return insertAudit(ctx, tx, req.ID, entry)
	})
}

// EscalateSettlementRequest moves a request to escalated and opens its queue
// item atomically.
func (s *SQLiteStore) EscalateSettlementRequest(ctx context.Context, req *models.SettlementRequest, from []models.SettlementStatus, item *models.EscalationQueueItem, entry *models.AuditEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := activeEscalation(ctx, tx, req.ID); err == nil {
			return errs.ConflictError("an escalation is already open for settlement %s", req.ID)
		} else if !errs.Is(err, errs.NotFound) {
			return err
		}

		if err := updateSettlement(ctx, tx, req, from); err != nil {
			return err
		}
		item.SettlementRequestID = req.ID
		if err := insertEscalation(ctx, tx, item); err != nil {
			return err
		}
		return insertAudit(ctx, tx, req.ID, entry)
	})
}

// ListAuditEntries returns a request's audit trail, oldest first.
func (s *SQLiteStore) ListAuditEntries(ctx context.Context, requestID string) ([]*models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, settlement_request_id, action, from_status, to_status, actor_user, actor_org, reason, created_at
		 FROM settlement_audit WHERE settlement_request_id = ? ORDER BY created_at, rowid`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		var (
			from, to  string
			reason    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.SettlementRequestID, &e.Action, &from, &to,
			&e.ActorUser, &e.ActorOrg, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.FromStatus = models.SettlementStatus(from)
		e.ToStatus = models.SettlementStatus(to)
		e.Reason = reason.String
		e.CreatedAt = fromUnix(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

// ListEscalatedWithoutQueueItem finds escalated requests that were never given
// an escalation item, e.g. after a partial write on a non-transactional backend.
func (s *SQLiteStore) ListEscalatedWithoutQueueItem(ctx context.Context) ([]*models.SettlementRequest, error) {
	query := `SELECT ` + prefixed("r", settlementCols) + ` FROM settlement_requests r
		WHERE r.status = ?
		  AND NOT EXISTS (SELECT 1 FROM escalation_queue e WHERE e.settlement_request_id = r.id)
		ORDER BY r.requested_at`
	return s.querySettlements(ctx, s.db, query, string(models.StatusEscalated))
}

func updateSettlement(ctx context.Context, q querier, req *models.SettlementRequest, from []models.SettlementStatus) error {
	if len(from) == 0 {
		return fmt.Errorf("update settlement %s: no allowed source statuses", req.ID)
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = time.Now().UTC()
	}
	attachments, err := encodeAttachments(req.Attachments)
	if err != nil {
		return err
	}

	args := []any{
		nullString(req.ResponseByUser), nullString(req.ResponseNotes), string(req.Status),
		nullString(req.OverrideReason), nullString(req.OverrideByUser), nullString(req.OverrideAttachment),
		req.PaymentAmount, nullString(string(req.PaymentMethod)), nullString(req.PaymentReference),
		nullUnix(req.PaidAt), nullUnix(req.RespondedAt), unix(req.UpdatedAt), attachments,
		req.ID,
	}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := q.ExecContext(ctx,
		`UPDATE settlement_requests SET
			response_by_user = ?, response_notes = ?, status = ?,
			override_reason = ?, override_by_user = ?, override_attachment = ?,
			payment_amount = ?, payment_method = ?, payment_reference = ?,
			paid_at = ?, responded_at = ?, updated_at = ?, attachments = ?
		 WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Nothing matched: either the row is gone or its status moved underneath us.
	var current string
	err = q.QueryRowContext(ctx, "SELECT status FROM settlement_requests WHERE id = ?", req.ID).Scan(&current)
	if err != nil {
		return notFound(err, "settlement", req.ID)
	}
	return errs.ConflictError("settlement %s changed concurrently (now %s)", req.ID, current)
}

func insertAudit(ctx context.Context, q querier, requestID string, entry *models.AuditEntry) error {
	if entry == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.SettlementRequestID = requestID

	_, err := q.ExecContext(ctx,
		`INSERT INTO settlement_audit (id, settlement_request_id, action, from_status, to_status, actor_user, actor_org, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SettlementRequestID, entry.Action, string(entry.FromStatus), string(entry.ToStatus),
		entry.ActorUser, entry.ActorOrg, nullString(entry.Reason), unix(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) querySettlements(ctx context.Context, q querier, query string, args ...any) ([]*models.SettlementRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.SettlementRequest
	for rows.Next() {
		req, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement requests: %w", err)
	}
	return reqs, nil
}

func scanSettlement(row rowScanner) (*models.SettlementRequest, error) {
	req := &models.SettlementRequest{}
	var (
		encounterID, responseBy, responseNotes     sql.NullString
		overrideReason, overrideBy, overrideAttach sql.NullString
		paymentMethod, paymentRef                  sql.NullString
		category, status, attachments              string
		paidAt, respondedAt                        sql.NullInt64
		requestedAt, updatedAt                     int64
	)

	err := row.Scan(&req.ID, &req.CaseID, &encounterID, &req.RequestedByOrg, &req.RequestedByUser, &responseBy,
		&req.OriginalAmount, &req.RequestedReduction, &req.ReductionPercentage, &req.ReductionReason, &category,
		&attachments, &responseNotes, &status, &overrideReason, &overrideBy, &overrideAttach,
		&req.PaymentAmount, &paymentMethod, &paymentRef, &paidAt, &requestedAt, &respondedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	req.EncounterID = encounterID.String
	req.ResponseByUser = responseBy.String
	req.ResponseNotes = responseNotes.String
	req.ReductionCategory = models.ReductionCategory(category)
	req.Status = models.SettlementStatus(status)
	req.OverrideReason = overrideReason.String
	req.OverrideByUser = overrideBy.String
	req.OverrideAttachment = overrideAttach.String
	req.PaymentMethod = models.PaymentMethod(paymentMethod.String)
	req.PaymentReference = paymentRef.String
	req.PaidAt = fromNullUnix(paidAt)
	req.RequestedAt = fromUnix(requestedAt)
	req.RespondedAt = fromNullUnix(respondedAt)
	req.UpdatedAt = fromUnix(updatedAt)

	if err := json.Unmarshal([]byte(attachments), &req.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	return req, nil
}

func encodeAttachments(refs []string) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attachments: %w", err)
	}
	return string(b), nil
}
