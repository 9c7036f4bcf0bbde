package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/casesettle/internal/models"
)

const confirmationCols = `id, settlement_request_id, confirming_user, confirming_org, confirmed_amount,
	payment_received, payment_amount, payment_date, payment_method, payment_reference,
	confirmation_notes, amount_mismatch, created_at, updated_at`

// UpsertConfirmation inserts the organization's confirmation, or updates the
// existing row for the same (request, org) pair.
func (s *SQLiteStore) UpsertConfirmation(ctx context.Context, c *models.SettlementConfirmation) (bool, error) {
	now := time.Now().UTC()
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	created := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scanConfirmation(tx.QueryRowContext(ctx,
			`SELECT `+confirmationCols+` FROM settlement_confirmations
			 WHERE settlement_request_id = ? AND confirming_org = ?`,
			c.SettlementRequestID, c.ConfirmingOrg,
		))
		switch {
		case err == sql.ErrNoRows:
			created = true
			if c.ID == "" {
				c.ID = uuid.New().String()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = c.UpdatedAt
			}
		case err != nil:
			return fmt.Errorf("failed to check existing confirmation: %w", err)
		default:
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
			// A later write without payment details keeps the recorded receipt.
			if !c.PaymentReceived && existing.PaymentReceived {
				c.PaymentReceived = true
				c.PaymentAmount = existing.PaymentAmount
				c.PaymentDate = existing.PaymentDate
				c.PaymentMethod = existing.PaymentMethod
				c.PaymentReference = existing.PaymentReference
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO settlement_confirmations (`+confirmationCols+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(settlement_request_id, confirming_org) DO UPDATE SET
				confirming_user = excluded.confirming_user,
				confirmed_amount = excluded.confirmed_amount,
				payment_received = excluded.payment_received,
				payment_amount = excluded.payment_amount,
				payment_date = excluded.payment_date,
				payment_method = excluded.payment_method,
				payment_reference = excluded.payment_reference,
				confirmation_notes = excluded.confirmation_notes,
				amount_mismatch = excluded.amount_mismatch,
				updated_at = excluded.updated_at`,
			c.ID, c.SettlementRequestID, c.ConfirmingUser, c.ConfirmingOrg, c.ConfirmedAmount,
			c.PaymentReceived, c.PaymentAmount, nullUnix(c.PaymentDate),
			nullString(string(c.PaymentMethod)), nullString(c.PaymentReference),
			nullString(c.ConfirmationNotes), c.AmountMismatch, unix(c.CreatedAt), unix(c.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert confirmation: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// GetConfirmation retrieves one organization's confirmation of a request.
func (s *SQLiteStore) GetConfirmation(ctx context.Context, requestID, orgID string) (*models.SettlementConfirmation, error) {
	c, err := scanConfirmation(s.db.QueryRowContext(ctx,
		`SELECT `+confirmationCols+` FROM settlement_confirmations
		 WHERE settlement_request_id = ? AND confirming_org = ?`,
		requestID, orgID))
	if err != nil {
		return nil, notFound(err, "confirmation", requestID+"/"+orgID)
	}
	return c, nil
}

// ListConfirmations retrieves every confirmation recorded for a request.
func (s *SQLiteStore) ListConfirmations(ctx context.Context, requestID string) ([]*models.SettlementConfirmation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+confirmationCols+` FROM settlement_confirmations
		 WHERE settlement_request_id = ? ORDER BY created_at, confirming_org`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []*models.SettlementConfirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}
	return confirmations, nil
}

func scanConfirmation(row rowScanner) (*models.SettlementConfirmation, error) {
	c := &models.SettlementConfirmation{}
	var (
		paymentDate              sql.NullInt64
		method, reference, notes sql.NullString
		createdAt, updatedAt     int64
	)

	err := row.Scan(&c.ID, &c.SettlementRequestID, &c.ConfirmingUser, &c.ConfirmingOrg, &c.ConfirmedAmount,
		&c.PaymentReceived, &c.PaymentAmount, &paymentDate, &method, &reference,
		&notes, &c.AmountMismatch, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.PaymentDate = fromNullUnix(paymentDate)
	c.PaymentMethod = models.PaymentMethod(method.String)
	c.PaymentReference = reference.String
	c.ConfirmationNotes = notes.String
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)
	return c, nil
}
