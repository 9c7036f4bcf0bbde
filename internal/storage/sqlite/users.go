package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, org_id, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	role := user.Role
	if role == "" {
		role = models.RoleMember
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.OrgID,
		string(role),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return errs.ConflictError("user already exists: %s", user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.getUser(ctx, "email", email)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.getUser(ctx, "id", id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	query := `
		SELECT id, email, display_name, org_id, role, password_hash, created_at, updated_at
		FROM users
		WHERE ` + column + ` = ?`

	user := &models.User{}
	var role string
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.OrgID,
		&role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return user, nil
}

// UpsertOrganization registers an organization or renames an existing one.
func (s *SQLiteStore) UpsertOrganization(ctx context.Context, org *models.Organization) error {
	if org.CreatedAt == 0 {
		org.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, kind, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, kind = excluded.kind`,
		org.ID, org.Name, org.Kind, org.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert organization: %w", err)
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
func (s *SQLiteStore) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, created_at FROM organizations WHERE id = ?`, id,
	).Scan(&org.ID, &org.Name, &org.Kind, &org.CreatedAt)
	if err != nil {
		return nil, notFound(err, "organization", id)
	}
	return org, nil
}

// UpsertCaseParties records which two organizations negotiate a case.
func (s *SQLiteStore) UpsertCaseParties(ctx context.Context, parties *models.CaseParties) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_parties (case_id, requesting_org, counterparty_org)
		VALUES (?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET
			requesting_org = excluded.requesting_org,
			counterparty_org = excluded.counterparty_org`,
		parties.CaseID, parties.RequestingOrg, parties.CounterpartyOrg,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert case parties: %w", err)
	}
	return nil
}

// GetCaseParties retrieves the roster of a case.
func (s *SQLiteStore) GetCaseParties(ctx context.Context, caseID string) (*models.CaseParties, error) {
	p := &models.CaseParties{}
	err := s.db.QueryRowContext(ctx,
		`SELECT case_id, requesting_org, counterparty_org FROM case_parties WHERE case_id = ?`, caseID,
	).Scan(&p.CaseID, &p.RequestingOrg, &p.CounterpartyOrg)
	if err != nil {
		return nil, notFound(err, "case", caseID)
	}
	return p, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(", ?", n)
}

// prefixed qualifies every column in a comma-separated list with alias.
func prefixed(alias, cols string) string {
	fields := strings.Split(cols, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(fields, ", ")
}

// whereClause joins conditions with AND, or returns "" when there are none.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
