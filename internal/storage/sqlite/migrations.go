package sqlite

import (
	"context"
	"database/sql"
)

// schema sets up the database. It runs on startup to ensure tables exist.
// Amounts are TEXT holding exact decimal strings; timestamps are Unix seconds.
// IMPORTANT: settlement_requests must be created BEFORE the tables that reference it.
const schema = `
CREATE TABLE IF NOT EXISTS organizations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    org_id TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member',
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS case_parties (
    case_id TEXT PRIMARY KEY,
    requesting_org TEXT NOT NULL,
    counterparty_org TEXT NOT NULL,
    CHECK (requesting_org <> counterparty_org)
);

CREATE TABLE IF NOT EXISTS settlement_requests (
    id TEXT PRIMARY KEY,
    case_id TEXT NOT NULL,
    encounter_id TEXT,
    requested_by_org TEXT NOT NULL,
    requested_by_user TEXT NOT NULL,
    response_by_user TEXT,
    original_amount TEXT NOT NULL,
    requested_reduction TEXT NOT NULL,
    reduction_percentage TEXT NOT NULL,
    reduction_reason TEXT NOT NULL,
    reduction_category TEXT NOT NULL,
    attachments TEXT NOT NULL DEFAULT '[]',
    response_notes TEXT,
    status TEXT NOT NULL,
    override_reason TEXT,
    override_by_user TEXT,
    override_attachment TEXT,
    payment_amount TEXT NOT NULL DEFAULT '0',
    payment_method TEXT,
    payment_reference TEXT,
    paid_at INTEGER,
    requested_at INTEGER NOT NULL,
    responded_at INTEGER,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settlement_audit (
    id TEXT PRIMARY KEY,
    settlement_request_id TEXT NOT NULL,
    action TEXT NOT NULL,
    from_status TEXT NOT NULL DEFAULT '',
    to_status TEXT NOT NULL,
    actor_user TEXT NOT NULL,
    actor_org TEXT NOT NULL DEFAULT '',
    reason TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (settlement_request_id) REFERENCES settlement_requests(id)
);

CREATE TABLE IF NOT EXISTS settlement_confirmations (
    id TEXT PRIMARY KEY,
    settlement_request_id TEXT NOT NULL,
    confirming_user TEXT NOT NULL,
    confirming_org TEXT NOT NULL,
    confirmed_amount TEXT NOT NULL,
    payment_received INTEGER NOT NULL DEFAULT 0,
    payment_amount TEXT NOT NULL DEFAULT '0',
    payment_date INTEGER,
    payment_method TEXT,
    payment_reference TEXT,
    confirmation_notes TEXT,
    amount_mismatch INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (settlement_request_id, confirming_org),
    FOREIGN KEY (settlement_request_id) REFERENCES settlement_requests(id)
);

CREATE TABLE IF NOT EXISTS escalation_queue (
    id TEXT PRIMARY KEY,
    settlement_request_id TEXT NOT NULL,
    escalated_by_user TEXT NOT NULL,
    escalation_reason TEXT NOT NULL,
    escalation_type TEXT NOT NULL,
    priority TEXT NOT NULL DEFAULT 'normal',
    status TEXT NOT NULL,
    assigned_to_user TEXT,
    assigned_at INTEGER,
    resolution TEXT,
    resolution_type TEXT,
    resolved_by_user TEXT,
    resolved_at INTEGER,
    closed_at INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (settlement_request_id) REFERENCES settlement_requests(id)
);

CREATE INDEX IF NOT EXISTS idx_settlement_requests_case_id ON settlement_requests(case_id);
CREATE INDEX IF NOT EXISTS idx_settlement_requests_status ON settlement_requests(status);
CREATE INDEX IF NOT EXISTS idx_settlement_audit_request_id ON settlement_audit(settlement_request_id);
CREATE INDEX IF NOT EXISTS idx_escalation_queue_request_id ON escalation_queue(settlement_request_id);
CREATE INDEX IF NOT EXISTS idx_escalation_queue_status ON escalation_queue(status);

-- At most one open/in_progress escalation per settlement request.
CREATE UNIQUE INDEX IF NOT EXISTS idx_escalation_queue_active
    ON escalation_queue(settlement_request_id)
    WHERE status IN ('open', 'in_progress');
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
