package workflow

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/authz"
	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/notify"
	"github.com/mmynk/casesettle/internal/storage/sqlite"
)

var (
	lawyer   = models.Actor{UserID: "u-law", OrgID: "org-law"}
	provider = models.Actor{UserID: "u-pt", OrgID: "org-pt"}
	admin    = models.Actor{UserID: "u-admin", OrgID: "org-ops", Admin: true}
	stranger = models.Actor{UserID: "u-x", OrgID: "org-x"}
)

// stepClock advances one minute per call so timestamps are distinct.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	store         *sqlite.SQLiteStore
	ledger        *Ledger
	confirmations *Confirmations
	escalations   *Escalations
	reconciler    *Reconciler
	events        *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "workflow.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.UpsertCaseParties(ctx, &models.CaseParties{CaseID: "case-1", RequestingOrg: "org-law", CounterpartyOrg: "org-pt"}); err != nil {
		t.Fatalf("failed to seed case: %v", err)
	}

	clock := &stepClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	events := &notify.Recorder{}
	opts := []Option{WithClock(clock.Now), WithPublisher(events)}

	dir := authz.NewStoreDirectory(store)
	gate := authz.NewRosterGate(dir)
	ledger := NewLedger(store, gate, opts...)
	escalations := NewEscalations(store, store, gate, opts...)
	return &fixture{
		store:         store,
		ledger:        ledger,
		confirmations: NewConfirmations(store, ledger, dir, opts...),
		escalations:   escalations,
		reconciler:    NewReconciler(store, escalations, opts...),
		events:        events,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) create(t *testing.T, original, reduction string) *models.SettlementRequest {
	t.Helper()
	req, err := f.ledger.Create(context.Background(), lawyer, CreateInput{
		CaseID:             "case-1",
		OriginalAmount:     dec(original),
		RequestedReduction: dec(reduction),
		Reason:             "Policy limits reached",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return req
}

func (f *fixture) approve(t *testing.T, id string) *models.SettlementRequest {
	t.Helper()
	req, err := f.ledger.Approve(context.Background(), provider, id, "")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	return req
}

func wantKind(t *testing.T, err error, kind errs.Kind) {
	t.Helper()
	if !errs.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}
