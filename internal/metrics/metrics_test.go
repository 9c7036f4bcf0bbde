package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.Transition("approve", "pending", "approved")
	r.Transition("approve", "pending", "approved")
	r.Transition("dispute", "approved", "escalated")
	r.EscalationOpened("dispute")
	r.ConfirmationMismatch()
	r.ReconcileRepaired(3)
	r.ReconcileRepaired(0)
	r.ObserveRPC("/casesettle.v1.SettlementService/GetSettlement", "ok", 20*time.Millisecond)

	if got := testutil.ToFloat64(r.transitions.WithLabelValues("approve", "pending", "approved")); got != 2 {
		t.Errorf("approve transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.escalations.WithLabelValues("dispute")); got != 1 {
		t.Errorf("escalations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.mismatches); got != 1 {
		t.Errorf("mismatches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.repairs); got != 3 {
		t.Errorf("repairs = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(r.rpcDuration); got != 1 {
		t.Errorf("rpc series = %d, want 1", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "casesettle_settlement_transitions_total") {
		t.Error("expected transitions counter in exposition output")
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Transition("approve", "pending", "approved")
	r.EscalationOpened("dispute")
	r.ConfirmationMismatch()
	r.ReconcileRepaired(1)
	r.PublishFailed()
	r.ObserveRPC("x", "ok", time.Second)
}
