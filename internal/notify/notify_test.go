package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewLogPublisher(logger)

	err := p.Publish(context.Background(), Event{Kind: KindSettlement, Action: "approve", ID: "s1", SettlementRequestID: "s1", Status: "approved"})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "settlement_id=s1") || !strings.Contains(out, "action=approve") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	r.Publish(ctx, Event{Kind: KindSettlement, Action: "create"})
	r.Publish(ctx, Event{Kind: KindEscalation, Action: "open"})

	got := r.Events()
	if len(got) != 2 || got[1].Kind != KindEscalation {
		t.Fatalf("unexpected events: %+v", got)
	}
	got[0].Action = "mutated"
	if r.Events()[0].Action != "create" {
		t.Error("Events should return a copy")
	}
}
