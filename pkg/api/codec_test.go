package api

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestJSONCodecKeepsDecimalsExact(t *testing.T) {
	codec := JSONCodec{}
	if codec.Name() != "json" {
		t.Fatalf("codec name = %q", codec.Name())
	}

	in := &CreateSettlementRequest{
		CaseID:             "case-1",
		OriginalAmount:     decimal.RequireFromString("1234.56"),
		RequestedReduction: decimal.RequireFromString("0.10"),
		ReductionReason:    "prompt payment",
	}
	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"original_amount":"1234.56"`) {
		t.Errorf("amount should be a decimal string, got %s", data)
	}

	var out CreateSettlementRequest
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !out.RequestedReduction.Equal(in.RequestedReduction) {
		t.Errorf("reduction = %s, want %s", out.RequestedReduction, in.RequestedReduction)
	}
}

func TestJSONCodecAcceptsNumbersAndEmptyBodies(t *testing.T) {
	codec := JSONCodec{}

	var req RecordPaymentRequest
	if err := codec.Unmarshal([]byte(`{"settlement_id":"s-1","amount":99.95,"method":"check"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !req.Amount.Equal(decimal.RequireFromString("99.95")) {
		t.Errorf("amount = %s", req.Amount)
	}

	var empty GetCurrentUserRequest
	if err := codec.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body should decode, got %v", err)
	}

	if err := codec.Unmarshal([]byte(`{"amount":`), &req); err == nil {
		t.Error("expected error for truncated body")
	}
}
