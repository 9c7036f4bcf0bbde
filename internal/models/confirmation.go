package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementConfirmation is one organization's attestation that a settlement
// is final, and optionally that payment was received. There is at most one
// confirmation per (SettlementRequestID, ConfirmingOrg); re-confirming updates it.
type SettlementConfirmation struct {
	ID                  string
	SettlementRequestID string
	ConfirmingUser      string
	ConfirmingOrg       string

	ConfirmedAmount decimal.Decimal

	PaymentReceived  bool
	PaymentAmount    decimal.Decimal
	PaymentDate      *time.Time
	PaymentMethod    PaymentMethod
	PaymentReference string

	ConfirmationNotes string

	// AmountMismatch is set when ConfirmedAmount differs materially from the
	// request's final amount. Mismatches are accepted, only flagged.
	AmountMismatch bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
