package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the ledger status of a SettlementRequest.
type SettlementStatus string

const (
	StatusPending   SettlementStatus = "pending"
	StatusApproved  SettlementStatus = "approved"
	StatusDenied    SettlementStatus = "denied"
	StatusDisputed  SettlementStatus = "disputed" // reserved; no transition produces it
	StatusEscalated SettlementStatus = "escalated"
	StatusConfirmed SettlementStatus = "confirmed"
	StatusPaid      SettlementStatus = "paid"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusDisputed,
		StatusEscalated, StatusConfirmed, StatusPaid:
		return true
	}
	return false
}

// ReductionCategory classifies why a reduction was requested.
type ReductionCategory string

const (
	CategoryStandard          ReductionCategory = "standard"
	CategoryMedicalNecessity  ReductionCategory = "medical_necessity"
	CategoryPolicyLimits      ReductionCategory = "policy_limits"
	CategoryFinancialHardship ReductionCategory = "financial_hardship"
	CategoryPromptPayment     ReductionCategory = "prompt_payment"
	CategoryOther             ReductionCategory = "other"
)

// Valid reports whether c is a known category.
func (c ReductionCategory) Valid() bool {
	switch c {
	case CategoryStandard, CategoryMedicalNecessity, CategoryPolicyLimits,
		CategoryFinancialHardship, CategoryPromptPayment, CategoryOther:
		return true
	}
	return false
}

// PaymentMethod is how a settled amount was paid.
type PaymentMethod string

const (
	PaymentCheck PaymentMethod = "check"
	PaymentACH   PaymentMethod = "ach"
	PaymentWire  PaymentMethod = "wire"
	PaymentOther PaymentMethod = "other"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCheck, PaymentACH, PaymentWire, PaymentOther:
		return true
	}
	return false
}

// SettlementRequest is one negotiation thread for a reduction on a single
// case's billed amount. It is mutated only through ledger transitions and is
// never deleted.
type SettlementRequest struct {
	// ID is the unique identifier (UUID format).
	ID string

	// CaseID is the case this negotiation belongs to.
	CaseID string

	// EncounterID optionally narrows the request to one billable encounter.
	EncounterID string

	// RequestedByOrg and RequestedByUser identify the initiator.
	RequestedByOrg  string
	RequestedByUser string

	// ResponseByUser is whoever approved or denied the request.
	ResponseByUser string

	// OriginalAmount is the billed amount (> 0).
	OriginalAmount decimal.Decimal

	// RequestedReduction is the proposed reduction (0 <= value <= OriginalAmount).
	RequestedReduction decimal.Decimal

	// ReductionPercentage is RequestedReduction / OriginalAmount * 100,
	// fixed at creation time.
	ReductionPercentage decimal.Decimal

	ReductionReason   string
	ReductionCategory ReductionCategory
	Attachments       []string

	// ResponseNotes are the optional notes supplied on approval or the reason
	// supplied on denial.
	ResponseNotes string

	Status SettlementStatus

	// Override fields are set by an administrative force-approve.
	OverrideReason     string
	OverrideByUser     string
	OverrideAttachment string

	// Payment fields are set by the confirmed -> paid transition.
	PaymentAmount    decimal.Decimal
	PaymentMethod    PaymentMethod
	PaymentReference string
	PaidAt           *time.Time

	RequestedAt time.Time
	RespondedAt *time.Time
	UpdatedAt   time.Time
}

// FinalAmount is the amount owed after the reduction.
func (r *SettlementRequest) FinalAmount() decimal.Decimal {
	return r.OriginalAmount.Sub(r.RequestedReduction)
}

// Clone returns a copy that can be mutated without touching r.
func (r *SettlementRequest) Clone() *SettlementRequest {
	c := *r
	if r.Attachments != nil {
		c.Attachments = append([]string(nil), r.Attachments...)
	}
	if r.PaidAt != nil {
		t := *r.PaidAt
		c.PaidAt = &t
	}
	if r.RespondedAt != nil {
		t := *r.RespondedAt
		c.RespondedAt = &t
	}
	return &c
}

// AuditEntry is one append-only record of a ledger transition.
type AuditEntry struct {
	ID                  string
	SettlementRequestID string
	Action              string
	FromStatus          SettlementStatus
	ToStatus            SettlementStatus
	ActorUser           string
	ActorOrg            string
	Reason              string
	CreatedAt           time.Time
}
