package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Settlement struct {
	ID                  string          `json:"id"`
	CaseID              string          `json:"case_id"`
	EncounterID         string          `json:"encounter_id,omitempty"`
	RequestedByOrg      string          `json:"requested_by_org"`
	RequestedByOrgName  string          `json:"requested_by_org_name,omitempty"`
	CounterpartyOrg     string          `json:"counterparty_org,omitempty"`
	CounterpartyOrgName string          `json:"counterparty_org_name,omitempty"`
	RequestedByUser     string          `json:"requested_by_user"`
	ResponseByUser      string          `json:"response_by_user,omitempty"`
	OriginalAmount      decimal.Decimal `json:"original_amount"`
	RequestedReduction  decimal.Decimal `json:"requested_reduction"`
	ReductionPercentage decimal.Decimal `json:"reduction_percentage"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	ReductionReason     string          `json:"reduction_reason"`
	ReductionCategory   string          `json:"reduction_category"`
	Attachments         []string        `json:"attachments,omitempty"`
	ResponseNotes       string          `json:"response_notes,omitempty"`
	Status              string          `json:"status"`
	OverrideReason      string          `json:"override_reason,omitempty"`
	OverrideByUser      string          `json:"override_by_user,omitempty"`
	OverrideAttachment  string          `json:"override_attachment,omitempty"`
	PaymentAmount       decimal.Decimal `json:"payment_amount"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	PaymentReference    string          `json:"payment_reference,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	RequestedAt         time.Time       `json:"requested_at"`
	RespondedAt         *time.Time      `json:"responded_at,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type Confirmation struct {
	ID                string          `json:"id"`
	SettlementID      string          `json:"settlement_id"`
	ConfirmingUser    string          `json:"confirming_user"`
	ConfirmingOrg     string          `json:"confirming_org"`
	ConfirmedAmount   decimal.Decimal `json:"confirmed_amount"`
	PaymentReceived   bool            `json:"payment_received"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	PaymentReference  string          `json:"payment_reference,omitempty"`
	ConfirmationNotes string          `json:"confirmation_notes,omitempty"`
	AmountMismatch    bool            `json:"amount_mismatch"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorUser  string    `json:"actor_user"`
	ActorOrg   string    `json:"actor_org,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SettlementStats struct {
	Total                      int             `json:"total"`
	Pending                    int             `json:"pending"`
	Approved                   int             `json:"approved"`
	Denied                     int             `json:"denied"`
	Disputed                   int             `json:"disputed"`
	TotalOriginalAmount        decimal.Decimal `json:"total_original_amount"`
	TotalReduction             decimal.Decimal `json:"total_reduction"`
	AverageReductionPercentage decimal.Decimal `json:"average_reduction_percentage"`
}

type CreateSettlementRequest struct {
	CaseID             string          `json:"case_id"`
	EncounterID        string          `json:"encounter_id,omitempty"`
	OriginalAmount     decimal.Decimal `json:"original_amount"`
	RequestedReduction decimal.Decimal `json:"requested_reduction"`
	ReductionReason    string          `json:"reduction_reason"`
	ReductionCategory  string          `json:"reduction_category,omitempty"`
	Attachments        []string        `json:"attachments,omitempty"`
}

// SettlementResponse is returned by every call that yields one settlement.
type SettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type ListSettlementsRequest struct {
	CaseID string `json:"case_id,omitempty"`
	Status string `json:"status,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type ApproveSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
	Notes        string `json:"notes,omitempty"`
}

type DenySettlementRequest struct {
	SettlementID string `json:"settlement_id"`
	Reason       string `json:"reason"`
}

type OverrideSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
	Reason       string `json:"reason"`
	Attachment   string `json:"attachment,omitempty"`
}

type DisputeSettlementRequest struct {
	SettlementID   string `json:"settlement_id"`
	Reason         string `json:"reason"`
	EscalationType string `json:"escalation_type,omitempty"`
	Priority       string `json:"priority,omitempty"`
}

type DisputeSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
	Escalation *Escalation `json:"escalation"`
}

type RecordPaymentRequest struct {
	SettlementID string          `json:"settlement_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

type ConfirmSettlementRequest struct {
	SettlementID     string          `json:"settlement_id"`
	ConfirmedAmount  decimal.Decimal `json:"confirmed_amount"`
	PaymentReceived  bool            `json:"payment_received"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type ConfirmSettlementResponse struct {
	Confirmation *Confirmation `json:"confirmation"`
	Settlement   *Settlement   `json:"settlement"`
	Created      bool          `json:"created"`
	Finalized    bool          `json:"finalized"`
}

type HasConfirmedRequest struct {
	SettlementID string `json:"settlement_id"`
	// OrgID defaults to the caller's organization.
	OrgID string `json:"org_id,omitempty"`
}

type HasConfirmedResponse struct {
	Confirmed bool `json:"confirmed"`
}

type ListConfirmationsRequest struct {
	SettlementID string `json:"settlement_id"`
}

type ListConfirmationsResponse struct {
	Confirmations []*Confirmation `json:"confirmations"`
}

type ListAuditTrailRequest struct {
	SettlementID string `json:"settlement_id"`
}

type ListAuditTrailResponse struct {
	Entries []*AuditEntry `json:"entries"`
}

type GetSettlementStatsRequest struct {
	CaseID string `json:"case_id,omitempty"`
}

type GetSettlementStatsResponse struct {
	Stats SettlementStats `json:"stats"`
}
