package api

import "time"

type Escalation struct {
	ID               string     `json:"id"`
	SettlementID     string     `json:"settlement_id"`
	EscalatedByUser  string     `json:"escalated_by_user"`
	EscalationReason string     `json:"escalation_reason"`
	EscalationType   string     `json:"escalation_type"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	AssignedToUser   string     `json:"assigned_to_user,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	Resolution       string     `json:"resolution,omitempty"`
	ResolutionType   string     `json:"resolution_type,omitempty"`
	ResolvedByUser   string     `json:"resolved_by_user,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type EscalationStats struct {
	Total                 int     `json:"total"`
	Open                  int     `json:"open"`
	InProgress            int     `json:"in_progress"`
	Resolved              int     `json:"resolved"`
	Closed                int     `json:"closed"`
	AverageResolutionDays float64 `json:"average_resolution_days"`
}

// EscalationResponse is returned by every call that yields one escalation.
type EscalationResponse struct {
	Escalation *Escalation `json:"escalation"`
}

type GetEscalationRequest struct {
	EscalationID string `json:"escalation_id"`
}

type ListEscalationsRequest struct {
	SettlementID   string `json:"settlement_id,omitempty"`
	Status         string `json:"status,omitempty"`
	AssignedToUser string `json:"assigned_to_user,omitempty"`
}

type ListEscalationsResponse struct {
	Escalations []*Escalation `json:"escalations"`
}

type AssignEscalationRequest struct {
	EscalationID string `json:"escalation_id"`
	AssigneeID   string `json:"assignee_id"`
}

type ResolveEscalationRequest struct {
	EscalationID   string `json:"escalation_id"`
	Resolution     string `json:"resolution"`
	ResolutionType string `json:"resolution_type,omitempty"`
}

type CloseEscalationRequest struct {
	EscalationID string `json:"escalation_id"`
}

type GetEscalationStatsRequest struct {
	SettlementID string `json:"settlement_id,omitempty"`
}

type GetEscalationStatsResponse struct {
	Stats EscalationStats `json:"stats"`
}
