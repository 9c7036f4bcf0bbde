package service

import (
	"time"

	"github.com/mmynk/casesettle/internal/calculator"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/pkg/api"
)

func toAPISettlement(r *models.SettlementRequest) *api.Settlement {
	if r == nil {
		return nil
	}
	return &api.Settlement{
		ID:                  r.ID,
		CaseID:              r.CaseID,
		EncounterID:         r.EncounterID,
		RequestedByOrg:      r.RequestedByOrg,
		RequestedByUser:     r.RequestedByUser,
		ResponseByUser:      r.ResponseByUser,
		OriginalAmount:      r.OriginalAmount,
		RequestedReduction:  r.RequestedReduction,
		ReductionPercentage: r.ReductionPercentage,
		FinalAmount:         r.FinalAmount(),
		ReductionReason:     r.ReductionReason,
		ReductionCategory:   string(r.ReductionCategory),
		Attachments:         r.Attachments,
		ResponseNotes:       r.ResponseNotes,
		Status:              string(r.Status),
		OverrideReason:      r.OverrideReason,
		OverrideByUser:      r.OverrideByUser,
		OverrideAttachment:  r.OverrideAttachment,
		PaymentAmount:       r.PaymentAmount,
		PaymentMethod:       string(r.PaymentMethod),
		PaymentReference:    r.PaymentReference,
		PaidAt:              r.PaidAt,
		RequestedAt:         r.RequestedAt,
		RespondedAt:         r.RespondedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func toAPISettlements(reqs []*models.SettlementRequest) []*api.Settlement {
	out := make([]*api.Settlement, len(reqs))
	for i, r := range reqs {
		out[i] = toAPISettlement(r)
	}
	return out
}

func toAPIConfirmation(c *models.SettlementConfirmation) *api.Confirmation {
	if c == nil {
		return nil
	}
	return &api.Confirmation{
		ID:                c.ID,
		SettlementID:      c.SettlementRequestID,
		ConfirmingUser:    c.ConfirmingUser,
		ConfirmingOrg:     c.ConfirmingOrg,
		ConfirmedAmount:   c.ConfirmedAmount,
		PaymentReceived:   c.PaymentReceived,
		PaymentAmount:     c.PaymentAmount,
		PaymentDate:       c.PaymentDate,
		PaymentMethod:     string(c.PaymentMethod),
		PaymentReference:  c.PaymentReference,
		ConfirmationNotes: c.ConfirmationNotes,
		AmountMismatch:    c.AmountMismatch,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toAPIEscalation(e *models.EscalationQueueItem) *api.Escalation {
	if e == nil {
		return nil
	}
	return &api.Escalation{
		ID:               e.ID,
		SettlementID:     e.SettlementRequestID,
		EscalatedByUser:  e.EscalatedByUser,
		EscalationReason: e.EscalationReason,
		EscalationType:   string(e.EscalationType),
		Priority:         string(e.Priority),
		Status:           string(e.Status),
		AssignedToUser:   e.AssignedToUser,
		AssignedAt:       e.AssignedAt,
		Resolution:       e.Resolution,
		ResolutionType:   string(e.ResolutionType),
		ResolvedByUser:   e.ResolvedByUser,
		ResolvedAt:       e.ResolvedAt,
		ClosedAt:         e.ClosedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toAPIAuditEntry(a *models.AuditEntry) *api.AuditEntry {
	return &api.AuditEntry{
		ID:         a.ID,
		Action:     a.Action,
		FromStatus: string(a.FromStatus),
		ToStatus:   string(a.ToStatus),
		ActorUser:  a.ActorUser,
		ActorOrg:   a.ActorOrg,
		Reason:     a.Reason,
		CreatedAt:  a.CreatedAt,
	}
}

func toAPISettlementStats(s calculator.SettlementSummary) api.SettlementStats {
	return api.SettlementStats{
		Total:                      s.Total,
		Pending:                    s.Pending,
		Approved:                   s.Approved,
		Denied:                     s.Denied,
		Disputed:                   s.Disputed,
		TotalOriginalAmount:        s.TotalOriginalAmount,
		TotalReduction:             s.TotalReduction,
		AverageReductionPercentage: s.AverageReductionPercentage,
	}
}

func toAPIEscalationStats(s calculator.EscalationSummary) api.EscalationStats {
	return api.EscalationStats{
		Total:                 s.Total,
		Open:                  s.Open,
		InProgress:            s.InProgress,
		Resolved:              s.Resolved,
		Closed:                s.Closed,
		AverageResolutionDays: s.AverageResolutionDays,
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		OrgID:       u.OrgID,
		Role:        string(u.Role),
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func toAPIOrganization(o *models.Organization) *api.Organization {
	return &api.Organization{
		ID:        o.ID,
		Name:      o.Name,
		Kind:      o.Kind,
		CreatedAt: time.Unix(o.CreatedAt, 0).UTC(),
	}
}

func toAPICase(p *models.CaseParties) *api.Case {
	return &api.Case{
		CaseID:          p.CaseID,
		RequestingOrg:   p.RequestingOrg,
		CounterpartyOrg: p.CounterpartyOrg,
	}
}
