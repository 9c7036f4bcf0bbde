package models

import "time"

// EscalationStatus tracks the lifecycle of an escalation queue item.
type EscalationStatus string

const (
	EscalationOpen       EscalationStatus = "open"
	EscalationInProgress EscalationStatus = "in_progress"
	EscalationResolved   EscalationStatus = "resolved"
	EscalationClosed     EscalationStatus = "closed"
)

// Valid reports whether s is a known escalation status.
func (s EscalationStatus) Valid() bool {
	switch s {
	case EscalationOpen, EscalationInProgress, EscalationResolved, EscalationClosed:
		return true
	}
	return false
}

// Active reports whether the item still blocks a new escalation for the same request.
func (s EscalationStatus) Active() bool {
	return s == EscalationOpen || s == EscalationInProgress
}

// EscalationType classifies what is being escalated.
type EscalationType string

const (
	EscalationDisputedReduction EscalationType = "disputed_reduction"
	EscalationPaymentDispute    EscalationType = "payment_dispute"
	EscalationOtherType         EscalationType = "other"
)

func (t EscalationType) Valid() bool {
	switch t {
	case EscalationDisputedReduction, EscalationPaymentDispute, EscalationOtherType:
		return true
	}
	return false
}

// EscalationPriority orders the queue.
type EscalationPriority string

const (
	PriorityLow    EscalationPriority = "low"
	PriorityNormal EscalationPriority = "normal"
	PriorityHigh   EscalationPriority = "high"
	PriorityUrgent EscalationPriority = "urgent"
)

func (p EscalationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ResolutionType classifies the outcome of a resolved escalation.
type ResolutionType string

const (
	ResolutionAgreementReached  ResolutionType = "agreement_reached"
	ResolutionReductionUpheld   ResolutionType = "reduction_upheld"
	ResolutionReductionRejected ResolutionType = "reduction_rejected"
	ResolutionSplitDifference   ResolutionType = "split_difference"
	ResolutionWithdrawn         ResolutionType = "withdrawn"
	ResolutionOther             ResolutionType = "other"
)

func (r ResolutionType) Valid() bool {
	switch r {
	case ResolutionAgreementReached, ResolutionReductionUpheld, ResolutionReductionRejected,
		ResolutionSplitDifference, ResolutionWithdrawn, ResolutionOther:
		return true
	}
	return false
}

// EscalationQueueItem is a disputed settlement referred to neutral resolution.
type EscalationQueueItem struct {
	ID                  string
	SettlementRequestID string
	EscalatedByUser     string
	EscalationReason    string
	EscalationType      EscalationType
	Priority            EscalationPriority
	Status              EscalationStatus

	AssignedToUser string
	AssignedAt     *time.Time

	Resolution     string
	ResolutionType ResolutionType
	ResolvedByUser string
	ResolvedAt     *time.Time
	ClosedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that can be mutated without touching e.
func (e *EscalationQueueItem) Clone() *EscalationQueueItem {
	c := *e
	for _, p := range []**time.Time{&c.AssignedAt, &c.ResolvedAt, &c.ClosedAt} {
		if *p != nil {
			t := **p
			*p = &t
		}
	}
	return &c
}
