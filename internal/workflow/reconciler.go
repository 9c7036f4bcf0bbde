package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/storage"
)

const recoveredReason = "Escalation item recovered by reconciliation"

// Reconciler repairs escalated settlements that never got an escalation
// item, which happens when a dispute's two writes are not applied together.
type Reconciler struct {
	settlements storage.SettlementStore
	escalations *Escalations
	options
}

func NewReconciler(settlements storage.SettlementStore, escalations *Escalations, opts ...Option) *Reconciler {
	return &Reconciler{settlements: settlements, escalations: escalations, options: buildOptions(opts)}
}

// RunOnce opens an item for every orphaned escalated settlement and returns
// how many were repaired. A failure on one settlement does not stop the pass.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	orphans, err := r.settlements.ListEscalatedWithoutQueueItem(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find orphaned escalations: %w", err)
	}

	var (
		repaired int
		failures []error
	)
	for _, req := range orphans {
		in, err := r.recoverInput(ctx, req)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		item, err := r.escalations.Open(ctx, models.System, in)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to repair escalation", "settlement_id", req.ID, "error", err)
			failures = append(failures, fmt.Errorf("settlement %s: %w", req.ID, err))
			continue
		}
		repaired++
		r.logger.WarnContext(ctx, "Repaired missing escalation item",
			"settlement_id", req.ID,
			"escalation_id", item.ID,
			"escalated_by", item.EscalatedByUser,
		)
	}

	r.metrics.ReconcileRepaired(repaired)
	if repaired > 0 {
		r.metrics.EscalationOpenedN("reconcile", repaired)
	}
	return repaired, errors.Join(failures...)
}

// recoverInput rebuilds the dispute from the last dispute audit entry, or
// falls back to a recovery reason attributed to the system actor.
func (r *Reconciler) recoverInput(ctx context.Context, req *models.SettlementRequest) (OpenInput, error) {
	in := OpenInput{
		SettlementRequestID: req.ID,
		EscalatedByUser:     models.System.UserID,
		Reason:              recoveredReason,
	}
	trail, err := r.settlements.ListAuditEntries(ctx, req.ID)
	if err != nil {
		return in, fmt.Errorf("settlement %s: %w", req.ID, err)
	}
	for i := len(trail) - 1; i >= 0; i-- {
		entry := trail[i]
		if entry.Action != string(ActionDispute) || entry.ToStatus != models.StatusEscalated {
			continue
		}
		if !blank(entry.Reason) {
			in.Reason = entry.Reason
		}
		if entry.ActorUser != "" {
			in.EscalatedByUser = entry.ActorUser
		}
		break
	}
	return in, nil
}

// Run calls RunOnce every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	r.logger.Info("Reconciler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopped")
			return
		case <-ticker.C:
			n, err := r.RunOnce(ctx)
			if err != nil {
				r.logger.Error("Reconciliation pass failed", "repaired", n, "error", err)
			} else if n > 0 {
				r.logger.Info("Reconciliation pass complete", "repaired", n)
			}
		}
	}
}
