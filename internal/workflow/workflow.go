// Package workflow implements the settlement negotiation and dispute
// escalation lifecycle on top of the storage and authz interfaces.
//
// Every mutating call takes the acting identity explicitly. Guards are
// checked against the last observed status and re-checked by the store's
// conditional writes, so a lost race surfaces as an errs.Conflict.
package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/casesettle/internal/authz"
	"github.com/mmynk/casesettle/internal/metrics"
	"github.com/mmynk/casesettle/internal/models"
	"github.com/mmynk/casesettle/internal/notify"
)

// Option configures a workflow component.
type Option func(*options)

type options struct {
	clock           func() time.Time
	logger          *slog.Logger
	publisher       notify.Publisher
	metrics         *metrics.Recorder
	defaultCategory models.ReductionCategory
	tolerance       decimal.Decimal
}

func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPublisher sets the change feed that successful writes are announced on.
func WithPublisher(p notify.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithDefaultCategory sets the category used when a request omits one.
func WithDefaultCategory(c models.ReductionCategory) Option {
	return func(o *options) { o.defaultCategory = c }
}

// WithMismatchTolerance sets how far a confirmed amount may drift from the
// final amount before the confirmation is flagged.
func WithMismatchTolerance(t decimal.Decimal) Option {
	return func(o *options) { o.tolerance = t }
}

func buildOptions(opts []Option) options {
	o := options{
		clock:           time.Now,
		logger:          slog.Default(),
		defaultCategory: models.CategoryStandard,
		tolerance:       decimal.RequireFromString("0.01"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.publisher == nil {
		o.publisher = notify.NewLogPublisher(o.logger)
	}
	return o
}

// now is truncated to whole seconds, the resolution the store keeps.
func (o *options) now() time.Time {
	return o.clock().UTC().Truncate(time.Second)
}

// publish announces ev. Failures are logged and counted, never returned.
func (o *options) publish(ctx context.Context, ev notify.Event) {
	if err := o.publisher.Publish(ctx, ev); err != nil {
		o.metrics.PublishFailed()
		o.logger.WarnContext(ctx, "Failed to publish change event",
			"kind", ev.Kind, "action", ev.Action, "id", ev.ID, "error", err)
	}
}

// isParty reports whether the access came from one of the case's two organizations.
func isParty(acc authz.Access) bool {
	return acc.OrgID != "" && (acc.Role == authz.RoleRequester || acc.Role == authz.RoleCounterparty)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
