// Package reconcile implements the nightly safety net that diffs each
// provider's own transaction ledger against our recorded Payments and
// repairs anything a missed or dropped webhook left behind (spec §4.11).
// It writes no Payment rows itself: every repair goes through the same
// applier entrypoint webhooks use.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/events"
	"github.com/creatorpay/platform/internal/providers"
)

// defaultWindow is the sliding lookback each run covers; configurable per
// run via Reconciler.Window so a catch-up run can widen it.
const defaultWindow = 48 * time.Hour

// Report summarizes one sweep across both providers.
type Report struct {
	Checked      int
	Matched      int
	Discrepancies int
	AutoFixed    int
}

// Reconciler diffs provider transaction history against recorded Payments.
type Reconciler struct {
	provR   providers.Adapter
	provG   providers.Adapter
	queries db.Querier
	applier *applier.Applier
	logger  *zap.Logger

	Window  time.Duration
	AutoFix bool
}

func New(provR, provG providers.Adapter, queries db.Querier, app *applier.Applier, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		provR: provR, provG: provG, queries: queries, applier: app, logger: logger,
		Window: defaultWindow, AutoFix: true,
	}
}

// Run executes one sweep over both providers and logs the resulting
// Report; it satisfies the scheduler.Reconciler interface.
func (r *Reconciler) Run(ctx context.Context) error {
	window := r.Window
	if window <= 0 {
		window = defaultWindow
	}
	since := time.Now().Add(-window)

	report := Report{}
	for _, provider := range []struct {
		name    domain.Provider
		adapter providers.Adapter
	}{
		{domain.ProviderG, r.provG},
		{domain.ProviderR, r.provR},
	} {
		if provider.adapter == nil {
			continue
		}
		sub, err := r.sweepProvider(ctx, provider.name, provider.adapter, since)
		if err != nil {
			return err
		}
		report.Checked += sub.Checked
		report.Matched += sub.Matched
		report.Discrepancies += sub.Discrepancies
		report.AutoFixed += sub.AutoFixed
	}

	if report.Discrepancies > 0 {
		r.logger.Error("reconcile: discrepancies found",
			zap.Int("checked", report.Checked), zap.Int("matched", report.Matched),
			zap.Int("discrepancies", report.Discrepancies), zap.Int("auto_fixed", report.AutoFixed))
	} else {
		r.logger.Info("reconcile: swept provider transactions",
			zap.Int("checked", report.Checked), zap.Int("matched", report.Matched))
	}
	return nil
}

func (r *Reconciler) sweepProvider(ctx context.Context, provider domain.Provider, adapter providers.Adapter, since time.Time) (Report, error) {
	txns, err := adapter.ListTransactionsSince(ctx, since)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, txn := range txns {
		if txn.Status != "succeeded" && txn.Status != "success" {
			continue
		}
		report.Checked++

		_, found, err := r.queries.GetPaymentByProviderChargeRef(ctx, txn.Reference)
		if err != nil {
			return Report{}, err
		}
		if found {
			report.Matched++
			continue
		}

		if txn.CreatorID == "" {
			r.logger.Warn("reconcile: unmatched transaction with no creator metadata",
				zap.String("provider", string(provider)), zap.String("reference", txn.Reference))
			report.Discrepancies++
			continue
		}

		if !r.AutoFix || txn.SubscriberEmail == "" {
			r.logger.Warn("reconcile: discrepancy reported, not auto-fixed",
				zap.String("provider", string(provider)), zap.String("reference", txn.Reference),
				zap.String("creator_id", txn.CreatorID), zap.Bool("auto_fix_enabled", r.AutoFix))
			report.Discrepancies++
			continue
		}

		if err := r.autoFix(ctx, provider, txn); err != nil {
			r.logger.Warn("reconcile: auto-fix failed", zap.String("reference", txn.Reference), zap.Error(err))
			report.Discrepancies++
			continue
		}
		report.AutoFixed++
	}
	return report, nil
}

// autoFix replays a missed provider transaction through the same entrypoint
// webhooks use, keyed by a synthesized manual_{ref} event id so a second
// sweep (or a webhook that arrives late) can never double-apply it.
func (r *Reconciler) autoFix(ctx context.Context, provider domain.Provider, txn providers.ProviderTransaction) error {
	occurredAt := txn.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := r.applier.ApplyChargeSucceeded(ctx, events.ChargeSucceeded{
		Provider:          provider,
		ProviderEventID:   "manual_" + txn.Reference,
		ProviderChargeRef: txn.Reference,
		CreatorID:         txn.CreatorID,
		SubscriberEmail:   txn.SubscriberEmail,
		AmountCents:       txn.AmountCents,
		Currency:          txn.Currency,
		Interval:          domain.IntervalOneTime,
		OccurredAt:        occurredAt,
		PeriodEnd:         occurredAt,
	})
	if err != nil && errs.Is(err, errs.Conflict) {
		return nil
	}
	return err
}
