package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/events"
	"github.com/creatorpay/platform/internal/lock"
	"github.com/creatorpay/platform/internal/notifier"
	"github.com/creatorpay/platform/internal/payout"
	"github.com/creatorpay/platform/internal/providers"
)

// notificationLockTTL bounds how long notifyOnce may hold a subscription's
// notification lock, the same budget applier.lockTTL gives event
// application.
const notificationLockTTL = 30 * time.Second

// retrySchedule is the exponential dunning schedule from spec §4.8: a
// past_due subscription's Nth retry (0-indexed) is due this many days after
// the previous failed attempt (the failed renewal for the first retry, the
// last retry after that). The subscription is canceled when its last
// scheduled retry fails.
var retrySchedule = []time.Duration{24 * time.Hour, 3 * 24 * time.Hour, 5 * 24 * time.Hour}

// Reconciler is the subset of internal/reconcile's surface the scheduler
// depends on, kept as a local interface so this package never imports
// reconcile's types directly.
type Reconciler interface {
	Run(ctx context.Context) error
}

// Locker is the subset of internal/lock's surface notifyOnce depends on,
// kept as a local interface the same way Reconciler is, so a test can stand
// in a lock-free fake instead of wiring a live Redis connection.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// nowFunc is a seam for tests.
var nowFunc = time.Now

// Jobs holds every dependency the eleven named jobs call into, and exposes
// them as Job values ready to hand to NewRunner.
type Jobs struct {
	queries    db.Querier
	applier    *applier.Applier
	payout     *payout.Engine
	provR      providers.Adapter
	provG      providers.Adapter
	reconciler Reconciler
	sender     notifier.Sender
	locker     Locker
	logger     *zap.Logger
}

func NewJobs(queries db.Querier, app *applier.Applier, payoutEngine *payout.Engine, provR, provG providers.Adapter, reconciler Reconciler, sender notifier.Sender, locker Locker, logger *zap.Logger) *Jobs {
	return &Jobs{
		queries: queries, applier: app, payout: payoutEngine,
		provR: provR, provG: provG, reconciler: reconciler, sender: sender, locker: locker, logger: logger,
	}
}

// Defs returns the eleven named jobs from spec §4.8, each bound to its
// cadence, ready for NewRunner.
func (j *Jobs) Defs() []Job {
	return []Job{
		{Name: "billing", Interval: 24 * time.Hour, Run: j.Billing},
		{Name: "retries", Interval: time.Hour, Run: j.Retries},
		{Name: "payroll", Interval: 24 * time.Hour, Run: j.Payroll},
		{Name: "dunning", Interval: 24 * time.Hour, Run: j.Dunning},
		{Name: "cancellations", Interval: 24 * time.Hour, Run: j.Cancellations},
		{Name: "reminders", Interval: time.Hour, Run: j.Reminders},
		{Name: "transfers", Interval: time.Hour, Run: j.Transfers},
		{Name: "reconciliation", Interval: 24 * time.Hour, Run: j.Reconciliation},
		{Name: "cleanup", Interval: 24 * time.Hour, Run: j.Cleanup},
		{Name: "sync-balances", Interval: 30 * time.Minute, Run: j.SyncBalances},
		{Name: "stats-aggregate", Interval: 24 * time.Hour, Run: j.StatsAggregate},
	}
}

// Billing charges every active subscription whose period has ended. Only
// PROV-R subscriptions are billed here: PROV-G recurring charges are
// driven by Stripe's own billing cycle and arrive as invoice webhooks
// instead (spec §4.8).
func (j *Jobs) Billing(ctx context.Context) error {
	now := nowFunc()
	subs, err := j.queries.ListSubscriptionsDueForBilling(ctx, now)
	if err != nil {
		return err
	}

	var failed int
	for _, sub := range subs {
		if err := j.billOne(ctx, sub, now); err != nil {
			j.logger.Warn("billing: charge attempt failed", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			failed++
		}
	}
	j.logger.Info("billing: swept due subscriptions", zap.Int("count", len(subs)), zap.Int("failed", failed))
	return nil
}

func (j *Jobs) billOne(ctx context.Context, sub domain.Subscription, now time.Time) error {
	periodKey := sub.CurrentPeriodEnd.Format("2006-01-02")
	eventID := fmt.Sprintf("billing_%s_%s", sub.ID, periodKey)

	subscriber, err := j.queries.GetSubscriberByID(ctx, sub.SubscriberID)
	if err != nil {
		return err
	}

	txn, chargeErr := j.provR.ChargeStoredAuthorization(ctx, sub.ProvRAuthCode, sub.AmountCents, sub.Currency, eventID)
	if chargeErr != nil {
		return j.recordFailedAttempt(ctx, sub, eventID)
	}

	nextPeriodEnd := sub.CurrentPeriodEnd.AddDate(0, 1, 0)
	occurredAt := txn.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	_, err = j.applier.ApplyChargeSucceeded(ctx, events.ChargeSucceeded{
		Provider:          domain.ProviderR,
		ProviderEventID:   eventID,
		ProviderChargeRef: txn.Reference,
		CreatorID:         sub.CreatorID.String(),
		SubscriberEmail:   subscriber.Email,
		AmountCents:       sub.AmountCents,
		Currency:          sub.Currency,
		Interval:          sub.Interval,
		OccurredAt:        occurredAt,
		PeriodEnd:         nextPeriodEnd,
	})
	return err
}

// recordFailedAttempt records a failed recurring charge as its own Payment
// row (no money moved, so gross/fee/net are zero) so the dunning job has
// something to read, then advances the subscription's retry state,
// canceling it outright once the schedule is exhausted.
func (j *Jobs) recordFailedAttempt(ctx context.Context, sub domain.Subscription, eventID string) error {
	payment, err := j.queries.InsertPayment(ctx, domain.Payment{
		SubscriptionID:    &sub.ID,
		CreatorID:         sub.CreatorID,
		SubscriberID:      &sub.SubscriberID,
		AmountCents:       sub.AmountCents,
		Currency:          sub.Currency,
		FeeModel:          sub.FeeModel,
		Type:              domain.PaymentTypeRecurring,
		Status:            domain.PaymentStatusFailed,
		ProviderEventID:   eventID,
		OccurredAt:        nowFunc(),
		ReportingCurrency: "USD",
	})
	if err != nil && !errs.Is(err, errs.Conflict) {
		return err
	}

	isRetry := sub.Status == domain.SubStatusPastDue
	if isRetry && sub.RetryCount+1 >= len(retrySchedule) {
		if err := j.queries.CancelSubscriptionNow(ctx, sub.ID, domain.CancelReasonPaymentFailed); err != nil {
			return err
		}
		return j.queries.InsertActivity(ctx, domain.Activity{UserID: sub.CreatorID, Type: domain.ActivitySubscriptionCanceled})
	}

	if err := j.queries.SetSubscriptionStatus(ctx, sub.ID, domain.SubStatusPastDue, domain.CancelReasonPaymentFailed); err != nil {
		return err
	}
	if isRetry {
		if err := j.queries.IncrementSubscriptionRetry(ctx, sub.ID); err != nil {
			return err
		}
	}
	return j.queries.InsertActivity(ctx, domain.Activity{UserID: sub.CreatorID, Type: domain.ActivitySubscriptionPastDue, Payload: []byte(`{"payment_id":"` + payment.ID.String() + `"}`)})
}

// Retries re-attempts past_due PROV-R subscriptions on the 1d/3d/5d
// schedule; PROV-G past_due subscriptions are retried by Stripe itself.
func (j *Jobs) Retries(ctx context.Context) error {
	now := nowFunc()
	subs, err := j.queries.ListPastDueSubscriptions(ctx)
	if err != nil {
		return err
	}

	var attempted int
	for _, sub := range subs {
		if !sub.HasProvRBinding() {
			continue
		}
		if sub.RetryCount >= len(retrySchedule) {
			continue
		}
		base := sub.PastDueSince
		if sub.RetryCount > 0 && sub.LastRetryAt != nil {
			base = sub.LastRetryAt
		}
		if base == nil || now.Before(base.Add(retrySchedule[sub.RetryCount])) {
			continue
		}
		if err := j.billOne(ctx, sub, now); err != nil {
			j.logger.Warn("retries: attempt failed", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		}
		attempted++
	}
	j.logger.Info("retries: swept past_due subscriptions", zap.Int("past_due", len(subs)), zap.Int("attempted", attempted))
	return nil
}

// Payroll cuts payouts for service-purpose creators on the 1st and 16th of
// the month; the job itself ticks daily and no-ops on other days, since the
// scheduler only models fixed intervals, not calendar-day cron rules.
func (j *Jobs) Payroll(ctx context.Context) error {
	now := nowFunc()
	if now.Day() != 1 && now.Day() != 16 {
		return nil
	}

	creators, err := j.queries.ListCreatorsByPurpose(ctx, domain.PurposeService)
	if err != nil {
		return err
	}

	var paid int
	for _, creator := range creators {
		if creator.BalanceCacheCents <= 0 {
			continue
		}
		currency := creator.BalanceCacheCurrency
		if currency == "" {
			currency = creator.Currency
		}
		if _, err := j.payout.InitiatePayout(ctx, creator.ID, creator.BalanceCacheCents, currency); err != nil {
			j.logger.Warn("payroll: payout failed", zap.String("creator_id", creator.ID.String()), zap.Error(err))
			continue
		}
		paid++
	}
	j.logger.Info("payroll: cut payouts", zap.Int("eligible", len(creators)), zap.Int("paid", paid))
	return nil
}

// Dunning emails subscribers whose most recent recurring/one_time payment
// failed in the trailing 24h.
func (j *Jobs) Dunning(ctx context.Context) error {
	since := nowFunc().Add(-24 * time.Hour)
	payments, err := j.queries.ListRecentFailedPayments(ctx, since)
	if err != nil {
		return err
	}

	var sent int
	for _, payment := range payments {
		if payment.SubscriptionID == nil || payment.SubscriberID == nil {
			continue
		}
		notifType := "payment_failed_" + payment.ID.String()
		if err := j.notifyOnce(ctx, *payment.SubscriptionID, *payment.SubscriberID, notifType, notifier.KindPaymentFailed, "Your payment didn't go through"); err != nil {
			j.logger.Warn("dunning: notify failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	j.logger.Info("dunning: processed failed payments", zap.Int("count", len(payments)), zap.Int("sent", sent))
	return nil
}

// Cancellations emails subscribers whose subscription canceled in the
// trailing 24h.
func (j *Jobs) Cancellations(ctx context.Context) error {
	since := nowFunc().Add(-24 * time.Hour)
	subs, err := j.queries.ListRecentlyCanceledSubscriptions(ctx, since)
	if err != nil {
		return err
	}

	var sent int
	for _, sub := range subs {
		if err := j.notifyOnce(ctx, sub.ID, sub.SubscriberID, "subscription_canceled", notifier.KindSubscriptionCanceled, "Your subscription has been canceled"); err != nil {
			j.logger.Warn("cancellations: notify failed", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	j.logger.Info("cancellations: processed canceled subscriptions", zap.Int("count", len(subs)), zap.Int("sent", sent))
	return nil
}

// reminderOffsets are the renewal-notice lead times from spec §4.8.
var reminderOffsets = []time.Duration{7 * 24 * time.Hour, 3 * 24 * time.Hour, 24 * time.Hour}

// Reminders sends 7/3/1-day renewal notices, idempotent per
// (subscriptionId, periodKey, offset).
func (j *Jobs) Reminders(ctx context.Context) error {
	now := nowFunc()
	var sent int
	for _, offset := range reminderOffsets {
		windowStart := now.Add(offset)
		windowEnd := windowStart.Add(time.Hour) // this job ticks hourly; one hour-wide window per offset avoids double-catching across ticks
		subs, err := j.queries.ListSubscriptionsRenewingBetween(ctx, windowStart, windowEnd)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			periodKey := sub.CurrentPeriodEnd.Format("2006-01-02")
			notifType := fmt.Sprintf("renewal_reminder_%s_%s", periodKey, offset)
			if err := j.notifyOnce(ctx, sub.ID, sub.SubscriberID, notifType, notifier.KindRenewalReminder, "Your subscription renews soon"); err != nil {
				j.logger.Warn("reminders: notify failed", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
				continue
			}
			sent++
		}
	}
	j.logger.Info("reminders: sent renewal notices", zap.Int("sent", sent))
	return nil
}

// Transfers watches for stuck otp_pending payouts and a rising payout
// failure rate; both conditions are logged at warning level rather than
// routed through a separate alerting system, which is out of scope here.
func (j *Jobs) Transfers(ctx context.Context) error {
	now := nowFunc()
	stuck, err := j.queries.ListStuckOTPPayouts(ctx, now.Add(-time.Hour))
	if err != nil {
		return err
	}
	for _, p := range stuck {
		j.logger.Warn("transfers: payout stuck in otp_pending for over an hour",
			zap.String("payment_id", p.ID.String()), zap.String("creator_id", p.CreatorID.String()))
	}

	succeeded, failedCount, err := j.queries.CountRecentPayoutOutcomes(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}
	total := succeeded + failedCount
	if total >= 5 {
		rate := float64(failedCount) / float64(total)
		if rate > 0.20 {
			j.logger.Warn("transfers: payout failure rate elevated", zap.Float64("failure_rate", rate), zap.Int("sample_size", total))
		}
	}

	j.logger.Info("transfers: swept payout health", zap.Int("stuck_otp_pending", len(stuck)), zap.Int("recent_samples", total))
	return nil
}

// Reconciliation delegates to the reconciliation sweep (spec §4.11).
func (j *Jobs) Reconciliation(ctx context.Context) error {
	return j.reconciler.Run(ctx)
}

// Cleanup is the richer of the two divergent cleanup behaviors found in the
// source: stale pending subscriptions past the abandonment window and
// overdue end-of-period cancellations are both swept, in addition to
// whatever a slimmer variant would cover (spec §7 redesign decision).
func (j *Jobs) Cleanup(ctx context.Context) error {
	now := nowFunc()

	stale, err := j.queries.ListStalePendingSubscriptions(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		return err
	}
	for _, sub := range stale {
		if err := j.queries.CancelSubscriptionNow(ctx, sub.ID, domain.CancelReasonPendingPaymentTimeout); err != nil {
			j.logger.Warn("cleanup: failed to expire stale pending subscription", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		}
	}

	overdue, err := j.queries.ListOverdueCancelAtPeriodEnd(ctx, now)
	if err != nil {
		return err
	}
	for _, sub := range overdue {
		if err := j.queries.CancelSubscriptionNow(ctx, sub.ID, domain.CancelReasonSubscriberRequest); err != nil {
			j.logger.Warn("cleanup: failed to finalize scheduled cancellation", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		}
	}

	j.logger.Info("cleanup: swept subscriptions", zap.Int("stale_pending", len(stale)), zap.Int("overdue_cancel_at_period_end", len(overdue)))
	return nil
}

// SyncBalances refreshes each connected creator's cached provider balance.
func (j *Jobs) SyncBalances(ctx context.Context) error {
	creators, err := j.queries.ListConnectedCreators(ctx)
	if err != nil {
		return err
	}

	var refreshed int
	for _, creator := range creators {
		adapter, accountID := j.accountFor(creator)
		if adapter == nil {
			continue
		}
		amountCents, currency, err := adapter.GetBalance(ctx, accountID)
		if err != nil {
			j.logger.Warn("sync-balances: provider balance read failed", zap.String("creator_id", creator.ID.String()), zap.Error(err))
			continue
		}
		if err := j.queries.UpdateCreatorBalanceCache(ctx, creator.ID, amountCents, currency); err != nil {
			return err
		}
		refreshed++
	}
	j.logger.Info("sync-balances: refreshed creator balances", zap.Int("connected", len(creators)), zap.Int("refreshed", refreshed))
	return nil
}

func (j *Jobs) accountFor(creator domain.Creator) (providers.Adapter, string) {
	if creator.DefaultProvider == domain.ProviderR && creator.HasProvR() {
		return j.provR, creator.ProvRSubaccountCode
	}
	if creator.HasProvG() {
		return j.provG, creator.ProvGAccountID
	}
	if creator.HasProvR() {
		return j.provR, creator.ProvRSubaccountCode
	}
	return nil, ""
}

// StatsAggregate rolls up the prior day's volume into a reporting snapshot.
func (j *Jobs) StatsAggregate(ctx context.Context) error {
	now := nowFunc()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(-24 * time.Hour)

	gross, fee, net, count, err := j.queries.AggregatePaymentVolume(ctx, dayStart)
	if err != nil {
		return err
	}
	payoutVolume, err := j.queries.AggregatePayoutVolume(ctx, dayStart)
	if err != nil {
		return err
	}
	activeSubs, err := j.queries.CountActiveSubscriptions(ctx)
	if err != nil {
		return err
	}

	if err := j.queries.UpsertReportingSnapshot(ctx, domain.ReportingSnapshot{
		SnapshotDate:        dayStart,
		GrossVolumeCents:    gross,
		FeeVolumeCents:      fee,
		NetVolumeCents:      net,
		PaymentCount:        count,
		ActiveSubscriptions: activeSubs,
		PayoutVolumeCents:   payoutVolume,
	}); err != nil {
		return err
	}

	j.logger.Info("stats-aggregate: wrote daily snapshot",
		zap.Time("snapshot_date", dayStart), zap.Int64("gross_cents", gross), zap.Int("payment_count", count))
	return nil
}

// notifyOnce sends a notification and logs it, guarded by the
// subscription+type idempotency log so a job re-run (or a missed lease)
// never double-sends. The send plus its idempotency-log recheck run inside
// lock.NotificationKey's lock so two concurrent sweeps (or a sweep racing a
// retried job tick) can't both observe "not sent yet" and double-send
// (spec §4.9).
func (j *Jobs) notifyOnce(ctx context.Context, subscriptionID, subscriberID uuid.UUID, notifType string, kind notifier.Kind, subject string) error {
	return j.locker.WithLock(ctx, lock.NotificationKey(subscriptionID.String(), notifType), notificationLockTTL, func(ctx context.Context) error {
		sent, err := j.queries.HasNotificationBeenSent(ctx, subscriptionID, notifType)
		if err != nil {
			return err
		}
		if sent {
			return nil
		}

		subscriber, err := j.queries.GetSubscriberByID(ctx, subscriberID)
		if err != nil {
			return err
		}

		if err := j.sender.Send(ctx, notifier.Notification{
			Kind:            kind,
			SubscriberEmail: subscriber.Email,
			Subject:         subject,
		}); err != nil {
			return err
		}

		return j.queries.MarkNotificationSent(ctx, subscriptionID, notifType)
	})
}
