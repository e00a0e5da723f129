// Package applier is the Event Applier (spec §4.5): the single place a
// decoded, typed event turns into durable state. Every entry point here
// acquires a per-subject lock first, so two deliveries of the same event (or
// a webhook retry racing a scheduler job) serialize instead of double-
// applying money.
package applier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/events"
	"github.com/creatorpay/platform/internal/feeengine"
	"github.com/creatorpay/platform/internal/fsm"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/lock"
)

// lockTTL bounds how long a single event application may hold its lock.
// Generous relative to a DB round trip; a held lock past this just means a
// very slow transaction, not a stuck process.
const lockTTL = 30 * time.Second

// Applier turns typed events into Payment/Subscription/Activity writes.
type Applier struct {
	queries db.Querier
	locker  *lock.Locker
	fx      *fx.Client
	logger  *zap.Logger
}

func New(queries db.Querier, locker *lock.Locker, fxClient *fx.Client, logger *zap.Logger) *Applier {
	return &Applier{queries: queries, locker: locker, fx: fxClient, logger: logger}
}

// ApplyChargeSucceeded implements spec §4.5.1: resolve-or-create the
// subscription, recompute the fee breakdown from scratch (never trust the
// provider's own fee math), and record the payment and its reporting
// shadow fields inside one lock.
func (a *Applier) ApplyChargeSucceeded(ctx context.Context, ev events.ChargeSucceeded) (domain.Payment, error) {
	var result domain.Payment

	key := lock.SubscriptionKey(ev.ProviderSubscriptionID)
	if ev.ProviderSubscriptionID == "" {
		key = lock.ChargeKey(ev.ProviderChargeRef)
	}

	err := a.locker.WithLock(ctx, key, lockTTL, func(ctx context.Context) error {
		creatorID, perr := uuid.Parse(ev.CreatorID)
		if perr != nil {
			return errs.Wrap(errs.InvalidRequest, "applier: malformed creator id", perr)
		}

		creator, err := a.queries.GetCreator(ctx, creatorID)
		if err != nil {
			return err
		}

		subscriber, err := a.queries.GetOrCreateSubscriberByEmail(ctx, ev.SubscriberEmail)
		if err != nil {
			return err
		}

		sub, err := a.resolveOrCreateSubscription(ctx, ev, creator, creatorID, subscriber.ID)
		if err != nil {
			return err
		}

		opts := feeengine.FeeOptions{
			Purpose:     creator.Purpose,
			FeeModel:    sub.FeeModel,
			FeeMode:     sub.FeeMode,
			CrossBorder: feeengine.IsCrossBorderCountry(creator.Country),
		}
		breakdown := feeengine.CalculateServiceFee(ev.AmountCents, ev.Currency, opts)

		grossCents, feeCents, netCents := breakdown.GrossCents, breakdown.FeeCents, breakdown.NetCents
		var mismatchDelta *int64
		if ev.ProviderReportedGrossCents != nil {
			grossCents = *ev.ProviderReportedGrossCents
		}
		if ev.ProviderReportedNetCents != nil {
			netCents = *ev.ProviderReportedNetCents
		}
		if ev.ProviderReportedFeeCents != nil {
			delta := breakdown.FeeCents - *ev.ProviderReportedFeeCents
			mismatchDelta = &delta
		}

		rate, source, isEstimated := a.resolveChargeRate(ctx, ev)
		payment := domain.Payment{
			SubscriptionID:         &sub.ID,
			CreatorID:              creatorID,
			SubscriberID:           &subscriber.ID,
			AmountCents:            ev.AmountCents,
			Currency:               ev.Currency,
			GrossCents:             grossCents,
			FeeCents:               feeCents,
			NetCents:               netCents,
			FeeModel:               sub.FeeModel,
			Type:                   paymentTypeForInterval(ev.Interval),
			Status:                 domain.PaymentStatusSucceeded,
			ProviderEventID:        ev.ProviderEventID,
			ProviderChargeRef:      ev.ProviderChargeRef,
			OccurredAt:             ev.OccurredAt,
			ReportingCurrency:      "USD",
			ReportingGrossCents:    fx.ToUSDCents(grossCents, rate),
			ReportingFeeCents:      fx.ToUSDCents(feeCents, rate),
			ReportingNetCents:      fx.ToUSDCents(netCents, rate),
			ReportingExchangeRate:  rate,
			ReportingRateSource:    source,
			ReportingRateTimestamp: ev.OccurredAt,
			ReportingIsEstimated:   isEstimated,
			FeeMismatchDeltaCents:  mismatchDelta,
		}
		if breakdown.FeeModel == domain.FeeModelSplitV1 {
			creatorFee, subscriberFee := breakdown.CreatorFeeCents, breakdown.SubscriberFeeCents
			payment.CreatorFeeCents = &creatorFee
			payment.SubscriberFeeCents = &subscriberFee
		}

		created, err := a.queries.InsertPayment(ctx, payment)
		if errs.Is(err, errs.Conflict) {
			if existing, found, gerr := a.queries.GetPaymentByProviderEventID(ctx, ev.ProviderEventID); gerr == nil && found {
				result = existing
				return nil
			}
			return err
		}
		if err != nil {
			return err
		}

		if err := a.queries.ApplyChargeSuccessToSubscription(ctx, sub.ID, ev.PeriodEnd, netCents); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{
			"payment_id":   created.ID,
			"amount_cents": ev.AmountCents,
			"currency":     ev.Currency,
		})
		if err := a.queries.InsertActivity(ctx, domain.Activity{
			UserID:  creatorID,
			Type:    domain.ActivityChargeSucceeded,
			Payload: payload,
		}); err != nil {
			return err
		}

		result = created
		return nil
	})

	return result, err
}

func (a *Applier) resolveOrCreateSubscription(ctx context.Context, ev events.ChargeSucceeded, creator domain.Creator, creatorID, subscriberID uuid.UUID) (domain.Subscription, error) {
	lookup := func() (domain.Subscription, error) {
		if ev.ProviderSubscriptionID != "" {
			return a.queries.GetSubscriptionByProvGSubscriptionID(ctx, ev.ProviderSubscriptionID)
		}
		return a.queries.GetSubscriptionByCreatorSubscriber(ctx, creatorID, subscriberID, ev.Interval)
	}

	sub, err := lookup()
	if err == nil {
		return sub, nil
	}
	if !errs.Is(err, errs.NotFound) {
		return domain.Subscription{}, err
	}

	newSub := domain.Subscription{
		CreatorID:           creatorID,
		SubscriberID:        subscriberID,
		AmountCents:         ev.AmountCents,
		Currency:            ev.Currency,
		Interval:            ev.Interval,
		Status:              domain.SubStatusActive,
		FeeModel:            domain.FeeModelSplitV1,
		FeeMode:             domain.FeeModeSplit,
		ProvGSubscriptionID: ev.ProviderSubscriptionID,
		ProvGCustomerID:     ev.ProviderCustomerID,
		CurrentPeriodEnd:    ev.PeriodEnd,
	}
	if creator.FeeModeOverride != "" {
		newSub.FeeModel = domain.FeeModelLegacy
		newSub.FeeMode = domain.FeeMode(creator.FeeModeOverride)
	}

	created, err := a.queries.CreateSubscription(ctx, newSub)
	if err == nil {
		return created, nil
	}
	if errs.Is(err, errs.Conflict) {
		// A concurrent delivery won the race; this event's own lock should
		// have prevented that, but fall back to reloading just in case the
		// lock key diverged (e.g. checkout-session key vs subscription key).
		return lookup()
	}
	return domain.Subscription{}, err
}

// resolveChargeRate picks the USD conversion rate and its provenance for a
// charge-success payment, per spec §4.5.1 step 4.
func (a *Applier) resolveChargeRate(ctx context.Context, ev events.ChargeSucceeded) (rate float64, source domain.ReportingRateSource, isEstimated bool) {
	if ev.ProviderReportedExchangeRate != nil {
		return *ev.ProviderReportedExchangeRate, domain.RateSourceProviderReported, false
	}

	r, err := a.fx.RateToUSD(ctx, ev.Currency)
	if err != nil {
		a.logger.Warn("applier: fx rate unavailable, recording estimated rate of 1",
			zap.String("currency", ev.Currency), zap.Error(err))
		return 1, domain.RateSourceCurrentRate, true
	}
	return r, domain.RateSourceCurrentRate, false
}

// ApplyRefund implements spec §4.5.2: a refund or chargeback never mutates
// the original Payment row's money fields, only its status; the refund
// itself is a new, negative-signed row.
func (a *Applier) ApplyRefund(ctx context.Context, ev events.Refund) (domain.Payment, error) {
	var result domain.Payment

	err := a.locker.WithLock(ctx, lock.ChargeKey(ev.ProviderEventID), lockTTL, func(ctx context.Context) error {
		original, found, err := a.queries.GetPaymentByProviderChargeRef(ctx, ev.ProviderChargeRef)
		if err != nil {
			return err
		}
		if !found {
			return errs.New(errs.NotFound, "applier: no original payment for refund's charge ref")
		}

		breakdown := feeengine.CalculateRefundFee(
			ev.RefundAmountCents, original.GrossCents, original.FeeCents, original.NetCents,
			original.CreatorFeeCents, original.SubscriberFeeCents,
		)

		rate := original.ReportingExchangeRate
		source := domain.RateSourceOriginalPayment
		isEstimated := false
		if rate <= 0 {
			source = domain.RateSourceCurrentRate
			isEstimated = true
			if r, ferr := a.fx.RateToUSD(ctx, original.Currency); ferr == nil {
				rate = r
			} else {
				rate = 1
			}
		}

		ratio := 1.0
		if original.GrossCents != 0 {
			ratio = float64(ev.RefundAmountCents) / absInt64(original.GrossCents)
		}
		reportingGross := -feeengine.RoundHalfUp(float64(original.ReportingGrossCents) * ratio)
		reportingFee := -feeengine.RoundHalfUp(float64(original.ReportingFeeCents) * ratio)
		reportingNet := -feeengine.RoundHalfUp(float64(original.ReportingNetCents) * ratio)

		refundStatus := domain.PaymentStatusRefunded
		originalStatus := domain.PaymentStatusRefunded
		if ev.IsDispute {
			if ev.DisputeOutcome == "won" {
				refundStatus, originalStatus = domain.PaymentStatusDisputeWon, domain.PaymentStatusDisputeWon
			} else {
				refundStatus, originalStatus = domain.PaymentStatusDisputeLost, domain.PaymentStatusDisputeLost
			}
		}

		refundPayment := domain.Payment{
			SubscriptionID:         original.SubscriptionID,
			CreatorID:              original.CreatorID,
			SubscriberID:           original.SubscriberID,
			AmountCents:            breakdown.AmountCents,
			Currency:               original.Currency,
			GrossCents:             breakdown.AmountCents,
			FeeCents:               breakdown.FeeCents,
			NetCents:               breakdown.NetCents,
			CreatorFeeCents:        breakdown.CreatorFeeCents,
			SubscriberFeeCents:     breakdown.SubscriberFeeCents,
			FeeModel:               original.FeeModel,
			Type:                   original.Type,
			Status:                 refundStatus,
			ProviderEventID:        ev.ProviderEventID,
			ProviderChargeRef:      ev.ProviderChargeRef,
			OccurredAt:             ev.OccurredAt,
			ReportingCurrency:      "USD",
			ReportingGrossCents:    reportingGross,
			ReportingFeeCents:      reportingFee,
			ReportingNetCents:      reportingNet,
			ReportingExchangeRate:  rate,
			ReportingRateSource:    source,
			ReportingRateTimestamp: ev.OccurredAt,
			ReportingIsEstimated:   isEstimated,
		}

		created, err := a.queries.InsertPayment(ctx, refundPayment)
		if errs.Is(err, errs.Conflict) {
			if existing, found, gerr := a.queries.GetPaymentByProviderEventID(ctx, ev.ProviderEventID); gerr == nil && found {
				result = existing
				return nil
			}
			return err
		}
		if err != nil {
			return err
		}

		if original.SubscriptionID != nil {
			if err := a.queries.DecrementSubscriptionLTV(ctx, *original.SubscriptionID, absInt64(breakdown.NetCents)); err != nil {
				return err
			}
		}
		if err := a.queries.SetPaymentStatus(ctx, original.ID, originalStatus); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{
			"original_payment_id": original.ID,
			"refund_payment_id":   created.ID,
			"amount_cents":        breakdown.AmountCents,
			"is_dispute":          ev.IsDispute,
		})
		if err := a.queries.InsertActivity(ctx, domain.Activity{
			UserID:  original.CreatorID,
			Type:    domain.ActivityRefundIssued,
			Payload: payload,
		}); err != nil {
			return err
		}

		result = created
		return nil
	})

	return result, err
}

// ApplySubscriptionLifecycle implements spec §4.5.3, driving the FSM
// transitions from spec §4.6 that carry no money of their own.
func (a *Applier) ApplySubscriptionLifecycle(ctx context.Context, ev events.SubscriptionLifecycle) error {
	return a.locker.WithLock(ctx, lock.SubscriptionKey(ev.ProviderSubscriptionID), lockTTL, func(ctx context.Context) error {
		sub, err := a.queries.GetSubscriptionByProvGSubscriptionID(ctx, ev.ProviderSubscriptionID)
		if errs.Is(err, errs.NotFound) {
			a.logger.Warn("lifecycle event for unknown subscription",
				zap.String("provider_subscription_id", ev.ProviderSubscriptionID), zap.String("kind", string(ev.Kind)))
			return nil
		}
		if err != nil {
			return err
		}

		result, err := fsm.Wrap(sub).Transition(ev.Kind, ev.FailedPeriodEnd)
		if err != nil {
			return err
		}
		if !result.Applied {
			if ev.Kind == events.LifecyclePaymentFailed {
				a.logger.Info("ignoring stale or non-active payment_failed event",
					zap.Time("failed_period_end", ev.FailedPeriodEnd), zap.Time("current_period_end", sub.CurrentPeriodEnd))
			}
			return nil
		}

		if result.Status == domain.SubStatusCanceled {
			if err := a.queries.CancelSubscriptionNow(ctx, sub.ID, result.Reason); err != nil {
				return err
			}
		} else if err := a.queries.SetSubscriptionStatus(ctx, sub.ID, result.Status, result.Reason); err != nil {
			return err
		}

		return a.queries.InsertActivity(ctx, domain.Activity{UserID: sub.CreatorID, Type: result.Activity})
	})
}

// ApplyTransfer implements spec §4.5.4/§4.7's payout webhook handling.
func (a *Applier) ApplyTransfer(ctx context.Context, ev events.Transfer) error {
	return a.locker.WithLock(ctx, lock.ChargeKey(ev.ProviderEventID), lockTTL, func(ctx context.Context) error {
		payment, found, err := a.queries.GetPaymentByProviderTransferRef(ctx, ev.TransferCode)
		if err != nil {
			return err
		}
		if !found {
			return errs.New(errs.NotFound, "applier: transfer event for unknown payout")
		}

		switch ev.Kind {
		case events.TransferRequiresOTP:
			return a.queries.SetPaymentStatus(ctx, payment.ID, domain.PaymentStatusOTPPending)

		case events.TransferSuccess:
			if err := a.queries.SetPaymentStatus(ctx, payment.ID, domain.PaymentStatusSucceeded); err != nil {
				return err
			}
			return a.queries.InsertActivity(ctx, domain.Activity{UserID: payment.CreatorID, Type: domain.ActivityPayoutSucceeded})

		case events.TransferFailed:
			if err := a.queries.SetPaymentStatus(ctx, payment.ID, domain.PaymentStatusFailed); err != nil {
				return err
			}
			if ev.FailureIsAccountLevel {
				if err := a.queries.UpdateCreatorPayoutStatus(ctx, payment.CreatorID, domain.PayoutStatusRestricted); err != nil {
					return err
				}
			}
			return a.queries.InsertActivity(ctx, domain.Activity{UserID: payment.CreatorID, Type: domain.ActivityPayoutFailed})
		}
		return nil
	})
}

func paymentTypeForInterval(interval domain.SubscriptionInterval) domain.PaymentType {
	if interval == domain.IntervalOneTime {
		return domain.PaymentTypeOneTime
	}
	return domain.PaymentTypeRecurring
}

func absInt64(v int64) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}
