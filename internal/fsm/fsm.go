// Package fsm implements the subscription status state machine (spec §4.6):
// guarded transitions driven by webhook lifecycle events. internal/applier
// is the only caller — it owns the lock and the persistence, this package
// only owns the decision of what, if anything, should change.
package fsm

import (
	"time"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/events"
)

// Subscription wraps the fields a transition decision needs to read, kept
// narrow so callers don't have to load a full domain.Subscription just to
// ask "what does this event do".
type Subscription struct {
	Status           domain.SubscriptionStatus
	CurrentPeriodEnd time.Time
}

// Wrap adapts a loaded domain.Subscription row for transitioning.
func Wrap(s domain.Subscription) Subscription {
	return Subscription{Status: s.Status, CurrentPeriodEnd: s.CurrentPeriodEnd}
}

// Result reports what Transition decided: whether anything changed, and if
// so the new status, the reason to record, and the activity log entry the
// caller should write alongside its own status write.
type Result struct {
	Applied  bool
	Status   domain.SubscriptionStatus
	Reason   domain.CancelReason
	Activity domain.ActivityType
}

// Transition decides the effect of a lifecycle event on a subscription's
// status, guarded so a late-arriving payment_failed can't regress a
// subscription past a renewal that already superseded it (spec §8 scenario
// 6). observedAt is the event's own period-end marker for payment_failed,
// compared against CurrentPeriodEnd rather than wall-clock time.
func (s Subscription) Transition(event events.SubscriptionLifecycleKind, observedAt time.Time) (Result, error) {
	switch event {
	case events.LifecycleDeleted:
		if s.Status == domain.SubStatusCanceled {
			return Result{}, nil
		}
		return Result{
			Applied:  true,
			Status:   domain.SubStatusCanceled,
			Reason:   domain.CancelReasonCreatorRequest,
			Activity: domain.ActivitySubscriptionCanceled,
		}, nil

	case events.LifecyclePaymentFailed:
		if observedAt.Before(s.CurrentPeriodEnd) {
			return Result{}, nil
		}
		if s.Status != domain.SubStatusActive {
			return Result{}, nil
		}
		return Result{
			Applied:  true,
			Status:   domain.SubStatusPastDue,
			Reason:   domain.CancelReasonPaymentFailed,
			Activity: domain.ActivitySubscriptionPastDue,
		}, nil

	case events.LifecycleUpdated:
		// Informational only; nothing in this event carries a state
		// transition of its own today.
		return Result{}, nil
	}
	return Result{}, nil
}
