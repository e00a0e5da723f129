package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/domain"
)

// Querier is the full set of queries the core depends on. internal/applier,
// internal/checkout, internal/scheduler, and internal/reconcile depend on
// this interface, never on *Queries directly, so tests substitute an
// in-memory fake.
type Querier interface {
	GetCreator(ctx context.Context, id uuid.UUID) (domain.Creator, error)
	UpdateCreatorPayoutStatus(ctx context.Context, id uuid.UUID, status domain.PayoutStatus) error
	UpdateCreatorProvRRecipient(ctx context.Context, id uuid.UUID, recipientCode, bankFingerprint string) error
	ListCreatorsByPurpose(ctx context.Context, purpose domain.CreatorPurpose) ([]domain.Creator, error)
	ListConnectedCreators(ctx context.Context) ([]domain.Creator, error)
	UpdateCreatorBalanceCache(ctx context.Context, id uuid.UUID, amountCents int64, currency string) error

	GetOrCreateSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error)
	GetSubscriberByID(ctx context.Context, id uuid.UUID) (domain.Subscriber, error)
	IncrementSubscriberDisputeCount(ctx context.Context, id uuid.UUID) error
	SetSubscriberBlocked(ctx context.Context, id uuid.UUID, reason string) error

	GetSubscriptionByProvGSubscriptionID(ctx context.Context, provGSubID string) (domain.Subscription, error)
	GetSubscriptionByCreatorSubscriber(ctx context.Context, creatorID, subscriberID uuid.UUID, interval domain.SubscriptionInterval) (domain.Subscription, error)
	GetSubscriptionByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error)
	CreateSubscription(ctx context.Context, s domain.Subscription) (domain.Subscription, error)
	ApplyChargeSuccessToSubscription(ctx context.Context, id uuid.UUID, newPeriodEnd time.Time, netCentsDelta int64) error
	SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status domain.SubscriptionStatus, reason domain.CancelReason) error
	ScheduleCancelAtPeriodEnd(ctx context.Context, id uuid.UUID) error
	CancelSubscriptionNow(ctx context.Context, id uuid.UUID, reason domain.CancelReason) error
	DecrementSubscriptionLTV(ctx context.Context, id uuid.UUID, amount int64) error
	IncrementSubscriptionRetry(ctx context.Context, id uuid.UUID) error
	ListSubscriptionsDueForBilling(ctx context.Context, now time.Time) ([]domain.Subscription, error)
	ListPastDueSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ListStalePendingSubscriptions(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error)
	ListRecentlyCanceledSubscriptions(ctx context.Context, since time.Time) ([]domain.Subscription, error)
	ListOverdueCancelAtPeriodEnd(ctx context.Context, now time.Time) ([]domain.Subscription, error)
	ListSubscriptionsRenewingBetween(ctx context.Context, start, end time.Time) ([]domain.Subscription, error)

	InsertPayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
	GetPaymentByProviderChargeRef(ctx context.Context, ref string) (domain.Payment, bool, error)
	GetPaymentByProviderEventID(ctx context.Context, eventID string) (domain.Payment, bool, error)
	GetPaymentByProviderTransferRef(ctx context.Context, ref string) (domain.Payment, bool, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	ListStuckOTPPayouts(ctx context.Context, olderThan time.Time) ([]domain.Payment, error)
	ListRecentFailedPayments(ctx context.Context, since time.Time) ([]domain.Payment, error)
	CountRecentPayoutOutcomes(ctx context.Context, since time.Time) (succeeded, failed int, err error)
	AggregatePaymentVolume(ctx context.Context, since time.Time) (grossCents, feeCents, netCents int64, count int, err error)
	AggregatePayoutVolume(ctx context.Context, since time.Time) (int64, error)
	CountActiveSubscriptions(ctx context.Context) (int, error)
	UpsertReportingSnapshot(ctx context.Context, s domain.ReportingSnapshot) error

	UpsertWebhookEvent(ctx context.Context, provider domain.Provider, eventID, eventType string, payload []byte) (domain.WebhookEvent, bool, error)
	GetWebhookEventByProviderChargeRef(ctx context.Context, paymentType domain.PaymentType, providerChargeRef string) (bool, error)
	MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error
	MarkWebhookEventSkipped(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error
	MarkWebhookEventFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkWebhookEventDeadLetter(ctx context.Context, id uuid.UUID) error
	ListDeadLetterCandidates(ctx context.Context, maxRetries int) ([]domain.WebhookEvent, error)
	GetWebhookEventByID(ctx context.Context, id uuid.UUID) (domain.WebhookEvent, error)

	InsertActivity(ctx context.Context, a domain.Activity) error

	HasNotificationBeenSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) (bool, error)
	MarkNotificationSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) error
}
