// Package domain holds the plain-Go entity types described in spec §3. They
// carry no persistence concerns; internal/db maps to and from these.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies which external payment processor a binding belongs to.
type Provider string

const (
	ProviderG Provider = "prov_g" // global card processor
	ProviderR Provider = "prov_r" // regional processor
)

// CreatorPurpose distinguishes personal creators from registered businesses;
// it feeds fee-model and payout-cadence decisions.
type CreatorPurpose string

const (
	PurposePersonal CreatorPurpose = "personal"
	PurposeService  CreatorPurpose = "service"
)

// PayoutStatus is the creator's eligibility to receive payouts.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusActive     PayoutStatus = "active"
	PayoutStatusRestricted PayoutStatus = "restricted"
	PayoutStatusDisabled   PayoutStatus = "disabled"
)

// Creator is a payee who has connected one or both providers.
type Creator struct {
	ID              uuid.UUID
	DefaultProvider Provider
	Country         string
	Currency        string
	Purpose         CreatorPurpose
	PayoutStatus    PayoutStatus

	ProvGAccountID string // PROV-G connected account id, empty if not connected

	ProvRSubaccountCode    string // PROV-R subaccount code, empty if not connected
	ProvRBankCode          string
	ProvREncryptedAcctNum  []byte // AES-GCM ciphertext, last 4 kept separately for display
	ProvRAccountLast4      string
	ProvRRecipientCode     string // cached transfer recipient, reused across payouts
	ProvRBankFingerprint   string

	FeeModeOverride string // "" (use default) | absorb | pass_to_subscriber | split

	BalanceCacheCents     int64 // last value seen from sync-balances (spec §4.8)
	BalanceCacheCurrency  string
	BalanceCacheUpdatedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProvG reports whether the creator has a connected PROV-G account.
func (c *Creator) HasProvG() bool { return c.ProvGAccountID != "" }

// HasProvR reports whether the creator has a connected PROV-R subaccount.
func (c *Creator) HasProvR() bool { return c.ProvRSubaccountCode != "" }

// Subscriber is a paying end-user.
type Subscriber struct {
	ID            uuid.UUID
	Email         string
	DisputeCount  int
	BlockedReason string // empty means not blocked

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionInterval distinguishes recurring from one-time purchases.
type SubscriptionInterval string

const (
	IntervalMonth   SubscriptionInterval = "month"
	IntervalOneTime SubscriptionInterval = "one_time"
)

// SubscriptionStatus is the FSM state from spec §4.6.
type SubscriptionStatus string

const (
	SubStatusPending  SubscriptionStatus = "pending"
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

// FeeModel is which formula produced a Payment's fee.
type FeeModel string

const (
	FeeModelLegacy  FeeModel = "legacy"
	FeeModelSplitV1 FeeModel = "split_v1"
)

// FeeMode is how the legacy model's fee is assigned.
type FeeMode string

const (
	FeeModeAbsorb          FeeMode = "absorb"
	FeeModePassToSubscriber FeeMode = "pass_to_subscriber"
	FeeModeSplit            FeeMode = "split"
)

// CancelReason records why a subscription left the active lifecycle.
type CancelReason string

const (
	CancelReasonPaymentFailed          CancelReason = "payment_failed"
	CancelReasonPendingPaymentTimeout  CancelReason = "pending_payment_timeout"
	CancelReasonCreatorRequest         CancelReason = "creator_request"
	CancelReasonSubscriberRequest      CancelReason = "subscriber_request"
)

// Subscription is unique per (CreatorID, SubscriberID, Interval) while active.
type Subscription struct {
	ID         uuid.UUID
	CreatorID  uuid.UUID
	SubscriberID uuid.UUID

	AmountCents int64 // in Currency, minor units
	Currency    string
	Interval    SubscriptionInterval
	Status      SubscriptionStatus

	FeeModel FeeModel
	FeeMode  FeeMode

	// Exactly one binding is set (invariant 5, spec §3).
	ProvGSubscriptionID string
	ProvGCustomerID     string
	ProvRAuthCode       string // encrypted at rest; decrypted only at charge time

	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CanceledAt        *time.Time
	CancelReason       CancelReason

	LTVCents int64

	ManageTokenNonce string

	RetryCount    int // exponential-schedule retry attempts while past_due
	LastRetryAt   *time.Time
	PastDueSince  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProvGBinding reports whether this subscription is bound to PROV-G.
func (s *Subscription) HasProvGBinding() bool { return s.ProvGSubscriptionID != "" }

// HasProvRBinding reports whether this subscription is bound to PROV-R.
func (s *Subscription) HasProvRBinding() bool { return s.ProvRAuthCode != "" }

// PaymentType classifies what a Payment row represents.
type PaymentType string

const (
	PaymentTypeRecurring PaymentType = "recurring"
	PaymentTypeOneTime   PaymentType = "one_time"
	PaymentTypePayout    PaymentType = "payout"
)

// PaymentStatus is the lifecycle state of a single Payment row.
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusOTPPending  PaymentStatus = "otp_pending"
	PaymentStatusSucceeded   PaymentStatus = "succeeded"
	PaymentStatusFailed      PaymentStatus = "failed"
	PaymentStatusRefunded    PaymentStatus = "refunded"
	PaymentStatusDisputed    PaymentStatus = "disputed"
	PaymentStatusDisputeWon  PaymentStatus = "dispute_won"
	PaymentStatusDisputeLost PaymentStatus = "dispute_lost"
)

// ReportingRateSource records where a Payment's USD shadow exchange rate came from.
type ReportingRateSource string

const (
	RateSourceOriginalPayment ReportingRateSource = "original_payment"
	RateSourceCurrentRate     ReportingRateSource = "current_rate"
	RateSourceProviderReported ReportingRateSource = "stripe_reported"
)

// Payment is an immutable, signed financial event (spec §3 invariant 1-2, 6-7).
type Payment struct {
	ID             uuid.UUID
	SubscriptionID *uuid.UUID
	CreatorID      uuid.UUID
	SubscriberID   *uuid.UUID // nil for payout rows, which have no paying subscriber

	AmountCents int64 // signed: positive inbound, negative refund
	Currency    string

	GrossCents int64
	FeeCents   int64
	NetCents   int64

	CreatorFeeCents    *int64 // split model only
	SubscriberFeeCents *int64

	FeeModel FeeModel
	Type     PaymentType
	Status   PaymentStatus

	ProviderEventID  string
	ProviderChargeRef string // charge/transaction ref (PROV-G) or transaction ref (PROV-R)
	ProviderTransferRef string // payout transfer ref

	OccurredAt time.Time // provider-reported time; authoritative for reporting windows
	CreatedAt  time.Time // DB insert time; audit only

	ReportingCurrency       string
	ReportingGrossCents     int64
	ReportingFeeCents       int64
	ReportingNetCents       int64
	ReportingExchangeRate   float64
	ReportingRateSource     ReportingRateSource
	ReportingRateTimestamp  time.Time
	ReportingIsEstimated    bool

	FeeMismatchDeltaCents *int64 // debug metadata: provider-reported vs recomputed fee delta
}

// WebhookEventStatus is the lifecycle of a deduplicated inbound event.
type WebhookEventStatus string

const (
	WebhookReceived   WebhookEventStatus = "received"
	WebhookProcessed  WebhookEventStatus = "processed"
	WebhookSkipped    WebhookEventStatus = "skipped"
	WebhookFailed     WebhookEventStatus = "failed"
	WebhookDeadLetter WebhookEventStatus = "dead_letter"
)

// WebhookEvent is the durable deduplication and audit record for inbound
// provider events (spec §4.4).
type WebhookEvent struct {
	ID          uuid.UUID
	Provider    Provider
	EventID     string // durable event key, unique
	EventType   string
	Status      WebhookEventStatus
	RetryCount  int
	PaymentID   *uuid.UUID
	Payload     []byte
	FailureReason string

	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ActivityType enumerates the kinds of append-only activity entries.
type ActivityType string

const (
	ActivityChargeSucceeded    ActivityType = "charge_succeeded"
	ActivityRefundIssued       ActivityType = "refund_issued"
	ActivitySubscriptionActive ActivityType = "subscription_active"
	ActivitySubscriptionPastDue ActivityType = "subscription_past_due"
	ActivitySubscriptionCanceled ActivityType = "subscription_canceled"
	ActivityPayoutInitiated    ActivityType = "payout_initiated"
	ActivityPayoutSucceeded    ActivityType = "payout_succeeded"
	ActivityPayoutFailed       ActivityType = "payout_failed"
)

// Activity is an append-only log entry keyed by user id.
type Activity struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      ActivityType
	Payload   []byte
	CreatedAt time.Time
}

// NotificationLog is the idempotency key for an outbound email of a given type.
type NotificationLog struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	Type           string
	SentAt         time.Time
}

// PayoutStatusValue is the payout FSM state (spec §4.7); reuses PaymentStatus
// values pending/otp_pending/succeeded/failed on the Payment row itself.
type PayoutStatusValue = PaymentStatus

// ReportingSnapshot is one daily reporting rollup produced by the
// stats-aggregate job (spec §4.8).
type ReportingSnapshot struct {
	ID                  uuid.UUID
	SnapshotDate        time.Time
	GrossVolumeCents    int64
	FeeVolumeCents      int64
	NetVolumeCents      int64
	PaymentCount        int
	ActiveSubscriptions int
	PayoutVolumeCents   int64
	CreatedAt           time.Time
}
