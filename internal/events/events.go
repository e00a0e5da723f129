// Package events defines the typed, decoded shapes the Event Applier
// consumes. Per spec §9 ("Dynamic-typed provider payloads... model them as
// tagged variants over a discriminator"), the webhook ingestor is the only
// place raw provider JSON is parsed; everything downstream works with these
// structs, never with untyped maps.
package events

import (
	"time"

	"github.com/creatorpay/platform/internal/domain"
)

// ChargeSucceeded covers both one-time and recurring invoice-paid events
// (spec §4.5.1).
type ChargeSucceeded struct {
	Provider               domain.Provider
	ProviderEventID        string
	ProviderChargeRef      string
	ProviderSubscriptionID string // empty for one-time
	ProviderCustomerID     string
	CreatorID              string
	SubscriberEmail        string
	AmountCents            int64
	Currency               string
	Interval               domain.SubscriptionInterval
	OccurredAt             time.Time
	PeriodEnd              time.Time // new currentPeriodEnd reported by the provider

	// ProviderReportedFeeCents/ExchangeRate are present when the provider's
	// own event payload includes them (spec §4.5.1 step 3-4); nil otherwise.
	ProviderReportedFeeCents    *int64
	ProviderReportedGrossCents  *int64
	ProviderReportedNetCents    *int64
	ProviderReportedExchangeRate *float64
}

// Refund covers refund and chargeback events (spec §4.5.2).
type Refund struct {
	Provider          domain.Provider
	ProviderEventID   string
	ProviderChargeRef string
	RefundAmountCents int64 // positive magnitude
	OccurredAt        time.Time

	// IsDispute distinguishes a chargeback outcome from a plain refund; when
	// true, DisputeOutcome is "won" or "lost".
	IsDispute      bool
	DisputeOutcome string
}

// SubscriptionLifecycleKind discriminates the three lifecycle triggers in
// spec §4.6's transition table that don't carry money.
type SubscriptionLifecycleKind string

const (
	LifecycleUpdated       SubscriptionLifecycleKind = "updated"
	LifecycleDeleted       SubscriptionLifecycleKind = "deleted"
	LifecyclePaymentFailed SubscriptionLifecycleKind = "payment_failed"
)

// SubscriptionLifecycle covers subscription.updated, subscription.deleted,
// and invoice.payment_failed (spec §4.5.3).
type SubscriptionLifecycle struct {
	Provider               domain.Provider
	ProviderEventID        string
	ProviderSubscriptionID string
	Kind                   SubscriptionLifecycleKind
	// FailedPeriodEnd is the period the failure refers to; the FSM guard
	// compares it against the subscription's current period to reject stale,
	// out-of-order deliveries (spec §8 scenario 6).
	FailedPeriodEnd time.Time
	OccurredAt      time.Time
	ImmediateCancel bool // creator-initiated immediate cancel vs end-of-period
}

// TransferKind discriminates PROV-R transfer webhook events (spec §4.7).
type TransferKind string

const (
	TransferRequiresOTP TransferKind = "requires_otp"
	TransferSuccess     TransferKind = "success"
	TransferFailed      TransferKind = "failed"
)

// Transfer covers PROV-R payout lifecycle events.
type Transfer struct {
	Provider              domain.Provider
	ProviderEventID       string
	TransferCode          string
	Kind                  TransferKind
	OccurredAt            time.Time
	FailureIsAccountLevel bool // e.g. invalid bank account; restricts the creator
}
