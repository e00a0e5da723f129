// Package providers defines the adapter boundary isolating each external
// payment processor behind one interface, per spec §9: "isolate each
// provider behind an adapter interface exposing only what the
// applier/checkout/payout need." This lets the core be tested with fakes
// instead of live provider credentials.
package providers

import (
	"context"
	"time"
)

// CheckoutSessionRequest is provider-agnostic input for creating a session.
type CheckoutSessionRequest struct {
	CreatorAccountID string // PROV-G connected account id or PROV-R subaccount code
	AmountCents      int64
	Currency         string
	Interval         string // "month" | "one_time"
	SubscriberEmail  string
	SuccessURL       string
	CancelURL        string
	Metadata         map[string]string
}

// CheckoutSession is the provider's response to a session creation call.
type CheckoutSession struct {
	URL       string
	SessionID string
}

// TransferRecipient identifies a payout destination cached on the creator.
type TransferRecipient struct {
	RecipientCode string
}

// TransferRequest describes a payout initiation.
type TransferRequest struct {
	RecipientCode string
	AmountCents   int64
	Currency      string
	Reason        string
}

// TransferResult is the outcome of initiating a transfer.
type TransferResult struct {
	TransferCode  string
	RequiresOTP   bool
	Status        string // provider-reported, e.g. "success" | "otp" | "failed"
}

// ProviderTransaction is a normalized transaction record used by
// reconciliation's "list transactions since" sweep.
type ProviderTransaction struct {
	Reference  string
	Status     string // settled charges: "succeeded" (PROV-G) or "success" (PROV-R)
	AmountCents int64
	Currency   string
	CreatorID  string // from transaction metadata, if known
	SubscriberEmail string // from transaction metadata, if known
	OccurredAt time.Time
}

// Adapter is the full surface the core needs from a payment provider.
// Both PROV-G and PROV-R implementations satisfy this interface; callers
// depend only on it, never on a provider SDK type.
type Adapter interface {
	// Name identifies the adapter for logging ("prov_g" | "prov_r").
	Name() string

	// CreateSession opens a checkout session (spec §4.3).
	CreateSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)

	// CancelSubscription cancels a provider-side subscription binding.
	CancelSubscription(ctx context.Context, providerSubscriptionID string, atPeriodEnd bool) error

	// Reactivate undoes a scheduled cancel-at-period-end.
	Reactivate(ctx context.Context, providerSubscriptionID string) error

	// ResolveAccount validates a bank account (PROV-R) or retrieves account
	// details (PROV-G) ahead of binding it to a creator.
	ResolveAccount(ctx context.Context, bankCode, accountNumber string) (accountName string, err error)

	// CreateOrGetRecipient resolves or creates a transfer recipient on the
	// provider, to be cached on the creator and reused across payouts.
	CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (TransferRecipient, error)

	// InitiateTransfer starts a payout transfer.
	InitiateTransfer(ctx context.Context, req TransferRequest) (TransferResult, error)

	// FinalizeOTP completes a transfer that required OTP confirmation
	// (PROV-R specific; PROV-G adapters return an error).
	FinalizeOTP(ctx context.Context, transferCode, otp string) error

	// VerifyTransaction confirms a transaction's current status with the provider.
	VerifyTransaction(ctx context.Context, reference string) (ProviderTransaction, error)

	// ListTransactionsSince lists transactions in [since, now) for reconciliation.
	ListTransactionsSince(ctx context.Context, since time.Time) ([]ProviderTransaction, error)

	// GetBalance returns the platform's current available balance on this
	// provider for accountID, used by the sync-balances job to refresh the
	// creator balance cache (spec §4.8).
	GetBalance(ctx context.Context, accountID string) (amountCents int64, currency string, err error)

	// ChargeStoredAuthorization bills a previously-captured authorization
	// directly, without a customer present. Only PROV-R supports this
	// (spec §4.8's billing job); PROV-G recurring charges are driven by
	// Stripe's own billing cycle and arrive as webhooks instead.
	ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (ProviderTransaction, error)
}
