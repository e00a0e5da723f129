// Package fake provides in-memory Adapter implementations for checkout and
// applier tests, following the teacher's preference for hand-written fakes
// over mocks wherever an interface models external behavior end-to-end.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creatorpay/platform/internal/providers"
)

// Adapter is a configurable in-memory providers.Adapter.
type Adapter struct {
	mu sync.Mutex

	NameValue string

	Sessions      []providers.CheckoutSessionRequest
	NextSessionID string
	NextURL       string

	Canceled    map[string]bool
	Reactivated map[string]bool

	Transactions []providers.ProviderTransaction

	TransferResult providers.TransferResult
	TransferErr    error

	CreateSessionErr error

	BalanceCents    int64
	BalanceCurrency string
	BalanceErr      error

	ChargeResult providers.ProviderTransaction
	ChargeErr    error
}

func New(name string) *Adapter {
	return &Adapter{
		NameValue:   name,
		Canceled:    make(map[string]bool),
		Reactivated: make(map[string]bool),
	}
}

func (a *Adapter) Name() string { return a.NameValue }

func (a *Adapter) CreateSession(ctx context.Context, req providers.CheckoutSessionRequest) (providers.CheckoutSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.CreateSessionErr != nil {
		return providers.CheckoutSession{}, a.CreateSessionErr
	}

	a.Sessions = append(a.Sessions, req)
	sessionID := a.NextSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("sess_%d", len(a.Sessions))
	}
	url := a.NextURL
	if url == "" {
		url = "https://pay.example.test/" + sessionID
	}
	return providers.CheckoutSession{URL: url, SessionID: sessionID}, nil
}

func (a *Adapter) CancelSubscription(ctx context.Context, providerSubscriptionID string, atPeriodEnd bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Canceled[providerSubscriptionID] = true
	return nil
}

func (a *Adapter) Reactivate(ctx context.Context, providerSubscriptionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Reactivated[providerSubscriptionID] = true
	return nil
}

func (a *Adapter) ResolveAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	return "Test Account Holder", nil
}

func (a *Adapter) CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (providers.TransferRecipient, error) {
	return providers.TransferRecipient{RecipientCode: "RCP_" + creatorID}, nil
}

func (a *Adapter) InitiateTransfer(ctx context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	if a.TransferErr != nil {
		return providers.TransferResult{}, a.TransferErr
	}
	if a.TransferResult.TransferCode == "" {
		a.TransferResult = providers.TransferResult{TransferCode: "trf_1", Status: "success"}
	}
	return a.TransferResult, nil
}

func (a *Adapter) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	return nil
}

func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (providers.ProviderTransaction, error) {
	for _, txn := range a.Transactions {
		if txn.Reference == reference {
			return txn, nil
		}
	}
	return providers.ProviderTransaction{}, fmt.Errorf("fake: transaction not found: %s", reference)
}

func (a *Adapter) ListTransactionsSince(ctx context.Context, since time.Time) ([]providers.ProviderTransaction, error) {
	var out []providers.ProviderTransaction
	for _, txn := range a.Transactions {
		if !txn.OccurredAt.Before(since) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (a *Adapter) ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (providers.ProviderTransaction, error) {
	if a.ChargeErr != nil {
		return providers.ProviderTransaction{}, a.ChargeErr
	}
	if a.ChargeResult.Reference == "" {
		return providers.ProviderTransaction{
			Reference:   reference,
			Status:      "succeeded",
			AmountCents: amountCents,
			Currency:    currency,
			OccurredAt:  time.Now(),
		}, nil
	}
	return a.ChargeResult, nil
}

func (a *Adapter) GetBalance(ctx context.Context, accountID string) (int64, string, error) {
	if a.BalanceErr != nil {
		return 0, "", a.BalanceErr
	}
	currency := a.BalanceCurrency
	if currency == "" {
		currency = "usd"
	}
	return a.BalanceCents, currency, nil
}
