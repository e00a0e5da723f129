package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/crypto"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/dbtest"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/notifier"
	"github.com/creatorpay/platform/internal/payout"
	"github.com/creatorpay/platform/internal/providers"
)

// stubAdapter implements providers.Adapter with just enough behavior for
// the jobs under test; every other method fails loudly if exercised.
type stubAdapter struct {
	transferResult providers.TransferResult
	transferErr    error
}

var _ providers.Adapter = (*stubAdapter)(nil)

func (s *stubAdapter) Name() string { return "stub" }
func (s *stubAdapter) CreateSession(ctx context.Context, req providers.CheckoutSessionRequest) (providers.CheckoutSession, error) {
	return providers.CheckoutSession{}, errUnexpectedCall
}
func (s *stubAdapter) CancelSubscription(ctx context.Context, id string, atPeriodEnd bool) error {
	return errUnexpectedCall
}
func (s *stubAdapter) Reactivate(ctx context.Context, id string) error { return errUnexpectedCall }
func (s *stubAdapter) ResolveAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	return "", errUnexpectedCall
}
func (s *stubAdapter) CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (providers.TransferRecipient, error) {
	return providers.TransferRecipient{}, errUnexpectedCall
}
func (s *stubAdapter) InitiateTransfer(ctx context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	return s.transferResult, s.transferErr
}
func (s *stubAdapter) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	return errUnexpectedCall
}
func (s *stubAdapter) VerifyTransaction(ctx context.Context, reference string) (providers.ProviderTransaction, error) {
	return providers.ProviderTransaction{}, errUnexpectedCall
}
func (s *stubAdapter) ListTransactionsSince(ctx context.Context, since time.Time) ([]providers.ProviderTransaction, error) {
	return nil, errUnexpectedCall
}
func (s *stubAdapter) GetBalance(ctx context.Context, accountID string) (int64, string, error) {
	return 0, "", errUnexpectedCall
}
func (s *stubAdapter) ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (providers.ProviderTransaction, error) {
	return providers.ProviderTransaction{}, errUnexpectedCall
}

type errString string

func (e errString) Error() string { return string(e) }

const errUnexpectedCall = errString("unexpected call on stub adapter")

func testBox(t *testing.T) *crypto.Box {
	t.Helper()
	box, err := crypto.NewBox(make([]byte, 32))
	require.NoError(t, err)
	return box
}

func TestPayroll_SkipsOnNonPayrollDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queries := dbtest.NewMockQuerier(ctrl)
	// ListCreatorsByPurpose must never be called when today isn't the 1st or 16th.

	fixedNow := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixedNow }
	defer func() { nowFunc = time.Now }()

	jobs := NewJobs(queries, nil, nil, nil, nil, nil, nil, nil, zap.NewNop())
	require.NoError(t, jobs.Payroll(context.Background()))
}

func TestPayroll_PaysEligibleCreators(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixedNow := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixedNow }
	defer func() { nowFunc = time.Now }()

	creatorID := uuid.New()
	queries := dbtest.NewMockQuerier(ctrl)
	queries.EXPECT().ListCreatorsByPurpose(gomock.Any(), domain.PurposeService).Return([]domain.Creator{
		{ID: creatorID, PayoutStatus: domain.PayoutStatusActive, ProvRSubaccountCode: "sub_1", BalanceCacheCents: 5000, BalanceCacheCurrency: "USD"},
		{ID: uuid.New(), PayoutStatus: domain.PayoutStatusActive, BalanceCacheCents: 0},
	}, nil)
	queries.EXPECT().GetCreator(gomock.Any(), creatorID).Return(domain.Creator{
		ID: creatorID, PayoutStatus: domain.PayoutStatusActive, ProvRSubaccountCode: "sub_1", ProvRRecipientCode: "rcpt_1",
	}, nil)
	queries.EXPECT().InsertPayment(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, p domain.Payment) (domain.Payment, error) {
			p.ID = uuid.New()
			return p, nil
		})
	queries.EXPECT().SetPaymentStatus(gomock.Any(), gomock.Any(), domain.PaymentStatusSucceeded).Return(nil)
	queries.EXPECT().InsertActivity(gomock.Any(), gomock.Any()).Return(nil)

	adapter := &stubAdapter{transferResult: providers.TransferResult{TransferCode: "tr_1", Status: "success"}}
	payoutEngine := payout.New(queries, adapter, testBox(t), zap.NewNop())

	jobs := NewJobs(queries, nil, payoutEngine, nil, nil, nil, nil, nil, zap.NewNop())
	require.NoError(t, jobs.Payroll(context.Background()))
}

// passthroughLocker satisfies the Locker interface without touching Redis,
// for tests that exercise notifyOnce but don't care about mutual exclusion.
type passthroughLocker struct{}

func (passthroughLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestDunning_NotifiesOnceThenSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subID := uuid.New()
	subscriberID := uuid.New()
	paymentID := uuid.New()

	queries := dbtest.NewMockQuerier(ctrl)
	queries.EXPECT().ListRecentFailedPayments(gomock.Any(), gomock.Any()).Return([]domain.Payment{
		{ID: paymentID, SubscriptionID: &subID, SubscriberID: &subscriberID},
	}, nil)
	queries.EXPECT().HasNotificationBeenSent(gomock.Any(), subID, "payment_failed_"+paymentID.String()).Return(false, nil)
	queries.EXPECT().GetSubscriberByID(gomock.Any(), subscriberID).Return(domain.Subscriber{ID: subscriberID, Email: "a@example.com"}, nil)
	queries.EXPECT().MarkNotificationSent(gomock.Any(), subID, "payment_failed_"+paymentID.String()).Return(nil)

	jobs := NewJobs(queries, nil, nil, nil, nil, nil, notifier.NewLogSender(zap.NewNop()), passthroughLocker{}, zap.NewNop())
	require.NoError(t, jobs.Dunning(context.Background()))
}

var _ db.Querier = (*dbtest.MockQuerier)(nil)

func TestAccountFor_PrefersCreatorDefaultProvider(t *testing.T) {
	jobs := &Jobs{logger: zap.NewNop()}
	creator := domain.Creator{DefaultProvider: domain.ProviderR, ProvRSubaccountCode: "sub_1", ProvGAccountID: "acct_1"}
	adapter, accountID := jobs.accountFor(creator)
	assert.Nil(t, adapter) // provR not wired on this bare Jobs; exercises the selection logic only
	assert.Equal(t, "sub_1", accountID)
}
