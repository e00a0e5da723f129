package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/dbtest"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/providers"
)

// listOnlyAdapter implements providers.Adapter with just
// ListTransactionsSince wired; every other method is unused by the sweep.
type listOnlyAdapter struct {
	txns []providers.ProviderTransaction
	err  error
}

var _ providers.Adapter = (*listOnlyAdapter)(nil)

func (a *listOnlyAdapter) Name() string { return "stub" }
func (a *listOnlyAdapter) CreateSession(ctx context.Context, req providers.CheckoutSessionRequest) (providers.CheckoutSession, error) {
	return providers.CheckoutSession{}, errNotImplemented
}
func (a *listOnlyAdapter) CancelSubscription(ctx context.Context, id string, atPeriodEnd bool) error {
	return errNotImplemented
}
func (a *listOnlyAdapter) Reactivate(ctx context.Context, id string) error { return errNotImplemented }
func (a *listOnlyAdapter) ResolveAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	return "", errNotImplemented
}
func (a *listOnlyAdapter) CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (providers.TransferRecipient, error) {
	return providers.TransferRecipient{}, errNotImplemented
}
func (a *listOnlyAdapter) InitiateTransfer(ctx context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	return providers.TransferResult{}, errNotImplemented
}
func (a *listOnlyAdapter) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	return errNotImplemented
}
func (a *listOnlyAdapter) VerifyTransaction(ctx context.Context, reference string) (providers.ProviderTransaction, error) {
	return providers.ProviderTransaction{}, errNotImplemented
}
func (a *listOnlyAdapter) ListTransactionsSince(ctx context.Context, since time.Time) ([]providers.ProviderTransaction, error) {
	return a.txns, a.err
}
func (a *listOnlyAdapter) GetBalance(ctx context.Context, accountID string) (int64, string, error) {
	return 0, "", errNotImplemented
}
func (a *listOnlyAdapter) ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (providers.ProviderTransaction, error) {
	return providers.ProviderTransaction{}, errNotImplemented
}

type errStr string

func (e errStr) Error() string { return string(e) }

const errNotImplemented = errStr("not implemented on listOnlyAdapter")

func TestSweepProvider_MatchedPaymentSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queries := dbtest.NewMockQuerier(ctrl)
	queries.EXPECT().GetPaymentByProviderChargeRef(gomock.Any(), "ref_1").Return(domain.Payment{}, true, nil)

	adapter := &listOnlyAdapter{txns: []providers.ProviderTransaction{
		{Reference: "ref_1", Status: "succeeded", AmountCents: 1000, Currency: "USD"},
	}}

	r := New(adapter, nil, queries, nil, zap.NewNop())
	report, err := r.sweepProvider(context.Background(), domain.ProviderR, adapter, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, report.Checked)
	require.Equal(t, 1, report.Matched)
	require.Equal(t, 0, report.Discrepancies)
	require.Equal(t, 0, report.AutoFixed)
}

func TestSweepProvider_UnmatchedReportedWhenAutoFixDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queries := dbtest.NewMockQuerier(ctrl)
	queries.EXPECT().GetPaymentByProviderChargeRef(gomock.Any(), "ref_2").Return(domain.Payment{}, false, nil)

	adapter := &listOnlyAdapter{txns: []providers.ProviderTransaction{
		{Reference: "ref_2", Status: "succeeded", AmountCents: 500, Currency: "USD", CreatorID: "creator_1", SubscriberEmail: "a@example.com"},
	}}

	r := New(adapter, nil, queries, nil, zap.NewNop())
	r.AutoFix = false
	report, err := r.sweepProvider(context.Background(), domain.ProviderR, adapter, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, report.Checked)
	require.Equal(t, 0, report.Matched)
	require.Equal(t, 1, report.Discrepancies)
	require.Equal(t, 0, report.AutoFixed)
}

func TestSweepProvider_UnmatchedWithNoCreatorMetadataReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queries := dbtest.NewMockQuerier(ctrl)
	queries.EXPECT().GetPaymentByProviderChargeRef(gomock.Any(), "ref_3").Return(domain.Payment{}, false, nil)

	adapter := &listOnlyAdapter{txns: []providers.ProviderTransaction{
		{Reference: "ref_3", Status: "succeeded", AmountCents: 500, Currency: "USD"},
	}}

	r := New(adapter, nil, queries, nil, zap.NewNop())
	report, err := r.sweepProvider(context.Background(), domain.ProviderR, adapter, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, report.Discrepancies)
	require.Equal(t, 0, report.AutoFixed)
}

func TestSweepProvider_IgnoresPendingAndFailedTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queries := dbtest.NewMockQuerier(ctrl)
	// No GetPaymentByProviderChargeRef call expected: neither txn is "succeeded".

	adapter := &listOnlyAdapter{txns: []providers.ProviderTransaction{
		{Reference: "ref_4", Status: "pending"},
		{Reference: "ref_5", Status: "failed"},
	}}

	r := New(adapter, nil, queries, nil, zap.NewNop())
	report, err := r.sweepProvider(context.Background(), domain.ProviderR, adapter, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 0, report.Checked)
}
