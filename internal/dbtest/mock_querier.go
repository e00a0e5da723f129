// Package dbtest provides a hand-maintained gomock double for db.Querier,
// in the shape mockgen would generate, for tests that exercise
// internal/applier, internal/checkout, internal/scheduler, and
// internal/reconcile without a database. Mirrors the teacher's
// libs/go/mocks convention of a generated Querier mock driven by
// go.uber.org/mock/gomock.
package dbtest

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
)

// MockQuerier is a mock of the db.Querier interface.
type MockQuerier struct {
	ctrl     *gomock.Controller
	recorder *MockQuerierMockRecorder
}

// MockQuerierMockRecorder is the mock recorder for MockQuerier.
type MockQuerierMockRecorder struct {
	mock *MockQuerier
}

// NewMockQuerier creates a new mock instance.
func NewMockQuerier(ctrl *gomock.Controller) *MockQuerier {
	mock := &MockQuerier{ctrl: ctrl}
	mock.recorder = &MockQuerierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockQuerier) EXPECT() *MockQuerierMockRecorder {
	return m.recorder
}

var _ db.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) GetCreator(ctx context.Context, id uuid.UUID) (domain.Creator, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCreator", ctx, id)
	return ret[0].(domain.Creator), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetCreator(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCreator", reflect.TypeOf((*MockQuerier)(nil).GetCreator), ctx, id)
}

func (m *MockQuerier) UpdateCreatorPayoutStatus(ctx context.Context, id uuid.UUID, status domain.PayoutStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCreatorPayoutStatus", ctx, id, status)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) UpdateCreatorPayoutStatus(ctx, id, status interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCreatorPayoutStatus", reflect.TypeOf((*MockQuerier)(nil).UpdateCreatorPayoutStatus), ctx, id, status)
}

func (m *MockQuerier) UpdateCreatorProvRRecipient(ctx context.Context, id uuid.UUID, recipientCode, bankFingerprint string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCreatorProvRRecipient", ctx, id, recipientCode, bankFingerprint)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) UpdateCreatorProvRRecipient(ctx, id, recipientCode, bankFingerprint interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCreatorProvRRecipient", reflect.TypeOf((*MockQuerier)(nil).UpdateCreatorProvRRecipient), ctx, id, recipientCode, bankFingerprint)
}

func (m *MockQuerier) ListCreatorsByPurpose(ctx context.Context, purpose domain.CreatorPurpose) ([]domain.Creator, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListCreatorsByPurpose", ctx, purpose)
	return ret[0].([]domain.Creator), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListCreatorsByPurpose(ctx, purpose interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListCreatorsByPurpose", reflect.TypeOf((*MockQuerier)(nil).ListCreatorsByPurpose), ctx, purpose)
}

func (m *MockQuerier) ListConnectedCreators(ctx context.Context) ([]domain.Creator, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListConnectedCreators", ctx)
	return ret[0].([]domain.Creator), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListConnectedCreators(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListConnectedCreators", reflect.TypeOf((*MockQuerier)(nil).ListConnectedCreators), ctx)
}

func (m *MockQuerier) UpdateCreatorBalanceCache(ctx context.Context, id uuid.UUID, amountCents int64, currency string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCreatorBalanceCache", ctx, id, amountCents, currency)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) UpdateCreatorBalanceCache(ctx, id, amountCents, currency interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCreatorBalanceCache", reflect.TypeOf((*MockQuerier)(nil).UpdateCreatorBalanceCache), ctx, id, amountCents, currency)
}

func (m *MockQuerier) GetOrCreateSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreateSubscriberByEmail", ctx, email)
	return ret[0].(domain.Subscriber), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetOrCreateSubscriberByEmail(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreateSubscriberByEmail", reflect.TypeOf((*MockQuerier)(nil).GetOrCreateSubscriberByEmail), ctx, email)
}

func (m *MockQuerier) GetSubscriberByID(ctx context.Context, id uuid.UUID) (domain.Subscriber, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubscriberByID", ctx, id)
	return ret[0].(domain.Subscriber), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetSubscriberByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubscriberByID", reflect.TypeOf((*MockQuerier)(nil).GetSubscriberByID), ctx, id)
}

func (m *MockQuerier) IncrementSubscriberDisputeCount(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IncrementSubscriberDisputeCount", ctx, id)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) IncrementSubscriberDisputeCount(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IncrementSubscriberDisputeCount", reflect.TypeOf((*MockQuerier)(nil).IncrementSubscriberDisputeCount), ctx, id)
}

func (m *MockQuerier) SetSubscriberBlocked(ctx context.Context, id uuid.UUID, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetSubscriberBlocked", ctx, id, reason)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) SetSubscriberBlocked(ctx, id, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSubscriberBlocked", reflect.TypeOf((*MockQuerier)(nil).SetSubscriberBlocked), ctx, id, reason)
}

func (m *MockQuerier) GetSubscriptionByProvGSubscriptionID(ctx context.Context, provGSubID string) (domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubscriptionByProvGSubscriptionID", ctx, provGSubID)
	return ret[0].(domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetSubscriptionByProvGSubscriptionID(ctx, provGSubID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubscriptionByProvGSubscriptionID", reflect.TypeOf((*MockQuerier)(nil).GetSubscriptionByProvGSubscriptionID), ctx, provGSubID)
}

func (m *MockQuerier) GetSubscriptionByCreatorSubscriber(ctx context.Context, creatorID, subscriberID uuid.UUID, interval domain.SubscriptionInterval) (domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubscriptionByCreatorSubscriber", ctx, creatorID, subscriberID, interval)
	return ret[0].(domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetSubscriptionByCreatorSubscriber(ctx, creatorID, subscriberID, interval interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubscriptionByCreatorSubscriber", reflect.TypeOf((*MockQuerier)(nil).GetSubscriptionByCreatorSubscriber), ctx, creatorID, subscriberID, interval)
}

func (m *MockQuerier) GetSubscriptionByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubscriptionByID", ctx, id)
	return ret[0].(domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetSubscriptionByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubscriptionByID", reflect.TypeOf((*MockQuerier)(nil).GetSubscriptionByID), ctx, id)
}

func (m *MockQuerier) CreateSubscription(ctx context.Context, s domain.Subscription) (domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateSubscription", ctx, s)
	return ret[0].(domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) CreateSubscription(ctx, s interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateSubscription", reflect.TypeOf((*MockQuerier)(nil).CreateSubscription), ctx, s)
}

func (m *MockQuerier) ApplyChargeSuccessToSubscription(ctx context.Context, id uuid.UUID, newPeriodEnd time.Time, netCentsDelta int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ApplyChargeSuccessToSubscription", ctx, id, newPeriodEnd, netCentsDelta)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) ApplyChargeSuccessToSubscription(ctx, id, newPeriodEnd, netCentsDelta interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ApplyChargeSuccessToSubscription", reflect.TypeOf((*MockQuerier)(nil).ApplyChargeSuccessToSubscription), ctx, id, newPeriodEnd, netCentsDelta)
}

func (m *MockQuerier) SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status domain.SubscriptionStatus, reason domain.CancelReason) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetSubscriptionStatus", ctx, id, status, reason)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) SetSubscriptionStatus(ctx, id, status, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSubscriptionStatus", reflect.TypeOf((*MockQuerier)(nil).SetSubscriptionStatus), ctx, id, status, reason)
}

func (m *MockQuerier) ScheduleCancelAtPeriodEnd(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScheduleCancelAtPeriodEnd", ctx, id)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) ScheduleCancelAtPeriodEnd(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScheduleCancelAtPeriodEnd", reflect.TypeOf((*MockQuerier)(nil).ScheduleCancelAtPeriodEnd), ctx, id)
}

func (m *MockQuerier) CancelSubscriptionNow(ctx context.Context, id uuid.UUID, reason domain.CancelReason) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CancelSubscriptionNow", ctx, id, reason)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) CancelSubscriptionNow(ctx, id, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CancelSubscriptionNow", reflect.TypeOf((*MockQuerier)(nil).CancelSubscriptionNow), ctx, id, reason)
}

func (m *MockQuerier) DecrementSubscriptionLTV(ctx context.Context, id uuid.UUID, amount int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DecrementSubscriptionLTV", ctx, id, amount)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) DecrementSubscriptionLTV(ctx, id, amount interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DecrementSubscriptionLTV", reflect.TypeOf((*MockQuerier)(nil).DecrementSubscriptionLTV), ctx, id, amount)
}

func (m *MockQuerier) IncrementSubscriptionRetry(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IncrementSubscriptionRetry", ctx, id)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) IncrementSubscriptionRetry(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IncrementSubscriptionRetry", reflect.TypeOf((*MockQuerier)(nil).IncrementSubscriptionRetry), ctx, id)
}

func (m *MockQuerier) ListSubscriptionsDueForBilling(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSubscriptionsDueForBilling", ctx, now)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListSubscriptionsDueForBilling(ctx, now interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSubscriptionsDueForBilling", reflect.TypeOf((*MockQuerier)(nil).ListSubscriptionsDueForBilling), ctx, now)
}

func (m *MockQuerier) ListPastDueSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListPastDueSubscriptions", ctx)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListPastDueSubscriptions(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListPastDueSubscriptions", reflect.TypeOf((*MockQuerier)(nil).ListPastDueSubscriptions), ctx)
}

func (m *MockQuerier) ListStalePendingSubscriptions(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListStalePendingSubscriptions", ctx, cutoff)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListStalePendingSubscriptions(ctx, cutoff interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListStalePendingSubscriptions", reflect.TypeOf((*MockQuerier)(nil).ListStalePendingSubscriptions), ctx, cutoff)
}

func (m *MockQuerier) ListRecentlyCanceledSubscriptions(ctx context.Context, since time.Time) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecentlyCanceledSubscriptions", ctx, since)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListRecentlyCanceledSubscriptions(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecentlyCanceledSubscriptions", reflect.TypeOf((*MockQuerier)(nil).ListRecentlyCanceledSubscriptions), ctx, since)
}

func (m *MockQuerier) ListOverdueCancelAtPeriodEnd(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListOverdueCancelAtPeriodEnd", ctx, now)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListOverdueCancelAtPeriodEnd(ctx, now interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListOverdueCancelAtPeriodEnd", reflect.TypeOf((*MockQuerier)(nil).ListOverdueCancelAtPeriodEnd), ctx, now)
}

func (m *MockQuerier) ListSubscriptionsRenewingBetween(ctx context.Context, start, end time.Time) ([]domain.Subscription, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSubscriptionsRenewingBetween", ctx, start, end)
	return ret[0].([]domain.Subscription), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListSubscriptionsRenewingBetween(ctx, start, end interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSubscriptionsRenewingBetween", reflect.TypeOf((*MockQuerier)(nil).ListSubscriptionsRenewingBetween), ctx, start, end)
}

func (m *MockQuerier) InsertPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertPayment", ctx, p)
	return ret[0].(domain.Payment), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) InsertPayment(ctx, p interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertPayment", reflect.TypeOf((*MockQuerier)(nil).InsertPayment), ctx, p)
}

func (m *MockQuerier) GetPaymentByProviderChargeRef(ctx context.Context, ref string) (domain.Payment, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPaymentByProviderChargeRef", ctx, ref)
	return ret[0].(domain.Payment), ret[1].(bool), errOf(ret[2])
}

func (mr *MockQuerierMockRecorder) GetPaymentByProviderChargeRef(ctx, ref interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPaymentByProviderChargeRef", reflect.TypeOf((*MockQuerier)(nil).GetPaymentByProviderChargeRef), ctx, ref)
}

func (m *MockQuerier) GetPaymentByProviderEventID(ctx context.Context, eventID string) (domain.Payment, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPaymentByProviderEventID", ctx, eventID)
	return ret[0].(domain.Payment), ret[1].(bool), errOf(ret[2])
}

func (mr *MockQuerierMockRecorder) GetPaymentByProviderEventID(ctx, eventID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPaymentByProviderEventID", reflect.TypeOf((*MockQuerier)(nil).GetPaymentByProviderEventID), ctx, eventID)
}

func (m *MockQuerier) GetPaymentByProviderTransferRef(ctx context.Context, ref string) (domain.Payment, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPaymentByProviderTransferRef", ctx, ref)
	return ret[0].(domain.Payment), ret[1].(bool), errOf(ret[2])
}

func (mr *MockQuerierMockRecorder) GetPaymentByProviderTransferRef(ctx, ref interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPaymentByProviderTransferRef", reflect.TypeOf((*MockQuerier)(nil).GetPaymentByProviderTransferRef), ctx, ref)
}

func (m *MockQuerier) GetPaymentByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPaymentByID", ctx, id)
	return ret[0].(domain.Payment), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetPaymentByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPaymentByID", reflect.TypeOf((*MockQuerier)(nil).GetPaymentByID), ctx, id)
}

func (m *MockQuerier) SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetPaymentStatus", ctx, id, status)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) SetPaymentStatus(ctx, id, status interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetPaymentStatus", reflect.TypeOf((*MockQuerier)(nil).SetPaymentStatus), ctx, id, status)
}

func (m *MockQuerier) ListStuckOTPPayouts(ctx context.Context, olderThan time.Time) ([]domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListStuckOTPPayouts", ctx, olderThan)
	return ret[0].([]domain.Payment), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListStuckOTPPayouts(ctx, olderThan interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListStuckOTPPayouts", reflect.TypeOf((*MockQuerier)(nil).ListStuckOTPPayouts), ctx, olderThan)
}

func (m *MockQuerier) ListRecentFailedPayments(ctx context.Context, since time.Time) ([]domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecentFailedPayments", ctx, since)
	return ret[0].([]domain.Payment), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListRecentFailedPayments(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecentFailedPayments", reflect.TypeOf((*MockQuerier)(nil).ListRecentFailedPayments), ctx, since)
}

func (m *MockQuerier) CountRecentPayoutOutcomes(ctx context.Context, since time.Time) (int, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountRecentPayoutOutcomes", ctx, since)
	return ret[0].(int), ret[1].(int), errOf(ret[2])
}

func (mr *MockQuerierMockRecorder) CountRecentPayoutOutcomes(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountRecentPayoutOutcomes", reflect.TypeOf((*MockQuerier)(nil).CountRecentPayoutOutcomes), ctx, since)
}

func (m *MockQuerier) AggregatePaymentVolume(ctx context.Context, since time.Time) (int64, int64, int64, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AggregatePaymentVolume", ctx, since)
	return ret[0].(int64), ret[1].(int64), ret[2].(int64), ret[3].(int), errOf(ret[4])
}

func (mr *MockQuerierMockRecorder) AggregatePaymentVolume(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AggregatePaymentVolume", reflect.TypeOf((*MockQuerier)(nil).AggregatePaymentVolume), ctx, since)
}

func (m *MockQuerier) AggregatePayoutVolume(ctx context.Context, since time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AggregatePayoutVolume", ctx, since)
	return ret[0].(int64), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) AggregatePayoutVolume(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AggregatePayoutVolume", reflect.TypeOf((*MockQuerier)(nil).AggregatePayoutVolume), ctx, since)
}

func (m *MockQuerier) CountActiveSubscriptions(ctx context.Context) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountActiveSubscriptions", ctx)
	return ret[0].(int), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) CountActiveSubscriptions(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountActiveSubscriptions", reflect.TypeOf((*MockQuerier)(nil).CountActiveSubscriptions), ctx)
}

func (m *MockQuerier) UpsertReportingSnapshot(ctx context.Context, s domain.ReportingSnapshot) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpsertReportingSnapshot", ctx, s)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) UpsertReportingSnapshot(ctx, s interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpsertReportingSnapshot", reflect.TypeOf((*MockQuerier)(nil).UpsertReportingSnapshot), ctx, s)
}

func (m *MockQuerier) UpsertWebhookEvent(ctx context.Context, provider domain.Provider, eventID, eventType string, payload []byte) (domain.WebhookEvent, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpsertWebhookEvent", ctx, provider, eventID, eventType, payload)
	return ret[0].(domain.WebhookEvent), ret[1].(bool), errOf(ret[2])
}

func (mr *MockQuerierMockRecorder) UpsertWebhookEvent(ctx, provider, eventID, eventType, payload interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpsertWebhookEvent", reflect.TypeOf((*MockQuerier)(nil).UpsertWebhookEvent), ctx, provider, eventID, eventType, payload)
}

func (m *MockQuerier) GetWebhookEventByProviderChargeRef(ctx context.Context, paymentType domain.PaymentType, providerChargeRef string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWebhookEventByProviderChargeRef", ctx, paymentType, providerChargeRef)
	return ret[0].(bool), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetWebhookEventByProviderChargeRef(ctx, paymentType, providerChargeRef interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWebhookEventByProviderChargeRef", reflect.TypeOf((*MockQuerier)(nil).GetWebhookEventByProviderChargeRef), ctx, paymentType, providerChargeRef)
}

func (m *MockQuerier) MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkWebhookEventProcessed", ctx, id, paymentID)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) MarkWebhookEventProcessed(ctx, id, paymentID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkWebhookEventProcessed", reflect.TypeOf((*MockQuerier)(nil).MarkWebhookEventProcessed), ctx, id, paymentID)
}

func (m *MockQuerier) MarkWebhookEventSkipped(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkWebhookEventSkipped", ctx, id, paymentID)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) MarkWebhookEventSkipped(ctx, id, paymentID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkWebhookEventSkipped", reflect.TypeOf((*MockQuerier)(nil).MarkWebhookEventSkipped), ctx, id, paymentID)
}

func (m *MockQuerier) MarkWebhookEventFailed(ctx context.Context, id uuid.UUID, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkWebhookEventFailed", ctx, id, reason)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) MarkWebhookEventFailed(ctx, id, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkWebhookEventFailed", reflect.TypeOf((*MockQuerier)(nil).MarkWebhookEventFailed), ctx, id, reason)
}

func (m *MockQuerier) MarkWebhookEventDeadLetter(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkWebhookEventDeadLetter", ctx, id)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) MarkWebhookEventDeadLetter(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkWebhookEventDeadLetter", reflect.TypeOf((*MockQuerier)(nil).MarkWebhookEventDeadLetter), ctx, id)
}

func (m *MockQuerier) ListDeadLetterCandidates(ctx context.Context, maxRetries int) ([]domain.WebhookEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDeadLetterCandidates", ctx, maxRetries)
	return ret[0].([]domain.WebhookEvent), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) ListDeadLetterCandidates(ctx, maxRetries interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDeadLetterCandidates", reflect.TypeOf((*MockQuerier)(nil).ListDeadLetterCandidates), ctx, maxRetries)
}

func (m *MockQuerier) GetWebhookEventByID(ctx context.Context, id uuid.UUID) (domain.WebhookEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWebhookEventByID", ctx, id)
	return ret[0].(domain.WebhookEvent), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) GetWebhookEventByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWebhookEventByID", reflect.TypeOf((*MockQuerier)(nil).GetWebhookEventByID), ctx, id)
}

func (m *MockQuerier) InsertActivity(ctx context.Context, a domain.Activity) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertActivity", ctx, a)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) InsertActivity(ctx, a interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertActivity", reflect.TypeOf((*MockQuerier)(nil).InsertActivity), ctx, a)
}

func (m *MockQuerier) HasNotificationBeenSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasNotificationBeenSent", ctx, subscriptionID, notifType)
	return ret[0].(bool), errOf(ret[1])
}

func (mr *MockQuerierMockRecorder) HasNotificationBeenSent(ctx, subscriptionID, notifType interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasNotificationBeenSent", reflect.TypeOf((*MockQuerier)(nil).HasNotificationBeenSent), ctx, subscriptionID, notifType)
}

func (m *MockQuerier) MarkNotificationSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkNotificationSent", ctx, subscriptionID, notifType)
	return errOf(ret[0])
}

func (mr *MockQuerierMockRecorder) MarkNotificationSent(ctx, subscriptionID, notifType interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkNotificationSent", reflect.TypeOf((*MockQuerier)(nil).MarkNotificationSent), ctx, subscriptionID, notifType)
}

// errOf type-asserts a gomock return slot that may legitimately be a typed
// nil error pushed via gomock.Nil() or a literal nil.
func errOf(v interface{}) error {
	if v == nil {
		return nil
	}
	return v.(error)
}
