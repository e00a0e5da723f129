package fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/events"
)

func TestTransition_Deleted(t *testing.T) {
	sub := Subscription{Status: domain.SubStatusActive}
	result, err := sub.Transition(events.LifecycleDeleted, time.Now())
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, domain.SubStatusCanceled, result.Status)
	assert.Equal(t, domain.CancelReasonCreatorRequest, result.Reason)
}

func TestTransition_DeletedAlreadyCanceledIsNoop(t *testing.T) {
	sub := Subscription{Status: domain.SubStatusCanceled}
	result, err := sub.Transition(events.LifecycleDeleted, time.Now())
	assert.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestTransition_PaymentFailedDemotesActive(t *testing.T) {
	periodEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{Status: domain.SubStatusActive, CurrentPeriodEnd: periodEnd}

	result, err := sub.Transition(events.LifecyclePaymentFailed, periodEnd.Add(time.Hour))
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, domain.SubStatusPastDue, result.Status)
}

func TestTransition_StalePaymentFailedIgnored(t *testing.T) {
	periodEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{Status: domain.SubStatusActive, CurrentPeriodEnd: periodEnd}

	// A renewal already pushed CurrentPeriodEnd past the failure's own
	// period, so this failure report arrived late and must not regress.
	result, err := sub.Transition(events.LifecyclePaymentFailed, periodEnd.Add(-24*time.Hour))
	assert.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestTransition_PaymentFailedOnNonActiveIsNoop(t *testing.T) {
	periodEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{Status: domain.SubStatusPastDue, CurrentPeriodEnd: periodEnd}

	result, err := sub.Transition(events.LifecyclePaymentFailed, periodEnd.Add(time.Hour))
	assert.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestTransition_UpdatedIsInformationalOnly(t *testing.T) {
	sub := Subscription{Status: domain.SubStatusActive}
	result, err := sub.Transition(events.LifecycleUpdated, time.Now())
	assert.NoError(t, err)
	assert.False(t, result.Applied)
}
