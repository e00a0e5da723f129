// Package idempotency provides the checkout dedupe key and the notification
// idempotency check used inside the lock per spec §4.9 — the unique-log
// check must run inside the lock to close the TOCTOU window.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/creatorpay/platform/internal/errs"
)

// CheckoutDedupeTTL bounds how long a checkout session URL is reused for a
// double-clicked request.
const CheckoutDedupeTTL = 2 * time.Minute

// CheckoutDedupeKey builds the Redis key from spec §4.3:
// checkout_dedupe:{creatorId}:{subscriberEmailOrFingerprint}:{amountCents}.
func CheckoutDedupeKey(creatorID, subscriberKey string, amountCents int64) string {
	return fmt.Sprintf("checkout_dedupe:%s:%s:%d", creatorID, subscriberKey, amountCents)
}

// CheckoutDedupeStore stores and retrieves the prior checkout session URL
// for a dedupe key.
type CheckoutDedupeStore struct {
	client *redis.Client
}

func NewCheckoutDedupeStore(client *redis.Client) *CheckoutDedupeStore {
	return &CheckoutDedupeStore{client: client}
}

// GetPriorSession returns the previously stored session URL for key, if any
// is still within its TTL.
func (s *CheckoutDedupeStore) GetPriorSession(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrap(errs.ProviderUnavailable, "idempotency: redis GET failed", err)
	}
	return val, true, nil
}

// StoreSession records sessionURL against key for CheckoutDedupeTTL.
func (s *CheckoutDedupeStore) StoreSession(ctx context.Context, key, sessionURL string) error {
	if err := s.client.Set(ctx, key, sessionURL, CheckoutDedupeTTL).Err(); err != nil {
		return errs.Wrap(errs.ProviderUnavailable, "idempotency: redis SET failed", err)
	}
	return nil
}

// NotificationChecker is satisfied by the DB layer's notification-log
// lookup; kept as an interface so the applier/scheduler can be tested
// without a real database.
type NotificationChecker interface {
	HasNotificationBeenSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) (bool, error)
	MarkNotificationSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) error
}
