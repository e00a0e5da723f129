// Package lock implements the distributed mutex from spec §4.9: Redis
// SET key token NX PX ttl, released only when the caller's fencing token
// still matches the stored value. Acquisition never blocks — callers either
// get the lock or get errs.Conflict and should retry later, per spec §5's
// "either acquire or bail" cancellation policy.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/creatorpay/platform/internal/errs"
)

// releaseScript deletes key only if its value still equals the caller's
// token, so a lock holder can never release a lock it no longer owns
// (e.g. after its TTL expired and someone else acquired it).
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker acquires and releases fencing-token locks backed by Redis.
type Locker struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Handle is a held lock; call Release when done.
type Handle struct {
	key   string
	token string
}

// Acquire attempts to take the lock named key for ttl. Returns
// errs.Conflict if the lock is already held (never blocks).
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Handle, error) {
	token, err := randomToken()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "lock: generate fencing token", err)
	}

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ProviderUnavailable, "lock: redis SETNX failed", err)
	}
	if !ok {
		return nil, errs.New(errs.Conflict, "lock: already held: "+key)
	}

	return &Handle{key: key, token: token}, nil
}

// Release drops the lock if and only if this handle's token still matches
// what is stored in Redis (fencing — guards against releasing a lock that
// expired and was re-acquired by someone else).
func (l *Locker) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	if err := l.client.Eval(ctx, releaseScript, []string{h.key}, h.token).Err(); err != nil {
		return errs.Wrap(errs.Internal, "lock: release failed", err)
	}
	return nil
}

// WithLock acquires key, runs fn, and releases the lock regardless of fn's
// outcome. Returns errs.Conflict without running fn if the lock is held.
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	handle, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer func() { _ = l.Release(ctx, handle) }()

	return fn(ctx)
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Key builders for the lock names enumerated in spec §4.9.

// SubscriptionKey is the per-subject lock used during event application.
func SubscriptionKey(providerRef string) string { return "subscription:" + providerRef }

// ChargeKey briefly serializes competing retries of the same event.
func ChargeKey(eventID string) string { return "charge:" + eventID }

// NotificationKey guards an email send plus its idempotency-log recheck.
func NotificationKey(subscriptionID, notificationType string) string {
	return "notification:" + subscriptionID + ":" + notificationType
}

// JobKey is a scheduler job's lease key.
func JobKey(name string) string { return "job:" + name }
