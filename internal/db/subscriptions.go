package db

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

const subscriptionColumns = `
	id, creator_id, subscriber_id, amount_cents, currency, interval, status,
	fee_model, fee_mode, prov_g_subscription_id, prov_g_customer_id, prov_r_auth_code,
	current_period_end, cancel_at_period_end, canceled_at, cancel_reason,
	ltv_cents, manage_token_nonce, retry_count, last_retry_at, past_due_since,
	created_at, updated_at`

func scanSubscription(row interface {
	Scan(dest ...interface{}) error
}) (domain.Subscription, error) {
	var s domain.Subscription
	var periodEnd *time.Time
	var provRAuthCode []byte
	err := row.Scan(
		&s.ID, &s.CreatorID, &s.SubscriberID, &s.AmountCents, &s.Currency, &s.Interval, &s.Status,
		&s.FeeModel, &s.FeeMode, &s.ProvGSubscriptionID, &s.ProvGCustomerID, &provRAuthCode,
		&periodEnd, &s.CancelAtPeriodEnd, &s.CanceledAt, &s.CancelReason,
		&s.LTVCents, &s.ManageTokenNonce, &s.RetryCount, &s.LastRetryAt, &s.PastDueSince,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if periodEnd != nil {
		s.CurrentPeriodEnd = *periodEnd
	}
	if len(provRAuthCode) > 0 {
		s.ProvRAuthCode = hex.EncodeToString(provRAuthCode)
	}
	return s, err
}

func (q *Queries) GetSubscriptionByProvGSubscriptionID(ctx context.Context, provGSubID string) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE prov_g_subscription_id = $1`
	s, err := scanSubscription(q.db.QueryRow(ctx, query, provGSubID))
	if isNoRows(err) {
		return domain.Subscription{}, errs.New(errs.NotFound, "subscription not found")
	}
	if err != nil {
		return domain.Subscription{}, errs.Wrap(errs.Internal, "db: get subscription by prov_g id", err)
	}
	return s, nil
}

func (q *Queries) GetSubscriptionByCreatorSubscriber(ctx context.Context, creatorID, subscriberID uuid.UUID, interval domain.SubscriptionInterval) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE creator_id = $1 AND subscriber_id = $2 AND interval = $3`
	s, err := scanSubscription(q.db.QueryRow(ctx, query, creatorID, subscriberID, interval))
	if isNoRows(err) {
		return domain.Subscription{}, errs.New(errs.NotFound, "subscription not found")
	}
	if err != nil {
		return domain.Subscription{}, errs.Wrap(errs.Internal, "db: get subscription by creator/subscriber", err)
	}
	return s, nil
}

func (q *Queries) GetSubscriptionByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(q.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return domain.Subscription{}, errs.New(errs.NotFound, "subscription not found")
	}
	if err != nil {
		return domain.Subscription{}, errs.Wrap(errs.Internal, "db: get subscription by id", err)
	}
	return s, nil
}

// CreateSubscription inserts the first row for a (creator, subscriber,
// interval) tuple. The unique constraint on that tuple plus on
// prov_g_subscription_id makes a concurrent duplicate insert surface as a
// Conflict the applier can treat as "already created".
func (q *Queries) CreateSubscription(ctx context.Context, s domain.Subscription) (domain.Subscription, error) {
	const query = `
		INSERT INTO subscriptions (
			creator_id, subscriber_id, amount_cents, currency, interval, status,
			fee_model, fee_mode, prov_g_subscription_id, prov_g_customer_id, prov_r_auth_code,
			current_period_end, ltv_cents
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING ` + subscriptionColumns

	var provRAuthCode []byte
	if s.ProvRAuthCode != "" {
		decoded, err := hex.DecodeString(s.ProvRAuthCode)
		if err != nil {
			return domain.Subscription{}, errs.Wrap(errs.Internal, "db: invalid prov_r auth code encoding", err)
		}
		provRAuthCode = decoded
	}

	row := q.db.QueryRow(ctx, query,
		s.CreatorID, s.SubscriberID, s.AmountCents, s.Currency, s.Interval, s.Status,
		s.FeeModel, s.FeeMode, s.ProvGSubscriptionID, s.ProvGCustomerID, provRAuthCode,
		s.CurrentPeriodEnd, s.LTVCents,
	)
	created, err := scanSubscription(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Subscription{}, errs.Wrap(errs.Conflict, "db: subscription already exists", err)
		}
		return domain.Subscription{}, errs.Wrap(errs.Internal, "db: create subscription", err)
	}
	return created, nil
}

func (q *Queries) ApplyChargeSuccessToSubscription(ctx context.Context, id uuid.UUID, newPeriodEnd time.Time, netCentsDelta int64) error {
	const query = `
		UPDATE subscriptions
		SET status = $2, current_period_end = $3, ltv_cents = ltv_cents + $4,
		    retry_count = 0, last_retry_at = NULL, past_due_since = NULL, updated_at = now()
		WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, domain.SubStatusActive, newPeriodEnd, netCentsDelta); err != nil {
		return errs.Wrap(errs.Internal, "db: apply charge success", err)
	}
	return nil
}

func (q *Queries) SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status domain.SubscriptionStatus, reason domain.CancelReason) error {
	const query = `
		UPDATE subscriptions
		SET status = $2, cancel_reason = $3, updated_at = now(),
		    canceled_at = CASE WHEN $2 = 'canceled' THEN now() ELSE canceled_at END,
		    past_due_since = CASE WHEN $2 = 'past_due' AND status <> 'past_due' THEN now() ELSE past_due_since END,
		    retry_count = CASE WHEN $2 <> 'past_due' THEN 0 ELSE retry_count END
		WHERE id = $1 AND status <> 'canceled'`
	if _, err := q.db.Exec(ctx, query, id, status, reason); err != nil {
		return errs.Wrap(errs.Internal, "db: set subscription status", err)
	}
	return nil
}

// IncrementSubscriptionRetry records one more dunning retry attempt against
// a past_due subscription, for the retries job's exponential schedule.
func (q *Queries) IncrementSubscriptionRetry(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE subscriptions SET retry_count = retry_count + 1, last_retry_at = now(), updated_at = now() WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id); err != nil {
		return errs.Wrap(errs.Internal, "db: increment subscription retry", err)
	}
	return nil
}

func (q *Queries) ScheduleCancelAtPeriodEnd(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE subscriptions SET cancel_at_period_end = true, updated_at = now() WHERE id = $1 AND status <> 'canceled'`
	if _, err := q.db.Exec(ctx, query, id); err != nil {
		return errs.Wrap(errs.Internal, "db: schedule cancel at period end", err)
	}
	return nil
}

func (q *Queries) CancelSubscriptionNow(ctx context.Context, id uuid.UUID, reason domain.CancelReason) error {
	const query = `
		UPDATE subscriptions
		SET status = 'canceled', canceled_at = now(), cancel_reason = $2, updated_at = now()
		WHERE id = $1 AND status <> 'canceled'`
	if _, err := q.db.Exec(ctx, query, id, reason); err != nil {
		return errs.Wrap(errs.Internal, "db: cancel subscription", err)
	}
	return nil
}

func (q *Queries) DecrementSubscriptionLTV(ctx context.Context, id uuid.UUID, amount int64) error {
	const query = `UPDATE subscriptions SET ltv_cents = GREATEST(ltv_cents - $2, 0), updated_at = now() WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, amount); err != nil {
		return errs.Wrap(errs.Internal, "db: decrement subscription ltv", err)
	}
	return nil
}

func (q *Queries) ListSubscriptionsDueForBilling(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = 'active' AND current_period_end <= $1 AND prov_r_auth_code IS NOT NULL ORDER BY current_period_end`
	return q.querySubscriptions(ctx, query, now)
}

func (q *Queries) ListPastDueSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = 'past_due' ORDER BY updated_at`
	return q.querySubscriptions(ctx, query)
}

func (q *Queries) ListStalePendingSubscriptions(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = 'pending' AND created_at <= $1`
	return q.querySubscriptions(ctx, query, cutoff)
}

func (q *Queries) ListRecentlyCanceledSubscriptions(ctx context.Context, since time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = 'canceled' AND canceled_at >= $1`
	return q.querySubscriptions(ctx, query, since)
}

// ListOverdueCancelAtPeriodEnd enumerates subscriptions whose scheduled
// end-of-period cancellation has come due, for the cleanup job's backstop
// sweep (spec §4.8).
func (q *Queries) ListOverdueCancelAtPeriodEnd(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE cancel_at_period_end = true AND status <> 'canceled' AND current_period_end <= $1`
	return q.querySubscriptions(ctx, query, now)
}

// ListSubscriptionsRenewingBetween backs the reminders job's 7/3/1-day
// renewal notice sweep.
func (q *Queries) ListSubscriptionsRenewingBetween(ctx context.Context, start, end time.Time) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = 'active' AND current_period_end >= $1 AND current_period_end < $2`
	return q.querySubscriptions(ctx, query, start, end)
}

func (q *Queries) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]domain.Subscription, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "db: list subscriptions", err)
	}
	defer rows.Close()

	var out []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "db: scan subscription row", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
