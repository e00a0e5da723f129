package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

const paymentColumns = `
	id, subscription_id, creator_id, subscriber_id, amount_cents, currency,
	gross_cents, fee_cents, net_cents, creator_fee_cents, subscriber_fee_cents,
	fee_model, type, status, provider_event_id, provider_charge_ref, provider_transfer_ref,
	occurred_at, created_at,
	reporting_currency, reporting_gross_cents, reporting_fee_cents, reporting_net_cents,
	reporting_exchange_rate, reporting_rate_source, reporting_rate_timestamp, reporting_is_estimated,
	fee_mismatch_delta_cents`

func scanPayment(row interface {
	Scan(dest ...interface{}) error
}) (domain.Payment, error) {
	var p domain.Payment
	var rateTimestamp *time.Time
	err := row.Scan(
		&p.ID, &p.SubscriptionID, &p.CreatorID, &p.SubscriberID, &p.AmountCents, &p.Currency,
		&p.GrossCents, &p.FeeCents, &p.NetCents, &p.CreatorFeeCents, &p.SubscriberFeeCents,
		&p.FeeModel, &p.Type, &p.Status, &p.ProviderEventID, &p.ProviderChargeRef, &p.ProviderTransferRef,
		&p.OccurredAt, &p.CreatedAt,
		&p.ReportingCurrency, &p.ReportingGrossCents, &p.ReportingFeeCents, &p.ReportingNetCents,
		&p.ReportingExchangeRate, &p.ReportingRateSource, &rateTimestamp, &p.ReportingIsEstimated,
		&p.FeeMismatchDeltaCents,
	)
	if rateTimestamp != nil {
		p.ReportingRateTimestamp = *rateTimestamp
	}
	return p, err
}

// InsertPayment writes the single append-only financial fact row (spec §3
// lifecycle: "Payment is append-only"). The applier calls this as its own
// statement; it is not wrapped in a transaction with the subscription and
// activity writes that follow it.
func (q *Queries) InsertPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	const query = `
		INSERT INTO payments (
			subscription_id, creator_id, subscriber_id, amount_cents, currency,
			gross_cents, fee_cents, net_cents, creator_fee_cents, subscriber_fee_cents,
			fee_model, type, status, provider_event_id, provider_charge_ref, provider_transfer_ref,
			occurred_at,
			reporting_currency, reporting_gross_cents, reporting_fee_cents, reporting_net_cents,
			reporting_exchange_rate, reporting_rate_source, reporting_rate_timestamp, reporting_is_estimated,
			fee_mismatch_delta_cents
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING ` + paymentColumns

	row := q.db.QueryRow(ctx, query,
		p.SubscriptionID, p.CreatorID, p.SubscriberID, p.AmountCents, p.Currency,
		p.GrossCents, p.FeeCents, p.NetCents, p.CreatorFeeCents, p.SubscriberFeeCents,
		p.FeeModel, p.Type, p.Status, p.ProviderEventID, p.ProviderChargeRef, p.ProviderTransferRef,
		p.OccurredAt,
		p.ReportingCurrency, p.ReportingGrossCents, p.ReportingFeeCents, p.ReportingNetCents,
		p.ReportingExchangeRate, p.ReportingRateSource, p.ReportingRateTimestamp, p.ReportingIsEstimated,
		p.FeeMismatchDeltaCents,
	)
	created, err := scanPayment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Payment{}, errs.Wrap(errs.Conflict, "db: payment already recorded for this event", err)
		}
		return domain.Payment{}, errs.Wrap(errs.Internal, "db: insert payment", err)
	}
	return created, nil
}

// GetPaymentByProviderChargeRef returns (payment, found, err); found=false
// with err=nil is the common "no prior payment" case used by the webhook
// ingestor's short-circuit check (spec §4.4 step 5).
func (q *Queries) GetPaymentByProviderChargeRef(ctx context.Context, ref string) (domain.Payment, bool, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_charge_ref = $1 ORDER BY created_at DESC LIMIT 1`
	p, err := scanPayment(q.db.QueryRow(ctx, query, ref))
	if isNoRows(err) {
		return domain.Payment{}, false, nil
	}
	if err != nil {
		return domain.Payment{}, false, errs.Wrap(errs.Internal, "db: get payment by charge ref", err)
	}
	return p, true, nil
}

// GetPaymentByProviderEventID backs the applier's idempotent-retry path: if
// a Payment row was already inserted for this event id, the unique index on
// provider_event_id turns a second insert attempt into a Conflict that the
// applier resolves by fetching the existing row instead of erroring.
func (q *Queries) GetPaymentByProviderEventID(ctx context.Context, eventID string) (domain.Payment, bool, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_event_id = $1 LIMIT 1`
	p, err := scanPayment(q.db.QueryRow(ctx, query, eventID))
	if isNoRows(err) {
		return domain.Payment{}, false, nil
	}
	if err != nil {
		return domain.Payment{}, false, errs.Wrap(errs.Internal, "db: get payment by event id", err)
	}
	return p, true, nil
}

func (q *Queries) GetPaymentByProviderTransferRef(ctx context.Context, ref string) (domain.Payment, bool, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_transfer_ref = $1 ORDER BY created_at DESC LIMIT 1`
	p, err := scanPayment(q.db.QueryRow(ctx, query, ref))
	if isNoRows(err) {
		return domain.Payment{}, false, nil
	}
	if err != nil {
		return domain.Payment{}, false, errs.Wrap(errs.Internal, "db: get payment by transfer ref", err)
	}
	return p, true, nil
}

func (q *Queries) GetPaymentByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(q.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return domain.Payment{}, errs.New(errs.NotFound, "payment not found")
	}
	if err != nil {
		return domain.Payment{}, errs.Wrap(errs.Internal, "db: get payment by id", err)
	}
	return p, nil
}

func (q *Queries) SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	const query = `UPDATE payments SET status = $2 WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, status); err != nil {
		return errs.Wrap(errs.Internal, "db: set payment status", err)
	}
	return nil
}

func (q *Queries) ListStuckOTPPayouts(ctx context.Context, olderThan time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE type = 'payout' AND status = 'otp_pending' AND created_at <= $1`
	return q.queryPayments(ctx, query, olderThan)
}

func (q *Queries) ListRecentFailedPayments(ctx context.Context, since time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'failed' AND type IN ('recurring','one_time') AND occurred_at >= $1`
	return q.queryPayments(ctx, query, since)
}

func (q *Queries) CountRecentPayoutOutcomes(ctx context.Context, since time.Time) (succeeded, failed int, err error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'succeeded') AS succeeded,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		FROM payments WHERE type = 'payout' AND occurred_at >= $1`
	if scanErr := q.db.QueryRow(ctx, query, since).Scan(&succeeded, &failed); scanErr != nil {
		return 0, 0, errs.Wrap(errs.Internal, "db: count payout outcomes", scanErr)
	}
	return succeeded, failed, nil
}

// AggregatePaymentVolume rolls up gross/fee/net volume and payment count
// for every settled recurring/one_time payment in [since, now), for the
// stats-aggregate job.
func (q *Queries) AggregatePaymentVolume(ctx context.Context, since time.Time) (grossCents, feeCents, netCents int64, count int, err error) {
	const query = `
		SELECT
			COALESCE(SUM(gross_cents), 0), COALESCE(SUM(fee_cents), 0), COALESCE(SUM(net_cents), 0), COUNT(*)
		FROM payments
		WHERE type IN ('recurring', 'one_time') AND status = 'succeeded' AND occurred_at >= $1`
	if scanErr := q.db.QueryRow(ctx, query, since).Scan(&grossCents, &feeCents, &netCents, &count); scanErr != nil {
		return 0, 0, 0, 0, errs.Wrap(errs.Internal, "db: aggregate payment volume", scanErr)
	}
	return grossCents, feeCents, netCents, count, nil
}

// AggregatePayoutVolume rolls up payout volume over [since, now).
func (q *Queries) AggregatePayoutVolume(ctx context.Context, since time.Time) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(-amount_cents), 0) FROM payments
		WHERE type = 'payout' AND status = 'succeeded' AND occurred_at >= $1`
	var total int64
	if err := q.db.QueryRow(ctx, query, since).Scan(&total); err != nil {
		return 0, errs.Wrap(errs.Internal, "db: aggregate payout volume", err)
	}
	return total, nil
}

func (q *Queries) queryPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "db: list payments", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "db: scan payment row", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
