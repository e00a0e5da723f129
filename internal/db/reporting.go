package db

import (
	"context"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

// CountActiveSubscriptions is the active-subscription figure rolled into
// each day's reporting snapshot.
func (q *Queries) CountActiveSubscriptions(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`
	var count int
	if err := q.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, errs.Wrap(errs.Internal, "db: count active subscriptions", err)
	}
	return count, nil
}

// UpsertReportingSnapshot writes or replaces the day's rollup, so a
// re-run of the stats-aggregate job for the same date is idempotent.
func (q *Queries) UpsertReportingSnapshot(ctx context.Context, s domain.ReportingSnapshot) error {
	const query = `
		INSERT INTO reporting_snapshots (
			snapshot_date, gross_volume_cents, fee_volume_cents, net_volume_cents,
			payment_count, active_subscriptions, payout_volume_cents
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			gross_volume_cents = EXCLUDED.gross_volume_cents,
			fee_volume_cents = EXCLUDED.fee_volume_cents,
			net_volume_cents = EXCLUDED.net_volume_cents,
			payment_count = EXCLUDED.payment_count,
			active_subscriptions = EXCLUDED.active_subscriptions,
			payout_volume_cents = EXCLUDED.payout_volume_cents`
	if _, err := q.db.Exec(ctx, query,
		s.SnapshotDate, s.GrossVolumeCents, s.FeeVolumeCents, s.NetVolumeCents,
		s.PaymentCount, s.ActiveSubscriptions, s.PayoutVolumeCents,
	); err != nil {
		return errs.Wrap(errs.Internal, "db: upsert reporting snapshot", err)
	}
	return nil
}
