package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/errs"
)

// HasNotificationBeenSent and MarkNotificationSent back the idempotency
// check that must run inside the notification lock (spec §4.9: "the applier
// must always perform the unique-log check inside the lock").
func (q *Queries) HasNotificationBeenSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM notification_logs WHERE subscription_id = $1 AND type = $2)`
	var exists bool
	if err := q.db.QueryRow(ctx, query, subscriptionID, notifType).Scan(&exists); err != nil {
		return false, errs.Wrap(errs.Internal, "db: check notification log", err)
	}
	return exists, nil
}

func (q *Queries) MarkNotificationSent(ctx context.Context, subscriptionID uuid.UUID, notifType string) error {
	const query = `
		INSERT INTO notification_logs (subscription_id, type)
		VALUES ($1, $2)
		ON CONFLICT (subscription_id, type) DO NOTHING`
	if _, err := q.db.Exec(ctx, query, subscriptionID, notifType); err != nil {
		return errs.Wrap(errs.Internal, "db: mark notification sent", err)
	}
	return nil
}
