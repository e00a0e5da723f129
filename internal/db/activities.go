package db

import (
	"context"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

// InsertActivity appends one entry to the per-user activity log (spec §3:
// "Activity: append-only log"). The applier calls it after the
// Payment/Subscription write it describes, as a separate statement; the
// two are not committed in one transaction.
func (q *Queries) InsertActivity(ctx context.Context, a domain.Activity) error {
	const query = `INSERT INTO activities (user_id, type, payload) VALUES ($1, $2, $3)`
	if _, err := q.db.Exec(ctx, query, a.UserID, a.Type, a.Payload); err != nil {
		return errs.Wrap(errs.Internal, "db: insert activity", err)
	}
	return nil
}
