package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

// GetOrCreateSubscriberByEmail is an upsert-on-conflict so the applier can
// resolve a subscriber without a prior existence check racing another
// worker for the same email.
func (q *Queries) GetOrCreateSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	const query = `
		INSERT INTO subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, dispute_count, blocked_reason, created_at, updated_at`

	var s domain.Subscriber
	err := q.db.QueryRow(ctx, query, email).Scan(
		&s.ID, &s.Email, &s.DisputeCount, &s.BlockedReason, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Subscriber{}, errs.Wrap(errs.Internal, "db: get or create subscriber", err)
	}
	return s, nil
}

func (q *Queries) GetSubscriberByID(ctx context.Context, id uuid.UUID) (domain.Subscriber, error) {
	const query = `SELECT id, email, dispute_count, blocked_reason, created_at, updated_at FROM subscribers WHERE id = $1`
	var s domain.Subscriber
	err := q.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Email, &s.DisputeCount, &s.BlockedReason, &s.CreatedAt, &s.UpdatedAt,
	)
	if isNoRows(err) {
		return domain.Subscriber{}, errs.New(errs.NotFound, "subscriber not found")
	}
	if err != nil {
		return domain.Subscriber{}, errs.Wrap(errs.Internal, "db: get subscriber by id", err)
	}
	return s, nil
}

func (q *Queries) IncrementSubscriberDisputeCount(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE subscribers SET dispute_count = dispute_count + 1, updated_at = now() WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id); err != nil {
		return errs.Wrap(errs.Internal, "db: increment dispute count", err)
	}
	return nil
}

func (q *Queries) SetSubscriberBlocked(ctx context.Context, id uuid.UUID, reason string) error {
	const query = `UPDATE subscribers SET blocked_reason = $2, updated_at = now() WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, reason); err != nil {
		return errs.Wrap(errs.Internal, "db: block subscriber", err)
	}
	return nil
}

var errNoRows = pgx.ErrNoRows

func isNoRows(err error) bool {
	return errors.Is(err, errNoRows)
}
