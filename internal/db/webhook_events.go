package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

const webhookEventColumns = `
	id, provider, event_id, event_type, status, retry_count, payment_id,
	payload, failure_reason, created_at, processed_at`

func scanWebhookEvent(row interface {
	Scan(dest ...interface{}) error
}) (domain.WebhookEvent, error) {
	var w domain.WebhookEvent
	err := row.Scan(
		&w.ID, &w.Provider, &w.EventID, &w.EventType, &w.Status, &w.RetryCount, &w.PaymentID,
		&w.Payload, &w.FailureReason, &w.CreatedAt, &w.ProcessedAt,
	)
	return w, err
}

// UpsertWebhookEvent implements spec §4.4 step 3: insert on first sight with
// status=received; on conflict, increment retry_count and return the
// existing row so the caller can check its status before re-processing.
func (q *Queries) UpsertWebhookEvent(ctx context.Context, provider domain.Provider, eventID, eventType string, payload []byte) (domain.WebhookEvent, bool, error) {
	const query = `
		INSERT INTO webhook_events (provider, event_id, event_type, status, payload)
		VALUES ($1, $2, $3, 'received', $4)
		ON CONFLICT (event_id) DO UPDATE SET retry_count = webhook_events.retry_count + 1
		RETURNING ` + webhookEventColumns + `, (xmax = 0) AS inserted`

	var w domain.WebhookEvent
	var inserted bool
	err := q.db.QueryRow(ctx, query, provider, eventID, eventType, payload).Scan(
		&w.ID, &w.Provider, &w.EventID, &w.EventType, &w.Status, &w.RetryCount, &w.PaymentID,
		&w.Payload, &w.FailureReason, &w.CreatedAt, &w.ProcessedAt, &inserted,
	)
	if err != nil {
		return domain.WebhookEvent{}, false, errs.Wrap(errs.Internal, "db: upsert webhook event", err)
	}
	return w, inserted, nil
}

func (q *Queries) GetWebhookEventByProviderChargeRef(ctx context.Context, paymentType domain.PaymentType, providerChargeRef string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM payments WHERE type = $1 AND provider_charge_ref = $2
		)`
	var exists bool
	if err := q.db.QueryRow(ctx, query, paymentType, providerChargeRef).Scan(&exists); err != nil {
		return false, errs.Wrap(errs.Internal, "db: check existing payment by charge ref", err)
	}
	return exists, nil
}

func (q *Queries) MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error {
	const query = `UPDATE webhook_events SET status = 'processed', processed_at = now(), payment_id = $2 WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, paymentID); err != nil {
		return errs.Wrap(errs.Internal, "db: mark webhook event processed", err)
	}
	return nil
}

func (q *Queries) MarkWebhookEventSkipped(ctx context.Context, id uuid.UUID, paymentID *uuid.UUID) error {
	const query = `UPDATE webhook_events SET status = 'skipped', processed_at = now(), payment_id = $2 WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, paymentID); err != nil {
		return errs.Wrap(errs.Internal, "db: mark webhook event skipped", err)
	}
	return nil
}

func (q *Queries) MarkWebhookEventFailed(ctx context.Context, id uuid.UUID, reason string) error {
	const query = `UPDATE webhook_events SET status = 'failed', failure_reason = $2 WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, reason); err != nil {
		return errs.Wrap(errs.Internal, "db: mark webhook event failed", err)
	}
	return nil
}

func (q *Queries) MarkWebhookEventDeadLetter(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE webhook_events SET status = 'dead_letter' WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id); err != nil {
		return errs.Wrap(errs.Internal, "db: mark webhook event dead letter", err)
	}
	return nil
}

func (q *Queries) ListDeadLetterCandidates(ctx context.Context, maxRetries int) ([]domain.WebhookEvent, error) {
	query := `SELECT ` + webhookEventColumns + ` FROM webhook_events WHERE status = 'failed' AND retry_count >= $1`
	rows, err := q.db.Query(ctx, query, maxRetries)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "db: list dead letter candidates", err)
	}
	defer rows.Close()

	var out []domain.WebhookEvent
	for rows.Next() {
		w, err := scanWebhookEvent(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "db: scan webhook event row", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (q *Queries) GetWebhookEventByID(ctx context.Context, id uuid.UUID) (domain.WebhookEvent, error) {
	query := `SELECT ` + webhookEventColumns + ` FROM webhook_events WHERE id = $1`
	w, err := scanWebhookEvent(q.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return domain.WebhookEvent{}, errs.New(errs.NotFound, "webhook event not found")
	}
	if err != nil {
		return domain.WebhookEvent{}, errs.Wrap(errs.Internal, "db: get webhook event by id", err)
	}
	return w, nil
}
