package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
)

func (q *Queries) GetCreator(ctx context.Context, id uuid.UUID) (domain.Creator, error) {
	const query = `
		SELECT id, default_provider, country, currency, purpose, payout_status,
		       prov_g_account_id, prov_r_subaccount_code, prov_r_bank_code,
		       prov_r_account_last4, prov_r_recipient_code, prov_r_bank_fingerprint,
		       fee_mode_override, created_at, updated_at
		FROM creators WHERE id = $1`

	var c domain.Creator
	err := q.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.DefaultProvider, &c.Country, &c.Currency, &c.Purpose, &c.PayoutStatus,
		&c.ProvGAccountID, &c.ProvRSubaccountCode, &c.ProvRBankCode,
		&c.ProvRAccountLast4, &c.ProvRRecipientCode, &c.ProvRBankFingerprint,
		&c.FeeModeOverride, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Creator{}, errs.New(errs.NotFound, "creator not found")
	}
	if err != nil {
		return domain.Creator{}, errs.Wrap(errs.Internal, "db: get creator", err)
	}
	return c, nil
}

func (q *Queries) UpdateCreatorPayoutStatus(ctx context.Context, id uuid.UUID, status domain.PayoutStatus) error {
	const query = `UPDATE creators SET payout_status = $2, updated_at = now() WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, status); err != nil {
		return errs.Wrap(errs.Internal, "db: update creator payout status", err)
	}
	return nil
}

func (q *Queries) UpdateCreatorProvRRecipient(ctx context.Context, id uuid.UUID, recipientCode, bankFingerprint string) error {
	const query = `
		UPDATE creators
		SET prov_r_recipient_code = $2, prov_r_bank_fingerprint = $3, updated_at = now()
		WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, recipientCode, bankFingerprint); err != nil {
		return errs.Wrap(errs.Internal, "db: cache transfer recipient", err)
	}
	return nil
}

// ListCreatorsByPurpose enumerates creators for the payroll job, which only
// cuts payouts for service-purpose (registered business) creators.
func (q *Queries) ListCreatorsByPurpose(ctx context.Context, purpose domain.CreatorPurpose) ([]domain.Creator, error) {
	const query = `
		SELECT id, default_provider, country, currency, purpose, payout_status,
		       prov_g_account_id, prov_r_subaccount_code, prov_r_bank_code,
		       prov_r_account_last4, prov_r_recipient_code, prov_r_bank_fingerprint,
		       fee_mode_override, created_at, updated_at
		FROM creators WHERE purpose = $1 AND payout_status = 'active'`
	rows, err := q.db.Query(ctx, query, purpose)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "db: list creators by purpose", err)
	}
	defer rows.Close()

	var out []domain.Creator
	for rows.Next() {
		var c domain.Creator
		if err := rows.Scan(
			&c.ID, &c.DefaultProvider, &c.Country, &c.Currency, &c.Purpose, &c.PayoutStatus,
			&c.ProvGAccountID, &c.ProvRSubaccountCode, &c.ProvRBankCode,
			&c.ProvRAccountLast4, &c.ProvRRecipientCode, &c.ProvRBankFingerprint,
			&c.FeeModeOverride, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, errs.Wrap(errs.Internal, "db: scan creator row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListConnectedCreators enumerates every creator with at least one provider
// binding, for the sync-balances job.
func (q *Queries) ListConnectedCreators(ctx context.Context) ([]domain.Creator, error) {
	const query = `
		SELECT id, default_provider, country, currency, purpose, payout_status,
		       prov_g_account_id, prov_r_subaccount_code, prov_r_bank_code,
		       prov_r_account_last4, prov_r_recipient_code, prov_r_bank_fingerprint,
		       fee_mode_override, created_at, updated_at
		FROM creators WHERE prov_g_account_id <> '' OR prov_r_subaccount_code <> ''`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "db: list connected creators", err)
	}
	defer rows.Close()

	var out []domain.Creator
	for rows.Next() {
		var c domain.Creator
		if err := rows.Scan(
			&c.ID, &c.DefaultProvider, &c.Country, &c.Currency, &c.Purpose, &c.PayoutStatus,
			&c.ProvGAccountID, &c.ProvRSubaccountCode, &c.ProvRBankCode,
			&c.ProvRAccountLast4, &c.ProvRRecipientCode, &c.ProvRBankFingerprint,
			&c.FeeModeOverride, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, errs.Wrap(errs.Internal, "db: scan creator row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCreatorBalanceCache stores the last balance the sync-balances job
// read back from a provider.
func (q *Queries) UpdateCreatorBalanceCache(ctx context.Context, id uuid.UUID, amountCents int64, currency string) error {
	const query = `
		UPDATE creators
		SET balance_cache_cents = $2, balance_cache_currency = $3, balance_cache_updated_at = now(), updated_at = now()
		WHERE id = $1`
	if _, err := q.db.Exec(ctx, query, id, amountCents, currency); err != nil {
		return errs.Wrap(errs.Internal, "db: update creator balance cache", err)
	}
	return nil
}
