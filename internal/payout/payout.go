// Package payout is the Payout Engine (spec §4.7): resolve or create a
// cached transfer recipient, record the payout as a Payment row before ever
// calling the provider, then initiate the transfer. The webhook/applier path
// (internal/applier's ApplyTransfer) is what later marks the row succeeded,
// failed, or otp_pending.
package payout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/crypto"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/providers"
)

// Engine drives payouts over PROV-R, the only provider this platform
// routes creator payouts through (spec §4.7).
type Engine struct {
	queries db.Querier
	provR   providers.Adapter
	box     *crypto.Box
	logger  *zap.Logger
}

func New(queries db.Querier, provR providers.Adapter, box *crypto.Box, logger *zap.Logger) *Engine {
	return &Engine{queries: queries, provR: provR, box: box, logger: logger}
}

// InitiatePayout pays amountCents of creator's available balance out to
// their connected bank account.
func (e *Engine) InitiatePayout(ctx context.Context, creatorID uuid.UUID, amountCents int64, currency string) (domain.Payment, error) {
	creator, err := e.queries.GetCreator(ctx, creatorID)
	if err != nil {
		return domain.Payment{}, err
	}
	if creator.PayoutStatus != domain.PayoutStatusActive {
		return domain.Payment{}, errs.New(errs.Conflict, "payout: creator is not eligible for payout")
	}
	if !creator.HasProvR() {
		return domain.Payment{}, errs.New(errs.InvalidRequest, "payout: creator has no connected PROV-R account")
	}

	recipientCode, err := e.resolveRecipient(ctx, creator)
	if err != nil {
		return domain.Payment{}, err
	}

	// The Payment row is durable before the provider call runs, so a crash
	// between the two still leaves a pending row reconciliation
	// can pick up (spec §4.7 step 2).
	payment, err := e.queries.InsertPayment(ctx, domain.Payment{
		CreatorID:         creatorID,
		AmountCents:       -amountCents,
		Currency:          currency,
		GrossCents:        -amountCents,
		NetCents:          -amountCents,
		FeeModel:          domain.FeeModelSplitV1,
		Type:              domain.PaymentTypePayout,
		Status:            domain.PaymentStatusPending,
		OccurredAt:        nowFunc(),
		ReportingCurrency: "USD",
	})
	if err != nil {
		return domain.Payment{}, err
	}

	result, err := e.provR.InitiateTransfer(ctx, providers.TransferRequest{
		RecipientCode: recipientCode,
		AmountCents:   amountCents,
		Currency:      currency,
		Reason:        "creator payout",
	})
	if err != nil {
		_ = e.queries.SetPaymentStatus(ctx, payment.ID, domain.PaymentStatusFailed)
		return domain.Payment{}, err
	}

	status := domain.PaymentStatusPending
	switch {
	case result.RequiresOTP:
		status = domain.PaymentStatusOTPPending
	case result.Status == "success":
		status = domain.PaymentStatusSucceeded
	case result.Status == "failed":
		status = domain.PaymentStatusFailed
	}
	if err := e.queries.SetPaymentStatus(ctx, payment.ID, status); err != nil {
		return domain.Payment{}, err
	}
	payment.Status = status

	payload, _ := json.Marshal(map[string]any{"payment_id": payment.ID, "transfer_code": result.TransferCode})
	_ = e.queries.InsertActivity(ctx, domain.Activity{UserID: creatorID, Type: domain.ActivityPayoutInitiated, Payload: payload})

	return payment, nil
}

// FinalizeOTP completes a transfer stuck in otp_pending (spec §4.7 step 4).
func (e *Engine) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	return e.provR.FinalizeOTP(ctx, transferCode, otp)
}

// resolveRecipient returns the creator's cached transfer recipient code,
// creating and caching one on the provider if none exists yet.
func (e *Engine) resolveRecipient(ctx context.Context, creator domain.Creator) (string, error) {
	if creator.ProvRRecipientCode != "" {
		return creator.ProvRRecipientCode, nil
	}

	accountNumber, err := e.decryptAccountNumber(creator)
	if err != nil {
		return "", err
	}

	recipient, err := e.provR.CreateOrGetRecipient(ctx, creator.ID.String(), creator.ProvRBankCode, accountNumber)
	if err != nil {
		return "", err
	}

	fingerprint := fingerprintFor(creator.ProvRBankCode, accountNumber)
	if err := e.queries.UpdateCreatorProvRRecipient(ctx, creator.ID, recipient.RecipientCode, fingerprint); err != nil {
		return "", err
	}
	return recipient.RecipientCode, nil
}

func (e *Engine) decryptAccountNumber(creator domain.Creator) (string, error) {
	if len(creator.ProvREncryptedAcctNum) == 0 {
		return "", errs.New(errs.InvalidRequest, "payout: creator has no bank account on file")
	}
	plaintext, err := e.box.Open(creator.ProvREncryptedAcctNum)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// fingerprintFor derives a non-reversible identity for an account number so
// UpdateCreatorProvRRecipient's cache can be invalidated if the creator's
// bank details change without storing the plaintext account number again.
func fingerprintFor(bankCode, accountNumber string) string {
	sum := sha256.Sum256([]byte(bankCode + ":" + accountNumber))
	return hex.EncodeToString(sum[:])
}

// nowFunc is a seam for tests; production always uses time.Now.
var nowFunc = time.Now
