// Package checkout implements the Checkout Initiator (spec §4.3): validate
// the request, dedupe a double-clicked submit, route to a provider, and open
// a session. It never writes a Subscription row — that happens only once the
// charge actually succeeds, in internal/applier.
package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/feeengine"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/idempotency"
	"github.com/creatorpay/platform/internal/providers"
	"github.com/creatorpay/platform/internal/router"
)

// Request is the checkout initiation input, straight off the public API.
type Request struct {
	CreatorID       uuid.UUID
	SubscriberEmail string
	AmountCents     int64
	Currency        string
	Interval        domain.SubscriptionInterval
	PayerCountry    string // untrusted, client-reported
}

// Result is what the caller returns to the client.
type Result struct {
	URL       string
	Provider  domain.Provider
	SessionID string
}

// Initiator wires together routing, validation, dedupe, and the chosen
// provider adapter.
type Initiator struct {
	queries db.Querier
	dedupe  *idempotency.CheckoutDedupeStore
	provG   providers.Adapter
	provR   providers.Adapter
	fx      *fx.Client
	cfg     *config.Config
	logger  *zap.Logger
}

func New(queries db.Querier, dedupe *idempotency.CheckoutDedupeStore, provG, provR providers.Adapter, fxClient *fx.Client, cfg *config.Config, logger *zap.Logger) *Initiator {
	return &Initiator{queries: queries, dedupe: dedupe, provG: provG, provR: provR, fx: fxClient, cfg: cfg, logger: logger}
}

// Initiate runs spec §4.3's steps in this order: validate, route (checking
// the minimum for PROV-G), dedupe, open session.
func (in *Initiator) Initiate(ctx context.Context, req Request) (Result, error) {
	if req.AmountCents <= 0 {
		return Result{}, errs.New(errs.InvalidRequest, "checkout: amount must be positive")
	}

	creator, err := in.queries.GetCreator(ctx, req.CreatorID)
	if err != nil {
		return Result{}, err
	}
	if creator.PayoutStatus == domain.PayoutStatusDisabled {
		return Result{}, errs.New(errs.InvalidRequest, "checkout: creator payouts are disabled")
	}

	route, err := router.Pick(router.Request{Creator: &creator, PayerCountry: req.PayerCountry})
	if err != nil {
		return Result{}, err
	}

	if route.Provider == domain.ProviderG {
		if err := in.validateMinimum(ctx, creator, req); err != nil {
			return Result{}, err
		}
	}

	dedupeKey := idempotency.CheckoutDedupeKey(req.CreatorID.String(), req.SubscriberEmail, req.AmountCents)
	if priorURL, found, err := in.dedupe.GetPriorSession(ctx, dedupeKey); err == nil && found {
		in.logger.Info("checkout: returning deduped session", zap.String("dedupe_key", dedupeKey))
		return Result{URL: priorURL, Provider: route.Provider}, nil
	}

	adapter, accountID := in.provG, creator.ProvGAccountID
	if route.Provider == domain.ProviderR {
		adapter, accountID = in.provR, creator.ProvRSubaccountCode
	}

	session, err := adapter.CreateSession(ctx, providers.CheckoutSessionRequest{
		CreatorAccountID: accountID,
		AmountCents:      req.AmountCents,
		Currency:         req.Currency,
		Interval:         string(req.Interval),
		SubscriberEmail:  req.SubscriberEmail,
		SuccessURL:       in.cfg.PublicPageURL + "/checkout/success",
		CancelURL:        in.cfg.PublicPageURL + "/checkout/cancel",
		Metadata:         map[string]string{"creator_id": req.CreatorID.String()},
	})
	if err != nil {
		return Result{}, err
	}

	if err := in.dedupe.StoreSession(ctx, dedupeKey, session.URL); err != nil {
		in.logger.Warn("checkout: failed to store dedupe session, a double submit may open twice", zap.Error(err))
	}

	return Result{URL: session.URL, Provider: route.Provider, SessionID: session.SessionID}, nil
}

// validateMinimum rejects amounts under the creator's break-even floor
// (spec §4.1), for PROV-G checkouts only — PROV-R creators bypass the
// dynamic minimum in favor of the regional floor baked into
// feeengine.MinimumForCountry's own corridor table. Subscriber count is
// unknown at checkout time, so this uses the conservative single-subscriber
// floor; the creator dashboard's /config/my-minimum read uses the live count.
func (in *Initiator) validateMinimum(ctx context.Context, creator domain.Creator, req Request) error {
	usdToLocalRate := 1.0
	if rate, err := in.fx.RateToUSD(ctx, req.Currency); err == nil && rate > 0 {
		usdToLocalRate = 1.0 / rate
	}

	min := feeengine.MinimumForCountry(creator.Country, 1, req.Currency, usdToLocalRate)
	if req.AmountCents < min.MinimumLocal {
		return errs.New(errs.InvalidRequest, "checkout: amount is below the minimum sustainable price")
	}
	return nil
}
