// Package provg adapts Stripe (PROV-G, the global card processor) to the
// providers.Adapter interface, grounded on the teacher's
// libs/go/client/payment_sync/stripe package: a *stripe.Client built from an
// API key, V1* resource accessors, and webhook.ConstructEvent for signature
// verification.
package provg

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/providers"
)

// Adapter implements providers.Adapter against the Stripe API.
type Adapter struct {
	client        *stripe.Client
	webhookSecret string
	logger        *zap.Logger
}

// New builds a PROV-G adapter. apiKey and webhookSecret come from
// config.Config.ProvGSecret / ProvGWebhookSecret.
func New(apiKey, webhookSecret string, logger *zap.Logger) *Adapter {
	return &Adapter{
		client:        stripe.NewClient(apiKey, nil),
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (a *Adapter) Name() string { return "prov_g" }

// CreateSession opens a Stripe Checkout Session, recurring or one-time
// depending on req.Interval.
func (a *Adapter) CreateSession(ctx context.Context, req providers.CheckoutSessionRequest) (providers.CheckoutSession, error) {
	mode := string(stripe.CheckoutSessionModePayment)
	if req.Interval == "month" {
		mode = string(stripe.CheckoutSessionModeSubscription)
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(mode),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String("Subscription"),
					},
				},
			},
		},
		Metadata: req.Metadata,
	}
	if req.SubscriberEmail != "" {
		params.CustomerEmail = stripe.String(req.SubscriberEmail)
	}
	if req.CreatorAccountID != "" {
		params.PaymentIntentData = &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionCreatePaymentIntentDataTransferDataParams{
				Destination: stripe.String(req.CreatorAccountID),
			},
		}
	}

	sess, err := session.New(params)
	if err != nil {
		return providers.CheckoutSession{}, classifyStripeErr(err, "provg: create checkout session")
	}

	return providers.CheckoutSession{URL: sess.URL, SessionID: sess.ID}, nil
}

func (a *Adapter) CancelSubscription(ctx context.Context, providerSubscriptionID string, atPeriodEnd bool) error {
	if atPeriodEnd {
		_, err := a.client.V1Subscriptions.Update(ctx, providerSubscriptionID, &stripe.SubscriptionUpdateParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
		if err != nil {
			return classifyStripeErr(err, "provg: schedule cancel at period end")
		}
		return nil
	}

	_, err := a.client.V1Subscriptions.Cancel(ctx, providerSubscriptionID, &stripe.SubscriptionCancelParams{})
	if err != nil {
		return classifyStripeErr(err, "provg: cancel subscription")
	}
	return nil
}

func (a *Adapter) Reactivate(ctx context.Context, providerSubscriptionID string) error {
	_, err := a.client.V1Subscriptions.Update(ctx, providerSubscriptionID, &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	})
	if err != nil {
		return classifyStripeErr(err, "provg: reactivate subscription")
	}
	return nil
}

func (a *Adapter) ResolveAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	return "", errs.New(errs.InvalidRequest, "provg: bank account resolution is a PROV-R operation")
}

func (a *Adapter) CreateOrGetRecipient(ctx context.Context, creatorID, bankCode, accountNumber string) (providers.TransferRecipient, error) {
	return providers.TransferRecipient{}, errs.New(errs.InvalidRequest, "provg: transfer recipients are a PROV-R concept; PROV-G pays out via platform balance")
}

func (a *Adapter) InitiateTransfer(ctx context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	return providers.TransferResult{}, errs.New(errs.InvalidRequest, "provg: payouts are not orchestrated through this adapter")
}

func (a *Adapter) FinalizeOTP(ctx context.Context, transferCode, otp string) error {
	return errs.New(errs.InvalidRequest, "provg: OTP finalize is PROV-R specific")
}

func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (providers.ProviderTransaction, error) {
	charge, err := a.client.V1Charges.Retrieve(ctx, reference, nil)
	if err != nil {
		return providers.ProviderTransaction{}, classifyStripeErr(err, "provg: retrieve charge")
	}

	return providers.ProviderTransaction{
		Reference:   charge.ID,
		Status:      string(charge.Status),
		AmountCents: charge.Amount,
		Currency:    string(charge.Currency),
		CreatorID:   charge.Metadata["creator_id"],
		OccurredAt:  time.Unix(charge.Created, 0),
	}, nil
}

// ListTransactionsSince lists charges of every status created since `since`, for the
// nightly reconciliation sweep (spec §4.11).
func (a *Adapter) ListTransactionsSince(ctx context.Context, since time.Time) ([]providers.ProviderTransaction, error) {
	params := &stripe.ChargeListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: since.Unix(),
		},
	}

	var out []providers.ProviderTransaction
	for charge, err := range a.client.V1Charges.List(ctx, params) {
		if err != nil {
			return nil, classifyStripeErr(err, "provg: list charges")
		}
		out = append(out, providers.ProviderTransaction{
			Reference:   charge.ID,
			Status:      string(charge.Status),
			AmountCents: charge.Amount,
			Currency:    string(charge.Currency),
			CreatorID:   charge.Metadata["creator_id"],
			SubscriberEmail: charge.Metadata["subscriber_email"],
			OccurredAt:  time.Unix(charge.Created, 0),
		})
	}
	return out, nil
}

// ChargeStoredAuthorization is not a PROV-G concept: Stripe drives its own
// recurring billing cycle and reports results as invoice webhooks.
func (a *Adapter) ChargeStoredAuthorization(ctx context.Context, authCode string, amountCents int64, currency, reference string) (providers.ProviderTransaction, error) {
	return providers.ProviderTransaction{}, errs.New(errs.InvalidRequest, "provg: recurring billing is provider-driven, not caller-initiated")
}

// GetBalance reads the platform Stripe account's available balance.
// accountID is accepted for interface symmetry with provr but unused:
// Stripe's Balance API always reports the authenticated platform account,
// since creator funds sit in destination-charge transfers, not sub-balances.
func (a *Adapter) GetBalance(ctx context.Context, accountID string) (int64, string, error) {
	bal, err := a.client.V1Balance.Get(ctx, nil)
	if err != nil {
		return 0, "", classifyStripeErr(err, "provg: get balance")
	}
	for _, avail := range bal.Available {
		return avail.Amount, string(avail.Currency), nil
	}
	return 0, "", nil
}

// VerifyWebhookSignature validates and parses a raw PROV-G webhook body,
// returning the decoded event for the ingestor to key and dispatch.
func (a *Adapter) VerifyWebhookSignature(body []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(body, signatureHeader, a.webhookSecret)
	if err != nil {
		a.logger.Error("provg: webhook signature verification failed", zap.Error(err))
		return nil, errs.Wrap(errs.SignatureInvalid, "provg: signature verification failed", err)
	}
	return &event, nil
}

func classifyStripeErr(err error, context string) error {
	var stripeErr *stripe.Error
	if se, ok := err.(*stripe.Error); ok {
		stripeErr = se
	}
	if stripeErr == nil {
		return errs.Wrap(errs.Internal, context, err)
	}

	switch stripeErr.Type {
	case stripe.ErrorTypeInvalidRequest:
		if stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return errs.Wrap(errs.ProviderPermanent, fmt.Sprintf("%s: resource missing", context), err)
		}
		return errs.Wrap(errs.InvalidRequest, context, err)
	case stripe.ErrorTypeAPIConnection, stripe.ErrorTypeRateLimit:
		return errs.Wrap(errs.ProviderUnavailable, context, err)
	default:
		return errs.Wrap(errs.ProviderPermanent, context, err)
	}
}
