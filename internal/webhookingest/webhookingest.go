// Package webhookingest is the Webhook Ingestor (spec §4.4): verify the
// provider's signature, compute the durable dedupe key, record the event,
// and hand off to the Event Applier — either inline or via a queue.Publisher,
// so the HTTP handler returns 200 to the provider before the heavy work runs.
package webhookingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/events"
	"github.com/creatorpay/platform/internal/providers/provg"
	"github.com/creatorpay/platform/internal/providers/provr"
	"github.com/creatorpay/platform/internal/queue"
)

// Ingestor receives raw provider webhook bodies and a separate Process
// entry point that a queue worker (inline or SQS-backed) drives.
type Ingestor struct {
	queries   db.Querier
	applier   *applier.Applier
	publisher queue.Publisher
	provG     *provg.Adapter
	provR     *provr.Adapter
	logger    *zap.Logger
}

func New(queries db.Querier, app *applier.Applier, publisher queue.Publisher, provG *provg.Adapter, provR *provr.Adapter, logger *zap.Logger) *Ingestor {
	return &Ingestor{queries: queries, applier: app, publisher: publisher, provG: provG, provR: provR, logger: logger}
}

// IngestProvG verifies and records a Stripe webhook delivery, then enqueues
// it for processing (spec §4.4 steps 1-4).
func (i *Ingestor) IngestProvG(ctx context.Context, body []byte, signatureHeader string) error {
	event, err := i.provG.VerifyWebhookSignature(body, signatureHeader)
	if err != nil {
		return err
	}
	return i.ingest(ctx, domain.ProviderG, event.ID, string(event.Type), body, event.Data.Raw)
}

type provREnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// IngestProvR verifies and records a PROV-R webhook delivery. PROV-R has no
// provider-issued event id, so the durable key is synthesized from the event
// type and the transaction/transfer reference per spec §4.4's key format.
func (i *Ingestor) IngestProvR(ctx context.Context, body []byte, signatureHex string) error {
	if !i.provR.VerifyWebhookSignature(body, signatureHex) {
		return errs.New(errs.SignatureInvalid, "webhookingest: prov_r signature invalid")
	}

	var env provREnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errs.Wrap(errs.InvalidRequest, "webhookingest: decode prov_r envelope", err)
	}

	ref := extractRef(env.Data)
	eventID := fmt.Sprintf("prov-r_%s_%s", env.Event, ref)
	return i.ingest(ctx, domain.ProviderR, eventID, env.Event, body, env.Data)
}

func (i *Ingestor) ingest(ctx context.Context, provider domain.Provider, eventID, eventType string, fullPayload, dataRaw []byte) error {
	w, inserted, err := i.queries.UpsertWebhookEvent(ctx, provider, eventID, eventType, fullPayload)
	if err != nil {
		return err
	}
	if !inserted && (w.Status == domain.WebhookProcessed || w.Status == domain.WebhookSkipped) {
		i.logger.Info("webhookingest: duplicate delivery, already settled",
			zap.String("event_id", eventID), zap.String("status", string(w.Status)))
		return nil
	}

	if chargeRef := chargeRefForShortCircuit(provider, eventType, dataRaw); chargeRef != "" {
		exists, err := i.queries.GetWebhookEventByProviderChargeRef(ctx, domain.PaymentTypeRecurring, chargeRef)
		if err == nil && exists {
			_ = i.queries.MarkWebhookEventSkipped(ctx, w.ID, nil)
			return nil
		}
	}

	msg := queue.Message{EventID: w.ID, Provider: string(provider), EventType: eventType, Payload: dataRaw, Attempt: w.RetryCount}
	if err := i.publisher.Publish(ctx, msg); err != nil {
		_ = i.queries.MarkWebhookEventFailed(ctx, w.ID, err.Error())
		return err
	}
	return nil
}

// Process is the queue.Handler: decode the typed event from msg.Payload and
// drive it through the applier, then settle the WebhookEvent row's status.
func (i *Ingestor) Process(ctx context.Context, msg queue.Message) error {
	w, err := i.queries.GetWebhookEventByID(ctx, msg.EventID)
	if err != nil {
		return err
	}

	var paymentID *uuid.UUID
	var appErr error
	switch domain.Provider(msg.Provider) {
	case domain.ProviderG:
		paymentID, appErr = i.processProvG(ctx, w.EventType, w.EventID, msg.Payload)
	case domain.ProviderR:
		paymentID, appErr = i.processProvR(ctx, w.EventType, w.EventID, msg.Payload)
	default:
		appErr = errs.New(errs.InvalidRequest, "webhookingest: unknown provider "+msg.Provider)
	}

	if appErr != nil {
		if errs.Is(appErr, errs.Conflict) {
			_ = i.queries.MarkWebhookEventSkipped(ctx, w.ID, paymentID)
			return nil
		}
		if !errs.Retryable(appErr) {
			i.logger.Error("webhookingest: permanent failure applying event, dead-lettering",
				zap.String("event_id", w.EventID), zap.Error(appErr))
			_ = i.queries.MarkWebhookEventDeadLetter(ctx, w.ID)
			return nil
		}
		_ = i.queries.MarkWebhookEventFailed(ctx, w.ID, appErr.Error())
		return appErr
	}

	return i.queries.MarkWebhookEventProcessed(ctx, w.ID, paymentID)
}

// --- PROV-G (Stripe) payload shapes -----------------------------------
//
// These mirror only the fields the core reads off the raw event, not the
// full stripe-go resource types: the ingestor is the one place allowed to
// know the provider's wire shape (spec §9).

type stripeCheckoutSession struct {
	ID              string            `json:"id"`
	Mode            string            `json:"mode"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentIntent   string            `json:"payment_intent"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
	Created  int64             `json:"created"`
}

type stripeInvoice struct {
	ID            string `json:"id"`
	Subscription  string `json:"subscription"`
	CustomerEmail string `json:"customer_email"`
	AmountPaid    int64  `json:"amount_paid"`
	Currency      string `json:"currency"`
	Charge        string `json:"charge"`
	Lines         struct {
		Data []struct {
			Period struct {
				End int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
	Metadata map[string]string `json:"metadata"`
	Created  int64             `json:"created"`
}

type stripeSubscription struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
}

type stripeCharge struct {
	ID             string `json:"id"`
	AmountRefunded int64  `json:"amount_refunded"`
	Created        int64  `json:"created"`
}

type stripeDispute struct {
	Charge  string `json:"charge"`
	Status  string `json:"status"` // "won" | "lost" | other in-progress states
	Amount  int64  `json:"amount"`
	Created int64  `json:"created"`
}

func (i *Ingestor) processProvG(ctx context.Context, eventType, providerEventID string, raw []byte) (*uuid.UUID, error) {
	switch eventType {
	case "checkout.session.completed":
		var s stripeCheckoutSession
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode checkout session", err)
		}
		if s.Mode != "payment" {
			// Subscription-mode sessions are settled by invoice.paid instead.
			return nil, nil
		}
		chargeRef := s.PaymentIntent
		if chargeRef == "" {
			chargeRef = s.ID
		}
		payment, err := i.applier.ApplyChargeSucceeded(ctx, events.ChargeSucceeded{
			Provider:          domain.ProviderG,
			ProviderEventID:   providerEventID,
			ProviderChargeRef: chargeRef,
			CreatorID:         s.Metadata["creator_id"],
			SubscriberEmail:   s.CustomerDetails.Email,
			AmountCents:       s.AmountTotal,
			Currency:          normalizeCurrency(s.Currency),
			Interval:          domain.IntervalOneTime,
			OccurredAt:        time.Unix(s.Created, 0),
			PeriodEnd:         time.Unix(s.Created, 0),
		})
		return paymentIDPtr(payment, err), err

	case "invoice.paid", "invoice.payment_succeeded":
		var inv stripeInvoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode invoice", err)
		}
		var periodEnd time.Time
		if len(inv.Lines.Data) > 0 {
			periodEnd = time.Unix(inv.Lines.Data[0].Period.End, 0)
		}
		payment, err := i.applier.ApplyChargeSucceeded(ctx, events.ChargeSucceeded{
			Provider:               domain.ProviderG,
			ProviderEventID:        providerEventID,
			ProviderChargeRef:      inv.Charge,
			ProviderSubscriptionID: inv.Subscription,
			CreatorID:              inv.Metadata["creator_id"],
			SubscriberEmail:        inv.CustomerEmail,
			AmountCents:            inv.AmountPaid,
			Currency:               normalizeCurrency(inv.Currency),
			Interval:               domain.IntervalMonth,
			OccurredAt:             time.Unix(inv.Created, 0),
			PeriodEnd:              periodEnd,
		})
		return paymentIDPtr(payment, err), err

	case "invoice.payment_failed":
		var inv stripeInvoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode invoice", err)
		}
		var periodEnd time.Time
		if len(inv.Lines.Data) > 0 {
			periodEnd = time.Unix(inv.Lines.Data[0].Period.End, 0)
		}
		err := i.applier.ApplySubscriptionLifecycle(ctx, events.SubscriptionLifecycle{
			Provider:               domain.ProviderG,
			ProviderEventID:        providerEventID,
			ProviderSubscriptionID: inv.Subscription,
			Kind:                   events.LifecyclePaymentFailed,
			FailedPeriodEnd:        periodEnd,
			OccurredAt:             time.Unix(inv.Created, 0),
		})
		return nil, err

	case "customer.subscription.updated":
		var sub stripeSubscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode subscription", err)
		}
		err := i.applier.ApplySubscriptionLifecycle(ctx, events.SubscriptionLifecycle{
			Provider:               domain.ProviderG,
			ProviderEventID:        providerEventID,
			ProviderSubscriptionID: sub.ID,
			Kind:                   events.LifecycleUpdated,
			OccurredAt:             time.Now(),
		})
		return nil, err

	case "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode subscription", err)
		}
		err := i.applier.ApplySubscriptionLifecycle(ctx, events.SubscriptionLifecycle{
			Provider:               domain.ProviderG,
			ProviderEventID:        providerEventID,
			ProviderSubscriptionID: sub.ID,
			Kind:                   events.LifecycleDeleted,
			ImmediateCancel:        true,
			OccurredAt:             time.Now(),
		})
		return nil, err

	case "charge.refunded":
		var charge stripeCharge
		if err := json.Unmarshal(raw, &charge); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode charge", err)
		}
		payment, err := i.applier.ApplyRefund(ctx, events.Refund{
			Provider:          domain.ProviderG,
			ProviderEventID:   providerEventID,
			ProviderChargeRef: charge.ID,
			RefundAmountCents: charge.AmountRefunded,
			OccurredAt:        time.Unix(charge.Created, 0),
		})
		return paymentIDPtr(payment, err), err

	case "charge.dispute.closed":
		var dispute stripeDispute
		if err := json.Unmarshal(raw, &dispute); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode dispute", err)
		}
		outcome := "lost"
		if dispute.Status == "won" {
			outcome = "won"
		}
		payment, err := i.applier.ApplyRefund(ctx, events.Refund{
			Provider:          domain.ProviderG,
			ProviderEventID:   providerEventID,
			ProviderChargeRef: dispute.Charge,
			RefundAmountCents: dispute.Amount,
			IsDispute:         true,
			DisputeOutcome:    outcome,
			OccurredAt:        time.Unix(dispute.Created, 0),
		})
		return paymentIDPtr(payment, err), err

	default:
		i.logger.Debug("webhookingest: unhandled prov_g event type", zap.String("event_type", eventType))
		return nil, nil
	}
}

// --- PROV-R payload shapes ---------------------------------------------

type provrChargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata map[string]string `json:"metadata"`
	PaidAt   time.Time         `json:"paid_at"`
}

type provrTransferData struct {
	Reference         string `json:"reference"`
	FailureIsAccount  bool   `json:"failure_is_account"`
}

func (i *Ingestor) processProvR(ctx context.Context, eventType, providerEventID string, raw []byte) (*uuid.UUID, error) {
	switch eventType {
	case "charge.success":
		var d provrChargeData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode prov_r charge", err)
		}
		occurredAt := d.PaidAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}
		payment, err := i.applier.ApplyChargeSucceeded(ctx, events.ChargeSucceeded{
			Provider:          domain.ProviderR,
			ProviderEventID:   providerEventID,
			ProviderChargeRef: d.Reference,
			CreatorID:         d.Metadata["creator_id"],
			SubscriberEmail:   d.Customer.Email,
			AmountCents:       d.Amount,
			Currency:          normalizeCurrency(d.Currency),
			Interval:          domain.IntervalOneTime,
			OccurredAt:        occurredAt,
			PeriodEnd:         occurredAt,
		})
		return paymentIDPtr(payment, err), err

	case "transfer.success":
		var d provrTransferData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode prov_r transfer", err)
		}
		err := i.applier.ApplyTransfer(ctx, events.Transfer{
			Provider:        domain.ProviderR,
			ProviderEventID: providerEventID,
			TransferCode:    d.Reference,
			Kind:            events.TransferSuccess,
			OccurredAt:      time.Now(),
		})
		return nil, err

	case "transfer.failed", "transfer.reversed":
		var d provrTransferData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errs.Wrap(errs.InvalidRequest, "webhookingest: decode prov_r transfer", err)
		}
		err := i.applier.ApplyTransfer(ctx, events.Transfer{
			Provider:              domain.ProviderR,
			ProviderEventID:       providerEventID,
			TransferCode:          d.Reference,
			Kind:                  events.TransferFailed,
			FailureIsAccountLevel: d.FailureIsAccount,
			OccurredAt:            time.Now(),
		})
		return nil, err

	default:
		i.logger.Debug("webhookingest: unhandled prov_r event type", zap.String("event_type", eventType))
		return nil, nil
	}
}

func extractRef(raw json.RawMessage) string {
	var generic struct {
		Reference string `json:"reference"`
	}
	_ = json.Unmarshal(raw, &generic)
	return generic.Reference
}

// chargeRefForShortCircuit extracts a charge reference only for event types
// that represent a completed charge, the case spec §4.4 step 5 guards
// against reprocessing.
func chargeRefForShortCircuit(provider domain.Provider, eventType string, raw json.RawMessage) string {
	switch provider {
	case domain.ProviderG:
		switch eventType {
		case "invoice.paid", "invoice.payment_succeeded":
			var inv stripeInvoice
			_ = json.Unmarshal(raw, &inv)
			return inv.Charge
		case "checkout.session.completed":
			var s stripeCheckoutSession
			_ = json.Unmarshal(raw, &s)
			if s.PaymentIntent != "" {
				return s.PaymentIntent
			}
			return s.ID
		}
	case domain.ProviderR:
		if eventType == "charge.success" {
			return extractRef(raw)
		}
	}
	return ""
}

func paymentIDPtr(payment domain.Payment, err error) *uuid.UUID {
	if err != nil {
		return nil
	}
	id := payment.ID
	return &id
}

func normalizeCurrency(code string) string {
	if len(code) == 3 {
		return toUpper3(code)
	}
	return code
}

func toUpper3(s string) string {
	b := []byte(s)
	for idx, c := range b {
		if c >= 'a' && c <= 'z' {
			b[idx] = c - 32
		}
	}
	return string(b)
}
