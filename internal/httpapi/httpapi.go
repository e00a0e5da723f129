// Package httpapi is the thin gin-gonic HTTP boundary around the core
// (spec §6, §14): webhook ingest, checkout, subscriber self-service, and a
// small set of admin operations. Authentication/authorization middleware is
// explicitly out of scope (spec §1's "HTTP framing and authentication
// middleware"); RequireAdmin below is a no-op passthrough a real deployment
// replaces.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/checkout"
	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/events"
	"github.com/creatorpay/platform/internal/payout"
	"github.com/creatorpay/platform/internal/queue"
	"github.com/creatorpay/platform/internal/reconcile"
	"github.com/creatorpay/platform/internal/tokens"
	"github.com/creatorpay/platform/internal/webhookingest"
)

// Server holds every dependency the HTTP handlers call into.
type Server struct {
	queries    db.Querier
	checkout   *checkout.Initiator
	ingest     *webhookingest.Ingestor
	payout     *payout.Engine
	applier    *applier.Applier
	reconciler *reconcile.Reconciler
	signer     *tokens.Signer
	cfg        *config.Config
	logger     *zap.Logger
}

func NewServer(queries db.Querier, ch *checkout.Initiator, ingest *webhookingest.Ingestor, payoutEngine *payout.Engine, app *applier.Applier, reconciler *reconcile.Reconciler, signer *tokens.Signer, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{queries: queries, checkout: ch, ingest: ingest, payout: payoutEngine, applier: app, reconciler: reconciler, signer: signer, cfg: cfg, logger: logger}
}

// Routes registers every endpoint from spec §6/§14 on router, mirroring the
// teacher's InitializeRoutes grouping shape (CORS, then a versioned API
// group with an admin subgroup).
func (s *Server) Routes(router *gin.Engine) {
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/webhooks/:provider", s.handleWebhook)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkout/session", s.handleCreateCheckoutSession)
		v1.GET("/checkout/session/:id/verify", s.handleVerifyCheckoutSession)
		v1.GET("/subscription/manage/:token", s.handleManageSubscription)
		v1.POST("/unsubscribe/:token", s.handleUnsubscribe)

		admin := v1.Group("/admin")
		admin.Use(RequireAdmin())
		{
			admin.POST("/webhook-events/:id/retry", s.handleRetryDeadLetter)
			admin.GET("/payouts/stuck", s.handleListStuckPayouts)
			admin.POST("/reconciliation/run", s.handleTriggerReconciliation)
			admin.POST("/subscribers/:id/unblock", s.handleResolveBlockedSubscriber)
			admin.POST("/payments/:id/refund", s.handleRefund)
		}
	}
}

// RequireAdmin is a placeholder for the authentication middleware the spec
// excludes from this core. TODO: replace with the real admin auth
// middleware before exposing these routes outside a trusted network.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func (s *Server) handleWebhook(c *gin.Context) {
	provider := c.Param("provider")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var ingestErr error
	switch provider {
	case "stripe", "prov_g":
		sig := c.GetHeader("Stripe-Signature")
		ingestErr = s.ingest.IngestProvG(c.Request.Context(), body, sig)
	case "prov_r":
		sig := c.GetHeader("X-Signature")
		ingestErr = s.ingest.IngestProvR(c.Request.Context(), body, sig)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
		return
	}

	if ingestErr != nil {
		if errs.Is(ingestErr, errs.SignatureInvalid) || errs.Is(ingestErr, errs.InvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ingestErr.Error()})
			return
		}
		s.logger.Error("httpapi: webhook ingest failed", zap.String("provider", provider), zap.Error(ingestErr))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

type createCheckoutSessionRequest struct {
	CreatorID       uuid.UUID                   `json:"creator_id" binding:"required"`
	SubscriberEmail string                       `json:"subscriber_email" binding:"required,email"`
	AmountCents     int64                        `json:"amount_cents" binding:"required"`
	Currency        string                       `json:"currency" binding:"required,len=3"`
	Interval        domain.SubscriptionInterval `json:"interval" binding:"required"`
	PayerCountry    string                       `json:"payer_country"`
}

func (s *Server) handleCreateCheckoutSession(c *gin.Context) {
	var req createCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.checkout.Initiate(c.Request.Context(), checkout.Request{
		CreatorID:       req.CreatorID,
		SubscriberEmail: req.SubscriberEmail,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		Interval:        req.Interval,
		PayerCountry:    req.PayerCountry,
	})
	if err != nil {
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": result.URL, "provider": result.Provider, "session_id": result.SessionID})
}

func (s *Server) handleVerifyCheckoutSession(c *gin.Context) {
	id := c.Param("id")
	payment, _, err := s.queries.GetPaymentByProviderChargeRef(c.Request.Context(), id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": payment.Status})
}

func (s *Server) handleManageSubscription(c *gin.Context) {
	subID, err := s.signer.Verify(c.Param("token"), time.Now())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	sub, err := s.queries.GetSubscriptionByID(c.Request.Context(), subID)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                   sub.ID,
		"status":               sub.Status,
		"current_period_end":   sub.CurrentPeriodEnd,
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
	})
}

func (s *Server) handleUnsubscribe(c *gin.Context) {
	subID, err := s.signer.Verify(c.Param("token"), time.Now())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := s.queries.ScheduleCancelAtPeriodEnd(c.Request.Context(), subID); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": true})
}

func (s *Server) handleRetryDeadLetter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook event id"})
		return
	}

	event, err := s.queries.GetWebhookEventByID(c.Request.Context(), id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	if event.Status != domain.WebhookDeadLetter && event.Status != domain.WebhookFailed {
		c.JSON(http.StatusConflict, gin.H{"error": "webhook event is not in a retryable state"})
		return
	}

	msg := queue.Message{EventID: event.ID, Provider: string(event.Provider), EventType: event.EventType, Payload: event.Payload}
	if err := s.ingest.Process(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusAccepted, gin.H{"retried": true, "result": "still failing", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"retried": true, "result": "succeeded"})
}

func (s *Server) handleListStuckPayouts(c *gin.Context) {
	stuck, err := s.queries.ListStuckOTPPayouts(c.Request.Context(), time.Now().Add(-time.Hour))
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stuck_payouts": stuck})
}

func (s *Server) handleTriggerReconciliation(c *gin.Context) {
	if err := s.reconciler.Run(c.Request.Context()); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"triggered": true})
}

func (s *Server) handleResolveBlockedSubscriber(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscriber id"})
		return
	}
	if err := s.queries.SetSubscriberBlocked(c.Request.Context(), id, ""); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": true})
}

type refundRequest struct {
	AmountCents int64 `json:"amount_cents"` // 0 means refund the original payment in full
}

// handleRefund issues an admin-initiated refund for an original charge
// Payment, spec §6's "refund" admin op. It goes through the same
// applier.ApplyRefund entrypoint a provider-reported refund/chargeback
// webhook uses, so fee reversal, LTV decrement, and the original payment's
// status flip all happen identically regardless of who triggered it.
func (s *Server) handleRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var req refundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	original, err := s.queries.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		writeCoreError(c, err)
		return
	}

	amount := req.AmountCents
	if amount <= 0 {
		amount = original.GrossCents
		if amount < 0 {
			amount = -amount
		}
	}

	payment, err := s.applier.ApplyRefund(c.Request.Context(), events.Refund{
		ProviderEventID:   fmt.Sprintf("admin_refund_%s_%d", original.ID, time.Now().UnixNano()),
		ProviderChargeRef: original.ProviderChargeRef,
		RefundAmountCents: amount,
		OccurredAt:        time.Now(),
	})
	if err != nil {
		writeCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refunded": true, "payment_id": payment.ID, "amount_cents": amount})
}

func writeCoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.InvalidRequest, errs.SignatureInvalid:
		status = http.StatusBadRequest
	case errs.Unauthorized:
		status = http.StatusUnauthorized
	case errs.NotFound:
		status = http.StatusNotFound
	case errs.Conflict:
		status = http.StatusConflict
	case errs.ProviderUnavailable:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
