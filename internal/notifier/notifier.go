// Package notifier is the thin outbound boundary the scheduler calls
// through for subscriber-facing emails. Email templating and delivery are
// out of scope (spec §1: "email/SMS templates and transport"); this package
// exists only so the jobs that decide *when* to notify have somewhere
// real to call, with the decision itself (idempotency-logged, per
// subscription+type) living in the caller.
package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Kind enumerates the notification types the scheduler's jobs raise.
type Kind string

const (
	KindPaymentFailed       Kind = "payment_failed"
	KindSubscriptionCanceled Kind = "subscription_canceled"
	KindRenewalReminder     Kind = "renewal_reminder"
	KindPayoutFailed        Kind = "payout_failed"
)

// Notification is one outbound message, fully resolved by the caller.
type Notification struct {
	Kind            Kind
	SubscriberEmail string
	Subject         string
	Data            map[string]string
}

// Sender delivers a resolved Notification. Production wires this to
// whatever transport the surrounding web application already uses;
// it is not part of the payments core.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender logs the notification instead of delivering it, standing in
// for a real transport in the core module and in tests.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, n Notification) error {
	s.logger.Info("notifier: would send",
		zap.String("kind", string(n.Kind)),
		zap.String("to", n.SubscriberEmail),
		zap.String("subject", n.Subject))
	return nil
}
