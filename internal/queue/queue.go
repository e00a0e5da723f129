// Package queue abstracts webhook-event dispatch behind a single interface so
// the applier can be exercised in tests without AWS credentials, while
// production composition roots wire in SQS exactly as the teacher's
// webhook-receiver/dlq-processor pair does.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/errs"
)

// Message is the normalized payload enqueued for a received webhook, mirroring
// the teacher's payment_sync.WebhookEvent shape sent as an SQS message body.
type Message struct {
	EventID   uuid.UUID         `json:"event_id"`
	Provider  string            `json:"provider"`
	EventType string            `json:"event_type"`
	Payload   []byte            `json:"payload"`
	Attempt   int               `json:"attempt"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// Publisher enqueues a webhook event for asynchronous processing.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Handler processes one dequeued message. Returning a retryable error
// (errs.Retryable) keeps the message visible for redelivery up to the
// provider's max-receive-count, after which it lands in the DLQ.
type Handler func(ctx context.Context, msg Message) error

// SQSPublisher publishes to an AWS SQS queue.
type SQSPublisher struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSPublisher(client *sqs.Client, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

func (p *SQSPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errs.Wrap(errs.Internal, "queue: marshal message", err)
	}
	bodyStr := string(body)

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Provider":  stringAttr(msg.Provider),
			"EventType": stringAttr(msg.EventType),
		},
	})
	if err != nil {
		return errs.Wrap(errs.ProviderUnavailable, "queue: sqs send message", err)
	}
	return nil
}

func stringAttr(v string) types.MessageAttributeValue {
	dataType := "String"
	return types.MessageAttributeValue{StringValue: &v, DataType: &dataType}
}

// InlineRunner runs the handler synchronously in Publish, for unit tests and
// for local/dev deployments where SQS is not configured (spec §6's
// INLINE_WEBHOOK_PROCESSING mode).
type InlineRunner struct {
	Handler Handler
}

func NewInlineRunner(handler Handler) *InlineRunner {
	return &InlineRunner{Handler: handler}
}

func (r *InlineRunner) Publish(ctx context.Context, msg Message) error {
	if r.Handler == nil {
		return fmt.Errorf("queue: inline runner has no handler configured")
	}
	return r.Handler(ctx, msg)
}
