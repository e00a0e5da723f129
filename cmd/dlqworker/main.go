// Command dlqworker is the Lambda handler bound to the webhook queue's dead
// letter queue: a message only reaches it after the main queue's own
// maxReceiveCount is exhausted. It gives the event exactly one more pass
// through internal/webhookingest and, if that pass also fails, marks the
// WebhookEvent row dead_letter for an operator to inspect via the admin API.
// Mirrors the teacher's cmd/dlq-processor/main.go shape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/lock"
	"github.com/creatorpay/platform/internal/logger"
	"github.com/creatorpay/platform/internal/providers/provg"
	"github.com/creatorpay/platform/internal/providers/provr"
	"github.com/creatorpay/platform/internal/queue"
	"github.com/creatorpay/platform/internal/webhookingest"
)

type application struct {
	queries db.Querier
	ingest  *webhookingest.Ingestor
	logger  *zap.Logger
}

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	log := logger.Log
	defer func() {
		if err := log.Sync(); err != nil {
			fmt.Fprintln(os.Stderr, "dlqworker: logger sync:", err)
		}
	}()

	app, err := build(context.Background(), log)
	if err != nil {
		log.Fatal("dlqworker: build application", zap.Error(err))
	}

	lambda.Start(app.handleSQSEvent)
}

func build(ctx context.Context, log *zap.Logger) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("dlqworker: load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("dlqworker: connect to database: %w", err)
	}
	queries := db.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("dlqworker: parse redis url: %w", err)
	}
	locker := lock.New(redis.NewClient(redisOpts))

	provG := provg.New(cfg.ProvGSecret, cfg.ProvGWebhookSecret, log)
	provR := provr.New(cfg.ProvRSecret, cfg.ProvRBaseURL, log)

	fxSource := fx.NewHTTPSource(cfg.FXServiceURL, "", log)
	fxClient := fx.New(fxSource, log)

	app := applier.New(queries, locker, fxClient, log)
	ingest := webhookingest.New(queries, app, queue.NewInlineRunner(nil), provG, provR, log)

	return &application{queries: queries, ingest: ingest, logger: log}, nil
}

func (a *application) handleSQSEvent(ctx context.Context, event events.SQSEvent) error {
	a.logger.Warn("dlqworker: handling dead-lettered batch", zap.Int("record_count", len(event.Records)))

	for _, record := range event.Records {
		var msg queue.Message
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
			a.logger.Error("dlqworker: unmarshal dlq message", zap.String("message_id", record.MessageId), zap.Error(err))
			continue
		}

		if err := a.ingest.Process(ctx, msg); err != nil {
			a.logger.Error("dlqworker: final retry failed, marking dead letter",
				zap.String("message_id", record.MessageId), zap.String("event_id", msg.EventID.String()), zap.Error(err))
			if markErr := a.queries.MarkWebhookEventDeadLetter(ctx, msg.EventID); markErr != nil && !errs.Is(markErr, errs.NotFound) {
				return fmt.Errorf("dlqworker: mark dead letter for %s: %w", msg.EventID, markErr)
			}
			continue
		}

		a.logger.Info("dlqworker: recovered webhook event on final retry", zap.String("event_id", msg.EventID.String()))
	}

	return nil
}
