// Command webhookworker is the Lambda handler that drains the webhook queue
// (spec §4.4 step 6): one invocation per SQS batch, one internal/webhookingest
// call per record. Mirrors the teacher's cmd/webhook-processor/main.go
// Lambda-over-SQS shape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/lock"
	"github.com/creatorpay/platform/internal/logger"
	"github.com/creatorpay/platform/internal/providers/provg"
	"github.com/creatorpay/platform/internal/providers/provr"
	"github.com/creatorpay/platform/internal/queue"
	"github.com/creatorpay/platform/internal/webhookingest"
	"github.com/redis/go-redis/v9"
)

type application struct {
	ingest *webhookingest.Ingestor
	logger *zap.Logger
}

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	log := logger.Log
	defer func() {
		if err := log.Sync(); err != nil {
			fmt.Fprintln(os.Stderr, "webhookworker: logger sync:", err)
		}
	}()

	app, err := build(context.Background(), log)
	if err != nil {
		log.Fatal("webhookworker: build application", zap.Error(err))
	}

	lambda.Start(app.handleSQSEvent)
}

func build(ctx context.Context, log *zap.Logger) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("webhookworker: load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("webhookworker: connect to database: %w", err)
	}
	queries := db.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("webhookworker: parse redis url: %w", err)
	}
	locker := lock.New(redis.NewClient(redisOpts))

	provG := provg.New(cfg.ProvGSecret, cfg.ProvGWebhookSecret, log)
	provR := provr.New(cfg.ProvRSecret, cfg.ProvRBaseURL, log)

	fxSource := fx.NewHTTPSource(cfg.FXServiceURL, "", log)
	fxClient := fx.New(fxSource, log)

	app := applier.New(queries, locker, fxClient, log)
	ingest := webhookingest.New(queries, app, queue.NewInlineRunner(nil), provG, provR, log)

	return &application{ingest: ingest, logger: log}, nil
}

// handleSQSEvent processes one SQS batch. Returning an error signals the
// whole batch as failed so the event source mapping redrives it per its
// configured maxReceiveCount, matching the teacher's webhook-processor.
func (a *application) handleSQSEvent(ctx context.Context, event events.SQSEvent) error {
	a.logger.Info("webhookworker: handling sqs event", zap.Int("record_count", len(event.Records)))

	for _, record := range event.Records {
		var msg queue.Message
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
			return fmt.Errorf("webhookworker: unmarshal message %s: %w", record.MessageId, err)
		}

		if err := a.ingest.Process(ctx, msg); err != nil {
			a.logger.Error("webhookworker: processing failed",
				zap.String("message_id", record.MessageId),
				zap.String("provider", msg.Provider),
				zap.Error(err))
			return fmt.Errorf("webhookworker: process message %s: %w", record.MessageId, err)
		}
	}

	return nil
}
