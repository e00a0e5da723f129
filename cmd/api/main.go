// Command api is the composition root for the public HTTP surface (spec
// §6, §14): checkout session creation, webhook ingest, subscriber
// self-service, and the admin operations console. Mirrors the teacher's
// cmd/api/local/main.go plus internal/server.InitializeHandlers/Routes
// wiring shape, built on gin-gonic as that repo is.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/checkout"
	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/crypto"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/httpapi"
	"github.com/creatorpay/platform/internal/idempotency"
	"github.com/creatorpay/platform/internal/lock"
	"github.com/creatorpay/platform/internal/logger"
	"github.com/creatorpay/platform/internal/payout"
	"github.com/creatorpay/platform/internal/providers/provg"
	"github.com/creatorpay/platform/internal/providers/provr"
	"github.com/creatorpay/platform/internal/queue"
	"github.com/creatorpay/platform/internal/reconcile"
	"github.com/creatorpay/platform/internal/tokens"
	"github.com/creatorpay/platform/internal/webhookingest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "api: config:", err)
		os.Exit(1)
	}

	logger.Init(cfg.AppEnv)
	log := logger.Log
	defer func() {
		if err := log.Sync(); err != nil {
			fmt.Fprintln(os.Stderr, "api: logger sync:", err)
		}
	}()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("api: connect to database", zap.Error(err))
	}
	defer pool.Close()
	queries := db.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("api: parse redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	locker := lock.New(redisClient)
	dedupe := idempotency.NewCheckoutDedupeStore(redisClient)

	keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil || len(keyBytes) != 32 {
		log.Fatal("api: PII_ENCRYPTION_KEY must be 64 hex characters (32 bytes)")
	}
	box, err := crypto.NewBox(keyBytes)
	if err != nil {
		log.Fatal("api: build encryption box", zap.Error(err))
	}

	provG := provg.New(cfg.ProvGSecret, cfg.ProvGWebhookSecret, log)
	provR := provr.New(cfg.ProvRSecret, cfg.ProvRBaseURL, log)

	fxSource := fx.NewHTTPSource(cfg.FXServiceURL, "", log)
	fxClient := fx.New(fxSource, log)

	app := applier.New(queries, locker, fxClient, log)
	payoutEngine := payout.New(queries, provR, box, log)
	reconciler := reconcile.New(provR, provG, queries, app, log)
	signer := tokens.NewSigner(cfg.SessionSecret)

	publisher := buildPublisher(ctx, cfg, log)
	ingest := webhookingest.New(queries, app, publisher, provG, provR, log)
	if inline, ok := publisher.(*queue.InlineRunner); ok {
		inline.Handler = ingest.Process
	}

	checkoutInitiator := checkout.New(queries, dedupe, provG, provR, fxClient, cfg, log)

	server := httpapi.NewServer(queries, checkoutInitiator, ingest, payoutEngine, app, reconciler, signer, cfg, log)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	server.Routes(router)

	log.Info("api: starting http server", zap.String("addr", ":8000"))
	if err := router.Run(":8000"); err != nil {
		log.Fatal("api: server stopped", zap.Error(err))
	}
}

// buildPublisher picks SQS or inline processing per spec §6's
// INLINE_WEBHOOK_PROCESSING convention: a QUEUE_URL enables async dispatch,
// its absence (local/dev/test) processes each webhook synchronously
// in-request so nothing needs a worker running alongside the API.
func buildPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) queue.Publisher {
	if cfg.InlineWebhookProcessing() {
		log.Warn("api: QUEUE_URL not set, processing webhooks inline")
		return queue.NewInlineRunner(nil)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal("api: load aws config", zap.Error(err))
	}
	return queue.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.QueueURL)
}
