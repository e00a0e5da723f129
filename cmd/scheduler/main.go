// Command scheduler is the composition root for the background job runner
// (spec §4.8): it wires config, database, Redis, provider adapters, and the
// core packages into internal/scheduler's eleven named jobs, then runs their
// tickers until signaled to stop. Mirrors the teacher's
// cmd/subscription-processor/main.go composition shape.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/applier"
	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/crypto"
	"github.com/creatorpay/platform/internal/db"
	"github.com/creatorpay/platform/internal/fx"
	"github.com/creatorpay/platform/internal/lock"
	"github.com/creatorpay/platform/internal/logger"
	"github.com/creatorpay/platform/internal/notifier"
	"github.com/creatorpay/platform/internal/payout"
	"github.com/creatorpay/platform/internal/providers/provg"
	"github.com/creatorpay/platform/internal/providers/provr"
	"github.com/creatorpay/platform/internal/reconcile"
	"github.com/creatorpay/platform/internal/scheduler"
)

func main() {
	jobName := flag.String("once", "", "run a single named job immediately and exit, instead of starting the ticker loop")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scheduler: config: ", err)
		os.Exit(1)
	}

	logger.Init(cfg.AppEnv)
	log := logger.Log
	defer func() {
		if err := log.Sync(); err != nil {
			fmt.Fprintln(os.Stderr, "scheduler: logger sync:", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("scheduler: connect to database", zap.Error(err))
	}
	defer pool.Close()
	queries := db.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("scheduler: parse redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	locker := lock.New(redisClient)

	keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil || len(keyBytes) != 32 {
		log.Fatal("scheduler: PII_ENCRYPTION_KEY must be 64 hex characters (32 bytes)")
	}
	box, err := crypto.NewBox(keyBytes)
	if err != nil {
		log.Fatal("scheduler: build encryption box", zap.Error(err))
	}

	provG := provg.New(cfg.ProvGSecret, cfg.ProvGWebhookSecret, log)
	provR := provr.New(cfg.ProvRSecret, cfg.ProvRBaseURL, log)

	fxSource := fx.NewHTTPSource(cfg.FXServiceURL, "", log)
	fxClient := fx.New(fxSource, log)

	app := applier.New(queries, locker, fxClient, log)
	payoutEngine := payout.New(queries, provR, box, log)
	reconciler := reconcile.New(provR, provG, queries, app, log)
	sender := notifier.NewLogSender(log)

	jobs := scheduler.NewJobs(queries, app, payoutEngine, provR, provG, reconciler, sender, locker, log)
	runner := scheduler.NewRunner(cfg, locker, redisClient, log, jobs.Defs())

	if *jobName != "" {
		if err := runner.RunJobByName(ctx, *jobName); err != nil {
			log.Fatal("scheduler: run job", zap.String("job", *jobName), zap.Error(err))
		}
		return
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Info("scheduler: received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("scheduler: starting job runner", zap.Int("jobs", len(jobs.Defs())))
	runner.Start(ctx)
}
