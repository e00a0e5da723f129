// Package scheduler is the job runner (spec §4.8): it ticks a fixed set of
// named jobs, generalizing the ticker-select loop shape of the teacher's
// cmd/subscription-processor/main.go (flag-configured interval, signal-
// draining main loop) from one job to N. Each run takes a lease on the
// job's name so two scheduler processes never double-run the same job, and
// publishes a small health snapshot any admin surface can read back.
package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/config"
	"github.com/creatorpay/platform/internal/lock"
)

// Job pairs a name and cadence with the function that runs it. Name is also
// the lease and health-snapshot key.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// leaseTTL bounds how long a job may hold its run lease; generous relative
// to any single job body, all of which operate per-row with short queries
// rather than one long transaction (spec §8: "a crash mid-job loses at most
// one item").
const leaseTTL = 10 * time.Minute

// Health is the last-run snapshot for one job, read back by admin tooling.
type Health struct {
	LastRunAt  time.Time     `json:"last_run_at"`
	DurationMS int64         `json:"duration_ms"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Interval   time.Duration `json:"interval"`
}

// Stale reports whether this snapshot is older than twice the job's
// expected interval, i.e. the job has missed at least one run.
func (h Health) Stale(now time.Time) bool {
	if h.LastRunAt.IsZero() || h.Interval <= 0 {
		return false
	}
	return now.Sub(h.LastRunAt) > 2*h.Interval
}

const healthTTL = 30 * 24 * time.Hour

// Runner ticks each registered Job on its own goroutine until its context
// is canceled.
type Runner struct {
	jobs   []Job
	locker *lock.Locker
	redis  *redis.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewRunner(cfg *config.Config, locker *lock.Locker, redisClient *redis.Client, logger *zap.Logger, jobs []Job) *Runner {
	return &Runner{jobs: jobs, locker: locker, redis: redisClient, cfg: cfg, logger: logger}
}

// Start runs every registered job on its own ticker until ctx is canceled,
// mirroring the teacher's single-job select loop generalized to N jobs via
// one goroutine per job instead of one shared ticker.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		go r.loop(ctx, job)
	}
	<-ctx.Done()
	r.logger.Info("scheduler: shutting down")
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.runOnce(ctx, job)
	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx, job)
		case <-ctx.Done():
			return
		}
	}
}

// RunJobByName runs a single named job immediately, for --once invocations
// and the admin "trigger reconciliation"-style endpoints.
func (r *Runner) RunJobByName(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			r.runOnce(ctx, job)
			return nil
		}
	}
	return errJobNotFound(name)
}

type errJobNotFound string

func (e errJobNotFound) Error() string { return "scheduler: unknown job: " + string(e) }

func (r *Runner) runOnce(ctx context.Context, job Job) {
	start := time.Now()

	run := func(ctx context.Context) error { return job.Run(ctx) }
	var err error
	if r.cfg.SchedulerLeasesDisabled() {
		err = run(ctx)
	} else {
		err = r.locker.WithLock(ctx, lock.JobKey(job.Name), leaseTTL, run)
	}

	dur := time.Since(start)
	health := Health{LastRunAt: start, DurationMS: dur.Milliseconds(), Success: err == nil, Interval: job.Interval}
	if err != nil {
		health.Error = err.Error()
		r.logger.Error("scheduler: job failed", zap.String("job", job.Name), zap.Error(err), zap.Duration("duration", dur))
	} else {
		r.logger.Info("scheduler: job completed", zap.String("job", job.Name), zap.Duration("duration", dur))
	}
	r.writeHealth(ctx, job.Name, health)
}

func (r *Runner) writeHealth(ctx context.Context, name string, h Health) {
	payload, err := json.Marshal(h)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, healthKey(name), payload, healthTTL).Err(); err != nil {
		r.logger.Warn("scheduler: failed to write job health", zap.String("job", name), zap.Error(err))
	}
}

// ReadHealth fetches a job's last-run snapshot, for admin health checks.
func (r *Runner) ReadHealth(ctx context.Context, name string) (Health, error) {
	raw, err := r.redis.Get(ctx, healthKey(name)).Bytes()
	if err != nil {
		return Health{}, err
	}
	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

func healthKey(name string) string { return "job_health:" + name }
