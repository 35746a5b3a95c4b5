// Package scheduler runs the periodic maintenance jobs: purging expired
// testimonial tokens and scanning retreats for date/status drift. Both jobs
// are advisory or idempotent, so at-least-once delivery is safe.
package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"retiros_backend/internal/retreats/domain"
	retreatrepo "retiros_backend/internal/retreats/repository"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/config"
	"retiros_backend/platform/logger"
)

// TokenPurger deletes unused expired tokens. Satisfied by the tokens service.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Worker hosts the asynq server plus the periodic scheduler that enqueues
// the maintenance tasks.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	purger    TokenPurger
	retreats  retreatrepo.RetreatReader
	clk       clock.Clock
	log       *logger.Logger
}

// NewWorker creates the maintenance worker and registers its periodic tasks.
func NewWorker(cfg config.SchedulerConfig, purger TokenPurger, retreats retreatrepo.RetreatReader, clk clock.Clock, log *logger.Logger) (*Worker, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}

	opt := asynq.RedisClientOpt{Addr: addr}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"maintenance": 1,
		},
	})

	scheduler := asynq.NewScheduler(opt, nil)
	if _, err := scheduler.Register(cfg.GetTokenPurgeSpec(), NewTokenPurgeTask(), asynq.Queue("maintenance")); err != nil {
		return nil, fmt.Errorf("register token purge: %w", err)
	}
	if _, err := scheduler.Register(cfg.GetStatusScanSpec(), NewStatusScanTask(), asynq.Queue("maintenance")); err != nil {
		return nil, fmt.Errorf("register status scan: %w", err)
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       mux,
		purger:    purger,
		retreats:  retreats,
		clk:       clk,
		log:       log,
	}

	mux.HandleFunc(TaskTokenPurge, w.handleTokenPurge)
	mux.HandleFunc(TaskStatusScan, w.handleStatusScan)

	return w, nil
}

func (w *Worker) handleTokenPurge(ctx context.Context, _ *asynq.Task) error {
	deleted, err := w.purger.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired tokens: %w", err)
	}
	if deleted > 0 {
		w.log.Info("token purge completed", "deleted", deleted)
	}
	return nil
}

// handleStatusScan logs retreats whose stored status disagrees with their
// dates. It never mutates status, that call stays with the admin.
func (w *Worker) handleStatusScan(ctx context.Context, _ *asynq.Task) error {
	retreats, err := w.retreats.ListByStatuses(ctx, []domain.Status{domain.StatusActive, domain.StatusCompleted})
	if err != nil {
		return fmt.Errorf("list retreats for status scan: %w", err)
	}

	now := w.clk.Now()
	flagged := 0
	for _, retreat := range retreats {
		suggestion := domain.SuggestStatus(retreat.Status, retreat.StartDate, retreat.EndDate, now)
		if !suggestion.NeedsChange {
			continue
		}
		flagged++
		w.log.Warn("retreat status drift",
			"retreatId", retreat.ID,
			"slug", retreat.Slug,
			"current", suggestion.Current,
			"suggested", suggestion.Suggested,
			"reason", suggestion.Reason,
		)
	}
	w.log.Info("status scan completed", "scanned", len(retreats), "flagged", flagged)
	return nil
}

// Run starts the scheduler and the server, blocking until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
