package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"retiros_backend/internal/adapters"
	"retiros_backend/internal/email"
	"retiros_backend/internal/events"
	leadrepo "retiros_backend/internal/leads/repository"
	retreatrepo "retiros_backend/internal/retreats/repository"
	"retiros_backend/internal/scheduler"
	tokenrepo "retiros_backend/internal/tokens/repository"
	tokenservice "retiros_backend/internal/tokens/service"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/config"
	"retiros_backend/platform/db"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/token"
)

const tokenBytes = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting maintenance worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	clk := clock.System()
	retreatReader := retreatrepo.New(pool)

	// The worker only calls PurgeExpired; the mail sender and event bus are
	// inert placeholders so the shared service constructor can be reused.
	tokenSvc := tokenservice.New(
		tokenrepo.New(pool),
		adapters.NewTokenRetreatReader(retreatReader),
		adapters.NewConfirmedLeadLister(leadrepo.New(pool)),
		email.NoopSender{},
		token.NewHexGenerator(tokenBytes),
		clk,
		events.NewInMemoryBus(log),
		log,
	)

	worker, err := scheduler.NewWorker(cfg, tokenSvc, retreatReader, clk, log)
	if err != nil {
		log.Error("failed to initialize maintenance worker", "error", err)
		panic("failed to initialize maintenance worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("maintenance worker stopped")
}
