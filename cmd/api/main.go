package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retiros_backend/internal/adapters"
	"retiros_backend/internal/auth"
	"retiros_backend/internal/email"
	"retiros_backend/internal/events"
	apphttp "retiros_backend/internal/http"
	"retiros_backend/internal/http/router"
	"retiros_backend/internal/leads"
	"retiros_backend/internal/notification"
	"retiros_backend/internal/retreats"
	retreatrepo "retiros_backend/internal/retreats/repository"
	"retiros_backend/internal/settings"
	"retiros_backend/internal/storage"
	"retiros_backend/internal/testimonials"
	"retiros_backend/internal/tokens"
	"retiros_backend/internal/uploads"
	"retiros_backend/migrations"
	"retiros_backend/platform/cache"
	"retiros_backend/platform/clock"
	"retiros_backend/platform/config"
	"retiros_backend/platform/db"
	"retiros_backend/platform/logger"
	"retiros_backend/platform/token"
	"retiros_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const tokenBytes = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Settings cache; a nil cache degrades to straight repository reads.
	settingsCache := cache.New(cfg.GetRedisAddr(), cfg.GetSettingsCacheTTL())
	if settingsCache != nil {
		defer settingsCache.Close()
		log.Info("settings cache enabled", "addr", cfg.GetRedisAddr())
	}

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email disabled; testimonial invites and lead notifications will not be delivered")
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	clk := clock.System()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// The leads and retreats modules each consume a narrowed view of the
	// other. Both sides go through adapters over stateless repositories, so
	// construction order does not matter.
	retreatReader := retreatrepo.New(pool)

	leadsModule := leads.NewModule(pool, adapters.NewLeadRetreatReader(retreatReader), clk, eventBus, val, log)
	retreatsModule := retreats.NewModule(pool, leadsModule.Repository(), val, clk, log)
	tokensModule := tokens.NewModule(
		pool,
		adapters.NewTokenRetreatReader(retreatReader),
		adapters.NewConfirmedLeadLister(leadsModule.Repository()),
		sender,
		token.NewHexGenerator(tokenBytes),
		clk,
		eventBus,
		val,
		log,
	)
	testimonialsModule := testimonials.NewModule(pool, clk, eventBus, val, log)
	settingsModule := settings.NewModule(pool, settingsCache, val, log)
	authModule := auth.NewModule(pool, cfg, clk, val, log)

	modules := []apphttp.Module{
		authModule,
		retreatsModule,
		leadsModule,
		tokensModule,
		testimonialsModule,
		settingsModule,
	}

	// Object storage is optional; without it the upload endpoints are simply
	// not mounted and image URLs are expected to be external.
	if cfg.IsStorageEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure image bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetImageBucket())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "bucket", cfg.GetImageBucket())

		modules = append(modules, uploads.NewModule(storageSvc, log))
	} else {
		log.Warn("MINIO_ENDPOINT not configured; upload endpoints disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
