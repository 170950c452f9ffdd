// Package main is the entry point for the booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/casccoach/platform/backend/internal/auth"
	"github.com/casccoach/platform/backend/internal/cache"
	"github.com/casccoach/platform/backend/internal/config"
	"github.com/casccoach/platform/backend/internal/handler"
	"github.com/casccoach/platform/backend/internal/logging"
	"github.com/casccoach/platform/backend/internal/middleware"
	"github.com/casccoach/platform/backend/internal/payments"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/scheduling"
	"github.com/casccoach/platform/backend/internal/service"
	"github.com/casccoach/platform/backend/internal/storage"
	"github.com/casccoach/platform/backend/internal/tasks"
	"github.com/casccoach/platform/backend/migrations"
)

// schedulingTolerance is how old a signed scheduling webhook may be.
const schedulingTolerance = 5 * time.Minute

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	zl, logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(ctx, pool); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// --- Redis ------------------------------------------------------------
	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	queue := tasks.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queue.Close()

	// --- Providers --------------------------------------------------------
	// Payments and recordings stay switched off until credentials exist;
	// their endpoints answer 503 in the meantime.
	var gateway payments.Gateway = payments.Disabled{}
	if cfg.StripeEnabled() {
		gateway = payments.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)
	} else {
		slog.Warn("payments disabled: STRIPE_SECRET_KEY not set")
	}

	var media storage.Store = storage.Disabled{}
	if cfg.CloudinaryEnabled() {
		cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Error("failed to configure recording storage", "error", err)
			os.Exit(1)
		}
		media = cld
	} else {
		slog.Warn("recording uploads disabled: cloudinary credentials not set")
	}

	// --- Services ---------------------------------------------------------
	trainerRepo := repo.NewTrainerRepo(pool)
	stationRepo := repo.NewStationRepo(pool)
	bookingRepo := repo.NewBookingRepo(pool)
	roleRepo := repo.NewRoleRepo(pool)

	authenticator := auth.NewAuthenticator(
		auth.NewVerifier([]byte(cfg.AuthJWTSecret), ""),
		roleRepo,
		cache.NewRevocations(rdb),
	)

	bookings := service.NewBookingService(bookingRepo, trainerRepo, stationRepo)

	deps := handler.Deps{
		Trainers: service.NewTrainerService(trainerRepo, roleRepo),
		Stations: service.NewStationService(stationRepo),
		Bookings: bookings,
		Wizards: service.NewWizardService(
			cache.NewWizardStore(rdb, cfg.WizardTTL),
			cache.NewLocker(rdb, cfg.SubmissionLockTTL),
			bookings,
			logger,
		),
		Payments: service.NewPaymentService(
			repo.NewPaymentRepo(pool), bookingRepo, gateway, cfg.PaymentCurrency, logger,
		),
		Recordings: service.NewRecordingService(
			repo.NewRecordingRepo(pool), bookingRepo, trainerRepo, media, queue, cfg.RecordingRetention, logger,
		),
		Contact:      service.NewContactService(repo.NewContactRepo(pool)),
		Availability: service.NewAvailabilityService(repo.NewAvailabilityRepo(pool), trainerRepo),
		Export:       service.NewExportService(bookingRepo),
		Sessions:     authenticator,
		Logger:       logger,
	}
	// Left nil when unset so the webhook answers 503 instead of accepting
	// unsigned notifications.
	if cfg.SchedulingWebhookSecret != "" {
		deps.Scheduling = scheduling.NewVerifier(cfg.SchedulingWebhookSecret, schedulingTolerance)
	} else {
		slog.Warn("scheduling webhook disabled: SCHEDULING_WEBHOOK_SECRET not set")
	}

	api := handler.NewServer(deps).Routes(handler.RouteConfig{
		Authenticator:  authenticator,
		ContactLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Mount("/", api)

	// --- HTTP Server ------------------------------------------------------
	// Read and write timeouts are generous enough for recording uploads;
	// ReadHeaderTimeout still cuts off slow clients early.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through a database/sql handle
// borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}
