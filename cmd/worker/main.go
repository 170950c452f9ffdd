// Package main runs the background worker: recording expiry tasks queued by
// the API and the periodic sweep that catches any the queue missed.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casccoach/platform/backend/internal/config"
	"github.com/casccoach/platform/backend/internal/logging"
	"github.com/casccoach/platform/backend/internal/repo"
	"github.com/casccoach/platform/backend/internal/service"
	"github.com/casccoach/platform/backend/internal/storage"
	"github.com/casccoach/platform/backend/internal/tasks"
)

const concurrency = 4

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
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
	// The API applies migrations; the worker only needs a reachable schema.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	queue := tasks.NewClient(redisOpt)
	defer queue.Close()

	var media storage.Store = storage.Disabled{}
	if cfg.CloudinaryEnabled() {
		cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Error("failed to configure recording storage", "error", err)
			os.Exit(1)
		}
		media = cld
	}

	recordings := service.NewRecordingService(
		repo.NewRecordingRepo(pool),
		repo.NewBookingRepo(pool),
		repo.NewTrainerRepo(pool),
		media,
		queue,
		cfg.RecordingRetention,
		logger,
	)

	// --- Queue ------------------------------------------------------------
	// asynq logs through the sugared zap logger; task handlers use slog.
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Logger:      zl.Sugar(),
	})
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: zl.Sugar(),
	})
	if _, err := scheduler.Register(tasks.SweepSchedule, tasks.NewRecordingSweepTask()); err != nil {
		slog.Error("failed to register recording sweep", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(tasks.NewServeMux(recordings, logger)); err != nil {
		slog.Error("worker failed to start", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slog.Error("scheduler failed to start", "error", err)
		srv.Shutdown()
		os.Exit(1)
	}
	slog.Info("worker started", "concurrency", concurrency, "sweep", tasks.SweepSchedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down worker")
	scheduler.Shutdown()
	srv.Shutdown()
	slog.Info("worker stopped")
}
