package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"content_fetcher/internal/api"
	"content_fetcher/internal/config"
	"content_fetcher/internal/indexer"
	"content_fetcher/internal/platform"
	"content_fetcher/internal/platform/github"
	"content_fetcher/internal/platform/rss"
	"content_fetcher/internal/publisher"
	"content_fetcher/internal/scheduler"
	"content_fetcher/internal/service"
	"content_fetcher/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	contentStore := postgres.NewContentStore(db)
	taskStore := postgres.NewFetchTaskStore(db)
	userStore := postgres.NewTrackedUserStore(db)
	txManager := postgres.NewTransactionManager(db)

	registry := platform.NewRegistry(
		github.New(cfg.Fetch.Timeout, logger),
		rss.New(cfg.Fetch.Timeout, logger),
	)

	searchIndexer := indexer.NewHTTPIndexer(indexer.Config{
		BaseURL: cfg.Indexer.BaseURL,
		APIKey:  cfg.Indexer.APIKey,
		Timeout: cfg.Indexer.Timeout,
	}, logger)

	tracker := service.NewTaskTracker(taskStore)
	pool := service.NewWorkerPool(cfg.Fetch.Workers, cfg.Fetch.QueueSize, logger)

	fetchService := service.NewFetchService(
		registry,
		contentStore,
		taskStore,
		userStore,
		txManager,
		rabbitMQ,
		searchIndexer,
		tracker,
		pool,
		cfg.PlatformConfig,
		logger,
		cfg.Fetch,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(fetchService, userStore, cfg.Fetch.ScheduleInterval, logger)
	go func() {
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	api.NewHandler(fetchService, logger).Register(e)

	go func() {
		logger.Info("starting http server",
			"addr", cfg.HTTP.Addr,
			"platforms", registry.SupportedTypes(),
		)
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
