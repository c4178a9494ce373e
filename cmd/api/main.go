package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	searchCache := buildSearchCache(cfg, redisClient, logger)

	eventBus := events.NewEventBus()
	subscribeMetrics(eventBus)

	userService := service.NewUserService(db, logger)
	itemService := service.NewItemService(db, db, db, db, searchCache, eventBus, logger)
	bookingService := service.NewBookingService(db, db, db, eventBus, logger)

	reportWorker := worker.NewReportWorker(db, cfg.Reports.Path, worker.RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  30 * time.Second,
		MaxDelay:      10 * time.Minute,
		BackoffFactor: 2,
	}, logger)

	httpServer := api.NewHTTPServer(cfg.API, userService, itemService, bookingService, reportWorker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportWorker.Start(ctx)

	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backupService.Start(ctx)

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildSearchCache assembles the search cache: redis when available,
// fronted by a failover wrapper that falls back to an in-memory cache
// whenever redis misbehaves.
func buildSearchCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SearchCache {
	ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
	memory := repository.NewMemorySearchCache(ttl)
	if redisClient == nil {
		return memory
	}
	primary := repository.NewRedisSearchCache(redisClient, ttl)
	return repository.NewFailoverSearchCache(primary, memory, logger)
}

// subscribeMetrics keeps the booking transition counter fed from the
// event stream rather than from the service itself.
func subscribeMetrics(bus *events.EventBus) {
	countTransitions := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		metrics.IncBookingTransition(payload.Status)
		return nil
	}
	bus.Subscribe(events.EventBookingCreated, countTransitions)
	bus.Subscribe(events.EventBookingApproved, countTransitions)
	bus.Subscribe(events.EventBookingRejected, countTransitions)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
