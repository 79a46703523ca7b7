package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "aurum/internal/api/http"
	"aurum/internal/adapters/config"
	"aurum/internal/adapters/errors/noop"
	"aurum/internal/adapters/errors/sentry"
	"aurum/internal/adapters/kafka"
	"aurum/internal/adapters/postgres"
	"aurum/internal/adapters/provider"
	"aurum/internal/adapters/redis"
	"aurum/internal/events"
	"aurum/internal/metrics"
	repo "aurum/internal/repository/postgres"
	"aurum/internal/scheduler"
	"aurum/internal/services/analysis"
	syncsvc "aurum/internal/services/sync"
	"aurum/internal/storage/logos"
	"aurum/pkg/errors"
	"aurum/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	pg, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer := initKafka(cfg, log)
	if producer != nil {
		defer producer.Close()
	}
	publisher := events.NewPublisher(producer)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	providerClient, err := provider.NewClient(provider.Config{
		BaseURL:           cfg.Provider.BaseURL,
		Token:             cfg.Provider.Token,
		HTTPClient:        &http.Client{Timeout: cfg.Provider.Timeout},
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("Failed to create provider client: %v", err)
	}

	logoStore, err := logos.NewStore(cfg.Logos.Dir)
	if err != nil {
		log.Fatalf("Failed to create logo store: %v", err)
	}

	db := pg.DB()
	assetRepo := repo.NewAssetRepository(db)
	techniqueRepo := repo.NewTechniqueRepository(db)
	associationRepo := repo.NewAssociationRepository(db)
	insightRepo := repo.NewInsightRepository(db)

	var quoteCache syncsvc.QuoteCache
	if redisClient != nil {
		quoteCache = redisClient
	}

	syncService := syncsvc.NewService(assetRepo, providerClient, logoStore, quoteCache, publisher, m, syncsvc.Config{
		ItemDelay:  cfg.Sync.ItemDelay,
		MaxTickers: cfg.Sync.MaxTickers,
		QuoteTTL:   cfg.Sync.QuoteTTL,
	})

	executor := analysis.NewExecutor(providerClient, insightRepo, analysis.NewRegistry())

	var lease scheduler.Lease
	if redisClient != nil {
		lease = redisClient
	}

	sched := scheduler.New(executor, associationRepo, assetRepo, techniqueRepo, lease, publisher, m, cfg.Scheduler)
	if err := sched.Initialize(); err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	server := httpapi.NewServer(cfg.HTTP, syncService, sched, logoStore, pg,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Info("System initialized successfully")
	waitForShutdown(server, sched, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initRedis connects Redis when enabled; without it the scheduler runs
// leaseless, which is fine for single-instance deployments.
func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, scheduler runs without batch leases")
		return nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Failed to connect to Redis, continuing without leases: %v", err)
		return nil
	}
	return client
}

// initKafka creates the event producer when enabled
func initKafka(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka disabled, pipeline events will not be published")
		return nil
	}
	return kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains components
func waitForShutdown(server *httpapi.Server, sched *scheduler.Scheduler, tracker errors.Tracker, log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Infof("Received signal %v, shutting down...", sig)

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("HTTP shutdown error: %v", err)
	}

	if err := tracker.Flush(ctx); err != nil {
		log.Errorf("Error tracker flush failed: %v", err)
	}
	log.Info("Shutdown complete")
}
