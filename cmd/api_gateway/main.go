package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/payments-engine/internal/api_gateway"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/mongo"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/transaction_processor/components"
	processor "github.com/payments-engine/internal/transaction_processor/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := errors.Join(cfg.RequireServer(), cfg.RequireKafka(), cfg.RequirePostgres(),
		cfg.RequireMongo(), cfg.RequireRedis()); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongo.EnsureIndexes(appCtx, mongoDB); err != nil {
		log.Error("Failed to prepare MongoDB collections", "error", err)
		os.Exit(1)
	}

	var (
		redisDB *persistence.RedisDB
		cache   goredis.Cmdable
	)
	if cfg.Redis.Enabled {
		redisDB, err = persistence.NewRedisDB(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Error("Failed to initialize Redis", "error", err)
			os.Exit(1)
		}
		cache = redisDB.Client()
	}

	// Initialize Kafka producers
	eventPublisher, err := producers.NewEventPublisher(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize event publisher", "error", err)
		os.Exit(1)
	}

	var dlqProducer *producers.DLQProducer
	if cfg.Diagnostics.PublishRejections {
		dlqProducer, err = producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize DLQ Kafka producer", "error", err)
			os.Exit(1)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := components.NewMetricsDiagnostics(registry)
	if err != nil {
		log.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Batch runs share one diagnostic sink and a bounded worker pool
	sink := components.CreateDiagnosticSink(cfg, log, components.DeadLetterPublisher(dlqProducer), metrics)
	batchRunner := components.CreateBatchRunner(cfg, sink, log)

	// Initialize repositories
	snapshotRepo := postgres.NewSnapshotRepository(log, postgresDB)
	reportRepo := mongo.NewReportRepository(log, mongoDB.Database())

	// Initialize services
	services := api_gateway.Services{
		Accounts: service.NewAccountService(log, snapshotRepo),
		Events:   service.NewEventService(log, eventPublisher),
		Batches:  service.NewBatchService(log, batchRunner, reportRepo, cfg.Input.TrimSpaces),
	}

	// Initialize REST server
	server, err := api_gateway.NewServer(log, cfg, services, cache, registry)
	if err != nil {
		log.Error("Failed to initialize REST server", "error", err)
		os.Exit(1)
	}
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so in-flight batches can finish
	if err := server.Stop(context.Background()); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if pool, ok := batchRunner.(*processor.WorkerPoolBatchService); ok {
		log.Info("Shutting down worker pool", "running_workers", pool.Running())
		pool.Shutdown()
	}

	if err := eventPublisher.Close(); err != nil {
		log.Error("Error closing event publisher", "error", err)
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	if redisDB != nil {
		if err := redisDB.Close(); err != nil {
			log.Error("Error closing Redis connection", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	closeCtx, cancelClose := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelClose()
	if err := mongoDB.Close(closeCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
