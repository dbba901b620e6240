package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/mongo"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/data/redis"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/messaging/consumers"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/transaction_processor/components"
	"github.com/payments-engine/internal/transaction_processor/consumer"
	"github.com/payments-engine/internal/transaction_processor/service"
	"github.com/payments-engine/internal/transaction_processor/snapshot_poller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("transaction_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := errors.Join(cfg.RequireKafka(), cfg.RequirePostgres(), cfg.RequireMongo(),
		cfg.RequireRedis(), cfg.RequireSnapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Transaction Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	// Redis is optional; without it redelivered events reach the engine again
	var (
		redisDB *persistence.RedisDB
		dedupe  service.EventDeduplicator
	)
	if cfg.Redis.Enabled {
		redisDB, err = persistence.NewRedisDB(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Error("Failed to initialize Redis", "error", err)
			os.Exit(1)
		}
		dedupe = redis.NewEventDedupe(redisDB.Client(), cfg.Redis.DedupeTTL)
	}

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	dlq := components.DeadLetterPublisher(dlqProducer)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := components.NewMetricsDiagnostics(registry)
	if err != nil {
		log.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// One engine for the whole stream
	sink := components.CreateDiagnosticSink(cfg, log, dlq, metrics)
	streamService := service.NewStreamService(sink, dedupe, cfg.Output.Precision, log.With("component", "stream"))

	eventHandler := consumer.NewEventHandler(log, streamService, dlq)

	exporter := snapshot_poller.NewRepositoryExporter(log,
		postgres.NewSnapshotRepository(log, postgresDB),
		mongo.NewSnapshotStore(log, mongoDB.Database()),
	)
	poller := snapshot_poller.NewPoller(&cfg.Snapshot, streamService, exporter, log)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Shutdown context for the poller's final export, created when shutdown starts
	shutdownCtx, cancelShutdown := context.WithCancel(context.Background())
	defer cancelShutdown()

	// Start Kafka consumer
	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.EventTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to start Kafka consumer", "error", err)
		os.Exit(1)
	}

	// Start snapshot poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx, shutdownCtx)
	}()

	// Serve metrics
	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("Starting metrics listener", "addr", cfg.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics listener error: %w", err)
			}
		}()
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")
	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()
	context.AfterFunc(timeoutCtx, cancelShutdown)

	// Cancel the application context, stopping the consumer and triggering the final export
	cancelAppCtx()

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-timeoutCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	stats := streamService.Stats()
	log.Info("Stream totals",
		"run_id", streamService.RunID().String(),
		"applied", stats.Applied,
		"rejected", stats.Rejected,
		"duplicates", stats.Duplicates,
	)

	if metricsServer != nil {
		if err := metricsServer.Shutdown(timeoutCtx); err != nil {
			log.Error("Error stopping metrics listener", "error", err)
		}
	}

	// Close DLQ Kafka producer
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	// Close Kafka consumer
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	if redisDB != nil {
		if err := redisDB.Close(); err != nil {
			log.Error("Error closing Redis connection", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err := mongoDB.Close(timeoutCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Transaction Processor shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Transaction Processor shutdown completed successfully")
}
