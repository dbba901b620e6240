package components

import (
	"log/slog"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// DeadLetterPublisher returns p as a publisher, or a nil interface when the
// DLQ producer was not created because no DLQ topic is configured.
func DeadLetterPublisher(p *producers.DLQProducer) producers.DeadLetterPublisher {
	if p == nil {
		return nil
	}
	return p
}

// CreateDiagnosticSink builds the sink selected by configuration.
// dlq and metrics are optional; a nil value leaves that sink out.
func CreateDiagnosticSink(
	cfg *config.Config,
	logger *slog.Logger,
	dlq producers.DeadLetterPublisher,
	metrics *MetricsDiagnostics,
) service.DiagnosticSink {
	var sinks MultiDiagnostics

	if cfg.Diagnostics.Enabled {
		sinks = append(sinks, NewLogDiagnostics(logger))
	}
	if cfg.Diagnostics.PublishRejections && dlq != nil {
		sinks = append(sinks, NewDLQDiagnostics(dlq, logger.With("component", "dlq_diagnostics")))
	}
	if metrics != nil {
		sinks = append(sinks, metrics)
	}

	switch len(sinks) {
	case 0:
		return DiscardDiagnostics{}
	case 1:
		return sinks[0]
	}
	return sinks
}

// CreateBatchRunner returns a BatchService wrapped in a bounded worker pool,
// falling back to the plain service when the pool cannot be built.
func CreateBatchRunner(
	cfg *config.Config,
	sink service.DiagnosticSink,
	logger *slog.Logger,
) service.BatchRunner {
	baseService := service.NewBatchService(sink, cfg.Output.Precision, logger)

	workerPoolService, err := service.NewWorkerPoolBatchService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool batch service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
