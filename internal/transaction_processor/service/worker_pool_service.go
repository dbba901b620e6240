package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// WorkerPoolBatchService bounds how many batch runs execute at once.
// Every run still gets its own engine from the wrapped runner.
type WorkerPoolBatchService struct {
	baseRunner BatchRunner
	pool       *ants.Pool
	slots      chan struct{} // nil when the pool is unbounded
	logger     *slog.Logger
	inFlight   atomic.Int64
}

type WorkerPoolConfig struct {
	Size int
}

type batchOutcome struct {
	result *BatchResult
	err    error
}

func NewWorkerPoolBatchService(
	baseRunner BatchRunner,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolBatchService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	svc := &WorkerPoolBatchService{
		baseRunner: baseRunner,
		pool:       pool,
		logger:     logger,
	}
	if config.Size > 0 {
		svc.slots = make(chan struct{}, config.Size)
	}
	return svc, nil
}

// Run waits for a free worker, submits the batch and waits for its result.
// ctx bounds both waits. When ctx ends during the run the wrapped runner sees
// the same cancellation and stops at its next event.
func (s *WorkerPoolBatchService) Run(ctx context.Context, source Source) (*BatchResult, error) {
	if err := s.acquire(ctx); err != nil {
		s.logger.Warn("Batch abandoned while waiting for a worker", "error", err)
		return nil, err
	}
	resultChan := make(chan batchOutcome, 1)

	s.inFlight.Add(1)
	err := s.pool.Submit(func() {
		result, err := s.baseRunner.Run(ctx, source)
		s.inFlight.Add(-1)
		s.release()
		resultChan <- batchOutcome{result: result, err: err}
	})
	if err != nil {
		s.inFlight.Add(-1)
		s.release()
		s.logger.Error("Failed to submit batch to worker pool", "error", err)
		return nil, err
	}

	select {
	case outcome := <-resultChan:
		return outcome.result, outcome.err
	case <-ctx.Done():
		s.logger.Warn("Batch abandoned before completion", "error", ctx.Err())
		return nil, ctx.Err()
	}
}

// acquire takes a worker slot. The pool itself would block in Submit without
// looking at ctx, so admission happens here.
func (s *WorkerPoolBatchService) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.slots == nil {
		return nil
	}
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *WorkerPoolBatchService) release() {
	if s.slots != nil {
		<-s.slots
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolBatchService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolBatchService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolBatchService) Capacity() int {
	return s.pool.Cap()
}

// InFlight returns the number of submitted runs that have not finished
func (s *WorkerPoolBatchService) InFlight() int {
	return int(s.inFlight.Load())
}
