package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/transaction_processor/engine"
)

// BatchResult summarizes one completed run
type BatchResult struct {
	RunID            uuid.UUID
	Accounts         []account.Snapshot
	Applied          int
	Rejected         int
	Malformed        int
	RejectionsByCode map[shared.RejectionCode]int
	StartedAt        time.Time
	FinishedAt       time.Time
}

// Empty reports whether the run saw no well-formed event
func (r *BatchResult) Empty() bool {
	return r.Applied == 0 && r.Rejected == 0
}

// BatchService applies a whole source to a fresh engine. Each Run owns its own
// engine, so one BatchService may serve concurrent runs.
type BatchService struct {
	sink      DiagnosticSink
	precision int32
	logger    *slog.Logger
}

func NewBatchService(sink DiagnosticSink, precision int32, logger *slog.Logger) *BatchService {
	return &BatchService{
		sink:      sink,
		precision: precision,
		logger:    logger,
	}
}

// Run applies every event in source order. Per-event rejections and malformed
// rows go to the diagnostic sink and never stop the run. Only a source failure
// or a cancelled context aborts it.
func (s *BatchService) Run(ctx context.Context, source Source) (*BatchResult, error) {
	result := &BatchResult{
		RunID:            uuid.New(),
		RejectionsByCode: make(map[shared.RejectionCode]int),
		StartedAt:        time.Now().UTC(),
	}
	logger := s.logger.With("run_id", result.RunID.String())
	logger.Debug("Starting batch run")

	eng := engine.New()
	seq := 0

	for {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch run cancelled", "events_read", seq, "error", err)
			return nil, fmt.Errorf("batch run %s cancelled: %w", result.RunID, err)
		}

		event, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var malformed *transaction.MalformedError
			if errors.As(err, &malformed) {
				result.Malformed++
				s.sink.Malformed(ctx, result.RunID, malformed.Row, malformed.Err)
				continue
			}
			logger.Error("Failed to read input", "error", err)
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		seq++

		if err := eng.Apply(event); err != nil {
			code := engine.CodeOf(err)
			result.Rejected++
			result.RejectionsByCode[code]++
			s.sink.Rejected(ctx, RowRejection{
				RunID:    result.RunID,
				Sequence: seq,
				Event:    event,
				Code:     code,
				Err:      err,
			})
			continue
		}
		result.Applied++
	}

	if result.Empty() {
		s.sink.Empty(ctx, result.RunID)
	}

	result.Accounts = eng.Snapshot(s.precision)
	result.FinishedAt = time.Now().UTC()

	logger.Info("Batch run finished",
		"accounts", len(result.Accounts),
		"applied", result.Applied,
		"rejected", result.Rejected,
		"malformed", result.Malformed,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	return result, nil
}
