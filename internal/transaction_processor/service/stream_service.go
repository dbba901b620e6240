package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/transaction_processor/engine"
)

// StreamStats counts what a StreamService has done since it started
type StreamStats struct {
	Applied    int
	Rejected   int
	Duplicates int
}

// StreamService feeds a single long-lived engine one message at a time.
// The mutex serializes event application against snapshot reads.
type StreamService struct {
	mu        sync.Mutex
	engine    *engine.Engine
	runID     uuid.UUID
	sink      DiagnosticSink
	dedupe    EventDeduplicator
	precision int32
	stats     StreamStats
	logger    *slog.Logger
}

// NewStreamService creates the service. dedupe may be nil, in which case
// redelivered messages are applied again and rejected by the engine as usual.
func NewStreamService(sink DiagnosticSink, dedupe EventDeduplicator, precision int32, logger *slog.Logger) *StreamService {
	runID := uuid.New()
	return &StreamService{
		engine:    engine.New(),
		runID:     runID,
		sink:      sink,
		dedupe:    dedupe,
		precision: precision,
		logger:    logger.With("run_id", runID.String()),
	}
}

// RunID identifies this engine instance in exported snapshots and diagnostics
func (s *StreamService) RunID() uuid.UUID {
	return s.runID
}

// Process applies one message. Engine rejections are reported to the sink and
// are not errors; an error means the message should be retried.
func (s *StreamService) Process(ctx context.Context, msg *shared.EventMessage) error {
	logger := s.logger
	if msg.CorrelationID != "" {
		logger = s.logger.With("correlation_id", msg.CorrelationID)
	}

	if s.dedupe != nil {
		seen, err := s.dedupe.MarkSeen(ctx, msg.EventID)
		if err != nil {
			logger.Error("Failed to check event id", "event_id", msg.EventID.String(), "error", err)
			return fmt.Errorf("dedupe check for event %s failed: %w", msg.EventID, err)
		}
		if seen {
			logger.Info("Skipping redelivered event", "event_id", msg.EventID.String())
			s.mu.Lock()
			s.stats.Duplicates++
			s.mu.Unlock()
			return nil
		}
	}

	s.mu.Lock()
	err := s.engine.Apply(msg.Event)
	if err != nil {
		s.stats.Rejected++
	} else {
		s.stats.Applied++
	}
	seq := s.stats.Applied + s.stats.Rejected
	s.mu.Unlock()

	if err != nil {
		s.sink.Rejected(ctx, RowRejection{
			RunID:    s.runID,
			Sequence: seq,
			Event:    msg.Event,
			Code:     engine.CodeOf(err),
			Err:      err,
		})
		return nil
	}

	logger.Debug("Event applied",
		"event_id", msg.EventID.String(),
		"type", msg.Event.Type,
		"client", msg.Event.Client,
		"tx", msg.Event.Tx,
	)
	return nil
}

// Snapshot renders every account, ordered by client
func (s *StreamService) Snapshot() []account.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot(s.precision)
}

// Account renders one client's account, if the client was ever seen
func (s *StreamService) Account(client uint16) (account.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.engine.Account(client)
	if !ok {
		return account.Snapshot{}, false
	}
	return acc.Snapshot(s.precision), true
}

func (s *StreamService) Stats() StreamStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
