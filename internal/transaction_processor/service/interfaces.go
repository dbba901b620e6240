package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
)

// Source supplies events in order. Next returns io.EOF at the end of input and a
// *transaction.MalformedError for a single unreadable row; any other error is fatal.
type Source interface {
	Next() (transaction.Event, error)
}

// RowRejection describes one event the engine refused
type RowRejection struct {
	RunID    uuid.UUID
	Sequence int // position of the event in its source, starting at 1
	Event    transaction.Event
	Code     shared.RejectionCode
	Err      error
}

// DiagnosticSink receives per-event problems. A run never fails because of them.
// Implementations must be safe for concurrent use when shared by several runs.
type DiagnosticSink interface {
	Rejected(ctx context.Context, rejection RowRejection)
	Malformed(ctx context.Context, runID uuid.UUID, row int, err error)
	// Empty is called once when a run saw no well-formed event at all
	Empty(ctx context.Context, runID uuid.UUID)
}

// BatchRunner runs a complete, independent batch against a fresh engine
type BatchRunner interface {
	Run(ctx context.Context, source Source) (*BatchResult, error)
}

// EventDeduplicator remembers event ids already applied by the stream processor
type EventDeduplicator interface {
	// MarkSeen records the id and reports whether it had been recorded before
	MarkSeen(ctx context.Context, eventID uuid.UUID) (bool, error)
}
