package components

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/platform/messaging/producers"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// RejectedEvent is the DLQ payload for an event the engine refused
type RejectedEvent struct {
	RunID    uuid.UUID            `json:"run_id"`
	Sequence int                  `json:"sequence"`
	Event    transaction.Event    `json:"event"`
	Code     shared.RejectionCode `json:"code"`
	Reason   string               `json:"reason"`
}

// DLQDiagnostics publishes rejected events to the dead letter topic so they can
// be inspected or replayed. Malformed rows have no event to publish and are ignored.
type DLQDiagnostics struct {
	publisher producers.DeadLetterPublisher
	logger    *slog.Logger
}

func NewDLQDiagnostics(publisher producers.DeadLetterPublisher, logger *slog.Logger) *DLQDiagnostics {
	return &DLQDiagnostics{publisher: publisher, logger: logger}
}

func (d *DLQDiagnostics) Rejected(ctx context.Context, r service.RowRejection) {
	payload, err := json.Marshal(RejectedEvent{
		RunID:    r.RunID,
		Sequence: r.Sequence,
		Event:    r.Event,
		Code:     r.Code,
		Reason:   r.Err.Error(),
	})
	if err != nil {
		d.logger.Error("Failed to marshal rejected event", "run_id", r.RunID.String(), "error", err)
		return
	}

	key := strconv.FormatUint(uint64(r.Event.Client), 10)
	if err := d.publisher.PublishToDLQ(ctx, key, payload, string(r.Code)); err != nil {
		d.logger.Error("Failed to publish rejected event to DLQ",
			"run_id", r.RunID.String(),
			"code", r.Code,
			"error", err,
		)
	}
}

func (d *DLQDiagnostics) Malformed(context.Context, uuid.UUID, int, error) {}

func (d *DLQDiagnostics) Empty(context.Context, uuid.UUID) {}
