package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/platform/messaging/producers"
)

// EventServiceImpl implements the EventService interface
type EventServiceImpl struct {
	producer producers.EventMessagePublisher
	logger   *slog.Logger
}

func NewEventService(logger *slog.Logger, producer producers.EventMessagePublisher) EventService {
	return &EventServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// SubmitEvent publishes the event. Whether the engine accepts it is only known
// once the stream processor has applied it.
func (s *EventServiceImpl) SubmitEvent(ctx context.Context, event transaction.Event, correlationID string) (uuid.UUID, error) {
	msg := shared.NewEventMessage(event, correlationID)

	if err := s.producer.PublishEvent(ctx, msg); err != nil {
		s.logger.Error("Failed to publish event",
			"type", event.Type,
			"client", event.Client,
			"tx", event.Tx,
			"error", err,
		)
		return uuid.Nil, err
	}

	s.logger.Info("Event published",
		"event_id", msg.EventID.String(),
		"type", event.Type,
		"client", event.Client,
		"tx", event.Tx,
		"correlation_id", correlationID,
	)
	return msg.EventID, nil
}
