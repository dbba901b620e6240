package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/platform/messaging/producers"
)

// EventProcessor applies one decoded event message
type EventProcessor interface {
	Process(ctx context.Context, msg *shared.EventMessage) error
}

// EventHandler handles incoming engine events from Kafka
type EventHandler struct {
	processor EventProcessor
	producer  producers.DeadLetterPublisher
	logger    *slog.Logger
}

// NewEventHandler creates a new handler. producer may be nil when no DLQ is configured.
func NewEventHandler(logger *slog.Logger, processor EventProcessor, producer producers.DeadLetterPublisher) *EventHandler {
	return &EventHandler{
		processor: processor,
		producer:  producer,
		logger:    logger,
	}
}

// HandleMessage decodes and applies one Kafka message. Undecodable messages go
// to the DLQ and are committed; processing failures are returned so the
// consumer retries them.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var msg shared.EventMessage
	err := json.Unmarshal(value, &msg)
	if err == nil {
		err = msg.Validate()
	}
	if err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	logger := h.logger
	if msg.CorrelationID != "" {
		logger = h.logger.With("correlation_id", msg.CorrelationID)
	}

	if err := h.processor.Process(ctx, &msg); err != nil {
		logger.Error("Failed to process event",
			"event_id", msg.EventID.String(),
			"client", msg.Event.Client,
			"tx", msg.Event.Tx,
			"error", err,
		)
		return fmt.Errorf("processing event %s failed: %w", msg.EventID, err)
	}
	return nil
}

func (h *EventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	h.logger.Error("Failed to decode event message",
		"error", cause,
		"message_key", string(key),
	)

	if h.producer == nil {
		return fmt.Errorf("failed to decode message value: %w", cause)
	}

	reason := fmt.Sprintf("%s: %s", shared.RejectionMalformed, cause.Error())
	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ after decode error",
			"dlq_error", dlqErr,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to decode message value: %w", cause)
	}
	return nil
}
