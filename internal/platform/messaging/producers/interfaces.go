package producers

import (
	"context"

	"github.com/payments-engine/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// EventMessagePublisher publishes engine events for the stream processor
type EventMessagePublisher interface {
	PublishEvent(ctx context.Context, msg shared.EventMessage) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
