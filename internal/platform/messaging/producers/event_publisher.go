package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// EventPublisher writes engine events to the event topic. Messages are keyed by
// client and hashed to partitions, so each client's events stay in order.
type EventPublisher struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewEventPublisher creates the producer and ensures the topic exists
func NewEventPublisher(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EventPublisher, error) {
	if cfg.EventTopic == "" {
		return nil, fmt.Errorf("kafka event topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for event publisher: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.EventTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure event topic %s exists: %w", cfg.EventTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false, // callers answer 202 only once the broker has the event
		WriteTimeout: cfg.MaxWait,
	}

	return &EventPublisher{
		logger: logger,
		writer: writer,
		topic:  cfg.EventTopic,
	}, nil
}

// PublishEvent sends one event message keyed by its client
func (p *EventPublisher) PublishEvent(ctx context.Context, msg shared.EventMessage) error {
	return p.Publish(ctx, msg.Key(), msg)
}

func (p *EventPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *EventPublisher) Close() error {
	p.logger.Info("Closing event publisher", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
