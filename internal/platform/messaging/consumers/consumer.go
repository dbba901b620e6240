package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/payments-engine/internal/config"
	"github.com/segmentio/kafka-go"
)

type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// messageReader is the subset of *kafka.Reader the consumer loop uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultHandlerAttempts = 3
	defaultRetryBackoff    = time.Second
)

// KafkaConsumer reads the event topic in a consumer group. Offsets are committed
// only after the handler succeeds; a message whose handler keeps failing is
// retried a bounded number of times and then left uncommitted.
type KafkaConsumer struct {
	reader   messageReader
	logger   *slog.Logger
	topic    string
	groupID  string
	attempts int
	backoff  time.Duration
	done     chan struct{}
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	return newKafkaConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Brokers},
		Topic:       cfg.EventTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	}), logger, cfg.EventTopic, cfg.ConsumerGroup)
}

func newKafkaConsumer(reader messageReader, logger *slog.Logger, topic, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		reader:   reader,
		logger:   logger.With("topic", topic, "group_id", groupID),
		topic:    topic,
		groupID:  groupID,
		attempts: defaultHandlerAttempts,
		backoff:  defaultRetryBackoff,
		done:     make(chan struct{}),
	}
}

// Subscribe starts the fetch loop in the background and returns immediately.
// Done is closed once the loop exits.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic")

	go func() {
		defer close(c.done)
		for {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer")
				return
			}

			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Context canceled, stopping consumer")
					return
				}
				c.logger.Error("Failed to fetch message from Kafka", "error", err)
				if !sleepCtx(ctx, c.backoff) {
					return
				}
				continue
			}

			c.logger.Debug("Received message from Kafka",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
			)

			if !c.handle(ctx, msg, handler) {
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message after successful processing",
					"partition", msg.Partition,
					"offset", msg.Offset,
					"key", string(msg.Key),
					"error", err,
				)
			}
		}
	}()

	return nil
}

// handle runs the handler with retries and reports whether the message can be committed
func (c *KafkaConsumer) handle(ctx context.Context, msg kafka.Message, handler MessageHandler) bool {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			return true
		}
		c.logger.Error("Failed to process message",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"attempt", attempt,
			"error", err,
		)
		if attempt < c.attempts && !sleepCtx(ctx, c.backoff) {
			return false
		}
	}
	c.logger.Warn("Giving up on message, offset will not be committed",
		"partition", msg.Partition,
		"offset", msg.Offset,
	)
	return false
}

// Done is closed when the fetch loop started by Subscribe has stopped
func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
