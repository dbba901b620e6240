package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 5
	topicReadBackoff  = 2 * time.Second
)

// topicConn is the part of *kafka.Conn needed to provision topics
type topicConn interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

// createKafkaTopicIfNotExists creates the topic when no partitions can be read for it
func createKafkaTopicIfNotExists(conn topicConn, topicName string, numPartitions int, replicationFactor int, log *slog.Logger) error {
	return ensureTopic(conn, topicName, numPartitions, replicationFactor, topicReadAttempts, topicReadBackoff, log)
}

func ensureTopic(conn topicConn, topicName string, numPartitions, replicationFactor, attempts int, backoff time.Duration, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	log.Info("Checking if Kafka topic exists", "topic", topicName)
	for i := 0; i < attempts; i++ {
		partitions, err = conn.ReadPartitions(topicName)
		if err == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying", "topic", topicName, "attempt", i+1, "error", err)
		if i < attempts-1 {
			time.Sleep(backoff)
		}
	}

	if len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topicName, "partitions", len(partitions))
		return nil
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     max(numPartitions, 1),
		ReplicationFactor: max(replicationFactor, 1),
	}
	log.Info("Creating Kafka topic", "topic", topicName,
		"partitions", topicConfig.NumPartitions,
		"replication_factor", topicConfig.ReplicationFactor,
		"last_read_error", err)

	if err := conn.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}
	log.Info("Successfully created Kafka topic", "topic", topicName)
	return nil
}
